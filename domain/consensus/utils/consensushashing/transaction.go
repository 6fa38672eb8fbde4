package consensushashing

import (
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
)

// TransactionID returns the id of the given transaction: the SHA-256 of every
// input reference, every output and the construction timestamp, in order.
// The stored tx.ID itself is not part of the digest.
func TransactionID(tx *externalapi.DomainTransaction) string {
	writer := newHashWriter()
	for _, input := range tx.Inputs {
		writer.writeString(input.OutputID)
		writer.writeUint64(uint64(input.OutputIndex))
		writer.writeUint64(input.BlockIndex)
	}
	for _, output := range tx.Outputs {
		writer.writeString(output.Address)
		writer.writeUint64(output.Amount)
	}
	writer.writeInt64(tx.Timestamp)
	return writer.finalize()
}
