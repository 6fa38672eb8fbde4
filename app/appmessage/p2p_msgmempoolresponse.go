package appmessage

import "github.com/moecoin/moecoind/domain/consensus/model/externalapi"

// MsgMempoolResponse implements the Message interface and represents a
// moecoin MEMPOOL_RESPONSE message. It carries a mempool snapshot, or a
// single newly admitted transaction being relayed.
type MsgMempoolResponse struct {
	baseMessage
	Transactions []*externalapi.DomainTransaction
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgMempoolResponse) Command() MessageCommand {
	return CmdMempoolResponse
}

// NewMsgMempoolResponse returns a new moecoin MEMPOOL_RESPONSE message that
// conforms to the Message interface.
func NewMsgMempoolResponse(transactions []*externalapi.DomainTransaction) *MsgMempoolResponse {
	return &MsgMempoolResponse{
		Transactions: transactions,
	}
}
