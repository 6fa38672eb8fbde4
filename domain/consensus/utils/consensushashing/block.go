package consensushashing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// BlockHash returns the given block's hash. The stored block.Hash is not part
// of the digest.
func BlockHash(block *externalapi.DomainBlock) string {
	return NewBlockHasher(block).Hash(block.Nonce)
}

// BlockHasher hashes a block with varying nonces. Everything but the
// nonce is serialized once, which keeps the proof-of-work search loop cheap.
// A BlockHasher is not safe for concurrent use.
type BlockHasher struct {
	prefix []byte
	buffer []byte
}

// NewBlockHasher returns a BlockHasher for the given block. Later changes to
// the block aren't seen by the hasher.
func NewBlockHasher(block *externalapi.DomainBlock) *BlockHasher {
	prefix := make([]byte, 0, 256)
	prefix = append(prefix, formatUint(block.Index)...)
	prefix = append(prefix, block.PreviousHashString()...)
	prefix = append(prefix, formatInt(block.Timestamp)...)
	prefix = append(prefix, SerializeTransactions(block.Transactions)...)
	prefix = append(prefix, formatUint(uint64(block.Difficulty))...)
	return &BlockHasher{prefix: prefix}
}

// Hash returns the block hash for the given nonce
func (bh *BlockHasher) Hash(nonce uint64) string {
	digest := bh.Digest(nonce)
	return hex.EncodeToString(digest[:])
}

// Digest returns the raw SHA-256 digest of the block for the given nonce
func (bh *BlockHasher) Digest(nonce uint64) [sha256.Size]byte {
	bh.buffer = strconv.AppendUint(append(bh.buffer[:0], bh.prefix...), nonce, 10)
	return sha256.Sum256(bh.buffer)
}

// SerializeTransactions returns the canonical JSON encoding of a block's data
// as it is fed into the block hash
func SerializeTransactions(transactions []*externalapi.DomainTransaction) []byte {
	if transactions == nil {
		transactions = []*externalapi.DomainTransaction{}
	}
	serialized, err := json.Marshal(transactions)
	if err != nil {
		// Transactions only hold strings and integers, so encoding can't fail
		panic(errors.Wrap(err, "this should never happen. Transactions should always be JSON serializable"))
	}
	return serialized
}
