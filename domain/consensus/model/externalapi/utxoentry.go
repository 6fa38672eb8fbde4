package externalapi

// UTXOEntry is an unspent transaction output together with the outpoint
// it is spendable from
type UTXOEntry struct {
	DomainOutpoint
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
}

// ReadOnlyUTXOSet is an immutable view of a UTXO set. Implementations never
// hand out references into their internal state.
type ReadOnlyUTXOSet interface {
	Get(outpoint DomainOutpoint) (UTXOEntry, bool)
	Contains(outpoint DomainOutpoint) bool
	Entries() []UTXOEntry
	Len() int
}
