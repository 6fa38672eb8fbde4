package utxo

import (
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
)

// Set is an immutable, ordered UTXO set. Every transformation returns a new
// Set and leaves the receiver untouched, so a Set can be shared freely
// between goroutines.
type Set struct {
	entries []externalapi.UTXOEntry
	index   map[externalapi.DomainOutpoint]int
}

var _ externalapi.ReadOnlyUTXOSet = (*Set)(nil)

// NewSet returns a Set holding the given entries in the given order. Later
// duplicates of an outpoint are ignored.
func NewSet(entries []externalapi.UTXOEntry) *Set {
	set := &Set{
		entries: make([]externalapi.UTXOEntry, 0, len(entries)),
		index:   make(map[externalapi.DomainOutpoint]int, len(entries)),
	}
	for _, entry := range entries {
		set.add(entry)
	}
	return set
}

// NewEmptySet returns a Set with no entries
func NewEmptySet() *Set {
	return NewSet(nil)
}

func (s *Set) add(entry externalapi.UTXOEntry) {
	if _, exists := s.index[entry.DomainOutpoint]; exists {
		return
	}
	s.index[entry.DomainOutpoint] = len(s.entries)
	s.entries = append(s.entries, entry)
}

// Get returns the entry spendable from the given outpoint
func (s *Set) Get(outpoint externalapi.DomainOutpoint) (externalapi.UTXOEntry, bool) {
	i, ok := s.index[outpoint]
	if !ok {
		return externalapi.UTXOEntry{}, false
	}
	return s.entries[i], true
}

// Contains returns whether the given outpoint is unspent
func (s *Set) Contains(outpoint externalapi.DomainOutpoint) bool {
	_, ok := s.index[outpoint]
	return ok
}

// Entries returns a copy of the set's entries in order
func (s *Set) Entries() []externalapi.UTXOEntry {
	entries := make([]externalapi.UTXOEntry, len(s.entries))
	copy(entries, s.entries)
	return entries
}

// Len returns the number of unspent outputs
func (s *Set) Len() int {
	return len(s.entries)
}

// ApplyTransactions returns a new Set: the receiver minus every outpoint
// spent by any of the transactions, plus one entry per output of every
// transaction. The transactions are not validated.
func (s *Set) ApplyTransactions(transactions []*externalapi.DomainTransaction) *Set {
	spent := make(map[externalapi.DomainOutpoint]struct{})
	for _, tx := range transactions {
		for _, input := range tx.Inputs {
			spent[input.Outpoint()] = struct{}{}
		}
	}

	result := &Set{
		entries: make([]externalapi.UTXOEntry, 0, len(s.entries)),
		index:   make(map[externalapi.DomainOutpoint]int, len(s.entries)),
	}
	for _, entry := range s.entries {
		if _, isSpent := spent[entry.DomainOutpoint]; isSpent {
			continue
		}
		result.add(entry)
	}
	for _, tx := range transactions {
		for i, output := range tx.Outputs {
			result.add(externalapi.UTXOEntry{
				DomainOutpoint: externalapi.DomainOutpoint{TransactionID: tx.ID, Index: uint32(i)},
				Address:        output.Address,
				Amount:         output.Amount,
			})
		}
	}
	return result
}

// FilterByAddress returns the entries owned by address, in set order
func FilterByAddress(set externalapi.ReadOnlyUTXOSet, address string) []externalapi.UTXOEntry {
	var owned []externalapi.UTXOEntry
	for _, entry := range set.Entries() {
		if entry.Address == address {
			owned = append(owned, entry)
		}
	}
	return owned
}

// Equal returns whether both sets hold the same entries in the same order
func Equal(a, b externalapi.ReadOnlyUTXOSet) bool {
	if a.Len() != b.Len() {
		return false
	}
	aEntries, bEntries := a.Entries(), b.Entries()
	for i := range aEntries {
		if aEntries[i] != bEntries[i] {
			return false
		}
	}
	return true
}
