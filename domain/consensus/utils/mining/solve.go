package mining

import (
	"math"

	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/utils/consensushashing"
	"github.com/moecoin/moecoind/domain/consensus/utils/pow"
	"github.com/pkg/errors"
)

// SolveBlock searches nonces from startNonce upwards until the block hash has
// at least block.Difficulty leading zero bits, then sets block.Nonce and
// block.Hash. shouldStop is polled before every attempt; once it returns true
// the search is abandoned, the block is left untouched and false is returned.
func SolveBlock(block *externalapi.DomainBlock, startNonce uint64, shouldStop func() bool) bool {
	hasher := consensushashing.NewBlockHasher(block)
	for nonce := startNonce; ; nonce++ {
		if shouldStop != nil && shouldStop() {
			return false
		}
		digest := hasher.Digest(nonce)
		if pow.CheckDigest(digest[:], block.Difficulty) {
			block.Nonce = nonce
			block.Hash = hasher.Hash(nonce)
			return true
		}
		if nonce == math.MaxUint64 {
			break
		}
	}

	panic(errors.New("went over all the nonce space and couldn't find a single one that gives a valid block"))
}
