package pow

import (
	"encoding/hex"
	"math/big"
	"math/bits"
)

// LeadingZeroBits returns the number of leading zero bits of the given digest
func LeadingZeroBits(digest []byte) uint32 {
	var zeros uint32
	for _, b := range digest {
		if b != 0 {
			return zeros + uint32(bits.LeadingZeros8(b))
		}
		zeros += 8
	}
	return zeros
}

// CheckDigest returns whether the digest has at least difficulty leading zero bits
func CheckDigest(digest []byte, difficulty uint32) bool {
	return LeadingZeroBits(digest) >= difficulty
}

// CheckProofOfWork returns whether the hex encoded block hash has at least
// difficulty leading zero bits. A hash that isn't valid hex never passes.
func CheckProofOfWork(hash string, difficulty uint32) bool {
	digest, err := hex.DecodeString(hash)
	if err != nil {
		return false
	}
	return CheckDigest(digest, difficulty)
}

// BlockWork returns the work a block of the given difficulty contributes to
// its chain: 2^difficulty
func BlockWork(difficulty uint32) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(difficulty))
}
