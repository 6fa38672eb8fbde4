package pow

import (
	"math/big"
	"testing"
)

func TestCheckProofOfWork(t *testing.T) {
	tests := []struct {
		hash       string
		difficulty uint32
		expected   bool
	}{
		{hash: "ff", difficulty: 0, expected: true},
		{hash: "ff", difficulty: 1, expected: false},
		{hash: "7f", difficulty: 1, expected: true},
		{hash: "0f", difficulty: 4, expected: true},
		{hash: "0f", difficulty: 5, expected: false},
		{hash: "000080", difficulty: 16, expected: true},
		{hash: "000080", difficulty: 17, expected: false},
		{hash: "0000", difficulty: 16, expected: true},
		{hash: "zz", difficulty: 0, expected: false},
	}
	for _, test := range tests {
		result := CheckProofOfWork(test.hash, test.difficulty)
		if result != test.expected {
			t.Errorf("CheckProofOfWork(%s, %d): expected %t, got %t",
				test.hash, test.difficulty, test.expected, result)
		}
	}
}

func TestBlockWork(t *testing.T) {
	fiveAtFour := new(big.Int)
	for i := 0; i < 5; i++ {
		fiveAtFour.Add(fiveAtFour, BlockWork(4))
	}
	twentyAtZero := new(big.Int)
	for i := 0; i < 20; i++ {
		twentyAtZero.Add(twentyAtZero, BlockWork(0))
	}
	if fiveAtFour.Cmp(twentyAtZero) <= 0 {
		t.Fatalf("TestBlockWork: expected 5 blocks at difficulty 4 (%s) to outweigh 20 blocks at difficulty 0 (%s)",
			fiveAtFour, twentyAtZero)
	}
	if BlockWork(64).Cmp(new(big.Int).Lsh(big.NewInt(1), 64)) != 0 {
		t.Fatalf("TestBlockWork: BlockWork(64) overflowed")
	}
}
