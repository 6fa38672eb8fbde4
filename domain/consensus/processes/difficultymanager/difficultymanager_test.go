package difficultymanager

import (
	"testing"
	"time"

	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
)

func chainWithTimestamps(timestamps []int64, difficulty uint32) []*externalapi.DomainBlock {
	chain := make([]*externalapi.DomainBlock, len(timestamps))
	for i, timestamp := range timestamps {
		chain[i] = &externalapi.DomainBlock{Index: uint64(i), Timestamp: timestamp, Difficulty: difficulty}
	}
	return chain
}

func evenlySpaced(count int, start int64, spacing int64) []int64 {
	timestamps := make([]int64, count)
	for i := range timestamps {
		timestamps[i] = start + int64(i)*spacing
	}
	return timestamps
}

func TestRequiredDifficulty(t *testing.T) {
	dm := New(10, 10*time.Second)

	tests := []struct {
		name       string
		chain      []*externalapi.DomainBlock
		difficulty uint32
	}{
		{name: "genesis only", chain: chainWithTimestamps(evenlySpaced(1, 0, 1), 3), difficulty: 3},
		{name: "fast blocks at index 10", chain: chainWithTimestamps(evenlySpaced(10, 0, 1), 3), difficulty: 4},
		{name: "slow blocks at index 10", chain: chainWithTimestamps(evenlySpaced(10, 0, 30), 3), difficulty: 2},
		{name: "on target at index 10", chain: chainWithTimestamps(evenlySpaced(10, 0, 11), 3), difficulty: 3},
		{name: "slow blocks at zero difficulty", chain: chainWithTimestamps(evenlySpaced(10, 0, 30), 0), difficulty: 0},
		{name: "fast blocks at index 20", chain: chainWithTimestamps(evenlySpaced(20, 0, 1), 5), difficulty: 6},
	}
	for _, test := range tests {
		difficulty := dm.RequiredDifficulty(test.chain)
		if difficulty != test.difficulty {
			t.Errorf("RequiredDifficulty(%s): expected %d, got %d", test.name, test.difficulty, difficulty)
		}
	}
}

func TestDifficultyInvariantBetweenAdjustments(t *testing.T) {
	dm := New(10, 10*time.Second)

	// Blocks one second apart would raise the difficulty at every
	// adjustment, but only positive multiples of 10 may adjust.
	for length := 1; length <= 35; length++ {
		chain := chainWithTimestamps(evenlySpaced(length, 0, 1), 7)
		nextIndex := uint64(length)
		difficulty := dm.RequiredDifficulty(chain)
		adjusts := nextIndex%10 == 0
		if adjusts && difficulty != 8 {
			t.Errorf("RequiredDifficulty: expected an adjustment at index %d, got %d", nextIndex, difficulty)
		}
		if !adjusts && difficulty != 7 {
			t.Errorf("RequiredDifficulty: difficulty changed to %d at index %d", difficulty, nextIndex)
		}
	}
}

func TestChainWeight(t *testing.T) {
	heavy := chainWithTimestamps(evenlySpaced(5, 0, 1), 4)
	long := chainWithTimestamps(evenlySpaced(20, 0, 1), 0)

	if ChainWeight(heavy).Cmp(ChainWeight(long)) <= 0 {
		t.Fatalf("TestChainWeight: expected 5 blocks at difficulty 4 (%s) to outweigh 20 blocks at difficulty 0 (%s)",
			ChainWeight(heavy), ChainWeight(long))
	}
	if ChainWeight(heavy).Int64() != 80 || ChainWeight(long).Int64() != 20 {
		t.Fatalf("TestChainWeight: unexpected weights %s and %s", ChainWeight(heavy), ChainWeight(long))
	}
}
