package blockvalidator

import (
	"testing"
	"time"

	"github.com/moecoin/moecoind/domain/chainconfig"
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/processes/difficultymanager"
	"github.com/moecoin/moecoind/domain/consensus/ruleerrors"
	"github.com/moecoin/moecoind/domain/consensus/utils/consensushashing"
	"github.com/moecoin/moecoind/domain/consensus/utils/testutils"
	"github.com/pkg/errors"
)

func newTestValidator() *BlockValidator {
	params := &chainconfig.MainnetParams
	dm := difficultymanager.New(params.DifficultyAdjustmentInterval, params.TargetTimePerBlock)
	return New(params.TimestampDeviationTolerance, dm)
}

func TestValidateBlock(t *testing.T) {
	validator := newTestValidator()
	genesis := chainconfig.MainnetParams.GenesisBlock()
	chain := []*externalapi.DomainBlock{genesis}
	_, minerAddress := testutils.GenerateKey(t)
	reward := chainconfig.MainnetParams.BlockReward

	valid := testutils.NewBlock(genesis, minerAddress, reward, nil, genesis.Timestamp+10, 0)
	err := validator.ValidateBlockInIsolation(valid)
	if err != nil {
		t.Fatalf("ValidateBlockInIsolation: %+v", err)
	}
	err = validator.ValidateBlockInContext(valid, chain)
	if err != nil {
		t.Fatalf("ValidateBlockInContext: %+v", err)
	}

	rehash := func(block *externalapi.DomainBlock) *externalapi.DomainBlock {
		block.Hash = consensushashing.BlockHash(block)
		return block
	}

	tests := []struct {
		name        string
		block       func() *externalapi.DomainBlock
		expectedErr error
	}{
		{
			name: "tampered nonce",
			block: func() *externalapi.DomainBlock {
				block := valid.Clone()
				block.Nonce++
				return block
			},
			expectedErr: ruleerrors.ErrBlockHashMismatch,
		},
		{
			name: "malformed hash",
			block: func() *externalapi.DomainBlock {
				block := valid.Clone()
				block.Hash = "not a hash"
				return block
			},
			expectedErr: ruleerrors.ErrMalformedBlock,
		},
		{
			name: "index zero with a previous hash",
			block: func() *externalapi.DomainBlock {
				block := valid.Clone()
				block.Index = 0
				return rehash(block)
			},
			expectedErr: ruleerrors.ErrMalformedBlock,
		},
		{
			name: "no transactions",
			block: func() *externalapi.DomainBlock {
				block := valid.Clone()
				block.Transactions = nil
				return rehash(block)
			},
			expectedErr: ruleerrors.ErrNoTransactions,
		},
		{
			name: "unsolved difficulty",
			block: func() *externalapi.DomainBlock {
				block := valid.Clone()
				block.Difficulty = 40
				return rehash(block)
			},
			expectedErr: ruleerrors.ErrInvalidPoW,
		},
		{
			name: "wrong index",
			block: func() *externalapi.DomainBlock {
				return testutils.NewBlock(valid, minerAddress, reward, nil, genesis.Timestamp+10, 0)
			},
			expectedErr: ruleerrors.ErrBadIndex,
		},
		{
			name: "wrong previous hash",
			block: func() *externalapi.DomainBlock {
				other := genesis.Clone()
				other.Hash = valid.Hash
				return testutils.NewBlock(other, minerAddress, reward, nil, genesis.Timestamp+10, 0)
			},
			expectedErr: ruleerrors.ErrBadPreviousHash,
		},
		{
			name: "timestamp far behind predecessor",
			block: func() *externalapi.DomainBlock {
				return testutils.NewBlock(genesis, minerAddress, reward, nil, genesis.Timestamp-60, 0)
			},
			expectedErr: ruleerrors.ErrTimeTooOld,
		},
		{
			name: "timestamp in the future",
			block: func() *externalapi.DomainBlock {
				return testutils.NewBlock(genesis, minerAddress, reward, nil, time.Now().Unix()+120, 0)
			},
			expectedErr: ruleerrors.ErrTimeTooMuchInTheFuture,
		},
		{
			name: "unexpected difficulty",
			block: func() *externalapi.DomainBlock {
				return testutils.NewBlock(genesis, minerAddress, reward, nil, genesis.Timestamp+10, 1)
			},
			expectedErr: ruleerrors.ErrUnexpectedDifficulty,
		},
	}

	for _, test := range tests {
		block := test.block()
		err := validator.ValidateBlockInIsolation(block)
		if err == nil {
			err = validator.ValidateBlockInContext(block, chain)
		}
		if !errors.Is(err, test.expectedErr) {
			t.Errorf("ValidateBlock(%s): expected %s, got %+v", test.name, test.expectedErr, err)
		}
	}
}

func TestTimestampWindowIsExclusive(t *testing.T) {
	validator := newTestValidator()
	now := time.Unix(1600000000, 0)
	validator.timeNow = func() time.Time { return now }

	previous := &externalapi.DomainBlock{Timestamp: 1000}
	tests := []struct {
		timestamp   int64
		expectedErr error
	}{
		{timestamp: 940, expectedErr: ruleerrors.ErrTimeTooOld},
		{timestamp: 941},
		{timestamp: now.Unix() + 59},
		{timestamp: now.Unix() + 60, expectedErr: ruleerrors.ErrTimeTooMuchInTheFuture},
	}
	for _, test := range tests {
		err := validator.checkTimestamp(&externalapi.DomainBlock{Timestamp: test.timestamp}, previous)
		if test.expectedErr == nil && err != nil {
			t.Errorf("checkTimestamp(%d): unexpected error %+v", test.timestamp, err)
		}
		if test.expectedErr != nil && !errors.Is(err, test.expectedErr) {
			t.Errorf("checkTimestamp(%d): expected %s, got %+v", test.timestamp, test.expectedErr, err)
		}
	}
}
