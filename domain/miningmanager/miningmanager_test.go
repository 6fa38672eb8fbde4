package miningmanager

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/moecoin/moecoind/domain"
	"github.com/moecoin/moecoind/domain/chainconfig"
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/ruleerrors"
	"github.com/moecoin/moecoind/domain/consensus/utils/mining"
	"github.com/moecoin/moecoind/domain/consensus/utils/testutils"
	"github.com/pkg/errors"
)

func TestMineBlock(t *testing.T) {
	d := domain.New(&chainconfig.MainnetParams)
	_, minerAddress := testutils.GenerateKey(t)
	mm := New(d, nil)

	block, err := mm.MineBlock(context.Background(), minerAddress)
	if err != nil {
		t.Fatalf("MineBlock: %+v", err)
	}
	if block.Index != 1 || !d.LatestBlock().Equal(block) {
		t.Fatalf("MineBlock: the mined block isn't the new tip")
	}
	reward := block.Transactions[0]
	if reward.Outputs[0].Address != minerAddress || reward.Outputs[0].Amount != chainconfig.MainnetParams.BlockReward {
		t.Fatalf("MineBlock: unexpected reward transaction %v", reward)
	}
}

func TestMineBlockCancelled(t *testing.T) {
	d := domain.New(&chainconfig.MainnetParams)
	_, minerAddress := testutils.GenerateKey(t)
	mm := New(d, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := mm.MineBlock(ctx, minerAddress)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("MineBlock: expected context.Canceled, got %+v", err)
	}
	if len(d.Blocks()) != 1 {
		t.Fatalf("MineBlock: a cancelled search committed a block")
	}
}

// racingDomain commits a competing block right after handing out the first
// block template, the way a peer's block could arrive mid-search
type racingDomain struct {
	domain.Domain
	t                 *testing.T
	competitorAddress string
	templatesBuilt    int32
}

func (rd *racingDomain) BuildBlockTemplate(minerAddress string) *externalapi.DomainBlockTemplate {
	template := rd.Domain.BuildBlockTemplate(minerAddress)
	if atomic.AddInt32(&rd.templatesBuilt, 1) == 1 {
		competitor := rd.Domain.BuildBlockTemplate(rd.competitorAddress)
		mining.SolveBlock(competitor.Block, 0, nil)
		err := rd.Domain.ValidateAndInsertBlock(competitor.Block)
		if err != nil {
			rd.t.Fatalf("ValidateAndInsertBlock: %+v", err)
		}
	}
	return template
}

func TestMineBlockRebuildsTemplateWhenTipChanges(t *testing.T) {
	_, minerAddress := testutils.GenerateKey(t)
	_, competitorAddress := testutils.GenerateKey(t)
	rd := &racingDomain{
		Domain:            domain.New(&chainconfig.MainnetParams),
		t:                 t,
		competitorAddress: competitorAddress,
	}
	mm := New(rd, nil)

	block, err := mm.MineBlock(context.Background(), minerAddress)
	if err != nil {
		t.Fatalf("MineBlock: %+v", err)
	}
	if atomic.LoadInt32(&rd.templatesBuilt) != 2 {
		t.Fatalf("MineBlock: expected the template to be rebuilt once, got %d templates",
			atomic.LoadInt32(&rd.templatesBuilt))
	}
	if block.Index != 2 {
		t.Fatalf("MineBlock: expected the block to be mined on top of the competing block, got index %d",
			block.Index)
	}
	blocks := rd.Blocks()
	if len(blocks) != 3 || blocks[1].Transactions[0].Outputs[0].Address != competitorAddress {
		t.Fatalf("MineBlock: the competing block was replaced")
	}
}

func TestStartAndStop(t *testing.T) {
	d := domain.New(&chainconfig.MainnetParams)
	_, minerAddress := testutils.GenerateKey(t)

	minedBlocks := make(chan *externalapi.DomainBlock, 100)
	mm := New(d, func(block *externalapi.DomainBlock) {
		select {
		case minedBlocks <- block:
		default:
		}
	})
	mm.Start(minerAddress)

	select {
	case block := <-minedBlocks:
		if block.Index == 0 {
			t.Fatalf("Start: the handler was called with the genesis block")
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("Start: no block was mined in time")
	}

	mm.Stop()
	mm.Stop()

	chainLength := len(d.Blocks())
	time.Sleep(100 * time.Millisecond)
	if len(d.Blocks()) != chainLength {
		t.Fatalf("Stop: blocks were mined after the miner stopped")
	}
}

func TestMineBlockInvalidAddress(t *testing.T) {
	d := domain.New(&chainconfig.MainnetParams)
	mm := New(d, nil)

	_, err := mm.MineBlock(context.Background(), "not-an-address")
	if !errors.Is(err, ruleerrors.ErrBadAddress) {
		t.Fatalf("MineBlock: expected ErrBadAddress, got %+v", err)
	}
	if atomic.LoadUint64(&mm.hashesTried) != 0 {
		t.Fatalf("MineBlock: searched for a block paying an invalid address")
	}
}

func TestStartWithInvalidAddressStopsMining(t *testing.T) {
	d := domain.New(&chainconfig.MainnetParams)
	mm := New(d, nil)

	mm.Start("not-an-address")
	time.Sleep(300 * time.Millisecond)
	mm.Stop()

	if hashesTried := atomic.LoadUint64(&mm.hashesTried); hashesTried != 0 {
		t.Fatalf("Start: the miner kept searching with an invalid address, %d hashes tried", hashesTried)
	}
	if len(d.Blocks()) != 1 {
		t.Fatalf("Start: a block paying an invalid address was committed")
	}
}

// unavailableDomain rejects every block with an error unrelated to the tip
type unavailableDomain struct {
	domain.Domain
	insertAttempts int32
}

func (ud *unavailableDomain) ValidateAndInsertBlock(*externalapi.DomainBlock) error {
	atomic.AddInt32(&ud.insertAttempts, 1)
	return errors.New("block storage unavailable")
}

func TestGenerateLoopBacksOffOnFailure(t *testing.T) {
	originalMinRetryDelay := minRetryDelay
	minRetryDelay = 200 * time.Millisecond
	defer func() { minRetryDelay = originalMinRetryDelay }()

	ud := &unavailableDomain{Domain: domain.New(&chainconfig.MainnetParams)}
	_, minerAddress := testutils.GenerateKey(t)
	mm := New(ud, nil)

	mm.Start(minerAddress)
	time.Sleep(500 * time.Millisecond)
	mm.Stop()

	insertAttempts := atomic.LoadInt32(&ud.insertAttempts)
	if insertAttempts == 0 {
		t.Fatalf("Start: the miner never tried to commit a block")
	}
	if insertAttempts > 3 {
		t.Fatalf("Start: expected the miner to back off after failures, got %d commit attempts", insertAttempts)
	}
}

func TestNextRetryDelay(t *testing.T) {
	tests := []struct {
		previous time.Duration
		expected time.Duration
	}{
		{previous: 0, expected: minRetryDelay},
		{previous: minRetryDelay, expected: 2 * minRetryDelay},
		{previous: maxRetryDelay / 2, expected: maxRetryDelay},
		{previous: maxRetryDelay, expected: maxRetryDelay},
	}
	for _, test := range tests {
		delay := nextRetryDelay(test.previous)
		if delay != test.expected {
			t.Errorf("nextRetryDelay(%s): expected %s, got %s", test.previous, test.expected, delay)
		}
	}
}
