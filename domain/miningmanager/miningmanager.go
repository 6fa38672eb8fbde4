package miningmanager

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/moecoin/moecoind/domain"
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/ruleerrors"
	"github.com/moecoin/moecoind/domain/consensus/utils/mining"
	"github.com/moecoin/moecoind/domain/consensus/utils/signing"
	"github.com/pkg/errors"
)

const logHashRateInterval = 10 * time.Second

// The background miner waits between minRetryDelay and maxRetryDelay,
// doubling each time, after a failure unrelated to the tip moving.
var (
	minRetryDelay = time.Second
	maxRetryDelay = time.Minute
)

// OnBlockMinedHandler is called with every block the background miner
// commits to the chain
type OnBlockMinedHandler func(block *externalapi.DomainBlock)

// MiningManager mines blocks on top of the chain held by a Domain. The
// proof-of-work search runs without holding the domain lock and is abandoned
// as soon as the tip changes underneath it.
type MiningManager struct {
	domain       domain.Domain
	onBlockMined OnBlockMinedHandler

	hashesTried uint64 // atomic

	started, shutdown int32
	cancel            context.CancelFunc
	wg                sync.WaitGroup
}

// New returns a MiningManager mining on top of the given domain.
// onBlockMined may be nil.
func New(domain domain.Domain, onBlockMined OnBlockMinedHandler) *MiningManager {
	return &MiningManager{
		domain:       domain,
		onBlockMined: onBlockMined,
	}
}

// MineBlock mines a block paying the reward to minerAddress and commits it
// to the chain. Whenever the tip changes during the search, the template is
// rebuilt on top of the new tip. A block that turns out stale when committed
// is discarded and mining starts over. MineBlock returns once a block is
// committed or ctx is done.
func (mm *MiningManager) MineBlock(ctx context.Context, minerAddress string) (*externalapi.DomainBlock, error) {
	if !signing.IsValidAddress(minerAddress) {
		return nil, errors.Wrapf(ruleerrors.ErrBadAddress, "can't mine to address '%s'", minerAddress)
	}
	for {
		template := mm.domain.BuildBlockTemplate(minerAddress)
		block := template.Block

		shouldStop := func() bool {
			select {
			case <-ctx.Done():
				return true
			default:
			}
			if mm.domain.TipVersion() != template.TipVersion {
				return true
			}
			atomic.AddUint64(&mm.hashesTried, 1)
			return false
		}

		if !mining.SolveBlock(block, rand.Uint64(), shouldStop) {
			if ctx.Err() != nil {
				return nil, errors.Wrapf(ctx.Err(), "stopped mining block %d", block.Index)
			}
			log.Debugf("The tip changed while mining block %d. Rebuilding the block template", block.Index)
			continue
		}

		err := mm.domain.ValidateAndInsertBlock(block)
		if err != nil {
			if isStaleBlockError(err) {
				log.Debugf("Mined block %s became stale before it was committed: %s", block.Hash, err)
				continue
			}
			return nil, err
		}

		log.Infof("Mined block %s at index %d with %d transactions",
			block.Hash, block.Index, len(block.Transactions))
		return block, nil
	}
}

// isStaleBlockError returns whether err was caused by the tip moving while a
// block was being mined on top of it
func isStaleBlockError(err error) bool {
	return errors.Is(err, ruleerrors.ErrBadIndex) ||
		errors.Is(err, ruleerrors.ErrBadPreviousHash) ||
		errors.Is(err, ruleerrors.ErrUnexpectedDifficulty)
}

// Start runs MineBlock in a loop until Stop is called
func (mm *MiningManager) Start(minerAddress string) {
	if atomic.AddInt32(&mm.started, 1) != 1 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	mm.cancel = cancel

	log.Infof("Starting to mine to address %s", minerAddress)
	mm.wg.Add(2)
	spawn("MiningManager.generateLoop", func() {
		defer mm.wg.Done()
		mm.generateLoop(ctx, minerAddress)
	})
	spawn("MiningManager.logHashRate", func() {
		defer mm.wg.Done()
		mm.logHashRate(ctx)
	})
}

func (mm *MiningManager) generateLoop(ctx context.Context, minerAddress string) {
	retryDelay := time.Duration(0)
	for {
		block, err := mm.MineBlock(ctx, minerAddress)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, ruleerrors.ErrBadAddress) {
				log.Errorf("Stopping the miner: %s", err)
				return
			}
			retryDelay = nextRetryDelay(retryDelay)
			log.Errorf("Error mining a block, retrying in %s: %+v", retryDelay, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryDelay):
			}
			continue
		}
		retryDelay = 0
		if mm.onBlockMined != nil {
			mm.onBlockMined(block)
		}
	}
}

func nextRetryDelay(previous time.Duration) time.Duration {
	if previous == 0 {
		return minRetryDelay
	}
	next := previous * 2
	if next > maxRetryDelay {
		return maxRetryDelay
	}
	return next
}

func (mm *MiningManager) logHashRate(ctx context.Context) {
	ticker := time.NewTicker(logHashRateInterval)
	defer ticker.Stop()

	lastCheck := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case currentTime := <-ticker.C:
			currentHashesTried := atomic.SwapUint64(&mm.hashesTried, 0)
			kiloHashesTried := float64(currentHashesTried) / 1000.0
			hashRate := kiloHashesTried / currentTime.Sub(lastCheck).Seconds()
			log.Infof("Current hash rate is %.2f Khash/s", hashRate)
			lastCheck = currentTime
		}
	}
}

// Stop stops the background miner started by Start and waits for it to exit
func (mm *MiningManager) Stop() {
	if atomic.LoadInt32(&mm.started) == 0 {
		return
	}
	if atomic.AddInt32(&mm.shutdown, 1) != 1 {
		log.Infof("Mining manager is already in the process of shutting down")
		return
	}

	log.Infof("Stopping the mining manager")
	mm.cancel()
	mm.wg.Wait()
}
