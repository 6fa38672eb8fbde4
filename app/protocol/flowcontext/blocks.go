package flowcontext

import (
	"github.com/moecoin/moecoind/app/appmessage"
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
)

// AddBlock commits the given block on top of the chain and propagates it.
func (f *FlowContext) AddBlock(block *externalapi.DomainBlock) error {
	err := f.domain.ValidateAndInsertBlock(block)
	if err != nil {
		return err
	}
	f.OnNewBlock(block)
	return nil
}

// OnNewBlock propagates a block that was just committed to the chain
// as a single-block BLOCKCHAIN_RESPONSE.
func (f *FlowContext) OnNewBlock(block *externalapi.DomainBlock) {
	log.Infof("Accepted block %s at index %d", block.Hash, block.Index)
	f.Broadcast(appmessage.NewMsgBlockchainResponse([]*externalapi.DomainBlock{block}))
}

// ReplaceChain replaces the local chain with the given one if it's valid
// and heavier, and propagates the new tip.
func (f *FlowContext) ReplaceChain(chain []*externalapi.DomainBlock) (bool, error) {
	replaced, err := f.domain.ReplaceChain(chain)
	if err != nil || !replaced {
		return false, err
	}

	latestBlock := f.domain.LatestBlock()
	log.Infof("Replaced the chain. The new tip is %s at index %d", latestBlock.Hash, latestBlock.Index)
	f.Broadcast(appmessage.NewMsgBlockchainResponse([]*externalapi.DomainBlock{latestBlock}))
	return true, nil
}
