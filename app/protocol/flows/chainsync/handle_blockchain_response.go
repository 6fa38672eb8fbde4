package chainsync

import (
	"github.com/moecoin/moecoind/app/appmessage"
	"github.com/moecoin/moecoind/domain"
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/processes/blockvalidator"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter/router"
)

// HandleBlockchainResponseContext is the interface for the context needed for the HandleBlockchainResponse flow.
type HandleBlockchainResponseContext interface {
	Domain() domain.Domain
	AddBlock(block *externalapi.DomainBlock) error
	ReplaceChain(chain []*externalapi.DomainBlock) (bool, error)
}

type handleBlockchainResponseFlow struct {
	HandleBlockchainResponseContext
	incomingRoute, outgoingRoute *router.Route
	peer                         *netadapter.NetConnection
}

// HandleBlockchainResponse reconciles the local chain with every
// BLOCKCHAIN_RESPONSE the peer sends.
func HandleBlockchainResponse(context HandleBlockchainResponseContext, incomingRoute *router.Route,
	outgoingRoute *router.Route, peer *netadapter.NetConnection) error {

	flow := &handleBlockchainResponseFlow{
		HandleBlockchainResponseContext: context,
		incomingRoute:                   incomingRoute,
		outgoingRoute:                   outgoingRoute,
		peer:                            peer,
	}
	return flow.start()
}

func (flow *handleBlockchainResponseFlow) start() error {
	for {
		message, err := flow.incomingRoute.Dequeue()
		if err != nil {
			return err
		}
		msgBlockchainResponse := message.(*appmessage.MsgBlockchainResponse)

		err = flow.handleBlockchainResponse(msgBlockchainResponse.Blocks)
		if err != nil {
			return err
		}
	}
}

// handleBlockchainResponse only returns errors of the outgoing route.
// Invalid blocks and chains are logged and dropped.
func (flow *handleBlockchainResponseFlow) handleBlockchainResponse(blocks []*externalapi.DomainBlock) error {
	if len(blocks) == 0 {
		log.Debugf("Received an empty chain from %s", flow.peer)
		return nil
	}

	latestBlockReceived := blocks[len(blocks)-1]
	err := blockvalidator.CheckBlockStructure(latestBlockReceived)
	if err != nil {
		log.Warnf("Received a malformed block from %s: %s", flow.peer, err)
		return nil
	}

	latestBlockHeld := flow.Domain().LatestBlock()
	if latestBlockReceived.Index <= latestBlockHeld.Index {
		log.Debugf("The chain received from %s is not longer than the local one. Ignoring it", flow.peer)
		return nil
	}

	log.Infof("The chain received from %s is possibly ahead. Local index: %d, received index: %d",
		flow.peer, latestBlockHeld.Index, latestBlockReceived.Index)

	if *latestBlockReceived.PreviousHash == latestBlockHeld.Hash {
		err := flow.AddBlock(latestBlockReceived)
		if err != nil {
			log.Infof("Rejected block %s from %s: %s", latestBlockReceived.Hash, flow.peer, err)
		}
		return nil
	}

	if len(blocks) == 1 {
		log.Debugf("Block %s doesn't extend the local tip. Requesting the full chain from %s",
			latestBlockReceived.Hash, flow.peer)
		return flow.outgoingRoute.Enqueue(appmessage.NewMsgGetAll())
	}

	replaced, err := flow.ReplaceChain(blocks)
	if err != nil {
		log.Infof("Rejected the chain received from %s: %s", flow.peer, err)
		return nil
	}
	if !replaced {
		log.Debugf("The chain received from %s is not heavier than the local one", flow.peer)
	}
	return nil
}
