package chainsync

import (
	"github.com/moecoin/moecoind/app/appmessage"
	"github.com/moecoin/moecoind/app/protocol/protocolerrors"
	"github.com/moecoin/moecoind/domain"
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter/router"
)

// HandleChainRequestsContext is the interface for the context needed for the HandleChainRequests flow.
type HandleChainRequestsContext interface {
	Domain() domain.Domain
}

type handleChainRequestsFlow struct {
	HandleChainRequestsContext
	incomingRoute, outgoingRoute *router.Route
}

// HandleChainRequests answers GET_LATEST with the local tip and GET_ALL
// with the whole local chain, both as a BLOCKCHAIN_RESPONSE.
func HandleChainRequests(context HandleChainRequestsContext, incomingRoute *router.Route,
	outgoingRoute *router.Route) error {

	flow := &handleChainRequestsFlow{
		HandleChainRequestsContext: context,
		incomingRoute:              incomingRoute,
		outgoingRoute:              outgoingRoute,
	}
	return flow.start()
}

func (flow *handleChainRequestsFlow) start() error {
	for {
		message, err := flow.incomingRoute.Dequeue()
		if err != nil {
			return err
		}

		var blocks []*externalapi.DomainBlock
		switch message.(type) {
		case *appmessage.MsgGetLatest:
			blocks = []*externalapi.DomainBlock{flow.Domain().LatestBlock()}
		case *appmessage.MsgGetAll:
			blocks = flow.Domain().Blocks()
		default:
			return protocolerrors.Errorf(false, "unexpected message %s on the chain request route", message.Command())
		}

		log.Debugf("Answering %s with %d blocks", message.Command(), len(blocks))
		err = flow.outgoingRoute.Enqueue(appmessage.NewMsgBlockchainResponse(blocks))
		if err != nil {
			return err
		}
	}
}
