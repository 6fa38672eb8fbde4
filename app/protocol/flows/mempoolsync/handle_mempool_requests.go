package mempoolsync

import (
	"github.com/moecoin/moecoind/app/appmessage"
	"github.com/moecoin/moecoind/domain"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter/router"
)

// HandleMempoolRequestsContext is the interface for the context needed for the HandleMempoolRequests flow.
type HandleMempoolRequestsContext interface {
	Domain() domain.Domain
}

// HandleMempoolRequests answers every REQUEST_MEMPOOL with a snapshot
// of the local mempool
func HandleMempoolRequests(context HandleMempoolRequestsContext, incomingRoute *router.Route,
	outgoingRoute *router.Route) error {

	for {
		_, err := incomingRoute.Dequeue()
		if err != nil {
			return err
		}

		transactions := context.Domain().MempoolTransactions()
		log.Debugf("Answering a mempool request with %d transactions", len(transactions))
		err = outgoingRoute.Enqueue(appmessage.NewMsgMempoolResponse(transactions))
		if err != nil {
			return err
		}
	}
}
