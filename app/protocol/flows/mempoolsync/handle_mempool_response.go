package mempoolsync

import (
	"github.com/moecoin/moecoind/app/appmessage"
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/miningmanager/mempool"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter/router"
)

// HandleMempoolResponseContext is the interface for the context needed for the HandleMempoolResponse flow.
type HandleMempoolResponseContext interface {
	AddTransaction(tx *externalapi.DomainTransaction) error
}

type handleMempoolResponseFlow struct {
	HandleMempoolResponseContext
	incomingRoute *router.Route
	peer          *netadapter.NetConnection
}

// HandleMempoolResponse offers every transaction of a MEMPOOL_RESPONSE to
// the local mempool. Rejected transactions are logged and skipped.
func HandleMempoolResponse(context HandleMempoolResponseContext, incomingRoute *router.Route,
	peer *netadapter.NetConnection) error {

	flow := &handleMempoolResponseFlow{
		HandleMempoolResponseContext: context,
		incomingRoute:                incomingRoute,
		peer:                         peer,
	}
	return flow.start()
}

func (flow *handleMempoolResponseFlow) start() error {
	for {
		message, err := flow.incomingRoute.Dequeue()
		if err != nil {
			return err
		}
		msgMempoolResponse := message.(*appmessage.MsgMempoolResponse)

		flow.handleTransactions(msgMempoolResponse.Transactions)
	}
}

func (flow *handleMempoolResponseFlow) handleTransactions(transactions []*externalapi.DomainTransaction) {
	for _, tx := range transactions {
		err := flow.AddTransaction(tx)
		if err != nil {
			if mempool.IsDuplicateInput(err) {
				log.Debugf("Ignoring transaction %s from %s: %s", tx.ID, flow.peer, err)
				continue
			}
			log.Infof("Rejected transaction %s from %s: %s", tx.ID, flow.peer, err)
		}
	}
}
