package flowcontext

import (
	"github.com/moecoin/moecoind/app/appmessage"
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
)

// AddTransaction adds transaction to the mempool and propagates it.
func (f *FlowContext) AddTransaction(tx *externalapi.DomainTransaction) error {
	err := f.domain.ValidateAndInsertTransaction(tx)
	if err != nil {
		return err
	}

	log.Debugf("Accepted transaction %s to the mempool", tx.ID)
	f.Broadcast(appmessage.NewMsgMempoolResponse([]*externalapi.DomainTransaction{tx}))
	return nil
}
