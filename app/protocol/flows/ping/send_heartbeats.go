package ping

import (
	"time"

	"github.com/moecoin/moecoind/app/appmessage"
	"github.com/moecoin/moecoind/infrastructure/config"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter/router"
)

// SendHeartbeatsContext is the interface for the context needed for the SendHeartbeats flow.
type SendHeartbeatsContext interface {
	Config() *config.Config
	ShutdownChan() <-chan struct{}
}

type sendHeartbeatsFlow struct {
	SendHeartbeatsContext
	outgoingRoute *router.Route
}

// SendHeartbeats opens the conversation with a new peer: it asks for the
// peer's latest block right away, for its mempool after the configured
// delay, and then keeps sending heartbeats until the route closes.
func SendHeartbeats(context SendHeartbeatsContext, outgoingRoute *router.Route) error {
	flow := &sendHeartbeatsFlow{
		SendHeartbeatsContext: context,
		outgoingRoute:         outgoingRoute,
	}
	return flow.start()
}

func (flow *sendHeartbeatsFlow) start() error {
	err := flow.outgoingRoute.Enqueue(appmessage.NewMsgGetLatest())
	if err != nil {
		return err
	}

	mempoolRequestTimer := time.NewTimer(flow.Config().MempoolDelay)
	defer mempoolRequestTimer.Stop()
	heartbeatTicker := time.NewTicker(flow.Config().Heartbeat)
	defer heartbeatTicker.Stop()

	for {
		var message appmessage.Message
		select {
		case <-flow.ShutdownChan():
			return nil
		case <-mempoolRequestTimer.C:
			message = appmessage.NewMsgRequestMempool()
		case <-heartbeatTicker.C:
			message = appmessage.NewMsgHeartbeat()
		}

		err := flow.outgoingRoute.Enqueue(message)
		if err != nil {
			return err
		}
	}
}
