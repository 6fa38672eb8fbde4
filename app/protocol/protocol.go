package protocol

import (
	"sync/atomic"

	"github.com/moecoin/moecoind/app/appmessage"
	"github.com/moecoin/moecoind/app/protocol/common"
	"github.com/moecoin/moecoind/app/protocol/flows/chainsync"
	"github.com/moecoin/moecoind/app/protocol/flows/mempoolsync"
	"github.com/moecoin/moecoind/app/protocol/flows/ping"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter"
	routerpkg "github.com/moecoin/moecoind/infrastructure/network/netadapter/router"
)

func (m *Manager) routerInitializer(router *routerpkg.Router, netConnection *netadapter.NetConnection) {
	if atomic.LoadUint32(&m.isClosed) != 0 {
		log.Debugf("Not starting flows for %s: the protocol manager is closed", netConnection)
		return
	}

	// isStopping flag is raised the moment that the connection associated with this router is disconnected
	// errChan is used by the flow goroutines to return to runFlows when an error occurs.
	// They are both initialized here and passed to register flows.
	isStopping := uint32(0)
	errChan := make(chan error)

	flows := m.registerFlows(router, errChan, &isStopping)

	m.routersWaitGroup.Add(1)
	spawn("routerInitializer-runFlows", func() {
		defer m.routersWaitGroup.Done()

		err := m.runFlows(flows, netConnection, errChan)
		m.handleError(err, netConnection)
	})
}

func (m *Manager) registerFlows(router *routerpkg.Router, errChan chan error, isStopping *uint32) []*common.Flow {
	outgoingRoute := router.OutgoingRoute()

	return []*common.Flow{
		m.addFlow("HandleChainRequests", router,
			[]appmessage.MessageCommand{appmessage.CmdGetLatest, appmessage.CmdGetAll}, isStopping, errChan,
			func(incomingRoute *routerpkg.Route, netConnection *netadapter.NetConnection) error {
				return chainsync.HandleChainRequests(m.context, incomingRoute, outgoingRoute)
			},
		),

		m.addFlow("HandleBlockchainResponse", router,
			[]appmessage.MessageCommand{appmessage.CmdBlockchainResponse}, isStopping, errChan,
			func(incomingRoute *routerpkg.Route, netConnection *netadapter.NetConnection) error {
				return chainsync.HandleBlockchainResponse(m.context, incomingRoute, outgoingRoute, netConnection)
			},
		),

		m.addFlow("HandleMempoolRequests", router,
			[]appmessage.MessageCommand{appmessage.CmdRequestMempool}, isStopping, errChan,
			func(incomingRoute *routerpkg.Route, netConnection *netadapter.NetConnection) error {
				return mempoolsync.HandleMempoolRequests(m.context, incomingRoute, outgoingRoute)
			},
		),

		m.addFlow("HandleMempoolResponse", router,
			[]appmessage.MessageCommand{appmessage.CmdMempoolResponse}, isStopping, errChan,
			func(incomingRoute *routerpkg.Route, netConnection *netadapter.NetConnection) error {
				return mempoolsync.HandleMempoolResponse(m.context, incomingRoute, netConnection)
			},
		),

		m.addFlow("ReceiveHeartbeats", router,
			[]appmessage.MessageCommand{appmessage.CmdHeartbeat}, isStopping, errChan,
			func(incomingRoute *routerpkg.Route, netConnection *netadapter.NetConnection) error {
				return ping.ReceiveHeartbeats(incomingRoute)
			},
		),

		m.addOutgoingFlow("SendHeartbeats", isStopping, errChan,
			func(netConnection *netadapter.NetConnection) error {
				return ping.SendHeartbeats(m.context, outgoingRoute)
			},
		),
	}
}

func (m *Manager) addFlow(name string, router *routerpkg.Router, messageTypes []appmessage.MessageCommand,
	isStopping *uint32, errChan chan error, initializeFunc common.FlowInitializeFunc) *common.Flow {

	route, err := router.AddIncomingRoute(name, messageTypes)
	if err != nil {
		panic(err)
	}

	return &common.Flow{
		Name: name,
		ExecuteFunc: func(netConnection *netadapter.NetConnection) {
			err := initializeFunc(route, netConnection)
			if err != nil {
				m.context.HandleError(err, name, isStopping, errChan)
				return
			}
		},
	}
}

func (m *Manager) addOutgoingFlow(name string, isStopping *uint32, errChan chan error,
	executeFunc func(netConnection *netadapter.NetConnection) error) *common.Flow {

	return &common.Flow{
		Name: name,
		ExecuteFunc: func(netConnection *netadapter.NetConnection) {
			err := executeFunc(netConnection)
			if err != nil {
				m.context.HandleError(err, name, isStopping, errChan)
				return
			}
		},
	}
}
