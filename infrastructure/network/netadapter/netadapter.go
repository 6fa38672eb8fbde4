package netadapter

import (
	"sync"
	"sync/atomic"

	"github.com/moecoin/moecoind/app/appmessage"
	"github.com/moecoin/moecoind/infrastructure/config"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter/id"
	routerpkg "github.com/moecoin/moecoind/infrastructure/network/netadapter/router"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter/server"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter/server/grpcserver"
	"github.com/pkg/errors"
)

// RouterInitializer is a function that initializes a new
// router to be used with a new connection
type RouterInitializer func(*routerpkg.Router, *NetConnection)

// NetAdapter is an abstraction layer over networking.
// This type expects a RouteInitializer function. This
// function weaves together the various "routes" (messages
// and message handlers) without exposing anything related
// to networking internals.
type NetAdapter struct {
	cfg                  *config.Config
	id                   *id.ID
	p2pServer            grpcserver.P2PServer
	p2pRouterInitializer RouterInitializer
	stop                 uint32

	p2pConnections     map[*NetConnection]struct{}
	p2pConnectionsLock sync.RWMutex
}

// NewNetAdapter creates a new NetAdapter listening on the configured
// P2P addresses, unless listening is disabled
func NewNetAdapter(cfg *config.Config) (*NetAdapter, error) {
	netAdapterID, err := id.GenerateID()
	if err != nil {
		return nil, err
	}

	var listeners []string
	if !cfg.NoListen {
		listeners = cfg.Listeners
	}
	p2pServer, err := grpcserver.NewP2PServer(listeners, cfg.Dial)
	if err != nil {
		return nil, err
	}

	adapter := NetAdapter{
		cfg:       cfg,
		id:        netAdapterID,
		p2pServer: p2pServer,

		p2pConnections: make(map[*NetConnection]struct{}),
	}

	adapter.p2pServer.SetOnConnectedHandler(adapter.onP2PConnectedHandler)

	return &adapter, nil
}

// Start begins the operation of the NetAdapter
func (na *NetAdapter) Start() error {
	if na.p2pRouterInitializer == nil {
		return errors.New("p2pRouterInitializer was not set")
	}

	return na.p2pServer.Start()
}

// Stop safely closes the NetAdapter
func (na *NetAdapter) Stop() error {
	if atomic.AddUint32(&na.stop, 1) != 1 {
		return errors.New("net adapter stopped more than once")
	}

	for _, netConnection := range na.p2pConnectionsSnapshot() {
		netConnection.Disconnect()
	}

	return na.p2pServer.Stop()
}

// P2PConnect tells the NetAdapter's underlying p2p server to initiate a connection
// to the given address
func (na *NetAdapter) P2PConnect(address string) (*NetConnection, error) {
	if atomic.LoadUint32(&na.stop) != 0 {
		return nil, errors.New("net adapter is stopped")
	}
	connection, err := na.p2pServer.Connect(address)
	if err != nil {
		return nil, err
	}

	for _, netConnection := range na.p2pConnectionsSnapshot() {
		if netConnection.connection == connection {
			return netConnection, nil
		}
	}
	return nil, errors.Errorf("the connection to %s was closed while starting", address)
}

// P2PConnections returns a list of p2p connections currently connected and active
func (na *NetAdapter) P2PConnections() []*NetConnection {
	snapshot := na.p2pConnectionsSnapshot()

	netConnections := make([]*NetConnection, 0, len(snapshot))
	for _, netConnection := range snapshot {
		if netConnection.IsActive() {
			netConnections = append(netConnections, netConnection)
		}
	}
	return netConnections
}

func (na *NetAdapter) p2pConnectionsSnapshot() []*NetConnection {
	na.p2pConnectionsLock.RLock()
	defer na.p2pConnectionsLock.RUnlock()

	netConnections := make([]*NetConnection, 0, len(na.p2pConnections))
	for netConnection := range na.p2pConnections {
		netConnections = append(netConnections, netConnection)
	}
	return netConnections
}

// P2PConnectionCount returns the count of the connected p2p connections
func (na *NetAdapter) P2PConnectionCount() int {
	return len(na.P2PConnections())
}

// ListeningAddresses returns the addresses the P2P server listens on
func (na *NetAdapter) ListeningAddresses() []string {
	return na.p2pServer.ListeningAddresses()
}

func (na *NetAdapter) onP2PConnectedHandler(connection server.Connection) error {
	netConnectionID, err := id.GenerateID()
	if err != nil {
		return err
	}
	netConnection := newNetConnection(connection, netConnectionID, na.p2pRouterInitializer)

	netConnection.setOnDisconnectedHandler(func() {
		na.p2pConnectionsLock.Lock()
		defer na.p2pConnectionsLock.Unlock()

		delete(na.p2pConnections, netConnection)
		log.Debugf("Removed %s from the connection registry", netConnection)
	})

	na.p2pConnectionsLock.Lock()
	na.p2pConnections[netConnection] = struct{}{}
	na.p2pConnectionsLock.Unlock()

	netConnection.start()

	return nil
}

// SetP2PRouterInitializer sets the p2pRouterInitializer function
// for the net adapter
func (na *NetAdapter) SetP2PRouterInitializer(routerInitializer RouterInitializer) {
	na.p2pRouterInitializer = routerInitializer
}

// ID returns this netAdapter's ID in the network
func (na *NetAdapter) ID() *id.ID {
	return na.id
}

// P2PBroadcast sends the given `message` to every active peer. The set of
// peers is snapshotted first, so connections may come and go meanwhile.
// A peer whose outgoing route is full is disconnected.
func (na *NetAdapter) P2PBroadcast(message appmessage.Message) {
	for _, netConnection := range na.P2PConnections() {
		err := netConnection.Enqueue(message)
		if err != nil {
			if errors.Is(err, routerpkg.ErrRouteClosed) {
				log.Debugf("Cannot enqueue message to %s: router is closed", netConnection)
				continue
			}
			log.Warnf("Disconnecting from %s: %s", netConnection, err)
			netConnection.Disconnect()
		}
	}
}
