package netadapter

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/moecoin/moecoind/app/appmessage"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter/id"
	routerpkg "github.com/moecoin/moecoind/infrastructure/network/netadapter/router"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter/server"
)

type connectionState uint32

const (
	connectionStateConnecting connectionState = iota
	connectionStateActive
	connectionStateClosed
)

func (s connectionState) String() string {
	switch s {
	case connectionStateConnecting:
		return "connecting"
	case connectionStateActive:
		return "active"
	case connectionStateClosed:
		return "closed"
	}
	return fmt.Sprintf("unknown state %d", uint32(s))
}

// NetConnection is a wrapper to a server connection for use by services external to NetAdapter
type NetConnection struct {
	connection            server.Connection
	id                    *id.ID
	router                *routerpkg.Router
	onDisconnectedHandler server.OnDisconnectedHandler
	connectedAt           time.Time

	state          uint32
	isRouterClosed uint32
}

func newNetConnection(connection server.Connection, netConnectionID *id.ID,
	routerInitializer RouterInitializer) *NetConnection {

	router := routerpkg.NewRouter(connection.String())

	netConnection := &NetConnection{
		connection:  connection,
		id:          netConnectionID,
		router:      router,
		connectedAt: time.Now(),
		state:       uint32(connectionStateConnecting),
	}

	netConnection.connection.SetOnDisconnectedHandler(func() {
		atomic.StoreUint32(&netConnection.state, uint32(connectionStateClosed))

		// If the disconnection came because of a network error and not because of the application layer, we
		// need to close the router as well.
		netConnection.closeRouter()

		if netConnection.onDisconnectedHandler != nil {
			netConnection.onDisconnectedHandler()
		}
	})

	netConnection.connection.SetOnInvalidMessageHandler(func(err error) {
		log.Warnf("Dropping a message from %s: %s", netConnection, err)
	})

	routerInitializer(router, netConnection)

	return netConnection
}

func (c *NetConnection) start() {
	if c.onDisconnectedHandler == nil {
		panic("onDisconnectedHandler is nil")
	}

	c.connection.Start(c.router)
	atomic.CompareAndSwapUint32(&c.state, uint32(connectionStateConnecting), uint32(connectionStateActive))
}

func (c *NetConnection) String() string {
	return fmt.Sprintf("<%s: %s>", c.id, c.connection)
}

// ID returns the ID associated with this connection
func (c *NetConnection) ID() *id.ID {
	return c.id
}

// Address returns the address associated with this connection
func (c *NetConnection) Address() string {
	return c.connection.Address().String()
}

// IsOutbound returns whether the connection was initiated by this node
func (c *NetConnection) IsOutbound() bool {
	return c.connection.IsOutbound()
}

// ConnectedAt returns the time the connection was established
func (c *NetConnection) ConnectedAt() time.Time {
	return c.connectedAt
}

// IsActive returns whether the connection finished starting up and hasn't
// been closed since
func (c *NetConnection) IsActive() bool {
	return connectionState(atomic.LoadUint32(&c.state)) == connectionStateActive
}

func (c *NetConnection) setOnDisconnectedHandler(onDisconnectedHandler server.OnDisconnectedHandler) {
	c.onDisconnectedHandler = onDisconnectedHandler
}

// Enqueue queues message for sending to the peer
func (c *NetConnection) Enqueue(message appmessage.Message) error {
	return c.router.OutgoingRoute().Enqueue(message)
}

// Disconnect disconnects the given connection
func (c *NetConnection) Disconnect() {
	c.closeRouter()
	c.connection.Disconnect()
}

func (c *NetConnection) closeRouter() {
	if atomic.AddUint32(&c.isRouterClosed, 1) == 1 {
		c.router.Close()
	}
}
