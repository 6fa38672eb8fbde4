package connmanager

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/moecoin/moecoind/infrastructure/config"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter"
)

// connectionRequest represents a user request (either through CLI or the HTTP API) to connect to a certain node
type connectionRequest struct {
	address       string
	isPermanent   bool
	nextAttempt   time.Time
	retryDuration time.Duration
	connection    *netadapter.NetConnection
}

// ConnectionManager makes sure the requested outbound connections stay
// connected. Permanent requests are redialled with a growing backoff; one-shot
// requests are dialled once.
type ConnectionManager struct {
	cfg        *config.Config
	netAdapter *netadapter.NetAdapter

	activeRequested  map[string]*connectionRequest
	pendingRequested map[string]*connectionRequest

	started, stop          uint32
	connectionRequestsLock sync.Mutex

	resetLoopChan chan struct{}
	stopChan      chan struct{}
	loopTicker    *time.Ticker
	wg            sync.WaitGroup
}

// New instantiates a new instance of a ConnectionManager
func New(cfg *config.Config, netAdapter *netadapter.NetAdapter) (*ConnectionManager, error) {
	c := &ConnectionManager{
		cfg:              cfg,
		netAdapter:       netAdapter,
		activeRequested:  map[string]*connectionRequest{},
		pendingRequested: map[string]*connectionRequest{},
		resetLoopChan:    make(chan struct{}, 1),
		stopChan:         make(chan struct{}),
	}

	for _, connectPeer := range cfg.AddPeers {
		c.pendingRequested[connectPeer] = &connectionRequest{
			address:     connectPeer,
			isPermanent: true,
		}
	}

	return c, nil
}

// Start begins the operation of the ConnectionManager
func (c *ConnectionManager) Start() {
	if atomic.AddUint32(&c.started, 1) != 1 {
		return
	}
	c.loopTicker = time.NewTicker(connectionsLoopInterval)

	c.wg.Add(1)
	spawn("ConnectionManager.connectionsLoop", func() {
		defer c.wg.Done()
		c.connectionsLoop()
	})
}

// Stop halts the operation of the ConnectionManager. Connections are left
// for the NetAdapter to close.
func (c *ConnectionManager) Stop() {
	if atomic.LoadUint32(&c.started) == 0 {
		return
	}
	if atomic.AddUint32(&c.stop, 1) != 1 {
		log.Warnf("Connection manager stopped more than once")
		return
	}

	close(c.stopChan)
	c.wg.Wait()
	c.loopTicker.Stop()
}

// run wakes the connections loop up without waiting for the next tick
func (c *ConnectionManager) run() {
	select {
	case c.resetLoopChan <- struct{}{}:
	default:
	}
}

func (c *ConnectionManager) initiateConnection(address string) (*netadapter.NetConnection, error) {
	log.Infof("Connecting to %s", address)
	return c.netAdapter.P2PConnect(address)
}

const connectionsLoopInterval = 30 * time.Second

func (c *ConnectionManager) connectionsLoop() {
	for atomic.LoadUint32(&c.stop) == 0 {
		c.checkRequestedConnections()

		if !c.waitTillNextIteration() {
			return
		}
	}
}

// ConnectionCount returns the count of the connected connections
func (c *ConnectionManager) ConnectionCount() int {
	return c.netAdapter.P2PConnectionCount()
}

// waitTillNextIteration returns false once the ConnectionManager is stopped
func (c *ConnectionManager) waitTillNextIteration() bool {
	select {
	case <-c.stopChan:
		return false
	case <-c.resetLoopChan:
		c.loopTicker.Reset(connectionsLoopInterval)
	case <-c.loopTicker.C:
	}
	return true
}
