package protocol

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/moecoin/moecoind/app/protocol/common"
	"github.com/moecoin/moecoind/app/protocol/flowcontext"
	"github.com/moecoin/moecoind/app/protocol/protocolerrors"
	"github.com/moecoin/moecoind/domain"
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/infrastructure/config"
	"github.com/moecoin/moecoind/infrastructure/network/connmanager"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter"
	"github.com/pkg/errors"
)

// Manager manages the p2p protocol
type Manager struct {
	context          *flowcontext.FlowContext
	routersWaitGroup sync.WaitGroup
	isClosed         uint32
}

// NewManager creates a new instance of the p2p protocol manager
func NewManager(cfg *config.Config, domain domain.Domain, netAdapter *netadapter.NetAdapter,
	connectionManager *connmanager.ConnectionManager) (*Manager, error) {

	manager := Manager{
		context: flowcontext.New(cfg, domain, netAdapter, connectionManager),
	}

	netAdapter.SetP2PRouterInitializer(manager.routerInitializer)
	return &manager, nil
}

// Close closes the protocol manager and waits until all p2p flows
// finish.
func (m *Manager) Close() {
	if !atomic.CompareAndSwapUint32(&m.isClosed, 0, 1) {
		panic(errors.New("The protocol manager was already closed"))
	}

	m.context.Close()
	m.routersWaitGroup.Wait()
}

// Peers returns the currently active peers
func (m *Manager) Peers() []*netadapter.NetConnection {
	return m.context.Peers()
}

// AddPeer asks the connection manager to connect to the given address once
func (m *Manager) AddPeer(address string) {
	m.context.AddPeer(address)
}

// AddTransaction adds transaction to the mempool and propagates it.
func (m *Manager) AddTransaction(tx *externalapi.DomainTransaction) error {
	return m.context.AddTransaction(tx)
}

// AddBlock adds the given block to the chain and propagates it.
func (m *Manager) AddBlock(block *externalapi.DomainBlock) error {
	return m.context.AddBlock(block)
}

// OnNewBlock propagates a block that was already committed to the chain,
// such as a block found by the local miner.
func (m *Manager) OnNewBlock(block *externalapi.DomainBlock) {
	m.context.OnNewBlock(block)
}

// Context returns the manager's flow context
func (m *Manager) Context() *flowcontext.FlowContext {
	return m.context
}

func (m *Manager) runFlows(flows []*common.Flow, netConnection *netadapter.NetConnection, errChan <-chan error) error {
	for _, flow := range flows {
		executeFunc := flow.ExecuteFunc // extract to new variable so that it's not overwritten
		spawn(fmt.Sprintf("flow-%s", flow.Name), func() {
			executeFunc(netConnection)
		})
	}

	return <-errChan
}

func (m *Manager) handleError(err error, netConnection *netadapter.NetConnection) {
	if protocolerrors.ShouldBan(err) {
		log.Warnf("Disconnecting from %s after a protocol violation: %s", netConnection, err)
	} else {
		log.Debugf("Disconnecting from %s: %s", netConnection, err)
	}
	netConnection.Disconnect()
}
