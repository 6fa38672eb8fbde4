package flowcontext

import (
	"github.com/moecoin/moecoind/domain"
	"github.com/moecoin/moecoind/infrastructure/config"
	"github.com/moecoin/moecoind/infrastructure/network/connmanager"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter"
)

// FlowContext holds state that is relevant to more than one flow or one peer, and allows communication between
// different flows that can be associated to different peers.
type FlowContext struct {
	cfg               *config.Config
	domain            domain.Domain
	netAdapter        *netadapter.NetAdapter
	connectionManager *connmanager.ConnectionManager

	shutdownChan chan struct{}
}

// New returns a new instance of FlowContext.
func New(cfg *config.Config, domain domain.Domain, netAdapter *netadapter.NetAdapter,
	connectionManager *connmanager.ConnectionManager) *FlowContext {

	return &FlowContext{
		cfg:               cfg,
		domain:            domain,
		netAdapter:        netAdapter,
		connectionManager: connectionManager,
		shutdownChan:      make(chan struct{}),
	}
}

// Close signals to all flows the the protocol manager is closed.
func (f *FlowContext) Close() {
	close(f.shutdownChan)
}

// ShutdownChan is a chan where flows can subscribe to shutdown
// event.
func (f *FlowContext) ShutdownChan() <-chan struct{} {
	return f.shutdownChan
}

// Config returns an instance of *config.Config associated to the flow context.
func (f *FlowContext) Config() *config.Config {
	return f.cfg
}

// Domain returns the Domain object associated to the flow context.
func (f *FlowContext) Domain() domain.Domain {
	return f.domain
}

// NetAdapter returns the net adapter that is associated to the flow context.
func (f *FlowContext) NetAdapter() *netadapter.NetAdapter {
	return f.netAdapter
}

// ConnectionManager returns the connection manager that is associated to the flow context.
func (f *FlowContext) ConnectionManager() *connmanager.ConnectionManager {
	return f.connectionManager
}
