package app

import (
	"fmt"
	"sync/atomic"

	"github.com/moecoin/moecoind/app/protocol"
	"github.com/moecoin/moecoind/app/rpc"
	"github.com/moecoin/moecoind/app/wallet"
	"github.com/moecoin/moecoind/domain"
	"github.com/moecoin/moecoind/domain/chainconfig"
	"github.com/moecoin/moecoind/domain/miningmanager"
	"github.com/moecoin/moecoind/infrastructure/config"
	"github.com/moecoin/moecoind/infrastructure/network/connmanager"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter/id"
	"github.com/moecoin/moecoind/util/panics"
)

// ComponentManager is a wrapper for all the moecoind services
type ComponentManager struct {
	cfg               *config.Config
	domain            domain.Domain
	wallet            *wallet.Wallet
	protocolManager   *protocol.Manager
	miningManager     *miningmanager.MiningManager
	rpcManager        *rpc.Manager
	connectionManager *connmanager.ConnectionManager
	netAdapter        *netadapter.NetAdapter

	started, shutdown int32
}

// Start launches all the moecoind services.
func (a *ComponentManager) Start() {
	// Already started?
	if atomic.AddInt32(&a.started, 1) != 1 {
		return
	}

	log.Trace("Starting moecoind")

	err := a.netAdapter.Start()
	if err != nil {
		panics.Exit(log, fmt.Sprintf("Error starting the net adapter: %+v", err))
	}

	a.connectionManager.Start()

	if a.cfg.Generate {
		a.miningManager.Start(a.miningAddress())
	}

	err = a.rpcManager.Start()
	if err != nil {
		panics.Exit(log, fmt.Sprintf("Error starting the HTTP API: %+v", err))
	}
}

func (a *ComponentManager) miningAddress() string {
	if a.cfg.MiningAddr != "" {
		return a.cfg.MiningAddr
	}
	return a.wallet.Address()
}

// Stop gracefully shuts down all the moecoind services.
func (a *ComponentManager) Stop() {
	// Make sure this only happens once.
	if atomic.AddInt32(&a.shutdown, 1) != 1 {
		log.Infof("Moecoind is already in the process of shutting down")
		return
	}

	log.Warnf("Moecoind shutting down")

	err := a.rpcManager.Stop()
	if err != nil {
		log.Errorf("Error stopping the HTTP API: %+v", err)
	}

	a.miningManager.Stop()
	a.connectionManager.Stop()

	err = a.netAdapter.Stop()
	if err != nil {
		log.Errorf("Error stopping the net adapter: %+v", err)
	}

	a.protocolManager.Close()
}

// NewComponentManager returns a new ComponentManager instance.
// Use Start() to begin all services within this ComponentManager
func NewComponentManager(cfg *config.Config, wallet *wallet.Wallet) (*ComponentManager, error) {
	domain := domain.New(&chainconfig.MainnetParams)

	netAdapter, err := netadapter.NewNetAdapter(cfg)
	if err != nil {
		return nil, err
	}

	connectionManager, err := connmanager.New(cfg, netAdapter)
	if err != nil {
		return nil, err
	}
	protocolManager, err := protocol.NewManager(cfg, domain, netAdapter, connectionManager)
	if err != nil {
		return nil, err
	}
	miningManager := miningmanager.New(domain, protocolManager.OnNewBlock)
	rpcManager := rpc.NewManager(cfg, domain, protocolManager, miningManager, wallet)

	return &ComponentManager{
		cfg:               cfg,
		domain:            domain,
		wallet:            wallet,
		protocolManager:   protocolManager,
		miningManager:     miningManager,
		rpcManager:        rpcManager,
		connectionManager: connectionManager,
		netAdapter:        netAdapter,
	}, nil
}

// P2PNodeID returns the network ID associated with this ComponentManager
func (a *ComponentManager) P2PNodeID() *id.ID {
	return a.netAdapter.ID()
}

// RPCAddress returns the address the HTTP API is served on. Only valid
// after Start
func (a *ComponentManager) RPCAddress() string {
	return a.rpcManager.Address()
}

// Domain returns the Domain associated with this ComponentManager
func (a *ComponentManager) Domain() domain.Domain {
	return a.domain
}
