package rpccontext

import (
	"github.com/moecoin/moecoind/app/protocol"
	"github.com/moecoin/moecoind/app/wallet"
	"github.com/moecoin/moecoind/domain"
	"github.com/moecoin/moecoind/domain/miningmanager"
	"github.com/moecoin/moecoind/infrastructure/config"
)

// Context represents the RPC context
type Context struct {
	Config          *config.Config
	Domain          domain.Domain
	ProtocolManager *protocol.Manager
	MiningManager   *miningmanager.MiningManager
	Wallet          *wallet.Wallet
}

// NewContext creates a new RPC context
func NewContext(cfg *config.Config,
	domain domain.Domain,
	protocolManager *protocol.Manager,
	miningManager *miningmanager.MiningManager,
	wallet *wallet.Wallet) *Context {

	return &Context{
		Config:          cfg,
		Domain:          domain,
		ProtocolManager: protocolManager,
		MiningManager:   miningManager,
		Wallet:          wallet,
	}
}
