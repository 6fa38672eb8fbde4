package flowcontext

import (
	"github.com/moecoin/moecoind/app/appmessage"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter"
)

// Broadcast sends the given `message` to all connected peers
func (f *FlowContext) Broadcast(message appmessage.Message) {
	log.Debugf("Broadcasting %s", message.Command())
	f.netAdapter.P2PBroadcast(message)
}

// Peers returns the currently active peers
func (f *FlowContext) Peers() []*netadapter.NetConnection {
	return f.netAdapter.P2PConnections()
}

// AddPeer asks the connection manager for a one-shot connection to address
func (f *FlowContext) AddPeer(address string) {
	f.connectionManager.AddConnectionRequest(address, false)
}
