package common

import (
	"github.com/moecoin/moecoind/infrastructure/network/netadapter"
	routerpkg "github.com/moecoin/moecoind/infrastructure/network/netadapter/router"
)

type flowExecuteFunc func(netConnection *netadapter.NetConnection)

// Flow is a a data structure that is used in order to associate a p2p flow to some route in a router.
type Flow struct {
	Name        string
	ExecuteFunc flowExecuteFunc
}

// FlowInitializeFunc is a function that is used in order to initialize a flow
type FlowInitializeFunc func(route *routerpkg.Route, netConnection *netadapter.NetConnection) error
