package ping

import (
	"github.com/moecoin/moecoind/infrastructure/network/netadapter/router"
)

// ReceiveHeartbeats consumes the heartbeats sent by the peer
func ReceiveHeartbeats(incomingRoute *router.Route) error {
	for {
		message, err := incomingRoute.Dequeue()
		if err != nil {
			return err
		}
		log.Tracef("Got %s", message.Command())
	}
}
