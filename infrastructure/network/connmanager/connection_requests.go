package connmanager

import (
	"time"
)

const (
	minRetryDuration = 30 * time.Second
	maxRetryDuration = 10 * time.Minute
)

func nextRetryDuration(previousDuration time.Duration) time.Duration {
	if previousDuration < minRetryDuration {
		return minRetryDuration
	}
	if previousDuration*2 > maxRetryDuration {
		return maxRetryDuration
	}
	return previousDuration * 2
}

// checkRequestedConnections checks that all activeRequested are still active, and initiates connections
// for pendingRequested whose next attempt is due
func (c *ConnectionManager) checkRequestedConnections() {
	c.connectionRequestsLock.Lock()
	defer c.connectionRequestsLock.Unlock()

	now := time.Now()

	for address, connReq := range c.activeRequested {
		if connReq.connection.IsActive() {
			continue
		}

		// a requested connection was disconnected
		delete(c.activeRequested, address)
		connReq.connection = nil

		if connReq.isPermanent { // if is one-try - ignore. If permanent - add to pending list to retry
			log.Debugf("Permanent peer %s disconnected, reconnecting", address)
			connReq.nextAttempt = now
			connReq.retryDuration = 0
			c.pendingRequested[address] = connReq
		}
	}

	for address, connReq := range c.pendingRequested {
		if connReq.nextAttempt.After(now) { // ignore connection requests which are still waiting for retry
			continue
		}

		connection, err := c.initiateConnection(connReq.address)
		if err == nil { // if connected successfully - move from pending to active
			delete(c.pendingRequested, address)
			connReq.connection = connection
			connReq.retryDuration = 0
			c.activeRequested[address] = connReq
			continue
		}

		if !connReq.isPermanent { // if connection request is one try - remove from pending and ignore failure
			log.Infof("Couldn't connect to %s: %s", address, err)
			delete(c.pendingRequested, address)
			continue
		}

		// if connection request is permanent - keep in pending, and increase retry time
		connReq.retryDuration = nextRetryDuration(connReq.retryDuration)
		connReq.nextAttempt = now.Add(connReq.retryDuration)
		log.Infof("Couldn't connect to %s: %s. Retrying in %s", address, err, connReq.retryDuration)
	}
}

// AddConnectionRequest adds the given address to list of pending connection requests
// and wakes the connections loop up
func (c *ConnectionManager) AddConnectionRequest(address string, isPermanent bool) {
	c.addConnectionRequest(address, isPermanent)
	c.run()
}

func (c *ConnectionManager) addConnectionRequest(address string, isPermanent bool) {
	c.connectionRequestsLock.Lock()
	defer c.connectionRequestsLock.Unlock()

	if _, ok := c.activeRequested[address]; ok {
		return
	}

	c.pendingRequested[address] = &connectionRequest{
		address:     address,
		isPermanent: isPermanent,
	}
}
