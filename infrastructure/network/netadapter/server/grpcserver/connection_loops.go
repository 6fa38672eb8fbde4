package grpcserver

import (
	"io"
	"time"

	routerpkg "github.com/moecoin/moecoind/infrastructure/network/netadapter/router"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter/server/grpcserver/protowire"
	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (c *gRPCConnection) connectionLoops() error {
	// buffered so that the loop finishing second never blocks
	errChan := make(chan error, 2)

	spawn("gRPCConnection.receiveLoop", func() {
		err := c.receiveLoop()
		errChan <- err
	})

	spawn("gRPCConnection.sendLoop", func() {
		err := c.sendLoop()
		errChan <- err
	})

	err := <-errChan

	c.Disconnect()

	return err
}

func (c *gRPCConnection) sendLoop() error {
	outgoingRoute := c.router.OutgoingRoute()
	for c.IsConnected() {
		message, err := outgoingRoute.Dequeue()
		if err != nil {
			if errors.Is(err, routerpkg.ErrRouteClosed) {
				return nil
			}
			return err
		}

		frame, err := protowire.FromAppMessage(message)
		if err != nil {
			return err
		}

		log.Tracef("Outgoing '%s' message to %s", message.Command(), c)

		err = c.stream.Send(frame)
		if err != nil {
			if isStreamClosedError(err) {
				return nil
			}
			return errors.Wrapf(err, "error sending to %s", c)
		}
	}
	return nil
}

func (c *gRPCConnection) receiveLoop() error {
	messageNumber := uint64(0)
	for c.IsConnected() {
		frame, err := c.stream.Recv()
		if err != nil {
			if isStreamClosedError(err) {
				return nil
			}
			return errors.Wrapf(err, "error receiving from %s", c)
		}

		message, err := protowire.ToAppMessage(frame)
		if err != nil {
			if c.onInvalidMessageHandler != nil {
				c.onInvalidMessageHandler(err)
			}
			continue
		}

		messageNumber++
		message.SetMessageNumber(messageNumber)
		message.SetReceivedAt(time.Now())

		log.Tracef("Incoming '%s' message from %s (message number %d)", message.Command(), c,
			message.MessageNumber())

		err = c.router.EnqueueIncomingMessage(message)
		if err != nil {
			if errors.Is(err, routerpkg.ErrNoRouteForMessage) {
				log.Debugf("Dropping '%s' message from %s: %s", message.Command(), c, err)
				continue
			}
			if errors.Is(err, routerpkg.ErrRouteClosed) {
				return nil
			}
			return err
		}
	}
	return nil
}

func isStreamClosedError(err error) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	code := status.Code(err)
	return code == codes.Canceled || code == codes.Unavailable
}
