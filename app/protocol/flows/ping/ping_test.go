package ping

import (
	"testing"
	"time"

	"github.com/moecoin/moecoind/app/appmessage"
	"github.com/moecoin/moecoind/infrastructure/config"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter/router"
	"github.com/pkg/errors"
)

type fakeHeartbeatsContext struct {
	cfg          *config.Config
	shutdownChan chan struct{}
}

func (c *fakeHeartbeatsContext) Config() *config.Config {
	return c.cfg
}

func (c *fakeHeartbeatsContext) ShutdownChan() <-chan struct{} {
	return c.shutdownChan
}

func TestSendHeartbeats(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Heartbeat = 50 * time.Millisecond
	cfg.MempoolDelay = 10 * time.Millisecond
	context := &fakeHeartbeatsContext{cfg: cfg, shutdownChan: make(chan struct{})}

	outgoingRoute := router.NewRoute("outgoing")
	errChan := make(chan error, 1)
	go func() {
		errChan <- SendHeartbeats(context, outgoingRoute)
	}()

	expectedCommands := []appmessage.MessageCommand{
		appmessage.CmdGetLatest, appmessage.CmdRequestMempool, appmessage.CmdHeartbeat, appmessage.CmdHeartbeat,
	}
	for i, expectedCommand := range expectedCommands {
		message, err := outgoingRoute.DequeueWithTimeout(5 * time.Second)
		if err != nil {
			t.Fatalf("DequeueWithTimeout: %+v", err)
		}
		if message.Command() != expectedCommand {
			t.Fatalf("SendHeartbeats: expected message %d to be %s, got %s", i, expectedCommand, message.Command())
		}
	}

	close(context.shutdownChan)
	select {
	case err := <-errChan:
		if err != nil {
			t.Fatalf("SendHeartbeats: %+v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("SendHeartbeats: didn't return after shutdown")
	}
}

func TestSendHeartbeatsStopsOnClosedRoute(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Heartbeat = 10 * time.Millisecond
	context := &fakeHeartbeatsContext{cfg: cfg, shutdownChan: make(chan struct{})}

	outgoingRoute := router.NewRoute("outgoing")
	outgoingRoute.Close()

	err := SendHeartbeats(context, outgoingRoute)
	if !errors.Is(err, router.ErrRouteClosed) {
		t.Fatalf("SendHeartbeats: expected ErrRouteClosed, got %+v", err)
	}
}
