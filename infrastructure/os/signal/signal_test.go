package signal

import (
	"testing"
	"time"
)

func TestInterruptListenerShutdownRequest(t *testing.T) {
	interrupt := InterruptListener()

	select {
	case <-interrupt:
		t.Fatalf("InterruptListener: closed before any shutdown request")
	default:
	}

	ShutdownRequestChannel <- struct{}{}
	select {
	case <-interrupt:
	case <-time.After(5 * time.Second):
		t.Fatalf("InterruptListener: not closed after a shutdown request")
	}
}
