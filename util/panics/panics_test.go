package panics

import (
	"testing"
	"time"

	"github.com/moecoin/moecoind/infrastructure/logger"
)

var testLog = logger.RegisterSubSystem("PNCS")

func TestGoroutineWrapperFunc(t *testing.T) {
	spawn := GoroutineWrapperFunc(testLog)
	done := make(chan struct{})
	spawn("TestGoroutineWrapperFunc", func() {
		close(done)
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("TestGoroutineWrapperFunc: spawned function didn't run")
	}
}
