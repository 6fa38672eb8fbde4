package flowcontext

import (
	"strings"
	"sync/atomic"

	"github.com/moecoin/moecoind/app/protocol/protocolerrors"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter/router"
	"github.com/pkg/errors"
)

// HandleError handles an error from a flow,
// It sends the error to errChan if isStopping == 0 and increments isStopping
//
// If this is ErrRouteClosed - forward it to errChan
// If this is ProtocolError - logs the error, and forward it to errChan
// Otherwise - panics
func (*FlowContext) HandleError(err error, flowName string, isStopping *uint32, errChan chan<- error) {
	isErrRouteClosed := errors.Is(err, router.ErrRouteClosed)
	if !isErrRouteClosed {
		var protocolErr *protocolerrors.ProtocolError
		if !errors.As(err, &protocolErr) {
			panic(err)
		}
		logFrame := strings.Repeat("=", 52)
		log.Errorf("Non-critical peer protocol error from %s, printing the full stack for debug purposes: \n%s\n%+v \n%s",
			flowName, logFrame, err, logFrame)
	}

	if atomic.AddUint32(isStopping, 1) == 1 {
		errChan <- err
	}
}

// IsRecoverableError returns whether the error is recoverable
func (*FlowContext) IsRecoverableError(err error) bool {
	var protocolErr *protocolerrors.ProtocolError
	return err == nil || errors.Is(err, router.ErrRouteClosed) || errors.As(err, &protocolErr)
}
