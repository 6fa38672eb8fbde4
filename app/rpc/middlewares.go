package rpc

import (
	"net/http"
	"runtime/debug"
	"sync/atomic"

	"github.com/moecoin/moecoind/app/rpc/rpccontext"
)

var nextRequestID uint64

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := atomic.AddUint64(&nextRequestID, 1)
		log.Debugf("Request #%d: Method: %s URI: %s from %s", requestID, r.Method, r.RequestURI, r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}

func recoveryMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			recoveryErr := recover()
			if recoveryErr != nil {
				log.Criticalf("Fatal error: %s", recoveryErr)
				log.Criticalf("Stack trace: %s", debug.Stack())
				sendErr(w, rpccontext.NewHandlerError(http.StatusInternalServerError, "A server error occurred."))
			}
		}()
		h.ServeHTTP(w, r)
	})
}

func setJSONMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		h.ServeHTTP(w, r)
	})
}
