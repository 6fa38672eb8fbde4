package rpc

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/moecoin/moecoind/app/protocol"
	"github.com/moecoin/moecoind/app/rpc/rpccontext"
	"github.com/moecoin/moecoind/app/wallet"
	"github.com/moecoin/moecoind/domain"
	"github.com/moecoin/moecoind/domain/miningmanager"
	"github.com/moecoin/moecoind/infrastructure/config"
	"github.com/pkg/errors"
)

const gracefulShutdownTimeout = 30 * time.Second

// Manager is the HTTP API server
type Manager struct {
	context    *rpccontext.Context
	httpServer *http.Server
	listener   net.Listener

	baseContext       context.Context
	cancelBaseContext context.CancelFunc

	started, shutdown int32
}

// NewManager creates a new HTTP API Manager
func NewManager(
	cfg *config.Config,
	domain domain.Domain,
	protocolManager *protocol.Manager,
	miningManager *miningmanager.MiningManager,
	wallet *wallet.Wallet) *Manager {

	baseContext, cancelBaseContext := context.WithCancel(context.Background())
	manager := &Manager{
		context:           rpccontext.NewContext(cfg, domain, protocolManager, miningManager, wallet),
		baseContext:       baseContext,
		cancelBaseContext: cancelBaseContext,
	}
	manager.httpServer = &http.Server{
		Handler: manager.Handler(),
		// Cancelled on Stop, which aborts a POST /blocks still mining
		BaseContext: func(net.Listener) context.Context { return manager.baseContext },
	}
	return manager
}

// Handler returns the http.Handler serving the API
func (m *Manager) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(recoveryMiddleware)
	router.Use(loggingMiddleware)
	router.Use(setJSONMiddleware)
	m.addRoutes(router)

	return handlers.CORS(
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(router)
}

// Start starts listening on the configured RPC address and serving the API
func (m *Manager) Start() error {
	if atomic.AddInt32(&m.started, 1) != 1 {
		return errors.New("HTTP API server already started")
	}

	listener, err := net.Listen("tcp", m.context.Config.RPCListen)
	if err != nil {
		return errors.Wrapf(err, "could not listen on %s", m.context.Config.RPCListen)
	}
	m.listener = listener

	log.Infof("HTTP API server listening on %s", listener.Addr())
	spawn("rpc.Manager.serve", func() {
		err := m.httpServer.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("HTTP API server stopped unexpectedly: %s", err)
		}
	})
	return nil
}

// Address returns the address the API server listens on, or an empty
// string before Start
func (m *Manager) Address() string {
	if m.listener == nil {
		return ""
	}
	return m.listener.Addr().String()
}

// Stop cancels the pending requests and gracefully shuts the server down
func (m *Manager) Stop() error {
	if atomic.LoadInt32(&m.started) == 0 {
		return nil
	}
	if atomic.AddInt32(&m.shutdown, 1) != 1 {
		log.Infof("HTTP API server is already in the process of shutting down")
		return nil
	}

	log.Warnf("HTTP API server shutting down")
	m.cancelBaseContext()

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()
	return m.httpServer.Shutdown(ctx)
}
