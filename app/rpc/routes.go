package rpc

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/moecoin/moecoind/app/rpc/rpccontext"
	"github.com/moecoin/moecoind/app/rpc/rpchandlers"
	"github.com/pkg/errors"
)

type handler func(context *rpccontext.Context, request *http.Request) (interface{}, error)

type route struct {
	method  string
	path    string
	handler handler
}

var routes = []route{
	{http.MethodGet, "/blocks", rpchandlers.HandleGetBlocks},
	{http.MethodPost, "/blocks", rpchandlers.HandleMineBlock},
	{http.MethodGet, "/blocks/{hash}", rpchandlers.HandleGetBlock},
	{http.MethodGet, "/transactions", rpchandlers.HandleGetMempoolTransactions},
	{http.MethodPost, "/transactions", rpchandlers.HandleSendTransaction},
	{http.MethodGet, "/transactions/{id}", rpchandlers.HandleGetTransaction},
	{http.MethodGet, "/me/balance", rpchandlers.HandleGetWalletBalance},
	{http.MethodGet, "/me/address", rpchandlers.HandleGetWalletAddress},
	{http.MethodGet, "/me/utxos", rpchandlers.HandleGetWalletUTXOs},
	{http.MethodGet, "/utxos", rpchandlers.HandleGetUTXOs},
	{http.MethodGet, "/peers", rpchandlers.HandleGetPeers},
	{http.MethodPost, "/peers", rpchandlers.HandleAddPeer},
	{http.MethodGet, "/addresses/{address}/balance", rpchandlers.HandleGetAddressBalance},
}

func (m *Manager) addRoutes(router *mux.Router) {
	for _, route := range routes {
		router.HandleFunc(route.path, m.makeHandler(route.handler)).Methods(route.method)
	}
	router.NotFoundHandler = setJSONMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sendErr(w, rpccontext.NewNotFoundError("No route for %s %s", r.Method, r.URL.Path))
	}))
	router.MethodNotAllowedHandler = setJSONMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sendErr(w, rpccontext.NewHandlerErrorf(http.StatusMethodNotAllowed,
			"Method %s is not allowed for %s", r.Method, r.URL.Path))
	}))
}

func (m *Manager) makeHandler(handler handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response, err := handler(m.context, r)
		if err != nil {
			var hErr *rpccontext.HandlerError
			if !errors.As(err, &hErr) {
				log.Errorf("Error handling %s %s: %+v", r.Method, r.URL.Path, err)
				hErr = rpccontext.NewHandlerError(http.StatusInternalServerError, err.Error())
			}
			sendErr(w, hErr)
			return
		}
		sendJSONResponse(w, http.StatusOK, response)
	}
}

func sendErr(w http.ResponseWriter, hErr *rpccontext.HandlerError) {
	log.Debugf("Sending error %d: %s", hErr.ErrorCode, hErr.ErrorMessage)
	sendJSONResponse(w, hErr.ErrorCode, hErr)
}

func sendJSONResponse(w http.ResponseWriter, statusCode int, response interface{}) {
	b, err := json.Marshal(response)
	if err != nil {
		panic(err)
	}
	w.WriteHeader(statusCode)
	_, err = w.Write(b)
	if err != nil {
		log.Debugf("Could not write the response: %s", err)
	}
}
