package rpchandlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/moecoin/moecoind/app/rpc/rpccontext"
	"github.com/moecoin/moecoind/app/wallet"
	"github.com/moecoin/moecoind/domain/consensus/utils/signing"
)

// HandleGetUTXOs returns the whole UTXO set
func HandleGetUTXOs(context *rpccontext.Context, _ *http.Request) (interface{}, error) {
	return context.Domain.UTXOSet().Entries(), nil
}

// HandleGetAddressBalance returns the balance of the address given in the path
func HandleGetAddressBalance(context *rpccontext.Context, request *http.Request) (interface{}, error) {
	address := mux.Vars(request)["address"]
	if !signing.IsValidAddress(address) {
		return nil, rpccontext.NewBadRequestError("Invalid address %s", address)
	}
	return &balanceResponse{Balance: wallet.Balance(address, context.Domain.UTXOSet())}, nil
}
