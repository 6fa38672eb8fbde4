package rpchandlers

import (
	"net/http"

	"github.com/moecoin/moecoind/app/rpc/rpccontext"
)

type balanceResponse struct {
	Balance uint64 `json:"balance"`
}

type addressResponse struct {
	Address string `json:"address"`
}

// HandleGetWalletBalance returns the balance of the wallet
func HandleGetWalletBalance(context *rpccontext.Context, _ *http.Request) (interface{}, error) {
	return &balanceResponse{Balance: context.Wallet.Balance(context.Domain.UTXOSet())}, nil
}

// HandleGetWalletAddress returns the address of the wallet
func HandleGetWalletAddress(context *rpccontext.Context, _ *http.Request) (interface{}, error) {
	return &addressResponse{Address: context.Wallet.Address()}, nil
}

// HandleGetWalletUTXOs returns the unspent outputs owned by the wallet
func HandleGetWalletUTXOs(context *rpccontext.Context, _ *http.Request) (interface{}, error) {
	return context.Wallet.UTXOs(context.Domain.UTXOSet()), nil
}
