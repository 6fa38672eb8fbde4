package rpchandlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/moecoin/moecoind/app/rpc/rpccontext"
	"github.com/pkg/errors"
)

// HandleGetBlocks returns the whole chain
func HandleGetBlocks(context *rpccontext.Context, _ *http.Request) (interface{}, error) {
	return context.Domain.Blocks(), nil
}

// HandleGetBlock returns the block with the hash given in the path
func HandleGetBlock(context *rpccontext.Context, request *http.Request) (interface{}, error) {
	hash := mux.Vars(request)["hash"]
	block, ok := context.Domain.GetBlock(hash)
	if !ok {
		return nil, rpccontext.NewNotFoundError("Block %s was not found", hash)
	}
	return block, nil
}

// HandleMineBlock mines a block paying the reward to the wallet, and
// propagates it. It returns once the block is committed, or fails when
// the request is cancelled first.
func HandleMineBlock(context *rpccontext.Context, request *http.Request) (interface{}, error) {
	block, err := context.MiningManager.MineBlock(request.Context(), context.Wallet.Address())
	if err != nil {
		return nil, errors.Wrap(err, "could not mine a block")
	}
	context.ProtocolManager.OnNewBlock(block)
	return block, nil
}
