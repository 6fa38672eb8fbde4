package rpchandlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/moecoin/moecoind/app/rpc/rpccontext"
	"github.com/moecoin/moecoind/app/wallet"
	"github.com/moecoin/moecoind/domain/consensus/ruleerrors"
	"github.com/moecoin/moecoind/domain/miningmanager/mempool"
	"github.com/pkg/errors"
)

// HandleGetTransaction returns the transaction with the id given in the
// path, looking it up in every block of the chain
func HandleGetTransaction(context *rpccontext.Context, request *http.Request) (interface{}, error) {
	id := mux.Vars(request)["id"]
	tx, ok := context.Domain.GetTransaction(id)
	if !ok {
		return nil, rpccontext.NewNotFoundError("Transaction %s was not found", id)
	}
	return tx, nil
}

// HandleGetMempoolTransactions returns the transactions in the mempool
func HandleGetMempoolTransactions(context *rpccontext.Context, _ *http.Request) (interface{}, error) {
	return context.Domain.MempoolTransactions(), nil
}

type sendTransactionRequest struct {
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
}

// HandleSendTransaction has the wallet pay the requested amount to the
// requested address, and propagates the new transaction
func HandleSendTransaction(context *rpccontext.Context, request *http.Request) (interface{}, error) {
	body := &sendTransactionRequest{}
	err := decodeRequestBody(request, body)
	if err != nil {
		return nil, err
	}

	utxoSet, mempoolTransactions := context.Domain.UTXOSetAndMempool()
	tx, err := context.Wallet.CreateTransaction(body.Address, body.Amount, utxoSet, mempoolTransactions,
		time.Now().Unix())
	if err != nil {
		if isWalletUserError(err) {
			return nil, rpccontext.NewBadRequestError("Could not create a transaction: %s", err)
		}
		return nil, err
	}

	err = context.ProtocolManager.AddTransaction(tx)
	if err != nil {
		if errors.As(err, &mempool.RuleError{}) {
			return nil, rpccontext.NewBadRequestError("Transaction %s was rejected: %s", tx.ID, err)
		}
		return nil, err
	}

	log.Infof("Sent %d to %s in transaction %s", body.Amount, body.Address, tx.ID)
	return tx, nil
}

func isWalletUserError(err error) bool {
	if errors.Is(err, wallet.ErrInsufficientFunds) || errors.Is(err, wallet.ErrZeroAmount) {
		return true
	}
	_, isRuleError := ruleerrors.CategoryOf(err)
	return isRuleError
}
