package rpc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/moecoin/moecoind/app/protocol"
	"github.com/moecoin/moecoind/app/rpc/rpccontext"
	"github.com/moecoin/moecoind/app/wallet"
	"github.com/moecoin/moecoind/domain"
	"github.com/moecoin/moecoind/domain/chainconfig"
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/utils/testutils"
	"github.com/moecoin/moecoind/domain/miningmanager"
	"github.com/moecoin/moecoind/infrastructure/config"
	"github.com/moecoin/moecoind/infrastructure/db/database/ldb"
	"github.com/moecoin/moecoind/infrastructure/network/connmanager"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter"
)

func newTestServer(t *testing.T) (*httptest.Server, *wallet.Wallet) {
	cfg := config.DefaultConfig()
	cfg.Listeners = []string{"127.0.0.1:0"}

	d := domain.New(&chainconfig.MainnetParams)
	netAdapter, err := netadapter.NewNetAdapter(cfg)
	if err != nil {
		t.Fatalf("NewNetAdapter: %+v", err)
	}
	connectionManager, err := connmanager.New(cfg, netAdapter)
	if err != nil {
		t.Fatalf("connmanager.New: %+v", err)
	}
	protocolManager, err := protocol.NewManager(cfg, d, netAdapter, connectionManager)
	if err != nil {
		t.Fatalf("NewManager: %+v", err)
	}

	db, err := ldb.NewLevelDB(t.TempDir(), 8)
	if err != nil {
		t.Fatalf("NewLevelDB: %+v", err)
	}
	t.Cleanup(func() { db.Close() })
	w, err := wallet.Open(db, "")
	if err != nil {
		t.Fatalf("Open: %+v", err)
	}

	manager := NewManager(cfg, d, protocolManager, miningmanager.New(d, nil), w)
	server := httptest.NewServer(manager.Handler())
	t.Cleanup(server.Close)
	return server, w
}

func doRequest(t *testing.T, server *httptest.Server, method, path string, body interface{},
	expectedStatus int, response interface{}) {

	var requestBody bytes.Buffer
	if body != nil {
		err := json.NewEncoder(&requestBody).Encode(body)
		if err != nil {
			t.Fatalf("Encode: %+v", err)
		}
	}
	request, err := http.NewRequest(method, server.URL+path, &requestBody)
	if err != nil {
		t.Fatalf("NewRequest: %+v", err)
	}
	httpResponse, err := server.Client().Do(request)
	if err != nil {
		t.Fatalf("%s %s: %+v", method, path, err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != expectedStatus {
		t.Fatalf("%s %s: expected status %d, got %d", method, path, expectedStatus, httpResponse.StatusCode)
	}
	if contentType := httpResponse.Header.Get("Content-Type"); contentType != "application/json; charset=utf-8" {
		t.Fatalf("%s %s: unexpected content type %q", method, path, contentType)
	}
	if response != nil {
		err = json.NewDecoder(httpResponse.Body).Decode(response)
		if err != nil {
			t.Fatalf("%s %s: could not decode the response: %+v", method, path, err)
		}
	}
}

func TestBlocksAndBalances(t *testing.T) {
	server, w := newTestServer(t)

	address := &addressResponse{}
	doRequest(t, server, http.MethodGet, "/me/address", nil, http.StatusOK, address)
	if address.Address != w.Address() {
		t.Fatalf("GET /me/address: expected %s, got %s", w.Address(), address.Address)
	}

	minedBlock := &externalapi.DomainBlock{}
	doRequest(t, server, http.MethodPost, "/blocks", nil, http.StatusOK, minedBlock)
	if minedBlock.Index != 1 || minedBlock.Transactions[0].Outputs[0].Address != w.Address() {
		t.Fatalf("POST /blocks: unexpected block %v", minedBlock)
	}

	var blocks []*externalapi.DomainBlock
	doRequest(t, server, http.MethodGet, "/blocks", nil, http.StatusOK, &blocks)
	if len(blocks) != 2 || !blocks[1].Equal(minedBlock) {
		t.Fatalf("GET /blocks: the mined block isn't the tip")
	}

	block := &externalapi.DomainBlock{}
	doRequest(t, server, http.MethodGet, "/blocks/"+minedBlock.Hash, nil, http.StatusOK, block)
	if !block.Equal(minedBlock) {
		t.Fatalf("GET /blocks/{hash}: unexpected block %v", block)
	}

	balance := &balanceResponse{}
	doRequest(t, server, http.MethodGet, "/me/balance", nil, http.StatusOK, balance)
	if balance.Balance != chainconfig.MainnetParams.BlockReward {
		t.Fatalf("GET /me/balance: expected %d, got %d", chainconfig.MainnetParams.BlockReward, balance.Balance)
	}

	var utxos []externalapi.UTXOEntry
	doRequest(t, server, http.MethodGet, "/me/utxos", nil, http.StatusOK, &utxos)
	if len(utxos) != 1 || utxos[0].TransactionID != minedBlock.Transactions[0].ID {
		t.Fatalf("GET /me/utxos: unexpected outputs %v", utxos)
	}

	var allUTXOs []externalapi.UTXOEntry
	doRequest(t, server, http.MethodGet, "/utxos", nil, http.StatusOK, &allUTXOs)
	if len(allUTXOs) != 2 {
		t.Fatalf("GET /utxos: expected the genesis and the reward outputs, got %v", allUTXOs)
	}
}

func TestSendTransaction(t *testing.T) {
	server, _ := newTestServer(t)
	_, recipientAddress := testutils.GenerateKey(t)

	doRequest(t, server, http.MethodPost, "/blocks", nil, http.StatusOK, nil)

	tx := &externalapi.DomainTransaction{}
	doRequest(t, server, http.MethodPost, "/transactions",
		&sendTransactionBody{Address: recipientAddress, Amount: 20}, http.StatusOK, tx)
	if tx.Outputs[0].Address != recipientAddress || tx.Outputs[0].Amount != 20 {
		t.Fatalf("POST /transactions: unexpected transaction %v", tx)
	}

	var pool []*externalapi.DomainTransaction
	doRequest(t, server, http.MethodGet, "/transactions", nil, http.StatusOK, &pool)
	if len(pool) != 1 || !pool[0].Equal(tx) {
		t.Fatalf("GET /transactions: unexpected mempool %v", pool)
	}

	hErr := &rpccontext.HandlerError{}
	doRequest(t, server, http.MethodGet, "/transactions/"+tx.ID, nil, http.StatusNotFound, hErr)
	if hErr.ErrorCode != http.StatusNotFound {
		t.Fatalf("GET /transactions/{id}: unexpected error %v", hErr)
	}

	doRequest(t, server, http.MethodPost, "/blocks", nil, http.StatusOK, nil)

	found := &externalapi.DomainTransaction{}
	doRequest(t, server, http.MethodGet, "/transactions/"+tx.ID, nil, http.StatusOK, found)
	if !found.Equal(tx) {
		t.Fatalf("GET /transactions/{id}: unexpected transaction %v", found)
	}

	balance := &balanceResponse{}
	doRequest(t, server, http.MethodGet, "/addresses/"+recipientAddress+"/balance", nil, http.StatusOK, balance)
	if balance.Balance != 20 {
		t.Fatalf("GET /addresses/{address}/balance: expected 20, got %d", balance.Balance)
	}
	doRequest(t, server, http.MethodGet, "/me/balance", nil, http.StatusOK, balance)
	if balance.Balance != 2*chainconfig.MainnetParams.BlockReward-20 {
		t.Fatalf("GET /me/balance: expected %d, got %d", 2*chainconfig.MainnetParams.BlockReward-20, balance.Balance)
	}
}

type addressResponse struct {
	Address string `json:"address"`
}

type balanceResponse struct {
	Balance uint64 `json:"balance"`
}

type sendTransactionBody struct {
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
}

func TestErrors(t *testing.T) {
	server, _ := newTestServer(t)
	_, recipientAddress := testutils.GenerateKey(t)

	tests := []struct {
		name           string
		method         string
		path           string
		body           interface{}
		expectedStatus int
	}{
		{"unknown block", http.MethodGet, "/blocks/abc", nil, http.StatusNotFound},
		{"unknown transaction", http.MethodGet, "/transactions/abc", nil, http.StatusNotFound},
		{"insufficient funds", http.MethodPost, "/transactions",
			&sendTransactionBody{Address: recipientAddress, Amount: 1000}, http.StatusBadRequest},
		{"zero amount", http.MethodPost, "/transactions",
			&sendTransactionBody{Address: recipientAddress, Amount: 0}, http.StatusBadRequest},
		{"bad recipient", http.MethodPost, "/transactions",
			&sendTransactionBody{Address: "04abc", Amount: 1}, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/transactions", "not an object", http.StatusBadRequest},
		{"bad peer", http.MethodPost, "/peers", &addPeerBody{Peer: "no port"}, http.StatusBadRequest},
		{"bad address", http.MethodGet, "/addresses/abc/balance", nil, http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/nothing", nil, http.StatusNotFound},
		{"wrong method", http.MethodDelete, "/blocks", nil, http.StatusMethodNotAllowed},
	}
	for _, test := range tests {
		hErr := &rpccontext.HandlerError{}
		doRequest(t, server, test.method, test.path, test.body, test.expectedStatus, hErr)
		if hErr.ErrorCode != test.expectedStatus || hErr.ErrorMessage == "" {
			t.Errorf("%s: unexpected error body %v", test.name, hErr)
		}
	}
}

type addPeerBody struct {
	Peer string `json:"peer"`
}

func TestPeers(t *testing.T) {
	server, _ := newTestServer(t)

	var peers []map[string]interface{}
	doRequest(t, server, http.MethodGet, "/peers", nil, http.StatusOK, &peers)
	if len(peers) != 0 {
		t.Fatalf("GET /peers: expected no peers, got %v", peers)
	}

	response := &addPeerBody{}
	doRequest(t, server, http.MethodPost, "/peers", &addPeerBody{Peer: "127.0.0.1:16111"}, http.StatusOK, response)
	if response.Peer != "127.0.0.1:16111" {
		t.Fatalf("POST /peers: unexpected response %v", response)
	}
}
