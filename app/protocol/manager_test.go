package protocol

import (
	"testing"
	"time"

	"github.com/moecoin/moecoind/domain"
	"github.com/moecoin/moecoind/domain/chainconfig"
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/utils/mining"
	"github.com/moecoin/moecoind/domain/consensus/utils/testutils"
	"github.com/moecoin/moecoind/infrastructure/config"
	"github.com/moecoin/moecoind/infrastructure/network/connmanager"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter"
)

type testNode struct {
	domain     domain.Domain
	netAdapter *netadapter.NetAdapter
	manager    *Manager
}

func startTestNode(t *testing.T) *testNode {
	cfg := config.DefaultConfig()
	cfg.Listeners = []string{"127.0.0.1:0"}
	cfg.Heartbeat = 100 * time.Millisecond
	cfg.MempoolDelay = 500 * time.Millisecond

	d := domain.New(&chainconfig.MainnetParams)
	netAdapter, err := netadapter.NewNetAdapter(cfg)
	if err != nil {
		t.Fatalf("NewNetAdapter: %+v", err)
	}
	connectionManager, err := connmanager.New(cfg, netAdapter)
	if err != nil {
		t.Fatalf("connmanager.New: %+v", err)
	}
	manager, err := NewManager(cfg, d, netAdapter, connectionManager)
	if err != nil {
		t.Fatalf("NewManager: %+v", err)
	}
	err = netAdapter.Start()
	if err != nil {
		t.Fatalf("Start: %+v", err)
	}
	return &testNode{domain: d, netAdapter: netAdapter, manager: manager}
}

func (node *testNode) stop(t *testing.T) {
	err := node.netAdapter.Stop()
	if err != nil {
		t.Fatalf("Stop: %+v", err)
	}
	node.manager.Close()
}

func solveBlock(d domain.Domain, minerAddress string) *externalapi.DomainBlock {
	template := d.BuildBlockTemplate(minerAddress)
	mining.SolveBlock(template.Block, 0, nil)
	return template.Block
}

func waitFor(t *testing.T, description string, condition func() bool) {
	deadline := time.Now().Add(10 * time.Second)
	for !condition() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", description)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestManagerSyncsNewPeer(t *testing.T) {
	nodeA := startTestNode(t)
	defer nodeA.stop(t)
	nodeB := startTestNode(t)
	defer nodeB.stop(t)

	privateKey, minerAddress := testutils.GenerateKey(t)
	var lastBlock *externalapi.DomainBlock
	for i := 0; i < 3; i++ {
		lastBlock = solveBlock(nodeA.domain, minerAddress)
		err := nodeA.domain.ValidateAndInsertBlock(lastBlock)
		if err != nil {
			t.Fatalf("ValidateAndInsertBlock: %+v", err)
		}
	}
	rewardOutpoint := externalapi.DomainOutpoint{TransactionID: lastBlock.Transactions[0].ID, Index: 0}
	tx := testutils.NewSignedTransaction(t, privateKey, nodeA.domain.UTXOSet(),
		[]externalapi.DomainOutpoint{rewardOutpoint},
		[]*externalapi.DomainTransactionOutput{{Address: minerAddress, Amount: chainconfig.MainnetParams.BlockReward}},
		lastBlock.Timestamp)
	err := nodeA.domain.ValidateAndInsertTransaction(tx)
	if err != nil {
		t.Fatalf("ValidateAndInsertTransaction: %+v", err)
	}

	_, err = nodeB.netAdapter.P2PConnect(nodeA.netAdapter.ListeningAddresses()[0])
	if err != nil {
		t.Fatalf("P2PConnect: %+v", err)
	}

	waitFor(t, "node B to adopt the chain of node A", func() bool {
		return nodeB.domain.LatestBlock().Equal(nodeA.domain.LatestBlock())
	})
	waitFor(t, "node B to fetch the mempool of node A", func() bool {
		pool := nodeB.domain.MempoolTransactions()
		return len(pool) == 1 && pool[0].Equal(tx)
	})
	if len(nodeA.manager.Peers()) != 1 || len(nodeB.manager.Peers()) != 1 {
		t.Fatalf("Peers: expected each node to have a single peer")
	}

	block := solveBlock(nodeB.domain, minerAddress)
	err = nodeB.manager.AddBlock(block)
	if err != nil {
		t.Fatalf("AddBlock: %+v", err)
	}
	waitFor(t, "node A to accept the block relayed by node B", func() bool {
		return nodeA.domain.LatestBlock().Equal(block)
	})
	if len(nodeA.domain.MempoolTransactions()) != 0 {
		t.Fatalf("AddBlock: the relayed block didn't clear the mined transaction from the mempool of node A")
	}
}

func TestManagerRelaysTransactions(t *testing.T) {
	nodeA := startTestNode(t)
	defer nodeA.stop(t)
	nodeB := startTestNode(t)
	defer nodeB.stop(t)

	_, err := nodeB.netAdapter.P2PConnect(nodeA.netAdapter.ListeningAddresses()[0])
	if err != nil {
		t.Fatalf("P2PConnect: %+v", err)
	}
	waitFor(t, "both nodes to see each other", func() bool {
		return len(nodeA.manager.Peers()) == 1 && len(nodeB.manager.Peers()) == 1
	})

	privateKey, minerAddress := testutils.GenerateKey(t)
	block := solveBlock(nodeA.domain, minerAddress)
	err = nodeA.manager.AddBlock(block)
	if err != nil {
		t.Fatalf("AddBlock: %+v", err)
	}
	waitFor(t, "node B to accept the block", func() bool {
		return nodeB.domain.LatestBlock().Equal(block)
	})

	rewardOutpoint := externalapi.DomainOutpoint{TransactionID: block.Transactions[0].ID, Index: 0}
	tx := testutils.NewSignedTransaction(t, privateKey, nodeA.domain.UTXOSet(),
		[]externalapi.DomainOutpoint{rewardOutpoint},
		[]*externalapi.DomainTransactionOutput{{Address: minerAddress, Amount: chainconfig.MainnetParams.BlockReward}},
		block.Timestamp)
	err = nodeA.manager.AddTransaction(tx)
	if err != nil {
		t.Fatalf("AddTransaction: %+v", err)
	}
	waitFor(t, "node B to accept the relayed transaction", func() bool {
		pool := nodeB.domain.MempoolTransactions()
		return len(pool) == 1 && pool[0].Equal(tx)
	})

	err = nodeA.manager.AddTransaction(tx)
	if err == nil {
		t.Fatalf("AddTransaction: expected a resubmitted transaction to be rejected")
	}
}
