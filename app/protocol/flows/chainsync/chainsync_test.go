package chainsync

import (
	"testing"
	"time"

	"github.com/moecoin/moecoind/app/appmessage"
	"github.com/moecoin/moecoind/domain"
	"github.com/moecoin/moecoind/domain/chainconfig"
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/utils/mining"
	"github.com/moecoin/moecoind/domain/consensus/utils/testutils"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter/router"
	"github.com/pkg/errors"
)

type fakeChainContext struct {
	domain          domain.Domain
	addedBlocks     []*externalapi.DomainBlock
	replaceAttempts int
}

func (c *fakeChainContext) Domain() domain.Domain {
	return c.domain
}

func (c *fakeChainContext) AddBlock(block *externalapi.DomainBlock) error {
	err := c.domain.ValidateAndInsertBlock(block)
	if err != nil {
		return err
	}
	c.addedBlocks = append(c.addedBlocks, block)
	return nil
}

func (c *fakeChainContext) ReplaceChain(chain []*externalapi.DomainBlock) (bool, error) {
	c.replaceAttempts++
	return c.domain.ReplaceChain(chain)
}

func mineBlocks(t *testing.T, d domain.Domain, count int) {
	_, minerAddress := testutils.GenerateKey(t)
	for i := 0; i < count; i++ {
		template := d.BuildBlockTemplate(minerAddress)
		mining.SolveBlock(template.Block, 0, nil)
		err := d.ValidateAndInsertBlock(template.Block)
		if err != nil {
			t.Fatalf("ValidateAndInsertBlock: %+v", err)
		}
	}
}

// drainRoute closes route and returns whatever was enqueued to it
func drainRoute(t *testing.T, route *router.Route) []appmessage.Message {
	route.Close()
	var messages []appmessage.Message
	for {
		message, err := route.Dequeue()
		if err != nil {
			if !errors.Is(err, router.ErrRouteClosed) {
				t.Fatalf("Dequeue: %+v", err)
			}
			return messages
		}
		messages = append(messages, message)
	}
}

func newFlow(local domain.Domain) (*handleBlockchainResponseFlow, *fakeChainContext) {
	context := &fakeChainContext{domain: local}
	return &handleBlockchainResponseFlow{
		HandleBlockchainResponseContext: context,
		incomingRoute:                   router.NewRoute("incoming"),
		outgoingRoute:                   router.NewRoute("outgoing"),
	}, context
}

func TestHandleBlockchainResponseAddsLinkingBlock(t *testing.T) {
	local := domain.New(&chainconfig.MainnetParams)
	remote := domain.New(&chainconfig.MainnetParams)
	mineBlocks(t, remote, 1)

	flow, context := newFlow(local)
	err := flow.handleBlockchainResponse([]*externalapi.DomainBlock{remote.LatestBlock()})
	if err != nil {
		t.Fatalf("handleBlockchainResponse: %+v", err)
	}
	if len(context.addedBlocks) != 1 || !local.LatestBlock().Equal(remote.LatestBlock()) {
		t.Fatalf("handleBlockchainResponse: the block extending the tip wasn't added")
	}
	if messages := drainRoute(t, flow.outgoingRoute); len(messages) != 0 {
		t.Fatalf("handleBlockchainResponse: unexpected messages sent to the peer: %v", messages)
	}
}

func TestHandleBlockchainResponseRequestsFullChain(t *testing.T) {
	local := domain.New(&chainconfig.MainnetParams)
	remote := domain.New(&chainconfig.MainnetParams)
	mineBlocks(t, remote, 3)

	flow, context := newFlow(local)
	err := flow.handleBlockchainResponse([]*externalapi.DomainBlock{remote.LatestBlock()})
	if err != nil {
		t.Fatalf("handleBlockchainResponse: %+v", err)
	}
	if len(context.addedBlocks) != 0 || context.replaceAttempts != 0 {
		t.Fatalf("handleBlockchainResponse: a non linking block was committed or replaced the chain")
	}
	messages := drainRoute(t, flow.outgoingRoute)
	if len(messages) != 1 {
		t.Fatalf("handleBlockchainResponse: expected a single message to the peer, got %d", len(messages))
	}
	if _, ok := messages[0].(*appmessage.MsgGetAll); !ok {
		t.Fatalf("handleBlockchainResponse: expected GET_ALL, got %s", messages[0].Command())
	}
}

func TestHandleBlockchainResponseReplacesChain(t *testing.T) {
	local := domain.New(&chainconfig.MainnetParams)
	mineBlocks(t, local, 1)
	remote := domain.New(&chainconfig.MainnetParams)
	mineBlocks(t, remote, 3)

	flow, context := newFlow(local)
	err := flow.handleBlockchainResponse(remote.Blocks())
	if err != nil {
		t.Fatalf("handleBlockchainResponse: %+v", err)
	}
	if context.replaceAttempts != 1 {
		t.Fatalf("handleBlockchainResponse: expected one replacement attempt, got %d", context.replaceAttempts)
	}
	if !local.LatestBlock().Equal(remote.LatestBlock()) {
		t.Fatalf("handleBlockchainResponse: the heavier chain didn't replace the local one")
	}
}

func TestHandleBlockchainResponseIgnoresResponses(t *testing.T) {
	local := domain.New(&chainconfig.MainnetParams)
	mineBlocks(t, local, 2)
	remote := domain.New(&chainconfig.MainnetParams)
	mineBlocks(t, remote, 3)

	malformed := remote.LatestBlock()
	malformed.Hash = "not a hash"

	invalidChain := remote.Blocks()
	invalidChain[1].Nonce++

	tests := []struct {
		name   string
		blocks []*externalapi.DomainBlock
	}{
		{name: "empty", blocks: nil},
		{name: "not ahead", blocks: []*externalapi.DomainBlock{remote.Blocks()[1]}},
		{name: "malformed", blocks: []*externalapi.DomainBlock{malformed}},
		{name: "invalid chain", blocks: invalidChain},
	}

	tip := local.LatestBlock()
	for _, test := range tests {
		flow, context := newFlow(local)
		err := flow.handleBlockchainResponse(test.blocks)
		if err != nil {
			t.Fatalf("handleBlockchainResponse (%s): %+v", test.name, err)
		}
		if len(context.addedBlocks) != 0 {
			t.Errorf("handleBlockchainResponse (%s): unexpectedly added a block", test.name)
		}
		if messages := drainRoute(t, flow.outgoingRoute); len(messages) != 0 {
			t.Errorf("handleBlockchainResponse (%s): unexpected messages sent to the peer: %v", test.name, messages)
		}
		if !local.LatestBlock().Equal(tip) {
			t.Fatalf("handleBlockchainResponse (%s): the local chain changed", test.name)
		}
	}
}

func TestHandleChainRequests(t *testing.T) {
	local := domain.New(&chainconfig.MainnetParams)
	mineBlocks(t, local, 2)

	incomingRoute := router.NewRoute("incoming")
	outgoingRoute := router.NewRoute("outgoing")
	errChan := make(chan error, 1)
	go func() {
		errChan <- HandleChainRequests(&fakeChainContext{domain: local}, incomingRoute, outgoingRoute)
	}()

	err := incomingRoute.Enqueue(appmessage.NewMsgGetLatest())
	if err != nil {
		t.Fatalf("Enqueue: %+v", err)
	}
	err = incomingRoute.Enqueue(appmessage.NewMsgGetAll())
	if err != nil {
		t.Fatalf("Enqueue: %+v", err)
	}

	expectedLengths := []int{1, 3}
	for _, expectedLength := range expectedLengths {
		message, err := outgoingRoute.DequeueWithTimeout(5 * time.Second)
		if err != nil {
			t.Fatalf("DequeueWithTimeout: %+v", err)
		}
		response := message.(*appmessage.MsgBlockchainResponse)
		if len(response.Blocks) != expectedLength {
			t.Fatalf("HandleChainRequests: expected %d blocks, got %d", expectedLength, len(response.Blocks))
		}
		if !response.LastBlock().Equal(local.LatestBlock()) {
			t.Fatalf("HandleChainRequests: the response doesn't end with the local tip")
		}
	}

	incomingRoute.Close()
	err = <-errChan
	if !errors.Is(err, router.ErrRouteClosed) {
		t.Fatalf("HandleChainRequests: expected ErrRouteClosed, got %+v", err)
	}
}
