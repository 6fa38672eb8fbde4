package rpchandlers

import (
	"net"
	"net/http"
	"time"

	"github.com/moecoin/moecoind/app/rpc/rpccontext"
)

type peerResponse struct {
	ID          string    `json:"id"`
	Address     string    `json:"address"`
	IsOutbound  bool      `json:"isOutbound"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// HandleGetPeers returns the currently connected peers
func HandleGetPeers(context *rpccontext.Context, _ *http.Request) (interface{}, error) {
	peers := context.ProtocolManager.Peers()
	response := make([]*peerResponse, len(peers))
	for i, peer := range peers {
		response[i] = &peerResponse{
			ID:          peer.ID().String(),
			Address:     peer.Address(),
			IsOutbound:  peer.IsOutbound(),
			ConnectedAt: peer.ConnectedAt(),
		}
	}
	return response, nil
}

type addPeerRequest struct {
	Peer string `json:"peer"`
}

// HandleAddPeer asks the connection manager to connect to the given peer
func HandleAddPeer(context *rpccontext.Context, request *http.Request) (interface{}, error) {
	body := &addPeerRequest{}
	err := decodeRequestBody(request, body)
	if err != nil {
		return nil, err
	}

	_, _, err = net.SplitHostPort(body.Peer)
	if err != nil {
		return nil, rpccontext.NewBadRequestError("Invalid peer address %q: %s", body.Peer, err)
	}

	log.Infof("Connecting to peer %s", body.Peer)
	context.ProtocolManager.AddPeer(body.Peer)
	return &addPeerRequest{Peer: body.Peer}, nil
}
