package grpcserver

import (
	"context"
	"net"
	"time"

	"github.com/moecoin/moecoind/app/appmessage"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter/server"
	"github.com/moecoin/moecoind/infrastructure/network/netadapter/server/grpcserver/protowire"
	"github.com/moecoin/moecoind/util/panics"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/peer"
)

const dialTimeout = 30 * time.Second

type p2pServer struct {
	*gRPCServer
}

// P2PServer is a server.P2PServer that also reports where it listens
type P2PServer interface {
	server.P2PServer
	ListeningAddresses() []string
}

// NewP2PServer creates a new P2PServer. Outbound connections are opened
// with dial, or with net.DialTimeout when dial is nil.
func NewP2PServer(listeningAddresses []string, dial DialFunc) (P2PServer, error) {
	gRPCServer := newGRPCServer(listeningAddresses, dial, appmessage.MaxMessagePayload, "P2P")
	p2pServer := &p2pServer{gRPCServer: gRPCServer}
	protowire.RegisterP2PServer(gRPCServer.server, p2pServer)
	return p2pServer, nil
}

func (p *p2pServer) MessageStream(stream protowire.P2P_MessageStreamServer) error {
	defer panics.HandlePanic(log, "p2pServer.MessageStream", nil)

	return p.handleInboundConnection(stream.Context(), stream)
}

// Connect connects to the given address
// This is part of the P2PServer interface
func (p *p2pServer) Connect(address string) (server.Connection, error) {
	log.Debugf("%s Dialing to %s", p.name, address)

	dialContext, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	gRPCClientConnection, err := grpc.DialContext(dialContext, address,
		grpc.WithInsecure(),
		grpc.WithBlock(),
		grpc.FailOnNonTempDialError(true),
		grpc.WithContextDialer(p.contextDialer),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(appmessage.MaxMessagePayload),
			grpc.MaxCallSendMsgSize(appmessage.MaxMessagePayload)))
	if err != nil {
		return nil, errors.Wrapf(err, "%s error connecting to %s", p.name, address)
	}

	client := protowire.NewP2PClient(gRPCClientConnection)
	stream, err := client.MessageStream(context.Background())
	if err != nil {
		_ = gRPCClientConnection.Close()
		return nil, errors.Wrapf(err, "%s error getting client stream for %s", p.name, address)
	}

	tcpAddress, err := streamTCPAddress(stream.Context(), address)
	if err != nil {
		_ = gRPCClientConnection.Close()
		return nil, err
	}

	connection := newConnection(p.gRPCServer, tcpAddress, stream, gRPCClientConnection)

	err = p.onConnectedHandler(connection)
	if err != nil {
		_ = gRPCClientConnection.Close()
		return nil, err
	}

	log.Infof("%s Connected to %s", p.name, address)

	return connection, nil
}

// streamTCPAddress returns the remote address of a client stream, falling
// back to resolving the dialled address when the stream doesn't carry one
func streamTCPAddress(ctx context.Context, address string) (*net.TCPAddr, error) {
	if peerInfo, ok := peer.FromContext(ctx); ok {
		if tcpAddress, ok := peerInfo.Addr.(*net.TCPAddr); ok {
			return tcpAddress, nil
		}
	}
	tcpAddress, err := net.ResolveTCPAddr("tcp", address)
	if err != nil {
		return nil, errors.Wrapf(err, "error resolving the address of %s", address)
	}
	return tcpAddress, nil
}
