package protowire

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// P2PClient is the client API for the P2P service.
type P2PClient interface {
	MessageStream(ctx context.Context, opts ...grpc.CallOption) (P2P_MessageStreamClient, error)
}

type p2PClient struct {
	cc grpc.ClientConnInterface
}

// NewP2PClient returns a P2PClient over cc
func NewP2PClient(cc grpc.ClientConnInterface) P2PClient {
	return &p2PClient{cc}
}

func (c *p2PClient) MessageStream(ctx context.Context, opts ...grpc.CallOption) (P2P_MessageStreamClient, error) {
	stream, err := c.cc.NewStream(ctx, &P2PServiceDesc.Streams[0], "/protowire.P2P/MessageStream", opts...)
	if err != nil {
		return nil, err
	}
	return &p2PMessageStreamClient{stream}, nil
}

// P2P_MessageStreamClient is the client side of a MessageStream call
type P2P_MessageStreamClient interface {
	Send(*wrapperspb.BytesValue) error
	Recv() (*wrapperspb.BytesValue, error)
	grpc.ClientStream
}

type p2PMessageStreamClient struct {
	grpc.ClientStream
}

func (x *p2PMessageStreamClient) Send(m *wrapperspb.BytesValue) error {
	return x.ClientStream.SendMsg(m)
}

func (x *p2PMessageStreamClient) Recv() (*wrapperspb.BytesValue, error) {
	m := new(wrapperspb.BytesValue)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// P2PServer is the server API for the P2P service.
type P2PServer interface {
	MessageStream(P2P_MessageStreamServer) error
}

// RegisterP2PServer registers srv as the P2P service of s
func RegisterP2PServer(s grpc.ServiceRegistrar, srv P2PServer) {
	s.RegisterService(&P2PServiceDesc, srv)
}

func p2PMessageStreamHandler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(P2PServer).MessageStream(&p2PMessageStreamServer{stream})
}

// P2P_MessageStreamServer is the server side of a MessageStream call
type P2P_MessageStreamServer interface {
	Send(*wrapperspb.BytesValue) error
	Recv() (*wrapperspb.BytesValue, error)
	grpc.ServerStream
}

type p2PMessageStreamServer struct {
	grpc.ServerStream
}

func (x *p2PMessageStreamServer) Send(m *wrapperspb.BytesValue) error {
	return x.ServerStream.SendMsg(m)
}

func (x *p2PMessageStreamServer) Recv() (*wrapperspb.BytesValue, error) {
	m := new(wrapperspb.BytesValue)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// P2PServiceDesc is the grpc.ServiceDesc for the P2P service: a single
// bidirectional stream of BytesValue frames
var P2PServiceDesc = grpc.ServiceDesc{
	ServiceName: "protowire.P2P",
	HandlerType: (*P2PServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "MessageStream",
			Handler:       p2PMessageStreamHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "p2p.proto",
}
