package api

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service the engine exposes.
const ServiceName = "qubitengine.QuantumCompute"

const (
	methodRunCircuit  = "/" + ServiceName + "/RunCircuit"
	methodStreamGates = "/" + ServiceName + "/StreamGates"
	methodRunVQE      = "/" + ServiceName + "/RunVQE"
)

// QuantumComputeServer is the contract the engine daemon implements.
type QuantumComputeServer interface {
	// RunCircuit executes a whole circuit and returns the final state.
	RunCircuit(ctx context.Context, req *CircuitRequest) (*StateResponse, error)

	// StreamGates accepts gate frames and emits the post-gate state after
	// each one. The first frame must be a SETUP operation.
	StreamGates(stream GateStream) error

	// RunVQE streams optimization progress for a variational run.
	RunVQE(req *VQERequest, stream VQEStream) error
}

// GateStream is the server view of the bidirectional gate channel.
type GateStream interface {
	Send(*StateResponse) error
	Recv() (*GateOperation, error)
	Context() context.Context
}

// VQEStream is the server view of the VQE progress stream.
type VQEStream interface {
	Send(*VQEResponse) error
	Context() context.Context
}

// RegisterQuantumComputeServer wires an implementation into a gRPC server.
func RegisterQuantumComputeServer(s grpc.ServiceRegistrar, srv QuantumComputeServer) {
	s.RegisterService(&quantumComputeServiceDesc, srv)
}

var quantumComputeServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*QuantumComputeServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RunCircuit", Handler: runCircuitHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "StreamGates", Handler: streamGatesHandler, ServerStreams: true, ClientStreams: true},
		{StreamName: "RunVQE", Handler: runVQEHandler, ServerStreams: true},
	},
	Metadata: "qubitengine/api",
}

func runCircuitHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CircuitRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QuantumComputeServer).RunCircuit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodRunCircuit}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(QuantumComputeServer).RunCircuit(ctx, req.(*CircuitRequest))
	}
	return interceptor(ctx, in, info, handler)
}

type gateServerStream struct{ grpc.ServerStream }

func (s *gateServerStream) Send(r *StateResponse) error { return s.ServerStream.SendMsg(r) }

func (s *gateServerStream) Recv() (*GateOperation, error) {
	op := new(GateOperation)
	if err := s.ServerStream.RecvMsg(op); err != nil {
		return nil, err
	}
	return op, nil
}

func streamGatesHandler(srv any, stream grpc.ServerStream) error {
	return srv.(QuantumComputeServer).StreamGates(&gateServerStream{stream})
}

type vqeServerStream struct{ grpc.ServerStream }

func (s *vqeServerStream) Send(r *VQEResponse) error { return s.ServerStream.SendMsg(r) }

func runVQEHandler(srv any, stream grpc.ServerStream) error {
	req := new(VQERequest)
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	return srv.(QuantumComputeServer).RunVQE(req, &vqeServerStream{stream})
}

// QuantumComputeClient is the client half of the service, built on a raw
// grpc.ClientConnInterface. Dial with
// grpc.WithDefaultCallOptions(grpc.CallContentSubtype(api.CodecName)) so the
// JSON codec is negotiated.
type QuantumComputeClient struct {
	cc grpc.ClientConnInterface
}

// NewQuantumComputeClient wraps an established connection.
func NewQuantumComputeClient(cc grpc.ClientConnInterface) *QuantumComputeClient {
	return &QuantumComputeClient{cc: cc}
}

// RunCircuit executes a circuit remotely.
func (c *QuantumComputeClient) RunCircuit(ctx context.Context, req *CircuitRequest, opts ...grpc.CallOption) (*StateResponse, error) {
	out := new(StateResponse)
	if err := c.cc.Invoke(ctx, methodRunCircuit, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GateStreamClient is the client view of the bidirectional gate channel.
type GateStreamClient struct {
	grpc.ClientStream
}

// Send ships one gate frame.
func (s *GateStreamClient) Send(op *GateOperation) error { return s.ClientStream.SendMsg(op) }

// Recv receives the post-gate state.
func (s *GateStreamClient) Recv() (*StateResponse, error) {
	resp := new(StateResponse)
	if err := s.ClientStream.RecvMsg(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// StreamGates opens the gate channel.
func (c *QuantumComputeClient) StreamGates(ctx context.Context, opts ...grpc.CallOption) (*GateStreamClient, error) {
	stream, err := c.cc.NewStream(ctx, &quantumComputeServiceDesc.Streams[0], methodStreamGates, opts...)
	if err != nil {
		return nil, err
	}
	return &GateStreamClient{ClientStream: stream}, nil
}

// VQEStreamClient is the client view of the VQE progress stream.
type VQEStreamClient struct {
	grpc.ClientStream
}

// Recv receives the next progress frame.
func (s *VQEStreamClient) Recv() (*VQEResponse, error) {
	resp := new(VQEResponse)
	if err := s.ClientStream.RecvMsg(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RunVQE starts a variational run and returns its progress stream.
func (c *QuantumComputeClient) RunVQE(ctx context.Context, req *VQERequest, opts ...grpc.CallOption) (*VQEStreamClient, error) {
	stream, err := c.cc.NewStream(ctx, &quantumComputeServiceDesc.Streams[1], methodRunVQE, opts...)
	if err != nil {
		return nil, err
	}
	s := &VQEStreamClient{ClientStream: stream}
	if err := s.ClientStream.SendMsg(req); err != nil {
		return nil, err
	}
	if err := s.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return s, nil
}
