package server

import (
	"context"
	"io"
	"math"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"qubitengine/api"
)

func TestRunCircuitBell(t *testing.T) {
	e := New()
	resp, err := e.RunCircuit(context.Background(), &api.CircuitRequest{
		NumQubits: 2,
		Operations: []api.GateOperation{
			{Type: api.GateHadamard, TargetQubit: 0},
			{Type: api.GateCNOT, ControlQubit: 0, TargetQubit: 1},
		},
	})
	if err != nil {
		t.Fatalf("RunCircuit: %v", err)
	}
	want := 1 / math.Sqrt2
	if math.Abs(resp.StateVector[0].Real-want) > 1e-12 || math.Abs(resp.StateVector[3].Real-want) > 1e-12 {
		t.Errorf("bell state wrong: %v", resp.StateVector)
	}
	if resp.ServerID == "" {
		t.Error("missing server id")
	}
}

func TestRunCircuitValidatesRequest(t *testing.T) {
	e := New()
	cases := []struct {
		name string
		req  *api.CircuitRequest
		code codes.Code
	}{
		{"zero qubits", &api.CircuitRequest{NumQubits: 0}, codes.InvalidArgument},
		{"too many qubits", &api.CircuitRequest{NumQubits: 31}, codes.InvalidArgument},
		{"bad noise", &api.CircuitRequest{NumQubits: 1, NoiseProbability: 2}, codes.InvalidArgument},
		{"bad gate", &api.CircuitRequest{NumQubits: 1, Operations: []api.GateOperation{
			{Type: api.GateHadamard, TargetQubit: 5},
		}}, codes.InvalidArgument},
		{"setup outside stream", &api.CircuitRequest{NumQubits: 1, Operations: []api.GateOperation{
			{Type: api.GateSetup, NumQubits: 1},
		}}, codes.InvalidArgument},
		{"unknown backend", &api.CircuitRequest{NumQubits: 1, ExecutionBackend: "ABACUS"}, codes.InvalidArgument},
	}
	for _, tc := range cases {
		_, err := e.RunCircuit(context.Background(), tc.req)
		if status.Code(err) != tc.code {
			t.Errorf("%s: got %v (%v), want %v", tc.name, status.Code(err), err, tc.code)
		}
	}
}

func TestRunCircuitMeasurementResults(t *testing.T) {
	e := New()
	resp, err := e.RunCircuit(context.Background(), &api.CircuitRequest{
		NumQubits: 2,
		Operations: []api.GateOperation{
			{Type: api.GatePauliX, TargetQubit: 1},
			{Type: api.GateMeasure, TargetQubit: 1, ClassicalRegister: 3},
		},
	})
	if err != nil {
		t.Fatalf("RunCircuit: %v", err)
	}
	if resp.ClassicalResults[3] != 1 {
		t.Errorf("classical register 3 = %d, want 1", resp.ClassicalResults[3])
	}
}

func TestRunCircuitWithNoiseStaysNormalized(t *testing.T) {
	e := New()
	resp, err := e.RunCircuit(context.Background(), &api.CircuitRequest{
		NumQubits:        3,
		NoiseProbability: 1,
		Operations: []api.GateOperation{
			{Type: api.GateHadamard, TargetQubit: 0},
			{Type: api.GateCNOT, ControlQubit: 0, TargetQubit: 2},
		},
	})
	if err != nil {
		t.Fatalf("RunCircuit: %v", err)
	}
	total := 0.0
	for _, a := range resp.StateVector {
		total += a.Real*a.Real + a.Imag*a.Imag
	}
	if math.Abs(total-1) > 1e-9 {
		t.Errorf("norm after noise trajectory = %v", total)
	}
}

// fakeGateStream feeds scripted frames and records the responses.
type fakeGateStream struct {
	in  []api.GateOperation
	pos int
	out []*api.StateResponse
}

func (s *fakeGateStream) Recv() (*api.GateOperation, error) {
	if s.pos >= len(s.in) {
		return nil, io.EOF
	}
	op := s.in[s.pos]
	s.pos++
	return &op, nil
}

func (s *fakeGateStream) Send(r *api.StateResponse) error {
	s.out = append(s.out, r)
	return nil
}

func (s *fakeGateStream) Context() context.Context { return context.Background() }

func TestStreamGatesRequiresSetupFirst(t *testing.T) {
	e := New()
	stream := &fakeGateStream{in: []api.GateOperation{
		{Type: api.GateHadamard, TargetQubit: 0},
	}}
	err := e.StreamGates(stream)
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("gate before SETUP: got %v, want InvalidArgument", err)
	}
}

func TestStreamGatesEmitsPostGateStates(t *testing.T) {
	e := New()
	stream := &fakeGateStream{in: []api.GateOperation{
		{Type: api.GateSetup, NumQubits: 2},
		{Type: api.GateHadamard, TargetQubit: 0},
		{Type: api.GateCNOT, ControlQubit: 0, TargetQubit: 1},
	}}
	if err := e.StreamGates(stream); err != nil {
		t.Fatalf("StreamGates: %v", err)
	}
	if len(stream.out) != 3 {
		t.Fatalf("emitted %d responses, want 3", len(stream.out))
	}
	if math.Abs(stream.out[0].StateVector[0].Real-1) > 1e-12 {
		t.Errorf("post-setup state %v, want |00>", stream.out[0].StateVector)
	}
	want := 1 / math.Sqrt2
	last := stream.out[2]
	if math.Abs(last.StateVector[0].Real-want) > 1e-12 || math.Abs(last.StateVector[3].Real-want) > 1e-12 {
		t.Errorf("final stream state %v, want bell", last.StateVector)
	}
}

func TestStreamGatesRejectsSecondSetup(t *testing.T) {
	e := New()
	stream := &fakeGateStream{in: []api.GateOperation{
		{Type: api.GateSetup, NumQubits: 1},
		{Type: api.GateSetup, NumQubits: 2},
	}}
	if err := e.StreamGates(stream); status.Code(err) != codes.InvalidArgument {
		t.Errorf("second SETUP: got %v, want InvalidArgument", err)
	}
}

func TestStreamGatesRejectsOutOfRangeQubit(t *testing.T) {
	e := New()
	stream := &fakeGateStream{in: []api.GateOperation{
		{Type: api.GateSetup, NumQubits: 3},
		{Type: api.GateHadamard, TargetQubit: 3},
	}}
	if err := e.StreamGates(stream); status.Code(err) != codes.InvalidArgument {
		t.Errorf("out-of-range qubit: got %v, want InvalidArgument", err)
	}
}

type fakeVQEStream struct {
	out []*api.VQEResponse
}

func (s *fakeVQEStream) Send(r *api.VQEResponse) error {
	s.out = append(s.out, r)
	return nil
}

func (s *fakeVQEStream) Context() context.Context { return context.Background() }

func TestRunVQEParameterShiftConverges(t *testing.T) {
	e := New()
	stream := &fakeVQEStream{}
	err := e.RunVQE(&api.VQERequest{
		Molecule:      api.MoleculeH2,
		OptimizerType: api.OptimizerParameterShift,
		MaxIterations: 150,
		LearningRate:  0.2,
	}, stream)
	if err != nil {
		t.Fatalf("RunVQE: %v", err)
	}
	if len(stream.out) == 0 {
		t.Fatal("no progress frames emitted")
	}
	last := stream.out[len(stream.out)-1]
	if !last.Converged {
		t.Fatalf("run did not converge; final energy %v", last.Energy)
	}
	if last.Energy >= vqeConvergenceEnergy {
		t.Errorf("converged frame energy %v above threshold", last.Energy)
	}
	if len(last.Parameters) != 4 {
		t.Errorf("frame carries %d parameters, want 4", len(last.Parameters))
	}
}

func TestRunVQESPSAEmitsProgress(t *testing.T) {
	e := New()
	stream := &fakeVQEStream{}
	err := e.RunVQE(&api.VQERequest{
		Molecule:      api.MoleculeH2,
		OptimizerType: api.OptimizerSPSA,
		MaxIterations: 20,
	}, stream)
	if err != nil {
		t.Fatalf("RunVQE: %v", err)
	}
	if len(stream.out) == 0 {
		t.Fatal("no progress frames emitted")
	}
	for _, frame := range stream.out {
		if len(frame.Parameters) != 4 {
			t.Errorf("frame %d carries %d parameters", frame.Iteration, len(frame.Parameters))
		}
	}
}
