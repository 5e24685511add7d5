package backend

import (
	"math"
	"strings"
	"testing"

	"qubitengine/api"
)

func TestFactorySelectsFamilies(t *testing.T) {
	b, err := New(api.BackendSimulator, 2)
	if err != nil {
		t.Fatalf("New simulator: %v", err)
	}
	if _, ok := b.(*Simulator); !ok {
		t.Errorf("SIMULATOR built %T", b)
	}

	b, err = New(api.BackendMockHardware, 2)
	if err != nil {
		t.Fatalf("New mock: %v", err)
	}
	if _, ok := b.(*MockHardware); !ok {
		t.Errorf("MOCK_HARDWARE built %T", b)
	}

	b, err = New(api.BackendCloud, 2)
	if err != nil {
		t.Fatalf("New cloud: %v", err)
	}
	if _, ok := b.(*Cloud); !ok {
		t.Errorf("CLOUD built %T", b)
	}

	if _, err := New("WARP_DRIVE", 2); err == nil {
		t.Error("unknown backend accepted")
	}
}

func TestSimulatorRunsBellCircuit(t *testing.T) {
	sim, err := NewSimulator(2)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	ops := []api.GateOperation{
		{Type: api.GateHadamard, TargetQubit: 0},
		{Type: api.GateCNOT, ControlQubit: 0, TargetQubit: 1},
	}
	for _, op := range ops {
		if err := sim.ApplyGate(op); err != nil {
			t.Fatalf("ApplyGate(%v): %v", op.Type, err)
		}
	}

	var resp api.StateResponse
	if err := sim.Result(&resp); err != nil {
		t.Fatalf("Result: %v", err)
	}
	if len(resp.StateVector) != 4 {
		t.Fatalf("state vector has %d entries, want 4", len(resp.StateVector))
	}
	want := 1 / math.Sqrt2
	if math.Abs(resp.StateVector[0].Real-want) > 1e-12 || math.Abs(resp.StateVector[3].Real-want) > 1e-12 {
		t.Errorf("bell amplitudes %v / %v, want %v", resp.StateVector[0], resp.StateVector[3], want)
	}
	if resp.ServerID == "" {
		t.Error("response missing server id")
	}
}

func TestSimulatorStoresClassicalResults(t *testing.T) {
	sim, err := NewSimulator(1)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	sim.ApplyGate(api.GateOperation{Type: api.GatePauliX, TargetQubit: 0})
	if err := sim.ApplyGate(api.GateOperation{Type: api.GateMeasure, TargetQubit: 0, ClassicalRegister: 7}); err != nil {
		t.Fatalf("measure: %v", err)
	}

	var resp api.StateResponse
	sim.Result(&resp)
	if resp.ClassicalResults[7] != 1 {
		t.Errorf("classical register 7 = %d, want 1", resp.ClassicalResults[7])
	}
}

func TestSimulatorRejectsBadOperations(t *testing.T) {
	sim, err := NewSimulator(2)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	if err := sim.ApplyGate(api.GateOperation{Type: api.GateHadamard, TargetQubit: 9}); err == nil {
		t.Error("out-of-range target accepted")
	}
	if err := sim.ApplyGate(api.GateOperation{Type: "NOPE", TargetQubit: 0}); err == nil {
		t.Error("unknown gate accepted")
	}
}

func TestMockHardwareResultShape(t *testing.T) {
	mock := NewMockHardware(2)
	mock.GateLatency = 0
	mock.QueueLatency = 0

	mock.ApplyGate(api.GateOperation{Type: api.GateHadamard, TargetQubit: 0})
	var resp api.StateResponse
	if err := mock.Result(&resp); err != nil {
		t.Fatalf("Result: %v", err)
	}
	if len(resp.StateVector) != 4 {
		t.Fatalf("state vector has %d entries, want 4", len(resp.StateVector))
	}
	if resp.StateVector[0].Real < 0.5 {
		t.Errorf("a0 = %v, want near 0.9", resp.StateVector[0].Real)
	}
	if resp.ServerID != "Mock-IBM-Q-System-One" {
		t.Errorf("server id %q", resp.ServerID)
	}
}

func TestMockHardwareCapsLargeRegisters(t *testing.T) {
	mock := NewMockHardware(12)
	mock.QueueLatency = 0
	var resp api.StateResponse
	mock.Result(&resp)
	if len(resp.StateVector) != 1024 {
		t.Errorf("capped vector has %d entries, want 1024", len(resp.StateVector))
	}
}

func TestCloudBuffersAndTagsJob(t *testing.T) {
	cloud := NewCloud(2)
	cloud.ApplyGate(api.GateOperation{Type: api.GateHadamard, TargetQubit: 0})
	cloud.ApplyGate(api.GateOperation{Type: api.GateCNOT, ControlQubit: 0, TargetQubit: 1})
	if len(cloud.Buffered()) != 2 {
		t.Fatalf("buffered %d gates, want 2", len(cloud.Buffered()))
	}

	var resp api.StateResponse
	if err := cloud.Result(&resp); err != nil {
		t.Fatalf("Result: %v", err)
	}
	if !strings.HasPrefix(resp.ServerID, "cloud::") {
		t.Errorf("server id %q, want cloud:: job tag", resp.ServerID)
	}
	if resp.StateVector[0].Real != 1 {
		t.Errorf("cloud canonical state a0 = %v, want 1", resp.StateVector[0])
	}
}
