package backend

import (
	"math/rand/v2"
	"time"

	"qubitengine/api"
)

// MockHardware stands in for a queued hardware device: gates cost a synthetic
// transmission latency and the readout is a noisy vector near |0...0>. Useful
// for exercising the dispatch path without a device account.
type MockHardware struct {
	numQubits int

	// GateLatency and QueueLatency default to hardware-ish values; tests
	// shrink them to keep the suite fast.
	GateLatency  time.Duration
	QueueLatency time.Duration
}

// NewMockHardware builds the stand-in for the given register width.
func NewMockHardware(numQubits int) *MockHardware {
	return &MockHardware{
		numQubits:    numQubits,
		GateLatency:  5 * time.Millisecond,
		QueueLatency: 2 * time.Second,
	}
}

// ApplyGate sleeps for the synthetic transmission time. Real hardware queues
// the whole circuit; the per-gate latency keeps streaming callers honest.
func (m *MockHardware) ApplyGate(op api.GateOperation) error {
	time.Sleep(m.GateLatency)
	return nil
}

// Result waits out the synthetic queue and returns a near-|0...0> vector
// with a Gaussian noise floor, capped at 1024 entries.
func (m *MockHardware) Result(resp *api.StateResponse) error {
	time.Sleep(m.QueueLatency)

	size := 1 << m.numQubits
	if size > 1024 {
		size = 1024
	}
	resp.StateVector = make([]api.Amplitude, size)
	for i := range resp.StateVector {
		amp := api.Amplitude{Real: gaussNoise(), Imag: gaussNoise()}
		if i == 0 {
			amp.Real += 0.9
		}
		resp.StateVector[i] = amp
	}
	resp.ServerID = "Mock-IBM-Q-System-One"
	return nil
}

func gaussNoise() float64 {
	return rand.NormFloat64() * 0.05
}
