// Package backend dispatches gate execution to an implementation family:
// the local state-vector simulator, a mock-hardware stand-in, or the cloud
// stub. The Backend interface is the only contract the RPC layer sees.
package backend

import (
	"fmt"

	"qubitengine/api"
	"qubitengine/quantum"
)

// Backend executes gate operations and serializes the result.
type Backend interface {
	// ApplyGate applies one gate operation.
	ApplyGate(op api.GateOperation) error

	// Result copies the local amplitudes (and any classical measurement
	// results) into the response.
	Result(resp *api.StateResponse) error
}

// NoiseInjector is implemented by backends that can run a depolarizing noise
// trajectory over their state.
type NoiseInjector interface {
	ApplyNoise(probability float64) error
}

// New builds the backend family selected by a circuit request.
func New(kind api.ExecutionBackend, numQubits int) (Backend, error) {
	switch kind {
	case api.BackendMockHardware:
		return NewMockHardware(numQubits), nil
	case api.BackendCloud:
		return NewCloud(numQubits), nil
	case api.BackendSimulator, "":
		return NewSimulator(numQubits)
	}
	return nil, fmt.Errorf("%w: unknown execution backend %q", quantum.ErrInvalidArgument, kind)
}
