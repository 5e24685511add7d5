package backend

import (
	"fmt"
	"os"

	"qubitengine/api"
	"qubitengine/quantum"
)

// Simulator runs gates on a local state-vector register.
type Simulator struct {
	reg       *quantum.Register
	classical map[uint32]uint32
}

// NewSimulator allocates a |0...0> register of the given width.
func NewSimulator(numQubits int) (*Simulator, error) {
	reg, err := quantum.New(numQubits)
	if err != nil {
		return nil, err
	}
	return &Simulator{reg: reg, classical: make(map[uint32]uint32)}, nil
}

// NewSimulatorOn wraps an existing register, for callers that configured
// partitioning or compute themselves.
func NewSimulatorOn(reg *quantum.Register) *Simulator {
	return &Simulator{reg: reg, classical: make(map[uint32]uint32)}
}

// Register exposes the underlying state for in-process embedders.
func (s *Simulator) Register() *quantum.Register { return s.reg }

// ApplyGate maps a wire operation onto the register kernels. Measurement
// stores its bit under the operation's classical register id, defaulting to
// the target qubit.
func (s *Simulator) ApplyGate(op api.GateOperation) error {
	if err := op.Validate(s.reg.NumQubits()); err != nil {
		return fmt.Errorf("%w: %v", quantum.ErrInvalidArgument, err)
	}
	t := int(op.TargetQubit)
	switch op.Type {
	case api.GateHadamard:
		return s.reg.ApplyH(t)
	case api.GatePauliX:
		return s.reg.ApplyX(t)
	case api.GatePauliY:
		return s.reg.ApplyY(t)
	case api.GatePauliZ:
		return s.reg.ApplyZ(t)
	case api.GateCNOT:
		return s.reg.ApplyCNOT(int(op.ControlQubit), t)
	case api.GateToffoli:
		return s.reg.ApplyToffoli(int(op.ControlQubit), int(op.SecondControlQubit), t)
	case api.GatePhaseS:
		return s.reg.ApplyS(t)
	case api.GatePhaseT:
		return s.reg.ApplyT(t)
	case api.GateRotationX:
		return s.reg.ApplyRX(t, op.Angle)
	case api.GateRotationY:
		return s.reg.ApplyRY(t, op.Angle)
	case api.GateRotationZ:
		return s.reg.ApplyRZ(t, op.Angle)
	case api.GateMeasure:
		bit, err := s.reg.Measure(t)
		if err != nil {
			return err
		}
		id := op.ClassicalRegister
		if id == 0 {
			id = op.TargetQubit
		}
		s.classical[id] = uint32(bit)
		return nil
	}
	return fmt.Errorf("%w: gate %q not executable on the simulator", quantum.ErrInvalidArgument, op.Type)
}

// ApplyNoise runs one depolarizing trajectory over the register.
func (s *Simulator) ApplyNoise(probability float64) error {
	return s.reg.ApplyDepolarizingNoise(probability)
}

// Result serializes the local amplitudes and classical bits, tagged with
// this process's provenance id.
func (s *Simulator) Result(resp *api.StateResponse) error {
	state := s.reg.LocalSlice()
	resp.StateVector = make([]api.Amplitude, len(state))
	for i, a := range state {
		resp.StateVector[i] = api.Amplitude{Real: real(a), Imag: imag(a)}
	}
	if len(s.classical) > 0 {
		resp.ClassicalResults = make(map[uint32]uint32, len(s.classical))
		for k, v := range s.classical {
			resp.ClassicalResults[k] = v
		}
	}
	resp.ServerID = ServerID(s.reg)
	return nil
}

// ServerID builds the provenance tag "<hostname>[ (rank R/W)]".
func ServerID(reg *quantum.Register) string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown-host"
	}
	if reg != nil && reg.WorldSize() > 1 {
		return fmt.Sprintf("%s (rank %d/%d)", host, reg.Rank(), reg.WorldSize())
	}
	return host
}
