// Package api defines the wire contract of the engine: the gate-operation
// vocabulary, circuit submission and response messages, the QASM interchange,
// and the gRPC service descriptor both the daemon and the clients share.
package api

import "fmt"

// GateKind names a gate operation on the wire.
type GateKind string

const (
	// GateSetup is the mandatory first frame of a gate stream; it allocates
	// the register and carries only NumQubits.
	GateSetup GateKind = "SETUP"

	GateHadamard  GateKind = "HADAMARD"
	GatePauliX    GateKind = "PAULI_X"
	GatePauliY    GateKind = "PAULI_Y"
	GatePauliZ    GateKind = "PAULI_Z"
	GateCNOT      GateKind = "CNOT"
	GateMeasure   GateKind = "MEASURE"
	GateToffoli   GateKind = "TOFFOLI"
	GatePhaseS    GateKind = "PHASE_S"
	GatePhaseT    GateKind = "PHASE_T"
	GateRotationX GateKind = "ROTATION_X"
	GateRotationY GateKind = "ROTATION_Y"
	GateRotationZ GateKind = "ROTATION_Z"
)

// Valid reports whether the kind is part of the wire vocabulary.
func (k GateKind) Valid() bool {
	switch k {
	case GateSetup, GateHadamard, GatePauliX, GatePauliY, GatePauliZ, GateCNOT,
		GateMeasure, GateToffoli, GatePhaseS, GatePhaseT,
		GateRotationX, GateRotationY, GateRotationZ:
		return true
	}
	return false
}

// GateOperation is one gate on the wire.
type GateOperation struct {
	Type               GateKind `json:"type"`
	TargetQubit        uint32   `json:"target_qubit"`
	ControlQubit       uint32   `json:"control_qubit,omitempty"`
	SecondControlQubit uint32   `json:"second_control_qubit,omitempty"`
	Angle              float64  `json:"angle,omitempty"`
	ClassicalRegister  uint32   `json:"classical_register,omitempty"`
	NumQubits          uint32   `json:"num_qubits,omitempty"` // SETUP only
}

// ExecutionBackend selects the implementation family a circuit runs on.
type ExecutionBackend string

const (
	BackendSimulator    ExecutionBackend = "SIMULATOR"
	BackendMockHardware ExecutionBackend = "MOCK_HARDWARE"
	BackendCloud        ExecutionBackend = "CLOUD"
)

// CircuitRequest submits a whole circuit for execution.
type CircuitRequest struct {
	NumQubits        int32            `json:"num_qubits"`
	Operations       []GateOperation  `json:"operations"`
	NoiseProbability float64          `json:"noise_probability,omitempty"`
	ExecutionBackend ExecutionBackend `json:"execution_backend,omitempty"`
}

// Amplitude is one complex state-vector entry.
type Amplitude struct {
	Real float64 `json:"real"`
	Imag float64 `json:"imag"`
}

// StateResponse carries the post-execution state: the local amplitudes, the
// classical measurement results keyed by register id, and a provenance tag of
// the form "<hostname>[ (rank R/W)]".
type StateResponse struct {
	StateVector      []Amplitude       `json:"state_vector"`
	ClassicalResults map[uint32]uint32 `json:"classical_results,omitempty"`
	ServerID         string            `json:"server_id"`
}

// Molecule tags a VQE target system.
type Molecule string

const (
	MoleculeH2  Molecule = "H2"
	MoleculeLiH Molecule = "LiH"
)

// OptimizerKind selects the VQE optimization strategy.
type OptimizerKind string

const (
	OptimizerParameterShift OptimizerKind = "PARAMETER_SHIFT"
	OptimizerSPSA           OptimizerKind = "SPSA"
)

// VQERequest starts a variational optimization run.
type VQERequest struct {
	Molecule      Molecule      `json:"molecule"`
	OptimizerType OptimizerKind `json:"optimizer_type"`
	MaxIterations int32         `json:"max_iterations"`
	LearningRate  float64       `json:"learning_rate,omitempty"`
}

// VQEResponse is one progress frame of a VQE run.
type VQEResponse struct {
	Iteration  int32     `json:"iteration"`
	Energy     float64   `json:"energy"`
	Parameters []float64 `json:"parameters"`
	Converged  bool      `json:"converged"`
}

// Validate checks a gate operation against a register width.
func (op GateOperation) Validate(numQubits int) error {
	if !op.Type.Valid() {
		return fmt.Errorf("unknown gate type %q", op.Type)
	}
	if op.Type == GateSetup {
		return nil
	}
	n := uint32(numQubits)
	if op.TargetQubit >= n {
		return fmt.Errorf("target qubit %d outside register of %d", op.TargetQubit, numQubits)
	}
	switch op.Type {
	case GateCNOT:
		if op.ControlQubit >= n {
			return fmt.Errorf("control qubit %d outside register of %d", op.ControlQubit, numQubits)
		}
	case GateToffoli:
		if op.ControlQubit >= n || op.SecondControlQubit >= n {
			return fmt.Errorf("control qubits (%d,%d) outside register of %d",
				op.ControlQubit, op.SecondControlQubit, numQubits)
		}
	}
	return nil
}
