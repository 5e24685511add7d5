package quantum

import "fmt"

// GateKind enumerates the recordable gate alphabet.
type GateKind int

const (
	GateH GateKind = iota
	GateX
	GateY
	GateZ
	GateS
	GateT
	GateCNOT
	GateRX
	GateRY
	GateRZ
	GateToffoli
)

// String returns the gate's display name.
func (k GateKind) String() string {
	switch k {
	case GateH:
		return "H"
	case GateX:
		return "X"
	case GateY:
		return "Y"
	case GateZ:
		return "Z"
	case GateS:
		return "S"
	case GateT:
		return "T"
	case GateCNOT:
		return "CNOT"
	case GateRX:
		return "RX"
	case GateRY:
		return "RY"
	case GateRZ:
		return "RZ"
	case GateToffoli:
		return "TOFFOLI"
	}
	return fmt.Sprintf("GateKind(%d)", int(k))
}

// Parameterized reports whether the kind carries a rotation angle.
func (k GateKind) Parameterized() bool {
	return k == GateRX || k == GateRY || k == GateRZ
}

// RecordedGate is one tape entry: the gate kind, its operand qubits, and the
// rotation angle when the kind is parameterized.
type RecordedGate struct {
	Kind   GateKind
	Qubits []int
	Params []float64
}

// SetRecording toggles tape recording. Kernels append their entry after the
// state mutation succeeds; measurements are never recorded.
func (r *Register) SetRecording(on bool) { r.recording = on }

// Recording reports whether the tape is capturing gates.
func (r *Register) Recording() bool { return r.recording }

// ClearTape drops every recorded entry.
func (r *Register) ClearTape() { r.tape = nil }

// Tape returns the recorded gate sequence in application order.
func (r *Register) Tape() []RecordedGate { return r.tape }

func (r *Register) record(kind GateKind, qubits []int, params []float64) {
	if !r.recording {
		return
	}
	g := RecordedGate{Kind: kind, Qubits: append([]int(nil), qubits...)}
	if len(params) > 0 {
		g.Params = append([]float64(nil), params...)
	}
	r.tape = append(r.tape, g)
}

func (g RecordedGate) check() error {
	want := 1
	switch g.Kind {
	case GateCNOT:
		want = 2
	case GateToffoli:
		want = 3
	}
	if len(g.Qubits) != want {
		return fmt.Errorf("%w: %s takes %d qubit(s), got %d", ErrInvalidArgument, g.Kind, want, len(g.Qubits))
	}
	if g.Kind.Parameterized() && len(g.Params) != 1 {
		return fmt.Errorf("%w: %s takes one angle", ErrInvalidArgument, g.Kind)
	}
	return nil
}

// Apply dispatches a recorded gate to its kernel.
func (r *Register) Apply(g RecordedGate) error {
	if err := g.check(); err != nil {
		return err
	}
	switch g.Kind {
	case GateH:
		return r.ApplyH(g.Qubits[0])
	case GateX:
		return r.ApplyX(g.Qubits[0])
	case GateY:
		return r.ApplyY(g.Qubits[0])
	case GateZ:
		return r.ApplyZ(g.Qubits[0])
	case GateS:
		return r.ApplyS(g.Qubits[0])
	case GateT:
		return r.ApplyT(g.Qubits[0])
	case GateCNOT:
		return r.ApplyCNOT(g.Qubits[0], g.Qubits[1])
	case GateRX:
		return r.ApplyRX(g.Qubits[0], g.Params[0])
	case GateRY:
		return r.ApplyRY(g.Qubits[0], g.Params[0])
	case GateRZ:
		return r.ApplyRZ(g.Qubits[0], g.Params[0])
	case GateToffoli:
		return r.ApplyToffoli(g.Qubits[0], g.Qubits[1], g.Qubits[2])
	}
	return fmt.Errorf("%w: unknown gate kind %d", ErrInvalidArgument, int(g.Kind))
}

// ApplyInverse applies the recorded gate's inverse: self-inverse kinds replay
// as-is, rotations negate the angle, S and T conjugate their phase.
func (r *Register) ApplyInverse(g RecordedGate) error {
	if err := g.check(); err != nil {
		return err
	}
	switch g.Kind {
	case GateH, GateX, GateY, GateZ, GateCNOT, GateToffoli:
		return r.Apply(g)
	case GateRX:
		return r.ApplyRX(g.Qubits[0], -g.Params[0])
	case GateRY:
		return r.ApplyRY(g.Qubits[0], -g.Params[0])
	case GateRZ:
		return r.ApplyRZ(g.Qubits[0], -g.Params[0])
	case GateS:
		return r.applyPhase(g.Qubits[0], complex(0, -1))
	case GateT:
		return r.applyPhase(g.Qubits[0], complex(invSqrt2, -invSqrt2))
	}
	return fmt.Errorf("%w: unknown gate kind %d", ErrInvalidArgument, int(g.Kind))
}
