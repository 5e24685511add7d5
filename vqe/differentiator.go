package vqe

import (
	"fmt"
	"math"

	"qubitengine/quantum"
)

const coefficientFloor = 1e-9

// EvaluateEnergy instantiates a fresh |0...0> register, runs the ansatz, and
// returns the Hamiltonian expectation.
func EvaluateEnergy(n int, params []float64, ansatz Ansatz, hamiltonian []PauliTerm) (float64, error) {
	reg, err := quantum.New(n)
	if err != nil {
		return 0, err
	}
	if err := ansatz(params, reg); err != nil {
		return 0, err
	}
	return Energy(reg, hamiltonian)
}

// Gradients computes dE/dtheta by the parameter-shift rule: for a gate
// exp(-i*theta/2*P) with P in {X,Y,Z},
//
//	dE/dtheta = (E(theta + pi/2) - E(theta - pi/2)) / 2
//
// Cost: 2 ansatz executions per parameter, each evaluating every Hamiltonian
// term.
func Gradients(n int, params []float64, ansatz Ansatz, hamiltonian []PauliTerm) ([]float64, error) {
	const shift = math.Pi / 2
	grads := make([]float64, len(params))
	shifted := make([]float64, len(params))

	for i := range params {
		copy(shifted, params)
		shifted[i] = params[i] + shift
		plus, err := EvaluateEnergy(n, shifted, ansatz, hamiltonian)
		if err != nil {
			return nil, fmt.Errorf("parameter %d forward shift: %w", i, err)
		}

		shifted[i] = params[i] - shift
		minus, err := EvaluateEnergy(n, shifted, ansatz, hamiltonian)
		if err != nil {
			return nil, fmt.Errorf("parameter %d backward shift: %w", i, err)
		}

		grads[i] = 0.5 * (plus - minus)
	}
	return grads, nil
}

// GradientsAdjoint computes the same gradient by reverse-mode replay of the
// recorded tape, one backward pass per Hamiltonian term. Runtime is
// O((1+K)*L) gate applications for K terms and tape length L, independent of
// the parameter count; memory is three state vectors (psi, lambda, scratch).
func GradientsAdjoint(n int, params []float64, ansatz Ansatz, hamiltonian []PauliTerm) ([]float64, error) {
	// Record the circuit once.
	trace, err := quantum.New(n)
	if err != nil {
		return nil, err
	}
	trace.SetRecording(true)
	if err := ansatz(params, trace); err != nil {
		return nil, err
	}
	tape := trace.Tape()

	// Map parameter index -> tape position. The ansatz contract requires the
	// parameterized gates to appear in parameter order; a count mismatch is a
	// broken circuit, never silently realigned.
	var paramPos []int
	for k, g := range tape {
		if g.Kind.Parameterized() {
			paramPos = append(paramPos, k)
		}
	}
	if len(paramPos) != len(params) {
		return nil, fmt.Errorf("%w: tape has %d parameterized gates, parameter vector has %d",
			quantum.ErrInvalidArgument, len(paramPos), len(params))
	}

	grads := make([]float64, len(params))
	for _, term := range hamiltonian {
		if math.Abs(term.Coefficient) < coefficientFloor {
			continue
		}

		// Forward pass to |psi>.
		psi, err := quantum.New(n)
		if err != nil {
			return nil, err
		}
		for _, g := range tape {
			if err := psi.Apply(g); err != nil {
				return nil, err
			}
		}

		// |lambda> = P_k |psi>; the coefficient scales the contribution at
		// accumulation time.
		lambda := psi.Clone()
		if err := applyPauliString(lambda, term.Pauli); err != nil {
			return nil, err
		}

		p := len(paramPos) - 1
		for k := len(tape) - 1; k >= 0; k-- {
			g := tape[k]
			if err := psi.ApplyInverse(g); err != nil {
				return nil, err
			}

			if p >= 0 && k == paramPos[p] {
				// o = <lambda| A U_k |psi_{k-1}> for generator A; the gradient
				// contribution is 2*Re(-i/2 * o) by d/dtheta<lambda|psi> plus
				// its conjugate.
				scratch := psi.Clone()
				if err := scratch.Apply(g); err != nil {
					return nil, err
				}
				if err := applyGenerator(scratch, g); err != nil {
					return nil, err
				}
				o, err := quantum.InnerProduct(lambda, scratch)
				if err != nil {
					return nil, err
				}
				deriv := o * complex(0, -0.5)
				grads[p] += 2 * real(deriv) * term.Coefficient
				p--
			}

			if err := lambda.ApplyInverse(g); err != nil {
				return nil, err
			}
		}
	}
	return grads, nil
}

func applyPauliString(reg *quantum.Register, pauli string) error {
	for q := 0; q < len(pauli) && q < reg.NumQubits(); q++ {
		var err error
		switch pauli[q] {
		case 'I':
		case 'X':
			err = reg.ApplyX(q)
		case 'Y':
			err = reg.ApplyY(q)
		case 'Z':
			err = reg.ApplyZ(q)
		default:
			err = fmt.Errorf("%w: Pauli character %q", quantum.ErrInvalidArgument, pauli[q])
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// applyGenerator applies the rotation's generator: X for RX, Y for RY, Z for
// RZ.
func applyGenerator(reg *quantum.Register, g quantum.RecordedGate) error {
	switch g.Kind {
	case quantum.GateRX:
		return reg.ApplyX(g.Qubits[0])
	case quantum.GateRY:
		return reg.ApplyY(g.Qubits[0])
	case quantum.GateRZ:
		return reg.ApplyZ(g.Qubits[0])
	}
	return fmt.Errorf("%w: gate %s has no rotation generator", quantum.ErrInvalidArgument, g.Kind)
}
