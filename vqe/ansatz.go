package vqe

import "qubitengine/quantum"

// Ansatz prepares a trial state from a parameter vector. The contract the
// gradient engines rely on: the circuit applies exactly len(params)
// parameterized rotation gates, in the order the parameters appear, fixed by
// the structure of the parameter vector alone. Non-parameterized gates are
// unrestricted.
type Ansatz func(params []float64, reg *quantum.Register) error

// HardwareEfficient is the two-qubit, four-parameter ansatz used by the VQE
// service: an RY layer, a CNOT entangler, and a second RY layer.
func HardwareEfficient(params []float64, reg *quantum.Register) error {
	if err := reg.ApplyRY(0, params[0]); err != nil {
		return err
	}
	if err := reg.ApplyRY(1, params[1]); err != nil {
		return err
	}
	if err := reg.ApplyCNOT(0, 1); err != nil {
		return err
	}
	if err := reg.ApplyRY(0, params[2]); err != nil {
		return err
	}
	return reg.ApplyRY(1, params[3])
}

// TwoLocal builds an n-qubit ansatz of the given depth: each layer is an RY
// rotation on every qubit, and every layer but the last is followed by a
// linear CNOT chain. It consumes n*layers parameters.
func TwoLocal(n, layers int) Ansatz {
	return func(params []float64, reg *quantum.Register) error {
		p := 0
		for l := 0; l < layers; l++ {
			for q := 0; q < n; q++ {
				if err := reg.ApplyRY(q, params[p]); err != nil {
					return err
				}
				p++
			}
			if l == layers-1 {
				break
			}
			for q := 0; q+1 < n; q++ {
				if err := reg.ApplyCNOT(q, q+1); err != nil {
					return err
				}
			}
		}
		return nil
	}
}
