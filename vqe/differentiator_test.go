package vqe

import (
	"errors"
	"math"
	"testing"

	"qubitengine/quantum"
)

func TestParameterShiftSingleRY(t *testing.T) {
	// E(theta) = <Z> on RY(theta)|0> = cos(theta), so dE/dtheta(pi/2) = -1.
	ansatz := func(params []float64, reg *quantum.Register) error {
		return reg.ApplyRY(0, params[0])
	}
	hamiltonian := []PauliTerm{{1, "Z"}}

	grads, err := Gradients(1, []float64{math.Pi / 2}, ansatz, hamiltonian)
	if err != nil {
		t.Fatalf("Gradients: %v", err)
	}
	if math.Abs(grads[0]+1) > 1e-6 {
		t.Errorf("parameter-shift gradient = %v, want -1", grads[0])
	}
}

func TestAdjointSingleRY(t *testing.T) {
	ansatz := func(params []float64, reg *quantum.Register) error {
		return reg.ApplyRY(0, params[0])
	}
	hamiltonian := []PauliTerm{{1, "Z"}}

	grads, err := GradientsAdjoint(1, []float64{math.Pi / 2}, ansatz, hamiltonian)
	if err != nil {
		t.Fatalf("GradientsAdjoint: %v", err)
	}
	if math.Abs(grads[0]+1) > 1e-6 {
		t.Errorf("adjoint gradient = %v, want -1", grads[0])
	}
}

func TestEnginesAgreeOnHardwareEfficientAnsatz(t *testing.T) {
	hamiltonian := Hamiltonian(H2)
	cases := [][]float64{
		{0, 0, 0, 0},
		{0.1, -0.4, 0.9, 1.7},
		{math.Pi / 3, math.Pi / 5, -math.Pi / 7, 2.2},
	}
	for _, params := range cases {
		shift, err := Gradients(2, params, HardwareEfficient, hamiltonian)
		if err != nil {
			t.Fatalf("Gradients(%v): %v", params, err)
		}
		adjoint, err := GradientsAdjoint(2, params, HardwareEfficient, hamiltonian)
		if err != nil {
			t.Fatalf("GradientsAdjoint(%v): %v", params, err)
		}
		for i := range shift {
			if math.Abs(shift[i]-adjoint[i]) > 1e-6 {
				t.Errorf("params %v component %d: shift %v vs adjoint %v", params, i, shift[i], adjoint[i])
			}
		}
	}
}

func TestEnginesAgreeWithRXAndRZ(t *testing.T) {
	ansatz := func(params []float64, reg *quantum.Register) error {
		if err := reg.ApplyH(0); err != nil {
			return err
		}
		if err := reg.ApplyRX(0, params[0]); err != nil {
			return err
		}
		if err := reg.ApplyCNOT(0, 1); err != nil {
			return err
		}
		if err := reg.ApplyRZ(1, params[1]); err != nil {
			return err
		}
		return reg.ApplyRY(0, params[2])
	}
	hamiltonian := []PauliTerm{{0.7, "ZI"}, {-0.3, "XX"}, {0.2, "YZ"}}
	params := []float64{0.6, -1.1, 0.35}

	shift, err := Gradients(2, params, ansatz, hamiltonian)
	if err != nil {
		t.Fatalf("Gradients: %v", err)
	}
	adjoint, err := GradientsAdjoint(2, params, ansatz, hamiltonian)
	if err != nil {
		t.Fatalf("GradientsAdjoint: %v", err)
	}
	for i := range shift {
		if math.Abs(shift[i]-adjoint[i]) > 1e-6 {
			t.Errorf("component %d: shift %v vs adjoint %v", i, shift[i], adjoint[i])
		}
	}
}

func TestAdjointRejectsParameterMismatch(t *testing.T) {
	// The circuit applies one parameterized gate but two parameters arrive.
	ansatz := func(params []float64, reg *quantum.Register) error {
		return reg.ApplyRY(0, params[0])
	}
	_, err := GradientsAdjoint(1, []float64{0.1, 0.2}, ansatz, []PauliTerm{{1, "Z"}})
	if !errors.Is(err, quantum.ErrInvalidArgument) {
		t.Errorf("parameter/tape mismatch: got %v", err)
	}
}

func TestAdjointSkipsNegligibleTerms(t *testing.T) {
	ansatz := func(params []float64, reg *quantum.Register) error {
		return reg.ApplyRY(0, params[0])
	}
	hamiltonian := []PauliTerm{{1, "Z"}, {1e-12, "X"}}
	grads, err := GradientsAdjoint(1, []float64{math.Pi / 2}, ansatz, hamiltonian)
	if err != nil {
		t.Fatalf("GradientsAdjoint: %v", err)
	}
	if math.Abs(grads[0]+1) > 1e-6 {
		t.Errorf("gradient = %v, want -1", grads[0])
	}
}

func TestTwoLocalParameterCount(t *testing.T) {
	n, layers := 3, 2
	ansatz := TwoLocal(n, layers)
	params := make([]float64, n*layers)
	for i := range params {
		params[i] = 0.1 * float64(i+1)
	}
	reg, err := quantum.New(n)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	reg.SetRecording(true)
	if err := ansatz(params, reg); err != nil {
		t.Fatalf("ansatz: %v", err)
	}
	count := 0
	for _, g := range reg.Tape() {
		if g.Kind.Parameterized() {
			count++
		}
	}
	if count != len(params) {
		t.Errorf("tape has %d parameterized gates, want %d", count, len(params))
	}
}

func TestEvaluateEnergyH2AtZero(t *testing.T) {
	// At theta = 0 the ansatz leaves |00>, where only the diagonal terms of
	// the H2 Hamiltonian contribute.
	e, err := EvaluateEnergy(2, []float64{0, 0, 0, 0}, HardwareEfficient, Hamiltonian(H2))
	if err != nil {
		t.Fatalf("EvaluateEnergy: %v", err)
	}
	want := -1.052373245772859 + 0.397937424843187 - 0.397937424843187 - 0.011280104256235
	if math.Abs(e-want) > 1e-10 {
		t.Errorf("E(0) = %v, want %v", e, want)
	}
}
