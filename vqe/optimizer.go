package vqe

import (
	"math"
	"math/rand/v2"
)

// GradientDescent is plain steepest descent over parameter-shift gradients.
type GradientDescent struct {
	LearningRate float64
}

// Step updates params in place from one gradient evaluation.
func (o GradientDescent) Step(params, grads []float64) {
	for i := range params {
		params[i] -= o.LearningRate * grads[i]
	}
}

// SPSA is simultaneous-perturbation stochastic approximation: two energy
// evaluations per iteration regardless of the parameter count, with the
// standard decaying gain schedule.
type SPSA struct {
	A     float64 // gain stability constant, typically 10% of max iterations
	Alpha float64
	Gamma float64
	StepA float64 // a: step-size numerator
	StepC float64 // c: perturbation numerator
}

// DefaultSPSA returns the schedule tuned for the VQE service.
func DefaultSPSA(maxIterations int) SPSA {
	return SPSA{
		A:     float64(maxIterations) * 0.1,
		Alpha: 0.602,
		Gamma: 0.101,
		StepA: 0.2,
		StepC: 0.05,
	}
}

// Iterate runs one SPSA step at iteration k (0-based). evalEnergy is called
// twice, at the two perturbed parameter vectors; the reported energy is their
// midpoint.
func (o SPSA) Iterate(k int, params []float64, evalEnergy func([]float64) (float64, error)) (float64, error) {
	ak := o.StepA / math.Pow(float64(k)+1+o.A, o.Alpha)
	ck := o.StepC / math.Pow(float64(k)+1, o.Gamma)

	delta := make([]float64, len(params))
	for i := range delta {
		if rand.IntN(2) == 0 {
			delta[i] = 1
		} else {
			delta[i] = -1
		}
	}

	plus := make([]float64, len(params))
	minus := make([]float64, len(params))
	for i := range params {
		plus[i] = params[i] + ck*delta[i]
		minus[i] = params[i] - ck*delta[i]
	}

	ePlus, err := evalEnergy(plus)
	if err != nil {
		return 0, err
	}
	eMinus, err := evalEnergy(minus)
	if err != nil {
		return 0, err
	}

	gEst := (ePlus - eMinus) / (2 * ck)
	for i := range params {
		params[i] -= ak * gEst * delta[i]
	}
	return (ePlus + eMinus) / 2, nil
}

// Adam minimizes a Hamiltonian expectation with first and second moment
// estimates over parameter-shift gradients.
type Adam struct {
	LearningRate  float64
	Beta1         float64
	Beta2         float64
	Epsilon       float64
	MaxIterations int
	Tolerance     float64
}

// DefaultAdam returns the standard configuration.
func DefaultAdam() Adam {
	return Adam{
		LearningRate:  0.1,
		Beta1:         0.9,
		Beta2:         0.999,
		Epsilon:       1e-8,
		MaxIterations: 100,
		Tolerance:     1e-6,
	}
}

// Minimize runs Adam from initial until the max-gradient norm falls below
// Tolerance or MaxIterations is reached, returning the optimized parameters.
func (o Adam) Minimize(n int, ansatz Ansatz, hamiltonian []PauliTerm, initial []float64) ([]float64, error) {
	params := append([]float64(nil), initial...)
	m := make([]float64, len(params))
	v := make([]float64, len(params))

	for t := 1; t <= o.MaxIterations; t++ {
		grads, err := Gradients(n, params, ansatz, hamiltonian)
		if err != nil {
			return nil, err
		}

		maxGrad := 0.0
		for i, g := range grads {
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
			m[i] = o.Beta1*m[i] + (1-o.Beta1)*g
			v[i] = o.Beta2*v[i] + (1-o.Beta2)*g*g
			mHat := m[i] / (1 - math.Pow(o.Beta1, float64(t)))
			vHat := v[i] / (1 - math.Pow(o.Beta2, float64(t)))
			params[i] -= o.LearningRate * mHat / (math.Sqrt(vHat) + o.Epsilon)
		}

		if maxGrad < o.Tolerance {
			break
		}
	}
	return params, nil
}
