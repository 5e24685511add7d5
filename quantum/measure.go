package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"
)

// Measure performs a projective measurement of qubit q and collapses the
// state onto the observed branch. Every rank agrees on the outcome: rank 0
// draws the sample and broadcasts it after the probability reduction.
//
// math/rand/v2's top-level generator is per-goroutine-sharded and seeded from
// system entropy, so concurrent measurements on different registers never
// contend on shared RNG state.
func (r *Register) Measure(q int) (int, error) {
	if err := r.checkQubit(q); err != nil {
		return 0, err
	}
	if err := r.checkHost("measure"); err != nil {
		return 0, err
	}

	p1Local := 0.0
	for i, a := range r.state {
		if (r.globalIndex(i)>>q)&1 == 1 {
			p1Local += norm2(a)
		}
	}
	p1, err := r.comm.AllreduceSum(p1Local)
	if err != nil {
		return 0, err
	}

	outcome := 0
	if r.comm.Rank() == 0 && rand.Float64() < p1 {
		outcome = 1
	}
	outcome, err = r.comm.BroadcastInt(outcome, 0)
	if err != nil {
		return 0, err
	}

	// Collapse. The normalizer is computed on the chosen branch, so p in
	// {0,1} never divides by zero: the unchosen branch is already empty.
	chosen := p1
	if outcome == 0 {
		chosen = 1 - p1
	}
	inv := complex(1/math.Sqrt(chosen), 0)
	for i := range r.state {
		if (r.globalIndex(i)>>q)&1 == outcome {
			r.state[i] *= inv
		} else {
			r.state[i] = 0
		}
	}
	return outcome, nil
}

// Expectation evaluates <psi|P|psi> for a Pauli string P. Position q of the
// string acts on qubit q; strings shorter than the register width are padded
// with identities.
//
// For every basis index i the string determines a permuted index j and a
// phase in {±1, ±i}: X flips bit q of j, Y flips bit q of j and contributes
// ±i by bit q of i, Z contributes ±1 by bit q of i. The contribution is
// Re(conj(a_i) * phase * a_j); the result is real up to rounding.
func (r *Register) Expectation(pauli string) (float64, error) {
	if err := r.checkHost("expectation"); err != nil {
		return 0, err
	}
	if len(pauli) > r.numQubits {
		return 0, fmt.Errorf("%w: Pauli string longer than register", ErrInvalidArgument)
	}
	flipMask := 0
	for q := 0; q < len(pauli); q++ {
		switch pauli[q] {
		case 'I', 'Z':
		case 'X', 'Y':
			flipMask |= 1 << q
			if !r.isLocal(q) {
				return 0, fmt.Errorf("%w: X/Y expectation on global qubit %d", ErrDistributedUnsupported, q)
			}
		default:
			return 0, fmt.Errorf("%w: Pauli character %q", ErrInvalidArgument, pauli[q])
		}
	}

	local := 0.0
	for i, a := range r.state {
		if a == 0 {
			continue
		}
		gi := r.globalIndex(i)
		j := i ^ flipMask
		phase := complex(1, 0)
		for q := 0; q < len(pauli); q++ {
			bit := (gi >> q) & 1
			switch pauli[q] {
			case 'Y':
				// Y|0> = i|1>, Y|1> = -i|0>: the amplitude arriving at i
				// carries -i when bit q of i is clear, +i when set.
				if bit == 1 {
					phase *= complex(0, 1)
				} else {
					phase *= complex(0, -1)
				}
			case 'Z':
				if bit == 1 {
					phase = -phase
				}
			}
		}
		local += real(cmplx.Conj(a) * phase * r.state[j])
	}
	return r.comm.AllreduceSum(local)
}
