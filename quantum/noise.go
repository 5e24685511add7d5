package quantum

import (
	"fmt"
	"math/rand/v2"
)

// ApplyDepolarizingNoise runs one Monte-Carlo noise trajectory: each qubit
// suffers an error with probability p, and an error is a uniformly chosen
// Pauli X, Y, or Z. Callers wanting density-matrix semantics average over
// trajectories themselves.
func (r *Register) ApplyDepolarizingNoise(p float64) error {
	if p < 0 || p > 1 {
		return fmt.Errorf("%w: noise probability %v outside [0,1]", ErrInvalidArgument, p)
	}
	for q := 0; q < r.numQubits; q++ {
		// Rank 0 draws so every rank applies the same trajectory.
		choice := -1
		if r.comm.Rank() == 0 && rand.Float64() < p {
			choice = rand.IntN(3)
		}
		choice, err := r.comm.BroadcastInt(choice, 0)
		if err != nil {
			return err
		}
		switch choice {
		case 0:
			err = r.ApplyX(q)
		case 1:
			err = r.ApplyY(q)
		case 2:
			err = r.ApplyZ(q)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
