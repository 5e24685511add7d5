// Package server implements the QuantumCompute service on top of the backend
// dispatch and the VQE engine.
package server

import (
	"context"
	"errors"
	"io"
	"log"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"qubitengine/api"
	"qubitengine/backend"
	"qubitengine/quantum"
	"qubitengine/registry"
	"qubitengine/vqe"
)

// Engine is the service implementation the daemon registers.
type Engine struct {
	registry *registry.Store
}

// Option configures the engine.
type Option func(*Engine)

// WithRegistry attaches a circuit registry; every successful RunCircuit is
// recorded best-effort.
func WithRegistry(store *registry.Store) Option {
	return func(e *Engine) { e.registry = store }
}

// New builds the service.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// statusFromError maps engine error kinds onto transport codes.
func statusFromError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, quantum.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, quantum.ErrResourceExhausted):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, quantum.ErrDistributedUnsupported):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, quantum.ErrAcceleratorUnavailable):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// RunCircuit executes a whole circuit on the selected backend.
func (e *Engine) RunCircuit(ctx context.Context, req *api.CircuitRequest) (*api.StateResponse, error) {
	n := int(req.NumQubits)
	if n < 1 || n > quantum.MaxQubits {
		return nil, status.Errorf(codes.InvalidArgument, "qubits must be between 1 and %d", quantum.MaxQubits)
	}
	if req.NoiseProbability < 0 || req.NoiseProbability > 1 {
		return nil, status.Error(codes.InvalidArgument, "noise probability outside [0,1]")
	}
	if err := quantum.CheckMemory(n, availableMemory()); err != nil {
		return nil, statusFromError(err)
	}

	b, err := backend.New(req.ExecutionBackend, n)
	if err != nil {
		return nil, statusFromError(err)
	}

	for _, op := range req.Operations {
		if op.Type == api.GateSetup {
			return nil, status.Error(codes.InvalidArgument, "SETUP is a streaming-only operation")
		}
		if err := b.ApplyGate(op); err != nil {
			return nil, statusFromError(err)
		}
	}

	if req.NoiseProbability > 0 {
		if injector, ok := b.(backend.NoiseInjector); ok {
			if err := injector.ApplyNoise(req.NoiseProbability); err != nil {
				return nil, statusFromError(err)
			}
		}
	}

	resp := new(api.StateResponse)
	if err := b.Result(resp); err != nil {
		return nil, statusFromError(err)
	}

	if e.registry != nil {
		if _, err := e.registry.RecordRun(ctx, req); err != nil {
			log.Printf("registry: record run failed: %v", err)
		}
	}
	return resp, nil
}

// StreamGates drives a register gate by gate. The first frame must be a
// SETUP operation carrying the register width; everything else is refused
// until the register exists. After every accepted gate the post-gate state
// is emitted.
func (e *Engine) StreamGates(stream api.GateStream) error {
	var sim *backend.Simulator

	for {
		op, err := stream.Recv()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if sim == nil {
			if op.Type != api.GateSetup {
				return status.Error(codes.InvalidArgument, "first stream frame must be SETUP")
			}
			n := int(op.NumQubits)
			if n < 1 || n > quantum.MaxQubits {
				return status.Errorf(codes.InvalidArgument, "SETUP qubits must be between 1 and %d", quantum.MaxQubits)
			}
			if err := quantum.CheckMemory(n, availableMemory()); err != nil {
				return statusFromError(err)
			}
			sim, err = backend.NewSimulator(n)
			if err != nil {
				return statusFromError(err)
			}
		} else if op.Type == api.GateSetup {
			return status.Error(codes.InvalidArgument, "register already allocated")
		} else if err := sim.ApplyGate(*op); err != nil {
			return statusFromError(err)
		}

		resp := new(api.StateResponse)
		if err := sim.Result(resp); err != nil {
			return statusFromError(err)
		}
		if err := stream.Send(resp); err != nil {
			return err
		}
	}
}

// vqeConvergenceEnergy is the H2 threshold below which a run reports
// convergence. The lowest eigenvalue of the H2 table is about -1.857.
const vqeConvergenceEnergy = -1.13

// RunVQE optimizes the molecular ansatz and streams progress every 5
// iterations and at convergence.
func (e *Engine) RunVQE(req *api.VQERequest, stream api.VQEStream) error {
	molecule := vqe.H2
	if req.Molecule == api.MoleculeLiH {
		molecule = vqe.LiH
	}
	numQubits := vqe.NumQubits(molecule)
	hamiltonian := vqe.Hamiltonian(molecule)
	ansatz := vqe.Ansatz(vqe.HardwareEfficient)
	params := make([]float64, 4)

	maxIters := int(req.MaxIterations)
	if maxIters <= 0 {
		maxIters = 100
	}
	learningRate := req.LearningRate
	if learningRate <= 0 {
		learningRate = 0.1
	}

	useShift := req.OptimizerType != api.OptimizerSPSA
	descent := vqe.GradientDescent{LearningRate: learningRate}
	spsa := vqe.DefaultSPSA(maxIters)
	evalEnergy := func(p []float64) (float64, error) {
		return vqe.EvaluateEnergy(numQubits, p, ansatz, hamiltonian)
	}

	for k := 0; k < maxIters; k++ {
		var energy float64
		var err error

		if useShift {
			grads, gerr := vqe.Gradients(numQubits, params, ansatz, hamiltonian)
			if gerr != nil {
				return statusFromError(gerr)
			}
			descent.Step(params, grads)
			energy, err = evalEnergy(params)
		} else {
			energy, err = spsa.Iterate(k, params, evalEnergy)
		}
		if err != nil {
			return statusFromError(err)
		}

		if k%5 != 0 && k != maxIters-1 && energy >= vqeConvergenceEnergy {
			continue
		}
		resp := &api.VQEResponse{
			Iteration:  int32(k),
			Energy:     energy,
			Parameters: append([]float64(nil), params...),
			Converged:  energy < vqeConvergenceEnergy,
		}
		if err := stream.Send(resp); err != nil {
			return err
		}
		if resp.Converged {
			return nil
		}
	}
	return nil
}
