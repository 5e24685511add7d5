package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Residency says which copy of the amplitude vector is authoritative.
type Residency int

const (
	Host Residency = iota
	OnAccelerator
)

// MaxQubits bounds a single-node register. 2^30 amplitudes at 16 bytes each
// is 16 GiB, the practical ceiling for one host.
const MaxQubits = 30

// Register is the amplitude store: the full complex state vector of an
// n-qubit register, or this rank's partition of it in a distributed layout.
//
// Index i of the global vector is the computational basis state whose qubit q
// holds bit (i >> q) & 1. With world size W, rank R owns global indices
// [R*localDim, (R+1)*localDim).
//
// A register offers no internal synchronization: gate kernels are applied
// sequentially, callers serialize.
type Register struct {
	numQubits int
	state     []complex128

	comm     Communicator
	localDim int

	compute ComputeConfig

	residency Residency
	accel     AcceleratorContext

	recording bool
	tape      []RecordedGate
}

// Option configures a register at construction.
type Option func(*Register)

// WithCommunicator attaches a multi-rank communicator; the register
// partitions the state vector across its world. Defaults to rank 0 of world
// size 1.
func WithCommunicator(c Communicator) Option {
	return func(r *Register) { r.comm = c }
}

// WithCompute overrides the kernel fork-join configuration.
func WithCompute(cfg ComputeConfig) Option {
	return func(r *Register) { r.compute = cfg }
}

// New builds a register initialized to |0...0>: rank 0 local index 0 holds
// (1,0), every other amplitude is zero.
func New(n int, opts ...Option) (*Register, error) {
	if n < 1 || n > MaxQubits {
		return nil, fmt.Errorf("%w: qubit count %d outside [1,%d]", ErrInvalidArgument, n, MaxQubits)
	}
	r := &Register{
		numQubits: n,
		comm:      singleComm{},
		compute:   DefaultComputeConfig(),
	}
	for _, opt := range opts {
		opt(r)
	}

	w := r.comm.Size()
	totalDim := 1 << n
	if w < 1 || w&(w-1) != 0 || totalDim%w != 0 || totalDim/w < 1 {
		return nil, fmt.Errorf("%w: world size %d cannot partition 2^%d amplitudes", ErrInvalidArgument, w, n)
	}
	r.localDim = totalDim / w
	r.state = make([]complex128, r.localDim)
	if r.comm.Rank() == 0 {
		r.state[0] = 1
	}
	return r, nil
}

// NumQubits returns the register width.
func (r *Register) NumQubits() int { return r.numQubits }

// Rank returns this rank's id in the distributed layout.
func (r *Register) Rank() int { return r.comm.Rank() }

// WorldSize returns the number of cooperating ranks.
func (r *Register) WorldSize() int { return r.comm.Size() }

// LocalDim returns the number of amplitudes this rank owns.
func (r *Register) LocalDim() int { return r.localDim }

// LocalSlice returns this rank's amplitudes. The slice is a read-only view of
// the live buffer; callers must not mutate or retain it across gates.
func (r *Register) LocalSlice() []complex128 { return r.state }

// StateVector returns a copy of this rank's amplitudes.
func (r *Register) StateVector() []complex128 {
	out := make([]complex128, len(r.state))
	copy(out, r.state)
	return out
}

// Swap exchanges the underlying storage with buf. The distributed primitives
// use it to install a received partition without copying.
func (r *Register) Swap(buf []complex128) error {
	if len(buf) != r.localDim {
		return fmt.Errorf("%w: swap buffer has %d amplitudes, want %d", ErrInvalidArgument, len(buf), r.localDim)
	}
	r.state = buf
	return nil
}

// Clone copies the register's state. The clone shares the communicator and
// compute configuration but not the tape.
func (r *Register) Clone() *Register {
	c := &Register{
		numQubits: r.numQubits,
		state:     make([]complex128, len(r.state)),
		comm:      r.comm,
		localDim:  r.localDim,
		compute:   r.compute,
		residency: r.residency,
		accel:     r.accel,
	}
	copy(c.state, r.state)
	return c
}

// ToAccelerator moves the authoritative copy to device memory. Idempotent.
func (r *Register) ToAccelerator() error {
	if r.residency == OnAccelerator {
		return nil
	}
	ctx := acquireAccelerator()
	if ctx == nil || !ctx.Available() {
		return fmt.Errorf("%w: no device context initialized", ErrAcceleratorUnavailable)
	}
	if err := ctx.Upload(r.state); err != nil {
		return err
	}
	r.accel = ctx
	r.residency = OnAccelerator
	return nil
}

// ToHost moves the authoritative copy back to host memory. Idempotent.
func (r *Register) ToHost() error {
	if r.residency == Host {
		return nil
	}
	if err := r.accel.Download(r.state); err != nil {
		return err
	}
	r.residency = Host
	return nil
}

// Residency reports where the authoritative copy lives.
func (r *Register) Residency() Residency { return r.residency }

// globalIndex maps a local index to its index in the global vector.
func (r *Register) globalIndex(i int) int {
	return r.comm.Rank()*r.localDim + i
}

// isLocal reports whether qubit q's pair partner lives on this rank.
func (r *Register) isLocal(q int) bool {
	return 1<<q < r.localDim
}

// rankBit returns the bit of the rank id that carries a global qubit's value.
func (r *Register) rankBit(q int) int {
	return (1 << q) / r.localDim
}

func (r *Register) checkQubit(q int) error {
	if q < 0 || q >= r.numQubits {
		return fmt.Errorf("%w: qubit %d outside [0,%d)", ErrInvalidArgument, q, r.numQubits)
	}
	return nil
}

func (r *Register) checkDistinct(qubits ...int) error {
	for i, a := range qubits {
		if err := r.checkQubit(a); err != nil {
			return err
		}
		for _, b := range qubits[:i] {
			if a == b {
				return fmt.Errorf("%w: qubits must be pairwise distinct", ErrInvalidArgument)
			}
		}
	}
	return nil
}

// checkHost guards host-side operations (measurement, expectation, inner
// products) against an accelerator-resident register. Transfers are explicit;
// the register never copies back implicitly.
func (r *Register) checkHost(op string) error {
	if r.residency != Host {
		return fmt.Errorf("%w: %s requires host residency, call ToHost first", ErrInvalidArgument, op)
	}
	return nil
}

// Norm returns the global squared norm of the state vector.
func (r *Register) Norm() (float64, error) {
	if err := r.checkHost("norm"); err != nil {
		return 0, err
	}
	local := 0.0
	for _, a := range r.state {
		local += real(a)*real(a) + imag(a)*imag(a)
	}
	return r.comm.AllreduceSum(local)
}

// QubitProbability is the marginal distribution of one qubit.
type QubitProbability struct {
	Prob0 float64
	Prob1 float64
}

// QubitProbabilities returns the marginal |0>/|1> probabilities of every
// qubit, reduced across ranks.
func (r *Register) QubitProbabilities() ([]QubitProbability, error) {
	if err := r.checkHost("probabilities"); err != nil {
		return nil, err
	}
	probs := make([]QubitProbability, r.numQubits)
	for q := 0; q < r.numQubits; q++ {
		p1 := 0.0
		for i, a := range r.state {
			if (r.globalIndex(i)>>q)&1 == 1 {
				p1 += real(a)*real(a) + imag(a)*imag(a)
			}
		}
		p1, err := r.comm.AllreduceSum(p1)
		if err != nil {
			return nil, err
		}
		probs[q] = QubitProbability{Prob0: 1 - p1, Prob1: p1}
	}
	return probs, nil
}

// InnerProduct returns <a|b>, reduced across ranks. Both registers must share
// width and partitioning.
func InnerProduct(a, b *Register) (complex128, error) {
	if a.numQubits != b.numQubits || a.localDim != b.localDim {
		return 0, fmt.Errorf("%w: inner product of mismatched registers", ErrInvalidArgument)
	}
	if err := a.checkHost("inner product"); err != nil {
		return 0, err
	}
	if err := b.checkHost("inner product"); err != nil {
		return 0, err
	}
	var local complex128
	for i := range a.state {
		local += cmplx.Conj(a.state[i]) * b.state[i]
	}
	re, err := a.comm.AllreduceSum(real(local))
	if err != nil {
		return 0, err
	}
	im, err := a.comm.AllreduceSum(imag(local))
	if err != nil {
		return 0, err
	}
	return complex(re, im), nil
}

// RequiredBytes returns the amplitude storage a width-n register needs.
func RequiredBytes(n int) uint64 {
	return uint64(16) << uint(n)
}

// CheckMemory reports ErrResourceExhausted when required bytes plus a 5%
// overhead margin exceed the available budget.
func CheckMemory(n int, available uint64) error {
	required := RequiredBytes(n)
	overhead := required / 20
	if available < required+overhead {
		return fmt.Errorf("%w: %d qubits need %d bytes, %d available", ErrResourceExhausted, n, required+overhead, available)
	}
	return nil
}

func norm2(a complex128) float64 {
	return real(a)*real(a) + imag(a)*imag(a)
}

var invSqrt2 = 1.0 / math.Sqrt2
