package quantum

import "errors"

// Error kinds surfaced by the engine. Callers match with errors.Is; the
// service layer maps them onto transport status codes.
var (
	// ErrInvalidArgument reports a bad qubit index, coincident control and
	// target qubits, an out-of-range register width, or an unknown gate kind.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrResourceExhausted reports that the amplitude vector would not fit in
	// available memory.
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrDistributedUnsupported reports a gate that needs cross-rank
	// coordination on a register whose communicator cannot provide it.
	ErrDistributedUnsupported = errors.New("distributed operation unsupported")

	// ErrAcceleratorUnavailable reports an accelerator transfer with no device
	// context initialized.
	ErrAcceleratorUnavailable = errors.New("accelerator unavailable")

	// ErrInternal reports an invariant violation. The register is left in its
	// pre-operation state.
	ErrInternal = errors.New("internal invariant violation")
)
