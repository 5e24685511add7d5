package quantum

import "sync"

// AcceleratorContext abstracts a device that can hold the amplitude vector
// and run gate kernels against the resident copy. Implementations own the
// device handles; the register never sees device types.
type AcceleratorContext interface {
	// Available reports whether the device initialized successfully.
	Available() bool

	// Upload copies the host amplitudes into device memory, making the device
	// copy authoritative.
	Upload(amps []complex128) error

	// Download copies the device amplitudes back into the host buffer.
	Download(amps []complex128) error

	// Apply runs one gate against the resident state.
	Apply(g RecordedGate) error

	// Release tears the device context down.
	Release() error
}

// The process-global accelerator context. Acquired lazily on first use,
// released explicitly at process shutdown.
var (
	accelMu      sync.Mutex
	accelFactory func() AcceleratorContext
	processAccel AcceleratorContext
)

// RegisterAcceleratorFactory installs the constructor used the first time a
// register asks for the process accelerator. Platform builds register their
// device here; without one, transfers fail with ErrAcceleratorUnavailable.
func RegisterAcceleratorFactory(f func() AcceleratorContext) {
	accelMu.Lock()
	accelFactory = f
	accelMu.Unlock()
}

func acquireAccelerator() AcceleratorContext {
	accelMu.Lock()
	defer accelMu.Unlock()
	if processAccel == nil && accelFactory != nil {
		processAccel = accelFactory()
	}
	return processAccel
}

// ReleaseAccelerator tears down the process accelerator context, if one was
// acquired.
func ReleaseAccelerator() error {
	accelMu.Lock()
	defer accelMu.Unlock()
	if processAccel == nil {
		return nil
	}
	err := processAccel.Release()
	processAccel = nil
	return err
}
