package quantum

import (
	"errors"
	"testing"
)

func TestNewValidatesWidth(t *testing.T) {
	for _, n := range []int{0, -1, 31} {
		if _, err := New(n); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("New(%d): got %v, want invalid argument", n, err)
		}
	}
}

func TestNewInitialState(t *testing.T) {
	r := mustNew(t, 3)
	if r.NumQubits() != 3 || r.LocalDim() != 8 {
		t.Fatalf("unexpected geometry: n=%d localDim=%d", r.NumQubits(), r.LocalDim())
	}
	s := r.LocalSlice()
	if !approxEq(s[0], 1, 1e-15) {
		t.Errorf("a0 = %v, want 1", s[0])
	}
	for i := 1; i < len(s); i++ {
		if s[i] != 0 {
			t.Errorf("a%d = %v, want 0", i, s[i])
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	r := mustNew(t, 2)
	r.ApplyH(0)
	c := r.Clone()
	c.ApplyX(1)
	if approxEq(r.LocalSlice()[2], c.LocalSlice()[2], 1e-15) {
		t.Error("clone shares storage with the original")
	}
}

func TestSwapValidatesLength(t *testing.T) {
	r := mustNew(t, 2)
	if err := r.Swap(make([]complex128, 3)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Swap wrong length: got %v", err)
	}
	buf := make([]complex128, 4)
	buf[3] = 1
	if err := r.Swap(buf); err != nil {
		t.Fatalf("Swap: %v", err)
	}
	if !approxEq(r.LocalSlice()[3], 1, 1e-15) {
		t.Error("Swap did not install the buffer")
	}
}

func TestCheckMemory(t *testing.T) {
	if err := CheckMemory(10, 1<<30); err != nil {
		t.Errorf("10 qubits in 1 GiB rejected: %v", err)
	}
	if err := CheckMemory(28, 1<<20); !errors.Is(err, ErrResourceExhausted) {
		t.Errorf("28 qubits in 1 MiB accepted: %v", err)
	}
	// The 5% overhead margin must push an exact fit over the line.
	if err := CheckMemory(10, RequiredBytes(10)); !errors.Is(err, ErrResourceExhausted) {
		t.Errorf("exact fit without margin accepted: %v", err)
	}
}

// fakeAccel keeps the uploaded amplitudes and runs gates against them through
// a scratch host register, standing in for a real device context.
type fakeAccel struct {
	amps     []complex128
	released bool
}

func (f *fakeAccel) Available() bool { return true }

func (f *fakeAccel) Upload(amps []complex128) error {
	f.amps = append([]complex128(nil), amps...)
	return nil
}

func (f *fakeAccel) Download(amps []complex128) error {
	copy(amps, f.amps)
	return nil
}

func (f *fakeAccel) Apply(g RecordedGate) error {
	n := 0
	for 1<<n < len(f.amps) {
		n++
	}
	scratch, err := New(n)
	if err != nil {
		return err
	}
	if err := scratch.Swap(f.amps); err != nil {
		return err
	}
	if err := scratch.Apply(g); err != nil {
		return err
	}
	f.amps = scratch.LocalSlice()
	return nil
}

func (f *fakeAccel) Release() error {
	f.released = true
	return nil
}

func TestAcceleratorUnavailableWithoutFactory(t *testing.T) {
	RegisterAcceleratorFactory(nil)
	ReleaseAccelerator()
	r := mustNew(t, 2)
	if err := r.ToAccelerator(); !errors.Is(err, ErrAcceleratorUnavailable) {
		t.Errorf("ToAccelerator without device: got %v", err)
	}
}

func TestAcceleratorRoundTrip(t *testing.T) {
	fake := &fakeAccel{}
	RegisterAcceleratorFactory(func() AcceleratorContext { return fake })
	defer func() {
		ReleaseAccelerator()
		RegisterAcceleratorFactory(nil)
	}()

	r := mustNew(t, 2)
	if err := r.ToAccelerator(); err != nil {
		t.Fatalf("ToAccelerator: %v", err)
	}
	if err := r.ToAccelerator(); err != nil {
		t.Fatalf("ToAccelerator is not idempotent: %v", err)
	}
	if r.Residency() != OnAccelerator {
		t.Fatal("residency not on accelerator after transfer")
	}

	// Kernels run against the resident copy; host-side readout must be
	// refused until an explicit transfer back.
	if err := r.ApplyH(0); err != nil {
		t.Fatalf("ApplyH resident: %v", err)
	}
	if err := r.ApplyCNOT(0, 1); err != nil {
		t.Fatalf("ApplyCNOT resident: %v", err)
	}
	if _, err := r.Measure(0); err == nil {
		t.Error("Measure on accelerator-resident register accepted")
	}

	if err := r.ToHost(); err != nil {
		t.Fatalf("ToHost: %v", err)
	}

	want := mustNew(t, 2)
	want.ApplyH(0)
	want.ApplyCNOT(0, 1)
	for i, w := range want.LocalSlice() {
		if !approxEq(r.LocalSlice()[i], w, 1e-12) {
			t.Fatalf("resident execution diverged at %d: %v vs %v", i, r.LocalSlice()[i], w)
		}
	}

	ReleaseAccelerator()
	if !fake.released {
		t.Error("ReleaseAccelerator did not tear the context down")
	}
}
