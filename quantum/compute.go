package quantum

import (
	"runtime"
	"sync"
)

// ComputeConfig controls how gate kernels split their block loop across
// worker goroutines. Pairs within a block are independent by construction, so
// whole blocks can be handed to workers without synchronization.
type ComputeConfig struct {
	// Parallel enables the fork-join block split. Disabled, every kernel runs
	// single-threaded, which is deterministic and easier to debug.
	Parallel bool

	// NumWorkers is the worker goroutine count. 0 means runtime.NumCPU().
	NumWorkers int

	// MinAmpsForParallel is the smallest local amplitude count worth forking
	// for. Goroutine overhead dominates below it.
	MinAmpsForParallel int
}

// DefaultComputeConfig returns the configuration used when a register is
// built without an explicit one.
func DefaultComputeConfig() ComputeConfig {
	return ComputeConfig{
		Parallel:           true,
		NumWorkers:         0,
		MinAmpsForParallel: 1 << 12,
	}
}

// SingleThreadedConfig disables the fork-join split entirely.
func SingleThreadedConfig() ComputeConfig {
	return ComputeConfig{Parallel: false, NumWorkers: 1}
}

func (c ComputeConfig) workers() int {
	if !c.Parallel {
		return 1
	}
	if c.NumWorkers > 0 {
		return c.NumWorkers
	}
	return runtime.NumCPU()
}

func (c ComputeConfig) shouldParallelize(localDim int) bool {
	return c.Parallel && localDim >= c.MinAmpsForParallel
}

// forRange runs f over [0, n) split into contiguous chunks, one per worker.
// Callers decide whether the problem is big enough via shouldParallelize.
func (c ComputeConfig) forRange(n int, f func(lo, hi int)) {
	workers := c.workers()
	if workers <= 1 || n < 2 {
		f(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			f(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
