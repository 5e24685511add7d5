//go:build linux

package server

import "golang.org/x/sys/unix"

// availableMemory returns the free RAM budget the admission check compares
// circuit allocations against.
func availableMemory() uint64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		// Without a reading the admission check cannot refuse anything.
		return ^uint64(0)
	}
	return uint64(info.Freeram) * uint64(info.Unit)
}
