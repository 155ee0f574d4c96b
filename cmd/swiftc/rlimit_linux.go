//go:build linux

package main

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// bumpRlimitNOFILE raises RLIMIT_NOFILE to the kernel's hard ceiling
// before running a plan: a batch-mode build with a wide worker pool
// (internal/jobexec's -j) can have dozens of compile jobs with open
// source/object files concurrently, and the default per-process limit on
// most distros is tight enough to matter.
//
// Ported from cmd/distri/distri.go's bumpRlimitNOFILE verbatim (the /proc
// reads are Linux-specific, hence the build tag): the smaller of
// /proc/sys/fs/file-max and /proc/sys/fs/nr_open is the highest value the
// kernel will accept.
func bumpRlimitNOFILE() error {
	var fileMax, nrOpen uint64
	{
		b, err := os.ReadFile("/proc/sys/fs/file-max")
		if err != nil {
			return err
		}
		fileMax, err = strconv.ParseUint(strings.TrimSpace(string(b)), 0, 64)
		if err != nil {
			return err
		}
	}
	{
		b, err := os.ReadFile("/proc/sys/fs/nr_open")
		if err != nil {
			return err
		}
		nrOpen, err = strconv.ParseUint(strings.TrimSpace(string(b)), 0, 64)
		if err != nil {
			return err
		}
	}
	max := fileMax
	if nrOpen < max {
		max = nrOpen
	}
	return unix.Setrlimit(unix.RLIMIT_NOFILE, &unix.Rlimit{Cur: max, Max: max})
}
