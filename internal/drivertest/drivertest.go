// Package drivertest holds small test helpers for the driver's test
// suites. No test in the repository imports it at present.
//
// Adapted from internal/distritest.go: that package wraps a handful of
// os/exec and os.RemoveAll calls with t.Fatal on failure so tests read as
// straight-line setup code instead of if-err-t.Fatal boilerplate; this
// package does the same for the on-disk fixtures a driver test needs
// (a working directory with real input files) instead of a distri repo.
package drivertest

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFiles creates dir/name for each entry in files (contents may be
// empty), and returns dir. Fails the test on any I/O error, the same way
// distritest.RemoveAll fails the test instead of returning an error the
// caller has to remember to check.
func WriteFiles(t testing.TB, dir string, files map[string]string) string {
	t.Helper()
	for name, contents := range files {
		full := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(full), err)
		}
		if err := os.WriteFile(full, []byte(contents), 0o644); err != nil {
			t.Fatalf("write %s: %v", full, err)
		}
	}
	return dir
}

// RemoveAll wraps os.RemoveAll and fails the test on failure, matching
// distritest.RemoveAll's signature exactly (t.Cleanup makes most callers
// unnecessary under Go 1.20's testing.TB.TempDir, but a test that builds
// its own scratch dir under a fixed name still wants this).
func RemoveAll(t testing.TB, path string) {
	t.Helper()
	if err := os.RemoveAll(path); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}
