//go:build !linux

package main

// bumpRlimitNOFILE is a no-op outside Linux: the /proc-based limit
// discovery cmd/distri/distri.go relies on has no Darwin/BSD equivalent
// worth special-casing here.
func bumpRlimitNOFILE() error { return nil }
