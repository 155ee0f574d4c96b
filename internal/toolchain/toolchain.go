// Package toolchain implements the small Toolchain surface spec §9 asks
// for: "find tool path, platform library path, autolink-extract
// requirement, link-arg builder." Per-platform argument assembly for the
// link job lives here, out of the planner, exactly as spec §4.7 requires
// ("Tool, argument order, and flags are delegated to the toolchain").
//
// Grounded on internal/build/buildc.go's (b *Ctx) buildc(...): given
// resolved options, return an ordered list of steps without executing
// anything.
package toolchain

import (
	"os/exec"
	"strings"

	swiftdriver "github.com/swiftcdriver/core"
	"golang.org/x/xerrors"
)

// Kind names which concrete Toolchain a target resolved to, so callers
// that need platform-specific behavior beyond the Toolchain interface
// (e.g. deciding whether to emit a dSYM job, spec §4.7 step 7) don't have
// to type-switch on the interface value.
type Kind int

const (
	Darwin Kind = iota
	GenericUnix
)

func (k Kind) String() string {
	switch k {
	case Darwin:
		return "darwin"
	case GenericUnix:
		return "generic-unix"
	default:
		return "unknown"
	}
}

// Toolchain is the pluggable surface the Build Planner consults when
// assembling the link job (spec §4.7 step 6) and deciding whether an
// autolink-extract job is needed (step 5).
type Toolchain interface {
	Kind() Kind
	// FindTool resolves a logical tool name ("swift-frontend", "ld", ...)
	// to an executable path.
	FindTool(name string) (string, error)
	// PlatformLibraryPath returns the directory holding platform-provided
	// runtime libraries to search at link time.
	PlatformLibraryPath() string
	// RequiresAutolinkExtract reports whether object files on this
	// platform carry autolink directives that must be extracted into a
	// separate linker input before linking (true on non-Darwin, per the
	// glossary's definition of autolink-extract).
	RequiresAutolinkExtract() bool
	// LinkArgs returns the argument templates for the link job, given its
	// resolved inputs and output. Order and flag choice are entirely this
	// toolchain's concern; the planner only supplies what to link and
	// where to put the result.
	LinkArgs(inputs []swiftdriver.TypedVirtualPath, output swiftdriver.TypedVirtualPath, linkType swiftdriver.LinkOutputType) []swiftdriver.ArgTemplate
	// DefaultSDKPath returns this toolchain's built-in SDK path, consulted
	// by the SDK/Toolchain Resolver (spec §4.5) only for immediate/repl
	// mode when no -sdk or SDKROOT was given. ok is false when the
	// toolchain has no notion of a default SDK (e.g. Generic Unix).
	DefaultSDKPath() (path string, ok bool)
}

// darwinTargets and unixTargets are the target-triple OS components the
// SDK/Toolchain Resolver (spec §4.5) maps to each concrete Toolchain.
var darwinTargets = map[string]bool{
	"darwin": true, "macosx": true, "ios": true, "tvos": true, "watchos": true,
}

var unixTargets = map[string]bool{
	"linux": true, "freebsd": true, "haiku": true,
}

// osComponentOf extracts the OS component from a target triple of the form
// arch-vendor-os(-environment). Swift/LLVM target triples place the OS as
// the third dash-separated component; unparseable triples (too few
// components) are treated as having no OS component at all, which ByTarget
// reports as an unknown-target error.
func osComponentOf(target string) (string, bool) {
	parts := strings.Split(target, "-")
	if len(parts) < 3 {
		return "", false
	}
	return parts[2], true
}

// ByTarget picks a Toolchain by the OS component of a target triple, per
// spec §4.5: "Toolchain by target OS: darwin/macosx/ios/tvos/watchos =>
// Darwin toolchain; linux/freebsd/haiku => Generic Unix; others => error."
func ByTarget(target string) (Toolchain, error) {
	os, ok := osComponentOf(target)
	if !ok {
		return nil, xerrors.Errorf("unknown target: %q", target)
	}
	switch {
	case darwinTargets[os]:
		return &darwinToolchain{}, nil
	case unixTargets[os]:
		return &genericUnixToolchain{}, nil
	default:
		return nil, xerrors.Errorf("unknown target: %q (os component %q)", target, os)
	}
}

// lookTool resolves name via exec.LookPath, matching how every cmd/distri
// builder locates its host tools rather than hardcoding absolute paths.
func lookTool(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", xerrors.Errorf("finding tool %q: %w", name, err)
	}
	return path, nil
}
