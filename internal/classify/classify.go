// Package classify implements the Input Classifier (spec §4.1, C1):
// assigning each raw input argument a TypedVirtualPath.
package classify

import (
	"path/filepath"

	swiftdriver "github.com/swiftcdriver/core"
	"github.com/swiftcdriver/core/internal/diag"
)

// Inputs classifies a list of raw input argument strings into
// TypedVirtualPaths, per spec §4.1:
//   - "-" becomes (standardInput, swift).
//   - An absolute or relative path is used as given; an empty string is
//     an invalidInput diagnostic and is skipped.
//   - The type is FileType.FromExtension(ext), defaulting to Object.
func Inputs(raw []string, eng diag.Engine) []swiftdriver.TypedVirtualPath {
	out := make([]swiftdriver.TypedVirtualPath, 0, len(raw))
	for _, r := range raw {
		tvp, ok := classifyOne(r, eng)
		if ok {
			out = append(out, tvp)
		}
	}
	return out
}

func classifyOne(raw string, eng diag.Engine) (swiftdriver.TypedVirtualPath, bool) {
	if raw == "-" {
		return swiftdriver.TypedVirtualPath{
			File: swiftdriver.StandardInput(),
			Type: swiftdriver.Swift,
		}, true
	}

	if raw == "" {
		diag.Errorf(eng, "invalidInput: empty input path")
		return swiftdriver.TypedVirtualPath{}, false
	}

	// Relative paths are resolved against the working directory at the
	// point they are actually read, not at classification time; here we
	// only need to distinguish absolute from relative, which every
	// non-empty string does unambiguously on every platform this driver
	// targets.
	var vp swiftdriver.VirtualPath
	if filepath.IsAbs(raw) {
		vp = swiftdriver.AbsolutePath(raw)
	} else {
		vp = swiftdriver.RelativePath(raw)
	}

	ft := swiftdriver.FromExtension(filepath.Ext(raw))
	return swiftdriver.TypedVirtualPath{File: vp, Type: ft}, true
}
