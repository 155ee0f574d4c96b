// Package options defines the ParsedOptions collaborator spec.md keeps out
// of the CORE ("Option-table definition and raw parsing ... consumed as a
// ParsedOptions collaborator"), plus the thin pre-processing the spec does
// assign to the driver: response-file expansion and working-directory
// normalization.
package options

import (
	"path/filepath"
	"strings"

	"golang.org/x/exp/mmap"
	"golang.org/x/xerrors"
)

// Parsed is the option-table collaborator every resolver in internal/config
// reads from. It never does I/O and never validates; every rule in spec
// §4.2-§4.5 is last-wins over repeated flags, which Values below
// implements directly.
type Parsed interface {
	// Has reports whether a boolean/presence flag was given at all.
	Has(name string) bool
	// String returns the last value given for a string-valued flag.
	String(name string) (string, bool)
	// Strings returns every value given for a repeatable string-valued flag,
	// in argv order.
	Strings(name string) []string
	// Inputs returns the positional input arguments, in argv order.
	Inputs() []string
	// WorkingDirectory returns the value of -working-directory, or "".
	WorkingDirectory() string
}

// Values is a minimal in-memory implementation of Parsed, built either by
// Parse (a small argv scanner) or directly by tests.
type Values struct {
	Bools  map[string]bool
	Vals   map[string][]string
	Input  []string
	WorkDir string
}

func NewValues() *Values {
	return &Values{Bools: map[string]bool{}, Vals: map[string][]string{}}
}

func (v *Values) Has(name string) bool { return v.Bools[name] }

func (v *Values) String(name string) (string, bool) {
	vs := v.Vals[name]
	if len(vs) == 0 {
		return "", false
	}
	return vs[len(vs)-1], true // last-wins
}

func (v *Values) Strings(name string) []string {
	return append([]string(nil), v.Vals[name]...)
}

func (v *Values) Inputs() []string { return append([]string(nil), v.Input...) }

func (v *Values) WorkingDirectory() string { return v.WorkDir }

// valueOptions lists the option names that consume the following argv
// token as a value rather than being a bare boolean flag. This is the
// "option-table definition" spec.md places out of scope, trimmed to the
// subset this driver's resolvers actually consult (spec §4.2-§4.6, §6).
var valueOptions = map[string]bool{
	"o":                    true,
	"module-name":          true,
	"emit-module-path":     true,
	"emit-objc-header-path":      true,
	"emit-module-interface-path": true,
	"emit-dependencies-path":     true,
	"emit-swiftdeps-path":        true,
	"emit-diagnostics-path":      true,
	"emit-module-doc-path":       true,
	"emit-module-trace-path":     true,
	"emit-tbd-path":              true,
	"save-optimization-record-path": true,
	"num-threads":          true,
	"debug-info-format":    true,
	"batch-size-limit":     true,
	"driver-batch-count":   true,
	"driver-batch-seed":    true,
	"sdk":                  true,
	"target":               true,
	"working-directory":    true,
	"driver-mode":          true,
}

// Parse scans argv into a *Values. It is deliberately small: this driver's
// CORE only needs presence/last-value/positional-input extraction, never
// full usage/help text or type validation, which remain the option table's
// job in a production build.
func Parse(args []string) *Values {
	v := NewValues()
	for i := 0; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "-") || a == "-" {
			v.Input = append(v.Input, a)
			continue
		}
		name := strings.TrimLeft(a, "-")
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			key, val := name[:eq], name[eq+1:]
			v.Bools[key] = true
			v.Vals[key] = append(v.Vals[key], val)
			if key == "working-directory" {
				v.WorkDir = val
			}
			continue
		}
		v.Bools[name] = true
		if valueOptions[name] && i+1 < len(args) {
			i++
			v.Vals[name] = append(v.Vals[name], args[i])
			if name == "working-directory" {
				v.WorkDir = args[i]
			}
		}
	}
	return v
}

// ExpandResponseFiles replaces any argv token starting with "@" and naming
// a readable absolute path with that file's contents split on newlines,
// discarding empty lines. Non-existent response files pass through
// unchanged (spec §6).
func ExpandResponseFiles(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if !strings.HasPrefix(a, "@") {
			out = append(out, a)
			continue
		}
		path := a[1:]
		if !filepath.IsAbs(path) {
			out = append(out, a)
			continue
		}
		lines, ok, err := readResponseFile(path)
		if err != nil {
			return nil, xerrors.Errorf("expanding response file %q: %w", path, err)
		}
		if !ok {
			out = append(out, a) // nonexistent: pass through unchanged
			continue
		}
		out = append(out, lines...)
	}
	return out, nil
}

func readResponseFile(path string) (lines []string, ok bool, err error) {
	// mmap.Open, like ioutil.ReadFile, reads the whole file; we use it
	// anyway (rather than os.Open+io.ReadAll) because it is the idiom this
	// codebase already reaches for when a file is read once and then
	// mostly discarded (cmd/distri/install.go does the same for package
	// payloads it only partially needs).
	r, err := mmap.Open(path)
	if err != nil {
		return nil, false, nil // nonexistent or unreadable: caller treats as pass-through
	}
	defer r.Close()
	buf := make([]byte, r.Len())
	if _, err := r.ReadAt(buf, 0); err != nil {
		return nil, false, err
	}
	return splitNonEmptyLines(string(buf)), true, nil
}

func splitNonEmptyLines(s string) []string {
	raw := strings.Split(s, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// ResolveAgainstWorkingDir resolves a path-valued option against wd per
// spec §6: "-" is preserved verbatim; relative paths are joined with wd
// when wd is non-empty.
func ResolveAgainstWorkingDir(wd, path string) string {
	if path == "-" || wd == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(wd, path)
}
