package config

import (
	"path/filepath"
	"strings"

	swiftdriver "github.com/swiftcdriver/core"
	"github.com/swiftcdriver/core/internal/diag"
	"github.com/swiftcdriver/core/internal/options"
)

// reservedModuleNames are identifiers the source language reserves;
// mirrors the handful of keywords a module name collision check in a real
// front-end would reject. Kept intentionally small: the point of the
// check is that it exists and is total, not an exhaustive keyword table.
var reservedModuleNames = map[string]bool{
	"class": true, "struct": true, "enum": true, "protocol": true,
	"func": true, "var": true, "let": true, "import": true, "extension": true,
}

// ModuleDecision is the result of the Module Resolver (C3, spec §4.3).
type ModuleDecision struct {
	Output *swiftdriver.ModuleOutput // nil means no module artifact
	Name   string
}

// ResolveModule implements C3. wd is the working directory module output
// paths are rooted in when not overridden by -emit-module-path.
func ResolveModule(p options.Parsed, mode swiftdriver.CompilerMode, linkerOutputType *swiftdriver.LinkOutputType, debugLevel *swiftdriver.DebugInfoLevel, compilerOutputType *swiftdriver.FileType, wd string, eng diag.Engine) ModuleDecision {
	name := resolveModuleName(p, mode, linkerOutputType, compilerOutputType, eng)

	kind, kindImplied := decideModuleKind(p, mode, linkerOutputType, debugLevel)
	if mode.IsREPL() || mode.IsImmediate() {
		if kindImplied {
			diag.Errorf(eng, "module emission is not supported in %s mode", mode)
		}
		return ModuleDecision{Output: nil, Name: name}
	}
	if kind == "" {
		return ModuleDecision{Output: nil, Name: name}
	}

	path := resolveModuleOutputPath(p, name, kind, wd)
	var out swiftdriver.ModuleOutput
	if kind == "topLevel" {
		out = swiftdriver.TopLevelModule(path)
	} else {
		out = swiftdriver.AuxiliaryModule(path)
	}
	return ModuleDecision{Output: &out, Name: name}
}

// decideModuleKind applies spec §4.3's decision table. The returned bool
// reports whether a module was "implied" at all (used to decide whether
// repl/immediate should diagnose).
func decideModuleKind(p options.Parsed, mode swiftdriver.CompilerMode, linkerOutputType *swiftdriver.LinkOutputType, debugLevel *swiftdriver.DebugInfoLevel) (kind string, implied bool) {
	switch {
	case p.Has("emit-module") || p.Has("emit-module-path"):
		return "topLevel", true
	case debugLevel != nil && debugLevel.RequiresModule() && linkerOutputType != nil:
		return "auxiliary", true
	case !mode.IsSingleCompile() && (p.Has("emit-objc-header") || p.Has("emit-objc-header-path") ||
		p.Has("emit-module-interface") || p.Has("emit-module-interface-path")):
		return "auxiliary", true
	default:
		return "", false
	}
}

func resolveModuleOutputPath(p options.Parsed, name, kind, wd string) swiftdriver.VirtualPath {
	if v, ok := p.String("emit-module-path"); ok {
		return swiftdriver.RelativePath(options.ResolveAgainstWorkingDir(wd, v))
	}
	filename := name + swiftdriver.SwiftModule.Extension()
	if kind == "topLevel" {
		return swiftdriver.RelativePath(options.ResolveAgainstWorkingDir(wd, filename))
	}
	return swiftdriver.TemporaryPath(filename)
}

// resolveModuleName implements spec §4.3's module-name selection, first
// matching rule wins.
func resolveModuleName(p options.Parsed, mode swiftdriver.CompilerMode, linkerOutputType *swiftdriver.LinkOutputType, compilerOutputType *swiftdriver.FileType, eng diag.Engine) string {
	name := deriveModuleName(p, mode, linkerOutputType, compilerOutputType)
	return validateModuleName(p, name, eng)
}

func deriveModuleName(p options.Parsed, mode swiftdriver.CompilerMode, linkerOutputType *swiftdriver.LinkOutputType, compilerOutputType *swiftdriver.FileType) string {
	if v, ok := p.String("module-name"); ok {
		return v
	}
	if mode.IsREPL() {
		return "REPL"
	}
	if v, ok := p.String("o"); ok {
		base := filepath.Base(v)
		ext := filepath.Ext(base)
		trimmed := strings.TrimSuffix(base, ext)
		isLib := linkerOutputType != nil && (*linkerOutputType == swiftdriver.DynamicLibrary || *linkerOutputType == swiftdriver.StaticLibrary)
		if isLib && ext != "" && strings.HasPrefix(trimmed, "lib") {
			trimmed = strings.TrimPrefix(trimmed, "lib")
		}
		return trimmed
	}
	inputs := p.Inputs()
	if len(inputs) == 1 {
		base := filepath.Base(inputs[0])
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	if compilerOutputType == nil || maybeBuildingExecutable(p, linkerOutputType, len(inputs)) {
		return "main"
	}
	return ""
}

// maybeBuildingExecutable implements spec §9 Open Question (c): "preserve
// its heuristic nature rather than fixing it." Building an executable ≡
// linkerOutputType==executable, OR (linkerOutputType not a library AND
// -parse-as-library/-parse-stdlib absent AND exactly one input).
func maybeBuildingExecutable(p options.Parsed, linkerOutputType *swiftdriver.LinkOutputType, numInputs int) bool {
	if linkerOutputType != nil && *linkerOutputType == swiftdriver.Executable {
		return true
	}
	isLib := linkerOutputType != nil && (*linkerOutputType == swiftdriver.DynamicLibrary || *linkerOutputType == swiftdriver.StaticLibrary)
	if isLib {
		return false
	}
	if p.Has("parse-as-library") || p.Has("parse-stdlib") {
		return false
	}
	return numInputs == 1
}

func validateModuleName(p options.Parsed, name string, eng diag.Engine) string {
	if name == "" {
		return name // rule 6: the empty name is itself a valid outcome.
	}
	if name == "Swift" && !p.Has("parse-stdlib") {
		diag.Errorf(eng, "module name %q is reserved without -parse-stdlib", name)
		return "__bad__"
	}
	if !isValidIdentifier(name) {
		diag.Errorf(eng, "invalid module name: %q", name)
		return "__bad__"
	}
	return name
}

func isValidIdentifier(s string) bool {
	if reservedModuleNames[s] {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
