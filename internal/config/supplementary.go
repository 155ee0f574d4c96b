package config

import (
	"path/filepath"
	"strings"

	swiftdriver "github.com/swiftcdriver/core"
	"github.com/swiftcdriver/core/internal/options"
)

// SupplementaryKind names one of the non-primary artifact kinds spec §4.4
// enumerates, together with the option names that control it.
type SupplementaryKind struct {
	Type           swiftdriver.FileType
	IsOutputFlag   string // e.g. "emit-dependencies"
	OutputPathFlag string // e.g. "emit-dependencies-path"
}

// SupplementaryKinds is the fixed set of supplementary artifacts spec §4.4
// names: dependencies, swiftdeps, diagnostics, objc header, module trace,
// tbd, module doc, swift interface, optimization record.
var SupplementaryKinds = []SupplementaryKind{
	{swiftdriver.Dependencies, "emit-dependencies", "emit-dependencies-path"},
	{swiftdriver.SwiftDeps, "emit-swiftdeps", "emit-swiftdeps-path"},
	{swiftdriver.Diagnostics, "serialize-diagnostics", "emit-diagnostics-path"},
	{swiftdriver.ObjCHeader, "emit-objc-header", "emit-objc-header-path"},
	{swiftdriver.ModuleTrace, "emit-loaded-module-trace", "emit-module-trace-path"},
	{swiftdriver.TBD, "emit-tbd", "emit-tbd-path"},
	{swiftdriver.SwiftDocumentation, "emit-module-doc", "emit-module-doc-path"},
	{swiftdriver.SwiftInterface, "emit-module-interface", "emit-module-interface-path"},
	{swiftdriver.OptimizationRecord, "save-optimization-record", "save-optimization-record-path"},
}

// ResolveSupplementaryPath implements C4, spec §4.4, for one artifact kind.
// wd is the working directory explicit -o/-*-path values are resolved
// against; moduleName is the already-resolved module name (§4.3).
func ResolveSupplementaryPath(p options.Parsed, k SupplementaryKind, compilerOutputType *swiftdriver.FileType, moduleName, wd string) (swiftdriver.VirtualPath, bool) {
	if v, ok := p.String(k.OutputPathFlag); ok {
		return swiftdriver.RelativePath(options.ResolveAgainstWorkingDir(wd, v)), true
	}
	if !p.Has(k.IsOutputFlag) {
		return swiftdriver.VirtualPath{}, false
	}
	if v, ok := p.String("o"); ok {
		resolved := options.ResolveAgainstWorkingDir(wd, v)
		if compilerOutputType != nil && k.Type == *compilerOutputType {
			return swiftdriver.RelativePath(resolved), true
		}
		ext := filepath.Ext(resolved)
		base := strings.TrimSuffix(resolved, ext)
		return swiftdriver.RelativePath(base + k.Type.Extension()), true
	}
	return swiftdriver.RelativePath(options.ResolveAgainstWorkingDir(wd, moduleName+k.Type.Extension())), true
}
