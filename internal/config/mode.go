// Package config implements the Mode Resolver (C2), Module Resolver (C3),
// Supplementary Output Resolver (C4), and SDK/Toolchain Resolver (C5), and
// assembles their results into the immutable Driver configuration (spec
// §3, §4.2-§4.5). Grounded on internal/build.Ctx: a struct built once from
// options, whose methods resolve a list/value from those options with
// sanitized defaults on conflict rather than hard failure.
package config

import (
	"strconv"

	swiftdriver "github.com/swiftcdriver/core"
	"github.com/swiftcdriver/core/internal/diag"
	"github.com/swiftcdriver/core/internal/options"
)

// outputModeRule is one entry of the mutually-exclusive mode-option group
// from spec §6. Zero/unset fields mean that rule doesn't set them.
type outputModeRule struct {
	compilerOutput   swiftdriver.FileType
	hasOutput        bool // compilerOutput is meaningful
	noCompilerOutput bool // explicitly "no output" (parse/typecheck/dump_* family)
	linkerOutput     swiftdriver.LinkOutputType
	hasLinkerOutput  bool
	mode             swiftdriver.CompilerMode
	hasMode          bool
	reservedError    bool // -i: reserved, diagnose
}

// outputModeOrder lists the mutually-exclusive mode options in the order
// spec §6 presents them; when more than one is present on the same
// invocation, the last one in this order is treated as authoritative,
// matching the rest of the driver's last-wins policy for repeated flags
// (spec §4.2).
var outputModeOrder = []string{
	"emit-executable", "emit-library", "emit-object", "c", "emit-assembly",
	"emit-sil", "emit-silgen", "emit-sib", "emit-sibgen", "emit-ir", "emit-bc",
	"dump-ast", "emit-pch", "emit-imported-modules", "index-file",
	"update-code", "parse", "typecheck", "resolve-imports", "dump-parse",
	"emit-syntax", "print-ast", "i", "repl", "lldb-repl",
	"deprecated-integrated-repl",
}

func outputModeRules() map[string]outputModeRule {
	return map[string]outputModeRule{
		"emit-executable": {compilerOutput: swiftdriver.Object, hasOutput: true, linkerOutput: swiftdriver.Executable, hasLinkerOutput: true},
		"emit-library":    {compilerOutput: swiftdriver.Object, hasOutput: true, linkerOutput: swiftdriver.DynamicLibrary, hasLinkerOutput: true},
		"emit-object":     {compilerOutput: swiftdriver.Object, hasOutput: true},
		"c":               {compilerOutput: swiftdriver.Object, hasOutput: true},
		"emit-assembly":   {compilerOutput: swiftdriver.Assembly, hasOutput: true},
		"emit-sil":        {compilerOutput: swiftdriver.SIL, hasOutput: true},
		"emit-silgen":     {compilerOutput: swiftdriver.RawSIL, hasOutput: true},
		"emit-sib":        {compilerOutput: swiftdriver.SIB, hasOutput: true},
		"emit-sibgen":     {compilerOutput: swiftdriver.RawSIB, hasOutput: true},
		"emit-ir":         {compilerOutput: swiftdriver.LLVMIR, hasOutput: true},
		"emit-bc":         {compilerOutput: swiftdriver.LLVMBitcode, hasOutput: true},
		"dump-ast":        {compilerOutput: swiftdriver.AST, hasOutput: true},
		"emit-pch":        {compilerOutput: swiftdriver.PCH, hasOutput: true, mode: swiftdriver.SingleCompile(), hasMode: true},
		"emit-imported-modules": {compilerOutput: swiftdriver.ImportedModules, hasOutput: true, mode: swiftdriver.SingleCompile(), hasMode: true},
		"index-file":      {compilerOutput: swiftdriver.IndexData, hasOutput: true, mode: swiftdriver.SingleCompile(), hasMode: true},
		"update-code":     {compilerOutput: swiftdriver.Remap, hasOutput: true},
		"parse":           {noCompilerOutput: true},
		"typecheck":       {noCompilerOutput: true},
		"resolve-imports": {noCompilerOutput: true},
		"dump-parse":      {noCompilerOutput: true},
		"emit-syntax":     {noCompilerOutput: true},
		"print-ast":       {noCompilerOutput: true},
		"i":               {reservedError: true},
		"repl":            {mode: swiftdriver.REPL(), hasMode: true},
		"lldb-repl":       {mode: swiftdriver.REPL(), hasMode: true},
		"deprecated-integrated-repl": {mode: swiftdriver.REPL(), hasMode: true},
	}
}

// Output is the result of the Mode Resolver: everything spec §4.2 derives.
type Output struct {
	Mode                          swiftdriver.CompilerMode
	CompilerOutputType            *swiftdriver.FileType // nil means "no primary compiler output"
	LinkerOutputType              *swiftdriver.LinkOutputType
	NumThreads                    int
	DebugInfoLevel                *swiftdriver.DebugInfoLevel
	DebugInfoFormat               swiftdriver.DebugInfoFormat
	ShowIncrementalBuildDecisions bool
	IsIncremental                 bool
	// UpdateCodeSuppressesLink is true when -update-code was the active
	// mode option: it produces a remap output and suppresses linking even
	// if emit-executable/emit-library also appeared (spec §6).
	UpdateCodeSuppressesLink bool
}

// ResolveMode implements C2, spec §4.2.
func ResolveMode(p options.Parsed, interactive, wholeModuleOptimization bool, eng diag.Engine) Output {
	var out Output

	rules := outputModeRules()
	matched := ""
	for _, name := range outputModeOrder {
		if p.Has(name) {
			matched = name
		}
	}

	if matched == "i" {
		diag.Errorf(eng, "-i is reserved and not supported")
	}
	if matched != "" {
		rule := rules[matched]
		if rule.hasOutput {
			out.CompilerOutputType = &rule.compilerOutput
		}
		if rule.hasLinkerOutput {
			lt := rule.linkerOutput
			if matched == "emit-library" && p.Has("static") {
				lt = swiftdriver.StaticLibrary
			}
			out.LinkerOutputType = &lt
		}
		if matched == "update-code" {
			out.UpdateCodeSuppressesLink = true
			out.LinkerOutputType = nil
		}
		if rule.hasMode {
			out.Mode = rule.mode
		}
	}
	if p.Has("emit-executable") && p.Has("static") {
		diag.Errorf(eng, "-emit-executable combined with -static is invalid")
	}

	modeChosenByRule := matched != "" && rules[matched].hasMode
	if !modeChosenByRule {
		switch {
		case interactive:
			if len(p.Inputs()) > 0 {
				out.Mode = swiftdriver.Immediate()
			} else {
				out.Mode = swiftdriver.REPL()
			}
		case wholeModuleOptimization:
			out.Mode = swiftdriver.SingleCompile()
		default:
			out.Mode = resolveBatchOrStandard(p)
		}
	}

	if !interactive && matched == "" {
		// No mode option at all: the batch driver's default behavior is
		// "compile every input and link an executable" (plain `swiftc
		// a.swift -o a.out` with no flags), not "produce nothing to
		// link." -enable-batch-mode/-disable-batch-mode are a separate
		// option group (spec §9 Open Question (a)) and don't count as a
		// mode option here.
		if out.CompilerOutputType == nil {
			obj := swiftdriver.Object
			out.CompilerOutputType = &obj
		}
		exe := swiftdriver.Executable
		out.LinkerOutputType = &exe
	}

	out.NumThreads = resolveNumThreads(p, out.Mode, eng)
	out.DebugInfoLevel = resolveDebugInfoLevel(p)
	out.DebugInfoFormat = resolveDebugInfoFormat(p, out.DebugInfoLevel, eng)
	out.ShowIncrementalBuildDecisions = p.Has("driver-show-incremental")
	out.IsIncremental = p.Has("incremental") && !wholeModuleOptimization && !p.Has("embed-bitcode")
	if p.Has("incremental") && !out.IsIncremental {
		reason := "not compatible with whole module optimization"
		if p.Has("embed-bitcode") {
			reason = "not currently compatible with embedding LLVM IR bitcode"
		}
		diag.Warnf(eng, "incremental compilation disabled: %s", reason)
	}

	return out
}

// resolveBatchOrStandard implements Open Question (a) from spec §9:
// -enable-batch-mode produces batchCompile(BatchModeInfo{}) (populated from
// whatever batch-tuning flags were given); -disable-batch-mode, or neither
// flag, forces standardCompile.
func resolveBatchOrStandard(p options.Parsed) swiftdriver.CompilerMode {
	if p.Has("disable-batch-mode") {
		return swiftdriver.StandardCompile()
	}
	if p.Has("enable-batch-mode") {
		return swiftdriver.BatchCompile(resolveBatchModeInfo(p))
	}
	return swiftdriver.StandardCompile()
}

func resolveBatchModeInfo(p options.Parsed) swiftdriver.BatchModeInfo {
	var info swiftdriver.BatchModeInfo
	if v, ok := p.String("driver-batch-count"); ok {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			u := uint(n)
			info.Count = &u
		}
	}
	if v, ok := p.String("batch-size-limit"); ok {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			u := uint(n)
			info.SizeLimit = &u
		}
	}
	if v, ok := p.String("driver-batch-seed"); ok {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			u := uint(n)
			info.Seed = &u // reserved: never consulted by the partitioner.
		}
	}
	return info
}

// resolveNumThreads implements spec §4.2's thread-count rule: last
// -num-threads argument, non-negative integer; invalid input diagnoses and
// resolves to 0. Incompatible with batch mode: warn and clamp to 0.
func resolveNumThreads(p options.Parsed, mode swiftdriver.CompilerMode, eng diag.Engine) int {
	v, ok := p.String("num-threads")
	n := 0
	if ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			diag.Errorf(eng, "invalid value for -num-threads: %q", v)
			n = 0
		} else {
			n = parsed
		}
	}
	if n > 0 && mode.IsBatchCompile() {
		diag.Warnf(eng, "-num-threads is incompatible with batch mode; clamping to 0")
		return 0
	}
	return n
}

// resolveDebugInfoLevel implements spec §4.2: last option in the -g group;
// gnone => nil, g => astTypes, gline_tables_only => lineTables,
// gdwarf_types => dwarfTypes.
//
// "Last" here means last in the fixed table order below, not true
// command-line last-wins: options.Parsed (this package's ParsedOptions
// collaborator, spec.md's "Option-table definition and raw parsing... out
// of the CORE") only exposes Has/String per flag name, with no way to
// compare argv position across two different flag names. So
// "-gline-tables-only -g" resolves to lineTables here, not astTypes as
// true last-wins would give; fixing that needs the collaborator interface
// itself to expose token order, which is out of this repository's scope.
func resolveDebugInfoLevel(p options.Parsed) *swiftdriver.DebugInfoLevel {
	astTypes, lineTables, dwarfTypes := swiftdriver.ASTTypes, swiftdriver.LineTables, swiftdriver.DWARFTypes
	order := []struct {
		name  string
		level *swiftdriver.DebugInfoLevel
	}{
		{"gnone", nil},
		{"g", &astTypes},
		{"gline-tables-only", &lineTables},
		{"gdwarf-types", &dwarfTypes},
	}
	var level *swiftdriver.DebugInfoLevel
	seen := false
	for _, e := range order {
		if p.Has(e.name) {
			level = e.level
			seen = true
		}
	}
	if !seen {
		return nil
	}
	return level
}

// resolveDebugInfoFormat implements spec §4.2: explicit
// -debug-info-format value, default dwarf. codeView with lineTables or
// dwarfTypes is an error. Specifying a format without any -g is an error.
func resolveDebugInfoFormat(p options.Parsed, level *swiftdriver.DebugInfoLevel, eng diag.Engine) swiftdriver.DebugInfoFormat {
	v, ok := p.String("debug-info-format")
	if !ok {
		return swiftdriver.DWARF
	}
	if level == nil {
		diag.Errorf(eng, "-debug-info-format=%s requires a -g option", v)
	}
	var format swiftdriver.DebugInfoFormat
	switch v {
	case "codeview":
		format = swiftdriver.CodeView
	case "dwarf":
		format = swiftdriver.DWARF
	default:
		diag.Errorf(eng, "unknown -debug-info-format value: %q", v)
		return swiftdriver.DWARF
	}
	if format == swiftdriver.CodeView && level != nil && (*level == swiftdriver.LineTables || *level == swiftdriver.DWARFTypes) {
		diag.Errorf(eng, "-debug-info-format=codeview is incompatible with %s", level)
		return swiftdriver.DWARF
	}
	return format
}
