package config

import (
	"testing"

	swiftdriver "github.com/swiftcdriver/core"
	"github.com/swiftcdriver/core/internal/diag"
	"github.com/swiftcdriver/core/internal/options"
)

func parsedWith(bools ...string) *options.Values {
	v := options.NewValues()
	for _, b := range bools {
		v.Bools[b] = true
	}
	return v
}

func TestResolveModeDefaultStandardCompile(t *testing.T) {
	eng := diag.NewCollectingEngine()
	out := ResolveMode(parsedWith(), false, false, eng)
	if !out.Mode.IsStandardCompile() {
		t.Errorf("Mode = %v, want standardCompile", out.Mode)
	}
	if out.CompilerOutputType == nil || *out.CompilerOutputType != swiftdriver.Object {
		t.Errorf("CompilerOutputType = %v, want object", out.CompilerOutputType)
	}
}

func TestResolveModeEnableBatch(t *testing.T) {
	eng := diag.NewCollectingEngine()
	out := ResolveMode(parsedWith("enable-batch-mode"), false, false, eng)
	if !out.Mode.IsBatchCompile() {
		t.Errorf("Mode = %v, want batchCompile", out.Mode)
	}
}

func TestResolveModeWholeModuleOptimizationForcesSingleCompile(t *testing.T) {
	eng := diag.NewCollectingEngine()
	out := ResolveMode(parsedWith(), false, true, eng)
	if !out.Mode.IsSingleCompile() {
		t.Errorf("Mode = %v, want singleCompile", out.Mode)
	}
}

func TestResolveModeInteractiveWithInputsIsImmediate(t *testing.T) {
	eng := diag.NewCollectingEngine()
	v := parsedWith()
	v.Input = []string{"main.swift"}
	out := ResolveMode(v, true, false, eng)
	if !out.Mode.IsImmediate() {
		t.Errorf("Mode = %v, want immediate", out.Mode)
	}
}

func TestResolveModeInteractiveWithoutInputsIsREPL(t *testing.T) {
	eng := diag.NewCollectingEngine()
	out := ResolveMode(parsedWith(), true, false, eng)
	if !out.Mode.IsREPL() {
		t.Errorf("Mode = %v, want repl", out.Mode)
	}
}

func TestResolveModeEmitPchForcesSingleCompile(t *testing.T) {
	eng := diag.NewCollectingEngine()
	out := ResolveMode(parsedWith("emit-pch"), false, false, eng)
	if !out.Mode.IsSingleCompile() {
		t.Errorf("Mode = %v, want singleCompile", out.Mode)
	}
	if out.CompilerOutputType == nil || *out.CompilerOutputType != swiftdriver.PCH {
		t.Errorf("CompilerOutputType = %v, want pch", out.CompilerOutputType)
	}
}

func TestResolveModeEmitExecutableSetsLinkerOutput(t *testing.T) {
	eng := diag.NewCollectingEngine()
	out := ResolveMode(parsedWith("emit-executable"), false, false, eng)
	if out.LinkerOutputType == nil || *out.LinkerOutputType != swiftdriver.Executable {
		t.Errorf("LinkerOutputType = %v, want executable", out.LinkerOutputType)
	}
}

func TestResolveModeEmitLibraryStaticSetsStaticLibrary(t *testing.T) {
	eng := diag.NewCollectingEngine()
	out := ResolveMode(parsedWith("emit-library", "static"), false, false, eng)
	if out.LinkerOutputType == nil || *out.LinkerOutputType != swiftdriver.StaticLibrary {
		t.Errorf("LinkerOutputType = %v, want staticLibrary", out.LinkerOutputType)
	}
}

func TestResolveModeEmitExecutableStaticIsError(t *testing.T) {
	eng := diag.NewCollectingEngine()
	ResolveMode(parsedWith("emit-executable", "static"), false, false, eng)
	if eng.ErrorCount() == 0 {
		t.Errorf("expected an error diagnostic for -emit-executable -static")
	}
}

func TestResolveModeUpdateCodeSuppressesLink(t *testing.T) {
	eng := diag.NewCollectingEngine()
	out := ResolveMode(parsedWith("emit-executable", "update-code"), false, false, eng)
	// update-code is last in outputModeOrder among these two, so it wins
	// and suppresses the link that emit-executable would have requested.
	if !out.UpdateCodeSuppressesLink {
		t.Errorf("UpdateCodeSuppressesLink = false, want true")
	}
	if out.LinkerOutputType != nil {
		t.Errorf("LinkerOutputType = %v, want nil", out.LinkerOutputType)
	}
}

func TestResolveModeReservedFlagDiagnoses(t *testing.T) {
	eng := diag.NewCollectingEngine()
	ResolveMode(parsedWith("i"), false, false, eng)
	if eng.ErrorCount() == 0 {
		t.Errorf("expected an error diagnostic for -i")
	}
}

func TestResolveModeNumThreadsIncompatibleWithBatch(t *testing.T) {
	eng := diag.NewCollectingEngine()
	v := parsedWith("enable-batch-mode")
	v.Vals["num-threads"] = []string{"4"}
	out := ResolveMode(v, false, false, eng)
	if out.NumThreads != 0 {
		t.Errorf("NumThreads = %d, want 0", out.NumThreads)
	}
}

func TestResolveModeDebugInfoFormatWithoutGIsError(t *testing.T) {
	eng := diag.NewCollectingEngine()
	v := parsedWith()
	v.Vals["debug-info-format"] = []string{"dwarf"}
	ResolveMode(v, false, false, eng)
	if eng.ErrorCount() == 0 {
		t.Errorf("expected an error diagnostic for -debug-info-format without -g")
	}
}

func TestResolveModeCodeViewIncompatibleWithLineTablesOnly(t *testing.T) {
	eng := diag.NewCollectingEngine()
	v := parsedWith("gline-tables-only")
	v.Vals["debug-info-format"] = []string{"codeview"}
	out := ResolveMode(v, false, false, eng)
	if eng.ErrorCount() == 0 {
		t.Errorf("expected an error diagnostic for codeview + lineTables")
	}
	if out.DebugInfoFormat != swiftdriver.DWARF {
		t.Errorf("DebugInfoFormat = %v, want dwarf fallback", out.DebugInfoFormat)
	}
}

func TestResolveModeIncrementalDisabledByWholeModuleOptimization(t *testing.T) {
	eng := diag.NewCollectingEngine()
	out := ResolveMode(parsedWith("incremental"), false, true, eng)
	if out.IsIncremental {
		t.Errorf("IsIncremental = true, want false under whole module optimization")
	}
}
