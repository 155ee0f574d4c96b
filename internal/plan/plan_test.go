package plan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	swiftdriver "github.com/swiftcdriver/core"
	"github.com/swiftcdriver/core/internal/config"
	"github.com/swiftcdriver/core/internal/diag"
	"github.com/swiftcdriver/core/internal/options"
)

func kinds(jobs []swiftdriver.Job) []swiftdriver.JobKind {
	out := make([]swiftdriver.JobKind, len(jobs))
	for i, j := range jobs {
		out[i] = j.Kind
	}
	return out
}

// checkTopologicalOrder verifies P3: every job's inputs are either
// external (not produced by any job in this plan) or outputs of a job at
// an earlier index.
func checkTopologicalOrder(t *testing.T, jobs []swiftdriver.Job) {
	t.Helper()
	produced := make(map[swiftdriver.TypedVirtualPath]int)
	for i, j := range jobs {
		for _, in := range j.Inputs {
			if idx, ok := produced[in]; ok && idx >= i {
				t.Errorf("job %d (%s) depends on output of job %d (%s), which is not earlier", i, j.Kind, idx, jobs[idx].Kind)
			}
		}
		for _, out := range j.Outputs {
			produced[out] = i
		}
	}
}

func resolveFor(t *testing.T, argv []string, target string) (*config.Driver, options.Parsed, *diag.CollectingEngine) {
	t.Helper()
	eng := diag.NewCollectingEngine()
	expanded, err := options.ExpandResponseFiles(argv)
	if err != nil {
		t.Fatalf("ExpandResponseFiles: %v", err)
	}
	p := options.Parse(expanded)
	d, err := config.Resolve(p, false, target, eng)
	if err != nil {
		t.Fatalf("config.Resolve: %v", err)
	}
	return d, p, eng
}

func TestScenario1SimpleCompileAndLink(t *testing.T) {
	d, p, eng := resolveFor(t, []string{"a.swift", "-o", "a.out"}, "x86_64-unknown-linux-gnu")
	jobs := Build(d, p, eng)
	got := kinds(jobs)
	want := []swiftdriver.JobKind{swiftdriver.JobCompile, swiftdriver.JobAutolinkExtract, swiftdriver.JobLink}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("job kinds mismatch (-want +got):\n%s", diff)
	}
	checkTopologicalOrder(t, jobs)
}

func TestScenario2EmitModuleAndLibrary(t *testing.T) {
	d, p, eng := resolveFor(t, []string{
		"a.swift", "b.swift", "c.swift",
		"-emit-module", "-o", "lib.dylib", "-emit-library",
	}, "x86_64-apple-macosx10.15")
	jobs := Build(d, p, eng)
	got := kinds(jobs)
	if len(got) == 0 || got[0] != swiftdriver.JobEmitModule {
		t.Fatalf("jobs[0] = %v, want emitModule; full sequence: %v", got[0], got)
	}
	compileCount := 0
	sawLink := false
	for _, k := range got {
		if k == swiftdriver.JobCompile {
			compileCount++
		}
		if k == swiftdriver.JobLink {
			sawLink = true
		}
	}
	if compileCount != 3 {
		t.Errorf("compile job count = %d, want 3", compileCount)
	}
	if !sawLink {
		t.Errorf("expected a link job in %v", got)
	}
	if got[len(got)-1] != swiftdriver.JobLink && got[len(got)-1] != swiftdriver.JobGenerateDSYM {
		t.Errorf("last job = %v, want link (or dSYM on Darwin)", got[len(got)-1])
	}
	checkTopologicalOrder(t, jobs)
}

func TestScenario3BatchPartitioning(t *testing.T) {
	var argv []string
	for i := 0; i < 100; i++ {
		argv = append(argv, string(rune('a'+i%26))+string(rune('0'+i/26))+".swift")
	}
	argv = append(argv, "-enable-batch-mode", "-num-threads", "4")
	d, p, eng := resolveFor(t, argv, "x86_64-unknown-linux-gnu")
	jobs := Build(d, p, eng)
	compileCount := 0
	for _, j := range jobs {
		if j.Kind == swiftdriver.JobCompile {
			compileCount++
		}
	}
	// K = max(T, floor(100/25)) = 4: num-threads is clamped to 0 by the
	// mode resolver under batch mode, so T falls back to 1 and K is
	// governed by floor(N/S) = 4.
	if compileCount != 4 {
		t.Errorf("compile job count = %d, want 4", compileCount)
	}
	checkTopologicalOrder(t, jobs)
}

func TestScenario4SingleCompileNoLink(t *testing.T) {
	d, p, eng := resolveFor(t, []string{"a.swift", "-emit-ir"}, "x86_64-unknown-linux-gnu")
	jobs := Build(d, p, eng)
	got := kinds(jobs)
	if len(got) != 1 || got[0] != swiftdriver.JobCompile {
		t.Fatalf("jobs = %v, want exactly one compile job", got)
	}
	if jobs[0].Outputs[0].Type != swiftdriver.LLVMIR {
		t.Errorf("compile output type = %v, want llvmIR", jobs[0].Outputs[0].Type)
	}
}

func TestScenario5ObjectAndModuleInputsToLinker(t *testing.T) {
	d, p, eng := resolveFor(t, []string{"a.o", "b.swiftmodule", "-o", "out"}, "x86_64-apple-macosx10.15")
	jobs := Build(d, p, eng)
	got := kinds(jobs)
	if len(got) != 1 || got[0] != swiftdriver.JobLink {
		t.Fatalf("jobs = %v, want exactly one link job", got)
	}
	if len(jobs[0].Inputs) != 2 {
		t.Errorf("link inputs = %v, want 2 (object + module)", jobs[0].Inputs)
	}
}

func TestScenario6ConflictingDebugFlagsDiagnosed(t *testing.T) {
	d, p, eng := resolveFor(t, []string{
		"a.swift", "-g", "-debug-info-format=codeview", "-gline-tables-only",
	}, "x86_64-unknown-linux-gnu")
	if eng.ErrorCount() == 0 {
		t.Errorf("expected a diagnostic for codeview + lineTables")
	}
	jobs := Build(d, p, eng)
	checkTopologicalOrder(t, jobs)
}
