package jobexec

import (
	"context"
	"sync"
	"testing"

	swiftdriver "github.com/swiftcdriver/core"
	"github.com/swiftcdriver/core/internal/toolchain"
)

// fakeToolchain resolves every tool name to /fake/bin/<name>; individual tests don't
// care about real executable paths since the recording Runner below never
// shells out.
type fakeToolchain struct{}

func (fakeToolchain) Kind() toolchain.Kind { return toolchain.GenericUnix }
func (fakeToolchain) FindTool(name string) (string, error) {
	return "/fake/bin/" + name, nil
}
func (fakeToolchain) PlatformLibraryPath() string { return "/fake/lib" }
func (fakeToolchain) RequiresAutolinkExtract() bool { return false }
func (fakeToolchain) LinkArgs(inputs []swiftdriver.TypedVirtualPath, output swiftdriver.TypedVirtualPath, linkType swiftdriver.LinkOutputType) []swiftdriver.ArgTemplate {
	return nil
}
func (fakeToolchain) DefaultSDKPath() (string, bool) { return "", false }

// recordingRunner records the order in which jobs are dispatched (by tool
// name) instead of invoking a real sub-process, the same substitution
// internal/batch.scheduler makes for s.buildDry when s.simulate is set.
type recordingRunner struct {
	mu    sync.Mutex
	order []string
	fail  map[string]bool
}

func (r *recordingRunner) Run(ctx context.Context, tool string, args []string, workingDir string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, tool)
	if r.fail[tool] {
		return errFake
	}
	return nil
}

var errFake = fakeErr{}

type fakeErr struct{}

func (fakeErr) Error() string { return "fake failure" }

func obj(name string) swiftdriver.TypedVirtualPath {
	return swiftdriver.TypedVirtualPath{File: swiftdriver.RelativePath(name), Type: swiftdriver.Object}
}

func exe(name string) swiftdriver.TypedVirtualPath {
	return swiftdriver.TypedVirtualPath{File: swiftdriver.RelativePath(name), Type: swiftdriver.Object}
}

// TestRunRespectsJobDAG is P8: a job never dispatches before every job
// producing one of its inputs has completed.
func TestRunRespectsJobDAG(t *testing.T) {
	compileA := swiftdriver.Job{Tool: swiftdriver.ToolRef{Name: "compileA"}, Outputs: []swiftdriver.TypedVirtualPath{obj("a.o")}, Kind: swiftdriver.JobCompile}
	compileB := swiftdriver.Job{Tool: swiftdriver.ToolRef{Name: "compileB"}, Outputs: []swiftdriver.TypedVirtualPath{obj("b.o")}, Kind: swiftdriver.JobCompile}
	link := swiftdriver.Job{
		Tool:    swiftdriver.ToolRef{Name: "link"},
		Inputs:  []swiftdriver.TypedVirtualPath{obj("a.o"), obj("b.o")},
		Outputs: []swiftdriver.TypedVirtualPath{exe("out")},
		Kind:    swiftdriver.JobLink,
	}
	jobs := []swiftdriver.Job{compileA, compileB, link}

	runner := &recordingRunner{}
	e := New(fakeToolchain{}, "/work", "/scratch")
	e.Workers = 2
	e.Runner = runner
	e.Log = nil

	if err := e.Run(context.Background(), jobs); err != nil {
		t.Fatalf("Run: %v", err)
	}

	linkIdx := -1
	for i, tool := range runner.order {
		if tool == "/fake/bin/link" {
			linkIdx = i
		}
	}
	if linkIdx == -1 {
		t.Fatalf("link never ran: %v", runner.order)
	}
	for i, tool := range runner.order {
		if i >= linkIdx {
			break
		}
		if tool != "/fake/bin/compileA" && tool != "/fake/bin/compileB" {
			t.Errorf("unexpected job %q ran before link", tool)
		}
	}
	if len(runner.order) != 3 {
		t.Errorf("ran %d jobs, want 3: %v", len(runner.order), runner.order)
	}
}

// TestRunPropagatesFailure confirms a failing job's error surfaces from
// Run and that a job depending on the failed job's output never runs.
func TestRunPropagatesFailure(t *testing.T) {
	compileA := swiftdriver.Job{Tool: swiftdriver.ToolRef{Name: "compileA"}, Outputs: []swiftdriver.TypedVirtualPath{obj("a.o")}, Kind: swiftdriver.JobCompile}
	link := swiftdriver.Job{
		Tool:    swiftdriver.ToolRef{Name: "link"},
		Inputs:  []swiftdriver.TypedVirtualPath{obj("a.o")},
		Outputs: []swiftdriver.TypedVirtualPath{exe("out")},
		Kind:    swiftdriver.JobLink,
	}
	jobs := []swiftdriver.Job{compileA, link}

	runner := &recordingRunner{fail: map[string]bool{"/fake/bin/compileA": true}}
	e := New(fakeToolchain{}, "/work", "/scratch")
	e.Runner = runner
	e.Log = nil

	err := e.Run(context.Background(), jobs)
	if err == nil {
		t.Fatal("Run: want error, got nil")
	}
	for _, tool := range runner.order {
		if tool == "/fake/bin/link" {
			t.Errorf("link ran despite its dependency failing: %v", runner.order)
		}
	}
}

// TestBuildGraphRejectsCycle confirms buildGraph refuses a (malformed)
// plan whose jobs form a cycle instead of silently picking an order.
func TestBuildGraphRejectsCycle(t *testing.T) {
	a := swiftdriver.Job{
		Tool:    swiftdriver.ToolRef{Name: "a"},
		Inputs:  []swiftdriver.TypedVirtualPath{obj("b.o")},
		Outputs: []swiftdriver.TypedVirtualPath{obj("a.o")},
	}
	b := swiftdriver.Job{
		Tool:    swiftdriver.ToolRef{Name: "b"},
		Inputs:  []swiftdriver.TypedVirtualPath{obj("a.o")},
		Outputs: []swiftdriver.TypedVirtualPath{obj("b.o")},
	}
	if _, err := buildGraph([]swiftdriver.Job{a, b}); err == nil {
		t.Fatal("buildGraph: want cycle error, got nil")
	}
}
