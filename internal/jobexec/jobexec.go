// Package jobexec is the reference JobExecutor spec.md keeps out of the
// CORE proper ("a concrete JobExecutor... is a reference implementation,
// not part of the testable core"): it turns a planner-produced []Job into
// a gonum DAG, validates it has no cycle, and runs ready jobs concurrently
// through a small worker pool.
//
// Grounded on internal/batch/batch.go's scheduler: both build a
// gonum/v1/gonum/graph.Directed from unit-of-work nodes, enqueue nodes with
// no unmet dependency, and drain completions through an errgroup-managed
// worker pool rather than a fixed fork-join barrier.
package jobexec

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/renameio"
	swiftdriver "github.com/swiftcdriver/core"
	"github.com/swiftcdriver/core/internal/toolchain"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Runner abstracts "invoke a sub-process" so tests can substitute a
// recording fake instead of os/exec, the same way internal/batch.scheduler
// swaps (*scheduler).build for (*scheduler).buildDry when s.simulate is set.
type Runner interface {
	Run(ctx context.Context, tool string, args []string, workingDir string) error
}

// execRunner is the real Runner, backed by os/exec.
type execRunner struct {
	Stdout, Stderr *os.File
}

func (r execRunner) Run(ctx context.Context, tool string, args []string, workingDir string) error {
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Dir = workingDir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return xerrors.Errorf("%s %s: %w", tool, strings.Join(args, " "), err)
	}
	return nil
}

// Executor runs a job DAG to completion, resolving each Job's ArgTemplates
// against WorkingDir/ScratchDir and dispatching through Toolchain.FindTool.
type Executor struct {
	Toolchain  toolchain.Toolchain
	WorkingDir string
	ScratchDir string
	Workers    int
	Log        *log.Logger
	Runner     Runner // nil means exec against os.Stdout/os.Stderr
}

// New returns an Executor with sane defaults (1 worker, os/exec Runner,
// log.Default()) for any zero-valued field the caller didn't set.
func New(tc toolchain.Toolchain, workingDir, scratchDir string) *Executor {
	return &Executor{
		Toolchain:  tc,
		WorkingDir: workingDir,
		ScratchDir: scratchDir,
		Workers:    1,
		Log:        log.Default(),
		Runner:     execRunner{Stdout: os.Stdout, Stderr: os.Stderr},
	}
}

// buildGraph constructs a gonum DirectedGraph with one node per job index
// and an edge producer->consumer for every input that another job's
// Outputs satisfy. It rejects a cycle rather than silently picking an order:
// the planner guarantees acyclicity (P3), so a cycle here means the
// caller handed jobexec a plan that didn't come out of internal/plan.
func buildGraph(jobs []swiftdriver.Job) (*simple.DirectedGraph, error) {
	g := simple.NewDirectedGraph()
	for i := range jobs {
		g.AddNode(simple.Node(int64(i)))
	}
	producedBy := make(map[swiftdriver.TypedVirtualPath]int)
	for i, j := range jobs {
		for _, out := range j.Outputs {
			producedBy[out] = i
		}
	}
	for i, j := range jobs {
		for _, in := range j.Inputs {
			if p, ok := producedBy[in]; ok && p != i {
				g.SetEdge(simple.Edge{F: simple.Node(int64(p)), T: simple.Node(int64(i))})
			}
		}
	}
	if _, err := topo.Sort(g); err != nil {
		return nil, xerrors.Errorf("job graph has a cycle: %w", err)
	}
	return g, nil
}

// Run executes jobs to completion, respecting the dependency DAG derived
// from their Inputs/Outputs. A job is eligible once every job producing
// one of its Inputs has completed successfully. If any job fails, Run
// stops enqueuing new work and returns the first error once every already
// in-flight job has settled.
func (e *Executor) Run(ctx context.Context, jobs []swiftdriver.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	g, err := buildGraph(jobs)
	if err != nil {
		return err
	}
	workers := e.Workers
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	done := make(map[int]bool)
	failed := false

	// remaining[i] is how many not-yet-completed dependencies job i has.
	remaining := make([]int, len(jobs))
	for i := range jobs {
		remaining[i] = g.To(int64(i)).Len()
	}

	ready := make(chan int, len(jobs))
	for i := range jobs {
		if remaining[i] == 0 {
			ready <- i
		}
	}

	eg, ctx := errgroup.WithContext(ctx)
	remainingCount := len(jobs)

	for w := 0; w < workers; w++ {
		eg.Go(func() error {
			for {
				var idx int
				var ok bool
				select {
				case idx, ok = <-ready:
				case <-ctx.Done():
					return ctx.Err()
				}
				if !ok {
					return nil
				}

				mu.Lock()
				stop := failed
				mu.Unlock()
				if stop {
					mu.Lock()
					done[idx] = true
					remainingCount--
					closeIfDrained(remainingCount, ready)
					mu.Unlock()
					continue
				}

				if err := e.runOne(ctx, jobs[idx]); err != nil {
					mu.Lock()
					failed = true
					done[idx] = true
					remainingCount--
					closeIfDrained(remainingCount, ready)
					mu.Unlock()
					return xerrors.Errorf("job %d (%s): %w", idx, jobs[idx].Kind, err)
				}

				mu.Lock()
				done[idx] = true
				remainingCount--
				for to := g.From(int64(idx)); to.Next(); {
					j := int(to.Node().ID())
					remaining[j]--
					if remaining[j] == 0 {
						ready <- j
					}
				}
				closeIfDrained(remainingCount, ready)
				mu.Unlock()
			}
		})
	}

	return eg.Wait()
}

// closeIfDrained closes ready once every job has settled, waking any
// worker still blocked in its select so Run can return. Caller must hold
// mu.
func closeIfDrained(remainingCount int, ready chan int) {
	if remainingCount == 0 {
		close(ready)
	}
}

func (e *Executor) runOne(ctx context.Context, j swiftdriver.Job) error {
	tool, err := e.Toolchain.FindTool(j.Tool.Name)
	if err != nil {
		return err
	}
	args := make([]string, 0, len(j.Args))
	for _, a := range j.Args {
		switch {
		case a.IsFlag():
			args = append(args, a.FlagValue())
		case a.IsPath():
			p, err := e.resolvePath(a.PathValue())
			if err != nil {
				return err
			}
			args = append(args, p)
		case a.IsFileList():
			name, members := a.FileListValue()
			lines := make([]string, len(members))
			for i, m := range members {
				p, err := e.resolvePath(m)
				if err != nil {
					return err
				}
				lines[i] = p
			}
			p, err := e.writeFileList(name, lines)
			if err != nil {
				return err
			}
			args = append(args, p)
		}
	}
	if e.Log != nil {
		e.Log.Printf("%s %s", j.Kind, strings.Join(args, " "))
	}
	runner := e.Runner
	if runner == nil {
		runner = execRunner{Stdout: os.Stdout, Stderr: os.Stderr}
	}
	return runner.Run(ctx, tool, args, e.WorkingDir)
}

// resolvePath turns a VirtualPath into an actual on-disk path. Temporary
// paths live under ScratchDir; relative paths are joined against
// WorkingDir; absolute paths and standard input pass through unchanged.
func (e *Executor) resolvePath(p swiftdriver.VirtualPath) (string, error) {
	switch {
	case p.IsStandardInput():
		return "-", nil
	case p.IsTemporary():
		return filepath.Join(e.ScratchDir, p.Name()), nil
	case p.IsFileList():
		return e.writeFileList(p.Name(), p.Contents())
	default:
		s := p.String()
		if filepath.IsAbs(s) {
			return s, nil
		}
		return filepath.Join(e.WorkingDir, s), nil
	}
}

// writeFileList spills lines to ScratchDir/name using renameio, so a
// worker crash mid-write never leaves a job reading a half-written file
// list (the same atomic-rename discipline distri's package build steps
// use for generated manifests).
func (e *Executor) writeFileList(name string, lines []string) (string, error) {
	if err := os.MkdirAll(e.ScratchDir, 0o755); err != nil {
		return "", xerrors.Errorf("creating scratch dir: %w", err)
	}
	p := filepath.Join(e.ScratchDir, name)
	contents := strings.Join(lines, "\n")
	if len(lines) > 0 {
		contents += "\n"
	}
	if err := renameio.WriteFile(p, []byte(contents), 0o644); err != nil {
		return "", xerrors.Errorf("writing file list %s: %w", name, err)
	}
	return p, nil
}

// DebugString renders the job DAG as "kind(idx) -> kind(idx), ..." edges,
// useful for -driver-print-jobs-style diagnostics (spec §9 mentions a
// -driver-print-jobs compatibility flag as explicitly out of scope for the
// CORE, but a plain textual dump of what Run would do costs nothing here).
func DebugString(jobs []swiftdriver.Job) (string, error) {
	g, err := buildGraph(jobs)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i, j := range jobs {
		fmt.Fprintf(&b, "%d: %s", i, j.Kind)
		if from := g.To(int64(i)); from.Len() > 0 {
			b.WriteString(" <- [")
			first := true
			for from.Next() {
				if !first {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "%d", from.Node().ID())
				first = false
			}
			b.WriteString("]")
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
