// Command swiftc is the CLI entry point for the compiler driver: argv[0]
// (or an explicit -driver-mode=) selects the `swift`/`swiftc` personality,
// then the remaining argv is expanded, resolved into a Driver
// configuration, planned into a job DAG, and run to completion.
//
// Grounded on cmd/distri/distri.go's funcmain/main split: main() only
// prints an error and sets the exit code, every real decision lives in
// funcmain() error so it stays testable in principle.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
	swiftdriver "github.com/swiftcdriver/core"
	"github.com/swiftcdriver/core/internal/config"
	"github.com/swiftcdriver/core/internal/diag"
	"github.com/swiftcdriver/core/internal/jobexec"
	"github.com/swiftcdriver/core/internal/options"
	"github.com/swiftcdriver/core/internal/plan"
	"github.com/swiftcdriver/core/internal/toolchain"
	"golang.org/x/xerrors"
)

var (
	debug      = flag.Bool("debug", false, "format error messages with additional detail")
	target     = flag.String("target", "", "target triple (defaults to the host triple)")
	driverMode = flag.String("driver-mode", "", `driver personality ("swift" or "swiftc"); overrides argv[0]`)
	workers    = flag.Int("j", runtime.NumCPU(), "maximum number of jobs to run concurrently")
	noExec     = flag.Bool("driver-skip-execution", false, "plan the build but do not invoke any sub-process")
)

// isTerminal gates the reference executor's per-job progress log, the same
// way internal/batch.scheduler's isTerminal gates its status lines.
// go-isatty replaces that package's direct unix.IoctlGetTermios(TCGETS)
// call because this driver also targets Darwin, whose ioctl numbers differ.
var isTerminal = isatty.IsTerminal(os.Stderr.Fd())

// personality returns whether the CLI was invoked as the interactive
// `swift` front-end rather than the batch `swiftc` compiler, per spec §6:
// argv[0]'s basename decides, unless -driver-mode= was given, which takes
// priority.
func personality(mode string) bool {
	if mode != "" {
		return mode == "swift"
	}
	base := filepath.Base(os.Args[0])
	return base == "swift" || strings.HasPrefix(base, "swift-")
}

// hostTarget approximates swiftc's default -target when none was given.
// This driver only needs a triple whose OS component toolchain.ByTarget
// can read; it doesn't need to be bit-for-bit identical to what the real
// compiler infers on every platform.
func hostTarget() string {
	arch := runtime.GOARCH
	if arch == "amd64" {
		arch = "x86_64"
	}
	switch runtime.GOOS {
	case "darwin":
		return arch + "-apple-macosx"
	case "linux":
		return arch + "-unknown-linux-gnu"
	case "freebsd":
		return arch + "-unknown-freebsd"
	default:
		return arch + "-unknown-" + runtime.GOOS
	}
}

// passthroughTools are the argv[1] tokens that skip planning entirely and
// forward the remaining argv verbatim to a single named tool, per spec §6
// ("-frontend / -modulewrap as argv[1] short-circuit to pass-through
// subcommands").
var passthroughTools = map[string]string{
	"-frontend":   "swift-frontend",
	"-modulewrap": "swift-modulewrap",
}

func runPassthrough(ctx context.Context, tool string, args []string) error {
	tc, err := toolchain.ByTarget(hostTarget())
	if err != nil {
		return err
	}
	e := jobexec.New(tc, ".", os.TempDir())
	job := swiftdriver.Job{
		Tool: swiftdriver.ToolRef{Name: tool},
		Args: flagsOf(args),
	}
	return e.Run(ctx, []swiftdriver.Job{job})
}

// flagsOf turns bare passthrough argv tokens into literal Flag
// ArgTemplates: pass-through mode forwards argv unexamined, it never
// resolves a path against a working directory.
func flagsOf(args []string) []swiftdriver.ArgTemplate {
	out := make([]swiftdriver.ArgTemplate, len(args))
	for i, a := range args {
		out[i] = swiftdriver.Flag(a)
	}
	return out
}

// multicallTools are argv[0] basenames that, per spec §6, forward straight
// to the like-named tool instead of going through the `swift`/`swiftc`
// personality at all (the same busybox-style multi-call convention
// `cmd/distri/distri.go` uses for its `/entrypoint` special case).
var multicallTools = map[string]string{
	"swift-autolink-extract": "swift-autolink-extract",
	"swift-indent":           "swift-indent",
}

func funcmain() error {
	if tool, ok := multicallTools[filepath.Base(os.Args[0])]; ok {
		ctx, canc := swiftdriver.InterruptibleContext()
		defer canc()
		return runPassthrough(ctx, tool, os.Args[1:])
	}

	// Checked on the raw argv, before flag.Parse, which would otherwise
	// reject -frontend/-modulewrap as undefined flags.
	if len(os.Args) > 1 {
		if tool, ok := passthroughTools[os.Args[1]]; ok {
			ctx, canc := swiftdriver.InterruptibleContext()
			defer canc()
			return runPassthrough(ctx, tool, os.Args[2:])
		}
	}

	flag.Parse()
	args := flag.Args()

	if err := bumpRlimitNOFILE(); err != nil {
		log.Printf("warning: bumping RLIMIT_NOFILE failed: %v", err)
	}

	interactive := personality(*driverMode)
	tgt := *target
	if tgt == "" {
		tgt = hostTarget()
	}

	expanded, err := options.ExpandResponseFiles(args)
	if err != nil {
		return xerrors.Errorf("expanding response files: %w", err)
	}
	p := options.Parse(expanded)

	logger := log.New(os.Stderr, "", 0)
	eng := diag.NewLogEngine(logger)

	d, err := config.Resolve(p, interactive, tgt, eng)
	if err != nil {
		return xerrors.Errorf("resolving driver configuration: %w", err)
	}

	jobs := plan.Build(d, p, eng)

	if !*noExec {
		ctx, canc := swiftdriver.InterruptibleContext()
		defer canc()
		e := jobexec.New(d.Toolchain, d.WorkingDirectory, os.TempDir())
		e.Workers = *workers
		e.Log = logger
		if e.Workers < 1 {
			e.Workers = 1
		}
		if !isTerminal {
			e.Log = nil // non-interactive: skip the per-job progress log, matching a CI log's expectations
		}
		if err := e.Run(ctx, jobs); err != nil {
			return xerrors.Errorf("running build plan: %w", err)
		}
	}

	if err := swiftdriver.RunAtExit(); err != nil {
		return xerrors.Errorf("at-exit cleanup: %w", err)
	}

	if eng.ErrorCount() > 0 {
		return fmt.Errorf("build failed with %d error(s)", eng.ErrorCount())
	}
	return nil
}

func main() {
	if err := funcmain(); err != nil {
		if *debug {
			fmt.Fprintf(os.Stderr, "%+v\n", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
