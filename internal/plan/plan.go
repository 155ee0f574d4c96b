// Package plan implements the Build Planner (C7, spec §4.7): turning a
// resolved Driver configuration into the ordered job list a JobExecutor
// can run. Grounded on internal/build/buildc.go's (b *Ctx) buildc, which
// assembles an ordered step list from resolved options without executing
// anything itself - exactly the planner/executor split this package keeps.
package plan

import (
	"fmt"
	"path/filepath"

	swiftdriver "github.com/swiftcdriver/core"
	"github.com/swiftcdriver/core/internal/batch"
	"github.com/swiftcdriver/core/internal/config"
	"github.com/swiftcdriver/core/internal/diag"
	"github.com/swiftcdriver/core/internal/options"
	"github.com/swiftcdriver/core/internal/toolchain"
)

// tempCounter allocates unique scratch-file name suffixes within one
// Build call, per spec §5: "must use a counter ... unique within one
// driver invocation; no cross-invocation coordination is required."
type tempCounter struct{ n int }

func (c *tempCounter) next(prefix, ext string) string {
	c.n++
	return fmt.Sprintf("%s-%d%s", prefix, c.n, ext)
}

// Build implements C7. p is the same ParsedOptions collaborator used to
// resolve d, consulted here only for the C4 supplementary-output paths the
// planner routes into job outputs (spec §2: "planBuild ... consults
// C3/C4-derived paths").
func Build(d *config.Driver, p options.Parsed, eng diag.Engine) []swiftdriver.Job {
	var jobs []swiftdriver.Job
	var linkerInputs []swiftdriver.TypedVirtualPath
	var moduleInputs []swiftdriver.TypedVirtualPath
	var tmp tempCounter

	swiftInputs := batch.SwiftInputs(d.Inputs)
	moduleWideSupp := resolveModuleWideSupplementary(p, d)
	// singlePrimaryBuild is true when the whole build has at most one
	// Swift primary, so per-primary supplementary paths can use config's
	// C4 formula (explicit path / -o / module-name derived) exactly as
	// specified without any risk of two jobs claiming the same output;
	// see resolvePerPrimaryPath for the multi-primary fan-out decision.
	singlePrimaryBuild := len(swiftInputs) <= 1

	// Step 1: emit-module job.
	moduleStepNeeded := d.ModuleOutput != nil && !d.Mode.IsSingleCompile() &&
		(d.Mode.IsStandardCompile() || d.Mode.IsBatchCompile())
	if moduleStepNeeded && len(swiftInputs) > 0 {
		outputs := []swiftdriver.TypedVirtualPath{{File: d.ModuleOutput.Path(), Type: swiftdriver.SwiftModule}}
		outputs = append(outputs, moduleWideSupp...)
		jobs = append(jobs, swiftdriver.Job{
			Tool:    swiftdriver.ToolRef{Name: "swift-frontend"},
			Kind:    swiftdriver.JobEmitModule,
			Inputs:  swiftInputs,
			Outputs: outputs,
			Args:    emitModuleArgs(swiftInputs, d.ModuleOutput.Path()),
		})
	}
	moduleAlreadyProduced := d.ModuleOutput != nil && (moduleStepNeeded || d.Mode.IsSingleCompile())

	// Step 2: per-partition (batch), per-file (standard), or one whole-module
	// (single) compile job(s).
	// moduleWideSupp is only ever passed alongside includeModule: it must
	// land on exactly one job, and when moduleStepNeeded is false that job
	// is this one (singleCompile's one-job-does-everything case).
	switch {
	case d.Mode.IsSingleCompile():
		if len(swiftInputs) > 0 {
			job, objs := compileJob(d, p, swiftInputs, swiftInputs, moduleAlreadyProduced, moduleWideSupp, singlePrimaryBuild)
			jobs = append(jobs, job)
			linkerInputs = append(linkerInputs, objs...)
		}
	case d.Mode.IsBatchCompile():
		parts := batch.FromInputsAndConfig(d.Inputs, d.Mode.BatchInfo(), d.NumThreads)
		if parts != nil {
			for _, partition := range parts.Partitions {
				job, objs := compileJob(d, p, partition, swiftInputs, false, nil, singlePrimaryBuild)
				jobs = append(jobs, job)
				linkerInputs = append(linkerInputs, objs...)
			}
		} else {
			for _, in := range swiftInputs {
				job, objs := compileJob(d, p, []swiftdriver.TypedVirtualPath{in}, swiftInputs, false, nil, singlePrimaryBuild)
				jobs = append(jobs, job)
				linkerInputs = append(linkerInputs, objs...)
			}
		}
	case d.Mode.IsStandardCompile():
		for _, in := range swiftInputs {
			job, objs := compileJob(d, p, []swiftdriver.TypedVirtualPath{in}, swiftInputs, false, nil, singlePrimaryBuild)
			jobs = append(jobs, job)
			linkerInputs = append(linkerInputs, objs...)
		}
	}

	// Step 3: classify non-Swift inputs.
	for _, in := range d.Inputs {
		if in.Type.IsPartOfSwiftCompilation() {
			continue
		}
		switch in.Type {
		case swiftdriver.Object, swiftdriver.Autolink:
			if d.LinkerOutputType == nil {
				diag.Errorf(eng, "unexpected input %s: no link step is configured", in.File)
				continue
			}
			linkerInputs = append(linkerInputs, in)
		case swiftdriver.SwiftModule, swiftdriver.SwiftDocumentation:
			switch {
			case d.ModuleOutput != nil && d.LinkerOutputType == nil:
				moduleInputs = append(moduleInputs, in)
			case d.LinkerOutputType != nil:
				linkerInputs = append(linkerInputs, in)
			default:
				diag.Errorf(eng, "unexpected input %s: no module output and no link step configured", in.File)
			}
		default:
			diag.Errorf(eng, "unexpected input %s of type %s", in.File, in.Type)
		}
	}

	// Step 4: merge-module job.
	if d.ModuleOutput != nil && !moduleAlreadyProduced && len(moduleInputs) > 0 {
		jobs = append(jobs, swiftdriver.Job{
			Tool:    swiftdriver.ToolRef{Name: "swift-frontend"},
			Kind:    swiftdriver.JobMergeModule,
			Inputs:  moduleInputs,
			Outputs: []swiftdriver.TypedVirtualPath{{File: d.ModuleOutput.Path(), Type: swiftdriver.SwiftModule}},
			Args:    mergeModuleArgs(moduleInputs, d.ModuleOutput.Path()),
		})
	}

	// Step 5: autolink-extract job.
	if d.Toolchain != nil && d.Toolchain.RequiresAutolinkExtract() {
		var objs []swiftdriver.TypedVirtualPath
		for _, in := range linkerInputs {
			if in.Type == swiftdriver.Object {
				objs = append(objs, in)
			}
		}
		if len(objs) > 0 {
			outPath := swiftdriver.TemporaryPath(tmp.next("autolink", swiftdriver.Autolink.Extension()))
			out := swiftdriver.TypedVirtualPath{File: outPath, Type: swiftdriver.Autolink}
			jobs = append(jobs, swiftdriver.Job{
				Tool:    swiftdriver.ToolRef{Name: "swift-autolink-extract"},
				Kind:    swiftdriver.JobAutolinkExtract,
				Inputs:  objs,
				Outputs: []swiftdriver.TypedVirtualPath{out},
				Args:    autolinkExtractArgs(objs, outPath),
			})
			linkerInputs = append(linkerInputs, out)
		}
	}

	// Step 6: link job.
	var linkOutput *swiftdriver.TypedVirtualPath
	if d.LinkerOutputType != nil && len(linkerInputs) > 0 && d.Toolchain != nil {
		outPath := linkOutputPath(d, p)
		out := swiftdriver.TypedVirtualPath{File: outPath, Type: swiftdriver.Object}
		jobs = append(jobs, swiftdriver.Job{
			Tool:    swiftdriver.ToolRef{Name: "linker"},
			Kind:    swiftdriver.JobLink,
			Inputs:  linkerInputs,
			Outputs: []swiftdriver.TypedVirtualPath{out},
			Args:    d.Toolchain.LinkArgs(linkerInputs, out, *d.LinkerOutputType),
		})
		linkOutput = &out
	}

	// Step 7: generate-dSYM job.
	if linkOutput != nil && d.Toolchain != nil && d.Toolchain.Kind() == toolchain.Darwin && d.DebugInfoLevel != nil {
		dsymPath := swiftdriver.RelativePath(linkOutput.File.String() + ".dSYM")
		out := swiftdriver.TypedVirtualPath{File: dsymPath, Type: swiftdriver.Object}
		jobs = append(jobs, swiftdriver.Job{
			Tool:    swiftdriver.ToolRef{Name: "dsymutil"},
			Kind:    swiftdriver.JobGenerateDSYM,
			Inputs:  []swiftdriver.TypedVirtualPath{*linkOutput},
			Outputs: []swiftdriver.TypedVirtualPath{out},
			Args:    []swiftdriver.ArgTemplate{swiftdriver.Path(linkOutput.File), swiftdriver.Flag("-o"), swiftdriver.Path(dsymPath)},
		})
	}

	return jobs
}

// compileJob builds one compile job (step 2) with primaries as the primary
// inputs and the rest of the build's Swift inputs as secondary (type-check
// only) context, per spec §4.7 step 2. includeModule, when true, adds the
// resolved module output and moduleWideSupp directly to this job's outputs
// (singleCompile's one-job-does-everything case, where no separate
// emit-module job exists to carry them); every other caller passes
// includeModule=false and a nil moduleWideSupp; see Build.
func compileJob(d *config.Driver, p options.Parsed, primaries, allSwiftInputs []swiftdriver.TypedVirtualPath, includeModule bool, moduleWideSupp []swiftdriver.TypedVirtualPath, singlePrimaryBuild bool) (swiftdriver.Job, []swiftdriver.TypedVirtualPath) {
	secondary := make([]swiftdriver.TypedVirtualPath, 0, len(allSwiftInputs))
	primarySet := make(map[swiftdriver.TypedVirtualPath]bool, len(primaries))
	for _, pr := range primaries {
		primarySet[pr] = true
	}
	for _, in := range allSwiftInputs {
		if !primarySet[in] {
			secondary = append(secondary, in)
		}
	}

	outType := swiftdriver.Object
	if d.CompilerOutputType != nil {
		outType = *d.CompilerOutputType
	}

	var outputs []swiftdriver.TypedVirtualPath
	var objects []swiftdriver.TypedVirtualPath
	for _, pr := range primaries {
		out := swiftdriver.TypedVirtualPath{File: derivedOutputPath(pr, outType), Type: outType}
		outputs = append(outputs, out)
		if outType == swiftdriver.Object {
			objects = append(objects, out)
		}
		outputs = append(outputs, perPrimarySupplementaryOutputs(p, d, pr, singlePrimaryBuild)...)
	}
	if includeModule && d.ModuleOutput != nil {
		outputs = append(outputs, swiftdriver.TypedVirtualPath{File: d.ModuleOutput.Path(), Type: swiftdriver.SwiftModule})
		outputs = append(outputs, moduleWideSupp...)
	}

	inputs := append(append([]swiftdriver.TypedVirtualPath(nil), primaries...), secondary...)
	return swiftdriver.Job{
		Tool:    swiftdriver.ToolRef{Name: "swift-frontend"},
		Kind:    swiftdriver.JobCompile,
		Inputs:  inputs,
		Outputs: outputs,
		Args:    compileArgs(primaries, secondary, outType),
	}, objects
}

// derivedOutputPath names a primary's compile output after its own base
// name, the convention every Swift compile invocation uses for per-file
// outputs (mirrors distri's per-package artifact naming).
func derivedOutputPath(primary swiftdriver.TypedVirtualPath, outType swiftdriver.FileType) swiftdriver.VirtualPath {
	base := primary.File.Name()
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)] + outType.Extension()
	return swiftdriver.TemporaryPath(name)
}

func compileArgs(primaries, secondary []swiftdriver.TypedVirtualPath, outType swiftdriver.FileType) []swiftdriver.ArgTemplate {
	var args []swiftdriver.ArgTemplate
	for _, pr := range primaries {
		args = append(args, swiftdriver.Flag("-primary-file"), swiftdriver.Path(pr.File))
	}
	for _, s := range secondary {
		args = append(args, swiftdriver.Path(s.File))
	}
	args = append(args, swiftdriver.Flag("-emit-"+outType.String()))
	return args
}

func emitModuleArgs(swiftInputs []swiftdriver.TypedVirtualPath, modulePath swiftdriver.VirtualPath) []swiftdriver.ArgTemplate {
	var args []swiftdriver.ArgTemplate
	args = append(args, swiftdriver.Flag("-emit-module"))
	for _, in := range swiftInputs {
		args = append(args, swiftdriver.Path(in.File))
	}
	args = append(args, swiftdriver.Flag("-o"), swiftdriver.Path(modulePath))
	return args
}

func mergeModuleArgs(inputs []swiftdriver.TypedVirtualPath, modulePath swiftdriver.VirtualPath) []swiftdriver.ArgTemplate {
	var args []swiftdriver.ArgTemplate
	args = append(args, swiftdriver.Flag("-merge-modules"))
	for _, in := range inputs {
		args = append(args, swiftdriver.Path(in.File))
	}
	args = append(args, swiftdriver.Flag("-o"), swiftdriver.Path(modulePath))
	return args
}

func autolinkExtractArgs(objs []swiftdriver.TypedVirtualPath, out swiftdriver.VirtualPath) []swiftdriver.ArgTemplate {
	var args []swiftdriver.ArgTemplate
	for _, o := range objs {
		args = append(args, swiftdriver.Path(o.File))
	}
	args = append(args, swiftdriver.Flag("-o"), swiftdriver.Path(out))
	return args
}

// linkOutputPath honors -o when present; otherwise derives a name from the
// module name and the toolchain/link-type convention.
func linkOutputPath(d *config.Driver, p options.Parsed) swiftdriver.VirtualPath {
	if v, ok := p.String("o"); ok {
		return swiftdriver.RelativePath(options.ResolveAgainstWorkingDir(d.WorkingDirectory, v))
	}
	name := d.ModuleName
	if name == "" {
		name = "a.out"
	}
	ext := ""
	switch *d.LinkerOutputType {
	case swiftdriver.DynamicLibrary:
		if d.Toolchain != nil && d.Toolchain.Kind() == toolchain.Darwin {
			ext = ".dylib"
		} else {
			ext = ".so"
		}
		name = "lib" + name
	case swiftdriver.StaticLibrary:
		ext = ".a"
		name = "lib" + name
	}
	return swiftdriver.RelativePath(options.ResolveAgainstWorkingDir(d.WorkingDirectory, name+ext))
}

// moduleWideKinds are supplementary artifacts that describe the module as
// a whole rather than one compile job's primaries; they attach to the
// emit-module/single-compile job, never to a per-partition compile job.
var moduleWideKinds = map[swiftdriver.FileType]bool{
	swiftdriver.SwiftDocumentation: true,
	swiftdriver.SwiftInterface:     true,
	swiftdriver.ObjCHeader:         true,
	swiftdriver.ModuleTrace:        true,
	swiftdriver.TBD:                true,
}

// resolveModuleWideSupplementary runs C4 for just the module-wide kinds
// (module doc, swift interface, objc header, module trace, tbd): one
// path per kind for the whole build, attached to the single job that
// speaks for the module as a whole (the emit-module job, or the
// singleCompile job when there is no separate one). Never attached to a
// per-partition/per-file compile job: that would make the same output
// path a Job.Outputs entry on more than one job, violating P3's
// single-producer invariant.
func resolveModuleWideSupplementary(p options.Parsed, d *config.Driver) []swiftdriver.TypedVirtualPath {
	var out []swiftdriver.TypedVirtualPath
	for _, k := range config.SupplementaryKinds {
		if !moduleWideKinds[k.Type] {
			continue
		}
		if path, ok := config.ResolveSupplementaryPath(p, k, d.CompilerOutputType, d.ModuleName, d.WorkingDirectory); ok {
			out = append(out, swiftdriver.TypedVirtualPath{File: path, Type: k.Type})
		}
	}
	return out
}

// perPrimarySupplementaryOutputs runs C4 for the per-primary kinds
// (dependencies, swiftdeps, diagnostics, optimization record - everything
// not in moduleWideKinds) for exactly one primary file, so two different
// primaries (in the same job or different jobs) never share a path.
func perPrimarySupplementaryOutputs(p options.Parsed, d *config.Driver, primary swiftdriver.TypedVirtualPath, singlePrimaryBuild bool) []swiftdriver.TypedVirtualPath {
	var out []swiftdriver.TypedVirtualPath
	for _, k := range config.SupplementaryKinds {
		if moduleWideKinds[k.Type] {
			continue
		}
		if path, ok := resolvePerPrimaryPath(p, d, k, primary, singlePrimaryBuild); ok {
			out = append(out, swiftdriver.TypedVirtualPath{File: path, Type: k.Type})
		}
	}
	return out
}

// resolvePerPrimaryPath implements C4 for one primary and one
// per-primary kind. When the whole build has a single primary,
// config.ResolveSupplementaryPath's formula (explicit path > -o-derived >
// module-name-derived) applies exactly as spec.md §4.4 states, since
// there is only one file it could possibly refer to. spec.md doesn't say
// how a per-primary kind's path should fan out once there is more than
// one primary (batch partitions, or multiple standard-mode files) -
// reusing the single -o/module-name-derived path for every primary would
// make every compile job claim to produce the same output. This resolves
// that open question by deriving the path from the primary's own file
// name instead (the same convention derivedOutputPath uses for compile
// outputs), so every primary gets a distinct path; an explicit
// -*-path flag is honored only in the single-primary case, since once
// there is more than one primary, a single explicit path can't name more
// than one of them unambiguously.
func resolvePerPrimaryPath(p options.Parsed, d *config.Driver, k config.SupplementaryKind, primary swiftdriver.TypedVirtualPath, singlePrimaryBuild bool) (swiftdriver.VirtualPath, bool) {
	if singlePrimaryBuild {
		return config.ResolveSupplementaryPath(p, k, d.CompilerOutputType, d.ModuleName, d.WorkingDirectory)
	}
	if _, ok := p.String(k.OutputPathFlag); !ok && !p.Has(k.IsOutputFlag) {
		return swiftdriver.VirtualPath{}, false
	}
	base := primary.File.Name()
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)] + k.Type.Extension()
	return swiftdriver.TemporaryPath(name), true
}
