package swiftdriver

// JobKind distinguishes the handful of job shapes the Build Planner (C7)
// emits, so a JobExecutor or a test can tell them apart without inspecting
// the tool name.
type JobKind int

const (
	JobCompile JobKind = iota
	JobEmitModule
	JobMergeModule
	JobAutolinkExtract
	JobLink
	JobGenerateDSYM
)

func (k JobKind) String() string {
	switch k {
	case JobCompile:
		return "compile"
	case JobEmitModule:
		return "emitModule"
	case JobMergeModule:
		return "mergeModule"
	case JobAutolinkExtract:
		return "autolinkExtract"
	case JobLink:
		return "link"
	case JobGenerateDSYM:
		return "generateDSYM"
	default:
		return "unknown"
	}
}

// ToolRef names the sub-process a Job invokes. It is opaque to the
// planner: resolving a ToolRef to an actual executable path is the
// Toolchain's job (spec §9, "Toolchain polymorphism").
type ToolRef struct {
	Name string
}

// ArgTemplate decouples argument construction from resolution, per spec
// §4.8: flag is a verbatim token, path is resolved against the working
// directory at execution time, fileList spills its contents to a
// temporary file and substitutes that file's path.
type ArgTemplate struct {
	kind     argKind
	flag     string
	path     VirtualPath
	listName string
	list     []VirtualPath
}

type argKind int

const (
	argFlag argKind = iota
	argPath
	argFileList
)

// Flag returns an ArgTemplate for a verbatim token.
func Flag(s string) ArgTemplate { return ArgTemplate{kind: argFlag, flag: s} }

// Path returns an ArgTemplate resolved against the working directory at
// execution time.
func Path(p VirtualPath) ArgTemplate { return ArgTemplate{kind: argPath, path: p} }

// FileListArg returns an ArgTemplate whose contents are spilled to a
// temporary file named name, substituting that file's path.
func FileListArg(name string, paths []VirtualPath) ArgTemplate {
	return ArgTemplate{kind: argFileList, listName: name, list: append([]VirtualPath(nil), paths...)}
}

// IsFlag, IsPath, IsFileList let a JobExecutor switch on the template kind
// without reaching into unexported fields.
func (a ArgTemplate) IsFlag() bool     { return a.kind == argFlag }
func (a ArgTemplate) IsPath() bool     { return a.kind == argPath }
func (a ArgTemplate) IsFileList() bool { return a.kind == argFileList }

// FlagValue returns the verbatim token of a Flag template.
func (a ArgTemplate) FlagValue() string { return a.flag }

// PathValue returns the VirtualPath of a Path template.
func (a ArgTemplate) PathValue() VirtualPath { return a.path }

// FileListValue returns the name and member paths of a FileListArg template.
func (a ArgTemplate) FileListValue() (string, []VirtualPath) {
	return a.listName, append([]VirtualPath(nil), a.list...)
}

// Job is an immutable description of a sub-process invocation. The
// planner builds Jobs eagerly and never mutates one after appending it to
// the returned slice (spec §9, "Mutability discipline").
type Job struct {
	Tool    ToolRef
	Inputs  []TypedVirtualPath
	Outputs []TypedVirtualPath
	Args    []ArgTemplate
	Kind    JobKind
}
