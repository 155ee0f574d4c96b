package swiftdriver

// BatchModeInfo carries the batch-compile tuning knobs a user may supply.
// Seed is reserved for future shuffling of partition assignment (spec §9,
// Open Question (b)); the Batch Partitioner never reads it today.
type BatchModeInfo struct {
	Count     *uint
	SizeLimit *uint
	Seed      *uint
}

// compilerModeKind is the tag of CompilerMode's closed variant.
type compilerModeKind int

const (
	modeStandardCompile compilerModeKind = iota
	modeBatchCompile
	modeSingleCompile
	modeImmediate
	modeREPL
)

// CompilerMode is the closed variant {standardCompile, batchCompile(info),
// singleCompile, immediate, repl} from spec §3.
type CompilerMode struct {
	kind  compilerModeKind
	batch BatchModeInfo
}

func StandardCompile() CompilerMode { return CompilerMode{kind: modeStandardCompile} }
func SingleCompile() CompilerMode   { return CompilerMode{kind: modeSingleCompile} }
func Immediate() CompilerMode       { return CompilerMode{kind: modeImmediate} }
func REPL() CompilerMode            { return CompilerMode{kind: modeREPL} }
func BatchCompile(info BatchModeInfo) CompilerMode {
	return CompilerMode{kind: modeBatchCompile, batch: info}
}

func (m CompilerMode) IsStandardCompile() bool { return m.kind == modeStandardCompile }
func (m CompilerMode) IsBatchCompile() bool     { return m.kind == modeBatchCompile }
func (m CompilerMode) IsSingleCompile() bool    { return m.kind == modeSingleCompile }
func (m CompilerMode) IsImmediate() bool        { return m.kind == modeImmediate }
func (m CompilerMode) IsREPL() bool             { return m.kind == modeREPL }

// BatchInfo returns the BatchModeInfo payload; only meaningful when
// IsBatchCompile() is true.
func (m CompilerMode) BatchInfo() BatchModeInfo { return m.batch }

func (m CompilerMode) String() string {
	switch m.kind {
	case modeStandardCompile:
		return "standardCompile"
	case modeBatchCompile:
		return "batchCompile"
	case modeSingleCompile:
		return "singleCompile"
	case modeImmediate:
		return "immediate"
	case modeREPL:
		return "repl"
	default:
		return "unknown"
	}
}

// LinkOutputType is the closed variant {executable, dynamicLibrary,
// staticLibrary} from spec §3.
type LinkOutputType int

const (
	Executable LinkOutputType = iota
	DynamicLibrary
	StaticLibrary
)

func (t LinkOutputType) String() string {
	switch t {
	case Executable:
		return "executable"
	case DynamicLibrary:
		return "dynamicLibrary"
	case StaticLibrary:
		return "staticLibrary"
	default:
		return "unknown"
	}
}

// moduleOutputKind is the tag of ModuleOutput's closed variant.
type moduleOutputKind int

const (
	moduleOutputTopLevel moduleOutputKind = iota
	moduleOutputAuxiliary
)

// ModuleOutput is {topLevel(path) | auxiliary(path)} from spec §3. The
// distinction controls whether the module path participates as a
// terminal build artifact or an intermediate.
type ModuleOutput struct {
	kind moduleOutputKind
	path VirtualPath
}

func TopLevelModule(p VirtualPath) ModuleOutput {
	return ModuleOutput{kind: moduleOutputTopLevel, path: p}
}

func AuxiliaryModule(p VirtualPath) ModuleOutput {
	return ModuleOutput{kind: moduleOutputAuxiliary, path: p}
}

func (m ModuleOutput) IsTopLevel() bool  { return m.kind == moduleOutputTopLevel }
func (m ModuleOutput) IsAuxiliary() bool { return m.kind == moduleOutputAuxiliary }
func (m ModuleOutput) Path() VirtualPath { return m.path }

// DebugInfoLevel is {astTypes, lineTables, dwarfTypes} from spec §3.
type DebugInfoLevel int

const (
	ASTTypes DebugInfoLevel = iota
	LineTables
	DWARFTypes
)

// RequiresModule reports whether this debug level requires a module to be
// emitted (spec §4.3's module-decision table consults this predicate).
func (l DebugInfoLevel) RequiresModule() bool {
	switch l {
	case ASTTypes, DWARFTypes:
		return true
	default:
		return false
	}
}

func (l DebugInfoLevel) String() string {
	switch l {
	case ASTTypes:
		return "astTypes"
	case LineTables:
		return "lineTables"
	case DWARFTypes:
		return "dwarfTypes"
	default:
		return "unknown"
	}
}

// DebugInfoFormat is {dwarf, codeView} from spec §3.
type DebugInfoFormat int

const (
	DWARF DebugInfoFormat = iota
	CodeView
)

func (f DebugInfoFormat) String() string {
	switch f {
	case DWARF:
		return "dwarf"
	case CodeView:
		return "codeView"
	default:
		return "unknown"
	}
}
