package swiftdriver

// FileType is the closed enumeration of artifact kinds the driver reasons
// about (spec §3). Unknown extensions fall back to Object deliberately:
// an unrecognized input is still something the compiler can try to treat
// as a linker input, not a hard error at classification time.
type FileType int

const (
	Swift FileType = iota
	SIL
	SIB
	RawSIL
	RawSIB
	Object
	Autolink
	SwiftModule
	SwiftDocumentation
	SwiftInterface
	SwiftDeps
	Assembly
	LLVMIR
	LLVMBitcode
	AST
	PCH
	ImportedModules
	IndexData
	Remap
	Diagnostics
	Dependencies
	ObjCHeader
	ModuleTrace
	TBD
	OptimizationRecord
)

// extensionTable maps each canonical extension to its FileType. The
// reverse direction (fileTypeExtension) is derived from this table so the
// two can never drift apart (property P6: round-trip of FileType <->
// extension on every canonical extension).
var extensionTable = map[string]FileType{
	".swift":              Swift,
	".sil":                SIL,
	".sib":                SIB,
	".rawsil":             RawSIL,
	".rawsib":             RawSIB,
	".o":                  Object,
	".autolink":           Autolink,
	".swiftmodule":        SwiftModule,
	".swiftdoc":           SwiftDocumentation,
	".swiftinterface":     SwiftInterface,
	".swiftdeps":          SwiftDeps,
	".s":                  Assembly,
	".ll":                 LLVMIR,
	".bc":                 LLVMBitcode,
	".ast":                AST,
	".pch":                PCH,
	".importedmodules":    ImportedModules,
	".indexdata":          IndexData,
	".remap":              Remap,
	".dia":                Diagnostics,
	".d":                  Dependencies,
	".h":                  ObjCHeader,
	".trace.json":         ModuleTrace,
	".tbd":                TBD,
	".opt.yaml":           OptimizationRecord,
}

var fileTypeExtension = func() map[FileType]string {
	m := make(map[FileType]string, len(extensionTable))
	for ext, t := range extensionTable {
		// First writer wins for types with no single-extension winner;
		// every type in extensionTable above has exactly one entry, so
		// this is a true 1:1 inverse.
		if _, ok := m[t]; !ok {
			m[t] = ext
		}
	}
	return m
}()

// FromExtension maps a file extension (including the leading dot) to a
// FileType. Unknown extensions yield Object, per spec §4.1: "the
// object-file default is preserved deliberately; unknown extensions are
// not rejected here."
func FromExtension(ext string) FileType {
	if t, ok := extensionTable[ext]; ok {
		return t
	}
	return Object
}

// Extension returns the canonical file extension for t.
func (t FileType) Extension() string {
	return fileTypeExtension[t]
}

// IsPartOfSwiftCompilation reports whether t is an input the batch
// partitioner (C6) counts as a primary/secondary Swift-compilation input:
// swift, sil, sib.
func (t FileType) IsPartOfSwiftCompilation() bool {
	switch t {
	case Swift, SIL, SIB:
		return true
	default:
		return false
	}
}

func (t FileType) String() string {
	names := map[FileType]string{
		Swift:              "swift",
		SIL:                "sil",
		SIB:                "sib",
		RawSIL:             "rawSil",
		RawSIB:             "rawSib",
		Object:             "object",
		Autolink:           "autolink",
		SwiftModule:        "swiftModule",
		SwiftDocumentation: "swiftDocumentation",
		SwiftInterface:     "swiftInterface",
		SwiftDeps:          "swiftDeps",
		Assembly:           "assembly",
		LLVMIR:             "llvmIR",
		LLVMBitcode:        "llvmBitcode",
		AST:                "ast",
		PCH:                "pch",
		ImportedModules:    "importedModules",
		IndexData:          "indexData",
		Remap:              "remap",
		Diagnostics:        "diagnostics",
		Dependencies:       "dependencies",
		ObjCHeader:         "objcHeader",
		ModuleTrace:        "moduleTrace",
		TBD:                "tbd",
		OptimizationRecord: "optimizationRecord",
	}
	if s, ok := names[t]; ok {
		return s
	}
	return "unknown"
}

// TypedVirtualPath is the primary currency of job inputs and outputs: a
// VirtualPath paired with the FileType it is interpreted as. It is
// hashable by both fields (used as a map key throughout internal/batch and
// internal/plan).
type TypedVirtualPath struct {
	File VirtualPath
	Type FileType
}
