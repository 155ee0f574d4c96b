// Package swiftdriver holds the data model shared by every resolver and
// planner in this repository: virtual paths, file types, job descriptions,
// and the small closed variants (CompilerMode, ModuleOutput, ...) that the
// driver reasons about. Subpackages (internal/config, internal/batch,
// internal/plan, ...) build behavior on top of these types; this package
// holds no behavior that depends on the filesystem or on option parsing.
package swiftdriver

import (
	"path/filepath"
	"sync"
)

// pathKind distinguishes the variants of VirtualPath.
type pathKind int

const (
	pathAbsolute pathKind = iota
	pathRelative
	pathStandardInput
	pathTemporary
	pathFileList
)

// VirtualPath is the tagged variant described in spec §3: an absolute or
// relative on-disk path, standard input, a temporary file not yet created,
// or a file-list whose contents are spilled to disk at resolution time.
// Equality is by canonical form, so VirtualPath is safe to use as a map key
// (internal/batch and internal/plan key maps by TypedVirtualPath, which
// embeds one). A file-list's contents therefore cannot live inline as a
// slice field — that would make the struct incomparable — so they're kept
// in a side table keyed by the list's name instead; fileListContents below.
type VirtualPath struct {
	kind pathKind
	path string // absolute/relative: the path; temporary/fileList: the name
}

// fileListContents holds the member lines of every file-list VirtualPath,
// keyed by name. Planning is single-threaded (spec §5) so all writes
// happen before internal/jobexec ever reads one; the mutex only guards
// against a JobExecutor with >1 worker reading concurrently.
var fileListContents = struct {
	mu   sync.RWMutex
	data map[string][]string
}{data: make(map[string][]string)}

// AbsolutePath returns a VirtualPath rooted at an absolute filesystem path.
// Callers are responsible for ensuring p is actually absolute; the driver
// does not second-guess its collaborators about path resolution.
func AbsolutePath(p string) VirtualPath {
	return VirtualPath{kind: pathAbsolute, path: p}
}

// RelativePath returns a VirtualPath relative to the driver's working directory.
func RelativePath(p string) VirtualPath {
	return VirtualPath{kind: pathRelative, path: p}
}

// StandardInput returns the VirtualPath representing "-".
func StandardInput() VirtualPath {
	return VirtualPath{kind: pathStandardInput}
}

// TemporaryPath returns a VirtualPath for a not-yet-created scratch file
// named name. The name is expected to already be made unique by the caller
// (see internal/plan's temp-name counter).
func TemporaryPath(name string) VirtualPath {
	return VirtualPath{kind: pathTemporary, path: name}
}

// FileListPath returns a VirtualPath whose contents are spilled to a
// temporary file named name when the job referencing it is resolved. name
// is expected to already be unique (see internal/plan's temp-name
// counter); a second call with the same name overwrites the first's
// recorded contents.
func FileListPath(name string, contents []string) VirtualPath {
	fileListContents.mu.Lock()
	fileListContents.data[name] = append([]string(nil), contents...)
	fileListContents.mu.Unlock()
	return VirtualPath{kind: pathFileList, path: name}
}

// IsStandardInput reports whether p represents "-".
func (p VirtualPath) IsStandardInput() bool { return p.kind == pathStandardInput }

// IsTemporary reports whether p is a not-yet-created scratch file.
func (p VirtualPath) IsTemporary() bool { return p.kind == pathTemporary }

// IsFileList reports whether p is a file-list path.
func (p VirtualPath) IsFileList() bool { return p.kind == pathFileList }

// Contents returns the lines of a file-list path. It is empty for every
// other variant.
func (p VirtualPath) Contents() []string {
	if p.kind != pathFileList {
		return nil
	}
	fileListContents.mu.RLock()
	defer fileListContents.mu.RUnlock()
	return append([]string(nil), fileListContents.data[p.path]...)
}

// Name returns the base name of the path: for absolute/relative paths this
// is filepath.Base of the underlying path; for temporary and file-list
// paths it is the allocated name; standard input has no name.
func (p VirtualPath) Name() string {
	switch p.kind {
	case pathAbsolute, pathRelative:
		return filepath.Base(p.path)
	case pathTemporary, pathFileList:
		return p.path
	default:
		return ""
	}
}

// String returns the canonical form used for equality and map keys.
func (p VirtualPath) String() string {
	switch p.kind {
	case pathAbsolute:
		return p.path
	case pathRelative:
		return p.path
	case pathStandardInput:
		return "-"
	case pathTemporary:
		return "<temporary>" + p.path
	case pathFileList:
		return "<fileList>" + p.path
	default:
		return ""
	}
}

// Ext returns the file extension (including the leading dot), or "" for
// paths that have none (standard input, most temporaries).
func (p VirtualPath) Ext() string {
	switch p.kind {
	case pathAbsolute, pathRelative:
		return filepath.Ext(p.path)
	default:
		return filepath.Ext(p.path)
	}
}
