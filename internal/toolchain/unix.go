package toolchain

import (
	swiftdriver "github.com/swiftcdriver/core"
)

// genericUnixToolchain links via the host's cc/ld; object files here carry
// their autolink directives in a special section the linker does not read
// on its own, so the planner must insert an autolink-extract job before
// linking (spec §4.7 step 5).
type genericUnixToolchain struct{}

func (t *genericUnixToolchain) Kind() Kind { return GenericUnix }

func (t *genericUnixToolchain) FindTool(name string) (string, error) {
	if name == "linker" {
		return lookTool("clang")
	}
	if name == "autolink-extract" {
		return lookTool("swift-autolink-extract")
	}
	return lookTool(name)
}

func (t *genericUnixToolchain) PlatformLibraryPath() string {
	return "/usr/lib/swift/linux"
}

func (t *genericUnixToolchain) RequiresAutolinkExtract() bool { return true }

// DefaultSDKPath: Generic Unix has no SDK bundle concept distinct from the
// system root, so there is nothing to default to.
func (t *genericUnixToolchain) DefaultSDKPath() (string, bool) { return "", false }

func (t *genericUnixToolchain) LinkArgs(inputs []swiftdriver.TypedVirtualPath, output swiftdriver.TypedVirtualPath, linkType swiftdriver.LinkOutputType) []swiftdriver.ArgTemplate {
	var args []swiftdriver.ArgTemplate
	switch linkType {
	case swiftdriver.DynamicLibrary:
		args = append(args, swiftdriver.Flag("-shared"))
	case swiftdriver.StaticLibrary:
		args = append(args, swiftdriver.Flag("-static"))
	}
	for _, in := range inputs {
		if in.Type == swiftdriver.SwiftModule {
			// No lldb-visible AST path convention on this platform;
			// the module is only here to keep it alive as a build
			// artifact, not to influence the link.
			continue
		}
		args = append(args, swiftdriver.Path(in.File))
	}
	args = append(args, swiftdriver.Flag("-L"), swiftdriver.Flag(t.PlatformLibraryPath()))
	args = append(args, swiftdriver.Flag("-o"), swiftdriver.Path(output.File))
	return args
}
