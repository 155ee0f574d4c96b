package toolchain

import (
	swiftdriver "github.com/swiftcdriver/core"
)

// darwinToolchain links with the platform linker directly; object files on
// Darwin already carry their autolink information in a section the linker
// reads itself, so no separate autolink-extract job is needed (spec §4.7
// step 5, glossary "Autolink-extract": "a post-compile step (non-Darwin)").
type darwinToolchain struct{}

func (t *darwinToolchain) Kind() Kind { return Darwin }

func (t *darwinToolchain) FindTool(name string) (string, error) {
	if name == "linker" {
		return lookTool("ld")
	}
	return lookTool(name)
}

func (t *darwinToolchain) PlatformLibraryPath() string {
	return "/usr/lib"
}

func (t *darwinToolchain) RequiresAutolinkExtract() bool { return false }

// DefaultSDKPath returns the path `xcrun --show-sdk-path` would report on a
// stock Xcode install. The core never shells out to discover it; a real
// deployment would resolve this once at toolchain-construction time.
func (t *darwinToolchain) DefaultSDKPath() (string, bool) {
	return "/Applications/Xcode.app/Contents/Developer/Platforms/MacOSX.platform/Developer/SDKs/MacOSX.sdk", true
}

func (t *darwinToolchain) LinkArgs(inputs []swiftdriver.TypedVirtualPath, output swiftdriver.TypedVirtualPath, linkType swiftdriver.LinkOutputType) []swiftdriver.ArgTemplate {
	var args []swiftdriver.ArgTemplate
	switch linkType {
	case swiftdriver.DynamicLibrary:
		args = append(args, swiftdriver.Flag("-dylib"))
	case swiftdriver.StaticLibrary:
		args = append(args, swiftdriver.Flag("-static"))
	}
	for _, in := range inputs {
		if in.Type == swiftdriver.SwiftModule {
			// Darwin's linker embeds a reference to the module so lldb
			// can resolve debug info against it.
			args = append(args, swiftdriver.Flag("-add_ast_path"), swiftdriver.Path(in.File))
			continue
		}
		args = append(args, swiftdriver.Path(in.File))
	}
	args = append(args, swiftdriver.Flag("-o"), swiftdriver.Path(output.File))
	return args
}
