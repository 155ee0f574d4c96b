package config

import (
	"os"
	"strings"

	swiftdriver "github.com/swiftcdriver/core"
	"github.com/swiftcdriver/core/internal/diag"
	"github.com/swiftcdriver/core/internal/options"
	"github.com/swiftcdriver/core/internal/toolchain"
)

// SDKToolchainOutput is the result of the SDK/Toolchain Resolver (C5,
// spec §4.5).
type SDKToolchainOutput struct {
	Toolchain toolchain.Toolchain
	SDKPath   string // "" when no SDK applies
}

// statFunc exists so tests can stub out filesystem access without
// depending on a real non-existent path on disk.
var statFunc = os.Stat

// ResolveSDKToolchain implements C5. target is the resolved `-target`
// triple (or the host triple if unspecified, a concern of the CLI layer
// rather than this resolver).
func ResolveSDKToolchain(p options.Parsed, target string, mode swiftdriver.CompilerMode, eng diag.Engine) (SDKToolchainOutput, error) {
	tc, err := toolchain.ByTarget(target)
	if err != nil {
		return SDKToolchainOutput{}, err // fatal: toolchain unavailable for target (spec §7)
	}

	sdk := ""
	if v, ok := p.String("sdk"); ok {
		sdk = v
	} else if v := os.Getenv("SDKROOT"); v != "" {
		sdk = v
	} else if (mode.IsImmediate() || mode.IsREPL()) && tc.Kind() == toolchain.Darwin {
		if def, ok := tc.DefaultSDKPath(); ok {
			sdk = def
		}
	}
	sdk = strings.TrimRight(sdk, "/")

	if sdk != "" {
		if _, err := statFunc(sdk); err != nil {
			diag.Warnf(eng, "SDK path does not exist: %s", sdk)
		}
	}

	return SDKToolchainOutput{Toolchain: tc, SDKPath: sdk}, nil
}
