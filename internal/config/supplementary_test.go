package config

import (
	"testing"

	swiftdriver "github.com/swiftcdriver/core"
)

func TestResolveSupplementaryPathExplicitWins(t *testing.T) {
	v := parsedWith("emit-dependencies")
	v.Vals["emit-dependencies-path"] = []string{"custom.d"}
	v.Vals["o"] = []string{"a.out"}
	k := SupplementaryKinds[0]
	path, ok := ResolveSupplementaryPath(v, k, ft2(swiftdriver.Object), "mod", "/wd")
	if !ok || path.String() != "/wd/custom.d" {
		t.Errorf("path = %v, ok=%v, want /wd/custom.d", path, ok)
	}
}

func TestResolveSupplementaryPathNoFlagYieldsNoPath(t *testing.T) {
	v := parsedWith()
	k := SupplementaryKinds[0]
	_, ok := ResolveSupplementaryPath(v, k, ft2(swiftdriver.Object), "mod", "/wd")
	if ok {
		t.Errorf("expected no path when -emit-dependencies is unset")
	}
}

func TestResolveSupplementaryPathReusesOWhenTypeMatchesCompilerOutput(t *testing.T) {
	v := parsedWith("emit-dependencies")
	v.Vals["o"] = []string{"a.d"}
	k := SupplementaryKinds[0] // Dependencies
	path, ok := ResolveSupplementaryPath(v, k, ft2(swiftdriver.Dependencies), "mod", "/wd")
	if !ok || path.String() != "/wd/a.d" {
		t.Errorf("path = %v, ok=%v, want /wd/a.d (reused -o)", path, ok)
	}
}

func TestResolveSupplementaryPathDerivesFromOWithDifferentExtension(t *testing.T) {
	v := parsedWith("emit-dependencies")
	v.Vals["o"] = []string{"a.out"}
	k := SupplementaryKinds[0]
	path, ok := ResolveSupplementaryPath(v, k, ft2(swiftdriver.Object), "mod", "/wd")
	if !ok || path.String() != "/wd/a.d" {
		t.Errorf("path = %v, ok=%v, want /wd/a.d", path, ok)
	}
}

func TestResolveSupplementaryPathDerivesFromModuleName(t *testing.T) {
	v := parsedWith("emit-dependencies")
	k := SupplementaryKinds[0]
	path, ok := ResolveSupplementaryPath(v, k, ft2(swiftdriver.Object), "Widget", "/wd")
	if !ok || path.String() != "/wd/Widget.d" {
		t.Errorf("path = %v, ok=%v, want /wd/Widget.d", path, ok)
	}
}
