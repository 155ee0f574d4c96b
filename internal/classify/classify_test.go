package classify

import (
	"testing"

	swiftdriver "github.com/swiftcdriver/core"
	"github.com/swiftcdriver/core/internal/diag"
)

func TestInputsStandardInput(t *testing.T) {
	eng := diag.NewCollectingEngine()
	got := Inputs([]string{"-"}, eng)
	if len(got) != 1 || !got[0].File.IsStandardInput() || got[0].Type != swiftdriver.Swift {
		t.Fatalf("Inputs([-]) = %+v, want standard input classified as swift", got)
	}
}

func TestInputsExtensionMapping(t *testing.T) {
	eng := diag.NewCollectingEngine()
	got := Inputs([]string{"/abs/a.swift", "rel/b.o", "c.unknownext"}, eng)
	want := []swiftdriver.FileType{swiftdriver.Swift, swiftdriver.Object, swiftdriver.Object}
	if len(got) != len(want) {
		t.Fatalf("got %d inputs, want %d", len(got), len(want))
	}
	for i, ft := range want {
		if got[i].Type != ft {
			t.Errorf("input %d: type = %v, want %v", i, got[i].Type, ft)
		}
	}
	if eng.ErrorCount() != 0 {
		t.Errorf("ErrorCount() = %d, want 0", eng.ErrorCount())
	}
}

func TestInputsEmptyIsInvalid(t *testing.T) {
	eng := diag.NewCollectingEngine()
	got := Inputs([]string{""}, eng)
	if len(got) != 0 {
		t.Fatalf("Inputs([\"\"]) = %+v, want empty", got)
	}
	if eng.ErrorCount() != 1 {
		t.Errorf("ErrorCount() = %d, want 1", eng.ErrorCount())
	}
}
