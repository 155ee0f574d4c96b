package batch

import (
	"testing"

	swiftdriver "github.com/swiftcdriver/core"
)

func swiftInput(name string) swiftdriver.TypedVirtualPath {
	return swiftdriver.TypedVirtualPath{File: swiftdriver.RelativePath(name), Type: swiftdriver.Swift}
}

func uptr(n uint) *uint { return &n }

func TestPartitionCountDefaultFormula(t *testing.T) {
	// P2: K == max(T, floor(N/S)) with S=25 default, T=4, N=100 => 4.
	got := PartitionCount(100, nil, 4, DefaultSizeLimit)
	if got != 4 {
		t.Errorf("PartitionCount = %d, want 4", got)
	}
}

func TestPartitionCountBySizeDominates(t *testing.T) {
	got := PartitionCount(300, nil, 2, DefaultSizeLimit)
	if got != 12 {
		t.Errorf("PartitionCount = %d, want 12", got)
	}
}

func TestPartitionCountExplicitOverride(t *testing.T) {
	got := PartitionCount(300, uptr(7), 2, DefaultSizeLimit)
	if got != 7 {
		t.Errorf("PartitionCount = %d, want 7 (explicit override)", got)
	}
}

func TestPartitionSingleMeansNoPartitioning(t *testing.T) {
	inputs := []swiftdriver.TypedVirtualPath{swiftInput("a.swift")}
	if p := Partition(inputs, 1); p != nil {
		t.Errorf("Partition(_, 1) = %v, want nil", p)
	}
}

func TestPartitionCompletenessAndBalance(t *testing.T) {
	// P1: union == inputs, disjoint, sizes differ by <= 1, |partitions| == K.
	var inputs []swiftdriver.TypedVirtualPath
	for i := 0; i < 100; i++ {
		inputs = append(inputs, swiftInput(string(rune('a'+i%26))+string(rune('0'+i/26))+".swift"))
	}
	p := Partition(inputs, 4)
	if p == nil {
		t.Fatal("Partition returned nil")
	}
	if len(p.Partitions) != 4 {
		t.Fatalf("len(Partitions) = %d, want 4", len(p.Partitions))
	}
	seen := make(map[swiftdriver.TypedVirtualPath]bool)
	minSize, maxSize := len(inputs), 0
	for i, part := range p.Partitions {
		if len(part) == 0 {
			t.Errorf("partition %d is empty", i)
		}
		if len(part) < minSize {
			minSize = len(part)
		}
		if len(part) > maxSize {
			maxSize = len(part)
		}
		for _, f := range part {
			if seen[f] {
				t.Errorf("file %v assigned to more than one partition", f)
			}
			seen[f] = true
			if p.Assignment[f] != i {
				t.Errorf("Assignment[%v] = %d, want %d", f, p.Assignment[f], i)
			}
		}
	}
	if maxSize-minSize > 1 {
		t.Errorf("partition sizes differ by more than 1: min=%d max=%d", minSize, maxSize)
	}
	if len(seen) != len(inputs) {
		t.Errorf("union of partitions has %d files, want %d", len(seen), len(inputs))
	}
}

func TestPartitionAssignmentIsStableFunctionOfInputAndK(t *testing.T) {
	var inputs []swiftdriver.TypedVirtualPath
	for i := 0; i < 10; i++ {
		inputs = append(inputs, swiftInput(string(rune('a'+i))+".swift"))
	}
	p1 := Partition(inputs, 3)
	p2 := Partition(inputs, 3)
	for f, idx := range p1.Assignment {
		if p2.Assignment[f] != idx {
			t.Errorf("Assignment[%v] differs across calls: %d vs %d", f, idx, p2.Assignment[f])
		}
	}
}

func TestSwiftInputsFiltersNonSwiftCompilationTypes(t *testing.T) {
	inputs := []swiftdriver.TypedVirtualPath{
		swiftInput("a.swift"),
		{File: swiftdriver.RelativePath("b.o"), Type: swiftdriver.Object},
		{File: swiftdriver.RelativePath("c.sil"), Type: swiftdriver.SIL},
	}
	got := SwiftInputs(inputs)
	if len(got) != 2 {
		t.Fatalf("SwiftInputs = %v, want 2 entries", got)
	}
}
