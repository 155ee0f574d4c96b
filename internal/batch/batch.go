// Package batch implements the Batch Partitioner (C6, spec §4.6): given the
// Swift-compilation inputs and the requested parallelism, decide how many
// partitions to compile per sub-process and assign inputs to them.
//
// Grounded on internal/batch/batch.go's Ctx.Build: both pick a partition
// count from a closed-form cost model before doing any real work, and both
// document the rationale for the cap as a normative comment rather than a
// magic number.
package batch

import (
	swiftdriver "github.com/swiftcdriver/core"
)

// DefaultSizeLimit is the per-partition Swift-input cap (spec §4.6): "the
// size-25 cap bounds per-process memory because batch-mode primary files
// cost ~10 MB each vs ~512 KB per non-primary, and the outer build system
// may run up to NCPU drivers concurrently. Without the cap the expected
// memory pressure scales as NCPU·(nonprimary·N + primary·N/NCPU); capping
// N/NCPU at 25 keeps the dominant term bounded."
const DefaultSizeLimit = 25

// Partitions is the result of C6: {partitions: [[TypedVirtualPath]],
// assignment: map<TypedVirtualPath, uint>} from spec §3, plus a Count field
// the planner consults to decide whether partitioning is active at all.
type Partitions struct {
	Count      int
	Partitions [][]swiftdriver.TypedVirtualPath
	Assignment map[swiftdriver.TypedVirtualPath]int
}

// SwiftInputs filters inputs down to those the batch partitioner reasons
// about: files whose FileType.IsPartOfSwiftCompilation holds.
func SwiftInputs(inputs []swiftdriver.TypedVirtualPath) []swiftdriver.TypedVirtualPath {
	out := make([]swiftdriver.TypedVirtualPath, 0, len(inputs))
	for _, in := range inputs {
		if in.Type.IsPartOfSwiftCompilation() {
			out = append(out, in)
		}
	}
	return out
}

// PartitionCount implements spec §4.6's "number of partitions" rule (P2).
// requestedCount is the user's explicit -driver-batch-count (nil if
// unset); parallelism is numThreads or 1 if unset; sizeLimit is the user's
// -batch-size-limit or DefaultSizeLimit.
func PartitionCount(swiftInputCount int, requestedCount *uint, parallelism int, sizeLimit int) int {
	if requestedCount != nil {
		return int(*requestedCount)
	}
	if parallelism < 1 {
		parallelism = 1
	}
	if sizeLimit < 1 {
		sizeLimit = DefaultSizeLimit
	}
	bySize := swiftInputCount / sizeLimit
	if parallelism > bySize {
		return parallelism
	}
	return bySize
}

// Partition implements spec §4.6's assignment rule (P1): K==1 means "no
// partitioning active" (the caller should fall back to one compile job per
// input, per §4.7 step 2); otherwise inputs are distributed in input order,
// the first `N mod K` partitions getting one extra file.
func Partition(inputs []swiftdriver.TypedVirtualPath, k int) *Partitions {
	if k <= 1 {
		return nil
	}
	n := len(inputs)
	targetSize := n / k
	remainder := n % k
	partitions := make([][]swiftdriver.TypedVirtualPath, k)
	assignment := make(map[swiftdriver.TypedVirtualPath]int, n)

	pos := 0
	for i := 0; i < k; i++ {
		size := targetSize
		if i < remainder {
			size++
		}
		partitions[i] = append([]swiftdriver.TypedVirtualPath(nil), inputs[pos:pos+size]...)
		for _, f := range partitions[i] {
			assignment[f] = i
		}
		pos += size
	}

	return &Partitions{Count: k, Partitions: partitions, Assignment: assignment}
}

// FromInputsAndConfig is the convenience entry point internal/plan calls:
// compute K from the config-resolved parallelism/overrides, then partition.
func FromInputsAndConfig(inputs []swiftdriver.TypedVirtualPath, batchInfo swiftdriver.BatchModeInfo, numThreads int) *Partitions {
	swift := SwiftInputs(inputs)
	sizeLimit := DefaultSizeLimit
	if batchInfo.SizeLimit != nil {
		sizeLimit = int(*batchInfo.SizeLimit)
	}
	k := PartitionCount(len(swift), batchInfo.Count, numThreads, sizeLimit)
	return Partition(swift, k)
}
