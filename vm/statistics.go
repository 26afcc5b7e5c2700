package vm

import (
	"fmt"
	"io"
	"sort"
)

// PerformanceStatistics tracks aggregate execution counters, ported from
// the teacher's vm/statistics.go PerformanceStatistics, narrowed to the
// per-opcode breakdown and branch-taken ratio that make sense for a
// fixed 40-opcode ISA (the teacher's per-function hot-path/call-graph
// tracking assumed a richer symbol table than this emulator's loader
// produces and is dropped rather than faked).
type PerformanceStatistics struct {
	TotalInstructions uint64
	OpCounts          [opCount]uint64

	BranchCount      uint64
	BranchTakenCount uint64

	MemoryReads  uint64
	MemoryWrites uint64
}

// NewPerformanceStatistics returns a zeroed statistics tracker.
func NewPerformanceStatistics() *PerformanceStatistics {
	return &PerformanceStatistics{}
}

// RecordOp tallies one executed opcode.
func (s *PerformanceStatistics) RecordOp(op Op) {
	s.TotalInstructions++
	if op >= 0 && int(op) < len(s.OpCounts) {
		s.OpCounts[op]++
	}
	switch op {
	case BEQ, BNE, BLT, BGE, BLTU, BGEU:
		s.BranchCount++
	}
}

// RecordBranchTaken marks the most recent branch as taken; callers
// invoke this only when execBranch's predicate held.
func (s *PerformanceStatistics) RecordBranchTaken() {
	s.BranchTakenCount++
}

// Report writes a human-readable summary to w, sorted by descending
// frequency, mirroring the teacher's tabular statistics dump.
func (s *PerformanceStatistics) Report(w io.Writer) error {
	type row struct {
		op    Op
		count uint64
	}
	rows := make([]row, 0, opCount)
	for op := Op(0); op < opCount; op++ {
		if s.OpCounts[op] > 0 {
			rows = append(rows, row{op, s.OpCounts[op]})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].count > rows[j].count })

	if _, err := fmt.Fprintf(w, "=== Execution Statistics ===\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "total instructions: %d\n", s.TotalInstructions); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "branches: %d (taken %d)\n", s.BranchCount, s.BranchTakenCount); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "memory reads/writes: %d/%d\n", s.MemoryReads, s.MemoryWrites); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "  %-8s %d\n", r.op, r.count); err != nil {
			return err
		}
	}
	return nil
}
