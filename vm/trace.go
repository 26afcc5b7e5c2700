package vm

import (
	"fmt"
	"io"
)

// TraceEntry is one instruction-trace record, ported from the teacher's
// vm/trace.go TraceEntry but narrowed to what the 't' debug-option flag
// (SUPPLEMENTED FEATURES) actually needs: sequence, address, opcode and
// mnemonic. Register-change tracking is handled separately by a register
// dump ('r'), matching the distinct debug_switches in original_source.
type TraceEntry struct {
	Cycle   uint64
	Address uint32
	Word    uint32
	Op      Op
}

// ExecutionTrace accumulates TraceEntry records and can flush them to a
// writer, mirroring the teacher's ExecutionTrace type.
type ExecutionTrace struct {
	Writer     io.Writer
	MaxEntries int

	entries []TraceEntry
}

// NewExecutionTrace returns a trace writing to w, capped at maxEntries
// (0 means unlimited).
func NewExecutionTrace(w io.Writer, maxEntries int) *ExecutionTrace {
	return &ExecutionTrace{
		Writer:     w,
		MaxEntries: maxEntries,
		entries:    make([]TraceEntry, 0, 1024),
	}
}

// RecordStep appends a successfully decoded instruction to the trace.
func (t *ExecutionTrace) RecordStep(cycle uint64, addr, word uint32, op Op) {
	if t.MaxEntries > 0 && len(t.entries) >= t.MaxEntries {
		return
	}
	t.entries = append(t.entries, TraceEntry{Cycle: cycle, Address: addr, Word: word, Op: op})
}

// RecordDecodeFailure appends a WRONGOPCODE event to the trace.
func (t *ExecutionTrace) RecordDecodeFailure(cycle uint64, addr, word uint32) {
	t.RecordStep(cycle, addr, word, Invalid)
}

// Entries returns the accumulated trace records.
func (t *ExecutionTrace) Entries() []TraceEntry {
	return t.entries
}

// Flush writes every accumulated entry to Writer, one line each.
func (t *ExecutionTrace) Flush() error {
	if t.Writer == nil {
		return nil
	}
	for _, e := range t.entries {
		if _, err := fmt.Fprintf(t.Writer, "[%08d] 0x%08X: %-8s (word=0x%08X)\n",
			e.Cycle, e.Address, e.Op, e.Word); err != nil {
			return err
		}
	}
	return nil
}

// MemoryAccessEntry is one memory-trace record for the 'm' debug option.
type MemoryAccessEntry struct {
	Cycle   uint64
	PC      uint32
	Address uint32
	Value   uint32
	Write   bool
}

// MemoryTrace accumulates MemoryAccessEntry records, ported from the
// teacher's MemoryTrace type and narrowed to load/store addresses and
// values (the teacher additionally distinguishes heap/stack/code
// regions, which has no equivalent in the flat RV32I memory model).
type MemoryTrace struct {
	Writer     io.Writer
	MaxEntries int

	entries []MemoryAccessEntry
}

// NewMemoryTrace returns a memory trace writing to w.
func NewMemoryTrace(w io.Writer, maxEntries int) *MemoryTrace {
	return &MemoryTrace{Writer: w, MaxEntries: maxEntries, entries: make([]MemoryAccessEntry, 0, 256)}
}

func (t *MemoryTrace) record(cycle uint64, pc, addr, value uint32, write bool) {
	if t.MaxEntries > 0 && len(t.entries) >= t.MaxEntries {
		return
	}
	t.entries = append(t.entries, MemoryAccessEntry{Cycle: cycle, PC: pc, Address: addr, Value: value, Write: write})
}

// RecordRead appends a load to the trace.
func (t *MemoryTrace) RecordRead(cycle uint64, pc, addr, value uint32) {
	t.record(cycle, pc, addr, value, false)
}

// RecordWrite appends a store to the trace.
func (t *MemoryTrace) RecordWrite(cycle uint64, pc, addr, value uint32) {
	t.record(cycle, pc, addr, value, true)
}

// Entries returns the accumulated memory-trace records.
func (t *MemoryTrace) Entries() []MemoryAccessEntry {
	return t.entries
}

// Flush writes every accumulated entry to Writer, one line each.
func (t *MemoryTrace) Flush() error {
	if t.Writer == nil {
		return nil
	}
	for _, e := range t.entries {
		kind := "READ "
		if e.Write {
			kind = "WRITE"
		}
		if _, err := fmt.Fprintf(t.Writer, "[%08d] pc=0x%08X %s 0x%08X = 0x%08X\n",
			e.Cycle, e.PC, kind, e.Address, e.Value); err != nil {
			return err
		}
	}
	return nil
}
