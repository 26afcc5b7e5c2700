package api

import (
	"testing"

	"github.com/matrixsmaster/NanoRVI/config"
	"github.com/matrixsmaster/NanoRVI/vm"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	return NewSessionManager(config.DefaultConfig(), NewBroadcaster())
}

func TestSessionManagerCreateAssignsUniqueIDs(t *testing.T) {
	m := newTestManager(t)

	s1 := m.Create(0, 0)
	s2 := m.Create(0, 0)

	if s1.ID == s2.ID {
		t.Errorf("expected unique session IDs, got %q twice", s1.ID)
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}
}

func TestSessionManagerGetAndDelete(t *testing.T) {
	m := newTestManager(t)
	s := m.Create(64*1024, 1000)

	if got := m.Get(s.ID); got != s {
		t.Fatal("Get returned a different session")
	}

	m.Delete(s.ID)
	if m.Get(s.ID) != nil {
		t.Error("expected session to be gone after Delete")
	}
}

func TestSessionStepAndStatus(t *testing.T) {
	m := newTestManager(t)
	s := m.Create(4*1024, 1000)
	s.VM.Bootstrap(0, uint32(len(s.VM.Memory.RAM)), nil)

	// ADDI x1, x0, 5
	word := uint32(0x00500093)
	if err := s.VM.Memory.WriteWord(0, word); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}

	if _, err := s.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	status := s.Status()
	if status.PC != vm.InstructionSize {
		t.Errorf("PC = 0x%X, want 0x%X", status.PC, vm.InstructionSize)
	}

	regs := s.Registers()
	if regs.X[1] != 5 {
		t.Errorf("x1 = %d, want 5", regs.X[1])
	}
}

func TestSessionLoadProgramRejectsGarbage(t *testing.T) {
	m := newTestManager(t)
	s := m.Create(4*1024, 1000)

	if _, err := s.LoadProgram([]byte("not an elf file")); err == nil {
		t.Error("expected error loading garbage as ELF")
	}
}
