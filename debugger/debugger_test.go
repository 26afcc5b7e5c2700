package debugger

import (
	"testing"

	"github.com/matrixsmaster/NanoRVI/vm"
)

func newTestDebugger(t *testing.T) *Debugger {
	t.Helper()
	machine := vm.NewVM(64 * 1024)
	machine.Bootstrap(0, uint32(len(machine.Memory.RAM)), nil)
	return NewDebugger(machine)
}

func TestExecuteCommandBreakAndRun(t *testing.T) {
	dbg := newTestDebugger(t)

	if err := dbg.ExecuteCommand("break 0x10"); err != nil {
		t.Fatalf("break: %v", err)
	}
	if dbg.Breakpoints.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", dbg.Breakpoints.Count())
	}

	if err := dbg.ExecuteCommand("run"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !dbg.Running {
		t.Error("expected Running=true after run")
	}
}

func TestExecuteCommandRepeatsLastOnEmptyInput(t *testing.T) {
	dbg := newTestDebugger(t)

	if err := dbg.ExecuteCommand("break 0x20"); err != nil {
		t.Fatalf("break: %v", err)
	}
	if err := dbg.ExecuteCommand(""); err != nil {
		t.Fatalf("repeat: %v", err)
	}
	// "break 0x20" ran twice but AddBreakpoint at the same address replaces,
	// so there is still exactly one breakpoint.
	if dbg.Breakpoints.Count() != 1 {
		t.Errorf("Count() = %d, want 1", dbg.Breakpoints.Count())
	}
}

func TestShouldBreakOnBreakpoint(t *testing.T) {
	dbg := newTestDebugger(t)
	dbg.Breakpoints.AddBreakpoint(0x40, false)
	dbg.VM.CPU.PC = 0x40

	should, reason := dbg.ShouldBreak()
	if !should {
		t.Fatal("expected ShouldBreak to return true")
	}
	if reason == "" {
		t.Error("expected a non-empty reason")
	}
}

func TestShouldBreakIgnoresDisabledBreakpoint(t *testing.T) {
	dbg := newTestDebugger(t)
	bp := dbg.Breakpoints.AddBreakpoint(0x50, false)
	_ = dbg.Breakpoints.DisableBreakpoint(bp.ID)
	dbg.VM.CPU.PC = 0x50

	if should, _ := dbg.ShouldBreak(); should {
		t.Error("disabled breakpoint should not trigger a stop")
	}
}

func TestShouldBreakRemovesTemporaryBreakpoint(t *testing.T) {
	dbg := newTestDebugger(t)
	dbg.Breakpoints.AddBreakpoint(0x60, true)
	dbg.VM.CPU.PC = 0x60

	if should, _ := dbg.ShouldBreak(); !should {
		t.Fatal("expected temporary breakpoint to trigger once")
	}
	if dbg.Breakpoints.Count() != 0 {
		t.Error("temporary breakpoint should be removed after hit")
	}
}

func TestResolveAddressNumericAndHex(t *testing.T) {
	dbg := newTestDebugger(t)

	addr, err := dbg.ResolveAddress("0x1000")
	if err != nil || addr != 0x1000 {
		t.Errorf("ResolveAddress(0x1000) = (0x%X, %v)", addr, err)
	}

	addr, err = dbg.ResolveAddress("42")
	if err != nil || addr != 42 {
		t.Errorf("ResolveAddress(42) = (%d, %v)", addr, err)
	}
}

func TestResolveAddressSymbol(t *testing.T) {
	dbg := newTestDebugger(t)
	dbg.Symbols["_start"] = 0x8000

	addr, err := dbg.ResolveAddress("_start")
	if err != nil || addr != 0x8000 {
		t.Errorf("ResolveAddress(_start) = (0x%X, %v)", addr, err)
	}
}

func TestCmdPrintAndExamine(t *testing.T) {
	dbg := newTestDebugger(t)
	dbg.VM.CPU.SetRegister(10, 123)

	if err := dbg.ExecuteCommand("print a0"); err != nil {
		t.Fatalf("print: %v", err)
	}
	if out := dbg.GetOutput(); out == "" {
		t.Error("expected print output")
	}

	if err := dbg.VM.Memory.WriteWord(0x100, 0xDEADBEEF); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	if err := dbg.ExecuteCommand("x 0x100"); err != nil {
		t.Fatalf("x: %v", err)
	}
	out := dbg.GetOutput()
	if out == "" {
		t.Error("expected examine output")
	}
}

func TestUnknownCommandErrors(t *testing.T) {
	dbg := newTestDebugger(t)
	if err := dbg.ExecuteCommand("frobnicate"); err == nil {
		t.Error("expected error for unknown command")
	}
}
