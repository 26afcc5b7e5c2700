package vm

import (
	"fmt"
	"os"
)

// SyscallLogEntry records one ECALL for the syscall-trace debug option
// ('s' in SUPPLEMENTED FEATURES), grounded in the teacher's trace-record
// style (vm/trace.go) applied to the syscall boundary instead of the ARM
// SWI boundary.
type SyscallLogEntry struct {
	Cycle  uint64
	PC     uint32
	Number uint32
	A0, A1, A2 uint32
	Result uint32
}

// execECALL services the five-syscall ABI named in §6, grounded directly
// on original_source/interface.c's ecall(): close and fstat are stubs
// that report success, write copies a0=fd-agnostic bytes from guest
// memory to the host's OutputWriter, brk moves a host-tracked program
// break, and exit halts the VM. Any other syscall number is a WARN, not
// an error (§7): it is logged and the VM continues with a0 unchanged.
func (vm *VM) execECALL() (StepResult, error) {
	number := vm.CPU.GetRegister(RegA7)
	a0 := vm.CPU.GetRegister(RegA0)
	a1 := vm.CPU.GetRegister(RegA1)
	a2 := vm.CPU.GetRegister(RegA2)

	var result uint32

	switch number {
	case SysClose:
		result = 0

	case SysWrite:
		n, err := vm.writeGuestBuffer(a1, a2)
		if err != nil {
			return ResultError, fmt.Errorf("ecall write: %w", err)
		}
		result = n

	case SysFstat:
		result = 0

	case SysExit:
		vm.ExitCode = int32(a0)
		vm.State = StateHalted
		vm.CPU.IncrementPC()
		vm.logSyscall(number, a0, a1, a2, a0)
		return ResultHalt, nil

	case SysBrk:
		if a0 != 0 && a0 < vm.Memory.Size() {
			vm.ProgramBreak = a0
		}
		result = vm.ProgramBreak

	default:
		fmt.Fprintf(os.Stderr, "WARNING: unimplemented syscall %d at PC=0x%08X\n", number, vm.CPU.PC)
		result = a0
	}

	vm.CPU.SetRegister(RegA0, result)
	vm.logSyscall(number, a0, a1, a2, result)
	vm.CPU.IncrementPC()
	return ResultSuccess, nil
}

// writeGuestBuffer copies length bytes from guest memory starting at
// addr to vm.OutputWriter, one byte at a time via the memory façade
// (mirrors original_source's putchar(read8(...)) loop).
func (vm *VM) writeGuestBuffer(addr, length uint32) (uint32, error) {
	for i := uint32(0); i < length; i++ {
		b, err := vm.Memory.ReadByte(addr + i)
		if err != nil {
			return 0, fmt.Errorf("read guest buffer at 0x%08X: %w", addr+i, err)
		}
		if _, err := fmt.Fprintf(vm.OutputWriter, "%c", b); err != nil {
			return 0, fmt.Errorf("write to output sink: %w", err)
		}
	}
	return length, nil
}

func (vm *VM) logSyscall(number, a0, a1, a2, result uint32) {
	if vm.SyscallLog == nil {
		return
	}
	vm.SyscallLog = append(vm.SyscallLog, SyscallLogEntry{
		Cycle: vm.CPU.Cycles, PC: vm.CPU.PC, Number: number,
		A0: a0, A1: a1, A2: a2, Result: result,
	})
}

// execEBREAK implements the default host break hook (§4.5): it prints a
// notice and waits for Enter on stdin, exactly as
// original_source/interface.c's ebreak() does. There is no separate
// debugger hook: the CLI/TUI debuggers step through this same code, so an
// EBREAK under them also blocks on the VM's stdin reader (see
// SetStdinReader).
func (vm *VM) execEBREAK() (StepResult, error) {
	fmt.Fprintf(os.Stderr, "Breakpoint encountered at PC=0x%08X\nPress Enter to continue\n", vm.CPU.PC)
	vm.State = StateBreakpoint
	vm.CPU.IncrementPC()
	_, _ = vm.stdinReader.ReadString('\n')
	vm.State = StateRunning
	return ResultSuccess, nil
}
