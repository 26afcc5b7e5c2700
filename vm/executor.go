package vm

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// ExecutionState is the dispatcher's step state machine (§4.5, §7).
type ExecutionState int

const (
	StateRunning ExecutionState = iota
	StateHalted
	StateBreakpoint
	StateError
)

func (s ExecutionState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateHalted:
		return "halted"
	case StateBreakpoint:
		return "breakpoint"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// StepResult is the outcome of a single VM.Step call (§3's Execution result).
type StepResult int

const (
	ResultSuccess StepResult = iota
	ResultHalt
	ResultError
	ResultWrongOpcode
)

func (r StepResult) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultHalt:
		return "halt"
	case ResultError:
		return "error"
	case ResultWrongOpcode:
		return "wrong-opcode"
	default:
		return "unknown"
	}
}

// VM is the complete emulator: register file, memory, and execution state.
// Grounded on the teacher's vm.VM struct, stripped of ARM-specific fields
// (CPSR dumps, multi-segment permission checks, BX/long-multiply state)
// and carrying the diagnostic hooks SPEC_FULL.md's debug-option flags
// wire into.
type VM struct {
	CPU    *CPU
	Memory *Memory
	State  ExecutionState

	MaxCycles      uint64
	InstructionLog []uint32

	LastError error

	EntryPoint       uint32
	ProgramBreak     uint32
	StackTop         uint32
	ProgramArguments []string
	ExitCode         int32

	OutputWriter io.Writer

	ExecutionTrace *ExecutionTrace
	MemoryTrace    *MemoryTrace
	Statistics     *PerformanceStatistics
	SyscallLog     []SyscallLogEntry

	FilesystemRoot string

	// Interactive controls single-step waiting on stdin, wired by the
	// debug-option 'i' flag (SUPPLEMENTED FEATURES).
	Interactive bool
	stdinReader *bufio.Reader
}

// NewVM allocates a VM with the given RAM size (§3) and sane defaults.
func NewVM(ramSize uint32) *VM {
	return &VM{
		CPU:              NewCPU(),
		Memory:           NewMemory(ramSize),
		State:            StateHalted,
		MaxCycles:        DefaultMaxCycles,
		InstructionLog:   make([]uint32, 0, 256),
		ProgramArguments: make([]string, 0),
		OutputWriter:     os.Stdout,
		stdinReader:      bufio.NewReader(os.Stdin),
	}
}

// Reset clears CPU state and execution history but keeps RAM contents.
func (vm *VM) Reset() {
	vm.CPU.Reset()
	vm.State = StateHalted
	vm.InstructionLog = vm.InstructionLog[:0]
	vm.LastError = nil
	vm.ExitCode = 0
}

// Bootstrap wires the program counter and stack pointer before the first
// Step, mirroring the teacher's vm.VM.Bootstrap.
func (vm *VM) Bootstrap(entry, stackTop uint32, args []string) {
	vm.EntryPoint = entry
	vm.StackTop = stackTop
	vm.ProgramArguments = args
	vm.CPU.PC = entry
	vm.CPU.SetRegister(RegSP, stackTop)
	vm.State = StateHalted
}

// Fetch reads the instruction word at the current PC.
func (vm *VM) Fetch() (uint32, error) {
	word, err := vm.Memory.ReadWord(vm.CPU.PC)
	if err != nil {
		return 0, fmt.Errorf("fetch at PC=0x%08X: %w", vm.CPU.PC, err)
	}
	return word, nil
}

// Step executes exactly one instruction (§4.4, §4.5, §7).
func (vm *VM) Step() (StepResult, error) {
	if vm.State == StateError {
		return ResultError, fmt.Errorf("vm is in error state: %w", vm.LastError)
	}

	if vm.CPU.PC&AlignMaskWord != 0 {
		vm.State = StateError
		vm.LastError = fmt.Errorf("misaligned fetch at PC=0x%08X", vm.CPU.PC)
		return ResultError, vm.LastError
	}

	word, err := vm.Fetch()
	if err != nil {
		vm.State = StateError
		vm.LastError = err
		return ResultError, err
	}

	op, imm, ok := Decode(word)
	if !ok {
		if vm.ExecutionTrace != nil {
			vm.ExecutionTrace.RecordDecodeFailure(vm.CPU.Cycles, vm.CPU.PC, word)
		}
		vm.State = StateError
		vm.LastError = fmt.Errorf("decode failed at PC=0x%08X: word=0x%08X", vm.CPU.PC, word)
		return ResultWrongOpcode, vm.LastError
	}

	vm.InstructionLog = append(vm.InstructionLog, vm.CPU.PC)
	vm.CPU.SetRegister(RegZero, 0)

	rd, rs1, rs2, funct3 := DecodeFields(word)
	funct7 := (word >> 25) & Mask7Bit

	pcBefore := vm.CPU.PC
	result, err := vm.dispatch(op, imm, rd, rs1, rs2, uint32(funct3), funct7)
	if err != nil {
		if vm.State != StateHalted && vm.State != StateBreakpoint {
			vm.State = StateError
			vm.LastError = fmt.Errorf("execute %s at PC=0x%08X: %w", op, pcBefore, err)
		}
		return result, err
	}

	vm.CPU.IncrementCycles(1)

	if vm.ExecutionTrace != nil {
		vm.ExecutionTrace.RecordStep(vm.CPU.Cycles, pcBefore, word, op)
	}
	if vm.Statistics != nil {
		vm.Statistics.RecordOp(op)
	}

	return result, nil
}

// Run steps repeatedly until a terminal state or the cycle limit is hit.
func (vm *VM) Run() error {
	vm.State = StateRunning
	for vm.State == StateRunning {
		if vm.MaxCycles > 0 && vm.CPU.Cycles >= vm.MaxCycles {
			vm.State = StateError
			vm.LastError = fmt.Errorf("cycle limit exceeded (%d)", vm.MaxCycles)
			return vm.LastError
		}
		if vm.Interactive {
			fmt.Fprintf(os.Stderr, "-- PC=0x%08X, press Enter to step --\n", vm.CPU.PC)
			_, _ = vm.stdinReader.ReadString('\n')
		}
		result, err := vm.Step()
		switch result {
		case ResultHalt:
			vm.State = StateHalted
			return nil
		case ResultError, ResultWrongOpcode:
			return err
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// SetStdinReader lets a TUI/API frontend supply stdin for Run's interactive
// wait and the EBREAK wait, matching the teacher's per-instance reader habit
// (avoids a shared global reader across concurrently running VMs).
func (vm *VM) SetStdinReader(r io.Reader) {
	if br, ok := r.(*bufio.Reader); ok {
		vm.stdinReader = br
	} else {
		vm.stdinReader = bufio.NewReader(r)
	}
}
