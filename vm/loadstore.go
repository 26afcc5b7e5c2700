package vm

import "fmt"

// execLoad implements LB/LH/LW/LBU/LHU (§4.5). The effective address is
// reg[rs1] + sext(imm,11); a memory façade error (out-of-bounds access)
// is propagated as a step-level ERROR rather than retried (§7).
func (vm *VM) execLoad(op Op, rd, rs1 int, imm uint32) (StepResult, error) {
	addr := vm.CPU.GetRegister(rs1) + uint32(SignExtend(imm, 11))

	var value uint32
	var err error

	switch op {
	case LB:
		value, err = vm.Memory.ReadByteSigned(addr)
	case LH:
		value, err = vm.Memory.ReadHalfwordSigned(addr)
	case LW:
		value, err = vm.Memory.ReadWord(addr)
	case LBU:
		var b uint8
		b, err = vm.Memory.ReadByte(addr)
		value = uint32(b)
	case LHU:
		var h uint16
		h, err = vm.Memory.ReadHalfword(addr)
		value = uint32(h)
	}

	if err != nil {
		return ResultError, fmt.Errorf("load %s at 0x%08X: %w", op, addr, err)
	}

	if vm.MemoryTrace != nil {
		vm.MemoryTrace.RecordRead(vm.CPU.Cycles, vm.CPU.PC, addr, value)
	}
	if vm.Statistics != nil {
		vm.Statistics.MemoryReads++
	}

	vm.CPU.SetRegister(rd, value)
	vm.CPU.IncrementPC()
	return ResultSuccess, nil
}

// execStore implements SB/SH/SW (§4.5). The value stored is the low
// 1/2/4 bytes of reg[rs2]; memory façade writes truncate automatically.
func (vm *VM) execStore(op Op, rs1, rs2 int, imm uint32) (StepResult, error) {
	addr := vm.CPU.GetRegister(rs1) + uint32(SignExtend(imm, 11))
	value := vm.CPU.GetRegister(rs2)

	var err error
	switch op {
	case SB:
		err = vm.Memory.WriteByte(addr, value)
	case SH:
		err = vm.Memory.WriteHalfword(addr, value)
	case SW:
		err = vm.Memory.WriteWord(addr, value)
	}

	if err != nil {
		return ResultError, fmt.Errorf("store %s at 0x%08X: %w", op, addr, err)
	}

	if vm.MemoryTrace != nil {
		vm.MemoryTrace.RecordWrite(vm.CPU.Cycles, vm.CPU.PC, addr, value)
	}
	if vm.Statistics != nil {
		vm.Statistics.MemoryWrites++
	}

	vm.CPU.IncrementPC()
	return ResultSuccess, nil
}
