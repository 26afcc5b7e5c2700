package vm

// execJAL implements JAL (§4.5): unconditionally jumps, optionally
// linking the return address in rd.
func (vm *VM) execJAL(rd int, imm uint32) (StepResult, error) {
	if rd != 0 {
		vm.CPU.SetRegister(rd, vm.CPU.PC+4)
	}
	offset := SignExtend(imm, 20)
	vm.CPU.Branch(vm.CPU.PC + uint32(offset))
	return ResultSuccess, nil
}

// execJALR implements JALR (§4.5). The architectural low-bit clearing of
// the target is treated as optional per the open question recorded in
// SPEC_FULL.md: this implementation does not mask bit 0, matching
// original_source/riscv.c's RV_JALR case. A misaligned result is caught
// by the PC-alignment check at the top of the next Step.
func (vm *VM) execJALR(rd, rs1 int, imm uint32) (StepResult, error) {
	pcBefore := vm.CPU.PC
	offset := SignExtend(imm, 11)
	target := vm.CPU.GetRegister(rs1) + uint32(offset)
	vm.CPU.Branch(target)
	if rd != 0 {
		vm.CPU.SetRegister(rd, pcBefore+4)
	}
	return ResultSuccess, nil
}

// execBranch implements the six conditional branches (§4.5). The
// dispatcher always takes the jump path: the displacement is added when
// the predicate holds, otherwise PC simply advances by 4.
func (vm *VM) execBranch(op Op, rs1, rs2 int, imm uint32) (StepResult, error) {
	a := vm.CPU.GetRegister(rs1)
	b := vm.CPU.GetRegister(rs2)

	var taken bool
	switch op {
	case BEQ:
		taken = a == b
	case BNE:
		taken = a != b
	case BLT:
		taken = int32(a) < int32(b)
	case BGE:
		taken = int32(a) >= int32(b)
	case BLTU:
		taken = a < b
	case BGEU:
		taken = a >= b
	}

	if taken {
		if vm.Statistics != nil {
			vm.Statistics.RecordBranchTaken()
		}
		offset := SignExtend(imm, 12)
		vm.CPU.Branch(vm.CPU.PC + uint32(offset))
	} else {
		vm.CPU.Branch(vm.CPU.PC + InstructionSize)
	}
	return ResultSuccess, nil
}
