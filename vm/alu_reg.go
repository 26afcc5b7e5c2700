package vm

// execALUReg implements the ten register-register ALU opcodes (§4.5).
// SLL/SRL/SRA shift by the low 5 bits of rs2's value, not the rs2 field
// itself, which only matters for the immediate-shift variants.
func (vm *VM) execALUReg(op Op, rd, rs1, rs2 int) (StepResult, error) {
	a := vm.CPU.GetRegister(rs1)
	b := vm.CPU.GetRegister(rs2)

	var result uint32
	switch op {
	case ADD:
		result = a + b
	case SUB:
		result = a - b
	case SLL:
		result = a << (b & Mask5Bit)
	case SLT:
		if int32(a) < int32(b) {
			result = 1
		}
	case SLTU:
		if a < b {
			result = 1
		}
	case XOR:
		result = a ^ b
	case SRL:
		result = a >> (b & Mask5Bit)
	case SRA:
		result = arithmeticShiftRight(a, uint(b&Mask5Bit))
	case OR:
		result = a | b
	case AND:
		result = a & b
	}

	vm.CPU.SetRegister(rd, result)
	vm.CPU.IncrementPC()
	return ResultSuccess, nil
}
