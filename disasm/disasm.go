// Package disasm renders a decoded RV32I instruction word back into a
// human-readable mnemonic line, for use by the debugger and trace tools.
// Grounded on original_source/riscv.c's riscv_disasm: a mnemonic table
// plus a per-opcode "which operands are registers" table, followed by
// the immediate in hex.
package disasm

import (
	"fmt"
	"strings"

	"github.com/matrixsmaster/NanoRVI/vm"
)

// operandSpec records which of {rd, rs1, rs2} a given opcode prints, and
// whether the trailing immediate should be shown at all.
type operandSpec struct {
	rd, rs1, rs2 bool
	imm          bool
}

var specs = map[vm.Op]operandSpec{
	vm.LUI:   {rd: true, imm: true},
	vm.AUIPC: {rd: true, imm: true},
	vm.JAL:   {rd: true, imm: true},
	vm.JALR:  {rd: true, rs1: true, imm: true},

	vm.BEQ: {rs1: true, rs2: true, imm: true}, vm.BNE: {rs1: true, rs2: true, imm: true},
	vm.BLT: {rs1: true, rs2: true, imm: true}, vm.BGE: {rs1: true, rs2: true, imm: true},
	vm.BLTU: {rs1: true, rs2: true, imm: true}, vm.BGEU: {rs1: true, rs2: true, imm: true},

	vm.LB: {rd: true, rs1: true, imm: true}, vm.LH: {rd: true, rs1: true, imm: true},
	vm.LW: {rd: true, rs1: true, imm: true}, vm.LBU: {rd: true, rs1: true, imm: true},
	vm.LHU: {rd: true, rs1: true, imm: true},

	vm.SB: {rs1: true, rs2: true, imm: true}, vm.SH: {rs1: true, rs2: true, imm: true},
	vm.SW: {rs1: true, rs2: true, imm: true},

	vm.ADDI: {rd: true, rs1: true, imm: true}, vm.SLTI: {rd: true, rs1: true, imm: true},
	vm.SLTIU: {rd: true, rs1: true, imm: true}, vm.XORI: {rd: true, rs1: true, imm: true},
	vm.ORI: {rd: true, rs1: true, imm: true}, vm.ANDI: {rd: true, rs1: true, imm: true},

	vm.SLLI: {rd: true, rs1: true, imm: true}, vm.SRLI: {rd: true, rs1: true, imm: true},
	vm.SRAI: {rd: true, rs1: true, imm: true},

	vm.ADD: {rd: true, rs1: true, rs2: true}, vm.SUB: {rd: true, rs1: true, rs2: true},
	vm.SLL: {rd: true, rs1: true, rs2: true}, vm.SLT: {rd: true, rs1: true, rs2: true},
	vm.SLTU: {rd: true, rs1: true, rs2: true}, vm.XOR: {rd: true, rs1: true, rs2: true},
	vm.SRL: {rd: true, rs1: true, rs2: true}, vm.SRA: {rd: true, rs1: true, rs2: true},
	vm.OR: {rd: true, rs1: true, rs2: true}, vm.AND: {rd: true, rs1: true, rs2: true},

	vm.FENCE:  {},
	vm.ECALL:  {},
	vm.EBREAK: {},
}

// Format decodes word and renders it as "mnemonic reg, reg, 0xIMM",
// omitting whichever operands that opcode doesn't use. Shift opcodes
// (slli/srli/srai) print the shift amount in decimal rather than hex
// since that reads more naturally than a tiny immediate in hex.
func Format(word uint32) (string, error) {
	op, imm, ok := vm.Decode(word)
	if !ok {
		return "", fmt.Errorf("disasm: unable to decode instruction 0x%08X", word)
	}
	rd, rs1, rs2, _ := vm.DecodeFields(word)

	spec, known := specs[op]
	if !known {
		return "", fmt.Errorf("disasm: no operand spec for opcode %s", op)
	}

	var b strings.Builder
	b.WriteString(op.String())

	var fields []string
	if spec.rd {
		fields = append(fields, vm.RegisterName(rd))
	}
	if spec.rs1 {
		fields = append(fields, vm.RegisterName(rs1))
	}
	if spec.rs2 && !isShiftImm(op) {
		fields = append(fields, vm.RegisterName(rs2))
	}
	if spec.imm {
		if isShiftImm(op) {
			fields = append(fields, fmt.Sprintf("%d", rs2&vm.Mask5Bit))
		} else {
			fields = append(fields, fmt.Sprintf("0x%08X", imm))
		}
	}

	if len(fields) > 0 {
		b.WriteByte(' ')
		b.WriteString(strings.Join(fields, ", "))
	}

	return b.String(), nil
}

func isShiftImm(op vm.Op) bool {
	return op == vm.SLLI || op == vm.SRLI || op == vm.SRAI
}
