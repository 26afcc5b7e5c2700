package vm

// Decode scans EncodingTable in opcode-enumeration order and returns the
// first opcode whose literal bits all match word (§4.1). The accumulated
// immediate is built alongside the match and is only meaningful when ok
// is true; callers that don't need an immediate (R-type ops, FENCE) just
// ignore it.
func Decode(word uint32) (op Op, imm uint32, ok bool) {
	for candidate := Op(0); candidate < opCount; candidate++ {
		row := &EncodingTable[candidate]
		var acc uint32
		matched := true

		for i := 0; i < 32; i++ {
			sym := row[i]
			if sym == dontCare {
				continue
			}

			bitPos := uint(31 - i)
			bit := (word >> bitPos) & 1

			switch sym {
			case '0', '1':
				if bit != uint32(sym-'0') {
					matched = false
				}
			default:
				dst := uint(sym - immBase)
				acc |= bit << dst
			}

			if !matched {
				break
			}
		}

		if matched {
			return candidate, acc, true
		}
	}

	return Invalid, 0, false
}

// DecodeFields extracts the uniform rd/rs1/rs2/funct3 operand positions
// (§4.5) shared by every instruction format; callers mask out whichever
// of these a given opcode doesn't use.
func DecodeFields(word uint32) (rd, rs1, rs2, funct3 int) {
	rd = int((word >> RdShift) & Mask5Bit)
	rs1 = int((word >> Rs1Shift) & Mask5Bit)
	rs2 = int((word >> Rs2Shift) & Mask5Bit)
	funct3 = int((word >> Funct3Pos) & Mask4Bit & 0x7)
	return
}
