package vm

// EncodingTable holds one 32-symbol row per opcode (§4.1), in the same
// order as the Op enumeration. Each row position corresponds to one
// instruction bit, read MSB-first: row[0] is bit 31, row[31] is bit 0.
// A row byte is one of:
//   - dontCare (' '): the position is skipped during matching.
//   - '0' or '1': the corresponding instruction bit must match exactly.
//   - immBase+B (B in 0..31): the corresponding instruction bit is OR-ed,
//     shifted left by B, into the accumulated immediate.
//
// Grounded on original_source/riscv.c's decode() and the RV32I base
// encoding (R/I/S/B/U/J formats); original_source did not retain its
// literal riscv_tabs.h, so the table contents here are derived directly
// from the RV32I instruction set manual's bit layouts rather than copied.
var EncodingTable = buildEncodingTable()

// rowIndex converts an instruction bit position (0=LSB..31=MSB) into its
// row slot (0=MSB..31=LSB).
func rowIndex(bit int) int { return 31 - bit }

func blankRow() [32]byte {
	var r [32]byte
	for i := range r {
		r[i] = dontCare
	}
	return r
}

// setLiteralRange stamps bits[hi:lo] of the instruction as fixed literal
// bits, reading the MSB-first text in `bits` (len(bits) == hi-lo+1).
func setLiteralRange(r *[32]byte, hi, lo int, bits string) {
	if len(bits) != hi-lo+1 {
		panic("vm: literal range length mismatch")
	}
	for i, ch := range bits {
		bitPos := hi - i
		r[rowIndex(bitPos)] = byte(ch)
	}
}

// setImmBit marks instruction bit srcBit as contributing to immediate
// destination bit dstBit.
func setImmBit(r *[32]byte, srcBit, dstBit int) {
	r[rowIndex(srcBit)] = immBase + byte(dstBit)
}

// setImmRange marks the contiguous descending instruction bit range
// [srcHi:srcLo] as contributing to the contiguous descending immediate
// bit range starting at dstHi (i.e. srcHi->dstHi, srcHi-1->dstHi-1, ...).
func setImmRange(r *[32]byte, srcHi, srcLo, dstHi int) {
	n := srcHi - srcLo
	for i := 0; i <= n; i++ {
		setImmBit(r, srcHi-i, dstHi-i)
	}
}

func buildEncodingTable() [opCount][32]byte {
	var t [opCount][32]byte

	// U-type: LUI, AUIPC. imm[31:12] is placed directly into bits 31:12 of
	// the result (no shift needed by the caller) -- §4.5's LUI note.
	uType := []struct {
		op     Op
		opcode string
	}{
		{LUI, "0110111"},
		{AUIPC, "0010111"},
	}
	for _, u := range uType {
		r := blankRow()
		setLiteralRange(&r, 6, 0, u.opcode)
		setImmRange(&r, 31, 12, 31)
		t[u.op] = r
	}

	// J-type: JAL. imm[20|10:1|11|19:12], destination is the unshifted
	// 21-bit signed offset (bit 0 always 0, never encoded).
	{
		r := blankRow()
		setLiteralRange(&r, 6, 0, "1101111")
		setImmBit(&r, 31, 20)
		setImmRange(&r, 30, 21, 10)
		setImmBit(&r, 20, 11)
		setImmRange(&r, 19, 12, 19)
		t[JAL] = r
	}

	// I-type: JALR.
	{
		r := blankRow()
		setLiteralRange(&r, 6, 0, "1100111")
		setLiteralRange(&r, 14, 12, "000")
		setImmRange(&r, 31, 20, 11)
		t[JALR] = r
	}

	// B-type: branches. imm[12|10:5|4:1|11], bit 0 always 0.
	branches := []struct {
		op Op
		f3 string
	}{
		{BEQ, "000"}, {BNE, "001"}, {BLT, "100"},
		{BGE, "101"}, {BLTU, "110"}, {BGEU, "111"},
	}
	for _, b := range branches {
		r := blankRow()
		setLiteralRange(&r, 6, 0, "1100011")
		setLiteralRange(&r, 14, 12, b.f3)
		setImmBit(&r, 31, 12)
		setImmRange(&r, 30, 25, 10)
		setImmRange(&r, 11, 8, 4)
		setImmBit(&r, 7, 11)
		t[b.op] = r
	}

	// I-type: loads.
	loads := []struct {
		op Op
		f3 string
	}{
		{LB, "000"}, {LH, "001"}, {LW, "010"}, {LBU, "100"}, {LHU, "101"},
	}
	for _, l := range loads {
		r := blankRow()
		setLiteralRange(&r, 6, 0, "0000011")
		setLiteralRange(&r, 14, 12, l.f3)
		setImmRange(&r, 31, 20, 11)
		t[l.op] = r
	}

	// S-type: stores. imm[11:5|4:0].
	stores := []struct {
		op Op
		f3 string
	}{
		{SB, "000"}, {SH, "001"}, {SW, "010"},
	}
	for _, s := range stores {
		r := blankRow()
		setLiteralRange(&r, 6, 0, "0100011")
		setLiteralRange(&r, 14, 12, s.f3)
		setImmRange(&r, 31, 25, 11)
		setImmRange(&r, 11, 7, 4)
		t[s.op] = r
	}

	// I-type, OP-IMM with a standard 12-bit immediate.
	immALU := []struct {
		op Op
		f3 string
	}{
		{ADDI, "000"}, {SLTI, "010"}, {SLTIU, "011"},
		{XORI, "100"}, {ORI, "110"}, {ANDI, "111"},
	}
	for _, a := range immALU {
		r := blankRow()
		setLiteralRange(&r, 6, 0, "0010011")
		setLiteralRange(&r, 14, 12, a.f3)
		setImmRange(&r, 31, 20, 11)
		t[a.op] = r
	}

	// OP-IMM shift variants: the rs2 field holds the shift amount, read
	// directly by the dispatcher (§4.5) rather than through the immediate
	// accumulator, so no immediate bits are marked here -- only the
	// distinguishing funct7 is literal.
	shifts := []struct {
		op     Op
		f3, f7 string
	}{
		{SLLI, "001", "0000000"},
		{SRLI, "101", "0000000"},
		{SRAI, "101", "0100000"},
	}
	for _, s := range shifts {
		r := blankRow()
		setLiteralRange(&r, 6, 0, "0010011")
		setLiteralRange(&r, 14, 12, s.f3)
		setLiteralRange(&r, 31, 25, s.f7)
		t[s.op] = r
	}

	// R-type: register-register ALU ops.
	regALU := []struct {
		op     Op
		f3, f7 string
	}{
		{ADD, "000", "0000000"}, {SUB, "000", "0100000"},
		{SLL, "001", "0000000"}, {SLT, "010", "0000000"},
		{SLTU, "011", "0000000"}, {XOR, "100", "0000000"},
		{SRL, "101", "0000000"}, {SRA, "101", "0100000"},
		{OR, "110", "0000000"}, {AND, "111", "0000000"},
	}
	for _, g := range regALU {
		r := blankRow()
		setLiteralRange(&r, 6, 0, "0110011")
		setLiteralRange(&r, 14, 12, g.f3)
		setLiteralRange(&r, 31, 25, g.f7)
		t[g.op] = r
	}

	// FENCE: a no-op regardless of predecessor/successor/fm bits.
	{
		r := blankRow()
		setLiteralRange(&r, 6, 0, "0001111")
		setLiteralRange(&r, 14, 12, "000")
		t[FENCE] = r
	}

	// SYSTEM opcode: ECALL (imm=0) and EBREAK (imm=1) share everything but
	// the 12-bit immediate, which is matched as a full literal to tell
	// them apart.
	{
		r := blankRow()
		setLiteralRange(&r, 6, 0, "1110011")
		setLiteralRange(&r, 14, 12, "000")
		setLiteralRange(&r, 31, 20, "000000000000")
		t[ECALL] = r
	}
	{
		r := blankRow()
		setLiteralRange(&r, 6, 0, "1110011")
		setLiteralRange(&r, 14, 12, "000")
		setLiteralRange(&r, 31, 20, "000000000001")
		t[EBREAK] = r
	}

	return t
}
