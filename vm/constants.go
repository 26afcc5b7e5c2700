package vm

// ============================================================================
// RV32I Architecture Constants
// ============================================================================
// These values are defined by the base integer ISA and should not be
// modified casually.

const (
	InstructionSize = 4 // bytes per instruction word
	RegisterCount   = 32

	SignBitPos  = 31
	SignBitMask = 0x80000000

	Mask4Bit  = 0xF
	Mask5Bit  = 0x1F
	Mask7Bit  = 0x7F
	Mask12Bit = 0xFFF
	Mask16Bit = 0xFFFF
	Mask20Bit = 0xFFFFF

	AlignMaskWord = 0x3 // address & mask == 0 means 4-byte aligned
)

// Instruction field bit positions, shared by the encoder table and the
// dispatcher's uniform operand extraction (§4.5).
const (
	RdShift   = 7
	Rs1Shift  = 15
	Rs2Shift  = 20
	Funct3Pos = 12
)

// ============================================================================
// Encoding table immediate-marker base
// ============================================================================
// Matches original_source/riscv.h's RV_ENCODE_SYM_IMM_START: any row byte
// at or above immBase identifies an immediate-destination bit, computed as
// (symbol - immBase). Bytes below this are used as literal '0'/'1', and
// the space character is the don't-care marker.
const (
	dontCare byte = ' '
	immBase  byte = '<' // byte value 60; immediate bit positions run 0..31
)

// ============================================================================
// Memory layout
// ============================================================================
// A single flat RAM region is exposed to the guest, unlike the teacher's
// four fixed ARM segments: RV32I programs are statically linked ELF images
// whose section addresses are chosen by the linker, not by this emulator,
// so segmentation here exists only to bound host-callback addresses (§3).

const (
	DefaultRAMSize   = 16 * 1024 * 1024 // 16MB
	DefaultStackSize = 2 * 1024 * 1024  // 2MB
	DefaultMaxCycles = 50_000_000
)

// ============================================================================
// Syscall numbers (§6) and ABI register roles
// ============================================================================

const (
	SysClose = 57
	SysWrite = 64
	SysFstat = 80
	SysExit  = 93
	SysBrk   = 214
)

const (
	SyscallOK    = 0
	SyscallError = 0xFFFFFFFF
)
