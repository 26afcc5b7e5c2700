// Package loader parses a 32-bit little-endian ELF image and places its
// loadable segments into a vm.VM's memory, per §6 of the core
// specification (the "Executable loader" external collaborator).
// Grounded on original_source/elf.c's readelf()/readelf_internal() for
// field layout and validation order, and on the teacher's
// loader.LoadProgramIntoVM for the single-entry-point Go idiom.
package loader

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/matrixsmaster/NanoRVI/vm"
)

// machineRISCV is the ELF e_machine code for RISC-V (§6).
const machineRISCV = 0xF3

const (
	classELF32      = 1
	dataLittleEndian = 1
	elfVersion       = 1
)

var elfMagic = [4]byte{0x7F, 'E', 'L', 'F'}

// header mirrors original_source/elf.h's elf_header_t, field for field.
type header struct {
	Magic        [4]byte
	Class        uint8
	Endianness   uint8
	Ver          uint8
	ABI          uint8
	ABIVersion   uint8
	Pad          [7]byte
	Type         uint16
	Machine      uint16
	VerAgain     uint32
	Entry        uint32
	ProgHdrOff   uint32
	SectHdrOff   uint32
	Flags        uint32
	HdrSize      uint16
	ProgHdrSize  uint16
	ProgHdrNum   uint16
	SectHdrSize  uint16
	SectHdrNum   uint16
	NameIdx      uint16
}

// progHeader mirrors original_source/elf.h's elf_proghdr_t.
type progHeader struct {
	Type   uint32
	Off    uint32
	VAddr  uint32
	PAddr  uint32
	FileSz uint32
	MemSz  uint32
	Flags  uint32
	Align  uint32
}

// LoadResult carries what the VM needs to begin execution after a
// successful load.
type LoadResult struct {
	EntryPoint   uint32
	ProgramBreak uint32
	Sections     int
}

// LoadFile opens path and loads it into machine's memory, per the same
// contract as LoadProgramIntoVM but reading straight from disk.
func LoadFile(machine *vm.VM, path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open file %q: %w", path, err)
	}
	defer f.Close()

	return LoadProgramIntoVM(machine, f)
}

// LoadProgramIntoVM reads a complete ELF image from r, validates its
// header, and copies each program header's file-backed bytes into
// machine's RAM at its virtual address (§6). It returns the entry point
// and the initial program break (max(vaddr+memsz) across sections),
// rejecting any section whose extent would exceed RAM.
func LoadProgramIntoVM(machine *vm.VM, r io.Reader) (*LoadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read ELF image: %w", err)
	}

	var hdr header
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("unable to parse ELF header: %w", err)
	}

	if hdr.Magic != elfMagic {
		return nil, fmt.Errorf("not an ELF file: bad magic %v", hdr.Magic)
	}
	if hdr.Ver != elfVersion {
		return nil, fmt.Errorf("unsupported ELF version %d", hdr.Ver)
	}
	if hdr.Class != classELF32 {
		return nil, fmt.Errorf("unsupported ELF class %d (want 32-bit)", hdr.Class)
	}
	if hdr.Endianness != dataLittleEndian {
		return nil, fmt.Errorf("unsupported ELF endianness %d (want little)", hdr.Endianness)
	}
	if hdr.Machine != machineRISCV {
		return nil, fmt.Errorf("unsupported ELF machine 0x%X (want 0x%X)", hdr.Machine, machineRISCV)
	}

	var progBreak uint32
	ramSize := machine.Memory.Size()

	for i := uint16(0); i < hdr.ProgHdrNum; i++ {
		offset := int64(hdr.ProgHdrOff) + int64(i)*int64(hdr.ProgHdrSize)
		if offset < 0 || offset+int64(hdr.ProgHdrSize) > int64(len(data)) {
			return nil, fmt.Errorf("program header %d out of range", i)
		}

		var ph progHeader
		if err := binary.Read(bytes.NewReader(data[offset:]), binary.LittleEndian, &ph); err != nil {
			return nil, fmt.Errorf("unable to parse program header %d: %w", i, err)
		}

		sectionEnd := ph.VAddr + ph.MemSz
		if sectionEnd >= ramSize {
			return nil, fmt.Errorf("ELF section %d is too big (0x%08X-0x%08X) to fit in RAM", i, ph.VAddr, sectionEnd)
		}
		if sectionEnd > progBreak {
			progBreak = sectionEnd
		}

		fileStart := int64(ph.Off)
		fileEnd := fileStart + int64(ph.FileSz)
		if fileStart < 0 || fileEnd > int64(len(data)) {
			return nil, fmt.Errorf("ELF section %d file range out of bounds", i)
		}

		if err := machine.Memory.LoadBytes(ph.VAddr, data[fileStart:fileEnd]); err != nil {
			return nil, fmt.Errorf("loading ELF section %d: %w", i, err)
		}
	}

	machine.EntryPoint = hdr.Entry
	machine.ProgramBreak = progBreak

	return &LoadResult{
		EntryPoint:   hdr.Entry,
		ProgramBreak: progBreak,
		Sections:     int(hdr.ProgHdrNum),
	}, nil
}
