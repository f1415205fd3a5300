// elf.go - Minimal 32-bit LSB ELF loader

/*
elf.go - loads a 32-bit little-endian ELF executable's PT_LOAD segments
into the memory interconnect and returns its entry point. Grounded on
file_io.go/media_loader.go's file-reading and error-code idiom; the
parsing itself follows the ELF32 header layout directly (the original's
elf_loader.rs target, re-expressed without its Rust struct-packing).

Only what FunRisc needs is parsed: the file/program headers, nothing
from section headers or symbol tables.
*/

package main

import (
	"encoding/binary"
	"fmt"
)

const (
	elfMagic    = 0x464C457F // "\x7fELF" little-endian
	elfClass32  = 1
	elfDataLSB  = 1
	ptLoad      = 1
	ehdrSize    = 52
	phdrSize    = 32
)

// LoadELF parses a 32-bit LSB ELF image from data, writes every PT_LOAD
// segment into bus at its physical (p_paddr) address, and returns the
// entry point.
func LoadELF(bus *Bus, data []byte) (entry uint32, err error) {
	if len(data) < ehdrSize {
		return 0, fmt.Errorf("elf: file too short for header")
	}
	if binary.LittleEndian.Uint32(data[0:4]) != elfMagic {
		return 0, fmt.Errorf("elf: bad magic")
	}
	if data[4] != elfClass32 {
		return 0, fmt.Errorf("elf: not a 32-bit ELF")
	}
	if data[5] != elfDataLSB {
		return 0, fmt.Errorf("elf: not little-endian")
	}

	entry = binary.LittleEndian.Uint32(data[24:28])
	phoff := binary.LittleEndian.Uint32(data[28:32])
	phentsize := binary.LittleEndian.Uint16(data[42:44])
	phnum := binary.LittleEndian.Uint16(data[44:46])

	if phentsize != phdrSize {
		return 0, fmt.Errorf("elf: unexpected program header entry size %d", phentsize)
	}

	for i := uint16(0); i < phnum; i++ {
		off := phoff + uint32(i)*uint32(phdrSize)
		if uint64(off)+phdrSize > uint64(len(data)) {
			return 0, fmt.Errorf("elf: program header %d out of range", i)
		}
		ph := data[off : off+phdrSize]
		ptype := binary.LittleEndian.Uint32(ph[0:4])
		if ptype != ptLoad {
			continue
		}
		foff := binary.LittleEndian.Uint32(ph[4:8])
		paddr := binary.LittleEndian.Uint32(ph[12:16])
		filesz := binary.LittleEndian.Uint32(ph[16:20])
		memsz := binary.LittleEndian.Uint32(ph[20:24])

		if uint64(foff)+uint64(filesz) > uint64(len(data)) {
			return 0, fmt.Errorf("elf: segment %d file range out of bounds", i)
		}
		if res := bus.WriteBytes(paddr, data[foff:foff+filesz]); res != MemOk {
			return 0, fmt.Errorf("elf: segment %d: %s", i, res)
		}
		if memsz > filesz {
			zeros := make([]byte, memsz-filesz)
			if res := bus.WriteBytes(paddr+filesz, zeros); res != MemOk {
				return 0, fmt.Errorf("elf: segment %d bss: %s", i, res)
			}
		}
	}

	return entry, nil
}
