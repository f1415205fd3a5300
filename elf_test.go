package main

import (
	"encoding/binary"
	"testing"
)

// buildMinimalELF assembles a minimal 32-bit LSB ELF with one PT_LOAD
// segment, enough for LoadELF to parse.
func buildMinimalELF(entry uint32, loadAddr uint32, payload []byte) []byte {
	const ehdrLen = 52
	const phdrLen = 32
	buf := make([]byte, ehdrLen+phdrLen+len(payload))

	buf[0], buf[1], buf[2], buf[3] = 0x7F, 'E', 'L', 'F'
	buf[4] = 1 // ELFCLASS32
	buf[5] = 1 // ELFDATA2LSB
	binary.LittleEndian.PutUint32(buf[24:28], entry)
	binary.LittleEndian.PutUint32(buf[28:32], ehdrLen) // e_phoff
	binary.LittleEndian.PutUint16(buf[42:44], phdrLen)  // e_phentsize
	binary.LittleEndian.PutUint16(buf[44:46], 1)        // e_phnum

	ph := buf[ehdrLen : ehdrLen+phdrLen]
	binary.LittleEndian.PutUint32(ph[0:4], ptLoad)
	binary.LittleEndian.PutUint32(ph[4:8], ehdrLen+phdrLen) // p_offset
	binary.LittleEndian.PutUint32(ph[12:16], loadAddr)      // p_paddr
	binary.LittleEndian.PutUint32(ph[16:20], uint32(len(payload)))
	binary.LittleEndian.PutUint32(ph[20:24], uint32(len(payload)))

	copy(buf[ehdrLen+phdrLen:], payload)
	return buf
}

func TestLoadELF(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	img := buildMinimalELF(0x1000, 0x2000, payload)

	bus := NewBus()
	entry, err := LoadELF(bus, img)
	if err != nil {
		t.Fatalf("LoadELF: %v", err)
	}
	if entry != 0x1000 {
		t.Fatalf("entry = %#x, want 0x1000", entry)
	}
	v, _ := bus.Read(0, 0x2000, 4)
	if v != 0xEFBEADDE {
		t.Fatalf("loaded word = %#x, want 0xefbeadde", v)
	}
}

func TestLoadELFRejectsBadMagic(t *testing.T) {
	bus := NewBus()
	if _, err := LoadELF(bus, make([]byte, 64)); err == nil {
		t.Fatalf("expected an error for a non-ELF buffer")
	}
}
