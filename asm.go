// asm.go - RV32IMF inverse decoder (assembler)

/*
asm.go - byte-exact machine code assembly for FunRisc RV32IMF images.

Mirrors decode.go's field layout in reverse: each Emit* writes a 32-bit
little-endian word and returns an AsmRecord describing where it landed, so
callers building forward branches can patch the immediate once the target
address is known. This is test/tooling machinery (spec.md's decode(encode(i))
== i property and hand-built S1-S6 scenario images), not part of the hot
interpreter path.
*/

package main

import "encoding/binary"

// AsmRecord describes one assembled instruction so its immediate can be
// rewritten after the fact, e.g. once a forward branch's target is known.
type AsmRecord struct {
	Address     uint32
	NextAddress uint32
	Family      Family
	word        uint32
}

// Assembler accumulates a byte buffer for a FunRisc image starting at a
// fixed load address.
type Assembler struct {
	base uint32
	buf  []byte
}

func NewAssembler(base uint32) *Assembler {
	return &Assembler{base: base}
}

func (a *Assembler) here() uint32 {
	return a.base + uint32(len(a.buf))
}

func (a *Assembler) emit(word uint32, fam Family) AsmRecord {
	rec := AsmRecord{Address: a.here(), Family: fam, word: word}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], word)
	a.buf = append(a.buf, b[:]...)
	rec.NextAddress = a.here()
	return rec
}

// Bytes returns the assembled image so far.
func (a *Assembler) Bytes() []byte {
	return a.buf
}

// RewriteImmediate patches the record's immediate in place (in both the
// assembler's backing buffer and the returned word), re-encoding per the
// record's family. Supports I-type, S-type, B-type, U-type and J-type forms.
func (a *Assembler) RewriteImmediate(rec AsmRecord, imm int32) AsmRecord {
	word := rec.word
	switch rec.Family {
	case FamOpImm, FamLoad, FamJalr, FamLoadFp:
		word = (word &^ (0xFFF << 20)) | (uint32(imm)&0xFFF)<<20
	case FamStore, FamStoreFp:
		v := uint32(imm) & 0xFFF
		word = (word &^ (0x7F << 25)) &^ (0x1F << 7)
		word |= (v >> 5) << 25
		word |= (v & 0x1F) << 7
	case FamBranch:
		v := uint32(imm) & 0x1FFF
		word = word &^ ((1 << 31) | (0x3F << 25) | (0xF << 8) | (1 << 7))
		word |= ((v >> 12) & 1) << 31
		word |= ((v >> 5) & 0x3F) << 25
		word |= ((v >> 1) & 0xF) << 8
		word |= ((v >> 11) & 1) << 7
	case FamLui, FamAuipc:
		word = (word & 0xFFF) | (uint32(imm) & 0xFFFFF000)
	case FamJal:
		v := uint32(imm) & 0x1FFFFF
		word = word & 0xFFF
		word |= ((v >> 20) & 1) << 31
		word |= ((v >> 1) & 0x3FF) << 21
		word |= ((v >> 11) & 1) << 20
		word |= ((v >> 12) & 0xFF) << 12
	}
	rec.word = word
	off := rec.Address - a.base
	binary.LittleEndian.PutUint32(a.buf[off:off+4], word)
	return rec
}

func rType(op Opcode, funct3, rd, rs1, rs2, funct7 uint32) uint32 {
	return uint32(op) | rd<<7 | funct3<<12 | rs1<<15 | rs2<<20 | funct7<<25
}

func iType(op Opcode, funct3, rd, rs1 uint32, imm int32) uint32 {
	return uint32(op) | rd<<7 | funct3<<12 | rs1<<15 | (uint32(imm)&0xFFF)<<20
}

func sType(op Opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	v := uint32(imm) & 0xFFF
	return uint32(op) | (v&0x1F)<<7 | funct3<<12 | rs1<<15 | rs2<<20 | (v>>5)<<25
}

func bType(op Opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	v := uint32(imm) & 0x1FFF
	return uint32(op) | ((v>>11)&1)<<7 | ((v>>1)&0xF)<<8 | funct3<<12 |
		rs1<<15 | rs2<<20 | ((v>>5)&0x3F)<<25 | ((v>>12)&1)<<31
}

func uType(op Opcode, rd uint32, imm int32) uint32 {
	return uint32(op) | rd<<7 | (uint32(imm) & 0xFFFFF000)
}

func jType(op Opcode, rd uint32, imm int32) uint32 {
	v := uint32(imm) & 0x1FFFFF
	return uint32(op) | rd<<7 | ((v>>12)&0xFF)<<12 | ((v>>11)&1)<<20 |
		((v>>1)&0x3FF)<<21 | ((v>>20)&1)<<31
}

// EmitR assembles an R-type (OP/OP-FP/AMO family) instruction.
func (a *Assembler) EmitR(op Opcode, funct3, rd, rs1, rs2, funct7 uint32) AsmRecord {
	return a.emit(rType(op, funct3, rd, rs1, rs2, funct7), FamOp)
}

// EmitI assembles an I-type instruction (OP-IMM, LOAD, JALR, SYSTEM).
func (a *Assembler) EmitI(op Opcode, funct3, rd, rs1 uint32, imm int32) AsmRecord {
	fam := FamOpImm
	switch op {
	case OpLoad:
		fam = FamLoad
	case OpJalr:
		fam = FamJalr
	case OpSystem:
		fam = FamSystem
	case OpLoadFp:
		fam = FamLoadFp
	}
	return a.emit(iType(op, funct3, rd, rs1, imm), fam)
}

func (a *Assembler) EmitS(op Opcode, funct3, rs1, rs2 uint32, imm int32) AsmRecord {
	fam := FamStore
	if op == OpStoreFp {
		fam = FamStoreFp
	}
	return a.emit(sType(op, funct3, rs1, rs2, imm), fam)
}

func (a *Assembler) EmitB(funct3, rs1, rs2 uint32, imm int32) AsmRecord {
	return a.emit(bType(OpBranch, funct3, rs1, rs2, imm), FamBranch)
}

func (a *Assembler) EmitU(op Opcode, rd uint32, imm int32) AsmRecord {
	fam := FamLui
	if op == OpAuipc {
		fam = FamAuipc
	}
	return a.emit(uType(op, rd, imm), fam)
}

func (a *Assembler) EmitJ(rd uint32, imm int32) AsmRecord {
	return a.emit(jType(OpJal, rd, imm), FamJal)
}

// Convenience mnemonics used throughout the test suite; these are thin
// wrappers over the Emit* primitives, named after their RV32 mnemonics.
func (a *Assembler) Addi(rd, rs1 uint32, imm int32) AsmRecord {
	return a.EmitI(OpImm, 0b000, rd, rs1, imm)
}

func (a *Assembler) Add(rd, rs1, rs2 uint32) AsmRecord {
	return a.EmitR(OpOp, 0b000, rd, rs1, rs2, 0)
}

func (a *Assembler) Jal(rd uint32, imm int32) AsmRecord {
	return a.EmitJ(rd, imm)
}

func (a *Assembler) Ecall() AsmRecord {
	return a.EmitI(OpSystem, 0b000, 0, 0, 0)
}

func (a *Assembler) Ebreak() AsmRecord {
	return a.EmitI(OpSystem, 0b000, 0, 0, 1)
}

func (a *Assembler) LrW(rd, rs1 uint32) AsmRecord {
	return a.emit(rType(OpAmo, 0b010, rd, rs1, 0, amoLR<<2), FamAmo)
}

func (a *Assembler) ScW(rd, rs1, rs2 uint32) AsmRecord {
	return a.emit(rType(OpAmo, 0b010, rd, rs1, rs2, amoSC<<2), FamAmo)
}
