// decode.go - RV32IMF opcode decoder

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

/*
decode.go - pure bit-field extraction for RV32IMF instruction words.

Recognises base RV32I, the M (mul/div) and F (single-precision) extensions,
Zicsr, WFI, MRET, AMO word operations and FENCE. Decoding never touches
machine state; a word maps to exactly one Inst value, and unknown
encodings map to FamUnknown so the interpreter can raise IllegalInstruction
at execute time rather than here.
*/

package main

// Opcode is the 7-bit opcode field (bits [6:0]) of a RISC-V instruction word.
type Opcode uint32

const (
	OpLoad     Opcode = 0b0000011
	OpLoadFp   Opcode = 0b0000111
	OpMiscMem  Opcode = 0b0001111
	OpImm      Opcode = 0b0010011
	OpAuipc    Opcode = 0b0010111
	OpStore    Opcode = 0b0100011
	OpStoreFp  Opcode = 0b0100111
	OpAmo      Opcode = 0b0101111
	OpOp       Opcode = 0b0110011
	OpLui      Opcode = 0b0110111
	OpMadd     Opcode = 0b1000011
	OpMsub     Opcode = 0b1000111
	OpNmsub    Opcode = 0b1001011
	OpNmadd    Opcode = 0b1001111
	OpOpFp     Opcode = 0b1010011
	OpBranch   Opcode = 0b1100011
	OpJalr     Opcode = 0b1100111
	OpJal      Opcode = 0b1101111
	OpSystem   Opcode = 0b1110011
)

// Family groups instructions by how the interpreter dispatches them; it is
// coarser than Opcode so the executor's outer switch stays flat.
type Family int

const (
	FamUnknown Family = iota
	FamLui
	FamAuipc
	FamJal
	FamJalr
	FamBranch
	FamLoad
	FamStore
	FamOpImm
	FamOp
	FamMiscMem
	FamSystem
	FamLoadFp
	FamStoreFp
	FamOpFp
	FamMadd // fused multiply-add family: MADD/MSUB/NMSUB/NMADD
	FamAmo
)

// Inst is the decoded form of one 32-bit instruction word. Only the fields
// relevant to Family/Funct3 are meaningful; callers must not read fields the
// family doesn't define.
type Inst struct {
	Family Family
	Raw    uint32
	Opcode Opcode
	Funct3 uint32
	Funct7 uint32
	Rs1    uint32
	Rs2    uint32
	Rs3    uint32 // fused-multiply forms only
	Rd     uint32
	Imm    int32
	// Amo carries the funct5 AMO selector (top 5 bits of funct7) for FamAmo.
	Amo uint32
	// RoundMode carries the rm field (aliases Funct3) for FamOpFp/FamMadd.
	RoundMode uint32
	// FpFmt carries the fmt field (bits [26:25]) for FamOpFp/FamMadd; 0 = single.
	FpFmt uint32
}

func bits(word uint32, hi, lo uint) uint32 {
	return (word >> lo) & ((1 << (hi - lo + 1)) - 1)
}

func signExtend(value uint32, bitWidth uint) int32 {
	shift := 32 - bitWidth
	return int32(value<<shift) >> shift
}

func immI(word uint32) int32 {
	return signExtend(bits(word, 31, 20), 12)
}

func immS(word uint32) int32 {
	v := (bits(word, 31, 25) << 5) | bits(word, 11, 7)
	return signExtend(v, 12)
}

func immB(word uint32) int32 {
	v := (bits(word, 31, 31) << 12) | (bits(word, 7, 7) << 11) |
		(bits(word, 30, 25) << 5) | (bits(word, 11, 8) << 1)
	return signExtend(v, 13)
}

func immU(word uint32) int32 {
	return int32(word & 0xFFFFF000)
}

func immJ(word uint32) int32 {
	v := (bits(word, 31, 31) << 20) | (bits(word, 19, 12) << 12) |
		(bits(word, 20, 20) << 11) | (bits(word, 30, 21) << 1)
	return signExtend(v, 21)
}

// Decode extracts every field a FunRisc hart needs from a raw instruction
// word. The zero value's Family (FamUnknown) signals an illegal encoding.
func Decode(word uint32) Inst {
	op := Opcode(bits(word, 6, 0))
	inst := Inst{
		Raw:    word,
		Opcode: op,
		Funct3: bits(word, 14, 12),
		Funct7: bits(word, 31, 25),
		Rs1:    bits(word, 19, 15),
		Rs2:    bits(word, 24, 20),
		Rs3:    bits(word, 31, 27),
		Rd:     bits(word, 11, 7),
	}

	switch op {
	case OpLui:
		inst.Family = FamLui
		inst.Imm = immU(word)
	case OpAuipc:
		inst.Family = FamAuipc
		inst.Imm = immU(word)
	case OpJal:
		inst.Family = FamJal
		inst.Imm = immJ(word)
	case OpJalr:
		inst.Family = FamJalr
		inst.Imm = immI(word)
	case OpBranch:
		inst.Family = FamBranch
		inst.Imm = immB(word)
	case OpLoad:
		inst.Family = FamLoad
		inst.Imm = immI(word)
	case OpStore:
		inst.Family = FamStore
		inst.Imm = immS(word)
	case OpImm:
		inst.Family = FamOpImm
		inst.Imm = immI(word)
	case OpOp:
		inst.Family = FamOp
	case OpMiscMem:
		inst.Family = FamMiscMem
	case OpSystem:
		inst.Family = FamSystem
		inst.Imm = immI(word) // CSR immediate/address share the I-immediate field
	case OpLoadFp:
		inst.Family = FamLoadFp
		inst.Imm = immI(word)
	case OpStoreFp:
		inst.Family = FamStoreFp
		inst.Imm = immS(word)
	case OpOpFp:
		inst.Family = FamOpFp
		inst.RoundMode = inst.Funct3
		inst.FpFmt = bits(word, 26, 25)
	case OpMadd, OpMsub, OpNmsub, OpNmadd:
		inst.Family = FamMadd
		inst.RoundMode = inst.Funct3
		inst.FpFmt = bits(word, 26, 25)
	case OpAmo:
		inst.Family = FamAmo
		inst.Amo = bits(word, 31, 27)
	default:
		inst.Family = FamUnknown
	}

	return inst
}

// RV32M funct3 values under the OP major opcode, distinguished from base
// arithmetic by Funct7 == 0b0000001.
const mulDivFunct7 = 0b0000001

const (
	f3Mul    = 0b000
	f3Mulh   = 0b001
	f3Mulhsu = 0b010
	f3Mulhu  = 0b011
	f3Div    = 0b100
	f3Divu   = 0b101
	f3Rem    = 0b110
	f3Remu   = 0b111
)

// AMO funct5 selectors (top 5 bits of the R-type funct7 field).
const (
	amoLR      = 0b00010
	amoSC      = 0b00011
	amoSwap    = 0b00001
	amoAdd     = 0b00000
	amoXor     = 0b00100
	amoAnd     = 0b01100
	amoOr      = 0b01000
	amoMin     = 0b10000
	amoMax     = 0b10100
	amoMinu    = 0b11000
	amoMaxu    = 0b11100
)
