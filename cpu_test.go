package main

import (
	"math"
	"testing"
)

func newTestHart() *Hart {
	bus := NewBus()
	return NewHart(0, bus, NewMTimer(), NewInterruptBus())
}

func TestDivisionByZero(t *testing.T) {
	h := newTestHart()
	h.Reset(0)
	h.bus.WriteBytes(0, mustAssemble(func(a *Assembler) {
		a.EmitR(OpOp, f3Div, 5, 1, 2, mulDivFunct7)
	}))
	h.x[1] = 10
	h.x[2] = 0
	h.Step()
	if h.x[5] != 0xFFFFFFFF {
		t.Fatalf("x5=%#x, want all-ones (div by zero)", h.x[5])
	}
}

func TestDivisionOverflow(t *testing.T) {
	h := newTestHart()
	h.Reset(0)
	h.bus.WriteBytes(0, mustAssemble(func(a *Assembler) {
		a.EmitR(OpOp, f3Div, 5, 1, 2, mulDivFunct7)
	}))
	h.x[1] = 0x80000000 // INT_MIN
	h.x[2] = 0xFFFFFFFF // -1
	h.Step()
	if h.x[5] != 0x80000000 {
		t.Fatalf("x5=%#x, want MinInt32 (overflow case returns dividend)", h.x[5])
	}
}

func TestRemainderByZeroReturnsDividend(t *testing.T) {
	h := newTestHart()
	h.Reset(0)
	h.bus.WriteBytes(0, mustAssemble(func(a *Assembler) {
		a.EmitR(OpOp, f3Rem, 5, 1, 2, mulDivFunct7)
	}))
	h.x[1] = 7
	h.x[2] = 0
	h.Step()
	if h.x[5] != 7 {
		t.Fatalf("x5=%d, want 7 (rem by zero returns dividend)", h.x[5])
	}
}

func TestAMOAddArithmetic(t *testing.T) {
	h := newTestHart()
	h.Reset(0)
	h.bus.Write(0, 0x100, 4, 10)
	h.x[1] = 0x100
	h.x[2] = 5
	h.bus.WriteBytes(0, mustAssemble(func(a *Assembler) {
		a.EmitR(OpAmo, 0b010, 3, 1, 2, amoAdd<<2)
	}))
	h.Step()
	if h.x[3] != 10 {
		t.Fatalf("rd (old value) = %d, want 10", h.x[3])
	}
	v, _ := h.bus.Read(0, 0x100, 4)
	if v != 15 {
		t.Fatalf("mem[0x100]=%d, want 15", v)
	}
}

func TestCSRReadWrite(t *testing.T) {
	h := newTestHart()
	h.Reset(0)
	h.bus.WriteBytes(0, mustAssemble(func(a *Assembler) {
		a.EmitI(OpSystem, 0b001, 5, 1, int32(csrMscratch)) // csrrw x5, mscratch, x1
	}))
	h.x[1] = 0xCAFEBABE
	h.Step()
	if h.mscratch != 0xCAFEBABE {
		t.Fatalf("mscratch=%#x, want 0xcafebabe", h.mscratch)
	}
	if h.x[5] != 0 {
		t.Fatalf("x5 (old mscratch) = %#x, want 0", h.x[5])
	}
}

func TestFloatAdd(t *testing.T) {
	h := newTestHart()
	h.Reset(0)
	h.f[1] = math.Float32bits(1.5)
	h.f[2] = math.Float32bits(2.5)
	h.bus.WriteBytes(0, mustAssemble(func(a *Assembler) {
		a.EmitR(OpOpFp, 0, 3, 1, 2, 0b0000000) // fadd.s f3, f1, f2
	}))
	h.Step()
	if math.Float32frombits(h.f[3]) != 4.0 {
		t.Fatalf("f3=%v, want 4.0", math.Float32frombits(h.f[3]))
	}
}

func TestMRETRestoresInterruptState(t *testing.T) {
	h := newTestHart()
	h.Reset(0)
	h.mstatus |= mstatusMIE
	h.dispatchTrap(excECallM, 0, false)
	if h.mstatus&mstatusMIE != 0 {
		t.Fatalf("MIE should be cleared after trap entry")
	}
	h.bus.WriteBytes(h.pc, mustAssemble(func(a *Assembler) {
		a.EmitI(OpSystem, 0, 0, 0, 0x302) // mret
	}))
	h.Step()
	if h.mstatus&mstatusMIE == 0 {
		t.Fatalf("MIE should be restored from MPIE after mret")
	}
	if h.pc != 0 {
		t.Fatalf("pc=%#x, want 0 (restored from mepc)", h.pc)
	}
}

func mustAssemble(build func(a *Assembler)) []byte {
	a := NewAssembler(0)
	build(a)
	return a.Bytes()
}
