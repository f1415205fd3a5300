package main

import "testing"

func TestBusReadWriteRoundTrip(t *testing.T) {
	b := NewBus()
	if res := b.Write(0, 0x1000, 4, 0xDEADBEEF); res != MemOk {
		t.Fatalf("write: %v", res)
	}
	v, res := b.Read(0, 0x1000, 4)
	if res != MemOk {
		t.Fatalf("read: %v", res)
	}
	if v != 0xDEADBEEF {
		t.Fatalf("got %#x, want 0xdeadbeef", v)
	}
}

func TestBusAlignmentFault(t *testing.T) {
	b := NewBus()
	if _, res := b.Read(0, 0x1001, 4); res != MemErrAlignment {
		t.Fatalf("got %v, want MemErrAlignment", res)
	}
}

func TestBusUnmappedFault(t *testing.T) {
	b := NewBus()
	if _, res := b.Read(0, RAMSize, 4); res != MemErrUnmapped {
		t.Fatalf("got %v, want MemErrUnmapped", res)
	}
}

func TestBusLRSCRoundTrip(t *testing.T) {
	b := NewBus()
	b.Write(0, 0x2000, 4, 1)

	v, res, mres := b.LoadReserved(0, 0x2000)
	if mres != MemOk || v != 1 {
		t.Fatalf("load-reserved: v=%d mres=%v", v, mres)
	}
	ok, mres := b.StoreConditional(0, 0x2000, 2, res)
	if mres != MemOk || !ok {
		t.Fatalf("store-conditional should succeed: ok=%v mres=%v", ok, mres)
	}
	v, _ = b.Read(0, 0x2000, 4)
	if v != 2 {
		t.Fatalf("got %d, want 2", v)
	}
}

func TestBusSCFailsAfterInterveningWrite(t *testing.T) {
	b := NewBus()
	b.Write(0, 0x3000, 4, 1)
	_, res, _ := b.LoadReserved(0, 0x3000)

	// Hart 1 writes the same page, invalidating hart 0's reservation.
	b.Write(1, 0x3000, 4, 99)

	ok, _ := b.StoreConditional(0, 0x3000, 42, res)
	if ok {
		t.Fatalf("store-conditional should fail after intervening write")
	}
}

func TestBusAMOAdd(t *testing.T) {
	b := NewBus()
	b.Write(0, 0x4000, 4, 10)
	old, res := b.AMOWord(0, 0x4000, func(cur uint32) uint32 { return cur + 5 })
	if res != MemOk || old != 10 {
		t.Fatalf("old=%d res=%v", old, res)
	}
	v, _ := b.Read(0, 0x4000, 4)
	if v != 15 {
		t.Fatalf("got %d, want 15", v)
	}
}

func TestBusPeripheralDispatch(t *testing.T) {
	b := NewBus()
	accel := NewMathAccel()
	b.MapPeripheral(MathAccelBase, accel)
	if res := b.Write(0, MathAccelBase+0x20, 4, 0); res != MemOk {
		t.Fatalf("peripheral write: %v", res)
	}
	v, res := b.Read(0, MathAccelBase+0x20, 4)
	if res != MemOk || v != 0 {
		t.Fatalf("peripheral read: v=%d res=%v", v, res)
	}
}

func TestBusPerHartDispatchIsolatesState(t *testing.T) {
	b := NewBus()
	accel0 := NewMathAccel()
	accel1 := NewMathAccel()
	b.MapPeripheralForHart(MathAccelBase, 0, accel0)
	b.MapPeripheralForHart(MathAccelBase, 1, accel1)

	b.Write(0, MathAccelBase+0x20, 4, 7)
	b.Write(1, MathAccelBase+0x20, 4, 9)

	v0, _ := b.Read(0, MathAccelBase+0x20, 4)
	v1, _ := b.Read(1, MathAccelBase+0x20, 4)
	if v0 != 7 {
		t.Fatalf("hart 0 opcode=%d, want 7 (own instance)", v0)
	}
	if v1 != 9 {
		t.Fatalf("hart 1 opcode=%d, want 9 (own instance)", v1)
	}
}
