package main

import "testing"

func TestInterruptBusGPUVsyncStickyClear(t *testing.T) {
	ib := NewInterruptBus()
	ib.RaiseGPUVsync()
	v, _ := ib.ReadIO(0, 0x00, 4)
	if v != 1 {
		t.Fatalf("gpu pending = %d, want 1", v)
	}
	ib.WriteIO(0, 0x00, 4, 1)
	v, _ = ib.ReadIO(0, 0x00, 4)
	if v != 0 {
		t.Fatalf("gpu pending after clear = %d, want 0", v)
	}
}

func TestInterruptBusPerHartIPIIsolated(t *testing.T) {
	bus := NewBus()
	ib := NewInterruptBus()
	h0 := NewHart(0, bus, NewMTimer(), ib)
	h1 := NewHart(1, bus, NewMTimer(), ib)
	ib.AttachHart(0, h0)
	ib.AttachHart(1, h1)

	ib.WriteIO(0, 0x0C, 4, 1) // raise IPI targeting hart 1
	if h1.mip&mipMEIP == 0 {
		t.Fatalf("hart 1 should see an external interrupt pending")
	}
	if h0.mip&mipMEIP != 0 {
		t.Fatalf("hart 0 should not see hart 1's IPI (this was a bug in the original source)")
	}
}

func TestInterruptBusMaskGating(t *testing.T) {
	bus := NewBus()
	ib := NewInterruptBus()
	h0 := NewHart(0, bus, NewMTimer(), ib)
	ib.AttachHart(0, h0)

	ib.WriteIO(0, 0x10, 4, 0x0) // mask off every source for hart 0
	ib.RaiseGPUVsync()
	if h0.mip&mipMEIP != 0 {
		t.Fatalf("masked source should not raise the external line")
	}
}

func TestInterruptBusMaskIsPerHart(t *testing.T) {
	bus := NewBus()
	ib := NewInterruptBus()
	h0 := NewHart(0, bus, NewMTimer(), ib)
	h1 := NewHart(1, bus, NewMTimer(), ib)
	ib.AttachHart(0, h0)
	ib.AttachHart(1, h1)

	ib.WriteIO(0, 0x10, 4, 0x0) // hart 0 masks off every source
	ib.WriteIO(1, 0x10, 4, 0x7) // hart 1 leaves every source enabled

	if v, _ := ib.ReadIO(0, 0x10, 4); v != 0x0 {
		t.Fatalf("hart 0 mask = %#x, want 0", v)
	}
	if v, _ := ib.ReadIO(1, 0x10, 4); v != 0x7 {
		t.Fatalf("hart 1 mask = %#x, want 0x7", v)
	}

	ib.RaiseGPUVsync()
	if h0.mip&mipMEIP != 0 {
		t.Fatalf("hart 0 masked the source, should not see it pending")
	}
	if h1.mip&mipMEIP == 0 {
		t.Fatalf("hart 1 left the source enabled, should see it pending")
	}
}
