package main

import (
	"testing"
	"time"
)

func TestDSPDMACopy(t *testing.T) {
	bus := NewBus()
	bus.WriteBytes(0x1000, []byte{1, 2, 3, 4})

	// One micro-op: copy 4 bytes from 0x1000 to 0x2000.
	prog := []uint32{0, 0x1000, 0x2000, 4}
	base := uint32(0x3000)
	for i, w := range prog {
		bus.Write(0, base+uint32(i*4), 4, w)
	}

	d := NewDSPDMA(bus, 0)
	d.WriteIO(0, 0x00, 4, base)
	d.WriteIO(0, 0x04, 4, 1)
	d.WriteIO(0, 0x08, 4, 1)

	deadline := time.Now().Add(time.Second)
	for {
		v, _ := d.ReadIO(0, 0x0C, 4)
		if v == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("dsp program did not complete in time")
		}
		time.Sleep(time.Millisecond)
	}

	got := make([]byte, 4)
	for i := range got {
		v, _ := bus.Read(0, 0x2000+uint32(i), 1)
		got[i] = byte(v)
	}
	want := []byte{1, 2, 3, 4}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
