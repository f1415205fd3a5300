// dspdma.go - DMA-style DSP micro-program engine peripheral

/*
dspdma.go - executes a short fixed-format micro-program of bulk memory
operations against the shared interconnect on a background goroutine,
freeing a hart from looping over a bulk copy/fill/accumulate itself.
Grounded on coprocessor_manager.go's background-worker-against-shared-
memory pattern; its guest-ISA dispatch is dropped in favor of a small
fixed opcode set.

Register layout:

  0x00  program_base  RW, physical address of the first micro-op
  0x04  program_len   RW, number of micro-ops to execute
  0x08  trigger       WO, any write starts the program on a worker goroutine;
                      a write while a program is running returns
                      MemErrPeripheral
  0x0C  status        RO, 1 while the program is running

Each micro-op is a 16-byte record at program_base + i*16:
  uint32 opcode  (0=copy, 1=fill, 2=add-accumulate)
  uint32 src     (fill: the 32-bit fill word)
  uint32 dst
  uint32 length  (bytes, copy/fill; words, add-accumulate)

add-accumulate reads a uint32 word from src and dst, adds them, and
writes the sum back to dst, repeated for length words.
*/

package main

import "sync"

type DSPDMA struct {
	mu       sync.Mutex
	progBase uint32
	progLen  uint32
	running  bool
	bus      *Bus
	hartID   int
}

func NewDSPDMA(bus *Bus, hartID int) *DSPDMA {
	return &DSPDMA{bus: bus, hartID: hartID}
}

type dspMicroOp struct {
	opcode uint32
	src    uint32
	dst    uint32
	length uint32
}

func (d *DSPDMA) fetchOp(i uint32) (dspMicroOp, bool) {
	addr := d.progBase + i*16
	vals := [4]uint32{}
	for j := 0; j < 4; j++ {
		v, res := d.bus.Read(d.hartID, addr+uint32(j*4), 4)
		if res != MemOk {
			return dspMicroOp{}, false
		}
		vals[j] = v
	}
	return dspMicroOp{opcode: vals[0], src: vals[1], dst: vals[2], length: vals[3]}, true
}

func (d *DSPDMA) runProgram() {
	for i := uint32(0); i < d.progLen; i++ {
		op, ok := d.fetchOp(i)
		if !ok {
			break
		}
		switch op.opcode {
		case 0: // copy
			for b := uint32(0); b < op.length; b++ {
				v, res := d.bus.Read(d.hartID, op.src+b, 1)
				if res != MemOk {
					break
				}
				d.bus.Write(d.hartID, op.dst+b, 1, v)
			}
		case 1: // fill
			for b := uint32(0); b < op.length; b++ {
				d.bus.Write(d.hartID, op.dst+b, 1, op.src>>(8*(b%4)))
			}
		case 2: // add-accumulate, word granularity
			for w := uint32(0); w < op.length; w++ {
				a, _ := d.bus.Read(d.hartID, op.src+w*4, 4)
				b, res := d.bus.Read(d.hartID, op.dst+w*4, 4)
				if res != MemOk {
					break
				}
				d.bus.Write(d.hartID, op.dst+w*4, 4, a+b)
			}
		}
	}
	d.mu.Lock()
	d.running = false
	d.mu.Unlock()
}

func (d *DSPDMA) ReadIO(hartID int, offset uint32, size int) (uint32, MemResult) {
	if size != 4 {
		return 0, MemErrSize
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	switch offset {
	case 0x00:
		return d.progBase, MemOk
	case 0x04:
		return d.progLen, MemOk
	case 0x0C:
		return boolToU32(d.running), MemOk
	default:
		return 0, MemErrUnmapped
	}
}

func (d *DSPDMA) WriteIO(hartID int, offset uint32, size int, value uint32) MemResult {
	if size != 4 {
		return MemErrSize
	}
	d.mu.Lock()
	switch offset {
	case 0x00:
		d.progBase = value
		d.mu.Unlock()
		return MemOk
	case 0x04:
		d.progLen = value
		d.mu.Unlock()
		return MemOk
	case 0x08:
		if d.running {
			d.mu.Unlock()
			return MemErrPeripheral
		}
		d.running = true
		d.mu.Unlock()
		go d.runProgram()
		return MemOk
	default:
		d.mu.Unlock()
		return MemErrUnmapped
	}
}
