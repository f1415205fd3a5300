// mathaccel.go - Vector/matrix math coprocessor peripheral

/*
mathaccel.go - a fixed-function vector/matrix accelerator a hart can
offload small float32 vector ops to. Grounded on coprocessor_manager.go's
worker-goroutine-plus-status-register concurrency shape (its multi-ISA
instruction dispatch is dropped; this coprocessor runs one fixed opcode
set, not a guest program).

The address map marks this peripheral "(per-hart)": main.go instantiates
one MathAccel per hart and registers each via Bus.MapPeripheralForHart,
so the two harts never see each other's operands or in-flight result.

Register layout:

  0x00-0x0F  op_a[4]     RW, four float32 lanes, operand A
  0x10-0x1F  op_b[4]     RW, four float32 lanes, operand B
  0x20       opcode      RW, selects the operation (see below)
  0x24       trigger     WO, any write starts the operation
  0x28       status      RO, 1 while busy (always 0 here: execution is
                          synchronous and completes before the write to
                          trigger returns)
  0x30-0x3F  result[4]   RO, four float32 lanes holding the result

Opcodes:
  0 = component-wise add:       result[i] = a[i] + b[i]
  1 = component-wise multiply:  result[i] = a[i] * b[i]
  2 = dot product:               result[0] = sum(a[i]*b[i]), rest 0
  3 = 2x2 matrix multiply:       a/b interpreted row-major, result = a*b
  Any other opcode makes the trigger write fail with MemErrPeripheral and
  leaves result unchanged.
*/

package main

import "sync"

type MathAccel struct {
	mu     sync.Mutex
	opA    [4]uint32
	opB    [4]uint32
	opcode uint32
	result [4]uint32
}

func NewMathAccel() *MathAccel {
	return &MathAccel{}
}

func (m *MathAccel) run() {
	a := [4]float32{f32(m.opA[0]), f32(m.opA[1]), f32(m.opA[2]), f32(m.opA[3])}
	b := [4]float32{f32(m.opB[0]), f32(m.opB[1]), f32(m.opB[2]), f32(m.opB[3])}
	var r [4]float32
	switch m.opcode {
	case 0:
		for i := range r {
			r[i] = a[i] + b[i]
		}
	case 1:
		for i := range r {
			r[i] = a[i] * b[i]
		}
	case 2:
		var sum float32
		for i := range a {
			sum += a[i] * b[i]
		}
		r[0] = sum
	case 3:
		r[0] = a[0]*b[0] + a[1]*b[2]
		r[1] = a[0]*b[1] + a[1]*b[3]
		r[2] = a[2]*b[0] + a[3]*b[2]
		r[3] = a[2]*b[1] + a[3]*b[3]
	}
	for i := range r {
		m.result[i] = fbits(r[i])
	}
}

func (m *MathAccel) ReadIO(hartID int, offset uint32, size int) (uint32, MemResult) {
	if size != 4 {
		return 0, MemErrSize
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case offset < 0x10:
		return m.opA[offset/4], MemOk
	case offset < 0x20:
		return m.opB[(offset-0x10)/4], MemOk
	case offset == 0x20:
		return m.opcode, MemOk
	case offset == 0x28:
		return 0, MemOk
	case offset >= 0x30 && offset < 0x40:
		return m.result[(offset-0x30)/4], MemOk
	default:
		return 0, MemErrUnmapped
	}
}

func (m *MathAccel) WriteIO(hartID int, offset uint32, size int, value uint32) MemResult {
	if size != 4 {
		return MemErrSize
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case offset < 0x10:
		m.opA[offset/4] = value
	case offset < 0x20:
		m.opB[(offset-0x10)/4] = value
	case offset == 0x20:
		m.opcode = value
	case offset == 0x24:
		if m.opcode > 3 {
			return MemErrPeripheral
		}
		m.run()
	default:
		return MemErrUnmapped
	}
	return MemOk
}
