// debug_port.go - Guest-to-host debug print/clipboard peripheral

/*
debug_port.go - a tiny fire-and-forget channel guest code uses to print
diagnostics to the host console, ported from debug_device.rs. A guest
stages a message in RAM, points this register window at it, then writes
an opcode to trigger; this peripheral reads the message back out through
the bus (not by direct memory access) and prints or copies it.

Register layout:

  0x00  message_addr  RW, guest physical address of a UTF-8 message buffer
  0x04  message_len   RW, byte length of the message (must fit in one page)
  0x08  trigger       WO, writing an opcode below fires the action:
                         0 = print the message buffer (message_len bytes at
                             message_addr) as UTF-8 text
                         1 = print message_addr itself as decimal text
                         2 = print message_addr itself reinterpreted as an
                             IEEE-754 float32
                         3 = print message_addr itself as hex
                         4 = copy the message buffer to the host clipboard
  0x0C  status        RO, 1 while the last trigger is still processing

Malformed UTF-8 or an out-of-range message is reported to the log and the
trigger is otherwise ignored; it never faults the calling hart.
*/

package main

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"unicode/utf8"

	"golang.design/x/clipboard"
	"golang.org/x/term"
)

type DebugPort struct {
	mu         sync.Mutex
	msgAddr    uint32
	msgLen     uint32
	busy       bool
	bus        *Bus
	log        *slog.Logger
	isTerminal bool
	clipReady  bool
}

func NewDebugPort(bus *Bus, log *slog.Logger) *DebugPort {
	d := &DebugPort{
		bus:        bus,
		log:        log,
		isTerminal: term.IsTerminal(int(os.Stdout.Fd())),
	}
	if err := clipboard.Init(); err == nil {
		d.clipReady = true
	}
	return d
}

func (d *DebugPort) readMessage() ([]byte, bool) {
	if d.msgLen == 0 || d.msgLen > pageSize {
		return nil, false
	}
	buf := make([]byte, d.msgLen)
	for i := uint32(0); i < d.msgLen; i++ {
		v, res := d.bus.Read(-1, d.msgAddr+i, 1)
		if res != MemOk {
			return nil, false
		}
		buf[i] = byte(v)
	}
	return buf, true
}

func (d *DebugPort) colorize(s string) string {
	if !d.isTerminal {
		return s
	}
	return "\x1b[36m" + s + "\x1b[0m"
}

func (d *DebugPort) fire(opcode uint32) {
	switch opcode {
	case 0:
		msg, ok := d.readMessage()
		if !ok {
			d.log.Warn("debug port: unreadable message", "addr", d.msgAddr, "len", d.msgLen)
			return
		}
		if !utf8.Valid(msg) {
			d.log.Warn("debug port: invalid utf8 for message print")
			return
		}
		fmt.Println(d.colorize(string(msg)))
	case 1:
		fmt.Println(d.colorize(fmt.Sprintf("%d", d.msgAddr)))
	case 2:
		fmt.Println(d.colorize(fmt.Sprintf("%g", f32(d.msgAddr))))
	case 3:
		fmt.Println(d.colorize(fmt.Sprintf("%08x", d.msgAddr)))
	case 4:
		msg, ok := d.readMessage()
		if !ok {
			d.log.Warn("debug port: unreadable message", "addr", d.msgAddr, "len", d.msgLen)
			return
		}
		if d.clipReady {
			clipboard.Write(clipboard.FmtText, msg)
		} else {
			d.log.Warn("debug port: clipboard unavailable")
		}
	default:
		d.log.Warn("debug port: unknown trigger opcode", "opcode", opcode)
	}
}

func (d *DebugPort) ReadIO(hartID int, offset uint32, size int) (uint32, MemResult) {
	if size != 4 {
		return 0, MemErrSize
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	switch offset {
	case 0x00:
		return d.msgAddr, MemOk
	case 0x04:
		return d.msgLen, MemOk
	case 0x0C:
		return boolToU32(d.busy), MemOk
	default:
		return 0, MemErrUnmapped
	}
}

func (d *DebugPort) WriteIO(hartID int, offset uint32, size int, value uint32) MemResult {
	if size != 4 {
		return MemErrSize
	}
	d.mu.Lock()
	switch offset {
	case 0x00:
		d.msgAddr = value
		d.mu.Unlock()
		return MemOk
	case 0x04:
		d.msgLen = value
		d.mu.Unlock()
		return MemOk
	case 0x08:
		d.busy = true
		d.mu.Unlock()
		d.fire(value)
		d.mu.Lock()
		d.busy = false
		d.mu.Unlock()
		return MemOk
	default:
		d.mu.Unlock()
		return MemErrUnmapped
	}
}
