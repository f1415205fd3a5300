// hart1_controller.go - Secondary hart lifecycle control peripheral

/*
hart1_controller.go - lets hart 0 park a boot image's second hart until
application code is ready for it, mirroring cpu1_controller.rs. Hart 1
has no running goroutine until a write to start_trigger resets it to
start_pc and spawns its run loop (unless the machine was booted with
hart 1 autostarted).

Register layout:

  0x00  start_pc       RW, pc hart 1 begins executing at once started
  0x04  start_trigger  WO, any write transitions Idle -> Running once
  0x08  is_running     RO, 1 once hart 1 has been started (never clears)

Writing start_trigger while already running returns a peripheral error: a
hart can only be started once per boot, matching the original's one-shot
semantics.
*/

package main

import "sync"

type hart1State int

const (
	hart1Idle hart1State = iota
	hart1Running
)

type Hart1Controller struct {
	mu      sync.Mutex
	startPC uint32
	state   hart1State

	onStart func(pc uint32)
}

func NewHart1Controller(onStart func(pc uint32)) *Hart1Controller {
	return &Hart1Controller{onStart: onStart}
}

func (c *Hart1Controller) ReadIO(hartID int, offset uint32, size int) (uint32, MemResult) {
	if size != 4 {
		return 0, MemErrSize
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	switch offset {
	case 0x00:
		return c.startPC, MemOk
	case 0x08:
		return boolToU32(c.state == hart1Running), MemOk
	default:
		return 0, MemErrUnmapped
	}
}

func (c *Hart1Controller) WriteIO(hartID int, offset uint32, size int, value uint32) MemResult {
	if size != 4 {
		return MemErrSize
	}
	c.mu.Lock()
	switch offset {
	case 0x00:
		c.startPC = value
		c.mu.Unlock()
		return MemOk
	case 0x04:
		if c.state == hart1Running {
			c.mu.Unlock()
			return MemErrPeripheral
		}
		c.state = hart1Running
		pc := c.startPC
		cb := c.onStart
		c.mu.Unlock()
		if cb != nil {
			cb(pc)
		}
		return MemOk
	default:
		c.mu.Unlock()
		return MemErrUnmapped
	}
}
