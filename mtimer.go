// mtimer.go - Per-hart millisecond timer peripheral

/*
mtimer.go - a free-running millisecond counter with a one-shot compare
trigger, ported from mtimer.rs. Each hart gets its own MTimer instance
mapped into its own 64 KiB window via Bus.MapPeripheralForHart (the
MTimerBase address is shared, but main.go gives each hart a distinct
backing MTimer so their deadlines don't interfere).

Register layout (offsets within MTimerBase's window):

  0x00  mtime_low                    RW, live counter, low 32 bits
  0x04  mtime_high                   RW, live counter, high 32 bits
  0x08  mtime_atomic_buf_low         RW, staging buffer, low 32 bits
  0x0C  mtime_atomic_buf_high        RW, staging buffer, high 32 bits
  0x10  mtime_atomic_read_trigger    WO, any write: buf <- live mtime
  0x14  mtime_atomic_write_trigger   WO, any write: mtime <- buf
  0x18  mtime_atomic_swap_trigger    WO, any write: swap(mtime, buf)
  0x20  mtimecmp_low                 RW, compare deadline, low 32 bits
  0x24  mtimecmp_high                RW, compare deadline, high 32 bits
  0x28  mtimecmp_atomic_buf_low      RW, staging buffer, low 32 bits
  0x2C  mtimecmp_atomic_buf_high     RW, staging buffer, high 32 bits
  0x30  mtimecmp_atomic_read_trigger  WO, any write: buf <- mtimecmp
  0x34  mtimecmp_atomic_write_trigger WO, any write: mtimecmp <- buf
  0x38  mtimecmp_atomic_swap_trigger  WO, any write: swap(mtimecmp, buf)
  0x40  dual_atomic_write_trigger    WO, any write: both writes at once
  0x44  dual_atomic_swap_trigger     WO, any write: both swaps at once
  0x48  control                      bit0 = enable compare interrupt

The atomic staging buffers and trigger registers let a hart snapshot or
rewrite mtime/mtimecmp as a single indivisible step without racing the
free-running counter's background advance - useful for save-state
restore and for cooperative migration of a deadline between harts.
Ported from fm_mtimer.rs's OFFSET_* trigger registers; 0x48 (enable) has
no analogue there and is this machine's own addition.
*/

package main

import (
	"sync"
	"time"
)

type MTimer struct {
	mu sync.Mutex

	start time.Time // instant the free-running counter was last rebased
	base  uint64     // counter value as of start
	cmp   uint64     // mtimecmp deadline

	mtimeBuf uint64 // mtime_atomic_buf
	cmpBuf   uint64 // mtimecmp_atomic_buf

	enabled bool
	hart    *Hart

	stop chan struct{}
}

func NewMTimer() *MTimer {
	return &MTimer{start: time.Now(), stop: make(chan struct{})}
}

// AttachHart lets the timer signal MTIP directly on its owning hart.
func (m *MTimer) AttachHart(h *Hart) {
	m.mu.Lock()
	m.hart = h
	m.mu.Unlock()
}

func (m *MTimer) liveNow() uint64 {
	return m.base + uint64(time.Since(m.start).Milliseconds())
}

// Now returns the live millisecond count since the timer was created or
// last rebased.
func (m *MTimer) Now() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liveNow()
}

// Run polls the compare deadline in the background and raises MTIP once
// it is reached, matching the original's check_timer poll loop.
func (m *MTimer) Run() {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.checkTimer()
		}
	}
}

func (m *MTimer) Stop() {
	close(m.stop)
}

func (m *MTimer) checkTimer() {
	m.mu.Lock()
	fire := m.enabled && m.liveNow() >= m.cmp
	h := m.hart
	m.mu.Unlock()
	if fire && h != nil {
		h.signalTimerInterrupt(true)
	}
}

func (m *MTimer) ReadIO(hartID int, offset uint32, size int) (uint32, MemResult) {
	if size != 4 {
		return 0, MemErrSize
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	switch offset {
	case 0x00:
		return uint32(m.liveNow()), MemOk
	case 0x04:
		return uint32(m.liveNow() >> 32), MemOk
	case 0x08:
		return uint32(m.mtimeBuf), MemOk
	case 0x0C:
		return uint32(m.mtimeBuf >> 32), MemOk
	case 0x20:
		return uint32(m.cmp), MemOk
	case 0x24:
		return uint32(m.cmp >> 32), MemOk
	case 0x28:
		return uint32(m.cmpBuf), MemOk
	case 0x2C:
		return uint32(m.cmpBuf >> 32), MemOk
	case 0x48:
		return boolToU32(m.enabled), MemOk
	case 0x10, 0x14, 0x18, 0x30, 0x34, 0x38, 0x40, 0x44:
		return 0, MemOk // write-only triggers read back as zero
	default:
		return 0, MemErrUnmapped
	}
}

func (m *MTimer) WriteIO(hartID int, offset uint32, size int, value uint32) MemResult {
	if size != 4 {
		return MemErrSize
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	switch offset {
	case 0x00:
		m.base = (m.base &^ 0xFFFFFFFF) | uint64(value)
		m.start = time.Now()
	case 0x04:
		m.base = (m.base & 0xFFFFFFFF) | uint64(value)<<32
		m.start = time.Now()
	case 0x08:
		m.mtimeBuf = (m.mtimeBuf &^ 0xFFFFFFFF) | uint64(value)
	case 0x0C:
		m.mtimeBuf = (m.mtimeBuf & 0xFFFFFFFF) | uint64(value)<<32
	case 0x10: // mtime_atomic_read_trigger: buf <- live mtime
		m.mtimeBuf = m.liveNow()
	case 0x14: // mtime_atomic_write_trigger: mtime <- buf
		m.base = m.mtimeBuf
		m.start = time.Now()
	case 0x18: // mtime_atomic_swap_trigger
		m.base, m.mtimeBuf = m.mtimeBuf, m.base
		m.mtimeBuf += uint64(time.Since(m.start).Milliseconds())
		m.start = time.Now()
	case 0x20:
		m.cmp = (m.cmp &^ 0xFFFFFFFF) | uint64(value)
	case 0x24:
		m.cmp = (m.cmp & 0xFFFFFFFF) | uint64(value)<<32
	case 0x28:
		m.cmpBuf = (m.cmpBuf &^ 0xFFFFFFFF) | uint64(value)
	case 0x2C:
		m.cmpBuf = (m.cmpBuf & 0xFFFFFFFF) | uint64(value)<<32
	case 0x30: // mtimecmp_atomic_read_trigger
		m.cmpBuf = m.cmp
	case 0x34: // mtimecmp_atomic_write_trigger
		m.cmp = m.cmpBuf
	case 0x38: // mtimecmp_atomic_swap_trigger
		m.cmp, m.cmpBuf = m.cmpBuf, m.cmp
	case 0x40: // dual_atomic_write_trigger
		m.cmp = m.cmpBuf
		m.base = m.mtimeBuf
		m.start = time.Now()
	case 0x44: // dual_atomic_swap_trigger
		m.cmp, m.cmpBuf = m.cmpBuf, m.cmp
		m.base, m.mtimeBuf = m.mtimeBuf, m.base
		m.mtimeBuf += uint64(time.Since(m.start).Milliseconds())
		m.start = time.Now()
	case 0x48:
		m.enabled = value&1 != 0
		if !m.enabled && m.hart != nil {
			m.hart.signalTimerInterrupt(false)
		}
	default:
		return MemErrUnmapped
	}
	return MemOk
}
