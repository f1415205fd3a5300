// gpu.go - Framebuffer GPU peripheral

/*
gpu.go - a flat RGBA8888 framebuffer a hart renders into directly and
presents with a single trigger write. Grounded on video_chip.go's
register-window idiom (not its blitter/copper semantics, which belong to
a different chip) and gpu.rs's vsync-edge/fb_base contract. Presentation
itself is delegated to a GPUBackend (ebiten-backed window, or a headless
no-op sink for tests/CI).

Register layout:

  0x00  width           RO, framebuffer width in pixels, fixed at construction
  0x04  height          RO, framebuffer height in pixels, fixed at construction
  0x08  fb_base         RW, physical address of the first framebuffer byte
                         (width*height*4 bytes, row-major RGBA8888)
  0x0C  present_trigger WO, any write copies the framebuffer to the
                         backend and raises a vsync edge on the interrupt bus
  0x10  vsync_count     RO, monotonically increasing count of presents
*/

package main

import "sync"

// GPUBackend renders one completed frame; the headless backend only keeps
// the most recent one.
type GPUBackend interface {
	Present(rgba []byte, width, height int)
	Close()
}

type GPU struct {
	mu         sync.Mutex
	width      uint32
	height     uint32
	fbBase     uint32
	vsyncCount uint32

	bus     *Bus
	hartID  int
	backend GPUBackend
	irq     *InterruptBus
}

func NewGPU(bus *Bus, hartID int, backend GPUBackend, irq *InterruptBus) *GPU {
	return &GPU{bus: bus, hartID: hartID, backend: backend, irq: irq, width: 320, height: 240}
}

func (g *GPU) present() {
	g.mu.Lock()
	w, h, base := g.width, g.height, g.fbBase
	g.mu.Unlock()

	n := int(w) * int(h) * 4
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		v, res := g.bus.Read(g.hartID, base+uint32(i), 1)
		if res != MemOk {
			break
		}
		buf[i] = byte(v)
	}
	g.backend.Present(buf, int(w), int(h))

	g.mu.Lock()
	g.vsyncCount++
	g.mu.Unlock()
	if g.irq != nil {
		g.irq.RaiseGPUVsync()
	}
}

func (g *GPU) ReadIO(hartID int, offset uint32, size int) (uint32, MemResult) {
	if size != 4 {
		return 0, MemErrSize
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	switch offset {
	case 0x00:
		return g.width, MemOk
	case 0x04:
		return g.height, MemOk
	case 0x08:
		return g.fbBase, MemOk
	case 0x10:
		return g.vsyncCount, MemOk
	default:
		return 0, MemErrUnmapped
	}
}

func (g *GPU) WriteIO(hartID int, offset uint32, size int, value uint32) MemResult {
	if size != 4 {
		return MemErrSize
	}
	switch offset {
	case 0x00, 0x04:
		return MemErrUnmapped // width/height are read-only, fixed at construction
	case 0x08:
		g.mu.Lock()
		g.fbBase = value
		g.mu.Unlock()
	case 0x0C:
		g.present()
	default:
		return MemErrUnmapped
	}
	return MemOk
}
