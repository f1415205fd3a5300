// cartloader.go - Cartridge manifest loader peripheral

/*
cartloader.go - lets a running machine swap in a new cartridge at
runtime: a host-side file path is staged through this register window,
and on trigger both harts are killed, the bus's RAM is re-initialized,
the new ELF is loaded, an optional splash PNG is decoded (for the GPU
frontend to display once presentation resumes), an optional Lua init
script runs against the fresh memory image, and hart 0 is reset to the
new entry point. Grounded on media_loader.go's manifest-parsing idiom and
cart_loader.rs's kill-then-reset orchestration.

Cartridge manifest (JSON):

  {
    "name": "demo",
    "elf": "demo.elf",
    "splash": "demo_splash.png",   // optional
    "init_script": "demo_init.lua" // optional
  }

Register layout:

  0x00  path_addr  RW, guest physical address of a UTF-8 manifest path
  0x04  path_len   RW, byte length of the path
  0x08  trigger    WO, any write begins the swap
  0x0C  status     RO, 0=idle, 1=loading, 2=last load failed
*/

package main

import (
	"encoding/json"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

type cartManifest struct {
	Name       string `json:"name"`
	ELF        string `json:"elf"`
	Splash     string `json:"splash"`
	InitScript string `json:"init_script"`
}

type CartLoader struct {
	mu       sync.Mutex
	pathAddr uint32
	pathLen  uint32
	status   uint32
	bus      *Bus
	log      *slog.Logger

	harts     [2]*Hart
	killHarts func()
	spawnHart func(id int, pc uint32)
	onSplash  func(rgba []byte, w, h int)
}

func NewCartLoader(bus *Bus, log *slog.Logger) *CartLoader {
	return &CartLoader{bus: bus, log: log}
}

func (c *CartLoader) readPath() (string, bool) {
	if c.pathLen == 0 || c.pathLen > pageSize {
		return "", false
	}
	buf := make([]byte, c.pathLen)
	for i := uint32(0); i < c.pathLen; i++ {
		v, res := c.bus.Read(-1, c.pathAddr+i, 1)
		if res != MemOk {
			return "", false
		}
		buf[i] = byte(v)
	}
	return string(buf), true
}

func (c *CartLoader) swap(manifestPath string) error {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("cartloader: read manifest: %w", err)
	}
	var m cartManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("cartloader: parse manifest: %w", err)
	}

	if c.killHarts != nil {
		c.killHarts()
	}

	elfData, err := os.ReadFile(m.ELF)
	if err != nil {
		return fmt.Errorf("cartloader: read elf: %w", err)
	}
	clear(c.bus.mem)
	entry, err := LoadELF(c.bus, elfData)
	if err != nil {
		return fmt.Errorf("cartloader: load elf: %w", err)
	}

	if m.Splash != "" {
		if f, err := os.Open(m.Splash); err == nil {
			img, decErr := png.Decode(f)
			f.Close()
			if decErr == nil && c.onSplash != nil {
				b := img.Bounds()
				rgba := make([]byte, b.Dx()*b.Dy()*4)
				idx := 0
				for y := b.Min.Y; y < b.Max.Y; y++ {
					for x := b.Min.X; x < b.Max.X; x++ {
						r, g, bl, a := img.At(x, y).RGBA()
						rgba[idx], rgba[idx+1], rgba[idx+2], rgba[idx+3] = byte(r>>8), byte(g>>8), byte(bl>>8), byte(a>>8)
						idx += 4
					}
				}
				c.onSplash(rgba, b.Dx(), b.Dy())
			} else if decErr != nil {
				c.log.Warn("cartloader: splash decode failed", "err", decErr)
			}
		}
	}

	if m.InitScript != "" {
		L := lua.NewState()
		defer L.Close()
		L.SetGlobal("poke", L.NewFunction(func(L *lua.LState) int {
			addr := uint32(L.CheckInt(1))
			val := uint32(L.CheckInt(2))
			c.bus.Write(-1, addr, 4, val)
			return 0
		}))
		if err := L.DoFile(m.InitScript); err != nil {
			c.log.Warn("cartloader: init script failed", "err", err)
		}
	}

	if c.spawnHart != nil {
		c.spawnHart(0, entry)
	}
	c.log.Info("cartloader: swapped cartridge", "name", m.Name)
	return nil
}

func (c *CartLoader) fire() {
	path, ok := c.readPath()
	if !ok {
		c.log.Warn("cartloader: unreadable path")
		c.mu.Lock()
		c.status = 2
		c.mu.Unlock()
		return
	}
	if err := c.swap(path); err != nil {
		c.log.Error("cartloader: swap failed", "err", err)
		c.mu.Lock()
		c.status = 2
		c.mu.Unlock()
		return
	}
	c.mu.Lock()
	c.status = 0
	c.mu.Unlock()
}

func (c *CartLoader) ReadIO(hartID int, offset uint32, size int) (uint32, MemResult) {
	if size != 4 {
		return 0, MemErrSize
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	switch offset {
	case 0x00:
		return c.pathAddr, MemOk
	case 0x04:
		return c.pathLen, MemOk
	case 0x0C:
		return c.status, MemOk
	default:
		return 0, MemErrUnmapped
	}
}

func (c *CartLoader) WriteIO(hartID int, offset uint32, size int, value uint32) MemResult {
	if size != 4 {
		return MemErrSize
	}
	c.mu.Lock()
	switch offset {
	case 0x00:
		c.pathAddr = value
		c.mu.Unlock()
		return MemOk
	case 0x04:
		c.pathLen = value
		c.mu.Unlock()
		return MemOk
	case 0x08:
		c.status = 1
		c.mu.Unlock()
		go c.fire()
		return MemOk
	default:
		c.mu.Unlock()
		return MemErrUnmapped
	}
}
