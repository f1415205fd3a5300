// main.go - FunRisc entry point

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// runLoopBatch/runLoopPeriod are the n/period arguments to Hart.RunLoop:
// execute up to 50,000 instructions, then release any held page lock and
// sleep out the remainder of a 2.5ms period.
const (
	runLoopBatch  = 50_000
	runLoopPeriod = 2_500 * time.Microsecond
)

func boilerPlate() {
	fmt.Println("FunRisc - a two-hart RV32IMF virtual machine")
}

type machine struct {
	bus      *Bus
	harts    [2]*Hart
	mtimers  [2]*MTimer
	intBus   *InterruptBus
	hart1Ctl *Hart1Controller
	log      *slog.Logger
	killed   [2]func()
}

func newMachine(log *slog.Logger, gpuBackend GPUBackend, soundBackend SoundBackend, input InputSource, onSplash func([]byte, int, int)) *machine {
	bus := NewBus()
	intBus := NewInterruptBus()

	m := &machine{bus: bus, intBus: intBus, log: log}

	for i := 0; i < 2; i++ {
		mt := NewMTimer()
		m.mtimers[i] = mt
		h := NewHart(i, bus, mt, intBus)
		mt.AttachHart(h)
		intBus.AttachHart(i, h)
		m.harts[i] = h
		m.killed[i] = h.GetKillHandle()
	}

	m.hart1Ctl = NewHart1Controller(func(pc uint32) {
		m.harts[1].Reset(pc)
		go m.harts[1].RunLoop(runLoopBatch, runLoopPeriod)
	})

	debug := NewDebugPort(bus, log)
	gpu := NewGPU(bus, 0, gpuBackend, intBus)
	sound := NewSound(soundBackend, intBus)
	dsp := NewDSPDMA(bus, 0)
	cart := NewCartLoader(bus, log)
	in := NewInput(input)

	cart.killHarts = func() {
		m.killed[0]()
		m.killed[1]()
	}
	cart.spawnHart = func(id int, pc uint32) {
		m.harts[id].Reset(pc)
		go m.harts[id].RunLoop(runLoopBatch, runLoopPeriod)
	}
	cart.onSplash = onSplash

	bus.MapPeripheral(DebugPortBase, debug)
	bus.MapPeripheral(GPUBase, gpu)
	bus.MapPeripheral(DSPDMABase, dsp)
	bus.MapPeripheral(InterruptBusBase, intBus)
	bus.MapPeripheral(Hart1CtrlBase, m.hart1Ctl)
	bus.MapPeripheral(SoundBase, sound)
	bus.MapPeripheral(CartLoaderBase, cart)
	bus.MapPeripheral(InputBase, in)

	// MTimer and the math accelerator are "(per-hart)" in the address
	// map: both harts address the same window, but each must reach its
	// own instance. set_hart_id's equivalent here is registering a
	// distinct handler per hart up front, at wiring time.
	for i := 0; i < 2; i++ {
		bus.MapPeripheralForHart(MTimerBase, i, m.mtimers[i])
		bus.RegisterMTimer(i, m.mtimers[i])
		bus.MapPeripheralForHart(MathAccelBase, i, NewMathAccel())
	}

	go m.mtimers[0].Run()
	go m.mtimers[1].Run()
	go sound.Run()

	return m
}

func (m *machine) boot(entry uint32, hart1Autostart bool) {
	m.harts[0].Reset(entry)
	go m.harts[0].RunLoop(runLoopBatch, runLoopPeriod)
	if hart1Autostart {
		m.harts[1].Reset(entry)
		go m.harts[1].RunLoop(runLoopBatch, runLoopPeriod)
	}
}

func main() {
	elfPath := flag.String("elf", "", "path to the RV32IMF ELF image to boot")
	headless := flag.Bool("headless", false, "run without a presentation window")
	hart1Auto := flag.Bool("hart1-autostart", false, "start hart 1 immediately instead of waiting for the hart-1 controller")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	boilerPlate()

	path := *elfPath
	if path == "" && flag.NArg() > 0 {
		path = flag.Arg(0)
	}
	if path == "" {
		log.Error("no ELF image given; usage: funrisc [-headless] [-hart1-autostart] <elf-path>")
		os.Exit(1)
	}

	elfData, err := os.ReadFile(path)
	if err != nil {
		log.Error("failed to read ELF image", "path", path, "err", err)
		os.Exit(1)
	}

	if *headless {
		gpuBackend := NewHeadlessGPUBackend()
		soundBackend := NewHeadlessSoundBackend()
		m := newMachine(log, gpuBackend, soundBackend, nil, nil)
		entry, err := LoadELF(m.bus, elfData)
		if err != nil {
			log.Error("failed to load ELF image", "err", err)
			os.Exit(1)
		}
		m.boot(entry, *hart1Auto)
		select {}
	}

	app := NewEbitenApp()
	gpuBackend := NewEbitenGPUBackend(app)
	soundBackend, err := NewOtoSoundBackend(log)
	if err != nil {
		log.Error("failed to init audio backend", "err", err)
		os.Exit(1)
	}
	onSplash := func(rgba []byte, w, h int) {
		gpuBackend.Present(rgba, w, h)
	}
	m := newMachine(log, gpuBackend, soundBackend, app, onSplash)
	entry, err := LoadELF(m.bus, elfData)
	if err != nil {
		log.Error("failed to load ELF image", "err", err)
		os.Exit(1)
	}
	m.boot(entry, *hart1Auto)

	ebiten.SetWindowSize(640, 480)
	ebiten.SetWindowTitle("FunRisc")
	if err := ebiten.RunGame(app); err != nil {
		log.Error("presentation loop exited", "err", err)
		os.Exit(1)
	}
}
