// registers.go - Centralized peripheral address map for FunRisc

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

/*
registers.go - Master peripheral address map

MEMORY MAP OVERVIEW
===================

Address Range                Size   Device               Constants file
---------------------------------------------------------------------------
0x00000000-0x0FFFFFFF        256MB  RAM                  bus.go
0xF0000000-0xF000FFFF        64KB   Debug port           debug_port.go
0xF0010000-0xF001FFFF        64KB   GPU                  gpu.go
0xF0020000-0xF002FFFF        64KB   DSP-DMA engine       dspdma.go
0xF0030000-0xF003FFFF        64KB   Interrupt bus        interrupt_bus.go
0xF0040000-0xF004FFFF        64KB   Hart-1 controller    hart1_controller.go
0xF0050000-0xF005FFFF        64KB   Sound output         sound.go
0xF0060000-0xF006FFFF        64KB   MTimer (per-hart)    mtimer.go
0xF0070000-0xF007FFFF        64KB   MathAccel (per-hart) mathaccel.go
0xF0080000-0xF008FFFF        64KB   Cart loader          cartloader.go
0xF0090000-0xF009FFFF        64KB   Input                input.go
*/

package main

const (
	RAMSize = 0x10000000 // 256 MiB

	PeripheralBase = 0xF0000000
	peripheralWindow = 0x00010000 // 64 KiB per peripheral

	DebugPortBase    = PeripheralBase + 0x00000000
	GPUBase          = PeripheralBase + 0x00010000
	DSPDMABase       = PeripheralBase + 0x00020000
	InterruptBusBase = PeripheralBase + 0x00030000
	Hart1CtrlBase    = PeripheralBase + 0x00040000
	SoundBase        = PeripheralBase + 0x00050000
	MTimerBase       = PeripheralBase + 0x00060000
	MathAccelBase    = PeripheralBase + 0x00070000
	CartLoaderBase   = PeripheralBase + 0x00080000
	InputBase        = PeripheralBase + 0x00090000
)

// peripheralID returns the 12-bit peripheral selector from bits [27:16] of
// an address already known to fall in the top-nibble-0xF peripheral region.
func peripheralID(addr uint32) uint32 {
	return (addr >> 16) & 0xFFF
}

// peripheralOffset returns the low 16 bits selecting a register within a
// peripheral's 64 KiB window.
func peripheralOffset(addr uint32) uint32 {
	return addr & 0xFFFF
}

// isPeripheralAddress reports whether addr's top nibble selects the
// peripheral region rather than RAM.
func isPeripheralAddress(addr uint32) bool {
	return addr>>28 == 0xF
}

// peripheralName returns a human-readable label for diagnostics/logging.
func peripheralName(addr uint32) string {
	switch addr &^ 0xFFFF {
	case DebugPortBase:
		return "debug"
	case GPUBase:
		return "gpu"
	case DSPDMABase:
		return "dspdma"
	case InterruptBusBase:
		return "intbus"
	case Hart1CtrlBase:
		return "hart1ctrl"
	case SoundBase:
		return "sound"
	case MTimerBase:
		return "mtimer"
	case MathAccelBase:
		return "mathaccel"
	case CartLoaderBase:
		return "cartloader"
	case InputBase:
		return "input"
	default:
		return "unknown"
	}
}
