// gpu_backend_ebiten.go - ebiten-backed GPU presentation and input polling

/*
gpu_backend_ebiten.go - hosts the single ebiten.Game instance the whole
machine presents through. Grounded on video_backend_ebiten.go's window
lifecycle (NewImage/ReplacePixels per frame, fixed logical size, title).

A hart's goroutine calls Present() with a finished frame; ebiten's own
Update/Draw loop (which must run on the main OS thread) pulls the latest
frame and blits it, and Update() also samples keyboard state for
the Input peripheral to read back.
*/

package main

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenApp is the ebiten.Game implementation and shared presentation/
// input surface for the GPU and Input peripherals.
type EbitenApp struct {
	mu     sync.Mutex
	frame  []byte
	fw, fh int

	buttons uint32
}

func NewEbitenApp() *EbitenApp {
	return &EbitenApp{fw: 320, fh: 240}
}

func (a *EbitenApp) Update() error {
	var b uint32
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		b |= 1 << 0
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		b |= 1 << 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		b |= 1 << 2
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		b |= 1 << 3
	}
	if ebiten.IsKeyPressed(ebiten.KeyZ) {
		b |= 1 << 4
	}
	if ebiten.IsKeyPressed(ebiten.KeyX) {
		b |= 1 << 5
	}
	if ebiten.IsKeyPressed(ebiten.KeyEnter) {
		b |= 1 << 6
	}
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		b |= 1 << 7
	}
	a.mu.Lock()
	a.buttons = b
	a.mu.Unlock()
	return nil
}

func (a *EbitenApp) Draw(screen *ebiten.Image) {
	a.mu.Lock()
	frame, w, h := a.frame, a.fw, a.fh
	a.mu.Unlock()
	if frame == nil || len(frame) != w*h*4 {
		return
	}
	img := ebiten.NewImage(w, h)
	img.WritePixels(frame)
	screen.DrawImage(img, nil)
}

func (a *EbitenApp) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fw, a.fh
}

func (a *EbitenApp) Buttons() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buttons
}

// EbitenGPUBackend adapts EbitenApp to GPUBackend.
type EbitenGPUBackend struct {
	app *EbitenApp
}

func NewEbitenGPUBackend(app *EbitenApp) *EbitenGPUBackend {
	return &EbitenGPUBackend{app: app}
}

func (b *EbitenGPUBackend) Present(rgba []byte, width, height int) {
	b.app.mu.Lock()
	b.app.frame = rgba
	b.app.fw, b.app.fh = width, height
	b.app.mu.Unlock()
}

func (b *EbitenGPUBackend) Close() {}
