// gpu_backend_headless.go - discard-only GPU backend for headless/test runs

/*
gpu_backend_headless.go - satisfies GPUBackend without opening a window,
grounded on video_backend_headless.go's discard-sink pattern. Keeps the
most recent frame so tests can assert on presented pixels without ebiten.
*/

package main

import "sync"

type HeadlessGPUBackend struct {
	mu            sync.Mutex
	lastFrame     []byte
	lastW, lastH  int
}

func NewHeadlessGPUBackend() *HeadlessGPUBackend {
	return &HeadlessGPUBackend{}
}

func (h *HeadlessGPUBackend) Present(rgba []byte, width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastFrame = rgba
	h.lastW, h.lastH = width, height
}

func (h *HeadlessGPUBackend) LastFrame() ([]byte, int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastFrame, h.lastW, h.lastH
}

func (h *HeadlessGPUBackend) Close() {}
