// sound_backend_headless.go - discard-only sound backend for headless/test runs

package main

import "sync"

type HeadlessSoundBackend struct {
	mu   sync.Mutex
	last []int16
}

func NewHeadlessSoundBackend() *HeadlessSoundBackend {
	return &HeadlessSoundBackend{}
}

func (h *HeadlessSoundBackend) Play(samples []int16, sampleRate int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = append([]int16(nil), samples...)
}

func (h *HeadlessSoundBackend) LastBatch() []int16 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

func (h *HeadlessSoundBackend) Close() {}
