// sound_backend_oto.go - oto-backed PCM playback

/*
sound_backend_oto.go - feeds batches of signed 16-bit PCM samples to the
host's audio device via oto, grounded on audio_backend_oto.go's player
lifecycle (one shared oto.Context, one long-lived oto.Player fed through
an io.Reader shim).
*/

package main

import (
	"encoding/binary"
	"io"
	"log/slog"
	"sync"

	"github.com/ebitengine/oto/v3"
)

type otoFeed struct {
	mu  sync.Mutex
	buf []byte
}

func (f *otoFeed) push(b []byte) {
	f.mu.Lock()
	f.buf = append(f.buf, b...)
	f.mu.Unlock()
}

func (f *otoFeed) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.buf) == 0 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	n := copy(p, f.buf)
	f.buf = f.buf[n:]
	return n, nil
}

type OtoSoundBackend struct {
	ctx    *oto.Context
	player oto.Player
	feed   *otoFeed
	log    *slog.Logger
	rate   int
}

func NewOtoSoundBackend(log *slog.Logger) (*OtoSoundBackend, error) {
	feed := &otoFeed{}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   44100,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	player := ctx.NewPlayer(feed)
	player.Play()
	return &OtoSoundBackend{ctx: ctx, player: player, feed: feed, log: log, rate: 44100}, nil
}

func (o *OtoSoundBackend) Play(samples []int16, sampleRate int) {
	if sampleRate != o.rate {
		o.log.Warn("oto backend: sample rate change mid-stream not supported, ignoring", "requested", sampleRate)
	}
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	o.feed.push(buf)
}

func (o *OtoSoundBackend) Close() {
	o.player.Close()
}

var _ io.Reader = (*otoFeed)(nil)
