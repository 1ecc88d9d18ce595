// Package bell plays a short chime when the device sends a line.
package bell

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)

	speakerBuffer = 100 * time.Millisecond
	chimeLength   = 80 * time.Millisecond
	chimeFreqHz   = 880.0

	// DefaultInterval is the minimum gap between chimes. A device streaming
	// lines produces one chime per burst, not one per line
	DefaultInterval = 250 * time.Millisecond
)

// Bell is a rate limited audible notifier. A zero or uninitialized Bell is silent
type Bell struct {
	mu       sync.Mutex
	mixer    *beep.Mixer
	sink     func(beep.Streamer)
	interval time.Duration
	last     time.Time
	now      func() time.Time
	rung     int
	ready    bool
}

// New returns a bell that is silent until Initialize succeeds
func New(interval time.Duration) *Bell {
	if interval <= 0 {
		interval = DefaultInterval
	}
	b := &Bell{
		mixer:    &beep.Mixer{},
		interval: interval,
		now:      time.Now,
	}
	b.sink = b.play
	return b
}

// Initialize opens the audio device. Without one the bell stays silent
func (b *Bell) Initialize() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ready {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(speakerBuffer)); err != nil {
		return err
	}
	speaker.Play(b.mixer)
	b.ready = true
	return nil
}

// Notify rings unless a chime played within the interval
func (b *Bell) Notify() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.ready {
		return
	}
	now := b.now()
	if !b.last.IsZero() && now.Sub(b.last) < b.interval {
		return
	}
	b.last = now
	b.rung++
	b.sink(beep.Take(sampleRate.N(chimeLength), newChime(sampleRate, chimeFreqHz)))
}

// Rung returns how many chimes were queued
func (b *Bell) Rung() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rung
}

// Close silences pending chimes
func (b *Bell) Close() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.ready {
		return
	}
	speaker.Lock()
	b.mixer.Clear()
	speaker.Unlock()
	b.ready = false
}

func (b *Bell) play(s beep.Streamer) {
	speaker.Lock()
	b.mixer.Add(s)
	speaker.Unlock()
}
