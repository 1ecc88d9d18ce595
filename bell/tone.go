package bell

import (
	"math"

	"github.com/gopxl/beep"
)

const (
	chimeAmplitude = 0.2
	attackSeconds  = 0.005
	decayRate      = 30.0
)

// chime is a sine with a short attack and exponential decay
type chime struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

func newChime(sr beep.SampleRate, freq float64) *chime {
	return &chime{sr: sr, freq: freq}
}

func (c *chime) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(c.pos) / float64(c.sr)

		envelope := math.Min(t/attackSeconds, 1.0) * math.Exp(-t*decayRate)
		sample := chimeAmplitude * envelope * math.Sin(2*math.Pi*c.freq*t)

		samples[i][0] = sample
		samples[i][1] = sample
		c.pos++
	}
	return len(samples), true
}

func (c *chime) Err() error {
	return nil
}
