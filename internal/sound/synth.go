package sound

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/wav"
)

// Effect timing.
const (
	ClickFreq     = 880.0
	ClickDuration = 60 * time.Millisecond
	clickAttack   = 4 * time.Millisecond
	clickRelease  = 40 * time.Millisecond

	FootstepDuration = 90 * time.Millisecond
	footstepDecay    = 22 * time.Millisecond // exponential time constant
	footstepCutoff   = 900.0                 // Hz, one-pole low-pass

	// FootstepSampleGain scales the shared click sample when reused for steps.
	FootstepSampleGain = 0.35

	maxRender = 2 * time.Second
)

// sine is a fixed-length sine oscillator.
type sine struct {
	freq     float64
	phase    float64
	position int
	length   int
	rate     beep.SampleRate
}

func newSine(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &sine{freq: freq, length: rate.N(d), rate: rate}
}

func (s *sine) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.position >= s.length {
			return i, i > 0
		}
		v := math.Sin(2 * math.Pi * s.phase)
		samples[i][0], samples[i][1] = v, v
		s.phase += s.freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *sine) Err() error { return nil }

// envelope applies a linear attack and release.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{streamer: s, attack: rate.N(attack), release: rate.N(release), total: rate.N(d)}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	releaseStart := e.total - e.release
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.attack > 0 && e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if e.release > 0 && e.position >= releaseStart {
			vol = math.Max(0, float64(e.total-e.position)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s with a linear gain; zero gain is silent.
func newVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}

// Click is the 880 Hz UI blip.
func Click(rate beep.SampleRate) beep.Streamer {
	osc := newSine(ClickFreq, ClickDuration, rate)
	return newVolume(newEnvelope(osc, ClickDuration, clickAttack, clickRelease, rate), 0.5)
}

// Footstep is a low-passed noise burst with exponential decay.
func Footstep(rate beep.SampleRate, rng *rand.Rand) beep.Streamer {
	length := rate.N(FootstepDuration)
	decay := float64(rate.N(footstepDecay))
	dt := 1 / float64(rate)
	rc := 1 / (2 * math.Pi * footstepCutoff)
	alpha := dt / (rc + dt)

	pos := 0
	y := 0.0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			if pos >= length {
				return i, i > 0
			}
			x := rng.Float64()*2 - 1
			y += alpha * (x - y)
			v := y * math.Exp(-float64(pos)/decay) * 1.8
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return len(samples), true
	})
}

// Decode reads a WAV file and resamples it to rate.
func Decode(data []byte, rate beep.SampleRate) (beep.Streamer, error) {
	s, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if format.SampleRate == rate {
		return s, nil
	}
	return beep.Resample(4, format.SampleRate, rate, s), nil
}

// Render drains s into 16-bit little-endian stereo PCM at rate.
func Render(s beep.Streamer, rate beep.SampleRate) []byte {
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	limit := rate.N(maxRender)
	buf := make([][2]float64, 512)
	frame := make([]byte, format.Width())
	var out []byte
	total := 0
	for total < limit {
		n, ok := s.Stream(buf)
		for i := 0; i < n && total < limit; i++ {
			format.EncodeSigned(frame, clampSample(buf[i]))
			out = append(out, frame...)
			total++
		}
		if !ok {
			break
		}
	}
	return out
}

func clampSample(s [2]float64) [2]float64 {
	for c := range s {
		s[c] = math.Max(-1, math.Min(1, s[c]))
	}
	return s
}
