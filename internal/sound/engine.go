// Package sound plays the client's feedback effects through Ebitengine's
// audio context.
package sound

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"go.uber.org/zap"
)

// DefaultSampleRate is used when no audio context exists yet.
const DefaultSampleRate = 48000

// Engine renders effects once and replays the cached PCM. The audio context
// is acquired on first play; if that fails the engine stays silent.
type Engine struct {
	mu       sync.Mutex
	once     sync.Once
	ctx      *audio.Context
	rate     beep.SampleRate
	disabled bool

	volume func() float64
	rng    *rand.Rand
	log    *zap.Logger

	sample []byte // click.wav as loaded, decoded lazily
	click  []byte
	step   []byte
}

// New creates an idle engine. volume is read on every play; nil means 1.
func New(volume func() float64, log *zap.Logger) *Engine {
	if volume == nil {
		volume = func() float64 { return 1 }
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		rate:   DefaultSampleRate,
		volume: volume,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404
		log:    log,
	}
}

// SetSample installs click.wav bytes. Both effects prefer it over synthesis.
// Invalid data is ignored and synthesis stays in use.
func (e *Engine) SetSample(data []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sample = data
	e.click, e.step = nil, nil
}

// Enabled reports whether audio is still usable.
func (e *Engine) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.disabled
}

// PlayClick plays the UI click.
func (e *Engine) PlayClick() { e.play(false) }

// PlayFootstep plays one footstep.
func (e *Engine) PlayFootstep() { e.play(true) }

func (e *Engine) play(footstep bool) {
	vol := e.volume()
	if vol <= 0 {
		return
	}
	if !e.acquire() {
		return
	}

	e.mu.Lock()
	pcm := e.pcm(footstep)
	ctx := e.ctx
	e.mu.Unlock()
	if len(pcm) == 0 {
		return
	}

	p := ctx.NewPlayerFromBytes(pcm)
	p.SetVolume(vol)
	p.Play()
}

// acquire lazily obtains the audio context. It returns false once audio has
// been disabled for the session.
func (e *Engine) acquire() bool {
	e.once.Do(func() {
		ctx, err := openContext(DefaultSampleRate)
		e.mu.Lock()
		defer e.mu.Unlock()
		if err != nil {
			e.disabled = true
			e.log.Debug("audio disabled", zap.Error(err))
			return
		}
		e.ctx = ctx
		e.rate = beep.SampleRate(ctx.SampleRate())
	})
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.disabled && e.ctx != nil
}

func openContext(rate int) (ctx *audio.Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("audio context: %v", r)
		}
	}()
	if c := audio.CurrentContext(); c != nil {
		return c, nil
	}
	return audio.NewContext(rate), nil
}

// pcm returns the cached PCM for an effect, rendering it on first use.
// Callers hold e.mu.
func (e *Engine) pcm(footstep bool) []byte {
	if footstep {
		if e.step == nil {
			e.step = e.render(true)
		}
		return e.step
	}
	if e.click == nil {
		e.click = e.render(false)
	}
	return e.click
}

func (e *Engine) render(footstep bool) []byte {
	if len(e.sample) > 0 {
		s, err := Decode(e.sample, e.rate)
		if err == nil {
			gain := 1.0
			if footstep {
				gain = FootstepSampleGain
			}
			return Render(newVolume(s, gain), e.rate)
		}
		e.log.Debug("click sample unusable, synthesizing", zap.Error(err))
		e.sample = nil
	}
	if footstep {
		return Render(Footstep(e.rate, e.rng), e.rate)
	}
	return Render(Click(e.rate), e.rate)
}
