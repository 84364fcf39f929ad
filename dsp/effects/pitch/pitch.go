package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-audioedit/dsp/audio"
	"github.com/cwbudde/algo-audioedit/dsp/effects/stretch"
	"github.com/cwbudde/algo-audioedit/dsp/interp"
)

// DefaultBinsPerOctave gives semitone steps.
const DefaultBinsPerOctave = 12

type config struct {
	binsPerOctave int
	resize        interp.Mode
	stretch       []stretch.Option
}

// Option configures a Shifter.
type Option func(*config)

// WithBinsPerOctave sets the number of steps per octave. Non-positive values
// keep DefaultBinsPerOctave.
func WithBinsPerOctave(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.binsPerOctave = n
		}
	}
}

// WithFFTSize sets the vocoder FFT size.
func WithFFTSize(n int) Option {
	return func(cfg *config) {
		cfg.stretch = append(cfg.stretch, stretch.WithFFTSize(n))
	}
}

// WithWinLength sets the vocoder window length.
func WithWinLength(n int) Option {
	return func(cfg *config) {
		cfg.stretch = append(cfg.stretch, stretch.WithWinLength(n))
	}
}

// WithHopLength sets the vocoder hop length.
func WithHopLength(n int) Option {
	return func(cfg *config) {
		cfg.stretch = append(cfg.stretch, stretch.WithHopLength(n))
	}
}

// WithResizeMode selects the kernel used to resample back to the input
// length. The default is interp.Linear.
func WithResizeMode(m interp.Mode) Option {
	return func(cfg *config) {
		cfg.resize = m
	}
}

// Shifter is a phase-vocoder pitch shifter. It is safe for concurrent use.
type Shifter struct {
	binsPerOctave int
	resize        interp.Mode
	stretcher     *stretch.Stretcher
}

// New creates a Shifter.
func New(opts ...Option) (*Shifter, error) {
	cfg := config{binsPerOctave: DefaultBinsPerOctave, resize: interp.Linear}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	st, err := stretch.New(cfg.stretch...)
	if err != nil {
		return nil, fmt.Errorf("pitch: %w", err)
	}

	return &Shifter{
		binsPerOctave: cfg.binsPerOctave,
		resize:        cfg.resize,
		stretcher:     st,
	}, nil
}

// BinsPerOctave returns the configured steps per octave.
func (s *Shifter) BinsPerOctave() int { return s.binsPerOctave }

// Ratio returns the frequency ratio of nSteps, 2^(nSteps/binsPerOctave).
func (s *Shifter) Ratio(nSteps int) float64 {
	return math.Pow(2, float64(nSteps)/float64(s.binsPerOctave))
}

// Shift moves the pitch of b by nSteps. The result has the input's sample
// count and sample rate but only its first channel of the first take.
func (s *Shifter) Shift(b *audio.Buffer, nSteps int) (*audio.Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("pitch: %w", err)
	}

	if nSteps == 0 {
		return audio.Canonical(b)
	}

	ch := b.Samples[0][0]

	stretched, err := s.stretcher.Stretch([][]float64{ch}, 1/s.Ratio(nSteps))
	if err != nil {
		return nil, fmt.Errorf("pitch: %w", err)
	}

	return audio.CanonicalFrom(interp.Resize(stretched[0], len(ch), s.resize), b.SampleRate), nil
}
