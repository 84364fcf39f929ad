package resample

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRatio indicates an invalid up/down ratio.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
)

// Quality controls default anti-aliasing filter settings.
type Quality int

const (
	// QualityFast prioritizes lower CPU usage.
	QualityFast Quality = iota
	// QualityBalanced is the default quality/performance trade-off.
	QualityBalanced
	// QualityBest prioritizes stopband attenuation and passband flatness.
	QualityBest
)

func (q Quality) String() string {
	switch q {
	case QualityFast:
		return "fast"
	case QualityBest:
		return "best"
	default:
		return "balanced"
	}
}

// profile holds the filter defaults of one quality mode.
type profile struct {
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
}

func qualityProfile(q Quality) profile {
	switch q {
	case QualityFast:
		return profile{tapsPerPhase: 16, cutoffScale: 0.88, kaiserBeta: 5.0}
	case QualityBest:
		return profile{tapsPerPhase: 64, cutoffScale: 0.96, kaiserBeta: 9.0}
	default:
		return profile{tapsPerPhase: 32, cutoffScale: 0.92, kaiserBeta: 7.5}
	}
}

type config struct {
	quality      Quality
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
}

// Option configures the resampler.
type Option func(*config)

// WithQuality selects a predefined anti-aliasing quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithTapsPerPhase overrides taps per polyphase branch.
func WithTapsPerPhase(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.tapsPerPhase = n
		}
	}
}

// WithCutoffScale overrides normalized cutoff scaling in range (0, 1].
// 1.0 equals the theoretical anti-aliasing cutoff.
func WithCutoffScale(v float64) Option {
	return func(cfg *config) {
		if v > 0 && v <= 1 {
			cfg.cutoffScale = v
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{quality: QualityBalanced}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	p := qualityProfile(cfg.quality)
	if cfg.tapsPerPhase <= 0 {
		cfg.tapsPerPhase = p.tapsPerPhase
	}

	if cfg.cutoffScale <= 0 || cfg.cutoffScale > 1 {
		cfg.cutoffScale = p.cutoffScale
	}

	if cfg.kaiserBeta <= 0 {
		cfg.kaiserBeta = p.kaiserBeta
	}

	return cfg
}

// Resampler performs rational sample-rate conversion using a polyphase FIR.
// It holds only the designed filter, so one Resampler can convert any
// number of independent signals, concurrently.
type Resampler struct {
	up   int
	down int

	quality Quality

	nTaps  int
	phases [][]float64
}

// NewRational creates a resampler for ratio up/down.
func NewRational(up, down int, opts ...Option) (*Resampler, error) {
	if up <= 0 || down <= 0 {
		return nil, ErrInvalidRatio
	}

	g := gcd(up, down)
	up /= g
	down /= g

	cfg := newConfig(opts)

	phases, nTaps, err := designPolyphaseFIR(up, down, cfg)
	if err != nil {
		return nil, err
	}

	return &Resampler{
		up:      up,
		down:    down,
		quality: cfg.quality,
		nTaps:   nTaps,
		phases:  phases,
	}, nil
}

// NewForRates creates a resampler converting integer sample rates.
func NewForRates(inRate, outRate int, opts ...Option) (*Resampler, error) {
	if inRate <= 0 || outRate <= 0 {
		return nil, fmt.Errorf("%w: %d -> %d", ErrInvalidRate, inRate, outRate)
	}

	return NewRational(outRate, inRate, opts...)
}

// OutputLen returns ceil(n*outRate/inRate), the length Rates produces.
func OutputLen(n, inRate, outRate int) int {
	if n <= 0 || inRate <= 0 || outRate <= 0 {
		return 0
	}

	num := int64(n) * int64(outRate)
	return int((num + int64(inRate) - 1) / int64(inRate))
}

// Rates converts input from inRate to outRate in one shot.
//
// The filter delay is compensated so output sample j lines up with input
// time j*inRate/outRate. The result has exactly
// OutputLen(len(input), inRate, outRate) samples. Equal rates return a copy.
func Rates(input []float64, inRate, outRate int, opts ...Option) ([]float64, error) {
	if inRate <= 0 || outRate <= 0 {
		return nil, fmt.Errorf("%w: %d -> %d", ErrInvalidRate, inRate, outRate)
	}

	if inRate == outRate {
		out := make([]float64, len(input))
		copy(out, input)
		return out, nil
	}

	r, err := NewForRates(inRate, outRate, opts...)
	if err != nil {
		return nil, err
	}

	return r.Convert(input), nil
}

// Resample converts input using ratio up/down as a delay-compensated
// one-shot helper.
func Resample(input []float64, up, down int, opts ...Option) ([]float64, error) {
	r, err := NewRational(up, down, opts...)
	if err != nil {
		return nil, err
	}

	return r.Convert(input), nil
}

// Convert resamples a whole signal. The result has
// OutputLen(len(input), down, up) samples and is delay-compensated.
func (r *Resampler) Convert(input []float64) []float64 {
	want := OutputLen(len(input), r.down, r.up)
	out := make([]float64, want)

	// The prototype has odd length, so its centre tap sits on the grid.
	center := (r.nTaps - 1) / 2

	for j := range out {
		m := j*r.down + center
		idx := m / r.up

		var y float64

		for k, c := range r.phases[m%r.up] {
			i := idx - k
			if i < 0 {
				break
			}

			if i < len(input) {
				y += c * input[i]
			}
		}

		out[j] = y
	}

	return out
}

// Ratio returns reduced up/down conversion factors.
func (r *Resampler) Ratio() (up, down int) {
	return r.up, r.down
}

// Quality returns the configured quality mode.
func (r *Resampler) Quality() Quality {
	return r.quality
}
