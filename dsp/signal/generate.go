package signal

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/cwbudde/algo-audioedit/dsp/audio"
	"github.com/cwbudde/algo-audioedit/dsp/core"
)

// ErrInvalidParam is wrapped by every argument error in this package.
var ErrInvalidParam = errors.New("signal: invalid parameter")

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator. Defaults are 44.1 kHz mono, seed 1.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Samples converts d to a sample count at the generator rate.
func (g *Generator) Samples(d time.Duration) int {
	return int(math.Round(d.Seconds() * g.cfg.SampleRate))
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	return g.Multisine([]float64{freqHz}, amplitude, samples)
}

// Multisine sums equal-amplitude sines and scales the sum so that its
// theoretical peak is amplitude.
func (g *Generator) Multisine(freqsHz []float64, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("%w: sine samples must be > 0: %d", ErrInvalidParam, samples)
	}
	if len(freqsHz) == 0 {
		return nil, fmt.Errorf("%w: no sine frequencies", ErrInvalidParam)
	}

	out := make([]float64, samples)
	scale := amplitude / float64(len(freqsHz))
	for _, f := range freqsHz {
		if f < 0 || f >= g.cfg.SampleRate/2 {
			return nil, fmt.Errorf("%w: frequency %g Hz outside [0, %g)", ErrInvalidParam, f, g.cfg.SampleRate/2)
		}

		step := 2 * math.Pi * f / g.cfg.SampleRate
		for i := range out {
			out[i] += scale * math.Sin(step*float64(i))
		}
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("%w: noise samples must be > 0: %d", ErrInvalidParam, samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("%w: noise amplitude must be >= 0: %f", ErrInvalidParam, amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Tone returns a buffer of duration d holding a Multisine of freqsHz on
// every configured channel.
func (g *Generator) Tone(freqsHz []float64, amplitude float64, d time.Duration) (*audio.Buffer, error) {
	x, err := g.Multisine(freqsHz, amplitude, g.Samples(d))
	if err != nil {
		return nil, err
	}

	return g.fill(x), nil
}

// Noise returns a buffer of duration d with the same white noise on every
// configured channel.
func (g *Generator) Noise(amplitude float64, d time.Duration) (*audio.Buffer, error) {
	x, err := g.WhiteNoise(amplitude, g.Samples(d))
	if err != nil {
		return nil, err
	}

	return g.fill(x), nil
}

// Silence returns a zero buffer of duration d on every configured channel.
func (g *Generator) Silence(d time.Duration) *audio.Buffer {
	return audio.New(1, g.cfg.Channels, g.Samples(d), int(math.Round(g.cfg.SampleRate)))
}

func (g *Generator) fill(x []float64) *audio.Buffer {
	chans := make([][]float64, max(g.cfg.Channels, 1))
	for c := range chans {
		chans[c] = x
	}

	return audio.FromChannels(int(math.Round(g.cfg.SampleRate)), chans...)
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("%w: normalize target peak must be >= 0: %f", ErrInvalidParam, targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: normalize input must not be empty", ErrInvalidParam)
	}

	out := make([]float64, len(data))
	scale := peakScale(core.PeakAbs(data), targetPeak)
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}

// NormalizeBuffer returns a copy of b scaled by one gain so that its loudest
// sample across all takes and channels reaches targetPeak.
func NormalizeBuffer(b *audio.Buffer, targetPeak float64) (*audio.Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("signal: %w", err)
	}
	if targetPeak < 0 {
		return nil, fmt.Errorf("%w: normalize target peak must be >= 0: %f", ErrInvalidParam, targetPeak)
	}

	peak := 0.0
	for _, take := range b.Samples {
		for _, ch := range take {
			peak = max(peak, core.PeakAbs(ch))
		}
	}

	out := b.Clone()
	scale := peakScale(peak, targetPeak)
	for _, take := range out.Samples {
		for _, ch := range take {
			for i := range ch {
				ch[i] *= scale
			}
		}
	}
	return out, nil
}

func peakScale(peak, target float64) float64 {
	if peak == 0 {
		return 0
	}
	return target / peak
}
