package stretch

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-audioedit/dsp/audio"
	"github.com/cwbudde/algo-audioedit/dsp/spectrum"
	"github.com/cwbudde/algo-audioedit/dsp/stft"
)

// DefaultFFTSize is the FFT size used when none is configured.
const DefaultFFTSize = 512

type config struct {
	nFFT      int
	winLength int
	hopLength int
	pad       stft.PadMode
}

// Option configures a Stretcher.
type Option func(*config)

// WithFFTSize sets the FFT size. Non-positive values keep DefaultFFTSize.
func WithFFTSize(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.nFFT = n
		}
	}
}

// WithWinLength sets the window length. Non-positive values use the FFT size.
func WithWinLength(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.winLength = n
		}
	}
}

// WithHopLength sets the hop length. Non-positive values use
// max(1, win_length/4).
func WithHopLength(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.hopLength = n
		}
	}
}

// WithPadMode selects the STFT edge padding.
func WithPadMode(m stft.PadMode) Option {
	return func(cfg *config) {
		cfg.pad = m
	}
}

// Stretcher is a phase-vocoder time stretcher. It holds only immutable
// configuration and is safe for concurrent use.
type Stretcher struct {
	tr    *stft.Transform
	omega []float64
}

// New creates a Stretcher.
func New(opts ...Option) (*Stretcher, error) {
	cfg := config{nFFT: DefaultFFTSize}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	tr, err := stft.New(cfg.nFFT,
		stft.WithWinLength(cfg.winLength),
		stft.WithHopLength(cfg.hopLength),
		stft.WithPadMode(cfg.pad),
	)
	if err != nil {
		return nil, fmt.Errorf("stretch: %w", err)
	}

	omega := make([]float64, tr.Bins())
	for k := range omega {
		omega[k] = 2 * math.Pi * float64(tr.HopLength()) * float64(k) / float64(tr.NFFT())
	}

	return &Stretcher{tr: tr, omega: omega}, nil
}

// FFTSize returns the configured FFT size.
func (s *Stretcher) FFTSize() int { return s.tr.NFFT() }

// WinLength returns the configured window length.
func (s *Stretcher) WinLength() int { return s.tr.WinLength() }

// HopLength returns the configured hop length.
func (s *Stretcher) HopLength() int { return s.tr.HopLength() }

// OutputLen returns the length Stretch produces for n input samples:
// n/rate rounded half to even.
func OutputLen(n int, rate float64) int {
	if !validRate(rate) {
		return n
	}

	return int(math.RoundToEven(float64(n) / rate))
}

func validRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0) && !math.IsNaN(rate)
}

// Stretch time-stretches every channel by rate. All channels must have the
// same length. A non-positive rate, or a signal too short for two STFT
// frames, returns a copy of the input.
func (s *Stretcher) Stretch(channels [][]float64, rate float64) ([][]float64, error) {
	if !validRate(rate) {
		return audio.CopyChannels(channels), nil
	}

	n := 0
	if len(channels) > 0 {
		n = len(channels[0])
	}

	if s.tr.NumFrames(n) < 2 {
		return audio.CopyChannels(channels), nil
	}

	in, err := s.tr.Forward(channels)
	if err != nil {
		return nil, fmt.Errorf("stretch: %w", err)
	}
	defer in.Release()

	out := s.vocode(in, rate)
	defer out.Release()

	y, err := s.tr.Inverse(out, OutputLen(n, rate))
	if err != nil {
		return nil, fmt.Errorf("stretch: %w", err)
	}

	return y, nil
}

// vocode resamples the frames of in at fractional steps of rate.
func (s *Stretcher) vocode(in *stft.Spectrogram, rate float64) *stft.Spectrogram {
	frames := in.NumFrames()
	last := float64(frames - 1)

	steps := 0
	for float64(steps)*rate < last {
		steps++
	}

	out := stft.NewSpectrogram(in.Channels(), steps, in.Bins)
	phaseAcc := make([]float64, in.Bins)

	for c := range in.Frames {
		src := in.Frames[c]
		dst := out.Frames[c]

		spectrum.PhaseInto(phaseAcc, src[0])

		for i := range steps {
			ts := float64(i) * rate
			t0 := int(math.Floor(ts))
			frac := ts - float64(t0)

			s0 := src[t0]
			s1 := src[t0+1]

			for k := range phaseAcc {
				mag := (1-frac)*cmplx.Abs(s0[k]) + frac*cmplx.Abs(s1[k])
				dphase := spectrum.WrapPhase(cmplx.Phase(s1[k]) - cmplx.Phase(s0[k]) - s.omega[k])

				phaseAcc[k] += s.omega[k] + dphase
				dst[i][k] = cmplx.Rect(mag, phaseAcc[k])
			}
		}
	}

	return out
}

// StretchBuffer stretches take 0 of b and keeps its sample rate.
func (s *Stretcher) StretchBuffer(b *audio.Buffer, rate float64) (*audio.Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("stretch: %w", err)
	}

	y, err := s.Stretch(b.Take(0), rate)
	if err != nil {
		return nil, err
	}

	return &audio.Buffer{Samples: [][][]float64{y}, SampleRate: b.SampleRate}, nil
}
