package stft

import (
	"fmt"
	"math"
	"sync"

	"github.com/cwbudde/algo-audioedit/dsp/window"
	algofft "github.com/cwbudde/algo-fft"
)

// envelopeFloor is the smallest summed squared window Inverse accepts.
const envelopeFloor = 1e-11

// PadMode selects how the signal is extended by n_fft/2 at both ends.
type PadMode int

const (
	// PadZero extends with zeros.
	PadZero PadMode = iota
	// PadReflect mirrors the signal around its first and last samples.
	PadReflect
)

func (m PadMode) String() string {
	if m == PadReflect {
		return "reflect"
	}

	return "zero"
}

type config struct {
	winLength int
	hop       int
	pad       PadMode
}

// Option configures a Transform.
type Option func(*config)

// WithWinLength sets the analysis window length. Non-positive values keep
// the default, n_fft.
func WithWinLength(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.winLength = n
		}
	}
}

// WithHopLength sets the frame advance. Non-positive values keep the
// default, max(1, win_length/4).
func WithHopLength(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.hop = n
		}
	}
}

// WithPadMode selects the edge padding.
func WithPadMode(m PadMode) Option {
	return func(cfg *config) {
		cfg.pad = m
	}
}

// Transform is a configured STFT/ISTFT pair. It is safe for concurrent use.
type Transform struct {
	nFFT      int
	winLength int
	hop       int
	pad       PadMode

	window []float64
	plans  sync.Pool
}

// New creates a Transform with an FFT size of nFFT.
func New(nFFT int, opts ...Option) (*Transform, error) {
	if nFFT <= 0 {
		return nil, &ParamError{Param: "n_fft", Value: nFFT}
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.winLength == 0 {
		cfg.winLength = nFFT
	}

	if cfg.winLength > nFFT {
		return nil, &ParamError{Param: "win_length", Value: cfg.winLength}
	}

	if cfg.hop == 0 {
		cfg.hop = max(1, cfg.winLength/4)
	}

	hann, err := window.Hann(cfg.winLength, window.WithPeriodic())
	if err != nil {
		return nil, fmt.Errorf("stft: %w", err)
	}

	centred, err := window.Centered(hann, nFFT)
	if err != nil {
		return nil, fmt.Errorf("stft: %w", err)
	}

	plan, err := algofft.NewPlan64(nFFT)
	if err != nil {
		return nil, fmt.Errorf("stft: failed to create FFT plan: %w", err)
	}

	t := &Transform{
		nFFT:      nFFT,
		winLength: cfg.winLength,
		hop:       cfg.hop,
		pad:       cfg.pad,
		window:    centred,
	}
	t.plans.Put(plan)

	return t, nil
}

// NFFT returns the FFT size.
func (t *Transform) NFFT() int { return t.nFFT }

// WinLength returns the window length.
func (t *Transform) WinLength() int { return t.winLength }

// HopLength returns the frame advance.
func (t *Transform) HopLength() int { return t.hop }

// Bins returns the number of frequency bins per frame, n_fft/2+1.
func (t *Transform) Bins() int { return t.nFFT/2 + 1 }

// NumFrames returns the frame count Forward produces for n samples.
func (t *Transform) NumFrames(n int) int {
	padded := max(n, 0) + 2*(t.nFFT/2)
	if padded < t.nFFT {
		return 0
	}

	return 1 + (padded-t.nFFT)/t.hop
}

// Window returns a copy of the n_fft-long analysis window.
func (t *Transform) Window() []float64 {
	out := make([]float64, len(t.window))
	copy(out, t.window)

	return out
}

func (t *Transform) getPlan() (*algofft.Plan[complex128], error) {
	if p, ok := t.plans.Get().(*algofft.Plan[complex128]); ok {
		return p, nil
	}

	plan, err := algofft.NewPlan64(t.nFFT)
	if err != nil {
		return nil, fmt.Errorf("stft: failed to create FFT plan: %w", err)
	}

	return plan, nil
}

// Forward computes the STFT of each channel. All channels must share one
// length. The caller owns the result and should Release it.
func (t *Transform) Forward(channels [][]float64) (*Spectrogram, error) {
	n := 0
	if len(channels) > 0 {
		n = len(channels[0])
	}

	for c, ch := range channels {
		if len(ch) != n {
			return nil, fmt.Errorf("%w: channel %d has %d samples, want %d", ErrShapeMismatch, c, len(ch), n)
		}
	}

	plan, err := t.getPlan()
	if err != nil {
		return nil, err
	}
	defer t.plans.Put(plan)

	buf := getFrame(t.nFFT)
	defer putFrame(buf)

	frames := t.NumFrames(n)
	spec := NewSpectrogram(len(channels), frames, t.Bins())
	half := t.nFFT / 2

	for c, ch := range channels {
		for f := range frames {
			start := f*t.hop - half
			for i, w := range t.window {
				buf.data[i] = complex(w*t.sample(ch, start+i), 0)
			}

			if err := plan.Forward(buf.data, buf.data); err != nil {
				spec.Release()
				return nil, fmt.Errorf("stft: forward FFT failed: %w", err)
			}

			copy(spec.Frames[c][f], buf.data[:spec.Bins])
		}
	}

	return spec, nil
}

// sample reads ch at i, applying the configured edge padding.
func (t *Transform) sample(ch []float64, i int) float64 {
	n := len(ch)
	if i >= 0 && i < n {
		return ch[i]
	}

	if t.pad != PadReflect || n < 2 {
		return 0
	}

	if i < 0 {
		i = -i
	} else {
		i = 2*(n-1) - i
	}

	if i < 0 || i >= n {
		return 0
	}

	return ch[i]
}

// Inverse overlap-adds the frames of spec back to length samples per
// channel, undoing the centre padding. Samples past the end of the last
// frame are zero.
func (t *Transform) Inverse(spec *Spectrogram, length int) ([][]float64, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: nil spectrogram", ErrShapeMismatch)
	}

	if spec.Bins != t.Bins() {
		return nil, fmt.Errorf("%w: %d bins, want %d", ErrShapeMismatch, spec.Bins, t.Bins())
	}

	length = max(length, 0)
	frames := spec.NumFrames()

	out := make([][]float64, spec.Channels())
	if frames == 0 {
		for c := range out {
			out[c] = make([]float64, length)
		}

		return out, nil
	}

	olaLen := t.nFFT + t.hop*(frames-1)
	start := t.nFFT / 2
	end := min(start+length, olaLen)

	env := make([]float64, olaLen)
	for f := range frames {
		off := f * t.hop
		for i, w := range t.window {
			env[off+i] += w * w
		}
	}

	for i := start; i < end; i++ {
		if math.Abs(env[i]) < envelopeFloor {
			return nil, fmt.Errorf("%w at sample %d (n_fft=%d win_length=%d hop=%d)",
				ErrWindowEnvelope, i-start, t.nFFT, t.winLength, t.hop)
		}
	}

	plan, err := t.getPlan()
	if err != nil {
		return nil, err
	}
	defer t.plans.Put(plan)

	buf := getFrame(t.nFFT)
	defer putFrame(buf)

	ola := make([]float64, olaLen)
	bins := t.Bins()

	for c := range out {
		clear(ola)

		for f, frame := range spec.Frames[c] {
			hermitian(buf.data, frame, t.nFFT, bins)

			if err := plan.Inverse(buf.data, buf.data); err != nil {
				return nil, fmt.Errorf("stft: inverse FFT failed: %w", err)
			}

			off := f * t.hop
			for i, w := range t.window {
				ola[off+i] += real(buf.data[i]) * w
			}
		}

		y := make([]float64, length)
		for i := start; i < end; i++ {
			y[i-start] = ola[i] / env[i]
		}

		out[c] = y
	}

	return out, nil
}

// hermitian expands a one-sided spectrum into a full n-point spectrum whose
// inverse is real. DC and Nyquist imaginary parts are dropped.
func hermitian(dst, onesided []complex128, n, bins int) {
	clear(dst)
	copy(dst, onesided[:bins])

	dst[0] = complex(real(dst[0]), 0)
	if n%2 == 0 {
		dst[n/2] = complex(real(dst[n/2]), 0)
	}

	for k := 1; k < bins; k++ {
		if n-k >= bins {
			v := onesided[k]
			dst[n-k] = complex(real(v), -imag(v))
		}
	}
}

type frameBuf struct {
	data []complex128
}

var framePool = sync.Pool{
	New: func() any { return &frameBuf{} },
}

func getFrame(n int) *frameBuf {
	buf := framePool.Get().(*frameBuf)
	if cap(buf.data) < n {
		buf.data = make([]complex128, n)
	} else {
		buf.data = buf.data[:n]
	}

	return buf
}

func putFrame(buf *frameBuf) {
	framePool.Put(buf)
}
