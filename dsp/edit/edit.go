package edit

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-audioedit/dsp/align"
	"github.com/cwbudde/algo-audioedit/dsp/audio"
	"github.com/cwbudde/algo-audioedit/dsp/effects/pitch"
	"github.com/cwbudde/algo-audioedit/dsp/effects/stretch"
	"github.com/cwbudde/algo-audioedit/dsp/filter/tone"
	"github.com/cwbudde/algo-audioedit/dsp/mix"
)

// ErrInvalidChange indicates a sample-rate change that leaves no valid rate.
var ErrInvalidChange = errors.New("edit: sample rate change must yield a positive rate")

// STFTParams configures the phase vocoder. Non-positive fields use defaults:
// NFFT 512, WinLength NFFT, HopLength max(1, WinLength/4).
type STFTParams struct {
	NFFT      int
	WinLength int
	HopLength int
}

// DefaultSTFT returns params with every field unset.
func DefaultSTFT() STFTParams {
	return STFTParams{NFFT: -1, WinLength: -1, HopLength: -1}
}

func (p STFTParams) stretchOptions() []stretch.Option {
	return []stretch.Option{
		stretch.WithFFTSize(p.NFFT),
		stretch.WithWinLength(p.WinLength),
		stretch.WithHopLength(p.HopLength),
	}
}

// PitchParams configures Pitch.
type PitchParams struct {
	Steps         int
	BinsPerOctave int
	STFTParams
}

// Info returns the duration of b in seconds, its sample rate and whether
// take 0 is mono.
func Info(b *audio.Buffer) (seconds float64, sampleRate int, mono bool) {
	if b == nil {
		return 0, 0, false
	}

	return b.Seconds(), b.SampleRate, b.IsMono()
}

// SampleRate relabels b with int(rate*change) without touching the samples,
// which changes pitch and speed together. The result shares storage with b.
func SampleRate(b *audio.Buffer, change float64) (*audio.Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("edit: %w", err)
	}

	rate := int(float64(b.SampleRate) * change)
	if rate <= 0 {
		return nil, fmt.Errorf("%w: %d * %g", ErrInvalidChange, b.SampleRate, change)
	}

	return b.WithSampleRate(rate), nil
}

// Pitch shifts b by p.Steps and returns a canonical mono buffer.
func Pitch(b *audio.Buffer, p PitchParams) (*audio.Buffer, error) {
	opts := []pitch.Option{
		pitch.WithBinsPerOctave(p.BinsPerOctave),
		pitch.WithFFTSize(p.NFFT),
		pitch.WithWinLength(p.WinLength),
		pitch.WithHopLength(p.HopLength),
	}

	s, err := pitch.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("edit: %w", err)
	}

	return s.Shift(b, p.Steps)
}

// SpeedFactor quantises speed to hundredths, rounding down.
func SpeedFactor(speed float64) float64 {
	return math.Floor(speed*100) / 100
}

// Speed changes the duration of b by SpeedFactor(speed) without changing its
// pitch: 2 doubles the length, 0.5 halves it. A factor that is not positive
// returns a copy. All channels of take 0 are kept.
func Speed(b *audio.Buffer, speed float64, p STFTParams) (*audio.Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("edit: %w", err)
	}

	f := SpeedFactor(speed)
	if f <= 0 {
		return b.Clone(), nil
	}

	s, err := stretch.New(p.stretchOptions()...)
	if err != nil {
		return nil, fmt.Errorf("edit: %w", err)
	}

	return s.StretchBuffer(b, 1/f)
}

// BassTreble applies a shelving boost or cut. A non-positive centralFreq
// selects 100 Hz for bass and 3000 Hz for treble; a non-positive q
// selects 0.707.
func BassTreble(b *audio.Buffer, kind tone.Kind, gainDB, centralFreq, q float64) (*audio.Buffer, error) {
	return tone.Apply(b, kind, gainDB, centralFreq, q)
}

// Mix sums tracks on a shared timeline. See mix.Mix.
func Mix(tracks []mix.Track, constantVolume bool, opts ...align.Option) (*audio.Buffer, error) {
	return mix.Mix(tracks, constantVolume, opts...)
}

// Concat joins buffers end to end. See mix.Concat.
func Concat(buffers []*audio.Buffer, opts ...align.Option) (*audio.Buffer, error) {
	return mix.Concat(buffers, opts...)
}

// MixNumbered mixes keyed tracks 1, 2, 3, ... up to the first missing key.
func MixNumbered(inputs map[int]mix.Track, constantVolume bool, opts ...align.Option) (*audio.Buffer, error) {
	return mix.Mix(Numbered(inputs), constantVolume, opts...)
}

// ConcatNumbered joins keyed buffers 1, 2, 3, ... up to the first missing key.
func ConcatNumbered(inputs map[int]*audio.Buffer, opts ...align.Option) (*audio.Buffer, error) {
	return mix.Concat(Numbered(inputs), opts...)
}

// Numbered returns inputs[1], inputs[2], ... stopping before the first
// missing index. Keys after a gap are ignored.
func Numbered[T any](inputs map[int]T) []T {
	var out []T

	for i := 1; ; i++ {
		v, ok := inputs[i]
		if !ok {
			return out
		}

		out = append(out, v)
	}
}
