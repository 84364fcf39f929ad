package tone

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-audioedit/dsp/audio"
	"github.com/cwbudde/algo-audioedit/dsp/core"
	"github.com/cwbudde/algo-audioedit/dsp/filter/biquad"
)

const (
	// DefaultBassFreq is the bass shelf corner in Hz.
	DefaultBassFreq = 100.0
	// DefaultTrebleFreq is the treble shelf corner in Hz.
	DefaultTrebleFreq = 3000.0
	// DefaultQ is the shelf quality factor.
	DefaultQ = 0.707
)

// ErrInvalidFrequency indicates a corner outside (0, Nyquist).
var ErrInvalidFrequency = errors.New("tone: frequency must be in (0, nyquist)")

// Kind selects the shelf.
type Kind int

const (
	// Bass boosts or cuts below the corner.
	Bass Kind = iota
	// Treble boosts or cuts above the corner.
	Treble
)

func (k Kind) String() string {
	if k == Treble {
		return "treble"
	}

	return "bass"
}

// ParseKind accepts "bass" or "treble", case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bass":
		return Bass, nil
	case "treble":
		return Treble, nil
	default:
		return 0, fmt.Errorf("tone: unknown kind %q", s)
	}
}

// DefaultFreq returns the corner used when none is given.
func (k Kind) DefaultFreq() float64 {
	if k == Treble {
		return DefaultTrebleFreq
	}

	return DefaultBassFreq
}

// LowShelf designs a low-shelf biquad with gain in dB.
func LowShelf(freq, gainDB, q, sampleRate float64) (biquad.Coefficients, error) {
	w0, err := normalizedW0(freq, sampleRate)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	cw, a, beta := shelfTerms(w0, gainDB, q)

	return normalize(
		a*((a+1)-(a-1)*cw+beta),
		2*a*((a-1)-(a+1)*cw),
		a*((a+1)-(a-1)*cw-beta),
		(a+1)+(a-1)*cw+beta,
		-2*((a-1)+(a+1)*cw),
		(a+1)+(a-1)*cw-beta,
	), nil
}

// HighShelf designs a high-shelf biquad with gain in dB.
func HighShelf(freq, gainDB, q, sampleRate float64) (biquad.Coefficients, error) {
	w0, err := normalizedW0(freq, sampleRate)
	if err != nil {
		return biquad.Coefficients{}, err
	}

	cw, a, beta := shelfTerms(w0, gainDB, q)

	return normalize(
		a*((a+1)+(a-1)*cw+beta),
		-2*a*((a-1)+(a+1)*cw),
		a*((a+1)+(a-1)*cw-beta),
		(a+1)-(a-1)*cw+beta,
		2*((a-1)-(a+1)*cw),
		(a+1)-(a-1)*cw-beta,
	), nil
}

func shelfTerms(w0, gainDB, q float64) (cw, a, beta float64) {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		q = DefaultQ
	}

	alpha := math.Sin(w0) / (2 * q)
	a = core.DBToLinear(gainDB / 2)

	return math.Cos(w0), a, 2 * math.Sqrt(a) * alpha
}

func normalizedW0(freq, sampleRate float64) (float64, error) {
	if sampleRate <= 0 || freq <= 0 || freq >= sampleRate/2 || math.IsNaN(freq) {
		return 0, fmt.Errorf("%w: %g Hz at %g Hz", ErrInvalidFrequency, freq, sampleRate)
	}

	return 2 * math.Pi * freq / sampleRate, nil
}

func normalize(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}

// Design returns the shelf coefficients for kind. A non-positive freq uses
// the kind's default corner and a non-positive q uses DefaultQ.
func Design(kind Kind, gainDB, freq, q, sampleRate float64) (biquad.Coefficients, error) {
	if freq <= 0 {
		freq = kind.DefaultFreq()
	}

	if kind == Treble {
		return HighShelf(freq, gainDB, q, sampleRate)
	}

	return LowShelf(freq, gainDB, q, sampleRate)
}

// Apply filters every channel of every take of b and clamps the result to
// [-1, 1]. Each channel starts from zero filter state.
func Apply(b *audio.Buffer, kind Kind, gainDB, freq, q float64) (*audio.Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("tone: %w", err)
	}

	c, err := Design(kind, gainDB, freq, q, float64(b.SampleRate))
	if err != nil {
		return nil, err
	}

	out := b.Clone()
	sec := biquad.NewSection(c)

	for _, take := range out.Samples {
		for _, ch := range take {
			sec.Reset()
			sec.ProcessBlock(ch)

			for i, v := range ch {
				ch[i] = core.Clamp(v, -1, 1)
			}
		}
	}

	return out, nil
}
