package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

var hannCoeffs = []float64{0.5, -0.5}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Hann returns Hann window coefficients.
func Hann(size int, opts ...Option) ([]float64, error) {
	if err := validateLength(size); err != nil {
		return nil, err
	}

	var cfg config

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, size)
	for i := range out {
		out[i] = cosineFromCoeffs(samplePosition(i, size, cfg.periodic), hannCoeffs)
	}

	return out, nil
}

// Centered places coeffs in the middle of a zero-filled frame of length n.
// The left offset is (n-len(coeffs))/2, which is how shorter analysis
// windows are framed inside a longer FFT.
func Centered(coeffs []float64, n int) ([]float64, error) {
	if err := validateLength(n); err != nil {
		return nil, err
	}

	if len(coeffs) > n {
		return nil, errWindowTooLong
	}

	out := make([]float64, n)
	copy(out[(n-len(coeffs))/2:], coeffs)

	return out, nil
}

// ApplyCoefficients multiplies samples with coefficients into dst.
func ApplyCoefficients(dst, samples, coeffs []float64) error {
	if len(samples) != len(coeffs) || len(dst) != len(samples) {
		return errMismatchedLength
	}

	vecmath.MulBlock(dst, samples, coeffs)

	return nil
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}
