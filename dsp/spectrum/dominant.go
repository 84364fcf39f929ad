package spectrum

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-audioedit/dsp/window"
	algofft "github.com/cwbudde/algo-fft"
)

var errEmptySignal = errors.New("spectrum: empty signal")

// DominantFrequency estimates the strongest sinusoidal component of signal
// in Hz. The signal is Hann-windowed, zero-padded to a power of two and the
// peak bin is refined by parabolic interpolation. DC is ignored.
func DominantFrequency(signal []float64, sampleRate float64) (float64, error) {
	if len(signal) == 0 {
		return 0, errEmptySignal
	}

	if sampleRate <= 0 {
		return 0, fmt.Errorf("spectrum: sample rate must be > 0: %f", sampleRate)
	}

	n := nextPowerOf2(2 * len(signal))

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return 0, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	hann, err := window.Hann(len(signal))
	if err != nil {
		return 0, err
	}

	framed := make([]float64, len(signal))
	if err := window.ApplyCoefficients(framed, signal, hann); err != nil {
		return 0, err
	}

	buf := make([]complex128, n)
	for i, v := range framed {
		buf[i] = complex(v, 0)
	}

	if err := plan.Forward(buf, buf); err != nil {
		return 0, fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}

	mag := Magnitude(buf[:n/2+1])

	k := PeakBin(mag, 1)
	if k < 0 {
		return 0, nil
	}

	return InterpolatePeak(mag, k) * sampleRate / float64(n), nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
