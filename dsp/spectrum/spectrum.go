package spectrum

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Magnitude returns |X[k]| for each complex spectrum bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	MagnitudeInto(out, in)
	return out
}

// MagnitudeInto writes |X[k]| into dst, which must be as long as in.
//
// Scratch buffers are pooled, so this does not allocate in steady state.
func MagnitudeInto(dst []float64, in []complex128) {
	re, im, buf := getScratch(len(in))
	defer putScratch(buf)

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(dst, re, im)
}

// MagnitudeFromParts computes |X[k]| = sqrt(re[k]^2 + im[k]^2) into dst.
// All three slices must have the same length.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}

// Phase returns arg(X[k]) for each complex spectrum bin in radians.
func Phase(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	PhaseInto(out, in)
	return out
}

// PhaseInto writes arg(X[k]) into dst, which must be as long as in.
func PhaseInto(dst []float64, in []complex128) {
	for i, c := range in {
		dst[i] = cmplx.Phase(c)
	}
}

// WrapPhase maps x into [-pi, pi).
func WrapPhase(x float64) float64 {
	x = math.Mod(x+math.Pi, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}

	return x - math.Pi
}

// PeakBin returns the index of the largest value in mag[from:].
// It returns -1 when there is no bin at or after from.
func PeakBin(mag []float64, from int) int {
	from = max(from, 0)
	if from >= len(mag) {
		return -1
	}

	best := from
	for k := from + 1; k < len(mag); k++ {
		if mag[k] > mag[best] {
			best = k
		}
	}

	return best
}

// InterpolatePeak refines an integer peak bin with a parabola through the
// log magnitudes of its neighbours and returns the fractional bin.
func InterpolatePeak(mag []float64, k int) float64 {
	if k <= 0 || k >= len(mag)-1 {
		return float64(k)
	}

	a := logMag(mag[k-1])
	b := logMag(mag[k])
	c := logMag(mag[k+1])

	den := a - 2*b + c
	if den == 0 {
		return float64(k)
	}

	return float64(k) + 0.5*(a-c)/den
}

func logMag(v float64) float64 {
	const floor = 1e-300
	return math.Log(math.Max(v, floor))
}
