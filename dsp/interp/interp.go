package interp

import "math"

// Mode selects the kernel used by Resize.
type Mode int

const (
	// Linear is 2-point linear interpolation.
	Linear Mode = iota
	// Hermite is 4-point cubic Hermite interpolation.
	Hermite
)

// Linear2 interpolates between x0 and x1 at frac in [0,1].
func Linear2(frac, x0, x1 float64) float64 {
	return x0 + frac*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// Resize resamples src to n points by sampling at pixel centres:
// output i reads src at (i+0.5)*len(src)/n - 0.5, clamped to the valid range.
// Endpoints are therefore not pinned to the input endpoints.
func Resize(src []float64, n int, mode Mode) []float64 {
	if n <= 0 {
		return []float64{}
	}

	dst := make([]float64, n)
	ResizeInto(dst, src, mode)
	return dst
}

// ResizeInto is Resize writing into dst; len(dst) is the target length.
func ResizeInto(dst, src []float64, mode Mode) {
	if len(dst) == 0 {
		return
	}

	if len(src) == 0 {
		clear(dst)
		return
	}

	last := len(src) - 1
	scale := float64(len(src)) / float64(len(dst))

	at := func(i int) float64 {
		return src[min(max(i, 0), last)]
	}

	for i := range dst {
		pos := (float64(i)+0.5)*scale - 0.5
		if pos < 0 {
			pos = 0
		}

		i0 := int(math.Floor(pos))
		frac := pos - float64(i0)

		switch mode {
		case Hermite:
			dst[i] = Hermite4(frac, at(i0-1), at(i0), at(i0+1), at(i0+2))
		default:
			dst[i] = Linear2(frac, at(i0), at(i0+1))
		}
	}
}
