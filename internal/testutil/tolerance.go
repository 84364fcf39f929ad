package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-audioedit/dsp/audio"
	"github.com/cwbudde/algo-audioedit/dsp/spectrum"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		maxDiff = max(maxDiff, math.Abs(a[i]-b[i]))
	}
	return maxDiff, nil
}

// RequireShape fails t unless b validates and has the given shape.
func RequireShape(t *testing.T, b *audio.Buffer, takes, channels, length int) {
	t.Helper()
	if err := b.Validate(); err != nil {
		t.Fatalf("invalid buffer: %v", err)
	}
	gt, gc, gl := b.Shape()
	if gt != takes || gc != channels || gl != length {
		t.Fatalf("shape = (%d, %d, %d), want (%d, %d, %d)", gt, gc, gl, takes, channels, length)
	}
}

// DominantFrequency returns the strongest frequency of data in Hz, failing
// t if it cannot be estimated.
func DominantFrequency(t *testing.T, data []float64, sampleRate float64) float64 {
	t.Helper()
	f, err := spectrum.DominantFrequency(data, sampleRate)
	if err != nil {
		t.Fatalf("DominantFrequency: %v", err)
	}
	return f
}

// RequireFrequency fails t unless the dominant frequency of data is within
// relTol (relative) of wantHz.
func RequireFrequency(t *testing.T, data []float64, sampleRate, wantHz, relTol float64) {
	t.Helper()
	got := DominantFrequency(t, data, sampleRate)
	if math.Abs(got-wantHz) > relTol*wantHz {
		t.Fatalf("dominant frequency = %.2f Hz, want %.2f Hz (±%.1f%%)", got, wantHz, 100*relTol)
	}
}
