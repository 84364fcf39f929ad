package stretch

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-audioedit/dsp/audio"
	"github.com/cwbudde/algo-audioedit/dsp/stft"
	"github.com/cwbudde/algo-audioedit/internal/testutil"
)

func TestNewDefaults(t *testing.T) {
	s, err := New(WithFFTSize(-1), WithWinLength(-1), WithHopLength(-1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if s.FFTSize() != 512 || s.WinLength() != 512 || s.HopLength() != 128 {
		t.Fatalf("defaults = %d/%d/%d, want 512/512/128", s.FFTSize(), s.WinLength(), s.HopLength())
	}
}

func TestNewRejectsLongWindow(t *testing.T) {
	_, err := New(WithFFTSize(256), WithWinLength(512))
	if !errors.Is(err, stft.ErrInvalidParam) {
		t.Fatalf("New() error = %v, want stft.ErrInvalidParam", err)
	}
}

func TestOutputLen(t *testing.T) {
	tests := []struct {
		n    int
		rate float64
		want int
	}{
		{n: 1000, rate: 1, want: 1000},
		{n: 1000, rate: 2, want: 500},
		{n: 1000, rate: 0.5, want: 2000},
		{n: 5, rate: 2, want: 2},
		{n: 7, rate: 2, want: 4},
		{n: 1000, rate: 0, want: 1000},
		{n: 1000, rate: -1, want: 1000},
	}

	for _, tt := range tests {
		if got := OutputLen(tt.n, tt.rate); got != tt.want {
			t.Fatalf("OutputLen(%d, %v) = %d, want %d", tt.n, tt.rate, got, tt.want)
		}
	}
}

func TestStretchUnitRate(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	x := testutil.DeterministicSine(440, 16000, 0.5, 4096)

	y, err := s.Stretch([][]float64{x}, 1)
	if err != nil {
		t.Fatalf("Stretch() error = %v", err)
	}

	if d := len(y[0]) - len(x); d < -1 || d > 1 {
		t.Fatalf("len = %d, want %d±1", len(y[0]), len(x))
	}

	// Synthesis starts one phase advance ahead, so a steady tone comes back
	// advanced by one hop. Edges see the zero padding and are skipped.
	hop := s.HopLength()
	for n := 1024; n < len(x)-1024; n++ {
		if d := y[0][n] - x[n+hop]; d > 1e-3 || d < -1e-3 {
			t.Fatalf("y[%d] = %v, want x[%d] = %v", n, y[0][n], n+hop, x[n+hop])
		}
	}
}

func TestStretchLengths(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	x := testutil.DeterministicNoise(1, 0.3, 3000)

	for _, rate := range []float64{0.5, 0.8, 1.25, 2, 3} {
		y, err := s.Stretch([][]float64{x, x}, rate)
		if err != nil {
			t.Fatalf("Stretch(%v) error = %v", rate, err)
		}

		want := OutputLen(len(x), rate)
		for c := range y {
			if len(y[c]) != want {
				t.Fatalf("Stretch(%v) channel %d len = %d, want %d", rate, c, len(y[c]), want)
			}
			testutil.RequireFinite(t, y[c])
		}

		testutil.RequireSliceNearlyEqual(t, y[1], y[0], 0)
	}
}

func TestStretchKeepsPitch(t *testing.T) {
	const sr = 16000.0

	s, err := New(WithFFTSize(1024))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	x := testutil.DeterministicSine(440, sr, 0.5, 16000)

	for _, rate := range []float64{0.7, 1.5} {
		y, err := s.Stretch([][]float64{x}, rate)
		if err != nil {
			t.Fatalf("Stretch(%v) error = %v", rate, err)
		}

		testutil.RequireFrequency(t, y[0], sr, 440, 0.02)
	}
}

func TestStretchIdentityCases(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	long := testutil.DeterministicNoise(2, 1, 2048)
	short := testutil.DeterministicNoise(3, 1, 100)

	tests := []struct {
		name string
		x    []float64
		rate float64
	}{
		{name: "zero rate", x: long, rate: 0},
		{name: "negative rate", x: long, rate: -2},
		{name: "single frame", x: short, rate: 2},
		{name: "empty", x: []float64{}, rate: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, err := s.Stretch([][]float64{tt.x}, tt.rate)
			if err != nil {
				t.Fatalf("Stretch() error = %v", err)
			}

			testutil.RequireSliceNearlyEqual(t, y[0], tt.x, 0)

			if len(tt.x) > 0 {
				y[0][0] += 1
				if y[0][0] == tt.x[0] {
					t.Fatal("Stretch returned aliased storage")
				}
			}
		})
	}
}

func TestStretchWindowEnvelopeError(t *testing.T) {
	s, err := New(WithFFTSize(256), WithHopLength(256))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	x := testutil.DeterministicNoise(4, 1, 4096)
	if _, err := s.Stretch([][]float64{x}, 1.5); !errors.Is(err, stft.ErrWindowEnvelope) {
		t.Fatalf("Stretch() error = %v, want stft.ErrWindowEnvelope", err)
	}
}

func TestStretchBuffer(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	b := testutil.SineBuffer(300, 22050, 2, 4410)

	out, err := s.StretchBuffer(b, 0.5)
	if err != nil {
		t.Fatalf("StretchBuffer() error = %v", err)
	}

	testutil.RequireShape(t, out, 1, 2, 8820)

	if out.SampleRate != 22050 {
		t.Fatalf("SampleRate = %d, want 22050", out.SampleRate)
	}

	if _, err := s.StretchBuffer(&audio.Buffer{SampleRate: 22050}, 2); !errors.Is(err, audio.ErrNoTakes) {
		t.Fatalf("StretchBuffer(empty) error = %v, want audio.ErrNoTakes", err)
	}
}
