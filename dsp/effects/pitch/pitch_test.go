package pitch

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-audioedit/dsp/audio"
	"github.com/cwbudde/algo-audioedit/dsp/interp"
	"github.com/cwbudde/algo-audioedit/dsp/stft"
	"github.com/cwbudde/algo-audioedit/internal/testutil"
)

func TestRatio(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	s24, err := New(WithBinsPerOctave(24))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		s     *Shifter
		steps int
		want  float64
	}{
		{s: s, steps: 0, want: 1},
		{s: s, steps: 12, want: 2},
		{s: s, steps: -12, want: 0.5},
		{s: s, steps: 7, want: math.Pow(2, 7.0/12)},
		{s: s24, steps: 12, want: math.Sqrt2},
	}

	for _, tt := range tests {
		if got := tt.s.Ratio(tt.steps); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("Ratio(%d) = %v, want %v", tt.steps, got, tt.want)
		}
	}
}

func TestNewDefaults(t *testing.T) {
	s, err := New(WithBinsPerOctave(-1), WithFFTSize(-1), WithWinLength(-1), WithHopLength(-1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if s.BinsPerOctave() != DefaultBinsPerOctave {
		t.Fatalf("BinsPerOctave() = %d, want %d", s.BinsPerOctave(), DefaultBinsPerOctave)
	}

	if _, err := New(WithFFTSize(128), WithWinLength(256)); !errors.Is(err, stft.ErrInvalidParam) {
		t.Fatalf("New() error = %v, want stft.ErrInvalidParam", err)
	}
}

func TestShiftZeroStepsCanonicalises(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	in := audio.New(2, 2, 5, 44100)
	for tk := range in.Samples {
		for c := range in.Samples[tk] {
			for i := range in.Samples[tk][c] {
				in.Samples[tk][c][i] = 0.1*float64(i) + float64(c) + 10*float64(tk)
			}
		}
	}

	out, err := s.Shift(in, 0)
	if err != nil {
		t.Fatalf("Shift() error = %v", err)
	}

	testutil.RequireShape(t, out, 1, 1, 5)

	for i, v := range out.Samples[0][0] {
		if want := float64(float32(0.1 * float64(i))); v != want {
			t.Fatalf("sample %d = %v, want %v", i, v, want)
		}
	}

	out.Samples[0][0][0] = 99
	if in.Samples[0][0][0] == 99 {
		t.Fatal("Shift shares storage with its input")
	}
}

func TestShiftShape(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	in := testutil.SineBuffer(440, 16000, 2, 8000)

	out, err := s.Shift(in, 5)
	if err != nil {
		t.Fatalf("Shift() error = %v", err)
	}

	testutil.RequireShape(t, out, 1, 1, 8000)
	testutil.RequireFinite(t, out.Samples[0][0])

	if out.SampleRate != 16000 {
		t.Fatalf("SampleRate = %d, want 16000", out.SampleRate)
	}

	for i, v := range out.Samples[0][0] {
		if v != float64(float32(v)) {
			t.Fatalf("sample %d = %v is not float32 precision", i, v)
		}
	}
}

func TestShiftOctave(t *testing.T) {
	const sr = 16000

	s, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	in := testutil.SineBuffer(220, sr, 1, sr)

	up, err := s.Shift(in, 12)
	if err != nil {
		t.Fatalf("Shift(+12) error = %v", err)
	}

	testutil.RequireFrequency(t, up.Samples[0][0], sr, 440, 0.03)

	down, err := s.Shift(in, -12)
	if err != nil {
		t.Fatalf("Shift(-12) error = %v", err)
	}

	testutil.RequireFrequency(t, down.Samples[0][0], sr, 110, 0.03)
}

func TestShiftRoundTrip(t *testing.T) {
	const sr = 16000

	for _, mode := range []interp.Mode{interp.Linear, interp.Hermite} {
		s, err := New(WithResizeMode(mode))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		in := testutil.SineBuffer(440, sr, 1, sr)
		orig := testutil.DominantFrequency(t, in.Samples[0][0], sr)

		for _, k := range []int{2, 5, 7} {
			up, err := s.Shift(in, k)
			if err != nil {
				t.Fatalf("Shift(+%d) error = %v", k, err)
			}

			back, err := s.Shift(up, -k)
			if err != nil {
				t.Fatalf("Shift(-%d) error = %v", k, err)
			}

			testutil.RequireFrequency(t, back.Samples[0][0], sr, orig, 0.02)
		}
	}
}

func TestShiftInvalidBuffer(t *testing.T) {
	s, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := s.Shift(nil, 3); !errors.Is(err, audio.ErrNilBuffer) {
		t.Fatalf("Shift(nil) error = %v, want audio.ErrNilBuffer", err)
	}

	bad := &audio.Buffer{Samples: [][][]float64{{{1, 2}, {3}}}, SampleRate: 8000}
	if _, err := s.Shift(bad, 3); !errors.Is(err, audio.ErrRaggedChannels) {
		t.Fatalf("Shift(ragged) error = %v, want audio.ErrRaggedChannels", err)
	}
}
