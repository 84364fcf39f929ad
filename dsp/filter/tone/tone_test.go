package tone

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-audioedit/dsp/audio"
	"github.com/cwbudde/algo-audioedit/internal/testutil"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "bass", want: Bass},
		{in: "Treble", want: Treble},
		{in: " BASS ", want: Bass},
		{in: "mid", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}

		if err == nil && got != tt.want {
			t.Fatalf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestShelfResponse(t *testing.T) {
	const sr = 44100.0

	tests := []struct {
		name   string
		kind   Kind
		gainDB float64
		freq   float64
		wantDB float64
	}{
		{name: "bass boost low", kind: Bass, gainDB: 6, freq: 10, wantDB: 6},
		{name: "bass boost high", kind: Bass, gainDB: 6, freq: 10000, wantDB: 0},
		{name: "bass cut low", kind: Bass, gainDB: -12, freq: 10, wantDB: -12},
		{name: "treble boost high", kind: Treble, gainDB: 6, freq: 20000, wantDB: 6},
		{name: "treble boost low", kind: Treble, gainDB: 6, freq: 50, wantDB: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Design(tt.kind, tt.gainDB, -1, -1, sr)
			if err != nil {
				t.Fatalf("Design() error = %v", err)
			}

			if got := c.MagnitudeDB(tt.freq, sr); math.Abs(got-tt.wantDB) > 0.5 {
				t.Fatalf("gain at %v Hz = %.2f dB, want %.2f dB", tt.freq, got, tt.wantDB)
			}
		})
	}
}

func TestShelfHalfGainAtCorner(t *testing.T) {
	c, err := LowShelf(DefaultBassFreq, 12, DefaultQ, 48000)
	if err != nil {
		t.Fatalf("LowShelf() error = %v", err)
	}

	if got := c.MagnitudeDB(DefaultBassFreq, 48000); math.Abs(got-6) > 0.1 {
		t.Fatalf("gain at corner = %.3f dB, want 6", got)
	}
}

func TestDesignInvalidFrequency(t *testing.T) {
	for _, freq := range []float64{22050, 30000, math.NaN()} {
		if _, err := Design(Treble, 3, freq, DefaultQ, 44100); !errors.Is(err, ErrInvalidFrequency) {
			t.Fatalf("Design(freq=%v) error = %v, want ErrInvalidFrequency", freq, err)
		}
	}
}

func TestApplyZeroGainIsIdentity(t *testing.T) {
	in := testutil.SineBuffer(440, 44100, 2, 2000)

	out, err := Apply(in, Bass, 0, -1, -1)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	testutil.RequireShape(t, out, 1, 2, 2000)

	for c := range 2 {
		testutil.RequireSliceNearlyEqual(t, out.Samples[0][c], in.Samples[0][c], 1e-12)
	}
}

func TestApplyClampsAndKeepsInput(t *testing.T) {
	in := testutil.ConstBuffer(0.9, 44100, 1, 4410)

	out, err := Apply(in, Bass, 12, -1, -1)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	for i, v := range out.Samples[0][0] {
		if v > 1 || v < -1 {
			t.Fatalf("sample %d = %v outside [-1, 1]", i, v)
		}
	}

	if last := out.Samples[0][0][4409]; last != 1 {
		t.Fatalf("steady-state sample = %v, want clamped 1", last)
	}

	if in.Samples[0][0][0] != 0.9 {
		t.Fatal("Apply modified its input")
	}
}

func TestApplyMultipleTakes(t *testing.T) {
	in := audio.New(2, 1, 100, 8000)
	in.Samples[1][0][0] = 0.5

	out, err := Apply(in, Treble, -6, 1000, 0.5)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if out.Samples[0][0][0] != 0 {
		t.Fatalf("silent take produced %v", out.Samples[0][0][0])
	}

	if out.Samples[1][0][0] == 0 {
		t.Fatal("take 1 impulse was not filtered")
	}
}
