package signal

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/cwbudde/algo-audioedit/dsp/audio"
	"github.com/cwbudde/algo-audioedit/dsp/core"
)

func TestSineLength(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(48000))
	s, err := g.Sine(1000, 1, 64)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}
	if len(s) != 64 {
		t.Fatalf("len = %d, want 64", len(s))
	}
}

func TestSineRejectsInvalid(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(8000))

	if _, err := g.Sine(440, 1, 0); !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("Sine(samples=0) error = %v, want ErrInvalidParam", err)
	}
	if _, err := g.Sine(4000, 1, 8); !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("Sine(nyquist) error = %v, want ErrInvalidParam", err)
	}
	if _, err := g.Multisine(nil, 1, 8); !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("Multisine(nil) error = %v, want ErrInvalidParam", err)
	}
}

func TestMultisinePeakBound(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(48000))
	out, err := g.Multisine([]float64{1000, 2000, 3000}, 0.9, 4800)
	if err != nil {
		t.Fatalf("Multisine() error = %v", err)
	}
	if peak := core.PeakAbs(out); peak > 0.9 || peak < 0.3 {
		t.Fatalf("peak = %v, want in [0.3, 0.9]", peak)
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	g1 := NewGeneratorWithOptions(nil, WithSeed(42))
	g2 := NewGeneratorWithOptions(nil, WithSeed(42))
	g3 := NewGeneratorWithOptions(nil, WithSeed(43))

	n1, err := g1.WhiteNoise(1, 16)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}
	n2, _ := g2.WhiteNoise(1, 16)
	n3, _ := g3.WhiteNoise(1, 16)

	same := true
	for i := range n1 {
		if n1[i] != n2[i] {
			t.Fatalf("noise mismatch at %d: %v != %v", i, n1[i], n2[i])
		}
		if math.Abs(n1[i]) > 1 {
			t.Fatalf("n1[%d]=%v outside [-1, 1]", i, n1[i])
		}
		same = same && n1[i] == n3[i]
	}
	if same {
		t.Fatal("expected different seeds to produce different noise")
	}
}

func TestTone(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(8000), core.WithChannels(2))
	b, err := g.Tone([]float64{440}, 0.5, 250*time.Millisecond)
	if err != nil {
		t.Fatalf("Tone() error = %v", err)
	}

	if takes, ch, n := b.Shape(); takes != 1 || ch != 2 || n != 2000 {
		t.Fatalf("shape = (%d, %d, %d), want (1, 2, 2000)", takes, ch, n)
	}
	if b.SampleRate != 8000 {
		t.Fatalf("SampleRate = %d, want 8000", b.SampleRate)
	}

	b.Samples[0][0][10] = 7
	if b.Samples[0][1][10] == 7 {
		t.Fatal("channels share storage")
	}
}

func TestNoise(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(1000))
	b, err := g.Noise(0.1, time.Second)
	if err != nil {
		t.Fatalf("Noise() error = %v", err)
	}
	if b.Len() != 1000 || !b.IsMono() {
		t.Fatalf("shape = %v/%v, want 1000 mono", b.Len(), b.Channels())
	}
}

func TestSilence(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(16000), core.WithChannels(2))
	b := g.Silence(100 * time.Millisecond)

	if takes, ch, n := b.Shape(); takes != 1 || ch != 2 || n != 1600 {
		t.Fatalf("shape = (%d, %d, %d), want (1, 2, 1600)", takes, ch, n)
	}
	if core.PeakAbs(b.Samples[0][1]) != 0 {
		t.Fatal("Silence() is not silent")
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{-0.5, 1.0, -0.25}, 0.5)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if out[1] != 0.5 {
		t.Fatalf("peak = %v, want 0.5", out[1])
	}

	silent, err := Normalize([]float64{0, 0}, 1)
	if err != nil || silent[0] != 0 {
		t.Fatalf("Normalize(silence) = %v, %v", silent, err)
	}
}

func TestNormalizeBuffer(t *testing.T) {
	in := audio.FromChannels(8000, []float64{0.1, -0.2}, []float64{0.4, 0})

	out, err := NormalizeBuffer(in, 0.8)
	if err != nil {
		t.Fatalf("NormalizeBuffer() error = %v", err)
	}

	want := [][]float64{{0.2, -0.4}, {0.8, 0}}
	for c := range want {
		for i := range want[c] {
			if math.Abs(out.Samples[0][c][i]-want[c][i]) > 1e-12 {
				t.Fatalf("out[%d][%d] = %v, want %v", c, i, out.Samples[0][c][i], want[c][i])
			}
		}
	}

	if in.Samples[0][1][0] != 0.4 {
		t.Fatal("NormalizeBuffer modified its input")
	}

	if _, err := NormalizeBuffer(nil, 1); !errors.Is(err, audio.ErrNilBuffer) {
		t.Fatalf("NormalizeBuffer(nil) error = %v, want audio.ErrNilBuffer", err)
	}
}
