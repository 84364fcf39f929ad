package audio

import "testing"

func TestCanonicalPicksFirstChannelOfFirstTake(t *testing.T) {
	b := New(2, 2, 3, 22050)
	b.Samples[0][0] = []float64{0.1, 0.2, 0.3}
	b.Samples[0][1] = []float64{9, 9, 9}
	b.Samples[1][0] = []float64{8, 8, 8}

	got, err := Canonical(b)
	if err != nil {
		t.Fatalf("Canonical() error = %v", err)
	}

	if !IsCanonical(got) {
		t.Fatalf("Canonical() shape = %d takes, %d channels", got.Takes(), got.Channels())
	}

	if got.SampleRate != 22050 {
		t.Fatalf("SampleRate = %d, want 22050", got.SampleRate)
	}

	for i, v := range got.Samples[0][0] {
		want := float64(float32(b.Samples[0][0][i]))
		if v != want {
			t.Fatalf("sample %d = %v, want %v", i, v, want)
		}
	}

	got.Samples[0][0][0] = 5
	if b.Samples[0][0][0] != 0.1 {
		t.Fatal("Canonical output shares storage with its input")
	}
}

func TestCanonicalRejectsInvalid(t *testing.T) {
	if _, err := Canonical(&Buffer{SampleRate: 8000}); err == nil {
		t.Fatal("expected error for buffer without takes")
	}
}
