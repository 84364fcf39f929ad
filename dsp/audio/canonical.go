package audio

// Canonical returns the single-take, single-channel form of b: the first
// channel of the first take, rounded to float32 precision, in new storage.
// Extra channels are dropped, not averaged.
func Canonical(b *Buffer) (*Buffer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	return CanonicalFrom(b.Samples[0][0], b.SampleRate), nil
}

// CanonicalFrom builds the canonical buffer directly from one channel.
func CanonicalFrom(ch []float64, sampleRate int) *Buffer {
	out := make([]float64, len(ch))
	for i, v := range ch {
		out[i] = float64(float32(v))
	}

	return &Buffer{Samples: [][][]float64{{out}}, SampleRate: sampleRate}
}

// IsCanonical reports whether b already has the canonical (1, 1, T) shape.
func IsCanonical(b *Buffer) bool {
	return b != nil && len(b.Samples) == 1 && len(b.Samples[0]) == 1
}
