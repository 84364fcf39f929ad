package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-audioedit/dsp/audio"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// SineBuffer returns a single-take buffer with the same sine in every channel.
func SineBuffer(freqHz float64, sampleRate, channels, length int) *audio.Buffer {
	ch := make([][]float64, max(channels, 1))
	for c := range ch {
		ch[c] = DeterministicSine(freqHz, float64(sampleRate), 0.5, length)
	}
	return audio.FromChannels(sampleRate, ch...)
}

// ConstBuffer returns a single-take buffer filled with value.
func ConstBuffer(value float64, sampleRate, channels, length int) *audio.Buffer {
	ch := make([][]float64, max(channels, 1))
	for c := range ch {
		ch[c] = DC(value, length)
	}
	return audio.FromChannels(sampleRate, ch...)
}
