package audio

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DefaultSampleRate is used for empty results that have no source rate.
const DefaultSampleRate = 44100

var (
	// ErrNilBuffer indicates a nil *Buffer where a buffer is required.
	ErrNilBuffer = errors.New("audio: nil buffer")
	// ErrNoTakes indicates a buffer without any take.
	ErrNoTakes = errors.New("audio: buffer has no takes")
	// ErrNoChannels indicates a take without any channel.
	ErrNoChannels = errors.New("audio: take has no channels")
	// ErrRaggedChannels indicates channels of different lengths.
	ErrRaggedChannels = errors.New("audio: channels differ in length")
	// ErrInvalidSampleRate indicates a non-positive sample rate.
	ErrInvalidSampleRate = errors.New("audio: invalid sample rate")
)

// Buffer is a block of audio indexed as Samples[take][channel][time].
//
// All channels of all takes share one length. Most operations only look at
// take 0.
type Buffer struct {
	Samples    [][][]float64
	SampleRate int
}

// New returns a zero-filled buffer of the given shape.
func New(takes, channels, length, sampleRate int) *Buffer {
	takes = max(takes, 1)
	channels = max(channels, 1)
	length = max(length, 0)

	samples := make([][][]float64, takes)
	for t := range samples {
		samples[t] = make([][]float64, channels)
		for c := range samples[t] {
			samples[t][c] = make([]float64, length)
		}
	}

	return &Buffer{Samples: samples, SampleRate: sampleRate}
}

// FromChannels builds a single-take buffer from copies of the given channels.
// Shorter channels are zero-padded to the longest one.
func FromChannels(sampleRate int, channels ...[]float64) *Buffer {
	if len(channels) == 0 {
		return New(1, 1, 0, sampleRate)
	}

	length := 0
	for _, ch := range channels {
		length = max(length, len(ch))
	}

	b := New(1, len(channels), length, sampleRate)
	for c, ch := range channels {
		copy(b.Samples[0][c], ch)
	}

	return b
}

// Empty returns a zero-length mono buffer.
func Empty(sampleRate int) *Buffer {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	return New(1, 1, 0, sampleRate)
}

// Validate reports whether b satisfies the buffer invariants.
func (b *Buffer) Validate() error {
	if b == nil {
		return ErrNilBuffer
	}

	if b.SampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, b.SampleRate)
	}

	if len(b.Samples) == 0 {
		return ErrNoTakes
	}

	length := -1

	for t, take := range b.Samples {
		if len(take) == 0 {
			return fmt.Errorf("%w: take %d", ErrNoChannels, t)
		}

		for c, ch := range take {
			if length < 0 {
				length = len(ch)
				continue
			}

			if len(ch) != length {
				return fmt.Errorf("%w: take %d channel %d has %d samples, want %d",
					ErrRaggedChannels, t, c, len(ch), length)
			}
		}
	}

	return nil
}

// Takes returns the number of takes.
func (b *Buffer) Takes() int { return len(b.Samples) }

// Channels returns the channel count of take 0.
func (b *Buffer) Channels() int {
	if len(b.Samples) == 0 {
		return 0
	}

	return len(b.Samples[0])
}

// Len returns the number of samples per channel.
func (b *Buffer) Len() int {
	if len(b.Samples) == 0 || len(b.Samples[0]) == 0 {
		return 0
	}

	return len(b.Samples[0][0])
}

// Shape returns (takes, channels, length).
func (b *Buffer) Shape() (takes, channels, length int) {
	return b.Takes(), b.Channels(), b.Len()
}

// NumElements returns the total number of samples across takes and channels.
func (b *Buffer) NumElements() int {
	n := 0
	for _, take := range b.Samples {
		for _, ch := range take {
			n += len(ch)
		}
	}

	return n
}

// Seconds returns the buffer length in seconds.
func (b *Buffer) Seconds() float64 {
	if b.SampleRate <= 0 {
		return 0
	}

	return float64(b.Len()) / float64(b.SampleRate)
}

// Duration returns the buffer length as a time.Duration.
func (b *Buffer) Duration() time.Duration {
	return time.Duration(math.Round(b.Seconds() * float64(time.Second)))
}

// Take returns the channels of take i without copying.
func (b *Buffer) Take(i int) [][]float64 {
	if i < 0 || i >= len(b.Samples) {
		return nil
	}

	return b.Samples[i]
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	samples := make([][][]float64, len(b.Samples))
	for t, take := range b.Samples {
		samples[t] = CopyChannels(take)
	}

	return &Buffer{Samples: samples, SampleRate: b.SampleRate}
}

// WithSampleRate returns a shallow copy of b labelled with another sample
// rate. The sample storage is shared.
func (b *Buffer) WithSampleRate(sampleRate int) *Buffer {
	return &Buffer{Samples: b.Samples, SampleRate: sampleRate}
}

// CopyChannels deep-copies a (channel, time) block.
func CopyChannels(channels [][]float64) [][]float64 {
	out := make([][]float64, len(channels))
	for c, ch := range channels {
		out[c] = make([]float64, len(ch))
		copy(out[c], ch)
	}

	return out
}

// IsMono reports whether take 0 has a single channel.
func (b *Buffer) IsMono() bool { return b.Channels() == 1 }
