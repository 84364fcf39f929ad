package mix

import (
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-audioedit/dsp/align"
	"github.com/cwbudde/algo-audioedit/dsp/audio"
)

// Track is one input of Mix.
type Track struct {
	Buffer *audio.Buffer
	// Volume is a linear gain. Tracks with Volume <= 0 are left out.
	Volume float64
	// Start delays the track on the output timeline.
	Start time.Duration
}

// StartOffset returns the number of leading zero samples Start adds at the
// given sample rate.
func StartOffset(start time.Duration, sampleRate int) int {
	if start <= 0 {
		return 0
	}

	return int(math.Round(start.Seconds() * float64(sampleRate)))
}

// Mix sums the audible tracks sample by sample.
//
// With constantVolume the sum is divided by the number of audible tracks.
// Otherwise every sample is divided by how many aligned tracks are non-zero
// at that position (at least 1), so a track keeps its level where it plays
// alone. With no audible track the result is an empty mono buffer.
func Mix(tracks []Track, constantVolume bool, opts ...align.Option) (*audio.Buffer, error) {
	padded := make([]align.Track, 0, len(tracks))

	for i, tr := range tracks {
		if tr.Volume <= 0 {
			padded = append(padded, align.Track{Buffer: tr.Buffer, Volume: tr.Volume})
			continue
		}

		if err := tr.Buffer.Validate(); err != nil {
			return nil, fmt.Errorf("mix: track %d: %w", i, err)
		}

		padded = append(padded, align.Track{Buffer: delay(tr.Buffer, tr.Start), Volume: tr.Volume})
	}

	// The sum reads every track up to the target length.
	opts = append(opts[:len(opts):len(opts)], align.WithPadding())

	aligned, tg, err := align.Align(padded, opts...)
	if err != nil {
		return nil, fmt.Errorf("mix: %w", err)
	}

	if len(aligned) == 0 {
		return audio.Empty(audio.DefaultSampleRate), nil
	}

	out := audio.New(1, tg.Channels, tg.Length, tg.SampleRate)

	for c, sum := range out.Samples[0] {
		for i := range sum {
			var (
				acc    float64
				active int
			)

			for _, b := range aligned {
				v := b.Samples[0][c][i]
				acc += v

				if v != 0 {
					active++
				}
			}

			div := float64(len(aligned))
			if !constantVolume {
				div = float64(max(active, 1))
			}

			sum[i] = acc / div
		}
	}

	return out, nil
}

// delay returns b with StartOffset(start) zeros prepended to take 0, or b
// itself when there is nothing to add.
func delay(b *audio.Buffer, start time.Duration) *audio.Buffer {
	n := StartOffset(start, b.SampleRate)
	if n == 0 {
		return b
	}

	take := b.Take(0)
	channels := make([][]float64, len(take))

	for c, ch := range take {
		channels[c] = make([]float64, n+len(ch))
		copy(channels[c][n:], ch)
	}

	return &audio.Buffer{Samples: [][][]float64{channels}, SampleRate: b.SampleRate}
}

// Concat joins the buffers end to end in order after converting them to the
// highest sample rate and channel count. Nil entries are skipped; with
// nothing to join the result is an empty mono buffer.
func Concat(buffers []*audio.Buffer, opts ...align.Option) (*audio.Buffer, error) {
	tracks := make([]align.Track, 0, len(buffers))

	for _, b := range buffers {
		if b == nil {
			continue
		}

		tracks = append(tracks, align.Track{Buffer: b, Volume: 1})
	}

	opts = append(opts[:len(opts):len(opts)], align.WithoutPadding())

	aligned, tg, err := align.Align(tracks, opts...)
	if err != nil {
		return nil, fmt.Errorf("concat: %w", err)
	}

	if len(aligned) == 0 {
		return audio.Empty(audio.DefaultSampleRate), nil
	}

	total := 0
	for _, b := range aligned {
		total += b.Len()
	}

	out := audio.New(1, tg.Channels, total, tg.SampleRate)

	for c, dst := range out.Samples[0] {
		off := 0
		for _, b := range aligned {
			off += copy(dst[off:], b.Samples[0][c])
		}
	}

	return out, nil
}
