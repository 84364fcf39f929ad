package stft

import "sync"

// Spectrogram holds complex STFT frames for several channels.
//
// Storage is frame-major, Frames[channel][frame][bin], so each FFT fills one
// contiguous slice. Shape and At use the logical (channel, bin, frame) order.
type Spectrogram struct {
	Frames [][][]complex128
	Bins   int

	backing *[]complex128
}

var backingPool = sync.Pool{
	New: func() any { return new([]complex128) },
}

// NewSpectrogram returns a zeroed spectrogram backed by pooled memory.
// Call Release when done with it.
func NewSpectrogram(channels, frames, bins int) *Spectrogram {
	channels = max(channels, 0)
	frames = max(frames, 0)
	bins = max(bins, 0)

	need := channels * frames * bins

	backing := backingPool.Get().(*[]complex128)
	if cap(*backing) < need {
		*backing = make([]complex128, need)
	} else {
		*backing = (*backing)[:need]
		clear(*backing)
	}

	data := *backing

	s := &Spectrogram{
		Frames:  make([][][]complex128, channels),
		Bins:    bins,
		backing: backing,
	}

	for c := range s.Frames {
		s.Frames[c] = make([][]complex128, frames)
		for t := range s.Frames[c] {
			off := (c*frames + t) * bins
			s.Frames[c][t] = data[off : off+bins : off+bins]
		}
	}

	return s
}

// Release returns the backing memory to the pool. The spectrogram must not
// be used afterwards. Release on nil is a no-op.
func (s *Spectrogram) Release() {
	if s == nil || s.backing == nil {
		return
	}

	backingPool.Put(s.backing)
	s.backing = nil
	s.Frames = nil
}

// Channels returns the channel count.
func (s *Spectrogram) Channels() int { return len(s.Frames) }

// NumFrames returns the number of frames per channel.
func (s *Spectrogram) NumFrames() int {
	if len(s.Frames) == 0 {
		return 0
	}

	return len(s.Frames[0])
}

// Shape returns (channels, bins, frames).
func (s *Spectrogram) Shape() (channels, bins, frames int) {
	return s.Channels(), s.Bins, s.NumFrames()
}

// At returns the bin f of frame t in channel c.
func (s *Spectrogram) At(c, f, t int) complex128 {
	return s.Frames[c][t][f]
}
