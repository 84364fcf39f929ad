package align

import (
	"fmt"
	"log"

	"github.com/cwbudde/algo-audioedit/dsp/audio"
	"github.com/cwbudde/algo-audioedit/dsp/resample"
)

// Track is a buffer tagged with a linear volume. Tracks with Volume <= 0 are
// dropped.
type Track struct {
	Buffer *audio.Buffer
	Volume float64
}

// Target is the common format of an aligned set.
type Target struct {
	SampleRate int
	Channels   int
	Length     int
}

type config struct {
	length    int
	noPadding bool
	quality   resample.Quality
	logger    *log.Logger
}

// Option configures Align.
type Option func(*config)

// WithLength forces the target length. Shorter tracks are padded and longer
// ones truncated. Non-positive values keep the measured length.
func WithLength(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.length = n
		}
	}
}

// WithoutPadding leaves every track at its own (resampled) length.
func WithoutPadding() Option {
	return func(cfg *config) {
		cfg.noPadding = true
	}
}

// WithPadding pads or truncates every track to the target length. This is
// the default; it cancels an earlier WithoutPadding.
func WithPadding() Option {
	return func(cfg *config) {
		cfg.noPadding = false
	}
}

// WithResampleQuality selects the anti-aliasing quality used to upsample.
func WithResampleQuality(q resample.Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithLogger logs the resolved target. A nil logger disables logging.
func WithLogger(l *log.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}

func audible(tr Track) bool {
	return tr.Volume > 0 && tr.Buffer != nil
}

// Measure returns the common format of the audible tracks. The length is
// the longest duration expressed at the highest rate, rounded up.
func Measure(tracks []Track) Target {
	var tg Target

	for _, tr := range tracks {
		if !audible(tr) || tr.Buffer.SampleRate <= 0 {
			continue
		}

		tg.SampleRate = max(tg.SampleRate, tr.Buffer.SampleRate)
		tg.Channels = max(tg.Channels, tr.Buffer.Channels())
	}

	for _, tr := range tracks {
		if !audible(tr) || tr.Buffer.SampleRate <= 0 {
			continue
		}

		tg.Length = max(tg.Length, resample.OutputLen(tr.Buffer.Len(), tr.Buffer.SampleRate, tg.SampleRate))
	}

	return tg
}

// Align converts every audible track to the common format, in input order.
// Only take 0 of each buffer is used; results are single-take buffers.
// With no audible track it returns nil and a zero Target.
func Align(tracks []Track, opts ...Option) ([]*audio.Buffer, Target, error) {
	cfg := config{quality: resample.QualityBalanced}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	for i, tr := range tracks {
		if tr.Volume <= 0 {
			continue
		}

		if err := tr.Buffer.Validate(); err != nil {
			return nil, Target{}, fmt.Errorf("align: track %d: %w", i, err)
		}
	}

	tg := Measure(tracks)
	if tg.SampleRate == 0 {
		return nil, Target{}, nil
	}

	if cfg.length > 0 {
		tg.Length = cfg.length
	}

	if cfg.logger != nil {
		cfg.logger.Printf("align: target rate=%d channels=%d length=%d", tg.SampleRate, tg.Channels, tg.Length)
	}

	out := make([]*audio.Buffer, 0, len(tracks))

	for i, tr := range tracks {
		if !audible(tr) {
			continue
		}

		b, err := alignOne(tr, tg, cfg)
		if err != nil {
			return nil, Target{}, fmt.Errorf("align: track %d: %w", i, err)
		}

		out = append(out, b)
	}

	return out, tg, nil
}

func alignOne(tr Track, tg Target, cfg config) (*audio.Buffer, error) {
	src := tr.Buffer.Take(0)
	channels := make([][]float64, tg.Channels)

	var rs *resample.Resampler
	if tr.Buffer.SampleRate < tg.SampleRate {
		var err error

		rs, err = resample.NewForRates(tr.Buffer.SampleRate, tg.SampleRate, resample.WithQuality(cfg.quality))
		if err != nil {
			return nil, err
		}
	}

	for c := range channels {
		ch := src[c%len(src)]

		var y []float64
		if rs != nil {
			y = rs.Convert(ch)
		} else {
			y = make([]float64, len(ch))
			copy(y, ch)
		}

		if !cfg.noPadding {
			y = fit(y, tg.Length)
		}

		if tr.Volume != 1 {
			for i := range y {
				y[i] *= tr.Volume
			}
		}

		channels[c] = y
	}

	return &audio.Buffer{Samples: [][][]float64{channels}, SampleRate: tg.SampleRate}, nil
}

// fit zero-pads or truncates x to n samples.
func fit(x []float64, n int) []float64 {
	if len(x) >= n {
		return x[:n]
	}

	return append(x, make([]float64, n-len(x))...)
}
