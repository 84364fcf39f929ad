package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-audioedit/dsp/align"
	"github.com/cwbudde/algo-audioedit/dsp/audio"
	"github.com/cwbudde/algo-audioedit/dsp/core"
	"github.com/cwbudde/algo-audioedit/dsp/edit"
	"github.com/cwbudde/algo-audioedit/dsp/filter/tone"
	"github.com/cwbudde/algo-audioedit/dsp/mix"
	"github.com/cwbudde/algo-audioedit/dsp/resample"
	"github.com/cwbudde/algo-audioedit/dsp/signal"
	"github.com/cwbudde/algo-audioedit/dsp/spectrum"
)

const toneAmplitude = 0.5

// source describes the synthesised input of a command.
type source struct {
	freq     float64
	seconds  float64
	rate     int
	channels int
}

func (s *source) register(cmd *cobra.Command, defaultRate int) {
	cmd.Flags().Float64Var(&s.freq, "freq", 440, "test tone frequency in Hz")
	cmd.Flags().Float64Var(&s.seconds, "seconds", 1, "test tone duration")
	cmd.Flags().IntVar(&s.rate, "rate", defaultRate, "test tone sample rate")
	cmd.Flags().IntVar(&s.channels, "channels", 1, "test tone channel count")
}

func (s *source) buffer() (*audio.Buffer, error) {
	return synth(s.freq, s.rate, s.channels, s.seconds)
}

func synth(freq float64, rate, channels int, seconds float64) (*audio.Buffer, error) {
	g := signal.NewGenerator(core.WithSampleRate(float64(rate)), core.WithChannels(channels))
	return g.Tone([]float64{freq}, toneAmplitude, seconds2duration(seconds))
}

func seconds2duration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

func registerSTFT(cmd *cobra.Command, p *edit.STFTParams, nfft int) {
	cmd.Flags().IntVar(&p.NFFT, "n-fft", nfft, "vocoder FFT size (-1 = 512)")
	cmd.Flags().IntVar(&p.WinLength, "win-length", -1, "vocoder window length (-1 = n-fft)")
	cmd.Flags().IntVar(&p.HopLength, "hop-length", -1, "vocoder hop (-1 = win-length/4)")
}

func hz(f float64) string {
	return humanize.SIWithDigits(f, 2, "Hz")
}

func samples(n int) string {
	return humanize.Comma(int64(n))
}

func peakDB(b *audio.Buffer) float64 {
	peak := 0.0
	for _, ch := range b.Take(0) {
		peak = max(peak, core.PeakAbs(ch))
	}

	return core.LinearToDB(peak)
}

func dominant(b *audio.Buffer) string {
	f, err := spectrum.DominantFrequency(b.Samples[0][0], float64(b.SampleRate))
	if err != nil {
		return "n/a"
	}

	return hz(f)
}

func (a *app) pitchCmd() *cobra.Command {
	var (
		src source
		p   edit.PitchParams
	)

	cmd := &cobra.Command{
		Use:   "pitch",
		Short: "Shift the pitch of a test tone by n steps",
		Long: `Shift the pitch of a test tone without changing its length.

Example:
  audioedit pitch --freq 440 --steps -12 --n-fft 1024`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := src.buffer()
			if err != nil {
				return err
			}

			out, cached, err := a.render(edit.PitchKey(in, p), func() (*audio.Buffer, error) {
				return edit.Pitch(in, p)
			})
			if err != nil {
				return err
			}

			bins := p.BinsPerOctave
			if bins <= 0 {
				bins = 12
			}

			t := a.table()
			t.row("input", "%s samples @ %s", samples(in.Len()), hz(float64(in.SampleRate)))
			t.row("output", "%s samples, %d channel(s)", samples(out.Len()), out.Channels())
			t.row("dominant in", "%s", dominant(in))
			t.row("dominant out", "%s", dominant(out))
			t.row("expected", "%s", hz(src.freq*math.Pow(2, float64(p.Steps)/float64(bins))))
			t.row("key", "%s", edit.PitchKey(in, p))
			t.row("cached", "%t", cached)
			return t.flush()
		},
	}

	src.register(cmd, a.cfg.SampleRate)
	cmd.Flags().IntVar(&p.Steps, "steps", 12, "pitch shift in steps")
	cmd.Flags().IntVar(&p.BinsPerOctave, "bins-per-octave", -1, "steps per octave (-1 = 12)")
	registerSTFT(cmd, &p.STFTParams, a.cfg.NFFT)

	return cmd
}

func (a *app) speedCmd() *cobra.Command {
	var (
		src   source
		speed float64
		p     edit.STFTParams
	)

	cmd := &cobra.Command{
		Use:   "speed",
		Short: "Change the duration of a test tone without changing its pitch",
		Long: `Stretch a test tone by the speed factor (2 = twice as long).
The factor is rounded down to hundredths.

Example:
  audioedit speed --speed 0.75 --channels 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := src.buffer()
			if err != nil {
				return err
			}

			key := edit.SpeedKey(in, speed, p)
			out, cached, err := a.render(key, func() (*audio.Buffer, error) {
				return edit.Speed(in, speed, p)
			})
			if err != nil {
				return err
			}

			t := a.table()
			t.row("factor", "%.2f", edit.SpeedFactor(speed))
			t.row("input", "%s samples (%s)", samples(in.Len()), in.Duration())
			t.row("output", "%s samples (%s)", samples(out.Len()), out.Duration())
			t.row("dominant out", "%s", dominant(out))
			t.row("key", "%s", key)
			t.row("cached", "%t", cached)
			return t.flush()
		},
	}

	src.register(cmd, a.cfg.SampleRate)
	cmd.Flags().Float64Var(&speed, "speed", 2, "duration factor")
	registerSTFT(cmd, &p, a.cfg.NFFT)

	return cmd
}

func (a *app) toneCmd() *cobra.Command {
	var (
		src      source
		kindName string
		gain     float64
		center   float64
		q        float64
	)

	cmd := &cobra.Command{
		Use:   "tone",
		Short: "Apply a bass or treble shelf to a test tone",
		Long: `Boost or cut a test tone with a shelving filter.

Example:
  audioedit tone --kind treble --gain -6 --freq 8000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := tone.ParseKind(kindName)
			if err != nil {
				return err
			}

			in, err := src.buffer()
			if err != nil {
				return err
			}

			key := edit.BassTrebleKey(in, kind, gain, center, q)
			out, cached, err := a.render(key, func() (*audio.Buffer, error) {
				return edit.BassTreble(in, kind, gain, center, q)
			})
			if err != nil {
				return err
			}

			corner := center
			if corner <= 0 {
				corner = kind.DefaultFreq()
			}

			t := a.table()
			t.row("shelf", "%s @ %s, %+.1f dB", kind, hz(corner), gain)
			t.row("peak in", "%.1f dBFS", peakDB(in))
			t.row("peak out", "%.1f dBFS", peakDB(out))
			t.row("key", "%s", key)
			t.row("cached", "%t", cached)
			return t.flush()
		},
	}

	src.register(cmd, a.cfg.SampleRate)
	cmd.Flags().StringVar(&kindName, "kind", "bass", "shelf kind: bass or treble")
	cmd.Flags().Float64Var(&gain, "gain", 6, "shelf gain in dB")
	cmd.Flags().Float64Var(&center, "center", -1, "shelf corner in Hz (-1 = 100 bass, 3000 treble)")
	cmd.Flags().Float64Var(&q, "q", -1, "shelf Q (-1 = 0.707)")

	return cmd
}

// trackFlags holds the per-track list flags shared by mix and concat.
type trackFlags struct {
	freqs   floatList
	rates   []int
	seconds float64
}

func (f *trackFlags) register(cmd *cobra.Command, defaultRate int) {
	f.freqs = floatList{220, 330}
	cmd.Flags().Var(&f.freqs, "freqs", "tone frequency per track")
	cmd.Flags().IntSliceVar(&f.rates, "rates", []int{defaultRate}, "sample rate per track (last value repeats)")
	cmd.Flags().Float64Var(&f.seconds, "seconds", 1, "tone duration per track")
}

func (f *trackFlags) buffers() ([]*audio.Buffer, error) {
	out := make([]*audio.Buffer, len(f.freqs))

	for i, freq := range f.freqs {
		b, err := synth(freq, pick(f.rates, i, 44100), 1, f.seconds)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", i+1, err)
		}

		out[i] = b
	}

	return out, nil
}

// floatList is a comma-separated float flag. Each use replaces the list.
type floatList []float64

func (l *floatList) String() string {
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (l *floatList) Set(s string) error {
	var out floatList
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", part)
		}
		out = append(out, v)
	}
	*l = out
	return nil
}

func (l *floatList) Type() string { return "floats" }

// pick returns xs[i], the last element when i is past the end, or def.
func pick[T any](xs []T, i int, def T) T {
	switch {
	case len(xs) == 0:
		return def
	case i < len(xs):
		return xs[i]
	default:
		return xs[len(xs)-1]
	}
}

func (a *app) mixCmd() *cobra.Command {
	var (
		tf             trackFlags
		volumes        floatList
		starts         floatList
		constantVolume bool
		normalize      float64
	)

	cmd := &cobra.Command{
		Use:   "mix",
		Short: "Mix test tones on a shared timeline",
		Long: `Align test tones to the highest rate and channel count, delay each by
its start time and sum them.

Example:
  audioedit mix --freqs 220,330 --volumes 1,0.5 --starts 0,0.25 --rates 22050,44100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bufs, err := tf.buffers()
			if err != nil {
				return err
			}

			tracks := make([]mix.Track, len(bufs))
			for i, b := range bufs {
				tracks[i] = mix.Track{
					Buffer: b,
					Volume: pick([]float64(volumes), i, 1.0),
					Start:  seconds2duration(pick([]float64(starts), i, 0.0)),
				}
			}

			key := edit.MixKey(tracks, constantVolume)
			out, cached, err := a.render(key, func() (*audio.Buffer, error) {
				return edit.Mix(tracks, constantVolume, align.WithLogger(a.logger))
			})
			if err != nil {
				return err
			}

			t := a.table()
			t.row("tracks", "%d", len(tracks))
			t.row("format", "%s, %d channel(s)", hz(float64(out.SampleRate)), out.Channels())
			t.row("length", "%s samples (%s)", samples(out.Len()), out.Duration())
			t.row("peak", "%.1f dBFS", peakDB(out))

			if normalize > 0 && out.Len() > 0 {
				n, err := signal.NormalizeBuffer(out, normalize)
				if err != nil {
					return err
				}
				t.row("normalized", "%.1f dBFS", peakDB(n))
			}

			t.row("key", "%s", key)
			t.row("cached", "%t", cached)
			return t.flush()
		},
	}

	tf.register(cmd, a.cfg.SampleRate)
	cmd.Flags().Var(&volumes, "volumes", "volume per track, <= 0 drops it (default 1)")
	cmd.Flags().Var(&starts, "starts", "start offset per track in seconds (default 0)")
	cmd.Flags().BoolVar(&constantVolume, "constant-volume", false, "divide by the track count instead of the active count")
	cmd.Flags().Float64Var(&normalize, "normalize", 0, "also report the peak after normalising to this level (0 = off)")

	return cmd
}

func (a *app) concatCmd() *cobra.Command {
	var tf trackFlags

	cmd := &cobra.Command{
		Use:   "concat",
		Short: "Join test tones end to end",
		Long: `Convert test tones to the highest rate and channel count and join them.

Example:
  audioedit concat --freqs 220,330,440 --rates 8000,16000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bufs, err := tf.buffers()
			if err != nil {
				return err
			}

			key := edit.ConcatKey(bufs)
			out, cached, err := a.render(key, func() (*audio.Buffer, error) {
				return edit.Concat(bufs, align.WithLogger(a.logger))
			})
			if err != nil {
				return err
			}

			t := a.table()
			t.row("format", "%s, %d channel(s)", hz(float64(out.SampleRate)), out.Channels())

			off := 0
			for i, b := range bufs {
				n := resample.OutputLen(b.Len(), b.SampleRate, out.SampleRate)
				t.row(fmt.Sprintf("segment %d", i+1), "[%s, %s) from %s", samples(off), samples(off+n), hz(float64(b.SampleRate)))
				off += n
			}

			t.row("length", "%s samples (%s)", samples(out.Len()), out.Duration())
			t.row("key", "%s", key)
			t.row("cached", "%t", cached)
			return t.flush()
		},
	}

	tf.register(cmd, a.cfg.SampleRate)

	return cmd
}

func (a *app) cacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cache",
		Short: "Show render cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.store == nil {
				return fmt.Errorf("no cache configured (use --cache or AUDIOEDIT_CACHE)")
			}

			st, err := a.store.Stats()
			if err != nil {
				return err
			}

			t := a.table()
			t.row("path", "%s", a.cfg.CachePath)
			t.row("entries", "%s", humanize.Comma(int64(st.Entries)))
			t.row("samples", "%s", humanize.Bytes(st.Bytes))
			return t.flush()
		},
	}
}
