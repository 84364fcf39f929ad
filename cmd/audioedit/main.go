// Command audioedit runs the pitch, speed, tone, mix and concat operations
// on synthesised test tones and reports what came out.
//
// Usage:
//
//	audioedit [--cache file] [--verbose] <command> [flags]
//
// Examples:
//
//	audioedit pitch --freq 440 --steps 12
//	audioedit speed --speed 1.5 --rate 22050
//	audioedit mix --freqs 220,330 --volumes 1,0.5 --starts 0,0.25 --rates 22050,44100
//	audioedit concat --freqs 220,330,440 --rates 8000,16000,8000
//	audioedit tone --kind bass --gain 6 --freq 60
//
// Defaults for --cache, --rate and --n-fft come from AUDIOEDIT_CACHE,
// AUDIOEDIT_SAMPLE_RATE and AUDIOEDIT_NFFT.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-audioedit/dsp/audio"
	"github.com/cwbudde/algo-audioedit/internal/cache"
	"github.com/cwbudde/algo-audioedit/internal/config"
)

var version = "0.1.0"

func main() {
	root, a := newRootCmd(config.Load(), os.Stdout, os.Stderr)
	if err := a.execute(root); err != nil {
		os.Exit(1)
	}
}

// app carries the state shared by all subcommands of one invocation.
type app struct {
	cfg     config.Config
	verbose bool

	logger *log.Logger
	store  *cache.Store
	out    io.Writer
}

func newRootCmd(cfg config.Config, stdout, stderr io.Writer) (*cobra.Command, *app) {
	a := &app{cfg: cfg, out: stdout}

	root := &cobra.Command{
		Use:   "audioedit",
		Short: "Pitch shift, time stretch, mix and concatenate test tones",
		Long: `audioedit renders synthesised tones through the phase-vocoder,
shelving-filter, mixer and concatenator and prints the result format,
dominant frequencies and change keys.

Renders are memoised by change key when --cache is set.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.verbose {
				a.logger = log.New(stderr, "audioedit: ", 0)
			}

			if a.cfg.CachePath == "" {
				return nil
			}

			s, err := cache.Open(a.cfg.CachePath)
			if err != nil {
				return err
			}

			a.store = s
			a.logf("cache: %s", a.cfg.CachePath)
			return nil
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.cfg.CachePath, "cache", cfg.CachePath, "sqlite file memoising renders by change key")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log alignment targets and cache hits to stderr")

	root.AddCommand(
		a.pitchCmd(),
		a.speedCmd(),
		a.toneCmd(),
		a.mixCmd(),
		a.concatCmd(),
		a.cacheCmd(),
	)

	return root, a
}

// execute runs root and closes the cache store opened for it, also when the
// command fails.
func (a *app) execute(root *cobra.Command) error {
	err := root.Execute()
	return errors.Join(err, a.closeStore())
}

func (a *app) closeStore() error {
	if a.store == nil {
		return nil
	}

	err := a.store.Close()
	a.store = nil
	if err != nil {
		return fmt.Errorf("close cache: %w", err)
	}
	return nil
}

func (a *app) logf(format string, args ...any) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}

// render returns the cached buffer for key or computes and stores it.
func (a *app) render(key string, fn func() (*audio.Buffer, error)) (*audio.Buffer, bool, error) {
	if a.store != nil {
		b, ok, err := a.store.Get(key)
		if err != nil {
			return nil, false, err
		}

		if ok {
			a.logf("cache hit %s", key[:12])
			return b, true, nil
		}
	}

	b, err := fn()
	if err != nil {
		return nil, false, err
	}

	if a.store != nil {
		if err := a.store.Put(key, b); err != nil {
			return nil, false, err
		}
	}

	return b, false, nil
}

// table prints label/value rows aligned in two columns.
type table struct {
	tw *tabwriter.Writer
}

func (a *app) table() *table {
	return &table{tw: tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)}
}

func (t *table) row(label, format string, args ...any) {
	fmt.Fprintf(t.tw, "%s\t%s\n", label, fmt.Sprintf(format, args...))
}

func (t *table) flush() error {
	if err := t.tw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
