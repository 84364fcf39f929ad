// Package resample provides rational sample-rate conversion using polyphase FIR
// filtering with anti-aliasing defaults.
//
// Quality modes:
//   - QualityFast: 16 taps per phase, ~55 dB stopband
//   - QualityBalanced: 32 taps per phase, the default
//   - QualityBest: 64 taps per phase, ~90 dB stopband
//
// Rates is the one-shot entry point: it removes the
// filter delay and returns exactly ceil(n*out/in) samples. A Resampler from
// NewRational or NewForRates designs the filter once and Convert reuses it
// for any number of signals at that ratio.
package resample
