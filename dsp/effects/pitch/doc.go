// Package pitch shifts the pitch of audio by a number of equal-tempered
// steps without changing its duration.
//
// A Shifter time-stretches the first channel by 1/r with the phase vocoder
// from package stretch, where r = 2^(steps/binsPerOctave), then linearly
// resamples the result back to the original sample count. The output is
// always canonical: one take, one channel, float32 precision.
package pitch
