// Package window generates the analysis windows used for short-time
// Fourier framing.
//
// Windows come in symmetric form (filter design) or periodic form
// (WithPeriodic, FFT framing). Centered embeds a short window inside a
// longer FFT frame.
package window
