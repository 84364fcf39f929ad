// Package stretch changes the duration of audio without changing its pitch
// using a phase vocoder.
//
// The signal is analysed with a centred STFT, frames are re-sampled along
// the time axis at a fractional step equal to the stretch rate, and the phase
// of every bin is re-accumulated from the measured instantaneous frequency so
// partials stay coherent. A rate above 1 shortens the signal, below 1
// lengthens it.
package stretch
