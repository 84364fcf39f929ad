// Package stft implements a centred short-time Fourier transform and its
// overlap-add inverse over multi-channel signals.
//
// Frames are taken every hop samples from a signal padded by n_fft/2 on both
// sides, weighted by a periodic Hann window of win_length samples centred in
// the n_fft frame, and transformed with algo-fft. Only the n_fft/2+1
// non-negative frequency bins are kept.
//
// Inverse divides the overlap-added frames by the summed squared window and
// fails with ErrWindowEnvelope when that sum vanishes inside the requested
// range, which happens when hop is not smaller than the window.
package stft
