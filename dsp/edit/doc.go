// Package edit exposes the audio editing operations a host application
// calls: pitch and speed changes, sample-rate relabelling, bass/treble,
// mixing and concatenation, plus change keys that identify the result of an
// operation from its inputs.
//
// Integer STFT parameters follow the host convention that -1 (or any
// non-positive value) selects the default.
package edit
