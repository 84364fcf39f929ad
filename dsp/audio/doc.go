// Package audio defines the in-memory audio buffer shared by every
// operation in this module.
//
// A Buffer holds samples indexed as [take][channel][time] together with a
// sample rate. Operations treat buffers as immutable snapshots: they read
// their inputs and return new buffers.
//
// The package also provides the canonical single-take mono form used by the
// pitch shifter (Canonical) and the content digest hosts use for change
// detection (Digest).
package audio
