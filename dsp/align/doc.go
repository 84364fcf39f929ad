// Package align brings a set of audio tracks to a common format so they can
// be summed or joined sample by sample.
//
// The common format is the highest sample rate, the highest channel count
// and the longest duration among the audible tracks (Volume > 0). Tracks are
// only ever upsampled, channels are broadcast by repetition, shorter tracks
// are zero-padded on the right and every track is scaled by its volume.
package align
