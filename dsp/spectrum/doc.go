// Package spectrum provides FFT-adjacent spectrum-domain utilities.
//
// It operates on complex bins produced by an FFT backend: magnitudes
// (vectorised through algo-vecmath), phases, phase wrapping and peak
// picking. DominantFrequency is a small convenience used to check pitch.
package spectrum
