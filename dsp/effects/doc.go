// Package effects groups the spectral effects built on dsp/stft.
//
// Subpackages:
//   - github.com/cwbudde/algo-audioedit/dsp/effects/stretch
//   - github.com/cwbudde/algo-audioedit/dsp/effects/pitch
//
// Both work offline on whole buffers and share the phase-vocoder
// implemented by stretch.
package effects
