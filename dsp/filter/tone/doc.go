// Package tone implements bass and treble controls as RBJ shelving biquads.
//
// Bass is a low shelf (default corner 100 Hz), treble a high shelf (default
// corner 3000 Hz). Output samples are clamped to [-1, 1].
package tone
