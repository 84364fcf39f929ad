// Package biquad provides the second-order IIR section used by the tone
// controls.
//
// A [Section] runs Direct Form II Transposed over [Coefficients]; coefficient
// design lives with the filters that need it.
package biquad
