// Package mix combines several audio buffers into one, either by summing
// them on a shared timeline (Mix) or by joining them end to end (Concat).
//
// Both operations first bring their inputs to a common format with package
// align, so inputs may differ in sample rate, channel count and length.
package mix
