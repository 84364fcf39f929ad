// Package interp provides interpolation primitives.
//
// Available kernels:
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite
//
// [Resize] maps a whole signal onto a new length using either kernel.
package interp
