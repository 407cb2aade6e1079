// Package transform implements the subdivision wavelet transforms that
// convert between a spherical field sampled at the finest mesh
// resolution and its multiresolution coefficient representation: face
// subdivision Haar-like and face biorthogonal Haar transforms over
// manifold.Triangle values, a vertex butterfly transform (lifted and
// unlifted) over manifold.Vertex3-indexed values, and a 1-D shell
// (radial) Haar transform for stacked-shell fields.
//
// Grounded on original_source/sphericalwavelet/face_subdivision.c,
// face_wavelet.c, vertex_wavelet.c and transform.c: each is a lifting
// scheme (predict from coarser samples, keep the residual as a detail
// coefficient) applied once per subdivision depth, finest-first on
// the way out (Forward) and coarsest-first on the way back
// (Inverse). Every transform here is exactly invertible by
// construction: the detail coefficients plus the coarsest level fully
// determine the finest-level field.
package transform
