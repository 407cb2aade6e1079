// Package manifold builds the recursively-subdivided spherical meshes
// (icosahedron and octahedron base solids) that the three spherical
// wavetree variants (Sphere2D-face, Sphere3D-face, Sphere3D-vertex) and
// the transform package operate over.
//
// Grounded on original_source/sphericalwavelet/manifold.c,
// icosahedron.c and octahedron.c: a Manifold owns a flat, depth-ordered
// vertex list plus per-depth triangle/edge lists, built by recursively
// quartering each triangle and memoising edge midpoints so shared edges
// produce exactly one new vertex. Go's strong slice types stand in for
// the C struct-of-arrays (vertex3_t*, edge_t**, triangle_t**); there is
// no callback-based construction API since Go needs no function
// pointers to parameterise a base solid's per-depth counting functions.
package manifold
