package manifold

import "math"

// Vertex3 is a point on (or projected onto) the unit sphere.
type Vertex3 struct {
	X, Y, Z float64
}

func (v Vertex3) add(o Vertex3) Vertex3 { return Vertex3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vertex3) scale(s float64) Vertex3 { return Vertex3{v.X * s, v.Y * s, v.Z * s} }

func (v Vertex3) dot(o Vertex3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vertex3) cross(o Vertex3) Vertex3 {
	return Vertex3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vertex3) length() float64 { return math.Sqrt(v.dot(v)) }

func (v Vertex3) normalized() Vertex3 {
	l := v.length()
	if l == 0 {
		return v
	}
	return v.scale(1.0 / l)
}

func midpoint(a, b Vertex3) Vertex3 {
	return a.add(b).scale(0.5).normalized()
}

// LonLatToVertex converts a geographic longitude/latitude pair (radians)
// to a point on the unit sphere, with the pole axis along Z so that
// icosahedron/octahedron poles sit at (0, 0, ±1).
func LonLatToVertex(lon, lat float64) Vertex3 {
	cl := math.Cos(lat)
	return Vertex3{
		X: cl * math.Cos(lon),
		Y: cl * math.Sin(lon),
		Z: math.Sin(lat),
	}
}

// LonLat converts v back to (longitude, latitude) radians. v need not be
// unit length; only its direction is used.
func (v Vertex3) LonLat() (lon, lat float64) {
	u := v.normalized()
	return math.Atan2(u.Y, u.X), math.Asin(u.Z)
}

// sphericalTriangleArea returns the area of the spherical triangle with
// unit-sphere vertices a, b, c via the spherical excess, computed with
// L'Huilier's theorem (the tan(E/4) formulation).
func sphericalTriangleArea(a, b, c Vertex3) float64 {
	ab := sideAngle(a, b)
	bc := sideAngle(b, c)
	ca := sideAngle(c, a)
	s := (ab + bc + ca) / 2
	t := math.Tan(s/2) * math.Tan((s-ab)/2) * math.Tan((s-bc)/2) * math.Tan((s-ca)/2)
	if t < 0 {
		t = 0
	}
	return 4 * math.Atan(math.Sqrt(t))
}

func sideAngle(a, b Vertex3) float64 {
	d := a.normalized().dot(b.normalized())
	if d > 1 {
		d = 1
	} else if d < -1 {
		d = -1
	}
	return math.Acos(d)
}
