// Package surface answers point queries against a triangle mesh: the
// height of the surface under a vertical ray and the face normal at that
// point. These queries form the inner loop of surface-following strategies,
// so they work triangle-by-triangle with no global restructuring; callers
// pre-scope the mesh or accept the brute-force cost.
package surface

import "github.com/chazu/swarf/pkg/geom"

// edgeEps tolerates samples landing exactly on triangle edges or vertices.
const edgeEps = 1e-9

// Sample is one consistent surface measurement: the height and the normal
// both come from the same triangle, the one whose intersection with the
// vertical ray through (x, y) is highest.
type Sample struct {
	Z      float64
	Normal geom.Vec3
}

// At casts a vertical ray through (x, y) and returns the highest surface
// intersection. Degenerate triangles are skipped. ok is false when no
// triangle covers that XY location.
func At(m *geom.Mesh, x, y float64) (Sample, bool) {
	if m.IsEmpty() {
		return Sample{}, false
	}
	var best Sample
	found := false
	for _, t := range m.Triangles {
		z, ok := heightOn(t, x, y)
		if !ok {
			continue
		}
		if !found || z > best.Z {
			best = Sample{Z: z, Normal: t.FaceNormal()}
			found = true
		}
	}
	return best, found
}

// HeightAt returns the highest Z at which a vertical ray through (x, y)
// intersects the mesh. Repeated calls with the same inputs return the
// same value; ties between overlapping triangles resolve to the maximum.
func HeightAt(m *geom.Mesh, x, y float64) (float64, bool) {
	s, ok := At(m, x, y)
	return s.Z, ok
}

// NormalAt returns the face normal of the triangle selected by the height
// query at (x, y), keeping height and normal mutually consistent for a
// single sample point.
func NormalAt(m *geom.Mesh, x, y float64) (geom.Vec3, bool) {
	s, ok := At(m, x, y)
	return s.Normal, ok
}

// heightOn computes the Z of triangle t under (x, y) via barycentric
// coordinates of the XY projection. ok is false when the projection does
// not contain the point or the triangle is degenerate in projection.
func heightOn(t geom.Triangle, x, y float64) (float64, bool) {
	x0, y0 := t.V0.X, t.V0.Y
	x1, y1 := t.V1.X, t.V1.Y
	x2, y2 := t.V2.X, t.V2.Y

	den := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if den > -geom.DegenerateArea && den < geom.DegenerateArea {
		// Zero projected area: degenerate or edge-on triangle.
		return 0, false
	}

	a := ((y1-y2)*(x-x2) + (x2-x1)*(y-y2)) / den
	b := ((y2-y0)*(x-x2) + (x0-x2)*(y-y2)) / den
	c := 1 - a - b
	if a < -edgeEps || b < -edgeEps || c < -edgeEps {
		return 0, false
	}
	return a*t.V0.Z + b*t.V1.Z + c*t.V2.Z, true
}
