// Package slicer cross-sections a triangle mesh with horizontal planes,
// producing 2-D contour polylines. Each straddling triangle contributes one
// intersection segment; segments are then stitched into polylines by
// matching endpoints within a numeric tolerance. A stitch that returns to
// its start becomes a closed contour; one that does not is left open and
// reported as such, never treated as fatal (non-manifold meshes are
// tolerated, not rejected).
package slicer

import "github.com/chazu/swarf/pkg/geom"

// stitchEps is the endpoint-matching tolerance used when chaining
// intersection segments into polylines.
const stitchEps = 1e-6

// planeEps decides when a vertex lies on the slicing plane.
const planeEps = 1e-10

// Layer is the result of slicing at one Z height.
type Layer struct {
	Z        float64
	Contours []geom.Polyline
}

// Slice cross-sections the mesh at uniform Z intervals of layerHeight,
// from just above the mesh floor to its top. Layers that intersect no
// geometry are omitted.
func Slice(m *geom.Mesh, layerHeight float64) []Layer {
	bounds, ok := m.Bounds()
	if !ok || layerHeight <= 0 {
		return nil
	}

	var layers []Layer
	for z := bounds.Min.Z + layerHeight/2; z <= bounds.Max.Z; z += layerHeight {
		contours := SliceAt(m, z)
		if len(contours) > 0 {
			layers = append(layers, Layer{Z: z, Contours: contours})
		}
	}
	return layers
}

// SliceAt computes the planar contours of the mesh at height z. Output
// order of the polylines is not significant; point order within each
// polyline follows the stitching walk.
func SliceAt(m *geom.Mesh, z float64) []geom.Polyline {
	return stitch(collectSegments(m, z))
}

// collectSegments intersects every straddling triangle with the plane.
// Triangles entirely above or below the plane, degenerate triangles, and
// triangles lying flat in the plane are discarded.
func collectSegments(m *geom.Mesh, z float64) []geom.Segment2 {
	if m.IsEmpty() {
		return nil
	}
	var segs []geom.Segment2
	for _, t := range m.Triangles {
		if t.MinZ() > z || t.MaxZ() < z {
			continue
		}
		if t.IsDegenerate() {
			continue
		}
		if t.MaxZ()-t.MinZ() < planeEps {
			// Coplanar with the slicing plane: no well-defined section line.
			continue
		}
		if seg, ok := intersectTriangle(t, z); ok {
			segs = append(segs, seg)
		}
	}
	return segs
}

// intersectTriangle computes the segment where triangle t crosses the
// plane Z=z. Each edge that strictly crosses contributes an interpolated
// point; a vertex lying on the plane contributes itself.
func intersectTriangle(t geom.Triangle, z float64) (geom.Segment2, bool) {
	verts := [3]geom.Vec3{t.V0, t.V1, t.V2}
	edges := [3][2]int{{0, 1}, {1, 2}, {2, 0}}

	var pts []geom.Vec2
	for _, e := range edges {
		p, q := verts[e[0]], verts[e[1]]
		switch {
		case (p.Z-z)*(q.Z-z) < 0:
			f := (z - p.Z) / (q.Z - p.Z)
			ip := geom.Lerp(p, q, f)
			pts = appendDistinct(pts, geom.V2(ip.X, ip.Y))
		case abs(p.Z-z) < planeEps:
			pts = appendDistinct(pts, geom.V2(p.X, p.Y))
		}
	}

	if len(pts) < 2 {
		return geom.Segment2{}, false
	}
	return geom.Segment2{A: pts[0], B: pts[1]}, true
}

// appendDistinct adds pt unless it coincides with an already-collected point.
func appendDistinct(pts []geom.Vec2, pt geom.Vec2) []geom.Vec2 {
	for _, p := range pts {
		if geom.Dist(p, pt) < planeEps {
			return pts
		}
	}
	return append(pts, pt)
}

// stitch chains loose segments into polylines by matching endpoints within
// stitchEps. A chain whose tail returns to its head is marked closed;
// anything else stays open, which callers surface as an open-boundary
// condition rather than an error.
func stitch(segments []geom.Segment2) []geom.Polyline {
	if len(segments) == 0 {
		return nil
	}

	used := make([]bool, len(segments))
	var polylines []geom.Polyline

	for start := range segments {
		if used[start] {
			continue
		}
		used[start] = true
		chain := []geom.Vec2{segments[start].A, segments[start].B}

		for {
			tail := chain[len(chain)-1]
			found := false
			for j, seg := range segments {
				if used[j] {
					continue
				}
				switch {
				case geom.Dist(seg.A, tail) < stitchEps:
					used[j] = true
					chain = append(chain, seg.B)
					found = true
				case geom.Dist(seg.B, tail) < stitchEps:
					used[j] = true
					chain = append(chain, seg.A)
					found = true
				}
				if found {
					break
				}
			}
			if !found {
				break
			}
		}

		closed := len(chain) > 2 && geom.Dist(chain[0], chain[len(chain)-1]) < stitchEps
		if closed {
			chain = chain[:len(chain)-1] // drop the duplicate closing point
		}
		polylines = append(polylines, geom.NewPolyline(chain, closed))
	}
	return polylines
}

// OpenCount returns how many of the contours failed to close during
// stitching. Pocket and perimeter strategies assume closed contours, so
// callers flag a non-zero count to the job's warning stream.
func OpenCount(contours []geom.Polyline) int {
	n := 0
	for _, c := range contours {
		if !c.Closed {
			n++
		}
	}
	return n
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
