package toolpath

import (
	"math"

	"github.com/chazu/swarf/pkg/geom"
)

// minOffsetArea is the enclosed-area floor below which an offset pass is
// considered degenerate and iteration stops.
const minOffsetArea = 1e-9

// OffsetPolyline displaces every point of poly along the boundary normal.
// dist > 0 moves outward, dist < 0 inward. The normal at each point is the
// average of its two adjacent edge normals, so curvature is compensated
// per segment rather than with a single global offset vector. Outward is
// derived from the polyline's winding; open polylines offset toward the
// left of the traversal direction for positive dist.
func OffsetPolyline(poly geom.Polyline, dist float64) []geom.Vec2 {
	pts := poly.Points
	n := len(pts)
	if n < 2 {
		out := make([]geom.Vec2, n)
		copy(out, pts)
		return out
	}

	// The averaged edge normal below is the left-hand normal of travel.
	// For counter-clockwise loops left points inward, so flip the sign to
	// make positive dist mean outward.
	sign := 1.0
	if poly.Closed && poly.SignedArea() > 0 {
		sign = -1.0
	}

	out := make([]geom.Vec2, 0, n)
	for i := 0; i < n; i++ {
		prev := pts[max(i-1, 0)]
		next := pts[min(i+1, n-1)]
		if poly.Closed {
			prev = pts[(i-1+n)%n]
			next = pts[(i+1)%n]
		}

		d1 := pts[i].Sub(prev)
		d2 := next.Sub(pts[i])
		normal := geom.V2(-(d1.Y + d2.Y), d1.X+d2.X)
		l := normal.Length()
		if l < 1e-10 {
			// Coincident or exactly reversing points give no usable normal.
			out = append(out, pts[i])
			continue
		}
		out = append(out, pts[i].Add(normal.Scale(sign*dist/l)))
	}
	return out
}

// offsetDegenerate reports whether an offset pass has collapsed: too few
// points, enclosed area below threshold, or a self-crossing boundary.
func offsetDegenerate(pts []geom.Vec2, closed bool) bool {
	if len(pts) < 3 {
		return true
	}
	if closed {
		loop := geom.NewPolyline(pts, true)
		if math.Abs(loop.SignedArea()) < minOffsetArea {
			return true
		}
	}
	return selfIntersects(pts, closed)
}

// offsetInverted reports whether an offset loop has turned inside out.
// An inset pushed past the contour's medial axis carries every vertex to
// the far side, which is a point reflection on symmetric contours and so
// preserves winding and signed-area sign. The reliable tell is the edges:
// a valid inset keeps each offset edge pointing the same way as its
// source edge, while an inverted loop runs them backwards. Offset points
// correspond one-to-one with source points, so edges compare directly.
func offsetInverted(src, off []geom.Vec2, closed bool) bool {
	if len(src) != len(off) || len(src) < 2 {
		return false
	}
	segs := len(src) - 1
	if closed {
		segs = len(src)
	}
	for i := 0; i < segs; i++ {
		j := (i + 1) % len(src)
		d := src[j].Sub(src[i])
		e := off[j].Sub(off[i])
		if d.Length() < 1e-10 || e.Length() < 1e-10 {
			continue
		}
		if d.Dot(e) < 0 {
			return true
		}
	}
	return false
}

// selfIntersects checks every non-adjacent segment pair for a proper
// crossing. Quadratic, but offset passes are short.
func selfIntersects(pts []geom.Vec2, closed bool) bool {
	segs := len(pts) - 1
	if closed {
		segs = len(pts)
	}
	at := func(i int) (geom.Vec2, geom.Vec2) {
		return pts[i], pts[(i+1)%len(pts)]
	}
	for i := 0; i < segs; i++ {
		for j := i + 2; j < segs; j++ {
			if closed && i == 0 && j == segs-1 {
				continue // first and last segments share a vertex
			}
			a1, a2 := at(i)
			b1, b2 := at(j)
			if segmentsCross(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

// segmentsCross reports a proper intersection between segments a1a2 and b1b2.
func segmentsCross(a1, a2, b1, b2 geom.Vec2) bool {
	d1 := cross2(b2.Sub(b1), a1.Sub(b1))
	d2 := cross2(b2.Sub(b1), a2.Sub(b1))
	d3 := cross2(a2.Sub(a1), b1.Sub(a1))
	d4 := cross2(a2.Sub(a1), b2.Sub(a1))
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func cross2(a, b geom.Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// orientForCut orders offset points for the requested cut direction:
// climb keeps the stitched winding, conventional reverses it.
func orientForCut(pts []geom.Vec2, climb bool) []geom.Vec2 {
	if climb {
		return pts
	}
	rev := make([]geom.Vec2, len(pts))
	for i, p := range pts {
		rev[len(pts)-1-i] = p
	}
	return rev
}

// tracePath builds the standard pass motion over offset points at depth
// cutZ: rapid above the first point, plunge, cut around, close if the
// source contour was closed, then retract to the safe plane.
func tracePath(pts []geom.Vec2, closed bool, cutZ, safeZ float64) Path {
	var p Path
	if len(pts) == 0 {
		return p
	}
	p.RapidTo(pts[0].X, pts[0].Y, safeZ)
	p.PlungeTo(pts[0].X, pts[0].Y, cutZ)
	for _, pt := range pts[1:] {
		p.CutTo(pt.X, pt.Y, cutZ)
	}
	if closed {
		p.CutTo(pts[0].X, pts[0].Y, cutZ)
	}
	last := pts[len(pts)-1]
	if closed {
		last = pts[0]
	}
	p.RapidTo(last.X, last.Y, safeZ)
	return p
}
