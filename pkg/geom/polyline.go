package geom

// BoundingBox2 is an axis-aligned rectangle in the XY plane.
type BoundingBox2 struct {
	Min Vec2 `json:"min"`
	Max Vec2 `json:"max"`
}

// Width returns the X extent of the box.
func (b BoundingBox2) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the Y extent of the box.
func (b BoundingBox2) Height() float64 { return b.Max.Y - b.Min.Y }

// Segment2 is a 2-D line segment, the unit of work produced by slicing
// a triangle against a Z plane before stitching.
type Segment2 struct {
	A Vec2
	B Vec2
}

// Polyline is an ordered sequence of 2-D points. Closed polylines
// implicitly connect the last point back to the first. Point order is
// significant: it encodes traversal direction, which downstream encodes
// climb versus conventional cutting.
type Polyline struct {
	Points []Vec2 `json:"points"`
	Closed bool   `json:"closed"`
}

// NewPolyline constructs a polyline. The point slice is retained, not copied.
func NewPolyline(points []Vec2, closed bool) Polyline {
	return Polyline{Points: points, Closed: closed}
}

// Bounds returns the bounding rectangle of the polyline's points.
// ok is false for an empty polyline.
func (p Polyline) Bounds() (BoundingBox2, bool) {
	if len(p.Points) == 0 {
		return BoundingBox2{}, false
	}
	bb := BoundingBox2{Min: p.Points[0], Max: p.Points[0]}
	for _, pt := range p.Points[1:] {
		bb.Min.X = min(bb.Min.X, pt.X)
		bb.Min.Y = min(bb.Min.Y, pt.Y)
		bb.Max.X = max(bb.Max.X, pt.X)
		bb.Max.Y = max(bb.Max.Y, pt.Y)
	}
	return bb, true
}

// SignedArea returns the signed area enclosed by the polyline treated as
// a closed loop. Positive area means counter-clockwise winding.
func (p Polyline) SignedArea() float64 {
	n := len(p.Points)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		a := p.Points[i]
		b := p.Points[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Reversed returns a copy of the polyline with point order reversed.
func (p Polyline) Reversed() Polyline {
	pts := make([]Vec2, len(p.Points))
	for i, pt := range p.Points {
		pts[len(pts)-1-i] = pt
	}
	return Polyline{Points: pts, Closed: p.Closed}
}
