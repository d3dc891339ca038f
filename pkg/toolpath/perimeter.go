package toolpath

import "github.com/chazu/swarf/pkg/geom"

// Perimeter follows the outermost boundary contour with one or more
// passes stepping inward by step-over. Radius compensation is applied
// along the per-segment boundary normal, the same way Contour does it,
// and the climb/conventional parameter selects traversal order.
type Perimeter struct{}

// Generate emits params.Passes paths around the outer contour. Pass k is
// inset by the effective tool radius plus k step-overs; a pass whose
// offset collapses is skipped and iteration continues so later contours
// are unaffected.
func (Perimeter) Generate(contours []geom.Polyline, params *CutParams) []Path {
	outer, ok := outermost(contours)
	if !ok {
		return nil
	}

	radius := params.Tool.EffectiveRadius()
	passes := params.Passes
	if passes < 1 {
		passes = 1
	}

	var paths []Path
	for pass := 0; pass < passes; pass++ {
		inset := radius + float64(pass)*params.StepOver
		pts := OffsetPolyline(outer, -inset)
		if offsetDegenerate(pts, outer.Closed) {
			continue
		}
		if offsetInverted(outer.Points, pts, outer.Closed) {
			// This inset is past the contour's core; the loop is inside
			// out and deeper insets only re-expand it.
			continue
		}
		pts = orientForCut(pts, params.Climb)
		p := tracePath(pts, outer.Closed, params.CutZ, params.SafeZ)
		if !p.IsEmpty() {
			paths = append(paths, p)
		}
	}
	return paths
}

// outermost picks the closed contour with the largest bounding-box area.
// Open contours are not perimeter candidates; ok is false when no closed
// contour has usable bounds.
func outermost(contours []geom.Polyline) (geom.Polyline, bool) {
	var best geom.Polyline
	bestArea := -1.0
	for _, c := range contours {
		if !c.Closed {
			continue
		}
		bb, ok := c.Bounds()
		if !ok {
			continue
		}
		area := bb.Width() * bb.Height()
		if area > bestArea {
			bestArea = area
			best = c
		}
	}
	return best, bestArea >= 0
}
