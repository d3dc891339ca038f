package toolpath

import "github.com/chazu/swarf/pkg/geom"

// maxPocketPasses bounds the inward iteration in case numeric noise keeps
// an offset loop from ever degenerating.
const maxPocketPasses = 10000

// Pocket clears the interior of closed contours with repeated inward
// offset passes spaced step-over apart. This is a plain area fill: islands
// are avoided only to the extent polygon offsetting naturally avoids them,
// and no previously-removed material is tracked.
type Pocket struct{}

// Generate produces the inward pass sequence for every closed contour.
// Open or too-small contours are skipped silently. Iteration for one
// contour stops as soon as the offset loop degenerates: fewer than three
// points, enclosed area below threshold, an inverted loop, area no longer
// shrinking, or a self-crossing boundary.
func (Pocket) Generate(contours []geom.Polyline, params *CutParams) []Path {
	radius := params.Tool.EffectiveRadius()

	var paths []Path
	for _, contour := range contours {
		if !contour.Closed || len(contour.Points) < 3 {
			continue
		}

		prevArea := absArea(contour)
		for pass := 0; pass < maxPocketPasses; pass++ {
			inset := radius + float64(pass)*params.StepOver
			pts := OffsetPolyline(contour, -inset)
			if offsetDegenerate(pts, true) {
				break
			}
			if offsetInverted(contour.Points, pts, true) {
				// The inset pushed past the medial axis and the loop
				// turned inside out.
				break
			}
			area := absArea(geom.NewPolyline(pts, true))
			if area >= prevArea {
				// The offset stopped shrinking: the loop has collapsed
				// onto itself and further passes would cut garbage.
				break
			}
			prevArea = area

			pts = orientForCut(pts, params.Climb)
			p := tracePath(pts, true, params.CutZ, params.SafeZ)
			if !p.IsEmpty() {
				paths = append(paths, p)
			}
		}
	}
	return paths
}

func absArea(p geom.Polyline) float64 {
	a := p.SignedArea()
	if a < 0 {
		return -a
	}
	return a
}
