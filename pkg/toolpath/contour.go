package toolpath

import "github.com/chazu/swarf/pkg/geom"

// Contour follows boundary polylines at the configured depth, offset
// outward by the tool's effective radius so the tool flank lands on the
// boundary rather than the tool center.
type Contour struct{}

// Generate produces one path per usable contour. Contours whose offset
// collapses are skipped; an empty input yields an empty list.
func (Contour) Generate(contours []geom.Polyline, params *CutParams) []Path {
	radius := params.Tool.EffectiveRadius()

	var paths []Path
	for _, contour := range contours {
		pts := OffsetPolyline(contour, radius)
		if len(pts) == 0 {
			continue
		}
		pts = orientForCut(pts, params.Climb)
		p := tracePath(pts, contour.Closed, params.CutZ, params.SafeZ)
		if !p.IsEmpty() {
			paths = append(paths, p)
		}
	}
	return paths
}
