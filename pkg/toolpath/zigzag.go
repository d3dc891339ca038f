package toolpath

import (
	"math"

	"github.com/chazu/swarf/pkg/geom"
	"github.com/chazu/swarf/pkg/surface"
	"github.com/chazu/swarf/pkg/tool"
)

// ZigzagSurface raster-scans the mesh surface in serpentine rows: adjacent
// rows run in opposite directions so the tool cuts from the end of one row
// straight into the start of the next instead of retracting. Each sample
// queries the mesh height; ball-end tools additionally shift the programmed
// point along the local surface normal so the ball's tangent point, not its
// tip, lands on the surface.
type ZigzagSurface struct{}

// GenerateSurface produces one path per raster row. Rows where no sample
// hits the mesh are skipped entirely; a mesh with no usable bounds yields
// an empty list.
func (ZigzagSurface) GenerateSurface(params *SurfaceParams) []Path {
	bounds, ok := params.Mesh.Bounds()
	if !ok {
		return nil
	}

	step := math.Max(params.Cut.StepOver, 0.1)
	res := math.Max(params.resolution(), 0.01)
	safeZ := params.Cut.SafeZ

	ballRadius := 0.0
	if params.Cut.Tool.Kind == tool.BallEnd {
		ballRadius = params.Cut.Tool.CornerRadius
	}

	var rowMin, rowMax, alongMin, alongMax float64
	switch params.Axis {
	case ScanY:
		rowMin, rowMax = bounds.Min.X, bounds.Max.X
		alongMin, alongMax = bounds.Min.Y, bounds.Max.Y
	default:
		rowMin, rowMax = bounds.Min.Y, bounds.Max.Y
		alongMin, alongMax = bounds.Min.X, bounds.Max.X
	}

	rowPositions := floatRange(rowMin, rowMax, step)
	alongForward := floatRange(alongMin, alongMax, res)

	var rows [][]geom.Vec3
	forward := true
	for i, rowPos := range rowPositions {
		along := alongForward
		if !forward {
			along = reversed(alongForward)
		}

		var row []geom.Vec3
		for _, a := range along {
			x, y := a, rowPos
			if params.Axis == ScanY {
				x, y = rowPos, a
			}
			if pt, ok := samplePoint(params.Mesh, x, y, ballRadius); ok {
				row = append(row, pt)
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
		forward = !forward

		if params.Progress != nil {
			params.Progress(i+1, len(rowPositions))
		}
	}

	// Chain rows into paths, staying on the surface between rows.
	var paths []Path
	var prevEnd *geom.Vec3
	for _, row := range rows {
		var p Path
		first := row[0]
		if prevEnd == nil {
			p.RapidTo(first.X, first.Y, safeZ)
			p.PlungeTo(first.X, first.Y, first.Z)
		} else {
			p.CutTo(prevEnd.X, prevEnd.Y, prevEnd.Z)
			p.CutTo(first.X, first.Y, first.Z)
		}
		for _, pt := range row[1:] {
			p.CutTo(pt.X, pt.Y, pt.Z)
		}
		end := row[len(row)-1]
		prevEnd = &end
		paths = append(paths, p)
	}

	// Single retract at the very end of the raster.
	if len(paths) > 0 && prevEnd != nil {
		paths[len(paths)-1].RapidTo(prevEnd.X, prevEnd.Y, safeZ)
	}
	return paths
}

// samplePoint measures the surface under (x, y) and applies ball contact
// compensation when ballRadius is non-zero. The returned point is the
// position to program so the tool touches the true surface there.
func samplePoint(m *geom.Mesh, x, y, ballRadius float64) (geom.Vec3, bool) {
	s, ok := surface.At(m, x, y)
	if !ok {
		return geom.Vec3{}, false
	}
	if ballRadius <= 0 {
		return geom.V3(x, y, s.Z), true
	}
	dx, dy, dz := ballOffset(s.Normal, ballRadius)
	return geom.V3(x+dx, y+dy, s.Z+dz), true
}

// ballOffset computes the tip-programmed displacement that places a ball
// of the given radius tangent to a surface with the given normal. On a
// flat surface (normal = +Z) the offset is zero; on a tilted plane the
// horizontal component is radius*sin(tilt) and the vertical component is
// radius*(1-cos(tilt)).
func ballOffset(normal geom.Vec3, radius float64) (dx, dy, dz float64) {
	n := normal.Normalized()
	if n.Length() < 1e-10 {
		return 0, 0, 0
	}
	return radius * n.X, radius * n.Y, radius * (1 - n.Z)
}

// floatRange samples [start, end] at the given spacing, always including
// the end value.
func floatRange(start, end, step float64) []float64 {
	if end < start {
		return nil
	}
	n := int(math.Ceil((end-start)/step)) + 1
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, math.Min(start+float64(i)*step, end))
	}
	return out
}

func reversed(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[len(vals)-1-i] = v
	}
	return out
}
