package toolpath

import (
	"fmt"

	"github.com/chazu/swarf/pkg/geom"
	"github.com/chazu/swarf/pkg/tool"
)

// ScanAxis selects the raster direction for surface strategies.
type ScanAxis int

const (
	ScanX ScanAxis = iota // rows run along X, stepped in Y
	ScanY                 // rows run along Y, stepped in X
)

func (a ScanAxis) String() string {
	if a == ScanY {
		return "y"
	}
	return "x"
}

// CutParams bundles the tool and the cutting parameters shared by all
// strategies. It is constructed once per job and read-only thereafter.
type CutParams struct {
	Tool       tool.Tool
	StepOver   float64 // lateral spacing between adjacent passes, mm
	StepDown   float64 // Z increment between layers, mm
	FeedRate   float64 // lateral cutting feed, mm/min
	PlungeRate float64 // vertical plunge feed, mm/min
	SafeZ      float64 // clearance plane for rapids, mm
	CutZ       float64 // target cutting depth for planar strategies, mm
	// Climb selects climb cutting: the contour is traversed in its
	// stitched (surface-normal-consistent) winding. Conventional cutting
	// reverses it.
	Climb bool
	// Passes is the number of perimeter offset passes (minimum 1).
	Passes int
}

// DefaultCutParams returns the parameter set used when a job config leaves
// fields unset.
func DefaultCutParams() CutParams {
	return CutParams{
		Tool:       tool.Default(),
		StepOver:   1.5,
		StepDown:   1.0,
		FeedRate:   800,
		PlungeRate: 300,
		SafeZ:      5,
		Passes:     1,
	}
}

// Validate rejects parameter sets that must not start generation.
// Geometry-level anomalies are never reported here; they are absorbed
// during generation.
func (p *CutParams) Validate() error {
	if p.Tool.Diameter <= 0 {
		return fmt.Errorf("tool diameter %.4g must be positive", p.Tool.Diameter)
	}
	if p.StepOver <= 0 {
		return fmt.Errorf("step-over %.4g must be positive", p.StepOver)
	}
	return nil
}

// ProgressFunc receives (completed, total) units at a caller-chosen
// granularity. Completed is monotonic non-decreasing and reaches total by
// the time generation finishes. The callback runs synchronously inside
// generation loops; cancellation, if wanted, is the caller discarding the
// result.
type ProgressFunc func(completed, total int)

// SurfaceParams configures mesh-surface strategies. The mesh reference is
// read-only for the duration of the job.
type SurfaceParams struct {
	Mesh *geom.Mesh
	Cut  CutParams
	Axis ScanAxis
	// Resolution is the along-row sample spacing; zero falls back to the
	// step-over distance.
	Resolution float64
	// Progress, when non-nil, is called once per raster row.
	Progress ProgressFunc
}

// Validate extends CutParams validation with surface-specific checks.
func (p *SurfaceParams) Validate() error {
	if err := p.Cut.Validate(); err != nil {
		return err
	}
	if p.Mesh.IsEmpty() {
		return fmt.Errorf("surface strategy requires a non-empty mesh")
	}
	return nil
}

// resolution returns the effective along-row sample spacing.
func (p *SurfaceParams) resolution() float64 {
	if p.Resolution > 0 {
		return p.Resolution
	}
	return p.Cut.StepOver
}
