package job

import (
	"fmt"
	"log"

	"github.com/chazu/swarf/pkg/gcode"
	"github.com/chazu/swarf/pkg/geom"
	"github.com/chazu/swarf/pkg/slicer"
	"github.com/chazu/swarf/pkg/toolpath"
)

// WarningKind classifies soft findings collected during generation.
type WarningKind int

const (
	// WarnOpenBoundary flags a slice contour that failed to stitch closed.
	// Surface-following strategies can still use it; pocket and perimeter
	// assume closed contours and skip it.
	WarnOpenBoundary WarningKind = iota
	// WarnDegenerateGeometry flags skipped triangles or collapsed offsets.
	WarnDegenerateGeometry
	// WarnToolGeometry flags suspicious tool dimensions that generation
	// proceeds with anyway.
	WarnToolGeometry
)

// Warning is one soft finding. The job still produced output; the warning
// tells the caller what was skipped or flagged along the way.
type Warning struct {
	Kind    WarningKind
	Message string
}

// Result is the output of one job: the generated paths, the emitted
// command program, and any soft warnings.
type Result struct {
	Paths    []toolpath.Path
	Program  *gcode.Program
	Warnings []Warning
}

// Generate runs the configured strategy against a mesh and emits the
// command program. Configuration and mesh-integrity errors surface before
// any geometry work; anything softer is a warning on the result. An empty
// mesh with a planar strategy yields an empty (valid) program.
func Generate(mesh *geom.Mesh, cfg Config, progress toolpath.ProgressFunc) (*Result, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Strategy == StrategyZigzag && mesh.IsEmpty() {
		return nil, fmt.Errorf("job: surface strategy %q requires a non-empty mesh: %w", cfg.Strategy, ErrConfiguration)
	}

	res := &Result{}
	res.checkTool(cfg)
	if err := res.checkMesh(mesh); err != nil {
		return nil, err
	}

	if cfg.Strategy == StrategyZigzag {
		params := toolpath.SurfaceParams{
			Mesh:       mesh,
			Cut:        cfg.cutParams(),
			Axis:       cfg.scanAxis(),
			Resolution: cfg.Resolution,
			Progress:   progress,
		}
		res.Paths = toolpath.ZigzagSurface{}.GenerateSurface(&params)
	} else {
		res.Paths = res.layeredPaths(mesh, cfg, progress)
	}

	res.Program = gcode.Emit(res.Paths, cfg.emitParams())
	return res, nil
}

// layeredPaths slices the mesh into layers and runs the planar strategy
// on each. When slicing produces nothing at all, a contour job falls back
// to sectioning just above the mesh floor so flat inputs still produce a
// boundary cut.
func (r *Result) layeredPaths(mesh *geom.Mesh, cfg Config, progress toolpath.ProgressFunc) []toolpath.Path {
	strategy := planarStrategy(cfg.Strategy)
	layers := slicer.Slice(mesh, cfg.StepDown)

	var paths []toolpath.Path
	for i, layer := range layers {
		r.noteOpenContours(layer.Contours, cfg.Strategy, layer.Z)

		params := cfg.cutParams()
		params.CutZ = layer.Z
		paths = append(paths, strategy.Generate(layer.Contours, &params)...)

		if progress != nil {
			progress(i+1, len(layers))
		}
	}

	if len(paths) == 0 && cfg.Strategy == StrategyContour {
		if bounds, ok := mesh.Bounds(); ok {
			log.Printf("job: no slice layers produced paths, contouring mesh floor at z=%.3f", bounds.Min.Z)
			contours := slicer.SliceAt(mesh, bounds.Min.Z+0.01)
			params := cfg.cutParams()
			paths = append(paths, strategy.Generate(contours, &params)...)
		}
	}
	return paths
}

// GenerateFromContours runs a planar strategy over externally supplied
// contours (a 2-D job), stepping down from Z=0 to the configured cut
// depth in step-down increments. The zigzag strategy needs a mesh and is
// rejected here.
func GenerateFromContours(contours []geom.Polyline, cfg Config, progress toolpath.ProgressFunc) (*Result, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Strategy == StrategyZigzag {
		return nil, fmt.Errorf("job: strategy %q requires a mesh input: %w", cfg.Strategy, ErrConfiguration)
	}

	res := &Result{}
	res.checkTool(cfg)
	res.noteOpenContours(contours, cfg.Strategy, 0)

	strategy := planarStrategy(cfg.Strategy)
	depths := depthSteps(cfg.CutDepth, cfg.StepDown)
	for i, z := range depths {
		params := cfg.cutParams()
		params.CutZ = z
		res.Paths = append(res.Paths, strategy.Generate(contours, &params)...)
		if progress != nil {
			progress(i+1, len(depths))
		}
	}

	res.Program = gcode.Emit(res.Paths, cfg.emitParams())
	return res, nil
}

// depthSteps lists the cutting depths from just below the surface down to
// the final depth, each step-down apart, ending exactly at depth.
func depthSteps(depth, stepDown float64) []float64 {
	if depth >= 0 {
		return []float64{depth}
	}
	var steps []float64
	z := 0.0
	for z > depth {
		z -= stepDown
		if z < depth {
			z = depth
		}
		steps = append(steps, z)
	}
	return steps
}

// planarStrategy maps a validated strategy name to its implementation.
func planarStrategy(name string) toolpath.Strategy {
	switch name {
	case StrategyPocket:
		return toolpath.Pocket{}
	case StrategyPerimeter:
		return toolpath.Perimeter{}
	default:
		return toolpath.Contour{}
	}
}

// checkMesh validates mesh integrity. Non-finite coordinates are fatal;
// degenerate triangles become a single aggregate warning since every
// downstream query skips them anyway.
func (r *Result) checkMesh(mesh *geom.Mesh) error {
	findings := geom.ValidateMesh(mesh)
	if geom.HasErrors(findings) {
		return fmt.Errorf("job: mesh has non-finite vertex coordinates: %w", ErrConfiguration)
	}
	if n := len(findings); n > 0 {
		r.warn(WarnDegenerateGeometry, fmt.Sprintf("%d degenerate triangle(s) will be skipped", n))
	}
	return nil
}

// checkTool flags tool geometry that validation accepts but that likely
// indicates a data-entry mistake.
func (r *Result) checkTool(cfg Config) {
	t := cfg.Tool()
	if t.CuttingDiameter > t.Diameter {
		r.warn(WarnToolGeometry, fmt.Sprintf(
			"face mill cutting diameter %.3g exceeds body diameter %.3g", t.CuttingDiameter, t.Diameter))
	}
}

// noteOpenContours records open-boundary warnings for strategies that
// assume closed contours.
func (r *Result) noteOpenContours(contours []geom.Polyline, strategy string, z float64) {
	if strategy != StrategyPocket && strategy != StrategyPerimeter {
		return
	}
	if n := slicer.OpenCount(contours); n > 0 {
		msg := fmt.Sprintf("%d open contour(s) at z=%.3f skipped by %s strategy", n, z, strategy)
		log.Printf("job: %s", msg)
		r.warn(WarnOpenBoundary, msg)
	}
}

func (r *Result) warn(kind WarningKind, msg string) {
	r.Warnings = append(r.Warnings, Warning{Kind: kind, Message: msg})
}
