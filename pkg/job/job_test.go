package job

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/chazu/swarf/pkg/geom"
	"github.com/chazu/swarf/pkg/toolpath"
)

// boxMesh builds a watertight axis-aligned box spanning [0,sx]x[0,sy]x[0,sz]
// as 12 triangles.
func boxMesh(sx, sy, sz float64) *geom.Mesh {
	v := func(x, y, z float64) geom.Vec3 { return geom.V3(x, y, z) }
	corners := [8]geom.Vec3{
		v(0, 0, 0), v(sx, 0, 0), v(sx, sy, 0), v(0, sy, 0),
		v(0, 0, sz), v(sx, 0, sz), v(sx, sy, sz), v(0, sy, sz),
	}
	quads := [6][4]int{
		{0, 1, 2, 3},
		{4, 5, 6, 7},
		{0, 1, 5, 4},
		{2, 3, 7, 6},
		{1, 2, 6, 5},
		{3, 0, 4, 7},
	}
	var tris []geom.Triangle
	for _, q := range quads {
		tris = append(tris,
			geom.Triangle{V0: corners[q[0]], V1: corners[q[1]], V2: corners[q[2]]},
			geom.Triangle{V0: corners[q[0]], V1: corners[q[2]], V2: corners[q[3]]},
		)
	}
	return geom.NewMesh(tris)
}

func square(x, y, side float64) geom.Polyline {
	return geom.Polyline{
		Points: []geom.Vec2{
			{X: x, Y: y},
			{X: x + side, Y: y},
			{X: x + side, Y: y + side},
			{X: x, Y: y + side},
		},
		Closed: true,
	}
}

func TestGenerateContourFromBox(t *testing.T) {
	m := boxMesh(30, 30, 4)
	cfg := DefaultConfig()
	cfg.StepDown = 2

	res, err := Generate(m, cfg, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Paths) == 0 {
		t.Fatal("no paths generated")
	}
	// More than just the framing Z lifts.
	if res.Program == nil || res.Program.MoveCount() <= 2 {
		t.Fatal("no program emitted")
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
	// One contour per slice layer of a 4mm box at 2mm step-down.
	if len(res.Paths) != 2 {
		t.Errorf("got %d paths, want 2 layers", len(res.Paths))
	}
}

func TestGenerateZigzagRequiresMesh(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = StrategyZigzag

	for _, m := range []*geom.Mesh{nil, geom.NewMesh(nil)} {
		_, err := Generate(m, cfg, nil)
		if err == nil {
			t.Fatal("zigzag accepted an empty mesh")
		}
		if !errors.Is(err, ErrConfiguration) {
			t.Errorf("error %v is not ErrConfiguration", err)
		}
	}
}

func TestGenerateZigzagFollowsSurface(t *testing.T) {
	m := boxMesh(10, 10, 6)
	cfg := DefaultConfig()
	cfg.Strategy = StrategyZigzag
	cfg.StepOver = 2
	cfg.Resolution = 1

	res, err := Generate(m, cfg, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Paths) == 0 {
		t.Fatal("no raster rows generated")
	}
	for _, p := range res.Paths {
		for _, mv := range p.Moves {
			if mv.Kind == toolpath.Linear && math.Abs(mv.Z-6) > 1e-6 {
				t.Fatalf("cut at z=%.3f, want top face z=6", mv.Z)
			}
		}
	}
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = "spiral"
	if _, err := Generate(boxMesh(10, 10, 10), cfg, nil); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("error = %v, want ErrConfiguration", err)
	}
}

func TestGenerateNonFiniteMeshIsFatal(t *testing.T) {
	m := geom.NewMesh([]geom.Triangle{{
		V0: geom.V3(math.NaN(), 0, 0),
		V1: geom.V3(1, 0, 0),
		V2: geom.V3(0, 1, 0),
	}})
	_, err := Generate(m, DefaultConfig(), nil)
	if err == nil {
		t.Fatal("non-finite mesh accepted")
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("error %v is not ErrConfiguration", err)
	}
}

func TestGenerateDegenerateTrianglesWarn(t *testing.T) {
	tris := append(boxMesh(10, 10, 10).Triangles,
		geom.Triangle{V0: geom.V3(1, 1, 1), V1: geom.V3(1, 1, 1), V2: geom.V3(1, 1, 1)})
	res, err := Generate(geom.NewMesh(tris), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("degenerate triangle escalated to error: %v", err)
	}
	found := false
	for _, w := range res.Warnings {
		if w.Kind == WarnDegenerateGeometry {
			found = true
			if !strings.Contains(w.Message, "1 degenerate") {
				t.Errorf("warning message = %q", w.Message)
			}
		}
	}
	if !found {
		t.Error("no degenerate-geometry warning recorded")
	}
}

func TestGenerateFaceMillWarning(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ToolType = "face_mill"
	cfg.ToolDiameter = 40
	cfg.EffectiveDiameter = 50 // cutting wider than the body is suspicious

	res, err := Generate(boxMesh(60, 60, 5), cfg, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	found := false
	for _, w := range res.Warnings {
		if w.Kind == WarnToolGeometry {
			found = true
		}
	}
	if !found {
		t.Error("no tool-geometry warning for oversized cutting diameter")
	}
}

func TestGenerateFromContoursDepthStepping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CutDepth = -5
	cfg.StepDown = 2

	res, err := GenerateFromContours([]geom.Polyline{square(0, 0, 20)}, cfg, nil)
	if err != nil {
		t.Fatalf("GenerateFromContours: %v", err)
	}
	// -2, -4, -5: one contour pass per depth.
	if len(res.Paths) != 3 {
		t.Fatalf("got %d paths, want 3 depth passes", len(res.Paths))
	}
	wantZ := []float64{-2, -4, -5}
	for i, p := range res.Paths {
		if len(p.Moves) < 2 {
			t.Fatalf("path %d too short", i)
		}
		plunge := p.Moves[1]
		if plunge.Kind != toolpath.Plunge || math.Abs(plunge.Z-wantZ[i]) > 1e-9 {
			t.Errorf("pass %d plunges to %.3f, want %.3f", i, plunge.Z, wantZ[i])
		}
	}
}

func TestGenerateFromContoursRejectsZigzag(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = StrategyZigzag
	_, err := GenerateFromContours([]geom.Polyline{square(0, 0, 10)}, cfg, nil)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("error = %v, want ErrConfiguration", err)
	}
}

func TestGenerateFromContoursOpenBoundaryWarning(t *testing.T) {
	open := geom.Polyline{Points: []geom.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}}}
	cfg := DefaultConfig()
	cfg.Strategy = StrategyPocket

	res, err := GenerateFromContours([]geom.Polyline{square(0, 0, 20), open}, cfg, nil)
	if err != nil {
		t.Fatalf("GenerateFromContours: %v", err)
	}
	found := false
	for _, w := range res.Warnings {
		if w.Kind == WarnOpenBoundary {
			found = true
		}
	}
	if !found {
		t.Error("open contour produced no warning")
	}
	if len(res.Paths) == 0 {
		t.Error("closed contour should still be pocketed")
	}
}

func TestGenerateFromContoursProgress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CutDepth = -3
	cfg.StepDown = 1

	var calls []int
	total := 0
	_, err := GenerateFromContours([]geom.Polyline{square(0, 0, 15)}, cfg,
		func(done, n int) {
			calls = append(calls, done)
			total = n
		})
	if err != nil {
		t.Fatalf("GenerateFromContours: %v", err)
	}
	if total != 3 || len(calls) != 3 {
		t.Fatalf("progress calls %v of %d, want 3 of 3", calls, total)
	}
	for i, c := range calls {
		if c != i+1 {
			t.Errorf("call %d reported %d", i, c)
		}
	}
}

func TestGenerateEmptyMeshPlanarIsValidEmptyProgram(t *testing.T) {
	// A nil mesh is an accepted empty-mesh representation.
	for _, m := range []*geom.Mesh{nil, geom.NewMesh(nil)} {
		res, err := Generate(m, DefaultConfig(), nil)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(res.Paths) != 0 {
			t.Errorf("empty mesh produced %d paths", len(res.Paths))
		}
		// Just the framing Z lifts, no cutting motion.
		if res.Program == nil || res.Program.MoveCount() != 2 {
			t.Error("expected a valid program with no cutting moves")
		}
	}
}

func TestDepthSteps(t *testing.T) {
	cases := []struct {
		depth, step float64
		want        []float64
	}{
		{-5, 2, []float64{-2, -4, -5}},
		{-2, 2, []float64{-2}},
		{-1.5, 2, []float64{-1.5}},
		{0, 2, []float64{0}},
	}
	for _, tc := range cases {
		got := depthSteps(tc.depth, tc.step)
		if len(got) != len(tc.want) {
			t.Errorf("depthSteps(%.1f, %.1f) = %v, want %v", tc.depth, tc.step, got, tc.want)
			continue
		}
		for i := range got {
			if math.Abs(got[i]-tc.want[i]) > 1e-9 {
				t.Errorf("depthSteps(%.1f, %.1f)[%d] = %.3f, want %.3f",
					tc.depth, tc.step, i, got[i], tc.want[i])
			}
		}
	}
}
