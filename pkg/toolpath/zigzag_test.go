package toolpath

import (
	"math"
	"testing"

	"github.com/chazu/swarf/pkg/geom"
	"github.com/chazu/swarf/pkg/tool"
)

// flatMesh builds a flat rectangular surface [0,sx]x[0,sy] at height z
// with upward-facing triangles.
func flatMesh(sx, sy, z float64) *geom.Mesh {
	a := geom.V3(0, 0, z)
	b := geom.V3(sx, 0, z)
	c := geom.V3(sx, sy, z)
	d := geom.V3(0, sy, z)
	return geom.NewMesh([]geom.Triangle{
		{V0: a, V1: b, V2: c},
		{V0: a, V1: c, V2: d},
	})
}

func surfaceParams(m *geom.Mesh) *SurfaceParams {
	cut := DefaultCutParams()
	cut.StepOver = 2
	return &SurfaceParams{
		Mesh:       m,
		Cut:        cut,
		Axis:       ScanX,
		Resolution: 1,
	}
}

func TestZigzagRowsAndSerpentine(t *testing.T) {
	params := surfaceParams(flatMesh(10, 10, 2))
	paths := ZigzagSurface{}.GenerateSurface(params)

	// Rows at y = 0, 2, ..., 10.
	if len(paths) != 6 {
		t.Fatalf("expected 6 row paths, got %d", len(paths))
	}

	// First row: rapid, plunge, then cuts, X increasing.
	first := paths[0].Moves
	if first[0].Kind != Rapid || first[1].Kind != Plunge {
		t.Errorf("first row should start rapid+plunge, got %v then %v", first[0].Kind, first[1].Kind)
	}
	if first[1].X != 0 {
		t.Errorf("first row starts at X=%f, want 0", first[1].X)
	}
	lastOfFirst := first[len(first)-1]
	if lastOfFirst.X != 10 {
		t.Errorf("first row ends at X=%f, want 10", lastOfFirst.X)
	}

	// Second row runs in the opposite direction and starts with cutting
	// moves, not a retract.
	second := paths[1].Moves
	if second[0].Kind != Linear {
		t.Errorf("row transition should cut, got %v", second[0].Kind)
	}
	lastOfSecond := second[len(second)-1]
	if lastOfSecond.X != 0 {
		t.Errorf("second row ends at X=%f, want 0 (reverse direction)", lastOfSecond.X)
	}

	// Only the final path retracts.
	for i, p := range paths {
		last := p.Moves[len(p.Moves)-1]
		isLast := i == len(paths)-1
		if isLast && (last.Kind != Rapid || last.Z != params.Cut.SafeZ) {
			t.Errorf("final move = %+v, want rapid retract to safe Z", last)
		}
		if !isLast && last.Kind == Rapid {
			t.Errorf("row %d retracted mid-raster", i)
		}
	}
}

func TestZigzagFollowsHeight(t *testing.T) {
	params := surfaceParams(flatMesh(10, 10, 3))
	paths := ZigzagSurface{}.GenerateSurface(params)
	for _, p := range paths {
		for _, m := range p.Moves {
			if m.Kind == Linear || m.Kind == Plunge {
				if math.Abs(m.Z-3) > 1e-9 {
					t.Fatalf("cut at Z=%f, want the surface height 3", m.Z)
				}
			}
		}
	}
}

func TestZigzagScanAxisY(t *testing.T) {
	params := surfaceParams(flatMesh(10, 4, 1))
	params.Axis = ScanY
	paths := ZigzagSurface{}.GenerateSurface(params)

	// Rows stepped along X at step-over 2: x = 0, 2, ..., 10.
	if len(paths) != 6 {
		t.Fatalf("expected 6 rows stepped along X, got %d", len(paths))
	}
	// Within a row X is constant and Y varies.
	first := paths[0].Moves
	for _, m := range first[1:] {
		if m.X != 0 {
			t.Errorf("row 0 move at X=%f, want 0", m.X)
		}
	}
}

func TestZigzagEmptyMesh(t *testing.T) {
	params := surfaceParams(geom.NewMesh(nil))
	if paths := (ZigzagSurface{}).GenerateSurface(params); len(paths) != 0 {
		t.Errorf("empty mesh should produce no paths, got %d", len(paths))
	}
}

func TestZigzagProgress(t *testing.T) {
	params := surfaceParams(flatMesh(10, 10, 1))
	var calls []int
	total := -1
	params.Progress = func(done, tot int) {
		calls = append(calls, done)
		total = tot
	}
	ZigzagSurface{}.GenerateSurface(params)

	if len(calls) == 0 {
		t.Fatal("progress callback never invoked")
	}
	for i := 1; i < len(calls); i++ {
		if calls[i] < calls[i-1] {
			t.Errorf("progress went backwards: %v", calls)
		}
	}
	if calls[len(calls)-1] != total {
		t.Errorf("final progress = %d, want total %d", calls[len(calls)-1], total)
	}
}

func TestBallOffsetFlatSurface(t *testing.T) {
	// On a flat surface the contact point is directly under the tip: no offset.
	dx, dy, dz := ballOffset(geom.V3(0, 0, 1), 3)
	if dx != 0 || dy != 0 || dz != 0 {
		t.Errorf("flat-surface ball offset = (%f,%f,%f), want zero", dx, dy, dz)
	}
}

func TestBallOffsetTiltedSurface(t *testing.T) {
	// A 45-degree slope rising along X has normal (-1,0,1)/sqrt2.
	r := 3.0
	n := geom.V3(-1, 0, 1).Normalized()
	dx, dy, dz := ballOffset(n, r)

	sin45 := 1 / math.Sqrt2
	if math.Abs(dx-(-r*sin45)) > 1e-9 {
		t.Errorf("dx = %f, want %f (radius*sin(tilt) downhill)", dx, -r*sin45)
	}
	if dy != 0 {
		t.Errorf("dy = %f, want 0", dy)
	}
	if math.Abs(dz-r*(1-sin45)) > 1e-9 {
		t.Errorf("dz = %f, want %f (radius*(1-cos(tilt)))", dz, r*(1-sin45))
	}
}

func TestZigzagBallEndCompensation(t *testing.T) {
	// Flat surface with a ball end: Z must remain the surface height.
	params := surfaceParams(flatMesh(10, 10, 5))
	params.Cut.Tool = tool.Ball(6, 20)
	paths := ZigzagSurface{}.GenerateSurface(params)
	if len(paths) == 0 {
		t.Fatal("expected paths")
	}
	for _, p := range paths {
		for _, m := range p.Moves {
			if m.Kind == Linear && math.Abs(m.Z-5) > 1e-9 {
				t.Fatalf("ball end on flat surface cut at Z=%f, want 5", m.Z)
			}
		}
	}
}

func TestSamplePointBallOnRamp(t *testing.T) {
	// 45-degree ramp: z = x. Contact compensation shifts the programmed
	// point downhill and up.
	ramp := geom.NewMesh([]geom.Triangle{
		{V0: geom.V3(0, 0, 0), V1: geom.V3(10, 0, 10), V2: geom.V3(10, 10, 10)},
		{V0: geom.V3(0, 0, 0), V1: geom.V3(10, 10, 10), V2: geom.V3(0, 10, 0)},
	})
	r := 3.0
	pt, ok := samplePoint(ramp, 5, 5, r)
	if !ok {
		t.Fatal("expected a hit on the ramp")
	}
	sin45 := 1 / math.Sqrt2
	if math.Abs(pt.X-(5-r*sin45)) > 1e-9 {
		t.Errorf("compensated X = %f, want %f", pt.X, 5-r*sin45)
	}
	if math.Abs(pt.Z-(5+r*(1-sin45))) > 1e-9 {
		t.Errorf("compensated Z = %f, want %f", pt.Z, 5+r*(1-sin45))
	}
}

func TestSurfaceParamsValidate(t *testing.T) {
	params := surfaceParams(flatMesh(10, 10, 1))
	if err := params.Validate(); err != nil {
		t.Errorf("valid params rejected: %v", err)
	}
	params.Mesh = geom.NewMesh(nil)
	if err := params.Validate(); err == nil {
		t.Error("empty mesh should fail surface validation")
	}
}
