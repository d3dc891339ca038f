// Package job orchestrates the CAM pipeline: it validates a job
// configuration, runs the selected toolpath strategy over sliced contours
// or the mesh surface, and emits the final command program. Configuration
// problems fail fast before any geometry work; geometry anomalies are
// absorbed as warnings and never abort a job.
package job

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chazu/swarf/pkg/gcode"
	"github.com/chazu/swarf/pkg/tool"
	"github.com/chazu/swarf/pkg/toolpath"
)

// ErrConfiguration marks fatal configuration errors: generation has not
// started and no partial output exists.
var ErrConfiguration = errors.New("invalid configuration")

// Strategy names accepted in a job configuration.
const (
	StrategyContour   = "contour"
	StrategyPocket    = "pocket"
	StrategyPerimeter = "perimeter"
	StrategyZigzag    = "zigzag"
)

// Config is the external job description, decodable from JSON. Zero
// values mean "use the default"; Normalize fills them in.
type Config struct {
	ToolType          string  `json:"tool_type"`          // end_mill, ball_end, face_mill
	ToolDiameter      float64 `json:"tool_diameter"`      // mm
	FluteLength       float64 `json:"flute_length"`       // mm
	CornerRadius      float64 `json:"corner_radius"`      // mm, end mills only
	EffectiveDiameter float64 `json:"effective_diameter"` // mm, face mills only
	StepOver          float64 `json:"step_over"`          // mm
	StepDown          float64 `json:"step_down"`          // mm
	FeedRate          float64 `json:"feed_rate"`          // mm/min
	PlungeRate        float64 `json:"plunge_rate"`        // mm/min
	SpindleSpeed      float64 `json:"spindle_speed"`      // rpm
	SafeZ             float64 `json:"safe_z"`             // mm
	CutDepth          float64 `json:"cut_depth"`          // mm, negative is into the stock
	Strategy          string  `json:"strategy"`
	Climb             bool    `json:"climb_cut"`
	PerimeterPasses   int     `json:"perimeter_passes"`
	ScanAxis          string  `json:"scan_axis"`  // x or y, zigzag only
	Resolution        float64 `json:"resolution"` // mm, along-row sample spacing
}

// DefaultConfig returns a contour job with the conventional small-router
// defaults.
func DefaultConfig() Config {
	return Config{
		ToolType:        "end_mill",
		ToolDiameter:    3.175,
		FluteLength:     10,
		StepOver:        1.5,
		StepDown:        1.0,
		FeedRate:        800,
		PlungeRate:      300,
		SpindleSpeed:    12000,
		SafeZ:           5,
		CutDepth:        -1,
		Strategy:        StrategyContour,
		PerimeterPasses: 1,
		ScanAxis:        "x",
	}
}

// ParseConfig decodes a JSON job description and fills defaults for
// omitted fields.
func ParseConfig(data []byte) (Config, error) {
	cfg := Config{}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("job: decode config: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize fills zero-valued fields with the defaults. Negative values
// are left alone so validation can reject them explicitly.
func (c *Config) Normalize() {
	d := DefaultConfig()
	if c.ToolType == "" {
		c.ToolType = d.ToolType
	}
	if c.ToolDiameter == 0 {
		c.ToolDiameter = d.ToolDiameter
	}
	if c.FluteLength == 0 {
		c.FluteLength = d.FluteLength
	}
	if c.StepOver == 0 {
		c.StepOver = d.StepOver
	}
	if c.StepDown == 0 {
		c.StepDown = d.StepDown
	}
	if c.FeedRate == 0 {
		c.FeedRate = d.FeedRate
	}
	if c.PlungeRate == 0 {
		c.PlungeRate = d.PlungeRate
	}
	if c.SpindleSpeed == 0 {
		c.SpindleSpeed = d.SpindleSpeed
	}
	if c.SafeZ == 0 {
		c.SafeZ = d.SafeZ
	}
	if c.CutDepth == 0 {
		c.CutDepth = d.CutDepth
	}
	if c.Strategy == "" {
		c.Strategy = d.Strategy
	}
	if c.PerimeterPasses == 0 {
		c.PerimeterPasses = d.PerimeterPasses
	}
	if c.ScanAxis == "" {
		c.ScanAxis = d.ScanAxis
	}
}

// Tool builds the tool value described by the configuration.
func (c *Config) Tool() tool.Tool {
	switch c.ToolType {
	case "ball_end":
		return tool.Ball(c.ToolDiameter, c.FluteLength)
	case "face_mill":
		return tool.Face(c.ToolDiameter, c.EffectiveDiameter, c.FluteLength)
	default:
		return tool.New(tool.EndMill, c.ToolDiameter, c.FluteLength, c.CornerRadius)
	}
}

// Validate rejects configurations that must not start generation.
func (c *Config) Validate() error {
	if c.ToolDiameter <= 0 {
		return fmt.Errorf("job: tool diameter %.4g must be positive: %w", c.ToolDiameter, ErrConfiguration)
	}
	if c.StepOver <= 0 {
		return fmt.Errorf("job: step-over %.4g must be positive: %w", c.StepOver, ErrConfiguration)
	}
	if c.StepDown <= 0 {
		return fmt.Errorf("job: step-down %.4g must be positive: %w", c.StepDown, ErrConfiguration)
	}
	switch c.Strategy {
	case StrategyContour, StrategyPocket, StrategyPerimeter, StrategyZigzag:
	default:
		return fmt.Errorf("job: unknown strategy %q: %w", c.Strategy, ErrConfiguration)
	}
	switch c.ScanAxis {
	case "", "x", "y":
	default:
		return fmt.Errorf("job: scan axis must be x or y, got %q: %w", c.ScanAxis, ErrConfiguration)
	}
	return nil
}

// cutParams maps the configuration to strategy parameters.
func (c *Config) cutParams() toolpath.CutParams {
	return toolpath.CutParams{
		Tool:       c.Tool(),
		StepOver:   c.StepOver,
		StepDown:   c.StepDown,
		FeedRate:   c.FeedRate,
		PlungeRate: c.PlungeRate,
		SafeZ:      c.SafeZ,
		CutZ:       c.CutDepth,
		Climb:      c.Climb,
		Passes:     c.PerimeterPasses,
	}
}

// scanAxis maps the configured axis name.
func (c *Config) scanAxis() toolpath.ScanAxis {
	if c.ScanAxis == "y" {
		return toolpath.ScanY
	}
	return toolpath.ScanX
}

// emitParams maps the configuration to emitter parameters.
func (c *Config) emitParams() gcode.Params {
	return gcode.Params{
		FeedRate:     c.FeedRate,
		PlungeRate:   c.PlungeRate,
		SpindleSpeed: c.SpindleSpeed,
		SafeZ:        c.SafeZ,
		Units:        gcode.Millimeters,
	}
}
