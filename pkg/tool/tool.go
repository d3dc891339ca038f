// Package tool defines cutting tool geometry. A Tool is constructed once
// per job and is immutable; cut parameters reference it by value.
package tool

// Kind enumerates the supported tool types. The set is closed: strategies
// and compensation logic switch exhaustively over it.
type Kind int

const (
	EndMill  Kind = iota // flat or corner-radiused bottom
	BallEnd              // hemispherical tip for 3-D surface finishing
	FaceMill             // large facing cutter with a distinct cutting diameter
)

func (k Kind) String() string {
	switch k {
	case EndMill:
		return "end_mill"
	case BallEnd:
		return "ball_end"
	case FaceMill:
		return "face_mill"
	default:
		return "unknown"
	}
}

// Tool is a cutting tool definition. Dimensions are in millimeters.
type Tool struct {
	Kind        Kind    `json:"kind"`
	Diameter    float64 `json:"diameter"`     // body diameter
	FluteLength float64 `json:"flute_length"` // usable cutting length
	// CornerRadius is 0 for sharp end mills and Diameter/2 for ball ends.
	CornerRadius float64 `json:"corner_radius"`
	// CuttingDiameter is the effective cutting width of a face mill.
	// Zero means unset; EffectiveDiameter falls back to the body diameter.
	CuttingDiameter float64 `json:"cutting_diameter,omitempty"`
}

// New creates a tool with explicit parameters.
func New(kind Kind, diameter, fluteLength, cornerRadius float64) Tool {
	return Tool{
		Kind:         kind,
		Diameter:     diameter,
		FluteLength:  fluteLength,
		CornerRadius: cornerRadius,
	}
}

// Ball creates a ball-end mill. The corner radius equals half the diameter.
func Ball(diameter, fluteLength float64) Tool {
	return Tool{
		Kind:         BallEnd,
		Diameter:     diameter,
		FluteLength:  fluteLength,
		CornerRadius: diameter / 2,
	}
}

// Face creates a face mill with an effective cutting diameter that may
// differ from the body diameter.
func Face(diameter, cuttingDiameter, fluteLength float64) Tool {
	return Tool{
		Kind:            FaceMill,
		Diameter:        diameter,
		FluteLength:     fluteLength,
		CuttingDiameter: cuttingDiameter,
	}
}

// Default returns a 1/8" end mill, the conventional small-router default.
func Default() Tool {
	return Tool{
		Kind:        EndMill,
		Diameter:    3.175,
		FluteLength: 10,
	}
}

// EffectiveDiameter returns the diameter used for radius compensation.
// For face mills this is the cutting diameter when set; an unset (zero)
// cutting diameter falls back to the body diameter.
func (t Tool) EffectiveDiameter() float64 {
	if t.Kind == FaceMill && t.CuttingDiameter > 0 {
		return t.CuttingDiameter
	}
	return t.Diameter
}

// EffectiveRadius returns half the effective diameter.
func (t Tool) EffectiveRadius() float64 {
	return t.EffectiveDiameter() / 2
}
