// Package toolpath generates ordered tool motion from contours or a mesh
// surface. Four strategies share one contract: given cutting parameters
// they produce a list of Paths, each an ordered move sequence that the
// motion emitter turns into machine commands. The strategy set is closed;
// move-kind dispatch downstream relies on exhaustive handling.
package toolpath

import "github.com/chazu/swarf/pkg/geom"

// MoveKind tags one tool motion. The set is closed: rapid traverses above
// the work, lateral cutting moves, and vertical plunges.
type MoveKind int

const (
	Rapid  MoveKind = iota // non-cutting traverse at machine speed
	Linear                 // in-material lateral cut at feed rate
	Plunge                 // vertical downward cut at plunge rate
)

func (k MoveKind) String() string {
	switch k {
	case Rapid:
		return "rapid"
	case Linear:
		return "linear"
	case Plunge:
		return "plunge"
	default:
		return "unknown"
	}
}

// Move is one ordered tool position tagged with a move kind. Feed is an
// optional per-move feed override in mm/min; zero means the emitter's
// default rate for the move kind.
type Move struct {
	X, Y, Z float64
	Kind    MoveKind
	Feed    float64
}

// Path is an ordered sequence of moves; slice order is the literal
// execution order.
type Path struct {
	Moves []Move
}

// RapidTo appends a rapid traverse.
func (p *Path) RapidTo(x, y, z float64) {
	p.Moves = append(p.Moves, Move{X: x, Y: y, Z: z, Kind: Rapid})
}

// CutTo appends a lateral cutting move.
func (p *Path) CutTo(x, y, z float64) {
	p.Moves = append(p.Moves, Move{X: x, Y: y, Z: z, Kind: Linear})
}

// PlungeTo appends a vertical plunge.
func (p *Path) PlungeTo(x, y, z float64) {
	p.Moves = append(p.Moves, Move{X: x, Y: y, Z: z, Kind: Plunge})
}

// IsEmpty reports whether the path contains no moves.
func (p *Path) IsEmpty() bool {
	return len(p.Moves) == 0
}

// Strategy is the common contract for contour-consuming generators.
// Malformed or empty input yields an empty path list, never an error;
// configuration violations are rejected before generation starts.
type Strategy interface {
	Generate(contours []geom.Polyline, params *CutParams) []Path
}

// Compile-time interface checks.
var (
	_ Strategy = (*Contour)(nil)
	_ Strategy = (*Pocket)(nil)
	_ Strategy = (*Perimeter)(nil)
)
