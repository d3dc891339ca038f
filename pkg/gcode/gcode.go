// Package gcode turns ordered toolpaths into a linear machine-command
// program. The emitter keeps running state (position, feed rate, unit mode)
// and re-asserts a setting only when it changes, so two consecutive paths
// at the same feed produce a single feed word. Move ordering and content
// are the contract; the text rendering in Text is a presentation layer
// over the command list.
package gcode

import (
	"fmt"
	"strings"

	"github.com/chazu/swarf/pkg/toolpath"
)

// Units is the machine unit mode.
type Units int

const (
	Millimeters Units = iota
	Inches
)

func (u Units) String() string {
	if u == Inches {
		return "in"
	}
	return "mm"
}

// CommandKind enumerates the command vocabulary. The set is closed so the
// renderer dispatch is exhaustive.
type CommandKind int

const (
	Comment CommandKind = iota
	SetUnits
	SetAbsolute
	SpindleOn
	SpindleOff
	RaiseZ // rapid lift to a clearance Z at the current XY
	Move
	ReturnHome
	End
)

// Command is one machine instruction. Fields are populated according to
// Kind: Move carries coordinates, its move kind and an optional asserted
// feed; RaiseZ carries only Z; SpindleOn carries the spindle speed.
type Command struct {
	Kind     CommandKind
	MoveKind toolpath.MoveKind
	X, Y, Z  float64
	// Feed is the feed word asserted on this line; zero means the feed
	// state was unchanged and no word is emitted.
	Feed    float64
	Units   Units
	Spindle float64
	Text    string
}

// Params configures emission for one program.
type Params struct {
	FeedRate     float64
	PlungeRate   float64
	SpindleSpeed float64
	SafeZ        float64
	Units        Units
}

// DefaultParams returns the emission defaults used when a job config
// leaves fields unset.
func DefaultParams() Params {
	return Params{
		FeedRate:     800,
		PlungeRate:   300,
		SpindleSpeed: 12000,
		SafeZ:        5,
		Units:        Millimeters,
	}
}

// Program is the ordered command sequence produced by Emit.
type Program struct {
	Commands []Command
}

// MoveCount returns the number of motion commands (Move and RaiseZ).
func (p *Program) MoveCount() int {
	n := 0
	for _, c := range p.Commands {
		if c.Kind == Move || c.Kind == RaiseZ {
			n++
		}
	}
	return n
}

// posEps is the continuity tolerance between the end of one path and the
// start of the next.
const posEps = 1e-6

// emitter tracks the machine state as commands are appended.
type emitter struct {
	params   Params
	cmds     []Command
	feed     float64
	x, y, z  float64
	posKnown bool
}

// Emit converts toolpaths, in the order given, into a command program.
// An empty path list yields a valid zero-move program consisting of the
// header and footer only.
func Emit(paths []toolpath.Path, params Params) *Program {
	e := &emitter{params: params}

	e.append(Command{Kind: Comment, Text: "swarf generated toolpath"})
	e.append(Command{Kind: SetUnits, Units: params.Units})
	e.append(Command{Kind: SetAbsolute})
	e.raiseZ(params.SafeZ)
	e.append(Command{Kind: SpindleOn, Spindle: params.SpindleSpeed})

	for i := range paths {
		e.emitPath(&paths[i])
	}

	e.raiseZ(params.SafeZ)
	e.append(Command{Kind: SpindleOff})
	e.append(Command{Kind: ReturnHome})
	e.append(Command{Kind: End})

	return &Program{Commands: e.cmds}
}

// emitPath appends one path, inserting a safe-Z traverse when the path
// does not itself begin where the previous one ended.
func (e *emitter) emitPath(p *toolpath.Path) {
	if p.IsEmpty() {
		return
	}

	first := p.Moves[0]
	if e.posKnown && first.Kind != toolpath.Rapid && !e.at(first.X, first.Y, first.Z) {
		// Discontinuous start below the clearance plane: lift, traverse,
		// and let the path's own first move bring the tool down.
		e.raiseZ(e.params.SafeZ)
		e.move(toolpath.Move{X: first.X, Y: first.Y, Z: e.params.SafeZ, Kind: toolpath.Rapid})
	}

	for _, mv := range p.Moves {
		e.move(mv)
	}
}

// move appends a motion command, asserting the feed word only when the
// effective feed differs from the current state.
func (e *emitter) move(mv toolpath.Move) {
	cmd := Command{Kind: Move, MoveKind: mv.Kind, X: mv.X, Y: mv.Y, Z: mv.Z}

	if mv.Kind != toolpath.Rapid {
		want := mv.Feed
		if want <= 0 {
			if mv.Kind == toolpath.Plunge {
				want = e.params.PlungeRate
			} else {
				want = e.params.FeedRate
			}
		}
		if want != e.feed {
			cmd.Feed = want
			e.feed = want
		}
	}

	e.append(cmd)
	e.x, e.y, e.z = mv.X, mv.Y, mv.Z
	e.posKnown = true
}

func (e *emitter) raiseZ(z float64) {
	e.append(Command{Kind: RaiseZ, Z: z})
	e.z = z
}

func (e *emitter) at(x, y, z float64) bool {
	return abs(e.x-x) < posEps && abs(e.y-y) < posEps && abs(e.z-z) < posEps
}

func (e *emitter) append(c Command) {
	e.cmds = append(e.cmds, c)
}

// Text renders the program as G-code text. Numeric precision and command
// vocabulary here are presentation choices; consumers needing a different
// flavour can walk Commands directly.
func (p *Program) Text() string {
	var b strings.Builder
	for _, c := range p.Commands {
		switch c.Kind {
		case Comment:
			fmt.Fprintf(&b, "(%s)\n", c.Text)
		case SetUnits:
			if c.Units == Inches {
				b.WriteString("G20\n")
			} else {
				b.WriteString("G21\n")
			}
		case SetAbsolute:
			b.WriteString("G90\n")
		case SpindleOn:
			fmt.Fprintf(&b, "M3 S%.0f\n", c.Spindle)
		case SpindleOff:
			b.WriteString("M5\n")
		case RaiseZ:
			fmt.Fprintf(&b, "G0 Z%.4f\n", c.Z)
		case Move:
			if c.MoveKind == toolpath.Rapid {
				fmt.Fprintf(&b, "G0 X%.4f Y%.4f Z%.4f\n", c.X, c.Y, c.Z)
			} else if c.Feed > 0 {
				fmt.Fprintf(&b, "G1 X%.4f Y%.4f Z%.4f F%.0f\n", c.X, c.Y, c.Z, c.Feed)
			} else {
				fmt.Fprintf(&b, "G1 X%.4f Y%.4f Z%.4f\n", c.X, c.Y, c.Z)
			}
		case ReturnHome:
			b.WriteString("G0 X0 Y0\n")
		case End:
			b.WriteString("M2\n")
		}
	}
	return b.String()
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
