package geom

import "fmt"

// Severity indicates whether a mesh finding blocks generation or is
// merely advisory.
type Severity int

const (
	SeverityError   Severity = iota // blocks generation
	SeverityWarning                 // advisory, the offending unit is skipped
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Finding describes a single mesh validation result.
type Finding struct {
	Triangle int // index of the offending triangle, -1 for mesh-level findings
	Message  string
	Severity Severity
}

func (f Finding) Error() string {
	if f.Triangle < 0 {
		return fmt.Sprintf("[%s] %s", f.Severity, f.Message)
	}
	return fmt.Sprintf("[%s] triangle %d: %s", f.Severity, f.Triangle, f.Message)
}

// ValidateMesh checks mesh geometry before a job starts. Non-finite vertex
// coordinates are errors: no downstream query can tolerate them. Degenerate
// triangles are warnings only; samplers and slicers skip them without
// failing the operation.
func ValidateMesh(m *Mesh) []Finding {
	if m.IsEmpty() {
		return nil
	}
	var findings []Finding
	for i, t := range m.Triangles {
		if !t.V0.IsFinite() || !t.V1.IsFinite() || !t.V2.IsFinite() {
			findings = append(findings, Finding{
				Triangle: i,
				Message:  "vertex coordinate is not finite",
				Severity: SeverityError,
			})
			continue
		}
		if t.IsDegenerate() {
			findings = append(findings, Finding{
				Triangle: i,
				Message:  fmt.Sprintf("area %.3g below degeneracy threshold", t.Area()),
				Severity: SeverityWarning,
			})
		}
	}
	return findings
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}
