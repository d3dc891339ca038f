package script

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/swarf/pkg/job"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms job-script Lisp source code before passing it
// to zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: step-over -> step_over
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a bool from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if v, ok := s.(*zygo.SexpBool); ok {
		return v.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_zigzag) and plain strings ("zigzag").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// canonicalName normalizes a keyword like :ball-end or :ball_end to the
// underscore form used by job.Config.
func canonicalName(s string) string {
	return strings.ReplaceAll(s, "-", "_")
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// setFloat assigns a keyword-argument float into dst, wrapping errors with
// the builtin and argument names.
func setFloat(pa kwArgs, builtin, key string, dst *float64) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", builtin, key, err)
	}
	*dst = f
	return nil
}

// registerBuiltins installs the job-script builtins into a zygomys
// environment. The builtins mutate the provided config during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, cfg *job.Config) {

	// -----------------------------------------------------------------------
	// (tool :type :ball-end :diameter 6 :flute-length 20 :corner-radius 3)
	//
	// For face mills, :cutting-diameter sets the insert circle diameter:
	// (tool :type :face-mill :diameter 40 :cutting-diameter 35)
	// -----------------------------------------------------------------------
	env.AddFunction("tool", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if v, ok := pa.kw["type"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("tool: type: %w", err)
			}
			kind := canonicalName(s)
			switch kind {
			case "end_mill", "ball_end", "face_mill":
				cfg.ToolType = kind
			default:
				return zygo.SexpNull, fmt.Errorf("tool: type: unknown tool type %q", s)
			}
		}
		if err := setFloat(pa, "tool", "diameter", &cfg.ToolDiameter); err != nil {
			return zygo.SexpNull, err
		}
		if err := setFloat(pa, "tool", "flute-length", &cfg.FluteLength); err != nil {
			return zygo.SexpNull, err
		}
		if err := setFloat(pa, "tool", "corner-radius", &cfg.CornerRadius); err != nil {
			return zygo.SexpNull, err
		}
		if err := setFloat(pa, "tool", "cutting-diameter", &cfg.EffectiveDiameter); err != nil {
			return zygo.SexpNull, err
		}

		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (cut :strategy :pocket :step-over 1.5 :step-down 1 :depth -2
	//      :climb true :passes 3 :axis :y :resolution 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("cut", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if v, ok := pa.kw["strategy"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cut: strategy: %w", err)
			}
			switch s {
			case job.StrategyContour, job.StrategyPocket, job.StrategyPerimeter, job.StrategyZigzag:
				cfg.Strategy = s
			default:
				return zygo.SexpNull, fmt.Errorf("cut: strategy: unknown strategy %q", s)
			}
		}
		if err := setFloat(pa, "cut", "step-over", &cfg.StepOver); err != nil {
			return zygo.SexpNull, err
		}
		if err := setFloat(pa, "cut", "step-down", &cfg.StepDown); err != nil {
			return zygo.SexpNull, err
		}
		if err := setFloat(pa, "cut", "depth", &cfg.CutDepth); err != nil {
			return zygo.SexpNull, err
		}
		if err := setFloat(pa, "cut", "resolution", &cfg.Resolution); err != nil {
			return zygo.SexpNull, err
		}
		if v, ok := pa.kw["climb"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cut: climb: %w", err)
			}
			cfg.Climb = b
		}
		if v, ok := pa.kw["passes"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cut: passes: %w", err)
			}
			cfg.PerimeterPasses = n
		}
		if v, ok := pa.kw["axis"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cut: axis: %w", err)
			}
			switch s {
			case "x", "y":
				cfg.ScanAxis = s
			default:
				return zygo.SexpNull, fmt.Errorf("cut: axis: expected x or y, got %q", s)
			}
		}

		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (feeds :feed 800 :plunge 300 :spindle 12000 :safe-z 5)
	// -----------------------------------------------------------------------
	env.AddFunction("feeds", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if err := setFloat(pa, "feeds", "feed", &cfg.FeedRate); err != nil {
			return zygo.SexpNull, err
		}
		if err := setFloat(pa, "feeds", "plunge", &cfg.PlungeRate); err != nil {
			return zygo.SexpNull, err
		}
		if err := setFloat(pa, "feeds", "spindle", &cfg.SpindleSpeed); err != nil {
			return zygo.SexpNull, err
		}
		if err := setFloat(pa, "feeds", "safe-z", &cfg.SafeZ); err != nil {
			return zygo.SexpNull, err
		}

		return zygo.SexpNull, nil
	})
}
