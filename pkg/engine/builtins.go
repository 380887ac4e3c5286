package engine

import (
	"fmt"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/smartdim/pkg/sketch"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms smartdim Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: arc-of-ellipse -> arc_of_ellipse
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
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec2 wraps a sketch coordinate.
type sexpVec2 struct {
	vec v2.Vec
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %g %g)", v.vec.X, v.vec.Y)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

// sexpRef wraps a selection reference: a whole geometry or one of its
// points.
type sexpRef struct {
	ref  sketch.Ref
	name string // human-readable name for error messages
}

func (r *sexpRef) SexpString(ps *zygo.PrintState) string {
	if r.name != "" {
		return fmt.Sprintf("(ref %q %s)", r.name, r.ref)
	}
	return fmt.Sprintf("(ref %s)", r.ref)
}
func (r *sexpRef) Type() *zygo.RegisteredType { return nil }

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
				// A trailing keyword is a flag.
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

// float reads an optional numeric keyword, returning def when absent.
func (a kwArgs) float(fn, key string, def float64) (float64, error) {
	v, ok := a.kw[key]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return f, nil
}

// vec reads a required vec2 keyword.
func (a kwArgs) vec(fn, key string) (v2.Vec, error) {
	v, ok := a.kw[key]
	if !ok {
		return v2.Vec{}, fmt.Errorf("%s: :%s is required", fn, key)
	}
	p, err := toVec2(v)
	if err != nil {
		return v2.Vec{}, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return p, nil
}

// flag reads an optional boolean keyword.
func (a kwArgs) flag(fn, key string) (bool, error) {
	v, ok := a.kw[key]
	if !ok {
		return false, nil
	}
	b, err := toBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return b, nil
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

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_end) and plain strings ("end").
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

// toBool accepts true/false and numbers. A bare trailing flag counts as true.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpInt:
		return v.Val != 0, nil
	}
	if s == zygo.SexpNull {
		return true, nil
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

// toVec2 extracts a coordinate from a sexpVec2.
func toVec2(s zygo.Sexp) (v2.Vec, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.vec, nil
	}
	return v2.Vec{}, fmt.Errorf("expected vec2, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// axisID converts :h or :v to the matching axis.
func axisID(s zygo.Sexp) (sketch.GeoID, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected axis keyword (:h, :v): %w", err)
	}
	switch name {
	case "h", "x":
		return sketch.HAxis, nil
	case "v", "y":
		return sketch.VAxis, nil
	}
	return 0, fmt.Errorf("invalid axis %q, expected h or v", name)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

type builtin func(st *scriptState, a kwArgs) (zygo.Sexp, error)

// registerBuiltins installs all smartdim builtins into a zygomys
// environment. Geometry builtins populate the script's sketch; interaction
// builtins drive its session.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, st *scriptState) {
	for name, fn := range map[string]builtin{
		// (vec2 3 4)
		"vec2": builtinVec2,

		// geometry
		"point":          builtinPoint,
		"line":           builtinLine,
		"circle":         builtinCircle,
		"arc":            builtinArc,
		"ellipse":        builtinEllipse,
		"arc_of_ellipse": builtinArcOfEllipse,
		"hyperbola":      builtinHyperbola,
		"parabola":       builtinParabola,
		"bspline":        builtinBSpline,

		// references
		"geo":    builtinGeo,
		"vertex": builtinVertex,
		"origin": builtinOrigin,
		"axis":   builtinAxis,
		"block":  builtinBlock,

		// session
		"pick":      builtinPick,
		"pick_root": builtinPickRoot,
		"pick_axis": builtinPickAxis,
		"cycle":     builtinCycle,
		"commit":    builtinCommit,
		"cancel":    builtinCancel,
		"cursor":    builtinCursor,

		// single-purpose commands
		"command": builtinCommand,
	} {
		env.AddFunction(name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			return fn(st, parseArgs(args))
		})
	}
}

// ---------------------------------------------------------------------------
// (vec2 x y)
// ---------------------------------------------------------------------------

func builtinVec2(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	if len(a.positional) != 2 {
		return zygo.SexpNull, fmt.Errorf("vec2: expected 2 numbers, got %d", len(a.positional))
	}
	x, err := toFloat64(a.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("vec2: x: %w", err)
	}
	y, err := toFloat64(a.positional[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("vec2: y: %w", err)
	}
	return &sexpVec2{vec: v2.Vec{X: x, Y: y}}, nil
}

// ---------------------------------------------------------------------------
// Geometry: every constructor accepts :name "n" and :external true.
// ---------------------------------------------------------------------------

// add stores g in the sketch and returns an edge reference to it.
func add(st *scriptState, fn string, a kwArgs, g sketch.Geometry) (zygo.Sexp, error) {
	name := ""
	if v, ok := a.kw["name"]; ok {
		s, err := toString(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: name: %w", fn, err)
		}
		name = s
	}
	external, err := a.flag(fn, "external")
	if err != nil {
		return zygo.SexpNull, err
	}

	var id sketch.GeoID
	if external {
		id = st.doc.AddExternal(g)
		if name != "" {
			st.doc.Name(name, id)
		}
	} else {
		id, err = st.doc.AddNamed(name, g)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
		}
	}
	st.log.Debug("geometry added", "kind", g.Kind().String(), "id", int(id), "name", name)
	return &sexpRef{ref: sketch.Edge(id), name: name}, nil
}

// (point :at (vec2 1 2))
func builtinPoint(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	p, err := a.vec("point", "at")
	if err != nil {
		return zygo.SexpNull, err
	}
	return add(st, "point", a, sketch.Point{P: p})
}

// (line :from (vec2 0 0) :to (vec2 10 0))
func builtinLine(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	from, err := a.vec("line", "from")
	if err != nil {
		return zygo.SexpNull, err
	}
	to, err := a.vec("line", "to")
	if err != nil {
		return zygo.SexpNull, err
	}
	return add(st, "line", a, sketch.LineSegment{Start: from, End: to})
}

// (circle :center (vec2 0 0) :radius 5)
func builtinCircle(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	c, err := a.vec("circle", "center")
	if err != nil {
		return zygo.SexpNull, err
	}
	r, err := a.float("circle", "radius", 0)
	if err != nil {
		return zygo.SexpNull, err
	}
	return add(st, "circle", a, sketch.Circle{Center: c, Radius: r})
}

// (arc :center (vec2 0 0) :radius 5 :start 0 :end 1.57 :radius-free true)
func builtinArc(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	c, err := a.vec("arc", "center")
	if err != nil {
		return zygo.SexpNull, err
	}
	arc := sketch.ArcOfCircle{Center: c}
	for key, dst := range map[string]*float64{"radius": &arc.Radius, "start": &arc.StartAngle, "end": &arc.EndAngle} {
		if *dst, err = a.float("arc", key, 0); err != nil {
			return zygo.SexpNull, err
		}
	}
	if arc.RadiusDoF, err = a.flag("arc", "radius-free"); err != nil {
		return zygo.SexpNull, err
	}
	return add(st, "arc", a, arc)
}

// conic reads the keywords shared by ellipses and hyperbolas.
func conic(fn string, a kwArgs) (center v2.Vec, major, minor, angle float64, err error) {
	if center, err = a.vec(fn, "center"); err != nil {
		return
	}
	if major, err = a.float(fn, "major", 0); err != nil {
		return
	}
	if minor, err = a.float(fn, "minor", 0); err != nil {
		return
	}
	angle, err = a.float(fn, "angle", 0)
	return
}

// (ellipse :center (vec2 0 0) :major 4 :minor 2 :angle 0)
func builtinEllipse(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	c, major, minor, angle, err := conic("ellipse", a)
	if err != nil {
		return zygo.SexpNull, err
	}
	return add(st, "ellipse", a, sketch.Ellipse{Center: c, MajorRadius: major, MinorRadius: minor, MajorAngle: angle})
}

// (arc-of-ellipse :center c :major 4 :minor 2 :start 0 :end 3.14)
func builtinArcOfEllipse(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	c, major, minor, angle, err := conic("arc-of-ellipse", a)
	if err != nil {
		return zygo.SexpNull, err
	}
	g := sketch.ArcOfEllipse{Ellipse: sketch.Ellipse{Center: c, MajorRadius: major, MinorRadius: minor, MajorAngle: angle}}
	if g.StartParam, err = a.float("arc-of-ellipse", "start", 0); err != nil {
		return zygo.SexpNull, err
	}
	if g.EndParam, err = a.float("arc-of-ellipse", "end", 0); err != nil {
		return zygo.SexpNull, err
	}
	return add(st, "arc-of-ellipse", a, g)
}

// (hyperbola :center c :major 2 :minor 1 :start -1 :end 1)
func builtinHyperbola(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	c, major, minor, angle, err := conic("hyperbola", a)
	if err != nil {
		return zygo.SexpNull, err
	}
	g := sketch.ArcOfHyperbola{Center: c, MajorRadius: major, MinorRadius: minor, MajorAngle: angle}
	if g.StartParam, err = a.float("hyperbola", "start", 0); err != nil {
		return zygo.SexpNull, err
	}
	if g.EndParam, err = a.float("hyperbola", "end", 0); err != nil {
		return zygo.SexpNull, err
	}
	return add(st, "hyperbola", a, g)
}

// (parabola :vertex (vec2 0 0) :focal 1 :angle 0 :start -2 :end 2)
func builtinParabola(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	v, err := a.vec("parabola", "vertex")
	if err != nil {
		return zygo.SexpNull, err
	}
	g := sketch.ArcOfParabola{Vertex: v}
	for key, dst := range map[string]*float64{"focal": &g.Focal, "angle": &g.Angle, "start": &g.StartParam, "end": &g.EndParam} {
		if *dst, err = a.float("parabola", key, 0); err != nil {
			return zygo.SexpNull, err
		}
	}
	return add(st, "parabola", a, g)
}

// (bspline :degree 3 :poles (list (vec2 0 0) (vec2 1 2) ...))
func builtinBSpline(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	deg, err := a.float("bspline", "degree", 3)
	if err != nil {
		return zygo.SexpNull, err
	}
	v, ok := a.kw["poles"]
	if !ok {
		return zygo.SexpNull, fmt.Errorf("bspline: :poles is required")
	}
	items, err := sexpListToSlice(v)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("bspline: poles: %w", err)
	}
	g := sketch.BSpline{Degree: int(deg)}
	for i, item := range items {
		p, err := toVec2(item)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("bspline: pole %d: %w", i, err)
		}
		g.Poles = append(g.Poles, p)
	}
	return add(st, "bspline", a, g)
}

// ---------------------------------------------------------------------------
// References
// ---------------------------------------------------------------------------

// toRef accepts a reference, a geometry name or a raw geometry id.
func toRef(st *scriptState, s zygo.Sexp) (sketch.Ref, error) {
	switch v := s.(type) {
	case *sexpRef:
		return v.ref, nil
	case *zygo.SexpInt:
		return sketch.Edge(sketch.GeoID(v.Val)), nil
	case *zygo.SexpStr:
		id, ok := st.doc.Lookup(v.S)
		if !ok {
			return sketch.Undef, fmt.Errorf("unknown geometry %q", v.S)
		}
		return sketch.Edge(id), nil
	}
	return sketch.Undef, fmt.Errorf("expected geometry reference, got %T (%s)", s, s.SexpString(nil))
}

// (geo "name")
func builtinGeo(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	if len(a.positional) != 1 {
		return zygo.SexpNull, fmt.Errorf("geo: expected a name")
	}
	name, err := toString(a.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("geo: %w", err)
	}
	ref, err := toRef(st, a.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("geo: %w", err)
	}
	return &sexpRef{ref: ref, name: name}, nil
}

// (vertex l :end) or (vertex l "end")
func builtinVertex(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	if len(a.positional) < 1 {
		return zygo.SexpNull, fmt.Errorf("vertex: expected a geometry")
	}
	ref, err := toRef(st, a.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("vertex: %w", err)
	}
	pos := ""
	for _, key := range []string{"start", "end", "mid", "center"} {
		if _, ok := a.kw[key]; ok {
			pos = key
		}
	}
	if len(a.positional) > 1 {
		if pos, err = toKeywordString(a.positional[1]); err != nil {
			return zygo.SexpNull, fmt.Errorf("vertex: %w", err)
		}
	}
	if pos == "" {
		return zygo.SexpNull, fmt.Errorf("vertex: expected :start, :end or :mid")
	}
	p, err := sketch.ParsePointPos(pos)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("vertex: %w", err)
	}
	return &sexpRef{ref: sketch.Vertex(ref.GeoID, p)}, nil
}

// (origin)
func builtinOrigin(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	return &sexpRef{ref: sketch.RootPoint(), name: "origin"}, nil
}

// (axis :h)
func builtinAxis(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	id, err := axisArg("axis", a)
	if err != nil {
		return zygo.SexpNull, err
	}
	return &sexpRef{ref: sketch.Edge(id)}, nil
}

func axisArg(fn string, a kwArgs) (sketch.GeoID, error) {
	for _, key := range []string{"h", "v"} {
		if _, ok := a.kw[key]; ok {
			return axisID(&zygo.SexpStr{S: key})
		}
	}
	if len(a.positional) == 1 {
		id, err := axisID(a.positional[0])
		if err != nil {
			return 0, fmt.Errorf("%s: %w", fn, err)
		}
		return id, nil
	}
	return 0, fmt.Errorf("%s: expected :h or :v", fn)
}

// (block g) fixes g in place directly, outside any session.
func builtinBlock(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	if len(a.positional) != 1 {
		return zygo.SexpNull, fmt.Errorf("block: expected a geometry")
	}
	ref, err := toRef(st, a.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("block: %w", err)
	}
	idx, err := st.doc.AddConstraint(sketch.Constraint{Type: sketch.Block, Operands: []sketch.Ref{sketch.Edge(ref.GeoID)}, Driving: true})
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("block: %w", err)
	}
	st.step("block %s", ref)
	return &zygo.SexpInt{Val: int64(idx)}, nil
}

// ---------------------------------------------------------------------------
// Session
// ---------------------------------------------------------------------------

// (pick ref) returns the label of the previewed interpretation, or "".
func builtinPick(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	if len(a.positional) != 1 {
		return zygo.SexpNull, fmt.Errorf("pick: expected one reference")
	}
	ref, err := toRef(st, a.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("pick: %w", err)
	}
	return st.pick(ref)
}

// (pick-root)
func builtinPickRoot(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	return st.pick(sketch.RootPoint())
}

// (pick-axis :h)
func builtinPickAxis(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	id, err := axisArg("pick-axis", a)
	if err != nil {
		return zygo.SexpNull, err
	}
	return st.pick(sketch.Edge(id))
}

// (cycle) returns the label of the new interpretation.
func builtinCycle(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	err := st.current().Cycle()
	if err := st.refused("cycle", err); err != nil {
		return zygo.SexpNull, err
	}
	return st.label("cycle"), nil
}

// (commit) or (commit :value 12.5)
func builtinCommit(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	if v, ok := a.kw["value"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("commit: value: %w", err)
		}
		st.value = &f
		defer func() { st.value = nil }()
	}
	s := st.current()
	label := s.Decision().Label
	created := s.Pending()
	if err := st.refused("commit", s.Commit()); err != nil {
		return zygo.SexpNull, err
	}
	st.step("commit %s %v", label, created)
	return &zygo.SexpInt{Val: int64(len(created))}, nil
}

// (cancel)
func builtinCancel(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	if err := st.current().Cancel(); err != nil {
		return zygo.SexpNull, fmt.Errorf("cancel: %w", err)
	}
	st.step("cancel")
	return zygo.SexpNull, nil
}

// (cursor (vec2 x y))
func builtinCursor(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	if len(a.positional) != 1 {
		return zygo.SexpNull, fmt.Errorf("cursor: expected a vec2")
	}
	p, err := toVec2(a.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("cursor: %w", err)
	}
	if err := st.refused("cursor", st.current().MoveCursor(p)); err != nil {
		return zygo.SexpNull, err
	}
	return st.label("cursor"), nil
}

// ---------------------------------------------------------------------------
// (command "parallel" l1 l2) returns the number of constraints created.
// ---------------------------------------------------------------------------

func builtinCommand(st *scriptState, a kwArgs) (zygo.Sexp, error) {
	if len(a.positional) < 2 {
		return zygo.SexpNull, fmt.Errorf("command: expected a name and at least one pick")
	}
	name, err := toKeywordString(a.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("command: %w", err)
	}
	r, err := st.runner(name)
	if err != nil {
		return zygo.SexpNull, err
	}
	defer r.Reset()

	var created []int
	for i, p := range a.positional[1:] {
		ref, err := toRef(st, p)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("command %s: pick %d: %w", name, i, err)
		}
		created, err = r.Pick(ref)
		if err := st.refused("command "+name, err); err != nil {
			return zygo.SexpNull, err
		}
		if err != nil {
			return &zygo.SexpInt{}, nil
		}
	}
	if created == nil {
		st.warn(fmt.Sprintf("command %s: incomplete selection, %s", name, r.Hint()))
		return &zygo.SexpInt{}, nil
	}
	st.step("command %s %v", name, created)
	return &zygo.SexpInt{Val: int64(len(created))}, nil
}
