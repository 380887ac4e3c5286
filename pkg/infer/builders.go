package infer

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/smartdim/pkg/geom"
	"github.com/chazu/smartdim/pkg/sketch"
)

type buildFunc func(*Context) ([]Request, error)

// ---------------------------------------------------------------------------
// Operand selectors
// ---------------------------------------------------------------------------

func lineRef(ctx *Context) sketch.Ref        { return ctx.Buckets.Lines[0] }
func circleRef(ctx *Context) sketch.Ref      { return ctx.Buckets.Circles[0] }
func conicRef(ctx *Context) sketch.Ref       { return ctx.Buckets.Conics[0] }
func secondConicRef(ctx *Context) sketch.Ref { return ctx.Buckets.Conics[1] }

func lines(ctx *Context) []sketch.Ref   { return ctx.Buckets.Lines }
func circles(ctx *Context) []sketch.Ref { return ctx.Buckets.Circles }
func conics(ctx *Context) []sketch.Ref  { return ctx.Buckets.Conics }

func edge(ref sketch.Ref) sketch.Ref { return sketch.Edge(ref.GeoID) }

func invalidGeometry(ops []sketch.Ref, format string, args ...any) error {
	return NewError(CodeGeometricallyInvalid, ops, format, args...)
}

// axisDistance orders a and b so the DistanceX or DistanceY value is
// non-negative.
func axisDistance(t sketch.ConstraintType, a, b sketch.Ref, va, vb float64) []Request {
	if vb < va {
		a, b = b, a
		va, vb = vb, va
	}
	return []Request{{Type: t, Operands: []sketch.Ref{a, b}, Value: vb - va}}
}

// cursorDistance measures a to b along the axis the cursor selects.
func cursorDistance(ctx *Context, a, b sketch.Ref, pa, pb v2.Vec) ([]Request, bool) {
	if ctx.Cursor == nil {
		return nil, false
	}
	switch geom.CursorAxis(pa, pb, *ctx.Cursor) {
	case geom.AxisX:
		return axisDistance(sketch.DistanceX, a, b, pa.X, pb.X), true
	case geom.AxisY:
		return axisDistance(sketch.DistanceY, a, b, pa.Y, pb.Y), true
	}
	return nil, false
}

// ---------------------------------------------------------------------------
// Skip predicates
// ---------------------------------------------------------------------------

var atOrigin = Guard{Name: "at origin", Test: func(ctx *Context) bool {
	p, err := ctx.point(ctx.Buckets.Points[0])
	return err == nil && p.Length() < sketch.Confusion
}}

var coincidentPoints = Guard{Name: "coincident", Test: func(ctx *Context) bool {
	a, err1 := ctx.point(ctx.Buckets.Points[0])
	b, err2 := ctx.point(ctx.Buckets.Points[1])
	return err1 == nil && err2 == nil && geom.PointPoint(a, b) < sketch.Confusion
}}

var notThreePoints = Guard{Name: "not 3 points", Test: func(ctx *Context) bool {
	return len(ctx.Buckets.Points) != 3
}}

var pointOnLine = Guard{Name: "point on line", Test: func(ctx *Context) bool {
	p, l := ctx.Buckets.Points[0], lineRef(ctx)
	if p.GeoID == l.GeoID {
		return true
	}
	pp, err := ctx.point(p)
	if err != nil {
		return false
	}
	seg, err := ctx.line(l)
	return err == nil && geom.PointLine(pp, seg.Start, seg.End) < sketch.Confusion
}}

var pointOnCircle = Guard{Name: "point on circle", Test: func(ctx *Context) bool {
	pp, err := ctx.point(ctx.Buckets.Points[0])
	if err != nil {
		return false
	}
	_, c, r, err := ctx.circle(circleRef(ctx))
	return err == nil && geom.PointCircle(pp, c, r) < sketch.Confusion
}}

func ownPoint(other func(*Context) sketch.Ref) Guard {
	return Guard{Name: "own point", Test: func(ctx *Context) bool {
		return ctx.Buckets.Points[0].GeoID == other(ctx).GeoID
	}}
}

var oriented = Guard{Name: "oriented", Test: func(ctx *Context) bool {
	return sketch.HasOrientation(ctx.Doc, lineRef(ctx).GeoID)
}}

var anyAxis = Guard{Name: "axis", Test: func(ctx *Context) bool {
	for _, l := range ctx.Buckets.Lines {
		if l.GeoID.IsAxis() {
			return true
		}
	}
	return false
}}

var notArc = Guard{Name: "not an arc", Test: func(ctx *Context) bool {
	g, err := ctx.geometry(circleRef(ctx))
	return err == nil && g.Kind() != sketch.KindArcOfCircle
}}

var concentric = Guard{Name: "concentric", Test: func(ctx *Context) bool {
	a, b := circleRef(ctx), ctx.Buckets.Circles[1]
	ma, mb := sketch.Vertex(a.GeoID, sketch.PosMid), sketch.Vertex(b.GeoID, sketch.PosMid)
	if sketch.AreCoincident(ctx.Doc, ma, mb) {
		return true
	}
	_, ca, _, err1 := ctx.circle(a)
	_, cb, _, err2 := ctx.circle(b)
	return err1 == nil && err2 == nil && geom.PointPoint(ca, cb) < sketch.Confusion
}}

var unlikeConics = Guard{Name: "unlike types", Test: func(ctx *Context) bool {
	_, err := sameFamily(ctx, conics(ctx))
	return err != nil
}}

func radiusFree(ctx *Context) bool {
	g, err := ctx.geometry(circleRef(ctx))
	return err == nil && geom.IsRadiusDoF(g)
}

// ---------------------------------------------------------------------------
// Points
// ---------------------------------------------------------------------------

func distanceToOrigin(ctx *Context) ([]Request, error) {
	p := ctx.Buckets.Points[0]
	pp, err := ctx.point(p)
	if err != nil {
		return nil, err
	}
	return []Request{{Type: sketch.Distance, Operands: []sketch.Ref{sketch.RootPoint(), p}, Value: pp.Length()}}, nil
}

func lock(ctx *Context) ([]Request, error) {
	p := ctx.Buckets.Points[0]
	pp, err := ctx.point(p)
	if err != nil {
		return nil, err
	}
	ops := []sketch.Ref{sketch.RootPoint(), p}
	return []Request{
		{Type: sketch.DistanceX, Operands: ops, Value: pp.X},
		{Type: sketch.DistanceY, Operands: ops, Value: pp.Y},
	}, nil
}

func pointDistance(ctx *Context) ([]Request, error) {
	a, b := ctx.Buckets.Points[0], ctx.Buckets.Points[1]
	pa, err := ctx.point(a)
	if err != nil {
		return nil, err
	}
	pb, err := ctx.point(b)
	if err != nil {
		return nil, err
	}
	if reqs, ok := cursorDistance(ctx, a, b, pa, pb); ok {
		return reqs, nil
	}
	return []Request{{Type: sketch.Distance, Operands: []sketch.Ref{a, b}, Value: geom.PointPoint(pa, pb)}}, nil
}

func pointPair(t sketch.ConstraintType) buildFunc {
	return func(ctx *Context) ([]Request, error) {
		return []Request{{Type: t, Operands: []sketch.Ref{ctx.Buckets.Points[0], ctx.Buckets.Points[1]}}}, nil
	}
}

func pointChain(t sketch.ConstraintType) buildFunc {
	return func(ctx *Context) ([]Request, error) {
		pts := ctx.Buckets.Points
		reqs := make([]Request, 0, len(pts)-1)
		for i := 0; i+1 < len(pts); i++ {
			reqs = append(reqs, Request{Type: t, Operands: []sketch.Ref{pts[i], pts[i+1]}})
		}
		return reqs, nil
	}
}

func symmetricPoints(ctx *Context) ([]Request, error) {
	pts := ctx.Buckets.Points
	return []Request{{Type: sketch.Symmetric, Operands: []sketch.Ref{pts[0], pts[1], pts[2]}}}, nil
}

// ---------------------------------------------------------------------------
// Points with curves
// ---------------------------------------------------------------------------

func pointLineDistance(ctx *Context) ([]Request, error) {
	p, l := ctx.Buckets.Points[0], lineRef(ctx)
	pp, err := ctx.point(p)
	if err != nil {
		return nil, err
	}
	seg, err := ctx.line(l)
	if err != nil {
		return nil, err
	}
	return []Request{{
		Type:     sketch.Distance,
		Operands: []sketch.Ref{p, edge(l)},
		Value:    geom.PointLine(pp, seg.Start, seg.End),
	}}, nil
}

func symmetricAboutPoint(ctx *Context) ([]Request, error) {
	id := lineRef(ctx).GeoID
	return []Request{{Type: sketch.Symmetric, Operands: []sketch.Ref{
		sketch.Vertex(id, sketch.PosStart),
		sketch.Vertex(id, sketch.PosEnd),
		ctx.Buckets.Points[0],
	}}}, nil
}

func symmetricAboutLine(ctx *Context) ([]Request, error) {
	pts := ctx.Buckets.Points
	return []Request{{Type: sketch.Symmetric, Operands: []sketch.Ref{pts[0], pts[1], edge(lineRef(ctx))}}}, nil
}

func pointCircleDistance(ctx *Context) ([]Request, error) {
	p, c := ctx.Buckets.Points[0], circleRef(ctx)
	pp, err := ctx.point(p)
	if err != nil {
		return nil, err
	}
	_, center, r, err := ctx.circle(c)
	if err != nil {
		return nil, err
	}
	return []Request{{
		Type:     sketch.Distance,
		Operands: []sketch.Ref{p, edge(c)},
		Value:    geom.PointCircle(pp, center, r),
	}}, nil
}

func pointOnObject(curve func(*Context) sketch.Ref) buildFunc {
	return func(ctx *Context) ([]Request, error) {
		return []Request{{
			Type:     sketch.PointOnObject,
			Operands: []sketch.Ref{ctx.Buckets.Points[0], edge(curve(ctx))},
		}}, nil
	}
}

// ---------------------------------------------------------------------------
// Lines
// ---------------------------------------------------------------------------

func lineLength(ctx *Context) ([]Request, error) {
	l := lineRef(ctx)
	seg, err := ctx.line(l)
	if err != nil {
		return nil, err
	}
	start, end := sketch.Vertex(l.GeoID, sketch.PosStart), sketch.Vertex(l.GeoID, sketch.PosEnd)
	if reqs, ok := cursorDistance(ctx, start, end, seg.Start, seg.End); ok {
		return reqs, nil
	}
	return []Request{{Type: sketch.Distance, Operands: []sketch.Ref{edge(l)}, Value: seg.Length()}}, nil
}

func signOf(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// orient makes a line horizontal or vertical. The end point is first moved
// onto the target axis through the start point, keeping the length and the
// sign of the matching component, so the solver never sees a collapsed
// line.
func orient(t sketch.ConstraintType) buildFunc {
	return func(ctx *Context) ([]Request, error) {
		l := lineRef(ctx)
		seg, err := ctx.line(l)
		if err != nil {
			return nil, err
		}
		d, length := seg.Dir(), seg.Length()
		to := seg.Start.Add(v2.Vec{Y: signOf(d.Y) * length})
		if t == sketch.Horizontal {
			to = seg.Start.Add(v2.Vec{X: signOf(d.X) * length})
		}
		req := Request{Type: t, Operands: []sketch.Ref{edge(l)}}
		if to != seg.End {
			req.Relocate = &Relocation{Point: sketch.Vertex(l.GeoID, sketch.PosEnd), To: to}
		}
		return []Request{req}, nil
	}
}

func block(ctx *Context) ([]Request, error) {
	return []Request{{Type: sketch.Block, Operands: []sketch.Ref{edge(lineRef(ctx))}}}, nil
}

// lineAngle measures two lines. Parallel lines get the distance between
// them instead, since an angle of 0 cannot be stored.
func lineAngle(ctx *Context) ([]Request, error) {
	r1, r2 := ctx.Buckets.Lines[0], ctx.Buckets.Lines[1]
	l1, err := ctx.line(r1)
	if err != nil {
		return nil, err
	}
	l2, err := ctx.line(r2)
	if err != nil {
		return nil, err
	}
	a := geom.LineAngle(l1, l2)
	if a.Parallel {
		return []Request{{
			Type:     sketch.Distance,
			Operands: []sketch.Ref{sketch.Vertex(r2.GeoID, sketch.PosStart), edge(r1)},
			Value:    geom.PointLine(l2.Start, l1.Start, l1.End),
		}}, nil
	}
	if a.Value < geom.Precision {
		return nil, invalidGeometry([]sketch.Ref{r1, r2}, "overlapping collinear lines have no angle")
	}
	id1, id2 := r1.GeoID, r2.GeoID
	if a.Swapped {
		id1, id2 = id2, id1
	}
	return []Request{{
		Type:     sketch.Angle,
		Operands: []sketch.Ref{sketch.Vertex(id1, a.Pos1), sketch.Vertex(id2, a.Pos2)},
		Value:    a.Value,
	}}, nil
}

func lineCircleDistance(ctx *Context) ([]Request, error) {
	l, c := lineRef(ctx), circleRef(ctx)
	seg, err := ctx.line(l)
	if err != nil {
		return nil, err
	}
	_, center, r, err := ctx.circle(c)
	if err != nil {
		return nil, err
	}
	v := geom.LineCircle(seg.Start, seg.End, center, r)
	if v < sketch.Confusion {
		return nil, invalidGeometry([]sketch.Ref{l, c}, "line touches circle")
	}
	return []Request{{Type: sketch.Distance, Operands: []sketch.Ref{edge(c), edge(l)}, Value: v}}, nil
}

func tangent(curve func(*Context) sketch.Ref) buildFunc {
	return func(ctx *Context) ([]Request, error) {
		return []Request{{Type: sketch.Tangent, Operands: []sketch.Ref{edge(lineRef(ctx)), edge(curve(ctx))}}}, nil
	}
}

// ---------------------------------------------------------------------------
// Equality
// ---------------------------------------------------------------------------

type family int

const (
	familyLine family = iota
	familyCircle
	familyEllipse
	familyHyperbola
	familyParabola
	familyOther
)

func familyOf(k sketch.Kind) family {
	switch k {
	case sketch.KindLineSegment:
		return familyLine
	case sketch.KindCircle, sketch.KindArcOfCircle:
		return familyCircle
	case sketch.KindEllipse, sketch.KindArcOfEllipse:
		return familyEllipse
	case sketch.KindArcOfHyperbola:
		return familyHyperbola
	case sketch.KindArcOfParabola:
		return familyParabola
	}
	return familyOther
}

func sameFamily(ctx *Context, refs []sketch.Ref) (family, error) {
	var first family
	for i, ref := range refs {
		g, err := ctx.geometry(ref)
		if err != nil {
			return 0, err
		}
		f := familyOf(g.Kind())
		if i == 0 {
			first = f
			continue
		}
		if f != first {
			return 0, NewError(CodeIncompatibleTypes, refs, "cannot make %s equal to geometry %d", g.Kind(), refs[0].GeoID)
		}
	}
	return first, nil
}

// CheckEqualTypes returns an INCOMPATIBLE_TYPES error unless refs are all
// lines, all circles and arcs, or all conics of one family.
func CheckEqualTypes(doc sketch.Document, refs []sketch.Ref) error {
	f, err := sameFamily(&Context{Doc: doc}, refs)
	if err != nil {
		return err
	}
	if f == familyOther {
		return NewError(CodeIncompatibleTypes, refs, "geometry cannot be made equal")
	}
	return nil
}

// equalityChain makes every selected curve equal to the first one.
func equalityChain(refs func(*Context) []sketch.Ref) buildFunc {
	return func(ctx *Context) ([]Request, error) {
		rs := refs(ctx)
		if _, err := sameFamily(ctx, rs); err != nil {
			return nil, err
		}
		reqs := make([]Request, 0, len(rs)-1)
		for _, r := range rs[1:] {
			reqs = append(reqs, Request{Type: sketch.Equal, Operands: []sketch.Ref{edge(rs[0]), edge(r)}})
		}
		return reqs, nil
	}
}

// ---------------------------------------------------------------------------
// Circles
// ---------------------------------------------------------------------------

func circleDatum(d geom.CircleDatum) buildFunc {
	return func(ctx *Context) ([]Request, error) {
		c := circleRef(ctx)
		g, _, r, err := ctx.circle(c)
		if err != nil {
			return nil, err
		}
		ops := []sketch.Ref{edge(c)}
		switch d {
		case geom.DatumRadius:
			return []Request{{Type: sketch.Radius, Operands: ops, Value: r}}, nil
		case geom.DatumDiameter:
			return []Request{{Type: sketch.Diameter, Operands: ops, Value: 2 * r}}, nil
		}
		arc, ok := g.(sketch.ArcOfCircle)
		if !ok {
			return nil, invalidGeometry(ops, "%s is not an arc", g.Kind())
		}
		if d == geom.DatumArcAngle {
			return []Request{{Type: sketch.Angle, Operands: ops, Value: geom.ArcAngle(arc)}}, nil
		}
		return []Request{{Type: sketch.ArcLength, Operands: ops, Value: geom.ArcLength(arc)}}, nil
	}
}

func circleDistance(ctx *Context) ([]Request, error) {
	a, b := circleRef(ctx), ctx.Buckets.Circles[1]
	_, ca, ra, err := ctx.circle(a)
	if err != nil {
		return nil, err
	}
	_, cb, rb, err := ctx.circle(b)
	if err != nil {
		return nil, err
	}
	v := geom.CircleCircle(ca, ra, cb, rb)
	if v < sketch.Confusion {
		return nil, invalidGeometry([]sketch.Ref{a, b}, "circles touch")
	}
	return []Request{{Type: sketch.Distance, Operands: []sketch.Ref{edge(a), edge(b)}, Value: v}}, nil
}

// concentricDistance joins the centres and keeps the radial gap.
func concentricDistance(ctx *Context) ([]Request, error) {
	a, b := circleRef(ctx), ctx.Buckets.Circles[1]
	_, _, ra, err := ctx.circle(a)
	if err != nil {
		return nil, err
	}
	_, _, rb, err := ctx.circle(b)
	if err != nil {
		return nil, err
	}
	gap := math.Abs(ra - rb)
	if gap < sketch.Confusion {
		return nil, invalidGeometry([]sketch.Ref{a, b}, "equal radii leave no gap")
	}
	return []Request{
		{Type: sketch.Coincident, Operands: []sketch.Ref{
			sketch.Vertex(a.GeoID, sketch.PosMid),
			sketch.Vertex(b.GeoID, sketch.PosMid),
		}},
		{Type: sketch.Distance, Operands: []sketch.Ref{edge(a), edge(b)}, Value: gap},
	}, nil
}

// ---------------------------------------------------------------------------
// Tangency via a constructed point
// ---------------------------------------------------------------------------

func tangentViaPoint(other func(*Context) sketch.Ref) buildFunc {
	return func(ctx *Context) ([]Request, error) {
		c1, c2 := conicRef(ctx), other(ctx)
		g1, err := ctx.geometry(c1)
		if err != nil {
			return nil, err
		}
		g2, err := ctx.geometry(c2)
		if err != nil {
			return nil, err
		}
		p, err := geom.TangencyPoint(g1, sketch.ReferencePoint(g2))
		if err != nil {
			return nil, &Error{Code: CodeConstructionFailure, Message: "tangency point", Operands: []sketch.Ref{c1, c2}, Err: err}
		}
		np := sketch.Vertex(sketch.GeoNew, sketch.PosStart)
		e1, e2 := edge(c1), edge(c2)
		return []Request{
			{Aux: sketch.Point{P: p}, Type: sketch.PointOnObject, Operands: []sketch.Ref{np, e1}},
			{Type: sketch.PointOnObject, Operands: []sketch.Ref{np, e2}},
			{Type: sketch.Tangent, Operands: []sketch.Ref{e1, e2, np}},
		}, nil
	}
}
