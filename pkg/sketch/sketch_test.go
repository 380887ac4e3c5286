package sketch

import (
	"math"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func mustAdd(t *testing.T, s *Sketch, g Geometry) GeoID {
	t.Helper()
	id, err := s.AddGeometry(g)
	require.NoError(t, err)
	return id
}

func line(x1, y1, x2, y2 float64) LineSegment {
	return LineSegment{Start: v2.Vec{X: x1, Y: y1}, End: v2.Vec{X: x2, Y: y2}}
}

// ---------------------------------------------------------------------------
// Ids and refs
// ---------------------------------------------------------------------------

func TestGeoID_Classes(t *testing.T) {
	assert.True(t, HAxis.IsAxis())
	assert.True(t, VAxis.IsAxis())
	assert.False(t, HAxis.IsExternal())
	assert.True(t, RefExt.IsExternal())
	assert.True(t, ExternalID(4).IsExternal())
	assert.False(t, GeoUndef.IsExternal())
	assert.False(t, GeoNew.IsFixedID())
	assert.True(t, ExternalID(0).IsFixedID())
	assert.False(t, GeoID(0).IsFixedID())
	assert.Equal(t, 4, externalIndex(ExternalID(4)))
}

func TestRef_String(t *testing.T) {
	assert.Equal(t, "3", Edge(3).String())
	assert.Equal(t, "3.start", Vertex(3, PosStart).String())
	assert.Equal(t, "-1.start", RootPoint().String())
	assert.True(t, RootPoint().IsRoot())
	assert.False(t, Vertex(0, PosStart).IsRoot())
}

func TestParsePointPos(t *testing.T) {
	tests := []struct {
		in   string
		want PointPos
	}{
		{"", PosNone},
		{"start", PosStart},
		{"end", PosEnd},
		{"mid", PosMid},
		{"center", PosMid},
	}
	for _, tc := range tests {
		got, err := ParsePointPos(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
	_, err := ParsePointPos("corner")
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// Geometry
// ---------------------------------------------------------------------------

func TestPointOf_Line(t *testing.T) {
	l := line(0, 0, 2, 4)
	p, err := PointOf(l, PosMid)
	require.NoError(t, err)
	assert.Equal(t, v2.Vec{X: 1, Y: 2}, p)

	_, err = PointOf(Circle{Radius: 1}, PosStart)
	assert.Error(t, err)
}

func TestPointOf_ArcEnds(t *testing.T) {
	a := ArcOfCircle{Radius: 2, StartAngle: 0, EndAngle: math.Pi / 2}
	s, err := PointOf(a, PosStart)
	require.NoError(t, err)
	e, err := PointOf(a, PosEnd)
	require.NoError(t, err)
	assert.InDelta(t, 2, s.X, 1e-12)
	assert.InDelta(t, 0, s.Y, 1e-12)
	assert.InDelta(t, 0, e.X, 1e-12)
	assert.InDelta(t, 2, e.Y, 1e-12)
	assert.InDelta(t, math.Pi/2, a.Sweep(), 1e-12)
}

func TestArcSweep_WrapsNegativeRange(t *testing.T) {
	a := ArcOfCircle{Radius: 1, StartAngle: 3 * math.Pi / 2, EndAngle: math.Pi / 2}
	assert.InDelta(t, math.Pi, a.Sweep(), 1e-12)
}

func TestEllipsePointAt_Rotated(t *testing.T) {
	e := Ellipse{Center: v2.Vec{X: 1, Y: 1}, MajorRadius: 3, MinorRadius: 1, MajorAngle: math.Pi / 2}
	p := e.PointAt(0)
	assert.InDelta(t, 1, p.X, 1e-12)
	assert.InDelta(t, 4, p.Y, 1e-12)
}

func TestParabolaFocus(t *testing.T) {
	p := ArcOfParabola{Vertex: v2.Vec{X: 1}, Focal: 0.5}
	f := p.Focus()
	assert.InDelta(t, 1.5, f.X, 1e-12)
	assert.InDelta(t, 0, f.Y, 1e-12)
	// Points on the curve are equidistant from focus and directrix.
	q := p.PointAt(2)
	assert.InDelta(t, q.X-(1-0.5), q.Sub(f).Length(), 1e-12)
}

func TestToLocal_InvertsToGlobal(t *testing.T) {
	origin := v2.Vec{X: 2, Y: -1}
	p := v2.Vec{X: 0.3, Y: 5}
	back := ToGlobal(origin, 0.7, ToLocal(origin, 0.7, p))
	assert.InDelta(t, p.X, back.X, 1e-12)
	assert.InDelta(t, p.Y, back.Y, 1e-12)
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func TestValidateGeometry(t *testing.T) {
	tests := []struct {
		name    string
		g       Geometry
		wantErr bool
	}{
		{"point", Point{P: v2.Vec{X: 1}}, false},
		{"nan point", Point{P: v2.Vec{X: math.NaN()}}, true},
		{"line", line(0, 0, 1, 0), false},
		{"zero line", line(1, 1, 1, 1), true},
		{"circle", Circle{Radius: 1}, false},
		{"zero circle", Circle{Radius: 0}, true},
		{"arc negative radius", ArcOfCircle{Radius: -1}, true},
		{"ellipse", Ellipse{MajorRadius: 2, MinorRadius: 1}, false},
		{"ellipse swapped radii", Ellipse{MajorRadius: 1, MinorRadius: 2}, true},
		{"arc of ellipse", ArcOfEllipse{Ellipse: Ellipse{MajorRadius: 2, MinorRadius: 1}}, false},
		{"hyperbola", ArcOfHyperbola{MajorRadius: 1, MinorRadius: 1}, false},
		{"flat hyperbola", ArcOfHyperbola{MajorRadius: 1}, true},
		{"parabola", ArcOfParabola{Focal: 1}, false},
		{"parabola no focal", ArcOfParabola{}, true},
		{"spline", BSpline{Poles: []v2.Vec{{}, {X: 1}, {X: 2}}, Degree: 2}, false},
		{"spline one pole", BSpline{Poles: []v2.Vec{{}}, Degree: 1}, true},
		{"spline degree too high", BSpline{Poles: []v2.Vec{{}, {X: 1}}, Degree: 2}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateGeometry(tc.g)
			if tc.wantErr {
				var ve *ValidationError
				assert.ErrorAs(t, err, &ve)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Document
// ---------------------------------------------------------------------------

func TestSketch_AxesAndRoot(t *testing.T) {
	s := New()
	h, err := s.Geometry(HAxis)
	require.NoError(t, err)
	assert.Equal(t, KindLineSegment, h.Kind())

	p, err := s.Point(RootPoint())
	require.NoError(t, err)
	assert.Equal(t, v2.Vec{}, p)

	_, err = s.Geometry(ExternalID(0))
	assert.ErrorIs(t, err, ErrUnknownGeometry)
	_, err = s.Geometry(GeoID(0))
	assert.ErrorIs(t, err, ErrUnknownGeometry)
}

func TestSketch_ExternalGeometry(t *testing.T) {
	s := New()
	id := s.AddExternal(line(0, 5, 10, 5))
	assert.Equal(t, RefExt, id)
	g, err := s.Geometry(id)
	require.NoError(t, err)
	assert.Equal(t, line(0, 5, 10, 5), g)
	assert.Equal(t, 0, s.GeometryCount())
}

func TestSketch_Named(t *testing.T) {
	s := New()
	id, err := s.AddNamed("p1", Point{P: v2.Vec{X: 3, Y: 4}})
	require.NoError(t, err)
	got, ok := s.Lookup("p1")
	require.True(t, ok)
	assert.Equal(t, id, got)
	_, ok = s.Lookup("p2")
	assert.False(t, ok)
}

func TestSketch_AddGeometryRejectsInvalid(t *testing.T) {
	s := New()
	_, err := s.AddGeometry(Circle{Radius: -2})
	assert.Error(t, err)
	assert.Equal(t, 0, s.GeometryCount())
}

func TestSketch_ConstraintLifecycle(t *testing.T) {
	s := New()
	a := mustAdd(t, s, Point{})
	b := mustAdd(t, s, Point{P: v2.Vec{X: 3, Y: 4}})

	idx, err := s.AddConstraint(Constraint{
		Type:     Distance,
		Operands: []Ref{Vertex(a, PosStart), Vertex(b, PosStart)},
		Value:    5,
		Driving:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "distance(0.start, 1.start) = 5", s.Constraints()[0].String())

	require.NoError(t, s.SetDriving(idx, false))
	assert.Equal(t, "distance(0.start, 1.start) = 5 [reference]", s.Constraints()[0].String())
	require.NoError(t, s.SetDatum(idx, 6))
	assert.Equal(t, 6.0, s.Constraints()[0].Value)

	require.NoError(t, s.RemoveConstraint(idx))
	assert.Equal(t, 0, s.ConstraintCount())
	assert.Error(t, s.RemoveConstraint(0))
}

func TestSketch_AddConstraintBadOperand(t *testing.T) {
	s := New()
	c := mustAdd(t, s, Circle{Radius: 1})
	_, err := s.AddConstraint(Constraint{Type: Horizontal, Operands: []Ref{Edge(7)}})
	assert.ErrorIs(t, err, ErrUnknownGeometry)
	_, err = s.AddConstraint(Constraint{Type: Coincident, Operands: []Ref{Vertex(c, PosStart), RootPoint()}})
	assert.Error(t, err)
	_, err = s.AddConstraint(Constraint{Type: Block})
	assert.Error(t, err)
	assert.Equal(t, 0, s.ConstraintCount())
}

func TestSketch_SetDatumOnGeometricConstraint(t *testing.T) {
	s := New()
	l := mustAdd(t, s, line(0, 0, 1, 0))
	idx, err := s.AddConstraint(Constraint{Type: Horizontal, Operands: []Ref{Edge(l)}})
	require.NoError(t, err)
	assert.Error(t, s.SetDatum(idx, 1))
	assert.Error(t, s.SetDriving(idx, false))
}

func TestSketch_RemoveGeometry(t *testing.T) {
	s := New()
	a := mustAdd(t, s, Point{})
	b := mustAdd(t, s, Point{P: v2.Vec{X: 1}})

	assert.Error(t, s.RemoveGeometry(a), "only the last geometry can be removed")

	idx, err := s.AddConstraint(Constraint{Type: Block, Operands: []Ref{Edge(b)}})
	require.NoError(t, err)
	assert.Error(t, s.RemoveGeometry(b), "referenced geometry cannot be removed")

	require.NoError(t, s.RemoveConstraint(idx))
	require.NoError(t, s.RemoveGeometry(b))
	assert.Equal(t, 1, s.GeometryCount())
}

func TestSketch_MovePoint(t *testing.T) {
	s := New()
	l := mustAdd(t, s, line(0, 0, 1, 1))
	require.NoError(t, s.MovePoint(Vertex(l, PosEnd), v2.Vec{Y: math.Sqrt2}))
	p, err := s.Point(Vertex(l, PosEnd))
	require.NoError(t, err)
	assert.Equal(t, v2.Vec{Y: math.Sqrt2}, p)

	assert.Error(t, s.MovePoint(Vertex(l, PosEnd), v2.Vec{}), "collapsing a line is rejected")
	assert.Error(t, s.MovePoint(Vertex(l, PosMid), v2.Vec{X: 5}))
	assert.ErrorIs(t, s.MovePoint(Vertex(HAxis, PosEnd), v2.Vec{}), ErrUnknownGeometry)
}

func TestSketch_SolveAndRedrawAreCounted(t *testing.T) {
	s := New()
	require.NoError(t, s.Solve())
	s.Redraw()
	s.Redraw()
	assert.Equal(t, 1, s.Solves)
	assert.Equal(t, 2, s.Redraws)
}

func TestDocumentHelpers(t *testing.T) {
	s := New()
	l := mustAdd(t, s, line(0, 0, 1, 0))
	p := mustAdd(t, s, Point{})

	assert.False(t, HasOrientation(s, l))
	assert.False(t, IsFixed(s, l))
	assert.True(t, IsFixed(s, HAxis))

	_, err := s.AddConstraint(Constraint{Type: Horizontal, Operands: []Ref{Edge(l)}})
	require.NoError(t, err)
	assert.True(t, HasOrientation(s, l))

	_, err = s.AddConstraint(Constraint{Type: Block, Operands: []Ref{Edge(p)}})
	require.NoError(t, err)
	assert.True(t, IsBlocked(s, p))
	assert.True(t, IsFixed(s, p))

	_, err = s.AddConstraint(Constraint{Type: Coincident, Operands: []Ref{Vertex(l, PosStart), Vertex(p, PosStart)}})
	require.NoError(t, err)
	assert.True(t, AreCoincident(s, Vertex(p, PosStart), Vertex(l, PosStart)))
	assert.False(t, AreCoincident(s, Vertex(p, PosStart), Vertex(l, PosEnd)))
}
