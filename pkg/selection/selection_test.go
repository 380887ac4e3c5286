package selection

import (
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/smartdim/pkg/sketch"
)

// fixture builds a sketch holding one of each kind:
// 0 point, 1 line, 2 circle, 3 arc, 4 ellipse, 5 arc of hyperbola,
// 6 spline, and one external line.
func fixture(t *testing.T) *sketch.Sketch {
	t.Helper()
	s := sketch.New()
	geos := []sketch.Geometry{
		sketch.Point{P: v2.Vec{X: 1, Y: 1}},
		sketch.LineSegment{End: v2.Vec{X: 1}},
		sketch.Circle{Radius: 1},
		sketch.ArcOfCircle{Radius: 1, EndAngle: 1},
		sketch.Ellipse{MajorRadius: 2, MinorRadius: 1},
		sketch.ArcOfHyperbola{MajorRadius: 1, MinorRadius: 1},
		sketch.BSpline{Poles: []v2.Vec{{}, {X: 1}, {X: 2, Y: 1}}, Degree: 2},
	}
	for _, g := range geos {
		_, err := s.AddGeometry(g)
		require.NoError(t, err)
	}
	s.AddExternal(sketch.LineSegment{End: v2.Vec{Y: 1}})
	return s
}

// ---------------------------------------------------------------------------
// Classify
// ---------------------------------------------------------------------------

func TestBucketOf(t *testing.T) {
	s := fixture(t)
	tests := []struct {
		ref  sketch.Ref
		want Bucket
	}{
		{sketch.Edge(0), BucketPoint},
		{sketch.Vertex(0, sketch.PosStart), BucketPoint},
		{sketch.Edge(1), BucketLine},
		{sketch.Vertex(1, sketch.PosEnd), BucketPoint},
		{sketch.Edge(2), BucketCircle},
		{sketch.Vertex(2, sketch.PosMid), BucketPoint},
		{sketch.Edge(3), BucketCircle},
		{sketch.Edge(4), BucketConic},
		{sketch.Edge(5), BucketConic},
		{sketch.Edge(6), BucketSpline},
		{sketch.Edge(sketch.HAxis), BucketLine},
		{sketch.Edge(sketch.VAxis), BucketLine},
		{sketch.RootPoint(), BucketPoint},
		{sketch.Edge(sketch.RefExt), BucketLine},
	}
	for _, tc := range tests {
		got, err := BucketOf(s, tc.ref)
		require.NoError(t, err, tc.ref.String())
		assert.Equal(t, tc.want, got, tc.ref.String())
	}
}

func TestClassify_KeepsPickOrderPerBucket(t *testing.T) {
	s := fixture(t)
	picks := []sketch.Ref{
		sketch.Edge(2),
		sketch.Vertex(1, sketch.PosEnd),
		sketch.Edge(sketch.HAxis),
		sketch.Vertex(0, sketch.PosStart),
		sketch.Edge(1),
	}
	b, err := Classify(s, picks)
	require.NoError(t, err)
	assert.Equal(t, []sketch.Ref{sketch.Vertex(1, sketch.PosEnd), sketch.Vertex(0, sketch.PosStart)}, b.Points)
	assert.Equal(t, []sketch.Ref{sketch.Edge(sketch.HAxis), sketch.Edge(1)}, b.Lines)
	assert.Equal(t, []sketch.Ref{sketch.Edge(2)}, b.Circles)
	assert.Equal(t, 5, b.Len())
	assert.Equal(t, "2 points + 2 lines + 1 circle", b.Shape().String())
}

func TestClassify_UnknownGeometryLeavesBucketsEmpty(t *testing.T) {
	s := fixture(t)
	b, err := Classify(s, []sketch.Ref{sketch.Edge(1), sketch.Edge(42)})
	assert.ErrorIs(t, err, sketch.ErrUnknownGeometry)
	assert.Equal(t, 0, b.Len())
}

func TestShapePredicates(t *testing.T) {
	s := fixture(t)
	classify := func(refs ...sketch.Ref) Buckets {
		b, err := Classify(s, refs)
		require.NoError(t, err)
		return b
	}
	p := sketch.Vertex(0, sketch.PosStart)
	q := sketch.Vertex(1, sketch.PosStart)
	r := sketch.Vertex(1, sketch.PosEnd)

	assert.True(t, classify(p).Has1Point())
	assert.True(t, classify(p, q).Has2Points())
	assert.True(t, classify(p, q, r).Has3OrMorePoints())
	assert.False(t, classify(p, q, sketch.Edge(1)).Has3OrMorePoints())
	assert.True(t, classify(p, q, sketch.Edge(1)).Has2Points1Line())
	assert.True(t, classify(sketch.Edge(1), p).Has1Point1Line())
	assert.True(t, classify(p, sketch.Edge(3)).Has1Point1Circle())
	assert.True(t, classify(p, sketch.Edge(4)).Has1Point1Conic())
	assert.True(t, classify(sketch.Edge(1)).Has1Line())
	assert.True(t, classify(sketch.Edge(1), sketch.Edge(sketch.VAxis)).Has2Lines())
	assert.True(t, classify(sketch.Edge(1), sketch.Edge(sketch.VAxis), sketch.Edge(sketch.HAxis)).Has3OrMoreLines())
	assert.True(t, classify(sketch.Edge(1), sketch.Edge(2)).Has1Line1Circle())
	assert.True(t, classify(sketch.Edge(1), sketch.Edge(5)).Has1Line1Conic())
	assert.True(t, classify(sketch.Edge(2)).Has1Circle())
	assert.True(t, classify(sketch.Edge(2), sketch.Edge(3)).Has2Circles())
	assert.True(t, classify(sketch.Edge(2), sketch.Edge(3), sketch.Edge(2)).Has3OrMoreCircles())
	assert.True(t, classify(sketch.Edge(2), sketch.Edge(4)).Has1Circle1Conic())
	assert.True(t, classify(sketch.Edge(4)).Has1Conic())
	assert.True(t, classify(sketch.Edge(4), sketch.Edge(5)).Has2Conics())
	assert.True(t, classify(sketch.Edge(4), sketch.Edge(5), sketch.Edge(4)).Has3OrMoreConics())
	assert.True(t, classify(sketch.Edge(6)).Has1Spline())
	assert.Equal(t, "empty", classify().Shape().String())
}

// ---------------------------------------------------------------------------
// Matcher
// ---------------------------------------------------------------------------

func TestClassOf(t *testing.T) {
	s := fixture(t)
	tests := []struct {
		ref  sketch.Ref
		want Class
	}{
		{sketch.RootPoint(), Root},
		{sketch.Vertex(1, sketch.PosStart), Vertex},
		{sketch.Edge(0), Vertex},
		{sketch.Edge(1), Edge},
		{sketch.Edge(2), Edge},
		{sketch.Edge(sketch.HAxis), HAxis},
		{sketch.Edge(sketch.VAxis), VAxis},
		{sketch.Edge(sketch.RefExt), ExternalEdge},
	}
	for _, tc := range tests {
		got, err := ClassOf(s, tc.ref)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.ref.String())
	}
	_, err := ClassOf(s, sketch.Edge(99))
	assert.ErrorIs(t, err, sketch.ErrUnknownGeometry)
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "vertex|root", VertexOrRoot.String())
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "(edge, vertex|root)", Sequence{Edge, VertexOrRoot}.String())
}

func TestNewMatcher_Validation(t *testing.T) {
	_, err := NewMatcher()
	assert.Error(t, err)

	_, err = NewMatcher(Sequence{})
	assert.Error(t, err)

	_, err = NewMatcher(Sequence{Edge}, Sequence{EdgeOrAxis, Vertex})
	assert.ErrorIs(t, err, ErrNotPrefixFree)

	// Same-length overlap is fine: the first registered wins.
	_, err = NewMatcher(Sequence{Edge, EdgeOrAxis}, Sequence{EdgeOrAxis, Edge})
	assert.NoError(t, err)

	// A shorter sequence whose steps cannot all overlap the longer one's.
	_, err = NewMatcher(Sequence{Vertex, Edge}, Sequence{Edge, Vertex, Edge})
	assert.NoError(t, err)
}

func TestMatcher_CompletesOnce(t *testing.T) {
	m, err := NewMatcher(Sequence{Edge, Edge})
	require.NoError(t, err)

	r := m.Advance(Pick{Ref: sketch.Edge(1), Class: Edge})
	assert.Equal(t, Continue, r.Outcome)
	assert.Equal(t, 1, m.Step())

	r = m.Advance(Pick{Ref: sketch.Edge(2), Class: Edge})
	require.Equal(t, Complete, r.Outcome)
	assert.Equal(t, 0, r.Sequence)
	assert.Equal(t, []Pick{{sketch.Edge(1), Edge}, {sketch.Edge(2), Edge}}, r.Picks)
	assert.Equal(t, 0, m.Step())
	assert.Equal(t, Edge, m.Allowed())
}

func TestMatcher_NarrowsAllowedSet(t *testing.T) {
	m, err := NewMatcher(
		Sequence{Edge, EdgeOrAxis},
		Sequence{VertexOrRoot, Edge, VertexOrRoot},
	)
	require.NoError(t, err)
	assert.Equal(t, Edge|VertexOrRoot, m.Allowed())

	r := m.Advance(Pick{Class: Vertex})
	assert.Equal(t, Continue, r.Outcome)
	assert.Equal(t, Edge, m.Allowed())

	m.Advance(Pick{Class: Edge})
	assert.Equal(t, VertexOrRoot, m.Allowed())

	r = m.Advance(Pick{Class: Root})
	assert.Equal(t, Complete, r.Outcome)
	assert.Equal(t, 1, r.Sequence)
}

func TestMatcher_FirstRegisteredWins(t *testing.T) {
	m, err := NewMatcher(Sequence{Edge, EdgeOrAxis}, Sequence{EdgeOrAxis, Edge})
	require.NoError(t, err)
	m.Advance(Pick{Class: Edge})
	r := m.Advance(Pick{Class: Edge})
	assert.Equal(t, Complete, r.Outcome)
	assert.Equal(t, 0, r.Sequence)
}

func TestMatcher_RejectResetsToInitialSet(t *testing.T) {
	m, err := NewMatcher(Sequence{Edge, Edge}, Sequence{Vertex, Edge})
	require.NoError(t, err)
	initial := m.Allowed()

	m.Advance(Pick{Class: Vertex})
	r := m.Advance(Pick{Class: Vertex})
	assert.Equal(t, Reject, r.Outcome)
	assert.Equal(t, initial, m.Allowed())
	assert.Equal(t, 0, m.Step())

	// A good pick after a bad one still works.
	r = m.Advance(Pick{Class: Edge})
	assert.Equal(t, Continue, r.Outcome)
	r = m.Advance(Pick{Class: Edge})
	assert.Equal(t, Complete, r.Outcome)
}

func TestMatcher_BlankPickRejects(t *testing.T) {
	m, err := NewMatcher(Sequence{Edge})
	require.NoError(t, err)
	r := m.Advance(Pick{Class: None})
	assert.Equal(t, Reject, r.Outcome)
	assert.Equal(t, Edge, m.Allowed())
}
