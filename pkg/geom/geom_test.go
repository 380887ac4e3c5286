package geom

import (
	"math"
	"math/rand/v2"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/smartdim/pkg/sketch"
)

const eps = 1e-12

func vec(x, y float64) v2.Vec { return v2.Vec{X: x, Y: y} }

func seg(x1, y1, x2, y2 float64) sketch.LineSegment {
	return sketch.LineSegment{Start: vec(x1, y1), End: vec(x2, y2)}
}

// ---------------------------------------------------------------------------
// Distances
// ---------------------------------------------------------------------------

func TestPointPoint(t *testing.T) {
	assert.InDelta(t, 5.0, PointPoint(vec(0, 0), vec(3, 4)), eps)
	assert.Equal(t, 0.0, PointPoint(vec(1, 1), vec(1, 1)))
}

func TestPointLine_InfiniteLine(t *testing.T) {
	// The foot of the perpendicular lies outside the segment.
	assert.InDelta(t, 2.0, PointLine(vec(10, 2), vec(0, 0), vec(1, 0)), eps)
	assert.InDelta(t, math.Sqrt2/2, PointLine(vec(1, 0), vec(0, 0), vec(1, 1)), eps)
}

func TestPointCircle(t *testing.T) {
	assert.InDelta(t, 3.0, PointCircle(vec(5, 0), vec(0, 0), 2), eps)
	assert.InDelta(t, 1.5, PointCircle(vec(0.5, 0), vec(0, 0), 2), eps)
}

func TestLineCircle(t *testing.T) {
	assert.InDelta(t, 2.0, LineCircle(vec(-5, 3), vec(5, 3), vec(0, 0), 1), eps)
	assert.InDelta(t, 1.0, LineCircle(vec(-5, 1), vec(5, 1), vec(0, 0), 2), eps)
}

func TestCircleCircle(t *testing.T) {
	tests := []struct {
		name   string
		c1     v2.Vec
		r1     float64
		c2     v2.Vec
		r2     float64
		expect float64
	}{
		{"disjoint", vec(0, 0), 1, vec(5, 0), 1, 3},
		{"touching", vec(0, 0), 1, vec(2, 0), 1, 0},
		{"nested", vec(0, 0), 5, vec(1, 0), 1, 3},
		{"nested reversed", vec(1, 0), 1, vec(0, 0), 5, 3},
		{"concentric", vec(0, 0), 3, vec(0, 0), 1, 2},
		{"overlapping", vec(0, 0), 2, vec(3, 0), 2, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expect, CircleCircle(tc.c1, tc.r1, tc.c2, tc.r2), eps)
		})
	}
}

func TestCircleCircle_BranchesAgreeAtContact(t *testing.T) {
	radii := [][2]float64{{1, 1}, {0.5, 3}, {2.25, 7}, {10, 0.1}}
	for _, r := range radii {
		d := r[0] + r[1]
		got := CircleCircle(vec(0, 0), r[0], vec(d, 0), r[1])
		assert.InDelta(t, 0, got, 1e-12, "radii %v", r)
	}
}

// ---------------------------------------------------------------------------
// Angles
// ---------------------------------------------------------------------------

func TestLineAngle_RightAngle(t *testing.T) {
	a := LineAngle(seg(0, 0, 1, 0), seg(0, 0, 0, 1))
	assert.InDelta(t, math.Pi/2, a.Value, eps)
	assert.Equal(t, sketch.PosStart, a.Pos1)
	assert.Equal(t, sketch.PosStart, a.Pos2)
	assert.False(t, a.Swapped)
	assert.False(t, a.Parallel)
}

func TestLineAngle_NegativeIsSwapped(t *testing.T) {
	a := LineAngle(seg(0, 0, 0, 1), seg(0, 0, 1, 0))
	assert.InDelta(t, math.Pi/2, a.Value, eps)
	assert.True(t, a.Swapped)
}

func TestLineAngle_DirectedFromNearestEnd(t *testing.T) {
	a := LineAngle(seg(2, 0, 0, 0), seg(0, 0, 0, 1))
	assert.InDelta(t, math.Pi/2, a.Value, eps)
	assert.Equal(t, sketch.PosEnd, a.Pos1)
	assert.Equal(t, sketch.PosStart, a.Pos2)
}

func TestLineAngle_IntersectionOffSegments(t *testing.T) {
	// The lines meet at (0,0), away from both segments.
	a := LineAngle(seg(1, 0, 3, 0), seg(0, 1, 0, 4))
	assert.InDelta(t, math.Pi/2, a.Value, eps)
	assert.Equal(t, sketch.PosStart, a.Pos1)
	assert.Equal(t, sketch.PosStart, a.Pos2)
}

func TestLineAngle_SymmetricUnderSwap(t *testing.T) {
	pairs := [][2]sketch.LineSegment{
		{seg(0, 0, 1, 0), seg(0, 0, 1, 1)},
		{seg(0, 0, 5, 1), seg(3, -2, 4, 7)},
		{seg(-1, -1, 2, 3), seg(4, 0, 0, 4)},
	}
	for _, p := range pairs {
		ab := LineAngle(p[0], p[1])
		ba := LineAngle(p[1], p[0])
		assert.GreaterOrEqual(t, ab.Value, 0.0)
		assert.GreaterOrEqual(t, ba.Value, 0.0)
		assert.InDelta(t, ab.Value, ba.Value, 1e-12)
		assert.NotEqual(t, ab.Swapped, ba.Swapped)
	}
}

func TestLineAngle_ParallelIsExactlyZero(t *testing.T) {
	a := LineAngle(seg(0, 0, 1, 0), seg(0, 1, 5, 1))
	assert.True(t, a.Parallel)
	assert.Equal(t, 0.0, a.Value)

	a = LineAngle(seg(0, 0, 1, 1), seg(3, 0, 1, -2))
	assert.True(t, a.Parallel)
	assert.Equal(t, 0.0, a.Value)
}

func TestLineAngle_SmallOffsetIsStillParallel(t *testing.T) {
	// 1e-5 apart is well above sketch.Confusion.
	a := LineAngle(seg(0, 0, 1, 0), seg(2, 1e-5, 3, 1e-5))
	assert.True(t, a.Parallel)

	a = LineAngle(seg(0, 0, 1, 0), seg(2, 1e-9, 3, 1e-9))
	assert.False(t, a.Parallel)
}

func TestLineAngle_CollinearUsesClosestEnds(t *testing.T) {
	a := LineAngle(seg(0, 0, 1, 0), seg(2, 0, 3, 0))
	assert.False(t, a.Parallel)
	assert.InDelta(t, math.Pi, a.Value, eps)
}

// ---------------------------------------------------------------------------
// Circles and arcs
// ---------------------------------------------------------------------------

func TestArcMeasures(t *testing.T) {
	a := sketch.ArcOfCircle{Radius: 2, StartAngle: 0, EndAngle: math.Pi / 2}
	assert.InDelta(t, math.Pi/2, ArcAngle(a), eps)
	assert.InDelta(t, math.Pi, ArcLength(a), eps)
}

func TestRadiusFirst(t *testing.T) {
	assert.True(t, RadiusFirst(true, true))
	assert.True(t, RadiusFirst(false, false))
	assert.True(t, RadiusFirst(true, false))
	assert.False(t, RadiusFirst(false, true))
}

func TestCircleDatumOrder(t *testing.T) {
	assert.Equal(t,
		[]CircleDatum{DatumRadius, DatumDiameter, DatumArcAngle, DatumArcLength},
		CircleDatumOrder(false, true, true))
	assert.Equal(t,
		[]CircleDatum{DatumDiameter, DatumRadius, DatumArcAngle, DatumArcLength},
		CircleDatumOrder(false, false, true))
	assert.Equal(t,
		[]CircleDatum{DatumArcAngle, DatumArcLength, DatumRadius, DatumDiameter},
		CircleDatumOrder(true, true, false))
}

func TestIsRadiusDoF(t *testing.T) {
	assert.True(t, IsRadiusDoF(sketch.ArcOfCircle{Radius: 1, RadiusDoF: true}))
	assert.False(t, IsRadiusDoF(sketch.ArcOfCircle{Radius: 1}))
	assert.False(t, IsRadiusDoF(sketch.Circle{Radius: 1}))
}

// ---------------------------------------------------------------------------
// Tangency points
// ---------------------------------------------------------------------------

func assertVec(t *testing.T, want, got v2.Vec) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
}

func TestTangencyPoint_Ellipse(t *testing.T) {
	e := sketch.Ellipse{MajorRadius: 2, MinorRadius: 1}
	p, err := TangencyPoint(e, vec(10, 0))
	require.NoError(t, err)
	assertVec(t, vec(2, 0), p)

	p, err = TangencyPoint(e, vec(0, 5))
	require.NoError(t, err)
	assertVec(t, vec(0, 1), p)
}

func TestTangencyPoint_RotatedArcOfEllipse(t *testing.T) {
	e := sketch.ArcOfEllipse{Ellipse: sketch.Ellipse{MajorRadius: 2, MinorRadius: 1, MajorAngle: math.Pi / 2}}
	p, err := TangencyPoint(e, vec(0, 10))
	require.NoError(t, err)
	assertVec(t, vec(0, 2), p)
}

func TestTangencyPoint_Hyperbola(t *testing.T) {
	h := sketch.ArcOfHyperbola{Center: vec(1, 1), MajorRadius: 1, MinorRadius: 2}
	p, err := TangencyPoint(h, vec(6, 1))
	require.NoError(t, err)
	assertVec(t, vec(2, 1), p)
}

func TestTangencyPoint_Parabola(t *testing.T) {
	pb := sketch.ArcOfParabola{Focal: 1}
	p, err := TangencyPoint(pb, vec(1, 5))
	require.NoError(t, err)
	assertVec(t, vec(1, 2), p)

	p, err = TangencyPoint(pb, vec(-5, 0))
	require.NoError(t, err)
	assertVec(t, vec(0, 0), p)

	// Straight down the open axis there is no intersection.
	p, err = TangencyPoint(pb, vec(10, 0))
	require.NoError(t, err)
	assertVec(t, vec(0, 0), p)
}

func TestTangencyPoint_NotAConic(t *testing.T) {
	_, err := TangencyPoint(sketch.Circle{Radius: 1}, vec(3, 0))
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// Labels and cursor
// ---------------------------------------------------------------------------

func TestLabelPosition_NoRandomness(t *testing.T) {
	p := LabelPosition(vec(1, 1), 2, 90, 0, nil)
	assertVec(t, vec(1, 3), p)
}

func TestLabelPosition_JitterStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 50 {
		p := LabelPosition(vec(0, 0), 1, 45, 10, rng)
		deg := math.Atan2(p.Y, p.X) * 180 / math.Pi
		assert.GreaterOrEqual(t, deg, 35.0)
		assert.LessOrEqual(t, deg, 55.0)
		assert.InDelta(t, 1.0, p.Length(), 1e-12)
	}
}

func TestCursorAxis(t *testing.T) {
	a, b := vec(0, 0), vec(4, 3)
	assert.Equal(t, AxisX, CursorAxis(a, b, vec(2, 10)))
	assert.Equal(t, AxisY, CursorAxis(a, b, vec(10, 1)))
	assert.Equal(t, AxisNone, CursorAxis(a, b, vec(10, 10)))
	assert.Equal(t, AxisNone, CursorAxis(a, b, vec(2, 1)))
}
