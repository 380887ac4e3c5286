package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Precision is the tolerance used for parallelism and coincidence tests.
const Precision = 1e-9

func cross(a, b v2.Vec) float64 {
	return a.X*b.Y - a.Y*b.X
}

func dot(a, b v2.Vec) float64 {
	return a.X*b.X + a.Y*b.Y
}

func dist2(a, b v2.Vec) float64 {
	d := a.Sub(b)
	return d.X*d.X + d.Y*d.Y
}

// PointPoint returns the Euclidean distance between a and b.
func PointPoint(a, b v2.Vec) float64 {
	return b.Sub(a).Length()
}

// PointLine returns the distance from p to the infinite line through p1 and
// p2: |cross(p2-p1, p-p1)| / |p2-p1|.
func PointLine(p, p1, p2 v2.Vec) float64 {
	d := p2.Sub(p1)
	l := d.Length()
	if l == 0 {
		return PointPoint(p, p1)
	}
	return math.Abs(cross(d, p.Sub(p1))) / l
}

// PointCircle returns | |center-p| - r |, the distance from p to the full
// circle. Arcs are measured against their supporting circle.
func PointCircle(p, center v2.Vec, r float64) float64 {
	return math.Abs(PointPoint(p, center) - r)
}

// LineCircle returns |dist(center, line) - r|.
func LineCircle(p1, p2, center v2.Vec, r float64) float64 {
	return math.Abs(PointLine(center, p1, p2) - r)
}

// CircleCircle returns the gap between two circles. Disjoint circles
// (d >= r1+r2) give d-r1-r2; overlapping or nested circles give
// |max(r1,r2) - min(r1,r2) - d|. Both branches are 0 at d = r1+r2.
func CircleCircle(c1 v2.Vec, r1 float64, c2 v2.Vec, r2 float64) float64 {
	d := PointPoint(c1, c2)
	if d >= r1+r2 {
		return d - r1 - r2
	}
	return math.Abs(math.Max(r1, r2) - math.Min(r1, r2) - d)
}
