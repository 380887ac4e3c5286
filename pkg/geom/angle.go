package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/smartdim/pkg/sketch"
)

// Angle is the result of measuring the angle between two lines.
type Angle struct {
	// Value is the angle in radians, never negative.
	Value float64
	// Pos1 and Pos2 are the end points each line is measured from, in the
	// order the constraint must list its operands.
	Pos1, Pos2 sketch.PointPos
	// Swapped reports that the operands were exchanged to keep Value >= 0.
	Swapped bool
	// Parallel is set for parallel lines that are not collinear. Value is
	// then exactly 0 and a distance must be used instead.
	Parallel bool
}

// LineAngle measures the angle between l1 and l2. Each line is directed away
// from its end point nearest to the intersection of the two infinite lines;
// collinear lines use the globally closest pair of end points.
func LineAngle(l1, l2 sketch.LineSegment) Angle {
	d1, d2 := l1.Dir(), l2.Dir()
	ends1 := [2]v2.Vec{l1.Start, l1.End}
	ends2 := [2]v2.Vec{l2.Start, l2.End}

	var i1, i2 int
	if math.Abs(cross(d1, d2)) <= Precision*d1.Length()*d2.Length() {
		if off := PointLine(l2.Start, l1.Start, l1.End); off > sketch.Confusion {
			return Angle{Pos1: sketch.PosStart, Pos2: sketch.PosStart, Parallel: true}
		}
		best := math.Inf(1)
		for a := range ends1 {
			for b := range ends2 {
				if d := dist2(ends1[a], ends2[b]); d < best {
					best, i1, i2 = d, a, b
				}
			}
		}
	} else {
		t := cross(l2.Start.Sub(l1.Start), d2) / cross(d1, d2)
		x := l1.Start.Add(d1.MulScalar(t))
		if dist2(l1.End, x) < dist2(l1.Start, x) {
			i1 = 1
		}
		if dist2(l2.End, x) < dist2(l2.Start, x) {
			i2 = 1
		}
	}

	dir1 := ends1[1-i1].Sub(ends1[i1])
	dir2 := ends2[1-i2].Sub(ends2[i2])
	a := Angle{
		Value: math.Atan2(cross(dir1, dir2), dot(dir1, dir2)),
		Pos1:  endPos(i1),
		Pos2:  endPos(i2),
	}
	if a.Value < 0 {
		a.Value = -a.Value
		a.Pos1, a.Pos2 = a.Pos2, a.Pos1
		a.Swapped = true
	}
	return a
}

func endPos(i int) sketch.PointPos {
	if i == 0 {
		return sketch.PosStart
	}
	return sketch.PosEnd
}
