package geom

import (
	"fmt"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/smartdim/pkg/sketch"
)

// TangencyPoint approximates where conic would touch a curve whose
// reference point is toward. The polar angle of toward, seen from the
// conic's centre (or focus for a parabola) in the conic's local frame,
// stands in for the curve parameter. The solver makes the tangency exact
// once the constraints exist.
func TangencyPoint(conic sketch.Geometry, toward v2.Vec) (v2.Vec, error) {
	switch c := conic.(type) {
	case sketch.Ellipse:
		return c.PointAt(polarAngle(c.Center, c.MajorAngle, toward)), nil
	case sketch.ArcOfEllipse:
		return c.PointAt(polarAngle(c.Center, c.MajorAngle, toward)), nil
	case sketch.ArcOfHyperbola:
		return c.PointAt(polarAngle(c.Center, c.MajorAngle, toward)), nil
	case sketch.ArcOfParabola:
		return parabolaPoint(c, toward), nil
	}
	return v2.Vec{}, fmt.Errorf("tangency point: %s is not a conic", conic.Kind())
}

func polarAngle(origin v2.Vec, angle float64, p v2.Vec) float64 {
	local := sketch.ToLocal(origin, angle, p)
	return math.Atan2(local.Y, local.X)
}

// parabolaPoint intersects the ray from the focus toward p with the
// parabola, using the focal polar form r = 2f / (1 - cos theta).
func parabolaPoint(p sketch.ArcOfParabola, toward v2.Vec) v2.Vec {
	focus := p.Focus()
	theta := polarAngle(focus, p.Angle, toward)
	denom := 1 - math.Cos(theta)
	if denom < Precision {
		// The ray runs along the open end of the axis.
		return p.Vertex
	}
	r := 2 * p.Focal / denom
	return sketch.ToGlobal(focus, p.Angle, v2.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta)})
}
