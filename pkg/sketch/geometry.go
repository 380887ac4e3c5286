package sketch

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Kind enumerates the geometry kinds a sketch can hold.
type Kind int

const (
	KindPoint Kind = iota
	KindLineSegment
	KindCircle
	KindArcOfCircle
	KindEllipse
	KindArcOfEllipse
	KindArcOfHyperbola
	KindArcOfParabola
	KindBSpline
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLineSegment:
		return "line"
	case KindCircle:
		return "circle"
	case KindArcOfCircle:
		return "arc"
	case KindEllipse:
		return "ellipse"
	case KindArcOfEllipse:
		return "arc-of-ellipse"
	case KindArcOfHyperbola:
		return "arc-of-hyperbola"
	case KindArcOfParabola:
		return "arc-of-parabola"
	case KindBSpline:
		return "bspline"
	default:
		return "unknown"
	}
}

// IsConic reports whether k belongs to the ellipse family bucket.
func (k Kind) IsConic() bool {
	switch k {
	case KindEllipse, KindArcOfEllipse, KindArcOfHyperbola, KindArcOfParabola:
		return true
	}
	return false
}

// Geometry is a read-only snapshot of one sketch element.
type Geometry interface {
	Kind() Kind
	geometry() // marker method restricting implementations to this package
}

// ---------------------------------------------------------------------------
// Point and line
// ---------------------------------------------------------------------------

// Point is a free sketch point. Its only special point is Start.
type Point struct {
	P v2.Vec `json:"p"`
}

func (Point) Kind() Kind { return KindPoint }
func (Point) geometry()  {}

// LineSegment is a straight segment between Start and End.
type LineSegment struct {
	Start v2.Vec `json:"start"`
	End   v2.Vec `json:"end"`
}

func (LineSegment) Kind() Kind { return KindLineSegment }
func (LineSegment) geometry()  {}

// Dir returns End - Start.
func (l LineSegment) Dir() v2.Vec {
	return l.End.Sub(l.Start)
}

// Length returns the segment length.
func (l LineSegment) Length() float64 {
	return l.Dir().Length()
}

// ---------------------------------------------------------------------------
// Circles
// ---------------------------------------------------------------------------

// Circle is a full circle.
type Circle struct {
	Center v2.Vec  `json:"center"`
	Radius float64 `json:"radius"`
}

func (Circle) Kind() Kind { return KindCircle }
func (Circle) geometry()  {}

// ArcOfCircle is a counter-clockwise arc from StartAngle to EndAngle
// (radians). RadiusDoF is set when the radius is a free parameter of the
// curve definition.
type ArcOfCircle struct {
	Center     v2.Vec  `json:"center"`
	Radius     float64 `json:"radius"`
	StartAngle float64 `json:"start_angle"`
	EndAngle   float64 `json:"end_angle"`
	RadiusDoF  bool    `json:"radius_dof"`
}

func (ArcOfCircle) Kind() Kind { return KindArcOfCircle }
func (ArcOfCircle) geometry()  {}

// Sweep returns the arc's angular range in (0, 2*pi].
func (a ArcOfCircle) Sweep() float64 {
	s := math.Mod(a.EndAngle-a.StartAngle, 2*math.Pi)
	if s <= 0 {
		s += 2 * math.Pi
	}
	return s
}

// PointAt returns the point at angle t.
func (a ArcOfCircle) PointAt(t float64) v2.Vec {
	return a.Center.Add(v2.Vec{X: a.Radius * math.Cos(t), Y: a.Radius * math.Sin(t)})
}

// ---------------------------------------------------------------------------
// Conics
// ---------------------------------------------------------------------------

// Ellipse is a full ellipse. MajorAngle is the rotation of the major axis
// from the sketch X axis in radians.
type Ellipse struct {
	Center      v2.Vec  `json:"center"`
	MajorRadius float64 `json:"major_radius"`
	MinorRadius float64 `json:"minor_radius"`
	MajorAngle  float64 `json:"major_angle"`
}

func (Ellipse) Kind() Kind { return KindEllipse }
func (Ellipse) geometry()  {}

// PointAt returns the point at eccentric anomaly t.
func (e Ellipse) PointAt(t float64) v2.Vec {
	local := v2.Vec{X: e.MajorRadius * math.Cos(t), Y: e.MinorRadius * math.Sin(t)}
	return ToGlobal(e.Center, e.MajorAngle, local)
}

// ArcOfEllipse is a parameter range of an ellipse.
type ArcOfEllipse struct {
	Ellipse
	StartParam float64 `json:"start_param"`
	EndParam   float64 `json:"end_param"`
}

func (ArcOfEllipse) Kind() Kind { return KindArcOfEllipse }
func (ArcOfEllipse) geometry()  {}

// ArcOfHyperbola is a parameter range of the right branch of a hyperbola
// (a*cosh t, b*sinh t) in its local frame.
type ArcOfHyperbola struct {
	Center      v2.Vec  `json:"center"`
	MajorRadius float64 `json:"major_radius"`
	MinorRadius float64 `json:"minor_radius"`
	MajorAngle  float64 `json:"major_angle"`
	StartParam  float64 `json:"start_param"`
	EndParam    float64 `json:"end_param"`
}

func (ArcOfHyperbola) Kind() Kind { return KindArcOfHyperbola }
func (ArcOfHyperbola) geometry()  {}

// PointAt returns the point at hyperbolic parameter t.
func (h ArcOfHyperbola) PointAt(t float64) v2.Vec {
	local := v2.Vec{X: h.MajorRadius * math.Cosh(t), Y: h.MinorRadius * math.Sinh(t)}
	return ToGlobal(h.Center, h.MajorAngle, local)
}

// ArcOfParabola is a parameter range of the parabola (t^2/(4f), t) in its
// local frame. Vertex is the apex and Angle the rotation of the axis.
type ArcOfParabola struct {
	Vertex     v2.Vec  `json:"vertex"`
	Focal      float64 `json:"focal"`
	Angle      float64 `json:"angle"`
	StartParam float64 `json:"start_param"`
	EndParam   float64 `json:"end_param"`
}

func (ArcOfParabola) Kind() Kind { return KindArcOfParabola }
func (ArcOfParabola) geometry()  {}

// PointAt returns the point at parameter t.
func (p ArcOfParabola) PointAt(t float64) v2.Vec {
	local := v2.Vec{X: t * t / (4 * p.Focal), Y: t}
	return ToGlobal(p.Vertex, p.Angle, local)
}

// Focus returns the focal point.
func (p ArcOfParabola) Focus() v2.Vec {
	return ToGlobal(p.Vertex, p.Angle, v2.Vec{X: p.Focal, Y: 0})
}

// ---------------------------------------------------------------------------
// Splines
// ---------------------------------------------------------------------------

// BSpline is a clamped B-spline given by its control poles.
type BSpline struct {
	Poles  []v2.Vec `json:"poles"`
	Degree int      `json:"degree"`
}

func (BSpline) Kind() Kind { return KindBSpline }
func (BSpline) geometry()  {}

// ---------------------------------------------------------------------------
// Frames and special points
// ---------------------------------------------------------------------------

// ToGlobal maps p from the frame centred on origin and rotated by angle into
// sketch coordinates.
func ToGlobal(origin v2.Vec, angle float64, local v2.Vec) v2.Vec {
	return sdf.Rotate2d(angle).MulPosition(local).Add(origin)
}

// ToLocal maps p into the frame centred on origin and rotated by angle.
func ToLocal(origin v2.Vec, angle float64, p v2.Vec) v2.Vec {
	return sdf.Rotate2d(-angle).MulPosition(p.Sub(origin))
}

// PointOf returns the coordinates of special point pos of g.
func PointOf(g Geometry, pos PointPos) (v2.Vec, error) {
	switch geo := g.(type) {
	case Point:
		if pos == PosStart || pos == PosMid {
			return geo.P, nil
		}
	case LineSegment:
		switch pos {
		case PosStart:
			return geo.Start, nil
		case PosEnd:
			return geo.End, nil
		case PosMid:
			return geo.Start.Add(geo.End).MulScalar(0.5), nil
		}
	case Circle:
		if pos == PosMid {
			return geo.Center, nil
		}
	case ArcOfCircle:
		switch pos {
		case PosStart:
			return geo.PointAt(geo.StartAngle), nil
		case PosEnd:
			return geo.PointAt(geo.EndAngle), nil
		case PosMid:
			return geo.Center, nil
		}
	case Ellipse:
		if pos == PosMid {
			return geo.Center, nil
		}
	case ArcOfEllipse:
		switch pos {
		case PosStart:
			return geo.PointAt(geo.StartParam), nil
		case PosEnd:
			return geo.PointAt(geo.EndParam), nil
		case PosMid:
			return geo.Center, nil
		}
	case ArcOfHyperbola:
		switch pos {
		case PosStart:
			return geo.PointAt(geo.StartParam), nil
		case PosEnd:
			return geo.PointAt(geo.EndParam), nil
		case PosMid:
			return geo.Center, nil
		}
	case ArcOfParabola:
		switch pos {
		case PosStart:
			return geo.PointAt(geo.StartParam), nil
		case PosEnd:
			return geo.PointAt(geo.EndParam), nil
		case PosMid:
			return geo.Vertex, nil
		}
	case BSpline:
		if len(geo.Poles) > 0 {
			switch pos {
			case PosStart:
				return geo.Poles[0], nil
			case PosEnd:
				return geo.Poles[len(geo.Poles)-1], nil
			}
		}
	}
	return v2.Vec{}, fmt.Errorf("%s has no %s point", g.Kind(), pos)
}

// withPoint returns a copy of g whose special point pos is moved to p.
// Only end points of lines and free points can move independently; other
// kinds move as a whole when their centre is moved.
func withPoint(g Geometry, pos PointPos, p v2.Vec) (Geometry, error) {
	switch geo := g.(type) {
	case Point:
		if pos == PosStart || pos == PosMid {
			geo.P = p
			return geo, nil
		}
	case LineSegment:
		switch pos {
		case PosStart:
			geo.Start = p
			return geo, nil
		case PosEnd:
			geo.End = p
			return geo, nil
		}
	case Circle:
		if pos == PosMid {
			geo.Center = p
			return geo, nil
		}
	case ArcOfCircle:
		if pos == PosMid {
			geo.Center = p
			return geo, nil
		}
	case Ellipse:
		if pos == PosMid {
			geo.Center = p
			return geo, nil
		}
	case ArcOfEllipse:
		if pos == PosMid {
			geo.Center = p
			return geo, nil
		}
	}
	return nil, fmt.Errorf("cannot move %s point of %s", pos, g.Kind())
}

// CircleOf returns centre and radius for circles and arcs of circle.
func CircleOf(g Geometry) (center v2.Vec, radius float64, ok bool) {
	switch geo := g.(type) {
	case Circle:
		return geo.Center, geo.Radius, true
	case ArcOfCircle:
		return geo.Center, geo.Radius, true
	}
	return v2.Vec{}, 0, false
}

// ReferencePoint is the point used to aim at a curve from elsewhere: the
// centre of circles and central conics, the focus of a parabola, the
// midpoint of a line and the first pole of a spline.
func ReferencePoint(g Geometry) v2.Vec {
	switch geo := g.(type) {
	case Point:
		return geo.P
	case LineSegment:
		return geo.Start.Add(geo.End).MulScalar(0.5)
	case Circle:
		return geo.Center
	case ArcOfCircle:
		return geo.Center
	case Ellipse:
		return geo.Center
	case ArcOfEllipse:
		return geo.Center
	case ArcOfHyperbola:
		return geo.Center
	case ArcOfParabola:
		return geo.Focus()
	case BSpline:
		if len(geo.Poles) > 0 {
			return geo.Poles[0]
		}
	}
	return v2.Vec{}
}
