package sketch

import (
	"fmt"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Confusion is the length below which two points are considered equal.
const Confusion = 1e-7

// ValidationError describes malformed geometry.
type ValidationError struct {
	Kind    Kind
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Kind, e.Message)
}

func invalid(k Kind, format string, args ...any) error {
	return &ValidationError{Kind: k, Message: fmt.Sprintf(format, args...)}
}

func finite(v v2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// ValidateGeometry checks that g is well formed: finite coordinates,
// non-degenerate lengths and radii.
func ValidateGeometry(g Geometry) error {
	switch geo := g.(type) {
	case Point:
		if !finite(geo.P) {
			return invalid(g.Kind(), "coordinates are not finite")
		}
	case LineSegment:
		if !finite(geo.Start) || !finite(geo.End) {
			return invalid(g.Kind(), "end points are not finite")
		}
		if geo.Length() < Confusion {
			return invalid(g.Kind(), "length %.4g is below %.g", geo.Length(), Confusion)
		}
	case Circle:
		if !finite(geo.Center) {
			return invalid(g.Kind(), "center is not finite")
		}
		if geo.Radius <= 0 {
			return invalid(g.Kind(), "radius is %.4f, must be positive", geo.Radius)
		}
	case ArcOfCircle:
		if !finite(geo.Center) {
			return invalid(g.Kind(), "center is not finite")
		}
		if geo.Radius <= 0 {
			return invalid(g.Kind(), "radius is %.4f, must be positive", geo.Radius)
		}
	case Ellipse:
		return validateEllipse(geo)
	case ArcOfEllipse:
		return validateEllipse(geo.Ellipse)
	case ArcOfHyperbola:
		if !finite(geo.Center) {
			return invalid(g.Kind(), "center is not finite")
		}
		if geo.MajorRadius <= 0 || geo.MinorRadius <= 0 {
			return invalid(g.Kind(), "radii %.4f/%.4f must be positive", geo.MajorRadius, geo.MinorRadius)
		}
	case ArcOfParabola:
		if !finite(geo.Vertex) {
			return invalid(g.Kind(), "vertex is not finite")
		}
		if geo.Focal <= 0 {
			return invalid(g.Kind(), "focal length is %.4f, must be positive", geo.Focal)
		}
	case BSpline:
		if len(geo.Poles) < 2 {
			return invalid(g.Kind(), "needs at least 2 poles, got %d", len(geo.Poles))
		}
		if geo.Degree < 1 || geo.Degree >= len(geo.Poles) {
			return invalid(g.Kind(), "degree %d out of range for %d poles", geo.Degree, len(geo.Poles))
		}
	case nil:
		return fmt.Errorf("invalid geometry: nil")
	}
	return nil
}

func validateEllipse(e Ellipse) error {
	if !finite(e.Center) {
		return invalid(KindEllipse, "center is not finite")
	}
	if e.MinorRadius <= 0 {
		return invalid(KindEllipse, "minor radius is %.4f, must be positive", e.MinorRadius)
	}
	if e.MajorRadius < e.MinorRadius {
		return invalid(KindEllipse, "major radius %.4f is smaller than minor radius %.4f", e.MajorRadius, e.MinorRadius)
	}
	return nil
}
