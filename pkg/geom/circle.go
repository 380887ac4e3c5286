package geom

import "github.com/chazu/smartdim/pkg/sketch"

// ArcAngle returns the swept angle of an arc in radians.
func ArcAngle(a sketch.ArcOfCircle) float64 {
	return a.Sweep()
}

// ArcLength returns the length of an arc along its curve.
func ArcLength(a sketch.ArcOfCircle) float64 {
	return a.Radius * a.Sweep()
}

// CircleDatum is one of the dimensions a single circle or arc can receive.
type CircleDatum int

const (
	DatumRadius CircleDatum = iota
	DatumDiameter
	DatumArcAngle
	DatumArcLength
)

func (d CircleDatum) String() string {
	switch d {
	case DatumRadius:
		return "radius"
	case DatumDiameter:
		return "diameter"
	case DatumArcAngle:
		return "arc-angle"
	case DatumArcLength:
		return "arc-length"
	default:
		return "unknown"
	}
}

// RadiusFirst resolves the two radius/diameter preference toggles. Radius
// comes first unless only prefer-diameter is set.
func RadiusFirst(preferRadius, preferDiameter bool) bool {
	return preferRadius || !preferDiameter
}

// IsRadiusDoF reports whether g is an arc whose radius is a free parameter
// of its construction.
func IsRadiusDoF(g sketch.Geometry) bool {
	a, ok := g.(sketch.ArcOfCircle)
	return ok && a.RadiusDoF
}

// CircleDatumOrder lists the dimensions offered for one circle or arc in
// cycle order. When the radius is a free parameter the angular dimensions
// come first.
func CircleDatumOrder(radiusDoF, preferRadius, preferDiameter bool) []CircleDatum {
	rd := []CircleDatum{DatumRadius, DatumDiameter}
	if !RadiusFirst(preferRadius, preferDiameter) {
		rd = []CircleDatum{DatumDiameter, DatumRadius}
	}
	if radiusDoF {
		return append([]CircleDatum{DatumArcAngle, DatumArcLength}, rd...)
	}
	return append(rd, DatumArcAngle, DatumArcLength)
}
