package geom

import (
	"math"
	"math/rand/v2"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// LabelPosition places a radius or diameter label on the circle around
// center. The angle is baseDeg plus a uniform offset in
// [-randomnessDeg, randomnessDeg). A nil rng uses the global source.
func LabelPosition(center v2.Vec, radius, baseDeg, randomnessDeg float64, rng *rand.Rand) v2.Vec {
	jitter := 0.0
	if randomnessDeg != 0 {
		u := rand.Float64()
		if rng != nil {
			u = rng.Float64()
		}
		jitter = (2*u - 1) * randomnessDeg
	}
	a := (baseDeg + jitter) * math.Pi / 180
	return center.Add(v2.Vec{X: radius * math.Cos(a), Y: radius * math.Sin(a)})
}
