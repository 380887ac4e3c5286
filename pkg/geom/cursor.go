package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Axis names the direction a cursor-placed distance measures along.
type Axis int

const (
	AxisNone Axis = iota // straight-line distance
	AxisX
	AxisY
)

// CursorAxis picks the distance direction for the pair a, b from where the
// cursor sits. A cursor above or below the pair, within its horizontal
// extent, measures along X; a cursor beside the pair, within its vertical
// extent, measures along Y. Anywhere else measures the direct distance.
func CursorAxis(a, b, cursor v2.Vec) Axis {
	minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
	minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	inX := cursor.X > minX && cursor.X < maxX
	inY := cursor.Y > minY && cursor.Y < maxY
	switch {
	case inX && !inY:
		return AxisX
	case inY && !inX:
		return AxisY
	}
	return AxisNone
}
