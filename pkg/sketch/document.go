package sketch

import (
	"errors"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// ErrUnknownGeometry is returned when a GeoID does not resolve.
var ErrUnknownGeometry = errors.New("unknown geometry")

// Document is the sketch the inference core works against. The core is its
// only mutator while an interaction is active.
type Document interface {
	// Geometry returns a snapshot of the geometry with the given id,
	// including axes and external geometry.
	Geometry(id GeoID) (Geometry, error)
	// Point returns the current coordinates of a special point.
	Point(ref Ref) (v2.Vec, error)
	// Constraints returns the constraint list in creation order.
	Constraints() []Constraint
	// AddConstraint appends c and returns its index.
	AddConstraint(c Constraint) (int, error)
	// RemoveConstraint deletes the constraint at index.
	RemoveConstraint(index int) error
	// AddGeometry appends g and returns its id.
	AddGeometry(g Geometry) (GeoID, error)
	// RemoveGeometry deletes the most recently added geometry id.
	RemoveGeometry(id GeoID) error
	// MovePoint relocates a special point.
	MovePoint(ref Ref, to v2.Vec) error
	// SetDriving toggles a datum constraint between driving and reference.
	SetDriving(index int, driving bool) error
	// SetDatum changes the value of a datum constraint.
	SetDatum(index int, value float64) error
	// Solve asks the host to re-solve the sketch.
	Solve() error
	// Redraw asks the host to repaint the sketch.
	Redraw()
}

// IsBlocked reports whether id carries a Block constraint.
func IsBlocked(doc Document, id GeoID) bool {
	for _, c := range doc.Constraints() {
		if c.Type == Block && len(c.Operands) == 1 && c.Operands[0].GeoID == id {
			return true
		}
	}
	return false
}

// IsFixed reports whether id is immovable: an axis, the origin, external
// geometry, or blocked geometry.
func IsFixed(doc Document, id GeoID) bool {
	return id.IsFixedID() || IsBlocked(doc, id)
}

// HasOrientation reports whether line id already carries a horizontal,
// vertical or block constraint.
func HasOrientation(doc Document, id GeoID) bool {
	for _, c := range doc.Constraints() {
		if len(c.Operands) != 1 || c.Operands[0].GeoID != id {
			continue
		}
		switch c.Type {
		case Horizontal, Vertical, Block:
			return true
		}
	}
	return false
}

// AreCoincident reports whether a coincident constraint joins a and b.
func AreCoincident(doc Document, a, b Ref) bool {
	for _, c := range doc.Constraints() {
		if c.Type != Coincident || len(c.Operands) != 2 {
			continue
		}
		if (c.Operands[0] == a && c.Operands[1] == b) || (c.Operands[0] == b && c.Operands[1] == a) {
			return true
		}
	}
	return false
}
