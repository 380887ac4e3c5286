package sketch

import (
	"fmt"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// ConstraintType enumerates the constraint kinds the core can request.
type ConstraintType int

const (
	Coincident ConstraintType = iota
	Horizontal
	Vertical
	Parallel
	Perpendicular
	Tangent // two curves, or two curves and a point for tangency via point
	PointOnObject
	Symmetric
	Equal
	Block
	Distance  // datum
	DistanceX // datum
	DistanceY // datum
	Angle     // datum; one arc operand means the arc's sweep
	Radius    // datum
	Diameter  // datum
	ArcLength // datum
)

var constraintNames = [...]string{
	Coincident:    "coincident",
	Horizontal:    "horizontal",
	Vertical:      "vertical",
	Parallel:      "parallel",
	Perpendicular: "perpendicular",
	Tangent:       "tangent",
	PointOnObject: "point-on-object",
	Symmetric:     "symmetric",
	Equal:         "equal",
	Block:         "block",
	Distance:      "distance",
	DistanceX:     "distance-x",
	DistanceY:     "distance-y",
	Angle:         "angle",
	Radius:        "radius",
	Diameter:      "diameter",
	ArcLength:     "arc-length",
}

func (t ConstraintType) String() string {
	if t < 0 || int(t) >= len(constraintNames) {
		return "unknown"
	}
	return constraintNames[t]
}

// IsDatum reports whether the constraint carries a numeric value.
func (t ConstraintType) IsDatum() bool {
	switch t {
	case Distance, DistanceX, DistanceY, Angle, Radius, Diameter, ArcLength:
		return true
	}
	return false
}

// Constraint is one record in a sketch's constraint list.
type Constraint struct {
	Type     ConstraintType `json:"type"`
	Operands []Ref          `json:"operands"`
	Value    float64        `json:"value,omitempty"`
	Driving  bool           `json:"driving"`
	Label    v2.Vec         `json:"label"` // presentation hint for datum labels
}

// References reports whether any operand of c refers to geometry id.
func (c Constraint) References(id GeoID) bool {
	for _, op := range c.Operands {
		if op.GeoID == id {
			return true
		}
	}
	return false
}

func (c Constraint) String() string {
	ops := make([]string, len(c.Operands))
	for i, op := range c.Operands {
		ops[i] = op.String()
	}
	s := fmt.Sprintf("%s(%s)", c.Type, strings.Join(ops, ", "))
	if c.Type.IsDatum() {
		s += fmt.Sprintf(" = %.6g", c.Value)
		if !c.Driving {
			s += " [reference]"
		}
	}
	return s
}
