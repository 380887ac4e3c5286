package sketch

import "fmt"

// GeoID identifies a geometry element in a sketch. Non-negative ids refer to
// sketch geometry; negative ids refer to fixed geometry (axes and external
// references).
type GeoID int

const (
	// HAxis is the horizontal axis. Its Start point is the sketch origin.
	HAxis GeoID = -1
	// VAxis is the vertical axis.
	VAxis GeoID = -2
	// RefExt is the first external geometry id; external ids count down.
	RefExt GeoID = -3
	// GeoUndef marks an absent operand.
	GeoUndef GeoID = -2000
	// GeoNew is resolved to the geometry added earlier in the same batch of
	// creation requests.
	GeoNew GeoID = -2001
)

// IsAxis reports whether id is one of the two sketch axes.
func (id GeoID) IsAxis() bool {
	return id == HAxis || id == VAxis
}

// IsExternal reports whether id refers to external reference geometry.
func (id GeoID) IsExternal() bool {
	return id <= RefExt && id > GeoUndef
}

// IsFixedID reports whether id can never move, independent of constraints.
func (id GeoID) IsFixedID() bool {
	return id < 0 && id != GeoUndef && id != GeoNew
}

// ExternalID returns the GeoID of the i-th external geometry (0-based).
func ExternalID(i int) GeoID {
	return RefExt - GeoID(i)
}

// externalIndex is the inverse of ExternalID.
func externalIndex(id GeoID) int {
	return int(RefExt - id)
}

// PointPos selects a special point of a geometry, or the whole geometry.
type PointPos int

const (
	PosNone PointPos = iota
	PosStart
	PosEnd
	PosMid
)

func (p PointPos) String() string {
	switch p {
	case PosNone:
		return "none"
	case PosStart:
		return "start"
	case PosEnd:
		return "end"
	case PosMid:
		return "mid"
	default:
		return "unknown"
	}
}

// ParsePointPos converts the names produced by String back to a PointPos.
// "center" is accepted as an alias of "mid".
func ParsePointPos(s string) (PointPos, error) {
	switch s {
	case "", "none":
		return PosNone, nil
	case "start":
		return PosStart, nil
	case "end":
		return PosEnd, nil
	case "mid", "center":
		return PosMid, nil
	}
	return PosNone, fmt.Errorf("invalid point position %q, expected start, end, mid or none", s)
}

// Ref is a selection token: a whole geometry (Pos == PosNone) or one of its
// special points.
type Ref struct {
	GeoID GeoID    `json:"geo_id"`
	Pos   PointPos `json:"pos"`
}

// Edge returns a reference to the whole geometry id.
func Edge(id GeoID) Ref {
	return Ref{GeoID: id, Pos: PosNone}
}

// Vertex returns a reference to a special point of geometry id.
func Vertex(id GeoID, pos PointPos) Ref {
	return Ref{GeoID: id, Pos: pos}
}

// RootPoint returns the reference to the sketch origin.
func RootPoint() Ref {
	return Ref{GeoID: HAxis, Pos: PosStart}
}

// Undef is the absent operand.
var Undef = Ref{GeoID: GeoUndef}

// IsPoint reports whether r references a point rather than a whole geometry.
func (r Ref) IsPoint() bool {
	return r.Pos != PosNone
}

// IsRoot reports whether r is the sketch origin.
func (r Ref) IsRoot() bool {
	return r == RootPoint()
}

func (r Ref) String() string {
	if r.Pos == PosNone {
		return fmt.Sprintf("%d", r.GeoID)
	}
	return fmt.Sprintf("%d.%s", r.GeoID, r.Pos)
}
