package sketch

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Compile-time interface check.
var _ Document = (*Sketch)(nil)

// Sketch is an in-memory Document. It does not solve: Solve only counts
// requests so callers can observe them.
type Sketch struct {
	geometry    []Geometry
	external    []Geometry
	constraints []Constraint
	names       map[string]GeoID

	// Version increases on every mutation.
	Version uint64
	// Solves and Redraws count host requests.
	Solves  int
	Redraws int
}

// New creates an empty sketch.
func New() *Sketch {
	return &Sketch{names: make(map[string]GeoID)}
}

// AddGeometry validates g and appends it.
func (s *Sketch) AddGeometry(g Geometry) (GeoID, error) {
	if err := ValidateGeometry(g); err != nil {
		return GeoUndef, err
	}
	s.geometry = append(s.geometry, g)
	s.Version++
	return GeoID(len(s.geometry) - 1), nil
}

// AddNamed adds g and registers a lookup name for it.
func (s *Sketch) AddNamed(name string, g Geometry) (GeoID, error) {
	id, err := s.AddGeometry(g)
	if err != nil {
		return GeoUndef, err
	}
	if name != "" {
		s.names[name] = id
	}
	return id, nil
}

// AddExternal registers external reference geometry. External geometry is
// taken as-is from the host and is not validated.
func (s *Sketch) AddExternal(g Geometry) GeoID {
	s.external = append(s.external, g)
	s.Version++
	return ExternalID(len(s.external) - 1)
}

// Lookup returns the id registered under name.
func (s *Sketch) Lookup(name string) (GeoID, bool) {
	id, ok := s.names[name]
	return id, ok
}

// Name registers an additional lookup name for id.
func (s *Sketch) Name(name string, id GeoID) {
	s.names[name] = id
}

// RemoveGeometry deletes id, which must be the last geometry added.
func (s *Sketch) RemoveGeometry(id GeoID) error {
	if int(id) != len(s.geometry)-1 || id < 0 {
		return fmt.Errorf("remove geometry %d: only the last geometry (%d) can be removed", id, len(s.geometry)-1)
	}
	for i, c := range s.constraints {
		if c.References(id) {
			return fmt.Errorf("remove geometry %d: still referenced by constraint %d", id, i)
		}
	}
	s.geometry = s.geometry[:len(s.geometry)-1]
	for name, nid := range s.names {
		if nid == id {
			delete(s.names, name)
		}
	}
	s.Version++
	return nil
}

// Geometry returns the geometry with the given id.
func (s *Sketch) Geometry(id GeoID) (Geometry, error) {
	switch {
	case id == HAxis:
		return LineSegment{Start: v2.Vec{}, End: v2.Vec{X: 1}}, nil
	case id == VAxis:
		return LineSegment{Start: v2.Vec{}, End: v2.Vec{Y: 1}}, nil
	case id.IsExternal():
		i := externalIndex(id)
		if i < len(s.external) {
			return s.external[i], nil
		}
	case id >= 0 && int(id) < len(s.geometry):
		return s.geometry[id], nil
	}
	return nil, fmt.Errorf("geometry %d: %w", id, ErrUnknownGeometry)
}

// GeometryCount returns the number of (non-external) geometries.
func (s *Sketch) GeometryCount() int {
	return len(s.geometry)
}

// Point returns the coordinates of a special point.
func (s *Sketch) Point(ref Ref) (v2.Vec, error) {
	if ref.IsRoot() {
		return v2.Vec{}, nil
	}
	g, err := s.Geometry(ref.GeoID)
	if err != nil {
		return v2.Vec{}, err
	}
	return PointOf(g, ref.Pos)
}

// MovePoint relocates a special point of sketch geometry.
func (s *Sketch) MovePoint(ref Ref, to v2.Vec) error {
	if ref.GeoID < 0 || int(ref.GeoID) >= len(s.geometry) {
		return fmt.Errorf("move point %s: %w", ref, ErrUnknownGeometry)
	}
	g, err := withPoint(s.geometry[ref.GeoID], ref.Pos, to)
	if err != nil {
		return fmt.Errorf("move point %s: %w", ref, err)
	}
	if err := ValidateGeometry(g); err != nil {
		return fmt.Errorf("move point %s: %w", ref, err)
	}
	s.geometry[ref.GeoID] = g
	s.Version++
	return nil
}

// Constraints returns a copy of the constraint list.
func (s *Sketch) Constraints() []Constraint {
	out := make([]Constraint, len(s.constraints))
	copy(out, s.constraints)
	return out
}

// ConstraintCount returns the number of constraints.
func (s *Sketch) ConstraintCount() int {
	return len(s.constraints)
}

// AddConstraint appends c after checking its operands resolve.
func (s *Sketch) AddConstraint(c Constraint) (int, error) {
	if len(c.Operands) == 0 {
		return -1, fmt.Errorf("add %s constraint: no operands", c.Type)
	}
	for _, op := range c.Operands {
		if op.IsRoot() {
			continue
		}
		g, err := s.Geometry(op.GeoID)
		if err != nil {
			return -1, fmt.Errorf("add %s constraint: %w", c.Type, err)
		}
		if op.IsPoint() {
			if _, err := PointOf(g, op.Pos); err != nil {
				return -1, fmt.Errorf("add %s constraint: %w", c.Type, err)
			}
		}
	}
	ops := make([]Ref, len(c.Operands))
	copy(ops, c.Operands)
	c.Operands = ops
	s.constraints = append(s.constraints, c)
	s.Version++
	return len(s.constraints) - 1, nil
}

// RemoveConstraint deletes the constraint at index.
func (s *Sketch) RemoveConstraint(index int) error {
	if index < 0 || index >= len(s.constraints) {
		return fmt.Errorf("remove constraint %d: out of range (have %d)", index, len(s.constraints))
	}
	s.constraints = append(s.constraints[:index], s.constraints[index+1:]...)
	s.Version++
	return nil
}

// SetDriving toggles the driving flag of a datum constraint.
func (s *Sketch) SetDriving(index int, driving bool) error {
	if index < 0 || index >= len(s.constraints) {
		return fmt.Errorf("set driving %d: out of range (have %d)", index, len(s.constraints))
	}
	if !s.constraints[index].Type.IsDatum() {
		return fmt.Errorf("set driving %d: %s is not a datum constraint", index, s.constraints[index].Type)
	}
	s.constraints[index].Driving = driving
	s.Version++
	return nil
}

// SetDatum changes the value of a datum constraint.
func (s *Sketch) SetDatum(index int, value float64) error {
	if index < 0 || index >= len(s.constraints) {
		return fmt.Errorf("set datum %d: out of range (have %d)", index, len(s.constraints))
	}
	if !s.constraints[index].Type.IsDatum() {
		return fmt.Errorf("set datum %d: %s is not a datum constraint", index, s.constraints[index].Type)
	}
	s.constraints[index].Value = value
	s.Version++
	return nil
}

// Solve records a solve request.
func (s *Sketch) Solve() error {
	s.Solves++
	return nil
}

// Redraw records a redraw request.
func (s *Sketch) Redraw() {
	s.Redraws++
}
