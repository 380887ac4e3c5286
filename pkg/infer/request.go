package infer

import (
	"fmt"
	"slices"
	"strings"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/smartdim/pkg/sketch"
)

// Relocation moves a special point before a constraint is added.
type Relocation struct {
	Point sketch.Ref
	To    v2.Vec
}

// Request asks for one constraint. Aux, when set, is added to the document
// first; operands using sketch.GeoNew refer to the most recent Aux of the
// batch. The driving flag is decided by the applier.
type Request struct {
	Type     sketch.ConstraintType
	Operands []sketch.Ref
	Value    float64
	Relocate *Relocation
	Aux      sketch.Geometry
}

func (r Request) String() string {
	var b strings.Builder
	if r.Aux != nil {
		fmt.Fprintf(&b, "add %s; ", r.Aux.Kind())
	}
	if r.Relocate != nil {
		fmt.Fprintf(&b, "move %s to (%.6g, %.6g); ", r.Relocate.Point, r.Relocate.To.X, r.Relocate.To.Y)
	}
	ops := make([]string, len(r.Operands))
	for i, op := range r.Operands {
		ops[i] = op.String()
	}
	fmt.Fprintf(&b, "%s(%s)", r.Type, strings.Join(ops, ", "))
	if r.Type.IsDatum() {
		fmt.Fprintf(&b, " = %.6g", r.Value)
	}
	return b.String()
}

// operandFixed reports whether op can never move. GeoNew operands are
// geometry about to be created and are free.
func operandFixed(doc sketch.Document, op sketch.Ref) bool {
	if op.GeoID == sketch.GeoNew {
		return false
	}
	return sketch.IsFixed(doc, op.GeoID)
}

// allFixed reports whether every operand of r is immovable.
func allFixed(doc sketch.Document, r Request) bool {
	if len(r.Operands) == 0 {
		return false
	}
	for _, op := range r.Operands {
		if !operandFixed(doc, op) {
			return false
		}
	}
	return true
}

// CheckFixed applies the fixed-geometry policy. A request whose operands
// are all immovable is meaningless, except a single-operand datum, which
// can still report the measured value.
func CheckFixed(doc sketch.Document, r Request) error {
	if !allFixed(doc, r) {
		return nil
	}
	if len(r.Operands) == 1 && r.Type.IsDatum() {
		return nil
	}
	return NewError(CodeFixedGeometryConflict, r.Operands, "cannot add %s between fixed geometry", r.Type)
}

// CheckBatch applies CheckFixed to every request of a batch. A batch that
// constructs new geometry is also judged on the existing geometry it ties
// together: the new point is free, but when every other operand is
// immovable the batch constrains fixed geometry against itself.
func CheckBatch(doc sketch.Document, reqs []Request) error {
	var existing []sketch.Ref
	constructs := false
	for _, r := range reqs {
		if err := CheckFixed(doc, r); err != nil {
			return err
		}
		for _, op := range r.Operands {
			if op.GeoID == sketch.GeoNew {
				constructs = true
				continue
			}
			if !slices.ContainsFunc(existing, func(e sketch.Ref) bool { return e.GeoID == op.GeoID }) {
				existing = append(existing, op)
			}
		}
	}
	if !constructs || len(existing) == 0 {
		return nil
	}
	for _, op := range existing {
		if !operandFixed(doc, op) {
			return nil
		}
	}
	return NewError(CodeFixedGeometryConflict, existing, "cannot construct %s between fixed geometry", reqs[len(reqs)-1].Type)
}

// Driving decides the driving flag of a new constraint. Only datum
// constraints can be non-driving: in reference mode, or when every operand
// is fixed.
func Driving(doc sketch.Document, reference bool, r Request) bool {
	if !r.Type.IsDatum() {
		return true
	}
	return !reference && !allFixed(doc, r)
}
