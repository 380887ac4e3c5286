package session

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/smartdim/pkg/geom"
	"github.com/chazu/smartdim/pkg/infer"
	"github.com/chazu/smartdim/pkg/prefs"
	"github.com/chazu/smartdim/pkg/sketch"
)

// Applier turns request batches into document changes.
type Applier struct {
	Doc   sketch.Document
	Prefs prefs.Preferences
	// Rand jitters radius and diameter labels. Nil uses the global source.
	Rand   *rand.Rand
	Logger *slog.Logger
}

// Apply executes reqs in order, recording every change in log. Each
// request may add its auxiliary geometry, relocate a point, and then adds
// its constraint; GeoNew operands resolve to the last auxiliary geometry.
// The document is solved and redrawn once at the end.
//
// On failure the whole log, including steps recorded before this call, is
// rolled back and a CONSTRUCTION_FAILURE error is returned.
func (a *Applier) Apply(reqs []infer.Request, log *Log) error {
	if err := a.apply(reqs, log); err != nil {
		if rbErr := log.Rollback(a.Doc); rbErr != nil {
			a.logger().Error("rollback after failed apply", "error", rbErr)
		}
		a.Doc.Redraw()
		return err
	}
	if err := a.Doc.Solve(); err != nil {
		a.logger().Warn("solve failed", "error", err)
	}
	a.Doc.Redraw()
	return nil
}

func (a *Applier) apply(reqs []infer.Request, log *Log) error {
	newID := sketch.GeoUndef
	for _, r := range reqs {
		if r.Aux != nil {
			id, err := a.Doc.AddGeometry(r.Aux)
			if err != nil {
				return constructionFailure(r, "add auxiliary geometry", err)
			}
			log.addGeometry(id)
			newID = id
		}
		if r.Relocate != nil {
			from, err := a.Doc.Point(r.Relocate.Point)
			if err != nil {
				return constructionFailure(r, "read point", err)
			}
			if err := a.Doc.MovePoint(r.Relocate.Point, r.Relocate.To); err != nil {
				return constructionFailure(r, "relocate point", err)
			}
			log.movePoint(r.Relocate.Point, from)
		}

		ops, err := resolve(r.Operands, newID)
		if err != nil {
			return constructionFailure(r, "resolve operands", err)
		}
		c := sketch.Constraint{Type: r.Type, Operands: ops, Value: r.Value, Driving: true}
		if r.Type == sketch.Radius || r.Type == sketch.Diameter {
			c.Label = a.label(ops[0])
		}
		idx, err := a.Doc.AddConstraint(c)
		if err != nil {
			return constructionFailure(r, "add constraint", err)
		}
		log.addConstraint(idx)

		if !infer.Driving(a.Doc, a.Prefs.Mode == prefs.Reference, r) {
			if err := a.Doc.SetDriving(idx, false); err != nil {
				return constructionFailure(r, "set reference", err)
			}
		}
		a.logger().Debug("constraint created", "index", idx, "constraint", c.String())
	}
	return nil
}

// label places a radius or diameter label on the circle's rim.
func (a *Applier) label(ref sketch.Ref) v2.Vec {
	g, err := a.Doc.Geometry(ref.GeoID)
	if err != nil {
		return v2.Vec{}
	}
	center, r, ok := sketch.CircleOf(g)
	if !ok {
		return v2.Vec{}
	}
	return geom.LabelPosition(center, r, a.Prefs.LabelBaseAngle, a.Prefs.LabelRandomness, a.Rand)
}

func (a *Applier) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

func resolve(ops []sketch.Ref, newID sketch.GeoID) ([]sketch.Ref, error) {
	out := make([]sketch.Ref, len(ops))
	for i, op := range ops {
		if op.GeoID == sketch.GeoNew {
			if newID == sketch.GeoUndef {
				return nil, fmt.Errorf("operand %d refers to new geometry but none was added", i)
			}
			op.GeoID = newID
		}
		out[i] = op
	}
	return out, nil
}

func constructionFailure(r infer.Request, what string, err error) error {
	return &infer.Error{
		Code:     infer.CodeConstructionFailure,
		Message:  fmt.Sprintf("%s for %s", what, r.Type),
		Operands: r.Operands,
		Err:      err,
	}
}
