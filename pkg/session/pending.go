package session

import (
	"errors"
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/smartdim/pkg/sketch"
)

type stepKind int

const (
	stepConstraint stepKind = iota
	stepGeometry
	stepMove
)

type step struct {
	kind  stepKind
	index int         // constraint index
	id    sketch.GeoID // added geometry
	ref   sketch.Ref   // moved point
	from  v2.Vec
}

// Log records what an operation changed in the document since the last
// commit, in order, so it can be undone.
type Log struct {
	steps []step
}

func (l *Log) addConstraint(index int) {
	l.steps = append(l.steps, step{kind: stepConstraint, index: index})
}

func (l *Log) addGeometry(id sketch.GeoID) {
	l.steps = append(l.steps, step{kind: stepGeometry, id: id})
}

func (l *Log) movePoint(ref sketch.Ref, from v2.Vec) {
	l.steps = append(l.steps, step{kind: stepMove, ref: ref, from: from})
}

// Empty reports whether nothing is pending.
func (l *Log) Empty() bool {
	return len(l.steps) == 0
}

// Constraints returns the indices of the constraints created, in creation
// order.
func (l *Log) Constraints() []int {
	var out []int
	for _, s := range l.steps {
		if s.kind == stepConstraint {
			out = append(out, s.index)
		}
	}
	return out
}

// Geometry returns the ids of the geometry added.
func (l *Log) Geometry() []sketch.GeoID {
	var out []sketch.GeoID
	for _, s := range l.steps {
		if s.kind == stepGeometry {
			out = append(out, s.id)
		}
	}
	return out
}

// IsTail reports whether the logged constraints are still the last ones in
// doc. When they are not, the document was changed by someone else and the
// log can no longer be undone safely.
func (l *Log) IsTail(doc sketch.Document) bool {
	idx := l.Constraints()
	n := len(doc.Constraints())
	if len(idx) > n {
		return false
	}
	for i, c := range idx {
		if c != n-len(idx)+i {
			return false
		}
	}
	return true
}

// Clear forgets the log without touching the document.
func (l *Log) Clear() {
	l.steps = l.steps[:0]
}

// Rollback undoes every logged step in reverse order and clears the log.
// It keeps going after a failed step and reports all failures.
func (l *Log) Rollback(doc sketch.Document) error {
	var errs []error
	for i := len(l.steps) - 1; i >= 0; i-- {
		s := l.steps[i]
		var err error
		switch s.kind {
		case stepConstraint:
			err = doc.RemoveConstraint(s.index)
		case stepGeometry:
			err = doc.RemoveGeometry(s.id)
		case stepMove:
			err = doc.MovePoint(s.ref, s.from)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	l.Clear()
	if len(errs) > 0 {
		return fmt.Errorf("rollback: %w", errors.Join(errs...))
	}
	return nil
}
