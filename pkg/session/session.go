// Package session drives one interactive dimensioning operation: picks
// accumulate into a selection, the decision table previews an
// interpretation in the document, repeated triggers cycle through the
// alternatives, and a commit keeps the current one.
//
// A Session is not safe for concurrent use. Independent documents use
// independent sessions.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/google/uuid"

	"github.com/chazu/smartdim/pkg/infer"
	"github.com/chazu/smartdim/pkg/prefs"
	"github.com/chazu/smartdim/pkg/sketch"
)

var (
	// ErrSessionClosed is returned by every operation after the session
	// closed.
	ErrSessionClosed = errors.New("session closed")
	// ErrNothingToCycle is returned by Cycle when no interpretation is
	// previewed.
	ErrNothingToCycle = errors.New("nothing to cycle")
)

// State is the interaction state.
type State int

const (
	Idle State = iota
	Selecting
	Previewing
	Committed
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selecting:
		return "selecting"
	case Previewing:
		return "previewing"
	case Committed:
		return "committed"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// ValueEditor lets the user adjust the value of a freshly committed datum
// constraint. Returning ok=false cancels the whole operation.
type ValueEditor interface {
	EditDatum(c sketch.Constraint) (value float64, ok bool)
}

// ValueEditorFunc adapts a function to ValueEditor.
type ValueEditorFunc func(c sketch.Constraint) (float64, bool)

// EditDatum calls f.
func (f ValueEditorFunc) EditDatum(c sketch.Constraint) (float64, bool) { return f(c) }

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithValueEditor sets the editor used on commit when the datum dialog
// preference is on.
func WithValueEditor(e ValueEditor) Option {
	return func(s *Session) { s.editor = e }
}

// WithRand sets the random source for label placement.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.applier.Rand = r }
}

// Session is the state of one interaction against a document.
type Session struct {
	ID string

	doc     sketch.Document
	prefs   prefs.Preferences
	table   *infer.Table
	applier Applier
	editor  ValueEditor
	log     *slog.Logger

	state    State
	picks    []sketch.Ref
	decision infer.Decision
	pending  Log
	cursor   *v2.Vec
}

// New starts a session on doc.
func New(doc sketch.Document, p prefs.Preferences, opts ...Option) *Session {
	s := &Session{
		ID:    uuid.Must(uuid.NewV7()).String(),
		doc:   doc,
		prefs: p,
		table: infer.New(p),
		log:   slog.Default(),
	}
	s.applier = Applier{Doc: doc, Prefs: p}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("session", s.ID)
	s.applier.Logger = s.log
	return s
}

// State returns the interaction state.
func (s *Session) State() State { return s.state }

// Picks returns the current selection in pick order.
func (s *Session) Picks() []sketch.Ref { return slices.Clone(s.picks) }

// Decision returns the interpretation currently previewed, or the last one
// consulted when nothing was created.
func (s *Session) Decision() infer.Decision { return s.decision }

// Pending returns the indices of the constraints created by the previewed
// interpretation.
func (s *Session) Pending() []int { return s.pending.Constraints() }

// Table returns the decision table the session consults.
func (s *Session) Table() *infer.Table { return s.table }

// Pick adds ref to the selection and previews the first interpretation of
// the new selection. A selection no rule accepts drops ref and keeps the
// previous preview. Incompatible types abort the interaction. When every
// interpretation is refused by the fixed-geometry policy the interaction
// ends with nothing created and the first refusal is returned.
func (s *Session) Pick(ref sketch.Ref) error {
	if err := s.begin(); err != nil {
		return err
	}
	if s.state == Committed {
		s.state = Idle
	}

	prev := s.picks
	picks := append(slices.Clone(prev), ref)
	ctx, err := infer.NewContext(s.doc, picks)
	if err != nil {
		return fmt.Errorf("pick %s: %w", ref, err)
	}
	if _, err := s.table.Lookup(ctx); err != nil {
		s.log.Warn("pick dropped", "pick", ref.String(), "shape", ctx.Shape().String())
		return err
	}

	if err := s.rollback(); err != nil {
		return err
	}
	s.picks = picks
	s.state = Selecting
	err = s.preview(infer.First)
	if infer.IsIncompatibleTypes(err) {
		s.log.Warn("interaction aborted", "pick", ref.String(), "error", err)
		s.reset()
		return err
	}
	if err != nil && !infer.IsFixedGeometryConflict(err) && !infer.IsConstructionFailure(err) && len(prev) > 0 {
		// Restore the previous selection and its preview.
		s.log.Warn("pick dropped", "pick", ref.String(), "error", err)
		s.picks = prev
		if rerr := s.preview(s.decision.Position); rerr != nil {
			s.log.Warn("restoring previous preview failed", "error", rerr)
		}
	}
	return err
}

// Cycle replaces the previewed interpretation with the next one, wrapping
// around after the last.
func (s *Session) Cycle() error {
	if err := s.begin(); err != nil {
		return err
	}
	if s.state != Previewing {
		return ErrNothingToCycle
	}
	next := s.decision.Next
	if next == infer.Reset {
		next = infer.First
	}
	if err := s.rollback(); err != nil {
		return err
	}
	return s.preview(next)
}

// MoveCursor records the cursor position. A previewed cursor-sensitive
// interpretation is rebuilt when the cursor changes the constraint type it
// would create.
func (s *Session) MoveCursor(p v2.Vec) error {
	if err := s.begin(); err != nil {
		return err
	}
	s.cursor = &p
	if s.state != Previewing || !s.decision.CursorSensitive {
		return nil
	}
	ctx, err := s.context()
	if err != nil {
		return err
	}
	d, err := s.table.Decide(ctx, s.decision.Position)
	if err != nil || sameTypes(d.Requests, s.decision.Requests) {
		return nil
	}
	if err := s.rollback(); err != nil {
		return err
	}
	return s.preview(s.decision.Position)
}

// Commit keeps the previewed interpretation. With the datum dialog
// preference on, the first datum constraint is handed to the value editor;
// cancelling there rolls the operation back. Without continuous mode the
// session closes afterwards.
func (s *Session) Commit() error {
	if err := s.begin(); err != nil {
		return err
	}
	if s.state == Previewing && s.prefs.ShowDatumDialog && s.editor != nil {
		kept, err := s.editDatum()
		if err != nil || !kept {
			return err
		}
	}
	if !s.pending.Empty() {
		s.log.Info("committed", "rule", s.decision.Rule, "label", s.decision.Label, "created", s.pending.Constraints())
	}
	s.pending.Clear()
	s.picks = nil
	s.decision = infer.Decision{}
	s.state = Committed
	if !s.prefs.ContinuousMode {
		s.state = Closed
	}
	return nil
}

// Cancel rolls back the preview and clears the selection.
func (s *Session) Cancel() error {
	if s.state == Closed {
		return nil
	}
	if !s.pending.IsTail(s.doc) {
		s.invalidate()
		return nil
	}
	err := s.rollback()
	s.reset()
	return err
}

// Close cancels any preview and ends the session.
func (s *Session) Close() error {
	err := s.Cancel()
	s.state = Closed
	return err
}

// begin guards every operation: a closed session refuses, and a document
// changed behind the session's back drops the interaction without undoing
// anything.
func (s *Session) begin() error {
	if s.state == Closed {
		return ErrSessionClosed
	}
	if !s.pending.IsTail(s.doc) {
		s.invalidate()
		return infer.NewError(infer.CodeExternalInvalidation, nil, "document changed outside the session")
	}
	return nil
}

func (s *Session) invalidate() {
	s.log.Warn("external change detected, interaction reset", "pending", s.pending.Constraints())
	s.pending.Clear()
	s.reset()
}

func (s *Session) reset() {
	s.picks = nil
	s.decision = infer.Decision{}
	s.state = Idle
}

func (s *Session) context() (*infer.Context, error) {
	ctx, err := infer.NewContext(s.doc, s.picks)
	if err != nil {
		return nil, err
	}
	ctx.Cursor = s.cursor
	return ctx, nil
}

func (s *Session) rollback() error {
	if s.pending.Empty() {
		return nil
	}
	if err := s.pending.Rollback(s.doc); err != nil {
		return err
	}
	s.doc.Redraw()
	return nil
}

// preview decides at start and applies the result, passing over
// interpretations refused by the fixed-geometry policy.
func (s *Session) preview(start infer.Position) error {
	ctx, err := s.context()
	if err != nil {
		return err
	}
	var refused error
	pos := start
	for range int(infer.Reset) + 1 {
		d, err := s.table.Decide(ctx, pos)
		if infer.IsFixedGeometryConflict(err) {
			s.log.Warn("interpretation refused", "rule", d.Rule, "label", d.Label, "error", err)
			if refused == nil {
				refused = err
			}
			pos = d.Next
			continue
		}
		if err != nil {
			return err
		}
		s.decision = d
		if !d.Accepted {
			s.state = Selecting
			return nil
		}
		if err := s.applier.Apply(d.Requests, &s.pending); err != nil {
			s.reset()
			return err
		}
		s.state = Previewing
		s.log.Debug("preview", "rule", d.Rule, "label", d.Label, "position", d.Position.String(), "created", s.pending.Constraints())
		return nil
	}
	s.reset()
	return refused
}

// editDatum reports whether the operation survived the edit.
func (s *Session) editDatum() (bool, error) {
	for _, idx := range s.pending.Constraints() {
		c := s.doc.Constraints()[idx]
		if !c.Type.IsDatum() {
			continue
		}
		v, ok := s.editor.EditDatum(c)
		if !ok {
			s.log.Info("datum edit cancelled", "index", idx)
			err := s.rollback()
			s.reset()
			return false, err
		}
		if err := s.doc.SetDatum(idx, v); err != nil {
			return false, fmt.Errorf("commit: %w", err)
		}
		if err := s.doc.Solve(); err != nil {
			s.log.Warn("solve failed", "error", err)
		}
		s.doc.Redraw()
		return true, nil
	}
	return true, nil
}

func sameTypes(a, b []infer.Request) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type != b[i].Type {
			return false
		}
	}
	return true
}
