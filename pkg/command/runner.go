package command

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/chazu/smartdim/pkg/infer"
	"github.com/chazu/smartdim/pkg/prefs"
	"github.com/chazu/smartdim/pkg/selection"
	"github.com/chazu/smartdim/pkg/session"
	"github.com/chazu/smartdim/pkg/sketch"
)

// ErrPickRejected is returned when a pick fits no remaining sequence. The
// runner starts over from the first step.
var ErrPickRejected = errors.New("pick rejected")

// Runner runs one command against a document.
type Runner struct {
	cmd     *Command
	doc     sketch.Document
	matcher *selection.Matcher
	applier session.Applier
	log     *slog.Logger
}

// NewRunner prepares cmd for doc. A nil logger uses slog.Default().
func NewRunner(doc sketch.Document, cmd *Command, p prefs.Preferences, logger *slog.Logger) (*Runner, error) {
	m, err := selection.NewMatcher(cmd.Sequences...)
	if err != nil {
		return nil, fmt.Errorf("command %s: %w", cmd.Name, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("command", cmd.Name)
	return &Runner{
		cmd:     cmd,
		doc:     doc,
		matcher: m,
		applier: session.Applier{Doc: doc, Prefs: p, Logger: logger},
		log:     logger,
	}, nil
}

// Command returns the command being run.
func (r *Runner) Command() *Command { return r.cmd }

// Step returns the index of the next pick.
func (r *Runner) Step() int { return r.matcher.Step() }

// Hint returns the prompt for the next pick.
func (r *Runner) Hint() string { return r.cmd.Hint(r.matcher.Step(), r.matcher.Allowed()) }

// Cursor returns the cursor id for the command.
func (r *Runner) Cursor() string { return r.cmd.Cursor() }

// Reset drops the picks made so far.
func (r *Runner) Reset() { r.matcher.Reset() }

// Pick feeds one pick to the command. When the pick completes a sequence
// the constraint is created and the indices of the new constraints are
// returned.
func (r *Runner) Pick(ref sketch.Ref) ([]int, error) {
	class, err := selection.ClassOf(r.doc, ref)
	if err != nil {
		return nil, err
	}
	if class == selection.Vertex && !ref.IsPoint() {
		ref = sketch.Vertex(ref.GeoID, sketch.PosStart)
	}
	res := r.matcher.Advance(selection.Pick{Ref: ref, Class: class})
	switch res.Outcome {
	case selection.Reject:
		r.log.Debug("pick rejected", "pick", ref.String(), "class", class.String())
		return nil, fmt.Errorf("%s: %s is a %s: %w", r.cmd.Name, ref, class, ErrPickRejected)
	case selection.Continue:
		return nil, nil
	}

	picks := make([]sketch.Ref, len(res.Picks))
	for i, p := range res.Picks {
		picks[i] = p.Ref
	}
	reqs, err := r.cmd.Build(r.doc, picks, res.Sequence)
	if err != nil {
		return nil, err
	}
	if err := infer.CheckBatch(r.doc, reqs); err != nil {
		return nil, err
	}
	var log session.Log
	if err := r.applier.Apply(reqs, &log); err != nil {
		return nil, err
	}
	created := log.Constraints()
	r.log.Debug("constraint created", "sequence", res.Sequence, "created", created)
	return created, nil
}
