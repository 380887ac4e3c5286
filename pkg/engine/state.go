package engine

import (
	"errors"
	"fmt"
	"log/slog"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/smartdim/pkg/command"
	"github.com/chazu/smartdim/pkg/infer"
	"github.com/chazu/smartdim/pkg/prefs"
	"github.com/chazu/smartdim/pkg/session"
	"github.com/chazu/smartdim/pkg/sketch"
)

// scriptState is everything one evaluation shares between builtins.
type scriptState struct {
	doc     *sketch.Sketch
	prefs   prefs.Preferences
	log     *slog.Logger
	session *session.Session
	runners map[string]*command.Runner

	// value is the datum a (commit :value v) hands to the value editor.
	value *float64

	steps    []string
	warnings []EvalWarning
}

func newScriptState(doc *sketch.Sketch, p prefs.Preferences, log *slog.Logger) *scriptState {
	st := &scriptState{doc: doc, prefs: p, log: log, runners: make(map[string]*command.Runner)}
	st.session = st.newSession()
	return st
}

func (st *scriptState) newSession() *session.Session {
	return session.New(st.doc, st.prefs,
		session.WithLogger(st.log),
		session.WithValueEditor(session.ValueEditorFunc(st.editDatum)),
	)
}

// editDatum keeps the computed value unless the script supplied one.
func (st *scriptState) editDatum(c sketch.Constraint) (float64, bool) {
	if st.value != nil {
		return *st.value, true
	}
	return c.Value, true
}

// current returns the live session, opening a new one after the previous
// one closed.
func (st *scriptState) current() *session.Session {
	if st.session.State() == session.Closed {
		st.session = st.newSession()
	}
	return st.session
}

func (st *scriptState) runner(name string) (*command.Runner, error) {
	if r, ok := st.runners[name]; ok {
		return r, nil
	}
	cmd, ok := command.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("command: unknown command %q", name)
	}
	r, err := command.NewRunner(st.doc, cmd, st.prefs, st.log)
	if err != nil {
		return nil, err
	}
	st.runners[name] = r
	return r, nil
}

func (st *scriptState) pick(ref sketch.Ref) (zygo.Sexp, error) {
	err := st.current().Pick(ref)
	if err := st.refused("pick "+ref.String(), err); err != nil {
		return zygo.SexpNull, err
	}
	return st.label("pick " + ref.String()), nil
}

// label records the previewed interpretation and returns its label.
func (st *scriptState) label(op string) zygo.Sexp {
	d := st.session.Decision()
	if len(st.session.Pending()) == 0 {
		st.step("%s -> %s", op, st.session.State())
		return &zygo.SexpStr{S: ""}
	}
	st.step("%s -> %s: %s", op, d.Rule, d.Label)
	return &zygo.SexpStr{S: d.Label}
}

// refused turns the refusals a script can carry on from into warnings and
// passes every other error through.
func (st *scriptState) refused(op string, err error) error {
	if err == nil {
		return nil
	}
	var ie *infer.Error
	if errors.As(err, &ie) || errors.Is(err, command.ErrPickRejected) || errors.Is(err, session.ErrNothingToCycle) {
		st.warn(fmt.Sprintf("%s: %v", op, err))
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (st *scriptState) warn(msg string) {
	st.log.Debug("script warning", "message", msg)
	st.warnings = append(st.warnings, EvalWarning{Message: msg})
}

func (st *scriptState) step(format string, args ...any) {
	st.steps = append(st.steps, fmt.Sprintf(format, args...))
}
