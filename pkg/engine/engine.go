// Package engine provides the Lisp evaluation engine for smartdim scripts.
// It wraps zygomys in a sandboxed environment; a script builds a sketch
// and drives a dimensioning session and the single-purpose commands
// against it.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/smartdim/pkg/prefs"
	"github.com/chazu/smartdim/pkg/sketch"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning is an interaction the script asked for that the sketch
// refused, such as a constraint between fixed geometry. Evaluation goes on.
type EvalWarning struct {
	Line    int
	Col     int
	Message string
}

// Result is the output of a successful evaluation.
type Result struct {
	Sketch *sketch.Sketch
	// Steps is a transcript of the interactions, one line each.
	Steps    []string
	Warnings []EvalWarning
}

// Option configures an Engine.
type Option func(*Engine)

// WithPreferences sets the preferences scripts run with.
func WithPreferences(p prefs.Preferences) Option {
	return func(e *Engine) { e.prefs = p }
}

// WithLogger sets the logger handed to sessions and commands.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// Engine wraps the zygomys interpreter.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment and a fresh sketch for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	prefs      prefs.Preferences
	log        *slog.Logger
	timeout    time.Duration
}

// NewEngine creates a new Engine instance with default preferences.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{prefs: prefs.Default(), log: slog.Default(), timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs a script under the engine timeout and returns the sketch
// it built.
func (e *Engine) Evaluate(source string) (*Result, []EvalError, error) {
	return e.EvaluateContext(context.Background(), source)
}

// EvaluateContext runs a script until it finishes or ctx ends.
//
// Return semantics:
//   - On success: returns result + nil errors + nil error
//   - On parse/eval failure: returns nil result + eval errors + nil error
//   - On fatal failure (timeout, cancellation, panic): returns nil + nil + error
func (e *Engine) EvaluateContext(ctx context.Context, source string) (*Result, []EvalError, error) {
	ctx, cancel := e.withDeadline(ctx)
	defer cancel()

	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, evalErrs, err := e.evaluate(source)
		ch <- evalResult{result: res, errors: evalErrs, err: err}
	}()

	return e.wait(ctx, ch, gen)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Result, []EvalError, error) {
	doc := sketch.New()

	// Empty source is a valid program that produces an empty sketch.
	if strings.TrimSpace(source) == "" {
		return &Result{Sketch: doc}, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	st := newScriptState(doc, e.prefs, e.log)
	registerBuiltins(env, st)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	if pending := st.session.Pending(); len(pending) > 0 {
		st.warn(fmt.Sprintf("script ended with an uncommitted preview (%d constraints)", len(pending)))
	}
	return &Result{Sketch: doc, Steps: st.steps, Warnings: st.warnings}, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
