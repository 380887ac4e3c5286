package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEvaluateScriptsWithoutGeometry(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t  \n  "},
		{"arithmetic", "(+ 1 2)"},
		{"definitions", "(def x 10)\n(def y 20)\n(+ x y)"},
		{"comment", "; nothing to see"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, evalErrs, err := NewEngine().Evaluate(tt.source)
			if err != nil {
				t.Fatalf("unexpected fatal error: %v", err)
			}
			if len(evalErrs) > 0 {
				t.Fatalf("unexpected eval errors: %v", evalErrs)
			}
			if res == nil || res.Sketch == nil {
				t.Fatal("expected a result with a sketch")
			}
			if n := res.Sketch.GeometryCount(); n != 0 {
				t.Errorf("expected empty sketch, got %d geometries", n)
			}
			if len(res.Warnings) != 0 {
				t.Errorf("unexpected warnings: %v", res.Warnings)
			}
		})
	}
}

func TestEvaluateBrokenScripts(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"unmatched paren", "(+ 1 2"},
		{"unmatched on second line", "(+ 1 2)\n(+ 3"},
		{"undefined symbol", "(+ 1 undefined-symbol)"},
		{"missing required keyword", "(circle :radius 1)"},
		{"wrong argument type", `(line :from "a" :to (vec2 1 1))`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, evalErrs, err := NewEngine().Evaluate(tt.source)
			if err != nil {
				t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
			}
			if res != nil {
				t.Fatal("expected nil result on eval error")
			}
			if len(evalErrs) == 0 || evalErrs[0].Message == "" {
				t.Fatalf("expected a populated eval error, got %v", evalErrs)
			}
			// Line info depends on where zygomys noticed the problem.
			t.Logf("line=%d message=%q", evalErrs[0].Line, evalErrs[0].Message)
		})
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Col: 0, Message: "something went wrong"}
	s := e.Error()
	if !strings.Contains(s, "line 5") {
		t.Errorf("Error() should contain line info, got: %s", s)
	}
	if !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() should contain message, got: %s", s)
	}

	// No line info.
	e2 := EvalError{Line: 0, Col: 0, Message: "no location"}
	s2 := e2.Error()
	if strings.Contains(s2, "line") {
		t.Errorf("Error() with no line should not contain 'line', got: %s", s2)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := NewEngine()

	script := `
(def c (circle :center (vec2 0 0) :radius 2))
(pick c)
(commit)
`
	// Each evaluation starts from a fresh sketch.
	for i := 0; i < 5; i++ {
		res, evalErrs, err := eng.Evaluate(script)
		if err != nil {
			t.Fatalf("iteration %d: unexpected fatal error: %v", i, err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("iteration %d: unexpected eval errors: %v", i, evalErrs)
		}
		if res == nil {
			t.Fatalf("iteration %d: expected non-nil result", i)
		}
		if n := res.Sketch.GeometryCount(); n != 1 {
			t.Errorf("iteration %d: expected 1 geometry, got %d", i, n)
		}
		if n := res.Sketch.ConstraintCount(); n != 1 {
			t.Errorf("iteration %d: expected 1 constraint, got %d", i, n)
		}
	}
}

func TestWaitTimesOut(t *testing.T) {
	// A script that zygomys really loops on would pin a goroutine for the
	// rest of the run, so wait is driven with a channel that never sends.
	eng := NewEngine(WithTimeout(50 * time.Millisecond))
	ctx, cancel := eng.withDeadline(context.Background())
	defer cancel()

	_, _, err := eng.wait(ctx, make(chan evalResult), 0)
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !errors.Is(err, context.DeadlineExceeded) || !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error, got: %v", err)
	}
}

func TestWaitCancelled(t *testing.T) {
	eng := NewEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := eng.wait(ctx, make(chan evalResult), 0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation, got: %v", err)
	}
}

func TestCallerDeadlineWins(t *testing.T) {
	eng := NewEngine(WithTimeout(time.Hour))
	want := time.Now().Add(time.Minute)
	parent, cancel := context.WithDeadline(context.Background(), want)
	defer cancel()

	ctx, cancel2 := eng.withDeadline(parent)
	defer cancel2()
	got, ok := ctx.Deadline()
	if !ok || !got.Equal(want) {
		t.Errorf("deadline = %v, want %v", got, want)
	}
}

func TestEvaluateContextRunsScript(t *testing.T) {
	eng := NewEngine(WithTimeout(0))
	res, evalErrs, err := eng.EvaluateContext(context.Background(), `(circle :center (vec2 0 0) :radius 1)`)
	if err != nil || len(evalErrs) != 0 {
		t.Fatalf("unexpected failure: %v %v", err, evalErrs)
	}
	if res.Sketch.GeometryCount() != 1 {
		t.Errorf("expected 1 geometry, got %d", res.Sketch.GeometryCount())
	}
}

func TestWaitDiscardsStale(t *testing.T) {
	eng := NewEngine()
	eng.generation = 2

	ch := make(chan evalResult, 1)
	ch <- evalResult{}

	_, _, err := eng.wait(context.Background(), ch, 1)
	if !errors.Is(err, ErrSuperseded) {
		t.Errorf("expected superseded error, got: %v", err)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "error on line format",
			msg:      "Error on line 5: unexpected token\n",
			wantLine: 5,
			wantMsg:  "unexpected token",
		},
		{
			name:     "no line info",
			msg:      "some generic error",
			wantLine: 0,
			wantMsg:  "some generic error",
		},
		{
			name:     "line format lowercase",
			msg:      "error on line 12: missing paren",
			wantLine: 12,
			wantMsg:  "missing paren",
		},
		{
			name:     "short line format",
			msg:      "line 3: pick: unknown geometry \"base\"",
			wantLine: 3,
			wantMsg:  "unknown geometry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

// errString is a simple error type for testing.
type errString string

func (e errString) Error() string { return string(e) }
