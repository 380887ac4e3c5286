package main

import (
	"context"
	"log/slog"

	"github.com/chazu/smartdim/pkg/engine"
	"github.com/chazu/smartdim/pkg/sketch"
)

// App is the backend behind the CLI. It evaluates scripts and flattens the
// resulting sketch into a JSON-serializable form.
type App struct {
	engine *engine.Engine
	log    *slog.Logger
}

// ConstraintData is one constraint of the evaluated sketch.
type ConstraintData struct {
	Index    int         `json:"index"`
	Type     string      `json:"type"`
	Operands []string    `json:"operands"`
	Value    *float64    `json:"value,omitempty"`
	Driving  bool        `json:"driving"`
	Label    *[2]float64 `json:"label,omitempty"`
	Text     string      `json:"text"`
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of one evaluation.
type EvalResult struct {
	Geometry    int              `json:"geometry"`
	Constraints []ConstraintData `json:"constraints"`
	Steps       []string         `json:"steps"`
	Errors      []EvalErrorData  `json:"errors"`
	Warnings    []EvalErrorData  `json:"warnings"`
}

// NewApp creates a new App. A nil logger uses slog.Default().
func NewApp(logger *slog.Logger, opts ...engine.Option) *App {
	if logger == nil {
		logger = slog.Default()
	}
	opts = append([]engine.Option{engine.WithLogger(logger)}, opts...)
	return &App{
		engine: engine.NewEngine(opts...),
		log:    logger,
	}
}

// Evaluate takes Lisp source and returns the constraints it produced.
func (a *App) Evaluate(source string) EvalResult {
	return a.EvaluateContext(context.Background(), source)
}

// EvaluateContext is Evaluate bounded by ctx as well as the engine timeout.
func (a *App) EvaluateContext(ctx context.Context, source string) EvalResult {
	result := EvalResult{
		Constraints: []ConstraintData{},
		Steps:       []string{},
		Errors:      []EvalErrorData{},
		Warnings:    []EvalErrorData{},
	}

	res, evalErrs, err := a.engine.EvaluateContext(ctx, source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Error("evaluate failed", "error", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{
			Line:    w.Line,
			Col:     w.Col,
			Message: w.Message,
		})
	}
	result.Steps = append(result.Steps, res.Steps...)
	result.Geometry = res.Sketch.GeometryCount()
	for i, c := range res.Sketch.Constraints() {
		result.Constraints = append(result.Constraints, constraintData(i, c))
	}
	return result
}

func constraintData(i int, c sketch.Constraint) ConstraintData {
	d := ConstraintData{
		Index:    i,
		Type:     c.Type.String(),
		Operands: make([]string, len(c.Operands)),
		Driving:  c.Driving,
		Text:     c.String(),
	}
	for j, op := range c.Operands {
		d.Operands[j] = op.String()
	}
	if c.Type.IsDatum() {
		v := c.Value
		d.Value = &v
	}
	if c.Type == sketch.Radius || c.Type == sketch.Diameter {
		d.Label = &[2]float64{c.Label.X, c.Label.Y}
	}
	return d
}
