// Package command implements the single-purpose constraint tools. Each
// tool creates exactly one kind of constraint from a fixed, ordered pick
// sequence; a Runner validates the picks step by step and applies the
// constraint once a sequence completes.
package command

import (
	"fmt"
	"slices"
	"strings"

	"github.com/chazu/smartdim/pkg/infer"
	"github.com/chazu/smartdim/pkg/selection"
	"github.com/chazu/smartdim/pkg/sketch"
)

// BuildFunc turns the picks of a completed sequence into requests. seq is
// the index of the sequence that completed.
type BuildFunc func(doc sketch.Document, picks []sketch.Ref, seq int) ([]infer.Request, error)

// Command describes one single-purpose tool.
type Command struct {
	Name string
	Type sketch.ConstraintType
	// Sequences must be prefix-free.
	Sequences []selection.Sequence
	// Hints are shown before each pick, indexed by step.
	Hints []string
	// Glyph names the icon drawn next to the crosshair.
	Glyph string
	Build BuildFunc
}

// Hint returns the prompt for step, followed by the classes allowed.
func (c *Command) Hint(step int, allowed selection.Class) string {
	hint := "select geometry"
	if step >= 0 && step < len(c.Hints) {
		hint = c.Hints[step]
	}
	return fmt.Sprintf("%s: %s (%s)", c.Name, hint, describe(allowed))
}

// Cursor returns the cursor id: a crosshair with the tool's glyph.
func (c *Command) Cursor() string {
	return "crosshair+" + c.Glyph
}

var phrases = []struct {
	c    selection.Class
	text string
}{
	{selection.Vertex, "a point"},
	{selection.Root, "the origin"},
	{selection.Edge, "an edge"},
	{selection.HAxis, "the horizontal axis"},
	{selection.VAxis, "the vertical axis"},
	{selection.ExternalEdge, "an external edge"},
}

func describe(allowed selection.Class) string {
	var parts []string
	for _, p := range phrases {
		if allowed&p.c != 0 {
			parts = append(parts, p.text)
		}
	}
	switch len(parts) {
	case 0:
		return "nothing"
	case 1:
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1]
}

// All returns every command sorted by name.
func All() []*Command {
	out := slices.Clone(builtins)
	slices.SortFunc(out, func(a, b *Command) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Lookup finds a command by name.
func Lookup(name string) (*Command, bool) {
	for _, c := range builtins {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
