package infer

import (
	"fmt"
	"strings"

	"github.com/chazu/smartdim/pkg/prefs"
	"github.com/chazu/smartdim/pkg/selection"
)

// ---------------------------------------------------------------------------
// Shapes
// ---------------------------------------------------------------------------

// Arity is an exact pick count, or a lower bound when AtLeast is set.
type Arity struct {
	N       int
	AtLeast bool
}

func exactly(n int) Arity { return Arity{N: n} }
func atLeast(n int) Arity { return Arity{N: n, AtLeast: true} }

// Match reports whether n satisfies the arity.
func (a Arity) Match(n int) bool {
	if a.AtLeast {
		return n >= a.N
	}
	return n == a.N
}

func (a Arity) String() string {
	if a.AtLeast {
		return fmt.Sprintf(">=%d", a.N)
	}
	return fmt.Sprintf("%d", a.N)
}

// ShapeSpec is the per-bucket arity a rule applies to. The zero value of a
// field means exactly zero picks of that kind.
type ShapeSpec struct {
	Points, Lines, Circles, Conics, Splines Arity
}

// Match reports whether the selection shape fits.
func (s ShapeSpec) Match(sh selection.Shape) bool {
	return s.Points.Match(sh.Points) &&
		s.Lines.Match(sh.Lines) &&
		s.Circles.Match(sh.Circles) &&
		s.Conics.Match(sh.Conics) &&
		s.Splines.Match(sh.Splines)
}

func (s ShapeSpec) String() string {
	var parts []string
	add := func(a Arity, name string) {
		if a == (Arity{}) {
			return
		}
		if a.AtLeast || a.N != 1 {
			name += "s"
		}
		parts = append(parts, a.String()+" "+name)
	}
	add(s.Points, "point")
	add(s.Lines, "line")
	add(s.Circles, "circle")
	add(s.Conics, "conic")
	add(s.Splines, "spline")
	return strings.Join(parts, " + ")
}

// ---------------------------------------------------------------------------
// Rules
// ---------------------------------------------------------------------------

// Guard is a named predicate over a selection.
type Guard struct {
	Name string
	Test func(*Context) bool
}

func (g Guard) holds(ctx *Context) bool {
	return g.Test != nil && g.Test(ctx)
}

// Offer is one interpretation of a selection.
type Offer struct {
	Label string
	// Skip passes over the offer when it holds.
	Skip Guard
	// CursorSensitive offers are rebuilt when the cursor moves.
	CursorSensitive bool
	Build           func(*Context) ([]Request, error)
}

// Rule maps a selection shape to its ordered interpretations. A rule with
// no offers accepts the selection but creates nothing until more picks
// arrive.
type Rule struct {
	Shape  ShapeSpec
	Guard  Guard
	Offers []Offer
}

// Name identifies the rule in logs and dumps.
func (r *Rule) Name() string {
	if r.Guard.Name != "" {
		return r.Shape.String() + " [" + r.Guard.Name + "]"
	}
	return r.Shape.String()
}

func (r *Rule) next(ctx *Context, i int) Position {
	for j := i + 1; j < len(r.Offers); j++ {
		if !r.Offers[j].Skip.holds(ctx) {
			return Position(j)
		}
	}
	return Reset
}

// ---------------------------------------------------------------------------
// Table
// ---------------------------------------------------------------------------

// Decision is the outcome of consulting the table at one position.
type Decision struct {
	Rule            string
	Label           string
	Position        Position
	Next            Position
	Requests        []Request
	Accepted        bool
	CursorSensitive bool
}

// Table holds the rules in priority order: point-dominant shapes first,
// then lines, circles and conics.
type Table struct {
	rules []Rule
}

// New builds the table. The radius and diameter preferences decide the
// order of single circle dimensions.
func New(p prefs.Preferences) *Table {
	return &Table{rules: rules(p)}
}

// Rules returns the rules in priority order.
func (t *Table) Rules() []Rule {
	return t.rules
}

// Lookup returns the first rule whose shape and guard fit the selection.
func (t *Table) Lookup(ctx *Context) (*Rule, error) {
	sh := ctx.Shape()
	for i := range t.rules {
		r := &t.rules[i]
		if !r.Shape.Match(sh) {
			continue
		}
		if r.Guard.Test != nil && !r.Guard.Test(ctx) {
			continue
		}
		return r, nil
	}
	return nil, NewError(CodeUnsupportedShape, ctx.Picks, "no interpretation for %s", sh)
}

// Decide builds the interpretation at pos, passing over skipped and
// geometrically invalid offers and wrapping to the start of the list.
// Reset is treated as First. Accepted is false when nothing applies. A
// fixed-geometry conflict is returned as an error together with the
// decision that caused it, so the caller can try Next.
func (t *Table) Decide(ctx *Context, pos Position) (Decision, error) {
	rule, err := t.Lookup(ctx)
	if err != nil {
		return Decision{Position: pos, Next: Reset}, err
	}
	d := Decision{Rule: rule.Name(), Position: pos, Next: Reset}
	n := len(rule.Offers)
	start := int(pos)
	if pos == Reset || start >= n {
		start = 0
	}
	for k := 0; k < n; k++ {
		i := (start + k) % n
		o := rule.Offers[i]
		if o.Skip.holds(ctx) {
			continue
		}
		reqs, err := o.Build(ctx)
		if IsGeometricallyInvalid(err) {
			continue
		}
		d.Label = o.Label
		d.Position = Position(i)
		d.Next = rule.next(ctx, i)
		d.CursorSensitive = o.CursorSensitive
		if err != nil {
			return d, err
		}
		if err := CheckBatch(ctx.Doc, reqs); err != nil {
			return d, err
		}
		d.Requests = reqs
		d.Accepted = true
		return d, nil
	}
	return d, nil
}

// Describe dumps the table, one rule per block.
func (t *Table) Describe() string {
	var b strings.Builder
	for i := range t.rules {
		r := &t.rules[i]
		fmt.Fprintf(&b, "%2d. %s\n", i+1, r.Name())
		if len(r.Offers) == 0 {
			b.WriteString("    (awaiting more picks)\n")
		}
		for j, o := range r.Offers {
			fmt.Fprintf(&b, "    %s: %s", Position(j), o.Label)
			if o.Skip.Name != "" {
				fmt.Fprintf(&b, " (skip if %s)", o.Skip.Name)
			}
			if o.CursorSensitive {
				b.WriteString(" [cursor]")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
