package selection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/smartdim/pkg/sketch"
)

// ErrNotPrefixFree is returned when one registered sequence could complete
// while a longer one is still being matched.
var ErrNotPrefixFree = errors.New("sequences are not prefix-free")

// Class is a bitmask of pick categories used by command pick sequences.
type Class uint8

const (
	Vertex Class = 1 << iota
	Root
	Edge
	HAxis
	VAxis
	ExternalEdge

	VertexOrRoot = Vertex | Root
	EdgeOrAxis   = Edge | HAxis | VAxis | ExternalEdge
	None         = Class(0)
)

var classNames = []struct {
	c    Class
	name string
}{
	{Vertex, "vertex"},
	{Root, "root"},
	{Edge, "edge"},
	{HAxis, "h-axis"},
	{VAxis, "v-axis"},
	{ExternalEdge, "external-edge"},
}

func (c Class) String() string {
	if c == None {
		return "none"
	}
	var parts []string
	for _, n := range classNames {
		if c&n.c != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ClassOf returns the single class of one pick.
func ClassOf(src Source, ref sketch.Ref) (Class, error) {
	if ref.IsRoot() {
		return Root, nil
	}
	g, err := src.Geometry(ref.GeoID)
	if err != nil {
		return None, fmt.Errorf("class of %s: %w", ref, err)
	}
	switch {
	case ref.IsPoint() || g.Kind() == sketch.KindPoint:
		return Vertex, nil
	case ref.GeoID == sketch.HAxis:
		return HAxis, nil
	case ref.GeoID == sketch.VAxis:
		return VAxis, nil
	case ref.GeoID.IsExternal():
		return ExternalEdge, nil
	}
	return Edge, nil
}

// Sequence is one legal pick order; each step lists the classes it accepts.
type Sequence []Class

func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// shadows reports whether some pick stream completes a while still being a
// valid prefix of b.
func (s Sequence) shadows(b Sequence) bool {
	if len(s) >= len(b) {
		return false
	}
	for i := range s {
		if s[i]&b[i] == 0 {
			return false
		}
	}
	return true
}

// Outcome is the result category of one Advance.
type Outcome int

const (
	Continue Outcome = iota
	Reject
	Complete
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Reject:
		return "reject"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Pick is one classified pick.
type Pick struct {
	Ref   sketch.Ref
	Class Class
}

// Result reports what a pick did. Sequence and Picks are set on Complete.
type Result struct {
	Outcome  Outcome
	Sequence int
	Picks    []Pick
}

// Matcher tracks which registered sequences are still viable for the picks
// seen so far. Completion fires once, for the first viable sequence in
// registration order, and the matcher starts over.
type Matcher struct {
	seqs   []Sequence
	viable []bool
	step   int
	picks  []Pick
}

// NewMatcher registers seqs. The set must be non-empty, contain no empty
// sequence, and be prefix-free.
func NewMatcher(seqs ...Sequence) (*Matcher, error) {
	if len(seqs) == 0 {
		return nil, errors.New("new matcher: no sequences")
	}
	for i, s := range seqs {
		if len(s) == 0 {
			return nil, fmt.Errorf("new matcher: sequence %d is empty", i)
		}
		for j, o := range seqs {
			if i != j && s.shadows(o) {
				return nil, fmt.Errorf("new matcher: %s shadows %s: %w", s, o, ErrNotPrefixFree)
			}
		}
	}
	m := &Matcher{seqs: seqs, viable: make([]bool, len(seqs))}
	m.Reset()
	return m, nil
}

// Reset returns to the initial allowed set.
func (m *Matcher) Reset() {
	for i := range m.viable {
		m.viable[i] = true
	}
	m.step = 0
	m.picks = nil
}

// Step returns the number of picks accepted since the last reset.
func (m *Matcher) Step() int {
	return m.step
}

// Sequences returns the registered sequences.
func (m *Matcher) Sequences() []Sequence {
	return m.seqs
}

// Allowed is the union of classes the viable sequences accept next.
func (m *Matcher) Allowed() Class {
	var c Class
	for i, s := range m.seqs {
		if m.viable[i] && m.step < len(s) {
			c |= s[m.step]
		}
	}
	return c
}

// Advance feeds one pick. A pick outside Allowed, including a pick on empty
// space (class None), rejects and resets.
func (m *Matcher) Advance(p Pick) Result {
	if p.Class&m.Allowed() == 0 {
		m.Reset()
		return Result{Outcome: Reject, Sequence: -1}
	}
	for i, s := range m.seqs {
		if m.viable[i] && (m.step >= len(s) || s[m.step]&p.Class == 0) {
			m.viable[i] = false
		}
	}
	m.step++
	m.picks = append(m.picks, p)
	for i, s := range m.seqs {
		if m.viable[i] && len(s) == m.step {
			r := Result{Outcome: Complete, Sequence: i, Picks: m.picks}
			m.Reset()
			return r
		}
	}
	return Result{Outcome: Continue, Sequence: -1}
}
