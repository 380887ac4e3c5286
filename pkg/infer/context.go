package infer

import (
	"fmt"

	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/smartdim/pkg/selection"
	"github.com/chazu/smartdim/pkg/sketch"
)

// Context is everything a rule reads: the document, the picks in order,
// their buckets and, when known, the cursor position.
type Context struct {
	Doc     sketch.Document
	Picks   []sketch.Ref
	Buckets selection.Buckets
	Cursor  *v2.Vec
}

// NewContext classifies picks against doc. A whole free point is
// normalised to its Start point so it can be used as a point operand.
func NewContext(doc sketch.Document, picks []sketch.Ref) (*Context, error) {
	norm := make([]sketch.Ref, len(picks))
	for i, ref := range picks {
		norm[i] = ref
		if ref.IsPoint() {
			continue
		}
		g, err := doc.Geometry(ref.GeoID)
		if err != nil {
			return nil, fmt.Errorf("new context: %w", err)
		}
		if g.Kind() == sketch.KindPoint {
			norm[i] = sketch.Vertex(ref.GeoID, sketch.PosStart)
		}
	}
	b, err := selection.Classify(doc, norm)
	if err != nil {
		return nil, fmt.Errorf("new context: %w", err)
	}
	return &Context{Doc: doc, Picks: norm, Buckets: b}, nil
}

// Shape returns the bucket counts of the selection.
func (c *Context) Shape() selection.Shape {
	return c.Buckets.Shape()
}

func (c *Context) geometry(ref sketch.Ref) (sketch.Geometry, error) {
	return c.Doc.Geometry(ref.GeoID)
}

func (c *Context) point(ref sketch.Ref) (v2.Vec, error) {
	return c.Doc.Point(ref)
}

func (c *Context) line(ref sketch.Ref) (sketch.LineSegment, error) {
	g, err := c.geometry(ref)
	if err != nil {
		return sketch.LineSegment{}, err
	}
	l, ok := g.(sketch.LineSegment)
	if !ok {
		return sketch.LineSegment{}, fmt.Errorf("geometry %d is a %s, not a line", ref.GeoID, g.Kind())
	}
	return l, nil
}

func (c *Context) circle(ref sketch.Ref) (sketch.Geometry, v2.Vec, float64, error) {
	g, err := c.geometry(ref)
	if err != nil {
		return nil, v2.Vec{}, 0, err
	}
	center, r, ok := sketch.CircleOf(g)
	if !ok {
		return nil, v2.Vec{}, 0, fmt.Errorf("geometry %d is a %s, not a circle", ref.GeoID, g.Kind())
	}
	return g, center, r, nil
}
