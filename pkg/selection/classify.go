package selection

import (
	"fmt"
	"strings"

	"github.com/chazu/smartdim/pkg/sketch"
)

// Source resolves geometry ids. sketch.Document satisfies it.
type Source interface {
	Geometry(id sketch.GeoID) (sketch.Geometry, error)
}

// Bucket is the coarse category a pick is sorted into.
type Bucket int

const (
	BucketPoint Bucket = iota
	BucketLine
	BucketCircle // circles and arcs of circle
	BucketConic  // ellipses and arcs of conics
	BucketSpline
)

func (b Bucket) String() string {
	switch b {
	case BucketPoint:
		return "point"
	case BucketLine:
		return "line"
	case BucketCircle:
		return "circle"
	case BucketConic:
		return "conic"
	case BucketSpline:
		return "spline"
	default:
		return "unknown"
	}
}

// BucketOf returns the bucket for one pick. A pick with a point role is a
// point whatever it references; otherwise the referenced kind decides.
func BucketOf(src Source, ref sketch.Ref) (Bucket, error) {
	g, err := src.Geometry(ref.GeoID)
	if err != nil {
		return 0, fmt.Errorf("classify %s: %w", ref, err)
	}
	if ref.IsPoint() {
		return BucketPoint, nil
	}
	switch g.Kind() {
	case sketch.KindPoint:
		return BucketPoint, nil
	case sketch.KindLineSegment:
		return BucketLine, nil
	case sketch.KindCircle, sketch.KindArcOfCircle:
		return BucketCircle, nil
	case sketch.KindEllipse, sketch.KindArcOfEllipse, sketch.KindArcOfHyperbola, sketch.KindArcOfParabola:
		return BucketConic, nil
	case sketch.KindBSpline:
		return BucketSpline, nil
	}
	return 0, fmt.Errorf("classify %s: unsupported kind %s", ref, g.Kind())
}

// Buckets holds picks sorted by category, each in pick order.
type Buckets struct {
	Points  []sketch.Ref
	Lines   []sketch.Ref
	Circles []sketch.Ref
	Conics  []sketch.Ref
	Splines []sketch.Ref
}

// Classify sorts picks into buckets. It either classifies every pick or
// returns an error and empty buckets.
func Classify(src Source, picks []sketch.Ref) (Buckets, error) {
	var b Buckets
	for _, ref := range picks {
		bucket, err := BucketOf(src, ref)
		if err != nil {
			return Buckets{}, err
		}
		switch bucket {
		case BucketPoint:
			b.Points = append(b.Points, ref)
		case BucketLine:
			b.Lines = append(b.Lines, ref)
		case BucketCircle:
			b.Circles = append(b.Circles, ref)
		case BucketConic:
			b.Conics = append(b.Conics, ref)
		case BucketSpline:
			b.Splines = append(b.Splines, ref)
		}
	}
	return b, nil
}

// Len returns the total number of picks.
func (b Buckets) Len() int {
	return len(b.Points) + len(b.Lines) + len(b.Circles) + len(b.Conics) + len(b.Splines)
}

// Shape summarises bucket sizes.
func (b Buckets) Shape() Shape {
	return Shape{
		Points:  len(b.Points),
		Lines:   len(b.Lines),
		Circles: len(b.Circles),
		Conics:  len(b.Conics),
		Splines: len(b.Splines),
	}
}

// ---------------------------------------------------------------------------
// Shape predicates
// ---------------------------------------------------------------------------

// Shape counts picks per bucket.
type Shape struct {
	Points, Lines, Circles, Conics, Splines int
}

func (s Shape) String() string {
	var parts []string
	add := func(n int, name string) {
		switch {
		case n == 1:
			parts = append(parts, "1 "+name)
		case n > 1:
			parts = append(parts, fmt.Sprintf("%d %ss", n, name))
		}
	}
	add(s.Points, "point")
	add(s.Lines, "line")
	add(s.Circles, "circle")
	add(s.Conics, "conic")
	add(s.Splines, "spline")
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, " + ")
}

func (s Shape) is(p, l, c, e, sp int) bool {
	return s == Shape{Points: p, Lines: l, Circles: c, Conics: e, Splines: sp}
}

func (b Buckets) Has1Point() bool         { return b.Shape().is(1, 0, 0, 0, 0) }
func (b Buckets) Has2Points() bool        { return b.Shape().is(2, 0, 0, 0, 0) }
func (b Buckets) Has1Point1Line() bool    { return b.Shape().is(1, 1, 0, 0, 0) }
func (b Buckets) Has2Points1Line() bool   { return b.Shape().is(2, 1, 0, 0, 0) }
func (b Buckets) Has1Point1Circle() bool  { return b.Shape().is(1, 0, 1, 0, 0) }
func (b Buckets) Has1Point1Conic() bool   { return b.Shape().is(1, 0, 0, 1, 0) }
func (b Buckets) Has1Line() bool          { return b.Shape().is(0, 1, 0, 0, 0) }
func (b Buckets) Has2Lines() bool         { return b.Shape().is(0, 2, 0, 0, 0) }
func (b Buckets) Has1Line1Circle() bool   { return b.Shape().is(0, 1, 1, 0, 0) }
func (b Buckets) Has1Line1Conic() bool    { return b.Shape().is(0, 1, 0, 1, 0) }
func (b Buckets) Has1Circle() bool        { return b.Shape().is(0, 0, 1, 0, 0) }
func (b Buckets) Has2Circles() bool       { return b.Shape().is(0, 0, 2, 0, 0) }
func (b Buckets) Has1Circle1Conic() bool  { return b.Shape().is(0, 0, 1, 1, 0) }
func (b Buckets) Has1Conic() bool         { return b.Shape().is(0, 0, 0, 1, 0) }
func (b Buckets) Has2Conics() bool        { return b.Shape().is(0, 0, 0, 2, 0) }
func (b Buckets) Has1Spline() bool        { return b.Shape().is(0, 0, 0, 0, 1) }
func (b Buckets) Has3OrMorePoints() bool  { s := b.Shape(); return s.Points >= 3 && s.only(s.Points) }
func (b Buckets) Has3OrMoreLines() bool   { s := b.Shape(); return s.Lines >= 3 && s.only(s.Lines) }
func (b Buckets) Has3OrMoreCircles() bool { s := b.Shape(); return s.Circles >= 3 && s.only(s.Circles) }
func (b Buckets) Has3OrMoreConics() bool  { s := b.Shape(); return s.Conics >= 3 && s.only(s.Conics) }

// only reports whether n accounts for every pick in s.
func (s Shape) only(n int) bool {
	return s.Points+s.Lines+s.Circles+s.Conics+s.Splines == n
}
