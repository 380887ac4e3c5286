package command

import (
	"fmt"

	"github.com/chazu/smartdim/pkg/infer"
	"github.com/chazu/smartdim/pkg/selection"
	"github.com/chazu/smartdim/pkg/sketch"
)

var builtins = []*Command{
	{
		Name: "coincident",
		Type: sketch.Coincident,
		Sequences: []selection.Sequence{
			{selection.VertexOrRoot, selection.VertexOrRoot},
		},
		Hints: []string{"pick the first point", "pick the second point"},
		Glyph: "constraint-coincident",
		Build: pair(sketch.Coincident),
	},
	{
		Name: "point-on-object",
		Type: sketch.PointOnObject,
		Sequences: []selection.Sequence{
			{selection.VertexOrRoot, selection.EdgeOrAxis},
			{selection.EdgeOrAxis, selection.VertexOrRoot},
		},
		Hints: []string{"pick a point or a curve", "pick the matching curve or point"},
		Glyph: "constraint-point-on-object",
		Build: buildPointOnObject,
	},
	{
		Name: "horizontal",
		Type: sketch.Horizontal,
		Sequences: []selection.Sequence{
			{selection.Edge},
			{selection.VertexOrRoot, selection.VertexOrRoot},
		},
		Hints: []string{"pick a line or a point", "pick the second point"},
		Glyph: "constraint-horizontal",
		Build: orientation(sketch.Horizontal),
	},
	{
		Name: "vertical",
		Type: sketch.Vertical,
		Sequences: []selection.Sequence{
			{selection.Edge},
			{selection.VertexOrRoot, selection.VertexOrRoot},
		},
		Hints: []string{"pick a line or a point", "pick the second point"},
		Glyph: "constraint-vertical",
		Build: orientation(sketch.Vertical),
	},
	{
		Name: "parallel",
		Type: sketch.Parallel,
		Sequences: []selection.Sequence{
			{selection.EdgeOrAxis, selection.EdgeOrAxis},
		},
		Hints: []string{"pick the first line", "pick the second line"},
		Glyph: "constraint-parallel",
		Build: linePair(sketch.Parallel),
	},
	{
		Name: "perpendicular",
		Type: sketch.Perpendicular,
		Sequences: []selection.Sequence{
			{selection.EdgeOrAxis, selection.EdgeOrAxis},
		},
		Hints: []string{"pick the first line", "pick the second line"},
		Glyph: "constraint-perpendicular",
		Build: linePair(sketch.Perpendicular),
	},
	{
		Name: "tangent",
		Type: sketch.Tangent,
		Sequences: []selection.Sequence{
			{selection.Edge, selection.EdgeOrAxis},
			{selection.EdgeOrAxis, selection.Edge},
			{selection.Vertex, selection.Edge, selection.EdgeOrAxis},
			{selection.Vertex, selection.Vertex},
		},
		Hints: []string{"pick a curve or a point", "pick the second curve or end point", "pick the second curve"},
		Glyph: "constraint-tangent",
		Build: buildTangent,
	},
	{
		Name: "equal",
		Type: sketch.Equal,
		Sequences: []selection.Sequence{
			{selection.Edge, selection.Edge},
			{selection.Edge, selection.ExternalEdge},
			{selection.ExternalEdge, selection.Edge},
		},
		Hints: []string{"pick the first edge", "pick an edge of the same type"},
		Glyph: "constraint-equal",
		Build: buildEqual,
	},
	{
		Name: "symmetric",
		Type: sketch.Symmetric,
		Sequences: []selection.Sequence{
			{selection.Vertex, selection.Vertex, selection.EdgeOrAxis},
			{selection.Vertex, selection.Vertex, selection.VertexOrRoot},
			{selection.Edge, selection.VertexOrRoot},
		},
		Hints: []string{"pick a point or a line", "pick the second point or the symmetry point", "pick the symmetry line or point"},
		Glyph: "constraint-symmetric",
		Build: buildSymmetric,
	},
	{
		Name: "block",
		Type: sketch.Block,
		Sequences: []selection.Sequence{
			{selection.Edge},
		},
		Hints: []string{"pick the geometry to block"},
		Glyph: "constraint-block",
		Build: buildBlock,
	},
}

func request(t sketch.ConstraintType, ops ...sketch.Ref) []infer.Request {
	return []infer.Request{{Type: t, Operands: ops}}
}

func edge(ref sketch.Ref) sketch.Ref { return sketch.Edge(ref.GeoID) }

func requireLine(doc sketch.Document, ref sketch.Ref) error {
	g, err := doc.Geometry(ref.GeoID)
	if err != nil {
		return err
	}
	if g.Kind() != sketch.KindLineSegment {
		return infer.NewError(infer.CodeIncompatibleTypes, []sketch.Ref{ref}, "%s is not a line", g.Kind())
	}
	return nil
}

func pair(t sketch.ConstraintType) BuildFunc {
	return func(doc sketch.Document, picks []sketch.Ref, seq int) ([]infer.Request, error) {
		if picks[0] == picks[1] {
			return nil, infer.NewError(infer.CodeGeometricallyInvalid, picks, "the same point was picked twice")
		}
		return request(t, picks[0], picks[1]), nil
	}
}

func orientation(t sketch.ConstraintType) BuildFunc {
	points := pair(t)
	return func(doc sketch.Document, picks []sketch.Ref, seq int) ([]infer.Request, error) {
		if seq == 1 {
			return points(doc, picks, seq)
		}
		if err := requireLine(doc, picks[0]); err != nil {
			return nil, err
		}
		return request(t, edge(picks[0])), nil
	}
}

func linePair(t sketch.ConstraintType) BuildFunc {
	return func(doc sketch.Document, picks []sketch.Ref, seq int) ([]infer.Request, error) {
		for _, p := range picks {
			if err := requireLine(doc, p); err != nil {
				return nil, err
			}
		}
		if picks[0].GeoID == picks[1].GeoID {
			return nil, infer.NewError(infer.CodeGeometricallyInvalid, picks, "the same line was picked twice")
		}
		return request(t, edge(picks[0]), edge(picks[1])), nil
	}
}

func buildPointOnObject(doc sketch.Document, picks []sketch.Ref, seq int) ([]infer.Request, error) {
	point, curve := picks[0], picks[1]
	if seq == 1 {
		point, curve = curve, point
	}
	if point.GeoID == curve.GeoID {
		return nil, infer.NewError(infer.CodeGeometricallyInvalid, picks, "a point of %d is already on it", curve.GeoID)
	}
	return request(sketch.PointOnObject, point, edge(curve)), nil
}

func buildTangent(doc sketch.Document, picks []sketch.Ref, seq int) ([]infer.Request, error) {
	switch seq {
	case 2:
		return request(sketch.Tangent, edge(picks[1]), edge(picks[2]), picks[0]), nil
	case 3:
		if picks[0].GeoID == picks[1].GeoID {
			return nil, infer.NewError(infer.CodeGeometricallyInvalid, picks, "both end points belong to %d", picks[0].GeoID)
		}
		return request(sketch.Tangent, picks[0], picks[1]), nil
	}
	if picks[0].GeoID == picks[1].GeoID {
		return nil, infer.NewError(infer.CodeGeometricallyInvalid, picks, "the same curve was picked twice")
	}
	return request(sketch.Tangent, edge(picks[0]), edge(picks[1])), nil
}

func buildEqual(doc sketch.Document, picks []sketch.Ref, seq int) ([]infer.Request, error) {
	if picks[0].GeoID == picks[1].GeoID {
		return nil, infer.NewError(infer.CodeGeometricallyInvalid, picks, "the same edge was picked twice")
	}
	if err := infer.CheckEqualTypes(doc, picks); err != nil {
		return nil, err
	}
	return request(sketch.Equal, edge(picks[0]), edge(picks[1])), nil
}

func buildSymmetric(doc sketch.Document, picks []sketch.Ref, seq int) ([]infer.Request, error) {
	switch seq {
	case 0:
		if err := requireLine(doc, picks[2]); err != nil {
			return nil, err
		}
		return request(sketch.Symmetric, picks[0], picks[1], edge(picks[2])), nil
	case 1:
		return request(sketch.Symmetric, picks[0], picks[1], picks[2]), nil
	}
	line := picks[0]
	if err := requireLine(doc, line); err != nil {
		return nil, err
	}
	if picks[1].GeoID == line.GeoID {
		return nil, infer.NewError(infer.CodeGeometricallyInvalid, picks, "the symmetry point is an end of the line")
	}
	return request(sketch.Symmetric,
		sketch.Vertex(line.GeoID, sketch.PosStart),
		sketch.Vertex(line.GeoID, sketch.PosEnd),
		picks[1],
	), nil
}

func buildBlock(doc sketch.Document, picks []sketch.Ref, seq int) ([]infer.Request, error) {
	if _, err := doc.Geometry(picks[0].GeoID); err != nil {
		return nil, fmt.Errorf("block: %w", err)
	}
	return request(sketch.Block, edge(picks[0])), nil
}
