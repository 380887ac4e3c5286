package infer

import (
	"github.com/chazu/smartdim/pkg/geom"
	"github.com/chazu/smartdim/pkg/prefs"
	"github.com/chazu/smartdim/pkg/sketch"
)

// rules returns the table in priority order.
func rules(p prefs.Preferences) []Rule {
	return []Rule{
		// Point-dominant shapes.
		{
			Shape: ShapeSpec{Points: exactly(1)},
			Guard: Guard{Name: "origin", Test: func(ctx *Context) bool {
				return ctx.Buckets.Points[0].IsRoot()
			}},
		},
		{
			Shape: ShapeSpec{Points: exactly(1)},
			Offers: []Offer{
				{Label: "distance-to-origin", Skip: atOrigin, Build: distanceToOrigin},
				{Label: "lock", Build: lock},
			},
		},
		{
			Shape: ShapeSpec{Points: exactly(2)},
			Offers: []Offer{
				{Label: "distance", Skip: coincidentPoints, CursorSensitive: true, Build: pointDistance},
				{Label: "horizontal", Build: pointPair(sketch.Horizontal)},
				{Label: "vertical", Build: pointPair(sketch.Vertical)},
			},
		},
		{
			Shape: ShapeSpec{Points: atLeast(3)},
			Offers: []Offer{
				{Label: "horizontal-chain", Build: pointChain(sketch.Horizontal)},
				{Label: "vertical-chain", Build: pointChain(sketch.Vertical)},
				{Label: "symmetric", Skip: notThreePoints, Build: symmetricPoints},
			},
		},
		{
			Shape: ShapeSpec{Points: exactly(1), Lines: exactly(1)},
			Offers: []Offer{
				{Label: "distance", Skip: pointOnLine, Build: pointLineDistance},
				{Label: "symmetric", Skip: ownPoint(lineRef), Build: symmetricAboutPoint},
			},
		},
		{
			Shape: ShapeSpec{Points: exactly(2), Lines: exactly(1)},
			Offers: []Offer{
				{Label: "symmetric", Build: symmetricAboutLine},
			},
		},
		{
			Shape: ShapeSpec{Points: exactly(1), Circles: exactly(1)},
			Offers: []Offer{
				{Label: "distance", Skip: pointOnCircle, Build: pointCircleDistance},
				{Label: "point-on-object", Skip: ownPoint(circleRef), Build: pointOnObject(circleRef)},
			},
		},
		{
			Shape: ShapeSpec{Points: exactly(1), Conics: exactly(1)},
			Offers: []Offer{
				{Label: "point-on-object", Skip: ownPoint(conicRef), Build: pointOnObject(conicRef)},
			},
		},

		// Line-dominant shapes.
		{
			Shape: ShapeSpec{Lines: exactly(1)},
			Guard: Guard{Name: "axis", Test: func(ctx *Context) bool {
				return ctx.Buckets.Lines[0].GeoID.IsAxis()
			}},
		},
		{
			Shape: ShapeSpec{Lines: exactly(1)},
			Offers: []Offer{
				{Label: "length", CursorSensitive: true, Build: lineLength},
				{Label: "horizontal", Skip: oriented, Build: orient(sketch.Horizontal)},
				{Label: "vertical", Skip: oriented, Build: orient(sketch.Vertical)},
				{Label: "block", Skip: oriented, Build: block},
			},
		},
		{
			Shape: ShapeSpec{Lines: exactly(2)},
			Offers: []Offer{
				{Label: "angle", Build: lineAngle},
				{Label: "equality", Skip: anyAxis, Build: equalityChain(lines)},
			},
		},
		{
			Shape: ShapeSpec{Lines: atLeast(3)},
			Offers: []Offer{
				{Label: "equality", Skip: anyAxis, Build: equalityChain(lines)},
			},
		},
		{
			Shape: ShapeSpec{Lines: exactly(1), Circles: exactly(1)},
			Offers: []Offer{
				{Label: "distance", Build: lineCircleDistance},
				{Label: "tangent", Build: tangent(circleRef)},
			},
		},
		{
			Shape: ShapeSpec{Lines: exactly(1), Conics: exactly(1)},
			Offers: []Offer{
				{Label: "tangent", Build: tangent(conicRef)},
			},
		},

		// Circle-dominant shapes.
		{
			Shape:  ShapeSpec{Circles: exactly(1)},
			Guard:  Guard{Name: "radius free", Test: radiusFree},
			Offers: circleDatums(geom.CircleDatumOrder(true, p.PreferRadius, p.PreferDiameter)),
		},
		{
			Shape:  ShapeSpec{Circles: exactly(1)},
			Offers: circleDatums(geom.CircleDatumOrder(false, p.PreferRadius, p.PreferDiameter)),
		},
		{
			Shape: ShapeSpec{Circles: exactly(2)},
			Offers: []Offer{
				{Label: "distance", Build: circleDistance},
				{Label: "concentric-distance", Skip: concentric, Build: concentricDistance},
				{Label: "equality", Build: equalityChain(circles)},
			},
		},
		{
			Shape: ShapeSpec{Circles: atLeast(3)},
			Offers: []Offer{
				{Label: "equality", Build: equalityChain(circles)},
			},
		},
		{
			Shape: ShapeSpec{Circles: exactly(1), Conics: exactly(1)},
			Offers: []Offer{
				{Label: "tangent-via-point", Build: tangentViaPoint(circleRef)},
			},
		},

		// Conic-dominant shapes.
		{
			Shape: ShapeSpec{Conics: exactly(1)},
		},
		{
			Shape: ShapeSpec{Conics: exactly(2)},
			Offers: []Offer{
				{Label: "equality", Skip: unlikeConics, Build: equalityChain(conics)},
				{Label: "tangent-via-point", Build: tangentViaPoint(secondConicRef)},
			},
		},
		{
			Shape: ShapeSpec{Conics: atLeast(3)},
			Offers: []Offer{
				{Label: "equality", Build: equalityChain(conics)},
			},
		},
		{
			Shape: ShapeSpec{Splines: exactly(1)},
		},
	}
}

func circleDatums(order []geom.CircleDatum) []Offer {
	offers := make([]Offer, len(order))
	for i, d := range order {
		o := Offer{Label: d.String(), Build: circleDatum(d)}
		if d == geom.DatumArcAngle || d == geom.DatumArcLength {
			o.Skip = notArc
		}
		offers[i] = o
	}
	return offers
}
