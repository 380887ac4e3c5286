// Package infer decides which constraints a selection can receive.
//
// A Table maps the shape of a selection (how many points, lines, circles,
// conics and splines were picked) to an ordered list of interpretations.
// Decide builds the interpretation at a cycle Position as a batch of
// Requests carrying the currently measured value, so applying them does
// not move the sketch. Interpretations the geometry cannot support are
// passed over; requests between fixed geometry are refused with a
// FIXED_GEOMETRY_CONFLICT Error.
package infer
