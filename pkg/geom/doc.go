// Package geom measures live sketch geometry so that a new constraint can be
// created with the value the sketch already has.
//
// Every function here is pure and deterministic except LabelPosition, which
// jitters label placement to keep datum labels from stacking on each other.
package geom
