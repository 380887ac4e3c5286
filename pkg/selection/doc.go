// Package selection interprets what the user has picked.
//
// Classify sorts an ordered pick list into five buckets (points, lines,
// circles and arcs, conics, splines) from which the inference table reads
// the shape of the selection. Matcher checks picks for single-purpose
// commands against fixed pick sequences built from Class bitmasks.
package selection
