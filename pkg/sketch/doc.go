// Package sketch defines the 2D sketch model consumed by the constraint
// inference core: geometry references, the closed set of geometry kinds,
// constraint records and the Document port through which the core reads and
// mutates a sketch. An in-memory Document is provided for tests, scripts and
// the command line tool.
package sketch
