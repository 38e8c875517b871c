// Package workflow is the intermediate representation of a visual-ETL
// workflow: typed tool nodes, anchor-to-anchor edges, container grouping and
// macro references.
//
// A Graph is immutable once built. Nodes live in a dense slice ordered by
// tool ID with an ID-to-position index; edges are stored as ID pairs with
// per-node incoming and outgoing edge lists, and container membership is an
// integer field on the child. There are no pointers between nodes.
//
// Graphs are produced in exactly three ways:
//
//   - Builder, used by the ingest package while reading a document;
//   - Splice, used by the macro resolver to expand a macro reference into
//     its sub-workflow;
//   - WithMacroState, used by the macro resolver to record a terminal state
//     on a reference that could not be expanded.
//
// Each returns a new Graph and leaves its inputs untouched, so a Graph can
// be shared freely between goroutines.
package workflow
