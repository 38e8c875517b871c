// Package analyze derives the output contract of a resolved workflow graph:
// a deterministic order of transformation steps, the Bronze/Silver/Gold
// layer of every step and a per-step generation directive.
//
// Analysis never modifies the graph. It expects every macro reference to
// have reached a terminal state; run the macro resolver first.
package analyze
