// Package dag is a small dependency graph over integer node IDs. It detects
// cycles and produces a deterministic topological order, breaking ties by
// the lowest ready ID so the same input always yields the same sequence.
package dag
