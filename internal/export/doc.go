// Package export renders the output contract of an analysis (the resolved
// graph, the ordered steps, the layer map, the directives and the macro
// resolution report) as YAML or JSON for downstream generators.
package export
