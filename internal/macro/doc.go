// Package macro resolves the macro references of a workflow graph into
// composed sub-graphs.
//
// For each unresolved macro node the Resolver walks a fixed list of search
// locations, parses the first candidate that works, resolves that
// document's own macros depth-first and splices the result into the host.
// References that cannot be satisfied are marked missing with a reason and
// never abort the run. An optional MissingHandler lets an interactive
// front-end supply directories or paths for references the search could
// not satisfy.
//
// One Resolver may be shared by goroutines resolving different documents.
// Its Cache lives as long as the Resolver.
package macro
