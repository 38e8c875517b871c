/*
Package nodeid provides a structured representation of where a node came
from, based on the canonical format `path`.

A node ingested straight from a workflow document has a one-segment address
such as `tool[12]`. When the macro resolver splices a sub-workflow into its
host, every copied node is re-numbered, and its address records the chain of
macro tools it was expanded through, e.g. `tool[12].tool[3]` is tool 3 of the
macro referenced by host tool 12.

The format is a dot-separated sequence of segments, e.g. `a.b[0].c[1].d`.
*/
package nodeid
