// Package app contains the core application logic. It wires the ingestor,
// the macro resolver and the analyzer into one batch run over a workflow
// file or a directory of workflows, decoupled from any specific entrypoint
// like a CLI.
package app
