// Package registry maps the plugin identifiers found in workflow documents
// onto tool kinds.
//
// The Registry starts with the built-in Alteryx plugin table and can be
// extended from the configuration model, so that custom or third-party
// tools are classified instead of falling through to the Other kind.
// Extensions are validated before use, preventing a typo in a config file
// from silently changing how a workflow is analyzed.
package registry
