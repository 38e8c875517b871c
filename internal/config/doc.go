// Package config defines the format-agnostic configuration model for the
// application, along with the Loader interface for reading it from various
// sources.
//
// The `config.Model` feeds the tool registry and the macro resolver.
// Concrete loaders, such as the HCL one, live in separate packages.
package config
