// Package cli defines the Cobra command tree for the utilkit CLI. Each file
// in this package registers one top-level command (add, remove, list, etc.)
// with the root command. Commands delegate to the registry, project and
// installer packages and only handle flags and output.
package cli
