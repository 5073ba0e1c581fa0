// Package registry loads and indexes the utility catalog and resolves
// installation order. A Registry is an immutable value built once per command
// from registry.json (or in memory for tests); lookups, search, integrity
// checks and dependency resolution all operate on that value.
package registry
