// Package project discovers how a consumer project wants utilities installed:
// the install directory and whether files keep their type annotations. It
// reads utilkit.json (or the legacy .utilkitrc), falls back to heuristics,
// writes new configs for init, and keeps the utilkit.lock provenance record.
package project
