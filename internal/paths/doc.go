// Package paths resolves where the utility library lives on disk. The library
// is a directory holding registry.json, the src/ and templates/ source trees
// and an optional generated.json with embedded utility sources.
package paths
