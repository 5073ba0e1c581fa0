// Package transform converts utility source between typed (TypeScript) and
// untyped (JavaScript) form. Stripping is behind the Transformer interface
// with two implementations: ESBuild, a real TypeScript parser, and Regex, a
// conservative text rewriter that keeps comments and layout. Fallback chains
// them so the installer sees a single Transformer: by default Regex runs
// first, its output is parsed by esbuild as JavaScript, and ESBuild takes
// over only when that parse fails.
package transform
