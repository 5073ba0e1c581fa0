// Package source finds the canonical source text of a utility. Providers are
// queried in a fixed precedence order: generated (embedded) sources first,
// then the category-scoped source tree, the flat source tree and finally the
// templates tree.
package source
