package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/utilkit-labs/utilkit/internal/paths"
	"github.com/utilkit-labs/utilkit/internal/registry"
)

// ErrNotFound is returned when no provider has source for a utility.
var ErrNotFound = errors.New("source not found")

// Content is the source text of a utility and the syntax it is written in.
type Content struct {
	Text   string
	Typed  bool   // TypeScript syntax
	JSX    bool   // contains JSX (.tsx / .jsx)
	Origin string // where the text came from, for diagnostics
}

// Provider looks up utility source. found is false when the provider simply
// has nothing for the utility; err is reserved for read failures.
type Provider interface {
	Name() string
	Lookup(meta registry.UtilityMeta) (content Content, found bool, err error)
}

// Chain queries providers in order; the first hit wins.
type Chain []Provider

// Resolve returns the first content found for meta. It wraps ErrNotFound
// when every provider misses.
func (c Chain) Resolve(meta registry.UtilityMeta) (Content, error) {
	for _, p := range c {
		content, found, err := p.Lookup(meta)
		if err != nil {
			return Content{}, fmt.Errorf("%s source for %s: %w", p.Name(), meta.Name, err)
		}
		if found {
			return content, nil
		}
	}
	return Content{}, fmt.Errorf("%s (%s): %w", meta.Name, meta.File, ErrNotFound)
}

// NewLibraryChain builds the standard provider order for a library.
func NewLibraryChain(lib paths.Library, generated Map) Chain {
	return Chain{
		generated,
		Dir{Label: "category", Root: lib.SourceRoot(), ByCategory: true},
		Dir{Label: "flat", Root: lib.SourceRoot()},
		Dir{Label: "templates", Root: lib.TemplatesRoot()},
	}
}

// Syntax reports the language of a source filename by extension.
func Syntax(filename string) (typed, jsx bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ts", ".mts", ".cts":
		return true, false
	case ".tsx":
		return true, true
	case ".jsx":
		return false, true
	default:
		return false, false
	}
}

// Map is an in-memory provider keyed by utility name, used for utilities
// whose canonical source is generated rather than stored in the library tree.
type Map map[string]Content

func (m Map) Name() string { return "generated" }

func (m Map) Lookup(meta registry.UtilityMeta) (Content, bool, error) {
	c, ok := m[meta.Name]
	if !ok {
		return Content{}, false, nil
	}
	if c.Origin == "" {
		c.Origin = "generated:" + meta.Name
	}
	return c, true, nil
}

type generatedEntry struct {
	Typed   bool   `json:"typed"`
	JSX     bool   `json:"jsx"`
	Content string `json:"content"`
}

// LoadGenerated reads a generated.json map. A missing file yields an empty map.
func LoadGenerated(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Map{}, nil
		}
		return nil, fmt.Errorf("reading generated sources: %w", err)
	}

	var raw map[string]generatedEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing generated sources %s: %w", path, err)
	}
	m := make(Map, len(raw))
	for name, e := range raw {
		m[name] = Content{Text: e.Content, Typed: e.Typed, JSX: e.JSX, Origin: path + "#" + name}
	}
	return m, nil
}

// Dir serves files from a directory tree, either <Root>/<category>/<file>
// when ByCategory is set or <Root>/<file> otherwise.
type Dir struct {
	Label      string
	Root       string
	ByCategory bool
}

func (d Dir) Name() string { return d.Label }

func (d Dir) Lookup(meta registry.UtilityMeta) (Content, bool, error) {
	if d.Root == "" {
		return Content{}, false, nil
	}
	path := filepath.Join(d.Root, filepath.FromSlash(meta.File))
	if d.ByCategory {
		path = filepath.Join(d.Root, meta.Category, filepath.FromSlash(meta.File))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Content{}, false, nil
		}
		return Content{}, false, err
	}
	typed, jsx := Syntax(meta.File)
	return Content{Text: string(data), Typed: typed, JSX: jsx, Origin: path}, true, nil
}
