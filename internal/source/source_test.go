package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/utilkit-labs/utilkit/internal/paths"
	"github.com/utilkit-labs/utilkit/internal/registry"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestChainPrecedence(t *testing.T) {
	lib := paths.Library{Root: t.TempDir()}
	meta := registry.UtilityMeta{Name: "debounce", Category: "async", File: "debounce.ts"}

	writeFile(t, filepath.Join(lib.TemplatesRoot(), "debounce.ts"), "// template")
	chain := NewLibraryChain(lib, Map{})

	got, err := chain.Resolve(meta)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Text != "// template" {
		t.Errorf("expected template source, got %q", got.Text)
	}

	writeFile(t, filepath.Join(lib.SourceRoot(), "debounce.ts"), "// flat")
	if got, _ := chain.Resolve(meta); got.Text != "// flat" {
		t.Errorf("flat should beat templates, got %q", got.Text)
	}

	writeFile(t, filepath.Join(lib.SourceRoot(), "async", "debounce.ts"), "// category")
	if got, _ := chain.Resolve(meta); got.Text != "// category" {
		t.Errorf("category should beat flat, got %q", got.Text)
	}
	if !got.Typed {
		t.Error(".ts source should be typed")
	}

	chain = NewLibraryChain(lib, Map{"debounce": {Text: "// generated", Typed: true}})
	got, err = chain.Resolve(meta)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Text != "// generated" {
		t.Errorf("generated should beat everything, got %q", got.Text)
	}
	if got.Origin != "generated:debounce" {
		t.Errorf("Origin = %q", got.Origin)
	}
}

func TestChainNotFound(t *testing.T) {
	chain := NewLibraryChain(paths.Library{Root: t.TempDir()}, nil)
	_, err := chain.Resolve(registry.UtilityMeta{Name: "ghost", Category: "x", File: "ghost.ts"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("error should name the utility: %v", err)
	}
}

func TestLoadGenerated(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "generated.json")
	writeFile(t, path, `{"cn": {"typed": true, "content": "export const cn = (...c: string[]) => c.join(' ');"}}`)

	m, err := LoadGenerated(path)
	if err != nil {
		t.Fatalf("LoadGenerated: %v", err)
	}
	c, found, err := m.Lookup(registry.UtilityMeta{Name: "cn"})
	if err != nil || !found {
		t.Fatalf("Lookup(cn) found=%v err=%v", found, err)
	}
	if !c.Typed || !strings.Contains(c.Text, "export const cn") {
		t.Errorf("content = %+v", c)
	}

	missing, err := LoadGenerated(filepath.Join(dir, "absent.json"))
	if err != nil {
		t.Fatalf("LoadGenerated(missing): %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("missing file should give empty map, got %v", missing)
	}

	writeFile(t, path, `not json`)
	if _, err := LoadGenerated(path); err == nil {
		t.Error("expected error for malformed generated.json")
	}
}

func TestSyntax(t *testing.T) {
	tests := []struct {
		file  string
		typed bool
		jsx   bool
	}{
		{"a.ts", true, false},
		{"a.tsx", true, true},
		{"a.mts", true, false},
		{"a.js", false, false},
		{"a.jsx", false, true},
		{"a.mjs", false, false},
	}
	for _, tt := range tests {
		typed, jsx := Syntax(tt.file)
		if typed != tt.typed || jsx != tt.jsx {
			t.Errorf("Syntax(%q) = (%v, %v), want (%v, %v)", tt.file, typed, jsx, tt.typed, tt.jsx)
		}
	}
}
