package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/utilkit-labs/utilkit/internal/project"
	"github.com/utilkit-labs/utilkit/internal/registry"
)

const testRegistry = `{
  "version": "1.0.0",
  "categories": [
    {"name": "async", "description": "Timing helpers"},
    {"name": "strings", "description": "Text helpers"}
  ],
  "utilities": [
    {"name": "debounce", "category": "async", "file": "debounce.ts", "description": "Delay calls until input settles"},
    {"name": "throttle", "category": "async", "file": "throttle.ts", "description": "Limit call rate", "dependencies": ["debounce"]},
    {"name": "slugify", "category": "strings", "file": "slugify.ts", "description": "URL-safe slugs"}
  ]
}`

var testSources = map[string]string{
	"async/debounce.ts": `export function debounce(fn: () => void, ms: number): () => void {
  let timer: number | undefined;
  return () => {
    clearTimeout(timer);
    timer = setTimeout(fn, ms);
  };
}
`,
	"async/throttle.ts": `import { debounce } from '../async/debounce';

export function throttle(fn: () => void, ms: number): () => void {
  return debounce(fn, ms);
}
`,
	"strings/slugify.ts": `export function slugify(s: string): string {
  return s.toLowerCase().trim().split(' ').join('-');
}
`,
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// setupEnv creates a library and an empty project directory and points the
// CLI at them. It returns the project root.
func setupEnv(t *testing.T) string {
	t.Helper()
	lib := t.TempDir()
	writeFile(t, filepath.Join(lib, "registry.json"), testRegistry)
	for rel, content := range testSources {
		writeFile(t, filepath.Join(lib, "src", filepath.FromSlash(rel)), content)
	}

	t.Setenv("HOME", t.TempDir())
	t.Setenv("UTILKIT_HOME", lib)
	t.Setenv("UTILKIT_REGISTRY", "")
	t.Setenv("UTILKIT_TRANSFORM", "")
	return t.TempDir()
}

func runCLI(t *testing.T, root string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := Run(append(args, "--cwd", root), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func mustRun(t *testing.T, root string, args ...string) string {
	t.Helper()
	out, errOut, err := runCLI(t, root, args...)
	if err != nil {
		t.Fatalf("%v: %v\nstdout:\n%s\nstderr:\n%s", args, err, out, errOut)
	}
	return out
}

func TestInitThenAddUntyped(t *testing.T) {
	root := setupEnv(t)
	mustRun(t, root, "init", "--typescript=false")

	out := mustRun(t, root, "add", "throttle")
	if !strings.Contains(out, "2 utilities installed") {
		t.Errorf("summary missing from output:\n%s", out)
	}

	installRoot := filepath.Join(root, "src", "utils", "async")
	for _, name := range []string{"debounce.js", "throttle.js"} {
		data, err := os.ReadFile(filepath.Join(installRoot, name))
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		if strings.Contains(string(data), ": number") {
			t.Errorf("%s still has type annotations:\n%s", name, data)
		}
	}
	if exists(filepath.Join(installRoot, "throttle.ts")) {
		t.Error("untyped project should not get .ts files")
	}

	lock, err := project.LoadLock(root)
	if err != nil {
		t.Fatalf("LoadLock: %v", err)
	}
	if !lock.Utilities["throttle"].Direct {
		t.Error("throttle should be recorded as direct")
	}
	deb := lock.Utilities["debounce"]
	if deb.Direct {
		t.Error("debounce was only pulled in as a dependency")
	}
	if !reflect.DeepEqual(deb.RequiredBy, []string{"throttle"}) {
		t.Errorf("debounce RequiredBy = %v, want [throttle]", deb.RequiredBy)
	}
}

func TestAddCategoryTyped(t *testing.T) {
	root := setupEnv(t)
	mustRun(t, root, "init", "--typescript", "--dir", "lib/utils")

	mustRun(t, root, "add", "async", "--transform", "regex")

	for _, name := range []string{"debounce.ts", "throttle.ts"} {
		path := filepath.Join(root, "lib", "utils", "async", name)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		if want := testSources["async/"+name]; string(data) != want {
			t.Errorf("%s should be copied verbatim, got:\n%s", name, data)
		}
	}
	if exists(filepath.Join(root, "lib", "utils", "strings")) {
		t.Error("only the async category was requested")
	}
}

func TestAddSkipsThenOverwrites(t *testing.T) {
	root := setupEnv(t)
	mustRun(t, root, "init", "--typescript=false")
	mustRun(t, root, "add", "debounce")

	target := filepath.Join(root, "src", "utils", "async", "debounce.js")
	writeFile(t, target, "// edited by hand\n")

	out := mustRun(t, root, "add", "debounce")
	if !strings.Contains(out, "1 utility skipped") {
		t.Errorf("expected skip summary:\n%s", out)
	}
	if data, _ := os.ReadFile(target); string(data) != "// edited by hand\n" {
		t.Error("skipped file must not be touched")
	}

	out = mustRun(t, root, "add", "debounce", "--overwrite")
	if !strings.Contains(out, "1 utility overwritten") {
		t.Errorf("expected overwrite summary:\n%s", out)
	}
	if data, _ := os.ReadFile(target); strings.Contains(string(data), "edited by hand") {
		t.Error("overwrite should replace the file")
	}
}

func TestAddUnknownSuggests(t *testing.T) {
	root := setupEnv(t)
	mustRun(t, root, "init", "--typescript=false")

	_, errOut, err := runCLI(t, root, "add", "debounse", "slugify")
	var unknown *registry.UnknownUtilityError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want *UnknownUtilityError", err)
	}
	if unknown.Name != "debounse" {
		t.Errorf("unknown name = %q", unknown.Name)
	}
	if !strings.Contains(errOut, "Did you mean") || !strings.Contains(errOut, "debounce") {
		t.Errorf("stderr should suggest debounce:\n%s", errOut)
	}
	if exists(filepath.Join(root, "src", "utils", "strings")) {
		t.Error("nothing should be installed when a name is unknown")
	}
}

func TestAddRequiresInitializedProject(t *testing.T) {
	root := setupEnv(t)

	_, _, err := runCLI(t, root, "add", "debounce")
	if !errors.Is(err, project.ErrNotInitialized) {
		t.Fatalf("error = %v, want ErrNotInitialized", err)
	}
	if !strings.Contains(err.Error(), "utilkit init") {
		t.Errorf("error should tell the user to run init: %v", err)
	}
}

func TestAddDryRun(t *testing.T) {
	root := setupEnv(t)
	mustRun(t, root, "init", "--typescript=false")

	out := mustRun(t, root, "add", "throttle", "--dry-run")
	if !strings.Contains(out, "Install order: debounce, throttle") {
		t.Errorf("plan missing install order:\n%s", out)
	}
	if exists(filepath.Join(root, "src", "utils", "async")) {
		t.Error("dry run must not write files")
	}
	if exists(project.LockPath(root)) {
		t.Error("dry run must not write the lock file")
	}
}

func TestRemoveSuggestsOrphans(t *testing.T) {
	root := setupEnv(t)
	mustRun(t, root, "init", "--typescript=false")
	mustRun(t, root, "add", "throttle")

	out := mustRun(t, root, "remove", "throttle", "ghost", "slugify")
	if !strings.Contains(out, "1 utility removed") {
		t.Errorf("expected removal summary:\n%s", out)
	}
	if !strings.Contains(out, "1 name not found") {
		t.Errorf("ghost should be reported as not found:\n%s", out)
	}
	if !strings.Contains(out, "1 utility was not installed") {
		t.Errorf("slugify should be reported as not installed:\n%s", out)
	}
	if !strings.Contains(out, "No installed utility depends on these") || !strings.Contains(out, "remove debounce") {
		t.Errorf("debounce should be suggested as an orphan:\n%s", out)
	}

	asyncDir := filepath.Join(root, "src", "utils", "async")
	if exists(filepath.Join(asyncDir, "throttle.js")) {
		t.Error("throttle.js should be gone")
	}
	if !exists(filepath.Join(asyncDir, "debounce.js")) {
		t.Error("orphans are only suggested, never removed")
	}

	lock, err := project.LoadLock(root)
	if err != nil {
		t.Fatalf("LoadLock: %v", err)
	}
	if _, ok := lock.Utilities["throttle"]; ok {
		t.Error("throttle should be dropped from the lock")
	}
	if got := lock.Utilities["debounce"].RequiredBy; len(got) != 0 {
		t.Errorf("debounce RequiredBy = %v, want empty", got)
	}
}

func TestListJSON(t *testing.T) {
	root := setupEnv(t)
	mustRun(t, root, "init", "--typescript=false")
	mustRun(t, root, "add", "slugify")

	out := mustRun(t, root, "list", "--json")
	var entries []listEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("list --json output is not JSON: %v\n%s", err, out)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for _, e := range entries {
		if want := e.Name == "slugify"; e.Installed != want {
			t.Errorf("%s installed = %v, want %v", e.Name, e.Installed, want)
		}
	}

	out = mustRun(t, root, "list", "--installed", "--json")
	entries = nil
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "slugify" {
		t.Errorf("--installed entries = %+v", entries)
	}

	if _, _, err := runCLI(t, root, "list", "--category", "nope"); err == nil {
		t.Error("unknown category should be an error")
	}
}

func TestListWithoutProject(t *testing.T) {
	root := setupEnv(t)
	out := mustRun(t, root, "list", "--category", "async")
	if !strings.Contains(out, "debounce") || !strings.Contains(out, "throttle") {
		t.Errorf("list output:\n%s", out)
	}
	if strings.Contains(out, "slugify") {
		t.Errorf("category filter ignored:\n%s", out)
	}

	if _, _, err := runCLI(t, root, "list", "--installed"); !errors.Is(err, project.ErrNotInitialized) {
		t.Errorf("--installed without a project: err = %v", err)
	}
}

func TestSearch(t *testing.T) {
	root := setupEnv(t)

	out := mustRun(t, root, "search", "deb")
	if !strings.Contains(out, "debounce") || !strings.Contains(out, "1 match") {
		t.Errorf("search output:\n%s", out)
	}

	out = mustRun(t, root, "search", "slugs", "--description", "--json")
	var entries []searchEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if len(entries) != 1 || entries[0].Name != "slugify" {
		t.Errorf("description search = %+v", entries)
	}

	out = mustRun(t, root, "search", "throttel")
	if !strings.Contains(out, "Did you mean: throttle") {
		t.Errorf("expected a suggestion:\n%s", out)
	}
}

func TestDoctor(t *testing.T) {
	root := setupEnv(t)
	mustRun(t, root, "init", "--typescript=false")
	mustRun(t, root, "add", "debounce")

	out := mustRun(t, root, "doctor")
	for _, want := range []string{"registry 1.0.0", "every utility has a source", "1 utility installed"} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output missing %q:\n%s", want, out)
		}
	}

	if err := os.Remove(filepath.Join(root, "src", "utils", "async", "debounce.js")); err != nil {
		t.Fatal(err)
	}
	out = mustRun(t, root, "doctor")
	if !strings.Contains(out, "its file is missing") {
		t.Errorf("doctor should flag the stale lock entry:\n%s", out)
	}
}

func TestRegistryLoadErrorIsFatal(t *testing.T) {
	root := setupEnv(t)
	bad := filepath.Join(t.TempDir(), "registry.json")
	writeFile(t, bad, `{"version": "1.0.0"}`)

	_, _, err := runCLI(t, root, "add", "debounce", "--registry", bad)
	var loadErr *registry.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error = %v, want *LoadError", err)
	}
}

func TestVersion(t *testing.T) {
	buildVersion = "1.2.3"
	root := setupEnv(t)

	if out := mustRun(t, root, "version", "--short"); strings.TrimSpace(out) != "1.2.3" {
		t.Errorf("version --short = %q", out)
	}
	out := mustRun(t, root, "version")
	if !strings.HasPrefix(out, "utilkit version 1.2.3") {
		t.Errorf("version = %q", out)
	}
}

const splitSource = `import { trim } from './trim';

/** Upper-case every letter. */
export function shout(s: string): string {
  return trim(s).toUpperCase();
}

export const greet = (name: string): string => shout("hi " + name);
`

func TestSplit(t *testing.T) {
	root := setupEnv(t)
	writeFile(t, filepath.Join(root, "all.ts"), splitSource)

	stdout, stderr, err := runCLI(t, root, "split", "all.ts", "--out", "lib/text", "--entries")
	if err != nil {
		t.Fatalf("split: %v\n%s", err, stderr)
	}
	var entries []splitEntry
	if err := json.Unmarshal([]byte(stdout), &entries); err != nil {
		t.Fatalf("entries are not JSON: %v\n%s", err, stdout)
	}
	want := []splitEntry{
		{Name: "shout", Category: "text", File: "shout.ts", Description: "Upper-case every letter"},
		{Name: "greet", Category: "text", File: "greet.ts", Dependencies: []string{"shout"}},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("entries = %+v, want %+v", entries, want)
	}
	if !strings.Contains(stderr, "2 files written") {
		t.Errorf("report should go to stderr with --entries:\n%s", stderr)
	}

	data, err := os.ReadFile(filepath.Join(root, "lib", "text", "greet.ts"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "import { shout } from './shout';\n\nexport const greet") {
		t.Errorf("greet.ts =\n%s", data)
	}
	data, err = os.ReadFile(filepath.Join(root, "lib", "text", "shout.ts"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "import { trim } from './trim';\n\n/** Upper-case every letter. */") {
		t.Errorf("shout.ts =\n%s", data)
	}

	out := mustRun(t, root, "split", "all.ts", "--out", "lib/text")
	if !strings.Contains(out, "2 files skipped") {
		t.Errorf("second split should skip existing files:\n%s", out)
	}
	out = mustRun(t, root, "split", "all.ts", "--out", "lib/text", "--force")
	if !strings.Contains(out, "2 files written") {
		t.Errorf("--force should rewrite:\n%s", out)
	}
}

func TestSplitDryRunWritesNothing(t *testing.T) {
	root := setupEnv(t)
	writeFile(t, filepath.Join(root, "all.ts"), splitSource)

	out := mustRun(t, root, "split", "all.ts", "--out", "lib", "--dry-run")
	if !strings.Contains(out, "2 files would be written") {
		t.Errorf("dry run output:\n%s", out)
	}
	if exists(filepath.Join(root, "lib")) {
		t.Error("dry run created the output directory")
	}
}

func TestSplitRejectsOtherFiles(t *testing.T) {
	root := setupEnv(t)
	writeFile(t, filepath.Join(root, "notes.md"), "# notes\n")
	if _, _, err := runCLI(t, root, "split", "notes.md"); err == nil {
		t.Fatal("expected an error for a non-module file")
	}
}
