//go:build integration

package integration_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/utilkit-labs/utilkit/internal/cli"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	LibraryDir string // UTILKIT_HOME, contains registry.json and src/
	ProjectDir string // a mock consumer project
}

// setupTestEnv creates isolated temp directories and sets environment variables
// so all utilkit operations are sandboxed. The env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		LibraryDir: t.TempDir(),
		ProjectDir: t.TempDir(),
	}

	t.Setenv("HOME", t.TempDir())
	t.Setenv("UTILKIT_HOME", env.LibraryDir)
	t.Setenv("UTILKIT_REGISTRY", "")
	t.Setenv("UTILKIT_TRANSFORM", "")
	return env
}

// setupLibrary writes a synthetic library. The graph is a diamond
// (fetchJson -> retry, sleep; retry -> sleep) plus a standalone JSX
// component and a plain JavaScript utility.
func setupLibrary(t *testing.T, libraryDir string) {
	t.Helper()

	writeFile(t, filepath.Join(libraryDir, "registry.json"), `{
  "version": "1.4.0",
  "categories": [
    {"name": "async", "description": "Promises and timing"},
    {"name": "network", "description": "HTTP helpers"},
    {"name": "ui", "description": "Components"}
  ],
  "utilities": [
    {"name": "sleep", "category": "async", "file": "sleep.ts"},
    {"name": "retry", "category": "async", "file": "retry.ts", "dependencies": ["sleep"]},
    {"name": "fetchJson", "category": "network", "file": "fetchJson.ts", "dependencies": ["retry", "sleep"]},
    {"name": "Badge", "category": "ui", "file": "Badge.tsx"},
    {"name": "noop", "category": "async", "file": "noop.js"}
  ]
}`)

	src := filepath.Join(libraryDir, "src")
	writeFile(t, filepath.Join(src, "async", "sleep.ts"), `export const sleep = (ms: number): Promise<void> =>
  new Promise((resolve) => setTimeout(resolve, ms));
`)
	writeFile(t, filepath.Join(src, "async", "retry.ts"), `import { sleep } from './sleep';

export interface RetryOptions {
  attempts: number;
  delay: number;
}

export async function retry<T>(fn: () => Promise<T>, opts: RetryOptions): Promise<T> {
  let last: unknown;
  for (let i = 0; i < opts.attempts; i++) {
    try {
      return await fn();
    } catch (err) {
      last = err;
      await sleep(opts.delay);
    }
  }
  throw last;
}
`)
	writeFile(t, filepath.Join(src, "network", "fetchJson.ts"), `import { retry } from '../async/retry';
import { sleep } from '../async/sleep';

export async function fetchJson<T>(url: string): Promise<T> {
  await sleep(0);
  return retry(async () => {
    const res = await fetch(url);
    return (await res.json()) as T;
  }, { attempts: 3, delay: 100 });
}
`)
	writeFile(t, filepath.Join(src, "ui", "Badge.tsx"), `type BadgeProps = { label: string };

export function Badge({ label }: BadgeProps) {
  return <span className="badge">{label}</span>;
}
`)
	writeFile(t, filepath.Join(src, "noop.js"), "export function noop() {}\n")
}

// run executes the CLI against the project directory.
func run(t *testing.T, env *testEnv, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := cli.Run(append(args, "--cwd", env.ProjectDir), &stdout, &stderr)
	return stdout.String() + stderr.String(), err
}

func mustRun(t *testing.T, env *testEnv, args ...string) string {
	t.Helper()
	out, err := run(t, env, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}

// assertFileLacks fails if the file contains substr.
func assertFileLacks(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if strings.Contains(string(data), substr) {
		t.Errorf("file %s should not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
