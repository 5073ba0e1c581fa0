package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
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

func mkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatal(err)
	}
}

func TestLocateConfigFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigFile), `{"$schema": "x", "typescript": false, "directory": "app/helpers"}`)
	// The config file wins over heuristics.
	mkdir(t, filepath.Join(root, "src", "utils"))
	writeFile(t, filepath.Join(root, "tsconfig.json"), `{}`)

	cfg, err := Locate(root)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if cfg.TypedMode {
		t.Error("TypedMode should be false")
	}
	if cfg.InstallDirectory != filepath.Join("app", "helpers") {
		t.Errorf("InstallDirectory = %q", cfg.InstallDirectory)
	}
	if cfg.Origin != OriginConfig {
		t.Errorf("Origin = %q, want %q", cfg.Origin, OriginConfig)
	}
	if cfg.RootPath != root {
		t.Errorf("RootPath = %q, want %q", cfg.RootPath, root)
	}
	if got, want := cfg.InstallRoot(), filepath.Join(root, "app", "helpers"); got != want {
		t.Errorf("InstallRoot = %q, want %q", got, want)
	}
}

func TestLocateLegacyConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, LegacyConfigFile), "directory: lib/shared\n")

	cfg, err := Locate(root)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if !cfg.TypedMode {
		t.Error("legacy config implies typed mode")
	}
	if cfg.InstallDirectory != filepath.Join("lib", "shared") {
		t.Errorf("InstallDirectory = %q", cfg.InstallDirectory)
	}
	if cfg.Origin != OriginLegacy {
		t.Errorf("Origin = %q, want %q", cfg.Origin, OriginLegacy)
	}
}

func TestLocateConfigBeatsLegacy(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigFile), `{"typescript": true, "directory": "new"}`)
	writeFile(t, filepath.Join(root, LegacyConfigFile), "directory: old\n")

	cfg, err := Locate(root)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if cfg.InstallDirectory != "new" {
		t.Errorf("InstallDirectory = %q, want new", cfg.InstallDirectory)
	}
}

func TestLocateDetected(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(t *testing.T, root string)
		wantDir   string
		wantTyped bool
	}{
		{
			name:    "src/utils untyped",
			setup:   func(t *testing.T, root string) { mkdir(t, filepath.Join(root, "src", "utils")) },
			wantDir: filepath.Join("src", "utils"),
		},
		{
			name: "utils with tsconfig",
			setup: func(t *testing.T, root string) {
				mkdir(t, filepath.Join(root, "utils"))
				writeFile(t, filepath.Join(root, "tsconfig.json"), `{}`)
			},
			wantDir:   "utils",
			wantTyped: true,
		},
		{
			name: "typescript dev dependency",
			setup: func(t *testing.T, root string) {
				mkdir(t, filepath.Join(root, "src", "utils"))
				writeFile(t, filepath.Join(root, "package.json"), `{"devDependencies": {"typescript": "^5.0.0"}}`)
			},
			wantDir:   filepath.Join("src", "utils"),
			wantTyped: true,
		},
		{
			name: "@types dependency",
			setup: func(t *testing.T, root string) {
				mkdir(t, filepath.Join(root, "lib", "utils"))
				writeFile(t, filepath.Join(root, "package.json"), `{"dependencies": {"@types/node": "20"}}`)
			},
			wantDir:   filepath.Join("lib", "utils"),
			wantTyped: true,
		},
		{
			name: "plain package.json",
			setup: func(t *testing.T, root string) {
				mkdir(t, filepath.Join(root, "utils"))
				writeFile(t, filepath.Join(root, "package.json"), `{"dependencies": {"react": "18"}}`)
			},
			wantDir: "utils",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			tt.setup(t, root)

			cfg, err := Locate(root)
			if err != nil {
				t.Fatalf("Locate: %v", err)
			}
			if cfg.Origin != OriginDetected {
				t.Errorf("Origin = %q, want %q", cfg.Origin, OriginDetected)
			}
			if cfg.InstallDirectory != tt.wantDir {
				t.Errorf("InstallDirectory = %q, want %q", cfg.InstallDirectory, tt.wantDir)
			}
			if cfg.TypedMode != tt.wantTyped {
				t.Errorf("TypedMode = %v, want %v", cfg.TypedMode, tt.wantTyped)
			}
		})
	}
}

func TestLocateNotInitialized(t *testing.T) {
	root := t.TempDir()
	// A tsconfig alone is not enough: there is no install directory.
	writeFile(t, filepath.Join(root, "tsconfig.json"), `{}`)

	_, err := Locate(root)
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("error = %v, want ErrNotInitialized", err)
	}
}

func TestLocateMalformedConfigIsAnError(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"bad json", ConfigFile, `{"directory": `},
		{"missing directory", ConfigFile, `{"typescript": true}`},
		{"absolute directory", ConfigFile, `{"directory": "/etc"}`},
		{"escaping directory", ConfigFile, `{"directory": "../outside"}`},
		{"bad legacy yaml", LegacyConfigFile, "directory: [unterminated\n"},
		{"legacy without directory", LegacyConfigFile, "other: value\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, filepath.Join(root, tt.file), tt.body)

			_, err := Locate(root)
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, ErrNotInitialized) {
				t.Errorf("malformed config must not look like an uninitialized project: %v", err)
			}
		})
	}
}

func TestInitWritesConfig(t *testing.T) {
	root := t.TempDir()

	cfg, err := Init(root, InitOptions{TypedMode: true, Directory: "src/lib/utils"})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if info, err := os.Stat(cfg.InstallRoot()); err != nil || !info.IsDir() {
		t.Errorf("install directory not created: %v", err)
	}

	located, err := Locate(root)
	if err != nil {
		t.Fatalf("Locate after Init: %v", err)
	}
	if !located.TypedMode || located.InstallDirectory != filepath.Join("src", "lib", "utils") {
		t.Errorf("Locate after Init = %+v", located)
	}

	if _, err := Init(root, InitOptions{}); err == nil {
		t.Error("second Init without Force should fail")
	}
	if _, err := Init(root, InitOptions{Force: true, Directory: "utils"}); err != nil {
		t.Errorf("Init with Force: %v", err)
	}
	located, err = Locate(root)
	if err != nil {
		t.Fatalf("Locate after forced Init: %v", err)
	}
	if located.TypedMode || located.InstallDirectory != "utils" {
		t.Errorf("Locate after forced Init = %+v", located)
	}
}
