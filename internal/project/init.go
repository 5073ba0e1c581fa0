package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// InitOptions configures a new utilkit.json.
type InitOptions struct {
	TypedMode bool
	Directory string
	Force     bool // overwrite an existing utilkit.json
}

// Init writes utilkit.json at root, creates the install directory and returns
// the resulting Config.
func Init(root string, opts InitOptions) (*Config, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	dir := opts.Directory
	if dir == "" {
		dir = DefaultDirectories[0]
	}
	if err := checkRelative(dir); err != nil {
		return nil, err
	}

	path := ConfigPath(abs)
	if _, err := os.Stat(path); err == nil && !opts.Force {
		return nil, fmt.Errorf("project already initialized: %s exists", path)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set("$schema", SchemaURL)
	v.Set("typescript", opts.TypedMode)
	v.Set("directory", filepath.ToSlash(filepath.Clean(dir)))
	if err := v.WriteConfigAs(path); err != nil {
		return nil, fmt.Errorf("writing %s: %w", ConfigFile, err)
	}

	cfg := &Config{
		TypedMode:        opts.TypedMode,
		InstallDirectory: filepath.Clean(dir),
		RootPath:         abs,
		Origin:           OriginConfig,
	}
	if err := os.MkdirAll(cfg.InstallRoot(), 0755); err != nil {
		return nil, fmt.Errorf("creating install directory: %w", err)
	}
	return cfg, nil
}

// ConfigPath returns the full path to utilkit.json for a project.
func ConfigPath(root string) string {
	return filepath.Join(root, ConfigFile)
}
