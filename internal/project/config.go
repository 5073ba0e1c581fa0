package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

const (
	// ConfigFile is the current project config format (JSON).
	ConfigFile = "utilkit.json"
	// LegacyConfigFile is the older YAML format; it only records the directory.
	LegacyConfigFile = ".utilkitrc"
	// SchemaURL is written into new config files for editor completion.
	SchemaURL = "https://utilkit.dev/schema/config.json"
)

// DefaultDirectories are checked in order when no config file exists.
var DefaultDirectories = []string{
	filepath.Join("src", "utils"),
	"utils",
	filepath.Join("lib", "utils"),
}

// ErrNotInitialized means no config file and no conventional utils directory
// was found. Commands that need a project must stop and ask for init.
var ErrNotInitialized = errors.New("project is not initialized")

// Origin records which signal produced a Config.
type Origin string

const (
	OriginConfig   Origin = "config"
	OriginLegacy   Origin = "legacy-config"
	OriginDetected Origin = "detected"
)

// Config is the resolved installation target of a project.
type Config struct {
	TypedMode        bool
	InstallDirectory string // relative to RootPath
	RootPath         string // absolute
	Origin           Origin
}

// InstallRoot returns the absolute install directory.
func (c *Config) InstallRoot() string {
	return filepath.Join(c.RootPath, c.InstallDirectory)
}

type legacyConfig struct {
	Directory string `yaml:"directory"`
}

// Locate resolves the project config for root. Precedence: utilkit.json,
// then .utilkitrc, then the first existing DefaultDirectories entry with the
// language mode detected from project markers. It returns ErrNotInitialized
// when nothing matches. Unreadable or malformed config files are returned as
// errors rather than treated as absent.
func Locate(root string) (*Config, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	if cfg, err := readConfig(abs); err != nil || cfg != nil {
		return cfg, err
	}
	if cfg, err := readLegacyConfig(abs); err != nil || cfg != nil {
		return cfg, err
	}

	for _, dir := range DefaultDirectories {
		info, err := os.Stat(filepath.Join(abs, dir))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("checking %s: %w", dir, err)
		}
		if !info.IsDir() {
			continue
		}
		typed, err := DetectTyped(abs)
		if err != nil {
			return nil, err
		}
		return &Config{
			TypedMode:        typed,
			InstallDirectory: dir,
			RootPath:         abs,
			Origin:           OriginDetected,
		}, nil
	}

	return nil, ErrNotInitialized
}

// readConfig returns nil, nil when utilkit.json does not exist.
func readConfig(root string) (*Config, error) {
	path := filepath.Join(root, ConfigFile)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("checking %s: %w", ConfigFile, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", ConfigFile, err)
	}

	dir := strings.TrimSpace(v.GetString("directory"))
	if dir == "" {
		return nil, fmt.Errorf("%s: missing \"directory\"", ConfigFile)
	}
	if err := checkRelative(dir); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigFile, err)
	}

	return &Config{
		TypedMode:        v.GetBool("typescript"),
		InstallDirectory: filepath.Clean(dir),
		RootPath:         root,
		Origin:           OriginConfig,
	}, nil
}

// readLegacyConfig returns nil, nil when .utilkitrc does not exist.
func readLegacyConfig(root string) (*Config, error) {
	path := filepath.Join(root, LegacyConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", LegacyConfigFile, err)
	}

	var legacy legacyConfig
	if err := yaml.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", LegacyConfigFile, err)
	}
	dir := strings.TrimSpace(legacy.Directory)
	if dir == "" {
		return nil, fmt.Errorf("%s: missing \"directory\"", LegacyConfigFile)
	}
	if err := checkRelative(dir); err != nil {
		return nil, fmt.Errorf("%s: %w", LegacyConfigFile, err)
	}

	return &Config{
		TypedMode:        true,
		InstallDirectory: filepath.Clean(dir),
		RootPath:         root,
		Origin:           OriginLegacy,
	}, nil
}

func checkRelative(dir string) error {
	if filepath.IsAbs(dir) {
		return fmt.Errorf("directory %q must be relative to the project root", dir)
	}
	clean := filepath.Clean(dir)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("directory %q escapes the project root", dir)
	}
	return nil
}
