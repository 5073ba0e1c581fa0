// Package config manages user-level settings stored at ~/.utilkit/config.yaml.
// It provides functions to load, read, and write keys such as the preferred
// type-transform strategy and a registry path override.
package config
