package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// typedMarkers are files whose presence marks a TypeScript project.
var typedMarkers = []string{"tsconfig.json", "tsconfig.base.json"}

type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// DetectTyped guesses whether the project at root is a TypeScript project:
// a tsconfig file, or a package.json that depends on typescript or any
// @types/* package. A missing package.json is not an error; an unparsable
// one is.
func DetectTyped(root string) (bool, error) {
	for _, marker := range typedMarkers {
		if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
			return true, nil
		}
	}

	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading package.json: %w", err)
	}

	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return false, fmt.Errorf("parsing package.json: %w", err)
	}
	for _, deps := range []map[string]string{pkg.Dependencies, pkg.DevDependencies} {
		for name := range deps {
			if name == "typescript" || strings.HasPrefix(name, "@types/") {
				return true, nil
			}
		}
	}
	return false, nil
}
