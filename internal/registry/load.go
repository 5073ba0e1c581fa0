package registry

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SupportedMajor is the highest registry format major version this build reads.
const SupportedMajor = 1

//go:embed schema/registry.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// LoadError reports a registry that could not be read or is structurally invalid.
type LoadError struct {
	Path   string
	Issues []string // schema violations, empty for I/O and syntax failures
	Err    error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("loading registry %s", e.Path)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if len(e.Issues) > 0 {
		msg += ": " + strings.Join(e.Issues, "; ")
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Err }

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("registry.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("registry.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Load reads registry.json from path, validates its structure and returns
// the indexed Registry. Every failure is a *LoadError.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return Parse(path, data)
}

// Parse validates and decodes registry JSON. path is used for error messages only.
func Parse(path string, data []byte) (*Registry, error) {
	issues, err := validateStructure(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if len(issues) > 0 {
		return nil, &LoadError{Path: path, Issues: issues, Err: errors.New("invalid registry structure")}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("decoding registry: %w", err)}
	}

	// Versions that are not semver are reported by ValidateIntegrity instead.
	if v, err := semver.NewVersion(strings.TrimPrefix(doc.Version, "v")); err == nil && v.Major() > SupportedMajor {
		return nil, &LoadError{
			Path: path,
			Err:  fmt.Errorf("registry version %s is newer than supported major version %d", doc.Version, SupportedMajor),
		}
	}

	return New(doc.Version, doc.Categories, doc.Utilities), nil
}

// validateStructure checks raw JSON against the embedded registry schema.
// The error return is for syntax or schema compilation failures; violations
// are returned as human-readable issues.
func validateStructure(data []byte) ([]string, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return nil, nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	var issues []string
	collectIssues(validationErr, &issues)
	if len(issues) == 0 {
		issues = append(issues, validationErr.Error())
	}
	return issues, nil
}

// collectIssues walks the ValidationError tree and records leaf errors as
// "path: message" strings.
func collectIssues(ve *jsonschema.ValidationError, issues *[]string) {
	if len(ve.Causes) == 0 {
		if ve.ErrorKind == nil {
			return
		}
		path := "/" + strings.Join(ve.InstanceLocation, "/")
		*issues = append(*issues, fmt.Sprintf("%s: %s", path, ve.ErrorKind.LocalizedString(printer)))
		return
	}
	for _, cause := range ve.Causes {
		collectIssues(cause, issues)
	}
}
