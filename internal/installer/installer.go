package installer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/utilkit-labs/utilkit/internal/project"
	"github.com/utilkit-labs/utilkit/internal/registry"
	"github.com/utilkit-labs/utilkit/internal/source"
	"github.com/utilkit-labs/utilkit/internal/transform"
)

// Status is the outcome of installing one utility.
type Status string

const (
	StatusInstalled   Status = "installed"
	StatusOverwritten Status = "overwritten"
	StatusSkipped     Status = "skipped"
	StatusFailed      Status = "failed"
)

// Result describes what happened to one utility of a batch.
type Result struct {
	Name         string
	Status       Status
	Path         string // absolute target path, when known
	Err          error
	IsDependency bool
}

// Options controls InstallAll.
type Options struct {
	Overwrite bool
}

// Installer copies utility source into a project.
type Installer struct {
	Sources     source.Chain
	Transformer transform.Transformer
	Logger      *slog.Logger
}

// New returns an Installer. A nil transformer selects the auto strategy and
// a nil logger discards output.
func New(sources source.Chain, tr transform.Transformer, logger *slog.Logger) *Installer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if tr == nil {
		tr = transform.Auto(logger)
	}
	return &Installer{Sources: sources, Transformer: tr, Logger: logger}
}

// InstallAll installs every utility of res.Order in sequence.
func (in *Installer) InstallAll(reg *registry.Registry, res *registry.Resolution, cfg *project.Config, opts Options) []Result {
	results := make([]Result, 0, len(res.Order))
	for _, name := range res.Order {
		r := in.install(reg, name, cfg, opts)
		r.IsDependency = res.IsDependency(name)
		if r.Err != nil {
			in.Logger.Warn("install failed", "utility", name, "error", r.Err)
		} else {
			in.Logger.Debug("install", "utility", name, "status", r.Status, "path", r.Path)
		}
		results = append(results, r)
	}
	return results
}

func (in *Installer) install(reg *registry.Registry, name string, cfg *project.Config, opts Options) Result {
	meta, ok := reg.FindByName(name)
	if !ok {
		return Result{Name: name, Status: StatusFailed, Err: &registry.UnknownUtilityError{Name: name}}
	}

	target := TargetPath(cfg, meta)
	existing := installedPaths(cfg, meta)
	if len(existing) > 0 && !opts.Overwrite {
		return Result{Name: name, Status: StatusSkipped, Path: existing[0]}
	}

	content, err := in.Sources.Resolve(meta)
	if err != nil {
		return Result{Name: name, Status: StatusFailed, Path: target, Err: err}
	}

	text, err := in.convert(content, cfg)
	if err != nil {
		return Result{Name: name, Status: StatusFailed, Path: target,
			Err: fmt.Errorf("transforming %s: %w", content.Origin, err)}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return Result{Name: name, Status: StatusFailed, Path: target, Err: fmt.Errorf("creating directory: %w", err)}
	}
	if err := os.WriteFile(target, []byte(text), 0644); err != nil {
		return Result{Name: name, Status: StatusFailed, Path: target, Err: fmt.Errorf("writing %s: %w", target, err)}
	}

	// A file left behind by the other language mode is replaced by target.
	for _, old := range existing {
		if old != target {
			if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
				in.Logger.Warn("could not remove stale variant", "path", old, "error", err)
			}
		}
	}

	if len(existing) > 0 {
		return Result{Name: name, Status: StatusOverwritten, Path: target}
	}
	return Result{Name: name, Status: StatusInstalled, Path: target}
}

// convert adapts content to the project's language mode.
func (in *Installer) convert(content source.Content, cfg *project.Config) (string, error) {
	switch {
	case content.Typed && !cfg.TypedMode:
		return in.Transformer.Strip(content.Text, transform.Options{JSX: content.JSX})
	case !content.Typed && cfg.TypedMode:
		return transform.Annotate(content.Text), nil
	default:
		return content.Text, nil
	}
}

// TargetPath returns where meta is installed in cfg's language mode:
// <install root>/<category>/<base><ext>.
func TargetPath(cfg *project.Config, meta registry.UtilityMeta) string {
	typedExt, untypedExt := extensions(meta)
	ext := untypedExt
	if cfg.TypedMode {
		ext = typedExt
	}
	return filepath.Join(cfg.InstallRoot(), meta.Category, baseName(meta)+ext)
}

// InstalledPath returns the existing installed file for meta, checking the
// current language mode first and then the other one.
func InstalledPath(cfg *project.Config, meta registry.UtilityMeta) (string, bool) {
	paths := installedPaths(cfg, meta)
	if len(paths) == 0 {
		return "", false
	}
	return paths[0], true
}

// IsInstalled reports whether meta exists in the project under either
// extension.
func IsInstalled(cfg *project.Config, meta registry.UtilityMeta) bool {
	_, ok := InstalledPath(cfg, meta)
	return ok
}

func installedPaths(cfg *project.Config, meta registry.UtilityMeta) []string {
	typedExt, untypedExt := extensions(meta)
	order := []string{typedExt, untypedExt}
	if !cfg.TypedMode {
		order = []string{untypedExt, typedExt}
	}

	var found []string
	dir := filepath.Join(cfg.InstallRoot(), meta.Category)
	for _, ext := range order {
		path := filepath.Join(dir, baseName(meta)+ext)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			found = append(found, path)
		}
	}
	return found
}

func extensions(meta registry.UtilityMeta) (typed, untyped string) {
	if _, jsx := source.Syntax(meta.File); jsx {
		return ".tsx", ".jsx"
	}
	return ".ts", ".js"
}

func baseName(meta registry.UtilityMeta) string {
	base := filepath.Base(filepath.FromSlash(meta.File))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
