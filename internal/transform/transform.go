package transform

import (
	"fmt"
	"log/slog"
)

// Options describes the input being transformed.
type Options struct {
	JSX bool // source contains JSX (.tsx)
}

// Transformer removes TypeScript-only syntax while keeping runtime behavior.
type Transformer interface {
	Name() string
	Strip(code string, opts Options) (string, error)
}

// Strategy names a Transformer configuration.
type Strategy string

const (
	StrategyAuto    Strategy = "auto"    // regex checked by esbuild, falling back to esbuild
	StrategyESBuild Strategy = "esbuild" // esbuild only
	StrategyRegex   Strategy = "regex"   // regex only
)

// New returns the Transformer for a strategy name. An empty name means auto.
func New(strategy Strategy, logger *slog.Logger) (Transformer, error) {
	switch strategy {
	case StrategyAuto, "":
		return Auto(logger), nil
	case StrategyESBuild:
		return ESBuild{}, nil
	case StrategyRegex:
		return Regex{}, nil
	default:
		return nil, fmt.Errorf("unknown transform strategy %q (want auto, esbuild or regex)", strategy)
	}
}

// Auto returns the default Transformer. The regex strategy keeps comments
// and layout, so it runs first; its output must parse as JavaScript, and
// anything it cannot handle goes through esbuild instead.
func Auto(logger *slog.Logger) *Fallback {
	return &Fallback{Primary: Regex{}, Secondary: ESBuild{}, Check: CheckJS, Logger: logger}
}

// Fallback runs Primary and, if it fails or its output does not pass
// Check, Secondary.
type Fallback struct {
	Primary   Transformer
	Secondary Transformer
	Check     func(code string, opts Options) error // optional
	Logger    *slog.Logger
}

func (f *Fallback) Name() string {
	return f.Primary.Name() + "+" + f.Secondary.Name()
}

func (f *Fallback) Strip(code string, opts Options) (string, error) {
	out, err := f.Primary.Strip(code, opts)
	if err == nil && f.Check != nil {
		err = f.Check(out, opts)
	}
	if err == nil {
		return out, nil
	}
	if f.Logger != nil {
		f.Logger.Warn("transform failed, using fallback",
			"primary", f.Primary.Name(), "fallback", f.Secondary.Name(), "error", err)
	}
	out, err2 := f.Secondary.Strip(code, opts)
	if err2 != nil {
		return "", fmt.Errorf("%s: %v; %s: %w", f.Primary.Name(), err, f.Secondary.Name(), err2)
	}
	return out, nil
}
