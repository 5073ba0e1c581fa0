package transform

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// ESBuild strips types with esbuild's TypeScript parser. It understands the
// whole language (enums, parameter properties, overloads) but reprints the
// code, so ordinary comments are dropped and formatting is normalized.
type ESBuild struct{}

func (ESBuild) Name() string { return "esbuild" }

func (ESBuild) Strip(code string, opts Options) (string, error) {
	loader := api.LoaderTS
	if opts.JSX {
		loader = api.LoaderTSX
	}

	result := api.Transform(code, api.TransformOptions{
		Loader:        loader,
		Target:        api.ESNext,
		JSX:           api.JSXPreserve,
		LegalComments: api.LegalCommentsInline,
		Charset:       api.CharsetUTF8,
	})
	if err := messagesError(result.Errors); err != nil {
		return "", err
	}
	return string(result.Code), nil
}

// CheckJS parses code as JavaScript (JSX when opts.JSX is set) and reports
// the first syntax errors found. The code itself is not rewritten.
func CheckJS(code string, opts Options) error {
	loader := api.LoaderJS
	if opts.JSX {
		loader = api.LoaderJSX
	}
	result := api.Transform(code, api.TransformOptions{
		Loader: loader,
		Target: api.ESNext,
		JSX:    api.JSXPreserve,
	})
	return messagesError(result.Errors)
}

func messagesError(errs []api.Message) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, m := range errs {
		if m.Location != nil {
			msgs = append(msgs, fmt.Sprintf("%d:%d: %s", m.Location.Line, m.Location.Column, m.Text))
		} else {
			msgs = append(msgs, m.Text)
		}
	}
	return fmt.Errorf("esbuild: %s", strings.Join(msgs, "; "))
}
