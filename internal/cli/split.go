package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/utilkit-labs/utilkit/internal/transform"
)

var (
	splitOut      string
	splitCategory string
	splitForce    bool
	splitDryRun   bool
	splitEntries  bool
)

var splitCmd = &cobra.Command{
	Use:   "split <file>",
	Short: "Split a module into one file per top-level function",
	Long: `Cut every top-level function of a TypeScript or JavaScript module into its own
file named after the function, the layout the library's source directories use.
Each file keeps the function's doc comment, the imports it uses and the
top-level declarations it needs; references between the functions become
relative imports.

Existing files are left alone unless --force is given. With --entries, registry
entries for the new files are printed as JSON and the file report goes to stderr.`,
	Example: `  utilkit split src/all.ts --out library/src/dom
  utilkit split helpers.js --dry-run --entries --category dom`,
	Args: cobra.ExactArgs(1),
	RunE: runSplit,
}

func init() {
	splitCmd.Flags().StringVarP(&splitOut, "out", "o", "", "Directory to write the files to (default: the input file's directory)")
	splitCmd.Flags().StringVarP(&splitCategory, "category", "c", "", "Category for --entries (default: the output directory's name)")
	splitCmd.Flags().BoolVar(&splitForce, "force", false, "Replace files that already exist")
	splitCmd.Flags().BoolVar(&splitDryRun, "dry-run", false, "Print the files that would be written without writing them")
	splitCmd.Flags().BoolVar(&splitEntries, "entries", false, "Print registry entries for the functions as JSON")
	rootCmd.AddCommand(splitCmd)
}

var splitExtensions = map[string]bool{".ts": true, ".tsx": true, ".js": true, ".jsx": true}

// splitEntry is a registry utility entry for a split-out function.
type splitEntry struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	File         string   `json:"file"`
	Description  string   `json:"description,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

func runSplit(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	input := resolvePath(root, args[0])
	ext := filepath.Ext(input)
	if !splitExtensions[ext] {
		return fmt.Errorf("%s is not a TypeScript or JavaScript module", args[0])
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	fns, err := transform.Split(string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	logger.Debug("split", "file", input, "functions", len(fns))

	report := cmd.OutOrStdout()
	if splitEntries {
		report = cmd.ErrOrStderr()
	}
	if len(fns) == 0 {
		fmt.Fprintf(report, "No top-level functions found in %s.\n", args[0])
		if splitEntries {
			return printSplitEntries(cmd, []splitEntry{})
		}
		return nil
	}

	dir := filepath.Dir(input)
	if splitOut != "" {
		dir = resolvePath(root, splitOut)
	}
	category := splitCategory
	if category == "" {
		category = filepath.Base(dir)
	}
	if !splitDryRun {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	written, skipped := 0, 0
	entries := make([]splitEntry, 0, len(fns))
	for _, fn := range fns {
		file := fn.Name + ext
		path := filepath.Join(dir, file)
		entries = append(entries, splitEntry{
			Name:         fn.Name,
			Category:     category,
			File:         file,
			Description:  fn.Description,
			Dependencies: fn.Dependencies,
		})

		label := nameStyle.Render(fn.Name)
		switch {
		case path == input:
			skipped++
			fmt.Fprintf(report, "  %s %s %s\n", warningStyle.Render("-"), label, dimStyle.Render("skipped, it would replace the input file"))
		case fileExists(path) && !splitForce:
			skipped++
			fmt.Fprintf(report, "  %s %s %s\n", warningStyle.Render("-"), label, dimStyle.Render("skipped, already present"))
		case splitDryRun:
			written++
			fmt.Fprintf(report, "  %s %s %s\n", dimStyle.Render("+"), label, dimStyle.Render(path))
		default:
			if err := os.WriteFile(path, []byte(fn.Code), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			written++
			fmt.Fprintf(report, "  %s %s %s\n", statusMark(true), label, dimStyle.Render(path))
		}
	}

	fmt.Fprintln(report)
	switch {
	case splitDryRun:
		fmt.Fprintln(report, dimStyle.Render(printer.Sprintf(msgWouldWrite, written)))
	case written > 0:
		fmt.Fprintln(report, successStyle.Render(printer.Sprintf(msgWritten, written)))
	}
	if skipped > 0 {
		fmt.Fprintln(report, warningStyle.Render(printer.Sprintf(msgFilesSkipped, skipped)))
	}

	if splitEntries {
		return printSplitEntries(cmd, entries)
	}
	return nil
}

func printSplitEntries(cmd *cobra.Command, entries []splitEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

// resolvePath makes p absolute against the project root.
func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
