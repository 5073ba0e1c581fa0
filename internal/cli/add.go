package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/utilkit-labs/utilkit/internal/installer"
	"github.com/utilkit-labs/utilkit/internal/project"
	"github.com/utilkit-labs/utilkit/internal/registry"
)

var (
	addOverwrite bool
	addNoDeps    bool
	addDryRun    bool
	addTransform string
)

var addCmd = &cobra.Command{
	Use:   "add <names...>",
	Short: "Copy utilities and their dependencies into the project",
	Long: `Copy one or more utilities into the project's utility directory. A category
name adds every utility in that category. Dependencies are resolved and copied
first; use --no-deps to copy only the direct dependencies of each name.

Existing files are left alone unless --overwrite is given.`,
	Example: `  utilkit add debounce
  utilkit add async strings/slugify
  utilkit add throttle --overwrite --dry-run`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().BoolVar(&addOverwrite, "overwrite", false, "Replace utilities that are already installed")
	addCmd.Flags().BoolVar(&addNoDeps, "no-deps", false, "Collect only direct dependencies, not the full closure")
	addCmd.Flags().BoolVar(&addDryRun, "dry-run", false, "Print the install plan without writing files")
	addCmd.Flags().StringVar(&addTransform, "transform", "", "Type strip strategy: auto, esbuild or regex (default from config)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	lib, reg, err := loadRegistry()
	if err != nil {
		return err
	}

	res, err := registry.Resolve(reg, args, registry.ResolveOptions{IncludeTransitive: !addNoDeps})
	if err != nil {
		var unknown *registry.UnknownUtilityError
		if errors.As(err, &unknown) && unknown.RequiredBy == "" {
			printSuggestions(cmd, reg, unknown.Name)
		}
		return err
	}

	if addDryRun {
		var installed registry.InstalledFunc
		cfg, err := locateProject()
		switch {
		case err == nil:
			installed = func(name string) bool {
				meta, ok := reg.FindByName(name)
				return ok && installer.IsInstalled(cfg, meta)
			}
		case errors.Is(err, project.ErrNotInitialized):
			logger.Debug("dry run without an initialized project", "error", err)
		default:
			return err
		}
		registry.PrintPlan(out, reg, res, installed)
		return nil
	}

	cfg, err := locateProject()
	if err != nil {
		return err
	}
	in, err := newInstaller(lib, addTransform)
	if err != nil {
		return err
	}

	logger.Debug("installing", "order", strings.Join(res.Order, ","), "transform", in.Transformer.Name())
	fmt.Fprintf(out, "Adding to %s\n\n", dimStyle.Render(cfg.InstallRoot()))

	results := in.InstallAll(reg, res, cfg, installer.Options{Overwrite: addOverwrite})
	renderInstallResults(out, results)

	lock := loadLock(cfg)
	installer.RecordInstall(lock, reg, res, results)
	saveLock(cfg, lock)
	return nil
}

// printSuggestions lists close registry names for a name that did not
// resolve.
func printSuggestions(cmd *cobra.Command, reg *registry.Registry, name string) {
	suggestions := reg.Suggest(name, 5)
	if len(suggestions) == 0 {
		return
	}
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "%s %q is not a utility or category. Did you mean:\n", warningStyle.Render("!"), name)
	for _, s := range suggestions {
		fmt.Fprintf(w, "  %s\n", nameStyle.Render(s))
	}
	fmt.Fprintln(w)
}
