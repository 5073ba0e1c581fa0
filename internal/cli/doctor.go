package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"github.com/utilkit-labs/utilkit/internal/config"
	"github.com/utilkit-labs/utilkit/internal/installer"
	"github.com/utilkit-labs/utilkit/internal/project"
	"github.com/utilkit-labs/utilkit/internal/registry"
	"github.com/utilkit-labs/utilkit/internal/source"
	"github.com/utilkit-labs/utilkit/internal/transform"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the utility library and the current project",
	Long: `Run diagnostic checks: locate the library, validate the registry and its
cross-references, confirm every utility has a source file, and inspect the
project config and lock file.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

// checkReport tallies doctor output lines.
type checkReport struct {
	w        io.Writer
	failures int
	warnings int
}

func (r *checkReport) ok(format string, a ...any) {
	fmt.Fprintf(r.w, "  %s %s\n", successStyle.Render("[ OK ]"), fmt.Sprintf(format, a...))
}

func (r *checkReport) warn(format string, a ...any) {
	r.warnings++
	fmt.Fprintf(r.w, "  %s %s\n", warningStyle.Render("[WARN]"), fmt.Sprintf(format, a...))
}

func (r *checkReport) fail(format string, a ...any) {
	r.failures++
	fmt.Fprintf(r.w, "  %s %s\n", errorStyle.Render("[FAIL]"), fmt.Sprintf(format, a...))
}

func (r *checkReport) info(format string, a ...any) {
	fmt.Fprintf(r.w, "  %s %s\n", dimStyle.Render("[INFO]"), fmt.Sprintf(format, a...))
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	report := &checkReport{w: out}

	fmt.Fprintln(out, headerStyle.Render("Library"))
	reg := checkLibrary(report)

	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render("Project"))
	checkProject(report, reg)

	fmt.Fprintln(out)
	if report.failures > 0 {
		return fmt.Errorf("doctor found %d failing and %d warning checks", report.failures, report.warnings)
	}
	if report.warnings > 0 {
		fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("Done with %d warnings.", report.warnings)))
		return nil
	}
	fmt.Fprintln(out, successStyle.Render("Everything looks good."))
	return nil
}

func checkLibrary(r *checkReport) *registry.Registry {
	lib, path, err := findLibrary()
	if err != nil {
		r.fail("%v", err)
		return nil
	}
	r.ok("library at %s", lib.Root)

	reg, err := registry.Load(path)
	if err != nil {
		r.fail("%v", err)
		return nil
	}
	r.ok("registry %s: %d utilities, %d categories", reg.Version(), reg.Len(), len(reg.Categories()))

	problems := reg.ValidateIntegrity()
	for _, p := range problems {
		r.warn("%s", p)
	}
	if len(problems) == 0 {
		r.ok("registry cross-references are consistent")
	}

	generated, err := source.LoadGenerated(lib.GeneratedPath())
	if err != nil {
		r.fail("%v", err)
		return reg
	}
	chain := source.NewLibraryChain(lib, generated)
	missing := 0
	for _, u := range reg.Utilities() {
		if _, err := chain.Resolve(u); err != nil {
			missing++
			r.fail("%v", err)
		}
	}
	if missing == 0 {
		r.ok("every utility has a source")
	}

	strategy := config.Get(config.KeyTransform)
	if tr, err := transform.New(transform.Strategy(strategy), logger); err != nil {
		r.fail("%v", err)
	} else {
		r.ok("transform strategy %s", tr.Name())
	}
	return reg
}

func checkProject(r *checkReport, reg *registry.Registry) {
	cfg, err := locateProject()
	if errors.Is(err, project.ErrNotInitialized) {
		r.info("%v", err)
		return
	}
	if err != nil {
		r.fail("%v", err)
		return
	}

	lang := "JavaScript"
	if cfg.TypedMode {
		lang = "TypeScript"
	}
	r.ok("%s project, installing into %s (%s)", lang, cfg.InstallDirectory, cfg.Origin)
	if cfg.Origin == project.OriginLegacy {
		r.warn("%s is deprecated; run 'init --force' to write %s", project.LegacyConfigFile, project.ConfigFile)
	}

	lock, err := project.LoadLock(cfg.RootPath)
	if err != nil {
		r.fail("%v", err)
		return
	}
	if reg == nil {
		return
	}

	installed := 0
	for _, u := range reg.Utilities() {
		if !installer.IsInstalled(cfg, u) {
			continue
		}
		installed++
		if _, ok := lock.Utilities[u.Name]; !ok {
			r.info("%s is installed but not recorded in %s", u.Name, project.LockFile)
		}
	}
	names := make([]string, 0, len(lock.Utilities))
	for name := range lock.Utilities {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		meta, ok := reg.FindByName(name)
		switch {
		case !ok:
			r.warn("%s records %s, which is not in the registry", project.LockFile, name)
		case !installer.IsInstalled(cfg, meta):
			r.warn("%s records %s, but its file is missing", project.LockFile, name)
		}
	}
	r.ok("%s", printer.Sprintf(msgInstalled, installed))
}
