package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/utilkit-labs/utilkit/internal/branding"
	"github.com/utilkit-labs/utilkit/internal/installer"
)

var removeCmd = &cobra.Command{
	Use:     "remove <names...>",
	Aliases: []string{"rm"},
	Short:   "Delete installed utilities from the project",
	Long: `Delete the installed files of one or more utilities. Dependencies are not
removed automatically; utilities that nothing needs any more are listed as
suggestions afterwards.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	lib, reg, err := loadRegistry()
	if err != nil {
		return err
	}
	cfg, err := locateProject()
	if err != nil {
		return err
	}
	in, err := newInstaller(lib, "")
	if err != nil {
		return err
	}

	results := in.RemoveAll(reg, args, cfg)
	renderRemovalResults(out, results)

	lock := loadLock(cfg)
	installer.RecordRemoval(lock, results)
	saveLock(cfg, lock)

	orphans := installer.FindOrphans(reg, cfg, lock)
	if len(orphans) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, warningStyle.Render("No installed utility depends on these any more:"))
		for _, name := range orphans {
			fmt.Fprintf(out, "  %s\n", nameStyle.Render(name))
		}
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("Remove them with: %s remove %s", branding.CLIName(), strings.Join(orphans, " "))))
	}
	return nil
}
