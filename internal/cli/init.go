package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/utilkit-labs/utilkit/internal/branding"
	"github.com/utilkit-labs/utilkit/internal/project"
)

var (
	initTypeScript bool
	initDir        string
	initForce      bool
)

func init() {
	initCmd.Flags().BoolVar(&initTypeScript, "typescript", false, "Install typed (.ts) sources; detected from tsconfig.json/package.json when unset")
	initCmd.Flags().StringVar(&initDir, "dir", "", "Install directory relative to the project root (default: an existing utils directory or src/utils)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing "+project.ConfigFile)
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create " + project.ConfigFile + " in the project",
	Long: `Create ` + project.ConfigFile + ` at the project root, recording where utilities are copied
and whether they are installed as TypeScript or JavaScript.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}

	typed := initTypeScript
	if !cmd.Flags().Changed("typescript") {
		typed, err = project.DetectTyped(root)
		if err != nil {
			return err
		}
		logger.Debug("detected language mode", "typed", typed)
	}

	dir := initDir
	if dir == "" {
		dir = existingUtilsDir(root)
	}

	cfg, err := project.Init(root, project.InitOptions{TypedMode: typed, Directory: dir, Force: initForce})
	if err != nil {
		return err
	}

	lang := "JavaScript"
	if cfg.TypedMode {
		lang = "TypeScript"
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s Wrote %s\n", statusMark(true), project.ConfigPath(cfg.RootPath))
	fmt.Fprintf(out, "  directory: %s\n", nameStyle.Render(filepath.ToSlash(cfg.InstallDirectory)))
	fmt.Fprintf(out, "  language:  %s\n", nameStyle.Render(lang))
	fmt.Fprintf(out, "\nNext: %s add <utility>\n", branding.CLIName())
	return nil
}

// existingUtilsDir returns the first conventional utils directory present
// under root, or "" to take the default.
func existingUtilsDir(root string) string {
	for _, dir := range project.DefaultDirectories {
		if info, err := os.Stat(filepath.Join(root, dir)); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}
