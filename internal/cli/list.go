package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/utilkit-labs/utilkit/internal/installer"
	"github.com/utilkit-labs/utilkit/internal/project"
	"github.com/utilkit-labs/utilkit/internal/registry"
)

var (
	listCategory  string
	listInstalled bool
	listJSON      bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List utilities in the registry",
	Long: `List the utilities in the registry, grouped in registry order. Inside an
initialized project, utilities already copied into it are marked.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Only list utilities of this category")
	listCmd.Flags().BoolVar(&listInstalled, "installed", false, "Only list utilities installed in the project")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents a registry utility for display.
type listEntry struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Description  string   `json:"description,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	Installed    bool     `json:"installed"`
	Path         string   `json:"path,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	_, reg, err := loadRegistry()
	if err != nil {
		return err
	}

	if listCategory != "" && !reg.HasCategory(listCategory) {
		return fmt.Errorf("unknown category %q", listCategory)
	}

	cfg, err := locateProject()
	if err != nil {
		if listInstalled || !errors.Is(err, project.ErrNotInitialized) {
			return err
		}
	}

	utilities := reg.Utilities()
	if listCategory != "" {
		utilities = reg.FindByCategory(listCategory)
	}

	var entries []listEntry
	for _, u := range utilities {
		entry := listEntry{
			Name:         u.Name,
			Category:     u.Category,
			Description:  u.Description,
			Dependencies: u.Dependencies,
		}
		if cfg != nil {
			entry.Path, entry.Installed = installer.InstalledPath(cfg, u)
		}
		if listInstalled && !entry.Installed {
			continue
		}
		entries = append(entries, entry)
	}

	if listJSON {
		return printListJSON(cmd, entries)
	}

	if len(entries) == 0 {
		if listInstalled {
			fmt.Fprintln(cmd.OutOrStdout(), "No utilities installed yet.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No utilities found.")
		}
		return nil
	}
	return printListTable(cmd, reg, entries, cfg != nil)
}

func printListTable(cmd *cobra.Command, reg *registry.Registry, entries []listEntry, marks bool) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	if marks {
		fmt.Fprintln(w, "\tCATEGORY\tNAME\tDESCRIPTION")
	} else {
		fmt.Fprintln(w, "CATEGORY\tNAME\tDESCRIPTION")
	}
	for _, e := range entries {
		desc := e.Description
		if desc == "" {
			desc = "-"
		}
		if marks {
			mark := " "
			if e.Installed {
				mark = "✓"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, e.Category, e.Name, truncate(desc, 60))
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Category, e.Name, truncate(desc, 60))
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !listInstalled {
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render(fmt.Sprintf("%d utilities in %d categories (registry %s)",
			len(entries), len(reg.Categories()), reg.Version())))
	}
	return nil
}

func printListJSON(cmd *cobra.Command, entries []listEntry) error {
	if entries == nil {
		entries = []listEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
