package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/utilkit-labs/utilkit/internal/registry"
)

var (
	searchLimit       int
	searchCategory    string
	searchDescription bool
	searchJSON        bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the registry for utilities",
	Long: `Search utility names for query (case-insensitive substring). Exact matches
come first, then names starting with the query, then the rest by name.
Use --description to match descriptions as well.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "Maximum number of results (0 for all)")
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "Only search this category")
	searchCmd.Flags().BoolVarP(&searchDescription, "description", "d", false, "Also match descriptions")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(searchCmd)
}

// searchEntry represents a matching utility for display.
type searchEntry struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(args[0])
	if query == "" {
		return fmt.Errorf("search query is empty")
	}
	if searchLimit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	_, reg, err := loadRegistry()
	if err != nil {
		return err
	}
	if searchCategory != "" && !reg.HasCategory(searchCategory) {
		return fmt.Errorf("unknown category %q", searchCategory)
	}

	hits := reg.Search(query, registry.SearchOptions{
		Limit:              searchLimit,
		Category:           searchCategory,
		IncludeDescription: searchDescription,
	})

	entries := make([]searchEntry, 0, len(hits))
	for _, u := range hits {
		entries = append(entries, searchEntry{Name: u.Name, Category: u.Category, Description: u.Description})
	}

	if searchJSON {
		return printSearchJSON(cmd, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No utilities match %q.\n", query)
		if suggestions := reg.Suggest(query, 3); len(suggestions) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Did you mean: %s\n", strings.Join(suggestions, ", "))
		}
		return nil
	}
	return printSearchTable(cmd, entries)
}

func printSearchTable(cmd *cobra.Command, entries []searchEntry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tDESCRIPTION")
	for _, e := range entries {
		desc := e.Description
		if desc == "" {
			desc = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Category, truncate(desc, 60))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render(printer.Sprintf(msgFound, len(entries))))
	return nil
}

func printSearchJSON(cmd *cobra.Command, entries []searchEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
