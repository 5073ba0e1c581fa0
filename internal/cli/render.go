package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/utilkit-labs/utilkit/internal/installer"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorAccent  = lipgloss.Color("#06B6D4")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	nameStyle    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Summary lines with counts go through printer so that singular and plural
// forms read correctly.
var printer = message.NewPrinter(language.English)

const (
	msgInstalled    = "%d utilities installed"
	msgOverwritten  = "%d utilities overwritten"
	msgSkipped      = "%d utilities skipped (already present, use --overwrite to replace)"
	msgFailed       = "%d utilities failed"
	msgRemoved      = "%d utilities removed"
	msgNotInstalled = "%d utilities were not installed"
	msgNotFound     = "%d names not found in the registry"
	msgFound        = "%d matches"
	msgWritten      = "%d files written"
	msgWouldWrite   = "%d files would be written"
	msgFilesSkipped = "%d files skipped (already present, use --force to replace)"
)

func init() {
	set := func(key, one string) {
		_ = message.Set(language.English, key, plural.Selectf(1, "%d",
			"=1", one,
			"other", key,
		))
	}
	set(msgInstalled, "%d utility installed")
	set(msgOverwritten, "%d utility overwritten")
	set(msgSkipped, "%d utility skipped (already present, use --overwrite to replace)")
	set(msgFailed, "%d utility failed")
	set(msgRemoved, "%d utility removed")
	set(msgNotInstalled, "%d utility was not installed")
	set(msgNotFound, "%d name not found in the registry")
	set(msgFound, "%d match")
	set(msgWritten, "%d file written")
	set(msgWouldWrite, "%d file would be written")
	set(msgFilesSkipped, "%d file skipped (already present, use --force to replace)")
}

func statusMark(ok bool) string {
	if ok {
		return successStyle.Render("✓")
	}
	return errorStyle.Render("✗")
}

// renderInstallResults prints one line per result followed by grouped
// counts.
func renderInstallResults(w io.Writer, results []installer.Result) {
	counts := make(map[installer.Status]int)
	for _, r := range results {
		counts[r.Status]++

		label := nameStyle.Render(r.Name)
		if r.IsDependency {
			label += dimStyle.Render(" (dependency)")
		}
		switch r.Status {
		case installer.StatusFailed:
			fmt.Fprintf(w, "  %s %s: %v\n", statusMark(false), label, r.Err)
		case installer.StatusSkipped:
			fmt.Fprintf(w, "  %s %s %s\n", warningStyle.Render("-"), label, dimStyle.Render("skipped"))
		default:
			fmt.Fprintf(w, "  %s %s %s\n", statusMark(true), label, dimStyle.Render(string(r.Status)+" "+r.Path))
		}
	}

	fmt.Fprintln(w)
	if n := counts[installer.StatusInstalled]; n > 0 {
		fmt.Fprintln(w, successStyle.Render(printer.Sprintf(msgInstalled, n)))
	}
	if n := counts[installer.StatusOverwritten]; n > 0 {
		fmt.Fprintln(w, successStyle.Render(printer.Sprintf(msgOverwritten, n)))
	}
	if n := counts[installer.StatusSkipped]; n > 0 {
		fmt.Fprintln(w, warningStyle.Render(printer.Sprintf(msgSkipped, n)))
	}
	if n := counts[installer.StatusFailed]; n > 0 {
		fmt.Fprintln(w, errorStyle.Render(printer.Sprintf(msgFailed, n)))
	}
}

func renderRemovalResults(w io.Writer, results []installer.RemovalResult) {
	counts := make(map[installer.RemovalStatus]int)
	for _, r := range results {
		counts[r.Status]++
		label := nameStyle.Render(r.Name)
		switch r.Status {
		case installer.StatusRemoved:
			fmt.Fprintf(w, "  %s %s %s\n", statusMark(true), label, dimStyle.Render(r.Path))
		case installer.StatusRemoveFailed:
			fmt.Fprintf(w, "  %s %s: %v\n", statusMark(false), label, r.Err)
		default:
			fmt.Fprintf(w, "  %s %s %s\n", warningStyle.Render("-"), label, dimStyle.Render(strings.ReplaceAll(string(r.Status), "_", " ")))
		}
	}

	fmt.Fprintln(w)
	if n := counts[installer.StatusRemoved]; n > 0 {
		fmt.Fprintln(w, successStyle.Render(printer.Sprintf(msgRemoved, n)))
	}
	if n := counts[installer.StatusNotInstalled]; n > 0 {
		fmt.Fprintln(w, warningStyle.Render(printer.Sprintf(msgNotInstalled, n)))
	}
	if n := counts[installer.StatusNotFound]; n > 0 {
		fmt.Fprintln(w, warningStyle.Render(printer.Sprintf(msgNotFound, n)))
	}
	if n := counts[installer.StatusRemoveFailed]; n > 0 {
		fmt.Fprintln(w, errorStyle.Render(printer.Sprintf(msgFailed, n)))
	}
}

// truncate shortens s to n runes with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
