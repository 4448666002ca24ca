// Terminal output helpers for the coffeeshop CLI.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	primaryStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)

// printer writes either styled text or indented JSON.
type printer struct {
	out  io.Writer
	json bool
}

// emit writes v as JSON in JSON mode, otherwise calls human.
func (p printer) emit(v any, human func()) error {
	if p.json {
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	human()
	return nil
}

func (p printer) success(format string, args ...any) {
	fmt.Fprint(p.out, successStyle.Render("✓ "))
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p printer) warning(format string, args ...any) {
	fmt.Fprint(p.out, warningStyle.Render("⚠ "))
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p printer) muted(format string, args ...any) {
	fmt.Fprintln(p.out, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

func (p printer) section(title string) {
	fmt.Fprintln(p.out, primaryStyle.Render(title))
	fmt.Fprintln(p.out, mutedStyle.Render(strings.Repeat("═", lipgloss.Width(title))))
}

// table prints rows under header, aligned by tabwriter, trimming trailing
// padding from each line.
func (p printer) table(header []string, rows [][]string) {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	rule := make([]string, len(header))
	for i, h := range header {
		rule[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	fmt.Fprintln(w, strings.Join(rule, "\t"))
	for _, r := range rows {
		fmt.Fprintln(w, strings.Join(r, "\t"))
	}
	w.Flush()

	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		fmt.Fprintln(p.out, strings.TrimRight(line, " "))
	}
}

// printError writes err to w in the error style.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("✗ ")+err.Error())
}
