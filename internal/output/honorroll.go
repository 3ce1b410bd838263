package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// printHonorRoll closes the footer of a batch in which every report earned
// an A. Only called when writing to a terminal.
func printHonorRoll(w io.Writer, footer string) {
	badge := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	text := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)

	fmt.Fprintf(w, "%s %s\n", badge.Render("🎉"), text.Render(footer))
	fmt.Fprintln(w, badge.Render("   Honor roll: every report earned an A"))
}
