package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	enabledStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

const (
	minRenderWidth = 40
	detailPrefix   = "  > "
)

// Render lays the view out as terminal text no wider than width columns.
func (v View) Render(width int) string {
	if width < minRenderWidth {
		width = minRenderWidth
	}

	var b strings.Builder
	header := headerStyle.Render("Queue: " + v.Header)
	if v.ETA != "" {
		header += dimStyle.Render("  " + v.ETA)
	}
	b.WriteString(header)
	b.WriteString("\n")

	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(width/2))
	b.WriteString(bar.ViewAs(v.Progress))
	b.WriteString(" ")
	b.WriteString(fmt.Sprintf("%3.0f%%  %s", v.Progress*100, v.ProgressLabel))
	b.WriteString("\n")

	b.WriteString(renderControls(v.Controls))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Statistics"))
	b.WriteString("\n")
	for _, stat := range v.Statistics {
		b.WriteString(fmt.Sprintf("  %-14s %s\n", stat.Label+":", stat.Value))
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render(fmt.Sprintf("Active (%d)", len(v.Active))))
	b.WriteString("\n")
	if len(v.Active) == 0 {
		b.WriteString(dimStyle.Render("  Drop files here or press a to add files"))
		b.WriteString("\n")
	} else {
		b.WriteString(renderItems([]string{"File", "Priority", "Status", "Added"}, v.Active, width))
		b.WriteString("\n")
	}

	if len(v.Recent) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(fmt.Sprintf("Recent (%d)", len(v.Recent))))
		b.WriteString("\n")
		b.WriteString(renderItems([]string{"File", "Priority", "Status", "Finished"}, v.Recent, width))
		b.WriteString("\n")
	}

	if len(v.Errors) > 0 {
		b.WriteString("\n")
		for _, msg := range v.Errors {
			b.WriteString(errorStyle.Render("! " + msg))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderControls(c Controls) string {
	buttons := []struct {
		label   string
		key     string
		enabled bool
	}{
		{"start", "s", c.Start},
		{"pause", "p", c.Pause},
		{"stop", "x", c.Stop},
		{"repeat", "r", c.Repeat},
		{"clear", "c", c.Clear},
	}
	parts := make([]string, 0, len(buttons))
	for _, btn := range buttons {
		label := fmt.Sprintf("[%s] %s", btn.key, btn.label)
		if btn.enabled {
			parts = append(parts, enabledStyle.Render(label))
		} else {
			parts = append(parts, disabledStyle.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

func renderItems(headers []string, rows []ItemRow, width int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Options.SeparateRows = false
	tw.SetAllowedRowLength(width)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		tw.AppendRow(table.Row{row.Name, row.Priority, row.Status, row.When})
		for _, detail := range row.Details {
			tw.AppendRow(table.Row{detailPrefix + detail, "", "", ""})
		}
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMax: width / 2},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft},
		{Number: 4, Align: text.AlignRight},
	})
	return tw.Render()
}

// renderNotice formats a transient notice line.
func renderNotice(n Notice) string {
	if n.Level == NoticeError {
		return errorStyle.Render(n.Message)
	}
	return infoStyle.Render(n.Message)
}
