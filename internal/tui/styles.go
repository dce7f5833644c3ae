// Package tui is the terminal surface of the admin console, built on huh forms
// and lipgloss rendering.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/msquare-market/admin/internal/console"
	"github.com/msquare-market/admin/internal/domain"
	"github.com/msquare-market/admin/internal/notify"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	warning   = lipgloss.AdaptiveColor{Light: "#FF7F11", Dark: "#FFA552"}
	danger    = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#F25F5C"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(0, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1)

	mutedStyle  = lipgloss.NewStyle().Foreground(subtle)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	headerCells = cellStyle.Bold(true).Foreground(highlight)

	toastStyles = map[notify.Level]lipgloss.Style{
		notify.LevelSuccess: lipgloss.NewStyle().Foreground(special),
		notify.LevelError:   lipgloss.NewStyle().Foreground(danger).Bold(true),
		notify.LevelWarning: lipgloss.NewStyle().Foreground(warning),
		notify.LevelInfo:    lipgloss.NewStyle(),
	}
)

const clearScreen = "\033[H\033[2J"

// RenderSnapshot draws the view as a table followed by a status line.
func RenderSnapshot(snap console.Snapshot) string {
	headers := make([]string, len(snap.Headers))
	for i, h := range snap.Headers {
		headers[i] = h + sortMark(snap.Sort, snap.Fields[i])
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(subtle)).
		Headers(headers...).
		Rows(snap.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCells
			}
			return cellStyle
		})

	var b strings.Builder
	b.WriteString(t.String())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(statusLine(snap)))
	return b.String()
}

func sortMark(model domain.SortModel, field string) string {
	for _, item := range model {
		if item.Field != field {
			continue
		}
		if item.Sort == domain.SortDesc {
			return " ▼"
		}
		return " ▲"
	}
	return ""
}

func statusLine(snap console.Snapshot) string {
	parts := []string{fmt.Sprintf("%d rows", len(snap.Rows))}
	if snap.Total > 0 {
		parts[0] = fmt.Sprintf("%d of %d rows", len(snap.Rows), snap.Total)
	}
	if snap.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", snap.Search))
	}
	switch {
	case snap.Loading:
		parts = append(parts, "loading…")
	case snap.Cursor.HasNext:
		parts = append(parts, "more available")
	default:
		parts = append(parts, "end of list")
	}
	if snap.Dirty {
		parts = append(parts, "unsaved column layout")
	}
	return strings.Join(parts, " · ")
}

// RenderToasts draws one line per toast.
func RenderToasts(toasts []notify.Toast) string {
	lines := make([]string, 0, len(toasts))
	for _, t := range toasts {
		style, ok := toastStyles[t.Level]
		if !ok {
			style = lipgloss.NewStyle()
		}
		lines = append(lines, style.Render(fmt.Sprintf("[%s] %s", t.Level, t.Message)))
	}
	return strings.Join(lines, "\n")
}

// RenderDashboard draws the headline numbers.
func RenderDashboard(stats domain.DashboardStats, env domain.Environment) string {
	body := fmt.Sprintf(
		"Environment:          %s\nUsers:                %d (+%d today)\nPlatforms:            %d\nPending deposits:     %d\nPending withdrawals:  %d\nPending bank changes: %d\nTotal deposited:      %s\nTotal withdrawn:      %s",
		env, stats.TotalUsers, stats.NewUsersToday, stats.TotalPlatforms,
		stats.PendingDeposits, stats.PendingWithdrawals, stats.PendingBankChanges,
		stats.TotalDeposited.String(), stats.TotalWithdrawn.String(),
	)
	return lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(body)
}

func printHeader(title string) {
	fmt.Print(clearScreen)
	fmt.Println(headerStyle.Render("MSQUARE MARKET ADMIN"))
	if title != "" {
		fmt.Println(stepStyle.Render(strings.ToUpper(title)))
	}
}
