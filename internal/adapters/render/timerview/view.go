package timerview

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/trak-cli/trak/internal/application"
	"github.com/trak-cli/trak/internal/domain"
)

type RenderOptions struct {
	Now time.Time
	// Degraded marks output produced while the backend was unreachable and
	// only locally cached state was available.
	Degraded bool
}

// RenderStatus renders the current timer state for one-shot CLI output.
func RenderStatus(status application.TimerStatus, opts RenderOptions) (string, error) {
	return render(func(s styles) string {
		return statusView(status, opts, s)
	})
}

// RenderEntries renders a list of materialized time entries, newest first.
func RenderEntries(entries []domain.TimeEntry, opts RenderOptions) (string, error) {
	return render(func(s styles) string {
		return entriesView(entries, opts, s)
	})
}

// RenderReport renders per-project and per-task totals for a date range.
func RenderReport(report application.Report, opts RenderOptions) (string, error) {
	return render(func(s styles) string {
		return reportView(report, opts, s)
	})
}

func statusView(status application.TimerStatus, opts RenderOptions, s styles) string {
	lines := []string{s.title.Render("Timer")}
	if opts.Degraded {
		lines = append(lines, s.warning.Render("backend unreachable, showing cached state"))
	}

	switch status.State {
	case domain.TimerRunning:
		lines = append(lines,
			stateLine(s.running.Render("running"), status, s),
			s.detail.Render("elapsed: ")+s.elapsed.Render(FormatElapsed(status.Elapsed)),
			s.meta.Render("started "+status.Timer.StartTime.Format("15:04 on 02 Jan")),
		)
	case domain.TimerPaused:
		lines = append(lines,
			stateLine(s.paused.Render("paused"), status, s),
			s.detail.Render("elapsed: ")+s.elapsed.Render(FormatElapsed(status.Elapsed)),
			s.meta.Render("paused since "+status.Timer.PausedAt.Format("15:04")),
		)
	default:
		lines = append(lines, s.idle.Render("No timer running."))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func stateLine(state string, status application.TimerStatus, s styles) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		state,
		"  ",
		s.detail.Render(status.Timer.Label()),
		"  ",
		s.entryID.Render(targetLabel(status.Timer.ProjectID, status.Timer.TaskID)),
	)
}

func entriesView(entries []domain.TimeEntry, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Time Entries"),
		s.header.Render(fmt.Sprintf("entries: %d", len(entries))),
	}

	if opts.Degraded {
		lines = append(lines, s.warning.Render("backend unreachable, listing may be incomplete"))
	}
	if len(entries) == 0 {
		lines = append(lines, s.empty.Render("No entries recorded."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, entry := range entries {
		lines = append(lines, entryLine(entry, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func entryLine(entry domain.TimeEntry, s styles) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.meta.Render(entry.Date.Format("2006-01-02")),
		"  ",
		s.detail.Render(fmt.Sprintf("%-8s", FormatMinutes(entry.Minutes))),
		"  ",
		s.detail.Render(entry.Label()),
		"  ",
		s.entryID.Render(string(entry.ID)),
	)
}

func reportView(report application.Report, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Report"),
		s.header.Render(rangeLabel(report.From, report.To)),
	}

	if report.EntryCount == 0 {
		lines = append(lines, s.empty.Render("No tracked time in range."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, s.detail.Render("total: ")+s.total.Render(FormatMinutes(report.TotalMinutes)))
	lines = append(lines, s.section.Render(groupSection("By project", report.Projects, report.TotalMinutes, s)))
	lines = append(lines, s.section.Render(groupSection("By task", report.Tasks, report.TotalMinutes, s)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func groupSection(title string, totals []application.GroupTotal, overall int, s styles) string {
	parts := []string{s.header.Render(title)}
	for _, total := range totals {
		parts = append(parts, groupLine(total, overall, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func groupLine(total application.GroupTotal, overall int, s styles) string {
	share := 0.0
	if overall > 0 {
		share = float64(total.Minutes) / float64(overall) * 100
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.entryID.Render(string(total.ID)),
		" ",
		renderShareBar(share, 20, s),
		" ",
		s.detail.Render(FormatMinutes(total.Minutes)),
		" ",
		s.meta.Render(fmt.Sprintf("(%d entries)", total.Entries)),
	)
}

func renderShareBar(percent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(math.Round(float64(width) * percent / 100))
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func targetLabel(project, task domain.ObjectID) string {
	return fmt.Sprintf("%s/%s", shortID(project), shortID(task))
}

func shortID(id domain.ObjectID) string {
	raw := string(id)
	if len(raw) <= 8 {
		return raw
	}

	return raw[len(raw)-8:]
}

func rangeLabel(from, to time.Time) string {
	if from.IsZero() && to.IsZero() {
		return "all time"
	}
	if from.IsZero() {
		return "through " + to.Format("2006-01-02")
	}

	return fmt.Sprintf("%s to %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
}

// FormatElapsed renders a live duration as hh:mm:ss, the shape users expect
// from a stopwatch readout.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%dh", minutes/60)
	}

	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
