package application

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/trak-cli/trak/internal/domain"
	"github.com/trak-cli/trak/internal/ports"
)

// ReportService aggregates materialized entries for task and project hour
// totals and CSV export. It is a pure read-side consumer of the timer API.
type ReportService struct {
	remote ports.TimerRemote
	clock  ports.Clock
}

type Report struct {
	From time.Time
	To   time.Time
	// EntryCount distinguishes "nothing tracked" from entries that all
	// clamped to zero minutes.
	EntryCount   int
	TotalMinutes int
	Projects     []GroupTotal
	Tasks        []GroupTotal
}

// GroupTotal is the minute total for one project or task.
type GroupTotal struct {
	ID      domain.ObjectID
	Minutes int
	Entries int
}

func NewReportService(remote ports.TimerRemote, clock ports.Clock) *ReportService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &ReportService{remote: remote, clock: clock}
}

// Totals sums the user's entries whose date falls in [from, to]. A zero
// `to` means "through today".
func (s *ReportService) Totals(ctx context.Context, user domain.ObjectID, from, to time.Time) (Report, error) {
	entries, err := s.entriesInRange(ctx, user, from, to)
	if err != nil {
		return Report{}, err
	}

	report := Report{From: from, To: to}
	projects := map[domain.ObjectID]*GroupTotal{}
	tasks := map[domain.ObjectID]*GroupTotal{}

	for _, entry := range entries {
		report.EntryCount++
		report.TotalMinutes += entry.Minutes
		accumulate(projects, entry.ProjectID, entry.Minutes)
		accumulate(tasks, entry.TaskID, entry.Minutes)
	}

	report.Projects = sortedTotals(projects)
	report.Tasks = sortedTotals(tasks)

	return report, nil
}

// ExportCSV streams the user's entries in the range as CSV, newest first.
func (s *ReportService) ExportCSV(ctx context.Context, w io.Writer, user domain.ObjectID, from, to time.Time) error {
	entries, err := s.entriesInRange(ctx, user, from, to)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"date", "project", "task", "minutes", "description"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, entry := range entries {
		row := []string{
			entry.Date.Format("2006-01-02"),
			string(entry.ProjectID),
			string(entry.TaskID),
			strconv.Itoa(entry.Minutes),
			entry.Label(),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return nil
}

func (s *ReportService) entriesInRange(ctx context.Context, user domain.ObjectID, from, to time.Time) ([]domain.TimeEntry, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if to.IsZero() {
		to = s.clock.Now()
	}
	if !from.IsZero() && to.Before(from) {
		return nil, domain.ErrEndBeforeStart
	}

	records, err := s.remote.ListForUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	entries := make([]domain.TimeEntry, 0, len(records))
	for _, record := range records {
		if record.Open() {
			continue
		}
		entry, _ := domain.MaterializeEntry(record)
		if !from.IsZero() && entry.Date.Before(day(from)) {
			continue
		}
		if entry.Date.After(day(to)) {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func accumulate(totals map[domain.ObjectID]*GroupTotal, id domain.ObjectID, minutes int) {
	total, ok := totals[id]
	if !ok {
		total = &GroupTotal{ID: id}
		totals[id] = total
	}
	total.Minutes += minutes
	total.Entries++
}

func sortedTotals(totals map[domain.ObjectID]*GroupTotal) []GroupTotal {
	result := make([]GroupTotal, 0, len(totals))
	for _, total := range totals {
		result = append(result, *total)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Minutes == result[j].Minutes {
			return result[i].ID < result[j].ID
		}
		return result[i].Minutes > result[j].Minutes
	})

	return result
}

func day(t time.Time) time.Time {
	year, month, d := t.UTC().Date()
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
