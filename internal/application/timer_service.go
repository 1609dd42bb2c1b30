package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/trak-cli/trak/internal/domain"
	"github.com/trak-cli/trak/internal/ports"
)

// TimerService owns the client's timer state machine. The backend is the
// source of truth: every transition issues the remote call first and mirrors
// the confirmed result into memory and the local cache, never the other way
// around. All transitions for the service's user are serialized through one
// mutex, so a second start can never slip past a running timer.
type TimerService struct {
	remote ports.TimerRemote
	cache  ports.TimerCache
	clock  ports.Clock
	user   domain.ObjectID
	ticker *Ticker
	onTick func(elapsed time.Duration)

	mu      sync.Mutex
	state   domain.TimerState
	active  domain.ActiveTimer
	entries []domain.TimeEntry

	// tickerMu serializes ticker alignment, which runs with mu released.
	tickerMu sync.Mutex
}

// TimerStatus is a point-in-time snapshot for display.
type TimerStatus struct {
	State   domain.TimerState
	Timer   domain.ActiveTimer
	Elapsed time.Duration
}

// RecoverResult reports how session recovery resolved local and remote state.
type RecoverResult struct {
	State             domain.TimerState
	RestoredFromCache bool
	RemoteConfirmed   bool
	// Degraded is set when the remote listing failed and the cached state
	// was trusted as-is.
	Degraded bool
}

func NewTimerService(remote ports.TimerRemote, cache ports.TimerCache, clock ports.Clock, user domain.ObjectID) *TimerService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &TimerService{
		remote: remote,
		cache:  cache,
		clock:  clock,
		user:   user,
		ticker: NewTicker(defaultTickInterval),
		state:  domain.TimerIdle,
	}
}

// SetTickHandler installs the display callback driven while a timer runs.
// Pass nil to disable ticking.
func (s *TimerService) SetTickHandler(onTick func(elapsed time.Duration)) {
	s.mu.Lock()
	s.onTick = onTick
	s.mu.Unlock()

	s.syncTicker()
}

// Recover reconciles the cached timer against remote truth. It restores the
// cached record optimistically first, then overwrites from the backend once
// the listing returns: a remote running timer replaces the cached one, and a
// remote with no running timer clears the cache. A failed listing degrades to
// trusting the cache alone. Recover is idempotent.
func (s *TimerService) Recover(ctx context.Context) (RecoverResult, error) {
	defer s.syncTicker()
	s.mu.Lock()
	defer s.mu.Unlock()

	result := RecoverResult{}

	cached, err := s.cache.Read(ctx)
	switch {
	case err == nil:
		s.active = cached
		s.state = cached.State()
		result.RestoredFromCache = true
	case errors.Is(err, domain.ErrCacheMiss):
		// Nothing to restore.
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return result, err
	default:
		// A corrupt cache slot is as good as an empty one; drop it so
		// the next write starts clean.
		_ = s.cache.Clear(ctx)
	}

	records, err := s.remote.ListForUser(ctx, s.user)
	if err != nil {
		result.Degraded = true
		result.State = s.state
		return result, nil
	}
	result.RemoteConfirmed = true

	var open *domain.TimerRecord
	entries := make([]domain.TimeEntry, 0, len(records))
	for i, record := range records {
		if record.Open() {
			if open == nil {
				open = &records[i]
			}
			continue
		}
		entry, _ := domain.MaterializeEntry(record)
		entries = append(entries, entry)
	}
	s.entries = entries

	if open != nil {
		s.active = open.ActiveTimer()
		s.state = s.active.State()
		if err := s.cache.Write(ctx, s.active); err != nil {
			result.State = s.state
			return result, fmt.Errorf("mirror recovered timer to cache: %w", err)
		}
		result.State = s.state
		return result, nil
	}

	s.active = domain.ActiveTimer{}
	s.state = domain.TimerIdle
	if err := s.cache.Clear(ctx); err != nil {
		result.State = s.state
		return result, fmt.Errorf("clear stale timer cache: %w", err)
	}

	result.State = s.state
	return result, nil
}

// Start begins a timer for the given task. Preconditions are rejected before
// any remote call: both identifiers must be valid and no timer may be active.
func (s *TimerService) Start(ctx context.Context, project, task domain.ObjectID, description string) (domain.ActiveTimer, error) {
	if project == "" || task == "" {
		return domain.ActiveTimer{}, domain.ErrMissingTarget
	}
	if err := project.Validate(); err != nil {
		return domain.ActiveTimer{}, err
	}
	if err := task.Validate(); err != nil {
		return domain.ActiveTimer{}, err
	}

	defer s.syncTicker()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.TimerIdle {
		return domain.ActiveTimer{}, domain.ErrTimerAlreadyRunning
	}

	record, err := s.remote.Start(ctx, s.user, project, task)
	if err != nil {
		return domain.ActiveTimer{}, err
	}

	active := record.ActiveTimer()
	active.Description = description
	s.active = active
	s.state = domain.TimerRunning

	if err := s.cache.Write(ctx, active); err != nil {
		// The timer is running server-side either way; recovery will
		// repopulate the slot on the next session.
		return active, fmt.Errorf("timer started but cache write failed: %w", err)
	}

	return active, nil
}

// Pause suspends the running timer. The server-assigned pause timestamp is
// what gets recorded, so client clock drift cannot skew pause accounting.
func (s *TimerService) Pause(ctx context.Context) error {
	defer s.syncTicker()
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case domain.TimerIdle:
		return domain.ErrNoActiveTimer
	case domain.TimerPaused:
		return domain.ErrTimerPaused
	}

	pausedAt, err := s.remote.Pause(ctx, s.user, s.active.ProjectID, s.active.TaskID)
	if err != nil {
		return err
	}

	s.active.IsPaused = true
	s.active.PausedAt = pausedAt
	s.state = domain.TimerPaused

	if err := s.cache.Write(ctx, s.active); err != nil {
		return fmt.Errorf("timer paused but cache write failed: %w", err)
	}

	return nil
}

// Resume restarts a paused timer, adopting the server's accumulated pause
// total for this run.
func (s *TimerService) Resume(ctx context.Context) error {
	defer s.syncTicker()
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case domain.TimerIdle:
		return domain.ErrNoActiveTimer
	case domain.TimerRunning:
		return domain.ErrTimerNotPaused
	}

	totalPaused, err := s.remote.Resume(ctx, s.user, s.active.ProjectID, s.active.TaskID)
	if err != nil {
		return err
	}

	s.active.IsPaused = false
	s.active.PausedAt = time.Time{}
	s.active.TotalPaused = totalPaused
	s.state = domain.TimerRunning

	if err := s.cache.Write(ctx, s.active); err != nil {
		return fmt.Errorf("timer resumed but cache write failed: %w", err)
	}

	return nil
}

// Stop closes the active timer and materializes the resulting entry. With no
// active timer it is a no-op returning stopped=false: stopping twice never
// raises and never produces a second entry. A backend that reports no running
// timer wins over local state, which is dropped.
func (s *TimerService) Stop(ctx context.Context, description string) (domain.TimeEntry, bool, error) {
	defer s.syncTicker()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.TimerIdle {
		return domain.TimeEntry{}, false, nil
	}

	if description == "" {
		description = s.active.Label()
	}

	record, err := s.remote.Stop(ctx, s.user, s.active.ProjectID, s.active.TaskID, description)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveTimer) {
			s.dropActive(ctx)
			return domain.TimeEntry{}, false, nil
		}
		return domain.TimeEntry{}, false, err
	}

	// The clamp anomaly is swallowed here on purpose: the entry is valid
	// and zero-length, and raising would leave a stopped timer looking
	// unstopped.
	entry, _ := domain.MaterializeEntry(record)

	s.dropActive(ctx)
	s.entries = append([]domain.TimeEntry{entry}, s.entries...)

	return entry, true, nil
}

// LogManual records a completed entry directly, with no live timer involved.
// The time range is validated before the request is sent.
func (s *TimerService) LogManual(ctx context.Context, log domain.ManualLog) (domain.TimeEntry, error) {
	log.UserID = s.user
	if err := log.Validate(); err != nil {
		return domain.TimeEntry{}, err
	}

	record, err := s.remote.LogManual(ctx, log)
	if err != nil {
		return domain.TimeEntry{}, err
	}

	entry, _ := domain.MaterializeEntry(record)

	s.mu.Lock()
	s.entries = append([]domain.TimeEntry{entry}, s.entries...)
	s.mu.Unlock()

	return entry, nil
}

// RefreshEntries reloads the user's closed entries from the backend.
func (s *TimerService) RefreshEntries(ctx context.Context) ([]domain.TimeEntry, error) {
	records, err := s.remote.ListForUser(ctx, s.user)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.TimeEntry, 0, len(records))
	for _, record := range records {
		if record.Open() {
			continue
		}
		entry, _ := domain.MaterializeEntry(record)
		entries = append(entries, entry)
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	return entries, nil
}

// UpdateEntry applies entry-level edits and refreshes the in-memory copy.
func (s *TimerService) UpdateEntry(ctx context.Context, id domain.ObjectID, patch domain.EntryPatch) (domain.TimeEntry, error) {
	if err := id.Validate(); err != nil {
		return domain.TimeEntry{}, err
	}
	if patch.Empty() {
		return domain.TimeEntry{}, errors.New("nothing to update")
	}
	if patch.Minutes != nil && *patch.Minutes < 0 {
		return domain.TimeEntry{}, errors.New("duration must not be negative")
	}

	record, err := s.remote.UpdateEntry(ctx, id, patch)
	if err != nil {
		return domain.TimeEntry{}, err
	}

	entry, _ := domain.MaterializeEntry(record)

	s.mu.Lock()
	for i := range s.entries {
		if s.entries[i].ID == entry.ID {
			s.entries[i] = entry
			break
		}
	}
	s.mu.Unlock()

	return entry, nil
}

// DeleteEntry removes an entry remotely and locally.
func (s *TimerService) DeleteEntry(ctx context.Context, id domain.ObjectID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	if err := s.remote.DeleteEntry(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	return nil
}

// Entries returns a copy of the in-memory entry list, newest first.
func (s *TimerService) Entries() []domain.TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]domain.TimeEntry, len(s.entries))
	copy(entries, s.entries)
	return entries
}

// Snapshot returns the current display state.
func (s *TimerService) Snapshot() TimerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return TimerStatus{
		State:   s.state,
		Timer:   s.active,
		Elapsed: s.active.Elapsed(s.clock.Now()),
	}
}

// Close detaches the tick handler and stops the display ticker. The timer
// itself keeps running server-side.
func (s *TimerService) Close() {
	s.SetTickHandler(nil)
}

// dropActive clears the active timer and its cache slot. Callers hold s.mu;
// the ticker catches up once the transition releases it.
func (s *TimerService) dropActive(ctx context.Context) {
	s.active = domain.ActiveTimer{}
	s.state = domain.TimerIdle
	_ = s.cache.Clear(ctx)
}

// syncTicker aligns the ticker with the current state. It must run with s.mu
// released: Ticker.Stop waits out the in-flight callback, and tick handlers
// are allowed to call back into the service (Snapshot is the typical display
// handler). It takes its own short read of the state, so a transition and its
// deferred sync always agree on the final state. The elapsed function closes
// over a copy of the active timer; every restart refreshes the copy.
func (s *TimerService) syncTicker() {
	s.tickerMu.Lock()
	defer s.tickerMu.Unlock()

	s.mu.Lock()
	run := s.state == domain.TimerRunning && s.onTick != nil
	timer := s.active
	onTick := s.onTick
	s.mu.Unlock()

	if run {
		s.ticker.Start(context.Background(), timer.Elapsed, onTick)
		return
	}

	s.ticker.Stop()
}
