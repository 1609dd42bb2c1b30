package application

import (
	"context"
	"sync"
	"time"

	"github.com/trak-cli/trak/internal/domain"
)

var (
	testUser    = domain.ObjectID("64f1b2c3d4e5f60718293a4b")
	testProject = domain.ObjectID("64f1b2c3d4e5f60718293a4c")
	testTask    = domain.ObjectID("64f1b2c3d4e5f60718293a4d")
	testEntryID = domain.ObjectID("64f1b2c3d4e5f60718293a4e")
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// fakeRemote scripts the backend with function fields and counts calls.
// Unset functions fail loudly through the zero-value nil dereference, which
// tests treat as "this call must not happen".
type fakeRemote struct {
	mu          sync.Mutex
	startFn     func(ctx context.Context, user, project, task domain.ObjectID) (domain.TimerRecord, error)
	stopFn      func(ctx context.Context, user, project, task domain.ObjectID, description string) (domain.TimerRecord, error)
	pauseFn     func(ctx context.Context, user, project, task domain.ObjectID) (time.Time, error)
	resumeFn    func(ctx context.Context, user, project, task domain.ObjectID) (time.Duration, error)
	logFn       func(ctx context.Context, log domain.ManualLog) (domain.TimerRecord, error)
	listFn      func(ctx context.Context, user domain.ObjectID) ([]domain.TimerRecord, error)
	updateFn    func(ctx context.Context, id domain.ObjectID, patch domain.EntryPatch) (domain.TimerRecord, error)
	deleteFn    func(ctx context.Context, id domain.ObjectID) error
	startCalls  int
	stopCalls   int
	pauseCalls  int
	resumeCalls int
	logCalls    int
	listCalls   int
}

func (f *fakeRemote) Start(ctx context.Context, user, project, task domain.ObjectID) (domain.TimerRecord, error) {
	f.count(&f.startCalls)
	return f.startFn(ctx, user, project, task)
}

func (f *fakeRemote) Stop(ctx context.Context, user, project, task domain.ObjectID, description string) (domain.TimerRecord, error) {
	f.count(&f.stopCalls)
	return f.stopFn(ctx, user, project, task, description)
}

func (f *fakeRemote) Pause(ctx context.Context, user, project, task domain.ObjectID) (time.Time, error) {
	f.count(&f.pauseCalls)
	return f.pauseFn(ctx, user, project, task)
}

func (f *fakeRemote) Resume(ctx context.Context, user, project, task domain.ObjectID) (time.Duration, error) {
	f.count(&f.resumeCalls)
	return f.resumeFn(ctx, user, project, task)
}

func (f *fakeRemote) LogManual(ctx context.Context, log domain.ManualLog) (domain.TimerRecord, error) {
	f.count(&f.logCalls)
	return f.logFn(ctx, log)
}

func (f *fakeRemote) ListForUser(ctx context.Context, user domain.ObjectID) ([]domain.TimerRecord, error) {
	f.count(&f.listCalls)
	return f.listFn(ctx, user)
}

func (f *fakeRemote) UpdateEntry(ctx context.Context, id domain.ObjectID, patch domain.EntryPatch) (domain.TimerRecord, error) {
	return f.updateFn(ctx, id, patch)
}

func (f *fakeRemote) DeleteEntry(ctx context.Context, id domain.ObjectID) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeRemote) count(c *int) {
	f.mu.Lock()
	*c++
	f.mu.Unlock()
}

func (f *fakeRemote) counts() (start, stop, list int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.startCalls, f.stopCalls, f.listCalls
}

// fakeCache is an in-memory single slot.
type fakeCache struct {
	mu       sync.Mutex
	slot     *domain.ActiveTimer
	writeErr error
	readErr  error
	writes   int
	clears   int
}

func (c *fakeCache) Read(_ context.Context) (domain.ActiveTimer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.readErr != nil {
		return domain.ActiveTimer{}, c.readErr
	}
	if c.slot == nil {
		return domain.ActiveTimer{}, domain.ErrCacheMiss
	}

	return *c.slot, nil
}

func (c *fakeCache) Write(_ context.Context, timer domain.ActiveTimer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeErr != nil {
		return c.writeErr
	}
	c.slot = &timer
	c.writes++
	return nil
}

func (c *fakeCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.slot = nil
	c.clears++
	return nil
}

func (c *fakeCache) snapshot() *domain.ActiveTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.slot == nil {
		return nil
	}
	copied := *c.slot
	return &copied
}

func openRecord(start time.Time) domain.TimerRecord {
	return domain.TimerRecord{
		ID:        testEntryID,
		UserID:    testUser,
		ProjectID: testProject,
		TaskID:    testTask,
		StartTime: start,
	}
}

func closedRecord(start time.Time, length, paused time.Duration) domain.TimerRecord {
	end := start.Add(length)
	record := openRecord(start)
	record.EndTime = &end
	record.TotalPaused = paused
	return record
}
