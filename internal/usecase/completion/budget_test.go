package completion

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/domain"
)

type mockBudgetStore struct {
	mu     sync.Mutex
	data   map[string]int64
	getErr error
	setErr error
}

func newMockBudgetStore() *mockBudgetStore {
	return &mockBudgetStore{data: make(map[string]int64)}
}

func (m *mockBudgetStore) IncrBy(_ context.Context, key string, val int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] += val
	return nil
}

func (m *mockBudgetStore) Get(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return 0, m.getErr
	}
	return m.data[key], nil
}

func (m *mockBudgetStore) value(key string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key]
}

// fixedClock pins the tracker to a controllable instant.
type fixedClock struct{ t time.Time }

func (c *fixedClock) now() time.Time { return c.t }

func newTrackerAt(t time.Time, daily, monthly int64, action BudgetAction) (*BudgetTracker, *fixedClock) {
	clock := &fixedClock{t: t}
	b := NewBudgetTracker("openrouter", daily, monthly, action, zap.NewNop())
	b.now = clock.now
	b.daily.start = startOfDay(t)
	b.monthly.start = startOfMonth(t)
	return b, clock
}

func TestBudgetTracker_Check(t *testing.T) {
	tests := []struct {
		name    string
		daily   int64
		monthly int64
		action  BudgetAction
		record  int64
		wantErr bool
	}{
		{"below daily limit", 100, 0, BudgetActionReject, 99, false},
		{"daily limit reached", 100, 0, BudgetActionReject, 100, true},
		{"monthly limit reached", 0, 500, BudgetActionReject, 500, true},
		{"warn lets request through", 100, 0, BudgetActionWarn, 200, false},
		{"unlimited", 0, 0, BudgetActionReject, 1 << 40, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBudgetTracker("test", tc.daily, tc.monthly, tc.action, zap.NewNop())
			b.Record(tc.record)

			err := b.Check(context.Background())
			if tc.wantErr && !errors.Is(err, domain.ErrCompletionQuotaExceeded) {
				t.Fatalf("expected ErrCompletionQuotaExceeded, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestBudgetTracker_Remaining(t *testing.T) {
	b := NewBudgetTracker("test", 1000, 10000, BudgetActionWarn, zap.NewNop())
	b.Record(300)

	if got := b.RemainingDaily(); got != 700 {
		t.Errorf("RemainingDaily() = %d, want 700", got)
	}
	if got := b.RemainingMonthly(); got != 9700 {
		t.Errorf("RemainingMonthly() = %d, want 9700", got)
	}

	b.Record(5000)
	if got := b.RemainingDaily(); got != 0 {
		t.Errorf("RemainingDaily() = %d, want 0 once overspent", got)
	}
}

func TestBudgetTracker_RemainingUnlimited(t *testing.T) {
	b := NewBudgetTracker("test", 0, 0, BudgetActionWarn, zap.NewNop())
	if b.RemainingDaily() != -1 || b.RemainingMonthly() != -1 {
		t.Errorf("expected -1 for unlimited windows, got %d/%d", b.RemainingDaily(), b.RemainingMonthly())
	}
}

func TestBudgetTracker_RecordIgnoresNonPositive(t *testing.T) {
	b := NewBudgetTracker("test", 100, 0, BudgetActionReject, zap.NewNop())
	b.Record(0)
	b.Record(-5)
	if got := b.RemainingDaily(); got != 100 {
		t.Errorf("RemainingDaily() = %d, want 100", got)
	}
}

func TestBudgetTracker_DayRollover(t *testing.T) {
	b, clock := newTrackerAt(time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC), 100, 1000, BudgetActionReject)
	b.Record(100)
	if err := b.Check(context.Background()); err == nil {
		t.Fatal("expected rejection before rollover")
	}

	clock.t = clock.t.Add(2 * time.Minute)

	if err := b.Check(context.Background()); err != nil {
		t.Fatalf("expected fresh daily window, got %v", err)
	}
	if got := b.RemainingMonthly(); got != 900 {
		t.Errorf("monthly window must survive a day rollover, remaining = %d", got)
	}
}

func TestBudgetTracker_MonthRollover(t *testing.T) {
	b, clock := newTrackerAt(time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC), 0, 500, BudgetActionReject)
	b.Record(500)

	clock.t = time.Date(2026, 2, 1, 0, 0, 1, 0, time.UTC)

	if got := b.RemainingMonthly(); got != 500 {
		t.Errorf("RemainingMonthly() = %d after rollover, want 500", got)
	}
}

func TestBudgetTracker_Status(t *testing.T) {
	b, _ := newTrackerAt(time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC), 1000, 0, BudgetActionWarn)
	b.Record(250)

	daily, monthly := b.Status()
	if daily.Used != 250 || daily.Remaining != 750 || daily.Limit != 1000 {
		t.Errorf("daily = %+v", daily)
	}
	if !daily.ResetsAt.Equal(time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("daily.ResetsAt = %v", daily.ResetsAt)
	}
	if monthly.Remaining != -1 {
		t.Errorf("monthly.Remaining = %d, want -1", monthly.Remaining)
	}
	if !monthly.ResetsAt.Equal(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("monthly.ResetsAt = %v", monthly.ResetsAt)
	}
}

func TestBudgetTracker_Keys(t *testing.T) {
	b, _ := newTrackerAt(time.Date(2026, 7, 4, 9, 0, 0, 0, time.UTC), 0, 0, BudgetActionWarn)
	now := b.now()

	if got := b.key(&b.daily, now); got != "prodex:budget:openrouter:daily:2026-07-04" {
		t.Errorf("daily key = %q", got)
	}
	if got := b.key(&b.monthly, now); got != "prodex:budget:openrouter:monthly:2026-07" {
		t.Errorf("monthly key = %q", got)
	}
}

// --- Persistence ---

func TestBudgetTracker_WithStore_LoadsValues(t *testing.T) {
	at := time.Date(2026, 7, 4, 9, 0, 0, 0, time.UTC)
	store := newMockBudgetStore()
	store.data["prodex:budget:openrouter:daily:2026-07-04"] = 300
	store.data["prodex:budget:openrouter:monthly:2026-07"] = 5000

	b, _ := newTrackerAt(at, 1000, 10000, BudgetActionReject)
	b.WithStore(context.Background(), store)

	if got := b.RemainingDaily(); got != 700 {
		t.Errorf("RemainingDaily() = %d, want 700", got)
	}
	if got := b.RemainingMonthly(); got != 5000 {
		t.Errorf("RemainingMonthly() = %d, want 5000", got)
	}
}

func TestBudgetTracker_WithStore_LoadError(t *testing.T) {
	store := newMockBudgetStore()
	store.getErr = errors.New("connection refused")

	b := NewBudgetTracker("prov", 1000, 10000, BudgetActionReject, zap.NewNop())
	b.WithStore(context.Background(), store)

	if got := b.RemainingDaily(); got != 1000 {
		t.Errorf("RemainingDaily() = %d, want 1000 on load error", got)
	}
}

func TestBudgetTracker_Record_PersistsBothWindows(t *testing.T) {
	at := time.Date(2026, 7, 4, 9, 0, 0, 0, time.UTC)
	store := newMockBudgetStore()
	b, _ := newTrackerAt(at, 10000, 100000, BudgetActionWarn)
	b.WithStore(context.Background(), store)

	b.Record(100)
	b.Record(200)

	if got := store.value("prodex:budget:openrouter:daily:2026-07-04"); got != 300 {
		t.Errorf("stored daily = %d, want 300", got)
	}
	if got := store.value("prodex:budget:openrouter:monthly:2026-07"); got != 300 {
		t.Errorf("stored monthly = %d, want 300", got)
	}
}

func TestBudgetTracker_Record_StoreWriteError(t *testing.T) {
	store := newMockBudgetStore()
	b := NewBudgetTracker("prov", 1000, 10000, BudgetActionWarn, zap.NewNop())
	b.WithStore(context.Background(), store)

	store.mu.Lock()
	store.setErr = errors.New("write timeout")
	store.mu.Unlock()

	b.Record(50)

	if got := b.RemainingDaily(); got != 950 {
		t.Errorf("RemainingDaily() = %d, want 950 despite store error", got)
	}
}

func TestBudgetTracker_ConcurrentRecord(t *testing.T) {
	b := NewBudgetTracker("prov", 0, 0, BudgetActionWarn, zap.NewNop())
	b.daily.limit = 1 << 30

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Record(2)
			_ = b.Check(context.Background())
		}()
	}
	wg.Wait()

	if got := b.RemainingDaily(); got != 1<<30-100 {
		t.Errorf("RemainingDaily() = %d, want %d", got, 1<<30-100)
	}
}
