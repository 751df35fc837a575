package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/WallCharmers/viktory-dashboard/internal/cache"
	"github.com/WallCharmers/viktory-dashboard/internal/common"
	"github.com/WallCharmers/viktory-dashboard/internal/interfaces"
	"github.com/WallCharmers/viktory-dashboard/internal/models"
)

// fakeProvider is a scriptable Provider that counts calls.
type fakeProvider struct {
	status   models.SourceStatus
	snapshot *models.MetricsSnapshot
	err      error
	calls    int
}

func (f *fakeProvider) Fetch(_ context.Context, period models.Period) (*models.MetricsSnapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.snapshot != nil {
		return f.snapshot, nil
	}
	return &models.MetricsSnapshot{
		Period:      period,
		Source:      f.status,
		GeneratedAt: time.Now().UTC(),
		Current:     models.PeriodTotals{Revenue: 100, Orders: 2, Units: 3},
	}, nil
}

func (f *fakeProvider) Status() models.SourceStatus {
	return f.status
}

// fakeHistory is an in-memory SnapshotStorage.
type fakeHistory struct {
	saved   map[models.Period]*models.MetricsSnapshot
	saveErr error
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{saved: make(map[models.Period]*models.MetricsSnapshot)}
}

func (f *fakeHistory) Save(_ context.Context, snapshot *models.MetricsSnapshot) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[snapshot.Period] = snapshot
	return nil
}

func (f *fakeHistory) Latest(_ context.Context, period models.Period) (*models.MetricsSnapshot, error) {
	snap, ok := f.saved[period]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	copied := *snap
	return &copied, nil
}

func completeCreds() models.Credentials {
	return models.NewCredentials(map[string]string{
		models.CredClientID:      "id",
		models.CredClientSecret:  "secret",
		models.CredRefreshToken:  "token",
		models.CredSellerID:      "seller",
		models.CredMarketplaceID: "marketplace",
	})
}

func TestSelectorMissingCredentialsSkipsLive(t *testing.T) {
	live := &fakeProvider{status: models.SourceLive}
	demo := &fakeProvider{status: models.SourceDemo}

	sel := NewSelector(common.NewSilentLogger(), models.NewCredentials(nil), live, demo, time.Second)

	snap, status := sel.Fetch(context.Background(), models.PeriodToday)
	if snap == nil {
		t.Fatal("fetch must always return a snapshot")
	}
	if status != models.SourceDemo {
		t.Errorf("expected demo status, got %q", status)
	}
	if live.calls != 0 {
		t.Errorf("live provider must not be called with incomplete credentials, got %d calls", live.calls)
	}
	if demo.calls != 1 {
		t.Errorf("expected 1 demo call, got %d", demo.calls)
	}

	outcome := sel.LastOutcome()
	if outcome.Source != models.SourceDemo {
		t.Errorf("outcome source = %q", outcome.Source)
	}
	if outcome.Reason == "" {
		t.Error("fallback outcome should carry a reason")
	}
}

func TestSelectorLiveSuccess(t *testing.T) {
	live := &fakeProvider{status: models.SourceLive}
	demo := &fakeProvider{status: models.SourceDemo}
	history := newFakeHistory()

	sel := NewSelector(common.NewSilentLogger(), completeCreds(), live, demo, time.Second)
	sel.SetHistory(history)

	snap, status := sel.Fetch(context.Background(), models.PeriodWeek)
	if status != models.SourceLive {
		t.Fatalf("expected live status, got %q", status)
	}
	if snap.Source != models.SourceLive {
		t.Errorf("snapshot must be stamped live, got %q", snap.Source)
	}
	if demo.calls != 0 {
		t.Errorf("demo must not be called on live success, got %d calls", demo.calls)
	}
	if _, ok := history.saved[models.PeriodWeek]; !ok {
		t.Error("live snapshot should be persisted to history")
	}
}

func TestSelectorLiveFailureFallsBackToDemo(t *testing.T) {
	live := &fakeProvider{status: models.SourceLive, err: errors.New("upstream 503")}
	demo := &fakeProvider{status: models.SourceDemo}

	sel := NewSelector(common.NewSilentLogger(), completeCreds(), live, demo, time.Second)

	snap, status := sel.Fetch(context.Background(), models.PeriodToday)
	if snap == nil {
		t.Fatal("fetch must always return a snapshot")
	}
	if status != models.SourceDemo {
		t.Errorf("expected demo fallback, got %q", status)
	}
	if live.calls != 1 {
		t.Errorf("expected 1 live attempt, got %d", live.calls)
	}

	outcome := sel.LastOutcome()
	if outcome.Reason != "upstream 503" {
		t.Errorf("outcome reason = %q", outcome.Reason)
	}
}

func TestSelectorFallbackPrefersRecentHistory(t *testing.T) {
	live := &fakeProvider{status: models.SourceLive, err: errors.New("down")}
	demo := &fakeProvider{status: models.SourceDemo}
	history := newFakeHistory()
	history.saved[models.PeriodToday] = &models.MetricsSnapshot{
		Period:      models.PeriodToday,
		Source:      models.SourceLive,
		GeneratedAt: time.Now().UTC().Add(-time.Hour),
		Current:     models.PeriodTotals{Revenue: 555.55, Orders: 9},
	}

	sel := NewSelector(common.NewSilentLogger(), completeCreds(), live, demo, time.Second)
	sel.SetHistory(history)

	snap, status := sel.Fetch(context.Background(), models.PeriodToday)
	if status != models.SourceHistorical {
		t.Fatalf("expected historical fallback, got %q", status)
	}
	if snap.Source != models.SourceHistorical {
		t.Errorf("snapshot must be re-tagged historical, got %q", snap.Source)
	}
	if snap.Current.Revenue != 555.55 {
		t.Errorf("historical snapshot figures lost: %v", snap.Current.Revenue)
	}
	if demo.calls != 0 {
		t.Errorf("demo should not run when recent history exists, got %d calls", demo.calls)
	}
}

func TestSelectorFallbackIgnoresStaleHistory(t *testing.T) {
	live := &fakeProvider{status: models.SourceLive, err: errors.New("down")}
	demo := &fakeProvider{status: models.SourceDemo}
	history := newFakeHistory()
	history.saved[models.PeriodToday] = &models.MetricsSnapshot{
		Period:      models.PeriodToday,
		Source:      models.SourceLive,
		GeneratedAt: time.Now().UTC().Add(-8 * 24 * time.Hour),
	}

	sel := NewSelector(common.NewSilentLogger(), completeCreds(), live, demo, time.Second)
	sel.SetHistory(history)

	_, status := sel.Fetch(context.Background(), models.PeriodToday)
	if status != models.SourceDemo {
		t.Errorf("stale history must not be served, got %q", status)
	}
	if demo.calls != 1 {
		t.Errorf("expected demo fallback, got %d calls", demo.calls)
	}
}

func TestSelectorHistorySaveFailureIsNonFatal(t *testing.T) {
	live := &fakeProvider{status: models.SourceLive}
	demo := &fakeProvider{status: models.SourceDemo}
	history := newFakeHistory()
	history.saveErr = errors.New("disk full")

	sel := NewSelector(common.NewSilentLogger(), completeCreds(), live, demo, time.Second)
	sel.SetHistory(history)

	snap, status := sel.Fetch(context.Background(), models.PeriodToday)
	if status != models.SourceLive || snap == nil {
		t.Errorf("history write failure must not affect the live result, got %q", status)
	}
}

func TestSelectorTotalContractAgainstBrokenDemo(t *testing.T) {
	live := &fakeProvider{status: models.SourceLive, err: errors.New("down")}
	demo := &fakeProvider{status: models.SourceDemo, err: errors.New("impossible")}

	sel := NewSelector(common.NewSilentLogger(), completeCreds(), live, demo, time.Second)

	snap, status := sel.Fetch(context.Background(), models.PeriodToday)
	if snap == nil {
		t.Fatal("fetch must return a snapshot even when both providers fail")
	}
	if status != models.SourceDemo {
		t.Errorf("expected demo status, got %q", status)
	}
	if snap.Period != models.PeriodToday {
		t.Errorf("placeholder snapshot period = %q", snap.Period)
	}
}

func TestSelectorCacheShortCircuitsProviders(t *testing.T) {
	live := &fakeProvider{status: models.SourceLive}
	demo := &fakeProvider{status: models.SourceDemo}

	sel := NewSelector(common.NewSilentLogger(), completeCreds(), live, demo, time.Second)
	sel.SetCache(cache.New(time.Minute, 4))

	sel.Fetch(context.Background(), models.PeriodToday)
	sel.Fetch(context.Background(), models.PeriodToday)
	sel.Fetch(context.Background(), models.PeriodToday)

	if live.calls != 1 {
		t.Errorf("expected 1 live call with warm cache, got %d", live.calls)
	}
}

func TestSelectorCredentialReporting(t *testing.T) {
	sel := NewSelector(common.NewSilentLogger(), models.NewCredentials(map[string]string{
		models.CredClientID: "id",
	}), &fakeProvider{}, &fakeProvider{}, time.Second)

	if sel.CredentialsComplete() {
		t.Error("expected incomplete credentials")
	}

	missing := sel.MissingCredentials()
	if len(missing) != 4 {
		t.Errorf("expected 4 missing fields, got %v", missing)
	}
	for _, name := range missing {
		if name == models.CredClientID {
			t.Error("present credential reported as missing")
		}
	}
}
