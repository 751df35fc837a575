package source

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/WallCharmers/viktory-dashboard/internal/cache"
	"github.com/WallCharmers/viktory-dashboard/internal/common"
	"github.com/WallCharmers/viktory-dashboard/internal/interfaces"
	"github.com/WallCharmers/viktory-dashboard/internal/models"
)

// historicalMaxAge bounds how old a persisted live snapshot can be and still
// be served as historical data during fallback.
const historicalMaxAge = 7 * 24 * time.Hour

// Outcome records why the last fetch resolved the way it did. The reason is
// for logging and the status endpoint only; it never reaches the rendered
// dashboard as an error.
type Outcome struct {
	Period models.Period       `json:"period"`
	Source models.SourceStatus `json:"source"`
	Reason string              `json:"reason,omitempty"`
	At     time.Time           `json:"at"`
}

// Selector decides per request whether the live or demo path serves the
// dashboard. Its contract is total: Fetch always returns a snapshot, never
// an error.
type Selector struct {
	logger  *common.Logger
	creds   models.Credentials
	live    Provider
	demo    Provider
	timeout time.Duration

	history   interfaces.SnapshotStorage
	snapCache *cache.SnapshotCache

	mu   sync.Mutex
	last Outcome
}

// NewSelector creates a selector over a live and a demo provider.
// The timeout bounds each live attempt.
func NewSelector(logger *common.Logger, creds models.Credentials, live, demo Provider, timeout time.Duration) *Selector {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Selector{
		logger:  logger,
		creds:   creds,
		live:    live,
		demo:    demo,
		timeout: timeout,
	}
}

// SetHistory wires a snapshot store: live results are persisted to it and
// fallback prefers a recent persisted snapshot over generated demo data.
func (s *Selector) SetHistory(store interfaces.SnapshotStorage) {
	s.history = store
}

// SetCache wires a result cache in front of the providers.
func (s *Selector) SetCache(c *cache.SnapshotCache) {
	s.snapCache = c
}

// Fetch returns a snapshot for the period and the tag of the path that
// produced it. Missing credentials skip the network entirely; any live
// failure falls back silently. The caller never observes a failed fetch.
func (s *Selector) Fetch(ctx context.Context, period models.Period) (*models.MetricsSnapshot, models.SourceStatus) {
	if s.snapCache != nil {
		if cached, ok := s.snapCache.Get(period); ok {
			return cached.Snapshot, cached.Status
		}
	}

	if missing := s.creds.Missing(); len(missing) > 0 {
		s.logger.Debug().
			Str("period", string(period)).
			Str("missing", strings.Join(missing, ", ")).
			Msg("credentials incomplete, using demo data")
		return s.fallback(ctx, period, "credentials incomplete: "+strings.Join(missing, ", "))
	}

	liveCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	snapshot, err := s.live.Fetch(liveCtx, period)
	if err != nil {
		s.logger.Warn().
			Str("period", string(period)).
			Str("error", err.Error()).
			Msg("live fetch failed, falling back to demo data")
		return s.fallback(ctx, period, err.Error())
	}

	if s.history != nil {
		if err := s.history.Save(ctx, snapshot); err != nil {
			// History is best effort; a write failure must not break the page.
			s.logger.Warn().Str("error", err.Error()).Msg("failed to persist live snapshot")
		}
	}

	s.finish(period, snapshot, models.SourceLive, "")
	return snapshot, models.SourceLive
}

// fallback serves the guaranteed-success path: a recent persisted live
// snapshot when one exists, otherwise generated demo data.
func (s *Selector) fallback(ctx context.Context, period models.Period, reason string) (*models.MetricsSnapshot, models.SourceStatus) {
	if s.history != nil {
		stored, err := s.history.Latest(ctx, period)
		if err == nil && time.Since(stored.GeneratedAt) < historicalMaxAge {
			stored.Source = models.SourceHistorical
			s.finish(period, stored, models.SourceHistorical, reason)
			return stored, models.SourceHistorical
		}
	}

	snapshot, err := s.demo.Fetch(ctx, period)
	if err != nil || snapshot == nil {
		// The demo provider cannot fail; this branch guards a misbehaving
		// test double so the contract still holds.
		snapshot = &models.MetricsSnapshot{
			Period:      period,
			Source:      models.SourceDemo,
			GeneratedAt: time.Now().UTC(),
		}
	}

	s.finish(period, snapshot, models.SourceDemo, reason)
	return snapshot, models.SourceDemo
}

// finish stamps the snapshot and records the outcome for the status endpoint.
func (s *Selector) finish(period models.Period, snapshot *models.MetricsSnapshot, status models.SourceStatus, reason string) {
	snapshot.Source = status

	if s.snapCache != nil {
		s.snapCache.Set(period, cache.CachedSnapshot{Snapshot: snapshot, Status: status})
	}

	s.mu.Lock()
	s.last = Outcome{
		Period: period,
		Source: status,
		Reason: reason,
		At:     time.Now().UTC(),
	}
	s.mu.Unlock()
}

// LastOutcome returns the most recent fetch outcome.
func (s *Selector) LastOutcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// CredentialsComplete reports whether the live path is configured.
func (s *Selector) CredentialsComplete() bool {
	return s.creds.Complete()
}

// MissingCredentials lists absent required credential names (never values).
func (s *Selector) MissingCredentials() []string {
	return s.creds.Missing()
}
