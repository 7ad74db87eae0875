// Package scheduler drives the daily expiry scans. Each check runs in its own
// goroutine on an explicit timer loop so a fire is a discrete, cancellable
// task rather than a cron expression.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/btggithub/DAM/internal/domain"
	"github.com/btggithub/DAM/internal/expiry"
	"github.com/btggithub/DAM/internal/observability/metrics"
	"github.com/btggithub/DAM/internal/store"
)

// ErrCheckInProgress is returned when a tick of the same check is still
// running; a manual trigger coinciding with the scheduled one must not
// overlap it.
var ErrCheckInProgress = errors.New("check already in progress")

// Clock is injectable so tests can pin "today".
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Dispatcher is the slice of the notification dispatcher the scheduler needs.
type Dispatcher interface {
	DomainExpiry(ctx context.Context, dom *domain.Domain, days int) error
	ProviderExpiry(ctx context.Context, pr *domain.Provider, days int) error
}

type Config struct {
	DomainCheckAt   time.Duration // offset from midnight UTC
	ProviderCheckAt time.Duration
	Thresholds      []int
}

type Scheduler struct {
	store    *store.Store
	dispatch Dispatcher
	clock    Clock
	logger   *slog.Logger
	cfg      Config

	domainMu   sync.Mutex
	providerMu sync.Mutex
}

func New(st *store.Store, dispatch Dispatcher, clock Clock, logger *slog.Logger, cfg Config) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	if len(cfg.Thresholds) == 0 {
		cfg.Thresholds = expiry.Thresholds
	}
	return &Scheduler{
		store:    st,
		dispatch: dispatch,
		clock:    clock,
		logger:   logger,
		cfg:      cfg,
	}
}

// Run starts both daily loops and returns immediately; they stop when ctx is
// cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	go s.loop(ctx, "domain-expiry", s.cfg.DomainCheckAt, s.CheckDomains)
	go s.loop(ctx, "provider-expiry", s.cfg.ProviderCheckAt, s.CheckProviders)
}

func (s *Scheduler) loop(ctx context.Context, name string, at time.Duration, tick func(context.Context) error) {
	for {
		next := nextRun(s.clock.Now(), at)
		timer := time.NewTimer(next.Sub(s.clock.Now()))
		s.logger.Info("expiry check scheduled", "check", name, "next_run", next)

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("expiry check loop stopped", "check", name)
			return
		case <-timer.C:
		}

		if err := tick(ctx); err != nil && !errors.Is(err, ErrCheckInProgress) {
			// A tick never takes the process down; it just produced nothing.
			s.logger.Error("expiry check failed", "check", name, "error", err)
		}
	}
}

// nextRun returns the next occurrence of the daily time-of-day offset, which
// is tomorrow when today's has already passed.
func nextRun(now time.Time, at time.Duration) time.Time {
	next := expiry.Midnight(now).Add(at)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// CheckDomains scans every domain carrying an expiry date and dispatches for
// those crossing a threshold today. Safe to call manually; concurrent calls
// of the same check return ErrCheckInProgress.
func (s *Scheduler) CheckDomains(ctx context.Context) error {
	if !s.domainMu.TryLock() {
		return ErrCheckInProgress
	}
	defer s.domainMu.Unlock()

	result := "success"
	defer func() { metrics.SchedulerTicksTotal.WithLabelValues("domain", result).Inc() }()

	domains, err := s.store.Domains().ListExpiring(ctx)
	if err != nil {
		result = "failure"
		return err
	}

	today := expiry.Midnight(s.clock.Now())
	sent, failed := 0, 0
	for i := range domains {
		dom := &domains[i]
		if dom.ExpiryDate == nil {
			continue
		}
		days := expiry.DaysUntil(*dom.ExpiryDate, today)
		if !expiry.MatchesThreshold(days, s.cfg.Thresholds) {
			continue
		}

		// One email per (resource, threshold); a rerun on the same day is a no-op.
		dup, err := s.store.Notifications().Exists(ctx, dom.UserID, domain.ResourceDomain, dom.ID, days)
		if err != nil {
			s.logger.Error("audit lookup failed", "domain", dom.Name, "error", err)
			failed++
			continue
		}
		if dup {
			continue
		}

		s.logger.Info("dispatching domain expiry notification", "domain", dom.Name, "days", days)
		if err := s.dispatch.DomainExpiry(ctx, dom, days); err != nil {
			// Isolate-and-continue: one failure must not abort the scan.
			s.logger.Error("domain notification failed", "domain", dom.Name, "error", err)
			failed++
			continue
		}
		sent++
	}
	if failed > 0 {
		result = "degraded"
	}

	s.logger.Info("domain expiry check completed", "scanned", len(domains), "sent", sent, "failed", failed)
	return nil
}

// CheckProviders is the account-expiry counterpart of CheckDomains.
func (s *Scheduler) CheckProviders(ctx context.Context) error {
	if !s.providerMu.TryLock() {
		return ErrCheckInProgress
	}
	defer s.providerMu.Unlock()

	result := "success"
	defer func() { metrics.SchedulerTicksTotal.WithLabelValues("provider", result).Inc() }()

	providers, err := s.store.Providers().ListExpiring(ctx)
	if err != nil {
		result = "failure"
		return err
	}

	today := expiry.Midnight(s.clock.Now())
	sent, failed := 0, 0
	for i := range providers {
		pr := &providers[i]
		if pr.AccountExpiry == nil {
			continue
		}
		days := expiry.DaysUntil(*pr.AccountExpiry, today)
		if !expiry.MatchesThreshold(days, s.cfg.Thresholds) {
			continue
		}

		dup, err := s.store.Notifications().Exists(ctx, pr.UserID, domain.ResourceProvider, pr.ID, days)
		if err != nil {
			s.logger.Error("audit lookup failed", "provider", pr.Name, "error", err)
			failed++
			continue
		}
		if dup {
			continue
		}

		s.logger.Info("dispatching account expiry notification", "provider", pr.Name, "days", days)
		if err := s.dispatch.ProviderExpiry(ctx, pr, days); err != nil {
			s.logger.Error("provider notification failed", "provider", pr.Name, "error", err)
			failed++
			continue
		}
		sent++
	}
	if failed > 0 {
		result = "degraded"
	}

	s.logger.Info("account expiry check completed", "scanned", len(providers), "sent", sent, "failed", failed)
	return nil
}
