package herald

import (
	"context"

	"github.com/arthur-debert/herald/pkg/config"
	"github.com/arthur-debert/herald/pkg/logging"
	"github.com/arthur-debert/herald/pkg/registry"
	"github.com/arthur-debert/herald/pkg/scenario"
	"github.com/arthur-debert/herald/pkg/style"
	"github.com/arthur-debert/herald/pkg/types"
)

// The demo's event vocabulary. The library ships no event constants;
// these belong to the demo application alone.
const (
	EventStartup  types.Event = "app.startup"
	EventSignin   types.Event = "app.signin"
	EventRefresh  types.Event = "app.refresh"
	EventSignout  types.Event = "app.signout"
	EventShutdown types.Event = "app.shutdown"
)

// DatabaseService stands in for a connection-pool owner: opened on
// startup, credentials refreshed mid-session, drained on shutdown.
type DatabaseService struct {
	feed *deliveryFeed
}

func (s *DatabaseService) HandleEvent(ctx context.Context, evt types.Event) error {
	logger := logging.GetLogger("demo.database")
	logger.Info().Str("event", evt.String()).Msg("Database pool notified")
	s.feed.add(style.Delivery{Service: "database"})
	return nil
}

// CacheService warms on startup and invalidates per-user entries when a
// session ends.
type CacheService struct {
	feed *deliveryFeed
}

func (s *CacheService) HandleEvent(ctx context.Context, evt types.Event) error {
	logger := logging.GetLogger("demo.cache")
	logger.Info().Str("event", evt.String()).Msg("Cache notified")
	s.feed.add(style.Delivery{Service: "cache"})
	return nil
}

// MailerService only cares about session boundaries.
type MailerService struct {
	feed *deliveryFeed
}

func (s *MailerService) HandleEvent(ctx context.Context, evt types.Event) error {
	logger := logging.GetLogger("demo.mailer")
	logger.Info().Str("event", evt.String()).Msg("Mailer notified")
	s.feed.add(style.Delivery{Service: "mailer"})
	return nil
}

// AnalyticsService is the demo's lazy registration: its factory runs the
// first time someone signs in, not at startup.
type AnalyticsService struct {
	feed  *deliveryFeed
	fresh bool
}

// NewAnalyticsService is the factory handed to the registry.
func NewAnalyticsService(feed *deliveryFeed) *AnalyticsService {
	logger := logging.GetLogger("demo.analytics")
	logger.Info().Msg("Analytics backend constructed")
	return &AnalyticsService{feed: feed, fresh: true}
}

func (s *AnalyticsService) HandleEvent(ctx context.Context, evt types.Event) error {
	// The first delivery is the one that materialized us.
	materialized := s.fresh
	s.fresh = false

	logger := logging.GetLogger("demo.analytics")
	logger.Info().
		Str("event", evt.String()).
		Bool("materialized", materialized).
		Msg("Analytics notified")
	s.feed.add(style.Delivery{Service: "analytics", Lazy: true, Materialized: materialized})
	return nil
}

// AuditService records every lifecycle event.
type AuditService struct {
	feed *deliveryFeed
}

func (s *AuditService) HandleEvent(ctx context.Context, evt types.Event) error {
	logger := logging.GetLogger("demo.audit")
	logger.Info().Str("event", evt.String()).Msg("Audit entry written")
	s.feed.add(style.Delivery{Service: "audit"})
	return nil
}

// registerDemoServices wires the demo roster into reg. The scenario's
// per-service toggles win over the configuration's.
func registerDemoServices(reg *registry.Registry, cfg *config.Config, sc *scenario.Scenario, feed *deliveryFeed) error {
	enabled := func(name string) bool {
		if on, listed := sc.Services[name]; listed {
			return on
		}
		return cfg.ServiceEnabled(name)
	}

	if enabled("database") {
		if err := registry.Register(reg, &DatabaseService{feed: feed}, EventStartup, EventRefresh, EventShutdown); err != nil {
			return err
		}
	}
	if enabled("cache") {
		if err := registry.Register(reg, &CacheService{feed: feed}, EventStartup, EventRefresh, EventSignout, EventShutdown); err != nil {
			return err
		}
	}
	if enabled("mailer") {
		if err := registry.Register(reg, &MailerService{feed: feed}, EventSignin, EventSignout); err != nil {
			return err
		}
	}
	if enabled("analytics") {
		factory := func() *AnalyticsService { return NewAnalyticsService(feed) }
		if err := registry.RegisterLazy(reg, factory, EventSignin, EventSignin, EventRefresh, EventSignout); err != nil {
			return err
		}
	}
	if enabled("audit") {
		if err := registry.Register(reg, &AuditService{feed: feed}, EventStartup, EventSignin, EventRefresh, EventSignout, EventShutdown); err != nil {
			return err
		}
	}

	return nil
}
