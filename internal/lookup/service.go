package lookup

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/solar-lookup/internal/domain"
	"github.com/couchcryptid/solar-lookup/internal/observability"
)

var (
	// ErrNoRecord is returned when a parameter is edited with no record displayed.
	ErrNoRecord = errors.New("no record is displayed")
	// ErrNotLoaded is reported by readiness checks before a dataset is available.
	ErrNotLoaded = errors.New("dataset not loaded")
	// ErrUnknownParam is returned for edits to a field that is not editable.
	ErrUnknownParam = errors.New("unknown parameter")
)

// EventPublisher receives one event per completed search.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.SearchEvent) error
}

// Result is the outcome of a single stateless search.
type Result struct {
	Query   string
	State   State
	Match   domain.MatchResult
	View    View
	Map     domain.MapView
	Located bool
}

// Found reports whether the search matched a record.
func (r Result) Found() bool {
	return r.State == StateFound
}

// Service answers address searches against an immutable table.
type Service struct {
	table     *domain.Table
	matcher   *domain.Matcher
	geocoder  domain.Geocoder
	publisher EventPublisher
	center    domain.Coordinate
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewService creates a Service. geocoder and publisher may be nil to disable
// map positioning and event publishing respectively.
func NewService(table *domain.Table, matcher *domain.Matcher, geocoder domain.Geocoder, publisher EventPublisher, center domain.Coordinate, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		table:     table,
		matcher:   matcher,
		geocoder:  geocoder,
		publisher: publisher,
		center:    center,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once a dataset table is available.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.table == nil {
		return ErrNotLoaded
	}
	return nil
}

// DefaultMapView is the map shown before any address has been located.
func (s *Service) DefaultMapView() domain.MapView {
	return domain.DefaultMapView(s.center)
}

// Record returns the record stored under a normalized key.
func (s *Service) Record(key string) (domain.InstallationRecord, bool) {
	return s.table.Get(key)
}

// Search matches query, builds the initial view, and geocodes the matched
// address starting from the default map view.
func (s *Service) Search(ctx context.Context, query string) Result {
	start := time.Now()

	res := Result{Query: query, State: StateNotFound, Map: s.DefaultMapView()}
	if m, ok := s.find(query); ok {
		res.State = StateFound
		res.Match = m
		res.View = InitialView(m.Record)
		res.Map, res.Located = s.locate(ctx, res.Map, m.Record)
	}

	s.complete(ctx, res, time.Since(start))
	return res
}

// Recalculate returns the edited view of record under p.
func (s *Service) Recalculate(record domain.InstallationRecord, p Params) View {
	return EditedView(record, p)
}

func (s *Service) find(query string) (domain.MatchResult, bool) {
	m, ok := s.matcher.Match(query, s.table)
	if !ok {
		s.logger.Info("no matching address", "query", query)
		return m, false
	}
	s.logger.Debug("address matched",
		"query", query,
		"key", m.Key,
		"tier", m.Tier,
		"score", m.Score,
	)
	return m, true
}

// locate moves view onto the record's address. The original address is
// preferred over the normalized key because providers parse it better.
func (s *Service) locate(ctx context.Context, view domain.MapView, r domain.InstallationRecord) (domain.MapView, bool) {
	address := r.Address
	if address == "" {
		address = r.Key
	}
	return domain.LocateWithGeocoding(ctx, view, address, s.geocoder, s.logger)
}

// complete records metrics and publishes the search event.
func (s *Service) complete(ctx context.Context, res Result, elapsed time.Duration) {
	outcome := domain.OutcomeNotFound
	if res.Found() {
		outcome = string(res.Match.Tier)
	}
	s.metrics.Searches.WithLabelValues(outcome).Inc()
	s.metrics.SearchDuration.Observe(elapsed.Seconds())

	if s.publisher == nil {
		return
	}

	event := domain.NewSearchEvent(res.Query, outcome)
	if res.Found() {
		event.MatchedKey = res.Match.Key
		event.Score = res.Match.Score
		event.Panels = res.View.Panels
		event.CapacityKWp = res.View.CapacityKWp
		event.AnnualOutputKWh = res.View.AnnualOutputKWh
	}
	if res.Located {
		loc := res.Map.Marker
		event.Location = &loc
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Warn("publish search event failed", "event_id", event.ID, "error", err)
	}
}
