package lookup

import (
	"context"
	"sync"
	"time"

	"github.com/couchcryptid/solar-lookup/internal/domain"
)

// State is a presentation state of a Session.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateFound
	StateNotFound
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateFound:
		return "found"
	case StateNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent copy of a Session's displayed state.
type Snapshot struct {
	State State
	Query string
	Match domain.MatchResult
	View  View
	Map   domain.MapView
}

// Session is one interactive search surface. Every search advances a
// generation counter; results and geocodes belonging to an older generation
// are discarded so the display always reflects the latest search.
type Session struct {
	svc *Service

	mu         sync.Mutex
	generation uint64
	state      State
	query      string
	match      domain.MatchResult
	view       View
	mapView    domain.MapView
}

// NewSession creates an idle session showing the service's default map view.
func NewSession(svc *Service) *Session {
	return &Session{
		svc:     svc,
		state:   StateIdle,
		mapView: svc.DefaultMapView(),
	}
}

// Snapshot returns the current displayed state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		State: s.state,
		Query: s.query,
		Match: s.match,
		View:  s.view,
		Map:   s.mapView,
	}
}

// Search runs query and returns the state it produced. If a newer search
// started meanwhile, the returned snapshot reflects that newer search.
func (s *Session) Search(ctx context.Context, query string) Snapshot {
	start := time.Now()

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.state = StateLoading
	s.query = query
	prevMap := s.mapView
	s.mu.Unlock()

	res := Result{Query: query, State: StateNotFound, Map: prevMap}
	m, found := s.svc.find(query)

	s.mu.Lock()
	if gen != s.generation {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	if found {
		res.State = StateFound
		res.Match = m
		res.View = s.onRecordLoaded(m)
	} else {
		s.onNotFound()
	}
	s.mu.Unlock()

	if found {
		res.Map, res.Located = s.svc.locate(ctx, prevMap, m.Record)
		s.mu.Lock()
		switch {
		case gen != s.generation:
			s.svc.logger.Debug("discarding stale geocode", "query", query)
		case res.Located:
			s.mapView = res.Map
		}
		s.mu.Unlock()
	}

	s.svc.complete(ctx, res, time.Since(start))
	return s.Snapshot()
}

// Edit changes one editable parameter of the displayed record and returns
// the recomputed view. Invalid input resets the field to its default.
func (s *Session) Edit(field, raw string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateFound {
		return View{}, ErrNoRecord
	}
	p, err := s.view.Params.With(field, raw)
	if err != nil {
		return s.view, err
	}
	return s.onParamEdited(p), nil
}

// onRecordLoaded is the entry action of Found after a search.
func (s *Session) onRecordLoaded(m domain.MatchResult) View {
	s.state = StateFound
	s.match = m
	s.view = InitialView(m.Record)
	return s.view
}

// onParamEdited is the entry action of Found after a parameter edit.
func (s *Session) onParamEdited(p Params) View {
	s.view = EditedView(s.match.Record, p)
	return s.view
}

// onNotFound keeps the previous map view.
func (s *Session) onNotFound() {
	s.state = StateNotFound
	s.match = domain.MatchResult{}
	s.view = View{}
}
