package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/couchcryptid/solar-lookup/internal/domain"
	"github.com/couchcryptid/solar-lookup/internal/lookup"
)

const maxRequestBytes = 64 << 10

const notFoundMessage = "No installation found for this address."

type searchResponse struct {
	Found   bool             `json:"found"`
	Query   string           `json:"query"`
	Key     string           `json:"key,omitempty"`
	Tier    domain.MatchTier `json:"tier,omitempty"`
	Score   float64          `json:"score,omitempty"`
	View    *lookup.View     `json:"view,omitempty"`
	Map     domain.MapView   `json:"map"`
	Located bool             `json:"located"`
	Message string           `json:"message,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query parameter q is required"})
		return
	}

	res := s.svc.Search(r.Context(), query)
	resp := searchResponse{
		Found:   res.Found(),
		Query:   res.Query,
		Map:     res.Map,
		Located: res.Located,
	}
	if !res.Found() {
		resp.Message = notFoundMessage
		writeJSON(w, http.StatusNotFound, resp)
		return
	}

	resp.Key = res.Match.Key
	resp.Tier = res.Match.Tier
	resp.Score = res.Match.Score
	resp.View = &res.View
	writeJSON(w, http.StatusOK, resp)
}

// recalculateRequest carries raw parameter edits. Omitted parameters keep
// the record's own value; unparseable ones reset to the default.
type recalculateRequest struct {
	Key             string     `json:"key"`
	YieldFactor     paramInput `json:"yield_factor"`
	AvailabilityPct paramInput `json:"availability_pct"`
	AvgPanelWp      paramInput `json:"avg_panel_wp"`
}

// paramInput accepts a JSON number or string as typed by a user.
type paramInput struct {
	raw string
	set bool
}

func (p *paramInput) UnmarshalJSON(b []byte) error {
	p.set = true
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		p.raw = s
		return nil
	}
	p.raw = string(b)
	return nil
}

func (s *Server) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	var req recalculateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	record, ok := s.svc.Record(domain.Normalize(req.Key))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown record key"})
		return
	}

	params := lookup.ParamsFromRecord(record)
	edits := []struct {
		field string
		input paramInput
	}{
		{lookup.ParamYieldFactor, req.YieldFactor},
		{lookup.ParamAvailabilityPct, req.AvailabilityPct},
		{lookup.ParamAvgPanelWp, req.AvgPanelWp},
	}
	for _, e := range edits {
		if !e.input.set {
			continue
		}
		var err error
		if params, err = params.With(e.field, e.input.raw); err != nil {
			s.logger.Error("recalculate edit rejected", "field", e.field, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
			return
		}
	}

	writeJSON(w, http.StatusOK, s.svc.Recalculate(record, params))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client disconnects are not actionable
}
