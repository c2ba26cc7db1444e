package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/custodia-labs/docdupe/internal/core/domain"
)

// Health statuses.
const (
	healthOK          = "ok"
	healthDegraded    = "degraded"
	reportsOK         = "ok"
	reportsUnreadable = "unreadable"
	reportsDisabled   = "disabled"
)

// HealthResponse is the JSON body of the health endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Reports   string `json:"reports"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// handleHealth reports whether the report store can be read. An empty store
// is healthy.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    healthOK,
		Reports:   reportsDisabled,
		Version:   Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if s.ports.Report != nil {
		resp.Reports = reportsOK
		if _, err := s.ports.Report.Latest(ctx); err != nil && !errors.Is(err, domain.ErrNotFound) {
			resp.Status = healthDegraded
			resp.Reports = reportsUnreadable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if resp.Status != healthOK {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp) //nolint:errcheck // client went away
}
