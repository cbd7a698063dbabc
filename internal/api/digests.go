package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// runDigestsRequest is the optional body of POST /api/admin/digests/run.
type runDigestsRequest struct {
	// Now overrides the run instant, e.g. to preview a Monday run on a Sunday.
	Now *time.Time `json:"now"`
}

// handleRunDigests runs a forced digest batch and returns the RunResult.
//
// POST /api/admin/digests/run
//
// The body is optional. Per-unit failures are in the 200 response; only a
// failed bulk preference load is a 500.
func (s *Server) handleRunDigests(w http.ResponseWriter, r *http.Request) {
	var req runDigestsRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondErr(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	now := s.cfg.Now()
	if req.Now != nil {
		now = *req.Now
	}

	s.logger.Info("api: manual digest run requested",
		"admin", adminSubject(r.Context()),
		"now", now.UTC().Format(time.RFC3339),
		logField(r),
	)

	// Shutdown cancels the root context; the run must not outlive it.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	stop := context.AfterFunc(s.cfg.RootContext, cancel)
	defer stop()

	result, err := s.runner.RunDigest(ctx, now, true)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	respond(w, http.StatusOK, result)
}

// logField returns a slog.Attr using the request ID for correlation.
func logField(r *http.Request) slog.Attr {
	return slog.String("request_id", middleware.GetReqID(r.Context()))
}
