package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thumblens/thumblens/internal/normalize"
	"github.com/thumblens/thumblens/pkg/client"
)

// HealthChecker probes one upstream.  Detail is a short human summary of
// what the probe saw.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) (detail string, err error)
}

// APIChecker probes the statistics service through the pipeline status
// endpoint and reports extraction progress.
type APIChecker struct {
	Client *client.Client
}

func (c APIChecker) Name() string { return "statistics_api" }

func (c APIChecker) Check(ctx context.Context) (string, error) {
	ps, err := c.Client.Thumbnails().PipelineStatus(ctx)
	if err != nil {
		return "", err
	}
	p := normalize.PipelineProgress(ps)
	return fmt.Sprintf("%d of %d thumbnails processed (%.1f%%)", p.Processed, p.Total, p.Percent), nil
}

// HealthHandler serves /healthz and /readyz.
type HealthHandler struct {
	version  string
	started  time.Time
	timeout  time.Duration
	checkers []HealthChecker
}

func NewHealthHandler(version string, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		version:  version,
		started:  time.Now(),
		timeout:  5 * time.Second,
		checkers: checkers,
	}
}

type liveness struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

type readiness struct {
	Status string       `json:"status"`
	Checks []checkReply `json:"checks,omitempty"`
}

type checkReply struct {
	Name      string `json:"name"`
	OK        bool   `json:"ok"`
	LatencyMS int64  `json:"latency_ms"`
	Detail    string `json:"detail,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Liveness answers 200 while the process serves requests.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, liveness{
		Status:  "alive",
		Version: h.version,
		Uptime:  time.Since(h.started).Truncate(time.Second).String(),
	})
}

// Readiness answers 503 unless every upstream probe succeeds.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	replies := make([]checkReply, len(h.checkers))
	var g errgroup.Group
	for i, c := range h.checkers {
		i, c := i, c
		g.Go(func() error {
			start := time.Now()
			detail, err := c.Check(ctx)
			replies[i] = checkReply{
				Name:      c.Name(),
				OK:        err == nil,
				LatencyMS: time.Since(start).Milliseconds(),
				Detail:    detail,
			}
			if err != nil {
				replies[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	resp := readiness{Status: "ready", Checks: replies}
	code := http.StatusOK
	for _, c := range replies {
		if !c.OK {
			resp.Status = "not_ready"
			code = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, resp)
}
