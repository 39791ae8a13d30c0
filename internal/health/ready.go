package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mohammed-shakir/spatial-index/internal/store"
)

// ReadinessReporter is implemented by the Kafka ingest consumer.
type ReadinessReporter interface {
	Readiness() (ready bool, partitions []int32)
}

type Probe struct {
	// Store is pinged on every request when set.
	Store store.Pinger
	// Ingest is consulted when ingest is enabled.
	Ingest  ReadinessReporter
	Timeout time.Duration
}

type readiness struct {
	Status     string  `json:"status"`
	Store      string  `json:"store"`
	Ingest     string  `json:"ingest,omitempty"`
	Partitions []int32 `json:"partitions,omitempty"`
}

func Readiness(p Probe) http.HandlerFunc {
	if p.Timeout <= 0 {
		p.Timeout = time.Second
	}
	return func(w http.ResponseWriter, r *http.Request) {
		out := readiness{Status: "ready", Store: "ok"}
		if p.Store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), p.Timeout)
			err := p.Store.Ping(ctx)
			cancel()
			if err != nil {
				out.Status = "not_ready"
				out.Store = err.Error()
			}
		}
		if p.Ingest != nil {
			ready, parts := p.Ingest.Readiness()
			out.Ingest = "ok"
			out.Partitions = parts
			if !ready {
				out.Status = "not_ready"
				out.Ingest = "no partitions assigned"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if out.Status != "ready" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}
