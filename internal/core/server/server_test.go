package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/mohammed-shakir/spatial-index/internal/core/config"
	"github.com/mohammed-shakir/spatial-index/internal/core/observability"
	"github.com/mohammed-shakir/spatial-index/internal/core/router"
	"github.com/mohammed-shakir/spatial-index/internal/health"
	h3mapper "github.com/mohammed-shakir/spatial-index/internal/mapper/h3"
	"github.com/mohammed-shakir/spatial-index/internal/metrics"
	"github.com/mohammed-shakir/spatial-index/internal/query"
	"github.com/mohammed-shakir/spatial-index/internal/store/memstore"
)

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mp := metrics.Init(metrics.Config{})
	observability.Init(mp.Registerer(), true)
	q := query.New(memstore.New(), h3mapper.New(), nil)
	api := router.New(logger, router.Deps{Queries: []*query.Orchestrator{q}})
	return NewHandler(logger, api, health.Probe{}, mp)
}

func TestHandler_Routes(t *testing.T) {
	is := is.New(t)
	srv := httptest.NewServer(newHandler(t))
	defer srv.Close()

	for _, tc := range []struct {
		path string
		want int
	}{
		{"/healthz", http.StatusOK},
		{"/readyz", http.StatusOK},
		{"/v1/h3/encode?lat=1&lon=1", http.StatusOK},
		{"/v1/query/radius?lat=59.33&lon=18.07&radius_km=1", http.StatusOK},
		{"/nope", http.StatusNotFound},
	} {
		path, want := tc.path, tc.want
		resp, err := http.Get(srv.URL + path)
		is.NoErr(err)
		_ = resp.Body.Close()
		if resp.StatusCode != want {
			t.Fatalf("%s: status=%d want %d", path, resp.StatusCode, want)
		}
		if resp.Header.Get("X-Request-ID") == "" {
			t.Fatalf("%s: missing X-Request-ID", path)
		}
	}

	resp, err := http.Get(srv.URL + "/metrics")
	is.NoErr(err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(string(b), `route="/v1/query/radius"`))
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	cfg := config.Config{Addr: addr, QueryTimeout: time.Second}
	go func() { done <- Run(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), newHandler(t)) }()

	deadline := time.Now().Add(3 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
