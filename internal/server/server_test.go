package server

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"
)

func newTestServer(t *testing.T, port int) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return New(handler, port, time.Second, time.Second, time.Second, logger)
}

func TestNew_BindsConfiguredPort(t *testing.T) {
	srv := newTestServer(t, 5000)

	if srv.Addr() != ":5000" {
		t.Errorf("expected addr :5000, got %s", srv.Addr())
	}
}

func TestNew_BindsAlternatePort(t *testing.T) {
	srv := newTestServer(t, 8081)

	if srv.Addr() != ":8081" {
		t.Errorf("expected addr :8081, got %s", srv.Addr())
	}
}

func TestOnShutdown_RunsInReverseOrder(t *testing.T) {
	srv := newTestServer(t, 0)

	var order []string
	srv.OnShutdown("first", func(ctx context.Context) error {
		order = append(order, "first")
		return nil
	})
	srv.OnShutdown("second", func(ctx context.Context) error {
		order = append(order, "second")
		return nil
	})

	if err := srv.gracefulShutdown(); err != nil {
		t.Fatalf("gracefulShutdown failed: %v", err)
	}

	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("expected LIFO shutdown order, got %v", order)
	}
}

func TestRun_ListenFailureReleasesResources(t *testing.T) {
	// Occupy a port so ListenAndServe fails immediately.
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	srv := newTestServer(t, port)

	closed := false
	srv.OnShutdown("repository", func(ctx context.Context) error {
		closed = true
		return nil
	})

	if err := srv.Run(); err == nil {
		t.Fatal("expected Run to fail on an occupied port")
	}

	if !closed {
		t.Error("expected shutdown funcs to run after a listen failure")
	}
}

func TestOnShutdown_PropagatesError(t *testing.T) {
	srv := newTestServer(t, 0)

	wantErr := errors.New("close failed")
	srv.OnShutdown("broken", func(ctx context.Context) error {
		return wantErr
	})

	if err := srv.gracefulShutdown(); !errors.Is(err, wantErr) {
		t.Errorf("expected shutdown error to propagate, got %v", err)
	}
}
