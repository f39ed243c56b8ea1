// Package pprof exposes runtime profiling over a separate debug listener,
// kept off the public API port.
package pprof

import (
	"context"
	"fmt"
	"net"
	"net/http"
	netpprof "net/http/pprof"
	"sync"
	"time"

	"github.com/askitmo/askitmo/internal/logger"
)

// Handler serves the standard pprof endpoints on a dedicated address.
type Handler struct {
	addr     string
	server   *http.Server
	listener net.Listener

	mu       sync.Mutex
	stopping bool
}

// NewHandler creates a pprof handler listening on addr (e.g. "localhost:6060").
func NewHandler(addr string) *Handler {
	return &Handler{addr: addr}
}

// Start binds the debug listener and serves pprof endpoints in the background.
func (h *Handler) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", netpprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", netpprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", netpprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", netpprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", netpprof.Trace)
	mux.Handle("/debug/pprof/goroutine", netpprof.Handler("goroutine"))
	mux.Handle("/debug/pprof/heap", netpprof.Handler("heap"))
	mux.Handle("/debug/pprof/block", netpprof.Handler("block"))
	mux.Handle("/debug/pprof/mutex", netpprof.Handler("mutex"))

	ln, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("failed to bind pprof listener: %w", err)
	}

	h.listener = ln
	h.server = &http.Server{
		Addr:    h.addr,
		Handler: mux,
	}

	go func() {
		if err := h.server.Serve(h.listener); err != nil && err != http.ErrServerClosed {
			logger.Error("pprof server error: %v", err)
		}
	}()

	logger.Info("pprof listening on %s", h.addr)
	return nil
}

// Stop shuts down the debug listener.
func (h *Handler) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopping || h.server == nil {
		return nil
	}
	h.stopping = true

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return h.server.Shutdown(ctx)
}
