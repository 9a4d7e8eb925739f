// Package monitor exposes publisher health and cadence statistics over a
// small HTTP API.
package monitor

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"

	"github.com/robolens/simpub/internal/config"
	"github.com/robolens/simpub/internal/httputil"
	"github.com/robolens/simpub/internal/publish"
	"github.com/robolens/simpub/internal/publisher"
	"github.com/robolens/simpub/internal/version"
)

// Server serves the monitoring endpoints for one publisher instance.
type Server struct {
	addr     string
	pub      *publisher.Publisher
	disp     *publish.Dispatcher
	settings config.Settings

	listener   net.Listener
	httpServer *http.Server
}

// NewServer creates a monitor server. It does not listen until Start.
func NewServer(addr string, pub *publisher.Publisher, disp *publish.Dispatcher, settings config.Settings) *Server {
	return &Server{
		addr:     addr,
		pub:      pub,
		disp:     disp,
		settings: settings,
	}
}

// ServeMux returns the monitor's routing table.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.healthz)
	mux.HandleFunc("/api/publisher/stats", s.showStats)
	mux.HandleFunc("/api/publisher/config", s.showConfig)
	return mux
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

func (s *Server) showStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, statsResponse{
		RunID:      s.disp.RunID(),
		Publisher:  s.pub.Stats(),
		Dispatcher: s.disp.Stats(),
	})
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, s.settings)
}

// statsResponse is the /api/publisher/stats payload.
type statsResponse struct {
	RunID      string          `json:"run_id"`
	Publisher  publisher.Stats `json:"publisher"`
	Dispatcher publish.Stats   `json:"dispatcher"`
}

// Start begins serving in the background.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("monitor failed to listen on %s: %w", s.addr, err)
	}
	s.listener = lis
	s.httpServer = &http.Server{Handler: s.ServeMux()}

	go func() {
		if err := s.httpServer.Serve(lis); err != nil && err != http.ErrServerClosed {
			log.Printf("[Monitor] server error: %v", err)
		}
	}()

	log.Printf("[Monitor] listening on %s", lis.Addr())
	return nil
}

// Addr returns the bound address after Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
