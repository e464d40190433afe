// Package service provides a lightweight HTTP API around the compression
// pipeline: POST /compress runs one call end to end, GET /status reports
// health and readiness, GET /metrics exposes the counters.
//
// Endpoints:
//
//	POST /compress - {"text":"...", "aggressive": false} -> pipeline.Result
//	GET  /status   - service health, uptime, readiness
//	GET  /metrics  - counters snapshot
package service

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"promptcompress/internal/config"
	"promptcompress/internal/metrics"
	"promptcompress/internal/pipeline"
)

const maxRequestBytes = 1 << 20 // 1 MiB

// Server is the HTTP front door around a pipeline.Driver.
type Server struct {
	cfg       *config.Config
	startTime time.Time
	driver    *pipeline.Driver
	token     string // bearer token for auth; empty = no auth
	metrics   *metrics.Metrics
}

// New creates a Server.
func New(cfg *config.Config, driver *pipeline.Driver, m *metrics.Metrics) *Server {
	s := &Server{
		cfg:       cfg,
		startTime: time.Now(),
		driver:    driver,
		token:     cfg.ServiceToken,
		metrics:   m,
	}
	if s.token != "" {
		log.Printf("[SERVICE] Bearer token authentication enabled")
	}
	return s
}

// Handler returns the HTTP handler for the service API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/compress", s.handleCompress)
	return s.authMiddleware(mux)
}

// authMiddleware checks for a valid Bearer token if one is configured.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, r)
			return
		}
		auth := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(auth, prefix) ||
			subtle.ConstantTimeCompare([]byte(strings.TrimSpace(auth[len(prefix):])), []byte(s.token)) != 1 {
			log.Printf("[SERVICE] Unauthorized access attempt from %s to %s", r.RemoteAddr, r.URL.Path)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	type response struct {
		Status  string `json:"status"`
		Uptime  string `json:"uptime"`
		Ready   bool   `json:"ready"`
		Port    int    `json:"servicePort"`
	}
	writeJSON(w, http.StatusOK, response{
		Status: "running",
		Uptime: time.Since(s.startTime).Round(time.Second).String(),
		Ready:  s.driver.IsReady(),
		Port:   s.cfg.ServicePort,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	if s.metrics == nil {
		http.Error(w, "metrics not enabled", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

func (s *Server) handleCompress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var req struct {
		Text       string `json:"text"`
		Aggressive bool   `json:"aggressive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request: need {\"text\":\"...\"}", http.StatusBadRequest)
		return
	}

	result, err := s.driver.Compress(req.Text, pipeline.Options{Aggressive: req.Aggressive})
	if err != nil {
		log.Printf("[SERVICE] compress error: %v", err)
		http.Error(w, "compression engine not ready", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[SERVICE] JSON encode error: %v", err)
	}
}

// ListenAndServe starts the service HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.BindAddress, s.cfg.ServicePort)
	log.Printf("[SERVICE] Listening on %s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
