// Package health serves the /healthz endpoint for punchcard processes.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"
)

// Pinger is a backend whose reachability decides overall health, such as
// the relay's Redis client or the Discord gateway session.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Counter reports how many owners the record store tracks.
type Counter interface {
	Len() int
}

// Server provides HTTP health check endpoints.
type Server struct {
	addr     string
	backend  string
	pinger   Pinger
	records  Counter
	server   *http.Server
	listener net.Listener
}

// NewServer creates a health server. backend names the pinger in responses.
func NewServer(addr, backend string, pinger Pinger, records Counter) *Server {
	return &Server{
		addr:    addr,
		backend: backend,
		pinger:  pinger,
		records: records,
	}
}

// Start binds the listen address and serves in the background.
func (h *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.healthCheckHandler)

	ln, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", h.addr, err)
	}
	h.listener = ln

	h.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		if err := h.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("[Health] Server error: %v", err)
		}
	}()

	return nil
}

// Addr returns the bound address once started.
func (h *Server) Addr() string {
	if h.listener == nil {
		return h.addr
	}
	return h.listener.Addr().String()
}

// Shutdown gracefully shuts down the server.
func (h *Server) Shutdown(ctx context.Context) error {
	if h.server == nil {
		return nil
	}
	return h.server.Shutdown(ctx)
}

// healthCheckHandler handles GET /healthz.
// Returns 200 if the backend answers, 503 otherwise.
func (h *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:  "healthy",
		Backend: h.backend,
	}
	if h.records != nil {
		response.Owners = h.records.Len()
	}

	status := http.StatusOK
	if h.pinger != nil {
		if err := h.pinger.Ping(ctx); err != nil {
			response.Status = "unhealthy"
			response.Connection = "disconnected"
			response.Error = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			response.Connection = "connected"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// HealthResponse is the JSON body of /healthz.
type HealthResponse struct {
	Status     string `json:"status"`
	Backend    string `json:"backend,omitempty"`
	Connection string `json:"connection,omitempty"`
	Owners     int    `json:"owners"`
	Error      string `json:"error,omitempty"`
}
