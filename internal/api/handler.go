package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/wenlabs/wentracker/internal/biz/repo"
	"github.com/wenlabs/wentracker/internal/biz/usecase"
	"github.com/wenlabs/wentracker/internal/service"
)

// Server provides the dashboard HTTP API
type Server struct {
	newTracker service.TrackerFactory
	history    repo.HistoryRepo // optional

	server *http.Server
	port   int
	log    zerolog.Logger
}

// NewServer creates a new dashboard API server
func NewServer(newTracker service.TrackerFactory, history repo.HistoryRepo, port int, log zerolog.Logger) *Server {
	return &Server{
		newTracker: newTracker,
		history:    history,
		port:       port,
		log:        log.With().Str("component", "api").Logger(),
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/wen-data", s.handleWenData)
	mux.HandleFunc("/api/test-connection", s.handleTestConnection)
	mux.HandleFunc("/api/history", s.handleHistory)

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, map[string]interface{}{
			"status":  "OK",
			"message": "wen tracker API running",
		})
	})

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: withCORS(mux),
	}

	s.log.Info().Int("port", s.port).Msg("starting HTTP server")
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Shutdown(context.Background())
	}
	return nil
}

// withCORS adds the permissive headers the browser dashboard needs and
// short-circuits preflight requests
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WenDataRequest is the dashboard's fetch-and-analyze request
type WenDataRequest struct {
	APIURL      string `json:"apiUrl"`
	APIToken    string `json:"apiToken"`
	FetchMode   string `json:"fetchMode"`
	MaxPages    int    `json:"maxPages"`
	TargetHours int    `json:"targetHours"`
	TodayOnly   bool   `json:"todayOnly"`
}

func (s *Server) handleWenData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req WenDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorStatus(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.APIURL == "" || req.APIToken == "" {
		s.writeErrorStatus(w, http.StatusBadRequest, "API URL and Token are required")
		return
	}
	if req.FetchMode == "" {
		req.FetchMode = "recent"
	}
	if req.MaxPages <= 0 {
		req.MaxPages = 5
	}
	if req.TargetHours <= 0 {
		req.TargetHours = 24
	}

	tracker := s.newTracker(req.APIToken)
	analysis, err := tracker.RunOnce(r.Context(), service.TrackRequest{
		Mode:        usecase.FetchMode(req.FetchMode),
		URL:         req.APIURL,
		MaxPages:    req.MaxPages,
		TargetHours: req.TargetHours,
		TodayOnly:   req.TodayOnly,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("wen-data request failed")
		s.writeErrorStatus(w, http.StatusBadGateway, "failed to fetch WEN data: "+err.Error())
		return
	}

	s.writeJSON(w, analysis)
}

func (s *Server) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req WenDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorStatus(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.APIURL == "" || req.APIToken == "" {
		s.writeErrorStatus(w, http.StatusBadRequest, "API URL and Token are required")
		return
	}

	tracker := s.newTracker(req.APIToken)
	analysis, err := tracker.RunOnce(r.Context(), service.TrackRequest{
		Mode: usecase.ModeSingle,
		URL:  req.APIURL,
	})
	if err != nil {
		s.writeJSON(w, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	s.writeJSON(w, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Connection test successful - Found %d messages", analysis.TotalMessages),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.history == nil {
		s.writeErrorStatus(w, http.StatusNotFound, "history store not configured")
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			limit = parsed
		}
	}

	snaps, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.writeErrorStatus(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, map[string]interface{}{"snapshots": snaps})
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeErrorStatus(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
