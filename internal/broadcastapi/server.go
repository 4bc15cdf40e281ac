// Package broadcastapi provides a read-only REST API over the
// broadcaster's current traffic state.
package broadcastapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gdl90/internal/traffic"
)

// Server serves the read-only traffic snapshot API.
type Server struct {
	tracker     *traffic.Tracker
	authEnabled bool
	apiKeys     map[string]bool
}

// Config configures Server.
type Config struct {
	AuthEnabled bool
	APIKeys     []string
}

// NewServer creates a new read API server over tracker.
func NewServer(tracker *traffic.Tracker, cfg Config) *Server {
	keys := make(map[string]bool)
	for _, k := range cfg.APIKeys {
		if k != "" {
			keys[k] = true
		}
	}
	return &Server{tracker: tracker, authEnabled: cfg.AuthEnabled, apiKeys: keys}
}

// Router returns the configured chi router, for embedding or for
// passing straight to http.ListenAndServe.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(10 * time.Second))
	r.Use(corsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			if s.authEnabled {
				r.Use(s.authMiddleware)
			}
			r.Get("/traffic", s.handleSnapshot)
			r.Get("/traffic/{icao_hex}", s.handleGetOne)
		})
	})

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, X-API-Key")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			auth := r.Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				apiKey = strings.TrimPrefix(auth, "Bearer ")
			}
		}
		if apiKey == "" {
			apiKey = r.URL.Query().Get("api_key")
		}
		if apiKey == "" {
			writeError(w, http.StatusUnauthorized, "API key required")
			return
		}
		if !s.apiKeys[apiKey] {
			writeError(w, http.StatusForbidden, "Invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AircraftResponse is the JSON shape of a single tracked aircraft.
type AircraftResponse struct {
	ICAOHex             string  `json:"icao_hex"`
	Callsign            string  `json:"callsign,omitempty"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	PressureAltitudeFt  *int32  `json:"pressure_altitude_ft,omitempty"`
	TrackDeg            float64 `json:"track_deg"`
	GroundSpeedKt       float64 `json:"ground_speed_kt"`
	VerticalRateFPM     *int32  `json:"vertical_rate_fpm,omitempty"`
	Source              string  `json:"source"`
	ObservedAt          string  `json:"observed_at"`
}

func toResponse(o traffic.Observation) AircraftResponse {
	return AircraftResponse{
		ICAOHex:             strconv.FormatUint(uint64(o.ICAOAddress), 16),
		Callsign:            strings.TrimSpace(o.Callsign),
		Latitude:            o.Latitude,
		Longitude:           o.Longitude,
		PressureAltitudeFt:  o.PressureAltitudeFt,
		TrackDeg:            o.TrackDeg,
		GroundSpeedKt:       o.GroundSpeedKt,
		VerticalRateFPM:     o.VerticalRateFPM,
		Source:              o.Source,
		ObservedAt:          o.ObservedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	resp := make([]AircraftResponse, len(snap))
	for i, o := range snap {
		resp[i] = toResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetOne(w http.ResponseWriter, r *http.Request) {
	hex := chi.URLParam(r, "icao_hex")
	addr, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "icao_hex must be a hex ICAO 24-bit address")
		return
	}

	obs, ok := s.tracker.Get(uint32(addr))
	if !ok {
		writeError(w, http.StatusNotFound, "aircraft not currently tracked")
		return
	}
	writeJSON(w, http.StatusOK, toResponse(obs))
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
