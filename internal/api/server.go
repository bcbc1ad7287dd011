// Package api provides the HTTP API for observing a running town.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/mini-town/internal/agents"
	"github.com/talgya/mini-town/internal/engine"
	"github.com/talgya/mini-town/internal/events"
	"github.com/talgya/mini-town/internal/persistence"
	"github.com/talgya/mini-town/internal/world"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 500
	maxSpeed          = 1000
)

// Server serves the town state over HTTP.
type Server struct {
	Sim        *engine.Simulation
	Eng        *engine.Engine
	DB         *persistence.DB      // Optional; enables /runs
	Journal    *persistence.Journal // Optional; /events reads from it when set
	Port       int
	AdminKey   string // Bearer token for POST endpoints. Empty = POST disabled.
	EventsRate int    // Requests per minute per client on /events; 0 = unlimited
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	eventsHandler := http.HandlerFunc(s.handleEvents)
	if s.EventsRate > 0 {
		eventsHandler = RateLimitMiddleware(NewRateLimiter(s.EventsRate, time.Minute), s.handleEvents)
	}

	// Public endpoints (GET, read-only).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/town", s.handleTown)
	mux.HandleFunc("/api/v1/buildings", s.handleBuildings)
	mux.HandleFunc("/api/v1/pois", s.handlePOIs)
	mux.HandleFunc("/api/v1/agents", s.handleAgents)
	mux.HandleFunc("/api/v1/events", eventsHandler)
	mux.HandleFunc("/api/v1/runs", s.handleRuns)

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/speed", s.adminOnly(s.handleSpeed))

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "", "journal", s.Journal != nil)

	handler := s.Handler()
	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list of extra origins; localhost dev
// servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
// GET requests pass through.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no TOWNSIM_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

// playerStatus is a copy of the player taken under the simulation lock.
type playerStatus struct {
	Pos     world.Vec `json:"pos"`
	Health  int       `json:"health"`
	Impulse world.Vec `json:"impulse"`
	Downed  bool      `json:"downed"`
	Downs   int       `json:"downs"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var status map[string]any
	s.Sim.View(func(sim *engine.Simulation) {
		snap := sim.Ledger.Snapshot()
		p := sim.Player
		player := playerStatus{
			Pos:     p.Position(),
			Health:  p.Health,
			Impulse: p.Impulse,
			Downed:  p.Downed,
			Downs:   p.Downs,
		}
		status = map[string]any{
			"frame":            sim.Frame,
			"sim_time":         engine.SimTime(sim.Frame, s.Eng.Interval),
			"speed":            s.Eng.GetSpeed(),
			"running":          s.Eng.Running(),
			"seed":             sim.Town.Seed,
			"guards":           len(sim.Guards),
			"vehicles":         len(sim.Vehicles),
			"pedestrians":      len(sim.Pedestrians),
			"infamy":           snap.Infamy,
			"heat":             snap.Heat,
			"currency":         snap.Currency,
			"currency_display": humanize.Comma(int64(snap.Currency)),
			"bounties":         snap.Bounties,
			"player":           player,
			"stats":            sim.Stats,
		}
	})
	writeJSON(w, status)
}

func (s *Server) handleTown(w http.ResponseWriter, r *http.Request) {
	var town map[string]any
	s.Sim.View(func(sim *engine.Simulation) {
		g := sim.Town.Grid
		town = map[string]any{
			"width":     g.Width,
			"height":    g.Height,
			"tile_size": world.TileSize,
			"seed":      sim.Town.Seed,
			"rows":      g.Rows(),
			"ground":    sim.Town.GroundRows(),
		}
	})
	writeJSON(w, town)
}

func (s *Server) handleBuildings(w http.ResponseWriter, r *http.Request) {
	type buildingSummary struct {
		X       int       `json:"x"`
		Y       int       `json:"y"`
		Width   int       `json:"width"`
		Height  int       `json:"height"`
		Variant int       `json:"variant"`
		Role    string    `json:"role"`
		Center  world.Vec `json:"center"`
	}

	result := []buildingSummary{}
	s.Sim.View(func(sim *engine.Simulation) {
		for _, b := range sim.Town.Buildings {
			result = append(result, buildingSummary{
				X:       b.Origin.X,
				Y:       b.Origin.Y,
				Width:   b.Width,
				Height:  b.Height,
				Variant: b.Variant,
				Role:    world.RoleName(b.Role),
				Center:  b.Center(),
			})
		}
	})
	writeJSON(w, result)
}

func (s *Server) handlePOIs(w http.ResponseWriter, r *http.Request) {
	type poiSummary struct {
		Type string    `json:"type"`
		X    int       `json:"x"`
		Y    int       `json:"y"`
		Pos  world.Vec `json:"pos"`
	}

	filter := r.URL.Query().Get("type")
	result := []poiSummary{}
	s.Sim.View(func(sim *engine.Simulation) {
		for _, t := range []world.POIType{world.POIWell, world.POINPCSpot} {
			name := world.POIName(t)
			if filter != "" && filter != name {
				continue
			}
			for _, p := range sim.Town.POIs[t] {
				result = append(result, poiSummary{Type: name, X: p.Tile.X, Y: p.Tile.Y, Pos: p.Pos})
			}
		}
	})
	writeJSON(w, result)
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	type agentSummary struct {
		ID        agents.AgentID `json:"id"`
		Name      string         `json:"name"`
		Kind      string         `json:"kind"`
		State     string         `json:"state"`
		Pos       world.Vec      `json:"pos"`
		Direction string         `json:"direction"`
		Speed     float64        `json:"speed"`
		Enforcer  bool           `json:"enforcer,omitempty"`
		Texture   string         `json:"texture,omitempty"`
	}

	kind := r.URL.Query().Get("kind")
	want := func(k string) bool { return kind == "" || kind == k }

	result := []agentSummary{}
	s.Sim.View(func(sim *engine.Simulation) {
		if want("guard") {
			for _, g := range sim.Guards {
				result = append(result, agentSummary{
					ID:        g.ID,
					Name:      g.Name(),
					Kind:      "guard",
					State:     g.State.String(),
					Pos:       g.Pos,
					Direction: g.Facing.String(),
					Speed:     g.Vel.Len(),
					Enforcer:  g.Enforcer,
				})
			}
		}
		if want("vehicle") {
			for _, v := range sim.Vehicles {
				result = append(result, agentSummary{
					ID:        v.ID,
					Name:      v.Name(),
					Kind:      "vehicle",
					State:     v.State.String(),
					Pos:       v.Pos,
					Direction: v.Direction.String(),
					Speed:     v.Speed,
					Texture:   v.Texture,
				})
			}
		}
		if want("pedestrian") {
			for _, p := range sim.Pedestrians {
				result = append(result, agentSummary{
					ID:        p.ID,
					Name:      fmt.Sprintf("civilian-%d", p.ID),
					Kind:      "pedestrian",
					State:     p.State.String(),
					Pos:       p.Pos,
					Direction: p.Direction.String(),
					Speed:     p.Speed,
				})
			}
		}
	})
	writeJSON(w, result)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= maxEventLimit {
			limit = n
		}
	}

	var evs []events.Event
	if s.Journal != nil {
		var err error
		evs, err = s.Journal.Recent(limit)
		if err != nil {
			slog.Error("journal read failed", "error", err)
			http.Error(w, "journal unavailable", http.StatusInternalServerError)
			return
		}
	} else {
		evs = s.Sim.RecentEvents(limit)
	}

	// Optional kind filter, applied after the limit.
	if kind := r.URL.Query().Get("kind"); kind != "" {
		filtered := []events.Event{}
		for _, e := range evs {
			if string(e.Kind) == kind {
				filtered = append(filtered, e)
			}
		}
		evs = filtered
	}

	if evs == nil {
		evs = []events.Event{}
	}
	writeJSON(w, evs)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "journal disabled", http.StatusNotFound)
		return
	}
	runs, err := s.DB.Runs()
	if err != nil {
		slog.Error("list runs failed", "error", err)
		http.Error(w, "journal unavailable", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []persistence.Run{}
	}
	writeJSON(w, runs)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req struct {
			Speed float64 `json:"speed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Speed < 0 || req.Speed > maxSpeed {
			http.Error(w, "speed must be 0-1000", http.StatusBadRequest)
			return
		}
		s.Eng.SetSpeed(req.Speed)
		slog.Info("speed changed", "speed", req.Speed)
	}

	writeJSON(w, map[string]float64{"speed": s.Eng.GetSpeed()})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		slog.Warn("write response failed", "error", err)
	}
}
