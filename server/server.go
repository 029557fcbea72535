// Package server streams generated planets to preview clients over HTTP and
// websockets. Clients only read what the generator produced.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"tectonicfield/core"
	"tectonicfield/generator"
	"tectonicfield/noise"
	"tectonicfield/store"
)

// Server serves the preview API
type Server struct {
	gen      *generator.Generator
	store    *store.Store
	defaults core.ParameterSet
	noise    noise.Params
	log      *slog.Logger
	upgrader websocket.Upgrader

	clientsMutex sync.RWMutex
	clients      map[*websocket.Conn]*sync.Mutex
}

// New creates a server. st may be nil to disable the run archive.
func New(gen *generator.Generator, st *store.Store, defaults core.ParameterSet, np noise.Params, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		gen:      gen,
		store:    st,
		defaults: defaults,
		noise:    np,
		log:      logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // preview clients are served from anywhere during development
			},
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/generate", s.handleGenerate).Methods(http.MethodGet)
	r.HandleFunc("/api/runs", s.handleRuns).Methods(http.MethodGet)
	r.HandleFunc("/api/runs/{id}", s.handleRun).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebSocket)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "addr", addr, "backend", s.gen.Backend())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.closeClients()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// ClientCount returns the number of connected websocket clients
func (s *Server) ClientCount() int {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	return len(s.clients)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	params, err := parseQuery(s.defaults, r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorMessage(err))
		return
	}

	err = s.gen.With(params, func(b *generator.FieldBundle) error {
		if s.store != nil {
			if err := s.store.SaveRun(r.Context(), b); err != nil {
				s.log.Error("archive run failed", "run", b.RunID.String(), "error", err)
			}
		}
		writeJSON(w, http.StatusOK, newSummary(b))
		return nil
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrInvalidParameter) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorMessage(err))
	}
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusNotFound, ErrorMessage{Type: "error", Error: "run archive disabled"})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusNotFound, ErrorMessage{Type: "error", Error: "run archive disabled"})
		return
	}
	id := mux.Vars(r)["id"]
	run, ok, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorMessage(err))
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorMessage{Type: "error", Error: fmt.Sprintf("run %s not found", id)})
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	s.clientsMutex.Lock()
	s.clients[conn] = connMutex
	s.clientsMutex.Unlock()
	defer func() {
		s.clientsMutex.Lock()
		delete(s.clients, conn)
		s.clientsMutex.Unlock()
	}()

	// each connection owns one output slot; a new request releases the old run
	slot := generator.NewSlot(s.gen)
	defer slot.Release()

	for {
		var req GenerateRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("websocket read ended", "error", err)
			}
			return
		}
		if req.Type != "" && req.Type != "generate" {
			s.send(conn, connMutex, ErrorMessage{Type: "error", Error: fmt.Sprintf("unknown message type %q", req.Type)})
			continue
		}

		params, np, err := req.resolve(s.defaults, s.noise)
		if err != nil {
			s.send(conn, connMutex, errorMessage(err))
			continue
		}
		b, err := slot.Regenerate(params, &np)
		if err != nil {
			s.send(conn, connMutex, errorMessage(err))
			continue
		}
		if s.store != nil {
			if err := s.store.SaveRun(r.Context(), b); err != nil {
				s.log.Error("archive run failed", "run", b.RunID.String(), "error", err)
			}
		}
		if err := s.send(conn, connMutex, newFieldsMessage(b)); err != nil {
			return
		}
	}
}

func (s *Server) send(conn *websocket.Conn, mu *sync.Mutex, v any) error {
	mu.Lock()
	defer mu.Unlock()
	if err := conn.WriteJSON(v); err != nil {
		s.log.Warn("websocket write failed", "error", err)
		return err
	}
	return nil
}

func (s *Server) closeClients() {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	for conn, mu := range s.clients {
		mu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		mu.Unlock()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// parseQuery overlays URL query values on the defaults
func parseQuery(p core.ParameterSet, q url.Values) (core.ParameterSet, error) {
	var err error
	intParam := func(key string, dst *int) {
		if v := q.Get(key); v != "" && err == nil {
			*dst, err = strconv.Atoi(v)
			if err != nil {
				err = fmt.Errorf("query %s: %w", key, err)
			}
		}
	}
	floatParam := func(key string, dst *float64) {
		if v := q.Get(key); v != "" && err == nil {
			*dst, err = strconv.ParseFloat(v, 64)
			if err != nil {
				err = fmt.Errorf("query %s: %w", key, err)
			}
		}
	}

	intParam("plates", &p.PlateCount)
	intParam("width", &p.MapWidth)
	intParam("height", &p.MapHeight)
	floatParam("radius", &p.PlanetRadius)
	floatParam("age", &p.PlanetAgeBillions)
	floatParam("water", &p.WaterAbundance)
	floatParam("oceanic", &p.OceanicChance)
	floatParam("minSpeed", &p.MinSpeed)
	floatParam("maxSpeed", &p.MaxSpeed)
	if err != nil {
		return p, err
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return p, fmt.Errorf("query seed: %w", err)
		}
		p.Seed = int32(seed)
	}
	if v := q.Get("model"); v != "" {
		if p.KinematicModel, err = core.ParseKinematicModel(v); err != nil {
			return p, err
		}
	}
	if v := q.Get("zone"); v != "" {
		if p.Zone, err = core.ParseHabitableZone(v); err != nil {
			return p, err
		}
	}
	if v := q.Get("moon"); v != "" {
		if p.HasLargeMoon, err = strconv.ParseBool(v); err != nil {
			return p, fmt.Errorf("query moon: %w", err)
		}
	}
	return p, nil
}
