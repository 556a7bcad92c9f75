// internal/httpserver/server.go
//
// HTTP server wiring for the Keshimasu backend.
// Responsibilities:
//   - Router + middleware (request IDs, access logs, panic recovery,
//     timeouts, JSON content type, CORS).
//   - Public endpoints: "/", "/health".
//   - Player endpoints: register, status, rankings, score update.
//   - Puzzle catalog endpoints: list, next, create.
//   - Play endpoints: new, click, clear, reset, state.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled.
//   - Optional auth decorates requests with the player when a valid token is
//     present; guests can still play unranked.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/keshimasu/internal/catalog"
	"github.com/robalobadob/keshimasu/internal/config"
	"github.com/robalobadob/keshimasu/internal/ledger"
	"github.com/robalobadob/keshimasu/internal/players"
	"github.com/robalobadob/keshimasu/internal/store"
	"github.com/robalobadob/keshimasu/internal/words"
)

// Server bundles the router and every store the handlers use.
type Server struct {
	r        *chi.Mux
	cfg      *config.Config
	sessions store.Store
	players  *players.Store
	puzzles  *catalog.Store
	ledger   *ledger.Ledger
	lex      *words.Lexicon
	newID    func() string
}

// New constructs a Server over db, installs middleware, and registers routes.
func New(cfg *config.Config, db *sql.DB, sessions store.Store, lex *words.Lexicon) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		sessions: sessions,
		players:  players.NewStore(db),
		puzzles:  catalog.NewStore(db),
		ledger:   ledger.New(db),
		lex:      lex,
		newID:    newSessionID,
	}

	// --- middleware ---
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "keshimasu-go",
			"endpoints": []string{"/health", "/api/player/*", "/api/rankings/{type}", "/api/puzzles/*", "/api/play/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "words": s.lex.Stats()})
	})

	s.r.Route("/api", func(r chi.Router) {
		r.Use(s.withOptionalAuth)
		s.mountPlayer(r)
		s.mountPuzzles(r)
		s.mountPlay(r)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// newSessionID returns a time-ordered UUIDv7, falling back to v4.
func newSessionID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// ----------------------------- middleware ----------------------------------

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ helpers ------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// decodeJSON reads a JSON body into v, writing 400 bad_json on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return false
	}
	return true
}
