// internal/httpserver/server.go
//
// HTTP front end for the word scramble rule engine.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Session endpoints (per player cookie):
//       POST /session/new   start (or restart) a session; mode "random" | "daily"
//       GET  /session       current session snapshot
//       POST /session/word  submit a candidate word
//
// Notes:
//   - The engine returns kinds; titles/messages come from the messages package.
//   - Each player owns one engine in the store; restarting replaces its session.
//   - Oracle failures surface as 503 so clients can retry the same word.
//   - Players idle for longer than PlayerTTL are swept from the store.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordscramble/internal/config"
	"github.com/robalobadob/wordscramble/internal/daily"
	"github.com/robalobadob/wordscramble/internal/game"
	"github.com/robalobadob/wordscramble/internal/messages"
	"github.com/robalobadob/wordscramble/internal/spelling"
	"github.com/robalobadob/wordscramble/internal/store"
)

// sweepInterval bounds how long an idle player outlives PlayerTTL.
const sweepInterval = 10 * time.Minute

// Server bundles router, per-player engines, and the shared collaborators.
type Server struct {
	r      *chi.Mux
	store  store.Store
	oracle spelling.Oracle
	pool   []string
	cfg    config.Config
}

// New constructs a Server, installs middleware, and registers routes.
// pool is the already-loaded root-word pool.
func New(st store.Store, oracle spelling.Oracle, pool []string, cfg config.Config) *Server {
	s := &Server{r: chi.NewRouter(), store: st, oracle: oracle, pool: pool, cfg: cfg}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                       // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"wordscramble","endpoints":["/health","POST /session/new","GET /session","POST /session/word"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		out := map[string]any{
			"pool":     len(s.pool),
			"oracle":   s.cfg.Spelling.Backend,
			"language": s.cfg.Language,
			"players":  s.store.Len(),
		}
		if c, ok := s.oracle.(*spelling.Cached); ok {
			out["cachedAnswers"] = c.Len()
		}
		_ = json.NewEncoder(w).Encode(out)
	})

	// --- session ---
	s.r.Route("/session", func(r chi.Router) {
		r.Use(s.withPlayer)
		r.Post("/new", s.handleNewSession)
		r.Get("/", s.handleGetSession)
		r.Post("/word", s.handleWord)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- hs.ListenAndServe() }()
	go s.sweepLoop(ctx)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Sweep deletes players that have not been seen for PlayerTTL as of now and
// returns how many were removed. Their cookies have expired by then anyway.
func (s *Server) Sweep(ctx context.Context, now time.Time) int {
	if s.cfg.PlayerTTL <= 0 {
		return 0
	}
	ids := s.store.Idle(now.Add(-s.cfg.PlayerTTL))
	for _, id := range ids {
		if err := s.store.Delete(ctx, id); err != nil {
			log.Warn().Err(err).Str("player", id).Msg("sweep player")
		}
	}
	if len(ids) > 0 {
		log.Info().Int("removed", len(ids)).Int("players", s.store.Len()).Msg("idle players swept")
	}
	return len(ids)
}

// sweepLoop runs Sweep periodically until ctx is done.
func (s *Server) sweepLoop(ctx context.Context) {
	every := sweepInterval
	if ttl := s.cfg.PlayerTTL; ttl > 0 && ttl < every {
		every = ttl
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.Sweep(ctx, now)
		}
	}
}

// ----------------------------- middleware ----------------------------------

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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one debug line per request with status and latency.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("requestId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}

// ----------------------------- session -------------------------------------

// sessionRes is the JSON view of a session.
type sessionRes struct {
	game.Snapshot
	Mode string `json:"mode,omitempty"`
	Date string `json:"date,omitempty"` // daily mode only
}

// newSessionReq is the payload for POST /session/new.
type newSessionReq struct {
	Mode string `json:"mode"` // "random" (default) | "daily"
}

// handleNewSession starts a fresh session for the player, replacing any
// previous one.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
			return
		}
	}

	id := playerID(r)
	eng, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		eng = s.newEngine()
		err = s.store.Save(r.Context(), id, eng)
	}
	if err != nil {
		log.Error().Err(err).Str("player", id).Msg("load engine")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	res := sessionRes{Mode: "random"}
	switch req.Mode {
	case "", "random":
		eng.StartSession(s.pool, s.cfg.FallbackWord)
	case "daily":
		p := daily.Picker{Salt: s.cfg.DailySalt}
		res.Mode, res.Date = "daily", p.Date()
		eng.StartSessionWith(p, s.pool, s.cfg.FallbackWord)
	default:
		http.Error(w, `{"error":"bad_mode"}`, http.StatusBadRequest)
		return
	}

	res.Snapshot = eng.Snapshot()
	log.Info().Str("player", id).Str("mode", res.Mode).Str("root", res.RootWord).Msg("session started")
	_ = json.NewEncoder(w).Encode(res)
}

// handleGetSession returns the player's current session.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	eng, err := s.store.Get(r.Context(), playerID(r))
	if err != nil || !eng.Snapshot().Active {
		http.Error(w, `{"error":"no_session"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(sessionRes{Snapshot: eng.Snapshot()})
}

// wordReq/wordRes payloads for POST /session/word.
type wordReq struct {
	Word string `json:"word"`
}
type wordRes struct {
	Kind     game.Kind `json:"kind"`
	Word     string    `json:"word"`
	Accepted bool      `json:"accepted"`
	messages.Alert
	Session game.Snapshot `json:"session"`
}

// handleWord validates a candidate against the player's session.
func (s *Server) handleWord(w http.ResponseWriter, r *http.Request) {
	var req wordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	id := playerID(r)
	eng, err := s.store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"no_session"}`, http.StatusConflict)
		return
	}

	res, snap, err := eng.ValidateSnapshot(r.Context(), req.Word)
	switch {
	case errors.Is(err, game.ErrNoSession):
		http.Error(w, `{"error":"no_session"}`, http.StatusConflict)
		return
	case errors.Is(err, game.ErrOracleUnavailable):
		log.Warn().Err(err).Str("player", id).Msg("validate word")
		http.Error(w, `{"error":"oracle_unavailable"}`, http.StatusServiceUnavailable)
		return
	case err != nil:
		log.Error().Err(err).Str("player", id).Msg("validate word")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(wordRes{
		Kind:     res.Kind,
		Word:     res.Word,
		Accepted: res.Accepted(),
		Alert:    messages.For(res.Kind, snap.RootWord),
		Session:  snap,
	})
}

// newEngine builds an engine wired to the shared oracle and settings.
func (s *Server) newEngine() *game.Engine {
	return game.New(s.oracle,
		game.WithLanguage(s.cfg.Language),
		game.WithOracleTimeout(s.cfg.OracleTimeout),
		game.WithLogger(log.Logger),
	)
}
