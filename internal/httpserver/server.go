// internal/httpserver/server.go
//
// HTTP server wiring for the rock-paper-scissors supporter.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Stateless prediction: POST /predict.
//   - Session endpoints: POST /session/new, and behind a session token
//     GET /session, POST /session/move, POST /session/reset.
//   - Archive endpoints mounted from routes_archive.go.
//
// Notes:
//   - The session token is a JWT carrying the session ID. It is returned in
//     the body and set as an HttpOnly cookie; either may be presented.
//   - Moves on one session are serialized through a striped lock so two
//     concurrent requests cannot both score the same round.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/bsangs/rock-paper-scissors-supporter/internal/archive"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/auth"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/config"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/game"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/metrics"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/move"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/predict"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/store"
)

// Deps are the collaborators a Server needs.
// Archive may be nil; Source defaults to predict.Global and Metrics to a fresh set.
type Deps struct {
	Store   store.Store
	Archive *archive.Store
	Metrics *metrics.Metrics
	Source  predict.Source
}

// Server bundles router, session store, archive and metrics.
type Server struct {
	r       *chi.Mux
	cfg     config.Config
	store   store.Store
	archive *archive.Store
	metrics *metrics.Metrics
	src     predict.Source
	issuer  *auth.Issuer
	locks   [64]sync.Mutex
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, d Deps) *Server {
	if d.Source == nil {
		d.Source = predict.Global
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	s := &Server{
		r:       chi.NewRouter(),
		cfg:     cfg,
		store:   d.Store,
		archive: d.Archive,
		metrics: d.Metrics,
		src:     d.Source,
		issuer:  auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))     // request-scoped logger
	s.r.Use(accessLog)                       // one line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"rps-supporter","endpoints":["/health","POST /predict","POST /session/new","GET /session","POST /session/move","POST /session/reset","/stats"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	// Stateless access to the predictor.
	s.r.Post("/predict", s.handlePredict)

	// Sessions.
	s.r.Post("/session/new", s.handleNewSession)
	s.r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/session", s.handleGetSession)
		r.Post("/session/move", s.handleMove)
		r.Post("/session/reset", s.handleReset)
	})

	// Archive + admin.
	s.mountArchive(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
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
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return hs.Shutdown(shutdownCtx)
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured origin.
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

// accessLog writes one structured line per request.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("reqId", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
})

// ctxSessionKey is the context key type for the session ID.
type ctxSessionKey struct{}

// requireSession resolves the session token to a session ID.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := auth.BearerOrCookie(r, s.cfg.CookieName)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		sid, err := s.issuer.Parse(tok)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// lock serializes work on one session ID.
func (s *Server) lock(id string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	mu := &s.locks[h.Sum32()%uint32(len(s.locks))]
	mu.Lock()
	return mu.Unlock
}

// ----------------------------- helpers -------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// ------------------------------ PREDICT ------------------------------------

type predictReq struct {
	History []string `json:"history"`
}

type predictRes struct {
	Prediction     move.Move     `json:"prediction"`
	Recommendation move.Move     `json:"recommendation"`
	Random         bool          `json:"random"`
	Transitions    predict.Table `json:"transitions"`
}

// handlePredict runs the predictor over a caller-supplied history.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	history := make([]move.Move, 0, len(req.History))
	for i, raw := range req.History {
		m, err := move.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_move", "index": i, "value": raw})
			return
		}
		history = append(history, m)
	}

	rec := predict.Recommend(history, s.src)
	s.metrics.ObserveRecommendation(rec)
	writeJSON(w, http.StatusOK, predictRes{
		Prediction:     rec.Predicted,
		Recommendation: rec.Counter,
		Random:         rec.Random,
		Transitions:    predict.BuildTransitions(history),
	})
}

// ------------------------------ SESSION ------------------------------------

// sessionView is the public shape of a session.
type sessionView struct {
	SessionID      string             `json:"sessionId"`
	State          game.State         `json:"state"`
	Round          int                `json:"round"`
	MaxRounds      int                `json:"maxRounds"`
	Recommendation move.Move          `json:"recommendation"`
	Predicted      move.Move          `json:"predicted"`
	Random         bool               `json:"random"`
	History        []move.Move        `json:"history"`
	Results        []game.RoundResult `json:"results"`
	Summary        game.Summary       `json:"summary"`
}

func viewOf(g *game.Session) sessionView {
	return sessionView{
		SessionID:      g.ID,
		State:          g.State(),
		Round:          g.Round,
		MaxRounds:      g.MaxRounds,
		Recommendation: g.Recommendation.Counter,
		Predicted:      g.Recommendation.Predicted,
		Random:         g.Recommendation.Random,
		History:        g.History,
		Results:        g.Results,
		Summary:        g.Summary(),
	}
}

type newSessionRes struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	Session   sessionView `json:"session"`
}

// handleNewSession creates a session, stores it and issues its token.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	g := game.New(s.cfg.MaxRounds, s.src)
	if err := s.store.Save(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := s.issuer.Sign(g.ID)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setTokenCookie(w, tok, exp)
	s.metrics.SessionsStarted.Inc()
	s.metrics.ObserveRecommendation(g.Recommendation)
	hlog.FromRequest(r).Info().Str("sessionId", g.ID).Msg("session started")

	writeJSON(w, http.StatusOK, newSessionRes{Token: tok, ExpiresAt: exp, Session: viewOf(g)})
}

// loadSession fetches the session named by the request token.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	sid, _ := r.Context().Value(ctxSessionKey{}).(string)
	g, err := s.store.Get(r.Context(), sid)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session_not_found")
		return nil, false
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("sessionId", sid).Msg("load session")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return nil, false
	}
	return g, true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	g, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(g))
}

type moveReq struct {
	Move string `json:"move"`
}

type moveRes struct {
	Result  game.RoundResult `json:"result"`
	Session sessionView      `json:"session"`
}

// handleMove records the opponent's move, scores the recommendation and
// returns the next one. The finished session is archived best effort.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	m, err := move.Parse(req.Move)
	if err != nil {
		s.metrics.InvalidMoves.Inc()
		writeError(w, http.StatusBadRequest, "invalid_move")
		return
	}

	sid, _ := r.Context().Value(ctxSessionKey{}).(string)
	defer s.lock(sid)()

	g, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	res, state, err := g.ApplyOpponentMove(m, s.src)
	if errors.Is(err, game.ErrFinished) {
		writeError(w, http.StatusConflict, "session_finished")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("sessionId", g.ID).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	s.metrics.ObserveRound(res.Outcome)
	s.metrics.ObserveRecommendation(g.Recommendation)
	if state == game.StateFinished {
		s.metrics.SessionsFinished.Inc()
		s.archiveSession(r, g)
	}

	writeJSON(w, http.StatusOK, moveRes{Result: res, Session: viewOf(g)})
}

// handleReset returns the session to round 1 with an empty history.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sid, _ := r.Context().Value(ctxSessionKey{}).(string)
	defer s.lock(sid)()

	g, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	g.Reset(s.src)
	if err := s.store.Save(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("sessionId", g.ID).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.metrics.Resets.Inc()
	s.metrics.ObserveRecommendation(g.Recommendation)
	writeJSON(w, http.StatusOK, viewOf(g))
}

// ------------------------------ cookies ------------------------------------

// setTokenCookie writes the session token cookie with appropriate security attributes.
func (s *Server) setTokenCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: sameSite,
		Expires:  exp,
	})
}
