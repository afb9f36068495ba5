// internal/httpserver/routes_archive.go
//
// HTTP routes for the session archive.
//   - GET  /stats                      → totals over every finished session
//   - GET  /stats/recent?limit=N       → latest finished sessions (default 20, max 100)
//   - POST /admin/archive/purge?olderThanDays=N → delete old rows (basic auth)
//
// The archive is optional. Without a database /stats answers 404
// archive_disabled, and without ADMIN_PASSWORD_HASH no admin route exists.

package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/bsangs/rock-paper-scissors-supporter/internal/archive"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/auth"
	"github.com/bsangs/rock-paper-scissors-supporter/internal/game"
)

// mountArchive registers /stats and, when configured, /admin routes.
func (s *Server) mountArchive(r chi.Router) {
	r.Route("/stats", func(r chi.Router) {
		r.Use(s.requireArchive)
		r.Get("/", s.handleStats)
		r.Get("/recent", s.handleRecent)
	})
	if s.cfg.AdminPasswordHash != "" {
		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.With(s.requireArchive).Post("/archive/purge", s.handlePurge)
		})
	}
}

func (s *Server) requireArchive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.archive == nil {
			writeError(w, http.StatusNotFound, "archive_disabled")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin checks basic auth (user "admin") against the bcrypt hash.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pw, ok := r.BasicAuth()
		if !ok || user != "admin" || !auth.CheckPassword(s.cfg.AdminPasswordHash, pw) {
			w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// archiveSession records a finished session's totals. Failures are logged only.
func (s *Server) archiveSession(r *http.Request, g *game.Session) {
	if s.archive == nil {
		return
	}
	sum := g.Summary()
	err := s.archive.Record(r.Context(), archive.Result{
		SessionID:  g.ID,
		Rounds:     sum.Rounds,
		Wins:       sum.Wins,
		Draws:      sum.Draws,
		Losses:     sum.Losses,
		FinishedAt: g.UpdatedAt,
	})
	if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("sessionId", g.ID).Msg("archive session")
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	t, err := s.archive.Totals(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("archive totals")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type recentRes struct {
	Sessions []archive.Result `json:"sessions"`
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = min(n, 100)
	}
	rows, err := s.archive.Recent(r.Context(), limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("archive recent")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, recentRes{Sessions: rows})
}

// maxPurgeDays caps olderThanDays; larger values purge nothing anyway.
const maxPurgeDays = 1_000_000

// handlePurge deletes archive rows older than olderThanDays (default 30).
func (s *Server) handlePurge(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("olderThanDays"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_days")
			return
		}
		days = min(n, maxPurgeDays)
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	n, err := s.archive.Purge(ctx, cutoff)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("archive purge")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	hlog.FromRequest(r).Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("archive purged")
	writeJSON(w, http.StatusOK, map[string]any{"deleted": n, "cutoff": cutoff})
}
