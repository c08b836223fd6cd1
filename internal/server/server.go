package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/piedpiper/teamboard/internal/board"
	"github.com/piedpiper/teamboard/internal/config"
	"github.com/piedpiper/teamboard/internal/logger"
	"github.com/piedpiper/teamboard/internal/stats"
)

const sessionCookie = "teamboard_session"

// Server is the HTTP front of the dashboard: a JSON API over the
// aggregation service plus cookie/token auth.
type Server struct {
	cfg      *config.Config
	service  *Service
	sessions *SessionStore
	mux      *http.ServeMux
}

// New builds a Server with all routes registered.
func New(cfg *config.Config, store *board.Store) *Server {
	s := &Server{
		cfg:      cfg,
		service:  NewService(cfg, store),
		sessions: NewSessionStore(cfg.Server.SessionTTL),
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.HandleFunc("GET /login", s.handleLoginPage)
	s.mux.HandleFunc("POST /login", s.handleLogin)
	s.mux.HandleFunc("GET /logout", s.handleLogout)
	s.mux.Handle("GET /{$}", s.requirePage(s.handleIndex))

	s.mux.Handle("GET /api/stats", s.requireAPI(s.handleStats))
	s.mux.Handle("GET /api/activity", s.requireAPI(s.handleActivity))
	s.mux.Handle("GET /api/messages", s.requireAPI(s.handleMessages))
	s.mux.Handle("GET /api/leaderboard", s.requireAPI(s.handleLeaderboard))
	s.mux.Handle("GET /api/data", s.requireAPI(s.handleData))

	s.mux.Handle("GET /api/sprints", s.requireAPI(s.handleSprintList))
	s.mux.Handle("POST /api/sprints", s.requireAPI(s.handleSprintCreate))
	s.mux.Handle("PUT /api/sprints/{id}", s.requireAPI(s.handleSprintUpdate))
	s.mux.Handle("DELETE /api/sprints/{id}", s.requireAPI(s.handleSprintDelete))
	s.mux.Handle("PATCH /api/sprints/{id}/move", s.requireAPI(s.handleSprintMove))
	s.mux.Handle("POST /api/sprints/{id}/log", s.requireAPI(s.handleSprintLog))
	s.mux.Handle("POST /api/sprints/{id}/comments", s.requireAPI(s.handleSprintComment))
}

// authenticated reports whether the request carries a valid session,
// either via cookie or a ?token= query parameter.
func (s *Server) authenticated(r *http.Request) bool {
	if c, err := r.Cookie(sessionCookie); err == nil && s.sessions.Valid(c.Value) {
		return true
	}
	return s.sessions.Valid(r.URL.Query().Get("token"))
}

func (s *Server) requireAPI(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticated(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next(w, r)
	})
}

func (s *Server) requirePage(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticated(r) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

const loginPage = `<!doctype html>
<title>teamboard login</title>
<form method="post" action="/login">
  <input name="username" placeholder="username" autofocus>
  <input name="password" type="password" placeholder="password">
  <button type="submit">Sign in</button>
</form>
`

func (s *Server) handleLoginPage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, loginPage)
}

// handleLogin accepts either a browser form post or a JSON body
// {"username","password"}; the latter gets the token back in the
// response so CLI clients can use ?token= auth.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var user, pass string
	wantJSON := strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
	if wantJSON {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
			return
		}
		user, pass = body.Username, body.Password
	} else {
		user = r.FormValue("username")
		pass = r.FormValue("password")
	}

	if user != s.cfg.Server.AuthUser || pass != s.cfg.Server.AuthPass {
		logger.Warn("failed login", "user", user, "remote", r.RemoteAddr)
		if wantJSON {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "bad credentials"})
		} else {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		}
		return
	}

	token := s.sessions.Issue()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	if wantJSON {
		writeJSON(w, http.StatusOK, map[string]string{"token": token})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.Revoke(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!doctype html>
<title>teamboard</title>
<h1>teamboard</h1>
<p>JSON API: <a href="/api/data">/api/data</a>, /api/stats, /api/activity,
/api/messages, /api/leaderboard, /api/sprints.</p>
`)
}

// handleStats serves per-agent and team stats with a content ETag so
// polling clients can skip unchanged payloads.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	body, err := json.Marshal(s.service.Stats())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "encoding failed"})
		return
	}
	etag := fmt.Sprintf(`"%x"`, xxhash.Sum64(body))
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, s.cfg.Feeds.ActivityLimit)
	writeJSON(w, http.StatusOK, map[string]any{
		"activity": s.service.Activity(limit),
	})
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, s.cfg.Feeds.MessagesLimit)
	filter := stats.FeedFilter{
		AgentID: r.URL.Query().Get("agent"),
		Role:    r.URL.Query().Get("role"),
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"messages": s.service.Messages(filter, limit),
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.service.Leaderboard()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "sprint data unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"leaderboard":  entries,
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleData(w http.ResponseWriter, _ *http.Request) {
	payload, err := s.service.Data()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "aggregation failed"})
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleSprintList(w http.ResponseWriter, _ *http.Request) {
	tasks, err := s.service.board.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "sprint data unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

type sprintRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Assignee    string `json:"assignee"`
	Status      string `json:"status"`
}

func (s *Server) handleSprintCreate(w http.ResponseWriter, r *http.Request) {
	var req sprintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if req.Status != "" && !board.ValidStatus(req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown status"})
		return
	}
	task, err := s.service.board.Create(req.Title, req.Description, req.Assignee, req.Status)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "save failed"})
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleSprintUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var upd board.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if upd.Status != nil && !board.ValidStatus(*upd.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown status"})
		return
	}
	task, err := s.service.board.Update(id, upd)
	if err != nil {
		writeBoardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleSprintDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.service.board.Delete(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "save failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleSprintMove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !board.ValidStatus(body.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown status"})
		return
	}
	task, err := s.service.board.Move(id, body.Status)
	if err != nil {
		writeBoardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleSprintLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing text"})
		return
	}
	task, err := s.service.board.AddLog(id, body.Text)
	if err != nil {
		writeBoardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleSprintComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		Author string `json:"author"`
		Text   string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing text"})
		return
	}
	task, err := s.service.board.AddComment(id, body.Author, body.Text)
	if err != nil {
		writeBoardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid task id"})
		return 0, false
	}
	return id, true
}

func writeBoardError(w http.ResponseWriter, err error) {
	if errors.Is(err, board.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "save failed"})
}

func queryLimit(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encoding failed", "error", err)
	}
}
