package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fieldguide/internal/api"
	"fieldguide/internal/config"
	"fieldguide/internal/logging"
)

type apiServer struct {
	bind    string
	logger  *slog.Logger
	daemon  *Daemon
	gameSvc *api.GameService

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, nil
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}

	srv := &apiServer{
		bind:    bind,
		logger:  logger,
		daemon:  d,
		gameSvc: api.NewGameService(d.engine),
	}

	token := cfg.Paths.APIToken
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", authMiddleware(token, srv.handleStatus))
	mux.HandleFunc("/api/round", authMiddleware(token, srv.handleRound))
	mux.HandleFunc("/api/guess", authMiddleware(token, srv.handleGuess))
	mux.HandleFunc("/api/skip", authMiddleware(token, srv.handleSkip))
	mux.HandleFunc("/api/hint", authMiddleware(token, srv.handleHint))
	mux.HandleFunc("/api/lookup", authMiddleware(token, srv.handleLookup))
	mux.HandleFunc("/api/session/start", authMiddleware(token, srv.handleSessionStart))
	mux.HandleFunc("/api/session/stop", authMiddleware(token, srv.handleSessionStop))
	mux.HandleFunc("/api/session", authMiddleware(token, srv.handleSession))
	mux.HandleFunc("/api/scores", authMiddleware(token, srv.handleScores))
	mux.HandleFunc("/api/precache", authMiddleware(token, srv.handlePrecache))

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

type roundRequest struct {
	Channel string `json:"channel"`
	User    string `json:"user"`
	Domain  string `json:"domain"`
}

type guessRequest struct {
	Channel string `json:"channel"`
	User    string `json:"user"`
	Guild   string `json:"guild"`
	Text    string `json:"text"`
}

type skipRequest struct {
	Channel string `json:"channel"`
	User    string `json:"user"`
	Guild   string `json:"guild"`
}

type sessionRequest struct {
	User string `json:"user"`
}

type precacheRequest struct {
	Domain   string   `json:"domain"`
	Subjects []string `json:"subjects"`
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeMethodNotAllowed(w)
		return
	}
	s.writeJSON(w, http.StatusOK, s.daemon.Status(r.Context()))
}

func (s *apiServer) handleRound(w http.ResponseWriter, r *http.Request) {
	var req roundRequest
	if !s.decodePost(w, r, &req) {
		return
	}
	if req.Channel == "" {
		s.writeError(w, http.StatusBadRequest, "channel is required")
		return
	}
	round, err := s.gameSvc.Present(r.Context(), req.Channel, req.User, req.Domain)
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, round)
}

func (s *apiServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessRequest
	if !s.decodePost(w, r, &req) {
		return
	}
	if req.Channel == "" || strings.TrimSpace(req.Text) == "" {
		s.writeError(w, http.StatusBadRequest, "channel and text are required")
		return
	}
	outcome, err := s.gameSvc.Guess(r.Context(), req.Channel, req.User, req.Guild, req.Text)
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, outcome)
}

func (s *apiServer) handleSkip(w http.ResponseWriter, r *http.Request) {
	var req skipRequest
	if !s.decodePost(w, r, &req) {
		return
	}
	if req.Channel == "" {
		s.writeError(w, http.StatusBadRequest, "channel is required")
		return
	}
	result, err := s.gameSvc.Skip(r.Context(), req.Channel, req.User, req.Guild)
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *apiServer) handleHint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeMethodNotAllowed(w)
		return
	}
	channel := strings.TrimSpace(r.URL.Query().Get("channel"))
	if channel == "" {
		s.writeError(w, http.StatusBadRequest, "channel is required")
		return
	}
	hint, err := s.gameSvc.Hint(r.Context(), channel)
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, hint)
}

func (s *apiServer) handleLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeMethodNotAllowed(w)
		return
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		s.writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	result, err := s.gameSvc.Lookup(r.Context(), name, r.URL.Query().Get("domain"))
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *apiServer) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !s.decodePost(w, r, &req) {
		return
	}
	if req.User == "" {
		s.writeError(w, http.StatusBadRequest, "user is required")
		return
	}
	session, err := s.gameSvc.SessionStart(r.Context(), req.User)
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, session)
}

func (s *apiServer) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeMethodNotAllowed(w)
		return
	}
	user := strings.TrimSpace(r.URL.Query().Get("user"))
	if user == "" {
		s.writeError(w, http.StatusBadRequest, "user is required")
		return
	}
	session, err := s.gameSvc.Session(r.Context(), user)
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, session)
}

func (s *apiServer) handleSessionStop(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !s.decodePost(w, r, &req) {
		return
	}
	if req.User == "" {
		s.writeError(w, http.StatusBadRequest, "user is required")
		return
	}
	session, err := s.gameSvc.SessionStop(r.Context(), req.User)
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, session)
}

func (s *apiServer) handleScores(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeMethodNotAllowed(w)
		return
	}
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	board, err := s.gameSvc.Scores(r.Context(), strings.TrimSpace(query.Get("board")), limit)
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, board)
}

func (s *apiServer) handlePrecache(w http.ResponseWriter, r *http.Request) {
	var req precacheRequest
	if !s.decodePost(w, r, &req) {
		return
	}
	result, err := s.gameSvc.Precache(r.Context(), req.Domain, req.Subjects)
	if err != nil {
		s.writeGameError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *apiServer) decodePost(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		s.writeMethodNotAllowed(w)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeGameError maps a classified error to its HTTP status and user
// guidance, logging the full detail server-side.
func (s *apiServer) writeGameError(w http.ResponseWriter, r *http.Request, err error) {
	status := api.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log().Error("request failed",
			logging.String("path", r.URL.Path),
			logging.Error(err),
		)
	} else {
		s.log().Debug("request rejected",
			logging.String("path", r.URL.Path),
			logging.Error(err),
		)
	}
	s.writeJSON(w, status, api.NewErrorResponse(err))
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) writeMethodNotAllowed(w http.ResponseWriter) {
	s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}
