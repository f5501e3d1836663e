package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"emotioncare/internal/app"
	"emotioncare/internal/ratelimit"
	"emotioncare/internal/util"
	"emotioncare/pkg/domain"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App *app.App

	// Per-IP quota for the AI-backed endpoints (/detect, /chatbot,
	// /music_recommend). Disabled when RateLimit <= 0.
	RedisAddr       string
	RedisPassword   string
	RateLimit       int
	RateLimitWindow time.Duration

	MaxUploadBytes int64
}

// Server exposes the HTTP API.
type Server struct {
	app            *app.App
	mux            *http.ServeMux
	maxUploadBytes int64
	aiLimiter      *ratelimit.FixedWindowLimiter
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	if cfg.App == nil {
		return nil, errors.New("app is required")
	}
	var limiter *ratelimit.FixedWindowLimiter
	if cfg.RateLimit > 0 {
		window := cfg.RateLimitWindow
		if window <= 0 {
			window = time.Minute
		}
		var err error
		limiter, err = ratelimit.NewRedisFixedWindowLimiter(
			cfg.RedisAddr, cfg.RedisPassword, "emotioncare:ratelimit:ai", cfg.RateLimit, window)
		if err != nil {
			return nil, fmt.Errorf("init ai limiter: %w", err)
		}
	}
	s := &Server{
		app:            cfg.App,
		mux:            http.NewServeMux(),
		maxUploadBytes: normalizeMaxBytes(cfg.MaxUploadBytes),
		aiLimiter:      limiter,
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler wrapped in the middleware chain.
func (s *Server) Router() http.Handler {
	var handler http.Handler = s.mux
	handler = s.withRecover(handler)
	handler = util.WithSecurityHeaders(handler)
	handler = util.WithCORS(handler)
	handler = util.WithRequestLog(handler)
	handler = util.WithRequestID(handler)
	return handler
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// mood pipelines
	s.mux.HandleFunc("/detect", s.limited(s.handleDetect))
	s.mux.HandleFunc("/chatbot", s.limited(s.handleChatbot))
	s.mux.HandleFunc("/music_recommend", s.limited(s.handleMusicRecommend))
	s.mux.Handle("/mood-tracker", s.authenticated(s.handleMoodTracker))

	// auth
	s.mux.HandleFunc("/auth/signup", s.handleSignup)
	s.mux.HandleFunc("/auth/login", s.handleLogin)
	s.mux.HandleFunc("/auth/logout", s.handleLogout)
	s.mux.Handle("/auth/me", s.authenticated(s.handleMe))

	// posts
	s.mux.HandleFunc("/posts", s.handlePosts)
	s.mux.HandleFunc("/posts/", s.handlePostByID)
}

// withRecover is the outer failure boundary: an escaped panic becomes a fixed
// 500 payload instead of a dropped connection.
func (s *Server) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				util.LoggerFromContext(r.Context()).Error("panic recovered",
					"path", r.URL.Path, "panic", fmt.Sprint(rec))
				if r.URL.Path == "/chatbot" {
					writeJSON(w, http.StatusInternalServerError, domain.ChatReply{
						BotReply: app.ChatFallbackReply,
						Emotion:  domain.MoodUnknown,
						Tips:     []string{},
					})
					return
				}
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.aiLimiter != nil && !s.aiLimiter.Allow(util.ClientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next(w, r)
	}
}

func (s *Server) authenticated(next func(http.ResponseWriter, *http.Request, domain.User)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.userFromRequest(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r, user)
	})
}

// userFromRequest resolves the optional bearer token. A missing or invalid
// token yields no user; endpoints decide whether that is an error.
func (s *Server) userFromRequest(r *http.Request) (domain.User, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return domain.User{}, false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return domain.User{}, false
	}
	return s.app.UserFromToken(strings.TrimSpace(parts[1]))
}

func (s *Server) optionalUser(r *http.Request) *domain.User {
	if user, ok := s.userFromRequest(r); ok {
		return &user
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, app.ErrImageRequired.Error())
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, app.ErrImageRequired.Error())
		return
	}
	defer file.Close()
	image, err := io.ReadAll(file)
	if err != nil || len(image) == 0 {
		writeError(w, http.StatusBadRequest, app.ErrImageRequired.Error())
		return
	}

	result := s.app.Detect(r.Context(), s.optionalUser(r), image, header.Filename)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleChatbot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, app.ErrMessageRequired.Error())
		return
	}
	reply, err := s.app.Chat(r.Context(), s.optionalUser(r), req.Message)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleMusicRecommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Emotion  string `json:"emotion"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	recommendation := s.app.RecommendMusic(r.Context(), req.Emotion, req.Language)
	writeJSON(w, http.StatusOK, map[string]string{"recommendation": recommendation})
}

type moodEntry struct {
	Emotion   domain.Mood `json:"emotion"`
	Timestamp string      `json:"timestamp"`
}

func (s *Server) handleMoodTracker(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	events, err := s.app.MoodHistory(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load mood history")
		return
	}
	moods := make([]moodEntry, 0, len(events))
	for _, e := range events {
		moods = append(moods, moodEntry{
			Emotion:   e.Emotion,
			Timestamp: e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string][]moodEntry{"moods": moods})
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, token, err := s.app.SignUp(req.Username, req.Password)
	if err != nil {
		writeError(w, signupStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Token: token, User: user})
}

func signupStatus(err error) int {
	if errors.Is(err, app.ErrUsernameTaken) {
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, token, err := s.app.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, User: user})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if err := s.app.Logout(strings.TrimSpace(parts[1])); err != nil {
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, user domain.User) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type postRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageKey string `json:"image_key"`
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		posts, err := s.app.ListPosts()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not list posts")
			return
		}
		writeJSON(w, http.StatusOK, map[string][]domain.Post{"posts": posts})
	case http.MethodPost:
		user, ok := s.userFromRequest(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		var req postRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		post, err := s.app.CreatePost(user, req.Title, req.Content, req.ImageKey)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, post)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handlePostByID(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/posts/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		post, err := s.app.GetPost(id)
		if err != nil {
			writePostError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, post)
	case http.MethodPut:
		user, ok := s.userFromRequest(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		var req postRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		post, err := s.app.UpdatePost(user, id, req.Title, req.Content)
		if err != nil {
			writePostError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, post)
	case http.MethodDelete:
		user, ok := s.userFromRequest(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if err := s.app.DeletePost(user, id); err != nil {
			writePostError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func writePostError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrPostNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrPostForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, app.ErrTitleContentRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "post operation failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func normalizeMaxBytes(value int64) int64 {
	if value <= 0 {
		return 5 * 1024 * 1024
	}
	return value
}
