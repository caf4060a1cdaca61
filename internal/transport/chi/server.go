package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/loomboard/feedrank/internal/domain"
	domfeed "github.com/loomboard/feedrank/internal/domain/feed"
	dompost "github.com/loomboard/feedrank/internal/domain/post"
	"github.com/loomboard/feedrank/internal/metrics"
	affinityuc "github.com/loomboard/feedrank/internal/usecase/affinity"
	feeduc "github.com/loomboard/feedrank/internal/usecase/feed"
	healthuc "github.com/loomboard/feedrank/internal/usecase/health"
	postuc "github.com/loomboard/feedrank/internal/usecase/post"
	topicgraphuc "github.com/loomboard/feedrank/internal/usecase/topicgraph"
	useruc "github.com/loomboard/feedrank/internal/usecase/user"
)

// errorCode identifies a machine-readable error class in responses.
type errorCode string

const (
	codeBadRequest       errorCode = "bad_request"
	codeValidationFailed errorCode = "validation_failed"
	codeNotFound         errorCode = "not_found"
	codeAlreadyExists    errorCode = "already_exists"
	codeImplicationCycle errorCode = "implication_cycle"
	codeSectionMismatch  errorCode = "section_mismatch"
	codeInvalidReaction  errorCode = "invalid_reaction"
	codeInternalError    errorCode = "internal_error"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the feed-ranking services over HTTP.
type Server struct {
	feeds         *feeduc.Service
	posts         *postuc.Service
	users         *useruc.Service
	graph         *topicgraphuc.Service
	affinities    *affinityuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	defaultPage   int
	maxPage       int
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	feeds *feeduc.Service,
	posts *postuc.Service,
	users *useruc.Service,
	graph *topicgraphuc.Service,
	affinities *affinityuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
	defaultPageSize, maxPageSize int,
) *Server {
	s := &Server{
		feeds:       feeds,
		posts:       posts,
		users:       users,
		graph:       graph,
		affinities:  affinities,
		health:      health,
		logger:      logger,
		defaultPage: defaultPageSize,
		maxPage:     maxPageSize,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrImplicationCycle, http.StatusConflict, codeImplicationCycle),
		sentinelHandler(domain.ErrSectionMismatch, http.StatusBadRequest, codeSectionMismatch),
		sentinelHandler(domain.ErrInvalidReaction, http.StatusBadRequest, codeInvalidReaction),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, codeValidationFailed),
	}
	return s
}

// Mount registers all routes on the router.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.Health)
	r.Get("/metrics", s.Metrics)

	r.Post("/users", s.RegisterUser)
	r.Get("/users/{login}", s.GetUser)
	r.Put("/users/{login}/sections/{section}", s.JoinSection)

	r.Post("/sections", s.CreateSection)
	r.Get("/sections", s.ListSections)
	r.Post("/sections/{section}/topics", s.CreateTopic)

	r.Post("/implications", s.AddImplication)

	r.Post("/posts", s.CreatePost)
	r.Get("/posts/{id}", s.GetPost)
	r.Put("/posts/{id}/vote", s.Vote)
	r.Post("/posts/{id}/comments", s.Comment)

	r.Get("/feed", s.FeedPage)
	r.Delete("/feed/context", s.ClearFeedContext)

	r.Post("/users/{login}/affinities/recompute", s.RecomputeAffinities)
	r.Get("/users/{login}/affinities/{topic}", s.GetAffinity)
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RegisterUser handles POST /users.
func (s *Server) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Login         string `json:"login"`
		Name          string `json:"name"`
		AutoRecompute bool   `json:"auto_recompute"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	u, err := s.users.Register(r.Context(), req.Login, req.Name, req.AutoRecompute)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"login":          u.Login(),
		"name":           u.Name(),
		"auto_recompute": u.AutoRecompute(),
	})
}

// GetUser handles GET /users/{login}.
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Get(r.Context(), chi.URLParam(r, "login"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"login":          u.Login(),
		"name":           u.Name(),
		"auto_recompute": u.AutoRecompute(),
	})
}

// JoinSection handles PUT /users/{login}/sections/{section}.
func (s *Server) JoinSection(w http.ResponseWriter, r *http.Request) {
	err := s.users.JoinSection(r.Context(), chi.URLParam(r, "login"), chi.URLParam(r, "section"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateSection handles POST /sections.
func (s *Server) CreateSection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sec, err := s.users.CreateSection(r.Context(), req.Name, req.Description, req.Icon)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"name":        sec.Name(),
		"description": sec.Description(),
		"icon":        sec.Icon(),
	})
}

// ListSections handles GET /sections.
func (s *Server) ListSections(w http.ResponseWriter, r *http.Request) {
	names, err := s.users.ListSections(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sections": names})
}

// CreateTopic handles POST /sections/{section}/topics.
func (s *Server) CreateTopic(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Slug    string `json:"slug"`
		Tooltip string `json:"tooltip"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	t, err := s.users.CreateTopic(r.Context(), chi.URLParam(r, "section"), req.Name, req.Slug, req.Tooltip)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      t.ID(),
		"section": t.Section(),
		"name":    t.Name(),
		"slug":    t.Slug(),
		"tooltip": t.Tooltip(),
		"level":   t.Level(),
	})
}

// AddImplication handles POST /implications.
func (s *Server) AddImplication(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SourceID string `json:"source_id"`
		TargetID string `json:"target_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.SourceID == "" || req.TargetID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "source_id and target_id are required")
		return
	}

	if err := s.graph.AddImplication(r.Context(), req.SourceID, req.TargetID); err != nil {
		switch {
		case errors.Is(err, domain.ErrImplicationCycle):
			metrics.GraphInsertionsTotal.WithLabelValues("cycle").Inc()
		default:
			metrics.GraphInsertionsTotal.WithLabelValues("error").Inc()
		}
		s.handleDomainError(w, err)
		return
	}
	metrics.GraphInsertionsTotal.WithLabelValues("ok").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// CreatePost handles POST /posts.
func (s *Server) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Login     string   `json:"login"`
		Section   string   `json:"section"`
		Title     string   `json:"title"`
		Text      string   `json:"text"`
		Topics    []string `json:"topics"`
		UserTags  []string `json:"user_tags"`
		Anonymous bool     `json:"anonymous"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p, err := s.posts.Create(r.Context(), req.Login, req.Section, req.Title, req.Text,
		req.Topics, req.UserTags, req.Anonymous)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, postToDTO(p))
}

// GetPost handles GET /posts/{id}.
func (s *Server) GetPost(w http.ResponseWriter, r *http.Request) {
	d, err := s.posts.Get(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("viewer"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	resp := postToDTO(d.Post)
	resp["likes"] = d.Likes
	resp["dislikes"] = d.Dislikes
	resp["comments"] = d.Comments
	resp["liked"] = d.Liked
	resp["disliked"] = d.Disliked
	writeJSON(w, http.StatusOK, resp)
}

// Vote handles PUT /posts/{id}/vote.
func (s *Server) Vote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Login    string `json:"login"`
		Reaction int    `json:"reaction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.posts.Vote(r.Context(), req.Login, chi.URLParam(r, "id"), req.Reaction); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Comment handles POST /posts/{id}/comments.
func (s *Server) Comment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Login string `json:"login"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.posts.Comment(r.Context(), req.Login, chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FeedPage handles GET /feed. The selection comes from query parameters:
// author=, or section= with an optional topic=, mirroring the feed modes.
func (s *Server) FeedPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sessionID := q.Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "session_id is required")
		return
	}
	sel, ok := s.selectionFromQuery(w, r)
	if !ok {
		return
	}

	pageSize := s.defaultPage
	if raw := q.Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "page_size must be a positive integer")
			return
		}
		pageSize = n
	}
	if pageSize > s.maxPage {
		pageSize = s.maxPage
	}

	login := q.Get("login")
	entries, err := s.feeds.NextPage(r.Context(), sel, sessionID, login, pageSize, time.Now())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	viewer := "anonymous"
	if login != "" {
		viewer = "authenticated"
	}
	metrics.FeedPagesTotal.WithLabelValues(string(sel.Mode()), viewer).Inc()
	metrics.FeedEntriesDelivered.Add(float64(len(entries)))

	items := make([]map[string]any, len(entries))
	for i, e := range entries {
		items[i] = entryToDTO(e)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries":   items,
		"exhausted": len(entries) < pageSize,
	})
}

// ClearFeedContext handles DELETE /feed/context.
func (s *Server) ClearFeedContext(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "session_id is required")
		return
	}
	sel, ok := s.selectionFromQuery(w, r)
	if !ok {
		return
	}

	if err := s.feeds.ClearContext(r.Context(), sessionID, sel); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecomputeAffinities handles POST /users/{login}/affinities/recompute.
func (s *Server) RecomputeAffinities(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"
	ran, err := s.affinities.Recompute(r.Context(), chi.URLParam(r, "login"), time.Now(), force)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	outcome := "skipped"
	if ran {
		outcome = "ran"
	}
	metrics.AffinityRecomputesTotal.WithLabelValues(outcome).Inc()
	writeJSON(w, http.StatusOK, map[string]any{"recomputed": ran})
}

// GetAffinity handles GET /users/{login}/affinities/{topic}.
func (s *Server) GetAffinity(w http.ResponseWriter, r *http.Request) {
	v, err := s.affinities.Get(r.Context(), chi.URLParam(r, "login"), chi.URLParam(r, "topic"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"affinity": v})
}

func (s *Server) selectionFromQuery(w http.ResponseWriter, r *http.Request) (domfeed.Selection, bool) {
	q := r.URL.Query()
	sel := domfeed.Selection{
		Section:  q.Get("section"),
		TopicRef: q.Get("topic"),
		Author:   q.Get("author"),
	}
	if err := sel.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return domfeed.Selection{}, false
	}
	return sel, true
}

func postToDTO(p dompost.Post) map[string]any {
	return map[string]any{
		"id":            p.ID(),
		"title":         p.Title(),
		"text":          p.Text(),
		"author":        p.Author(),
		"section":       p.Section(),
		"created_at":    p.CreatedAt(),
		"initial_score": p.InitialScore(),
		"topics":        p.TopicIDs(),
		"implied":       p.ImpliedTopicIDs(),
		"user_tags":     p.UserTags(),
	}
}

func entryToDTO(e domfeed.Entry) map[string]any {
	dto := postToDTO(e.Post)
	dto["score"] = e.Score
	dto["likes"] = e.Likes
	dto["dislikes"] = e.Dislikes
	dto["comments"] = e.Comments
	dto["liked"] = e.Liked
	dto["disliked"] = e.Disliked
	return dto
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrImplicationCycle,
		domain.ErrSectionMismatch,
		domain.ErrInvalidReaction,
		domain.ErrSectionNotFound,
		domain.ErrUserNotFound,
		domain.ErrTopicNotFound,
		domain.ErrPostNotFound,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrInvalidArgument,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
