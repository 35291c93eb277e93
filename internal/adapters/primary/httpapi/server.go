package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Abhijeet418/latest-FILxConnect/internal/adapters/secondary/rest"
	"github.com/Abhijeet418/latest-FILxConnect/internal/core/domain"
	"github.com/Abhijeet418/latest-FILxConnect/internal/core/ports"
	"github.com/Abhijeet418/latest-FILxConnect/internal/metrics"
)

// Server est le gateway de session : la surface JSON que l'UI (hors scope)
// consomme. Plomberie fine au-dessus des ports du moteur, zéro logique métier.
type Server struct {
	identity     ports.IdentityService
	feed         ports.FeedService
	interactions ports.InteractionService
}

func NewServer(identity ports.IdentityService, feed ports.FeedService, interactions ports.InteractionService) *Server {
	return &Server{
		identity:     identity,
		feed:         feed,
		interactions: interactions,
	}
}

// Handler assemble la chaîne complète : routes -> auth -> CORS -> OTel
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /me", s.handleMe)
	mux.HandleFunc("GET /feed", s.handleFeed)
	mux.HandleFunc("POST /feed/refresh", s.handleRefresh)
	mux.HandleFunc("POST /posts/{id}/like", s.handleLike)
	mux.HandleFunc("POST /posts/{id}/comments", s.handleComment)
	mux.HandleFunc("POST /posts/{id}/share", s.handleShare)

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	var h http.Handler = mux

	// A. Auth (injecte l'ID acteur)
	h = AuthMiddleware(s.identity)(h)

	// B. CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:19006"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "baggage", "sentry-trace"},
		AllowCredentials: true,
	})
	h = c.Handler(h)

	// C. OTEL HTTP (racine)
	h = otelhttp.NewHandler(h, "Session-Gateway", otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
		return fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path)
	}))

	return h
}

// --- HANDLERS ---

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	actorID := ActorFromContext(r.Context())
	if actorID == "" {
		writeError(w, domain.ErrNoIdentity)
		return
	}

	actor, err := s.identity.CurrentActor(r.Context(), actorID)
	if err != nil {
		writeError(w, err)
		return
	}
	stats, err := s.identity.ProfileStats(r.Context(), actorID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := profileDTO{ID: actor.ID, Username: actor.Username, Bio: actor.Bio, Avatar: actor.AvatarRef}
	out.Stats.Posts = stats.Posts
	out.Stats.Followers = stats.Followers
	out.Stats.Following = stats.Following
	out.Stats.Reports = stats.Reports
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	actorID := ActorFromContext(r.Context())
	if actorID == "" {
		writeError(w, domain.ErrNoIdentity)
		return
	}
	writeJSON(w, http.StatusOK, mapFeed(s.feed.Current(), actorID))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	actorID := ActorFromContext(r.Context())
	if actorID == "" {
		writeError(w, domain.ErrNoIdentity)
		return
	}

	feed, err := s.feed.Refresh(r.Context(), actorID)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.FeedRefreshes.Inc()
	writeJSON(w, http.StatusOK, mapFeed(feed, actorID))
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	actorID := ActorFromContext(r.Context())
	postID := r.PathValue("id")

	liked, err := s.interactions.ToggleLike(r.Context(), actorID, postID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

func (s *Server) handleComment(w http.ResponseWriter, r *http.Request) {
	actorID := ActorFromContext(r.Context())
	postID := r.PathValue("id")

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	comment, err := s.interactions.AddComment(r.Context(), actorID, postID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, commentDTO{
		ID:        comment.ID,
		User:      mapActor(comment.Actor),
		Content:   comment.Body,
		CreatedAt: formatTime(comment.CreatedAt),
		Time:      timeAgo(comment.CreatedAt),
	})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("id")

	count, err := s.interactions.RecordShare(r.Context(), postID)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.Mutations.WithLabelValues("share").Inc()
	writeJSON(w, http.StatusOK, map[string]int{"shares": count})
}

// --- HELPERS ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError mappe la taxonomie d'erreurs du domaine en statuts HTTP. Les
// échecs de mutation doivent être VISIBLES : l'utilisateur ne doit jamais
// croire qu'une action a réussi quand elle a échoué.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway // Erreur de transport/donnée par défaut

	var apiErr *rest.APIError
	switch {
	case errors.Is(err, domain.ErrNoIdentity):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrPostNotFound), errors.Is(err, domain.ErrActorNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyComment):
		status = http.StatusBadRequest
	case errors.As(err, &apiErr):
		status = http.StatusBadGateway
	}

	slog.Warn("❌ Request failed", "status", status, "error", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
