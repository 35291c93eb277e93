package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Abhijeet418/latest-FILxConnect/internal/core/domain"
	"github.com/Abhijeet418/latest-FILxConnect/internal/core/ports"
)

// IdentityService résout l'identité de session : plus de lookup global façon
// localStorage, l'acteur courant est explicite (token -> ID -> profil).
type IdentityService struct {
	users    ports.UserDirectory
	content  ports.ContentStore
	verifier ports.TokenVerifier

	// Cache de session : un profil référencé est re-fetché paresseusement,
	// pas à chaque lecture
	mu    sync.RWMutex
	cache map[string]domain.Actor
}

func NewIdentityService(users ports.UserDirectory, content ports.ContentStore, verifier ports.TokenVerifier) *IdentityService {
	return &IdentityService{
		users:    users,
		content:  content,
		verifier: verifier,
		cache:    make(map[string]domain.Actor),
	}
}

func (s *IdentityService) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrNoIdentity
	}
	actorID, err := s.verifier.Verify(token)
	if err != nil {
		return "", fmt.Errorf("token verification failed: %w", err)
	}
	return actorID, nil
}

func (s *IdentityService) CurrentActor(ctx context.Context, actorID string) (domain.Actor, error) {
	if actorID == "" {
		return domain.Actor{}, domain.ErrNoIdentity
	}

	s.mu.RLock()
	actor, ok := s.cache[actorID]
	s.mu.RUnlock()
	if ok {
		return actor, nil
	}

	actor, err := s.users.Actor(ctx, actorID)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("fetch actor %s: %w", actorID, err)
	}

	s.mu.Lock()
	s.cache[actorID] = actor
	s.mu.Unlock()

	return actor, nil
}

// ProfileStats agrège trois compteurs indépendants. Un compteur qui échoue
// vaut zéro : l'écran profil se dégrade, il ne crashe pas.
func (s *IdentityService) ProfileStats(ctx context.Context, actorID string) (domain.ProfileStats, error) {
	if actorID == "" {
		return domain.ProfileStats{}, domain.ErrNoIdentity
	}

	stats := domain.ProfileStats{}

	followers, following, err := s.users.FollowerCounts(ctx, actorID)
	if err != nil {
		slog.Warn("⚠️ Follower counts unavailable", "actor_id", actorID, "error", err)
	} else {
		stats.Followers = followers
		stats.Following = following
	}

	posts, err := s.content.PostCount(ctx, actorID)
	if err != nil {
		slog.Warn("⚠️ Post count unavailable", "actor_id", actorID, "error", err)
	} else {
		stats.Posts = posts
	}

	if actor, err := s.users.Actor(ctx, actorID); err == nil {
		stats.Reports = actor.Reports
	}

	return stats, nil
}
