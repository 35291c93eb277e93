package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Abhijeet418/latest-FILxConnect/internal/core/domain"
	"github.com/Abhijeet418/latest-FILxConnect/internal/core/ports"
)

// InteractionService est le réconciliateur de mutations : il confirme côté
// serveur AVANT d'appliquer localement (confirm-then-apply). Pas de rollback
// à gérer puisque rien n'est appliqué tant que le serveur n'a pas accepté.
type InteractionService struct {
	feed         *FeedService
	identity     *IdentityService
	interactions ports.InteractionStore
	resolver     domain.MediaResolver

	// Un verrou en vol par item : un double-clic rapide ne doit pas émettre
	// un create et un delete qui se courseraient
	locks sync.Map // postID -> *sync.Mutex
}

func NewInteractionService(feed *FeedService, identity *IdentityService, interactions ports.InteractionStore, resolver domain.MediaResolver) *InteractionService {
	return &InteractionService{
		feed:         feed,
		identity:     identity,
		interactions: interactions,
		resolver:     resolver,
	}
}

func (s *InteractionService) lockFor(postID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(postID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// ToggleLike sérialise les toggles concurrents sur un même item : la
// résolution de la dernière requête gagne sur l'état booléen.
func (s *InteractionService) ToggleLike(ctx context.Context, actorID, postID string) (bool, error) {
	if actorID == "" {
		return false, domain.ErrNoIdentity
	}

	mu := s.lockFor(postID)
	mu.Lock()
	defer mu.Unlock()

	post, ok := s.feed.find(postID)
	if !ok {
		return false, domain.ErrPostNotFound
	}

	// L'état du toggle dérive de l'appartenance à la liste, par identité
	// d'acteur (les IDs serveur des likes locaux ne sont pas round-trippés)
	if post.LikedBy(actorID) {
		if err := s.interactions.DeleteReaction(ctx, postID, actorID); err != nil {
			return true, fmt.Errorf("delete reaction on %s: %w", postID, err)
		}
		applied := s.feed.apply(postID, func(p *domain.Post) {
			kept := p.Reactions.List[:0]
			for _, r := range p.Reactions.List {
				if r.ActorID != actorID {
					kept = append(kept, r)
				}
			}
			p.Reactions.List = kept
			p.Reactions.Count = len(kept)
		})
		if !applied {
			slog.Debug("Unlike confirmed but post left the feed", "post_id", postID)
		}
		return false, nil
	}

	if err := s.interactions.CreateReaction(ctx, postID, actorID, domain.ReactionLike); err != nil {
		return false, fmt.Errorf("create reaction on %s: %w", postID, err)
	}

	// Réaction locale synthétisée, acteur = utilisateur courant
	actor, err := s.identity.CurrentActor(ctx, actorID)
	if err != nil {
		actor = domain.Actor{ID: actorID}
	}
	actor.AvatarRef = s.resolver.ResolveAvatar(actor.AvatarRef)

	reaction := domain.Reaction{
		ID:        uuid.New().String(),
		PostID:    postID,
		ActorID:   actorID,
		Kind:      domain.ReactionLike,
		Actor:     actor,
		CreatedAt: time.Now().UTC(),
	}

	applied := s.feed.apply(postID, func(p *domain.Post) {
		if p.LikedBy(actorID) {
			return // Invariant : une réaction par (post, acteur)
		}
		p.Reactions.List = append([]domain.Reaction{reaction}, p.Reactions.List...)
		p.Reactions.Count = len(p.Reactions.List)
	})
	if !applied {
		slog.Debug("Like confirmed but post left the feed", "post_id", postID)
	}
	return true, nil
}

// AddComment confirme puis préfixe l'écho local. Les commentaires sont
// append-only : jamais édités ni supprimés ensuite.
func (s *InteractionService) AddComment(ctx context.Context, actorID, postID, body string) (domain.Comment, error) {
	if actorID == "" {
		return domain.Comment{}, domain.ErrNoIdentity
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return domain.Comment{}, domain.ErrEmptyComment
	}

	mu := s.lockFor(postID)
	mu.Lock()
	defer mu.Unlock()

	post, ok := s.feed.find(postID)
	if !ok {
		return domain.Comment{}, domain.ErrPostNotFound
	}

	// Détection de re-soumission : la liste est ordonnée du plus récent au
	// plus ancien, donc un double submit identique est en tête
	if len(post.Comments.List) > 0 {
		last := post.Comments.List[0]
		if last.ActorID == actorID && last.Body == body {
			slog.Debug("Duplicate comment submission ignored", "post_id", postID, "actor_id", actorID)
			return last, nil
		}
	}

	if err := s.interactions.CreateComment(ctx, postID, actorID, body); err != nil {
		return domain.Comment{}, fmt.Errorf("create comment on %s: %w", postID, err)
	}

	actor, err := s.identity.CurrentActor(ctx, actorID)
	if err != nil {
		actor = domain.Actor{ID: actorID}
	}
	actor.AvatarRef = s.resolver.ResolveAvatar(actor.AvatarRef)

	comment := domain.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		ActorID:   actorID,
		Body:      body,
		Actor:     actor,
		CreatedAt: time.Now().UTC(),
	}

	s.feed.apply(postID, func(p *domain.Post) {
		p.Comments.List = append([]domain.Comment{comment}, p.Comments.List...)
		p.Comments.Count = len(p.Comments.List)
	})
	return comment, nil
}

// RecordShare incrémente le compteur local après un partage/copie réussi côté
// session. Aucune écriture backend : le compteur ne survit pas à un refresh,
// c'est une limitation connue, pas un bug.
func (s *InteractionService) RecordShare(ctx context.Context, postID string) (int, error) {
	var count int
	applied := s.feed.apply(postID, func(p *domain.Post) {
		p.Shares++
		count = p.Shares
	})
	if !applied {
		return 0, domain.ErrPostNotFound
	}
	return count, nil
}
