package ports

import (
	"context"

	"github.com/Abhijeet418/latest-FILxConnect/internal/core/domain"
)

// --- DRIVEN (Ce dont le moteur a besoin : l'API REST black-box) ---

type UserDirectory interface {
	// Actor retourne l'état courant (modération incluse)
	Actor(ctx context.Context, actorID string) (domain.Actor, error)

	// FollowerCounts pour l'écran profil
	FollowerCounts(ctx context.Context, actorID string) (followers, following int, err error)
}

type SocialGraph interface {
	// Connections retourne les edges sortants de l'acteur (tous statuts)
	Connections(ctx context.Context, actorID string) ([]domain.Connection, error)
}

type ContentStore interface {
	// PostsByAuthor retourne les posts bruts d'un auteur (tous états de publication)
	PostsByAuthor(ctx context.Context, authorID string) ([]domain.Post, error)

	// PostCount ne compte que les posts publiés
	PostCount(ctx context.Context, authorID string) (int, error)
}

type InteractionStore interface {
	// ReactionsByPost retourne les réactions brutes (acteurs non résolus)
	ReactionsByPost(ctx context.Context, postID string) ([]domain.Reaction, error)
	CreateReaction(ctx context.Context, postID, actorID, kind string) error
	// DeleteReaction est clé par (post, acteur) : les IDs serveur des likes
	// synthétisés localement ne sont pas round-trippés
	DeleteReaction(ctx context.Context, postID, actorID string) error

	CommentsByPost(ctx context.Context, postID string) ([]domain.Comment, error)
	CreateComment(ctx context.Context, postID, actorID, body string) error
}

type MediaStore interface {
	MediaByPost(ctx context.Context, postID string) ([]domain.Media, error)
}

type TokenVerifier interface {
	// Verify contrôle la signature et retourne le subject (actor ID)
	Verify(token string) (string, error)
}
