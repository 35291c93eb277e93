package ports

import (
	"context"

	"github.com/Abhijeet418/latest-FILxConnect/internal/core/domain"
)

// --- DRIVING (Ce que le moteur expose à la couche session/UI) ---

type IdentityService interface {
	// Authenticate valide le bearer token et retourne l'ID de l'acteur
	Authenticate(ctx context.Context, token string) (string, error)

	// CurrentActor retourne le profil (mis en cache pour la session)
	CurrentActor(ctx context.Context, actorID string) (domain.Actor, error)

	// ProfileStats agrège les compteurs posts/followers/following
	ProfileStats(ctx context.Context, actorID string) (domain.ProfileStats, error)
}

type FeedService interface {
	// Refresh reconstruit le feed intégralement (graphe -> fetch -> enrichissement -> tri)
	Refresh(ctx context.Context, actorID string) (domain.Feed, error)

	// Current retourne le dernier snapshot, comme valeur
	Current() domain.Feed
}

type InteractionService interface {
	// ToggleLike sérialise les toggles concurrents sur un même item.
	// Confirme côté serveur AVANT d'appliquer localement.
	ToggleLike(ctx context.Context, actorID, postID string) (liked bool, err error)

	// AddComment confirme puis préfixe le commentaire local (append-only)
	AddComment(ctx context.Context, actorID, postID, body string) (domain.Comment, error)

	// RecordShare incrémente le compteur local après un partage réussi.
	// Aucune mutation backend : le compteur ne survit pas à un refresh.
	RecordShare(ctx context.Context, postID string) (int, error)
}
