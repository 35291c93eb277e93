package services

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/Abhijeet418/latest-FILxConnect/internal/core/domain"
	"github.com/Abhijeet418/latest-FILxConnect/internal/core/ports"
)

// Enricher hydrate chaque post candidat : auteur courant, réactions,
// commentaires, médias, avec la couche de modération appliquée en place.
// Chaque item est indépendant (embarrassingly parallel) ; à l'intérieur d'un
// item les étapes sont séquentielles par dépendance de données.
type Enricher struct {
	users        ports.UserDirectory
	interactions ports.InteractionStore
	media        ports.MediaStore
	resolver     domain.MediaResolver
}

func NewEnricher(users ports.UserDirectory, interactions ports.InteractionStore, media ports.MediaStore, resolver domain.MediaResolver) *Enricher {
	return &Enricher{
		users:        users,
		interactions: interactions,
		media:        media,
		resolver:     resolver,
	}
}

// newActorLoader construit un loader batché avec cache de passe : un même
// commentateur vu sur dix items n'est résolu qu'une fois. Le cache ne survit
// pas à la passe, la modération reste donc fraîche à chaque refresh.
func (e *Enricher) newActorLoader() *dataloader.Loader[string, domain.Actor] {
	return dataloader.NewBatchedLoader(
		func(ctx context.Context, keys []string) []*dataloader.Result[domain.Actor] {
			results := make([]*dataloader.Result[domain.Actor], len(keys))
			var wg sync.WaitGroup
			for i, key := range keys {
				wg.Add(1)
				go func(i int, key string) {
					defer wg.Done()
					actor, err := e.users.Actor(ctx, key)
					if err != nil {
						results[i] = &dataloader.Result[domain.Actor]{Error: err}
						return
					}
					results[i] = &dataloader.Result[domain.Actor]{Data: actor}
				}(i, key)
			}
			wg.Wait()
			return results
		},
		dataloader.WithBatchCapacity[string, domain.Actor](64),
	)
}

// Enrich applique le pipeline à tous les candidats en parallèle et joint tout
// avant de retourner ("gather all, then proceed"). L'ordre de sortie n'est
// pas garanti : le tri appartient à l'assemblage.
func (e *Enricher) Enrich(ctx context.Context, candidates []domain.Post) []domain.Post {
	loader := e.newActorLoader()

	results := make([]*domain.Post, len(candidates))
	var wg sync.WaitGroup
	for i := range candidates {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.enrichOne(ctx, loader, candidates[i])
		}(i)
	}
	wg.Wait()

	enriched := make([]domain.Post, 0, len(candidates))
	for _, p := range results {
		if p != nil {
			enriched = append(enriched, *p)
		}
	}
	return enriched
}

func (e *Enricher) enrichOne(ctx context.Context, loader *dataloader.Loader[string, domain.Actor], post domain.Post) *domain.Post {
	// 1. État courant de l'auteur. Un auteur bloqué rend l'item invisible
	// (pas de rédaction : le post entier disparaît du feed).
	author, err := loader.Load(ctx, post.AuthorID)()
	if err != nil {
		slog.Warn("⚠️ Enrichment degraded to minimal item", "stage", "author", "post_id", post.ID, "author_id", post.AuthorID, "error", err)
		return e.minimal(post)
	}
	if author.Blocked() {
		slog.Debug("Item dropped, author blocked", "post_id", post.ID, "author_id", author.ID)
		return nil
	}
	author.AvatarRef = e.resolver.ResolveAvatar(author.AvatarRef)
	post.Author = author

	// 2. Réactions : l'identité d'un réacteur bloqué est masquée mais la
	// réaction reste dans le compte.
	raw, err := e.interactions.ReactionsByPost(ctx, post.ID)
	if err != nil {
		slog.Warn("⚠️ Enrichment degraded to minimal item", "stage", "reactions", "post_id", post.ID, "error", err)
		return e.minimal(post)
	}
	seen := make(map[string]bool)
	reactions := make([]domain.Reaction, 0, len(raw))
	for _, r := range raw {
		// Invariant client : une réaction par (post, acteur)
		if seen[r.ActorID] {
			continue
		}
		actor, err := loader.Load(ctx, r.ActorID)()
		if err != nil {
			// Une seule réaction tombe, pas l'item
			slog.Warn("⚠️ Reactor lookup failed, dropping reaction", "post_id", post.ID, "actor_id", r.ActorID, "error", err)
			continue
		}
		seen[r.ActorID] = true
		r.Actor = e.displayActor(actor)
		reactions = append(reactions, r)
	}

	// 3. Commentaires : même règle d'identité, plus la rédaction du corps
	rawComments, err := e.interactions.CommentsByPost(ctx, post.ID)
	if err != nil {
		slog.Warn("⚠️ Enrichment degraded to minimal item", "stage", "comments", "post_id", post.ID, "error", err)
		return e.minimal(post)
	}
	comments := make([]domain.Comment, 0, len(rawComments))
	for _, c := range rawComments {
		actor, err := loader.Load(ctx, c.ActorID)()
		if err != nil {
			slog.Warn("⚠️ Commenter lookup failed, dropping comment", "post_id", post.ID, "actor_id", c.ActorID, "error", err)
			continue
		}
		if actor.Blocked() {
			c.Body = domain.RedactedBody
		}
		c.Actor = e.displayActor(actor)
		comments = append(comments, c)
	}
	// Affichage du plus récent au plus ancien
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})

	// 4. Médias, avec normalisation des URLs
	rawMedia, err := e.media.MediaByPost(ctx, post.ID)
	if err != nil {
		slog.Warn("⚠️ Enrichment degraded to minimal item", "stage", "media", "post_id", post.ID, "error", err)
		return e.minimal(post)
	}
	media := make([]domain.Media, 0, len(rawMedia))
	for _, m := range rawMedia {
		m.URL = e.resolver.Resolve(m.URL)
		media = append(media, m)
	}

	// 5. Assemblage : les compteurs dérivent TOUJOURS des listes
	post.Reactions = domain.ReactionSummary{Count: len(reactions), List: reactions}
	post.Comments = domain.CommentSummary{Count: len(comments), List: comments}
	post.Media = media
	post.Hashtags = domain.ExtractHashtags(post.Body)
	return &post
}

// displayActor applique la rédaction d'identité et la politique d'avatar.
// Le placeholder passe lui aussi par le resolver.
func (e *Enricher) displayActor(actor domain.Actor) domain.Actor {
	if actor.Blocked() {
		red := actor.Redacted()
		red.AvatarRef = e.resolver.ResolveAvatar("")
		return red
	}
	actor.AvatarRef = e.resolver.ResolveAvatar(actor.AvatarRef)
	return actor
}

// minimal garde le corps du post visible sous dégradation backend :
// l'utilisateur voit le contenu, juste sans réactions/commentaires/médias.
func (e *Enricher) minimal(post domain.Post) *domain.Post {
	post.Reactions = domain.ReactionSummary{Count: 0, List: []domain.Reaction{}}
	post.Comments = domain.CommentSummary{Count: 0, List: []domain.Comment{}}
	post.Media = nil
	post.Hashtags = domain.ExtractHashtags(post.Body)
	return &post
}
