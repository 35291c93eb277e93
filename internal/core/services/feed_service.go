package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Abhijeet418/latest-FILxConnect/internal/core/domain"
	"github.com/Abhijeet418/latest-FILxConnect/internal/core/ports"
)

// FeedService orchestre la passe complète : résolution du graphe, fan-out de
// fetch par auteur, enrichissement, assemblage trié. Il détient le snapshot
// courant et le remplace atomiquement en fin de passe : l'UI ne voit jamais
// un feed à moitié enrichi.
type FeedService struct {
	graph    *GraphService
	content  ports.ContentStore
	enricher *Enricher

	// Jeton monotone : une passe périmée qui résout en retard ne doit pas
	// écraser une passe plus récente (last-writer-wins par version)
	version atomic.Uint64

	mu      sync.RWMutex
	current domain.Feed
}

func NewFeedService(graph *GraphService, content ports.ContentStore, enricher *Enricher) *FeedService {
	return &FeedService{
		graph:    graph,
		content:  content,
		enricher: enricher,
	}
}

func (s *FeedService) Refresh(ctx context.Context, actorID string) (domain.Feed, error) {
	if actorID == "" {
		return domain.Feed{}, domain.ErrNoIdentity
	}

	version := s.version.Add(1)

	tracer := otel.Tracer("feed-engine")
	ctx, span := tracer.Start(ctx, "feed_refresh", trace.WithAttributes(
		attribute.String("actor.id", actorID),
		attribute.Int64("feed.version", int64(version)),
	))
	defer span.End()

	started := time.Now()
	slog.Info("🔄 Feed refresh starting", "actor_id", actorID, "version", version)

	// 1. Graphe : quels auteurs sont visibles ?
	authors, err := s.graph.ResolveVisibleAuthors(ctx, actorID)
	if err != nil {
		span.RecordError(err)
		return domain.Feed{}, fmt.Errorf("resolve visible authors: %w", err)
	}

	// 2. Fan-out de contenu par auteur
	candidates := s.fetchItemsFor(ctx, authors)

	// 3. Enrichissement (parallèle par item, jointure complète)
	enriched := s.enricher.Enrich(ctx, candidates)

	// 4. Assemblage : tri chronologique strict
	domain.SortChronological(enriched)

	feed := domain.Feed{
		Version: version,
		BuiltAt: time.Now().UTC(),
		Items:   enriched,
	}

	// 5. Remplacement atomique, sauf si une passe plus récente a déjà gagné
	s.mu.Lock()
	if feed.Version > s.current.Version {
		s.current = feed
	} else {
		slog.Info("🗑️ Stale refresh discarded", "version", feed.Version, "current", s.current.Version)
		feed = s.current
	}
	snapshot := s.current.Clone()
	s.mu.Unlock()

	span.SetAttributes(attribute.Int("feed.items", len(snapshot.Items)))
	slog.Info("✅ Feed refresh complete", "actor_id", actorID, "version", version,
		"authors", len(authors), "items", len(snapshot.Items), "duration", time.Since(started))
	return snapshot, nil
}

// fetchItemsFor fan-out un fetch par auteur et filtre aux posts publiés.
// Un auteur qui échoue réduit le jeu de candidats, il n'avorte pas le batch.
func (s *FeedService) fetchItemsFor(ctx context.Context, authors []domain.Actor) []domain.Post {
	perAuthor := make([][]domain.Post, len(authors))
	var wg sync.WaitGroup
	for i, author := range authors {
		wg.Add(1)
		go func(i int, author domain.Actor) {
			defer wg.Done()
			posts, err := s.content.PostsByAuthor(ctx, author.ID)
			if err != nil {
				slog.Warn("⚠️ Author content fetch failed, skipping", "stage", "content_fetch", "author_id", author.ID, "error", err)
				return
			}
			kept := make([]domain.Post, 0, len(posts))
			for _, p := range posts {
				if p.State != domain.PublishPublished {
					continue
				}
				kept = append(kept, p)
			}
			perAuthor[i] = kept
		}(i, author)
	}
	wg.Wait()

	var candidates []domain.Post
	for _, posts := range perAuthor {
		candidates = append(candidates, posts...)
	}
	return candidates
}

// Current expose le snapshot comme valeur : la session/UI le lit, toute
// mutation passe par le réconciliateur.
func (s *FeedService) Current() domain.Feed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// apply patche un item du snapshot détenu, sous verrou. Retourne false si le
// post n'est plus dans le feed (un refresh l'a supplanté entre-temps).
// Réservé au réconciliateur de mutations.
func (s *FeedService) apply(postID string, patch func(*domain.Post)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	post := s.current.Find(postID)
	if post == nil {
		return false
	}
	patch(post)
	return true
}

// find retourne une copie de l'item courant, pour décider d'une transition
func (s *FeedService) find(postID string) (domain.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	post := s.current.Find(postID)
	if post == nil {
		return domain.Post{}, false
	}
	return post.Clone(), true
}
