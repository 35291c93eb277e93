package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Abhijeet418/latest-FILxConnect/internal/core/domain"
	"github.com/Abhijeet418/latest-FILxConnect/internal/core/ports"
)

// GraphService résout les auteurs visibles d'un acteur : edges actifs, état
// de modération courant. Les edges ne font pas foi pour la modération, donc
// chaque auteur est re-fetché à chaque résolution.
type GraphService struct {
	graph ports.SocialGraph
	users ports.UserDirectory
}

func NewGraphService(graph ports.SocialGraph, users ports.UserDirectory) *GraphService {
	return &GraphService{graph: graph, users: users}
}

// ResolveVisibleAuthors retourne l'ensemble ordonné et dédoublonné des
// auteurs dont le contenu est visible. Un lookup d'auteur qui échoue est
// sauté (résultat partiel) : le feed doit se rendre pour les auteurs
// joignables.
func (s *GraphService) ResolveVisibleAuthors(ctx context.Context, actorID string) ([]domain.Actor, error) {
	conns, err := s.graph.Connections(ctx, actorID)
	if err != nil {
		// Sans edges, aucun auteur joignable : échec global de la résolution
		return nil, fmt.Errorf("fetch connections for %s: %w", actorID, err)
	}

	// Filtrage aux edges actifs + dédoublonnage en préservant l'ordre
	seen := make(map[string]bool)
	var authorIDs []string
	for _, c := range conns {
		if !c.Active() || seen[c.FollowingID] {
			continue
		}
		seen[c.FollowingID] = true
		authorIDs = append(authorIDs, c.FollowingID)
	}

	if len(authorIDs) == 0 {
		return nil, nil
	}

	// Fan-out : re-fetch de l'état courant de chaque auteur.
	// "Gather all, then proceed" : on joint tout avant de continuer.
	results := make([]*domain.Actor, len(authorIDs))
	var wg sync.WaitGroup
	for i, id := range authorIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			actor, err := s.users.Actor(ctx, id)
			if err != nil {
				slog.Warn("⚠️ Author lookup failed, skipping", "stage", "graph_resolve", "author_id", id, "error", err)
				return
			}
			results[i] = &actor
		}(i, id)
	}
	wg.Wait()

	authors := make([]domain.Actor, 0, len(authorIDs))
	for _, a := range results {
		if a == nil {
			continue // Lookup échoué : auteur sauté
		}
		if a.Blocked() {
			slog.Debug("Author excluded by moderation", "author_id", a.ID)
			continue
		}
		authors = append(authors, *a)
	}

	slog.Debug("Resolved visible authors", "actor_id", actorID, "edges", len(conns), "visible", len(authors))
	return authors, nil
}
