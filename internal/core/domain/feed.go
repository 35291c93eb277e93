package domain

import (
	"sort"
	"time"
)

// Feed est le snapshot ordonné et enrichi exposé à l'UI. C'est une valeur :
// il est reconstruit intégralement à chaque refresh puis remplacé
// atomiquement, jamais patché en place pendant une passe.
//
// Pas de pagination : l'ensemble éligible tient en mémoire parce que le
// fan-out amont est borné aux connexions directes d'un seul acteur. C'est une
// limite de scaling assumée, pas un oubli.
type Feed struct {
	Version uint64 // Jeton monotone de la passe de refresh (last-writer-wins)
	BuiltAt time.Time
	Items   []Post
}

// Clone copie le feed en profondeur pour l'exposer comme valeur
func (f Feed) Clone() Feed {
	out := Feed{Version: f.Version, BuiltAt: f.BuiltAt}
	if f.Items == nil {
		return out
	}
	out.Items = make([]Post, len(f.Items))
	for i, p := range f.Items {
		out.Items[i] = p.Clone()
	}
	return out
}

// Find retourne un pointeur vers l'item, ou nil s'il n'est pas dans le feed
func (f *Feed) Find(postID string) *Post {
	for i := range f.Items {
		if f.Items[i].ID == postID {
			return &f.Items[i]
		}
	}
	return nil
}

// SortChronological trie par CreatedAt décroissant, égalité départagée par ID
// décroissant (les IDs croissent à la création, ça approxime l'ordre
// d'insertion).
func SortChronological(items []Post) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
}
