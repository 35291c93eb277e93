package domain

import (
	"errors"
	"strings"
)

// --- ERREURS DU DOMAINE ---
var (
	ErrNoIdentity    = errors.New("no identity in session")
	ErrActorNotFound = errors.New("actor not found")
	ErrPostNotFound  = errors.New("post not found")
	ErrEmptyComment  = errors.New("comment body cannot be empty")
)

// ModerationState contrôle la visibilité d'un acteur dans le feed
type ModerationState string

const (
	ModerationActive  ModerationState = "active"
	ModerationBlocked ModerationState = "blocked"
)

// Placeholders de rédaction : on masque l'identité, jamais l'existence.
// Les compteurs restent intacts même quand l'auteur est bloqué.
const (
	RedactedUsername = "Blocked User"
	RedactedBody     = "Content from a blocked user"
)

// --- ENTITÉ ---

// Actor est une identité telle que référencée par les posts, réactions et
// commentaires. Immuable pendant un cycle de fetch ; re-fetché à chaque passe
// car les edges du graphe ne font pas foi pour la modération.
type Actor struct {
	ID         string
	Username   string
	Bio        string
	AvatarRef  string // Ref brute (relative ou absolue), à résoudre via MediaResolver
	Moderation ModerationState
	Reports    int
}

func (a Actor) Blocked() bool {
	return a.Moderation == ModerationBlocked
}

// Redacted retourne une copie dont l'identité affichable est masquée.
// L'ID est conservé : il sert aux invariants (une réaction par acteur).
func (a Actor) Redacted() Actor {
	return Actor{
		ID:         a.ID,
		Username:   RedactedUsername,
		Moderation: ModerationBlocked,
	}
}

// ProfileStats alimente l'écran profil (hors scope UI, mais exposé par /me)
type ProfileStats struct {
	Posts     int
	Followers int
	Following int
	Reports   int
}

// --- RÉSOLUTION DES MÉDIAS ---

// MediaResolver applique la politique d'URL : une ref absolue passe telle
// quelle, sinon on préfixe la base de stockage. Appliqué partout où une ref
// média ou avatar est rendue, placeholders inclus.
type MediaResolver struct {
	BaseURL       string
	DefaultAvatar string
}

func (r MediaResolver) Resolve(ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http") {
		return ref
	}
	return r.BaseURL + ref
}

// ResolveAvatar retourne l'avatar par défaut quand la ref est vide
// (et pour tout acteur bloqué, via Redacted).
func (r MediaResolver) ResolveAvatar(ref string) string {
	if ref == "" {
		return r.DefaultAvatar
	}
	return r.Resolve(ref)
}
