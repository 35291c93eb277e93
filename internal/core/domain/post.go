package domain

import (
	"strings"
	"time"
)

// PublishState : seuls les posts "published" sont éligibles au feed
type PublishState string

const (
	PublishDraft     PublishState = "draft"
	PublishPublished PublishState = "published"
	PublishRemoved   PublishState = "removed"
)

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// ReactionLike est le seul kind émis par le client (le backend en accepte d'autres)
const ReactionLike = "👍"

type Media struct {
	ID     string
	PostID string
	URL    string // Toujours pleinement qualifiée après enrichissement
	Type   MediaType
}

// Reaction : au plus une par (PostID, ActorID). Le backend ne le garantit pas
// partout, donc l'invariant est tenu côté client (dédoublonnage à
// l'enrichissement, état du toggle dérivé de l'appartenance à la liste).
type Reaction struct {
	ID        string
	PostID    string
	ActorID   string
	Kind      string
	Actor     Actor // Résolu à l'enrichissement (éventuellement rédigé)
	CreatedAt time.Time
}

// Comment : append-only, jamais édité ni supprimé côté client
type Comment struct {
	ID        string
	PostID    string
	ActorID   string
	Body      string
	Actor     Actor
	CreatedAt time.Time
}

type ReactionSummary struct {
	Count int
	List  []Reaction
}

type CommentSummary struct {
	Count int
	List  []Comment
}

type Post struct {
	ID        string
	AuthorID  string
	Author    Actor
	Body      string
	State     PublishState
	CreatedAt time.Time
	Reactions ReactionSummary
	Comments  CommentSummary
	Media     []Media
	Hashtags  []string
	Shares    int // Compteur purement local, non durable après refresh
}

// LikedBy indique si l'acteur a déjà une réaction sur ce post.
// C'est la source de vérité du toggle like/unlike.
func (p *Post) LikedBy(actorID string) bool {
	for _, r := range p.Reactions.List {
		if r.ActorID == actorID {
			return true
		}
	}
	return false
}

// Clone copie le post et ses listes pour que le snapshot exposé reste une
// valeur : personne ne mute le feed autrement que via le réconciliateur.
func (p Post) Clone() Post {
	out := p
	out.Reactions.List = append([]Reaction(nil), p.Reactions.List...)
	out.Comments.List = append([]Comment(nil), p.Comments.List...)
	out.Media = append([]Media(nil), p.Media...)
	out.Hashtags = append([]string(nil), p.Hashtags...)
	return out
}

// ExtractHashtags découpe le corps et garde les mots commençant par '#'
func ExtractHashtags(body string) []string {
	var tags []string
	for _, word := range strings.Fields(body) {
		if strings.HasPrefix(word, "#") && len(word) > 1 {
			tags = append(tags, word)
		}
	}
	return tags
}
