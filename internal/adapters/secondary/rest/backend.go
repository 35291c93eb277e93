package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/Abhijeet418/latest-FILxConnect/internal/core/domain"
	"github.com/Abhijeet418/latest-FILxConnect/internal/metrics"
)

// Backend implémente les ports driven du moteur au-dessus des endpoints
// logiques de l'API FILxCONNECT. Le moteur est agnostique au transport :
// seul cet adapter connaît les chemins et les formes wire.
type Backend struct {
	c *Client
}

func NewBackend(c *Client) *Backend {
	return &Backend{c: c}
}

// --- FORMES WIRE ---

// wireStatus absorbe l'incohérence du backend : les statuts arrivent tantôt
// en nombre (0), tantôt en chaîne ("1")
type wireStatus string

func (s *wireStatus) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	*s = wireStatus(data)
	return nil
}

// wireTime tolère les dates sans fuseau ("2025-03-05T19:23:23") et RFC3339
type wireTime struct {
	time.Time
}

func (t *wireTime) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	// Date illisible : on dégrade à zéro plutôt que d'échouer l'unité
	t.Time = time.Time{}
	return nil
}

type userPayload struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	Bio            string     `json:"bio"`
	ProfilePicture string     `json:"profilePicture"`
	Status         wireStatus `json:"status"`
	Reports        int        `json:"reports"`
}

func (u userPayload) toDomain() domain.Actor {
	moderation := domain.ModerationActive
	if u.Status == "0" {
		moderation = domain.ModerationBlocked
	}
	return domain.Actor{
		ID:         u.ID,
		Username:   u.Username,
		Bio:        u.Bio,
		AvatarRef:  u.ProfilePicture,
		Moderation: moderation,
		Reports:    u.Reports,
	}
}

type followPayload struct {
	FollowerID  string     `json:"followerId"`
	FollowingID string     `json:"followingId"`
	Status      wireStatus `json:"status"`
	CreatedAt   wireTime   `json:"createdAt"`
}

type postPayload struct {
	ID        string     `json:"id"`
	User      *struct { // L'auteur embarqué ne porte que l'ID fiable
		ID string `json:"id"`
	} `json:"user"`
	Content   string     `json:"content"`
	Status    wireStatus `json:"status"`
	CreatedAt wireTime   `json:"createdAt"`
}

type reactionPayload struct {
	ID        string   `json:"id"`
	PostID    string   `json:"postId"`
	UserID    string   `json:"userId"`
	Emoji     string   `json:"emoji"`
	CreatedAt wireTime `json:"createdAt"`
}

type commentPayload struct {
	ID   string `json:"id"`
	User *struct {
		ID string `json:"id"`
	} `json:"user"`
	Content   string   `json:"content"`
	CreatedAt wireTime `json:"createdAt"`
}

type mediaPayload struct {
	ID        string `json:"id"`
	PostID    string `json:"postId"`
	MediaURL  string `json:"mediaUrl"`
	MediaType string `json:"mediaType"`
}

// --- UserDirectory ---

func (b *Backend) Actor(ctx context.Context, actorID string) (domain.Actor, error) {
	metrics.APIRequests.WithLabelValues("actor").Inc()
	var payload userPayload
	if err := b.c.Get(ctx, "users/"+actorID, &payload); err != nil {
		metrics.APIErrors.WithLabelValues("actor").Inc()
		return domain.Actor{}, err
	}
	if payload.ID == "" {
		return domain.Actor{}, domain.ErrActorNotFound
	}
	return payload.toDomain(), nil
}

func (b *Backend) FollowerCounts(ctx context.Context, actorID string) (int, int, error) {
	metrics.APIRequests.WithLabelValues("follower_counts").Inc()
	var followers, following int
	if err := b.c.Get(ctx, "followers/"+actorID+"/followers/count", &followers); err != nil {
		metrics.APIErrors.WithLabelValues("follower_counts").Inc()
		return 0, 0, err
	}
	if err := b.c.Get(ctx, "followers/"+actorID+"/following/count", &following); err != nil {
		metrics.APIErrors.WithLabelValues("follower_counts").Inc()
		return 0, 0, err
	}
	return followers, following, nil
}

// --- SocialGraph ---

func (b *Backend) Connections(ctx context.Context, actorID string) ([]domain.Connection, error) {
	metrics.APIRequests.WithLabelValues("connections").Inc()
	var payload []followPayload
	if err := b.c.Get(ctx, "followers/"+actorID+"/following", &payload); err != nil {
		metrics.APIErrors.WithLabelValues("connections").Inc()
		return nil, err
	}
	conns := make([]domain.Connection, 0, len(payload))
	for _, f := range payload {
		status := domain.ConnectionPending
		switch f.Status {
		case "1":
			status = domain.ConnectionActive
		case "2":
			status = domain.ConnectionRemoved
		}
		conns = append(conns, domain.Connection{
			FollowerID:  actorID,
			FollowingID: f.FollowingID,
			Status:      status,
			CreatedAt:   f.CreatedAt.Time,
		})
	}
	return conns, nil
}

// --- ContentStore ---

func (b *Backend) PostsByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	metrics.APIRequests.WithLabelValues("posts_by_author").Inc()
	var payload []postPayload
	if err := b.c.Get(ctx, "posts/user/"+authorID, &payload); err != nil {
		metrics.APIErrors.WithLabelValues("posts_by_author").Inc()
		return nil, err
	}
	posts := make([]domain.Post, 0, len(payload))
	for _, p := range payload {
		state := domain.PublishDraft
		switch p.Status {
		case "1":
			state = domain.PublishPublished
		case "2":
			state = domain.PublishRemoved
		}
		id := authorID
		if p.User != nil && p.User.ID != "" {
			id = p.User.ID
		}
		posts = append(posts, domain.Post{
			ID:        p.ID,
			AuthorID:  id,
			Body:      p.Content,
			State:     state,
			CreatedAt: p.CreatedAt.Time,
		})
	}
	return posts, nil
}

func (b *Backend) PostCount(ctx context.Context, authorID string) (int, error) {
	metrics.APIRequests.WithLabelValues("post_count").Inc()
	posts, err := b.PostsByAuthor(ctx, authorID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, p := range posts {
		if p.State == domain.PublishPublished {
			count++
		}
	}
	return count, nil
}

// --- InteractionStore ---

func (b *Backend) ReactionsByPost(ctx context.Context, postID string) ([]domain.Reaction, error) {
	metrics.APIRequests.WithLabelValues("reactions_by_post").Inc()
	var payload []reactionPayload
	if err := b.c.Get(ctx, "reactions/posts/"+postID, &payload); err != nil {
		metrics.APIErrors.WithLabelValues("reactions_by_post").Inc()
		return nil, err
	}
	reactions := make([]domain.Reaction, 0, len(payload))
	for _, r := range payload {
		kind := r.Emoji
		if kind == "" {
			kind = domain.ReactionLike
		}
		reactions = append(reactions, domain.Reaction{
			ID:        r.ID,
			PostID:    postID,
			ActorID:   r.UserID,
			Kind:      kind,
			CreatedAt: r.CreatedAt.Time,
		})
	}
	return reactions, nil
}

func (b *Backend) CreateReaction(ctx context.Context, postID, actorID, kind string) error {
	metrics.APIRequests.WithLabelValues("create_reaction").Inc()
	path := "reactions/" + postID + "/" + actorID + "/" + url.PathEscape(kind)
	if err := b.c.Post(ctx, path, nil, nil); err != nil {
		metrics.APIErrors.WithLabelValues("create_reaction").Inc()
		return err
	}
	metrics.Mutations.WithLabelValues("like").Inc()
	return nil
}

func (b *Backend) DeleteReaction(ctx context.Context, postID, actorID string) error {
	metrics.APIRequests.WithLabelValues("delete_reaction").Inc()
	if err := b.c.Delete(ctx, "reactions/"+postID+"/"+actorID, nil); err != nil {
		metrics.APIErrors.WithLabelValues("delete_reaction").Inc()
		return err
	}
	metrics.Mutations.WithLabelValues("unlike").Inc()
	return nil
}

func (b *Backend) CommentsByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	metrics.APIRequests.WithLabelValues("comments_by_post").Inc()
	var payload []commentPayload
	if err := b.c.Get(ctx, "comments/"+postID, &payload); err != nil {
		metrics.APIErrors.WithLabelValues("comments_by_post").Inc()
		return nil, err
	}
	comments := make([]domain.Comment, 0, len(payload))
	for _, c := range payload {
		actorID := ""
		if c.User != nil {
			actorID = c.User.ID
		}
		comments = append(comments, domain.Comment{
			ID:        c.ID,
			PostID:    postID,
			ActorID:   actorID,
			Body:      c.Content,
			CreatedAt: c.CreatedAt.Time,
		})
	}
	return comments, nil
}

func (b *Backend) CreateComment(ctx context.Context, postID, actorID, body string) error {
	metrics.APIRequests.WithLabelValues("create_comment").Inc()
	params := url.Values{}
	params.Set("postId", postID)
	params.Set("userId", actorID)
	params.Set("content", body)
	if err := b.c.Post(ctx, queryPath("comments", params), nil, nil); err != nil {
		metrics.APIErrors.WithLabelValues("create_comment").Inc()
		return err
	}
	metrics.Mutations.WithLabelValues("comment").Inc()
	return nil
}

// --- MediaStore ---

func (b *Backend) MediaByPost(ctx context.Context, postID string) ([]domain.Media, error) {
	metrics.APIRequests.WithLabelValues("media_by_post").Inc()
	var payload []mediaPayload
	if err := b.c.Get(ctx, "media/"+postID, &payload); err != nil {
		metrics.APIErrors.WithLabelValues("media_by_post").Inc()
		return nil, err
	}
	media := make([]domain.Media, 0, len(payload))
	for _, m := range payload {
		mediaType := domain.MediaTypeImage
		if m.MediaType == "video" {
			mediaType = domain.MediaTypeVideo
		}
		media = append(media, domain.Media{
			ID:     m.ID,
			PostID: postID,
			URL:    m.MediaURL,
			Type:   mediaType,
		})
	}
	return media, nil
}

var (
	_ json.Unmarshaler = (*wireStatus)(nil)
	_ json.Unmarshaler = (*wireTime)(nil)
)
