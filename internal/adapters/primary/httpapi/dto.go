package httpapi

import (
	"time"

	"github.com/Abhijeet418/latest-FILxConnect/internal/core/domain"
)

// DTOs du gateway session : la forme que l'UI consomme. Les refs médias et
// avatars arrivent déjà pleinement qualifiées depuis l'enrichissement.

type actorDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type reactionDTO struct {
	ID        string   `json:"id"`
	User      actorDTO `json:"user"`
	Emoji     string   `json:"emoji"`
	CreatedAt string   `json:"createdAt"`
	Time      string   `json:"time"`
}

type commentDTO struct {
	ID        string   `json:"id"`
	User      actorDTO `json:"user"`
	Content   string   `json:"content"`
	CreatedAt string   `json:"createdAt"`
	Time      string   `json:"time"`
}

type mediaDTO struct {
	ID       string `json:"id"`
	PostID   string `json:"postId"`
	MediaURL string `json:"mediaUrl"`
	Type     string `json:"mediaType"`
}

type postDTO struct {
	ID           string        `json:"id"`
	Author       actorDTO      `json:"author"`
	Content      string        `json:"content"`
	CreatedAt    string        `json:"createdAt"`
	Time         string        `json:"time"`
	Reactions    int           `json:"reactions"`
	LikedBy      []reactionDTO `json:"likedBy"`
	Comments     int           `json:"comments"`
	CommentsList []commentDTO  `json:"commentsList"`
	MediaUrls    []mediaDTO    `json:"mediaUrls"`
	Hashtags     []string      `json:"hashtags"`
	Shares       int           `json:"shares"`
	Liked        bool          `json:"liked"`
}

type feedDTO struct {
	Version uint64    `json:"version"`
	BuiltAt time.Time `json:"builtAt"`
	Posts   []postDTO `json:"posts"`
}

type profileDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
	Stats    struct {
		Posts     int `json:"posts"`
		Followers int `json:"followers"`
		Following int `json:"following"`
		Reports   int `json:"reports"`
	} `json:"stats"`
}

func mapActor(a domain.Actor) actorDTO {
	return actorDTO{ID: a.ID, Username: a.Username, Avatar: a.AvatarRef}
}

func mapPost(p domain.Post, viewerID string) postDTO {
	likedBy := make([]reactionDTO, len(p.Reactions.List))
	for i, r := range p.Reactions.List {
		likedBy[i] = reactionDTO{
			ID:        r.ID,
			User:      mapActor(r.Actor),
			Emoji:     r.Kind,
			CreatedAt: formatTime(r.CreatedAt),
			Time:      timeAgo(r.CreatedAt),
		}
	}
	comments := make([]commentDTO, len(p.Comments.List))
	for i, c := range p.Comments.List {
		comments[i] = commentDTO{
			ID:        c.ID,
			User:      mapActor(c.Actor),
			Content:   c.Body,
			CreatedAt: formatTime(c.CreatedAt),
			Time:      timeAgo(c.CreatedAt),
		}
	}
	media := make([]mediaDTO, len(p.Media))
	for i, m := range p.Media {
		media[i] = mediaDTO{ID: m.ID, PostID: m.PostID, MediaURL: m.URL, Type: string(m.Type)}
	}
	return postDTO{
		ID:           p.ID,
		Author:       mapActor(p.Author),
		Content:      p.Body,
		CreatedAt:    formatTime(p.CreatedAt),
		Time:         timeAgo(p.CreatedAt),
		Reactions:    p.Reactions.Count,
		LikedBy:      likedBy,
		Comments:     p.Comments.Count,
		CommentsList: comments,
		MediaUrls:    media,
		Hashtags:     p.Hashtags,
		Shares:       p.Shares,
		Liked:        p.LikedBy(viewerID),
	}
}

func mapFeed(f domain.Feed, viewerID string) feedDTO {
	posts := make([]postDTO, len(f.Items))
	for i := range f.Items {
		posts[i] = mapPost(f.Items[i], viewerID)
	}
	return feedDTO{Version: f.Version, BuiltAt: f.BuiltAt, Posts: posts}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
