package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhijeet418/latest-FILxConnect/internal/core/domain"
)

func newTestBackend(t *testing.T, handler http.Handler) *Backend {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewBackend(NewClient(srv.URL))
}

// Le backend renvoie le statut tantôt en nombre, tantôt en chaîne
func TestActorStatusNumberOrString(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/u1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"u1","username":"alice","profilePicture":"alice.png","status":1,"reports":2}`))
	})
	mux.HandleFunc("/users/u2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"u2","username":"mallory","status":"0"}`))
	})
	backend := newTestBackend(t, mux)
	ctx := context.Background()

	alice, err := backend.Actor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", alice.Username)
	assert.Equal(t, "alice.png", alice.AvatarRef)
	assert.Equal(t, 2, alice.Reports)
	assert.False(t, alice.Blocked())

	mallory, err := backend.Actor(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, mallory.Blocked())
}

func TestActorNotFoundOnEmptyPayload(t *testing.T) {
	backend := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))

	_, err := backend.Actor(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrActorNotFound)
}

func TestActorTransportError(t *testing.T) {
	backend := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := backend.Actor(context.Background(), "u1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "users/u1", apiErr.Path)
}

func TestConnectionsMapsStatuses(t *testing.T) {
	backend := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/followers/u1/following", r.URL.Path)
		w.Write([]byte(`[
			{"followingId":"u2","status":"1","createdAt":"2025-03-05T19:23:23"},
			{"followingId":"u3","status":0},
			{"followingId":"u4","status":2}
		]`))
	}))

	conns, err := backend.Connections(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, conns, 3)
	assert.Equal(t, domain.ConnectionActive, conns[0].Status)
	assert.Equal(t, "u1", conns[0].FollowerID)
	// Date sans fuseau acceptée
	assert.Equal(t, 2025, conns[0].CreatedAt.Year())
	assert.Equal(t, domain.ConnectionPending, conns[1].Status)
	assert.Equal(t, domain.ConnectionRemoved, conns[2].Status)
}

func TestPostsByAuthorMapsStates(t *testing.T) {
	backend := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/user/u2", r.URL.Path)
		w.Write([]byte(`[
			{"id":"p1","user":{"id":"u2"},"content":"published","status":"1","createdAt":"2025-03-05T19:23:23Z"},
			{"id":"p2","content":"draft","status":0},
			{"id":"p3","content":"removed","status":"2"}
		]`))
	}))

	posts, err := backend.PostsByAuthor(context.Background(), "u2")
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, domain.PublishPublished, posts[0].State)
	assert.Equal(t, "u2", posts[0].AuthorID)
	assert.Equal(t, domain.PublishDraft, posts[1].State)
	assert.Equal(t, "u2", posts[1].AuthorID) // Auteur absent du payload : l'appelant fait foi
	assert.Equal(t, domain.PublishRemoved, posts[2].State)
}

func TestPostCountPublishedOnly(t *testing.T) {
	backend := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":"p1","status":"1"},
			{"id":"p2","status":"0"},
			{"id":"p3","status":"1"}
		]`))
	}))

	count, err := backend.PostCount(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestReactionsByPost(t *testing.T) {
	backend := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reactions/posts/p1", r.URL.Path)
		w.Write([]byte(`[
			{"id":"r1","userId":"u5","emoji":"👍","createdAt":"2025-03-05T19:23:23Z"},
			{"id":"r2","userId":"u6"}
		]`))
	}))

	reactions, err := backend.ReactionsByPost(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, reactions, 2)
	assert.Equal(t, "u5", reactions[0].ActorID)
	assert.Equal(t, domain.ReactionLike, reactions[0].Kind)
	assert.Equal(t, "p1", reactions[0].PostID)
	// Emoji absent : le like est la réaction par défaut
	assert.Equal(t, domain.ReactionLike, reactions[1].Kind)
}

func TestCreateAndDeleteReactionPaths(t *testing.T) {
	var gotCreate, gotDelete string
	mux := http.NewServeMux()
	mux.HandleFunc("/reactions/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			gotCreate = r.URL.EscapedPath()
		case http.MethodDelete:
			gotDelete = r.URL.Path
		}
	})
	backend := newTestBackend(t, mux)
	ctx := context.Background()

	require.NoError(t, backend.CreateReaction(ctx, "p1", "u1", domain.ReactionLike))
	assert.Equal(t, "/reactions/p1/u1/%F0%9F%91%8D", gotCreate)

	require.NoError(t, backend.DeleteReaction(ctx, "p1", "u1"))
	assert.Equal(t, "/reactions/p1/u1", gotDelete)
}

// La création de commentaire passe par la query string, pas par le corps
func TestCreateCommentQueryParams(t *testing.T) {
	var got *http.Request
	backend := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
	}))

	err := backend.CreateComment(context.Background(), "p1", "u1", "nice one")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/comments", got.URL.Path)
	assert.Equal(t, "p1", got.URL.Query().Get("postId"))
	assert.Equal(t, "u1", got.URL.Query().Get("userId"))
	assert.Equal(t, "nice one", got.URL.Query().Get("content"))
}

func TestCommentsByPost(t *testing.T) {
	backend := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/comments/p1", r.URL.Path)
		w.Write([]byte(`[
			{"id":"c1","user":{"id":"u5"},"content":"first","createdAt":"2025-03-05T19:23:23"},
			{"id":"c2","content":"orphan"}
		]`))
	}))

	comments, err := backend.CommentsByPost(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "u5", comments[0].ActorID)
	assert.Equal(t, "first", comments[0].Body)
	assert.Equal(t, "", comments[1].ActorID)
}

func TestMediaByPost(t *testing.T) {
	backend := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/media/p1", r.URL.Path)
		w.Write([]byte(`[
			{"id":"m1","mediaUrl":"photo.jpg","mediaType":"image"},
			{"id":"m2","mediaUrl":"clip.mp4","mediaType":"video"}
		]`))
	}))

	media, err := backend.MediaByPost(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, media, 2)
	assert.Equal(t, domain.MediaTypeImage, media[0].Type)
	assert.Equal(t, "photo.jpg", media[0].URL)
	assert.Equal(t, "p1", media[0].PostID)
	assert.Equal(t, domain.MediaTypeVideo, media[1].Type)
}

func TestFollowerCounts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/followers/u1/followers/count", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`12`))
	})
	mux.HandleFunc("/followers/u1/following/count", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`7`))
	})
	backend := newTestBackend(t, mux)

	followers, following, err := backend.FollowerCounts(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 12, followers)
	assert.Equal(t, 7, following)
}

// Une date illisible dégrade à zéro au lieu de faire échouer l'unité
func TestWireTimeUnreadableDate(t *testing.T) {
	backend := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"r1","userId":"u5","createdAt":"yesterday maybe"}]`))
	}))

	reactions, err := backend.ReactionsByPost(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, reactions, 1)
	assert.True(t, reactions[0].CreatedAt.IsZero())
}
