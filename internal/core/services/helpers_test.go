package services

import (
	"context"
	"sync"
	"time"

	"github.com/Abhijeet418/latest-FILxConnect/internal/core/domain"
)

// fakeBackend implémente tous les ports driven en mémoire, avec des pannes
// injectables par unité (acteur, auteur, post) pour tester la dégradation.
type fakeBackend struct {
	mu sync.Mutex

	actors    map[string]domain.Actor
	conns     map[string][]domain.Connection
	posts     map[string][]domain.Post     // par auteur
	reactions map[string][]domain.Reaction // par post
	comments  map[string][]domain.Comment
	media     map[string][]domain.Media

	actorErr     map[string]error
	connsErr     error
	postsErr     map[string]error
	reactionsErr map[string]error
	commentsErr  map[string]error
	mediaErr     map[string]error

	createReactionErr error
	deleteReactionErr error
	createCommentErr  error

	actorCalls          map[string]int
	createReactionCalls int
	deleteReactionCalls int
	createCommentCalls  int

	connsHook func(call int) // Pour ordonner deux passes concurrentes
	connCall  int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		actors:       make(map[string]domain.Actor),
		conns:        make(map[string][]domain.Connection),
		posts:        make(map[string][]domain.Post),
		reactions:    make(map[string][]domain.Reaction),
		comments:     make(map[string][]domain.Comment),
		media:        make(map[string][]domain.Media),
		actorErr:     make(map[string]error),
		postsErr:     make(map[string]error),
		reactionsErr: make(map[string]error),
		commentsErr:  make(map[string]error),
		mediaErr:     make(map[string]error),
		actorCalls:   make(map[string]int),
	}
}

func (f *fakeBackend) addActor(id, username string, moderation domain.ModerationState) {
	f.actors[id] = domain.Actor{ID: id, Username: username, AvatarRef: username + ".png", Moderation: moderation}
}

func (f *fakeBackend) follow(followerID, followingID string, status domain.ConnectionStatus) {
	f.conns[followerID] = append(f.conns[followerID], domain.Connection{
		FollowerID:  followerID,
		FollowingID: followingID,
		Status:      status,
	})
}

func (f *fakeBackend) addPost(id, authorID, body string, state domain.PublishState, createdAt time.Time) {
	f.posts[authorID] = append(f.posts[authorID], domain.Post{
		ID:        id,
		AuthorID:  authorID,
		Body:      body,
		State:     state,
		CreatedAt: createdAt,
	})
}

func (f *fakeBackend) react(postID, actorID string, createdAt time.Time) {
	f.reactions[postID] = append(f.reactions[postID], domain.Reaction{
		ID:        postID + "-" + actorID,
		PostID:    postID,
		ActorID:   actorID,
		Kind:      domain.ReactionLike,
		CreatedAt: createdAt,
	})
}

func (f *fakeBackend) comment(id, postID, actorID, body string, createdAt time.Time) {
	f.comments[postID] = append(f.comments[postID], domain.Comment{
		ID:        id,
		PostID:    postID,
		ActorID:   actorID,
		Body:      body,
		CreatedAt: createdAt,
	})
}

// --- UserDirectory ---

func (f *fakeBackend) Actor(ctx context.Context, actorID string) (domain.Actor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actorCalls[actorID]++
	if err := f.actorErr[actorID]; err != nil {
		return domain.Actor{}, err
	}
	actor, ok := f.actors[actorID]
	if !ok {
		return domain.Actor{}, domain.ErrActorNotFound
	}
	return actor, nil
}

func (f *fakeBackend) FollowerCounts(ctx context.Context, actorID string) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	following := len(f.conns[actorID])
	followers := 0
	for _, conns := range f.conns {
		for _, c := range conns {
			if c.FollowingID == actorID && c.Active() {
				followers++
			}
		}
	}
	return followers, following, nil
}

// --- SocialGraph ---

func (f *fakeBackend) Connections(ctx context.Context, actorID string) ([]domain.Connection, error) {
	f.mu.Lock()
	call := f.connCall
	f.connCall++
	hook := f.connsHook
	err := f.connsErr
	conns := append([]domain.Connection(nil), f.conns[actorID]...)
	f.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	if err != nil {
		return nil, err
	}
	return conns, nil
}

// --- ContentStore ---

func (f *fakeBackend) PostsByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.postsErr[authorID]; err != nil {
		return nil, err
	}
	return append([]domain.Post(nil), f.posts[authorID]...), nil
}

func (f *fakeBackend) PostCount(ctx context.Context, authorID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, p := range f.posts[authorID] {
		if p.State == domain.PublishPublished {
			count++
		}
	}
	return count, nil
}

// --- InteractionStore ---

func (f *fakeBackend) ReactionsByPost(ctx context.Context, postID string) ([]domain.Reaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.reactionsErr[postID]; err != nil {
		return nil, err
	}
	return append([]domain.Reaction(nil), f.reactions[postID]...), nil
}

func (f *fakeBackend) CreateReaction(ctx context.Context, postID, actorID, kind string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createReactionCalls++
	if f.createReactionErr != nil {
		return f.createReactionErr
	}
	f.reactions[postID] = append(f.reactions[postID], domain.Reaction{
		ID:      postID + "-" + actorID,
		PostID:  postID,
		ActorID: actorID,
		Kind:    kind,
	})
	return nil
}

func (f *fakeBackend) DeleteReaction(ctx context.Context, postID, actorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteReactionCalls++
	if f.deleteReactionErr != nil {
		return f.deleteReactionErr
	}
	kept := f.reactions[postID][:0]
	for _, r := range f.reactions[postID] {
		if r.ActorID != actorID {
			kept = append(kept, r)
		}
	}
	f.reactions[postID] = kept
	return nil
}

func (f *fakeBackend) CommentsByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.commentsErr[postID]; err != nil {
		return nil, err
	}
	return append([]domain.Comment(nil), f.comments[postID]...), nil
}

func (f *fakeBackend) CreateComment(ctx context.Context, postID, actorID, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCommentCalls++
	if f.createCommentErr != nil {
		return f.createCommentErr
	}
	f.comments[postID] = append(f.comments[postID], domain.Comment{
		ID:      postID + "-c",
		PostID:  postID,
		ActorID: actorID,
		Body:    body,
	})
	return nil
}

// --- MediaStore ---

func (f *fakeBackend) MediaByPost(ctx context.Context, postID string) ([]domain.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.mediaErr[postID]; err != nil {
		return nil, err
	}
	return append([]domain.Media(nil), f.media[postID]...), nil
}

// --- Vérificateur de test ---

type fakeVerifier struct {
	subject string
	err     error
}

func (v *fakeVerifier) Verify(token string) (string, error) {
	return v.subject, v.err
}

func testResolver() domain.MediaResolver {
	return domain.MediaResolver{
		BaseURL:       "https://cdn.test/",
		DefaultAvatar: "https://cdn.test/default.png",
	}
}

func newTestEngine(backend *fakeBackend) (*FeedService, *IdentityService, *InteractionService) {
	resolver := testResolver()
	identity := NewIdentityService(backend, backend, &fakeVerifier{})
	graph := NewGraphService(backend, backend)
	enricher := NewEnricher(backend, backend, backend, resolver)
	feed := NewFeedService(graph, backend, enricher)
	interactions := NewInteractionService(feed, identity, backend, resolver)
	return feed, identity, interactions
}
