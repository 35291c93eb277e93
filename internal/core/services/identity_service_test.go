package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhijeet418/latest-FILxConnect/internal/core/domain"
)

func TestAuthenticate(t *testing.T) {
	backend := newFakeBackend()
	identity := NewIdentityService(backend, backend, &fakeVerifier{subject: "u1"})

	actorID, err := identity.Authenticate(context.Background(), "some-token")
	require.NoError(t, err)
	assert.Equal(t, "u1", actorID)
}

func TestAuthenticateEmptyToken(t *testing.T) {
	backend := newFakeBackend()
	identity := NewIdentityService(backend, backend, &fakeVerifier{subject: "u1"})

	_, err := identity.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNoIdentity)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	backend := newFakeBackend()
	identity := NewIdentityService(backend, backend, &fakeVerifier{err: assert.AnError})

	_, err := identity.Authenticate(context.Background(), "garbage")
	assert.Error(t, err)
}

// Le cache de session évite un second aller-retour pour le même acteur
func TestCurrentActorCaches(t *testing.T) {
	backend := newFakeBackend()
	backend.addActor("u1", "alice", domain.ModerationActive)
	identity := NewIdentityService(backend, backend, &fakeVerifier{})
	ctx := context.Background()

	first, err := identity.CurrentActor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Username)

	second, err := identity.CurrentActor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, backend.actorCalls["u1"])
}

func TestCurrentActorUnknown(t *testing.T) {
	backend := newFakeBackend()
	identity := NewIdentityService(backend, backend, &fakeVerifier{})

	_, err := identity.CurrentActor(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrActorNotFound)
}

func TestProfileStats(t *testing.T) {
	backend := newFakeBackend()
	backend.addActor("u1", "alice", domain.ModerationActive)
	backend.addActor("u2", "bob", domain.ModerationActive)
	backend.follow("u1", "u2", domain.ConnectionActive)
	backend.follow("u2", "u1", domain.ConnectionActive)
	backend.addPost("p1", "u1", "a", domain.PublishPublished, baseTime)
	backend.addPost("p2", "u1", "b", domain.PublishDraft, baseTime)

	identity := NewIdentityService(backend, backend, &fakeVerifier{})
	stats, err := identity.ProfileStats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Followers)
	assert.Equal(t, 1, stats.Following)
	assert.Equal(t, 1, stats.Posts) // Seuls les posts publiés comptent
}

// Un compteur indisponible tombe à zéro, les autres restent servis
func TestProfileStatsDegradesPerCounter(t *testing.T) {
	backend := newFakeBackend()
	backend.addActor("u1", "alice", domain.ModerationActive)
	backend.addActor("u2", "bob", domain.ModerationActive)
	backend.follow("u2", "u1", domain.ConnectionActive)
	backend.addPost("p1", "u1", "a", domain.PublishPublished, baseTime)

	identity := NewIdentityService(&statsFailingDirectory{fakeBackend: backend}, backend, &fakeVerifier{})
	stats, err := identity.ProfileStats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Followers)
	assert.Equal(t, 0, stats.Following)
	assert.Equal(t, 1, stats.Posts)
}

func TestProfileStatsRequiresIdentity(t *testing.T) {
	backend := newFakeBackend()
	identity := NewIdentityService(backend, backend, &fakeVerifier{})

	_, err := identity.ProfileStats(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNoIdentity)
}

// statsFailingDirectory fait échouer uniquement FollowerCounts
type statsFailingDirectory struct {
	*fakeBackend
}

func (d *statsFailingDirectory) FollowerCounts(ctx context.Context, actorID string) (int, int, error) {
	return 0, 0, assert.AnError
}
