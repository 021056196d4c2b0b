package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"matchview/models"
)

func newRelationshipFixture(t *testing.T) (*fakeBackend, *RelationshipService, *recordingNotifier) {
	t.Helper()
	fb := newFakeBackend(t)
	n := &recordingNotifier{}
	return fb, NewRelationshipService(fb.client(), n, zap.NewNop()), n
}

func TestRelationshipService_LoadsOnce(t *testing.T) {
	fb, svc, _ := newRelationshipFixture(t)
	fb.setRelation(models.RelationFavorites, "alice")
	fb.setRelation(models.RelationShortlist, "bob")
	fb.setRelation(models.RelationExclusions, "carol")

	ctx := context.Background()
	set, err := svc.Sets(ctx, testSession)
	require.NoError(t, err)
	assert.True(t, set.Favorites.Has("alice"))
	assert.True(t, set.Shortlist.Has("bob"))
	assert.True(t, set.Exclusions.Has("carol"))

	_, err = svc.Sets(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, 1, fb.countCalls("GET /favorites/viewer"))
}

func TestRelationshipService_AddConflictIsReconciled(t *testing.T) {
	fb, svc, n := newRelationshipFixture(t)
	ctx := context.Background()
	_, err := svc.Sets(ctx, testSession)
	require.NoError(t, err)

	// the backend already has alice but the local copy does not
	fb.setRelation(models.RelationFavorites, "alice")

	set, err := svc.Add(ctx, testSession, models.RelationFavorites, "alice")
	require.NoError(t, err)
	assert.True(t, set.Favorites.Has("alice"))
	assert.Len(t, set.Favorites, 1)

	events := n.events()
	require.Len(t, events, 1)
	assert.Equal(t, "viewer", events[0].Username)
	assert.Equal(t, models.EventRelationshipsChanged, events[0].Event)
}

func TestRelationshipService_AddRollsBackOnFailure(t *testing.T) {
	fb, svc, n := newRelationshipFixture(t)
	ctx := context.Background()
	fb.force(http.MethodPost, "/shortlist/dave", http.StatusInternalServerError)

	_, err := svc.Add(ctx, testSession, models.RelationShortlist, "dave")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))

	set, err := svc.Sets(ctx, testSession)
	require.NoError(t, err)
	assert.False(t, set.Shortlist.Has("dave"))
	assert.Empty(t, n.events())
}

func TestRelationshipService_ExcludeCascades(t *testing.T) {
	fb, svc, _ := newRelationshipFixture(t)
	fb.setRelation(models.RelationFavorites, "erin")
	fb.setRelation(models.RelationShortlist, "erin", "frank")
	ctx := context.Background()

	set, err := svc.Add(ctx, testSession, models.RelationExclusions, "erin")
	require.NoError(t, err)

	assert.True(t, set.Exclusions.Has("erin"))
	assert.False(t, set.Favorites.Has("erin"))
	assert.False(t, set.Shortlist.Has("erin"))
	assert.True(t, set.Shortlist.Has("frank"))

	assert.Empty(t, fb.relationList(models.RelationFavorites))
	assert.Equal(t, []string{"frank"}, fb.relationList(models.RelationShortlist))
	assert.Equal(t, []string{"erin"}, fb.relationList(models.RelationExclusions))
}

func TestRelationshipService_ExcludeFailureRestoresCascade(t *testing.T) {
	fb, svc, _ := newRelationshipFixture(t)
	fb.setRelation(models.RelationFavorites, "gina")
	fb.force(http.MethodPost, "/exclusions/gina", http.StatusBadGateway)
	ctx := context.Background()

	_, err := svc.Add(ctx, testSession, models.RelationExclusions, "gina")
	require.Error(t, err)

	set, err := svc.Sets(ctx, testSession)
	require.NoError(t, err)
	assert.True(t, set.Favorites.Has("gina"))
	assert.False(t, set.Exclusions.Has("gina"))
	assert.Equal(t, []string{"gina"}, fb.relationList(models.RelationFavorites))
}

func TestRelationshipService_RemoveNotFoundIsBenign(t *testing.T) {
	_, svc, n := newRelationshipFixture(t)
	ctx := context.Background()

	set, err := svc.Remove(ctx, testSession, models.RelationFavorites, "henry")
	require.NoError(t, err)
	assert.False(t, set.Favorites.Has("henry"))
	assert.Len(t, n.events(), 1)
}

func TestRelationshipService_RemoveRollsBack(t *testing.T) {
	fb, svc, _ := newRelationshipFixture(t)
	fb.setRelation(models.RelationShortlist, "ivy")
	fb.force(http.MethodDelete, "/shortlist/ivy", http.StatusInternalServerError)
	ctx := context.Background()

	_, err := svc.Remove(ctx, testSession, models.RelationShortlist, "ivy")
	require.Error(t, err)

	set, err := svc.Sets(ctx, testSession)
	require.NoError(t, err)
	assert.True(t, set.Shortlist.Has("ivy"))
}

func TestRelationshipService_Validation(t *testing.T) {
	_, svc, _ := newRelationshipFixture(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, testSession, models.RelationKind("blocked"), "x")
	assert.ErrorIs(t, err, ErrUnknownRelation)

	_, err = svc.Add(ctx, testSession, models.RelationFavorites, "viewer")
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = svc.Remove(ctx, testSession, models.RelationFavorites, " ")
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestRelationshipService_LoadFailure(t *testing.T) {
	fb, svc, _ := newRelationshipFixture(t)
	fb.force(http.MethodGet, "/exclusions/viewer", http.StatusUnauthorized)

	_, err := svc.Sets(context.Background(), testSession)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
}
