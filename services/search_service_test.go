package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"matchview/models"
	"matchview/pii"
	"matchview/search"
)

type memoryPageSizes struct {
	mu    sync.Mutex
	sizes map[string]int
}

func (m *memoryPageSizes) PageSize(_ context.Context, username string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.sizes[username]; ok {
		return n
	}
	return models.DefaultPageSize
}

func (m *memoryPageSizes) SavePageSize(_ context.Context, username string, size int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sizes[username] = size
	return nil
}

func makeUsers(prefix string, n int) []models.UserSummary {
	users := make([]models.UserSummary, n)
	for i := range users {
		users[i] = models.UserSummary{
			Username:  fmt.Sprintf("%s%02d", prefix, i),
			FirstName: "User",
			DOB:       "1995-01-01",
			Height:    `5'8"`,
		}
	}
	return users
}

type searchFixture struct {
	fb       *fakeBackend
	svc      *SearchService
	rels     *RelationshipService
	access   *PiiService
	presence *PresenceService
	sizes    *memoryPageSizes
}

func newSearchFixture(t *testing.T, cfg SearchConfig) *searchFixture {
	t.Helper()
	fb := newFakeBackend(t)
	client := fb.client()
	rels := NewRelationshipService(client, nil, zap.NewNop())
	access := NewPiiService(client, nil, zap.NewNop())
	presence := NewPresenceService(client, testSession, time.Minute, zap.NewNop())
	sizes := &memoryPageSizes{sizes: map[string]int{}}
	svc := NewSearchService(client, rels, access, presence, sizes, cfg, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	return &searchFixture{fb: fb, svc: svc, rels: rels, access: access, presence: presence, sizes: sizes}
}

func resultNames(v *models.SearchView) []string {
	out := make([]string, len(v.Results))
	for i, r := range v.Results {
		out[i] = r.Username
	}
	return out
}

func TestSearchService_RunIngestsAndPaginates(t *testing.T) {
	f := newSearchFixture(t, SearchConfig{FetchLimit: 50})
	users := makeUsers("u", 45)
	users = append(users,
		models.UserSummary{Username: "viewer"},
		models.UserSummary{Username: "mod", Role: "Moderator"},
		models.UserSummary{Username: "u00"},
	)
	f.fb.update(func(fb *fakeBackend) {
		fb.searchPages[1] = users
		fb.searchTotal = 48
	})
	ctx := context.Background()

	view, err := f.svc.Run(ctx, testSession, models.SearchCriteria{})
	require.NoError(t, err)
	assert.Equal(t, 45, view.TotalResults)
	assert.Equal(t, 48, view.ServerTotal)
	assert.Equal(t, 3, view.TotalPages)
	assert.Equal(t, 45, view.Buffered)
	assert.False(t, view.CanLoadMore)

	page2, err := f.svc.View(ctx, testSession, 2)
	require.NoError(t, err)
	require.Len(t, page2.Results, 20)
	assert.Equal(t, "u20", page2.Results[0].Username)
	assert.Equal(t, "u39", page2.Results[19].Username)

	clamped, err := f.svc.View(ctx, testSession, 99)
	require.NoError(t, err)
	assert.Equal(t, 3, clamped.Page)
	assert.Len(t, clamped.Results, 5)
}

func TestSearchService_InvalidCriteria(t *testing.T) {
	f := newSearchFixture(t, SearchConfig{})
	_, err := f.svc.Run(context.Background(), testSession, models.SearchCriteria{AgeMin: 40, AgeMax: 30})
	assert.ErrorIs(t, err, search.ErrInvalidCriteria)
	assert.Empty(t, f.fb.callLog())
}

func TestSearchService_ExclusionsAndAnnotations(t *testing.T) {
	f := newSearchFixture(t, SearchConfig{})
	f.fb.update(func(fb *fakeBackend) {
		fb.searchPages[1] = []models.UserSummary{
			{Username: "alice", ContactEmail: "alice@example.com"},
			{Username: "bob", ContactEmail: "bob@example.com"},
			{Username: "carol", ContactEmail: "carol@example.com"},
		}
		fb.online = []string{"bob"}
		fb.received = []models.ReceivedAccess{
			{UserProfile: models.ProfileRef{Username: "bob"}, AccessTypes: []string{models.PiiTypeContactInfo}},
		}
		fb.outgoing = []models.PiiRequest{
			{ProfileUsername: "alice", RequestType: models.PiiTypeImages, Status: models.StatusPending},
		}
	})
	f.fb.setRelation(models.RelationExclusions, "carol")
	f.fb.setRelation(models.RelationFavorites, "alice")
	ctx := context.Background()
	require.NoError(t, f.presence.Refresh(ctx))

	view, err := f.svc.Run(ctx, testSession, models.SearchCriteria{})
	require.NoError(t, err)
	require.Equal(t, []string{"alice", "bob"}, resultNames(view))

	alice, bob := view.Results[0], view.Results[1]
	assert.True(t, alice.IsFavorited)
	assert.False(t, alice.IsOnline)
	assert.Equal(t, "a***@example.com", alice.ContactEmail)
	assert.Equal(t, pii.Pending.String(), alice.ImageAccess)

	assert.True(t, bob.IsOnline)
	assert.Equal(t, "bob@example.com", bob.ContactEmail)
	assert.Equal(t, pii.Approved.String(), bob.ContactAccess)

	// excluding later hides without refetching
	_, err = f.rels.Add(ctx, testSession, models.RelationExclusions, "bob")
	require.NoError(t, err)
	view, err = f.svc.View(ctx, testSession, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, resultNames(view))
	assert.Equal(t, 1, f.fb.countCalls("GET /search"))
}

func TestSearchService_ClientFilters(t *testing.T) {
	f := newSearchFixture(t, SearchConfig{})
	f.fb.update(func(fb *fakeBackend) {
		fb.searchPages[1] = []models.UserSummary{
			{Username: "young", DOB: "2000-06-16", Height: `5'4"`},
			{Username: "exact", DOB: "1994-06-15", Height: `5'8"`},
			{Username: "nodob", Height: `5'8"`},
		}
	})
	view, err := f.svc.Run(context.Background(), testSession, models.SearchCriteria{AgeMin: 25, AgeMax: 30, HeightMin: 66})
	require.NoError(t, err)
	assert.Equal(t, []string{"exact"}, resultNames(view))
	assert.Equal(t, 1, view.TotalResults)
}

func TestSearchService_LoadMoreRespectsCap(t *testing.T) {
	f := newSearchFixture(t, SearchConfig{FetchLimit: 10, BufferCap: 25})
	f.fb.update(func(fb *fakeBackend) {
		fb.searchPages[1] = makeUsers("a", 10)
		fb.searchPages[2] = makeUsers("b", 10)
		fb.searchPages[3] = makeUsers("c", 10)
		fb.searchPages[4] = makeUsers("d", 10)
	})
	ctx := context.Background()

	view, err := f.svc.Run(ctx, testSession, models.SearchCriteria{})
	require.NoError(t, err)
	assert.True(t, view.CanLoadMore)

	view, err = f.svc.LoadMore(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, 20, view.Buffered)

	view, err = f.svc.LoadMore(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, 25, view.Buffered)
	assert.False(t, view.CanLoadMore)

	_, err = f.svc.LoadMore(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, 3, f.fb.countCalls("GET /search"), "full buffer does not fetch")
}

func TestSearchService_SetPageSizeResetsPage(t *testing.T) {
	f := newSearchFixture(t, SearchConfig{})
	f.fb.update(func(fb *fakeBackend) { fb.searchPages[1] = makeUsers("u", 45) })
	ctx := context.Background()

	_, err := f.svc.Run(ctx, testSession, models.SearchCriteria{})
	require.NoError(t, err)
	view, err := f.svc.View(ctx, testSession, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Page)

	view, err = f.svc.SetPageSize(ctx, testSession, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 5, view.TotalPages)
	assert.Equal(t, 10, f.sizes.PageSize(ctx, "viewer"))

	_, err = f.svc.SetPageSize(ctx, testSession, 0)
	assert.ErrorIs(t, err, ErrInvalidPreferences)
}

func TestSearchService_StaleResponseDiscarded(t *testing.T) {
	f := newSearchFixture(t, SearchConfig{})
	gate := make(chan struct{})
	f.fb.update(func(fb *fakeBackend) {
		fb.searchPages[1] = makeUsers("u", 3)
		fb.searchGate = gate
	})
	ctx := context.Background()

	errc := make(chan error, 1)
	go func() {
		_, err := f.svc.Run(ctx, testSession, models.SearchCriteria{Keyword: "old"})
		errc <- err
	}()

	require.Eventually(t, func() bool { return f.fb.countCalls("GET /search") == 1 }, time.Second, 5*time.Millisecond)
	cleared := f.svc.Clear(ctx, testSession)
	assert.Equal(t, "newest", cleared.SortBy)
	close(gate)

	err := <-errc
	assert.True(t, errors.Is(err, ErrSuperseded))
	assert.Empty(t, f.svc.Criteria(ctx, testSession).Keyword)

	view, err := f.svc.View(ctx, testSession, 1)
	require.NoError(t, err)
	assert.Zero(t, view.Buffered)
}

func TestSearchService_Defaults(t *testing.T) {
	f := newSearchFixture(t, SearchConfig{})
	ctx := context.Background()

	c, err := f.svc.Defaults(ctx, testSession)
	require.NoError(t, err)
	assert.Empty(t, c.Gender, "missing profile falls back to neutral defaults")

	f.fb.update(func(fb *fakeBackend) {
		fb.profiles["viewer"] = models.UserSummary{Username: "viewer", Sex: "Male", DOB: "1990-01-01", Height: `5'10"`}
	})
	c, err = f.svc.Defaults(ctx, testSession)
	require.NoError(t, err)
	assert.Equal(t, "Female", c.Gender)
	assert.Equal(t, 29, c.AgeMin)
	assert.Equal(t, 39, c.AgeMax)
	assert.Equal(t, 64, c.HeightMin)
	assert.Equal(t, 76, c.HeightMax)
}
