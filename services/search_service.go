package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"matchview/models"
	"matchview/pii"
	"matchview/search"
)

// ErrSuperseded is returned when a newer search started while this one was in flight
var ErrSuperseded = errors.New("search superseded by a newer request")

// PageSizeStore persists each viewer's preferred page size
type PageSizeStore interface {
	PageSize(ctx context.Context, username string) int
	SavePageSize(ctx context.Context, username string, size int) error
}

// SearchConfig tunes buffering and filtering
type SearchConfig struct {
	FetchLimit      int
	BufferCap       int
	DefaultPageSize int
	Unparsable      search.UnparsablePolicy
}

type searchState struct {
	criteria    models.SearchCriteria
	buffer      []models.UserSummary
	serverTotal int
	serverPage  int
	exhausted   bool
	page        int
	pageSize    int
	generation  uint64
	lastUsed    time.Time
}

// SearchService holds one search session per viewer: the criteria last run,
// a capped buffer of ingested backend results and the current page. Views are
// derived from the buffer on every call so relationship and access changes
// show up without refetching.
type SearchService struct {
	backend       *BackendClient
	relationships *RelationshipService
	access        *PiiService
	presence      *PresenceService
	pageSizes     PageSizeStore
	cfg           SearchConfig
	logger        *zap.Logger
	now           func() time.Time

	mu     sync.Mutex
	states map[string]*searchState
}

func NewSearchService(
	backend *BackendClient,
	relationships *RelationshipService,
	access *PiiService,
	presence *PresenceService,
	pageSizes PageSizeStore,
	cfg SearchConfig,
	logger *zap.Logger,
) *SearchService {
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = 100
	}
	if cfg.BufferCap <= 0 {
		cfg.BufferCap = models.DefaultSearchBufferCap
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = models.DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{
		backend:       backend,
		relationships: relationships,
		access:        access,
		presence:      presence,
		pageSizes:     pageSizes,
		cfg:           cfg,
		logger:        logger,
		now:           time.Now,
		states:        make(map[string]*searchState),
	}
}

func (s *SearchService) state(ctx context.Context, username string) *searchState {
	s.mu.Lock()
	st, ok := s.states[username]
	if ok {
		st.lastUsed = s.now()
	}
	s.mu.Unlock()
	if ok {
		return st
	}

	size := s.cfg.DefaultPageSize
	if s.pageSizes != nil {
		size = s.pageSizes.PageSize(ctx, username)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[username]; ok {
		st.lastUsed = s.now()
		return st
	}
	st = &searchState{
		criteria: search.DefaultCriteria(nil, s.now()),
		page:     1,
		pageSize: size,
		lastUsed: s.now(),
	}
	s.states[username] = st
	return st
}

// Run replaces the viewer's search with criteria and returns page 1
func (s *SearchService) Run(ctx context.Context, sess models.Session, criteria models.SearchCriteria) (*models.SearchView, error) {
	if err := search.Validate(criteria); err != nil {
		return nil, err
	}
	st := s.state(ctx, sess.Username)

	s.mu.Lock()
	st.generation++
	gen := st.generation
	s.mu.Unlock()

	resp, err := s.backend.Search(ctx, sess, criteria, 1, s.cfg.FetchLimit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	s.mu.Lock()
	if st.generation != gen {
		s.mu.Unlock()
		s.logger.Debug("discarding stale search response",
			zap.String("username", sess.Username),
			zap.Uint64("generation", gen))
		return nil, ErrSuperseded
	}
	st.criteria = criteria
	st.buffer = search.Ingest(nil, resp.Users, sess.Username, s.cfg.BufferCap)
	st.serverTotal = resp.Total
	st.serverPage = 1
	st.exhausted = s.exhausted(resp, 1)
	st.page = 1
	s.mu.Unlock()

	return s.View(ctx, sess, 1)
}

// LoadMore appends the next backend page to the buffer, up to its cap, and
// returns the current page again.
func (s *SearchService) LoadMore(ctx context.Context, sess models.Session) (*models.SearchView, error) {
	st := s.state(ctx, sess.Username)

	s.mu.Lock()
	if st.exhausted || len(st.buffer) >= s.cfg.BufferCap {
		page := st.page
		s.mu.Unlock()
		return s.View(ctx, sess, page)
	}
	gen := st.generation
	next := st.serverPage + 1
	criteria := st.criteria
	s.mu.Unlock()

	resp, err := s.backend.Search(ctx, sess, criteria, next, s.cfg.FetchLimit)
	if err != nil {
		return nil, fmt.Errorf("load more: %w", err)
	}

	s.mu.Lock()
	if st.generation != gen || st.serverPage+1 != next {
		s.mu.Unlock()
		return nil, ErrSuperseded
	}
	st.buffer = search.Ingest(st.buffer, resp.Users, sess.Username, s.cfg.BufferCap)
	st.serverTotal = resp.Total
	st.serverPage = next
	st.exhausted = s.exhausted(resp, next)
	page := st.page
	s.mu.Unlock()

	return s.View(ctx, sess, page)
}

func (s *SearchService) exhausted(resp *models.SearchResponse, page int) bool {
	if len(resp.Users) < s.cfg.FetchLimit {
		return true
	}
	return resp.TotalPages > 0 && page >= resp.TotalPages
}

// View filters the buffer against current criteria and the viewer's exclusions
// and returns the requested page. Out-of-range pages are clamped.
func (s *SearchService) View(ctx context.Context, sess models.Session, page int) (*models.SearchView, error) {
	st := s.state(ctx, sess.Username)

	s.mu.Lock()
	buffer := st.buffer
	criteria := st.criteria
	pageSize := st.pageSize
	gen := st.generation
	serverTotal := st.serverTotal
	canLoadMore := !st.exhausted && len(st.buffer) < s.cfg.BufferCap && st.serverPage > 0
	s.mu.Unlock()

	rels, err := s.relationships.Sets(ctx, sess)
	if err != nil {
		return nil, err
	}
	var access pii.AccessMap
	if s.access != nil {
		if access, err = s.access.Access(ctx, sess); err != nil {
			return nil, err
		}
	}
	filtered := search.FilterResults(buffer, criteria, rels.Exclusions, search.Options{
		Now:        s.now(),
		Unparsable: s.cfg.Unparsable,
	})
	totalPages := search.TotalPages(len(filtered), pageSize)
	page = search.ClampPage(page, totalPages)

	pageUsers := search.Paginate(filtered, page, pageSize)
	results := make([]models.SearchResult, 0, len(pageUsers))
	for _, u := range pageUsers {
		results = append(results, models.SearchResult{
			UserSummary:   pii.MaskContact(u, sess.Username, access),
			IsFavorited:   rels.Favorites.Has(u.Username),
			IsShortlisted: rels.Shortlist.Has(u.Username),
			IsOnline:      s.presence.IsOnline(u.Username),
			ContactAccess: access.Get(u.Username, models.PiiTypeContactInfo).String(),
			ImageAccess:   access.Get(u.Username, models.PiiTypeImages).String(),
		})
	}

	s.mu.Lock()
	if st.generation == gen {
		st.page = page
	}
	s.mu.Unlock()

	return &models.SearchView{
		Results:      results,
		Criteria:     criteria,
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   totalPages,
		TotalResults: len(filtered),
		ServerTotal:  serverTotal,
		Buffered:     len(buffer),
		CanLoadMore:  canLoadMore,
		Generation:   gen,
	}, nil
}

// SetPageSize changes the page size and always returns to page 1
func (s *SearchService) SetPageSize(ctx context.Context, sess models.Session, size int) (*models.SearchView, error) {
	if err := validPageSize(size); err != nil {
		return nil, err
	}
	st := s.state(ctx, sess.Username)

	s.mu.Lock()
	st.pageSize = size
	st.page = 1
	s.mu.Unlock()

	if s.pageSizes != nil {
		if err := s.pageSizes.SavePageSize(ctx, sess.Username, size); err != nil {
			s.logger.Warn("failed to persist page size", zap.String("username", sess.Username), zap.Error(err))
		}
	}
	return s.View(ctx, sess, 1)
}

// Clear resets criteria to defaults and empties the buffer. Any search still in
// flight is discarded when it returns.
func (s *SearchService) Clear(ctx context.Context, sess models.Session) models.SearchCriteria {
	st := s.state(ctx, sess.Username)

	s.mu.Lock()
	defer s.mu.Unlock()
	st.generation++
	st.criteria = search.DefaultCriteria(nil, s.now())
	st.buffer = nil
	st.serverTotal = 0
	st.serverPage = 0
	st.exhausted = false
	st.page = 1
	return st.criteria
}

// Criteria returns the criteria of the viewer's current search
func (s *SearchService) Criteria(ctx context.Context, sess models.Session) models.SearchCriteria {
	st := s.state(ctx, sess.Username)
	s.mu.Lock()
	defer s.mu.Unlock()
	return st.criteria
}

// Defaults returns starting criteria biased by the viewer's own profile
func (s *SearchService) Defaults(ctx context.Context, sess models.Session) (models.SearchCriteria, error) {
	profile, err := s.backend.GetProfile(ctx, sess, sess.Username)
	if err != nil {
		if IsNotFound(err) {
			return search.DefaultCriteria(nil, s.now()), nil
		}
		return models.SearchCriteria{}, err
	}
	return search.DefaultCriteria(profile, s.now()), nil
}

// Forget drops the viewer's search session
func (s *SearchService) Forget(username string) {
	s.mu.Lock()
	delete(s.states, username)
	s.mu.Unlock()
}

// Evict drops search sessions not touched since cutoff
func (s *SearchService) Evict(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for username, st := range s.states {
		if st.lastUsed.Before(cutoff) {
			delete(s.states, username)
			n++
		}
	}
	return n
}
