package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"matchview/models"
)

// DashboardService aggregates a viewer's activity from several backend lists
type DashboardService struct {
	backend       *BackendClient
	relationships *RelationshipService
	access        *PiiService
	presence      *PresenceService
}

func NewDashboardService(backend *BackendClient, relationships *RelationshipService, access *PiiService, presence *PresenceService) *DashboardService {
	return &DashboardService{
		backend:       backend,
		relationships: relationships,
		access:        access,
		presence:      presence,
	}
}

// Summary fetches every source concurrently; any failure fails the whole summary
func (s *DashboardService) Summary(ctx context.Context, sess models.Session) (*models.Dashboard, error) {
	d := &models.Dashboard{Username: sess.Username}
	var rels models.RelationshipSet

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rels, err = s.relationships.Sets(gctx, sess)
		return err
	})
	g.Go(func() error {
		reqs, err := s.access.Incoming(gctx, sess, models.StatusPending)
		d.PendingIncomingPii = len(reqs)
		return err
	})
	g.Go(func() error {
		reqs, err := s.access.Outgoing(gctx, sess, models.StatusPending)
		d.PendingOutgoingPii = len(reqs)
		return err
	})
	g.Go(func() error {
		grants, err := s.access.Received(gctx, sess)
		d.ActiveReceivedGrant = len(grants)
		return err
	})
	g.Go(func() error {
		saved, err := s.backend.ListSavedSearches(gctx, sess)
		d.SavedSearches = len(saved)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.Favorites = len(rels.Favorites)
	d.Shortlist = len(rels.Shortlist)
	d.Exclusions = len(rels.Exclusions)
	if s.presence != nil {
		for name := range s.presence.Online() {
			if name != sess.Username && !rels.Exclusions.Has(name) {
				d.OnlineNow++
			}
		}
	}
	return d, nil
}
