package service

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"tourism_portal_backend/internal/catalog/transport"
	"tourism_portal_backend/internal/domain"
	"tourism_portal_backend/internal/store"
	"tourism_portal_backend/platform/apperr"
	"tourism_portal_backend/platform/logger"
)

const (
	msgHomestayNotFound = "Homestay not found"

	// profileLookupConcurrency bounds the profile fetches of one guides listing.
	profileLookupConcurrency = 8
)

// Service provides the read-only public catalog.
type Service struct {
	users       store.Users
	homestays   store.Homestays
	attractions store.Attractions
	profiles    store.GuideProfiles
	log         *logger.Logger
}

// New creates a new catalog service.
func New(users store.Users, homestays store.Homestays, attractions store.Attractions, profiles store.GuideProfiles, log *logger.Logger) *Service {
	return &Service{users: users, homestays: homestays, attractions: attractions, profiles: profiles, log: log}
}

// ListHomestays returns every approved, non-deleted homestay.
func (s *Service) ListHomestays(ctx context.Context) ([]domain.Homestay, error) {
	homestays, err := s.homestays.ListVisible(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch homestays", err)
	}
	return nonNil(homestays), nil
}

// GetHomestay returns a single publicly visible homestay. Malformed ids,
// hidden and missing homestays are all reported as not found.
func (s *Service) GetHomestay(ctx context.Context, id string) (*domain.Homestay, error) {
	homestay, err := s.homestays.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
		return nil, apperr.NotFound(msgHomestayNotFound)
	}
	if err != nil {
		return nil, apperr.Internal("Failed to fetch homestay", err)
	}
	if !homestay.Visible() {
		return nil, apperr.NotFound(msgHomestayNotFound)
	}
	return homestay, nil
}

// ListAttractions returns every attraction, newest first.
func (s *Service) ListAttractions(ctx context.Context) ([]domain.Attraction, error) {
	attractions, err := s.attractions.List(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch attractions", err)
	}
	return nonNil(attractions), nil
}

// ListGuides joins every approved Local Guide with their profile. Profile
// lookups run concurrently; the result keeps the order of the guide listing.
func (s *Service) ListGuides(ctx context.Context) ([]transport.GuideCard, error) {
	guides, err := s.users.ListApprovedGuides(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch guides", err)
	}

	cards := make([]transport.GuideCard, len(guides))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(profileLookupConcurrency)
	for i, guide := range guides {
		i, guide := i, guide
		g.Go(func() error {
			profile, err := s.profiles.FindByEmail(gctx, guide.Email)
			if errors.Is(err, store.ErrNotFound) {
				profile, err = nil, nil
			}
			if err != nil {
				return err
			}
			cards[i] = transport.ToGuideCard(guide, profile)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, apperr.Internal("Failed to fetch guides", err)
	}

	s.log.Debug("public guides listed", "count", len(cards))
	return cards, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
