// Package store defines the typed, domain-level persistence interfaces every
// module depends on. Services never see MongoDB filters or driver types.
package store

import (
	"context"

	"tourism_portal_backend/internal/domain"
	"tourism_portal_backend/platform/docstore"
)

// Errors shared by every implementation.
var (
	ErrNotFound  = docstore.ErrNotFound
	ErrInvalidID = docstore.ErrInvalidID
	ErrDuplicate = docstore.ErrDuplicate
)

// Users persists marketplace accounts. Email lookups ignore case.
type Users interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByEmailAndRole(ctx context.Context, email string, role domain.Role) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindApprovedGuide resolves a selector to a user with role Local Guide
	// that has been approved.
	FindApprovedGuide(ctx context.Context, sel domain.GuideSelector) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListApprovedGuides(ctx context.Context) ([]domain.User, error)
	UpdateByEmail(ctx context.Context, email string, patch domain.UserPatch) (*domain.User, error)
	UpdateByID(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	DeleteByEmail(ctx context.Context, email string) error
}

// Homestays persists listings.
type Homestays interface {
	Create(ctx context.Context, homestay *domain.Homestay) error
	FindByID(ctx context.Context, id string) (*domain.Homestay, error)
	List(ctx context.Context) ([]domain.Homestay, error)
	ListVisible(ctx context.Context) ([]domain.Homestay, error)
	// ListByHost returns the host's homestays that are not soft deleted.
	ListByHost(ctx context.Context, hostEmail string) ([]domain.Homestay, error)
	Update(ctx context.Context, id string, patch domain.HomestayPatch) (*domain.Homestay, error)
	Delete(ctx context.Context, id string) error
}

// Attractions persists admin curated points of interest.
type Attractions interface {
	Create(ctx context.Context, attraction *domain.Attraction) error
	// List returns attractions newest first.
	List(ctx context.Context) ([]domain.Attraction, error)
	Update(ctx context.Context, id string, patch domain.AttractionPatch) (*domain.Attraction, error)
	Delete(ctx context.Context, id string) error
}

// Bookings persists homestay reservations.
type Bookings interface {
	Create(ctx context.Context, booking *domain.Booking) error
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	// ListByTourist returns the tourist's bookings newest first.
	ListByTourist(ctx context.Context, touristEmail string) ([]domain.Booking, error)
	ListByHomestays(ctx context.Context, homestayIDs []string) ([]domain.Booking, error)
	Update(ctx context.Context, id string, patch domain.BookingPatch) (*domain.Booking, error)
	Delete(ctx context.Context, id string) error
	// ExpirePending marks Pending bookings whose check-in date is before
	// the given YYYY-MM-DD date as Failed and reports how many changed.
	ExpirePending(ctx context.Context, before string) (int64, error)
}

// GuideProfiles persists the extended profile of local guides, one per email.
type GuideProfiles interface {
	FindByEmail(ctx context.Context, email string) (*domain.GuideProfile, error)
	Upsert(ctx context.Context, email string, patch domain.GuideProfilePatch) (*domain.GuideProfile, error)
	AddAvailability(ctx context.Context, email string, slot domain.AvailabilitySlot) (*domain.GuideProfile, error)
	AddPortfolioItem(ctx context.Context, email string, item domain.PortfolioItem) (*domain.GuideProfile, error)
}

// GuideHires persists tourists' requests to hire guides.
type GuideHires interface {
	Create(ctx context.Context, hire *domain.GuideHire) error
	FindByID(ctx context.Context, id string) (*domain.GuideHire, error)
	// ListByGuide returns the guide's hire requests newest first.
	ListByGuide(ctx context.Context, guideEmail string) ([]domain.GuideHire, error)
	Update(ctx context.Context, id string, patch domain.GuideHirePatch) (*domain.GuideHire, error)
}

// Store groups the collections handed to module constructors.
type Store struct {
	Users         Users
	Homestays     Homestays
	Attractions   Attractions
	Bookings      Bookings
	GuideProfiles GuideProfiles
	GuideHires    GuideHires
}
