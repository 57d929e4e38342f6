// Package storetest provides an in-memory store.Store with the same observable
// semantics as the MongoDB implementation. It is used by service and HTTP tests.
package storetest

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"tourism_portal_backend/internal/domain"
	"tourism_portal_backend/internal/store"
	"tourism_portal_backend/platform/docstore"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// New returns a Store whose collections live in memory.
func New() *store.Store {
	clk := &clock{base: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	return &store.Store{
		Users:         &users{t: newTable(cloneUser, clk)},
		Homestays:     &homestays{t: newTable(cloneHomestay, clk)},
		Attractions:   &attractions{t: newTable(cloneAttraction, clk)},
		Bookings:      &bookings{t: newTable(cloneBooking, clk)},
		GuideProfiles: &guideProfiles{t: newTable(cloneGuideProfile, clk)},
		GuideHires:    &guideHires{t: newTable(cloneGuideHire, clk)},
	}
}

// clock hands out strictly increasing timestamps so newest-first ordering
// is deterministic even for writes in the same instant.
type clock struct {
	mu   sync.Mutex
	base time.Time
	n    int64
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return c.base.Add(time.Duration(c.n) * time.Millisecond)
}

type stamped interface {
	Stamp(now time.Time)
}

// table is a mutex guarded, insertion ordered map of documents.
type table[T any] struct {
	mu    sync.RWMutex
	order []primitive.ObjectID
	rows  map[primitive.ObjectID]*T
	clone func(T) T
	clk   *clock
}

func newTable[T any](clone func(T) T, clk *clock) *table[T] {
	return &table[T]{rows: make(map[primitive.ObjectID]*T), clone: clone, clk: clk}
}

func (t *table[T]) insert(doc *T, id func(*T) primitive.ObjectID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	any(doc).(stamped).Stamp(t.clk.now())
	stored := t.clone(*doc)
	key := id(&stored)
	t.rows[key] = &stored
	t.order = append(t.order, key)
}

func (t *table[T]) get(id string) (*T, error) {
	oid, err := docstore.ParseID(id)
	if err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[oid]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := t.clone(*row)
	return &out, nil
}

// find returns copies of every row accepted by match, in insertion order.
func (t *table[T]) find(match func(*T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0)
	for _, key := range t.order {
		row := t.rows[key]
		if match == nil || match(row) {
			out = append(out, t.clone(*row))
		}
	}
	return out
}

func (t *table[T]) first(match func(*T) bool) (*T, error) {
	rows := t.find(match)
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	return &rows[0], nil
}

// mutate applies fn to the first row accepted by match and returns a copy of
// the result with a fresh updatedAt.
func (t *table[T]) mutate(match func(*T) bool, fn func(*T)) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, key := range t.order {
		row := t.rows[key]
		if !match(row) {
			continue
		}
		fn(row)
		any(row).(stamped).Stamp(t.clk.now())
		out := t.clone(*row)
		return &out, nil
	}
	return nil, store.ErrNotFound
}

func (t *table[T]) remove(match func(*T) bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, key := range t.order {
		if match(t.rows[key]) {
			delete(t.rows, key)
			t.order = append(t.order[:i], t.order[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func byID[T any](id primitive.ObjectID, idOf func(*T) primitive.ObjectID) func(*T) bool {
	return func(row *T) bool { return idOf(row) == id }
}

func newestFirst[T any](rows []T, createdAt func(*T) time.Time) []T {
	sort.SliceStable(rows, func(i, j int) bool {
		return createdAt(&rows[i]).After(createdAt(&rows[j]))
	})
	return rows
}

// =============================================================================
// Users
// =============================================================================

type users struct {
	t *table[domain.User]
}

func userID(u *domain.User) primitive.ObjectID { return u.ID }

func (s *users) Create(_ context.Context, user *domain.User) error {
	if _, err := s.t.first(func(u *domain.User) bool { return strings.EqualFold(u.Email, user.Email) }); err == nil {
		return store.ErrDuplicate
	}
	s.t.insert(user, userID)
	return nil
}

func (s *users) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return s.t.first(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (s *users) FindByEmailAndRole(_ context.Context, email string, role domain.Role) (*domain.User, error) {
	return s.t.first(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) && u.Role == role })
}

func (s *users) FindByID(_ context.Context, id string) (*domain.User, error) {
	return s.t.get(id)
}

func (s *users) FindApprovedGuide(_ context.Context, sel domain.GuideSelector) (*domain.User, error) {
	return s.t.first(func(u *domain.User) bool {
		if u.Role != domain.RoleLocalGuide || !u.Approved {
			return false
		}
		switch v := sel.(type) {
		case domain.GuideByID:
			return u.ID == v.ID
		case domain.GuideByEmail:
			return strings.EqualFold(u.Email, v.Email)
		default:
			return false
		}
	})
}

func (s *users) List(_ context.Context) ([]domain.User, error) {
	return s.t.find(nil), nil
}

func (s *users) ListApprovedGuides(_ context.Context) ([]domain.User, error) {
	return s.t.find(func(u *domain.User) bool { return u.Role == domain.RoleLocalGuide && u.Approved }), nil
}

func (s *users) UpdateByEmail(_ context.Context, email string, patch domain.UserPatch) (*domain.User, error) {
	return s.t.mutate(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) }, applyUserPatch(patch))
}

func (s *users) UpdateByID(_ context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	oid, err := docstore.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.t.mutate(byID(oid, userID), applyUserPatch(patch))
}

func (s *users) DeleteByEmail(_ context.Context, email string) error {
	return s.t.remove(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func applyUserPatch(p domain.UserPatch) func(*domain.User) {
	return func(u *domain.User) {
		if p.Name != nil {
			u.Name = *p.Name
		}
		if p.Mobile != nil {
			u.Mobile = *p.Mobile
		}
		if p.ProfileImage != nil {
			u.ProfileImage = *p.ProfileImage
		}
		if p.Role != nil {
			u.Role = *p.Role
		}
		if p.Approved != nil {
			u.Approved = *p.Approved
		}
	}
}

func cloneUser(u domain.User) domain.User { return u }

// =============================================================================
// Homestays
// =============================================================================

type homestays struct {
	t *table[domain.Homestay]
}

func homestayID(h *domain.Homestay) primitive.ObjectID { return h.ID }

func (s *homestays) Create(_ context.Context, homestay *domain.Homestay) error {
	s.t.insert(homestay, homestayID)
	return nil
}

func (s *homestays) FindByID(_ context.Context, id string) (*domain.Homestay, error) {
	return s.t.get(id)
}

func (s *homestays) List(_ context.Context) ([]domain.Homestay, error) {
	return s.t.find(nil), nil
}

func (s *homestays) ListVisible(_ context.Context) ([]domain.Homestay, error) {
	return s.t.find(func(h *domain.Homestay) bool { return h.Visible() }), nil
}

func (s *homestays) ListByHost(_ context.Context, hostEmail string) ([]domain.Homestay, error) {
	return s.t.find(func(h *domain.Homestay) bool { return h.HostEmail == hostEmail && !h.IsDeleted }), nil
}

func (s *homestays) Update(_ context.Context, id string, p domain.HomestayPatch) (*domain.Homestay, error) {
	oid, err := docstore.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.t.mutate(byID(oid, homestayID), func(h *domain.Homestay) {
		if p.Title != nil {
			h.Title = *p.Title
		}
		if p.Location != nil {
			h.Location = *p.Location
		}
		if p.Price != nil {
			h.Price = *p.Price
		}
		if p.Description != nil {
			h.Description = *p.Description
		}
		if p.Amenities != nil {
			h.Amenities = slices.Clone(*p.Amenities)
		}
		if p.Image != nil {
			h.Image = *p.Image
		}
		if p.UpiQrImage != nil {
			h.UpiQrImage = *p.UpiQrImage
		}
		if p.HostEmail != nil {
			h.HostEmail = *p.HostEmail
		}
		if p.Approved != nil {
			h.Approved = *p.Approved
		}
		if p.IsDeleted != nil {
			h.IsDeleted = *p.IsDeleted
		}
	})
}

func (s *homestays) Delete(_ context.Context, id string) error {
	oid, err := docstore.ParseID(id)
	if err != nil {
		return err
	}
	return s.t.remove(byID(oid, homestayID))
}

func cloneHomestay(h domain.Homestay) domain.Homestay {
	h.Amenities = slices.Clone(h.Amenities)
	return h
}

// =============================================================================
// Attractions
// =============================================================================

type attractions struct {
	t *table[domain.Attraction]
}

func attractionID(a *domain.Attraction) primitive.ObjectID { return a.ID }

func (s *attractions) Create(_ context.Context, attraction *domain.Attraction) error {
	s.t.insert(attraction, attractionID)
	return nil
}

func (s *attractions) List(_ context.Context) ([]domain.Attraction, error) {
	return newestFirst(s.t.find(nil), func(a *domain.Attraction) time.Time { return a.CreatedAt }), nil
}

func (s *attractions) Update(_ context.Context, id string, p domain.AttractionPatch) (*domain.Attraction, error) {
	oid, err := docstore.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.t.mutate(byID(oid, attractionID), func(a *domain.Attraction) {
		if p.Name != nil {
			a.Name = *p.Name
		}
		if p.Location != nil {
			a.Location = *p.Location
		}
		if p.Description != nil {
			a.Description = *p.Description
		}
		if p.Image != nil {
			a.Image = *p.Image
		}
	})
}

func (s *attractions) Delete(_ context.Context, id string) error {
	oid, err := docstore.ParseID(id)
	if err != nil {
		return err
	}
	return s.t.remove(byID(oid, attractionID))
}

func cloneAttraction(a domain.Attraction) domain.Attraction { return a }

// =============================================================================
// Bookings
// =============================================================================

type bookings struct {
	t *table[domain.Booking]
}

func bookingID(b *domain.Booking) primitive.ObjectID { return b.ID }

func bookingCreated(b *domain.Booking) time.Time { return b.CreatedAt }

func (s *bookings) Create(_ context.Context, booking *domain.Booking) error {
	s.t.insert(booking, bookingID)
	return nil
}

func (s *bookings) FindByID(_ context.Context, id string) (*domain.Booking, error) {
	return s.t.get(id)
}

func (s *bookings) List(_ context.Context) ([]domain.Booking, error) {
	return newestFirst(s.t.find(nil), bookingCreated), nil
}

func (s *bookings) ListByTourist(_ context.Context, touristEmail string) ([]domain.Booking, error) {
	rows := s.t.find(func(b *domain.Booking) bool { return strings.EqualFold(b.TouristEmail, touristEmail) })
	return newestFirst(rows, bookingCreated), nil
}

func (s *bookings) ListByHomestays(_ context.Context, homestayIDs []string) ([]domain.Booking, error) {
	wanted := make(map[primitive.ObjectID]struct{}, len(homestayIDs))
	for _, id := range homestayIDs {
		oid, err := docstore.ParseID(id)
		if err != nil {
			return nil, err
		}
		wanted[oid] = struct{}{}
	}
	rows := s.t.find(func(b *domain.Booking) bool {
		_, ok := wanted[b.HomestayID]
		return ok
	})
	return newestFirst(rows, bookingCreated), nil
}

func (s *bookings) Update(_ context.Context, id string, p domain.BookingPatch) (*domain.Booking, error) {
	oid, err := docstore.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.t.mutate(byID(oid, bookingID), func(b *domain.Booking) {
		if p.Status != nil {
			b.Status = *p.Status
		}
		if p.PaymentStatus != nil {
			b.PaymentStatus = *p.PaymentStatus
		}
	})
}

func (s *bookings) Delete(_ context.Context, id string) error {
	oid, err := docstore.ParseID(id)
	if err != nil {
		return err
	}
	return s.t.remove(byID(oid, bookingID))
}

func (s *bookings) ExpirePending(_ context.Context, before string) (int64, error) {
	var expired int64
	for {
		_, err := s.t.mutate(func(b *domain.Booking) bool {
			return b.Status == domain.BookingPending && b.CheckinDate < before
		}, func(b *domain.Booking) {
			b.Status = domain.BookingFailed
		})
		if err != nil {
			return expired, nil
		}
		expired++
	}
}

func cloneBooking(b domain.Booking) domain.Booking { return b }

// =============================================================================
// Guide profiles
// =============================================================================

type guideProfiles struct {
	t *table[domain.GuideProfile]
}

func profileID(p *domain.GuideProfile) primitive.ObjectID { return p.ID }

func (s *guideProfiles) FindByEmail(_ context.Context, email string) (*domain.GuideProfile, error) {
	return s.t.first(func(p *domain.GuideProfile) bool { return p.Email == email })
}

// upsert applies fn to the profile for email, creating it first when absent.
func (s *guideProfiles) upsert(email string, fn func(*domain.GuideProfile)) (*domain.GuideProfile, error) {
	match := func(p *domain.GuideProfile) bool { return p.Email == email }
	if _, err := s.t.first(match); err != nil {
		s.t.insert(&domain.GuideProfile{Email: email}, profileID)
	}
	return s.t.mutate(match, fn)
}

func (s *guideProfiles) Upsert(_ context.Context, email string, p domain.GuideProfilePatch) (*domain.GuideProfile, error) {
	return s.upsert(email, func(g *domain.GuideProfile) {
		if p.Bio != nil {
			g.Bio = *p.Bio
		}
		if p.Location != nil {
			g.Location = *p.Location
		}
		if p.Languages != nil {
			g.Languages = slices.Clone(*p.Languages)
		}
		if p.Expertise != nil {
			g.Expertise = slices.Clone(*p.Expertise)
		}
		if p.BasePrice != nil {
			g.BasePrice = *p.BasePrice
		}
	})
}

func (s *guideProfiles) AddAvailability(_ context.Context, email string, slot domain.AvailabilitySlot) (*domain.GuideProfile, error) {
	return s.upsert(email, func(g *domain.GuideProfile) {
		g.Availability = append(g.Availability, slot)
	})
}

func (s *guideProfiles) AddPortfolioItem(_ context.Context, email string, item domain.PortfolioItem) (*domain.GuideProfile, error) {
	return s.upsert(email, func(g *domain.GuideProfile) {
		g.Portfolio = append(g.Portfolio, item)
	})
}

func cloneGuideProfile(p domain.GuideProfile) domain.GuideProfile {
	p.Languages = slices.Clone(p.Languages)
	p.Expertise = slices.Clone(p.Expertise)
	p.Availability = slices.Clone(p.Availability)
	p.Portfolio = slices.Clone(p.Portfolio)
	return p
}

// =============================================================================
// Guide hires
// =============================================================================

type guideHires struct {
	t *table[domain.GuideHire]
}

func hireID(h *domain.GuideHire) primitive.ObjectID { return h.ID }

func (s *guideHires) Create(_ context.Context, hire *domain.GuideHire) error {
	s.t.insert(hire, hireID)
	return nil
}

func (s *guideHires) FindByID(_ context.Context, id string) (*domain.GuideHire, error) {
	return s.t.get(id)
}

func (s *guideHires) ListByGuide(_ context.Context, guideEmail string) ([]domain.GuideHire, error) {
	rows := s.t.find(func(h *domain.GuideHire) bool { return h.GuideEmail == guideEmail })
	return newestFirst(rows, func(h *domain.GuideHire) time.Time { return h.CreatedAt }), nil
}

func (s *guideHires) Update(_ context.Context, id string, p domain.GuideHirePatch) (*domain.GuideHire, error) {
	oid, err := docstore.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.t.mutate(byID(oid, hireID), func(h *domain.GuideHire) {
		if p.Status != nil {
			h.Status = *p.Status
		}
		if p.AgreedPrice != nil {
			h.AgreedPrice = *p.AgreedPrice
		}
	})
}

func cloneGuideHire(h domain.GuideHire) domain.GuideHire { return h }
