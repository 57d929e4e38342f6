// Package service implements the administrator's moderation operations over
// users, homestays, attractions and bookings.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tourism_portal_backend/internal/domain"
	"tourism_portal_backend/internal/events"
	"tourism_portal_backend/internal/moderation/transport"
	"tourism_portal_backend/internal/store"
	"tourism_portal_backend/platform/apperr"
	"tourism_portal_backend/platform/logger"
	"tourism_portal_backend/platform/phone"
	"tourism_portal_backend/platform/upiqr"

	"golang.org/x/sync/errgroup"
)

const (
	msgUserNotFound       = "User not found"
	msgGuideNotFound      = "Guide not found"
	msgNotALocalGuide     = "User is not a Local Guide"
	msgInvalidRole        = "Invalid role"
	msgHomestayNotFound   = "Homestay not found"
	msgAttractionNotFound = "Attraction not found"
	msgBookingNotFound    = "Booking not found"
	msgInvalidStatus      = "Invalid booking status"
	msgInvalidID          = "Invalid id"
	msgQrRequired         = "upiQrImage or upiId is required"
	msgInvalidUpiID       = "Invalid UPI id"
)

type Service struct {
	users       store.Users
	homestays   store.Homestays
	attractions store.Attractions
	bookings    store.Bookings
	eventBus    events.Bus
	log         *logger.Logger
}

func New(st *store.Store, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		users:       st.Users,
		homestays:   st.Homestays,
		attractions: st.Attractions,
		bookings:    st.Bookings,
		eventBus:    eventBus,
		log:         log,
	}
}

// =============================================================================
// Users
// =============================================================================

// ListUsers returns every account keyed by email.
func (s *Service) ListUsers(ctx context.Context) (map[string]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to load users", err)
	}
	byEmail := make(map[string]domain.User, len(users))
	for _, u := range users {
		byEmail[u.Email] = u
	}
	return byEmail, nil
}

func (s *Service) DeleteUser(ctx context.Context, email string) (transport.DeleteUserResponse, error) {
	err := s.users.DeleteByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return transport.DeleteUserResponse{}, apperr.NotFound(fmt.Sprintf("User with email %s not found", email))
	}
	if err != nil {
		return transport.DeleteUserResponse{}, apperr.Internal("Server error deleting user", err)
	}

	s.log.Info("user deleted", "email", email)
	return transport.DeleteUserResponse{Message: fmt.Sprintf("User %s deleted successfully", email), DeletedCount: 1}, nil
}

func (s *Service) UpdateUser(ctx context.Context, email string, req transport.UpdateUserRequest) (*domain.User, error) {
	patch := domain.UserPatch{Name: req.Name, ProfileImage: req.ProfileImage, Approved: req.Approved}
	if req.Mobile != nil {
		mobile := phone.NormalizeE164(*req.Mobile)
		patch.Mobile = &mobile
	}
	if req.Role != nil {
		role, ok := domain.ParseRole(*req.Role)
		if !ok || !role.Storable() {
			return nil, apperr.BadRequest(msgInvalidRole)
		}
		patch.Role = &role
	}

	user, err := s.users.UpdateByEmail(ctx, email, patch)
	if err != nil {
		return nil, mapStoreError(err, msgUserNotFound, "Failed to update user")
	}

	if req.Approved != nil {
		s.publishApproval(ctx, user)
	}
	s.log.Info("user updated by admin", "email", user.Email)
	return user, nil
}

// ApproveGuide approves a Local Guide by email.
func (s *Service) ApproveGuide(ctx context.Context, email string) (transport.GuideResponse, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return transport.GuideResponse{}, mapStoreError(err, msgGuideNotFound, "Failed to approve guide")
	}
	if user.Role != domain.RoleLocalGuide {
		return transport.GuideResponse{}, apperr.BadRequest(msgNotALocalGuide)
	}

	approved := true
	user, err = s.users.UpdateByID(ctx, user.ID.Hex(), domain.UserPatch{Approved: &approved})
	if err != nil {
		return transport.GuideResponse{}, mapStoreError(err, msgGuideNotFound, "Failed to approve guide")
	}

	s.log.Info("guide approved", "email", user.Email)
	s.publishApproval(ctx, user)
	return transport.GuideResponse{Message: "Local Guide approved successfully", Guide: *user}, nil
}

// RejectGuide withdraws a guide's approval by user id.
func (s *Service) RejectGuide(ctx context.Context, id string) (transport.MessageResponse, error) {
	approved := false
	user, err := s.users.UpdateByID(ctx, id, domain.UserPatch{Approved: &approved})
	if err != nil {
		return transport.MessageResponse{}, mapStoreError(err, msgGuideNotFound, "Failed to reject guide")
	}

	s.log.Info("guide rejected", "email", user.Email)
	s.publishApproval(ctx, user)
	return transport.MessageResponse{Message: "Local Guide rejected successfully"}, nil
}

func (s *Service) publishApproval(ctx context.Context, user *domain.User) {
	s.publish(ctx, events.UserApprovalChanged{
		BaseEvent: events.NewBaseEvent(),
		Email:     user.Email,
		Role:      string(user.Role),
		Approved:  user.Approved,
	})
}

// =============================================================================
// Homestays
// =============================================================================

func (s *Service) ListHomestays(ctx context.Context) ([]domain.Homestay, error) {
	homestays, err := s.homestays.List(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to load homestays", err)
	}
	return homestays, nil
}

// CreateHomestay inserts an admin-owned listing. It stays hidden unless
// the request approves it explicitly.
func (s *Service) CreateHomestay(ctx context.Context, req transport.CreateHomestayRequest) (*domain.Homestay, error) {
	homestay := &domain.Homestay{
		Title:       strings.TrimSpace(req.Title),
		Location:    strings.TrimSpace(req.Location),
		Price:       req.Price,
		Description: req.Description,
		Amenities:   req.Amenities,
		Image:       req.Image,
		UpiQrImage:  req.UpiQrImage,
		Approved:    req.Approved != nil && *req.Approved,
	}
	if homestay.Amenities == nil {
		homestay.Amenities = []string{}
	}
	if err := s.homestays.Create(ctx, homestay); err != nil {
		return nil, apperr.Internal("Failed to create homestay", err)
	}

	s.log.Info("homestay created by admin", "homestay_id", homestay.ID.Hex(), "approved", homestay.Approved)
	return homestay, nil
}

func (s *Service) UpdateHomestay(ctx context.Context, id string, req transport.UpdateHomestayRequest) (*domain.Homestay, error) {
	patch := domain.HomestayPatch{
		Title:       req.Title,
		Location:    req.Location,
		Price:       req.Price,
		Description: req.Description,
		Amenities:   req.Amenities,
		Image:       req.Image,
		UpiQrImage:  req.UpiQrImage,
		HostEmail:   req.HostEmail,
		Approved:    req.Approved,
		IsDeleted:   req.IsDeleted,
	}
	homestay, err := s.homestays.Update(ctx, id, patch)
	if err != nil {
		return nil, mapStoreError(err, msgHomestayNotFound, "Failed to update homestay")
	}
	return homestay, nil
}

func (s *Service) ApproveHomestay(ctx context.Context, id string) (transport.MessageResponse, error) {
	approved := true
	homestay, err := s.homestays.Update(ctx, id, domain.HomestayPatch{Approved: &approved})
	if err != nil {
		return transport.MessageResponse{}, mapStoreError(err, msgHomestayNotFound, "Failed to approve homestay")
	}

	s.log.Info("homestay approved", "homestay_id", id)
	s.publish(ctx, events.HomestayApproved{
		BaseEvent:  events.NewBaseEvent(),
		HomestayID: homestay.ID.Hex(),
		HostEmail:  homestay.HostEmail,
	})
	return transport.MessageResponse{Message: "Homestay approved"}, nil
}

// DeleteHomestay removes the document. Bookings referencing it are kept.
func (s *Service) DeleteHomestay(ctx context.Context, id string) (transport.MessageResponse, error) {
	if err := s.homestays.Delete(ctx, id); err != nil {
		return transport.MessageResponse{}, mapStoreError(err, msgHomestayNotFound, "Failed to delete homestay")
	}
	s.log.Info("homestay permanently deleted", "homestay_id", id)
	return transport.MessageResponse{Message: "Homestay permanently deleted"}, nil
}

func (s *Service) UpdateUpiQr(ctx context.Context, id string, req transport.UpiQrRequest) (transport.HomestayResponse, error) {
	image, err := resolveQrImage(req.UpiQrImage, req.UpiID, req.PayeeName)
	if err != nil {
		return transport.HomestayResponse{}, err
	}

	homestay, err := s.homestays.Update(ctx, id, domain.HomestayPatch{UpiQrImage: &image})
	if err != nil {
		return transport.HomestayResponse{}, mapStoreError(err, msgHomestayNotFound, "Failed to update UPI QR")
	}
	return transport.HomestayResponse{Message: "UPI QR updated", Homestay: *homestay}, nil
}

// resolveQrImage maps upiqr failures onto request errors.
func resolveQrImage(uploaded, upiID, payeeName string) (string, error) {
	image, err := upiqr.Resolve(uploaded, upiID, payeeName)
	switch {
	case errors.Is(err, upiqr.ErrNoSource):
		return "", apperr.BadRequest(msgQrRequired)
	case errors.Is(err, upiqr.ErrInvalidVPA):
		return "", apperr.BadRequest(msgInvalidUpiID)
	case err != nil:
		return "", apperr.Internal("Failed to generate UPI QR", err)
	}
	return image, nil
}

// =============================================================================
// Attractions
// =============================================================================

func (s *Service) ListAttractions(ctx context.Context) ([]domain.Attraction, error) {
	attractions, err := s.attractions.List(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to load attractions", err)
	}
	return attractions, nil
}

func (s *Service) CreateAttraction(ctx context.Context, req transport.CreateAttractionRequest) (*domain.Attraction, error) {
	attraction := &domain.Attraction{
		Name:        strings.TrimSpace(req.Name),
		Location:    strings.TrimSpace(req.Location),
		Description: req.Description,
		Image:       req.Image,
	}
	if err := s.attractions.Create(ctx, attraction); err != nil {
		return nil, apperr.Internal("Failed to add attraction", err)
	}
	return attraction, nil
}

func (s *Service) UpdateAttraction(ctx context.Context, id string, req transport.UpdateAttractionRequest) (*domain.Attraction, error) {
	attraction, err := s.attractions.Update(ctx, id, domain.AttractionPatch{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		return nil, mapStoreError(err, msgAttractionNotFound, "Failed to update attraction")
	}
	return attraction, nil
}

func (s *Service) DeleteAttraction(ctx context.Context, id string) (transport.MessageResponse, error) {
	if err := s.attractions.Delete(ctx, id); err != nil {
		return transport.MessageResponse{}, mapStoreError(err, msgAttractionNotFound, "Failed to delete attraction")
	}
	return transport.MessageResponse{Message: "Attraction deleted successfully"}, nil
}

// =============================================================================
// Bookings
// =============================================================================

func (s *Service) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to load bookings", err)
	}
	return bookings, nil
}

// SetBookingStatus moves a booking to any of the four statuses.
func (s *Service) SetBookingStatus(ctx context.Context, principal, id, rawStatus string) (transport.BookingResponse, error) {
	status, ok := domain.ParseBookingStatus(rawStatus)
	if !ok {
		return transport.BookingResponse{}, apperr.BadRequest(msgInvalidStatus)
	}

	booking, err := s.bookings.Update(ctx, id, domain.BookingPatch{Status: &status})
	if err != nil {
		return transport.BookingResponse{}, mapStoreError(err, msgBookingNotFound, "Failed to update booking status")
	}

	s.publishBookingChange(ctx, booking, principal)
	return transport.BookingResponse{Message: "Booking status updated successfully", Booking: *booking}, nil
}

// ReviewPayment approves or rejects the booking's payment.
func (s *Service) ReviewPayment(ctx context.Context, principal, id string, action domain.ReviewAction) (transport.BookingResponse, error) {
	payment := action.PaymentStatus()
	booking, err := s.bookings.Update(ctx, id, domain.BookingPatch{PaymentStatus: &payment})
	if err != nil {
		return transport.BookingResponse{}, mapStoreError(err, msgBookingNotFound, "Failed to update payment")
	}

	s.log.Info("payment reviewed by admin", "booking_id", id, "payment_status", payment)
	s.publishBookingChange(ctx, booking, principal)
	return transport.BookingResponse{Message: fmt.Sprintf("Payment %s successfully", strings.ToLower(string(payment))), Booking: *booking}, nil
}

func (s *Service) DeleteBooking(ctx context.Context, id string) (transport.MessageResponse, error) {
	if err := s.bookings.Delete(ctx, id); err != nil {
		return transport.MessageResponse{}, mapStoreError(err, msgBookingNotFound, "Failed to delete booking")
	}
	return transport.MessageResponse{Message: "Booking deleted successfully"}, nil
}

func (s *Service) publishBookingChange(ctx context.Context, booking *domain.Booking, changedBy string) {
	s.publish(ctx, events.BookingStatusChanged{
		BaseEvent:     events.NewBaseEvent(),
		BookingID:     booking.ID.Hex(),
		Status:        string(booking.Status),
		PaymentStatus: string(booking.PaymentStatus),
		ChangedBy:     changedBy,
	})
}

// =============================================================================
// Stats
// =============================================================================

// Stats counts what the moderation dashboard shows. The three collections
// are read concurrently.
func (s *Service) Stats(ctx context.Context) (transport.StatsResponse, error) {
	var (
		users       []domain.User
		homestays   []domain.Homestay
		bookings    []domain.Booking
		attractions []domain.Attraction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.users.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		homestays, err = s.homestays.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		bookings, err = s.bookings.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		attractions, err = s.attractions.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.StatsResponse{}, apperr.Internal("Failed to load stats", err)
	}

	stats := transport.StatsResponse{
		UsersByRole:      map[string]int{},
		BookingsByStatus: map[string]int{},
		Attractions:      len(attractions),
	}
	for _, u := range users {
		stats.UsersByRole[string(u.Role)]++
		if u.Approved {
			continue
		}
		switch u.Role {
		case domain.RoleLocalGuide:
			stats.PendingGuides++
		case domain.RoleHost:
			stats.PendingHosts++
		}
	}
	for _, h := range homestays {
		switch {
		case h.IsDeleted:
			stats.DeletedHomestays++
		case !h.Approved:
			stats.PendingHomestays++
		}
	}
	for _, b := range bookings {
		stats.BookingsByStatus[string(b.Status)]++
		if b.PaymentStatus == domain.PaymentPending {
			stats.PendingPayments++
		}
	}
	return stats, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(ctx, event)
}

func mapStoreError(err error, notFound, failed string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound(notFound)
	case errors.Is(err, store.ErrInvalidID):
		return apperr.BadRequest(msgInvalidID)
	default:
		return apperr.Internal(failed, err)
	}
}
