// Package service implements a tourist's own bookings.
package service

import (
	"context"
	"errors"
	"strings"

	"tourism_portal_backend/internal/domain"
	"tourism_portal_backend/internal/events"
	"tourism_portal_backend/internal/store"
	"tourism_portal_backend/internal/tourist/transport"
	"tourism_portal_backend/platform/apperr"
	"tourism_portal_backend/platform/logger"
)

const (
	msgHomestayNotFound = "Homestay not found"
	msgInvalidDates     = "Check-out date must be after check-in date"
	msgNotYourBookings  = "You can only view your own bookings"
	msgTouristMismatch  = "touristEmail must match the signed in tourist"
)

type Service struct {
	users     store.Users
	homestays store.Homestays
	bookings  store.Bookings
	eventBus  events.Bus
	log       *logger.Logger
}

func New(users store.Users, homestays store.Homestays, bookings store.Bookings, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{users: users, homestays: homestays, bookings: bookings, eventBus: eventBus, log: log}
}

// CreateBooking books a publicly visible homestay for the signed in tourist.
// The booking starts Pending with payment Pending until the host reviews it.
func (s *Service) CreateBooking(ctx context.Context, touristEmail string, req transport.CreateBookingRequest) (*domain.Booking, error) {
	if req.TouristEmail != "" && !strings.EqualFold(strings.TrimSpace(req.TouristEmail), touristEmail) {
		return nil, apperr.Forbidden(msgTouristMismatch)
	}
	if req.CheckoutDate <= req.CheckinDate {
		return nil, apperr.Validation(msgInvalidDates)
	}

	homestay, err := s.homestays.FindByID(ctx, req.HomestayID)
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
		return nil, apperr.NotFound(msgHomestayNotFound)
	}
	if err != nil {
		return nil, apperr.Internal("Failed to create booking", err)
	}
	if !homestay.Visible() {
		return nil, apperr.NotFound(msgHomestayNotFound)
	}

	touristName := strings.TrimSpace(req.TouristName)
	if touristName == "" {
		if user, err := s.users.FindByEmail(ctx, touristEmail); err == nil {
			touristName = user.Name
		}
	}

	booking := &domain.Booking{
		TouristEmail:  touristEmail,
		TouristName:   touristName,
		HomestayID:    homestay.ID,
		HomestayTitle: homestay.Title,
		CheckinDate:   req.CheckinDate,
		CheckoutDate:  req.CheckoutDate,
		Guests:        req.Guests,
		TotalPrice:    req.TotalPrice,
		BookingType:   domain.BookingOnline,
		Status:        domain.BookingPending,
		PaymentStatus: domain.PaymentPending,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, apperr.Internal("Failed to create booking", err)
	}

	s.log.Info("booking created", "booking_id", booking.ID.Hex(), "homestay_id", req.HomestayID, "tourist", touristEmail)
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.BookingCreated{
			BaseEvent:    events.NewBaseEvent(),
			BookingID:    booking.ID.Hex(),
			HomestayID:   req.HomestayID,
			TouristEmail: touristEmail,
			BookingType:  string(booking.BookingType),
		})
	}
	return booking, nil
}

// ListBookings returns the tourist's bookings, newest first. A tourist may
// only list their own.
func (s *Service) ListBookings(ctx context.Context, principalEmail, email string) ([]domain.Booking, error) {
	if !strings.EqualFold(strings.TrimSpace(email), principalEmail) {
		return nil, apperr.Forbidden(msgNotYourBookings)
	}

	bookings, err := s.bookings.ListByTourist(ctx, principalEmail)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch bookings", err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, nil
}
