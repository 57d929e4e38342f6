// Package service implements the host's view of their own homestays and
// the bookings made for them. The host is always the token's principal.
package service

import (
	"context"
	"errors"
	"strings"

	"tourism_portal_backend/internal/domain"
	"tourism_portal_backend/internal/events"
	"tourism_portal_backend/internal/host/transport"
	"tourism_portal_backend/internal/store"
	"tourism_portal_backend/platform/apperr"
	"tourism_portal_backend/platform/logger"
	"tourism_portal_backend/platform/upiqr"
)

const (
	msgHomestayNotFound = "Homestay not found"
	msgBookingNotFound  = "Booking not found"
	msgNotOwner         = "You do not own this homestay"
	msgNotBookingOwner  = "This booking is not for one of your homestays"
	msgInvalidID        = "Invalid id"
	msgInvalidDates     = "Check-out date must be after check-in date"
	msgQrRequired       = "upiQrImage or upiId is required"
	msgInvalidUpiID     = "Invalid UPI id"
	msgDashboardError   = "Dashboard error"
)

type Service struct {
	homestays store.Homestays
	bookings  store.Bookings
	eventBus  events.Bus
	log       *logger.Logger
}

func New(homestays store.Homestays, bookings store.Bookings, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{homestays: homestays, bookings: bookings, eventBus: eventBus, log: log}
}

// Dashboard returns the host's live homestays and every booking made for them.
func (s *Service) Dashboard(ctx context.Context, hostEmail string) (transport.DashboardResponse, error) {
	homestays, err := s.homestays.ListByHost(ctx, hostEmail)
	if err != nil {
		return transport.DashboardResponse{}, apperr.Internal(msgDashboardError, err)
	}

	bookings := []domain.Booking{}
	if len(homestays) > 0 {
		ids := make([]string, len(homestays))
		for i, h := range homestays {
			ids[i] = h.ID.Hex()
		}
		bookings, err = s.bookings.ListByHomestays(ctx, ids)
		if err != nil {
			return transport.DashboardResponse{}, apperr.Internal(msgDashboardError, err)
		}
	}

	return transport.DashboardResponse{Homestays: homestays, Bookings: bookings}, nil
}

// AddHomestay submits a listing for moderation.
func (s *Service) AddHomestay(ctx context.Context, hostEmail string, req transport.CreateHomestayRequest) (transport.HomestayResponse, error) {
	homestay := &domain.Homestay{
		Title:       strings.TrimSpace(req.Title),
		Location:    strings.TrimSpace(req.Location),
		Price:       req.Price,
		Description: req.Description,
		Amenities:   req.Amenities,
		Image:       req.Image,
		UpiQrImage:  req.UpiQrImage,
		HostEmail:   hostEmail,
		Approved:    false,
		IsDeleted:   false,
	}
	if homestay.Amenities == nil {
		homestay.Amenities = []string{}
	}
	if err := s.homestays.Create(ctx, homestay); err != nil {
		return transport.HomestayResponse{}, apperr.Internal("Failed to add homestay", err)
	}

	s.log.Info("homestay submitted", "homestay_id", homestay.ID.Hex(), "host", hostEmail)
	s.publish(ctx, events.HomestaySubmitted{
		BaseEvent:  events.NewBaseEvent(),
		HomestayID: homestay.ID.Hex(),
		HostEmail:  hostEmail,
		Title:      homestay.Title,
	})
	return transport.HomestayResponse{Message: "Homestay added", Homestay: *homestay}, nil
}

// UpdateUpiQr sets the payment QR of an owned homestay.
func (s *Service) UpdateUpiQr(ctx context.Context, hostEmail, id string, req transport.UpiQrRequest) (transport.HomestayResponse, error) {
	if _, err := s.ownedHomestay(ctx, hostEmail, id); err != nil {
		return transport.HomestayResponse{}, err
	}

	image, err := upiqr.Resolve(req.UpiQrImage, req.UpiID, req.PayeeName)
	switch {
	case errors.Is(err, upiqr.ErrNoSource):
		return transport.HomestayResponse{}, apperr.BadRequest(msgQrRequired)
	case errors.Is(err, upiqr.ErrInvalidVPA):
		return transport.HomestayResponse{}, apperr.BadRequest(msgInvalidUpiID)
	case err != nil:
		return transport.HomestayResponse{}, apperr.Internal("Failed to generate UPI QR", err)
	}

	homestay, err := s.homestays.Update(ctx, id, domain.HomestayPatch{UpiQrImage: &image})
	if err != nil {
		return transport.HomestayResponse{}, mapStoreError(err, msgHomestayNotFound, "Failed to update UPI QR")
	}
	return transport.HomestayResponse{Message: "UPI QR updated", Homestay: *homestay}, nil
}

// DeleteHomestay hides an owned homestay. The document and its bookings stay
// in place so the admin can still see them.
func (s *Service) DeleteHomestay(ctx context.Context, hostEmail, id string) (transport.MessageResponse, error) {
	if _, err := s.ownedHomestay(ctx, hostEmail, id); err != nil {
		return transport.MessageResponse{}, err
	}

	deleted := true
	if _, err := s.homestays.Update(ctx, id, domain.HomestayPatch{IsDeleted: &deleted}); err != nil {
		return transport.MessageResponse{}, mapStoreError(err, msgHomestayNotFound, "Failed to delete homestay")
	}

	s.log.Info("homestay soft deleted", "homestay_id", id, "host", hostEmail)
	return transport.MessageResponse{Message: "Homestay deleted"}, nil
}

// CreateOfflineBooking records a walk-in guest. Offline bookings are paid
// and accepted on the spot.
func (s *Service) CreateOfflineBooking(ctx context.Context, hostEmail string, req transport.OfflineBookingRequest) (transport.BookingResponse, error) {
	if req.CheckoutDate <= req.CheckinDate {
		return transport.BookingResponse{}, apperr.Validation(msgInvalidDates)
	}

	homestay, err := s.ownedHomestay(ctx, hostEmail, req.HomestayID)
	if err != nil {
		return transport.BookingResponse{}, err
	}

	title := strings.TrimSpace(req.HomestayTitle)
	if title == "" {
		title = homestay.Title
	}

	booking := &domain.Booking{
		TouristEmail:  req.Email(),
		TouristName:   req.Name(),
		HomestayID:    homestay.ID,
		HomestayTitle: title,
		HostEmail:     hostEmail,
		CheckinDate:   req.CheckinDate,
		CheckoutDate:  req.CheckoutDate,
		Guests:        req.Guests,
		TotalPrice:    req.TotalPrice,
		BookingType:   domain.BookingOffline,
		Status:        domain.BookingApproved,
		PaymentStatus: domain.PaymentApproved,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return transport.BookingResponse{}, apperr.Internal("Failed to create offline booking", err)
	}

	s.log.Info("offline booking created", "booking_id", booking.ID.Hex(), "homestay_id", req.HomestayID)
	s.publish(ctx, events.BookingCreated{
		BaseEvent:    events.NewBaseEvent(),
		BookingID:    booking.ID.Hex(),
		HomestayID:   req.HomestayID,
		TouristEmail: booking.TouristEmail,
		BookingType:  string(booking.BookingType),
	})
	return transport.BookingResponse{Message: "Offline booking created", Booking: *booking}, nil
}

// ReviewBooking accepts or declines a booking made for one of the host's homestays.
func (s *Service) ReviewBooking(ctx context.Context, hostEmail, id string, action domain.ReviewAction) (transport.BookingResponse, error) {
	if _, err := s.ownedBooking(ctx, hostEmail, id); err != nil {
		return transport.BookingResponse{}, err
	}

	status := action.BookingStatus()
	booking, err := s.bookings.Update(ctx, id, domain.BookingPatch{Status: &status})
	if err != nil {
		return transport.BookingResponse{}, mapStoreError(err, msgBookingNotFound, "Failed to update booking status")
	}

	s.publishBookingChange(ctx, booking, hostEmail)
	return transport.BookingResponse{Message: "Booking " + strings.ToLower(string(status)), Booking: *booking}, nil
}

// ReviewPayment confirms or refuses the UPI payment of a booking.
func (s *Service) ReviewPayment(ctx context.Context, hostEmail, id string, action domain.ReviewAction) (transport.BookingResponse, error) {
	if _, err := s.ownedBooking(ctx, hostEmail, id); err != nil {
		return transport.BookingResponse{}, err
	}

	payment := action.PaymentStatus()
	booking, err := s.bookings.Update(ctx, id, domain.BookingPatch{PaymentStatus: &payment})
	if err != nil {
		return transport.BookingResponse{}, mapStoreError(err, msgBookingNotFound, "Failed to update payment")
	}

	s.publishBookingChange(ctx, booking, hostEmail)
	return transport.BookingResponse{Message: "Payment " + strings.ToLower(string(payment)), Booking: *booking}, nil
}

func (s *Service) ownedHomestay(ctx context.Context, hostEmail, id string) (*domain.Homestay, error) {
	homestay, err := s.homestays.FindByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, msgHomestayNotFound, "Failed to load homestay")
	}
	if homestay.IsDeleted {
		return nil, apperr.NotFound(msgHomestayNotFound)
	}
	if !strings.EqualFold(homestay.HostEmail, hostEmail) {
		return nil, apperr.Forbidden(msgNotOwner)
	}
	return homestay, nil
}

// ownedBooking loads a booking the host may act on: one they recorded
// offline, or one for a homestay they own.
func (s *Service) ownedBooking(ctx context.Context, hostEmail, id string) (*domain.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, msgBookingNotFound, "Failed to load booking")
	}
	if strings.EqualFold(booking.HostEmail, hostEmail) {
		return booking, nil
	}

	homestay, err := s.homestays.FindByID(ctx, booking.HomestayID.Hex())
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Forbidden(msgNotBookingOwner)
	}
	if err != nil {
		return nil, apperr.Internal("Failed to load homestay", err)
	}
	if !strings.EqualFold(homestay.HostEmail, hostEmail) {
		return nil, apperr.Forbidden(msgNotBookingOwner)
	}
	return booking, nil
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
