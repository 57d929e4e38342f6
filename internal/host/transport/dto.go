package transport

import (
	"strings"

	"tourism_portal_backend/internal/domain"
)

type CreateHomestayRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Location    string   `json:"location" validate:"required,max=200"`
	Price       int64    `json:"price" validate:"min=0"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities" validate:"omitempty,dive,max=100"`
	Image       string   `json:"image"`
	UpiQrImage  string   `json:"upiQrImage"`
}

// UpiQrRequest carries either an uploaded QR image or the UPI id to render
// one from.
type UpiQrRequest struct {
	UpiQrImage string `json:"upiQrImage"`
	UpiID      string `json:"upiId"`
	PayeeName  string `json:"payeeName" validate:"max=100"`
}

// OfflineBookingRequest records a walk-in guest. The host dashboard sends the
// guest as guestName/guestEmail; touristName/touristEmail win when both are set.
type OfflineBookingRequest struct {
	HomestayID    string `json:"homestayId" validate:"required"`
	HomestayTitle string `json:"homestayTitle"`
	TouristName   string `json:"touristName" validate:"max=120"`
	TouristEmail  string `json:"touristEmail" validate:"omitempty,loosemail"`
	GuestName     string `json:"guestName" validate:"max=120"`
	GuestEmail    string `json:"guestEmail" validate:"omitempty,loosemail"`
	CheckinDate   string `json:"checkinDate" validate:"required,isodate"`
	CheckoutDate  string `json:"checkoutDate" validate:"required,isodate"`
	Guests        int    `json:"guests" validate:"min=0,max=100"`
	TotalPrice    int64  `json:"totalPrice" validate:"min=0"`
}

func (r OfflineBookingRequest) Name() string {
	return firstNonBlank(r.TouristName, r.GuestName)
}

func (r OfflineBookingRequest) Email() string {
	return firstNonBlank(r.TouristEmail, r.GuestEmail)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

type DashboardResponse struct {
	Homestays []domain.Homestay `json:"homestays"`
	Bookings  []domain.Booking  `json:"bookings"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HomestayResponse struct {
	Message  string          `json:"message"`
	Homestay domain.Homestay `json:"homestay"`
}

type BookingResponse struct {
	Message string         `json:"message"`
	Booking domain.Booking `json:"booking"`
}
