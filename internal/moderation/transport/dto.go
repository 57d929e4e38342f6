package transport

import "tourism_portal_backend/internal/domain"

type UpdateUserRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=120"`
	Mobile       *string `json:"mobile" validate:"omitempty,max=20"`
	Role         *string `json:"role"`
	Approved     *bool   `json:"approved"`
	ProfileImage *string `json:"profileImage"`
}

type ApproveGuideRequest struct {
	Email string `json:"email" validate:"required"`
}

type CreateHomestayRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Location    string   `json:"location" validate:"required,max=200"`
	Price       int64    `json:"price" validate:"min=0"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities" validate:"omitempty,dive,max=100"`
	Image       string   `json:"image"`
	UpiQrImage  string   `json:"upiQrImage"`
	Approved    *bool    `json:"approved"`
}

type UpdateHomestayRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Location    *string   `json:"location" validate:"omitempty,min=1,max=200"`
	Price       *int64    `json:"price" validate:"omitempty,min=0"`
	Description *string   `json:"description"`
	Amenities   *[]string `json:"amenities"`
	Image       *string   `json:"image"`
	UpiQrImage  *string   `json:"upiQrImage"`
	HostEmail   *string   `json:"hostEmail" validate:"omitempty,loosemail"`
	Approved    *bool     `json:"approved"`
	IsDeleted   *bool     `json:"isDeleted"`
}

// UpiQrRequest carries either an uploaded QR image or the UPI id to render
// one from.
type UpiQrRequest struct {
	UpiQrImage string `json:"upiQrImage"`
	UpiID      string `json:"upiId"`
	PayeeName  string `json:"payeeName" validate:"max=100"`
}

type CreateAttractionRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Location    string `json:"location" validate:"max=200"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type UpdateAttractionRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Location    *string `json:"location" validate:"omitempty,max=200"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

type BookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type DeleteUserResponse struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deletedCount"`
}

type GuideResponse struct {
	Message string      `json:"message"`
	Guide   domain.User `json:"guide"`
}

type HomestayResponse struct {
	Message  string          `json:"message"`
	Homestay domain.Homestay `json:"homestay"`
}

type BookingResponse struct {
	Message string         `json:"message"`
	Booking domain.Booking `json:"booking"`
}

// StatsResponse summarises what is waiting for moderation.
type StatsResponse struct {
	UsersByRole      map[string]int `json:"usersByRole"`
	PendingGuides    int            `json:"pendingGuides"`
	PendingHosts     int            `json:"pendingHosts"`
	PendingHomestays int            `json:"pendingHomestays"`
	DeletedHomestays int            `json:"deletedHomestays"`
	BookingsByStatus map[string]int `json:"bookingsByStatus"`
	PendingPayments  int            `json:"pendingPayments"`
	Attractions      int            `json:"attractions"`
}
