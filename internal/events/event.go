// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"tourism_portal_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Publisher   = events.Publisher
	Subscriber  = events.Subscriber
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Identity Events
// =============================================================================

// UserSignedUp is published when a new account is created.
type UserSignedUp struct {
	BaseEvent
	Email           string `json:"email"`
	Role            string `json:"role"`
	PendingApproval bool   `json:"pendingApproval"`
}

func (e UserSignedUp) EventName() string { return "identity.user.signed_up" }

// AdminLoggedIn is published when the admin completes the two-step login.
type AdminLoggedIn struct {
	BaseEvent
	Email string `json:"email"`
}

func (e AdminLoggedIn) EventName() string { return "identity.admin.logged_in" }

// =============================================================================
// Moderation Events
// =============================================================================

// UserApprovalChanged is published when an admin approves or rejects an account.
type UserApprovalChanged struct {
	BaseEvent
	Email    string `json:"email"`
	Role     string `json:"role"`
	Approved bool   `json:"approved"`
}

func (e UserApprovalChanged) EventName() string { return "moderation.user.approval_changed" }

// HomestayApproved is published when an admin makes a homestay public.
type HomestayApproved struct {
	BaseEvent
	HomestayID string `json:"homestayId"`
	HostEmail  string `json:"hostEmail"`
}

func (e HomestayApproved) EventName() string { return "moderation.homestay.approved" }

// =============================================================================
// Host Events
// =============================================================================

// HomestaySubmitted is published when a host lists a homestay for review.
type HomestaySubmitted struct {
	BaseEvent
	HomestayID string `json:"homestayId"`
	HostEmail  string `json:"hostEmail"`
	Title      string `json:"title"`
}

func (e HomestaySubmitted) EventName() string { return "host.homestay.submitted" }

// =============================================================================
// Booking Events
// =============================================================================

// BookingCreated is published for every new booking, online or offline.
type BookingCreated struct {
	BaseEvent
	BookingID    string `json:"bookingId"`
	HomestayID   string `json:"homestayId"`
	TouristEmail string `json:"touristEmail"`
	BookingType  string `json:"bookingType"`
}

func (e BookingCreated) EventName() string { return "booking.created" }

// BookingStatusChanged is published when a host or admin moves a booking or
// its payment to a new status.
type BookingStatusChanged struct {
	BaseEvent
	BookingID     string `json:"bookingId"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	ChangedBy     string `json:"changedBy"`
}

func (e BookingStatusChanged) EventName() string { return "booking.status_changed" }

// BookingsExpired is published by the expiry job when stale bookings failed.
type BookingsExpired struct {
	BaseEvent
	Before string `json:"before"`
	Count  int64  `json:"count"`
}

func (e BookingsExpired) EventName() string { return "booking.expired" }

// =============================================================================
// Guide Events
// =============================================================================

// GuideHireRequested is published when a tourist asks to hire a guide.
type GuideHireRequested struct {
	BaseEvent
	HireID       string `json:"hireId"`
	GuideEmail   string `json:"guideEmail"`
	TouristEmail string `json:"touristEmail"`
}

func (e GuideHireRequested) EventName() string { return "guides.hire.requested" }

// GuideHireStatusChanged is published when a guide answers or completes a hire.
type GuideHireStatusChanged struct {
	BaseEvent
	HireID       string `json:"hireId"`
	GuideEmail   string `json:"guideEmail"`
	TouristEmail string `json:"touristEmail"`
	Status       string `json:"status"`
}

func (e GuideHireStatusChanged) EventName() string { return "guides.hire.status_changed" }
