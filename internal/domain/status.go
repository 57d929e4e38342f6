package domain

import "strings"

// BookingType distinguishes tourist-created bookings from walk-ins recorded by a host.
type BookingType string

const (
	BookingOnline  BookingType = "ONLINE"
	BookingOffline BookingType = "OFFLINE"
)

// BookingStatus is the administrative acceptance of a reservation.
// Transitions are not guarded: hosts and admins may move between any values.
type BookingStatus string

const (
	BookingPending  BookingStatus = "Pending"
	BookingApproved BookingStatus = "Approved"
	BookingRejected BookingStatus = "Rejected"
	BookingFailed   BookingStatus = "Failed"
)

// ParseBookingStatus accepts any casing of the four booking status values.
func ParseBookingStatus(raw string) (BookingStatus, bool) {
	for _, s := range []BookingStatus{BookingPending, BookingApproved, BookingRejected, BookingFailed} {
		if strings.EqualFold(strings.TrimSpace(raw), string(s)) {
			return s, true
		}
	}
	return "", false
}

// PaymentStatus is the manual confirmation of an out-of-band UPI payment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentApproved PaymentStatus = "Approved"
	PaymentRejected PaymentStatus = "Rejected"
)

// ReviewAction is the approve/reject verb used in host and admin routes.
type ReviewAction string

const (
	ActionApprove ReviewAction = "approve"
	ActionReject  ReviewAction = "reject"
)

// ParseReviewAction accepts "approve" or "reject" in any casing.
func ParseReviewAction(raw string) (ReviewAction, bool) {
	switch ReviewAction(strings.ToLower(strings.TrimSpace(raw))) {
	case ActionApprove:
		return ActionApprove, true
	case ActionReject:
		return ActionReject, true
	default:
		return "", false
	}
}

// BookingStatus returns the booking status the action leads to.
func (a ReviewAction) BookingStatus() BookingStatus {
	if a == ActionApprove {
		return BookingApproved
	}
	return BookingRejected
}

// PaymentStatus returns the payment status the action leads to.
func (a ReviewAction) PaymentStatus() PaymentStatus {
	if a == ActionApprove {
		return PaymentApproved
	}
	return PaymentRejected
}

// HireStatus is the lifecycle of a tourist's request to hire a guide.
type HireStatus string

const (
	HirePending   HireStatus = "Pending"
	HireApproved  HireStatus = "Approved"
	HireRejected  HireStatus = "Rejected"
	HireCompleted HireStatus = "Completed"
)

// ParseHireStatus accepts any casing of the four hire status values.
func ParseHireStatus(raw string) (HireStatus, bool) {
	for _, s := range []HireStatus{HirePending, HireApproved, HireRejected, HireCompleted} {
		if strings.EqualFold(strings.TrimSpace(raw), string(s)) {
			return s, true
		}
	}
	return "", false
}

var hireTransitions = map[HireStatus][]HireStatus{
	HirePending:  {HireApproved, HireRejected},
	HireApproved: {HireCompleted},
}

// CanTransitionTo reports whether a hire request may move from s to next.
// Re-applying the current status is allowed and changes nothing.
func (s HireStatus) CanTransitionTo(next HireStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range hireTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
