package transport

import (
	"time"

	"tourism_portal_backend/internal/domain"
)

// ProfileFields are the profile attributes a guide edits directly.
type ProfileFields struct {
	Bio       *string   `json:"bio" validate:"omitempty,max=2000"`
	Location  *string   `json:"location" validate:"omitempty,max=200"`
	Languages *[]string `json:"languages"`
	Expertise *[]string `json:"expertise"`
	BasePrice *int64    `json:"basePrice" validate:"omitempty,min=0"`
}

// UpdateProfileRequest accepts the fields at the top level or wrapped in a
// "profile" object, which older clients send.
type UpdateProfileRequest struct {
	ProfileFields
	Profile *ProfileFields `json:"profile"`
}

// Fields returns whichever shape the client used.
func (r UpdateProfileRequest) Fields() ProfileFields {
	if r.Profile != nil {
		return *r.Profile
	}
	return r.ProfileFields
}

type AddAvailabilityRequest struct {
	Date    string `json:"date" validate:"required,isodate"`
	Morning bool   `json:"morning"`
	Evening bool   `json:"evening"`
}

type AddPortfolioRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Image       string `json:"image"`
}

type UpdateHireStatusRequest struct {
	Status      string `json:"status" validate:"required"`
	AgreedPrice *int64 `json:"agreedPrice" validate:"omitempty,min=0"`
}

type HireGuideRequest struct {
	GuideID      string `json:"guideId" validate:"required"`
	TouristEmail string `json:"touristEmail" validate:"omitempty,loosemail"`
	TouristName  string `json:"touristName" validate:"max=120"`
	Message      string `json:"message" validate:"max=2000"`
}

// ProfileResponse is a guide profile. A guide without a stored profile gets
// an empty one with no identifier.
type ProfileResponse struct {
	ID           string                    `json:"_id,omitempty"`
	Email        string                    `json:"email"`
	Bio          string                    `json:"bio"`
	Location     string                    `json:"location"`
	Languages    []string                  `json:"languages"`
	Expertise    []string                  `json:"expertise"`
	BasePrice    int64                     `json:"basePrice"`
	Availability []domain.AvailabilitySlot `json:"availability"`
	Portfolio    []domain.PortfolioItem    `json:"portfolio"`
	CreatedAt    *time.Time                `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time                `json:"updatedAt,omitempty"`
}

type ProfileEnvelope struct {
	Profile ProfileResponse `json:"profile"`
}

type PortfolioEnvelope struct {
	Portfolio []domain.PortfolioItem `json:"portfolio"`
}

type ApprovalStatusResponse struct {
	IsApproved bool `json:"isApproved"`
}

type HireEnvelope struct {
	Hire domain.GuideHire `json:"hire"`
}

// ToProfileResponse projects a stored profile, replacing nil lists with
// empty ones so clients can iterate without checks.
func ToProfileResponse(p domain.GuideProfile) ProfileResponse {
	resp := ProfileResponse{
		Email:        p.Email,
		Bio:          p.Bio,
		Location:     p.Location,
		Languages:    orEmpty(p.Languages),
		Expertise:    orEmpty(p.Expertise),
		BasePrice:    p.BasePrice,
		Availability: orEmpty(p.Availability),
		Portfolio:    orEmpty(p.Portfolio),
	}
	if !p.ID.IsZero() {
		resp.ID = p.ID.Hex()
		createdAt, updatedAt := p.CreatedAt, p.UpdatedAt
		resp.CreatedAt = &createdAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
