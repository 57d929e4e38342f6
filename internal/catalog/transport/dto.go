package transport

import (
	"tourism_portal_backend/internal/domain"
)

// PlaceholderRating is shown for every guide until reviews exist.
const PlaceholderRating = 4.5

// GuideCard is the public projection of an approved guide joined with their
// profile. It never carries credentials.
type GuideCard struct {
	ID           string   `json:"_id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	ProfileImage string   `json:"profileImage"`
	Mobile       string   `json:"mobile"`
	Location     string   `json:"location"`
	Languages    []string `json:"languages"`
	Expertise    []string `json:"expertise"`
	BasePrice    int64    `json:"basePrice"`
	Bio          string   `json:"bio"`
	Rating       float64  `json:"rating"`
	Approved     bool     `json:"approved"`
}

// ToGuideCard joins a guide with their profile. A nil profile yields empty
// profile fields.
func ToGuideCard(u domain.User, p *domain.GuideProfile) GuideCard {
	card := GuideCard{
		ID:           u.ID.Hex(),
		Name:         u.Name,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
		Mobile:       u.Mobile,
		Languages:    []string{},
		Expertise:    []string{},
		Rating:       PlaceholderRating,
		Approved:     u.Approved,
	}
	if p == nil {
		return card
	}
	card.Location = p.Location
	card.BasePrice = p.BasePrice
	card.Bio = p.Bio
	if p.Languages != nil {
		card.Languages = p.Languages
	}
	if p.Expertise != nil {
		card.Expertise = p.Expertise
	}
	return card
}
