package domain

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GuideSelector identifies the guide a tourist wants to hire: either by the
// guide user's identifier or by the guide's email.
type GuideSelector interface {
	isGuideSelector()
}

// GuideByID selects a guide by user identifier.
type GuideByID struct {
	ID primitive.ObjectID
}

// GuideByEmail selects a guide by email, matched case-insensitively.
type GuideByEmail struct {
	Email string
}

func (GuideByID) isGuideSelector()    {}
func (GuideByEmail) isGuideSelector() {}

// ParseGuideSelector decides how a client supplied guide reference is matched.
// A 24 character hex string is treated as an identifier; anything else is an email.
func ParseGuideSelector(raw string) (GuideSelector, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	if id, err := primitive.ObjectIDFromHex(raw); err == nil {
		return GuideByID{ID: id}, true
	}
	return GuideByEmail{Email: raw}, true
}
