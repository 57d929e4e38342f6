// Package service implements guide profiles, availability, portfolios and
// the hire requests tourists send to guides.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tourism_portal_backend/internal/domain"
	"tourism_portal_backend/internal/events"
	"tourism_portal_backend/internal/guides/transport"
	"tourism_portal_backend/internal/store"
	"tourism_portal_backend/platform/apperr"
	"tourism_portal_backend/platform/logger"
)

const (
	msgHireNotFound    = "Hire request not found"
	msgGuideNotFound   = "Guide not found or not approved yet"
	msgNotYourHire     = "This hire request is not addressed to you"
	msgInvalidStatus   = "Invalid hire status"
	msgInvalidID       = "Invalid id"
	msgGuideRequired   = "Missing required fields"
	msgTouristMismatch = "touristEmail must match the signed in tourist"
)

type Service struct {
	users    store.Users
	profiles store.GuideProfiles
	hires    store.GuideHires
	eventBus events.Bus
	log      *logger.Logger
}

func New(users store.Users, profiles store.GuideProfiles, hires store.GuideHires, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{users: users, profiles: profiles, hires: hires, eventBus: eventBus, log: log}
}

// =============================================================================
// Profile
// =============================================================================

// GetProfile returns the guide's profile, or an empty one when none exists yet.
func (s *Service) GetProfile(ctx context.Context, email string) (transport.ProfileResponse, error) {
	profile, err := s.profiles.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return transport.ToProfileResponse(domain.GuideProfile{Email: email}), nil
	}
	if err != nil {
		return transport.ProfileResponse{}, apperr.Internal("Profile fetch failed", err)
	}
	return transport.ToProfileResponse(*profile), nil
}

// UpdateProfile creates or patches the guide's profile.
func (s *Service) UpdateProfile(ctx context.Context, email string, req transport.UpdateProfileRequest) (transport.ProfileEnvelope, error) {
	fields := req.Fields()
	patch := domain.GuideProfilePatch{
		Bio:       fields.Bio,
		Location:  fields.Location,
		Languages: cleanList(fields.Languages),
		Expertise: cleanList(fields.Expertise),
		BasePrice: fields.BasePrice,
	}

	profile, err := s.profiles.Upsert(ctx, email, patch)
	if err != nil {
		return transport.ProfileEnvelope{}, apperr.Internal("Profile update failed", err)
	}

	s.log.Info("guide profile updated", "email", email)
	return transport.ProfileEnvelope{Profile: transport.ToProfileResponse(*profile)}, nil
}

// ApprovalStatus reports whether email belongs to an approved Local Guide.
// Unknown emails are simply not approved.
func (s *Service) ApprovalStatus(ctx context.Context, email string) (transport.ApprovalStatusResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return transport.ApprovalStatusResponse{IsApproved: false}, nil
	}

	user, err := s.users.FindByEmailAndRole(ctx, email, domain.RoleLocalGuide)
	if errors.Is(err, store.ErrNotFound) {
		return transport.ApprovalStatusResponse{IsApproved: false}, nil
	}
	if err != nil {
		return transport.ApprovalStatusResponse{}, apperr.Internal("Approval status failed", err)
	}
	return transport.ApprovalStatusResponse{IsApproved: user.Approved}, nil
}

// AddAvailability appends a date slot to the guide's calendar.
func (s *Service) AddAvailability(ctx context.Context, email string, req transport.AddAvailabilityRequest) (transport.ProfileResponse, error) {
	profile, err := s.profiles.AddAvailability(ctx, email, domain.AvailabilitySlot{
		Date:    req.Date,
		Morning: req.Morning,
		Evening: req.Evening,
	})
	if err != nil {
		return transport.ProfileResponse{}, apperr.Internal("Availability update failed", err)
	}
	return transport.ToProfileResponse(*profile), nil
}

// =============================================================================
// Portfolio
// =============================================================================

func (s *Service) Portfolio(ctx context.Context, email string) ([]domain.PortfolioItem, error) {
	profile, err := s.GetProfile(ctx, email)
	if err != nil {
		return nil, err
	}
	return profile.Portfolio, nil
}

func (s *Service) AddPortfolioItem(ctx context.Context, email string, req transport.AddPortfolioRequest) (transport.PortfolioEnvelope, error) {
	profile, err := s.profiles.AddPortfolioItem(ctx, email, domain.PortfolioItem{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		return transport.PortfolioEnvelope{}, apperr.Internal("Portfolio add failed", err)
	}
	return transport.PortfolioEnvelope{Portfolio: transport.ToProfileResponse(*profile).Portfolio}, nil
}

// =============================================================================
// Hire requests
// =============================================================================

// HireRequests lists the requests addressed to the guide, newest first.
func (s *Service) HireRequests(ctx context.Context, guideEmail string) ([]domain.GuideHire, error) {
	hires, err := s.hires.ListByGuide(ctx, guideEmail)
	if err != nil {
		return nil, apperr.Internal("Hire requests failed", err)
	}
	return hires, nil
}

// UpdateHireStatus moves a hire request along Pending -> Approved|Rejected
// and Approved -> Completed. An agreed price may accompany the change.
func (s *Service) UpdateHireStatus(ctx context.Context, guideEmail, id string, req transport.UpdateHireStatusRequest) (transport.HireEnvelope, error) {
	next, ok := domain.ParseHireStatus(req.Status)
	if !ok {
		return transport.HireEnvelope{}, apperr.BadRequest(msgInvalidStatus)
	}

	hire, err := s.hires.FindByID(ctx, id)
	if err != nil {
		return transport.HireEnvelope{}, mapStoreError(err, msgHireNotFound, "Hire update failed")
	}
	if !strings.EqualFold(hire.GuideEmail, guideEmail) {
		return transport.HireEnvelope{}, apperr.Forbidden(msgNotYourHire)
	}
	if !hire.Status.CanTransitionTo(next) {
		return transport.HireEnvelope{}, apperr.BadRequest(fmt.Sprintf("Cannot change hire request from %s to %s", hire.Status, next))
	}

	updated, err := s.hires.Update(ctx, id, domain.GuideHirePatch{Status: &next, AgreedPrice: req.AgreedPrice})
	if err != nil {
		return transport.HireEnvelope{}, mapStoreError(err, msgHireNotFound, "Hire update failed")
	}

	if hire.Status != next {
		s.log.Info("hire request status changed", "hire_id", id, "from", hire.Status, "to", next)
		s.publish(ctx, events.GuideHireStatusChanged{
			BaseEvent:    events.NewBaseEvent(),
			HireID:       id,
			GuideEmail:   updated.GuideEmail,
			TouristEmail: updated.TouristEmail,
			Status:       string(next),
		})
	}
	return transport.HireEnvelope{Hire: *updated}, nil
}

// HireGuide records a tourist's request to hire a guide. The guide may be
// referenced by user id or by email and must be an approved Local Guide.
func (s *Service) HireGuide(ctx context.Context, touristEmail string, req transport.HireGuideRequest) (*domain.GuideHire, error) {
	if req.TouristEmail != "" && !strings.EqualFold(strings.TrimSpace(req.TouristEmail), touristEmail) {
		return nil, apperr.Forbidden(msgTouristMismatch)
	}

	sel, ok := domain.ParseGuideSelector(req.GuideID)
	if !ok {
		return nil, apperr.BadRequest(msgGuideRequired)
	}

	guide, err := s.users.FindApprovedGuide(ctx, sel)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound(msgGuideNotFound)
	}
	if err != nil {
		return nil, apperr.Internal("Failed to send hire request", err)
	}

	touristName := strings.TrimSpace(req.TouristName)
	if touristName == "" {
		if tourist, err := s.users.FindByEmail(ctx, touristEmail); err == nil {
			touristName = tourist.Name
		}
	}

	hire := &domain.GuideHire{
		GuideEmail:   guide.Email,
		TouristEmail: touristEmail,
		TouristName:  touristName,
		Message:      req.Message,
		Status:       domain.HirePending,
	}
	if err := s.hires.Create(ctx, hire); err != nil {
		return nil, apperr.Internal("Failed to send hire request", err)
	}

	s.log.Info("hire request created", "hire_id", hire.ID.Hex(), "guide", guide.Email)
	s.publish(ctx, events.GuideHireRequested{
		BaseEvent:    events.NewBaseEvent(),
		HireID:       hire.ID.Hex(),
		GuideEmail:   guide.Email,
		TouristEmail: touristEmail,
	})
	return hire, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(ctx, event)
}

// cleanList trims entries and drops blanks.
func cleanList(items *[]string) *[]string {
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(*items))
	for _, item := range *items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return &out
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
