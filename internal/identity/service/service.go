// Package service implements account signup, login, the two-step admin
// login and self profile maintenance.
package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"tourism_portal_backend/internal/auth/token"
	"tourism_portal_backend/internal/domain"
	"tourism_portal_backend/internal/events"
	"tourism_portal_backend/internal/identity/transport"
	"tourism_portal_backend/internal/store"
	"tourism_portal_backend/platform/apperr"
	"tourism_portal_backend/platform/config"
	"tourism_portal_backend/platform/logger"
	"tourism_portal_backend/platform/phone"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgUserExists          = "User already exists"
	msgInvalidRole         = "Invalid role"
	msgAdminSignup         = "Admin account cannot be created via signup"
	msgAdminUseAdminLogin  = "Admin must login via Admin Login page"
	msgInvalidCredentials  = "Invalid credentials"
	msgApprovalPending     = "Approval pending"
	msgInvalidAdminCreds   = "Invalid admin credentials"
	msgChallengeExpired    = "Login session expired, please sign in again"
	msgInvalidCode         = "Invalid 8-digit code"
	msgTooManyAttempts     = "Too many invalid codes, please sign in again"
	msgUserNotFound        = "User not found"
	msgNothingToUpdate     = "Nothing to update"
	msgAdminNotConfigured  = "Admin login is not configured"
	msgSignupFailed        = "Signup failed"
	msgLoginFailed         = "Login failed"
	msgAdminLoginFailed    = "Admin login failed"
	msgProfileUpdateFailed = "Profile update failed"
)

// Hasher hashes and checks passwords.
type Hasher interface {
	Hash(ctx context.Context, plain string) (string, error)
	Matches(ctx context.Context, hash, plain string) bool
}

// TokenIssuer signs bearer tokens.
type TokenIssuer interface {
	Issue(claims token.Claims) (string, error)
}

type Service struct {
	users      store.Users
	hasher     Hasher
	tokens     TokenIssuer
	admin      config.AdminConfig
	challenges ChallengeStore
	eventBus   events.Bus
	log        *logger.Logger
}

func New(users store.Users, hasher Hasher, tokens TokenIssuer, admin config.AdminConfig, challenges ChallengeStore, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		users:      users,
		hasher:     hasher,
		tokens:     tokens,
		admin:      admin,
		challenges: challenges,
		eventBus:   eventBus,
		log:        log,
	}
}

// Signup creates an account. Tourists are approved immediately, hosts and
// guides wait for an administrator.
func (s *Service) Signup(ctx context.Context, req transport.SignupRequest) (transport.AuthResponse, error) {
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return transport.AuthResponse{}, apperr.BadRequest(msgInvalidRole)
	}
	if !role.Storable() {
		s.log.AuthEvent("signup", req.Email, false, "admin role requested")
		return transport.AuthResponse{}, apperr.Forbidden(msgAdminSignup)
	}

	email := strings.TrimSpace(req.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return transport.AuthResponse{}, apperr.Conflict(msgUserExists)
	} else if !errors.Is(err, store.ErrNotFound) {
		return transport.AuthResponse{}, apperr.Internal(msgSignupFailed, err)
	}

	hash, err := s.hasher.Hash(ctx, req.Password)
	if err != nil {
		return transport.AuthResponse{}, apperr.Internal(msgSignupFailed, fmt.Errorf("hash password: %w", err))
	}

	user := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Mobile:       phone.NormalizeE164(req.Mobile),
		Role:         role,
		ProfileImage: req.ProfileImage,
		Approved:     role.ApprovedOnSignup(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return transport.AuthResponse{}, apperr.Conflict(msgUserExists)
		}
		return transport.AuthResponse{}, apperr.Internal(msgSignupFailed, err)
	}

	resp, err := s.authResponse(*user)
	if err != nil {
		return transport.AuthResponse{}, err
	}

	s.log.AuthEvent("signup", user.Email, true, "")
	s.publish(ctx, events.UserSignedUp{
		BaseEvent:       events.NewBaseEvent(),
		Email:           user.Email,
		Role:            string(user.Role),
		PendingApproval: !user.Approved,
	})
	return resp, nil
}

// Login authenticates a marketplace user for the role they chose.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.AuthResponse, error) {
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		s.log.AuthEvent("login", req.Email, false, "unknown role")
		return transport.AuthResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}
	if !role.Storable() {
		return transport.AuthResponse{}, apperr.Forbidden(msgAdminUseAdminLogin)
	}

	user, err := s.users.FindByEmailAndRole(ctx, strings.TrimSpace(req.Email), role)
	if errors.Is(err, store.ErrNotFound) {
		s.log.AuthEvent("login", req.Email, false, "no such user")
		return transport.AuthResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return transport.AuthResponse{}, apperr.Internal(msgLoginFailed, err)
	}

	if !s.hasher.Matches(ctx, user.PasswordHash, req.Password) {
		s.log.AuthEvent("login", user.Email, false, "password mismatch")
		return transport.AuthResponse{}, apperr.Unauthorized(msgInvalidCredentials)
	}
	if !user.Role.ApprovedOnSignup() && !user.Approved {
		s.log.AuthEvent("login", user.Email, false, "approval pending")
		return transport.AuthResponse{}, apperr.Forbidden(msgApprovalPending)
	}

	resp, err := s.authResponse(*user)
	if err != nil {
		return transport.AuthResponse{}, err
	}
	s.log.AuthEvent("login", user.Email, true, "")
	return resp, nil
}

// AdminLogin checks the configured admin email and password and opens a
// challenge that must be completed with the 8-digit code.
func (s *Service) AdminLogin(ctx context.Context, req transport.AdminLoginRequest) (transport.AdminChallengeResponse, error) {
	adminEmail := s.admin.GetAdminEmail()
	if adminEmail == "" {
		return transport.AdminChallengeResponse{}, apperr.Internal(msgAdminNotConfigured, errors.New("ADMIN_EMAIL is empty"))
	}

	emailOK := strings.EqualFold(strings.TrimSpace(req.Email), adminEmail)
	passwordOK := s.adminPasswordMatches(req.Password)
	if !emailOK || !passwordOK {
		s.log.AuthEvent("admin_login", req.Email, false, "bad credentials")
		return transport.AdminChallengeResponse{}, apperr.Unauthorized(msgInvalidAdminCreds)
	}

	ttl := s.admin.GetAdminChallengeTTL()
	id := uuid.NewString()
	if err := s.challenges.Create(ctx, id, adminEmail, ttl); err != nil {
		return transport.AdminChallengeResponse{}, apperr.Internal(msgAdminLoginFailed, fmt.Errorf("create challenge: %w", err))
	}

	s.log.Info("admin challenge issued", "challenge_id", id)
	return transport.AdminChallengeResponse{
		Success:     true,
		ChallengeID: id,
		ExpiresIn:   int64(ttl / time.Second),
	}, nil
}

// AdminVerify completes the admin login. A wrong code keeps the challenge
// open for another try until MaxChallengeAttempts is reached.
func (s *Service) AdminVerify(ctx context.Context, req transport.AdminVerifyRequest) (transport.AuthResponse, error) {
	challenge, err := s.challenges.Get(ctx, req.ChallengeID)
	if errors.Is(err, ErrChallengeNotFound) {
		return transport.AuthResponse{}, apperr.Unauthorized(msgChallengeExpired)
	}
	if err != nil {
		return transport.AuthResponse{}, apperr.Internal(msgAdminLoginFailed, fmt.Errorf("load challenge: %w", err))
	}

	if subtle.ConstantTimeCompare([]byte(req.Code), []byte(s.admin.GetAdminCode())) != 1 {
		return transport.AuthResponse{}, s.rejectCode(ctx, req.ChallengeID, challenge.Email)
	}

	if err := s.challenges.Consume(ctx, req.ChallengeID); err != nil {
		if errors.Is(err, ErrChallengeNotFound) {
			return transport.AuthResponse{}, apperr.Unauthorized(msgChallengeExpired)
		}
		return transport.AuthResponse{}, apperr.Internal(msgAdminLoginFailed, fmt.Errorf("consume challenge: %w", err))
	}

	signed, err := s.tokens.Issue(token.Claims{Email: challenge.Email, Role: domain.RoleAdmin})
	if err != nil {
		return transport.AuthResponse{}, apperr.Internal(msgAdminLoginFailed, fmt.Errorf("issue token: %w", err))
	}

	s.log.AuthEvent("admin_login", challenge.Email, true, "")
	s.publish(ctx, events.AdminLoggedIn{BaseEvent: events.NewBaseEvent(), Email: challenge.Email})

	return transport.AuthResponse{
		Success: true,
		Token:   signed,
		User: transport.UserResponse{
			Name:       "Admin",
			Email:      challenge.Email,
			Role:       string(domain.RoleAdmin),
			IsApproved: true,
		},
	}, nil
}

func (s *Service) rejectCode(ctx context.Context, challengeID, email string) error {
	attempts, err := s.challenges.RecordFailure(ctx, challengeID)
	if errors.Is(err, ErrChallengeNotFound) {
		return apperr.Unauthorized(msgChallengeExpired)
	}
	if err != nil {
		return apperr.Internal(msgAdminLoginFailed, fmt.Errorf("record failure: %w", err))
	}

	s.log.AuthEvent("admin_verify", email, false, "invalid code")
	if attempts >= MaxChallengeAttempts {
		if err := s.challenges.Consume(ctx, challengeID); err != nil && !errors.Is(err, ErrChallengeNotFound) {
			s.log.Error("failed to drop admin challenge", "error", err)
		}
		return apperr.Unauthorized(msgTooManyAttempts)
	}
	return apperr.Unauthorized(msgInvalidCode)
}

func (s *Service) adminPasswordMatches(plain string) bool {
	if hash := s.admin.GetAdminPasswordHash(); hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
	}
	expected := s.admin.GetAdminPassword()
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(plain), []byte(expected)) == 1
}

// Me returns the caller's own account.
func (s *Service) Me(ctx context.Context, email string) (transport.UserResponse, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return transport.UserResponse{}, apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return transport.UserResponse{}, err
	}
	return transport.ToUserResponse(*user), nil
}

// UpdateMe changes the caller's name, mobile or profile image.
func (s *Service) UpdateMe(ctx context.Context, email string, req transport.UpdateMeRequest) (transport.UserResponse, error) {
	patch := domain.UserPatch{ProfileImage: req.ProfileImage}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		patch.Name = &name
	}
	if req.Mobile != nil {
		mobile := phone.NormalizeE164(*req.Mobile)
		patch.Mobile = &mobile
	}
	if patch.Empty() {
		return transport.UserResponse{}, apperr.BadRequest(msgNothingToUpdate)
	}

	user, err := s.users.UpdateByEmail(ctx, email, patch)
	if errors.Is(err, store.ErrNotFound) {
		return transport.UserResponse{}, apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return transport.UserResponse{}, apperr.Internal(msgProfileUpdateFailed, err)
	}

	s.log.Info("profile updated", "email", user.Email)
	return transport.ToUserResponse(*user), nil
}

func (s *Service) authResponse(user domain.User) (transport.AuthResponse, error) {
	signed, err := s.tokens.Issue(token.Claims{Email: user.Email, Role: user.Role})
	if err != nil {
		return transport.AuthResponse{}, apperr.Internal("Token generation failed", fmt.Errorf("issue token: %w", err))
	}
	return transport.AuthResponse{Success: true, Token: signed, User: transport.ToUserResponse(user)}, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(ctx, event)
}
