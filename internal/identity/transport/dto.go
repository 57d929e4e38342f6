package transport

import "tourism_portal_backend/internal/domain"

type SignupRequest struct {
	Name         string `json:"name" validate:"required,max=120"`
	Email        string `json:"email" validate:"required,loosemail"`
	Password     string `json:"password" validate:"required,min=6,max=72"`
	Role         string `json:"role" validate:"required"`
	Mobile       string `json:"mobile" validate:"omitempty,max=20"`
	ProfileImage string `json:"profileImage"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,loosemail"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,loosemail"`
	Password string `json:"password" validate:"required"`
}

type AdminVerifyRequest struct {
	ChallengeID string `json:"challengeId" validate:"required,uuid"`
	Code        string `json:"code" validate:"required,eightdigits"`
}

type UpdateMeRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=120"`
	Mobile       *string `json:"mobile" validate:"omitempty,max=20"`
	ProfileImage *string `json:"profileImage"`
}

// UserResponse is the public projection of a user. It never carries the
// password hash.
type UserResponse struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Mobile       string `json:"mobile"`
	ProfileImage string `json:"profileImage"`
	IsApproved   bool   `json:"isApproved"`
}

type AuthResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

type AdminChallengeResponse struct {
	Success     bool   `json:"success"`
	ChallengeID string `json:"challengeId"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// ToUserResponse projects a stored user.
func ToUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID.Hex(),
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.Role),
		Mobile:       u.Mobile,
		ProfileImage: u.ProfileImage,
		IsApproved:   u.Approved,
	}
}
