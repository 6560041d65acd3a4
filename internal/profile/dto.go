package profile

import "time"

// UpdateProfileRequest represents the request to set a username
type UpdateProfileRequest struct {
	Username string `json:"username" validate:"required,min=2,max=32"`
}

// ProfileResponse represents the response for a profile
type ProfileResponse struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ToResponse converts a Profile model to a ProfileResponse DTO
func (p *Profile) ToResponse() *ProfileResponse {
	return &ProfileResponse{
		UserID:    p.UserID,
		Username:  p.Username,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}
