package activity

import "strings"

// CreateActivityRequest represents the request to create a new activity
type CreateActivityRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=100"`
	Description  *string `json:"description,omitempty"`
	CurrencyCode string  `json:"currency_code,omitempty"`
}

// Normalize trims input and fills defaults
func (r *CreateActivityRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.CurrencyCode = strings.ToUpper(strings.TrimSpace(r.CurrencyCode))
	if r.CurrencyCode == "" {
		r.CurrencyCode = DefaultCurrency
	}
}

// UpdateActivityRequest represents the request to update an activity
type UpdateActivityRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description  *string `json:"description,omitempty"`
	CurrencyCode *string `json:"currency_code,omitempty"`
}

// AddMemberRequest represents the request to add a member to an activity
type AddMemberRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// UpdateMemberRequest represents the request to rename a member
type UpdateMemberRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// ActivityResponse represents the response for an activity
type ActivityResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  *string           `json:"description,omitempty"`
	CurrencyCode string            `json:"currency_code"`
	CreatedAt    string            `json:"created_at"`
	Members      []*MemberResponse `json:"members,omitempty"`
}

// MemberResponse represents a member in an activity response
type MemberResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// ToResponse converts an Activity model to an ActivityResponse DTO
func (a *Activity) ToResponse() *ActivityResponse {
	return &ActivityResponse{
		ID:           a.ID,
		Name:         a.Name,
		Description:  a.Description,
		CurrencyCode: a.CurrencyCode,
		CreatedAt:    a.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Member model to a MemberResponse DTO
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
