package category

import (
	"strings"
	"time"
)

// CreateCategoryRequest represents the request to create a category
type CreateCategoryRequest struct {
	Name           string  `json:"name" validate:"required,min=1,max=100"`
	Classification *string `json:"classification,omitempty" enums:"fixed,variable,essential"`
}

// UpdateCategoryRequest represents the request to update a category.
// An empty classification clears it.
type UpdateCategoryRequest struct {
	Name           *string `json:"name,omitempty"`
	Classification *string `json:"classification,omitempty" enums:"fixed,variable,essential"`
}

// parseClassification turns optional user input into a classification.
// Missing or blank input means none.
func parseClassification(raw *string) (*Classification, error) {
	if raw == nil {
		return nil, nil
	}
	value := strings.ToLower(strings.TrimSpace(*raw))
	if value == "" {
		return nil, nil
	}
	c := Classification(value)
	if !c.Valid() {
		return nil, ErrInvalidClassification
	}
	return &c, nil
}

// CategoryResponse represents the response for a category
type CategoryResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Classification *Classification `json:"classification"`
	CreatedAt      string          `json:"created_at"`
}

// ToResponse converts a Category model to a CategoryResponse DTO
func (c *Category) ToResponse() *CategoryResponse {
	return &CategoryResponse{
		ID:             c.ID,
		Name:           c.Name,
		Classification: c.Classification,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
}
