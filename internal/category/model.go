package category

import "time"

// Classification groups expense categories for budgeting
type Classification string

const (
	ClassificationFixed     Classification = "fixed"
	ClassificationVariable  Classification = "variable"
	ClassificationEssential Classification = "essential"
)

// Valid reports whether c is a known classification
func (c Classification) Valid() bool {
	switch c {
	case ClassificationFixed, ClassificationVariable, ClassificationEssential:
		return true
	}
	return false
}

// Category labels transactions. Income categories carry no classification.
type Category struct {
	ID             string          `json:"id"`
	OwnerID        string          `json:"owner_id"`
	Name           string          `json:"name"`
	Classification *Classification `json:"classification,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Default is a category seeded for new users
type Default struct {
	Name           string
	Classification *Classification
}

func class(c Classification) *Classification { return &c }

// Defaults is the starter list seeded by POST /categories/defaults
var Defaults = []Default{
	{"Rent", class(ClassificationFixed)},
	{"Insurance", class(ClassificationFixed)},
	{"Subscriptions", class(ClassificationFixed)},
	{"Groceries", class(ClassificationEssential)},
	{"Transport", class(ClassificationEssential)},
	{"Utilities", class(ClassificationEssential)},
	{"Healthcare", class(ClassificationEssential)},
	{"Dining Out", class(ClassificationVariable)},
	{"Entertainment", class(ClassificationVariable)},
	{"Shopping", class(ClassificationVariable)},
	{"Travel", class(ClassificationVariable)},
	{"Salary", nil},
	{"Freelance", nil},
	{"Other Income", nil},
}
