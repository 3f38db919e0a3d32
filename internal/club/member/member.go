package member

import "time"

// Member represents a person belonging to the book club.
type Member struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	JoinDate time.Time `json:"join_date"`
	Phone    *string   `json:"phone"`
	Role     string    `json:"role"`
	Bio      *string   `json:"bio"`
	IsActive bool      `json:"is_active"`
}

// Filter holds the parameters for a paginated member search.
type Filter struct {
	Query string // Case-insensitive match against name or email
	Role  string // Exact role match
}

// Global field names for validation
const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldPhone = "phone"
	FieldRole  = "role"
	FieldBio   = "bio"
)
