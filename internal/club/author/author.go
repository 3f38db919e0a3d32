package author

import "time"

// Author represents a writer whose books appear in the club catalogue.
type Author struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	BirthDate   *time.Time `json:"birth_date"`
	Nationality *string    `json:"nationality"`
}

// Filter holds the parameters for a paginated author search.
type Filter struct {
	Query string // Case-insensitive match against name
}

// Global field names for validation
const (
	FieldName        = "name"
	FieldNationality = "nationality"
)
