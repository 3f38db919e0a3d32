package meeting

import "time"

// Meeting represents a scheduled gathering of the club, linked to the books
// under discussion and the members attending.
type Meeting struct {
	ID       int       `json:"id"`
	Date     time.Time `json:"date"`
	Location *string   `json:"location"`
	Notes    *string   `json:"notes"`

	// Hydrated associations (read paths)
	Books   []BookRef   `json:"books"`
	Members []MemberRef `json:"members"`

	// Association ids (write paths); nil leaves the links untouched,
	// an empty slice clears them.
	BookIDs   []int `json:"book_ids,omitempty"`
	MemberIDs []int `json:"member_ids,omitempty"`
}

// BookRef is the lightweight book projection embedded in meeting responses.
type BookRef struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// MemberRef is the lightweight member projection embedded in meeting responses.
type MemberRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Associations is the payload for replacing a meeting's book and member links.
type Associations struct {
	BookIDs   []int `json:"book_ids"`
	MemberIDs []int `json:"member_ids"`
}

// Global field names for validation
const (
	FieldDate     = "date"
	FieldLocation = "location"
	FieldNotes    = "notes"
)
