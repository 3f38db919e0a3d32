package review

import "time"

// Review is a member's rating and commentary on a single book.
type Review struct {
	ID         int       `json:"id"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment"`
	DatePosted time.Time `json:"date_posted"`
	BookID     int       `json:"book_id"`
	MemberID   int       `json:"member_id"`
}

// Rating bounds (inclusive).
const (
	MinRating = 1
	MaxRating = 5
)

// Global field names for validation
const (
	FieldRating   = "rating"
	FieldComment  = "comment"
	FieldBookID   = "book_id"
	FieldMemberID = "member_id"
)
