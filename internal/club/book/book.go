package book

import "time"

// Book is the central catalogue entity, hydrated with its genre, authors,
// and reviews on every read path.
type Book struct {
	ID              int       `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	PublicationYear *int      `json:"publication_year"`
	PageCount       *int      `json:"page_count"`
	ISBN            *string   `json:"isbn"`
	GenreID         int       `json:"genre_id"`
	Genre           *GenreRef `json:"genre"`
	Description     *string   `json:"description"`
	CoverImageURL   *string   `json:"cover_image_url"`
	IsAvailable     bool      `json:"is_available"`

	// ReviewCount mirrors the trigger-maintained counter column. It is read
	// verbatim from storage and never recomputed here.
	ReviewCount int `json:"review_count"`

	// AverageRating is derived from Reviews by the rating aggregator and is
	// never persisted.
	AverageRating float64 `json:"average_rating"`

	Authors []AuthorRef  `json:"authors"`
	Reviews []ReviewItem `json:"reviews"`

	// AuthorIDs drives the junction sync on write paths; nil leaves the
	// links untouched, an empty slice clears them.
	AuthorIDs []int `json:"author_ids,omitempty"`
}

// GenreRef is the lightweight genre projection embedded in book responses.
type GenreRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// AuthorRef is the lightweight author projection embedded in book responses.
type AuthorRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ReviewItem is the review projection embedded in book responses.
type ReviewItem struct {
	ID         int       `json:"id"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment"`
	DatePosted time.Time `json:"date_posted"`
	MemberID   int       `json:"member_id"`
	MemberName string    `json:"member_name"`
}

// Filter holds the parameters for a catalogue search.
type Filter struct {
	Query   string // Case-insensitive match against title or author name
	GenreID int    // Exact genre match; 0 disables the filter
}

// Supported sort keys for catalogue listings.
const (
	SortRating  = "rating" // highest average rating first
	SortYear    = "year"   // newest publication year first, unknown years last
	SortNewest  = "newest" // most recently added first
	SortDefault = ""       // title ascending
)

// Global field names for validation
const (
	FieldTitle           = "title"
	FieldPublicationYear = "publication_year"
	FieldPageCount       = "page_count"
	FieldISBN            = "isbn"
	FieldGenreID         = "genre_id"
	FieldDescription     = "description"
	FieldCoverImageURL   = "cover_image_url"
	FieldAuthorIDs       = "author_ids"
)
