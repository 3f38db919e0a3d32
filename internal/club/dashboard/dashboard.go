package dashboard

// Stats is the aggregate snapshot served by the dashboard endpoint.
type Stats struct {
	TotalBooks    int `json:"total_books"`
	TotalMembers  int `json:"total_members"` // active members only
	TotalMeetings int `json:"total_meetings"`
	TotalReviews  int `json:"total_reviews"`

	TopRatedBooks     []RatedBook    `json:"top_rated_books"`
	MostActiveMembers []ActiveMember `json:"most_active_members"`
}

// RatedBook is the book projection shown on the dashboard.
type RatedBook struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Slug          string  `json:"slug"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

// ActiveMember is a member ranked by how many reviews they have written.
type ActiveMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ReviewCount int    `json:"review_count"`
}
