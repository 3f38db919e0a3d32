package schema

// ReviewTable represents the 'club.review' table
type ReviewTable struct {
	Table      string
	ID         string
	Rating     string
	Comment    string
	DatePosted string
	BookID     string
	MemberID   string
}

// Review is the schema definition for club.review
var Review = ReviewTable{
	Table:      "club.review",
	ID:         "id",
	Rating:     "rating",
	Comment:    "comment",
	DatePosted: "dateposted",
	BookID:     "bookid",
	MemberID:   "memberid",
}
