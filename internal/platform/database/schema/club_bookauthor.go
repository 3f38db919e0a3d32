package schema

// BookAuthorTable represents the 'club.bookauthor' junction table
type BookAuthorTable struct {
	Table    string
	BookID   string
	AuthorID string
}

// BookAuthor is the schema definition for club.bookauthor
var BookAuthor = BookAuthorTable{
	Table:    "club.bookauthor",
	BookID:   "bookid",
	AuthorID: "authorid",
}
