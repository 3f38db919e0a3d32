package schema

// BookTable represents the 'club.book' table
type BookTable struct {
	Table           string
	ID              string
	Title           string
	Slug            string
	PublicationYear string
	PageCount       string
	ISBN            string
	GenreID         string
	ReviewCount     string
	Description     string
	CoverImageURL   string
	IsAvailable     string
}

// Book is the schema definition for club.book
var Book = BookTable{
	Table:           "club.book",
	ID:              "id",
	Title:           "title",
	Slug:            "slug",
	PublicationYear: "publicationyear",
	PageCount:       "pagecount",
	ISBN:            "isbn",
	GenreID:         "genreid",
	ReviewCount:     "reviewcount",
	Description:     "description",
	CoverImageURL:   "coverimageurl",
	IsAvailable:     "isavailable",
}

func (t BookTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.PublicationYear, t.PageCount, t.ISBN,
		t.GenreID, t.ReviewCount, t.Description, t.CoverImageURL, t.IsAvailable,
	}
}
