package schema

// AuthorTable represents the 'club.author' table
type AuthorTable struct {
	Table       string
	ID          string
	Name        string
	BirthDate   string
	Nationality string
}

// Author is the schema definition for club.author
var Author = AuthorTable{
	Table:       "club.author",
	ID:          "id",
	Name:        "name",
	BirthDate:   "birthdate",
	Nationality: "nationality",
}
