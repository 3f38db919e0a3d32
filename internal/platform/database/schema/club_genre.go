package schema

// GenreTable represents the 'club.genre' table
type GenreTable struct {
	Table       string
	ID          string
	Name        string
	Description string
}

// Genre is the schema definition for club.genre
var Genre = GenreTable{
	Table:       "club.genre",
	ID:          "id",
	Name:        "name",
	Description: "description",
}
