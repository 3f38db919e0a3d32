package genre

// Genre classifies books into a single literary category.
type Genre struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// Global field names for validation
const (
	FieldName        = "name"
	FieldDescription = "description"
)
