package book

import "context"

// Repository is the storage contract for the book catalogue.
//
// List returns every row matching the filter, ordered by ascending id, fully
// hydrated. Sorting and paging happen in the service layer because the
// primary sort key (average rating) is derived from the hydrated reviews
// rather than stored in a column.
type Repository interface {
	List(context context.Context, f Filter) ([]*Book, error)
	FindByID(context context.Context, id int) (*Book, error)
	FindBySlug(context context.Context, slug string) (*Book, error)
	Create(context context.Context, b *Book) error
	Update(context context.Context, b *Book) error
	Delete(context context.Context, id int) error
}
