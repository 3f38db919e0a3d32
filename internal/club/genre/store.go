package genre

import "context"

type Repository interface {
	ListGenres(context context.Context, limit, offset int) ([]*Genre, int, error)
	GetGenre(context context.Context, id int) (*Genre, error)
	CreateGenre(context context.Context, g *Genre) error
	UpdateGenre(context context.Context, g *Genre) error
	DeleteGenre(context context.Context, id int) error
}
