package review

import "context"

type Repository interface {
	GetReview(context context.Context, id int) (*Review, error)
	CreateReview(context context.Context, r *Review) error
	UpdateReview(context context.Context, r *Review) error
	DeleteReview(context context.Context, id int) error
}
