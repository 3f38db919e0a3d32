package member

import "context"

type Repository interface {
	ListMembers(context context.Context, f Filter, limit, offset int) ([]*Member, int, error)
	GetMember(context context.Context, id int) (*Member, error)
	CreateMember(context context.Context, m *Member) error
	UpdateMember(context context.Context, m *Member) error
	DeleteMember(context context.Context, id int) error
}
