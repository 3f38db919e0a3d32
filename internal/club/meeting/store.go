package meeting

import "context"

type Repository interface {
	ListMeetings(context context.Context, limit, offset int) ([]*Meeting, int, error)
	GetMeeting(context context.Context, id int) (*Meeting, error)
	CreateMeeting(context context.Context, m *Meeting) error
	UpdateMeeting(context context.Context, m *Meeting) error
	ReplaceAssociations(context context.Context, meetingID int, a Associations) error
	DeleteMeeting(context context.Context, id int) error
}
