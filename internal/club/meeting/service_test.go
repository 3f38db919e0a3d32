package meeting_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagebound/bookclub/internal/club/meeting"
	"github.com/pagebound/bookclub/internal/platform/apperr"
	"github.com/pagebound/bookclub/pkg/pointer"
)

// fakeRepository is an in-memory Repository test double.
type fakeRepository struct {
	created      *meeting.Meeting
	replacedID   int
	replacedWith meeting.Associations
}

func (f *fakeRepository) ListMeetings(context.Context, int, int) ([]*meeting.Meeting, int, error) {
	return nil, 0, nil
}

func (f *fakeRepository) GetMeeting(context.Context, int) (*meeting.Meeting, error) {
	return nil, apperr.NotFound("Meeting")
}

func (f *fakeRepository) CreateMeeting(_ context.Context, m *meeting.Meeting) error {
	m.ID = 1
	f.created = m
	return nil
}

func (f *fakeRepository) UpdateMeeting(context.Context, *meeting.Meeting) error { return nil }

func (f *fakeRepository) ReplaceAssociations(_ context.Context, id int, a meeting.Associations) error {
	f.replacedID = id
	f.replacedWith = a
	return nil
}

func (f *fakeRepository) DeleteMeeting(context.Context, int) error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestCreateMeeting verifies the required date rule and association id checks.
Location is optional and may be omitted entirely.
*/
func TestCreateMeeting(t *testing.T) {
	date := time.Date(2026, 9, 15, 19, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		repo := &fakeRepository{}
		service := meeting.NewService(repo, discardLogger())

		input := &meeting.Meeting{Date: date, Location: pointer.To("Community Library"), BookIDs: []int{1, 2}}
		require.NoError(t, service.CreateMeeting(context.Background(), input))
		require.NotNil(t, repo.created)
	})

	t.Run("no_location", func(t *testing.T) {
		repo := &fakeRepository{}
		service := meeting.NewService(repo, discardLogger())

		require.NoError(t, service.CreateMeeting(context.Background(), &meeting.Meeting{Date: date}))
		require.NotNil(t, repo.created)
		assert.Nil(t, repo.created.Location)
	})

	tests := []struct {
		name  string
		input *meeting.Meeting
	}{
		{"missing_date", &meeting.Meeting{Location: pointer.To("Community Library")}},
		{"negative_book_id", &meeting.Meeting{Date: date, BookIDs: []int{-1}}},
		{"zero_member_id", &meeting.Meeting{Date: date, MemberIDs: []int{0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := meeting.NewService(&fakeRepository{}, discardLogger())

			err := service.CreateMeeting(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

/*
TestReplaceAssociations verifies id validation and that empty sets are
passed through to clear the links.
*/
func TestReplaceAssociations(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		repo := &fakeRepository{}
		service := meeting.NewService(repo, discardLogger())

		associations := meeting.Associations{BookIDs: []int{3}, MemberIDs: []int{5, 6}}
		require.NoError(t, service.ReplaceAssociations(context.Background(), 2, associations))

		assert.Equal(t, 2, repo.replacedID)
		assert.Equal(t, associations, repo.replacedWith)
	})

	t.Run("empty_sets_clear", func(t *testing.T) {
		repo := &fakeRepository{}
		service := meeting.NewService(repo, discardLogger())

		require.NoError(t, service.ReplaceAssociations(context.Background(), 2, meeting.Associations{
			BookIDs:   []int{},
			MemberIDs: []int{},
		}))
		assert.Equal(t, 2, repo.replacedID)
	})

	t.Run("invalid_id", func(t *testing.T) {
		service := meeting.NewService(&fakeRepository{}, discardLogger())

		err := service.ReplaceAssociations(context.Background(), 2, meeting.Associations{BookIDs: []int{0}})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}
