package schema

// BookMeetingTable represents the 'club.bookmeeting' junction table
type BookMeetingTable struct {
	Table     string
	BookID    string
	MeetingID string
}

// BookMeeting is the schema definition for club.bookmeeting
var BookMeeting = BookMeetingTable{
	Table:     "club.bookmeeting",
	BookID:    "bookid",
	MeetingID: "meetingid",
}
