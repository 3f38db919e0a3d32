package schema

// MemberMeetingTable represents the 'club.membermeeting' junction table
type MemberMeetingTable struct {
	Table     string
	MemberID  string
	MeetingID string
}

// MemberMeeting is the schema definition for club.membermeeting
var MemberMeeting = MemberMeetingTable{
	Table:     "club.membermeeting",
	MemberID:  "memberid",
	MeetingID: "meetingid",
}
