package schema

// MeetingTable represents the 'club.meeting' table
type MeetingTable struct {
	Table    string
	ID       string
	Date     string
	Location string
	Notes    string
}

// Meeting is the schema definition for club.meeting
var Meeting = MeetingTable{
	Table:    "club.meeting",
	ID:       "id",
	Date:     "date",
	Location: "location",
	Notes:    "notes",
}
