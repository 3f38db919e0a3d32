package schema

// MemberTable represents the 'club.member' table
type MemberTable struct {
	Table    string
	ID       string
	Name     string
	Email    string
	JoinDate string
	Phone    string
	Role     string
	Bio      string
	IsActive string
}

// Member is the schema definition for club.member
var Member = MemberTable{
	Table:    "club.member",
	ID:       "id",
	Name:     "name",
	Email:    "email",
	JoinDate: "joindate",
	Phone:    "phone",
	Role:     "role",
	Bio:      "bio",
	IsActive: "isactive",
}
