package dashboard

import "context"

// Totals holds the raw table counts behind the dashboard.
type Totals struct {
	Books    int
	Members  int
	Meetings int
	Reviews  int
}

type Repository interface {
	GetTotals(context context.Context) (Totals, error)
	MostActiveMembers(context context.Context, limit int) ([]ActiveMember, error)
}
