package domain

import "strings"

// Member is a club member owned by the membership subsystem.
type Member struct {
	ID        int64
	FirstName string
	LastName  string
}

// String renders the member the way the club admin displays it.
func (m Member) String() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}
