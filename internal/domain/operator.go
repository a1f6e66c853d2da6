package domain

import "time"

// OperatorRole enumerates staff roles allowed to use the admin API.
type OperatorRole string

const (
	OperatorRoleStaff OperatorRole = "STAFF"
	OperatorRoleAdmin OperatorRole = "ADMIN"
)

// Operator is a club staff account that drives the badge flow.
type Operator struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         OperatorRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
