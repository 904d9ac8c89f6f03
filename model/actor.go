package model

type Role string

const ROLE_ADMIN Role = "admin"
const ROLE_MANAGER Role = "manager"
const ROLE_EMPLOYEE Role = "employee"

// Actor is the authenticated identity every workflow operation runs as.
// Authentication itself happens outside the engine, the engine only checks
// role and identity equality against stored assignee and initiator fields.
type Actor struct {
	Id   string `json:"id"`
	Role Role   `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == ROLE_ADMIN
}
