package models

import "time"

type AssignmentRole string

const (
	RoleExecutor AssignmentRole = "Executor"
)

// Assignment links a specialist to a project. Created only as a side
// effect of a bid acceptance; cancelling an approval deactivates it
// instead of deleting the row.
type Assignment struct {
	ProjectId    string         `json:"projectId"`
	SpecialistId string         `json:"specialistId"`
	Role         AssignmentRole `json:"role"`
	Active       bool           `json:"active"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"-"`
}
