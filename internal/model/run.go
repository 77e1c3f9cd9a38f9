package model

import "time"

// RunStatus represents the current state of a discovery run.
type RunStatus string

const (
	RunStatusNotStarted RunStatus = "not_started"
	RunStatusRunning    RunStatus = "running"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
)

// Run records one invocation of the discovery pipeline for audit history.
type Run struct {
	ID            string    `json:"id"`
	InputFile     string    `json:"input_file"`
	Roles         []string  `json:"roles"`
	Status        RunStatus `json:"status"`
	OrgsTotal     int       `json:"orgs_total"`
	OrgsProcessed int       `json:"orgs_processed"`
	ContactsFound int       `json:"contacts_found"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
