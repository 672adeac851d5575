package models

import (
	"time"
)

// RepositorySummary is the reshaped subset of a GitHub repository the UI needs
type RepositorySummary struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Private     bool      `json:"private"`
	Description *string   `json:"description"`
	HTMLURL     string    `json:"html_url"`
	UpdatedAt   time.Time `json:"updated_at"`
}
