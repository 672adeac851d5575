package models

// ChangelogDateLayout renders dates as "January 2, 2006"
const ChangelogDateLayout = "January 2, 2006"

// ChangelogEntry is one commit as shown on the changelog timeline
type ChangelogEntry struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	RepoLink string `json:"repoLink"`
	Summary  string `json:"summary"`
}
