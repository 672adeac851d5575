package models

const (
	ShareTypeMain   = "main"
	ShareTypeCommit = "commit"
)

// ShareableRoast describes a roast the user wants to post
type ShareableRoast struct {
	Content     string `json:"content" binding:"required"`
	RepoName    string `json:"repoName"`
	CommitTitle string `json:"commitTitle"`
	CommitDate  string `json:"commitDate"`
	Type        string `json:"type"`
}

// ShareLink is the ready-to-post text and the intent URL that carries it
type ShareLink struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

func (r *ShareableRoast) Validate() error {
	switch r.Type {
	case "":
		r.Type = ShareTypeMain
	case ShareTypeMain, ShareTypeCommit:
	default:
		return &ValidationError{Field: "type", Message: "Share type must be 'main' or 'commit'"}
	}
	return nil
}
