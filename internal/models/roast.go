package models

import (
	"fmt"
	"strings"
)

// MaxTweetLength bounds the short half of every roast
const MaxTweetLength = 280

// RatingLevel is the harshness dial for roast generation
type RatingLevel string

const (
	RatingG        RatingLevel = "G"
	RatingPG       RatingLevel = "PG"
	RatingR        RatingLevel = "R"
	RatingUnhinged RatingLevel = "Unhinged"
)

// DefaultRatingLevel is used when a request leaves the rating empty
const DefaultRatingLevel = RatingPG

var ratingLevels = []RatingLevel{RatingG, RatingPG, RatingR, RatingUnhinged}

func (r RatingLevel) Valid() bool {
	for _, level := range ratingLevels {
		if r == level {
			return true
		}
	}
	return false
}

// RoastType is what a GitHub URL points at
type RoastType string

const (
	RoastTypeCommit     RoastType = "commit"
	RoastTypeProfile    RoastType = "profile"
	RoastTypeRepository RoastType = "repository"
)

// RoastTarget is a classified GitHub URL
type RoastTarget struct {
	Type  RoastType
	Owner string
	Repo  string
	SHA   string
}

// ResourceID identifies the roasted resource independently of URL spelling
func (t RoastTarget) ResourceID() string {
	owner := strings.ToLower(t.Owner)
	repo := strings.ToLower(t.Repo)
	switch t.Type {
	case RoastTypeCommit:
		return fmt.Sprintf("commit:%s/%s@%s", owner, repo, strings.ToLower(t.SHA))
	case RoastTypeRepository:
		return fmt.Sprintf("repository:%s/%s", owner, repo)
	default:
		return fmt.Sprintf("profile:%s", owner)
	}
}

// RoastRequest is the body of POST /api/roast.
// CommitHistory selects the quick single-line roast used by the commit dialog.
type RoastRequest struct {
	CommitURL     string      `json:"commitUrl"`
	Username      string      `json:"username"`
	RatingLevel   RatingLevel `json:"ratingLevel"`
	Model         string      `json:"model"`
	CommitHistory string      `json:"commitHistory"`
}

// IsQuick reports whether the request asks for the quick roast
func (r *RoastRequest) IsQuick() bool {
	return strings.TrimSpace(r.CommitURL) == "" && strings.TrimSpace(r.CommitHistory) != ""
}

// Validate normalizes the request and checks it
func (r *RoastRequest) Validate() error {
	r.CommitURL = strings.TrimSpace(r.CommitURL)
	r.Username = strings.TrimSpace(r.Username)
	r.Model = strings.TrimSpace(r.Model)

	if r.CommitURL == "" && strings.TrimSpace(r.CommitHistory) == "" {
		return &ValidationError{Field: "commitUrl", Message: "A GitHub URL is required"}
	}

	if r.IsQuick() && r.RatingLevel == "" {
		return nil
	}
	if !r.RatingLevel.Valid() {
		return &ValidationError{
			Field:   "ratingLevel",
			Message: "Invalid rating level. Must be one of: G, PG, R, Unhinged",
		}
	}

	return nil
}

// RoastResponse is a generated two-part roast
type RoastResponse struct {
	Tweet      string    `json:"tweet"`
	DeepRoast  string    `json:"deepRoast"`
	Model      string    `json:"model"`
	DurationMs int64     `json:"durationMs"`
	Type       RoastType `json:"type"`
}
