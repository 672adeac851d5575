package services

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ratemygit/ratemygit/internal/models"
)

const (
	// maxShareLength leaves room for the link card and hashtags
	maxShareLength = 240
	shareHeader    = "🔥 Just got roasted by RateMyGit! Here's what AI thinks of my commits:\n\n"
	shareSuffix    = "\n\nGet your commits roasted at ratemygit.com #GitRoast #CodeReview"
	tweetIntentURL = "https://twitter.com/intent/tweet"
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

type ShareService struct{}

func NewShareService() *ShareService {
	return &ShareService{}
}

// FormatShareText builds the post text: header, optional context, the roast cut to fit,
// and the suffix
func (s *ShareService) FormatShareText(roast *models.ShareableRoast) string {
	content := strings.TrimSpace(htmlTag.ReplaceAllString(roast.Content, ""))

	text := shareHeader
	switch {
	case roast.Type == models.ShareTypeCommit && roast.CommitTitle != "":
		text += `"` + roast.CommitTitle + `"` + "\n\n"
	case roast.Type == models.ShareTypeMain && roast.RepoName != "":
		text += "Repo: " + roast.RepoName + "\n\n"
	}

	remaining := maxShareLength - utf8.RuneCountInString(text) - utf8.RuneCountInString(shareSuffix)
	if utf8.RuneCountInString(content) > remaining {
		if remaining > 3 {
			content = string([]rune(content)[:remaining-3]) + "..."
		} else {
			content = ""
		}
	}

	return text + content + shareSuffix
}

// ShareLink returns the post text and the intent URL that pre-fills it
func (s *ShareService) ShareLink(roast *models.ShareableRoast) models.ShareLink {
	text := s.FormatShareText(roast)
	return models.ShareLink{
		Text: text,
		URL:  tweetIntentURL + "?text=" + url.QueryEscape(text),
	}
}
