package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ratemygit/ratemygit/internal/models"
)

const (
	// MaxPatchLength is the patch size above which only the edges are sent
	MaxPatchLength = 8000
	// PatchEdgeLines is how many lines are kept at each end of a long patch
	PatchEdgeLines = 100
)

var roastLabel = regexp.MustCompile(`(?i)^\s*(?:\*\*)?(?:line\s*[12]|tweet|short roast|deep roast|long roast|roast)\s*(?:\*\*)?\s*[:\-]\s*(?:\*\*)?\s*`)

// TruncatePatch keeps the first and last PatchEdgeLines lines of a patch longer than
// MaxPatchLength characters, with a marker line in between. Shorter patches are
// returned unchanged.
func TruncatePatch(patch string) string {
	if utf8.RuneCountInString(patch) <= MaxPatchLength {
		return patch
	}

	lines := strings.Split(patch, "\n")
	if len(lines) <= 2*PatchEdgeLines {
		// Few, very long lines: cut by characters instead
		runes := []rune(patch)
		return string(runes[:MaxPatchLength]) + "\n" + truncationMarker(len(runes)-MaxPatchLength, "characters")
	}

	omitted := len(lines) - 2*PatchEdgeLines
	kept := make([]string, 0, 2*PatchEdgeLines+1)
	kept = append(kept, lines[:PatchEdgeLines]...)
	kept = append(kept, truncationMarker(omitted, "lines"))
	kept = append(kept, lines[len(lines)-PatchEdgeLines:]...)
	return strings.Join(kept, "\n")
}

func truncationMarker(omitted int, unit string) string {
	return fmt.Sprintf("... [patch truncated: %d %s omitted] ...", omitted, unit)
}

// ParseRoastOutput splits raw model output into the tweet and the deep roast.
// The first non-blank line is the tweet and the remaining lines are the deep roast.
func ParseRoastOutput(raw string) (string, string) {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(roastLabel.ReplaceAllString(line, ""))
		if line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		return "", ""
	}

	tweet := TruncateTweet(trimQuotes(lines[0]))
	deep := strings.Join(lines[1:], "\n")
	if deep == "" {
		deep = tweet
	}
	return tweet, trimQuotes(deep)
}

// TruncateTweet shortens s to MaxTweetLength characters, ending with an ellipsis
func TruncateTweet(s string) string {
	if utf8.RuneCountInString(s) <= models.MaxTweetLength {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:models.MaxTweetLength-3])) + "..."
}

func trimQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
