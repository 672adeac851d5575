package services

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"
	"text/template"

	"github.com/google/go-github/v57/github"
	"github.com/ratemygit/ratemygit/internal/models"
)

const roastSystemPrompt = `You are RateMyGit, a comedian who roasts developers based on their GitHub activity.
Roast the work, never the person's identity: no slurs, no jokes about protected characteristics.`

const roastOutputContract = `Answer with exactly two lines and nothing else:
Line 1: a tweet-sized roast of at most 280 characters.
Line 2: a deeper roast of 3-5 sentences that references concrete details above.
Do not label the lines.`

var ratingTones = map[models.RatingLevel]string{
	models.RatingG:        "Rating G: keep it wholesome and playful. Gentle teasing only, no profanity, nothing mean.",
	models.RatingPG:       "Rating PG: light sarcasm and snark. Mild language at most, no profanity.",
	models.RatingR:        "Rating R: brutal and blunt. Profanity is fine, pull no punches on the code and habits.",
	models.RatingUnhinged: "Rating Unhinged: completely feral. Swear freely, escalate absurdly, be merciless about the code.",
}

var roastTemplates = template.Must(template.New("roast").Parse(`{{define "commit"}}{{.Tone}}

Roast this commit by {{.Username}} in {{.Owner}}/{{.Repo}}.

Author profile:
{{.Profile}}

Patch:
{{.Patch}}

{{.Contract}}{{end}}
{{define "profile"}}{{.Tone}}

Roast the GitHub user {{.Username}}.

Profile:
{{.Profile}}

Recently pushed repositories:
{{range .Repositories}}- {{.}}
{{else}}(none)
{{end}}
{{.Contract}}{{end}}
{{define "repository"}}{{.Tone}}

Roast the repository {{.Owner}}/{{.Repo}}.

Repository:
{{.Repository}}

Recent commits:
{{range .Commits}}- {{.}}
{{else}}(none)
{{end}}
{{.Contract}}{{end}}`))

// roastPromptData feeds the roast templates
type roastPromptData struct {
	Tone         string
	Contract     string
	Owner        string
	Repo         string
	Username     string
	Profile      string
	Patch        string
	Repository   string
	Repositories []string
	Commits      []string
}

func renderRoastPrompt(roastType models.RoastType, rating models.RatingLevel, data roastPromptData) (string, error) {
	data.Tone = ratingTones[rating]
	data.Contract = roastOutputContract

	var buf bytes.Buffer
	if err := roastTemplates.ExecuteTemplate(&buf, string(roastType), data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", roastType, err)
	}
	return buf.String(), nil
}

func describeProfile(user *github.User) string {
	if user == nil {
		return "(unavailable)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "login: %s\n", user.GetLogin())
	fmt.Fprintf(&b, "name: %s\n", orNone(user.GetName()))
	fmt.Fprintf(&b, "type: %s\n", user.GetType())
	fmt.Fprintf(&b, "bio: %s\n", orNone(user.GetBio()))
	fmt.Fprintf(&b, "company: %s\n", orNone(user.GetCompany()))
	fmt.Fprintf(&b, "location: %s\n", orNone(user.GetLocation()))
	fmt.Fprintf(&b, "public repos: %d, followers: %d, following: %d\n",
		user.GetPublicRepos(), user.GetFollowers(), user.GetFollowing())
	if created := user.GetCreatedAt(); !created.IsZero() {
		fmt.Fprintf(&b, "joined: %s\n", created.Format("2006-01-02"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func describeRepository(repo *github.Repository) string {
	var b strings.Builder
	fmt.Fprintf(&b, "name: %s\n", repo.GetFullName())
	fmt.Fprintf(&b, "description: %s\n", orNone(repo.GetDescription()))
	fmt.Fprintf(&b, "language: %s\n", orNone(repo.GetLanguage()))
	fmt.Fprintf(&b, "stars: %d, forks: %d, open issues: %d\n",
		repo.GetStargazersCount(), repo.GetForksCount(), repo.GetOpenIssuesCount())
	if len(repo.Topics) > 0 {
		fmt.Fprintf(&b, "topics: %s\n", strings.Join(repo.Topics, ", "))
	}
	if pushed := repo.GetPushedAt(); !pushed.IsZero() {
		fmt.Fprintf(&b, "last push: %s\n", pushed.Format("2006-01-02"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func describeRepositoryLine(repo *github.Repository) string {
	language := repo.GetLanguage()
	if language == "" {
		language = "unknown language"
	}
	line := fmt.Sprintf("%s (%s, %d stars)", repo.GetName(), language, repo.GetStargazersCount())
	if desc := repo.GetDescription(); desc != "" {
		line += ": " + desc
	}
	return line
}

func describeCommitLine(commit *github.RepositoryCommit) string {
	message, _, _ := strings.Cut(commit.GetCommit().GetMessage(), "\n")
	author := commit.GetCommit().GetAuthor().GetName()
	if author == "" {
		author = commit.GetAuthor().GetLogin()
	}
	if author == "" {
		author = "unknown"
	}
	return fmt.Sprintf("%s %s (%s)", shortSHA(commit.GetSHA()), strings.TrimSpace(message), author)
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}

// quickRoastStyles vary the voice of the single-line commit roast
var quickRoastStyles = []string{
	"You are a brutally honest code reviewer. Roast this commit in 1-2 savage sentences. Be blunt and call out bad commit habits.",
	"You are a burned-out senior developer. Give a harsh but funny 1-2 sentence roast of this commit. Be direct, skip filler words.",
	"You are a no-nonsense reviewer. Deliver a short, cutting roast in 1-2 sentences. Brutal, funny, no hedging.",
	"You are a furious git purist. Give a savage 1-2 sentence takedown of this commit. Merciless, no filler.",
	"You are a fed-up maintainer. Roast this commit in 1-2 sentences. Be savage and avoid repetitive openers like 'ah' or 'oh'.",
}

func renderQuickRoastPrompt(commitHistory string, pick func(n int) int) string {
	style := quickRoastStyles[pick(len(quickRoastStyles))]
	return fmt.Sprintf("%s\n\nCommit:\n%s\n\nRoast (1-2 sentences max):", style, commitHistory)
}

// summaryStyles and summaryEmojiSets vary the changelog summaries
var summaryStyles = []string{
	"Create a brief, clean changelog from this git history. Keep it short and organized with simple bullet points and emojis. Only the most important changes.",
	"Generate a concise development summary from these commits. Use bullet points with relevant emojis and highlight key features and fixes.",
	"Turn this commit history into a readable changelog with emojis and bullet points. Focus on user-facing changes and important technical updates.",
	"Write a developer-friendly summary of these commits as emoji bullet points. Emphasize the most significant changes.",
	"Build a tidy changelog from this git history using emojis and bullets. Features, fixes and notable changes only.",
}

var summaryEmojiSets = [][]string{
	{"🚀", "🐛", "✨", "🔧", "📝", "🎨", "⚡", "🔒"},
	{"🌟", "🛠️", "💡", "🔥", "📦", "🎯", "⭐", "🚨"},
	{"✅", "🎉", "🔨", "💫", "📊", "🎪", "⚙️", "🌈"},
	{"🚧", "💎", "🎭", "🔮", "📈", "🎨", "⚡", "🌸"},
}

func renderSummaryPrompt(commitHistory string, pick func(n int) int) string {
	style := summaryStyles[pick(len(summaryStyles))]
	emojis := summaryEmojiSets[pick(len(summaryEmojiSets))]
	return fmt.Sprintf("%s Choose from these emojis: %s\n\nCommit history:\n%s\n\nBrief changelog (max 4-5 bullet points):",
		style, strings.Join(emojis, " "), commitHistory)
}

func randomPick(n int) int {
	return rand.Intn(n)
}
