package main

import (
	"fmt"

	"github.com/ratemygit/ratemygit/internal/models"
	"github.com/ratemygit/ratemygit/internal/services"
	"github.com/ratemygit/ratemygit/pkg/config"
	"github.com/spf13/cobra"
)

func roastCmd() *cobra.Command {
	var rating, model, username string

	cmd := &cobra.Command{
		Use:   "roast [github-url]",
		Short: "Roast a GitHub profile, repository or commit from the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.AppConfig

			githubRepoService, err := services.NewGitHubRepositoryService(cfg.GitHub.APIURL, cfg.GitHub.Token)
			if err != nil {
				return err
			}
			llmService := services.NewLLMServiceFromConfig(cfg.LLM)
			roastService := services.NewRoastService(githubRepoService, llmService, services.NewRoastCache(cfg.RoastCacheTTL()))

			req := &models.RoastRequest{
				CommitURL:   args[0],
				Username:    username,
				RatingLevel: models.RatingLevel(rating),
				Model:       model,
			}
			if err := req.Validate(); err != nil {
				return err
			}

			response, _, err := roastService.Roast(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n\n%s\n\n", response.Tweet, response.DeepRoast)
			fmt.Fprintf(out, "(%s roast by %s in %dms)\n", response.Type, response.Model, response.DurationMs)
			return nil
		},
	}
	cmd.Flags().StringVarP(&rating, "rating", "r", string(models.DefaultRatingLevel), "Rating level: G, PG, R or Unhinged")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model to use, e.g. claude-3-haiku-20240307 or gpt-4o")
	cmd.Flags().StringVarP(&username, "username", "u", "", "Profile to use for commit roasts (defaults to the repository owner)")
	return cmd
}
