package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewReposCmd creates the repos command.
func NewReposCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repos",
		Short: "List configured repositories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			urls, err := cfg.RepositoryURLs()
			if err != nil {
				return err
			}
			for _, u := range urls {
				fmt.Fprintln(cmd.OutOrStdout(), u.String())
			}
			return nil
		},
	}
}
