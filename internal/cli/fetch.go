package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/jploot/picomaven/internal/logger"
	"github.com/jploot/picomaven/pkg/config"
	"github.com/jploot/picomaven/pkg/download"
	"github.com/jploot/picomaven/pkg/httpclient"
	"github.com/jploot/picomaven/pkg/model"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	var (
		transitive  bool
		repoFlags   []string
		downloadDir string
		workers     int
	)

	cmd := &cobra.Command{
		Use:   "fetch [group:artifact:version[:classifier]...]",
		Short: "Resolve and download artifacts",
		Long: `Resolve the given artifact coordinates against the configured
repositories, download them into the local artifact tree, and report one
outcome per root. Without arguments the artifacts declared in the
configuration file are fetched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			initLogging(cfg)

			roots, err := rootsFromArgs(cfg, args, transitive)
			if err != nil {
				return err
			}
			if len(roots) == 0 {
				return fmt.Errorf("no artifacts given on the command line or in the config")
			}

			repos, err := cfg.RepositoryURLs()
			if err != nil {
				return err
			}
			for _, raw := range repoFlags {
				u, err := url.Parse(raw)
				if err != nil || u.Scheme == "" || u.Host == "" {
					return fmt.Errorf("invalid repository URL %q", raw)
				}
				repos = append(repos, u)
			}

			if downloadDir == "" {
				downloadDir = cfg.Settings.DownloadDir
			}
			if workers <= 0 {
				workers = cfg.Settings.Workers
			}

			client := httpclient.NewClient(cfg.Settings.HTTPTimeout, cfg.Settings.UserAgent)
			resolver := download.NewResolver(client, nil, workers)

			logger.Debugf("resolving %d root artifacts into %s", len(roots), downloadDir)
			results := resolver.Resolve(cmd.Context(), roots, repos, downloadDir)

			failed := reportResults(results)
			if failed > 0 {
				return fmt.Errorf("%d of %d artifacts failed", failed, len(results))
			}
			logger.Infof("resolved %d artifacts", len(results))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&transitive, "transitive", "t", true, "expand transitive dependencies")
	cmd.Flags().StringArrayVarP(&repoFlags, "repo", "r", nil, "additional repository base URL (repeatable)")
	cmd.Flags().StringVarP(&downloadDir, "output-dir", "d", "", "download root (default: from config)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent download bound (default: from config)")

	return cmd
}

// rootsFromArgs builds the root dependency list from command-line coordinates
// or, when none are given, from the config file.
func rootsFromArgs(cfg *config.Config, args []string, transitive bool) ([]model.Dependency, error) {
	if len(args) == 0 {
		return cfg.RootDependencies()
	}
	roots := make([]model.Dependency, 0, len(args))
	for _, arg := range args {
		coord, err := model.ParseCoordinate(arg)
		if err != nil {
			return nil, err
		}
		roots = append(roots, model.Dependency{Coordinate: coord, Transitive: transitive})
	}
	return roots, nil
}

// reportResults logs each outcome, recursing into transitive results, and
// returns the number of failed roots.
func reportResults(results []model.DownloadResult) int {
	failed := 0
	for _, res := range results {
		logResult(res, 0)
		if !res.Success {
			failed++
		}
	}
	return failed
}

func logResult(res model.DownloadResult, depth int) {
	fields := logger.Fields{"artifact": res.Dependency.String(), "path": res.Path}
	if depth > 0 {
		fields["depth"] = depth
	}
	if res.Success {
		logger.Info("downloaded", fields)
	} else {
		fields["error"] = res.Err.Error()
		logger.Error("failed", fields)
	}
	for _, child := range res.Transitive {
		logResult(child, depth+1)
	}
}
