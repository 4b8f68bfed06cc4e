package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTitlesCommand(ctx *commandContext) *cobra.Command {
	var search string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "titles",
		Short: "List catalog titles",
		Long: `List catalog titles in artifact order. --search filters case-insensitively;
when nothing contains the search text the closest titles are shown instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cat, _, err := loadArtifacts(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			titles := cat.Search(search, limit)
			if len(titles) == 0 && search != "" {
				suggestLimit := limit
				if suggestLimit <= 0 {
					suggestLimit = cfg.Recommend.Suggestions
				}
				titles = cat.Suggest(search, suggestLimit)
			}
			if asJSON {
				if titles == nil {
					titles = []string{}
				}
				return writeJSON(cmd, map[string][]string{"titles": titles})
			}
			out := cmd.OutOrStdout()
			for _, title := range titles {
				fmt.Fprintln(out, title)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show titles containing this text")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of titles (0 = all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
