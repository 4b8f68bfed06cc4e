package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"moviebuddy/internal/services"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info <title>",
		Short: "Fetch OMDb metadata for a title",
		Long: `Look up a single title on OMDb. Failures print the placeholder record
rather than an error, matching what the API and recommend output show.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := ctx.newLogger(cfg, true)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			fetcher, err := newFetcher(cfg, logger)
			if err != nil {
				return err
			}

			title := args[0]
			record := fetcher.FetchInfo(services.WithTitle(cmd.Context(), title), title)
			if asJSON {
				return writeJSON(cmd, record)
			}
			rows := [][]string{
				{"Title", title},
				{"Year", record.Year},
				{"Rating", record.Rating},
				{"Genre", record.Genre},
				{"Poster", record.PosterURL},
				{"Link", record.DetailURL},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil, shouldColorize(cmd.OutOrStdout())))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
