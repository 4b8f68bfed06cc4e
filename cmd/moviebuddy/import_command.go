package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"moviebuddy/internal/artifacts"
	"moviebuddy/internal/config"
	"moviebuddy/internal/logging"
	"moviebuddy/internal/store"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var titlesPath string
	var similarityPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import artifact files into the SQLite store",
		Long: `Validate the titles and similarity files and write them to
artifacts.database_file. Set artifacts.source = "sqlite" to load from the
store afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := ctx.newLogger(cfg, true)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			if titlesPath == "" {
				titlesPath = cfg.Artifacts.TitlesFile
			} else if titlesPath, err = config.ExpandPath(titlesPath); err != nil {
				return err
			}
			if similarityPath == "" {
				similarityPath = cfg.Artifacts.SimilarityFile
			} else if similarityPath, err = config.ExpandPath(similarityPath); err != nil {
				return err
			}

			cat, m, err := artifacts.Load(titlesPath, similarityPath)
			if err != nil {
				return fmt.Errorf("load artifacts: %w", err)
			}

			lock, err := store.AcquireLock(cfg.LockPath())
			if err != nil {
				return err
			}
			defer func() { _ = lock.Release() }()

			s, err := store.Open(cfg.Artifacts.DatabaseFile)
			if err != nil {
				return fmt.Errorf("open artifact store: %w", err)
			}
			defer s.Close()

			if err := s.Import(cmd.Context(), cat, m); err != nil {
				return fmt.Errorf("import artifacts: %w", err)
			}
			logger.Info("artifacts imported",
				logging.String("database", s.Path()),
				logging.Int("titles", cat.Len()),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d titles into %s\n", cat.Len(), s.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&titlesPath, "titles", "", "Titles file (.json or .csv); default artifacts.titles_file")
	cmd.Flags().StringVar(&similarityPath, "similarity", "", "Similarity matrix file (.json); default artifacts.similarity_file")
	return cmd
}
