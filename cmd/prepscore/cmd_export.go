package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/spboyer/prepscore/internal/export"
	"github.com/spboyer/prepscore/internal/scoring"
	"github.com/spboyer/prepscore/internal/store"
)

func newExportCommand() *cobra.Command {
	var (
		weightsPath  string
		variant      string
		databasePath string
		outputPath   string
		workers      int
		appendMode   bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export training data from stored profiles",
		Long: `Export a training CSV from every profile in the database.

Each row is the profile's feature vector labeled with its rule-based
score. The column order follows the feature schema with target_score
last; appending to an existing file verifies the columns first so mixed
schemas can never end up in one file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(runtimeOverrides{
				weightsPath: weightsPath,
				variant:     variant,
				skipModel:   true,
			})
			if err != nil {
				return err
			}

			dbPath := rt.project.Paths.Database
			if databasePath != "" {
				dbPath = databasePath
			}
			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			opts := export.Options{
				OutputPath: rt.project.Paths.Output,
				Workers:    rt.project.Export.Workers,
				Append:     rt.project.Export.Append != nil && *rt.project.Export.Append,
				Logger:     slog.Default(),
			}
			if outputPath != "" {
				opts.OutputPath = outputPath
			}
			if workers > 0 {
				opts.Workers = workers
			}
			if cmd.Flags().Changed("append") {
				opts.Append = appendMode
			}

			res, err := export.Run(cmd.Context(), st, rt.builder, scoring.NewCalculator(rt.cfg), opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", res.Rows, res.OutputPath) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().StringVar(&weightsPath, "weights", "", "Path to a YAML weights override file")
	cmd.Flags().StringVar(&variant, "variant", "", "Feature schema variant")
	cmd.Flags().StringVar(&databasePath, "database", "", "Path to the profile database")
	cmd.Flags().StringVar(&outputPath, "output", "", "Path for the training CSV")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of parallel export workers")
	cmd.Flags().BoolVar(&appendMode, "append", false, "Append to an existing training file")

	return cmd
}
