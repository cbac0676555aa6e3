package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spboyer/prepscore/internal/dataset"
	"github.com/spboyer/prepscore/internal/model"
)

func newValidateCommand() *cobra.Command {
	var (
		weightsPath  string
		variant      string
		modelPath    string
		trainingPath string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a model artifact or training file against the active configuration",
		Long: `Validate compatibility before serving or training.

Checks that a model artifact's feature list matches the active schema and
that it was trained under the current weight configuration. With
--training, also verifies a training CSV's column order so new rows can
be appended safely.

Exits 1 when a file is incompatible, 2 on configuration errors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(runtimeOverrides{
				weightsPath: weightsPath,
				variant:     variant,
				skipModel:   true,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			path := rt.project.Paths.Model
			if modelPath != "" {
				path = modelPath
			}
			if path != "" {
				predictor, err := model.NewPredictor(path, rt.builder, rt.cfg.Version(), nil)
				if err != nil {
					return &ValidationError{Message: fmt.Sprintf("model artifact %s: %v", path, err)}
				}
				if !predictor.Available() {
					return &ValidationError{Message: fmt.Sprintf("model artifact %s: %v", path, predictor.LoadErr())}
				}
				fmt.Fprintf(out, "model artifact %s: compatible (config version %s)\n", path, rt.cfg.Version()) //nolint:errcheck
			}

			if trainingPath != "" {
				if err := dataset.VerifyTrainingFile(trainingPath, rt.builder.Schema()); err != nil {
					return &ValidationError{Message: fmt.Sprintf("training file %s: %v", trainingPath, err)}
				}
				fmt.Fprintf(out, "training file %s: columns match the active schema\n", trainingPath) //nolint:errcheck
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&weightsPath, "weights", "", "Path to a YAML weights override file")
	cmd.Flags().StringVar(&variant, "variant", "", "Feature schema variant")
	cmd.Flags().StringVar(&modelPath, "model", "", "Path to a trained model artifact")
	cmd.Flags().StringVar(&trainingPath, "training", "", "Path to a training CSV to verify")

	return cmd
}
