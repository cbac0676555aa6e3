package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/spboyer/prepscore/internal/profile"
)

func newScoreCommand() *cobra.Command {
	var (
		weightsPath string
		modelPath   string
		engine      string
		variant     string
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "score <profile.json>",
		Short: "Score a profile snapshot",
		Long: `Score a profile snapshot stored as a JSON file.

Prints the readiness score, the per-category point breakdown, improvement
suggestions, and the strength/weakness analysis. The model engine requires
a trained artifact; when none is available it falls back to rule scoring.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(runtimeOverrides{
				weightsPath: weightsPath,
				modelPath:   modelPath,
				engine:      engine,
				variant:     variant,
			})
			if err != nil {
				return err
			}

			p, err := profile.LoadSnapshot(args[0])
			if err != nil {
				return err
			}

			assessment := rt.pipeline.Assess(p)

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(assessment)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Readiness score: %d/100 (%s engine)\n\n", assessment.Score, assessment.Engine) //nolint:errcheck

			fmt.Fprintln(out, "Breakdown:") //nolint:errcheck
			categories := make([]string, 0, len(assessment.Breakdown))
			for c := range assessment.Breakdown {
				categories = append(categories, c)
			}
			sort.Strings(categories)
			for _, c := range categories {
				fmt.Fprintf(out, "  %-16s %d\n", c, assessment.Breakdown[c]) //nolint:errcheck
			}

			fmt.Fprintln(out, "\nSuggestions:") //nolint:errcheck
			for i, s := range assessment.Suggestions {
				fmt.Fprintf(out, "  %d. %s\n", i+1, s) //nolint:errcheck
			}

			fmt.Fprintln(out, "\nStrengths:") //nolint:errcheck
			for _, s := range assessment.Strengths {
				fmt.Fprintf(out, "  + %s\n", s) //nolint:errcheck
			}

			fmt.Fprintln(out, "\nWeaknesses:") //nolint:errcheck
			for _, s := range assessment.Weaknesses {
				fmt.Fprintf(out, "  - %s\n", s) //nolint:errcheck
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&weightsPath, "weights", "", "Path to a YAML weights override file")
	cmd.Flags().StringVar(&modelPath, "model", "", "Path to a trained model artifact (.json or .json.gz)")
	cmd.Flags().StringVar(&engine, "engine", "", "Scoring engine: rule or model")
	cmd.Flags().StringVar(&variant, "variant", "", "Feature schema variant")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the assessment as JSON")

	return cmd
}
