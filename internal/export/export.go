// Package export builds the training CSV from stored profiles. Each row
// is the profile's feature vector labeled with its rule-based score, so
// the offline training job sees exactly what the serving path computes.
package export

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/spboyer/prepscore/internal/dataset"
	"github.com/spboyer/prepscore/internal/features"
	"github.com/spboyer/prepscore/internal/scoring"
	"github.com/spboyer/prepscore/internal/store"
)

// Options configures a training export run.
type Options struct {
	OutputPath string
	Workers    int
	Append     bool
	Logger     *slog.Logger
}

// Result summarizes a completed export.
type Result struct {
	Rows       int
	OutputPath string
}

// Run walks every profile in the store, builds its feature vector and
// rule-based label in parallel, and writes the training CSV. Rows keep
// profile-id order regardless of worker scheduling, so repeated exports
// of the same database are byte-identical.
func Run(ctx context.Context, st *store.Store, builder *features.Builder, calc *scoring.Calculator, opts Options) (*Result, error) {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ids, err := st.ProfileIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	logger.Info("exporting training data", "profiles", len(ids), "workers", opts.Workers, "output", opts.OutputPath)

	examples := make([]dataset.Example, len(ids))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Workers)
	for i, id := range ids {
		eg.Go(func() error {
			p, err := st.LoadProfile(egCtx, id)
			if err != nil {
				return fmt.Errorf("export: profile %d: %w", id, err)
			}
			vector, err := builder.Build(p)
			if err != nil {
				return fmt.Errorf("export: features for profile %d: %w", id, err)
			}
			examples[i] = dataset.Example{
				Features: vector,
				Target:   calc.Score(p),
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if err := dataset.WriteTraining(opts.OutputPath, builder.Schema(), examples, opts.Append); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return &Result{Rows: len(examples), OutputPath: opts.OutputPath}, nil
}
