package main

import (
	"fmt"
	"log/slog"

	"github.com/spboyer/prepscore/internal/assess"
	"github.com/spboyer/prepscore/internal/features"
	"github.com/spboyer/prepscore/internal/model"
	"github.com/spboyer/prepscore/internal/projectconfig"
	"github.com/spboyer/prepscore/internal/weights"
)

// runtime holds the scoring components shared by the commands, assembled
// from .prepscore.yaml with per-command flag overrides applied.
type runtime struct {
	project   *projectconfig.ProjectConfig
	cfg       *weights.Config
	builder   *features.Builder
	predictor *model.Predictor
	pipeline  *assess.Pipeline
}

// runtimeOverrides are flag values that take precedence over the project
// config. Empty strings mean "use the config file".
type runtimeOverrides struct {
	weightsPath string
	modelPath   string
	variant     string
	engine      string

	// skipModel leaves the predictor unloaded (commands that only need
	// the rule scorer).
	skipModel bool
}

func loadRuntime(o runtimeOverrides) (*runtime, error) {
	project, err := projectconfig.Load(".")
	if err != nil {
		return nil, err
	}

	weightsPath := project.Paths.Weights
	if o.weightsPath != "" {
		weightsPath = o.weightsPath
	}
	cfg, err := weights.Load(weightsPath)
	if err != nil {
		return nil, err
	}

	variantName := project.Scoring.Variant
	if o.variant != "" {
		variantName = o.variant
	}
	variant, err := features.ParseVariant(variantName)
	if err != nil {
		return nil, err
	}
	schema, err := features.NewSchema(variant, cfg)
	if err != nil {
		return nil, err
	}
	builder := features.NewBuilder(schema, cfg)

	engine := project.Scoring.Engine
	if o.engine != "" {
		engine = o.engine
	}
	if engine != assess.EngineRule && engine != assess.EngineModel {
		return nil, fmt.Errorf("unknown scoring engine %q (use %q or %q)", engine, assess.EngineRule, assess.EngineModel)
	}

	var predictor *model.Predictor
	if !o.skipModel {
		modelPath := project.Paths.Model
		if o.modelPath != "" {
			modelPath = o.modelPath
		}
		predictor, err = model.NewPredictor(modelPath, builder, cfg.Version(), slog.Default())
		if err != nil {
			return nil, err
		}
	}

	return &runtime{
		project:   project,
		cfg:       cfg,
		builder:   builder,
		predictor: predictor,
		pipeline:  assess.NewPipeline(cfg, predictor, engine, slog.Default()),
	}, nil
}
