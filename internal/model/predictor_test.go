package model

import (
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/spboyer/prepscore/internal/features"
	"github.com/spboyer/prepscore/internal/profile"
	"github.com/spboyer/prepscore/internal/scoring"
	"github.com/spboyer/prepscore/internal/weights"
	"github.com/stretchr/testify/require"
)

func testBuilder(t *testing.T) (*features.Builder, *weights.Config) {
	t.Helper()
	cfg := weights.New()
	schema, err := features.NewSchema(features.VariantKeyword, cfg)
	require.NoError(t, err)
	return features.NewBuilder(schema, cfg), cfg
}

// linearArtifact returns an artifact whose prediction is always the
// intercept (all coefficients zero).
func linearArtifact(schema features.Schema, configVersion string, intercept float64) *Artifact {
	return &Artifact{
		Kind:          KindLinear,
		SchemaVariant: string(schema.Variant),
		ConfigVersion: configVersion,
		Features:      append([]string(nil), schema.Fields...),
		Params: map[string]any{
			"intercept":    intercept,
			"coefficients": make([]float64, schema.Len()),
		},
	}
}

func writeArtifact(t *testing.T, name string, art *Artifact) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, WriteArtifact(path, art))
	return path
}

func populatedProfile() *profile.Profile {
	return &profile.Profile{
		Bio:         "I build things.",
		LinkedInURL: "https://linkedin.com/in/someone",
		Skills:      []profile.Skill{{Name: "python"}, {Name: "aws"}},
		Educations:  []profile.Education{{Degree: "B.Sc."}},
		Experiences: []profile.Experience{{Title: "Intern"}},
	}
}

func TestLoadArtifact_RoundTrip(t *testing.T) {
	builder, cfg := testBuilder(t)
	art := linearArtifact(builder.Schema(), cfg.Version(), 42)
	art.TrainedAt = "2026-08-01T00:00:00Z"
	art.TrainingRows = 2000

	for _, name := range []string{"model.json", "model.json.gz"} {
		path := writeArtifact(t, name, art)
		loaded, err := LoadArtifact(path)
		require.NoError(t, err, name)

		if loaded.Kind != KindLinear || loaded.ConfigVersion != cfg.Version() {
			t.Errorf("%s: unexpected artifact header: %+v", name, loaded)
		}
		require.Equal(t, art.Features, loaded.Features)
		if loaded.TrainingRows != 2000 {
			t.Errorf("%s: training_rows = %d", name, loaded.TrainingRows)
		}
	}
}

func TestLoadArtifact_RejectsInvalidDocuments(t *testing.T) {
	builder, cfg := testBuilder(t)

	missingKind := linearArtifact(builder.Schema(), cfg.Version(), 1)
	missingKind.Kind = ""
	badKind := linearArtifact(builder.Schema(), cfg.Version(), 1)
	badKind.Kind = "neural-net"
	noFeatures := linearArtifact(builder.Schema(), cfg.Version(), 1)
	noFeatures.Features = nil

	for name, art := range map[string]*Artifact{
		"missing-kind": missingKind,
		"bad-kind":     badKind,
		"no-features":  noFeatures,
	} {
		path := writeArtifact(t, name+".json", art)
		if _, err := LoadArtifact(path); err == nil {
			t.Errorf("%s: expected schema validation error", name)
		}
	}
}

func TestNewPredictor_MissingArtifactDegrades(t *testing.T) {
	builder, cfg := testBuilder(t)

	p, err := NewPredictor(filepath.Join(t.TempDir(), "nope.json"), builder, cfg.Version(), slog.Default())
	require.NoError(t, err, "missing artifact must not be fatal")

	if p.Available() {
		t.Fatal("predictor should be unavailable")
	}
	if p.LoadErr() == nil {
		t.Error("load error should be recorded")
	}

	// The learned scorer returns 0 while the rule scorer still works:
	// independent fallback behavior.
	prof := populatedProfile()
	if s := p.Predict(prof); s != 0 {
		t.Errorf("unavailable predictor returned %d, want 0", s)
	}
	if s := scoring.NewCalculator(cfg).Score(prof); s <= 0 {
		t.Errorf("rule score = %d, want > 0", s)
	}
}

func TestNewPredictor_EmptyPathDisables(t *testing.T) {
	builder, cfg := testBuilder(t)
	p, err := NewPredictor("", builder, cfg.Version(), nil)
	require.NoError(t, err)
	if p.Available() || p.LoadErr() != nil {
		t.Error("empty path should disable the scorer without a load error")
	}
}

func TestNewPredictor_SchemaMismatchIsFatal(t *testing.T) {
	builder, cfg := testBuilder(t)

	art := linearArtifact(builder.Schema(), cfg.Version(), 1)
	art.Features = append(art.Features[:0:0], art.Features...)
	art.Features[0], art.Features[1] = art.Features[1], art.Features[0]
	path := writeArtifact(t, "swapped.json", art)

	_, err := NewPredictor(path, builder, cfg.Version(), slog.Default())
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestNewPredictor_ConfigVersionMismatchIsFatal(t *testing.T) {
	builder, cfg := testBuilder(t)

	art := linearArtifact(builder.Schema(), "deadbeef0000", 1)
	path := writeArtifact(t, "stale.json", art)

	_, err := NewPredictor(path, builder, cfg.Version(), slog.Default())
	if !errors.Is(err, ErrConfigVersionMismatch) {
		t.Fatalf("expected ErrConfigVersionMismatch, got %v", err)
	}
}

func TestNewPredictor_CoefficientCountMismatch(t *testing.T) {
	builder, cfg := testBuilder(t)

	art := linearArtifact(builder.Schema(), cfg.Version(), 1)
	art.Params["coefficients"] = []float64{1, 2, 3}
	path := writeArtifact(t, "short.json", art)

	_, err := NewPredictor(path, builder, cfg.Version(), slog.Default())
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestPredict_EmptyProfileSkipsModel(t *testing.T) {
	builder, cfg := testBuilder(t)
	path := writeArtifact(t, "m.json", linearArtifact(builder.Schema(), cfg.Version(), 90))

	p, err := NewPredictor(path, builder, cfg.Version(), slog.Default())
	require.NoError(t, err)
	require.True(t, p.Available())

	if s := p.Predict(&profile.Profile{}); s != 0 {
		t.Errorf("empty profile predicted %d, want 0", s)
	}
	if s := p.Predict(nil); s != 0 {
		t.Errorf("nil profile predicted %d, want 0", s)
	}
}

func TestPredict_RoundClampAndFloor(t *testing.T) {
	builder, cfg := testBuilder(t)
	prof := populatedProfile()

	cases := []struct {
		intercept float64
		want      int
	}{
		{intercept: 61.4, want: 61},
		{intercept: 61.6, want: 62},
		{intercept: 250, want: 100},
		{intercept: 1.2, want: MinNonEmptyScore},
		{intercept: -40, want: MinNonEmptyScore},
	}
	for _, tc := range cases {
		path := writeArtifact(t, "m.json", linearArtifact(builder.Schema(), cfg.Version(), tc.intercept))
		p, err := NewPredictor(path, builder, cfg.Version(), slog.Default())
		require.NoError(t, err)

		if got := p.Predict(prof); got != tc.want {
			t.Errorf("intercept %.1f: predicted %d, want %d", tc.intercept, got, tc.want)
		}
	}
}

func TestPredict_ForestAveragesTrees(t *testing.T) {
	builder, cfg := testBuilder(t)

	// Tree 0 splits on num_experiences (index 2): <=0.5 predicts 20,
	// otherwise 60. Tree 1 is a constant 40 leaf.
	art := &Artifact{
		Kind:          KindForest,
		SchemaVariant: string(builder.Schema().Variant),
		ConfigVersion: cfg.Version(),
		Features:      builder.Schema().Fields,
		Params: map[string]any{
			"trees": []any{
				[]any{
					map[string]any{"feature": 2, "threshold": 0.5, "left": 1, "right": 2},
					map[string]any{"feature": -1, "threshold": 0, "left": -1, "right": -1, "value": 20},
					map[string]any{"feature": -1, "threshold": 0, "left": -1, "right": -1, "value": 60},
				},
				[]any{
					map[string]any{"feature": -1, "threshold": 0, "left": -1, "right": -1, "value": 40},
				},
			},
		},
	}
	path := writeArtifact(t, "forest.json", art)

	p, err := NewPredictor(path, builder, cfg.Version(), slog.Default())
	require.NoError(t, err)
	require.True(t, p.Available())

	withExp := populatedProfile()
	if s := p.Predict(withExp); s != 50 { // (60 + 40) / 2
		t.Errorf("predicted %d, want 50", s)
	}

	noExp := populatedProfile()
	noExp.Experiences = nil
	if s := p.Predict(noExp); s != 30 { // (20 + 40) / 2
		t.Errorf("predicted %d, want 30", s)
	}
}

func TestPredict_RuntimeFailureDegradesToZero(t *testing.T) {
	builder, cfg := testBuilder(t)

	// A tree referencing a feature index past the vector length fails at
	// prediction time, not load time.
	art := &Artifact{
		Kind:          KindForest,
		SchemaVariant: string(builder.Schema().Variant),
		ConfigVersion: cfg.Version(),
		Features:      builder.Schema().Fields,
		Params: map[string]any{
			"trees": []any{
				[]any{
					map[string]any{"feature": 99, "threshold": 0.5, "left": 1, "right": 2},
					map[string]any{"feature": -1, "threshold": 0, "left": -1, "right": -1, "value": 20},
					map[string]any{"feature": -1, "threshold": 0, "left": -1, "right": -1, "value": 60},
				},
			},
		},
	}
	path := writeArtifact(t, "broken.json", art)

	p, err := NewPredictor(path, builder, cfg.Version(), slog.Default())
	require.NoError(t, err)
	require.True(t, p.Available())

	if s := p.Predict(populatedProfile()); s != 0 {
		t.Errorf("degraded call returned %d, want 0", s)
	}
	if n := p.Degradations(); n != 1 {
		t.Errorf("degradation counter = %d, want 1", n)
	}

	// The process keeps serving: a second call degrades again, it does
	// not crash.
	_ = p.Predict(populatedProfile())
	if n := p.Degradations(); n != 2 {
		t.Errorf("degradation counter = %d, want 2", n)
	}
}
