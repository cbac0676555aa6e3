package model

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spboyer/prepscore/internal/features"
	"github.com/spboyer/prepscore/internal/profile"
)

// MinNonEmptyScore is the floor applied to predictions for profiles with
// any recorded content, guarding against degenerate near-zero predictions
// on sparse-but-nonempty profiles.
const MinNonEmptyScore = 5

var (
	// ErrSchemaMismatch means the artifact's feature list disagrees with
	// the serving-time builder. This is a configuration error: scoring
	// with misaligned columns would be silently wrong, so it fails startup.
	ErrSchemaMismatch = errors.New("model: artifact feature schema does not match builder schema")

	// ErrConfigVersionMismatch means the artifact was trained against a
	// different weight configuration and must be retrained.
	ErrConfigVersionMismatch = errors.New("model: artifact weight configuration version mismatch")
)

// regressor is the prediction half of a loaded artifact.
type regressor interface {
	predict(vec []float64) (float64, error)
}

// linearParams holds ordinary least squares style coefficients, one per
// schema field.
type linearParams struct {
	Intercept    float64   `mapstructure:"intercept"`
	Coefficients []float64 `mapstructure:"coefficients"`
}

func (m *linearParams) predict(vec []float64) (float64, error) {
	if len(vec) != len(m.Coefficients) {
		return 0, fmt.Errorf("model: vector has %d values, model expects %d", len(vec), len(m.Coefficients))
	}
	raw := m.Intercept
	for i, c := range m.Coefficients {
		raw += c * vec[i]
	}
	return raw, nil
}

// treeNode is one node of a flattened decision tree. Left/Right are node
// indexes; a node with Left < 0 is a leaf and Value is its prediction.
type treeNode struct {
	Feature   int     `mapstructure:"feature"`
	Threshold float64 `mapstructure:"threshold"`
	Left      int     `mapstructure:"left"`
	Right     int     `mapstructure:"right"`
	Value     float64 `mapstructure:"value"`
}

// forestParams holds an ensemble of flattened regression trees, matching
// the offline random-forest export. The prediction is the mean of the
// per-tree leaf values.
type forestParams struct {
	Trees [][]treeNode `mapstructure:"trees"`
}

func (m *forestParams) predict(vec []float64) (float64, error) {
	if len(m.Trees) == 0 {
		return 0, errors.New("model: forest has no trees")
	}
	sum := 0.0
	for ti, tree := range m.Trees {
		v, err := evalTree(tree, vec)
		if err != nil {
			return 0, fmt.Errorf("model: tree %d: %w", ti, err)
		}
		sum += v
	}
	return sum / float64(len(m.Trees)), nil
}

func evalTree(tree []treeNode, vec []float64) (float64, error) {
	if len(tree) == 0 {
		return 0, errors.New("empty tree")
	}
	i := 0
	for steps := 0; steps <= len(tree); steps++ {
		n := tree[i]
		if n.Left < 0 {
			return n.Value, nil
		}
		if n.Feature < 0 || n.Feature >= len(vec) {
			return 0, fmt.Errorf("node %d references feature %d, vector has %d", i, n.Feature, len(vec))
		}
		next := n.Right
		if vec[n.Feature] <= n.Threshold {
			next = n.Left
		}
		if next < 0 || next >= len(tree) {
			return 0, fmt.Errorf("node %d has out-of-range child %d", i, next)
		}
		i = next
	}
	return 0, errors.New("tree walk did not terminate (cycle?)")
}

// newRegressor checks artifact compatibility against the serving schema
// and weight-config version, then decodes the kind-specific parameters.
func newRegressor(art *Artifact, schema features.Schema, configVersion string) (regressor, error) {
	if art.SchemaVariant != string(schema.Variant) || !schema.Matches(art.Features) {
		return nil, fmt.Errorf("%w: artifact declares %d fields (variant %s), builder emits %d (variant %s)",
			ErrSchemaMismatch, len(art.Features), art.SchemaVariant, schema.Len(), schema.Variant)
	}
	if art.ConfigVersion != configVersion {
		return nil, fmt.Errorf("%w: artifact trained against %s, active configuration is %s",
			ErrConfigVersionMismatch, art.ConfigVersion, configVersion)
	}

	switch art.Kind {
	case KindLinear:
		var p linearParams
		if err := mapstructure.Decode(art.Params, &p); err != nil {
			return nil, fmt.Errorf("model: decoding linear params: %w", err)
		}
		if len(p.Coefficients) != schema.Len() {
			return nil, fmt.Errorf("%w: %d coefficients for %d features",
				ErrSchemaMismatch, len(p.Coefficients), schema.Len())
		}
		return &p, nil
	case KindForest:
		var p forestParams
		if err := mapstructure.Decode(art.Params, &p); err != nil {
			return nil, fmt.Errorf("model: decoding forest params: %w", err)
		}
		if len(p.Trees) == 0 {
			return nil, errors.New("model: forest artifact has no trees")
		}
		return &p, nil
	default:
		return nil, fmt.Errorf("model: unknown artifact kind %q", art.Kind)
	}
}

// Predictor serves scores from a loaded model artifact. It is constructed
// once at process start; after construction it is immutable apart from the
// degradation counter and safe for concurrent use.
type Predictor struct {
	builder      *features.Builder
	reg          regressor
	loadErr      error
	logger       *slog.Logger
	degradations atomic.Int64
}

// NewPredictor loads the artifact at path and binds it to the builder.
//
// A missing or unparsable artifact is not fatal: the predictor comes up
// in the unavailable state (logged once) and every prediction returns 0.
// Schema or configuration-version mismatches are returned as errors so
// the hosting process can refuse to start with a misaligned model.
// An empty path disables the learned scorer without logging a warning.
func NewPredictor(path string, builder *features.Builder, configVersion string, logger *slog.Logger) (*Predictor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Predictor{builder: builder, logger: logger}

	if path == "" {
		logger.Info("no model artifact configured, learned scorer disabled")
		return p, nil
	}

	art, err := LoadArtifact(path)
	if err != nil {
		p.loadErr = err
		logger.Warn("model artifact unavailable, learned scorer disabled",
			"path", path, "error", err)
		return p, nil
	}

	reg, err := newRegressor(art, builder.Schema(), configVersion)
	if err != nil {
		if errors.Is(err, ErrSchemaMismatch) || errors.Is(err, ErrConfigVersionMismatch) {
			return nil, err
		}
		p.loadErr = err
		logger.Warn("model artifact rejected, learned scorer disabled",
			"path", path, "error", err)
		return p, nil
	}

	p.reg = reg
	logger.Info("model artifact loaded",
		"path", path, "kind", art.Kind,
		"features", len(art.Features), "config_version", art.ConfigVersion)
	return p, nil
}

// Available reports whether a model was loaded successfully.
func (p *Predictor) Available() bool { return p.reg != nil }

// LoadErr returns the load failure that left the predictor unavailable,
// if any.
func (p *Predictor) LoadErr() error { return p.loadErr }

// Degradations returns how many prediction calls have degraded to zero
// because of runtime failures.
func (p *Predictor) Degradations() int64 { return p.degradations.Load() }

// Predict scores a profile with the loaded model. It never fails past the
// caller: an empty profile or unavailable model returns 0, and any runtime
// prediction failure degrades that single call to 0 (logged and counted).
// Nonzero predictions are rounded, clamped to [0, 100], and floored at
// MinNonEmptyScore for profiles with recorded content.
func (p *Predictor) Predict(prof *profile.Profile) int {
	if prof == nil || prof.IsEmpty() {
		return 0
	}
	if p.reg == nil {
		return 0
	}

	vec, err := p.builder.Build(prof)
	if err != nil {
		return p.degrade("building feature vector", err)
	}

	raw, err := p.reg.predict(vec)
	if err != nil {
		return p.degrade("prediction", err)
	}

	score := int(math.Round(raw))
	if score > 100 {
		score = 100
	}
	if score < MinNonEmptyScore {
		score = MinNonEmptyScore
	}
	return score
}

func (p *Predictor) degrade(stage string, err error) int {
	p.degradations.Add(1)
	p.logger.Warn("model scoring degraded to 0", "stage", stage, "error", err)
	return 0
}
