// Package assess runs the full readiness assessment: score, breakdown,
// suggestions, and strength/weakness analysis in one pass.
package assess

import (
	"log/slog"

	"github.com/spboyer/prepscore/internal/analyze"
	"github.com/spboyer/prepscore/internal/model"
	"github.com/spboyer/prepscore/internal/profile"
	"github.com/spboyer/prepscore/internal/recommend"
	"github.com/spboyer/prepscore/internal/scoring"
	"github.com/spboyer/prepscore/internal/weights"
)

// Scoring engine names as reported in Assessment.Engine.
const (
	EngineRule  = "rule"
	EngineModel = "model"
)

// Assessment is the complete result for one profile.
type Assessment struct {
	Score       int            `json:"score"`
	Engine      string         `json:"engine"`
	Breakdown   map[string]int `json:"breakdown"`
	Suggestions []string       `json:"suggestions"`
	Strengths   []string       `json:"strengths"`
	Weaknesses  []string       `json:"weaknesses"`
}

// Pipeline wires the rule calculator, the optional learned predictor,
// and the recommendation engine behind one entry point. The predictor
// may be nil or unavailable; the pipeline then serves rule scores only.
type Pipeline struct {
	calc      *scoring.Calculator
	predictor *model.Predictor
	engine    *recommend.Engine
	preferred string
	logger    *slog.Logger
}

// NewPipeline builds a pipeline for one weight configuration. preferred
// selects the scoring engine (EngineRule or EngineModel); a predictor
// that is nil or unavailable forces rule scoring regardless.
func NewPipeline(cfg *weights.Config, predictor *model.Predictor, preferred string, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		calc:      scoring.NewCalculator(cfg),
		predictor: predictor,
		engine:    recommend.NewEngine(cfg),
		preferred: preferred,
		logger:    logger,
	}
}

// Assess scores the profile and assembles the full assessment. It never
// returns an error: a degraded model falls back to the rule scorer, and
// nil profiles produce the onboarding assessment.
func (pl *Pipeline) Assess(p *profile.Profile) Assessment {
	score, engine := pl.score(p)
	return Assessment{
		Score:       score,
		Engine:      engine,
		Breakdown:   pl.calc.Breakdown(p),
		Suggestions: pl.engine.Suggest(p, score),
		Strengths:   analyze.Strengths(p),
		Weaknesses:  analyze.Weaknesses(p),
	}
}

func (pl *Pipeline) score(p *profile.Profile) (int, string) {
	if pl.preferred == EngineModel && pl.predictor != nil && pl.predictor.Available() {
		if p != nil && !p.IsEmpty() {
			if s := pl.predictor.Predict(p); s > 0 {
				return s, EngineModel
			}
			// A populated profile predicting 0 means the call degraded;
			// the rule scorer covers it.
			pl.logger.Warn("model prediction degraded, falling back to rule scorer")
		}
	}
	return pl.calc.Score(p), EngineRule
}
