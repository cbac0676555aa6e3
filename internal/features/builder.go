package features

import (
	"errors"

	"github.com/spboyer/prepscore/internal/profile"
	"github.com/spboyer/prepscore/internal/weights"
)

// ErrNilProfile is returned when Build is called without a profile.
var ErrNilProfile = errors.New("features: profile is nil")

// Builder converts profile snapshots into feature vectors for one schema.
// It holds no mutable state and is safe for concurrent use.
type Builder struct {
	schema Schema
	cfg    *weights.Config
}

// NewBuilder creates a Builder for the given schema and weight config.
// The config must be the same instance the schema was derived from.
func NewBuilder(schema Schema, cfg *weights.Config) *Builder {
	return &Builder{schema: schema, cfg: cfg}
}

// Schema returns the schema this builder emits.
func (b *Builder) Schema() Schema { return b.schema }

// Build produces the full feature vector for a profile snapshot. The
// result always has exactly Schema().Len() values in schema order; on any
// failure no partial vector is returned.
func (b *Builder) Build(p *profile.Profile) ([]float64, error) {
	if p == nil {
		return nil, ErrNilProfile
	}

	vec := make([]float64, 0, b.schema.Len())

	switch b.schema.Variant {
	case VariantCounts:
		vec = append(vec,
			float64(len(p.Skills)),
			float64(len(p.Educations)),
			float64(len(p.Experiences)),
			0, // num_projects: no backing entity
			float64(len(p.Certifications)),
		)
	default:
		vec = append(vec,
			float64(len(p.Skills)),
			float64(len(p.Educations)),
			float64(len(p.Experiences)),
			float64(len(p.Certifications)),
			boolFlag(p.HasBio()),
			boolFlag(p.HasHeadline()),
			boolFlag(p.HasLinkedIn()),
			boolFlag(p.HasGitHub()),
		)
		skillSet := p.SkillSet()
		for _, kw := range b.cfg.TrackedKeywords() {
			vec = append(vec, boolFlag(skillSet[kw]))
		}
	}

	return vec, nil
}

func boolFlag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
