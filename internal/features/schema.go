// Package features builds the fixed-order numeric vector a trained model
// consumes. The schema — the ordered field list — is the train/serve
// contract: the offline exporter and the serving path must emit identical
// columns, in identical order, from the same weight configuration.
package features

import (
	"fmt"
	"strings"

	"github.com/spboyer/prepscore/internal/weights"
)

// Variant selects one of the feature schema generations.
type Variant string

const (
	// VariantKeyword is the current schema: live counts, presence flags,
	// and one 0/1 flag per tracked skill keyword in lexicographic order.
	VariantKeyword Variant = "keyword-v2"

	// VariantCounts is the legacy schema: bare per-category counters with
	// no presence or keyword flags. Its num_projects column has no backing
	// entity and is always zero; it exists only so artifacts trained
	// against the old export remain loadable.
	VariantCounts Variant = "counts-v1"
)

// Base field names shared by schema variants.
const (
	FieldNumSkills         = "num_skills"
	FieldNumEducations     = "num_educations"
	FieldNumExperiences    = "num_experiences"
	FieldNumCertifications = "num_certifications"
	FieldNumProjects       = "num_projects"
	FieldHasBio            = "has_bio"
	FieldHasHeadline       = "has_headline"
	FieldHasLinkedIn       = "has_linkedin"
	FieldHasGitHub         = "has_github"
)

// Schema is an ordered list of feature field names tied to a variant.
type Schema struct {
	Variant Variant
	Fields  []string
}

// ParseVariant converts a config/flag value to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.TrimSpace(s)) {
	case VariantKeyword:
		return VariantKeyword, nil
	case VariantCounts:
		return VariantCounts, nil
	default:
		return "", fmt.Errorf("features: invalid schema variant %q: must be %s or %s",
			s, VariantKeyword, VariantCounts)
	}
}

// NewSchema derives the schema for a variant from the weight configuration.
// For VariantKeyword the keyword flags follow the tracked keywords in
// lexicographic order, so the same config always yields the same schema.
func NewSchema(v Variant, cfg *weights.Config) (Schema, error) {
	switch v {
	case VariantKeyword:
		fields := []string{
			FieldNumSkills,
			FieldNumEducations,
			FieldNumExperiences,
			FieldNumCertifications,
			FieldHasBio,
			FieldHasHeadline,
			FieldHasLinkedIn,
			FieldHasGitHub,
		}
		for _, kw := range cfg.TrackedKeywords() {
			fields = append(fields, KeywordField(kw))
		}
		return Schema{Variant: v, Fields: fields}, nil
	case VariantCounts:
		return Schema{Variant: v, Fields: []string{
			FieldNumSkills,
			FieldNumEducations,
			FieldNumExperiences,
			FieldNumProjects,
			FieldNumCertifications,
		}}, nil
	default:
		return Schema{}, fmt.Errorf("features: unknown schema variant %q", v)
	}
}

// KeywordField returns the flag column name for a tracked skill keyword.
func KeywordField(keyword string) string {
	return "has_skill_" + strings.ReplaceAll(keyword, " ", "_")
}

// Len returns the number of fields in the schema.
func (s Schema) Len() int { return len(s.Fields) }

// Matches reports whether the given field list equals this schema's
// fields, in order. This is the load-time compatibility check between a
// trained artifact and the serving-time builder.
func (s Schema) Matches(fields []string) bool {
	if len(fields) != len(s.Fields) {
		return false
	}
	for i, f := range fields {
		if f != s.Fields[i] {
			return false
		}
	}
	return true
}
