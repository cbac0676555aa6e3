// Package scoring implements the transparent rule-based readiness scorer.
// It is a pure function of a profile snapshot and the weight configuration:
// no storage, no network. The offline training export labels every row with
// this scorer, making it the single definition of ground truth.
package scoring

import (
	"math"
	"sort"

	"github.com/spboyer/prepscore/internal/profile"
	"github.com/spboyer/prepscore/internal/weights"
)

// Category names used in the contribution breakdown.
const (
	CategorySkills         = "skills"
	CategoryEducation      = "education"
	CategoryExperience     = "experience"
	CategoryCertifications = "certifications"
	CategoryProfileDetails = "profile-details"
)

// Calculator computes rule-based scores against one weight configuration.
// Safe for concurrent use.
type Calculator struct {
	cfg *weights.Config
}

// NewCalculator creates a Calculator bound to the given configuration.
func NewCalculator(cfg *weights.Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Score returns the readiness percentage in [0, 100] for a profile.
// A nil profile scores 0: callers that need to distinguish "no profile"
// from "empty profile" check before scoring.
func (c *Calculator) Score(p *profile.Profile) int {
	if p == nil {
		return 0
	}
	maxPoints := c.MaxPossiblePoints()
	if maxPoints == 0 {
		return 0
	}

	_, current := c.points(p)
	score := int(math.Round(float64(current) / float64(maxPoints) * 100))
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// Breakdown returns the points each category contributed to the profile's
// current total. The values always sum to the currentPoints Score used
// internally; both come from the same pass over the profile.
func (c *Calculator) Breakdown(p *profile.Profile) map[string]int {
	if p == nil {
		return map[string]int{
			CategorySkills:         0,
			CategoryEducation:      0,
			CategoryExperience:     0,
			CategoryCertifications: 0,
			CategoryProfileDetails: 0,
		}
	}
	breakdown, _ := c.points(p)
	return breakdown
}

// CurrentPoints returns the profile's raw point total before percentage
// normalization. Exposed for the offline export and tests.
func (c *Calculator) CurrentPoints(p *profile.Profile) int {
	if p == nil {
		return 0
	}
	_, total := c.points(p)
	return total
}

// MaxPossiblePoints evaluates the scoring formula at the target quotas:
// the point total of an idealized complete profile.
func (c *Calculator) MaxPossiblePoints() int {
	b, t := c.cfg.BasePoints, c.cfg.Targets
	return t.CoreItems*b.CoreItem +
		t.Skills*b.Skill +
		t.Educations*b.Education +
		t.Experiences*b.Experience +
		t.Certifications*b.Certification +
		t.KeywordSkills*b.KeywordSkill
}

// points is the one shared computation behind Score, Breakdown, and
// CurrentPoints, keeping the displayed breakdown mechanically in sync
// with the score.
func (c *Calculator) points(p *profile.Profile) (map[string]int, int) {
	b, t := c.cfg.BasePoints, c.cfg.Targets

	skillPts := capped(len(p.Skills), t.Skills)*b.Skill + c.keywordBonus(p)
	eduPts := capped(len(p.Educations), t.Educations) * b.Education
	expPts := capped(len(p.Experiences), t.Experiences) * b.Experience
	certPts := capped(len(p.Certifications), t.Certifications) * b.Certification

	coreItems := 0
	if p.HasBio() {
		coreItems++
	}
	if p.HasLinkedIn() {
		coreItems++
	}
	if p.HasGitHub() {
		coreItems++
	}
	corePts := capped(coreItems, t.CoreItems) * b.CoreItem

	breakdown := map[string]int{
		CategorySkills:         skillPts,
		CategoryEducation:      eduPts,
		CategoryExperience:     expPts,
		CategoryCertifications: certPts,
		CategoryProfileDetails: corePts,
	}
	return breakdown, skillPts + eduPts + expPts + certPts + corePts
}

// keywordBonus sums each distinct skill's configured weight (default for
// unmapped skills), counting only the highest-weight contributions up to
// the keyword-skill target. Ties break lexicographically so the bonus is
// deterministic for any skill set.
func (c *Calculator) keywordBonus(p *profile.Profile) int {
	type contrib struct {
		name   string
		weight int
	}

	set := p.SkillSet()
	contribs := make([]contrib, 0, len(set))
	for name := range set {
		contribs = append(contribs, contrib{name: name, weight: c.cfg.SkillWeight(name)})
	}
	sort.Slice(contribs, func(i, j int) bool {
		if contribs[i].weight != contribs[j].weight {
			return contribs[i].weight > contribs[j].weight
		}
		return contribs[i].name < contribs[j].name
	})

	limit := c.cfg.Targets.KeywordSkills
	if limit > len(contribs) {
		limit = len(contribs)
	}

	total := 0
	for _, ct := range contribs[:limit] {
		total += ct.weight
	}
	return total
}

func capped(count, limit int) int {
	if count > limit {
		return limit
	}
	return count
}
