// Package weights holds the skill weight configuration: the single source
// of truth for skill semantics shared by the feature builder, both scorers,
// the breakdown, and the recommendation engine. A Config is constructed
// once, treated as immutable, and identified by a deterministic version
// string so trained model artifacts can be tied to the exact table they
// were trained against.
package weights

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default point values. New() references them and no other code should
// duplicate them.
const (
	DefaultSkillScore = 3

	DefaultSkillBasePoints         = 5
	DefaultEducationBasePoints     = 20
	DefaultExperienceBasePoints    = 25
	DefaultCertificationBasePoints = 15
	DefaultCoreItemPoints          = 10
	DefaultKeywordSkillPoints      = 10

	DefaultSkillTarget         = 8
	DefaultEducationTarget     = 2
	DefaultExperienceTarget    = 3
	DefaultCertificationTarget = 3
	DefaultKeywordSkillTarget  = 5
	DefaultCoreItemTarget      = 3
)

// defaultSkillScores maps normalized skill keyword to its bonus weight.
// High-value skills score more; anything unlisted gets DefaultSkillScore.
var defaultSkillScores = map[string]int{
	"machine learning": 15,
	"data analysis":    12,
	"aws":              10,
	"azure":            10,
	"gcp":              10,
	"python":           10,
	"django":           8,
	"react":            8,
	"javascript":       7,
	"sql":              8,
	"git":              7,

	"project management": 10,
	"communication":      5,
	"leadership":         6,
	"problem solving":    5,
}

// BasePoints holds the flat per-item point value for each category.
type BasePoints struct {
	Skill         int `yaml:"skill,omitempty"`
	Education     int `yaml:"education,omitempty"`
	Experience    int `yaml:"experience,omitempty"`
	Certification int `yaml:"certification,omitempty"`
	CoreItem      int `yaml:"core_item,omitempty"`
	KeywordSkill  int `yaml:"keyword_skill,omitempty"`
}

// Targets holds the idealized "complete profile" quotas. They double as
// the per-category caps applied to actual counts.
type Targets struct {
	Skills         int `yaml:"skills,omitempty"`
	Educations     int `yaml:"educations,omitempty"`
	Experiences    int `yaml:"experiences,omitempty"`
	Certifications int `yaml:"certifications,omitempty"`
	KeywordSkills  int `yaml:"keyword_skills,omitempty"`
	CoreItems      int `yaml:"core_items,omitempty"`
}

// Config is the full skill weight configuration. Treat it as read-only
// after construction; every component receives the same instance.
type Config struct {
	SkillScores       map[string]int `yaml:"skill_scores,omitempty"`
	DefaultSkillScore int            `yaml:"default_skill_score,omitempty"`
	BasePoints        BasePoints     `yaml:"base_points,omitempty"`
	Targets           Targets        `yaml:"targets,omitempty"`
}

// New returns a Config populated with the default weight table.
func New() *Config {
	scores := make(map[string]int, len(defaultSkillScores))
	for k, v := range defaultSkillScores {
		scores[k] = v
	}
	return &Config{
		SkillScores:       scores,
		DefaultSkillScore: DefaultSkillScore,
		BasePoints: BasePoints{
			Skill:         DefaultSkillBasePoints,
			Education:     DefaultEducationBasePoints,
			Experience:    DefaultExperienceBasePoints,
			Certification: DefaultCertificationBasePoints,
			CoreItem:      DefaultCoreItemPoints,
			KeywordSkill:  DefaultKeywordSkillPoints,
		},
		Targets: Targets{
			Skills:         DefaultSkillTarget,
			Educations:     DefaultEducationTarget,
			Experiences:    DefaultExperienceTarget,
			Certifications: DefaultCertificationTarget,
			KeywordSkills:  DefaultKeywordSkillTarget,
			CoreItems:      DefaultCoreItemTarget,
		},
	}
}

// Load reads a YAML weights file and overlays it onto the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := New()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("weights: read %s: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("weights: parse %s: %w", path, err)
	}

	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// mergeConfig overlays non-zero values from src onto dst. Skill scores
// replace wholesale: a custom table is a new contract, not a patch.
func mergeConfig(dst, src *Config) {
	if len(src.SkillScores) > 0 {
		scores := make(map[string]int, len(src.SkillScores))
		for k, v := range src.SkillScores {
			scores[strings.Join(strings.Fields(strings.ToLower(k)), " ")] = v
		}
		dst.SkillScores = scores
	}
	if src.DefaultSkillScore != 0 {
		dst.DefaultSkillScore = src.DefaultSkillScore
	}

	if src.BasePoints.Skill != 0 {
		dst.BasePoints.Skill = src.BasePoints.Skill
	}
	if src.BasePoints.Education != 0 {
		dst.BasePoints.Education = src.BasePoints.Education
	}
	if src.BasePoints.Experience != 0 {
		dst.BasePoints.Experience = src.BasePoints.Experience
	}
	if src.BasePoints.Certification != 0 {
		dst.BasePoints.Certification = src.BasePoints.Certification
	}
	if src.BasePoints.CoreItem != 0 {
		dst.BasePoints.CoreItem = src.BasePoints.CoreItem
	}
	if src.BasePoints.KeywordSkill != 0 {
		dst.BasePoints.KeywordSkill = src.BasePoints.KeywordSkill
	}

	if src.Targets.Skills != 0 {
		dst.Targets.Skills = src.Targets.Skills
	}
	if src.Targets.Educations != 0 {
		dst.Targets.Educations = src.Targets.Educations
	}
	if src.Targets.Experiences != 0 {
		dst.Targets.Experiences = src.Targets.Experiences
	}
	if src.Targets.Certifications != 0 {
		dst.Targets.Certifications = src.Targets.Certifications
	}
	if src.Targets.KeywordSkills != 0 {
		dst.Targets.KeywordSkills = src.Targets.KeywordSkills
	}
	if src.Targets.CoreItems != 0 {
		dst.Targets.CoreItems = src.Targets.CoreItems
	}
}

// SkillWeight returns the configured weight for a normalized skill name,
// or the default weight when the skill is not tracked.
func (c *Config) SkillWeight(normalized string) int {
	if w, ok := c.SkillScores[normalized]; ok {
		return w
	}
	return c.DefaultSkillScore
}

// Tracked reports whether the normalized skill name appears in the table.
func (c *Config) Tracked(normalized string) bool {
	_, ok := c.SkillScores[normalized]
	return ok
}

// TrackedKeywords returns every tracked skill keyword in lexicographic
// order. This order is load-bearing: it fixes the keyword-flag portion of
// the feature schema.
func (c *Config) TrackedKeywords() []string {
	keywords := make([]string, 0, len(c.SkillScores))
	for k := range c.SkillScores {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)
	return keywords
}

// HighValueKeywords returns tracked keywords with weight >= minWeight,
// lexicographically ordered.
func (c *Config) HighValueKeywords(minWeight int) []string {
	var keywords []string
	for k, w := range c.SkillScores {
		if w >= minWeight {
			keywords = append(keywords, k)
		}
	}
	sort.Strings(keywords)
	return keywords
}

// Version returns a short deterministic identifier for this configuration.
// Any change to the weight table, base points, or targets produces a new
// version; model artifacts record the version they were trained against,
// and a mismatch at load time means the artifact is stale.
func (c *Config) Version() string {
	var b strings.Builder
	for _, k := range c.TrackedKeywords() {
		fmt.Fprintf(&b, "s:%s=%d\n", k, c.SkillScores[k])
	}
	fmt.Fprintf(&b, "d:%d\n", c.DefaultSkillScore)
	fmt.Fprintf(&b, "b:%d,%d,%d,%d,%d,%d\n",
		c.BasePoints.Skill, c.BasePoints.Education, c.BasePoints.Experience,
		c.BasePoints.Certification, c.BasePoints.CoreItem, c.BasePoints.KeywordSkill)
	fmt.Fprintf(&b, "t:%d,%d,%d,%d,%d,%d\n",
		c.Targets.Skills, c.Targets.Educations, c.Targets.Experiences,
		c.Targets.Certifications, c.Targets.KeywordSkills, c.Targets.CoreItems)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])[:12]
}
