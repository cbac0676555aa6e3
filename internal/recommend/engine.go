// Package recommend turns a profile snapshot and its final score into a
// short, prioritized list of improvement suggestions.
package recommend

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/spboyer/prepscore/internal/profile"
	"github.com/spboyer/prepscore/internal/weights"
)

const (
	// MaxSuggestions caps the returned list.
	MaxSuggestions = 3

	// HighScoreThreshold short-circuits to congratulations only.
	HighScoreThreshold = 95

	// MinBioLength is the bio length, in characters, below which
	// expansion is suggested.
	MinBioLength = 100

	// MinSkillBreadth is the skill count below which broadening is suggested.
	MinSkillBreadth = 5

	// HighValueWeight marks a tracked keyword as high-value for the
	// missing-skill rule.
	HighValueWeight = 10
)

var congratulations = []string{
	"Congratulations — your readiness score puts you in the top tier!",
	"Your profile is outstanding. Keep it updated with your latest achievements.",
}

const (
	onboardingSuggestion = "Start by building your profile! Add your skills, education, and any experience you have."
	wellRoundedFallback  = "Your profile is very well-rounded! Consider adding more detail to your experience descriptions to push your score higher."
)

// Engine evaluates the suggestion rule set against one weight
// configuration. The rules are fully deterministic: the missing
// high-value skill rule picks the heaviest missing keyword, breaking
// ties lexicographically, rather than sampling at random.
type Engine struct {
	cfg *weights.Config
}

// NewEngine creates an Engine bound to the given configuration.
func NewEngine(cfg *weights.Config) *Engine {
	return &Engine{cfg: cfg}
}

// candidate pairs a rule's priority (1 = most impactful) with its text.
type candidate struct {
	priority int
	text     string
}

// Suggest returns an ordered list of 1 to MaxSuggestions suggestions for
// the profile and its final score. The list is never empty.
func (e *Engine) Suggest(p *profile.Profile, score int) []string {
	if score >= HighScoreThreshold {
		return append([]string(nil), congratulations...)
	}
	if p == nil {
		return []string{onboardingSuggestion}
	}

	var candidates []candidate
	add := func(priority int, text string) {
		candidates = append(candidates, candidate{priority: priority, text: text})
	}

	switch len(p.Experiences) {
	case 0:
		add(1, "Practical experience is crucial. Consider seeking an internship or starting a personal project on GitHub.")
	case 1:
		add(6, "One experience entry is a good start — a second internship or project makes your track record much stronger.")
	}

	if missing, ok := e.missingHighValueSkill(p); ok {
		add(2, fmt.Sprintf("Learning '%s' would add one of the most in-demand skills to your profile.", missing))
	}

	if !p.HasBio() || utf8.RuneCountInString(p.Bio) < MinBioLength {
		add(3, "Expand on your bio. A detailed professional summary helps recruiters understand your goals.")
	}

	if !p.HasGitHub() {
		add(4, "Add your GitHub profile URL to showcase your projects and coding skills.")
	}

	if len(p.Skills) < MinSkillBreadth {
		add(5, fmt.Sprintf("Broaden your skill list — aim for at least %d skills across technical and soft categories.", MinSkillBreadth))
	}

	if len(candidates) == 0 {
		return []string{wellRoundedFallback}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].priority < candidates[j].priority
	})

	seen := make(map[string]bool, len(candidates))
	suggestions := make([]string, 0, MaxSuggestions)
	for _, c := range candidates {
		if seen[c.text] {
			continue
		}
		seen[c.text] = true
		suggestions = append(suggestions, c.text)
		if len(suggestions) == MaxSuggestions {
			break
		}
	}
	return suggestions
}

// missingHighValueSkill returns the heaviest high-value keyword absent
// from the profile's skill set. Ties break lexicographically, which
// HighValueKeywords' ordering already guarantees.
func (e *Engine) missingHighValueSkill(p *profile.Profile) (string, bool) {
	skillSet := p.SkillSet()

	best := ""
	bestWeight := 0
	for _, kw := range e.cfg.HighValueKeywords(HighValueWeight) {
		if skillSet[kw] {
			continue
		}
		if w := e.cfg.SkillWeight(kw); w > bestWeight {
			best, bestWeight = kw, w
		}
	}
	return best, best != ""
}
