// Package analyze produces qualitative strength and weakness summaries
// from a profile snapshot. Unlike the scorers these are unranked and
// unscored — short statements for presentation alongside the score.
package analyze

import (
	"fmt"
	"unicode/utf8"

	"github.com/spboyer/prepscore/internal/profile"
)

const (
	strengthSkillBreadth  = 8
	weaknessSkillBreadth  = 5
	weaknessBioLength     = 100
	strengthEducationRows = 2
)

const (
	fallbackStrength = "Profile still developing — keep adding skills, education, and experience."
	fallbackWeakness = "No significant weak areas found."
)

// Strengths returns the profile's notable strong points. The list is
// never empty: a profile with no strengths gets a developing-profile note.
func Strengths(p *profile.Profile) []string {
	if p == nil {
		return []string{fallbackStrength}
	}

	var out []string
	if n := len(p.Experiences); n > 0 {
		out = append(out, fmt.Sprintf("Hands-on experience across %d role(s) shows practical ability.", n))
	}
	if len(p.Skills) >= strengthSkillBreadth {
		out = append(out, fmt.Sprintf("Broad skill set with %d listed skills.", len(p.Skills)))
	}
	if len(p.Certifications) > 0 {
		out = append(out, "Certifications back up your skills with recognized credentials.")
	}
	if len(p.Educations) >= strengthEducationRows {
		out = append(out, "Strong academic background with multiple qualifications.")
	}
	if p.HasBio() && p.HasHeadline() && p.HasLinkedIn() && p.HasGitHub() {
		out = append(out, "Complete professional presence: bio, headline, and both profile links.")
	}

	if len(out) == 0 {
		return []string{fallbackStrength}
	}
	return out
}

// Weaknesses returns the profile's notable gaps. The list is never empty:
// a profile with no gaps gets an all-clear note.
func Weaknesses(p *profile.Profile) []string {
	if p == nil {
		return []string{"No profile yet — everything is still ahead of you."}
	}

	var out []string
	if len(p.Experiences) == 0 {
		out = append(out, "No practical experience recorded yet.")
	}
	if len(p.Skills) < weaknessSkillBreadth {
		out = append(out, fmt.Sprintf("Skill list is narrow (%d of a recommended %d+).", len(p.Skills), weaknessSkillBreadth))
	}
	if len(p.Certifications) == 0 {
		out = append(out, "No certifications to independently validate your skills.")
	}
	if !p.HasBio() || utf8.RuneCountInString(p.Bio) < weaknessBioLength {
		out = append(out, "Bio is missing or too short to tell your story.")
	}
	if !p.HasLinkedIn() && !p.HasGitHub() {
		out = append(out, "No professional links — recruiters cannot find your online presence.")
	}

	if len(out) == 0 {
		return []string{fallbackWeakness}
	}
	return out
}
