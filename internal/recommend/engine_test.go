package recommend

import (
	"strings"
	"testing"

	"github.com/spboyer/prepscore/internal/profile"
	"github.com/spboyer/prepscore/internal/weights"
	"github.com/stretchr/testify/require"
)

func allHighValueProfile() *profile.Profile {
	p := &profile.Profile{
		Bio:       strings.Repeat("a detailed professional summary ", 5),
		GitHubURL: "https://github.com/someone",
	}
	for _, kw := range weights.New().HighValueKeywords(HighValueWeight) {
		p.Skills = append(p.Skills, profile.Skill{Name: kw})
	}
	p.Experiences = []profile.Experience{{Title: "a"}, {Title: "b"}}
	return p
}

func TestSuggest_NeverEmptyNeverMoreThanThree(t *testing.T) {
	engine := NewEngine(weights.New())

	profiles := []*profile.Profile{
		nil,
		{},
		{Skills: []profile.Skill{{Name: "git"}}},
		allHighValueProfile(),
	}
	for _, p := range profiles {
		for _, score := range []int{0, 40, 94, 95, 100} {
			got := engine.Suggest(p, score)
			if len(got) == 0 {
				t.Errorf("score %d: empty suggestion list", score)
			}
			if len(got) > MaxSuggestions {
				t.Errorf("score %d: %d suggestions, max is %d", score, len(got), MaxSuggestions)
			}
		}
	}
}

func TestSuggest_HighScoreShortCircuits(t *testing.T) {
	engine := NewEngine(weights.New())

	// Even a completely empty profile gets only congratulations once the
	// score clears the threshold.
	got := engine.Suggest(&profile.Profile{}, HighScoreThreshold)
	require.Equal(t, congratulations, got)

	got = engine.Suggest(nil, 100)
	require.Equal(t, congratulations, got)
}

func TestSuggest_NilProfileOnboarding(t *testing.T) {
	engine := NewEngine(weights.New())
	got := engine.Suggest(nil, 0)
	require.Equal(t, []string{onboardingSuggestion}, got)
}

func TestSuggest_ZeroExperienceIsTopPriority(t *testing.T) {
	engine := NewEngine(weights.New())
	got := engine.Suggest(&profile.Profile{}, 10)

	require.NotEmpty(t, got)
	if !strings.Contains(got[0], "Practical experience") {
		t.Errorf("first suggestion should be the experience rule, got %q", got[0])
	}
	if len(got) != MaxSuggestions {
		t.Errorf("empty profile fires many rules, expected a full list, got %d", len(got))
	}
}

func TestSuggest_GitHubRuleFires(t *testing.T) {
	engine := NewEngine(weights.New())

	// The documented scenario: skills python/django/aws, bio and linkedin
	// present, github absent.
	p := &profile.Profile{
		Bio:         strings.Repeat("backend systems and data pipelines ", 4),
		LinkedInURL: "https://linkedin.com/in/someone",
		Skills: []profile.Skill{
			{Name: "python"}, {Name: "django"}, {Name: "aws"},
		},
		Educations:  []profile.Education{{Degree: "B.Sc."}, {Degree: "M.Sc."}},
		Experiences: []profile.Experience{{Title: "Intern"}},
	}

	got := engine.Suggest(p, 46)
	found := false
	for _, s := range got {
		if strings.Contains(s, "GitHub profile URL") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a GitHub suggestion, got %v", got)
	}
}

func TestSuggest_MissingHighValueSkillPolicy(t *testing.T) {
	engine := NewEngine(weights.New())

	// Machine learning (15) is the heaviest keyword; with it absent it
	// must be the one suggested.
	p := allHighValueProfile()
	var kept []profile.Skill
	for _, s := range p.Skills {
		if s.Name != "machine learning" {
			kept = append(kept, s)
		}
	}
	p.Skills = kept

	got := engine.Suggest(p, 70)
	found := false
	for _, s := range got {
		if strings.Contains(s, "'machine learning'") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected machine learning suggestion, got %v", got)
	}
}

func TestSuggest_BioLengthCountsCharactersNotBytes(t *testing.T) {
	engine := NewEngine(weights.New())

	// 60 characters but 120 bytes; still below the 100-character minimum.
	p := allHighValueProfile()
	p.Bio = strings.Repeat("é", 60)

	got := engine.Suggest(p, 70)
	require.Len(t, got, 1)
	if !strings.Contains(got[0], "Expand on your bio") {
		t.Errorf("expected the bio rule for a short non-ASCII bio, got %v", got)
	}

	p.Bio = strings.Repeat("é", 120)
	got = engine.Suggest(p, 70)
	require.Equal(t, []string{wellRoundedFallback}, got)
}

func TestSuggest_WellRoundedFallback(t *testing.T) {
	engine := NewEngine(weights.New())
	got := engine.Suggest(allHighValueProfile(), 80)
	require.Equal(t, []string{wellRoundedFallback}, got)
}

func TestSuggest_SingleExperienceNudge(t *testing.T) {
	engine := NewEngine(weights.New())

	p := allHighValueProfile()
	p.Experiences = p.Experiences[:1]

	got := engine.Suggest(p, 70)
	require.Len(t, got, 1)
	if !strings.Contains(got[0], "second internship") {
		t.Errorf("expected the one-experience nudge, got %q", got[0])
	}
}

func TestSuggest_Deterministic(t *testing.T) {
	engine := NewEngine(weights.New())
	p := &profile.Profile{Skills: []profile.Skill{{Name: "git"}}}

	first := engine.Suggest(p, 20)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, engine.Suggest(p, 20), "suggestions must be reproducible")
	}
}
