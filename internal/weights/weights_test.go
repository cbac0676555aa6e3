package weights

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_DefaultTable(t *testing.T) {
	cfg := New()

	if w := cfg.SkillWeight("python"); w != 10 {
		t.Errorf("python weight = %d, want 10", w)
	}
	if w := cfg.SkillWeight("machine learning"); w != 15 {
		t.Errorf("machine learning weight = %d, want 15", w)
	}
	if w := cfg.SkillWeight("underwater basket weaving"); w != DefaultSkillScore {
		t.Errorf("unmapped skill weight = %d, want %d", w, DefaultSkillScore)
	}
	if cfg.Tracked("underwater basket weaving") {
		t.Error("unmapped skill should not be tracked")
	}
	if cfg.BasePoints.Education != 20 || cfg.BasePoints.Experience != 25 {
		t.Errorf("unexpected base points: %+v", cfg.BasePoints)
	}
	if cfg.Targets.Skills != 8 || cfg.Targets.CoreItems != 3 {
		t.Errorf("unexpected targets: %+v", cfg.Targets)
	}
}

func TestTrackedKeywords_SortedAndStable(t *testing.T) {
	cfg := New()
	first := cfg.TrackedKeywords()
	second := cfg.TrackedKeywords()

	require.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		if first[i-1] >= first[i] {
			t.Fatalf("keywords not strictly sorted: %q before %q", first[i-1], first[i])
		}
	}
	if len(first) != len(New().SkillScores) {
		t.Errorf("expected all %d keywords, got %d", len(New().SkillScores), len(first))
	}
}

func TestHighValueKeywords(t *testing.T) {
	cfg := New()
	high := cfg.HighValueKeywords(10)

	want := map[string]bool{
		"aws": true, "azure": true, "gcp": true, "python": true,
		"machine learning": true, "data analysis": true, "project management": true,
	}
	if len(high) != len(want) {
		t.Fatalf("expected %d high-value keywords, got %d: %v", len(want), len(high), high)
	}
	for _, k := range high {
		if !want[k] {
			t.Errorf("unexpected high-value keyword %q", k)
		}
	}
}

func TestVersion_Deterministic(t *testing.T) {
	if New().Version() != New().Version() {
		t.Fatal("version must be stable across constructions")
	}
}

func TestVersion_ChangesWithTable(t *testing.T) {
	base := New()
	changed := New()
	changed.SkillScores["rust"] = 9

	if base.Version() == changed.Version() {
		t.Error("adding a keyword must change the version")
	}

	retargeted := New()
	retargeted.Targets.Skills = 10
	if base.Version() == retargeted.Version() {
		t.Error("changing a target must change the version")
	}
}

func TestLoad_MissingPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, New().Version(), cfg.Version())
}

func TestLoad_OverlayReplacesSkillTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	data := `
skill_scores:
  Go: 12
  "  Machine   Learning ": 20
default_skill_score: 2
base_points:
  education: 30
targets:
  skills: 10
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Custom tables replace the defaults wholesale, keys normalized.
	if len(cfg.SkillScores) != 2 {
		t.Fatalf("expected 2 skills, got %d: %v", len(cfg.SkillScores), cfg.SkillScores)
	}
	if w := cfg.SkillWeight("go"); w != 12 {
		t.Errorf("go weight = %d, want 12", w)
	}
	if w := cfg.SkillWeight("machine learning"); w != 20 {
		t.Errorf("machine learning weight = %d, want 20", w)
	}
	if w := cfg.SkillWeight("python"); w != 2 {
		t.Errorf("python should fall back to overridden default 2, got %d", w)
	}
	if cfg.BasePoints.Education != 30 {
		t.Errorf("education base = %d, want 30", cfg.BasePoints.Education)
	}
	// Untouched fields keep defaults.
	if cfg.BasePoints.Experience != DefaultExperienceBasePoints {
		t.Errorf("experience base = %d, want default", cfg.BasePoints.Experience)
	}
	if cfg.Targets.Skills != 10 {
		t.Errorf("skills target = %d, want 10", cfg.Targets.Skills)
	}

	if cfg.Version() == New().Version() {
		t.Error("overridden config must have a different version")
	}
}

func TestLoad_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o600))
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}
