// Package profile defines the Profile aggregate scored by the pipeline.
// The scoring core treats a Profile as a read-only snapshot; persistence
// and mutation belong to external collaborators.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Profile is the scored aggregate: optional descriptive fields plus the
// four owned sub-record collections.
type Profile struct {
	ID          int64  `json:"id,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Headline    string `json:"headline,omitempty"`
	Location    string `json:"location,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
	GitHubURL   string `json:"github_url,omitempty"`
	ResumePath  string `json:"resume_path,omitempty"`

	Skills         []Skill         `json:"skills,omitempty"`
	Educations     []Education     `json:"educations,omitempty"`
	Experiences    []Experience    `json:"experiences,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
}

// Skill is a single named skill. Names are free text; matching against
// the weight configuration is case-insensitive and whitespace-normalized.
type Skill struct {
	Name string `json:"name"`
}

// Education is a single academic qualification.
type Education struct {
	Degree           string `json:"degree"`
	Institution      string `json:"institution,omitempty"`
	YearOfCompletion int    `json:"year_of_completion,omitempty"`
}

// Experience is a single work experience entry.
type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company,omitempty"`
	Description string `json:"description,omitempty"`
}

// Certification is a single certification entry.
type Certification struct {
	Name                string `json:"name"`
	IssuingOrganization string `json:"issuing_organization,omitempty"`
}

// NormalizeSkillName lowercases a skill name and collapses internal
// whitespace, producing the key used for weight-table lookups.
func NormalizeSkillName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// SkillSet returns the profile's normalized skill names as a set.
func (p *Profile) SkillSet() map[string]bool {
	set := make(map[string]bool, len(p.Skills))
	for _, s := range p.Skills {
		if key := NormalizeSkillName(s.Name); key != "" {
			set[key] = true
		}
	}
	return set
}

func (p *Profile) HasBio() bool      { return strings.TrimSpace(p.Bio) != "" }
func (p *Profile) HasHeadline() bool { return strings.TrimSpace(p.Headline) != "" }
func (p *Profile) HasLinkedIn() bool { return strings.TrimSpace(p.LinkedInURL) != "" }
func (p *Profile) HasGitHub() bool   { return strings.TrimSpace(p.GitHubURL) != "" }

// IsEmpty reports whether the profile has no recorded activity: all four
// collections empty and neither bio nor headline set.
func (p *Profile) IsEmpty() bool {
	return len(p.Skills) == 0 &&
		len(p.Educations) == 0 &&
		len(p.Experiences) == 0 &&
		len(p.Certifications) == 0 &&
		!p.HasBio() && !p.HasHeadline()
}

// LoadSnapshot reads a profile snapshot from a JSON file.
func LoadSnapshot(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: read %s: %w", path, err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("profile: parse %s: %w", path, err)
	}
	return &p, nil
}
