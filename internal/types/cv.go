// Package types defines the résumé data model shared by the editors, the
// persistence adapter, the preview renderer and the PDF export engine.
package types

import (
	"strings"

	"github.com/google/uuid"
)

// PersonalInfo holds the header block of a résumé.
// Empty strings mean "not provided"; Photo is an embedded data URL.
type PersonalInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	JobTitle  string `json:"jobTitle"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	Photo     string `json:"photo,omitempty"`
}

// WorkExperience is one entry of the experience section.
// An empty EndDate means the position is ongoing.
type WorkExperience struct {
	ID          string `json:"id"`
	Position    string `json:"position"`
	Company     string `json:"company"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// Education is one entry of the education section.
type Education struct {
	ID          string `json:"id"`
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// LanguageSkill pairs a language name with a CEFR level.
type LanguageSkill struct {
	ID       string        `json:"id"`
	Language string        `json:"language"`
	Level    LanguageLevel `json:"level"`
}

// CVData is the aggregate root that is persisted, exported and imported.
type CVData struct {
	PersonalInfo PersonalInfo     `json:"personalInfo"`
	Summary      string           `json:"summary"`
	Experience   []WorkExperience `json:"experience"`
	Education    []Education      `json:"education"`
	Skills       []string         `json:"skills"`
	Languages    []LanguageSkill  `json:"languages"`
}

// NewCVData returns an empty résumé with non-nil lists so that it
// serializes as [] rather than null.
func NewCVData() CVData {
	return CVData{
		Experience: []WorkExperience{},
		Education:  []Education{},
		Skills:     []string{},
		Languages:  []LanguageSkill{},
	}
}

// NewID generates a list item identifier.
func NewID() string {
	return uuid.NewString()
}

// HasPersonalInfo reports whether any personal field (photo excluded) is set.
func (p PersonalInfo) HasPersonalInfo() bool {
	for _, v := range []string{p.FirstName, p.LastName, p.JobTitle, p.Email, p.Phone, p.City} {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// FullName joins first and last name with a single space.
func (p PersonalInfo) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// IsEmpty reports whether the résumé has no personal info and no content
// sections. Blank strings count as absent, including blank skills.
func (d CVData) IsEmpty() bool {
	return !d.PersonalInfo.HasPersonalInfo() &&
		strings.TrimSpace(d.Summary) == "" &&
		len(d.Experience) == 0 &&
		len(d.Education) == 0 &&
		!d.HasSkills() &&
		len(d.Languages) == 0
}

// HasSkills reports whether at least one skill is non-blank.
func (d CVData) HasSkills() bool {
	for _, s := range d.Skills {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

// Normalize replaces nil lists with empty ones.
func (d CVData) Normalize() CVData {
	if d.Experience == nil {
		d.Experience = []WorkExperience{}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if d.Languages == nil {
		d.Languages = []LanguageSkill{}
	}
	return d
}

// Clone returns a deep copy so that callers can mutate lists freely.
func (d CVData) Clone() CVData {
	out := d
	out.Experience = append([]WorkExperience{}, d.Experience...)
	out.Education = append([]Education{}, d.Education...)
	out.Skills = append([]string{}, d.Skills...)
	out.Languages = append([]LanguageSkill{}, d.Languages...)
	return out
}

// EnsureIDs returns a copy in which every list item carries a unique
// identifier. Existing unique IDs are kept; missing or repeated ones are
// regenerated.
func (d CVData) EnsureIDs() CVData {
	out := d.Clone().Normalize()
	seen := make(map[string]bool)
	fresh := func(id string) string {
		if id == "" || seen[id] {
			id = NewID()
		}
		seen[id] = true
		return id
	}
	for i := range out.Experience {
		out.Experience[i].ID = fresh(out.Experience[i].ID)
	}
	for i := range out.Education {
		out.Education[i].ID = fresh(out.Education[i].ID)
	}
	for i := range out.Languages {
		out.Languages[i].ID = fresh(out.Languages[i].ID)
	}
	return out
}
