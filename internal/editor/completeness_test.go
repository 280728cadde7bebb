package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/lebenslauf/internal/types"
)

func TestCheckCompleteness_EmptyCV(t *testing.T) {
	r := CheckCompleteness(types.NewCVData())

	assert.False(t, r.Complete())
	assert.ElementsMatch(t, []Issue{
		{Field: "personalInfo.firstName", Rule: "required"},
		{Field: "personalInfo.lastName", Rule: "required"},
		{Field: "personalInfo.email", Rule: "required"},
	}, r.Errors)
	assert.Contains(t, r.Warnings, Issue{Field: "experience", Rule: "empty"})
	assert.Contains(t, r.Warnings, Issue{Field: "skills", Rule: "empty"})
}

func TestCheckCompleteness_InvalidEmail(t *testing.T) {
	d := types.NewCVData()
	d.PersonalInfo = types.PersonalInfo{FirstName: "Aziz", LastName: "Karimov", Email: "aziz at example"}

	r := CheckCompleteness(d)
	assert.Equal(t, []Issue{{Field: "personalInfo.email", Rule: "email"}}, r.Errors)
}

func TestCheckCompleteness_IncompleteEntriesAreWarnings(t *testing.T) {
	d := types.NewCVData()
	d.PersonalInfo = types.PersonalInfo{FirstName: "Aziz", LastName: "Karimov", Email: "aziz@example.com"}
	d.Summary = "Erfahrener Fahrer"
	d.Experience = []types.WorkExperience{{ID: "1", Position: "Entwickler", StartDate: "2022-01"}}
	d.Education = []types.Education{{ID: "2", Degree: "Bachelor", Institution: "TTU"}}
	d.Skills = []string{"Go"}
	d.Languages = []types.LanguageSkill{{ID: "3", Language: "Deutsch"}}

	r := CheckCompleteness(d)
	assert.True(t, r.Complete())
	assert.ElementsMatch(t, []Issue{
		{Field: "experience[0].company", Rule: "required"},
		{Field: "languages[0].level", Rule: "required"},
	}, r.Warnings)
}

func TestCheckCompleteness_BlankCountsAsMissing(t *testing.T) {
	d := types.NewCVData()
	d.PersonalInfo = types.PersonalInfo{FirstName: "  ", LastName: "Karimov", Email: "aziz@example.com"}

	r := CheckCompleteness(d)
	assert.Equal(t, []Issue{{Field: "personalInfo.firstName", Rule: "required"}}, r.Errors)
}
