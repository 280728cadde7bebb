package editor

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/lebenslauf/internal/types"
)

// Issue is one finding of the completeness check.
type Issue struct {
	// Field is the JSON path of the offending value, e.g. "experience[0].company".
	Field string `json:"field"`
	// Rule is the failed rule: required, email or empty.
	Rule string `json:"rule"`
}

// Report is advisory; it never blocks editing or export.
type Report struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// Complete reports whether there are no errors.
func (r Report) Complete() bool {
	return len(r.Errors) == 0
}

type personalCheck struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

type experienceCheck struct {
	Position  string `json:"position" validate:"required"`
	Company   string `json:"company" validate:"required"`
	StartDate string `json:"startDate" validate:"required"`
}

type educationCheck struct {
	Degree      string `json:"degree" validate:"required"`
	Institution string `json:"institution" validate:"required"`
}

type languageCheck struct {
	Language string `json:"language" validate:"required"`
	Level    string `json:"level" validate:"required"`
}

type sectionsCheck struct {
	Experience []experienceCheck `json:"experience" validate:"dive"`
	Education  []educationCheck  `json:"education" validate:"dive"`
	Languages  []languageCheck   `json:"languages" validate:"dive"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CheckCompleteness reports missing name or email as errors, and
// incomplete entries or empty sections as warnings.
func CheckCompleteness(d types.CVData) Report {
	r := Report{Errors: []Issue{}, Warnings: []Issue{}}
	t := strings.TrimSpace

	p := d.PersonalInfo
	r.Errors = append(r.Errors, issues(validate.Struct(personalCheck{
		FirstName: t(p.FirstName),
		LastName:  t(p.LastName),
		Email:     t(p.Email),
	}), "personalInfo.")...)

	var s sectionsCheck
	for _, e := range d.Experience {
		s.Experience = append(s.Experience, experienceCheck{Position: t(e.Position), Company: t(e.Company), StartDate: t(e.StartDate)})
	}
	for _, e := range d.Education {
		s.Education = append(s.Education, educationCheck{Degree: t(e.Degree), Institution: t(e.Institution)})
	}
	for _, l := range d.Languages {
		s.Languages = append(s.Languages, languageCheck{Language: t(l.Language), Level: string(l.Level)})
	}
	r.Warnings = append(r.Warnings, issues(validate.Struct(s), "")...)

	empty := func(field string, isEmpty bool) {
		if isEmpty {
			r.Warnings = append(r.Warnings, Issue{Field: field, Rule: "empty"})
		}
	}
	empty("summary", t(d.Summary) == "")
	empty("experience", len(d.Experience) == 0)
	empty("education", len(d.Education) == 0)
	empty("skills", !d.HasSkills())
	empty("languages", len(d.Languages) == 0)
	return r
}

// issues flattens validator errors into issues whose field is prefix plus
// the JSON path below the checked struct.
func issues(err error, prefix string) []Issue {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		out = append(out, Issue{Field: prefix + ns, Rule: fe.Tag()})
	}
	return out
}
