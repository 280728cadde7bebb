// Package editor holds the form editors. Every function takes the current
// CVData and returns a new value in which only the touched slice differs;
// the input is never modified.
package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/lebenslauf/internal/types"
)

var (
	// ErrItemNotFound is returned when no list item has the given ID.
	ErrItemNotFound = errors.New("item not found")
	// ErrIndexOutOfRange is returned for an invalid list position.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrEmptySkill is returned when adding a blank skill.
	ErrEmptySkill = errors.New("skill is empty")
	// ErrInvalidLevel is returned for a language level outside the CEFR set.
	ErrInvalidLevel = errors.New("unknown language level")
)

// SetPersonalInfo replaces the personal fields. The photo is kept; it is
// managed by SetPhoto and ClearPhoto.
func SetPersonalInfo(d types.CVData, p types.PersonalInfo) types.CVData {
	out := d.Clone()
	p.Photo = d.PersonalInfo.Photo
	out.PersonalInfo = p
	return out
}

// SetSummary replaces the summary.
func SetSummary(d types.CVData, summary string) types.CVData {
	out := d.Clone()
	out.Summary = summary
	return out
}

// SetPhoto stores an already processed image data URL.
func SetPhoto(d types.CVData, dataURL string) types.CVData {
	out := d.Clone()
	out.PersonalInfo.Photo = dataURL
	return out
}

// ClearPhoto removes the photo.
func ClearPhoto(d types.CVData) types.CVData {
	return SetPhoto(d, "")
}

// AddExperience appends e with a fresh ID and returns the stored entry.
func AddExperience(d types.CVData, e types.WorkExperience) (types.CVData, types.WorkExperience) {
	out := d.Clone()
	e.ID = types.NewID()
	out.Experience = append(out.Experience, e)
	return out, e
}

// UpdateExperience replaces the entry with e.ID.
func UpdateExperience(d types.CVData, e types.WorkExperience) (types.CVData, error) {
	out := d.Clone()
	list, err := replace(out.Experience, e, experienceID)
	if err != nil {
		return d, err
	}
	out.Experience = list
	return out, nil
}

// RemoveExperience drops the entry with id.
func RemoveExperience(d types.CVData, id string) (types.CVData, error) {
	list, err := remove(d.Experience, id, experienceID)
	if err != nil {
		return d, err
	}
	out := d.Clone()
	out.Experience = list
	return out, nil
}

// MoveExperience moves the entry with id to position to.
func MoveExperience(d types.CVData, id string, to int) (types.CVData, error) {
	list, err := move(d.Experience, id, to, experienceID)
	if err != nil {
		return d, err
	}
	out := d.Clone()
	out.Experience = list
	return out, nil
}

// AddEducation appends e with a fresh ID and returns the stored entry.
func AddEducation(d types.CVData, e types.Education) (types.CVData, types.Education) {
	out := d.Clone()
	e.ID = types.NewID()
	out.Education = append(out.Education, e)
	return out, e
}

// UpdateEducation replaces the entry with e.ID.
func UpdateEducation(d types.CVData, e types.Education) (types.CVData, error) {
	out := d.Clone()
	list, err := replace(out.Education, e, educationID)
	if err != nil {
		return d, err
	}
	out.Education = list
	return out, nil
}

// RemoveEducation drops the entry with id.
func RemoveEducation(d types.CVData, id string) (types.CVData, error) {
	list, err := remove(d.Education, id, educationID)
	if err != nil {
		return d, err
	}
	out := d.Clone()
	out.Education = list
	return out, nil
}

// MoveEducation moves the entry with id to position to.
func MoveEducation(d types.CVData, id string, to int) (types.CVData, error) {
	list, err := move(d.Education, id, to, educationID)
	if err != nil {
		return d, err
	}
	out := d.Clone()
	out.Education = list
	return out, nil
}

// AddLanguage appends l with a fresh ID and returns the stored entry.
func AddLanguage(d types.CVData, l types.LanguageSkill) (types.CVData, types.LanguageSkill, error) {
	if err := checkLevel(l.Level); err != nil {
		return d, l, err
	}
	out := d.Clone()
	l.ID = types.NewID()
	out.Languages = append(out.Languages, l)
	return out, l, nil
}

// UpdateLanguage replaces the entry with l.ID.
func UpdateLanguage(d types.CVData, l types.LanguageSkill) (types.CVData, error) {
	if err := checkLevel(l.Level); err != nil {
		return d, err
	}
	out := d.Clone()
	list, err := replace(out.Languages, l, languageID)
	if err != nil {
		return d, err
	}
	out.Languages = list
	return out, nil
}

// RemoveLanguage drops the entry with id.
func RemoveLanguage(d types.CVData, id string) (types.CVData, error) {
	list, err := remove(d.Languages, id, languageID)
	if err != nil {
		return d, err
	}
	out := d.Clone()
	out.Languages = list
	return out, nil
}

// MoveLanguage moves the entry with id to position to.
func MoveLanguage(d types.CVData, id string, to int) (types.CVData, error) {
	list, err := move(d.Languages, id, to, languageID)
	if err != nil {
		return d, err
	}
	out := d.Clone()
	out.Languages = list
	return out, nil
}

// AddSkill appends a trimmed skill. Duplicates are allowed.
func AddSkill(d types.CVData, skill string) (types.CVData, error) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return d, ErrEmptySkill
	}
	out := d.Clone()
	out.Skills = append(out.Skills, skill)
	return out, nil
}

// RemoveSkill drops the skill at index.
func RemoveSkill(d types.CVData, index int) (types.CVData, error) {
	if index < 0 || index >= len(d.Skills) {
		return d, fmt.Errorf("skill %d: %w", index, ErrIndexOutOfRange)
	}
	out := d.Clone()
	out.Skills = append(out.Skills[:index], out.Skills[index+1:]...)
	return out, nil
}

// SetSkills replaces all skills, dropping blank entries.
func SetSkills(d types.CVData, skills []string) types.CVData {
	out := d.Clone()
	out.Skills = make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			out.Skills = append(out.Skills, s)
		}
	}
	return out
}

func checkLevel(l types.LanguageLevel) error {
	if l != "" && !l.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidLevel, l)
	}
	return nil
}

func experienceID(e types.WorkExperience) string { return e.ID }
func educationID(e types.Education) string       { return e.ID }
func languageID(l types.LanguageSkill) string    { return l.ID }

func indexOf[T any](list []T, id string, idOf func(T) string) int {
	for i, item := range list {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}

// replace swaps the item with the same ID in a list the caller owns.
func replace[T any](list []T, item T, idOf func(T) string) ([]T, error) {
	i := indexOf(list, idOf(item), idOf)
	if i < 0 {
		return nil, fmt.Errorf("%s: %w", idOf(item), ErrItemNotFound)
	}
	list[i] = item
	return list, nil
}

func remove[T any](list []T, id string, idOf func(T) string) ([]T, error) {
	if indexOf(list, id, idOf) < 0 {
		return nil, fmt.Errorf("%s: %w", id, ErrItemNotFound)
	}
	out := make([]T, 0, len(list)-1)
	for _, item := range list {
		if idOf(item) != id {
			out = append(out, item)
		}
	}
	return out, nil
}

func move[T any](list []T, id string, to int, idOf func(T) string) ([]T, error) {
	from := indexOf(list, id, idOf)
	if from < 0 {
		return nil, fmt.Errorf("%s: %w", id, ErrItemNotFound)
	}
	if to < 0 || to >= len(list) {
		return nil, fmt.Errorf("position %d: %w", to, ErrIndexOutOfRange)
	}
	out := make([]T, 0, len(list))
	item := list[from]
	for i, v := range list {
		if i != from {
			out = append(out, v)
		}
	}
	out = append(out[:to], append([]T{item}, out[to:]...)...)
	return out, nil
}
