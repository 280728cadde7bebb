package types

import (
	"encoding/json"
	"fmt"
)

// LanguageLevel is a CEFR proficiency level or Native.
type LanguageLevel string

// Supported proficiency levels.
const (
	LevelA1     LanguageLevel = "A1"
	LevelA2     LanguageLevel = "A2"
	LevelB1     LanguageLevel = "B1"
	LevelB2     LanguageLevel = "B2"
	LevelC1     LanguageLevel = "C1"
	LevelC2     LanguageLevel = "C2"
	LevelNative LanguageLevel = "Native"
)

// LanguageLevels lists every level in ascending order.
var LanguageLevels = []LanguageLevel{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2, LevelNative}

// Valid reports whether l is one of the supported levels.
func (l LanguageLevel) Valid() bool {
	for _, v := range LanguageLevels {
		if v == l {
			return true
		}
	}
	return false
}

// UnmarshalJSON rejects unknown levels. An empty level is accepted as unset.
func (l *LanguageLevel) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	lvl := LanguageLevel(s)
	if lvl != "" && !lvl.Valid() {
		return fmt.Errorf("unknown language level %q", s)
	}
	*l = lvl
	return nil
}
