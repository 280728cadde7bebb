package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCustomization_IsValid(t *testing.T) {
	assert.NoError(t, DefaultCustomization().Validate())
}

func TestCVCustomization_Validate_RejectsUnknown(t *testing.T) {
	c := DefaultCustomization()
	c.AccentColor = "purple"
	assert.ErrorContains(t, c.Validate(), "accent color")

	c = DefaultCustomization()
	c.SectionSeparator = "dotted"
	assert.ErrorContains(t, c.Validate(), "separator")
}

func TestCVCustomization_WithDefaults(t *testing.T) {
	c := CVCustomization{AccentColor: AccentGreen}.WithDefaults()
	assert.Equal(t, AccentGreen, c.AccentColor)
	assert.Equal(t, TypographyBalanced, c.TypographyScale)
	assert.Equal(t, SpacingNormal, c.SectionSpacing)
	assert.Equal(t, SeparatorLine, c.SectionSeparator)
}

func TestCVCustomization_LookupTables(t *testing.T) {
	c := CVCustomization{
		AccentColor:      AccentGreen,
		TypographyScale:  TypographyCompact,
		SectionSpacing:   SpacingAiry,
		SectionSeparator: SeparatorLine,
	}

	assert.Equal(t, "#059669", c.Color())
	assert.Equal(t, FontSizes{Body: "12px", Heading: "15px", Title: "24px"}, c.FontSizes())
	assert.Equal(t, "32px", c.Gap())
	assert.Equal(t, "2px solid #059669", c.SeparatorBorder())
}

func TestCVCustomization_SeparatorBorder(t *testing.T) {
	c := DefaultCustomization()

	c.SectionSeparator = SeparatorSoft
	assert.Equal(t, "1px solid #e5e7eb", c.SeparatorBorder())

	c.SectionSeparator = SeparatorNone
	assert.Equal(t, "none", c.SeparatorBorder())
}
