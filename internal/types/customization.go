package types

import (
	"fmt"
	"strings"
)

// AccentColor selects the color used for headings, rules and skill tags.
type AccentColor string

// TypographyScale selects the body/heading/title font sizes.
type TypographyScale string

// SectionSpacing selects the vertical gap between sections.
type SectionSpacing string

// SectionSeparator selects the rule drawn under section headings.
type SectionSeparator string

// Accent colors.
const (
	AccentBlue  AccentColor = "blue"
	AccentGray  AccentColor = "gray"
	AccentBlack AccentColor = "black"
	AccentGreen AccentColor = "green"
)

// Typography scales.
const (
	TypographyCompact  TypographyScale = "compact"
	TypographyBalanced TypographyScale = "balanced"
	TypographySpacious TypographyScale = "spacious"
)

// Section spacings.
const (
	SpacingTight  SectionSpacing = "tight"
	SpacingNormal SectionSpacing = "normal"
	SpacingAiry   SectionSpacing = "airy"
)

// Section separators.
const (
	SeparatorLine SectionSeparator = "line"
	SeparatorSoft SectionSeparator = "soft"
	SeparatorNone SectionSeparator = "none"
)

// CVCustomization holds the visual settings, independent of content.
type CVCustomization struct {
	AccentColor      AccentColor      `json:"accentColor"`
	TypographyScale  TypographyScale  `json:"typographyScale"`
	SectionSpacing   SectionSpacing   `json:"sectionSpacing"`
	SectionSeparator SectionSeparator `json:"sectionSeparator"`
}

// FontSizes are the three sizes applied uniformly across the document.
type FontSizes struct {
	Body    string
	Heading string
	Title   string
}

var accentColors = map[AccentColor]string{
	AccentBlue:  "#2563eb",
	AccentGray:  "#4b5563",
	AccentBlack: "#111827",
	AccentGreen: "#059669",
}

var typographyScales = map[TypographyScale]FontSizes{
	TypographyCompact:  {Body: "12px", Heading: "15px", Title: "24px"},
	TypographyBalanced: {Body: "14px", Heading: "17px", Title: "28px"},
	TypographySpacious: {Body: "15px", Heading: "19px", Title: "32px"},
}

var sectionSpacings = map[SectionSpacing]string{
	SpacingTight:  "12px",
	SpacingNormal: "20px",
	SpacingAiry:   "32px",
}

// sectionSeparators maps to a border template; %s is the accent color.
var sectionSeparators = map[SectionSeparator]string{
	SeparatorLine: "2px solid %s",
	SeparatorSoft: "1px solid #e5e7eb",
	SeparatorNone: "none",
}

// DefaultCustomization is applied on first load.
func DefaultCustomization() CVCustomization {
	return CVCustomization{
		AccentColor:      AccentBlue,
		TypographyScale:  TypographyBalanced,
		SectionSpacing:   SpacingNormal,
		SectionSeparator: SeparatorLine,
	}
}

// WithDefaults fills unset or unknown values from DefaultCustomization.
func (c CVCustomization) WithDefaults() CVCustomization {
	def := DefaultCustomization()
	if _, ok := accentColors[c.AccentColor]; !ok {
		c.AccentColor = def.AccentColor
	}
	if _, ok := typographyScales[c.TypographyScale]; !ok {
		c.TypographyScale = def.TypographyScale
	}
	if _, ok := sectionSpacings[c.SectionSpacing]; !ok {
		c.SectionSpacing = def.SectionSpacing
	}
	if _, ok := sectionSeparators[c.SectionSeparator]; !ok {
		c.SectionSeparator = def.SectionSeparator
	}
	return c
}

// Validate rejects values outside the enumerated sets.
func (c CVCustomization) Validate() error {
	if _, ok := accentColors[c.AccentColor]; !ok {
		return fmt.Errorf("unknown accent color %q", c.AccentColor)
	}
	if _, ok := typographyScales[c.TypographyScale]; !ok {
		return fmt.Errorf("unknown typography scale %q", c.TypographyScale)
	}
	if _, ok := sectionSpacings[c.SectionSpacing]; !ok {
		return fmt.Errorf("unknown section spacing %q", c.SectionSpacing)
	}
	if _, ok := sectionSeparators[c.SectionSeparator]; !ok {
		return fmt.Errorf("unknown section separator %q", c.SectionSeparator)
	}
	return nil
}

// Color returns the concrete color value for the accent.
func (c CVCustomization) Color() string {
	return accentColors[c.WithDefaults().AccentColor]
}

// FontSizes returns the concrete font sizes for the typography scale.
func (c CVCustomization) FontSizes() FontSizes {
	return typographyScales[c.WithDefaults().TypographyScale]
}

// Gap returns the vertical gap between sections.
func (c CVCustomization) Gap() string {
	return sectionSpacings[c.WithDefaults().SectionSpacing]
}

// SeparatorBorder returns the CSS border drawn under section headings.
func (c CVCustomization) SeparatorBorder() string {
	c = c.WithDefaults()
	border := sectionSeparators[c.SectionSeparator]
	if strings.Contains(border, "%s") {
		return fmt.Sprintf(border, accentColors[c.AccentColor])
	}
	return border
}
