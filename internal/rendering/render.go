package rendering

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/jonathan/lebenslauf/internal/i18n"
	"github.com/jonathan/lebenslauf/internal/types"
)

// SurfaceID is the element id of the capturable preview surface.
const SurfaceID = "cv-preview"

// Section keys in render order.
const (
	SectionSummary    = "summary"
	SectionExperience = "experience"
	SectionEducation  = "education"
	SectionSkills     = "skills"
	SectionLanguages  = "languages"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var previewTemplate = template.Must(template.ParseFS(templateFS, "templates/preview.html.tmpl"))

// Document is the rendered preview.
type Document struct {
	// HTML is the document fragment placed inside the preview surface.
	HTML template.HTML
	// Empty is true when the placeholder was rendered instead of a résumé.
	Empty bool
	// Sections lists the rendered content sections in order.
	Sections []string
}

// PageOptions controls the standalone page wrapped around a document.
type PageOptions struct {
	// ResponsiveToggle adds the narrow-viewport rule that hides the surface
	// while the editor is shown.
	ResponsiveToggle bool
	// HidePreview marks the editor view as active.
	HidePreview bool
}

type entryView struct {
	Title       string
	Subtitle    string
	Dates       string
	Description string
}

type languageView struct {
	Name  string
	Level string
}

type headings struct {
	Summary    string
	Experience string
	Education  string
	Skills     string
	Languages  string
}

type documentView struct {
	Empty       bool
	Placeholder string
	Style       template.CSS
	Photo       template.URL
	Name        string
	JobTitle    string
	Email       string
	Phone       string
	City        string
	Summary     string
	Experience  []entryView
	Education   []entryView
	Skills      []string
	Languages   []languageView
	Headings    headings
}

type pageView struct {
	Lang             i18n.Lang
	Title            string
	SurfaceID        string
	Document         template.HTML
	ResponsiveToggle bool
	HidePreview      bool
}

// Render lays out data with the given customization. It is a pure
// function of its inputs.
func Render(data types.CVData, custom types.CVCustomization, lang i18n.Lang) (*Document, error) {
	view := buildView(data, custom, i18n.For(lang))

	var buf bytes.Buffer
	if err := previewTemplate.ExecuteTemplate(&buf, "document", view); err != nil {
		return nil, &TemplateError{Message: "failed to execute preview template", Cause: err}
	}

	return &Document{
		HTML:     template.HTML(buf.String()), //nolint:gosec // produced by html/template
		Empty:    view.Empty,
		Sections: sections(view),
	}, nil
}

// RenderPage renders a complete HTML page containing the preview surface.
func RenderPage(data types.CVData, custom types.CVCustomization, lang i18n.Lang, opts PageOptions) (string, error) {
	doc, err := Render(data, custom, lang)
	if err != nil {
		return "", err
	}

	dict := i18n.For(lang)
	title := dict.T(i18n.KeyDocumentTitle)
	if name := data.PersonalInfo.FullName(); name != "" {
		title += " – " + name
	}

	var buf bytes.Buffer
	err = previewTemplate.ExecuteTemplate(&buf, "page", pageView{
		Lang:             dict.Lang,
		Title:            title,
		SurfaceID:        SurfaceID,
		Document:         doc.HTML,
		ResponsiveToggle: opts.ResponsiveToggle,
		HidePreview:      opts.HidePreview,
	})
	if err != nil {
		return "", &TemplateError{Message: "failed to execute page template", Cause: err}
	}
	return buf.String(), nil
}

func buildView(data types.CVData, custom types.CVCustomization, dict i18n.Dict) documentView {
	if data.IsEmpty() {
		return documentView{Empty: true, Placeholder: dict.T(i18n.KeyPlaceholder)}
	}

	p := data.PersonalInfo
	view := documentView{
		Style:    styleFor(custom),
		Photo:    photoURL(p.Photo),
		Name:     p.FullName(),
		JobTitle: strings.TrimSpace(p.JobTitle),
		Email:    strings.TrimSpace(p.Email),
		Phone:    strings.TrimSpace(p.Phone),
		City:     strings.TrimSpace(p.City),
		Summary:  strings.TrimSpace(data.Summary),
		Headings: headings{
			Summary:    dict.T(i18n.KeySummary),
			Experience: dict.T(i18n.KeyExperience),
			Education:  dict.T(i18n.KeyEducation),
			Skills:     dict.T(i18n.KeySkills),
			Languages:  dict.T(i18n.KeyLanguages),
		},
	}

	present := dict.T(i18n.KeyPresent)
	for _, e := range data.Experience {
		view.Experience = append(view.Experience, entryView{
			Title:       strings.TrimSpace(e.Position),
			Subtitle:    strings.TrimSpace(e.Company),
			Dates:       DateRange(e.StartDate, e.EndDate, present),
			Description: strings.TrimSpace(e.Description),
		})
	}
	for _, e := range data.Education {
		view.Education = append(view.Education, entryView{
			Title:    strings.TrimSpace(e.Degree),
			Subtitle: strings.TrimSpace(e.Institution),
			Dates:    DateRange(e.StartDate, e.EndDate, present),
		})
	}
	for _, s := range data.Skills {
		if s = strings.TrimSpace(s); s != "" {
			view.Skills = append(view.Skills, s)
		}
	}
	for _, l := range data.Languages {
		view.Languages = append(view.Languages, languageView{
			Name:  strings.TrimSpace(l.Language),
			Level: string(l.Level),
		})
	}
	return view
}

// DateRange formats "start – end", substituting present for a missing end.
// Both empty yields "".
func DateRange(start, end, present string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return ""
	}
	if end == "" {
		end = present
	}
	if start == "" {
		return end
	}
	return start + " – " + end
}

// styleFor maps customization to CSS custom properties. Every value comes
// from the static lookup tables in types.
func styleFor(c types.CVCustomization) template.CSS {
	sizes := c.FontSizes()
	return template.CSS(fmt.Sprintf( //nolint:gosec // values come from fixed tables
		"--cv-accent: %s; --cv-body: %s; --cv-heading: %s; --cv-title: %s; --cv-gap: %s; --cv-rule: %s;",
		c.Color(), sizes.Body, sizes.Heading, sizes.Title, c.Gap(), c.SeparatorBorder(),
	))
}

// photoURL only lets embedded JPEG or PNG payloads through.
func photoURL(photo string) template.URL {
	if strings.HasPrefix(photo, "data:image/jpeg;base64,") || strings.HasPrefix(photo, "data:image/png;base64,") {
		return template.URL(photo) //nolint:gosec // restricted to image data URLs
	}
	return ""
}

func sections(v documentView) []string {
	if v.Empty {
		return nil
	}
	var out []string
	if v.Summary != "" {
		out = append(out, SectionSummary)
	}
	if len(v.Experience) > 0 {
		out = append(out, SectionExperience)
	}
	if len(v.Education) > 0 {
		out = append(out, SectionEducation)
	}
	if len(v.Skills) > 0 {
		out = append(out, SectionSkills)
	}
	if len(v.Languages) > 0 {
		out = append(out, SectionLanguages)
	}
	return out
}
