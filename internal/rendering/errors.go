// Package rendering turns résumé data and customization into the preview
// document that is shown on screen and captured for PDF export.
package rendering

import "fmt"

// TemplateError represents an error parsing or executing the preview template
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}
