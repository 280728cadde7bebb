package export

import (
	"fmt"

	"github.com/jonathan/lebenslauf/internal/i18n"
)

// Stage names a coarse step of an export.
type Stage string

// Export stages in the order they are reported.
const (
	StagePreparing Stage = "preparing"
	StageImages    Stage = "images"
	StageCapturing Stage = "capturing"
	StageEncoding  Stage = "encoding"
	StagePage      Stage = "page"
	StageDone      Stage = "done"
)

var stageKeys = map[Stage]string{
	StagePreparing: i18n.KeyProgressPrepare,
	StageImages:    i18n.KeyProgressImages,
	StageCapturing: i18n.KeyProgressCapture,
	StageEncoding:  i18n.KeyProgressEncode,
	StageDone:      i18n.KeyProgressDone,
}

// Progress is one update of the progress variant.
type Progress struct {
	Percent int   `json:"percent"`
	Stage   Stage `json:"stage"`
	Page    int   `json:"page,omitempty"`
	Pages   int   `json:"pages,omitempty"`
}

// ProgressFunc receives progress updates. It is called synchronously.
type ProgressFunc func(Progress)

// Message returns the localized text for the update.
func (p Progress) Message(lang i18n.Lang) string {
	if p.Stage == StagePage {
		return fmt.Sprintf(i18n.T(lang, i18n.KeyProgressPage), p.Page, p.Pages)
	}
	if key, ok := stageKeys[p.Stage]; ok {
		return i18n.T(lang, key)
	}
	return string(p.Stage)
}

// pageProgress spreads page updates over 70–95%.
func pageProgress(page, pages int) Progress {
	pct := 70
	if pages > 0 {
		pct += 25 * page / pages
	}
	return Progress{Percent: pct, Stage: StagePage, Page: page, Pages: pages}
}
