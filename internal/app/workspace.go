// Package app holds the single application state: the current résumé and
// its customization. Every mutation goes through Workspace, which autosaves
// after each change and keeps a session backup.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonathan/lebenslauf/internal/logging"
	"github.com/jonathan/lebenslauf/internal/persistence"
	"github.com/jonathan/lebenslauf/internal/types"
)

// ErrExportInProgress is returned when a second export starts while one is
// still running.
var ErrExportInProgress = errors.New("an export is already in progress")

// Workspace owns the current CVData and CVCustomization.
type Workspace struct {
	mu     sync.Mutex
	data   types.CVData
	custom types.CVCustomization

	store     *persistence.Adapter
	log       logging.Logger
	exporting atomic.Bool
}

// Open loads the stored state. When the primary store holds nothing usable,
// the session backup is tried before falling back to an empty résumé.
func Open(ctx context.Context, store *persistence.Adapter, log logging.Logger) (*Workspace, error) {
	w := &Workspace{store: store, log: log.With("component", "workspace")}

	data, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	switch {
	case data != nil:
		w.data = *data
	default:
		if backup := store.RestoreFromSession(ctx); backup != nil {
			w.log.Info(ctx, "restored cv data from session backup")
			w.data = *backup
		} else {
			w.data = types.NewCVData()
		}
	}
	w.custom = store.LoadCustomization(ctx)
	return w, nil
}

// Data returns a copy of the current résumé.
func (w *Workspace) Data() types.CVData {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.data.Clone()
}

// Customization returns the current visual settings.
func (w *Workspace) Customization() types.CVCustomization {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.custom
}

// Snapshot returns both values read under one lock.
func (w *Workspace) Snapshot() (types.CVData, types.CVCustomization) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.data.Clone(), w.custom
}

// Update applies an editor to the current résumé and autosaves the result.
// If fn fails nothing changes. If only the save fails the new state is kept
// in memory and in the session backup, and the save error is returned.
func (w *Workspace) Update(ctx context.Context, fn func(types.CVData) (types.CVData, error)) (types.CVData, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, err := fn(w.data.Clone())
	if err != nil {
		return w.data.Clone(), err
	}
	w.data = next.Normalize()
	return w.data.Clone(), w.persist(ctx)
}

// Edit is Update for editors that cannot fail.
func (w *Workspace) Edit(ctx context.Context, fn func(types.CVData) types.CVData) (types.CVData, error) {
	return w.Update(ctx, func(d types.CVData) (types.CVData, error) {
		return fn(d), nil
	})
}

func (w *Workspace) persist(ctx context.Context) error {
	w.store.BackupToSession(ctx, w.data)
	if err := w.store.Save(ctx, w.data); err != nil {
		w.log.Error(ctx, "autosave failed", "error", err)
		return err
	}
	return nil
}

// SetCustomization validates and stores new visual settings.
func (w *Workspace) SetCustomization(ctx context.Context, c types.CVCustomization) error {
	if err := c.Validate(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.custom = c
	return w.store.SaveCustomization(ctx, c)
}

// Import replaces the résumé with the contents of an export file. A file
// that fails to parse leaves the current state untouched.
func (w *Workspace) Import(ctx context.Context, contents []byte) (types.CVData, error) {
	data, err := w.store.ImportFromFile(contents)
	if err != nil {
		return w.Data(), err
	}
	return w.Update(ctx, func(types.CVData) (types.CVData, error) {
		return *data, nil
	})
}

// Export wraps the current résumé in an export envelope.
func (w *Workspace) Export(filename string) (*persistence.File, error) {
	return w.store.ExportToFile(w.Data(), filename)
}

// Clear resets to an empty résumé with default customization and removes
// the stored copy.
func (w *Workspace) Clear(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	w.data = types.NewCVData()
	w.custom = types.DefaultCustomization()
	w.store.BackupToSession(ctx, w.data)
	return nil
}

// LastSaved returns the time of the last successful autosave.
func (w *Workspace) LastSaved(ctx context.Context) (time.Time, bool) {
	return w.store.LastSaved(ctx)
}

// BeginExport marks an export as running. The returned func must be called
// on every path once the export finishes.
func (w *Workspace) BeginExport() (func(), error) {
	if !w.exporting.CompareAndSwap(false, true) {
		return nil, ErrExportInProgress
	}
	return func() { w.exporting.Store(false) }, nil
}

// Exporting reports whether an export is running.
func (w *Workspace) Exporting() bool {
	return w.exporting.Load()
}
