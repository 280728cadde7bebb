package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/lebenslauf/internal/logging"
	"github.com/jonathan/lebenslauf/internal/storage"
	"github.com/jonathan/lebenslauf/internal/types"
)

// Storage keys. The backup key lives in the session store, the rest in the
// local store.
const (
	KeyData          = "cv-builder-data"
	KeyVersion       = "cv-builder-version"
	KeyCustomization = "cv-builder-customization"
	KeyLastSave      = "cv-builder-last-save"
	KeyBackup        = "cv-builder-backup"
)

// FormatVersion is written next to the data and into export envelopes.
const FormatVersion = "1.0"

// timestampLayout is ISO-8601 with millisecond precision in UTC.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Adapter reads and writes résumé state. The local store is authoritative;
// the session store only holds a recovery copy.
type Adapter struct {
	local   storage.Store
	session storage.Store
	log     logging.Logger
	now     func() time.Time
}

// NewAdapter wires an adapter over the two stores.
func NewAdapter(local, session storage.Store, log logging.Logger) *Adapter {
	return &Adapter{
		local:   local,
		session: session,
		log:     log.With("component", "persistence"),
		now:     time.Now,
	}
}

// Save writes data, the format version and the save timestamp.
// A full store yields ErrStorageFull.
func (a *Adapter) Save(ctx context.Context, data types.CVData) error {
	b, err := json.Marshal(data.Normalize())
	if err != nil {
		return fmt.Errorf("failed to serialize cv data: %w", err)
	}
	if err := a.set(ctx, KeyData, b); err != nil {
		return err
	}
	if err := a.set(ctx, KeyVersion, []byte(FormatVersion)); err != nil {
		return err
	}
	return a.set(ctx, KeyLastSave, []byte(a.now().UTC().Format(timestampLayout)))
}

func (a *Adapter) set(ctx context.Context, key string, value []byte) error {
	if err := a.local.Set(ctx, key, value); err != nil {
		if errors.Is(err, storage.ErrQuotaExceeded) {
			a.log.Warn(ctx, "local storage quota exceeded", "key", key, "bytes", len(value))
			return fmt.Errorf("%w: %s", ErrStorageFull, key)
		}
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Load returns the stored résumé, or nil when nothing is stored. A corrupt
// value is logged and treated as absent.
func (a *Adapter) Load(ctx context.Context) (*types.CVData, error) {
	b, err := a.local.Get(ctx, KeyData)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored cv data: %w", err)
	}
	if b == nil {
		return nil, nil
	}

	data, err := decodeCVData(b)
	if err != nil {
		a.log.Warn(ctx, "stored cv data is corrupt, ignoring", "err", err)
		return nil, nil
	}

	if v, _ := a.local.Get(ctx, KeyVersion); v != nil && string(v) != FormatVersion {
		a.log.Debug(ctx, "stored format version differs", "stored", string(v), "current", FormatVersion)
	}
	return data, nil
}

// LastSaved returns the time of the last successful Save.
func (a *Adapter) LastSaved(ctx context.Context) (time.Time, bool) {
	b, err := a.local.Get(ctx, KeyLastSave)
	if err != nil || b == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(timestampLayout, string(b))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Clear removes the résumé and every key stored alongside it.
func (a *Adapter) Clear(ctx context.Context) error {
	for _, key := range []string{KeyData, KeyVersion, KeyLastSave, KeyCustomization} {
		if err := a.local.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to clear %s: %w", key, err)
		}
	}
	return nil
}

// SaveCustomization writes the visual settings.
func (a *Adapter) SaveCustomization(ctx context.Context, c types.CVCustomization) error {
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize customization: %w", err)
	}
	return a.set(ctx, KeyCustomization, b)
}

// LoadCustomization returns the stored settings, or the defaults when none
// are stored or the stored value is unreadable.
func (a *Adapter) LoadCustomization(ctx context.Context) types.CVCustomization {
	b, err := a.local.Get(ctx, KeyCustomization)
	if err != nil || b == nil {
		return types.DefaultCustomization()
	}
	var c types.CVCustomization
	if err := json.Unmarshal(b, &c); err != nil {
		a.log.Warn(ctx, "stored customization is corrupt, using defaults", "err", err)
		return types.DefaultCustomization()
	}
	return c.WithDefaults()
}

// BackupToSession stores a recovery copy. Failures are only logged.
func (a *Adapter) BackupToSession(ctx context.Context, data types.CVData) {
	b, err := json.Marshal(data.Normalize())
	if err != nil {
		a.log.Warn(ctx, "session backup failed", "err", err)
		return
	}
	if err := a.session.Set(ctx, KeyBackup, b); err != nil {
		a.log.Warn(ctx, "session backup failed", "err", err)
	}
}

// RestoreFromSession returns the recovery copy, or nil. Failures are only logged.
func (a *Adapter) RestoreFromSession(ctx context.Context) *types.CVData {
	b, err := a.session.Get(ctx, KeyBackup)
	if err != nil {
		a.log.Warn(ctx, "session restore failed", "err", err)
		return nil
	}
	if b == nil {
		return nil
	}
	data, err := decodeCVData(b)
	if err != nil {
		a.log.Warn(ctx, "session backup is corrupt", "err", err)
		return nil
	}
	return data
}

func decodeCVData(b []byte) (*types.CVData, error) {
	var data types.CVData
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, err
	}
	data = data.EnsureIDs()
	return &data, nil
}
