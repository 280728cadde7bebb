package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jonathan/lebenslauf/internal/logging"
	"github.com/jonathan/lebenslauf/internal/storage"
	"github.com/jonathan/lebenslauf/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) (*Adapter, *storage.MemoryStore, *storage.MemoryStore) {
	t.Helper()
	local := storage.NewMemoryStore(0)
	session := storage.NewMemoryStore(0)
	a := NewAdapter(local, session, logging.Discard())
	a.now = func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) }
	return a, local, session
}

func sampleCV() types.CVData {
	d := types.NewCVData()
	d.PersonalInfo = types.PersonalInfo{
		FirstName: "Aziz",
		LastName:  "Karimov",
		JobTitle:  "Softwareentwickler",
		Email:     "aziz@example.com",
		Phone:     "+49 151 000000",
		City:      "Berlin",
	}
	d.Summary = "Entwickler aus Duschanbe.\nSeit 2022 in Deutschland."
	d.Experience = []types.WorkExperience{
		{ID: "exp-1", Position: "Entwickler", Company: "Acme", StartDate: "2022-01"},
	}
	d.Education = []types.Education{
		{ID: "edu-1", Degree: "B.Sc. Informatik", Institution: "TNU", StartDate: "2016-09", EndDate: "2020-06"},
	}
	d.Skills = []string{"Go", "SQL", "Go"}
	d.Languages = []types.LanguageSkill{
		{ID: "lang-1", Language: "Тоҷикӣ", Level: types.LevelNative},
		{ID: "lang-2", Language: "Deutsch", Level: types.LevelB2},
	}
	return d
}

// failingStore fails every write with the configured error.
type failingStore struct {
	storage.Store
	err error
}

func (f failingStore) Set(context.Context, string, []byte) error { return f.err }
func (f failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, f.err
}

func TestAdapter_SaveLoad_RoundTrip(t *testing.T) {
	a, _, _ := newTestAdapter(t)
	ctx := context.Background()
	data := sampleCV()

	require.NoError(t, a.Save(ctx, data))

	loaded, err := a.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, data, *loaded)
}

func TestAdapter_Save_WritesVersionAndTimestamp(t *testing.T) {
	a, local, _ := newTestAdapter(t)
	ctx := context.Background()

	require.NoError(t, a.Save(ctx, sampleCV()))

	v, _ := local.Get(ctx, KeyVersion)
	assert.Equal(t, FormatVersion, string(v))
	ts, _ := local.Get(ctx, KeyLastSave)
	assert.Equal(t, "2026-03-14T09:26:53.000Z", string(ts))

	saved, ok := a.LastSaved(ctx)
	require.True(t, ok)
	assert.True(t, saved.Equal(a.now()))
}

func TestAdapter_Load_Absent(t *testing.T) {
	a, _, _ := newTestAdapter(t)

	loaded, err := a.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestAdapter_Load_CorruptIsAbsent(t *testing.T) {
	a, local, _ := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, local.Set(ctx, KeyData, []byte(`{"personalInfo": {`)))

	loaded, err := a.Load(ctx)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestAdapter_Load_RegeneratesMissingIDs(t *testing.T) {
	a, local, _ := newTestAdapter(t)
	ctx := context.Background()
	raw := `{"experience":[{"position":"A"},{"position":"B"}]}`
	require.NoError(t, local.Set(ctx, KeyData, []byte(raw)))

	loaded, err := a.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Experience, 2)
	assert.NotEmpty(t, loaded.Experience[0].ID)
	assert.NotEqual(t, loaded.Experience[0].ID, loaded.Experience[1].ID)
	assert.NotNil(t, loaded.Skills)
}

func TestAdapter_Save_QuotaIsStorageFull(t *testing.T) {
	local := storage.NewMemoryStore(32)
	a := NewAdapter(local, storage.NewMemoryStore(0), logging.Discard())

	err := a.Save(context.Background(), sampleCV())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageFull)
}

func TestAdapter_Save_OtherFailuresAreNotStorageFull(t *testing.T) {
	a := NewAdapter(failingStore{err: errors.New("disk gone")}, storage.NewMemoryStore(0), logging.Discard())

	err := a.Save(context.Background(), sampleCV())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStorageFull)
}

func TestAdapter_Clear_RemovesAllKeys(t *testing.T) {
	a, local, session := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, a.Save(ctx, sampleCV()))
	require.NoError(t, a.SaveCustomization(ctx, types.DefaultCustomization()))
	a.BackupToSession(ctx, sampleCV())

	require.NoError(t, a.Clear(ctx))

	for _, key := range []string{KeyData, KeyVersion, KeyLastSave, KeyCustomization} {
		v, _ := local.Get(ctx, key)
		assert.Nil(t, v, key)
	}
	v, _ := session.Get(ctx, KeyBackup)
	assert.NotNil(t, v, "the session backup is not part of the local reset")
}

func TestAdapter_Customization(t *testing.T) {
	a, local, _ := newTestAdapter(t)
	ctx := context.Background()

	assert.Equal(t, types.DefaultCustomization(), a.LoadCustomization(ctx))

	c := types.CVCustomization{
		AccentColor:      types.AccentGreen,
		TypographyScale:  types.TypographySpacious,
		SectionSpacing:   types.SpacingTight,
		SectionSeparator: types.SeparatorNone,
	}
	require.NoError(t, a.SaveCustomization(ctx, c))
	assert.Equal(t, c, a.LoadCustomization(ctx))

	require.NoError(t, local.Set(ctx, KeyCustomization, []byte("not json")))
	assert.Equal(t, types.DefaultCustomization(), a.LoadCustomization(ctx))
}

func TestAdapter_SessionBackup(t *testing.T) {
	a, _, _ := newTestAdapter(t)
	ctx := context.Background()

	assert.Nil(t, a.RestoreFromSession(ctx))

	data := sampleCV()
	a.BackupToSession(ctx, data)

	restored := a.RestoreFromSession(ctx)
	require.NotNil(t, restored)
	assert.Equal(t, data, *restored)
}

func TestAdapter_SessionBackup_FailuresAreSwallowed(t *testing.T) {
	broken := failingStore{err: errors.New("session unavailable")}
	a := NewAdapter(storage.NewMemoryStore(0), broken, logging.Discard())
	ctx := context.Background()

	assert.NotPanics(t, func() { a.BackupToSession(ctx, sampleCV()) })
	assert.Nil(t, a.RestoreFromSession(ctx))
}

func TestAdapter_SavedJSONUsesCamelCase(t *testing.T) {
	a, local, _ := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, a.Save(ctx, sampleCV()))

	b, _ := local.Get(ctx, KeyData)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Contains(t, raw, "personalInfo")
	assert.Contains(t, raw["personalInfo"], "firstName")
}
