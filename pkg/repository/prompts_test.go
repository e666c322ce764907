package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/chatwriting/pkg/domain"
	"github.com/dskvich/chatwriting/pkg/storage"
)

// fakeStore keeps snapshots in memory, round-tripping them through JSON the way the
// real store does.
type fakeStore struct {
	records map[string]json.RawMessage
	loadErr error
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]json.RawMessage{}}
}

func (f *fakeStore) Load(_ context.Context, key string, dest any) (bool, error) {
	if f.loadErr != nil {
		return false, f.loadErr
	}
	raw, ok := f.records[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, nil
	}
	return true, nil
}

func (f *fakeStore) Save(_ context.Context, key string, value any) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.records[key] = raw
	return nil
}

func TestNewPromptsRepository_SeedsDefaultsAndSelectsFirst(t *testing.T) {
	repo := NewPromptsRepository(context.Background(), newFakeStore())

	all := repo.All()
	require.NotEmpty(t, all)
	assert.Equal(t, all[0].ID, repo.SelectedID())

	selected, ok := repo.Selected()
	require.True(t, ok)
	assert.Equal(t, all[0].ID, selected.ID)
}

func TestNewPromptsRepository_LoadsPersistedLibrary(t *testing.T) {
	store := newFakeStore()
	saved := []domain.PromptTemplate{domain.NewPromptTemplate("Persisted", "", "persisted content")}
	require.NoError(t, store.Save(context.Background(), storage.KeyPromptLibrary, saved))

	repo := NewPromptsRepository(context.Background(), store)

	all := repo.All()
	require.Len(t, all, 1)
	assert.Equal(t, saved[0].ID, all[0].ID)
	assert.Equal(t, saved[0].ID, repo.SelectedID())
}

func TestPromptsRepository_UpsertReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	repo := NewPromptsRepository(ctx, newFakeStore())

	original := repo.All()[0]
	updated := original
	updated.Name = "Renamed"
	updated.Content = "new content"
	require.NoError(t, repo.Upsert(ctx, updated))

	all := repo.All()
	assert.Equal(t, original.ID, all[0].ID)
	assert.Equal(t, "Renamed", all[0].Name)
	assert.Equal(t, original.CreatedAt, all[0].CreatedAt)
	assert.False(t, all[0].UpdatedAt.Before(original.UpdatedAt))
}

func TestPromptsRepository_UpsertAppendsNewAndPersists(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	repo := NewPromptsRepository(ctx, store)
	before := len(repo.All())

	prompt := domain.NewPromptTemplate("New", "", "content")
	require.NoError(t, repo.Upsert(ctx, prompt))

	all := repo.All()
	require.Len(t, all, before+1)
	assert.Equal(t, prompt.ID, all[len(all)-1].ID)

	var persisted []domain.PromptTemplate
	ok, err := store.Load(ctx, storage.KeyPromptLibrary, &persisted)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, persisted, before+1)
}

func TestPromptsRepository_RemoveFallsBackSelection(t *testing.T) {
	ctx := context.Background()
	repo := NewPromptsRepository(ctx, newFakeStore())

	all := repo.All()
	require.GreaterOrEqual(t, len(all), 2)

	require.NoError(t, repo.Remove(ctx, all[0].ID))
	assert.Equal(t, all[1].ID, repo.SelectedID())

	require.NoError(t, repo.Remove(ctx, all[1].ID))
	assert.Empty(t, repo.SelectedID())
	_, ok := repo.Selected()
	assert.False(t, ok)
}

func TestPromptsRepository_RemoveKeepsUnrelatedSelection(t *testing.T) {
	ctx := context.Background()
	repo := NewPromptsRepository(ctx, newFakeStore())

	all := repo.All()
	require.GreaterOrEqual(t, len(all), 2)
	repo.Select(all[1].ID)

	require.NoError(t, repo.Remove(ctx, all[0].ID))
	assert.Equal(t, all[1].ID, repo.SelectedID())
}

func TestPromptsRepository_SelectedResolvesAgainstLiveLibrary(t *testing.T) {
	ctx := context.Background()
	repo := NewPromptsRepository(ctx, newFakeStore())

	// A dangling selection resolves to nothing instead of a stale template.
	repo.Select("gone")
	_, ok := repo.Selected()
	assert.False(t, ok)
}

func TestPromptsRepository_UpsertPropagatesStoreError(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	repo := NewPromptsRepository(ctx, store)

	store.saveErr = errors.New("disk full")
	err := repo.Upsert(ctx, domain.NewPromptTemplate("New", "", "content"))
	assert.ErrorContains(t, err, "disk full")
}
