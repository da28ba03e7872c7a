package auth_test

import (
	"context"
	"strings"
	"testing"

	"go-presence/internal/auth"
	autherrors "go-presence/internal/auth/errors"
	"go-presence/internal/credential"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	store := credential.NewMemoryStore()
	repo := auth.NewRepository(store)

	got, err := repo.Load(ctx)
	assert.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, repo.Save(ctx, asha))

	raw, found, err := store.Get(ctx, credential.UserKey)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"id":"42","name":"Asha","email":"asha@example.com","companyId":"7"}`, raw)

	got, err = repo.Load(ctx)
	assert.NoError(t, err)
	assert.Equal(t, asha, *got)

	assert.NoError(t, repo.Clear(ctx))
	got, err = repo.Load(ctx)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_Corrupt(t *testing.T) {
	ctx := context.Background()
	store := credential.NewMemoryStore()
	repo := auth.NewRepository(store)

	assert.NoError(t, store.Set(ctx, credential.UserKey, "{not json"))
	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, autherrors.ErrCorruptCredential)

	assert.NoError(t, store.Set(ctx, credential.UserKey, `{"name":"no id"}`))
	_, err = repo.Load(ctx)
	assert.ErrorIs(t, err, autherrors.ErrCorruptCredential)
}

func TestRehydrate_KeyChangedDiscardsRecord(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	oldStore, err := credential.NewSecureFileStore(dir, []byte(strings.Repeat("a", 32)))
	require.NoError(t, err)
	require.NoError(t, auth.NewRepository(oldStore).Save(ctx, asha))

	newStore, err := credential.NewSecureFileStore(dir, []byte(strings.Repeat("b", 32)))
	require.NoError(t, err)
	repo := auth.NewRepository(newStore)

	_, err = repo.Load(ctx)
	assert.ErrorIs(t, err, autherrors.ErrCorruptCredential)
	assert.ErrorIs(t, err, credential.ErrCorrupt)

	svc := auth.NewService(repo, nil)
	restored, err := svc.Rehydrate(ctx)
	assert.NoError(t, err)
	assert.False(t, restored)

	_, found, err := newStore.Get(ctx, credential.UserKey)
	assert.NoError(t, err)
	assert.False(t, found)

	// a fresh login under the new key persists normally
	require.NoError(t, repo.Save(ctx, asha))
	got, err := repo.Load(ctx)
	assert.NoError(t, err)
	assert.Equal(t, asha, *got)
}
