package credential_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-presence/internal/credential"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

const userJSON = `{"id":"42","name":"Asha","email":"asha@example.com","companyId":"7"}`

func TestSecureFileStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := credential.NewSecureFileStore(dir, testKey)
	assert.NoError(t, err)

	t.Run("missing key is not found", func(t *testing.T) {
		_, found, err := store.Get(ctx, credential.UserKey)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("set then get round trips and is encrypted at rest", func(t *testing.T) {
		assert.NoError(t, store.Set(ctx, credential.UserKey, userJSON))

		got, found, err := store.Get(ctx, credential.UserKey)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, userJSON, got)

		raw, err := os.ReadFile(filepath.Join(dir, "user.cred"))
		assert.NoError(t, err)
		assert.NotContains(t, string(raw), "asha@example.com")
	})

	t.Run("wrong key cannot decrypt", func(t *testing.T) {
		other, err := credential.NewSecureFileStore(dir, []byte(strings.Repeat("x", 32)))
		assert.NoError(t, err)
		_, _, err = other.Get(ctx, credential.UserKey)
		assert.ErrorIs(t, err, credential.ErrCorrupt)
		assert.ErrorContains(t, err, "decryption failed")
	})

	t.Run("tampered file is corrupt", func(t *testing.T) {
		assert.NoError(t, os.WriteFile(filepath.Join(dir, "tampered.cred"), []byte("zz-not-hex"), 0o600))
		_, _, err := store.Get(ctx, "tampered")
		assert.ErrorIs(t, err, credential.ErrCorrupt)
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		assert.NoError(t, store.Remove(ctx, credential.UserKey))
		assert.NoError(t, store.Remove(ctx, credential.UserKey))
		_, found, err := store.Get(ctx, credential.UserKey)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("path separators rejected", func(t *testing.T) {
		assert.ErrorIs(t, store.Set(ctx, "../escape", "x"), credential.ErrInvalidKey)
	})
}

func TestNewSecureFileStore_RejectsShortKey(t *testing.T) {
	_, err := credential.NewSecureFileStore(t.TempDir(), []byte("short"))
	assert.Error(t, err)
}

func TestPlainFileStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := credential.NewPlainFileStore(dir, zap.NewNop())
	assert.NoError(t, err)
	assert.NoError(t, store.Set(ctx, credential.UserKey, userJSON))

	raw, err := os.ReadFile(filepath.Join(dir, "user.cred"))
	assert.NoError(t, err)
	assert.Equal(t, userJSON, string(raw))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := credential.NewMemoryStore()

	assert.NoError(t, store.Set(ctx, credential.UserKey, userJSON))
	got, found, err := store.Get(ctx, credential.UserKey)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, userJSON, got)

	assert.NoError(t, store.Remove(ctx, credential.UserKey))
	_, found, _ = store.Get(ctx, credential.UserKey)
	assert.False(t, found)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	store := credential.NewRedisStore(db, "")
	key := credential.DefaultRedisPrefix + credential.UserKey

	mock.ExpectGet(key).RedisNil()
	_, found, err := store.Get(ctx, credential.UserKey)
	assert.NoError(t, err)
	assert.False(t, found)

	mock.ExpectSet(key, userJSON, 0).SetVal("OK")
	assert.NoError(t, store.Set(ctx, credential.UserKey, userJSON))

	mock.ExpectGet(key).SetVal(userJSON)
	got, found, err := store.Get(ctx, credential.UserKey)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, userJSON, got)

	mock.ExpectDel(key).SetVal(1)
	assert.NoError(t, store.Remove(ctx, credential.UserKey))

	assert.NoError(t, mock.ExpectationsWereMet())
}
