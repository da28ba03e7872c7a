package auth

//go:generate mockgen -source=auth_repo.go -destination=mock/auth_repo_mock.go -package=mock

import (
	"context"
	"encoding/json"
	"errors"

	autherrors "go-presence/internal/auth/errors"
	"go-presence/internal/credential"
)

// Repository persists the identity between runs.
type Repository interface {
	Load(ctx context.Context) (*Identity, error)
	Save(ctx context.Context, id Identity) error
	Clear(ctx context.Context) error
}

type repository struct {
	store credential.Store
}

func NewRepository(store credential.Store) Repository {
	return &repository{store: store}
}

// Load returns nil when nothing is stored.
func (r *repository) Load(ctx context.Context) (*Identity, error) {
	raw, found, err := r.store.Get(ctx, credential.UserKey)
	if errors.Is(err, credential.ErrCorrupt) {
		return nil, autherrors.ErrCorruptCredential.WithCause(err)
	}
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return nil, autherrors.ErrCorruptCredential.WithCause(err)
	}
	if id.IsZero() {
		return nil, autherrors.ErrCorruptCredential
	}
	return &id, nil
}

func (r *repository) Save(ctx context.Context, id Identity) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, credential.UserKey, string(raw))
}

func (r *repository) Clear(ctx context.Context) error {
	return r.store.Remove(ctx, credential.UserKey)
}
