package auth_test

import (
	"context"
	"errors"
	"testing"

	"go-presence/internal/auth"
	autherrors "go-presence/internal/auth/errors"
	authMock "go-presence/internal/auth/mock"
	"go-presence/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type serviceDeps struct {
	service       auth.Service
	repo          *authMock.MockRepository
	authenticator *authMock.MockAuthenticator
	hook          *authMock.MockLifecycleHook
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	repo := authMock.NewMockRepository(ctrl)
	authenticator := authMock.NewMockAuthenticator(ctrl)
	hook := authMock.NewMockLifecycleHook(ctrl)

	svc := auth.NewService(repo, authenticator)
	svc.AddHook(hook)

	return &serviceDeps{service: svc, repo: repo, authenticator: authenticator, hook: hook}
}

var asha = auth.Identity{ID: "42", Name: "Asha", Email: "asha@example.com", CompanyID: "7"}

func TestAuthService_Identity_Empty(t *testing.T) {
	deps := setupServiceTest(t)

	_, err := deps.service.Identity(context.Background())
	assert.ErrorIs(t, err, autherrors.ErrNotAuthenticated)
	assert.False(t, deps.service.IsAuthenticated())
}

func TestAuthService_Rehydrate(t *testing.T) {
	ctx := context.Background()

	t.Run("restores stored identity", func(t *testing.T) {
		deps := setupServiceTest(t)
		stored := asha
		deps.repo.EXPECT().Load(ctx).Return(&stored, nil)
		deps.hook.EXPECT().OnLogin(ctx, asha)

		ok, err := deps.service.Rehydrate(ctx)
		assert.NoError(t, err)
		assert.True(t, ok)

		id, err := deps.service.Identity(ctx)
		assert.NoError(t, err)
		assert.Equal(t, asha, id)
	})

	t.Run("nothing stored", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().Load(ctx).Return(nil, nil)

		ok, err := deps.service.Rehydrate(ctx)
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.False(t, deps.service.IsAuthenticated())
	})

	t.Run("corrupt record is discarded", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().Load(ctx).Return(nil, autherrors.ErrCorruptCredential)
		deps.repo.EXPECT().Clear(ctx).Return(nil)

		ok, err := deps.service.Rehydrate(ctx)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("store error", func(t *testing.T) {
		deps := setupServiceTest(t)
		storeErr := errors.New("disk gone")
		deps.repo.EXPECT().Load(ctx).Return(nil, storeErr)

		_, err := deps.service.Rehydrate(ctx)
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.authenticator.EXPECT().Login(ctx, "asha@example.com", "pw", "7").Return(asha, nil)
		deps.repo.EXPECT().Save(ctx, asha).Return(nil)
		deps.hook.EXPECT().OnLogin(ctx, asha)

		id, err := deps.service.Login(ctx, " asha@example.com ", "pw", "7")
		assert.NoError(t, err)
		assert.Equal(t, asha, id)
		assert.True(t, deps.service.IsAuthenticated())
	})

	t.Run("missing email", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, err := deps.service.Login(ctx, "", "pw", "7")
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.authenticator.EXPECT().Login(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(auth.Identity{}, autherrors.ErrLoginFailed)

		_, err := deps.service.Login(ctx, "asha@example.com", "bad", "7")
		assert.ErrorIs(t, err, autherrors.ErrLoginFailed)
		assert.False(t, deps.service.IsAuthenticated())
	})

	t.Run("store failure keeps user signed out", func(t *testing.T) {
		deps := setupServiceTest(t)
		storeErr := errors.New("read-only")
		deps.authenticator.EXPECT().Login(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(asha, nil)
		deps.repo.EXPECT().Save(ctx, asha).Return(storeErr)

		_, err := deps.service.Login(ctx, "asha@example.com", "pw", "7")
		assert.ErrorIs(t, err, storeErr)
		assert.False(t, deps.service.IsAuthenticated())
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()

	signIn := func(deps *serviceDeps) {
		deps.authenticator.EXPECT().Login(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(asha, nil)
		deps.repo.EXPECT().Save(ctx, asha).Return(nil)
		deps.hook.EXPECT().OnLogin(ctx, asha)
		_, _ = deps.service.Login(ctx, "asha@example.com", "pw", "7")
	}

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		signIn(deps)
		deps.repo.EXPECT().Clear(ctx).Return(nil)
		deps.hook.EXPECT().OnLogout(ctx)

		assert.NoError(t, deps.service.Logout(ctx))
		assert.False(t, deps.service.IsAuthenticated())
	})

	t.Run("clears memory even if store fails", func(t *testing.T) {
		deps := setupServiceTest(t)
		signIn(deps)
		storeErr := errors.New("locked")
		deps.repo.EXPECT().Clear(ctx).Return(storeErr)
		deps.hook.EXPECT().OnLogout(ctx)

		assert.ErrorIs(t, deps.service.Logout(ctx), storeErr)
		assert.False(t, deps.service.IsAuthenticated())
	})
}
