package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	autherrors "go-presence/internal/auth/errors"
	"go-presence/internal/shared/apperror"

	"go.uber.org/zap"
)

// IdentityProvider is what the session engine reads the identity through.
type IdentityProvider interface {
	Identity(ctx context.Context) (Identity, error)
}

// LifecycleHook ties state owned elsewhere to login and logout.
type LifecycleHook interface {
	OnLogin(ctx context.Context, id Identity)
	OnLogout(ctx context.Context)
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	IdentityProvider

	// Rehydrate restores a stored identity. It runs once at startup, before
	// anything depending on the identity accepts calls.
	Rehydrate(ctx context.Context) (bool, error)
	Login(ctx context.Context, email, password, companyID string) (Identity, error)
	Logout(ctx context.Context) error
	IsAuthenticated() bool
	AddHook(h LifecycleHook)
}

type service struct {
	repo          Repository
	authenticator Authenticator
	logger        *zap.Logger

	mu       sync.RWMutex
	identity *Identity
	hooks    []LifecycleHook
}

func NewService(repo Repository, authenticator Authenticator) Service {
	return &service{
		repo:          repo,
		authenticator: authenticator,
		logger:        zap.L().Named("auth.service"),
	}
}

func (s *service) AddHook(h LifecycleHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, h)
}

func (s *service) Rehydrate(ctx context.Context) (bool, error) {
	id, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, autherrors.ErrCorruptCredential) {
			// unreadable record: drop it so the next login starts clean
			s.logger.Warn("discarding unreadable stored identity", zap.Error(err))
			if clearErr := s.repo.Clear(ctx); clearErr != nil {
				s.logger.Warn("failed to remove unreadable identity", zap.Error(clearErr))
			}
			return false, nil
		}
		return false, err
	}
	if id == nil {
		return false, nil
	}

	hooks := s.set(id)
	s.logger.Info("identity restored", zap.String("employee_id", id.ID))
	for _, h := range hooks {
		h.OnLogin(ctx, *id)
	}
	return true, nil
}

func (s *service) Login(ctx context.Context, email, password, companyID string) (Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Identity{}, apperror.RequiredField("email")
	}
	if password == "" {
		return Identity{}, apperror.RequiredField("password")
	}

	id, err := s.authenticator.Login(ctx, email, password, strings.TrimSpace(companyID))
	if err != nil {
		s.logger.Info("login failed", zap.String("email", email), zap.Error(err))
		return Identity{}, err
	}

	if err := s.repo.Save(ctx, id); err != nil {
		return Identity{}, err
	}

	hooks := s.set(&id)
	s.logger.Info("login succeeded", zap.String("employee_id", id.ID), zap.String("company_id", id.CompanyID))
	for _, h := range hooks {
		h.OnLogin(ctx, id)
	}
	return id, nil
}

// Logout clears the in-memory identity even when removing the stored record
// fails; the removal error is still returned.
func (s *service) Logout(ctx context.Context) error {
	clearErr := s.repo.Clear(ctx)

	hooks := s.set(nil)
	for _, h := range hooks {
		h.OnLogout(ctx)
	}

	if clearErr != nil {
		s.logger.Warn("failed to remove stored identity", zap.Error(clearErr))
		return clearErr
	}
	s.logger.Info("logged out")
	return nil
}

func (s *service) Identity(_ context.Context) (Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return Identity{}, autherrors.ErrNotAuthenticated
	}
	return *s.identity, nil
}

func (s *service) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

// set swaps the identity and returns a copy of the hooks to notify outside the lock.
func (s *service) set(id *Identity) []LifecycleHook {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = id
	return append([]LifecycleHook(nil), s.hooks...)
}
