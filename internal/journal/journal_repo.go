package journal

//go:generate mockgen -source=journal_repo.go -destination=mock/journal_repo_mock.go -package=mock

import (
	"context"
	"errors"
	"time"

	journalerrors "go-presence/internal/journal/errors"
	"go-presence/internal/tenant"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const maxErrorMessage = 500

type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	ListByEmployee(ctx context.Context, companyID, employeeID string, limit int) ([]Entry, error)
	ListPending(ctx context.Context, limit int) ([]Entry, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type repository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db, now: time.Now}
}

// Migrate creates or updates the punch_journal table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Entry{})
}

func (r *repository) Create(ctx context.Context, entry *Entry) error {
	if entry.PublishStatus == "" {
		entry.PublishStatus = PublishPending
	}
	err := r.db.WithContext(ctx).Create(entry).Error
	if isUniqueViolation(err) {
		return journalerrors.ErrDuplicateEntry.WithCause(err)
	}
	return err
}

func (r *repository) ListByEmployee(ctx context.Context, companyID, employeeID string, limit int) ([]Entry, error) {
	var entries []Entry
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *repository) ListPending(ctx context.Context, limit int) ([]Entry, error) {
	var entries []Entry
	err := r.db.WithContext(ctx).
		Where("publish_status IN ?", []string{PublishPending, PublishFailed}).
		Where("next_retry_at IS NULL OR next_retry_at <= ?", r.now()).
		Order("occurred_at ASC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *repository) MarkSent(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&Entry{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"publish_status": PublishSent,
			"error_message":  nil,
			"next_retry_at":  nil,
			"updated_at":     r.now(),
		}).Error
}

// MarkFailed backs off 15s per attempt, capped at 150s.
func (r *repository) MarkFailed(ctx context.Context, id string, reason string) error {
	if len(reason) > maxErrorMessage {
		reason = reason[:maxErrorMessage]
	}
	return r.db.WithContext(ctx).
		Model(&Entry{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"publish_status": PublishFailed,
			"retry_count":    gorm.Expr("retry_count + 1"),
			"error_message":  reason,
			"next_retry_at":  gorm.Expr("NOW() + (LEAST(retry_count + 1, 10) * INTERVAL '15 seconds')"),
			"updated_at":     r.now(),
		}).Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
