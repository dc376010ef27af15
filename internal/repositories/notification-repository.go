package repositories

import (
	"context"
	"fmt"

	"erp-system/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var notificationColumns = []string{
	"id", "user_id", "type", "title", "message", "is_read", "related_entity", "related_entity_id", "created_at", "read_at",
}

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, n *entities.Notification) (*entities.Notification, error)
	FindByID(ctx context.Context, id uint64) (*entities.Notification, error)
	FindByUser(ctx context.Context, userID uint64, unreadOnly bool) ([]entities.Notification, error)
	CountUnread(ctx context.Context, userID uint64) (int64, error)
	MarkRead(ctx context.Context, id uint64) error
	MarkAllRead(ctx context.Context, userID uint64) (int64, error)
}

type NotificationRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewNotificationRepository(storage *pgxpool.Pool, logger *zap.Logger) NotificationRepositoryInterface {
	return &NotificationRepository{storage: storage, logger: logger}
}

func scanNotification(row pgx.Row) (*entities.Notification, error) {
	var n entities.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.RelatedEntity, &n.RelatedEntityID, &n.CreatedAt, &n.ReadAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &n, nil
}

func (r *NotificationRepository) Create(ctx context.Context, tx pgx.Tx, n *entities.Notification) (*entities.Notification, error) {
	query, args, err := psql.Insert("notifications").
		Columns("user_id", "type", "title", "message", "related_entity", "related_entity_id").
		Values(n.UserID, n.Type, n.Title, n.Message, n.RelatedEntity, n.RelatedEntityID).
		Suffix("RETURNING " + joinColumns(notificationColumns)).ToSql()
	if err != nil {
		return nil, err
	}
	return scanNotification(getQuerier(r.storage, tx).QueryRow(ctx, query, args...))
}

func (r *NotificationRepository) FindByID(ctx context.Context, id uint64) (*entities.Notification, error) {
	query, args, err := psql.Select(notificationColumns...).From("notifications").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanNotification(r.storage.QueryRow(ctx, query, args...))
}

func (r *NotificationRepository) FindByUser(ctx context.Context, userID uint64, unreadOnly bool) ([]entities.Notification, error) {
	builder := psql.Select(notificationColumns...).From("notifications").Where(sq.Eq{"user_id": userID})
	if unreadOnly {
		builder = builder.Where(sq.Eq{"is_read": false})
	}
	query, args, err := builder.OrderBy("created_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	list := make([]entities.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *n)
	}
	return list, rows.Err()
}

// CountUnread - непрочитанные уведомления пользователя.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.storage.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID).Scan(&count)
	return count, err
}

// MarkRead не трогает read_at, если уведомление уже прочитано.
func (r *NotificationRepository) MarkRead(ctx context.Context, id uint64) error {
	_, err := r.storage.Exec(ctx, `UPDATE notifications SET is_read = TRUE, read_at = COALESCE(read_at, NOW()) WHERE id = $1`, id)
	return err
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	tag, err := r.storage.Exec(ctx, `UPDATE notifications SET is_read = TRUE, read_at = NOW() WHERE user_id = $1 AND NOT is_read`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
