package services

import (
	"context"

	"erp-system/internal/authz"
	"erp-system/internal/entities"
	"erp-system/internal/events"
	"erp-system/internal/repositories"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/eventbus"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// EventPublisher - часть шины событий, через которую публикуют сервисы.
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

// NotificationMessage - что процесс хочет сообщить получателям.
type NotificationMessage struct {
	Type            string
	Title           string
	Message         string
	RelatedEntity   string
	RelatedEntityID uint64
}

type NotificationServiceInterface interface {
	// NotifyUsers сохраняет по уведомлению на получателя внутри tx.
	// Возвращённые строки передаются в Dispatch после коммита.
	NotifyUsers(ctx context.Context, tx pgx.Tx, userIDs []uint64, msg NotificationMessage) ([]entities.Notification, error)
	NotifyRole(ctx context.Context, tx pgx.Tx, roleName string, msg NotificationMessage) ([]entities.Notification, error)
	Dispatch(ctx context.Context, created []entities.Notification)

	GetMine(ctx context.Context, unreadOnly bool) ([]entities.Notification, error)
	CountUnread(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, id uint64) error
	MarkAllRead(ctx context.Context) (int64, error)
}

type NotificationService struct {
	repo     repositories.NotificationRepositoryInterface
	userRepo repositories.UserRepositoryInterface
	bus      EventPublisher
	logger   *zap.Logger
}

func NewNotificationService(
	repo repositories.NotificationRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	bus EventPublisher,
	logger *zap.Logger,
) NotificationServiceInterface {
	return &NotificationService{repo: repo, userRepo: userRepo, bus: bus, logger: logger}
}

// NotifyUsers сохраняет по уведомлению на каждого получателя в транзакции tx.
// Повторы и нулевые ID пропускаются.
func (s *NotificationService) NotifyUsers(ctx context.Context, tx pgx.Tx, userIDs []uint64, msg NotificationMessage) ([]entities.Notification, error) {
	created := make([]entities.Notification, 0, len(userIDs))
	seen := make(map[uint64]struct{}, len(userIDs))
	for _, userID := range userIDs {
		if _, dup := seen[userID]; dup || userID == 0 {
			continue
		}
		seen[userID] = struct{}{}

		n := &entities.Notification{
			UserID:  userID,
			Type:    msg.Type,
			Title:   msg.Title,
			Message: msg.Message,
		}
		if msg.RelatedEntity != "" {
			n.RelatedEntity = strPtr(msg.RelatedEntity)
			relatedID := msg.RelatedEntityID
			n.RelatedEntityID = &relatedID
		}
		saved, err := s.repo.Create(ctx, tx, n)
		if err != nil {
			s.logger.Error("failed to store notification", zap.Uint64("userID", userID), zap.String("type", msg.Type), zap.Error(err))
			return nil, err
		}
		created = append(created, *saved)
	}
	return created, nil
}

// NotifyRole пишет уведомление всем пользователям роли. Пустая роль - не ошибка.
func (s *NotificationService) NotifyRole(ctx context.Context, tx pgx.Tx, roleName string, msg NotificationMessage) ([]entities.Notification, error) {
	userIDs, err := s.userRepo.FindIDsByRoleName(ctx, tx, roleName)
	if err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		s.logger.Warn("no users hold role, notification skipped", zap.String("role", roleName), zap.String("type", msg.Type))
		return nil, nil
	}
	return s.NotifyUsers(ctx, tx, userIDs, msg)
}

// Dispatch публикует уже сохранённые уведомления. Вызывается после коммита.
func (s *NotificationService) Dispatch(ctx context.Context, created []entities.Notification) {
	if s.bus == nil {
		return
	}
	for _, n := range created {
		s.bus.Publish(ctx, events.NotificationCreatedEvent{Notification: n})
	}
}

func (s *NotificationService) GetMine(ctx context.Context, unreadOnly bool) ([]entities.Notification, error) {
	authContext, err := authorize(ctx, s.userRepo, authz.NotificationsView, nil)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByUser(ctx, authContext.Actor.ID, unreadOnly)
}

func (s *NotificationService) CountUnread(ctx context.Context) (int64, error) {
	authContext, err := authorize(ctx, s.userRepo, authz.NotificationsView, nil)
	if err != nil {
		return 0, err
	}
	return s.repo.CountUnread(ctx, authContext.Actor.ID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id uint64) error {
	authContext, err := buildAuthzContext(ctx, s.userRepo)
	if err != nil {
		return err
	}
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	authContext.Target = n
	if !authz.CanDo(authz.NotificationsView, *authContext) {
		return apperrors.ErrForbidden
	}
	if n.IsRead {
		return nil
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context) (int64, error) {
	authContext, err := authorize(ctx, s.userRepo, authz.NotificationsView, nil)
	if err != nil {
		return 0, err
	}
	return s.repo.MarkAllRead(ctx, authContext.Actor.ID)
}
