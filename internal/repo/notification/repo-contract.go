package notification_repo

import (
	"context"
	"time"

	"github.com/manan-abhishek/Raabta-ChatApp/internal/entity"
	app_error "github.com/manan-abhishek/Raabta-ChatApp/internal/errors"
)

type NotificationRepoContract interface {
	InsertNotifications(ctx context.Context, notifications []*entity.Notification) *app_error.AppError
	FindNotificationByID(ctx context.Context, id string) (*entity.Notification, *app_error.AppError)
	ListForUser(ctx context.Context, userID string, unreadOnly bool, page, limit int) ([]*entity.Notification, int64, *app_error.AppError)
	MarkRead(ctx context.Context, id string, at time.Time) *app_error.AppError
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, *app_error.AppError)
}
