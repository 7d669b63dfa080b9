package notification_service

import (
	"context"

	"github.com/manan-abhishek/Raabta-ChatApp/internal/dtos/notif_dto"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/entity"
	app_error "github.com/manan-abhishek/Raabta-ChatApp/internal/errors"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/utils/types"
)

type NotificationServiceContract interface {
	// CreateForMessage persists one message notification per room member
	// except the sender. This is the only path that creates
	// notifications.
	CreateForMessage(ctx context.Context, payload types.NotifyMembersPayload) ([]*entity.Notification, *app_error.AppError)
	ListNotifications(ctx context.Context, callerID string, unreadOnly bool, page, limit int) (*notif_dto.ListNotificationsResponse, *app_error.AppError)
	MarkNotificationRead(ctx context.Context, callerID, notificationID string) (*notif_dto.NotificationResponse, *app_error.AppError)
	MarkAllNotificationsRead(ctx context.Context, callerID string) (*notif_dto.MarkAllReadResponse, *app_error.AppError)
	// UnreadSummary reports per-room unread message counts for every
	// room the caller belongs to.
	UnreadSummary(ctx context.Context, callerID string) (*notif_dto.UnreadSummaryResponse, *app_error.AppError)
}
