package notification_service

import (
	"context"
	"time"

	"github.com/manan-abhishek/Raabta-ChatApp/internal/dtos/notif_dto"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/entity"
	app_error "github.com/manan-abhishek/Raabta-ChatApp/internal/errors"
	message_repo "github.com/manan-abhishek/Raabta-ChatApp/internal/repo/message"
	notification_repo "github.com/manan-abhishek/Raabta-ChatApp/internal/repo/notification"
	room_repo "github.com/manan-abhishek/Raabta-ChatApp/internal/repo/room"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/utils/types"
	"github.com/manan-abhishek/Raabta-ChatApp/state"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const defaultListLimit = 50

type NotificationService struct {
	NotifRepo notification_repo.NotificationRepoContract
	RoomRepo  room_repo.RoomRepoContract
	MsgRepo   message_repo.MessageRepoContract
}

func NewNotificationService(appState *state.AppState) NotificationServiceContract {
	return &NotificationService{
		NotifRepo: notification_repo.NewNotificationRepo(appState),
		RoomRepo:  room_repo.NewRoomRepo(appState),
		MsgRepo:   message_repo.NewMessageRepo(appState),
	}
}

func (s *NotificationService) CreateForMessage(ctx context.Context, payload types.NotifyMembersPayload) ([]*entity.Notification, *app_error.AppError) {
	messageID, err := bson.ObjectIDFromHex(payload.MessageID)
	if err != nil {
		return nil, app_error.InvalidArgument("invalid message id", "message_id")
	}

	now := time.Now()
	notifications := make([]*entity.Notification, 0, len(payload.MemberIDs))
	for _, memberID := range payload.MemberIDs {
		if memberID == payload.SenderID {
			continue
		}
		notifications = append(notifications, &entity.Notification{
			UserID:    memberID,
			Kind:      entity.NotificationKindMessage,
			MessageID: messageID,
			RoomID:    payload.RoomID,
			FromID:    payload.SenderID,
			CreatedAt: now,
		})
	}

	if appErr := s.NotifRepo.InsertNotifications(ctx, notifications); appErr != nil {
		return nil, appErr
	}
	return notifications, nil
}

func (s *NotificationService) ListNotifications(ctx context.Context, callerID string, unreadOnly bool, page, limit int) (*notif_dto.ListNotificationsResponse, *app_error.AppError) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	notifications, total, err := s.NotifRepo.ListForUser(ctx, callerID, unreadOnly, page, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]notif_dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, toNotificationResponse(n))
	}

	return &notif_dto.ListNotificationsResponse{
		Notifications: responses,
		Page:          page,
		Limit:         limit,
		Total:         total,
	}, nil
}

func (s *NotificationService) MarkNotificationRead(ctx context.Context, callerID, notificationID string) (*notif_dto.NotificationResponse, *app_error.AppError) {
	notification, err := s.NotifRepo.FindNotificationByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}

	if notification.UserID != callerID {
		return nil, app_error.PermissionDenied("cannot act on another user's notification")
	}

	if !notification.IsRead {
		now := time.Now()
		if err := s.NotifRepo.MarkRead(ctx, notificationID, now); err != nil {
			return nil, err
		}
		notification.IsRead = true
		notification.ReadAt = &now
	}

	resp := toNotificationResponse(notification)
	return &resp, nil
}

func (s *NotificationService) MarkAllNotificationsRead(ctx context.Context, callerID string) (*notif_dto.MarkAllReadResponse, *app_error.AppError) {
	count, err := s.NotifRepo.MarkAllRead(ctx, callerID, time.Now())
	if err != nil {
		return nil, err
	}
	return &notif_dto.MarkAllReadResponse{UpdatedCount: count}, nil
}

func (s *NotificationService) UnreadSummary(ctx context.Context, callerID string) (*notif_dto.UnreadSummaryResponse, *app_error.AppError) {
	rooms, err := s.RoomRepo.ListRoomsForUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	summary := &notif_dto.UnreadSummaryResponse{
		Rooms: make([]notif_dto.RoomUnread, 0, len(rooms)),
	}
	for _, room := range rooms {
		count, err := s.MsgRepo.UnreadCount(ctx, room.ID.String(), callerID)
		if err != nil {
			return nil, err
		}
		summary.Rooms = append(summary.Rooms, notif_dto.RoomUnread{
			RoomID:      room.ID.String(),
			UnreadCount: count,
		})
		summary.TotalUnread += count
	}
	return summary, nil
}

func toNotificationResponse(n *entity.Notification) notif_dto.NotificationResponse {
	resp := notif_dto.NotificationResponse{
		ID:        n.ID.Hex(),
		Kind:      n.Kind,
		RoomID:    n.RoomID,
		FromID:    n.FromID,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if !n.MessageID.IsZero() {
		resp.MessageID = n.MessageID.Hex()
	}
	return resp
}
