package notification_service

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/entity"
	app_error "github.com/manan-abhishek/Raabta-ChatApp/internal/errors"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/utils/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type memNotifRepo struct {
	mu            sync.Mutex
	notifications []*entity.Notification
	markReadCalls int
}

func (f *memNotifRepo) InsertNotifications(ctx context.Context, notifications []*entity.Notification) *app_error.AppError {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, n := range notifications {
		n.ID = bson.NewObjectID()
		f.notifications = append(f.notifications, n)
	}
	return nil
}

func (f *memNotifRepo) FindNotificationByID(ctx context.Context, id string) (*entity.Notification, *app_error.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, n := range f.notifications {
		if n.ID.Hex() == id {
			return n, nil
		}
	}
	return nil, app_error.NotFound("notification not found", "notification")
}

func (f *memNotifRepo) ListForUser(ctx context.Context, userID string, unreadOnly bool, page, limit int) ([]*entity.Notification, int64, *app_error.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []*entity.Notification
	for _, n := range f.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		matched = append(matched, n)
	}

	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *memNotifRepo) MarkRead(ctx context.Context, id string, at time.Time) *app_error.AppError {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.markReadCalls++
	for _, n := range f.notifications {
		if n.ID.Hex() == id {
			n.IsRead = true
			at := at
			n.ReadAt = &at
			return nil
		}
	}
	return app_error.NotFound("notification not found", "notification")
}

func (f *memNotifRepo) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, *app_error.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var updated int64
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			at := at
			n.ReadAt = &at
			updated++
		}
	}
	return updated, nil
}

type stubRoomRepo struct {
	rooms []*entity.Room
}

func (f *stubRoomRepo) FindDirectRoom(ctx context.Context, userA, userB string) (*entity.Room, *app_error.AppError) {
	return nil, app_error.NotFound("direct room not found", "room")
}

func (f *stubRoomRepo) CreateDirectRoom(ctx context.Context, userA, userB string) (*entity.Room, *app_error.AppError) {
	return nil, app_error.Internal("not implemented", "room")
}

func (f *stubRoomRepo) CreateGroupRoom(ctx context.Context, name, creator string, memberIDs []string) (*entity.Room, *app_error.AppError) {
	return nil, app_error.Internal("not implemented", "room")
}

func (f *stubRoomRepo) FindRoomByID(ctx context.Context, roomID string) (*entity.Room, *app_error.AppError) {
	return nil, app_error.NotFound("room not found", "room")
}

func (f *stubRoomRepo) ListRoomsForUser(ctx context.Context, userID string) ([]*entity.Room, *app_error.AppError) {
	return f.rooms, nil
}

func (f *stubRoomRepo) IsMember(ctx context.Context, roomID, userID string) (bool, *app_error.AppError) {
	return true, nil
}

func (f *stubRoomRepo) FindMemberIDs(ctx context.Context, roomID string) ([]string, *app_error.AppError) {
	return nil, app_error.NotFound("room has no members", "room")
}

func (f *stubRoomRepo) TouchLastMessage(ctx context.Context, roomID, messageID string, at time.Time) *app_error.AppError {
	return nil
}

type stubMessageRepo struct {
	unread map[string]int64 // roomID:userID -> count
}

func (f *stubMessageRepo) InsertMessage(ctx context.Context, msg *entity.Message) (*entity.Message, *app_error.AppError) {
	return msg, nil
}

func (f *stubMessageRepo) FindMessageByID(ctx context.Context, messageID string) (*entity.Message, *app_error.AppError) {
	return nil, app_error.NotFound("message not found", "message")
}

func (f *stubMessageRepo) PageMessages(ctx context.Context, roomID string, page, limit int) ([]*entity.Message, int64, *app_error.AppError) {
	return nil, 0, nil
}

func (f *stubMessageRepo) MarkAllRead(ctx context.Context, roomID, userID string, at time.Time) (int64, *app_error.AppError) {
	return 0, nil
}

func (f *stubMessageRepo) UnreadCount(ctx context.Context, roomID, userID string) (int64, *app_error.AppError) {
	return f.unread[roomID+":"+userID], nil
}

func newTestNotificationService(notifRepo *memNotifRepo, roomRepo *stubRoomRepo, msgRepo *stubMessageRepo) *NotificationService {
	if roomRepo == nil {
		roomRepo = &stubRoomRepo{}
	}
	if msgRepo == nil {
		msgRepo = &stubMessageRepo{unread: map[string]int64{}}
	}
	return &NotificationService{
		NotifRepo: notifRepo,
		RoomRepo:  roomRepo,
		MsgRepo:   msgRepo,
	}
}

func messagePayload(sender string, members ...string) types.NotifyMembersPayload {
	return types.NotifyMembersPayload{
		MessageID: bson.NewObjectID().Hex(),
		RoomID:    uuid.New().String(),
		SenderID:  sender,
		Sender:    "user-" + sender,
		Content:   "hello",
		MemberIDs: members,
		CreatedAt: time.Now(),
	}
}

func TestCreateForMessage_SkipsSender(t *testing.T) {
	repo := &memNotifRepo{}
	svc := newTestNotificationService(repo, nil, nil)

	payload := messagePayload("alice", "alice", "bob", "carol")
	created, err := svc.CreateForMessage(context.Background(), payload)
	require.Nil(t, err)

	require.Len(t, created, 2, "The sender should not be notified about their own message")
	for _, n := range created {
		assert.NotEqual(t, "alice", n.UserID)
		assert.Equal(t, entity.NotificationKindMessage, n.Kind)
		assert.Equal(t, payload.RoomID, n.RoomID)
		assert.Equal(t, "alice", n.FromID)
		assert.False(t, n.IsRead)
	}
}

func TestCreateForMessage_InvalidMessageID(t *testing.T) {
	svc := newTestNotificationService(&memNotifRepo{}, nil, nil)

	payload := messagePayload("alice", "bob")
	payload.MessageID = "not-an-object-id"

	_, err := svc.CreateForMessage(context.Background(), payload)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.Code)
}

func TestListNotifications_UnreadOnly(t *testing.T) {
	repo := &memNotifRepo{}
	svc := newTestNotificationService(repo, nil, nil)
	ctx := context.Background()

	_, err := svc.CreateForMessage(ctx, messagePayload("alice", "bob", "carol"))
	require.Nil(t, err)
	_, err = svc.CreateForMessage(ctx, messagePayload("alice", "bob"))
	require.Nil(t, err)

	list, err := svc.ListNotifications(ctx, "bob", false, 1, 50)
	require.Nil(t, err)
	assert.Equal(t, int64(2), list.Total)

	// read one, then the unread filter should hide it
	_, err = svc.MarkNotificationRead(ctx, "bob", list.Notifications[0].ID)
	require.Nil(t, err)

	unreadList, err := svc.ListNotifications(ctx, "bob", true, 1, 50)
	require.Nil(t, err)
	assert.Equal(t, int64(1), unreadList.Total)
}

func TestMarkNotificationRead_OwnerOnly(t *testing.T) {
	repo := &memNotifRepo{}
	svc := newTestNotificationService(repo, nil, nil)
	ctx := context.Background()

	created, err := svc.CreateForMessage(ctx, messagePayload("alice", "bob"))
	require.Nil(t, err)
	require.Len(t, created, 1)

	_, err = svc.MarkNotificationRead(ctx, "mallory", created[0].ID.Hex())
	require.NotNil(t, err)
	assert.Equal(t, http.StatusForbidden, err.Code)
}

func TestMarkNotificationRead_Idempotent(t *testing.T) {
	repo := &memNotifRepo{}
	svc := newTestNotificationService(repo, nil, nil)
	ctx := context.Background()

	created, err := svc.CreateForMessage(ctx, messagePayload("alice", "bob"))
	require.Nil(t, err)

	first, err := svc.MarkNotificationRead(ctx, "bob", created[0].ID.Hex())
	require.Nil(t, err)
	assert.True(t, first.IsRead)

	second, err := svc.MarkNotificationRead(ctx, "bob", created[0].ID.Hex())
	require.Nil(t, err)
	assert.True(t, second.IsRead)
	assert.Equal(t, 1, repo.markReadCalls, "An already-read notification should not hit the store again")
}

func TestMarkAllNotificationsRead(t *testing.T) {
	repo := &memNotifRepo{}
	svc := newTestNotificationService(repo, nil, nil)
	ctx := context.Background()

	_, err := svc.CreateForMessage(ctx, messagePayload("alice", "bob", "carol"))
	require.Nil(t, err)
	_, err = svc.CreateForMessage(ctx, messagePayload("alice", "bob"))
	require.Nil(t, err)

	resp, err := svc.MarkAllNotificationsRead(ctx, "bob")
	require.Nil(t, err)
	assert.Equal(t, int64(2), resp.UpdatedCount)

	resp, err = svc.MarkAllNotificationsRead(ctx, "bob")
	require.Nil(t, err)
	assert.Equal(t, int64(0), resp.UpdatedCount)
}

func TestUnreadSummary_SumsPerRoomCounts(t *testing.T) {
	roomA := &entity.Room{ID: uuid.New()}
	roomB := &entity.Room{ID: uuid.New()}

	msgRepo := &stubMessageRepo{unread: map[string]int64{
		roomA.ID.String() + ":bob": 2,
		roomB.ID.String() + ":bob": 5,
	}}
	svc := newTestNotificationService(&memNotifRepo{}, &stubRoomRepo{rooms: []*entity.Room{roomA, roomB}}, msgRepo)

	summary, err := svc.UnreadSummary(context.Background(), "bob")
	require.Nil(t, err)

	assert.Equal(t, int64(7), summary.TotalUnread)
	require.Len(t, summary.Rooms, 2)
}
