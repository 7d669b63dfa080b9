package message_service

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/dtos/chat_dto"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/entity"
	app_error "github.com/manan-abhishek/Raabta-ChatApp/internal/errors"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/queue"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type memRoomRepo struct {
	mu      sync.Mutex
	rooms   map[string]*entity.Room
	members map[string][]string
}

func newMemRoomRepo() *memRoomRepo {
	return &memRoomRepo{
		rooms:   make(map[string]*entity.Room),
		members: make(map[string][]string),
	}
}

func (f *memRoomRepo) addRoom(members ...string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	room := &entity.Room{ID: uuid.New(), CreatedBy: members[0], CreatedAt: time.Now()}
	id := room.ID.String()
	f.rooms[id] = room
	f.members[id] = members
	return id
}

func (f *memRoomRepo) room(roomID string) *entity.Room {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rooms[roomID]
}

func (f *memRoomRepo) FindDirectRoom(ctx context.Context, userA, userB string) (*entity.Room, *app_error.AppError) {
	return nil, app_error.NotFound("direct room not found", "room")
}

func (f *memRoomRepo) CreateDirectRoom(ctx context.Context, userA, userB string) (*entity.Room, *app_error.AppError) {
	return nil, app_error.Internal("not implemented", "room")
}

func (f *memRoomRepo) CreateGroupRoom(ctx context.Context, name, creator string, memberIDs []string) (*entity.Room, *app_error.AppError) {
	return nil, app_error.Internal("not implemented", "room")
}

func (f *memRoomRepo) FindRoomByID(ctx context.Context, roomID string) (*entity.Room, *app_error.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()

	room, ok := f.rooms[roomID]
	if !ok {
		return nil, app_error.NotFound("room not found", "room")
	}
	return room, nil
}

func (f *memRoomRepo) ListRoomsForUser(ctx context.Context, userID string) ([]*entity.Room, *app_error.AppError) {
	return nil, nil
}

func (f *memRoomRepo) IsMember(ctx context.Context, roomID, userID string) (bool, *app_error.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, member := range f.members[roomID] {
		if member == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *memRoomRepo) FindMemberIDs(ctx context.Context, roomID string) ([]string, *app_error.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()

	members, ok := f.members[roomID]
	if !ok {
		return nil, app_error.NotFound("room has no members", "room")
	}
	return append([]string(nil), members...), nil
}

func (f *memRoomRepo) TouchLastMessage(ctx context.Context, roomID, messageID string, at time.Time) *app_error.AppError {
	f.mu.Lock()
	defer f.mu.Unlock()

	room, ok := f.rooms[roomID]
	if !ok {
		return app_error.NotFound("room not found", "room")
	}
	// guarded update: a slower concurrent append never moves it back
	if room.LastMessageAt == nil || !room.LastMessageAt.After(at) {
		room.LastMessageID = messageID
		at := at
		room.LastMessageAt = &at
	}
	return nil
}

type memMessageRepo struct {
	mu       sync.Mutex
	messages []*entity.Message
}

func (f *memMessageRepo) InsertMessage(ctx context.Context, msg *entity.Message) (*entity.Message, *app_error.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()

	msg.ID = bson.NewObjectID()
	f.messages = append(f.messages, msg)
	return msg, nil
}

func (f *memMessageRepo) FindMessageByID(ctx context.Context, messageID string) (*entity.Message, *app_error.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, msg := range f.messages {
		if msg.ID.Hex() == messageID {
			return msg, nil
		}
	}
	return nil, app_error.NotFound("message not found", "message")
}

func (f *memMessageRepo) roomMessages(roomID string) []*entity.Message {
	var msgs []*entity.Message
	for _, msg := range f.messages {
		if msg.RoomID == roomID {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func (f *memMessageRepo) PageMessages(ctx context.Context, roomID string, page, limit int) ([]*entity.Message, int64, *app_error.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()

	msgs := f.roomMessages(roomID)
	total := int64(len(msgs))

	// newest-first skip/limit, then reversed to oldest-first
	end := len(msgs) - (page-1)*limit
	if end < 0 {
		end = 0
	}
	start := end - limit
	if start < 0 {
		start = 0
	}
	return append([]*entity.Message(nil), msgs[start:end]...), total, nil
}

func (f *memMessageRepo) MarkAllRead(ctx context.Context, roomID, userID string, at time.Time) (int64, *app_error.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var updated int64
	for _, msg := range f.roomMessages(roomID) {
		if msg.SenderID == userID {
			continue
		}
		seen := false
		for _, receipt := range msg.ReadBy {
			if receipt.UserID == userID {
				seen = true
				break
			}
		}
		if !seen {
			msg.ReadBy = append(msg.ReadBy, entity.ReadReceipt{UserID: userID, ReadAt: at})
			updated++
		}
	}
	return updated, nil
}

func (f *memMessageRepo) UnreadCount(ctx context.Context, roomID, userID string) (int64, *app_error.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, msg := range f.roomMessages(roomID) {
		if msg.SenderID == userID {
			continue
		}
		seen := false
		for _, receipt := range msg.ReadBy {
			if receipt.UserID == userID {
				seen = true
				break
			}
		}
		if !seen {
			count++
		}
	}
	return count, nil
}

type memUserRepo struct {
	users map[string]*entity.User
}

func newMemUserRepo(ids ...string) *memUserRepo {
	users := make(map[string]*entity.User)
	for _, id := range ids {
		users[id] = &entity.User{ID: id, Username: "user-" + id}
	}
	return &memUserRepo{users: users}
}

func (f *memUserRepo) CountUser(ctx context.Context, filter entity.UserFilter) (int64, *app_error.AppError) {
	return 0, nil
}

func (f *memUserRepo) SaveUser(ctx context.Context, model entity.User) *app_error.AppError {
	return nil
}

func (f *memUserRepo) FindUserByID(ctx context.Context, userId string) (*entity.User, *app_error.AppError) {
	u, ok := f.users[userId]
	if !ok {
		return nil, app_error.NotFound("user not found", "user")
	}
	return u, nil
}

func (f *memUserRepo) FindUsersByIDs(ctx context.Context, userIds []string) ([]*entity.User, *app_error.AppError) {
	var users []*entity.User
	for _, id := range userIds {
		if u, ok := f.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (f *memUserRepo) FindUserByCredential(ctx context.Context, username string) (*entity.User, *app_error.AppError) {
	return nil, app_error.NotFound("user not found", "user")
}

func (f *memUserRepo) ListUsersExcept(ctx context.Context, userId string) ([]*entity.User, *app_error.AppError) {
	return nil, nil
}

func (f *memUserRepo) SearchUsers(ctx context.Context, query, excludeId string) ([]*entity.User, *app_error.AppError) {
	return nil, nil
}

func (f *memUserRepo) SetPresence(ctx context.Context, userId string, online bool, lastSeen time.Time) *app_error.AppError {
	return nil
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []*chat_dto.MessageResponse
}

func (b *recordingBroadcaster) BroadcastMessage(roomID string, msg *chat_dto.MessageResponse) {
	b.mu.Lock()
	b.messages = append(b.messages, msg)
	b.mu.Unlock()
}

type recordingProducer struct {
	mu   sync.Mutex
	jobs []queue.Job
}

func (p *recordingProducer) Enqueue(ctx context.Context, job queue.Job) error {
	p.mu.Lock()
	p.jobs = append(p.jobs, job)
	p.mu.Unlock()
	return nil
}

func newTestMessageService(roomRepo *memRoomRepo, msgRepo *memMessageRepo, userRepo *memUserRepo, broadcaster *recordingBroadcaster, producer *recordingProducer) *MessageService {
	return &MessageService{
		RoomRepo:    roomRepo,
		MsgRepo:     msgRepo,
		UserRepo:    userRepo,
		Broadcaster: broadcaster,
		Producer:    producer,
		maxRetry:    3,
		roomLocks:   utils.NewKeyedMutex(),
	}
}

func TestSendMessage_PersistsBroadcastsAndEnqueues(t *testing.T) {
	roomRepo := newMemRoomRepo()
	msgRepo := &memMessageRepo{}
	broadcaster := &recordingBroadcaster{}
	producer := &recordingProducer{}
	svc := newTestMessageService(roomRepo, msgRepo, newMemUserRepo("alice", "bob"), broadcaster, producer)

	roomID := roomRepo.addRoom("alice", "bob")

	resp, err := svc.SendMessage(context.Background(), "alice", chat_dto.SendMessageRequest{RoomID: roomID, Content: "hello bob"})
	require.Nil(t, err)

	assert.Equal(t, roomID, resp.RoomID)
	assert.Equal(t, "hello bob", resp.Content)
	assert.Equal(t, "alice", resp.Sender.ID)
	require.Len(t, resp.ReadBy, 1, "The sender gets a read receipt at insert time")
	assert.Equal(t, "alice", resp.ReadBy[0].UserID)

	require.Len(t, broadcaster.messages, 1, "The message should be fanned out to the room channel")
	assert.Equal(t, resp.MessageID, broadcaster.messages[0].MessageID)

	require.Len(t, producer.jobs, 1, "A notification job should be enqueued")
	assert.Equal(t, queue.JobTypeNotifyMembers, producer.jobs[0].Type)
}

func TestSendMessage_BlankContent(t *testing.T) {
	roomRepo := newMemRoomRepo()
	svc := newTestMessageService(roomRepo, &memMessageRepo{}, newMemUserRepo("alice"), &recordingBroadcaster{}, &recordingProducer{})
	roomID := roomRepo.addRoom("alice")

	_, err := svc.SendMessage(context.Background(), "alice", chat_dto.SendMessageRequest{RoomID: roomID, Content: "   "})
	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.Code)
}

func TestSendMessage_NonMember(t *testing.T) {
	roomRepo := newMemRoomRepo()
	svc := newTestMessageService(roomRepo, &memMessageRepo{}, newMemUserRepo("alice", "mallory"), &recordingBroadcaster{}, &recordingProducer{})
	roomID := roomRepo.addRoom("alice")

	_, err := svc.SendMessage(context.Background(), "mallory", chat_dto.SendMessageRequest{RoomID: roomID, Content: "let me in"})
	require.NotNil(t, err)
	assert.Equal(t, http.StatusForbidden, err.Code)
}

func TestSendMessage_UnknownRoom(t *testing.T) {
	svc := newTestMessageService(newMemRoomRepo(), &memMessageRepo{}, newMemUserRepo("alice"), &recordingBroadcaster{}, &recordingProducer{})

	_, err := svc.SendMessage(context.Background(), "alice", chat_dto.SendMessageRequest{RoomID: uuid.New().String(), Content: "hello?"})
	require.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, err.Code)
}

func TestSendMessage_AdvancesLastMessagePointer(t *testing.T) {
	roomRepo := newMemRoomRepo()
	svc := newTestMessageService(roomRepo, &memMessageRepo{}, newMemUserRepo("alice", "bob"), &recordingBroadcaster{}, &recordingProducer{})
	roomID := roomRepo.addRoom("alice", "bob")
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, "alice", chat_dto.SendMessageRequest{RoomID: roomID, Content: "first"})
	require.Nil(t, err)

	second, err := svc.SendMessage(ctx, "bob", chat_dto.SendMessageRequest{RoomID: roomID, Content: "second"})
	require.Nil(t, err)

	room := roomRepo.room(roomID)
	assert.Equal(t, second.MessageID, room.LastMessageID, "The pointer should track the newest message")
	require.NotNil(t, room.LastMessageAt)
	assert.Equal(t, second.CreatedAt.Unix(), room.LastMessageAt.Unix())
}

func TestSendMessage_ConcurrentSendsKeepOrder(t *testing.T) {
	roomRepo := newMemRoomRepo()
	msgRepo := &memMessageRepo{}
	broadcaster := &recordingBroadcaster{}
	svc := newTestMessageService(roomRepo, msgRepo, newMemUserRepo("alice", "bob"), broadcaster, &recordingProducer{})
	roomID := roomRepo.addRoom("alice", "bob")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SendMessage(ctx, "alice", chat_dto.SendMessageRequest{RoomID: roomID, Content: "msg"})
			require.Nil(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, msgRepo.messages, 20)
	require.Len(t, broadcaster.messages, 20)

	// broadcast order must match log order: both happen under the room lock
	for i, msg := range msgRepo.messages {
		assert.Equal(t, msg.ID.Hex(), broadcaster.messages[i].MessageID, "Broadcast %d should carry the %d-th appended message", i, i)
	}

	room := roomRepo.room(roomID)
	last := msgRepo.messages[len(msgRepo.messages)-1]
	assert.Equal(t, last.ID.Hex(), room.LastMessageID)
}

func TestGetHistory_PaginatedOldestFirst(t *testing.T) {
	roomRepo := newMemRoomRepo()
	msgRepo := &memMessageRepo{}
	svc := newTestMessageService(roomRepo, msgRepo, newMemUserRepo("alice", "bob"), &recordingBroadcaster{}, &recordingProducer{})
	roomID := roomRepo.addRoom("alice", "bob")
	ctx := context.Background()

	contents := []string{"one", "two", "three", "four", "five"}
	for _, content := range contents {
		_, err := svc.SendMessage(ctx, "alice", chat_dto.SendMessageRequest{RoomID: roomID, Content: content})
		require.Nil(t, err)
	}

	// page 1 holds the newest messages, oldest of the pair first
	history, err := svc.GetHistory(ctx, "bob", roomID, 1, 2)
	require.Nil(t, err)

	assert.Equal(t, int64(5), history.Total)
	assert.Equal(t, int64(3), history.TotalPages)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, "four", history.Messages[0].Content)
	assert.Equal(t, "five", history.Messages[1].Content)

	history, err = svc.GetHistory(ctx, "bob", roomID, 3, 2)
	require.Nil(t, err)
	require.Len(t, history.Messages, 1)
	assert.Equal(t, "one", history.Messages[0].Content)
}

func TestGetHistory_ViewingMarksRead(t *testing.T) {
	roomRepo := newMemRoomRepo()
	msgRepo := &memMessageRepo{}
	svc := newTestMessageService(roomRepo, msgRepo, newMemUserRepo("alice", "bob"), &recordingBroadcaster{}, &recordingProducer{})
	roomID := roomRepo.addRoom("alice", "bob")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.SendMessage(ctx, "alice", chat_dto.SendMessageRequest{RoomID: roomID, Content: "hi"})
		require.Nil(t, err)
	}

	unread, appErr := msgRepo.UnreadCount(ctx, roomID, "bob")
	require.Nil(t, appErr)
	require.Equal(t, int64(3), unread)

	_, err := svc.GetHistory(ctx, "bob", roomID, 1, 50)
	require.Nil(t, err)

	unread, appErr = msgRepo.UnreadCount(ctx, roomID, "bob")
	require.Nil(t, appErr)
	assert.Equal(t, int64(0), unread, "Fetching history should mark the page's room as read")
}

func TestGetHistory_NonMember(t *testing.T) {
	roomRepo := newMemRoomRepo()
	svc := newTestMessageService(roomRepo, &memMessageRepo{}, newMemUserRepo("alice", "mallory"), &recordingBroadcaster{}, &recordingProducer{})
	roomID := roomRepo.addRoom("alice")

	_, err := svc.GetHistory(context.Background(), "mallory", roomID, 1, 50)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusForbidden, err.Code)
}

func TestGetHistory_ClampsLimit(t *testing.T) {
	roomRepo := newMemRoomRepo()
	svc := newTestMessageService(roomRepo, &memMessageRepo{}, newMemUserRepo("alice"), &recordingBroadcaster{}, &recordingProducer{})
	roomID := roomRepo.addRoom("alice")

	history, err := svc.GetHistory(context.Background(), "alice", roomID, 0, 10000)
	require.Nil(t, err)
	assert.Equal(t, 1, history.Page)
	assert.Equal(t, MaxPageLimit, history.Limit)
}

func TestMarkRoomRead_Idempotent(t *testing.T) {
	roomRepo := newMemRoomRepo()
	msgRepo := &memMessageRepo{}
	svc := newTestMessageService(roomRepo, msgRepo, newMemUserRepo("alice", "bob"), &recordingBroadcaster{}, &recordingProducer{})
	roomID := roomRepo.addRoom("alice", "bob")
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := svc.SendMessage(ctx, "alice", chat_dto.SendMessageRequest{RoomID: roomID, Content: "hi"})
		require.Nil(t, err)
	}

	resp, err := svc.MarkRoomRead(ctx, "bob", roomID)
	require.Nil(t, err)
	assert.Equal(t, int64(4), resp.UpdatedCount)

	resp, err = svc.MarkRoomRead(ctx, "bob", roomID)
	require.Nil(t, err)
	assert.Equal(t, int64(0), resp.UpdatedCount, "A second mark-read pass should update nothing")
}
