package message_service

import (
	"context"
	"strings"
	"time"

	"github.com/manan-abhishek/Raabta-ChatApp/config"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/dtos/chat_dto"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/dtos/user_dto"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/entity"
	app_error "github.com/manan-abhishek/Raabta-ChatApp/internal/errors"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/queue"
	message_repo "github.com/manan-abhishek/Raabta-ChatApp/internal/repo/message"
	room_repo "github.com/manan-abhishek/Raabta-ChatApp/internal/repo/room"
	user_repo "github.com/manan-abhishek/Raabta-ChatApp/internal/repo/user"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/utils"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/utils/types"
	"github.com/manan-abhishek/Raabta-ChatApp/state"
	"github.com/rs/zerolog/log"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100

	notifyJobTTL = 10 * time.Minute
)

type MessageService struct {
	RoomRepo    room_repo.RoomRepoContract
	MsgRepo     message_repo.MessageRepoContract
	UserRepo    user_repo.UserRepoContract
	Broadcaster Broadcaster
	Producer    queue.Producer

	maxRetry int
	// serializes append + pointer update + room broadcast per room so
	// concurrent sends into one room keep log order and broadcast order
	// aligned; unrelated rooms proceed in parallel
	roomLocks *utils.KeyedMutex
}

func NewMessageService(appState *state.AppState, broadcaster Broadcaster, producer queue.Producer) MessageServiceContract {
	return &MessageService{
		RoomRepo:    room_repo.NewRoomRepo(appState),
		MsgRepo:     message_repo.NewMessageRepo(appState),
		UserRepo:    user_repo.NewUserRepo(appState),
		Broadcaster: broadcaster,
		Producer:    producer,
		maxRetry:    config.Conf.WORKER.MaxRetry,
		roomLocks:   utils.NewKeyedMutex(),
	}
}

func (s *MessageService) SendMessage(ctx context.Context, senderID string, req chat_dto.SendMessageRequest) (*chat_dto.MessageResponse, *app_error.AppError) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, app_error.InvalidArgument("message content is required", "content")
	}

	if _, err := s.RoomRepo.FindRoomByID(ctx, req.RoomID); err != nil {
		return nil, err
	}

	member, err := s.RoomRepo.IsMember(ctx, req.RoomID, senderID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, app_error.PermissionDenied("you are not a member of this room")
	}

	sender, err := s.UserRepo.FindUserByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	unlock := s.roomLocks.Lock(req.RoomID)
	defer unlock()

	now := time.Now()
	msg := &entity.Message{
		RoomID:    req.RoomID,
		SenderID:  senderID,
		Content:   req.Content,
		ReadBy:    []entity.ReadReceipt{{UserID: senderID, ReadAt: now}},
		CreatedAt: now,
	}

	msg, err = s.MsgRepo.InsertMessage(ctx, msg)
	if err != nil {
		return nil, err
	}

	// The message is durable from here on; pointer and fan-out failures
	// degrade freshness, never message durability.
	if err := s.RoomRepo.TouchLastMessage(ctx, req.RoomID, msg.ID.Hex(), msg.CreatedAt); err != nil {
		log.Error().Err(err).Str("roomID", req.RoomID).Msg("failed to advance last message pointer")
	}

	resp := buildMessageResponse(msg, sender)

	if s.Broadcaster != nil {
		s.Broadcaster.BroadcastMessage(req.RoomID, resp)
	}

	s.enqueueNotifyJob(ctx, msg, sender)

	return resp, nil
}

func (s *MessageService) enqueueNotifyJob(ctx context.Context, msg *entity.Message, sender *entity.User) {
	if s.Producer == nil {
		return
	}

	memberIDs, err := s.RoomRepo.FindMemberIDs(ctx, msg.RoomID)
	if err != nil {
		log.Error().Err(err).Str("roomID", msg.RoomID).Msg("failed to fetch members for notification fan-out")
		return
	}

	payload := types.NotifyMembersPayload{
		MessageID: msg.ID.Hex(),
		RoomID:    msg.RoomID,
		SenderID:  msg.SenderID,
		Sender:    sender.Username,
		Content:   msg.Content,
		MemberIDs: memberIDs,
		CreatedAt: msg.CreatedAt,
	}

	job := queue.NewJob(queue.JobTypeNotifyMembers, payload, s.maxRetry, notifyJobTTL)
	if err := s.Producer.Enqueue(ctx, job); err != nil {
		log.Error().Err(err).Str("messageID", msg.ID.Hex()).Msg("failed to enqueue notification job")
	}
}

func (s *MessageService) GetHistory(ctx context.Context, callerID, roomID string, page, limit int) (*chat_dto.HistoryResponse, *app_error.AppError) {
	member, err := s.RoomRepo.IsMember(ctx, roomID, callerID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, app_error.PermissionDenied("you are not a member of this room")
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	messages, total, err := s.MsgRepo.PageMessages(ctx, roomID, page, limit)
	if err != nil {
		return nil, err
	}

	// viewing marks read
	if _, err := s.MsgRepo.MarkAllRead(ctx, roomID, callerID, time.Now()); err != nil {
		log.Error().Err(err).Str("roomID", roomID).Str("userID", callerID).Msg("failed to mark viewed messages as read")
	}

	responses, err := s.populateMessages(ctx, messages)
	if err != nil {
		return nil, err
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	return &chat_dto.HistoryResponse{
		Messages:   responses,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func (s *MessageService) MarkRoomRead(ctx context.Context, callerID, roomID string) (*chat_dto.MarkReadResponse, *app_error.AppError) {
	member, err := s.RoomRepo.IsMember(ctx, roomID, callerID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, app_error.PermissionDenied("you are not a member of this room")
	}

	count, err := s.MsgRepo.MarkAllRead(ctx, roomID, callerID, time.Now())
	if err != nil {
		return nil, err
	}

	return &chat_dto.MarkReadResponse{
		RoomID:       roomID,
		UpdatedCount: count,
	}, nil
}

func (s *MessageService) populateMessages(ctx context.Context, messages []*entity.Message) ([]chat_dto.MessageResponse, *app_error.AppError) {
	senderIDs := make([]string, 0, len(messages))
	seen := make(map[string]struct{})
	for _, msg := range messages {
		if _, ok := seen[msg.SenderID]; ok {
			continue
		}
		seen[msg.SenderID] = struct{}{}
		senderIDs = append(senderIDs, msg.SenderID)
	}

	senders := make(map[string]*entity.User)
	if len(senderIDs) > 0 {
		users, err := s.UserRepo.FindUsersByIDs(ctx, senderIDs)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			senders[u.ID] = u
		}
	}

	responses := make([]chat_dto.MessageResponse, 0, len(messages))
	for _, msg := range messages {
		responses = append(responses, *buildMessageResponse(msg, senders[msg.SenderID]))
	}
	return responses, nil
}

func buildMessageResponse(msg *entity.Message, sender *entity.User) *chat_dto.MessageResponse {
	resp := &chat_dto.MessageResponse{
		MessageID: msg.ID.Hex(),
		RoomID:    msg.RoomID,
		Content:   msg.Content,
		ReadBy:    msg.ReadBy,
		CreatedAt: msg.CreatedAt,
	}
	if sender != nil {
		resp.Sender = user_dto.UserSummary{
			ID:       sender.ID,
			Username: sender.Username,
			Email:    sender.Email,
			Avatar:   sender.Avatar,
			IsOnline: sender.IsOnline,
		}
	} else {
		resp.Sender = user_dto.UserSummary{ID: msg.SenderID}
	}
	return resp
}
