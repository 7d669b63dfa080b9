package room_service

import (
	"context"
	"net/http"
	"strings"

	"github.com/manan-abhishek/Raabta-ChatApp/internal/dtos/chat_dto"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/dtos/user_dto"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/entity"
	app_error "github.com/manan-abhishek/Raabta-ChatApp/internal/errors"
	message_repo "github.com/manan-abhishek/Raabta-ChatApp/internal/repo/message"
	room_repo "github.com/manan-abhishek/Raabta-ChatApp/internal/repo/room"
	user_repo "github.com/manan-abhishek/Raabta-ChatApp/internal/repo/user"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/utils"
	"github.com/manan-abhishek/Raabta-ChatApp/state"
)

type RoomService struct {
	RoomRepo room_repo.RoomRepoContract
	MsgRepo  message_repo.MessageRepoContract
	UserRepo user_repo.UserRepoContract

	// serializes direct-room lookup-or-create per unordered user pair
	pairLocks *utils.KeyedMutex
}

func NewRoomService(appState *state.AppState) RoomServiceContract {
	return &RoomService{
		RoomRepo:  room_repo.NewRoomRepo(appState),
		MsgRepo:   message_repo.NewMessageRepo(appState),
		UserRepo:  user_repo.NewUserRepo(appState),
		pairLocks: utils.NewKeyedMutex(),
	}
}

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

func (s *RoomService) CreateDirectRoom(ctx context.Context, callerID string, req chat_dto.CreateDirectRoomRequest) (*chat_dto.RoomResponse, bool, *app_error.AppError) {
	if req.UserID == "" {
		return nil, false, app_error.InvalidArgument("user id is required", "user_id")
	}
	if req.UserID == callerID {
		return nil, false, app_error.InvalidArgument("cannot create a direct room with yourself", "user_id")
	}

	if _, err := s.UserRepo.FindUserByID(ctx, req.UserID); err != nil {
		return nil, false, err
	}

	// Atomic check-then-act: without the pair lock two concurrent
	// requests could each miss the lookup and create duplicate rooms.
	unlock := s.pairLocks.Lock(pairKey(callerID, req.UserID))
	defer unlock()

	room, err := s.RoomRepo.FindDirectRoom(ctx, callerID, req.UserID)
	if err == nil {
		resp, perr := s.populateRoom(ctx, room, callerID)
		return resp, false, perr
	}
	if err.Code != http.StatusNotFound {
		return nil, false, err
	}

	room, err = s.RoomRepo.CreateDirectRoom(ctx, callerID, req.UserID)
	if err != nil {
		// A uniqueness violation means someone else won the race; the
		// existing room is the answer, not an error.
		if err.Code == http.StatusConflict {
			room, err = s.RoomRepo.FindDirectRoom(ctx, callerID, req.UserID)
			if err != nil {
				return nil, false, err
			}
			resp, perr := s.populateRoom(ctx, room, callerID)
			return resp, false, perr
		}
		return nil, false, err
	}

	resp, perr := s.populateRoom(ctx, room, callerID)
	return resp, true, perr
}

func (s *RoomService) CreateGroupRoom(ctx context.Context, callerID string, req chat_dto.CreateGroupRoomRequest) (*chat_dto.RoomResponse, *app_error.AppError) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, app_error.InvalidArgument("group name is required", "name")
	}
	if len(req.MemberIDs) == 0 {
		return nil, app_error.InvalidArgument("at least one member is required", "member_ids")
	}

	// deduplicated union of creator + invitees
	seen := map[string]struct{}{callerID: {}}
	memberIDs := []string{callerID}
	for _, id := range req.MemberIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		memberIDs = append(memberIDs, id)
	}

	if len(memberIDs) < 2 {
		return nil, app_error.InvalidArgument("a group needs at least one member besides the creator", "member_ids")
	}

	users, err := s.UserRepo.FindUsersByIDs(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	if len(users) != len(memberIDs) {
		return nil, app_error.InvalidArgument("one or more members do not exist", "member_ids")
	}

	room, err := s.RoomRepo.CreateGroupRoom(ctx, req.Name, callerID, memberIDs)
	if err != nil {
		return nil, err
	}

	return s.populateRoom(ctx, room, callerID)
}

func (s *RoomService) ListRooms(ctx context.Context, callerID string) ([]chat_dto.RoomResponse, *app_error.AppError) {
	rooms, err := s.RoomRepo.ListRoomsForUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	responses := make([]chat_dto.RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		resp, perr := s.populateRoom(ctx, room, callerID)
		if perr != nil {
			return nil, perr
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

func (s *RoomService) GetRoom(ctx context.Context, callerID, roomID string) (*chat_dto.RoomResponse, *app_error.AppError) {
	room, err := s.RoomRepo.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	member, err := s.RoomRepo.IsMember(ctx, roomID, callerID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, app_error.PermissionDenied("you are not a member of this room")
	}

	return s.populateRoom(ctx, room, callerID)
}

func (s *RoomService) IsMember(ctx context.Context, roomID, userID string) (bool, *app_error.AppError) {
	return s.RoomRepo.IsMember(ctx, roomID, userID)
}

func (s *RoomService) populateRoom(ctx context.Context, room *entity.Room, callerID string) (*chat_dto.RoomResponse, *app_error.AppError) {
	memberIDs, err := s.RoomRepo.FindMemberIDs(ctx, room.ID.String())
	if err != nil {
		return nil, err
	}

	users, err := s.UserRepo.FindUsersByIDs(ctx, memberIDs)
	if err != nil {
		return nil, err
	}

	members := make([]user_dto.UserSummary, 0, len(users))
	for _, u := range users {
		members = append(members, toUserSummary(u))
	}

	resp := &chat_dto.RoomResponse{
		RoomID:        room.ID.String(),
		Name:          room.Name,
		IsGroup:       room.IsGroup,
		CreatedBy:     room.CreatedBy,
		Members:       members,
		LastMessageAt: room.LastMessageAt,
		CreatedAt:     room.CreatedAt,
	}

	unread, err := s.MsgRepo.UnreadCount(ctx, room.ID.String(), callerID)
	if err != nil {
		return nil, err
	}
	resp.UnreadCount = unread

	if room.LastMessageID != "" {
		msg, err := s.MsgRepo.FindMessageByID(ctx, room.LastMessageID)
		if err == nil {
			sender, _ := s.UserRepo.FindUserByID(ctx, msg.SenderID)
			last := toMessageResponse(msg, sender)
			resp.LastMessage = &last
		}
	}

	return resp, nil
}

func toUserSummary(u *entity.User) user_dto.UserSummary {
	summary := user_dto.UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
		IsOnline: u.IsOnline,
	}
	if !u.LastSeen.IsZero() {
		lastSeen := u.LastSeen
		summary.LastSeen = &lastSeen
	}
	return summary
}

func toMessageResponse(msg *entity.Message, sender *entity.User) chat_dto.MessageResponse {
	resp := chat_dto.MessageResponse{
		MessageID: msg.ID.Hex(),
		RoomID:    msg.RoomID,
		Content:   msg.Content,
		ReadBy:    msg.ReadBy,
		CreatedAt: msg.CreatedAt,
	}
	if sender != nil {
		resp.Sender = toUserSummary(sender)
	} else {
		resp.Sender = user_dto.UserSummary{ID: msg.SenderID}
	}
	return resp
}
