package room_service

import (
	"context"

	"github.com/manan-abhishek/Raabta-ChatApp/internal/dtos/chat_dto"
	app_error "github.com/manan-abhishek/Raabta-ChatApp/internal/errors"
)

type RoomServiceContract interface {
	// CreateDirectRoom is lookup-or-create: at most one direct room can
	// exist per unordered user pair. The bool reports whether a new room
	// was created.
	CreateDirectRoom(ctx context.Context, callerID string, req chat_dto.CreateDirectRoomRequest) (*chat_dto.RoomResponse, bool, *app_error.AppError)
	CreateGroupRoom(ctx context.Context, callerID string, req chat_dto.CreateGroupRoomRequest) (*chat_dto.RoomResponse, *app_error.AppError)
	ListRooms(ctx context.Context, callerID string) ([]chat_dto.RoomResponse, *app_error.AppError)
	GetRoom(ctx context.Context, callerID, roomID string) (*chat_dto.RoomResponse, *app_error.AppError)
	IsMember(ctx context.Context, roomID, userID string) (bool, *app_error.AppError)
}
