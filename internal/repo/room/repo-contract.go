package room_repo

import (
	"context"
	"time"

	"github.com/manan-abhishek/Raabta-ChatApp/internal/entity"
	app_error "github.com/manan-abhishek/Raabta-ChatApp/internal/errors"
)

type RoomRepoContract interface {
	FindDirectRoom(ctx context.Context, userA, userB string) (*entity.Room, *app_error.AppError)
	CreateDirectRoom(ctx context.Context, userA, userB string) (*entity.Room, *app_error.AppError)
	CreateGroupRoom(ctx context.Context, name, creator string, memberIDs []string) (*entity.Room, *app_error.AppError)
	FindRoomByID(ctx context.Context, roomID string) (*entity.Room, *app_error.AppError)
	ListRoomsForUser(ctx context.Context, userID string) ([]*entity.Room, *app_error.AppError)
	IsMember(ctx context.Context, roomID, userID string) (bool, *app_error.AppError)
	FindMemberIDs(ctx context.Context, roomID string) ([]string, *app_error.AppError)
	// TouchLastMessage advances the room's last-message pointer. The
	// update is guarded so a slower concurrent append can never move the
	// pointer back to an older message.
	TouchLastMessage(ctx context.Context, roomID, messageID string, at time.Time) *app_error.AppError
}
