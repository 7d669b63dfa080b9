package room_repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/entity"
	app_error "github.com/manan-abhishek/Raabta-ChatApp/internal/errors"
	"github.com/manan-abhishek/Raabta-ChatApp/state"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type RoomRepo struct {
	AppState *state.AppState
}

func NewRoomRepo(appState *state.AppState) RoomRepoContract {
	return &RoomRepo{
		AppState: appState,
	}
}

// normalizePair orders a direct pair so (a,b) and (b,a) hit the same
// pair_lo/pair_hi row.
func normalizePair(userA, userB string) (string, string) {
	if userB < userA {
		return userB, userA
	}
	return userA, userB
}

func (r *RoomRepo) FindDirectRoom(ctx context.Context, userA, userB string) (*entity.Room, *app_error.AppError) {
	var room entity.Room

	lo, hi := normalizePair(userA, userB)
	err := r.AppState.DB.WithContext(ctx).
		Where("is_group = false AND pair_lo = ? AND pair_hi = ?", lo, hi).
		First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("direct room not found", "not-found")
		}
		return nil, app_error.Internal("failed to query direct room", "db-error")
	}
	return &room, nil
}

func (r *RoomRepo) CreateDirectRoom(ctx context.Context, userA, userB string) (*entity.Room, *app_error.AppError) {
	tx := r.AppState.DB.WithContext(ctx).Begin()
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	lo, hi := normalizePair(userA, userB)
	newRoom := &entity.Room{
		ID:        uuid.New(),
		IsGroup:   false,
		PairLo:    &lo,
		PairHi:    &hi,
		CreatedBy: userA,
	}

	if err := tx.Create(newRoom).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, app_error.Conflict("direct room already exists", "duplicate")
		}
		return nil, app_error.Internal("failed to create direct room", "db-error")
	}

	members := []entity.RoomMember{
		{RoomID: newRoom.ID.String(), UserID: userA},
		{RoomID: newRoom.ID.String(), UserID: userB},
	}

	if err := tx.Create(&members).Error; err != nil {
		tx.Rollback()
		return nil, app_error.Internal("failed to add members to direct room", "db-error")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, app_error.Internal("failed to commit room creation", "db-error")
	}

	return newRoom, nil
}

func (r *RoomRepo) CreateGroupRoom(ctx context.Context, name, creator string, memberIDs []string) (*entity.Room, *app_error.AppError) {
	tx := r.AppState.DB.WithContext(ctx).Begin()
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	newRoom := &entity.Room{
		ID:        uuid.New(),
		Name:      name,
		IsGroup:   true,
		CreatedBy: creator,
	}

	if err := tx.Create(newRoom).Error; err != nil {
		tx.Rollback()
		return nil, app_error.Internal("failed to create group room", "db-error")
	}

	members := make([]entity.RoomMember, 0, len(memberIDs))
	for _, id := range memberIDs {
		members = append(members, entity.RoomMember{
			RoomID: newRoom.ID.String(),
			UserID: id,
		})
	}

	if err := tx.Create(&members).Error; err != nil {
		tx.Rollback()
		return nil, app_error.Internal("failed to add members to group room", "db-error")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, app_error.Internal("failed to commit group creation", "db-error")
	}

	return newRoom, nil
}

func (r *RoomRepo) FindRoomByID(ctx context.Context, roomID string) (*entity.Room, *app_error.AppError) {
	var room entity.Room
	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", roomID).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("room not found", "not-found")
		}
		log.Error().Err(err).Msgf("failed to fetch room: %v", err)
		return nil, app_error.Internal("failed to fetch room", "db-error")
	}
	return &room, nil
}

func (r *RoomRepo) ListRoomsForUser(ctx context.Context, userID string) ([]*entity.Room, *app_error.AppError) {
	var rooms []*entity.Room

	query := `
		SELECT r.* FROM rooms r
		JOIN room_members rm ON rm.room_id = r.id
		WHERE rm.user_id = ?
		ORDER BY r.last_message_at DESC NULLS LAST, r.created_at DESC
	`
	if err := r.AppState.DB.WithContext(ctx).Raw(query, userID).Scan(&rooms).Error; err != nil {
		return nil, app_error.Internal("failed to list rooms", "db-error")
	}
	return rooms, nil
}

func (r *RoomRepo) IsMember(ctx context.Context, roomID, userID string) (bool, *app_error.AppError) {
	var count int64
	err := r.AppState.DB.WithContext(ctx).Model(&entity.RoomMember{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	if err != nil {
		return false, app_error.Internal("failed to check room membership", "db-error")
	}
	return count > 0, nil
}

func (r *RoomRepo) FindMemberIDs(ctx context.Context, roomID string) ([]string, *app_error.AppError) {
	var ids []string
	err := r.AppState.DB.WithContext(ctx).Model(&entity.RoomMember{}).
		Where("room_id = ?", roomID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, app_error.Internal("failed to fetch room members", "db-error")
	}
	if len(ids) == 0 {
		return nil, app_error.NotFound("room not found", "not-found")
	}
	return ids, nil
}

func (r *RoomRepo) TouchLastMessage(ctx context.Context, roomID, messageID string, at time.Time) *app_error.AppError {
	// last_message_at <= ? keeps the pointer monotonic when two appends
	// to the same room race.
	err := r.AppState.DB.WithContext(ctx).Model(&entity.Room{}).
		Where("id = ? AND (last_message_at IS NULL OR last_message_at <= ?)", roomID, at).
		Updates(map[string]any{
			"last_message_id": messageID,
			"last_message_at": at,
		}).Error
	if err != nil {
		return app_error.Internal("failed to update last message pointer", "db-error")
	}
	return nil
}
