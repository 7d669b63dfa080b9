package user_repo

import (
	"context"
	"errors"
	"time"

	"github.com/manan-abhishek/Raabta-ChatApp/internal/entity"
	app_error "github.com/manan-abhishek/Raabta-ChatApp/internal/errors"
	"github.com/manan-abhishek/Raabta-ChatApp/state"
	"gorm.io/gorm"
)

type UserRepo struct {
	AppState *state.AppState
}

func NewUserRepo(appState *state.AppState) UserRepoContract {
	return &UserRepo{
		AppState: appState,
	}
}

func (r *UserRepo) CountUser(ctx context.Context, filter entity.UserFilter) (int64, *app_error.AppError) {
	var count int64

	query := r.AppState.DB.WithContext(ctx).Model(&entity.User{})

	if filter.Email != nil && filter.Username != nil {
		query = query.Where("email = ? OR username = ?", filter.Email, filter.Username)
	} else if filter.Email != nil {
		query = query.Where("email = ?", filter.Email)
	} else if filter.Username != nil {
		query = query.Where("username = ?", filter.Username)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, app_error.Internal("unexpected server error", "db-count")
	}
	return count, nil
}

func (r *UserRepo) SaveUser(ctx context.Context, model entity.User) *app_error.AppError {
	if err := r.AppState.DB.WithContext(ctx).Create(model).Error; err != nil {
		return app_error.Internal("unexpected error occur when trying to create user", "db-create")
	}

	return nil
}

func (r *UserRepo) FindUserByID(ctx context.Context, userId string) (*entity.User, *app_error.AppError) {
	var user entity.User

	if err := r.AppState.DB.WithContext(ctx).Where("id = ?", userId).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("cannot find user", "user-id")
		}
		return nil, app_error.Internal("unexpected error occur when fetch user", "db-error")
	}

	return &user, nil
}

func (r *UserRepo) FindUsersByIDs(ctx context.Context, userIds []string) ([]*entity.User, *app_error.AppError) {
	var users []*entity.User

	if err := r.AppState.DB.WithContext(ctx).Where("id IN ?", userIds).Find(&users).Error; err != nil {
		return nil, app_error.Internal("unexpected error occur when fetch users", "db-error")
	}

	return users, nil
}

func (r *UserRepo) FindUserByCredential(ctx context.Context, username string) (*entity.User, *app_error.AppError) {
	var user entity.User

	if err := r.AppState.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, app_error.NotFound("cannot find user", "credential")
		}
		return nil, app_error.Internal("unexpected error occur when fetch user", "db-error")
	}

	return &user, nil
}

func (r *UserRepo) ListUsersExcept(ctx context.Context, userId string) ([]*entity.User, *app_error.AppError) {
	var users []*entity.User

	if err := r.AppState.DB.WithContext(ctx).
		Where("id <> ?", userId).
		Order("username ASC").
		Find(&users).Error; err != nil {
		return nil, app_error.Internal("unexpected error occur when list users", "db-error")
	}

	return users, nil
}

func (r *UserRepo) SearchUsers(ctx context.Context, query, excludeId string) ([]*entity.User, *app_error.AppError) {
	var users []*entity.User

	pattern := "%" + query + "%"
	if err := r.AppState.DB.WithContext(ctx).
		Where("id <> ? AND (username ILIKE ? OR email ILIKE ?)", excludeId, pattern, pattern).
		Order("username ASC").
		Limit(20).
		Find(&users).Error; err != nil {
		return nil, app_error.Internal("unexpected error occur when search users", "db-error")
	}

	return users, nil
}

func (r *UserRepo) SetPresence(ctx context.Context, userId string, online bool, lastSeen time.Time) *app_error.AppError {
	err := r.AppState.DB.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", userId).
		Updates(map[string]any{
			"is_online": online,
			"last_seen": lastSeen,
		}).Error
	if err != nil {
		return app_error.Internal("unexpected error occur when update presence", "db-update")
	}
	return nil
}
