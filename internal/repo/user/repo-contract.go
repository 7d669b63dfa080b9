package user_repo

import (
	"context"
	"time"

	"github.com/manan-abhishek/Raabta-ChatApp/internal/entity"
	app_error "github.com/manan-abhishek/Raabta-ChatApp/internal/errors"
)

type UserRepoContract interface {
	CountUser(ctx context.Context, filter entity.UserFilter) (int64, *app_error.AppError)
	SaveUser(ctx context.Context, model entity.User) *app_error.AppError
	FindUserByID(ctx context.Context, userId string) (*entity.User, *app_error.AppError)
	FindUsersByIDs(ctx context.Context, userIds []string) ([]*entity.User, *app_error.AppError)
	FindUserByCredential(ctx context.Context, username string) (*entity.User, *app_error.AppError)
	ListUsersExcept(ctx context.Context, userId string) ([]*entity.User, *app_error.AppError)
	SearchUsers(ctx context.Context, query, excludeId string) ([]*entity.User, *app_error.AppError)
	SetPresence(ctx context.Context, userId string, online bool, lastSeen time.Time) *app_error.AppError
}
