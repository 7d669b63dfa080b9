package user_service

import (
	"context"
	"time"

	"github.com/manan-abhishek/Raabta-ChatApp/internal/dtos/user_dto"
	app_error "github.com/manan-abhishek/Raabta-ChatApp/internal/errors"
)

type UserServiceContract interface {
	Register(ctx context.Context, req user_dto.CreateUserRequest) (*user_dto.UserResponse, *app_error.AppError)
	Login(ctx context.Context, req user_dto.LoginRequest) (*user_dto.LoginResponse, *app_error.AppError)
	ListUsers(ctx context.Context, callerID string) ([]user_dto.UserSummary, *app_error.AppError)
	SearchUsers(ctx context.Context, callerID, query string) ([]user_dto.UserSummary, *app_error.AppError)
	// SetPresence persists the online flag and last-seen stamp on a
	// presence transition reported by the tracker.
	SetPresence(ctx context.Context, userID string, online bool, lastSeen time.Time) *app_error.AppError
	GetSummary(ctx context.Context, userID string) (*user_dto.UserSummary, *app_error.AppError)
}
