package user_service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/dtos/user_dto"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/entity"
	app_error "github.com/manan-abhishek/Raabta-ChatApp/internal/errors"
	user_repo "github.com/manan-abhishek/Raabta-ChatApp/internal/repo/user"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/utils"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/utils/types"
	"github.com/manan-abhishek/Raabta-ChatApp/state"
)

const sessionTTL = time.Hour

type UserService struct {
	AppState *state.AppState
	UserRepo user_repo.UserRepoContract
}

func NewUserService(appState *state.AppState) UserServiceContract {
	return &UserService{
		AppState: appState,
		UserRepo: user_repo.NewUserRepo(appState),
	}
}

func (u *UserService) Register(ctx context.Context, req user_dto.CreateUserRequest) (*user_dto.UserResponse, *app_error.AppError) {
	filter := entity.UserFilter{
		Email:    &req.Email,
		Username: &req.Username,
	}
	count, err := u.UserRepo.CountUser(ctx, filter)
	if err != nil {
		return nil, err
	}

	if count > 0 {
		return nil, app_error.NewAppError(http.StatusConflict, "username or email already registered", "credential-registered")
	}

	hashed, hashErr := utils.GenerateHash(req.Password)
	if hashErr != nil {
		return nil, app_error.Internal(hashErr.Error(), "password")
	}

	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		Avatar:       req.Avatar,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := u.UserRepo.SaveUser(ctx, *user); err != nil {
		return nil, err
	}

	return &user_dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (u *UserService) Login(ctx context.Context, req user_dto.LoginRequest) (*user_dto.LoginResponse, *app_error.AppError) {
	user, err := u.UserRepo.FindUserByCredential(ctx, req.Username)
	if err != nil {
		if err.Code == http.StatusNotFound {
			return nil, app_error.Unauthenticated("invalid username or password")
		}
		return nil, err
	}

	ok, verifyErr := utils.VerifyHash(user.PasswordHash, req.Password)
	if verifyErr != nil || !ok {
		return nil, app_error.Unauthenticated("invalid username or password")
	}

	token, jti, signErr := utils.IssueAccessToken(user.ID, user.Username, u.AppState.JwtSecret.Private)
	if signErr != nil {
		return nil, app_error.Internal("failed to issue access token", "sign")
	}

	now := time.Now()
	session := types.Session{
		UserId:   user.ID,
		Username: user.Username,
		JTI:      jti,
		IssueAt:  now.Unix(),
		ExpireAt: now.Add(sessionTTL).Unix(),
	}

	sessionKey := fmt.Sprintf("session:%s:%s", user.ID, jti)
	if err := utils.SetCacheData(ctx, u.AppState.Redis, sessionKey, &session, sessionTTL); err != nil {
		return nil, app_error.Internal("failed to store session", "redis")
	}

	return &user_dto.LoginResponse{
		AccessToken: token,
		User: user_dto.UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			Username:  user.Username,
			Avatar:    user.Avatar,
			CreatedAt: user.CreatedAt,
		},
	}, nil
}

func (u *UserService) ListUsers(ctx context.Context, callerID string) ([]user_dto.UserSummary, *app_error.AppError) {
	users, err := u.UserRepo.ListUsersExcept(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return toSummaries(users), nil
}

func (u *UserService) SearchUsers(ctx context.Context, callerID, query string) ([]user_dto.UserSummary, *app_error.AppError) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, app_error.InvalidArgument("search query is required", "q")
	}

	users, err := u.UserRepo.SearchUsers(ctx, query, callerID)
	if err != nil {
		return nil, err
	}
	return toSummaries(users), nil
}

func (u *UserService) SetPresence(ctx context.Context, userID string, online bool, lastSeen time.Time) *app_error.AppError {
	return u.UserRepo.SetPresence(ctx, userID, online, lastSeen)
}

func (u *UserService) GetSummary(ctx context.Context, userID string) (*user_dto.UserSummary, *app_error.AppError) {
	user, err := u.UserRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := toSummary(user)
	return &summary, nil
}

func toSummaries(users []*entity.User) []user_dto.UserSummary {
	summaries := make([]user_dto.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, toSummary(u))
	}
	return summaries
}

func toSummary(u *entity.User) user_dto.UserSummary {
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
