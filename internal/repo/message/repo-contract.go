package message_repo

import (
	"context"
	"time"

	"github.com/manan-abhishek/Raabta-ChatApp/internal/entity"
	app_error "github.com/manan-abhishek/Raabta-ChatApp/internal/errors"
)

type MessageRepoContract interface {
	InsertMessage(ctx context.Context, msg *entity.Message) (*entity.Message, *app_error.AppError)
	FindMessageByID(ctx context.Context, messageID string) (*entity.Message, *app_error.AppError)
	// PageMessages returns one page of a room's log, oldest first, plus
	// the total message count. page is 1-based.
	PageMessages(ctx context.Context, roomID string, page, limit int) ([]*entity.Message, int64, *app_error.AppError)
	// MarkAllRead adds a read receipt for userID to every message in the
	// room authored by someone else that the user has not read yet.
	// Returns the number of messages updated; calling it again is a no-op.
	MarkAllRead(ctx context.Context, roomID, userID string, at time.Time) (int64, *app_error.AppError)
	UnreadCount(ctx context.Context, roomID, userID string) (int64, *app_error.AppError)
}
