package message_repo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/manan-abhishek/Raabta-ChatApp/config"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/entity"
	app_error "github.com/manan-abhishek/Raabta-ChatApp/internal/errors"
	"github.com/manan-abhishek/Raabta-ChatApp/state"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MessageRepo struct {
	AppState *state.AppState
}

func NewMessageRepo(appState *state.AppState) MessageRepoContract {
	return &MessageRepo{
		AppState: appState,
	}
}

func (r *MessageRepo) collection() *mongo.Collection {
	return r.AppState.Mongo.Database(config.Conf.DATABASE.Mongo.Database).Collection("messages")
}

func (r *MessageRepo) InsertMessage(ctx context.Context, msg *entity.Message) (*entity.Message, *app_error.AppError) {
	if msg.ID.IsZero() {
		msg.ID = bson.NewObjectID()
	}
	if _, err := r.collection().InsertOne(ctx, msg); err != nil {
		return nil, app_error.Internal(fmt.Sprintf("failed to create message: %v", err), "mongo")
	}
	return msg, nil
}

func (r *MessageRepo) FindMessageByID(ctx context.Context, messageID string) (*entity.Message, *app_error.AppError) {
	objID, err := bson.ObjectIDFromHex(messageID)
	if err != nil {
		return nil, app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("invalid message ID: %v", err), "invalid-id")
	}
	var message entity.Message
	if err := r.collection().FindOne(ctx, bson.M{"_id": objID}).Decode(&message); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, app_error.NotFound("message not found", "not-found")
		}
		return nil, app_error.Internal(fmt.Sprintf("failed to fetch message: %v", err), "mongo")
	}

	return &message, nil
}

func (r *MessageRepo) PageMessages(ctx context.Context, roomID string, page, limit int) ([]*entity.Message, int64, *app_error.AppError) {
	filter := bson.M{"room_id": roomID}

	total, err := r.collection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, app_error.Internal(fmt.Sprintf("failed to count messages: %v", err), "mongo")
	}

	skip := int64(page-1) * int64(limit)
	cur, err := r.collection().Find(ctx, filter,
		options.Find().
			SetSort(bson.D{{Key: "_id", Value: -1}}).
			SetSkip(skip).
			SetLimit(int64(limit)))
	if err != nil {
		return nil, 0, app_error.Internal(fmt.Sprintf("failed to fetch messages: %v", err), "mongo")
	}

	defer cur.Close(ctx)

	var messages []*entity.Message
	if err := cur.All(ctx, &messages); err != nil {
		return nil, 0, app_error.Internal(fmt.Sprintf("failed to decode messages: %v", err), "mongo")
	}

	// reverse messages to be in ascending order (oldest to newest)
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, total, nil
}

func (r *MessageRepo) MarkAllRead(ctx context.Context, roomID, userID string, at time.Time) (int64, *app_error.AppError) {
	filter := bson.M{
		"room_id":   roomID,
		"sender_id": bson.M{"$ne": userID},
		"read_by.user_id": bson.M{"$ne": userID},
	}
	update := bson.M{
		"$push": bson.M{
			"read_by": entity.ReadReceipt{UserID: userID, ReadAt: at},
		},
	}

	result, err := r.collection().UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, app_error.Internal(fmt.Sprintf("failed to mark messages as read: %v", err), "mongo")
	}
	return result.ModifiedCount, nil
}

func (r *MessageRepo) UnreadCount(ctx context.Context, roomID, userID string) (int64, *app_error.AppError) {
	count, err := r.collection().CountDocuments(ctx, bson.M{
		"room_id":   roomID,
		"sender_id": bson.M{"$ne": userID},
		"read_by.user_id": bson.M{"$ne": userID},
	})
	if err != nil {
		return 0, app_error.Internal(fmt.Sprintf("failed to count unread messages: %v", err), "mongo")
	}
	return count, nil
}
