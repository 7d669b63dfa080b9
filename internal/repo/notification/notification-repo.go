package notification_repo

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

type NotificationRepo struct {
	AppState *state.AppState
}

func NewNotificationRepo(appState *state.AppState) NotificationRepoContract {
	return &NotificationRepo{
		AppState: appState,
	}
}

func (r *NotificationRepo) collection() *mongo.Collection {
	return r.AppState.Mongo.Database(config.Conf.DATABASE.Mongo.Database).Collection("notifications")
}

func (r *NotificationRepo) InsertNotifications(ctx context.Context, notifications []*entity.Notification) *app_error.AppError {
	if len(notifications) == 0 {
		return nil
	}

	docs := make([]any, 0, len(notifications))
	for _, n := range notifications {
		if n.ID.IsZero() {
			n.ID = bson.NewObjectID()
		}
		docs = append(docs, n)
	}

	if _, err := r.collection().InsertMany(ctx, docs); err != nil {
		return app_error.Internal(fmt.Sprintf("failed to create notifications: %v", err), "mongo")
	}
	return nil
}

func (r *NotificationRepo) FindNotificationByID(ctx context.Context, id string) (*entity.Notification, *app_error.AppError) {
	objID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("invalid notification ID: %v", err), "invalid-id")
	}

	var notification entity.Notification
	if err := r.collection().FindOne(ctx, bson.M{"_id": objID}).Decode(&notification); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, app_error.NotFound("notification not found", "not-found")
		}
		return nil, app_error.Internal(fmt.Sprintf("failed to fetch notification: %v", err), "mongo")
	}
	return &notification, nil
}

func (r *NotificationRepo) ListForUser(ctx context.Context, userID string, unreadOnly bool, page, limit int) ([]*entity.Notification, int64, *app_error.AppError) {
	filter := bson.M{"user_id": userID}
	if unreadOnly {
		filter["is_read"] = false
	}

	total, err := r.collection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, app_error.Internal(fmt.Sprintf("failed to count notifications: %v", err), "mongo")
	}

	skip := int64(page-1) * int64(limit)
	cur, err := r.collection().Find(ctx, filter,
		options.Find().
			SetSort(bson.D{{Key: "_id", Value: -1}}).
			SetSkip(skip).
			SetLimit(int64(limit)))
	if err != nil {
		return nil, 0, app_error.Internal(fmt.Sprintf("failed to fetch notifications: %v", err), "mongo")
	}

	defer cur.Close(ctx)

	var notifications []*entity.Notification
	if err := cur.All(ctx, &notifications); err != nil {
		return nil, 0, app_error.Internal(fmt.Sprintf("failed to decode notifications: %v", err), "mongo")
	}

	return notifications, total, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id string, at time.Time) *app_error.AppError {
	objID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("invalid notification ID: %v", err), "invalid-id")
	}

	_, err = r.collection().UpdateOne(ctx,
		bson.M{"_id": objID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": at}})
	if err != nil {
		return app_error.Internal(fmt.Sprintf("failed to mark notification as read: %v", err), "mongo")
	}
	return nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, *app_error.AppError) {
	result, err := r.collection().UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": at}})
	if err != nil {
		return 0, app_error.Internal(fmt.Sprintf("failed to mark notifications as read: %v", err), "mongo")
	}
	return result.ModifiedCount, nil
}
