package chat_dto

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type CreateDirectRoomRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

type CreateGroupRoomRequest struct {
	Name      string   `json:"name" validate:"required,min=1,max=100"`
	MemberIDs []string `json:"member_ids" validate:"required,min=1,dive,uuid"`
}

type SendMessageRequest struct {
	RoomID  string `json:"room_id" validate:"required,uuid"`
	Content string `json:"content" validate:"required,min=1"`
}

func ObjectIDValidator(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}
