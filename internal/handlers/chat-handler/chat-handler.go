package chat_handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/dtos/chat_dto"
	app_error "github.com/manan-abhishek/Raabta-ChatApp/internal/errors"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/handlers"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/middleware"
	message_service "github.com/manan-abhishek/Raabta-ChatApp/internal/use-case/message-case"
	room_service "github.com/manan-abhishek/Raabta-ChatApp/internal/use-case/room-case"
)

type ChatHandler struct {
	Validate   *validator.Validate
	RoomSvc    room_service.RoomServiceContract
	MessageSvc message_service.MessageServiceContract
}

func NewChatHandler(roomSvc room_service.RoomServiceContract, messageSvc message_service.MessageServiceContract) *ChatHandler {
	validate := validator.New()
	_ = validate.RegisterValidation("objectid", chat_dto.ObjectIDValidator)
	return &ChatHandler{
		Validate:   validate,
		RoomSvc:    roomSvc,
		MessageSvc: messageSvc,
	}
}

func (h *ChatHandler) CreateDirectChat(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req chat_dto.CreateDirectRoomRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	callerID := middleware.CallerID(r.Context())

	resp, created, err := h.RoomSvc.CreateDirectRoom(r.Context(), callerID, req)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	// lookup-or-create: existing conversation comes back as 200
	status := http.StatusOK
	message := "chat fetched successfully"
	if created {
		status = http.StatusCreated
		message = "chat created successfully"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(handlers.CreateResponse(message, *resp, reqID))

	return nil
}

func (h *ChatHandler) CreateGroupChat(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req chat_dto.CreateGroupRoomRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	callerID := middleware.CallerID(r.Context())

	resp, err := h.RoomSvc.CreateGroupRoom(r.Context(), callerID, req)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(handlers.CreateResponse("group chat created successfully", *resp, reqID))

	return nil
}

func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	callerID := middleware.CallerID(r.Context())

	resp, err := h.RoomSvc.ListRooms(r.Context(), callerID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("chats fetched successfully", resp, reqID))

	return nil
}

func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	callerID := middleware.CallerID(r.Context())
	roomID := chi.URLParam(r, "roomId")

	resp, err := h.RoomSvc.GetRoom(r.Context(), callerID, roomID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("chat fetched successfully", *resp, reqID))

	return nil
}
