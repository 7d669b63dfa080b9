package chat_handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/dtos/chat_dto"
	app_error "github.com/manan-abhishek/Raabta-ChatApp/internal/errors"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/handlers"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/middleware"
)

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req chat_dto.SendMessageRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	callerID := middleware.CallerID(r.Context())

	resp, err := h.MessageSvc.SendMessage(r.Context(), callerID, req)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(handlers.CreateResponse("message sent successfully", *resp, reqID))

	return nil
}

func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	callerID := middleware.CallerID(r.Context())
	roomID := chi.URLParam(r, "roomId")

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 0)

	resp, err := h.MessageSvc.GetHistory(r.Context(), callerID, roomID, page, limit)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("messages fetched successfully", *resp, reqID))

	return nil
}

func (h *ChatHandler) MarkMessagesRead(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	callerID := middleware.CallerID(r.Context())
	roomID := chi.URLParam(r, "roomId")

	resp, err := h.MessageSvc.MarkRoomRead(r.Context(), callerID, roomID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("messages marked as read", *resp, reqID))

	return nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}
