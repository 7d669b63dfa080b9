package notification_handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	app_error "github.com/manan-abhishek/Raabta-ChatApp/internal/errors"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/handlers"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/middleware"
	notification_service "github.com/manan-abhishek/Raabta-ChatApp/internal/use-case/notification-case"
)

type NotificationHandler struct {
	Service notification_service.NotificationServiceContract
}

func NewNotificationHandler(service notification_service.NotificationServiceContract) *NotificationHandler {
	return &NotificationHandler{Service: service}
}

func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	callerID := middleware.CallerID(r.Context())

	unreadOnly := r.URL.Query().Get("unread") == "true"
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	resp, err := h.Service.ListNotifications(r.Context(), callerID, unreadOnly, page, limit)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("notifications fetched successfully", *resp, reqID))

	return nil
}

func (h *NotificationHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	callerID := middleware.CallerID(r.Context())
	notificationID := chi.URLParam(r, "notificationId")

	resp, err := h.Service.MarkNotificationRead(r.Context(), callerID, notificationID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("notification marked as read", *resp, reqID))

	return nil
}

func (h *NotificationHandler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	callerID := middleware.CallerID(r.Context())

	resp, err := h.Service.MarkAllNotificationsRead(r.Context(), callerID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("all notifications marked as read", *resp, reqID))

	return nil
}

func (h *NotificationHandler) UnreadSummary(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	callerID := middleware.CallerID(r.Context())

	resp, err := h.Service.UnreadSummary(r.Context(), callerID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("unread summary fetched successfully", *resp, reqID))

	return nil
}
