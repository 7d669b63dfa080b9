package user_handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/dtos/user_dto"
	app_error "github.com/manan-abhishek/Raabta-ChatApp/internal/errors"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/handlers"
	"github.com/manan-abhishek/Raabta-ChatApp/internal/middleware"
	user_service "github.com/manan-abhishek/Raabta-ChatApp/internal/use-case/user-case"
)

type UserHandler struct {
	Validate *validator.Validate
	Service  user_service.UserServiceContract
}

func NewUserHandler(service user_service.UserServiceContract) *UserHandler {
	return &UserHandler{
		Validate: validator.New(),
		Service:  service,
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req user_dto.CreateUserRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.Register(r.Context(), req)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(handlers.CreateResponse("user registered successfully", *resp, reqID))

	return nil
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	var req user_dto.LoginRequest
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, "Invalid JSON", "body")
	}

	if err := h.Validate.Struct(req); err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("Invalid fields: %v", err), "validation")
	}

	resp, err := h.Service.Login(r.Context(), req)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    resp.AccessToken,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("login successful", *resp, reqID))

	return nil
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	callerID := middleware.CallerID(r.Context())

	resp, err := h.Service.ListUsers(r.Context(), callerID)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("users fetched successfully", resp, reqID))

	return nil
}

func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) *app_error.AppError {
	callerID := middleware.CallerID(r.Context())
	query := r.URL.Query().Get("q")

	resp, err := h.Service.SearchUsers(r.Context(), callerID, query)
	if err != nil {
		return err
	}

	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		reqID = "unknown"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(handlers.CreateResponse("users searched successfully", resp, reqID))

	return nil
}
