package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/handler/dto"
	"github.com/taskdeck/taskdeck/internal/service"
)

// UserHandler handles HTTP requests for account operations.
type UserHandler struct {
	svc           *service.UserService
	logger        *slog.Logger
	maxUploadSize int64
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger, maxUploadSize int64) *UserHandler {
	return &UserHandler{
		svc:           svc,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

// Signup handles POST /users.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := dto.DecodeStrict(r.Body, dto.SignupFields, &req); err != nil {
		h.handleError(w, err)
		return
	}

	user, token, _, err := h.svc.Signup(r.Context(), service.SignupInput{
		Name:     req.Name,
		Age:      req.Age,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("user_signed_up", "user_id", user.ID)

	writeJSON(w, http.StatusOK, dto.ToAuthResponse(user, token, h.svc.TokenTTL()))
}

// Login handles POST /users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := dto.DecodeStrict(r.Body, dto.LoginFields, &req); err != nil {
		h.handleError(w, err)
		return
	}

	user, token, _, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("user_logged_in", "user_id", user.ID)

	writeJSON(w, http.StatusOK, dto.ToAuthResponse(user, token, h.svc.TokenTTL()))
}

// Logout handles POST /users/logout. Only the token that authorized this
// request is revoked; other sessions stay active.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ident := auth.MustIdentityFromContext(r.Context())

	if err := h.svc.Logout(r.Context(), ident.User.ID, ident.Token); err != nil {
		h.handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// LogoutAll handles POST /users/logoutAll. The revocation completes
// before the response is written, so a 200 means every previously issued
// token is already unusable.
func (h *UserHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	ident := auth.MustIdentityFromContext(r.Context())

	if err := h.svc.LogoutAll(r.Context(), ident.User.ID); err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("user_logged_out_everywhere", "user_id", ident.User.ID)

	w.WriteHeader(http.StatusOK)
}

// Me handles GET /user.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ident := auth.MustIdentityFromContext(r.Context())
	writeJSON(w, http.StatusOK, ident.User.PublicView())
}

// FetchByID handles GET /users/{id}. Public: any caller may view the
// stripped profile.
func (h *UserHandler) FetchByID(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.FetchByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserEnvelope{User: profile})
}

// Update handles PUT /user.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ident := auth.MustIdentityFromContext(r.Context())

	var req dto.UpdateUserRequest
	if err := dto.DecodeStrict(r.Body, dto.UserUpdateFields, &req); err != nil {
		h.handleError(w, err)
		return
	}

	updated, err := h.svc.Update(r.Context(), ident.User, service.UpdateInput{
		Name:     req.Name,
		Age:      req.Age,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("user_updated", "user_id", updated.ID)

	writeJSON(w, http.StatusOK, updated.PublicView())
}

// Remove handles DELETE /user. Owned tasks are removed in the same
// transaction as the account.
func (h *UserHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ident := auth.MustIdentityFromContext(r.Context())

	if err := h.svc.Remove(r.Context(), ident.User.ID); err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("user_deleted", "user_id", ident.User.ID)

	writeJSON(w, http.StatusOK, dto.UserEnvelope{User: ident.User.PublicView()})
}

// UploadProfileImage handles POST /user/profile. Expects a multipart
// form with the image under the "profilepic" field.
func (h *UserHandler) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	ident := auth.MustIdentityFromContext(r.Context())

	file, header, err := r.FormFile("profilepic")
	if err != nil {
		writeError(w, http.StatusNotAcceptable, "MISSING_FILE", "profilepic file field is required")
		return
	}
	defer file.Close()

	// Read one byte past the limit so oversized uploads are detected
	// without buffering arbitrarily large bodies.
	raw, err := io.ReadAll(io.LimitReader(file, h.maxUploadSize+1))
	if err != nil {
		writeError(w, http.StatusNotAcceptable, "UPLOAD_FAILED", "could not read uploaded file")
		return
	}

	normalized, err := h.svc.SetProfileImage(r.Context(), ident.User.ID, header.Filename, raw, h.maxUploadSize)
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("profile_image_set", "user_id", ident.User.ID, "bytes", len(normalized))

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(normalized)
}

// GetProfileImage handles GET /user/profile.
func (h *UserHandler) GetProfileImage(w http.ResponseWriter, r *http.Request) {
	ident := auth.MustIdentityFromContext(r.Context())

	pic, err := h.svc.GetProfileImage(r.Context(), ident.User.ID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pic)
}

// ClearProfileImage handles DELETE /user/profile.
func (h *UserHandler) ClearProfileImage(w http.ResponseWriter, r *http.Request) {
	ident := auth.MustIdentityFromContext(r.Context())

	if err := h.svc.ClearProfileImage(r.Context(), ident.User.ID); err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ident.User.PublicView())
}

// handleError maps domain errors to HTTP responses.
func (h *UserHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dto.ErrDisallowedField):
		writeError(w, http.StatusNotAcceptable, "DISALLOWED_FIELD", "unknown/disallowed field requested")
	case errors.Is(err, dto.ErrInvalidJSON):
		writeError(w, http.StatusNotAcceptable, "INVALID_BODY", "invalid request body")
	case errors.Is(err, service.ErrEmailExists):
		writeError(w, http.StatusNotAcceptable, "EMAIL_EXISTS", "email already exists")
	case errors.Is(err, service.ErrMalformedID):
		writeError(w, http.StatusNotAcceptable, "MALFORMED_ID", "incorrect user id, please try again")
	case service.IsValidationError(err):
		writeError(w, http.StatusNotAcceptable, "VALIDATION_FAILED", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "incorrect email or password")
	case errors.Is(err, service.ErrProfilePicEmpty):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "profile picture not found")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
	}
}
