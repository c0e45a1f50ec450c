package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/mobilecore/internal/common"
	"github.com/go-playground/validator/v10"
)

type registerRequest struct {
	Name     string `json:"name" validate:"omitempty,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createNoteRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"max=10000"`
}

// decode reads a JSON body into v and validates it. On failure the error
// response is already written.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "invalid request"
	}
	fe := ve[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	}
	return field + " is invalid"
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		authAttemptsTotal.WithLabelValues("register", "invalid").Inc()
		return
	}

	res, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			authAttemptsTotal.WithLabelValues("register", "conflict").Inc()
			writeError(w, http.StatusConflict, "user already exists")
			return
		}
		authAttemptsTotal.WithLabelValues("register", "error").Inc()
		h.logger.Error(r.Context(), "register failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	authAttemptsTotal.WithLabelValues("register", "ok").Inc()
	writeJSON(w, http.StatusCreated, authResponse{Token: res.Token, User: toUserResponse(res.User)})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		authAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return
	}

	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			authAttemptsTotal.WithLabelValues("login", "unauthorized").Inc()
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		authAttemptsTotal.WithLabelValues("login", "error").Inc()
		h.logger.Error(r.Context(), "login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	authAttemptsTotal.WithLabelValues("login", "ok").Inc()
	writeJSON(w, http.StatusOK, authResponse{Token: res.Token, User: toUserResponse(res.User)})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}

	u, err := h.users.Get(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// token outlived its account
			writeError(w, http.StatusUnauthorized, "unknown user")
			return
		}
		h.logger.Error(r.Context(), "get user failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}

	list, err := h.notes.List(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error(r.Context(), "list notes failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	res := make([]noteResponse, 0, len(list))
	for _, n := range list {
		res = append(res, toNoteResponse(n))
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}

	var req createNoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	n, err := h.notes.Create(r.Context(), claims.UserID, req.Title, req.Body)
	if err != nil {
		h.logger.Error(r.Context(), "create note failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toNoteResponse(*n))
}
