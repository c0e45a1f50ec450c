package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/mobilecore/internal/common"
	"github.com/dmitrijs2005/mobilecore/internal/server/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type noteResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at,omitempty"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

func toNoteResponse(n models.Note) noteResponse {
	r := noteResponse{ID: n.ID, Title: n.Title, Body: n.Body}
	if !n.CreatedAt.IsZero() {
		r.CreatedAt = n.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")
	}
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(common.ContentTypeHeaderName, common.ContentTypeJSON)
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
