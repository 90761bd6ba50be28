package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"imageatelier/internal/auth"
	"imageatelier/internal/domain"
)

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userOut struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUser registers a new account.
func (a *App) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "username and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	user, err := a.Users.Create(r.Context(), &domain.User{
		Username:     req.Username,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			a.error(w, http.StatusConflict, "username already taken")
			return
		}
		a.Logger.Error().Err(err).Msg("create user failed")
		a.error(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	a.json(w, http.StatusCreated, userOut{ID: user.ID, Username: user.Username, CreatedAt: user.CreatedAt})
}

// GetUser returns one account by id.
func (a *App) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	user, err := a.Users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "user not found")
			return
		}
		a.Logger.Error().Err(err).Int64("user_id", id).Msg("get user failed")
		a.error(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	a.json(w, http.StatusOK, userOut{ID: user.ID, Username: user.Username, CreatedAt: user.CreatedAt})
}
