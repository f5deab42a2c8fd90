package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dosada05/knockout-cup/middleware"
)

const (
	organizerSubject = "organizer"
	tokenTTL         = 24 * time.Hour
)

type AuthHandler struct {
	passwordHash []byte
	jwtSecret    string
	now          func() time.Time
}

func NewAuthHandler(adminPasswordHash, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		passwordHash: []byte(adminPasswordHash),
		jwtSecret:    jwtSecret,
		now:          time.Now,
	}
}

type TokenInput struct {
	Password string `json:"password"`
}

// Token godoc
// @Summary Получить токен организатора
// @Tags auth
// @Accept json
// @Produce json
// @Param input body TokenInput true "Пароль организатора"
// @Success 200 {object} map[string]interface{} "token и expires_at"
// @Failure 400 {object} map[string]string "Пустой пароль"
// @Failure 401 {object} map[string]string "Неверный пароль"
// @Router /auth/token [post]
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var input TokenInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Password == "" {
		badRequestResponse(w, r, errors.New("password is required"))
		return
	}

	if err := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(input.Password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			zap.L().Error("admin password hash is unusable", zap.Error(err))
		}
		unauthorizedResponse(w, r, "invalid password")
		return
	}

	issuedAt := h.now()
	tokenString, err := middleware.NewOrganizerToken(h.jwtSecret, organizerSubject, issuedAt, tokenTTL)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to sign token: %w", err))
		return
	}

	response := jsonResponse{
		"token":      tokenString,
		"expires_at": issuedAt.Add(tokenTTL).UTC(),
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
