package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"cammanager/internal/config"
	"cammanager/internal/constants"
	"cammanager/internal/database"
	"cammanager/internal/logger"
	"cammanager/internal/web"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 3

type AuthHandler struct {
	userRepo  *database.UserRepo
	auditRepo *database.AuditLogRepo
	cfg       *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userRepo:  database.NewUserRepo(),
		auditRepo: database.NewAuditLogRepo(),
		cfg:       cfg,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string   `json:"token"`
	ExpiresAt string   `json:"expires_at"`
	User      userInfo `json:"user"`
}

type userInfo struct {
	ID               string   `json:"id"`
	Username         string   `json:"username"`
	FullName         string   `json:"fullName"`
	Role             string   `json:"role"`
	Avatar           string   `json:"avatar,omitempty"`
	AllowedLocations []string `json:"allowedLocations"`
}

func toUserInfo(u *database.User) userInfo {
	return userInfo{
		ID:               u.ID,
		Username:         u.Username,
		FullName:         u.FullName,
		Role:             u.Role,
		Avatar:           u.Avatar,
		AllowedLocations: u.Locations(),
	}
}

// Login verifies credentials and issues the session cookie. Only a
// committed login appears in the audit trail; failed attempts are logged
// to the app log, not the audit store.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.FailErr(w, r, web.ErrInvalidBody)
		return
	}
	if req.Username == "" || req.Password == "" {
		web.FailErr(w, r, web.ErrEmptyCredentials)
		return
	}

	user, err := h.userRepo.FindByUsername(req.Username)
	if err != nil {
		logger.Auth.Warn().Str("username", req.Username).Str("ip", web.ClientIP(r)).Msg("login failed: user not found")
		web.FailErr(w, r, web.ErrInvalidPassword)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Auth.Warn().Str("username", req.Username).Str("ip", web.ClientIP(r)).Msg("login failed: wrong password")
		web.FailErr(w, r, web.ErrInvalidPassword)
		return
	}

	token, expiresAt, err := web.GenerateJWT(user.ID, user.Username, user.Role, h.cfg.Auth.JWTSecret, h.cfg.JWTExpireDuration())
	if err != nil {
		logger.Auth.Error().Err(err).Msg("JWT generation failed")
		web.FailErr(w, r, web.ErrLoginFailed)
		return
	}

	h.auditRepo.Create(&database.AuditLog{
		Action:     constants.ActionAdd,
		TargetType: constants.TargetAccount,
		TargetName: user.Username,
		Details:    "login",
		Username:   user.Username,
	})

	logger.Auth.Info().Str("username", user.Username).Str("ip", web.ClientIP(r)).Msg("user logged in")

	http.SetCookie(w, &http.Cookie{
		Name:     web.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	web.OK(w, r, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User:      toUserInfo(user),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if username := web.GetUsername(r); username != "" {
		h.auditRepo.Create(&database.AuditLog{
			Action:     constants.ActionAdd,
			TargetType: constants.TargetAccount,
			TargetName: username,
			Details:    "logout",
			Username:   username,
		})
	}
	http.SetCookie(w, &http.Cookie{
		Name:     web.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	web.OK(w, r, map[string]string{"message": "ok"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userRepo.FindByID(web.GetUserID(r))
	if err != nil {
		web.FailErr(w, r, web.ErrUserNotFound)
		return
	}
	web.OK(w, r, toUserInfo(user))
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.FailErr(w, r, web.ErrInvalidBody)
		return
	}
	if len(strings.TrimSpace(req.NewPassword)) < minPasswordLen {
		web.FailErr(w, r, web.ErrPasswordTooShort)
		return
	}

	user, err := h.userRepo.FindByID(web.GetUserID(r))
	if err != nil {
		web.FailErr(w, r, web.ErrUserNotFound)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		web.FailErr(w, r, web.ErrEncrypt)
		return
	}
	if err := h.userRepo.UpdatePassword(user.ID, string(hash)); err != nil {
		web.FailErr(w, r, web.ErrDBQuery)
		return
	}

	h.auditRepo.Create(&database.AuditLog{
		Action:     constants.ActionEdit,
		TargetType: constants.TargetAccount,
		TargetName: user.Username,
		Details:    "password changed",
		Username:   user.Username,
	})

	logger.Auth.Info().Str("username", user.Username).Msg("password changed")
	web.OK(w, r, map[string]string{"message": "ok"})
}
