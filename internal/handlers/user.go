package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"cammanager/internal/constants"
	"cammanager/internal/database"
	"cammanager/internal/logger"
	"cammanager/internal/web"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserHandler struct {
	userRepo  *database.UserRepo
	auditRepo *database.AuditLogRepo
}

func NewUserHandler() *UserHandler {
	return &UserHandler{
		userRepo:  database.NewUserRepo(),
		auditRepo: database.NewAuditLogRepo(),
	}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.List()
	if err != nil {
		web.FailErr(w, r, web.ErrUserQueryFail)
		return
	}
	out := make([]userInfo, 0, len(users))
	for i := range users {
		out = append(out, toUserInfo(&users[i]))
	}
	web.OK(w, r, out)
}

type saveUserRequest struct {
	ID               string   `json:"id"`
	Username         string   `json:"username"`
	Password         string   `json:"password"`
	FullName         string   `json:"fullName"`
	Role             string   `json:"role"`
	Avatar           string   `json:"avatar"`
	AllowedLocations []string `json:"allowedLocations"`
}

// Save inserts or updates a user account. Mandatory fields are validated
// before any write; a failed save never reaches the audit trail.
func (h *UserHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.FailErr(w, r, web.ErrInvalidBody)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Username == "" || req.FullName == "" {
		web.FailErr(w, r, web.ErrUserValidation)
		return
	}
	if strings.ContainsAny(req.Username, " \t") {
		web.FailErr(w, r, web.ErrUserValidation, "username must not contain whitespace")
		return
	}
	if req.Role != constants.RoleAdmin {
		req.Role = constants.RoleUser
	}

	var existing *database.User
	if req.ID != "" {
		if u, err := h.userRepo.FindByID(req.ID); err == nil {
			existing = u
		}
	}

	if existing == nil && req.Password == "" {
		web.FailErr(w, r, web.ErrUserValidation, "new user requires a password")
		return
	}

	// username stays unique across inserts and renames
	if other, err := h.userRepo.FindByUsername(req.Username); err == nil {
		if existing == nil || other.ID != existing.ID {
			web.FailErr(w, r, web.ErrUserExists)
			return
		}
	}

	actor := web.GetUsername(r)
	if existing != nil {
		existing.Username = req.Username
		existing.FullName = req.FullName
		existing.Role = req.Role
		existing.Avatar = req.Avatar
		existing.SetLocations(req.AllowedLocations)
		if req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				web.FailErr(w, r, web.ErrEncrypt)
				return
			}
			existing.PasswordHash = string(hash)
		}
		if err := h.userRepo.Save(existing); err != nil {
			web.FailErr(w, r, web.ErrUserCreateFail)
			return
		}
		h.auditRepo.Create(&database.AuditLog{
			Action:     constants.ActionEdit,
			TargetType: constants.TargetAccount,
			TargetName: existing.Username,
			Details:    "account updated",
			Username:   actor,
		})
		logger.Auth.Info().Str("username", existing.Username).Msg("user updated")
		web.OK(w, r, toUserInfo(existing))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		web.FailErr(w, r, web.ErrEncrypt)
		return
	}
	user := &database.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         req.Role,
		Avatar:       req.Avatar,
	}
	user.SetLocations(req.AllowedLocations)
	if err := h.userRepo.Create(user); err != nil {
		web.FailErr(w, r, web.ErrUserCreateFail)
		return
	}

	h.auditRepo.Create(&database.AuditLog{
		Action:     constants.ActionAdd,
		TargetType: constants.TargetAccount,
		TargetName: user.Username,
		Details:    "account created",
		Username:   actor,
	})
	logger.Auth.Info().Str("username", user.Username).Msg("user created")
	web.OK(w, r, toUserInfo(user))
}

// Delete removes a user. Deleting the active account is refused.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		web.FailErr(w, r, web.ErrInvalidParam)
		return
	}
	if id == web.GetUserID(r) {
		web.FailErr(w, r, web.ErrUserSelfDelete)
		return
	}

	user, err := h.userRepo.FindByID(id)
	if err != nil {
		// stale UI at worst; nothing to delete
		web.OK(w, r, map[string]string{"message": "ok"})
		return
	}
	if err := h.userRepo.Delete(id); err != nil {
		web.FailErr(w, r, web.ErrUserDeleteFail)
		return
	}

	h.auditRepo.Create(&database.AuditLog{
		Action:     constants.ActionDelete,
		TargetType: constants.TargetAccount,
		TargetName: user.Username,
		Details:    "account deleted",
		Username:   web.GetUsername(r),
	})
	logger.Auth.Info().Str("username", user.Username).Msg("user deleted")
	web.OK(w, r, map[string]string{"message": "ok"})
}
