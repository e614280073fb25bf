package web

import (
	"fmt"
	"net/http"
)

// AppError represents a structured API error with a machine-readable code.
// The Message field is an English fallback; the frontend translates
// error_code into the user's language.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewAppError(code, message string, httpStatus int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Err: err}
}

// FailErr writes a structured error response from an AppError.
// Optional detail is appended to the message (e.g. err.Error()).
func FailErr(w http.ResponseWriter, r *http.Request, e *AppError, detail ...string) {
	msg := e.Message
	if len(detail) > 0 && detail[0] != "" {
		msg = msg + ": " + detail[0]
	}
	Fail(w, r, e.Code, msg, e.HTTPStatus)
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

var (
	ErrUnauthorized     = &AppError{"AUTH_UNAUTHORIZED", "not logged in or session expired", 401, nil}
	ErrForbidden        = &AppError{"AUTH_FORBIDDEN", "permission denied", 403, nil}
	ErrInvalidPassword  = &AppError{"AUTH_INVALID_PASSWORD", "invalid username or password", 401, nil}
	ErrTokenExpired     = &AppError{"AUTH_TOKEN_EXPIRED", "session expired, please login again", 401, nil}
	ErrEmptyCredentials = &AppError{"AUTH_EMPTY_CREDENTIALS", "username and password required", 400, nil}
	ErrPasswordTooShort = &AppError{"AUTH_PASSWORD_TOO_SHORT", "password must be at least 3 characters", 400, nil}
	ErrLoginFailed      = &AppError{"AUTH_LOGIN_FAILED", "login failed", 500, nil}
)

// ---------------------------------------------------------------------------
// System / generic
// ---------------------------------------------------------------------------

var (
	ErrNotFound      = &AppError{"NOT_FOUND", "resource not found", 404, nil}
	ErrInvalidParam  = &AppError{"INVALID_PARAM", "invalid request parameter", 400, nil}
	ErrInvalidBody   = &AppError{"INVALID_BODY", "invalid request body", 400, nil}
	ErrInternalError = &AppError{"INTERNAL_ERROR", "internal server error", 500, nil}
	ErrRateLimited   = &AppError{"RATE_LIMITED", "too many requests, please try later", 429, nil}
	ErrDBQuery       = &AppError{"DB_QUERY_FAILED", "database query failed", 500, nil}
	ErrEncrypt       = &AppError{"ENCRYPT_FAILED", "encryption failed", 500, nil}
)

// ---------------------------------------------------------------------------
// User management
// ---------------------------------------------------------------------------

var (
	ErrUserNotFound   = &AppError{"USER_NOT_FOUND", "user not found", 404, nil}
	ErrUserExists     = &AppError{"USER_EXISTS", "username already exists", 409, nil}
	ErrUserValidation = &AppError{"USER_VALIDATION", "username and full name are required", 400, nil}
	ErrUserCreateFail = &AppError{"USER_CREATE_FAILED", "user creation failed", 500, nil}
	ErrUserDeleteFail = &AppError{"USER_DELETE_FAILED", "user deletion failed", 500, nil}
	ErrUserQueryFail  = &AppError{"USER_QUERY_FAILED", "user query failed", 500, nil}
	ErrUserSelfDelete = &AppError{"USER_SELF_DELETE", "cannot delete current user", 403, nil}
)

// ---------------------------------------------------------------------------
// Devices (cameras / recorders)
// ---------------------------------------------------------------------------

var (
	ErrCameraNotFound    = &AppError{"CAMERA_NOT_FOUND", "camera not found", 404, nil}
	ErrCameraDuplicateIP = &AppError{"CAMERA_DUPLICATE_IP", "a camera with this IP already exists", 409, nil}
	ErrCameraSaveFail    = &AppError{"CAMERA_SAVE_FAILED", "camera save failed", 500, nil}
	ErrRecorderNotFound  = &AppError{"RECORDER_NOT_FOUND", "recorder not found", 404, nil}
	ErrRecorderSaveFail  = &AppError{"RECORDER_SAVE_FAILED", "recorder save failed", 500, nil}
	ErrDeviceValidation  = &AppError{"DEVICE_VALIDATION", "required device field missing", 400, nil}
	ErrImportFailed      = &AppError{"IMPORT_FAILED", "camera import failed", 500, nil}
)

// ---------------------------------------------------------------------------
// Taxonomies (locations / types / statuses)
// ---------------------------------------------------------------------------

var (
	ErrTaxonomyKind      = &AppError{"TAXONOMY_UNKNOWN_KIND", "unknown taxonomy kind", 400, nil}
	ErrTaxonomyEmpty     = &AppError{"TAXONOMY_EMPTY_NAME", "name must not be blank", 400, nil}
	ErrTaxonomyExists    = &AppError{"TAXONOMY_EXISTS", "an entry with this name already exists", 409, nil}
	ErrTaxonomyNotFound  = &AppError{"TAXONOMY_NOT_FOUND", "taxonomy entry not found", 404, nil}
	ErrTaxonomyInUse     = &AppError{"TAXONOMY_IN_USE", "entry is still referenced by devices", 409, nil}
	ErrTaxonomyWriteFail = &AppError{"TAXONOMY_WRITE_FAILED", "taxonomy update failed", 500, nil}
)

// ---------------------------------------------------------------------------
// Site maps / placement
// ---------------------------------------------------------------------------

var (
	ErrMapNotFound  = &AppError{"MAP_NOT_FOUND", "map not found", 404, nil}
	ErrMapSaveFail  = &AppError{"MAP_SAVE_FAILED", "map save failed", 500, nil}
	ErrMapWriteFail = &AppError{"MAP_WRITE_FAILED", "map update failed", 500, nil}
)

// ---------------------------------------------------------------------------
// Audit / export / assist
// ---------------------------------------------------------------------------

var (
	ErrAuditQueryFail = &AppError{"AUDIT_QUERY_FAILED", "audit log query failed", 500, nil}
	ErrExportFailed   = &AppError{"EXPORT_FAILED", "export failed", 500, nil}
	ErrAssistFailed   = &AppError{"ASSIST_FAILED", "assistant request failed", 502, nil}
)
