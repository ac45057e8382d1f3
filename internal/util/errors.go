package util

import (
	"errors"
	"net/http"

	"prep_admin_backend/internal/authoring"
	"prep_admin_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindInternal     ErrorKind = "internal"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrPermissionDenied   = errors.New("permission denied")
)

// AppError is an error with a user-facing message. Err keeps the cause for
// logs and is never sent to clients.
type AppError struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func NewValidationError(message string, fields map[string]string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Fields: fields}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

// WrapInternal hides err behind message. A nil err stays nil.
func WrapInternal(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// IsKind reports whether err classifies as kind.
func IsKind(err error, kind ErrorKind) bool {
	return AsAppError(err).Kind == kind
}

// AsAppError classifies any error. Unknown errors become internal with the
// generic save message.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if verr, ok := authoring.AsValidation(err); ok {
		var fields map[string]string
		if verr.Field != "" {
			fields = map[string]string{verr.Field: verr.Message}
		}
		return &AppError{Kind: KindValidation, Message: verr.Message, Fields: fields, Err: err}
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &AppError{Kind: KindNotFound, Message: MsgNotFound, Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &AppError{Kind: KindConflict, Message: MsgConflict, Err: err}
	case errors.Is(err, ErrInvalidCredentials):
		return &AppError{Kind: KindUnauthorized, Message: MsgInvalidLogin, Err: err}
	case errors.Is(err, ErrAccountDisabled):
		return &AppError{Kind: KindForbidden, Message: MsgAccountDisabled, Err: err}
	case errors.Is(err, ErrPermissionDenied):
		return &AppError{Kind: KindForbidden, Message: MsgForbidden, Err: err}
	}
	return &AppError{Kind: KindInternal, Message: MsgSaveFailed, Err: err}
}

// HandleError writes the error envelope. Internal errors are logged with
// their cause and answered with the sanitised message only.
func HandleError(c *gin.Context, err error) {
	appErr := AsAppError(err)
	if appErr.Kind == KindInternal {
		logger.Log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(appErr.Err),
		)
	}
	c.AbortWithStatusJSON(appErr.Status(), Response{
		Success: false,
		Error:   appErr.Message,
		Fields:  appErr.Fields,
	})
}
