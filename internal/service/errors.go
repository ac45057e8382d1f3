package service

import (
	"errors"

	"prep_admin_backend/internal/repository"
	"prep_admin_backend/internal/util"

	"gorm.io/gorm"
)

// storeError maps repository failures to app errors. Anything unexpected is
// hidden behind msg and logged by the HTTP layer.
func storeError(err error, msg string) error {
	if err == nil {
		return nil
	}
	var appErr *util.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, repository.ErrParentNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return &util.AppError{Kind: util.KindNotFound, Message: util.MsgNotFound, Err: err}
	case errors.Is(err, repository.ErrOrderMismatch):
		return &util.AppError{Kind: util.KindValidation, Message: util.MsgInvalidOrder, Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &util.AppError{Kind: util.KindConflict, Message: util.MsgConflict, Err: err}
	}
	return util.WrapInternal(err, msg)
}
