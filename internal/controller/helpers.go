package controller

import (
	"mime/multipart"

	"prep_admin_backend/internal/service"
	"prep_admin_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes the body, answering a validation error when it is malformed.
func bindJSON(ctx *gin.Context, dst interface{}) bool {
	if err := ctx.ShouldBindJSON(dst); err != nil {
		util.HandleError(ctx, util.NewValidationError(util.MsgInvalidRequest, nil))
		return false
	}
	return true
}

func actorID(ctx *gin.Context) uint {
	if claims := util.GetUserFromContext(ctx); claims != nil {
		return claims.UserID
	}
	return 0
}

// formFile opens the multipart file of field. The returned close func must
// be called once the upload is done.
func formFile(ctx *gin.Context, field string) (service.FileUpload, func(), error) {
	header, err := ctx.FormFile(field)
	if err != nil {
		return service.FileUpload{}, nil, util.NewValidationError(util.MsgFileMissing, map[string]string{field: util.MsgFileMissing})
	}
	return openUpload(header)
}

func openUpload(header *multipart.FileHeader) (service.FileUpload, func(), error) {
	file, err := header.Open()
	if err != nil {
		return service.FileUpload{}, nil, util.WrapInternal(err, util.MsgUploadFailed)
	}
	return service.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}, func() { _ = file.Close() }, nil
}

// orderRequest is the body of the reorder endpoints.
type orderRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

type moveRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type toggleRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
