package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/doitintl/hello/gcp-footprint/internal"
)

// Respond converts a Go value to JSON and sends it to the client with the corresponded status code.
func Respond(ctx *gin.Context, data interface{}, statusCode int) error {
	v, ok := internal.DataFromContext(ctx)
	if ok {
		v.StatusCode = statusCode
	}

	// If there is nothing to marshal then set status code and return.
	if data == nil || statusCode == http.StatusNoContent {
		ctx.Status(statusCode)
		return nil
	}

	ctx.JSON(statusCode, data)

	return nil
}

// RespondError sends an error response back to the client.
func RespondError(ctx *gin.Context, err error) error {
	var webErr *Error
	if errors.As(err, &webErr) {
		return Respond(ctx, ErrorResponse{
			Error: webErr.Err.Error(),
			Kind:  webErr.Kind,
		}, webErr.Status)
	}

	return Respond(ctx, ErrorResponse{
		Error: http.StatusText(http.StatusInternalServerError),
	}, http.StatusInternalServerError)
}

// RespondDownloadFile sends data as an attachment, used for the raw discovery export.
func RespondDownloadFile(ctx *gin.Context, data []byte, filename, contentType string) error {
	v, ok := internal.DataFromContext(ctx)
	if ok {
		v.StatusCode = http.StatusOK
	}

	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(http.StatusOK, contentType, data)

	return nil
}
