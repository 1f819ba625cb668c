package mid

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/doitintl/hello/gcp-footprint/framework/web"
)

// ValidateQueryBool rejects requests whose optional query flag is set to a non boolean.
func ValidateQueryBool(paramName string) web.Middleware {
	f := func(handler web.Handler) web.Handler {
		h := func(ctx *gin.Context) error {
			if v := ctx.Query(paramName); v != "" {
				if _, err := strconv.ParseBool(v); err != nil {
					return web.NewRequestError(fmt.Errorf("error: %s must be true or false", paramName), http.StatusBadRequest)
				}
			}

			return handler(ctx)
		}

		return h
	}

	return f
}
