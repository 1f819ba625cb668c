package mid

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/doitintl/hello/gcp-footprint/framework/web"
)

func logSentryErrorMessage(ctx *gin.Context, errMessage error) {
	if hub := sentrygin.GetHubFromContext(ctx); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetLevel(sentry.LevelError)
			scope.SetTag("path", ctx.FullPath())
			hub.CaptureMessage(errMessage.Error())
		})
	}
}

// Sentry middleware, we log if the handler returned error 500 or if it returns nil but was aborted with Error.
// Expected errors (4xx, upstream 502) are not reported.
func Sentry() web.Middleware {
	f := func(before web.Handler) web.Handler {
		h := func(ctx *gin.Context) error {
			if err := before(ctx); err != nil {
				var webErr *web.Error
				if !errors.As(err, &webErr) || webErr.Status == http.StatusInternalServerError {
					logSentryErrorMessage(ctx, err)
				}

				return err
			}

			// access the status we are sending
			status := ctx.Writer.Status()
			if status >= http.StatusInternalServerError {
				if lastErr := ctx.Errors.Last(); lastErr != nil {
					logSentryErrorMessage(ctx, lastErr.Err)
				}
			}

			return nil
		}

		return h
	}

	return f
}
