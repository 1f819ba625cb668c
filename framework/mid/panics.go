package mid

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/doitintl/hello/gcp-footprint/framework/web"
	"github.com/doitintl/hello/gcp-footprint/internal"
	"github.com/doitintl/hello/gcp-footprint/logger"
)

// Panics recovers from panics and converts the panic to a 500 request error.
func Panics() web.Middleware {
	f := func(after web.Handler) web.Handler {
		h := func(ctx *gin.Context) (err error) {
			v, ok := internal.DataFromContext(ctx)
			if !ok {
				return web.NewShutdownError("web value missing from context")
			}

			log := logger.FromContext(ctx)

			defer func() {
				if r := recover(); r != nil {
					panicErr := fmt.Errorf("panic: %v", r)
					log.Errorf("%s: %s\n%s", v.TraceID, panicErr, debug.Stack())

					if hub := sentrygin.GetHubFromContext(ctx); hub != nil {
						hub.WithScope(func(scope *sentry.Scope) {
							scope.SetTag("route", v.Route)
							hub.Recover(panicErr)
							sentry.Flush(time.Second * 5)
						})
					}

					err = web.NewRequestError(panicErr, http.StatusInternalServerError)
				}
			}()

			return after(ctx)
		}

		return h
	}

	return f
}
