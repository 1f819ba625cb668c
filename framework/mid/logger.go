package mid

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/doitintl/hello/gcp-footprint/framework/web"
	"github.com/doitintl/hello/gcp-footprint/internal"
	"github.com/doitintl/hello/gcp-footprint/logger"
)

const (
	healthCheckExcludePath = "/health"
	statusPollExcludePath  = "/discovery/status"
)

// Logger writes some information about the request to the logs in the
// format: TraceID : (200) GET /foo -> IP ADDR (latency)
// Health checks and status polling are not logged.
func Logger() web.Middleware {
	f := func(before web.Handler) web.Handler {
		h := func(ctx *gin.Context) error {
			switch ctx.Request.URL.Path {
			case healthCheckExcludePath, statusPollExcludePath:
				return before(ctx)
			}

			v, ok := internal.DataFromContext(ctx)
			if !ok {
				return web.NewShutdownError("web value missing from context")
			}

			log := logger.FromContext(ctx)
			log.SetLabels(map[string]string{
				"route":  v.Route,
				"method": ctx.Request.Method,
			})

			log.Debugf("%s: started : %s %s -> %s",
				v.TraceID,
				ctx.Request.Method, ctx.Request.URL.Path, ctx.Request.RemoteAddr,
			)

			err := before(ctx)

			if err == nil && v.StatusCode >= http.StatusBadRequest {
				if lastErr := ctx.Errors.Last(); lastErr != nil {
					log.Errorf("Request fails %s", lastErr)
				}
			}

			log.Infof("%s: completed : %s %s -> %s (%d) (%s)",
				v.TraceID,
				ctx.Request.Method, ctx.Request.URL.Path, ctx.Request.RemoteAddr,
				v.StatusCode, v.Latency(),
			)

			return err
		}

		return h
	}

	return f
}
