package internal

import (
	"time"

	"github.com/gin-gonic/gin"
)

// CtxDataKey is how request values or stored/retrieved.
const CtxDataKey = "footprint-request"

// Data represent state for each request.
type Data struct {
	TraceID    string
	StatusCode int
	Now        time.Time

	// Route is the registered path template, e.g. /discovery/status.
	Route string
}

// Latency returns the time elapsed since the request started.
func (d *Data) Latency() time.Duration {
	return time.Since(d.Now)
}

// ContextWithData sets a gin.Context with context data.
func ContextWithData(ctx *gin.Context, data *Data) {
	ctx.Set(CtxDataKey, data)
}

// DataFromContext retrieves data from gin.Context.
func DataFromContext(ctx *gin.Context) (*Data, bool) {
	v, ok := ctx.Value(CtxDataKey).(*Data)
	return v, ok
}
