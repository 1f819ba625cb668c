package logger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/api/monitoredres"

	"github.com/doitintl/hello/gcp-footprint/common"
)

type ctxKey string

const (
	// CtxLoggerKey is how request values or stored/retrieved.
	CtxLoggerKey = "app-logger"

	// ctxLoggerKey stores the logger on plain contexts that outlive a request.
	ctxLoggerKey ctxKey = CtxLoggerKey

	// parentLogID is the name of the log file for parent logging.
	parentLogID = "footprint_requests"

	// childLogID is the name of the log file for child logging.
	childLogID = "footprint"

	// labels keys for monitored resource definition
	projectIDField = "project_id"
	locationField  = "location"
	namespaceField = "namespace"
	nodeIDField    = "node_id"

	genericNodeType = "generic_node"
	serviceName     = "gcp-footprint"
)

var (
	parentLogger *logging.Logger
	childLogger  *logging.Logger
	resource     *monitoredres.MonitoredResource
	cloudLogging bool

	local = newLocalSink(common.IsLocalhost)
)

type Provider func(ctx context.Context) ILogger

type Logging struct {
	client *logging.Client
}

// NewLogging initializes the cloud logging clients when enabled and the local zap sink.
func NewLogging(ctx context.Context, cfg *common.Config) (*Logging, error) {
	local = newLocalSink(common.IsLocalhost || !cfg.CloudLogging)

	if !cfg.CloudLogging {
		return &Logging{}, nil
	}

	client, err := logging.NewClient(ctx, common.ProjectID)
	if err != nil {
		return nil, err
	}

	parentLogger = client.Logger(parentLogID)
	childLogger = client.Logger(childLogID)
	cloudLogging = true

	resource = &monitoredres.MonitoredResource{
		Labels: map[string]string{
			projectIDField: common.ProjectID,
			locationField:  "global",
			namespaceField: serviceName,
			nodeIDField:    cfg.SessionID,
		},
		Type: genericNodeType,
	}

	return &Logging{client: client}, nil
}

// Logger returns the logger that was stored inside the context.
func (l *Logging) Logger(ctx context.Context) ILogger {
	return FromContext(ctx)
}

// Close flushes buffered entries.
func (l *Logging) Close() error {
	_ = local.Sync()

	if l.client == nil {
		return nil
	}

	return l.client.Close()
}

// NewLogger sets gin.Context with a new logger, with the related google trace id.
func NewLogger(ctx *gin.Context) (*Logger, error) {
	l := newDefaultLogger()

	var h string
	if ctx.Request != nil {
		h = ctx.Request.Header.Get("X-Cloud-Trace-Context")
	}

	if h != "" {
		if i := strings.IndexByte(h, '/'); i > 0 {
			if t := h[:i]; strings.Count(t, "0") != len(t) {
				l.trace = getTrace(l.started, t)
			}
		}
	}

	ctx.Set(CtxLoggerKey, l)

	return l, nil
}

// FromContext returns the logger that was stored in context.
// If there isn't logger stored, returns a new logger.
func FromContext(ctx context.Context) ILogger {
	if ctx == nil {
		return newDefaultLogger()
	}

	if l, ok := ctx.Value(CtxLoggerKey).(ILogger); ok {
		return l
	}

	if l, ok := ctx.Value(ctxLoggerKey).(ILogger); ok {
		return l
	}

	return newDefaultLogger()
}

// WithContext returns a copy of ctx carrying l, for work detached from the request.
func WithContext(ctx context.Context, l ILogger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey, l)
}

func getTrace(started time.Time, id string) string {
	return fmt.Sprintf("projects/%s/traces/%d%s", common.ProjectID, started.UnixNano(), id)
}

func newLocalSink(enabled bool) *zap.SugaredLogger {
	if !enabled {
		return zap.NewNop().Sugar()
	}

	var cfg zap.Config
	if common.Production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.OutputPaths = []string{"stderr"}

	zl, err := cfg.Build(zap.AddCallerSkip(3))
	if err != nil {
		return zap.NewNop().Sugar()
	}

	return zl.Sugar()
}
