package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
	"github.com/doitintl/hello/gcp-footprint/discovery/service/iface"
	"github.com/doitintl/hello/gcp-footprint/framework/web"
	"github.com/doitintl/hello/gcp-footprint/insights"
	"github.com/doitintl/hello/gcp-footprint/logger"
)

const exportDateLayout = "2006-01-02"

type Discovery struct {
	loggerProvider logger.Provider
	service        iface.Session
	now            func() time.Time
}

type StartResponse struct {
	RunID string `json:"runId"`
}

type InsightsRequest struct {
	APIKey string `json:"apiKey"`
}

func NewDiscovery(log logger.Provider, session iface.Session) *Discovery {
	return &Discovery{
		loggerProvider: log,
		service:        session,
		now:            time.Now,
	}
}

func Health(ctx *gin.Context) error {
	return web.Respond(ctx, nil, http.StatusOK)
}

// Start begins a discovery in the background, cancelling the one in flight.
func (h *Discovery) Start(ctx *gin.Context) error {
	l := h.loggerProvider(ctx)

	runID, err := h.service.Start(ctx)
	if err != nil {
		return web.NewRequestError(err, http.StatusInternalServerError)
	}

	l.SetLabel("run", runID)
	l.Infof("discovery run %s started", runID)

	return web.Respond(ctx, StartResponse{RunID: runID}, http.StatusAccepted)
}

func (h *Discovery) Status(ctx *gin.Context) error {
	return web.Respond(ctx, h.service.Status(), http.StatusOK)
}

func (h *Discovery) Snapshot(ctx *gin.Context) error {
	result, err := h.service.Snapshot()
	if err != nil {
		return snapshotError(err)
	}

	return web.Respond(ctx, result, http.StatusOK)
}

// Export sends the raw discovery as a dated JSON attachment.
func (h *Discovery) Export(ctx *gin.Context) error {
	result, err := h.service.Snapshot()
	if err != nil {
		return snapshotError(err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return web.NewRequestError(err, http.StatusInternalServerError)
	}

	filename := "gcp-footprint-" + h.now().Format(exportDateLayout) + ".json"

	return web.RespondDownloadFile(ctx, data, filename, "application/json")
}

func (h *Discovery) Graph(ctx *gin.Context) error {
	// the route validates the flag, so an absent value is the only parse failure
	withServices, _ := strconv.ParseBool(ctx.Query("services"))

	g, err := h.service.Graph(withServices)
	if err != nil {
		return snapshotError(err)
	}

	return web.Respond(ctx, g, http.StatusOK)
}

func (h *Discovery) Findings(ctx *gin.Context) error {
	report, err := h.service.Findings()
	if err != nil {
		return snapshotError(err)
	}

	return web.Respond(ctx, report, http.StatusOK)
}

// Insights enriches the current discovery. The body is optional; without a key the configured
// one is used.
func (h *Discovery) Insights(ctx *gin.Context) error {
	l := h.loggerProvider(ctx)

	var req InsightsRequest

	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return web.NewRequestError(err, http.StatusBadRequest)
		}
	}

	result, err := h.service.Analyze(ctx, req.APIKey)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoDiscovery):
			return web.NewRequestError(err, http.StatusNotFound)
		case errors.Is(err, insights.ErrMissingAPIKey):
			return web.NewRequestError(err, http.StatusBadRequest)
		}

		l.Errorf("insights: %s", err)

		return web.NewRequestError(web.ErrBadGateway, http.StatusBadGateway)
	}

	return web.Respond(ctx, result, http.StatusOK)
}

func snapshotError(err error) error {
	if errors.Is(err, domain.ErrNoDiscovery) {
		return web.NewRequestError(err, http.StatusNotFound)
	}

	return web.NewRequestError(err, http.StatusInternalServerError)
}
