package dal

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"google.golang.org/api/monitoring/v3"

	"github.com/doitintl/hello/gcp-footprint/common"
	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
)

const (
	tokenCountMetric   = "aiplatform.googleapis.com/prediction/online/token_count"
	requestCountMetric = "serviceruntime.googleapis.com/api/request_count"

	dailyAlignment = "86400s"
	alignSum       = "ALIGN_SUM"
	dateLayout     = "2006-01-02"

	unknownBucket = "unknown"
	otherCodes    = "other"
)

type UsageDAL struct {
	pager      *Pager
	monitoring *monitoring.Service
	window     time.Duration
	now        func() time.Time
}

func NewUsageDAL(pager *Pager, monitoringService *monitoring.Service, window time.Duration) *UsageDAL {
	if window <= 0 {
		window = common.DefaultUsageWindow
	}

	return &UsageDAL{
		pager:      pager,
		monitoring: monitoringService,
		window:     window,
		now:        time.Now,
	}
}

// GetProjectUsage sums the token and request counters of a project over the usage window.
// It fails only when both queries fail.
func (d *UsageDAL) GetProjectUsage(ctx context.Context, projectID string) (*domain.UsageData, error) {
	end := d.now().UTC()
	start := end.Add(-d.window)

	var (
		tokens, requests     []*monitoring.TimeSeries
		tokenErr, requestErr error
	)

	// each query fails independently, so neither cancels the other
	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()
		tokens, tokenErr = d.listTimeSeries(ctx, projectID, tokenCountMetric, start, end)
	}()

	go func() {
		defer wg.Done()
		requests, requestErr = d.listTimeSeries(ctx, projectID, requestCountMetric, start, end)
	}()

	wg.Wait()

	if tokenErr != nil && requestErr != nil {
		return nil, fmt.Errorf("get usage for %s: %w", projectID, multierror.Append(tokenErr, requestErr))
	}

	usage := &domain.UsageData{ProjectID: projectID}

	if tokenErr == nil {
		total, byModel, _, series := aggregate(tokens, "model_user_id")
		usage.TokenCount = &total
		usage.TokenBreakdown = byModel
		usage.TokenTimeSeries = series
	}

	if requestErr == nil {
		total, byService, byCode, series := aggregate(requests, "service")
		usage.RequestCount = &total
		usage.RequestBreakdown = byService
		usage.ResponseCodeBreakdown = byCode
		usage.RequestTimeSeries = series
	}

	return usage, nil
}

func (d *UsageDAL) listTimeSeries(ctx context.Context, projectID, metric string, start, end time.Time) ([]*monitoring.TimeSeries, error) {
	name := "projects/" + projectID
	filter := fmt.Sprintf("metric.type=%q", metric)

	return paginate(ctx, d.pager, "time series "+projectID, func(ctx context.Context, pageToken string) ([]*monitoring.TimeSeries, string, error) {
		call := d.monitoring.Projects.TimeSeries.List(name).
			Filter(filter).
			IntervalStartTime(start.Format(time.RFC3339)).
			IntervalEndTime(end.Format(time.RFC3339)).
			AggregationAlignmentPeriod(dailyAlignment).
			AggregationPerSeriesAligner(alignSum).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, "", err
		}

		return resp.TimeSeries, resp.NextPageToken, nil
	})
}

// aggregate sums every point, and splits the sum by the given resource label, by response
// code class and by day.
func aggregate(series []*monitoring.TimeSeries, breakdownLabel string) (int64, map[string]int64, map[string]int64, []domain.TimeSeriesPoint) {
	var total int64

	byLabel := make(map[string]int64)
	byCode := make(map[string]int64)
	byDay := make(map[string]int64)

	for _, ts := range series {
		label := resourceLabel(ts, breakdownLabel)
		code := responseCodeClass(ts)

		for _, pt := range ts.Points {
			v := pointValue(pt)
			total += v
			byLabel[label] += v
			byCode[code] += v

			if day := pointDay(pt); day != "" {
				byDay[day] += v
			}
		}
	}

	days := maps.Keys(byDay)
	slices.Sort(days)

	timeline := make([]domain.TimeSeriesPoint, 0, len(days))
	for _, day := range days {
		timeline = append(timeline, domain.TimeSeriesPoint{Date: day, Value: byDay[day]})
	}

	return total, byLabel, byCode, timeline
}

// pointValue is the point's int64 value, else its double value rounded.
func pointValue(pt *monitoring.Point) int64 {
	if pt == nil || pt.Value == nil {
		return 0
	}

	if pt.Value.Int64Value != nil {
		return *pt.Value.Int64Value
	}

	if pt.Value.DoubleValue != nil {
		return int64(math.Round(*pt.Value.DoubleValue))
	}

	return 0
}

func pointDay(pt *monitoring.Point) string {
	if pt == nil || pt.Interval == nil {
		return ""
	}

	stamp := pt.Interval.StartTime
	if stamp == "" {
		stamp = pt.Interval.EndTime
	}

	t, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return ""
	}

	return t.UTC().Format(dateLayout)
}

func resourceLabel(ts *monitoring.TimeSeries, key string) string {
	if ts.Resource != nil && ts.Resource.Labels[key] != "" {
		return ts.Resource.Labels[key]
	}

	if ts.Metric != nil && ts.Metric.Labels[key] != "" {
		return ts.Metric.Labels[key]
	}

	return unknownBucket
}

// responseCodeClass buckets a series into 2xx..5xx from its response_code_class or
// response_code label. Anything else is "other".
func responseCodeClass(ts *monitoring.TimeSeries) string {
	if ts.Metric == nil {
		return otherCodes
	}

	code := ts.Metric.Labels["response_code_class"]
	if code == "" {
		code = ts.Metric.Labels["response_code"]
	}

	if len(code) == 0 {
		return otherCodes
	}

	switch code[0] {
	case '2', '3', '4', '5':
		return code[:1] + "xx"
	default:
		return otherCodes
	}
}
