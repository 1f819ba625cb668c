package cache

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/doitintl/hello/gcp-footprint/discovery/domain"
)

var validate = validator.New()

// Entry is the raw discovery result as persisted between reloads. Graphs are never cached,
// they are rebuilt from the entry.
type Entry struct {
	BillingAccounts     []domain.BillingAccount   `json:"billingAccounts" validate:"required,dive"`
	Projects            []domain.ProjectDiscovery `json:"projects" validate:"required,dive"`
	PartialFailureCount int                       `json:"partialFailureCount" validate:"gte=0"`
	Timestamp           time.Time                 `json:"ts" validate:"required"`
}

func NewEntry(result *domain.Result, at time.Time) *Entry {
	e := &Entry{
		BillingAccounts:     result.BillingAccounts,
		Projects:            result.Projects,
		PartialFailureCount: result.PartialFailureCount,
		Timestamp:           at.UTC(),
	}

	if e.BillingAccounts == nil {
		e.BillingAccounts = []domain.BillingAccount{}
	}

	if e.Projects == nil {
		e.Projects = []domain.ProjectDiscovery{}
	}

	return e
}

func (e *Entry) Result() *domain.Result {
	return &domain.Result{
		BillingAccounts:     e.BillingAccounts,
		Projects:            e.Projects,
		PartialFailureCount: e.PartialFailureCount,
	}
}

// Age is how old the entry is at now.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.Timestamp)
}

func Encode(e *Entry) ([]byte, error) {
	if err := validate.Struct(e); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEntry, err)
	}

	return json.Marshal(e)
}

// Decode parses and shape-checks a cached entry. Anything that does not match the shape
// produced by Encode is reported as ErrMalformedEntry.
func Decode(data []byte) (*Entry, error) {
	var e Entry

	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEntry, err)
	}

	if err := validate.Struct(&e); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEntry, err)
	}

	return &e, nil
}
