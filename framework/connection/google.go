package connection

import (
	"context"
	"errors"

	"google.golang.org/api/apikeys/v2"
	"google.golang.org/api/cloudbilling/v1"
	"google.golang.org/api/cloudresourcemanager/v1"
	"google.golang.org/api/iam/v1"
	"google.golang.org/api/monitoring/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/serviceusage/v1"

	"github.com/doitintl/hello/gcp-footprint/logger"
)

var ErrGoogleClientInitialization = errors.New("google api client initialization error")

// GoogleClient groups the REST services discovery reads from.
type GoogleClient struct {
	Billing         *cloudbilling.APIService
	ResourceManager *cloudresourcemanager.Service
	APIKeys         *apikeys.Service
	ServiceUsage    *serviceusage.Service
	IAM             *iam.Service
	Monitoring      *monitoring.Service
}

func NewGoogleClient(ctx context.Context, log *logger.Logging, opts ...option.ClientOption) (*GoogleClient, error) {
	l := log.Logger(ctx)

	fail := func(api string, err error) (*GoogleClient, error) {
		l.Errorf("%s: %s: %s", ErrGoogleClientInitialization, api, err)
		return nil, ErrGoogleClientInitialization
	}

	billing, err := cloudbilling.NewService(ctx, opts...)
	if err != nil {
		return fail("cloudbilling", err)
	}

	crm, err := cloudresourcemanager.NewService(ctx, opts...)
	if err != nil {
		return fail("cloudresourcemanager", err)
	}

	keys, err := apikeys.NewService(ctx, opts...)
	if err != nil {
		return fail("apikeys", err)
	}

	su, err := serviceusage.NewService(ctx, opts...)
	if err != nil {
		return fail("serviceusage", err)
	}

	iamSvc, err := iam.NewService(ctx, opts...)
	if err != nil {
		return fail("iam", err)
	}

	mon, err := monitoring.NewService(ctx, opts...)
	if err != nil {
		return fail("monitoring", err)
	}

	return &GoogleClient{
		Billing:         billing,
		ResourceManager: crm,
		APIKeys:         keys,
		ServiceUsage:    su,
		IAM:             iamSvc,
		Monitoring:      mon,
	}, nil
}
