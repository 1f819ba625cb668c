//go:generate mockery --output=../mocks --all
package iface

import (
	"context"

	"github.com/doitintl/hello/gcp-footprint/auth/service"
)

type AuthService interface {
	SignIn(ctx context.Context, req service.SignInRequest) (*service.SessionInfo, error)
	Refresh(ctx context.Context) (*service.SessionInfo, error)
	SignOut(ctx context.Context) error
	Status(ctx context.Context) *service.SessionInfo
}
