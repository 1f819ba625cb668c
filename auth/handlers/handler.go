package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/doitintl/hello/gcp-footprint/auth"
	"github.com/doitintl/hello/gcp-footprint/auth/service"
	"github.com/doitintl/hello/gcp-footprint/auth/service/iface"
	"github.com/doitintl/hello/gcp-footprint/framework/connection"
	"github.com/doitintl/hello/gcp-footprint/framework/web"
	"github.com/doitintl/hello/gcp-footprint/logger"
)

const sessionExpiredKind = "session_expired"

type Auth struct {
	loggerProvider logger.Provider
	service        iface.AuthService
}

func NewAuth(log logger.Provider, conn *connection.Connection, hooks ...service.SignOutHook) *Auth {
	s := service.NewAuthService(log, conn.Tokens, hooks...)

	return &Auth{
		log,
		s,
	}
}

// Session reports whether a usable credential is held.
func (a *Auth) Session(ctx *gin.Context) error {
	return web.Respond(ctx, a.service.Status(ctx), http.StatusOK)
}

// SignIn stores a token obtained through the browser consent flow.
func (a *Auth) SignIn(ctx *gin.Context) error {
	var req service.SignInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	info, err := a.service.SignIn(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidExpiry) {
			return web.NewRequestError(err, http.StatusBadRequest)
		}

		return web.NewRequestError(err, http.StatusInternalServerError)
	}

	return web.Respond(ctx, info, http.StatusOK)
}

// Refresh signs in through the developer proxy or application default credentials.
func (a *Auth) Refresh(ctx *gin.Context) error {
	info, err := a.service.Refresh(ctx)
	if err != nil {
		if auth.IsSessionExpired(err) {
			return web.NewKindError(err, http.StatusUnauthorized, sessionExpiredKind)
		}

		return web.NewRequestError(err, http.StatusInternalServerError)
	}

	return web.Respond(ctx, info, http.StatusOK)
}

func (a *Auth) SignOut(ctx *gin.Context) error {
	l := a.loggerProvider(ctx)

	if err := a.service.SignOut(ctx); err != nil {
		// the credential is gone either way; cleanup failures are only logged
		l.Warningf("sign out: %s", err)
	}

	return web.Respond(ctx, nil, http.StatusNoContent)
}
