package auth

import (
	"github.com/labstack/echo/v4"
	"github.com/repolens/repolens/api/web"
	"go.uber.org/zap"
)

func Configure(e *echo.Echo, l *zap.Logger) {
	e.GET("/v1/auth/login", web.Wrap(Login, l))
	e.GET("/v1/auth/login/url", web.Wrap(LoginURL, l))
	e.GET("/v1/auth/callback", web.Wrap(Callback, l))
}
