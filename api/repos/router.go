package repos

import (
	"github.com/labstack/echo/v4"
	"github.com/repolens/repolens/api/web"
	"go.uber.org/zap"
)

func Configure(e *echo.Echo, l *zap.Logger) {
	e.GET("/v1/repos", web.Wrap(List, l))
}
