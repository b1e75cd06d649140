package main

import (
	"github.com/repolens/repolens/api"
	"github.com/repolens/repolens/db"
	"github.com/repolens/repolens/libs/redcache"
	"github.com/repolens/repolens/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			logger.New,
		),
		fx.Decorate(func(l *zap.Logger) *zap.Logger {
			return l.With(zap.String("service", "repolens"))
		}),
		fx.Invoke(
			db.Init,
			redcache.Init,
			api.Run,
		),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{
				Logger: l,
			}
		}),
	).Run()
}
