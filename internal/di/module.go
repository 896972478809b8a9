package di

import (
	"go.uber.org/fx"

	"github.com/camivel/cuentastrack/internal/app"
	"github.com/camivel/cuentastrack/internal/config"
	"github.com/camivel/cuentastrack/internal/logger"
	"github.com/camivel/cuentastrack/internal/pkg/auth"
	"github.com/camivel/cuentastrack/internal/server/http/router"
	"github.com/camivel/cuentastrack/internal/storage"
	"github.com/camivel/cuentastrack/internal/usecase"
)

// Module assembles the full application graph; callers may append options
// to override pieces in tests.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		storage.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
