package storage

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/camivel/cuentastrack/internal/config"
	"github.com/camivel/cuentastrack/internal/domain/repository"
	"github.com/camivel/cuentastrack/internal/storage/file"
	"github.com/camivel/cuentastrack/internal/storage/postgres"
)

type factoryParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

// newFactory picks the storage driver: a PostgreSQL DSN selects the pgx
// backend, otherwise accounts and users live in JSON files under DataDir.
func newFactory(p factoryParams) (repository.Factory, error) {
	if p.Config.DatabaseURI != "" {
		store, err := postgres.New(context.Background(), p.Config.DatabaseURI, p.Logger)
		if err != nil {
			return nil, err
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				store.Close()
				return nil
			},
		})
		p.Logger.Info("storage driver selected", "driver", "postgres")
		return store, nil
	}

	store, err := file.New(p.Config.DataDir, p.Logger)
	if err != nil {
		return nil, err
	}
	p.Logger.Info("storage driver selected", "driver", "file", "dir", p.Config.DataDir)
	return store, nil
}

func newUserRepository(f repository.Factory) repository.UserRepository {
	return f.Users()
}

func newAccountRepository(f repository.Factory) repository.AccountRepository {
	return f.Accounts()
}

// Module wires the storage factory and the domain repositories.
var Module = fx.Options(
	fx.Provide(newFactory),
	fx.Provide(newUserRepository),
	fx.Provide(newAccountRepository),
)
