package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"go.uber.org/fx/fxtest"

	"github.com/camivel/cuentastrack/internal/config"
	"github.com/camivel/cuentastrack/internal/domain/model"
	"github.com/camivel/cuentastrack/internal/storage/file"
)

func TestNewFactorySelectsFileDriver(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	factory, err := newFactory(factoryParams{
		Lifecycle: lc,
		Config:    &config.Config{DataDir: t.TempDir()},
		Logger:    logger,
	})
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}
	if _, ok := factory.(*file.Storage); !ok {
		t.Fatalf("factory = %T, want file storage", factory)
	}

	users := newUserRepository(factory)
	created, err := users.Create(context.Background(), &model.User{
		Username: "contratista1", PasswordHash: "x", Role: model.RoleContractor,
		Name: "Empresa Constructora S.A.", Active: true,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected assigned user id")
	}
	if accounts := newAccountRepository(factory); accounts == nil {
		t.Error("expected account repository")
	}

	if err := lc.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := lc.Stop(context.Background()); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
}

func TestNewFactoryFailsOnUnreachableDatabase(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	_, err := newFactory(factoryParams{
		Lifecycle: lc,
		Config:    &config.Config{DatabaseURI: "not-a-dsn"},
		Logger:    logger,
	})
	if err == nil {
		t.Fatal("expected error for invalid DSN")
	}
}
