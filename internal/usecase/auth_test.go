package usecase_test

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/camivel/cuentastrack/internal/domain/errors"
	"github.com/camivel/cuentastrack/internal/domain/model"
	pkgAuth "github.com/camivel/cuentastrack/internal/pkg/auth"
	"github.com/camivel/cuentastrack/internal/test"
	"github.com/camivel/cuentastrack/internal/usecase"
)

func newTestAuth(users *test.UserRepositoryStub) *usecase.AuthUseCase {
	strategy := test.StrategyStub{
		IssueFn: func(claims pkgAuth.Claims) (string, error) {
			return "token", nil
		},
	}
	return usecase.NewAuthUseCase(users, test.HasherStub{}, strategy)
}

func TestRegisterCreatesActiveUser(t *testing.T) {
	users := test.NewUserRepositoryStub()
	auth := newTestAuth(users)

	user, token, err := auth.Register(context.Background(), usecase.RegisterInput{
		Username: "contratista1",
		Password: "secret",
		Role:     model.RoleContractor,
		Name:     "Empresa Constructora S.A.",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token != "token" {
		t.Errorf("token = %q", token)
	}
	if !user.Active {
		t.Error("new users must be active")
	}
	if user.PasswordHash != "hash:secret" {
		t.Errorf("hash = %q", user.PasswordHash)
	}
}

func TestRegisterValidation(t *testing.T) {
	auth := newTestAuth(test.NewUserRepositoryStub())

	cases := []usecase.RegisterInput{
		{Password: "p", Role: model.RoleContractor, Name: "n"},
		{Username: "u", Role: model.RoleContractor, Name: "n"},
		{Username: "u", Password: "p", Role: model.RoleContractor},
		{Username: "u", Password: "p", Role: "manager", Name: "n"},
	}
	for _, in := range cases {
		if _, _, err := auth.Register(context.Background(), in); !errors.Is(err, domainErrors.ErrValidation) {
			t.Errorf("input %+v: err = %v, want ErrValidation", in, err)
		}
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	users := test.NewUserRepositoryStub(
		model.User{ID: 1, Username: "taken", Role: model.RoleEPB, Active: true},
	)
	auth := newTestAuth(users)

	_, _, err := auth.Register(context.Background(), usecase.RegisterInput{
		Username: "taken", Password: "p", Role: model.RoleContractor, Name: "n",
	})
	if !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestAuthenticate(t *testing.T) {
	users := test.NewUserRepositoryStub(
		model.User{ID: 1, Username: "admin_epb", PasswordHash: "hash:123", Role: model.RoleEPB, Name: "Administrador EPB", Active: true},
		model.User{ID: 2, Username: "inactive", PasswordHash: "hash:123", Role: model.RoleEPB, Active: false},
	)
	auth := newTestAuth(users)
	ctx := context.Background()

	user, token, err := auth.Authenticate(ctx, "admin_epb", "123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != 1 || token == "" {
		t.Errorf("user = %+v, token = %q", user, token)
	}

	if _, _, err := auth.Authenticate(ctx, "admin_epb", "wrong"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, _, err := auth.Authenticate(ctx, "ghost", "123"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Errorf("unknown user: err = %v", err)
	}
	if _, _, err := auth.Authenticate(ctx, "inactive", "123"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Errorf("inactive user: err = %v", err)
	}
}

func TestIdentifyReadsDirectoryRole(t *testing.T) {
	users := test.NewUserRepositoryStub(
		model.User{ID: 1, Username: "admin_epb", Role: model.RoleEPB, Name: "Administrador EPB", Active: true},
	)
	strategy := test.StrategyStub{
		ParseFn: func(token string) (pkgAuth.Claims, error) {
			if token != "good" {
				return pkgAuth.Claims{}, pkgAuth.ErrInvalidToken
			}
			// Stale role claim: the directory stays authoritative.
			return pkgAuth.Claims{UserID: 1, Role: model.RoleContractor}, nil
		},
	}
	auth := usecase.NewAuthUseCase(users, test.HasherStub{}, strategy)
	ctx := context.Background()

	identity, err := auth.Identify(ctx, "good")
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if identity.Role != model.RoleEPB {
		t.Errorf("role = %s, want the directory role", identity.Role)
	}

	if _, err := auth.Identify(ctx, "bad"); !errors.Is(err, pkgAuth.ErrInvalidToken) {
		t.Errorf("bad token: err = %v", err)
	}
	if _, err := auth.Identify(ctx, ""); !errors.Is(err, pkgAuth.ErrInvalidToken) {
		t.Errorf("empty token: err = %v", err)
	}

	users.ByID[1].Active = false
	if _, err := auth.Identify(ctx, "good"); !errors.Is(err, pkgAuth.ErrInvalidToken) {
		t.Errorf("deactivated user: err = %v", err)
	}
}
