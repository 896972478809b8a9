package usecase

import (
	"context"
	"fmt"

	domainErrors "github.com/camivel/cuentastrack/internal/domain/errors"
	"github.com/camivel/cuentastrack/internal/domain/model"
	"github.com/camivel/cuentastrack/internal/domain/repository"
	"github.com/camivel/cuentastrack/internal/perm"
	pkgAuth "github.com/camivel/cuentastrack/internal/pkg/auth"
)

// DirectoryUseCase exposes the user directory.
type DirectoryUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
}

// NewDirectoryUseCase constructs DirectoryUseCase.
func NewDirectoryUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher) *DirectoryUseCase {
	return &DirectoryUseCase{users: users, hasher: hasher}
}

// List returns all users; reviewer roles only.
func (u *DirectoryUseCase) List(ctx context.Context, actor model.Identity) ([]model.User, error) {
	if !perm.Allowed(actor.Role, perm.ViewAll) {
		return nil, fmt.Errorf("%w: role %s cannot list users", domainErrors.ErrForbidden, actor.Role)
	}
	return u.users.List(ctx)
}

// Seed creates the demo users when the directory is empty, so a fresh
// install has one user per role to log in with.
func (u *DirectoryUseCase) Seed(ctx context.Context) error {
	existing, err := u.users.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	hash, err := u.hasher.Hash("123")
	if err != nil {
		return err
	}

	seed := []model.User{
		{Username: "admin_epb", Role: model.RoleEPB, Name: "Administrador EPB", Department: "EPB"},
		{Username: "contratista1", Role: model.RoleContractor, Name: "Empresa Constructora S.A."},
		{Username: "supervisor1", Role: model.RoleSupervisor, Name: "Supervisor Calidad", Department: "Calidad"},
		{Username: "general1", Role: model.RoleGeneral, Name: "Secretaría General", Department: "Secretaría General"},
		{Username: "hacienda1", Role: model.RoleTreasury, Name: "Departamento Hacienda", Department: "Hacienda"},
	}
	for i := range seed {
		seed[i].PasswordHash = hash
		seed[i].Active = true
		if _, err := u.users.Create(ctx, &seed[i]); err != nil {
			return err
		}
	}
	return nil
}
