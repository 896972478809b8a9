package auth

import (
	"time"

	"github.com/camivel/cuentastrack/internal/domain/model"
)

// Claims is what an auth token carries about its bearer.
type Claims struct {
	UserID int64
	Role   model.Role
}

// Strategy abstracts auth token creation and verification.
type Strategy interface {
	IssueToken(claims Claims) (string, error)
	ParseToken(token string) (Claims, error)
	Name() string
}

// Options tune a token strategy.
type Options struct {
	TTL time.Duration
}
