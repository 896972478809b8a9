package model

import "time"

// User is a participant of the approval pipeline.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	Name         string
	Department   string
	Active       bool
	CreatedAt    time.Time
}

// Identity carries the authenticated caller through a single request. It is
// passed explicitly into every core operation; nothing reads it from
// ambient state.
type Identity struct {
	ID   int64
	Role Role
	Name string
}

// IdentityOf builds the request-scoped identity for a user.
func IdentityOf(u *User) Identity {
	return Identity{ID: u.ID, Role: u.Role, Name: u.Name}
}
