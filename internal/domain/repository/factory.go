package repository

// Factory describes access to the domain repositories of a storage driver.
type Factory interface {
	Users() UserRepository
	Accounts() AccountRepository
}
