package postgres

import "github.com/google/wire"

// ProviderSet is the wire provider set for the shared database plumbing
var ProviderSet = wire.NewSet(
	NewBaseRepository,
	NewTransactionManager,
)
