package application

import "github.com/google/wire"

// ProviderSet is the wire provider set for the role services
var ProviderSet = wire.NewSet(
	NewAssignmentService,
	NewBulkCoordinator,
	NewQueryService,
)
