package application

import "github.com/google/wire"

// ProviderSet is the wire provider set for the audit services
var ProviderSet = wire.NewSet(
	NewRecorder,
	NewService,
)
