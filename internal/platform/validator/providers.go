package validator

import "github.com/google/wire"

// ProviderSet is the wire provider set for the validator
var ProviderSet = wire.NewSet(New)
