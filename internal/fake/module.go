package fake

import "go.uber.org/fx"

// Module wires the fake data generator for dependency injection.
var Module = fx.Provide(New)
