package reporting

import "go.uber.org/fx"

// Module exposes the reporting service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
