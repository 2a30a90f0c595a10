package expiring

import "go.uber.org/fx"

// Module exposes the expiring-subscriptions service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
