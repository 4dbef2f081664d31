//go:build unix

package sigward

import "log/slog"

// Option configures a [Registry] at construction.
type Option func(*Registry)

// WithLogger sets the logger used to report restore conflicts and delivery
// failures when no dedicated hook is installed. The default logger discards
// everything.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithConflictHandler routes restore conflicts (see [Conflict]) to fn
// instead of the logger.
func WithConflictHandler(fn func(Conflict)) Option {
	return func(r *Registry) { r.onConflict = fn }
}

// WithDeliveryErrorHandler routes aggregated handler-chain failures and
// bridge scheduling failures to fn instead of the logger.
func WithDeliveryErrorHandler(fn func(Signal, error)) Option {
	return func(r *Registry) { r.onDelivery = fn }
}
