// Package view carries the "this listing is stale" signal emitted after
// every mutation. The caching layer that consumes the signal lives outside
// this service.
package view

import "go.uber.org/zap"

// Revalidator marks a listing path stale after a mutation.
type Revalidator interface {
	Revalidate(path string)
}

// Paths the admin UI lists entities under.
const (
	PathItems      = "/admin/item"
	PathCategories = "/admin/category"
	PathClients    = "/admin/client"
	PathQuotes     = "/admin/quote"
	PathUsers      = "/admin/user"
)

// LogRevalidator emits the invalidation signal as a log line. It stands in
// for a real cache bus; swapping it out does not touch the domain layer.
type LogRevalidator struct {
	Log *zap.Logger
}

func (r *LogRevalidator) Revalidate(path string) {
	r.Log.Info("listing view stale", zap.String("path", path))
}

// NopRevalidator is used by tests.
type NopRevalidator struct{}

func (NopRevalidator) Revalidate(string) {}
