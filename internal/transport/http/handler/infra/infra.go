// Package infra implements infrastructure endpoints (health, root).
package infra

// Handlers holds dependencies for infrastructure endpoints.
type Handlers struct {
	Version string
}

// New creates a new instance of infra handlers.
func New(version string) *Handlers {
	return &Handlers{Version: version}
}
