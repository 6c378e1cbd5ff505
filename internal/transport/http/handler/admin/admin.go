// Package admin implements the usage and log inspection endpoints.
package admin

import "github.com/tutorgate/tutorgate/internal/storage"

// Handlers holds dependencies for admin endpoints.
type Handlers struct {
	Storage storage.Storage
}

// New creates a new instance of admin handlers.
func New(store storage.Storage) *Handlers {
	return &Handlers{Storage: store}
}
