// Package handler groups the HTTP handler dependencies.
package handler

import (
	"github.com/tutorgate/tutorgate/internal/transport/http/handler/admin"
	"github.com/tutorgate/tutorgate/internal/transport/http/handler/infra"
	"github.com/tutorgate/tutorgate/internal/transport/http/handler/study"
)

// Repo aggregates all handler groups.
type Repo struct {
	Study *study.Handlers
	Infra *infra.Handlers
	Admin *admin.Handlers
}

// NewRepo creates a handler repository.
func NewRepo(studyHandlers *study.Handlers, infraHandlers *infra.Handlers, adminHandlers *admin.Handlers) *Repo {
	return &Repo{
		Study: studyHandlers,
		Infra: infraHandlers,
		Admin: adminHandlers,
	}
}
