package handlers

import (
	"context"

	"github.com/kavim-app/kavim/internal/models"
)

// RouteProvider abstracts route building for testability.
type RouteProvider interface {
	GetRoute(ctx context.Context, origin, destination string) (*models.RouteResult, error)
}
