package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/taskhub/taskhub/internal/api/v1"
	"github.com/taskhub/taskhub/internal/api/ws"
	"github.com/taskhub/taskhub/internal/collection"
)

func registerAPIRoutes(api huma.API, coll *collection.Store) {
	v1.RegisterTaskRoutes(api, coll)
	v1.RegisterViewRoutes(api, coll)
	v1.RegisterStatsRoutes(api, coll)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/tasks", hub.ServeTasks)
}
