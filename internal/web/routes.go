package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/arkadas/facerec/internal/encodings"
	"github.com/arkadas/facerec/internal/enrollment"
	"github.com/arkadas/facerec/internal/web/handlers"
	"github.com/arkadas/facerec/internal/web/middleware"
)

func (s *Server) setupRoutes(svc *enrollment.Service, store *encodings.Store) {
	faceHandler := handlers.NewFaceHandler(svc, store)

	// Service info and probes (no auth required)
	s.router.Get("/", handlers.ServiceInfo)
	s.router.Get("/api/health", handlers.Health)
	s.router.Get("/api/ready", handlers.Ready)

	s.router.Route("/api/face", func(r chi.Router) {
		r.Post("/match", faceHandler.Match)
		r.Post("/match-file", faceHandler.MatchFile)
		r.Get("/users", faceHandler.ListUsers)

		// Mutating endpoints require the API key when one is configured.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAPIKey(s.config.Server.APIKey))
			r.Post("/encode", faceHandler.Encode)
			r.Post("/encode-file", faceHandler.EncodeFile)
			r.Post("/train", faceHandler.Train)
			r.Delete("/user/{userID}", faceHandler.DeleteUser)
		})
	})
}
