package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/samandr77/microservices/condo/docs" //nolint:revive,nolintlint
)

func NewRouter(h *Handler, mw *Middleware) http.Handler {
	router := chi.NewRouter()

	router.Use(mw.Log, mw.Recover, mw.Cors)

	router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Get("/health", h.Health)
			r.Get("/swagger/*", httpSwagger.WrapHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.BearerAuth)

			r.Get("/session", h.Session)

			r.Get("/users", h.Users)
			r.Patch("/users/{id}", h.UpdateUser)
			r.Post("/users/{id}/active", h.SetActive)
			r.Put("/users/{id}/role", h.ChangeRole)
			r.Post("/users/{id}/owner", h.ReassignOwner)

			r.Post("/faces/verify", h.Verify)
			r.Post("/faces/enroll", h.Enroll)
			r.Delete("/faces/enroll/{id}", h.DeleteEnrollment)
			r.Get("/faces/status/{id}", h.EnrollmentStatus)

			r.Post("/security/recognize", h.Recognize)

			r.Post("/staging/images", h.StageImage)
			r.Get("/staging/images", h.StagedImages)
			r.Get("/staging/images/{id}", h.StagedImage)
			r.Delete("/staging/images/{id}", h.DeleteStagedImage)
		})
	})

	router.Route("/internal", func(r chi.Router) {
		r.Use(mw.APIKeyAuth)

		r.Post("/staging/evict", h.EvictStagedImages)
	})

	return router
}
