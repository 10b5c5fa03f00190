package routes

import (
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/httpx"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)
	root.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	root.Get("/health", Health(app))
	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Route("/forms", func(r chi.Router) {
		// form versions
		r.Post("/", CreateForm(app))
		r.Get("/", ListForms(app))
		r.Get("/latest", ListLatestForms(app))
		r.Get("/keys/{formKey}/versions", ListFormVersions(app))
		r.Get("/{id}", GetFormById(app))
		r.Put("/{id}", EditForm(app))
		r.Delete("/{id}", DeleteFormVersion(app))

		// submissions against one form version
		r.Post("/{id}/submissions", SubmitForm(app))
		r.Get("/{id}/submissions", ListSubmissions(app))
		r.Get("/{id}/submissions/{submissionId}", GetSubmission(app))
		r.Put("/{id}/submissions/{submissionId}", UpdateSubmission(app))
	})

	return api
}

func Health(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := app.PingContext(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "health.db_ping", err)
			return
		}
		render.JSON(w, r, map[string]any{"status": "ok"})
	}
}
