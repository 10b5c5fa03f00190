package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/store"
)

func SubmitForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")

		in := store.SubmissionInput{}
		err := render.DecodeJSON(r.Body, &in)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		sub, err := app.Submissions.Create(r.Context(), formId, in)
		if err != nil {
			httpx.LogStoreError(w, "db.insert_submission", formId, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, sub)
	}
}

func ListSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")

		subs, err := app.Submissions.ListForFormVersion(r.Context(), formId)
		if err != nil {
			httpx.LogInternalError(w, "db.get_submissions", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"submissions": subs,
		})
	}
}

func GetSubmission(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")
		submissionId := chi.URLParam(r, "submissionId")

		sub, err := app.Submissions.GetOne(r.Context(), formId, submissionId)
		if err != nil {
			httpx.LogStoreError(w, "db.get_submission", submissionId, err)
			return
		}

		render.JSON(w, r, sub)
	}
}

func UpdateSubmission(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")
		submissionId := chi.URLParam(r, "submissionId")

		in := store.SubmissionInput{}
		err := render.DecodeJSON(r.Body, &in)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		sub, err := app.Submissions.UpdateAnswers(r.Context(), formId, submissionId, in)
		if err != nil {
			httpx.LogStoreError(w, "db.update_submission", submissionId, err)
			return
		}

		render.JSON(w, r, sub)
	}
}
