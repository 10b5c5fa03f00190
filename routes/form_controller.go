package routes

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/quick-forms/app"
	"github.com/mbolis/quick-forms/httpx"
	"github.com/mbolis/quick-forms/log"
	"github.com/mbolis/quick-forms/model"
	"github.com/mbolis/quick-forms/store"
)

func CreateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in := store.FormInput{}
		err := render.DecodeJSON(r.Body, &in)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		form, err := app.Forms.CreateInitialVersion(r.Context(), in)
		if err != nil {
			httpx.LogStoreError(w, "db.insert_form_version", in.FormKey, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, form)
	}
}

func ListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forms, err := app.Forms.GetAll(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "db.get_form_versions", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"forms": forms,
		})
	}
}

// One row per logical form, each at its highest version.
func ListLatestForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forms, err := app.Forms.GetAll(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "db.get_form_versions", err)
			return
		}

		latest := []model.FormVersion{}
		for _, form := range model.LatestByKey(forms) {
			latest = append(latest, form)
		}
		sort.Slice(latest, func(i, j int) bool {
			return latest[i].FormKey < latest[j].FormKey
		})

		render.JSON(w, r, map[string]any{
			"forms": latest,
		})
	}
}

// Full version history of one logical form, newest first.
func ListFormVersions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formKey := chi.URLParam(r, "formKey")

		forms, err := app.Forms.GetAll(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "db.get_form_versions", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"versions": model.VersionsForKey(forms, formKey),
		})
	}
}

func GetFormById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")

		form, err := app.Forms.GetByID(r.Context(), formId)
		if err != nil {
			httpx.LogStoreError(w, "db.get_form_version", formId, err)
			return
		}

		render.JSON(w, r, form)
	}
}

// EditForm never updates in place: it appends a new version to the
// logical form that owns the addressed record.
func EditForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")

		in := store.FormInput{}
		err := render.DecodeJSON(r.Body, &in)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		form, err := app.Forms.CreateNextVersion(r.Context(), formId, in)
		if err != nil {
			httpx.LogStoreError(w, "db.insert_next_version", formId, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, form)
	}
}

func DeleteFormVersion(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formId := chi.URLParam(r, "id")

		err := app.Forms.DeleteByID(r.Context(), formId)
		if err != nil {
			httpx.LogStoreError(w, "db.delete_form_version", formId, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
