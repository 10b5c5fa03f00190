package app

import (
	"database/sql"

	"github.com/mbolis/quick-forms/config"
	"github.com/mbolis/quick-forms/store"
)

type App struct {
	*sql.DB
	Forms       *store.FormStore
	Submissions *store.SubmissionStore
	config.Config
}

func New(db *sql.DB, cfg config.Config) App {
	return App{
		DB:          db,
		Forms:       store.NewFormStore(db),
		Submissions: store.NewSubmissionStore(db),
		Config:      cfg,
	}
}
