package store_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mbolis/quick-forms/config"
	"github.com/mbolis/quick-forms/database"
	"github.com/mbolis/quick-forms/model"
	"github.com/mbolis/quick-forms/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(config.Config{
		DBUrl: filepath.Join(t.TempDir(), "test.sqlite"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func textField(name, label string) model.FormField {
	return model.FormField{Name: name, Label: label, Type: model.FieldText}
}

func validInput(title string, fields ...model.FormField) store.FormInput {
	if fields == nil {
		fields = []model.FormField{textField("q0", "Name?")}
	}
	return store.FormInput{Title: title, Fields: fields}
}
