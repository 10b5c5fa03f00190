package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbolis/quick-forms/model"
	"github.com/mbolis/quick-forms/store"
)

func TestCreateInitialVersion(t *testing.T) {
	forms := store.NewFormStore(testDB(t))
	ctx := context.Background()

	form, err := forms.CreateInitialVersion(ctx, validInput("Survey"))
	require.NoError(t, err)

	assert.NotEmpty(t, form.ID)
	assert.NotEmpty(t, form.FormKey)
	assert.Equal(t, 1, form.Version)
	assert.Equal(t, "Survey", form.Title)
	assert.Equal(t, []model.FormField{textField("q0", "Name?")}, form.Fields)
	assert.False(t, form.CreatedAt.IsZero())

	stored, err := forms.GetByID(ctx, form.ID)
	require.NoError(t, err)
	assert.Equal(t, form.FormKey, stored.FormKey)
	assert.Equal(t, form.Fields, stored.Fields)
}

func TestCreateInitialVersion_ExplicitFormKey(t *testing.T) {
	forms := store.NewFormStore(testDB(t))
	ctx := context.Background()

	in := validInput("Survey")
	in.FormKey = "my-key"

	form, err := forms.CreateInitialVersion(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "my-key", form.FormKey)
}

func TestCreateInitialVersion_DuplicateKey(t *testing.T) {
	forms := store.NewFormStore(testDB(t))
	ctx := context.Background()

	in := validInput("Survey")
	in.FormKey = "my-key"

	_, err := forms.CreateInitialVersion(ctx, in)
	require.NoError(t, err)

	// UNIQUE(form_key, version) rejects a second version 1 for the key
	_, err = forms.CreateInitialVersion(ctx, in)
	require.Error(t, err)
	assert.False(t, store.IsValidation(err))
}

func TestCreateInitialVersion_Validation(t *testing.T) {
	forms := store.NewFormStore(testDB(t))
	ctx := context.Background()

	tests := []struct {
		name string
		in   store.FormInput
	}{
		{"missing title", store.FormInput{Fields: []model.FormField{textField("q0", "Name?")}}},
		{"missing fields", store.FormInput{Title: "Survey"}},
		{"field without name", validInput("Survey", model.FormField{Label: "Name?", Type: model.FieldText})},
		{"field without label", validInput("Survey", model.FormField{Name: "q0", Type: model.FieldText})},
		{"unknown field type", validInput("Survey", model.FormField{Name: "q0", Label: "Name?", Type: "date"})},
		{"duplicate field name", validInput("Survey", textField("q0", "Name?"), textField("q0", "Age?"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := forms.CreateInitialVersion(ctx, tt.in)
			assert.True(t, store.IsValidation(err), "expected validation error, got %v", err)
		})
	}

	// nothing touched storage
	all, err := forms.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateNextVersion_GrowsChainWithoutGaps(t *testing.T) {
	forms := store.NewFormStore(testDB(t))
	ctx := context.Background()

	form, err := forms.CreateInitialVersion(ctx, validInput("Survey"))
	require.NoError(t, err)

	const edits = 4
	lastId := form.ID
	for i := 0; i < edits; i++ {
		next, err := forms.CreateNextVersion(ctx, lastId, validInput(fmt.Sprintf("Survey rev %d", i+2)))
		require.NoError(t, err)

		assert.Equal(t, form.FormKey, next.FormKey)
		assert.Equal(t, i+2, next.Version)
		assert.NotEqual(t, lastId, next.ID)
		lastId = next.ID
	}

	all, err := forms.GetAll(ctx)
	require.NoError(t, err)

	versions := map[int]bool{}
	for _, v := range all {
		versions[v.Version] = true
	}
	for want := 1; want <= edits+1; want++ {
		assert.True(t, versions[want], "version %d missing from chain", want)
	}
}

func TestCreateNextVersion_SourceStaysImmutable(t *testing.T) {
	forms := store.NewFormStore(testDB(t))
	ctx := context.Background()

	v1, err := forms.CreateInitialVersion(ctx, validInput("Survey"))
	require.NoError(t, err)

	_, err = forms.CreateNextVersion(ctx, v1.ID, validInput("Renamed",
		textField("q0", "Favorite color?"),
		textField("q1", "Why?"),
	))
	require.NoError(t, err)

	unchanged, err := forms.GetByID(ctx, v1.ID)
	require.NoError(t, err)
	assert.Equal(t, v1.Title, unchanged.Title)
	assert.Equal(t, v1.Fields, unchanged.Fields)
	assert.Equal(t, 1, unchanged.Version)
}

func TestCreateNextVersion_AppendsFromAnyVersion(t *testing.T) {
	forms := store.NewFormStore(testDB(t))
	ctx := context.Background()

	v1, err := forms.CreateInitialVersion(ctx, validInput("Survey"))
	require.NoError(t, err)
	_, err = forms.CreateNextVersion(ctx, v1.ID, validInput("Survey v2"))
	require.NoError(t, err)

	// editing through the old id still appends at the top of the chain
	v3, err := forms.CreateNextVersion(ctx, v1.ID, validInput("Survey v3"))
	require.NoError(t, err)
	assert.Equal(t, 3, v3.Version)
}

func TestCreateNextVersion_NotFound(t *testing.T) {
	forms := store.NewFormStore(testDB(t))

	_, err := forms.CreateNextVersion(context.Background(), "missing", validInput("Survey"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteByID(t *testing.T) {
	forms := store.NewFormStore(testDB(t))
	ctx := context.Background()

	v1, err := forms.CreateInitialVersion(ctx, validInput("Survey"))
	require.NoError(t, err)
	v2, err := forms.CreateNextVersion(ctx, v1.ID, validInput("Survey v2"))
	require.NoError(t, err)

	require.NoError(t, forms.DeleteByID(ctx, v1.ID))

	_, err = forms.GetByID(ctx, v1.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// sibling version untouched
	_, err = forms.GetByID(ctx, v2.ID)
	assert.NoError(t, err)
}

func TestDeleteByID_NotFound(t *testing.T) {
	forms := store.NewFormStore(testDB(t))

	err := forms.DeleteByID(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMaxVersionFor(t *testing.T) {
	forms := store.NewFormStore(testDB(t))
	ctx := context.Background()

	max, err := forms.MaxVersionFor(ctx, "no-such-key")
	require.NoError(t, err)
	assert.Equal(t, 0, max)

	form, err := forms.CreateInitialVersion(ctx, validInput("Survey"))
	require.NoError(t, err)
	_, err = forms.CreateNextVersion(ctx, form.ID, validInput("Survey v2"))
	require.NoError(t, err)

	max, err = forms.MaxVersionFor(ctx, form.FormKey)
	require.NoError(t, err)
	assert.Equal(t, 2, max)
}
