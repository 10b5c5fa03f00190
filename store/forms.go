package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/lestrrat-go/backoff/v2"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/mbolis/quick-forms/ident"
	"github.com/mbolis/quick-forms/model"
)

// FormStore persists form versions. It is a stateless service around a
// database handle so tests can point it at a throwaway database.
type FormStore struct {
	db *sql.DB
}

func NewFormStore(db *sql.DB) *FormStore {
	return &FormStore{db}
}

// FormInput is the client payload for creating or editing a form.
type FormInput struct {
	FormKey     string            `json:"formKey,omitempty"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Fields      []model.FormField `json:"fields"`
}

func (in FormInput) Validate() error {
	var errs *multierror.Error
	if strings.TrimSpace(in.Title) == "" {
		errs = multierror.Append(errs, errors.New("title is required"))
	}
	if in.Fields == nil {
		errs = multierror.Append(errs, errors.New("fields are required"))
	}
	seen := make(map[string]bool, len(in.Fields))
	for i, f := range in.Fields {
		switch {
		case f.Name == "":
			errs = multierror.Append(errs, errors.Errorf("fields[%d]: name is required", i))
		case seen[f.Name]:
			errs = multierror.Append(errs, errors.Errorf("fields[%d]: duplicate name %q", i, f.Name))
		}
		seen[f.Name] = true

		if f.Label == "" {
			errs = multierror.Append(errs, errors.Errorf("fields[%d]: label is required", i))
		}
		if !model.ValidFieldType(f.Type) {
			errs = multierror.Append(errs, errors.Errorf("fields[%d]: unknown type %q", i, f.Type))
		}
	}
	return validation(errs)
}

// CreateInitialVersion writes version 1 of a new logical form, minting
// a form key when the caller did not supply one.
func (s *FormStore) CreateInitialVersion(ctx context.Context, in FormInput) (model.FormVersion, error) {
	if err := in.Validate(); err != nil {
		return model.FormVersion{}, err
	}

	formKey := in.FormKey
	if formKey == "" {
		formKey = ident.New()
	}

	form, err := s.insertVersion(ctx, formKey, 1, in)
	if err != nil {
		return model.FormVersion{}, errors.Wrap(err, "insert initial version")
	}
	return form, nil
}

// Retry policy for the append race: two edits may read the same max
// version and collide on UNIQUE(form_key, version); the loser backs off
// and recomputes.
var versionConflictPolicy = backoff.Exponential(
	backoff.WithMinInterval(5*time.Millisecond),
	backoff.WithMaxInterval(100*time.Millisecond),
	backoff.WithJitterFactor(0.05),
	backoff.WithMaxRetries(5),
)

// CreateNextVersion appends a brand-new immutable version to the chain
// of the logical form that owns existingID. The source record is never
// touched; the new record gets version max+1 and its own id.
func (s *FormStore) CreateNextVersion(ctx context.Context, existingID string, in FormInput) (model.FormVersion, error) {
	if err := in.Validate(); err != nil {
		return model.FormVersion{}, err
	}

	src, err := s.GetByID(ctx, existingID)
	if err != nil {
		return model.FormVersion{}, err
	}

	retry := versionConflictPolicy.Start(ctx)
	for backoff.Continue(retry) {
		max, err := s.MaxVersionFor(ctx, src.FormKey)
		if err != nil {
			return model.FormVersion{}, err
		}

		form, err := s.insertVersion(ctx, src.FormKey, max+1, in)
		if isVersionConflict(err) {
			// a concurrent edit took this number, recompute
			continue
		}
		if err != nil {
			return model.FormVersion{}, errors.Wrap(err, "insert next version")
		}
		return form, nil
	}
	return model.FormVersion{}, errors.New("form version conflict: retries exhausted")
}

func isVersionConflict(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func (s *FormStore) insertVersion(ctx context.Context, formKey string, version int, in FormInput) (model.FormVersion, error) {
	fieldsJson, err := json.Marshal(in.Fields)
	if err != nil {
		return model.FormVersion{}, errors.Wrap(err, "encode fields")
	}

	now := time.Now().UTC()
	form := model.FormVersion{
		ID:          ident.New(),
		FormKey:     formKey,
		Version:     version,
		Title:       in.Title,
		Description: in.Description,
		Fields:      in.Fields,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO form_version (id, form_key, version, title, description, fields, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		form.ID,
		form.FormKey,
		form.Version,
		form.Title,
		form.Description,
		string(fieldsJson),
		form.CreatedAt,
		form.UpdatedAt,
	)
	if err != nil {
		return model.FormVersion{}, err
	}
	return form, nil
}

func (s *FormStore) GetByID(ctx context.Context, id string) (model.FormVersion, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, form_key, version, title, description, fields, created_at, updated_at
		FROM form_version
		WHERE id = ?`,
		id,
	)
	return scanFormVersion(row)
}

// GetAll returns every stored version of every logical form. Row order
// carries no meaning: callers must re-sort (see model.LatestByKey and
// model.VersionsForKey).
func (s *FormStore) GetAll(ctx context.Context) ([]model.FormVersion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, form_key, version, title, description, fields, created_at, updated_at
		FROM form_version`)
	if err != nil {
		return nil, errors.Wrap(err, "query form versions")
	}
	defer rows.Close()

	forms := []model.FormVersion{}
	for rows.Next() {
		form, err := scanFormVersion(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, errors.Wrap(rows.Err(), "iterate form versions")
}

// DeleteByID removes exactly one version. Sibling versions and
// submissions referencing the deleted id are left alone.
func (s *FormStore) DeleteByID(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM form_version WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete form version")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete form version: rows affected")
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}

// MaxVersionFor reads the current top of a logical form's chain, or 0
// when the key has no versions yet. Always computed fresh: concurrent
// edits must observe the latest count.
func (s *FormStore) MaxVersionFor(ctx context.Context, formKey string) (int, error) {
	var max int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM form_version WHERE form_key = ?`,
		formKey,
	).Scan(&max)
	if err != nil {
		return 0, errors.Wrap(err, "query max version")
	}
	return max, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFormVersion(row rowScanner) (model.FormVersion, error) {
	form := model.FormVersion{}
	var fieldsJson string
	err := row.Scan(
		&form.ID, &form.FormKey, &form.Version,
		&form.Title, &form.Description, &fieldsJson,
		&form.CreatedAt, &form.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return form, ErrNotFound
	}
	if err != nil {
		return form, errors.Wrap(err, "scan form version")
	}

	err = json.Unmarshal([]byte(fieldsJson), &form.Fields)
	if err != nil {
		return form, errors.Wrap(err, "decode fields")
	}
	return form, nil
}
