package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/mbolis/quick-forms/ident"
	"github.com/mbolis/quick-forms/model"
)

// SubmissionStore persists respondent answers. Each submission is bound
// to one form version id and freezes that version's number at create
// time, so later edits to the logical form never rewrite history.
type SubmissionStore struct {
	db *sql.DB
}

func NewSubmissionStore(db *sql.DB) *SubmissionStore {
	return &SubmissionStore{db}
}

// Answers are deliberately an open string map: keys are not cross-checked
// against the form's field list.
type SubmissionInput struct {
	Answers map[string]string `json:"answers"`
}

func (in SubmissionInput) Validate() error {
	var errs *multierror.Error
	if in.Answers == nil {
		errs = multierror.Append(errs, errors.New("answers are required"))
	}
	return validation(errs)
}

// Create resolves the target form version, copies its version number
// into the new submission and persists it. Nothing is written when the
// form version does not exist.
func (s *SubmissionStore) Create(ctx context.Context, formVersionID string, in SubmissionInput) (model.Submission, error) {
	if err := in.Validate(); err != nil {
		return model.Submission{}, err
	}

	var version int
	err := s.db.QueryRowContext(ctx,
		`SELECT version FROM form_version WHERE id = ?`,
		formVersionID,
	).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Submission{}, ErrNotFound
	}
	if err != nil {
		return model.Submission{}, errors.Wrap(err, "resolve form version")
	}

	answersJson, err := json.Marshal(in.Answers)
	if err != nil {
		return model.Submission{}, errors.Wrap(err, "encode answers")
	}

	now := time.Now().UTC()
	sub := model.Submission{
		ID:          ident.New(),
		FormID:      formVersionID,
		FormVersion: version,
		Answers:     in.Answers,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO submission (id, form_id, form_version, answers, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sub.ID,
		sub.FormID,
		sub.FormVersion,
		string(answersJson),
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		return model.Submission{}, errors.Wrap(err, "insert submission")
	}
	return sub, nil
}

// ListForFormVersion returns the submissions made against one form
// version id, most recent first.
func (s *SubmissionStore) ListForFormVersion(ctx context.Context, formVersionID string) ([]model.Submission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, form_id, form_version, answers, created_at, updated_at
		FROM submission
		WHERE form_id = ?
		ORDER BY created_at DESC`,
		formVersionID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "query submissions")
	}
	defer rows.Close()

	subs := []model.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, errors.Wrap(rows.Err(), "iterate submissions")
}

func (s *SubmissionStore) GetOne(ctx context.Context, formVersionID, submissionID string) (model.Submission, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, form_id, form_version, answers, created_at, updated_at
		FROM submission
		WHERE form_id = ? AND id = ?`,
		formVersionID,
		submissionID,
	)
	return scanSubmission(row)
}

// UpdateAnswers replaces a submission's answers in place. The frozen
// form version number is not touched.
func (s *SubmissionStore) UpdateAnswers(ctx context.Context, formVersionID, submissionID string, in SubmissionInput) (model.Submission, error) {
	if err := in.Validate(); err != nil {
		return model.Submission{}, err
	}

	answersJson, err := json.Marshal(in.Answers)
	if err != nil {
		return model.Submission{}, errors.Wrap(err, "encode answers")
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE submission
		SET answers = ?, updated_at = ?
		WHERE form_id = ? AND id = ?`,
		string(answersJson),
		time.Now().UTC(),
		formVersionID,
		submissionID,
	)
	if err != nil {
		return model.Submission{}, errors.Wrap(err, "update submission")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Submission{}, errors.Wrap(err, "update submission: rows affected")
	}
	if n < 1 {
		return model.Submission{}, ErrNotFound
	}

	return s.GetOne(ctx, formVersionID, submissionID)
}

func scanSubmission(row rowScanner) (model.Submission, error) {
	sub := model.Submission{}
	var answersJson string
	err := row.Scan(
		&sub.ID, &sub.FormID, &sub.FormVersion,
		&answersJson, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return sub, ErrNotFound
	}
	if err != nil {
		return sub, errors.Wrap(err, "scan submission")
	}

	err = json.Unmarshal([]byte(answersJson), &sub.Answers)
	if err != nil {
		return sub, errors.Wrap(err, "decode answers")
	}
	return sub, nil
}
