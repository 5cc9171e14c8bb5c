package sqlxrepos

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/praveshhq/pravesh/core/submission"
)

// jsonBlock round-trips a jsonb column as raw bytes.
type jsonBlock []byte

func (b jsonBlock) Value() (driver.Value, error) {
	if len(b) == 0 {
		return []byte("{}"), nil
	}
	return []byte(b), nil
}

func (b *jsonBlock) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		*b = append((*b)[0:0], v...)
	case string:
		*b = jsonBlock(v)
	case nil:
		*b = nil
	default:
		return fmt.Errorf("unsupported jsonb source %T", src)
	}
	return nil
}

func marshalBlock(v interface{}) (jsonBlock, error) {
	buf, err := json.Marshal(v)
	return jsonBlock(buf), err
}

type submissionRow struct {
	ID                    string    `db:"id"`
	DegreeFormID          string    `db:"degree_form_id"`
	UserID                string    `db:"user_id"`
	DegreeFormTitle       string    `db:"degree_form_title"`
	DegreeFormDescription string    `db:"degree_form_description"`
	PersonalDetails       jsonBlock `db:"personal_details"`
	EducationalDetails    jsonBlock `db:"educational_details"`
	Documents             jsonBlock `db:"documents"`
	BranchPreferences     jsonBlock `db:"branch_preferences"`
	SubmittedAt           time.Time `db:"submitted_at"`
	CreatedAt             time.Time `db:"created_at"`
	UpdatedAt             time.Time `db:"updated_at"`
}

func packSubmission(sub submission.Submission) (submissionRow, error) {
	row := submissionRow{
		ID:                    sub.ID,
		DegreeFormID:          sub.DegreeFormID,
		UserID:                sub.UserID,
		DegreeFormTitle:       sub.DegreeFormTitle,
		DegreeFormDescription: sub.DegreeFormDescription,
		SubmittedAt:           sub.SubmittedAt.UTC(),
		CreatedAt:             sub.CreatedAt.UTC(),
		UpdatedAt:             sub.UpdatedAt.UTC(),
	}
	var err error
	if row.PersonalDetails, err = marshalBlock(sub.PersonalDetails); err != nil {
		return row, errors.Wrap(err, "encoding personal details")
	}
	if row.EducationalDetails, err = marshalBlock(sub.EducationalDetails); err != nil {
		return row, errors.Wrap(err, "encoding educational details")
	}
	if row.Documents, err = marshalBlock(sub.Documents); err != nil {
		return row, errors.Wrap(err, "encoding documents")
	}
	if row.BranchPreferences, err = marshalBlock(sub.BranchPreferences); err != nil {
		return row, errors.Wrap(err, "encoding branch preferences")
	}
	return row, nil
}

func unpackSubmission(row submissionRow) (submission.Submission, error) {
	sub := submission.Submission{
		ID:                    row.ID,
		DegreeFormID:          row.DegreeFormID,
		UserID:                row.UserID,
		DegreeFormTitle:       row.DegreeFormTitle,
		DegreeFormDescription: row.DegreeFormDescription,
		SubmittedAt:           row.SubmittedAt,
		CreatedAt:             row.CreatedAt,
		UpdatedAt:             row.UpdatedAt,
	}
	if err := json.Unmarshal(row.PersonalDetails, &sub.PersonalDetails); err != nil {
		return sub, errors.Wrap(err, "decoding personal details")
	}
	if err := json.Unmarshal(row.EducationalDetails, &sub.EducationalDetails); err != nil {
		return sub, errors.Wrap(err, "decoding educational details")
	}
	if err := json.Unmarshal(row.Documents, &sub.Documents); err != nil {
		return sub, errors.Wrap(err, "decoding documents")
	}
	if err := json.Unmarshal(row.BranchPreferences, &sub.BranchPreferences); err != nil {
		return sub, errors.Wrap(err, "decoding branch preferences")
	}
	return sub, nil
}

type submissionRepository struct {
	db *sqlx.DB
}

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db *sqlx.DB) *submissionRepository {
	return &submissionRepository{db: db}
}

func (repo submissionRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return submission.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo submissionRepository) CreateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	sub.ID = uuid.New().String()
	row, err := packSubmission(sub)
	if err != nil {
		return submission.Submission{}, err
	}
	_, err = repo.db.NamedExecContext(ctx, `
		INSERT INTO submission (id, degree_form_id, user_id, degree_form_title, degree_form_description,
		                        personal_details, educational_details, documents, branch_preferences,
		                        submitted_at, created_at, updated_at)
		VALUES (:id, :degree_form_id, :user_id, :degree_form_title, :degree_form_description,
		        :personal_details, :educational_details, :documents, :branch_preferences,
		        :submitted_at, :created_at, :updated_at)`,
		row,
	)
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "inserting submission")
	}
	return sub, nil
}

func (repo submissionRepository) GetSubmissionByID(ctx context.Context, id string) (submission.Submission, error) {
	var row submissionRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM submission WHERE id = $1`, id)
	if err != nil {
		return submission.Submission{}, repo.trapNoRowsErr(err, "getting submission")
	}
	return unpackSubmission(row)
}

func (repo submissionRepository) GetSubmissionByUserAndForm(ctx context.Context, userID, formID string) (submission.Submission, error) {
	var row submissionRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT * FROM submission WHERE user_id = $1 AND degree_form_id = $2`, userID, formID)
	if err != nil {
		return submission.Submission{}, repo.trapNoRowsErr(err, "getting submission by user and form")
	}
	return unpackSubmission(row)
}

func (repo submissionRepository) QuerySubmissionsByUser(ctx context.Context, userID string) ([]submission.Submission, error) {
	return repo.query(ctx, `SELECT * FROM submission WHERE user_id = $1 ORDER BY submitted_at DESC`, userID)
}

func (repo submissionRepository) QuerySubmissionsByForm(ctx context.Context, formID string) ([]submission.Submission, error) {
	return repo.query(ctx, `SELECT * FROM submission WHERE degree_form_id = $1 ORDER BY submitted_at`, formID)
}

func (repo submissionRepository) query(ctx context.Context, stmt string, arg interface{}) ([]submission.Submission, error) {
	var rows []submissionRow
	if err := repo.db.SelectContext(ctx, &rows, stmt, arg); err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	subs := make([]submission.Submission, 0, len(rows))
	for _, row := range rows {
		sub, err := unpackSubmission(row)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (repo submissionRepository) UpdateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	row, err := packSubmission(sub)
	if err != nil {
		return submission.Submission{}, err
	}
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE submission
		SET personal_details = :personal_details, educational_details = :educational_details,
		    documents = :documents, branch_preferences = :branch_preferences,
		    submitted_at = :submitted_at, updated_at = :updated_at
		WHERE id = :id`,
		row,
	)
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "updating submission")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return submission.Submission{}, submission.ErrNotFound
	}
	return sub, nil
}
