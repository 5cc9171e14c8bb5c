package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/praveshhq/pravesh/core/degreeform"
)

type degreeFormRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	CreatedBy   string    `db:"created_by"`
	ActiveFrom  time.Time `db:"active_from"`
	LastDate    time.Time `db:"last_date"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func packForm(form degreeform.DegreeForm) degreeFormRow {
	return degreeFormRow(form)
}

func unpackForm(row degreeFormRow) degreeform.DegreeForm {
	return degreeform.DegreeForm(row)
}

type degreeFormRepository struct {
	db *sqlx.DB
}

var _ degreeform.Repository = (*degreeFormRepository)(nil) // interface compliance check

func NewDegreeFormRepository(db *sqlx.DB) *degreeFormRepository {
	return &degreeFormRepository{db: db}
}

func (repo degreeFormRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return degreeform.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo degreeFormRepository) CheckTitleUniqueness(ctx context.Context, title string, excludedIDs ...string) error {
	query := `SELECT EXISTS (SELECT 1 FROM degree_form WHERE LOWER(title) = LOWER(?)`
	args := []interface{}{title}
	if len(excludedIDs) > 0 {
		q, qargs, err := sqlx.In(` AND id NOT IN (?)`, excludedIDs)
		if err != nil {
			return errors.Wrap(err, "checking title uniqueness")
		}
		query += q
		args = append(args, qargs...)
	}
	query += `)`

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking title uniqueness")
	}
	if exists {
		return degreeform.ErrTitleExists
	}
	return nil
}

func (repo degreeFormRepository) CreateForm(ctx context.Context, form degreeform.DegreeForm) (degreeform.DegreeForm, error) {
	form.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO degree_form (id, title, description, created_by, active_from, last_date, created_at, updated_at)
		VALUES (:id, :title, :description, :created_by, :active_from, :last_date, :created_at, :updated_at)`,
		packForm(form),
	)
	if err != nil {
		return degreeform.DegreeForm{}, errors.Wrap(err, "inserting degree form")
	}
	return form, nil
}

func (repo degreeFormRepository) GetFormByID(ctx context.Context, id string) (degreeform.DegreeForm, error) {
	var row degreeFormRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM degree_form WHERE id = $1`, id)
	if err != nil {
		return degreeform.DegreeForm{}, repo.trapNoRowsErr(err, "getting degree form")
	}
	return unpackForm(row), nil
}

func (repo degreeFormRepository) QueryAllForms(ctx context.Context) ([]degreeform.DegreeForm, error) {
	var rows []degreeFormRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM degree_form ORDER BY active_from, created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "querying degree forms")
	}
	forms := make([]degreeform.DegreeForm, 0, len(rows))
	for _, row := range rows {
		forms = append(forms, unpackForm(row))
	}
	return forms, nil
}

func (repo degreeFormRepository) UpdateForm(ctx context.Context, form degreeform.DegreeForm) (degreeform.DegreeForm, error) {
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE degree_form
		SET title = :title, description = :description, active_from = :active_from,
		    last_date = :last_date, updated_at = :updated_at
		WHERE id = :id`,
		packForm(form),
	)
	if err != nil {
		return degreeform.DegreeForm{}, errors.Wrap(err, "updating degree form")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return degreeform.DegreeForm{}, degreeform.ErrNotFound
	}
	return form, nil
}

func (repo degreeFormRepository) DeleteFormCascade(ctx context.Context, id string) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "deleting degree form")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `DELETE FROM submission WHERE degree_form_id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting form submissions")
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM degree_form WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting degree form")
	}
	return errors.Wrap(tx.Commit(), "deleting degree form")
}
