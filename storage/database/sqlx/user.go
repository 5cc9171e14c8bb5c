package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/praveshhq/pravesh/core/user"
)

type userRow struct {
	ID           string      `db:"id"`
	Name         string      `db:"name"`
	Email        string      `db:"email"`
	Mobile       string      `db:"mobile"`
	Role         string      `db:"role"`
	IsVerified   bool        `db:"is_verified"`
	PasswordHash []byte      `db:"password_hash"`
	OTP          null.String `db:"otp"`
	OTPExpiresAt null.Time   `db:"otp_expires_at"`
	RefreshToken null.String `db:"refresh_token"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func packUser(usr user.User) userRow {
	return userRow{
		ID:           usr.ID,
		Name:         usr.Name,
		Email:        usr.Email,
		Mobile:       usr.Mobile,
		Role:         usr.Role,
		IsVerified:   usr.IsVerified,
		PasswordHash: usr.PasswordHash,
		OTP:          null.NewString(usr.OTP, usr.OTP != ""),
		OTPExpiresAt: null.NewTime(usr.OTPExpiresAt.UTC(), !usr.OTPExpiresAt.IsZero()),
		RefreshToken: null.NewString(usr.RefreshToken, usr.RefreshToken != ""),
		CreatedAt:    usr.CreatedAt.UTC(),
		UpdatedAt:    usr.UpdatedAt.UTC(),
	}
}

func unpackUser(row userRow) user.User {
	return user.User{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		Mobile:       row.Mobile,
		Role:         row.Role,
		IsVerified:   row.IsVerified,
		PasswordHash: row.PasswordHash,
		OTP:          row.OTP.String,
		OTPExpiresAt: row.OTPExpiresAt.Time,
		RefreshToken: row.RefreshToken.String,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO "user" (id, name, email, mobile, role, is_verified, password_hash, otp, otp_expires_at, refresh_token, created_at, updated_at)
		VALUES (:id, :name, :email, :mobile, :role, :is_verified, :password_hash, :otp, :otp_expires_at, :refresh_token, :created_at, :updated_at)`,
		packUser(usr),
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM "user" WHERE id = $1`, id)
	if err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "getting user by id")
	}
	return unpackUser(row), nil
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM "user" WHERE LOWER(email) = LOWER($1)`, email)
	if err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "getting user by email")
	}
	return unpackUser(row), nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE "user"
		SET name = :name, email = :email, mobile = :mobile, role = :role, is_verified = :is_verified,
		    password_hash = :password_hash, otp = :otp, otp_expires_at = :otp_expires_at,
		    refresh_token = :refresh_token, updated_at = :updated_at
		WHERE id = :id`,
		packUser(usr),
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo userRepository) DeleteUser(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM "user" WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return nil
}

func (repo userRepository) DeleteExpiredUnverified(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := repo.db.ExecContext(ctx,
		`DELETE FROM "user" WHERE is_verified = FALSE AND otp_expires_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, errors.Wrap(err, "reaping unverified users")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "reaping unverified users")
	}
	return int(n), nil
}
