package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/praveshhq/pravesh/core"
)

// Roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var AllRoles = []string{RoleAdmin, RoleUser}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Mobile       string    `json:"mobile_no"`
	Role         string    `json:"role"`
	IsVerified   bool      `json:"is_verified"`
	PasswordHash []byte    `json:"-"`
	OTP          string    `json:"-"`
	OTPExpiresAt time.Time `json:"-"` // zero when no OTP is pending
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NewUser contains information needed to register a new applicant.
type NewUser struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Mobile          string `json:"mobile_no" validate:"required,min=10"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate() error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Mobile = core.CleanString(nu.Mobile)
	return core.Validate.Struct(nu)
}

// VerifyOTP carries the submitted verification code.
type VerifyOTP struct {
	OTP string `json:"otp" validate:"required,len=6,numeric"`
}

func (v *VerifyOTP) Validate() error {
	v.OTP = core.CleanString(v.OTP)
	return core.Validate.Struct(v)
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate() error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return core.Validate.Struct(c)
}

type GrantAdmin struct {
	Email string `json:"email" validate:"required,email"`
}

func (ga *GrantAdmin) Validate() error {
	ga.Email = core.CleanString(ga.Email, true /* lower */)
	return core.Validate.Struct(ga)
}
